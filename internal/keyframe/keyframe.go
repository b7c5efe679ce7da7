/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package keyframe parses and renders the raw keyframe block of an
// animation item. The format is line oriented:
//
//	<part>_<time>s: {x: 10, y: -5, rotation: 90, scale: 1.5}
//
// Parsing is tolerant: lines that do not match the shape are ignored, as
// are properties that are not numeric or not one of the four known names.
package keyframe

import (
	"sort"
	"strconv"
	"strings"
)

// The four animatable properties, in canonical output order.
var propOrder = []string{"x", "y", "rotation", "scale"}

// PartPose is the transform of one named part at one keyframe. Props holds
// only the properties the source line actually set; absent means "leave as
// is" and is preserved through a parse/format round trip.
type PartPose struct {
	Part  string
	Props map[string]float64
}

// Keyframe groups every part posed at the same time. Parts keeps first-seen
// order so formatting is stable.
type Keyframe struct {
	Time  float64
	Parts []*PartPose
}

// Pose returns the pose for a part, or nil.
func (k *Keyframe) Pose(part string) *PartPose {
	for _, p := range k.Parts {
		if p.Part == part {
			return p
		}
	}
	return nil
}

// SetPose replaces the pose of a part wholesale.
func (k *Keyframe) SetPose(part string, props map[string]float64) {
	if p := k.Pose(part); p != nil {
		p.Props = props
		return
	}
	k.Parts = append(k.Parts, &PartPose{Part: part, Props: props})
}

// MergePose folds updates into an existing pose, creating it if needed.
func (k *Keyframe) MergePose(part string, updates map[string]float64) {
	p := k.Pose(part)
	if p == nil {
		p = &PartPose{Part: part, Props: map[string]float64{}}
		k.Parts = append(k.Parts, p)
	}
	if p.Props == nil {
		p.Props = map[string]float64{}
	}
	for prop, v := range updates {
		p.Props[prop] = v
	}
}

// Parse reads a raw block into a sorted keyframe list. The list always
// contains a frame at t=0, even for empty input, so the timeline editor has
// an anchor to scrub from. A part posed twice at the same time keeps the
// later line.
func Parse(src string) []*Keyframe {
	frames := []*Keyframe{{Time: 0}}
	for _, line := range strings.Split(src, "\n") {
		part, timeStr, body, ok := splitHeader(line)
		if !ok {
			continue
		}
		t, ok := parseTime(timeStr)
		if !ok {
			continue
		}
		kf := at(frames, t)
		if kf == nil {
			kf = &Keyframe{Time: t}
			frames = append(frames, kf)
		}
		kf.SetPose(part, parseProps(body))
	}
	sort.SliceStable(frames, func(i, j int) bool { return frames[i].Time < frames[j].Time })
	return frames
}

// splitHeader scans "<part>_<time>s: {<body>}" at the start of a line. The
// split between part and time sits at the rightmost underscore whose suffix
// is a digits-and-dots run ending in "s:", so part names may themselves carry
// underscores and digits ("turret_1_1s" poses turret_1 at t=1). Body runs
// from the first brace to the last brace on the line.
func splitHeader(line string) (part, timeStr, body string, ok bool) {
	for i := len(line) - 1; i > 0; i-- {
		if line[i] != '_' || !isWord(line[:i]) {
			continue
		}
		j := i + 1
		k := j
		for k < len(line) && (isDigit(line[k]) || line[k] == '.') {
			k++
		}
		if k == j || k+1 >= len(line) || line[k] != 's' || line[k+1] != ':' {
			continue
		}
		rest := strings.TrimLeft(line[k+2:], " \t\r\f\v")
		if !strings.HasPrefix(rest, "{") {
			continue
		}
		end := strings.LastIndexByte(rest, '}')
		if end < 1 {
			continue
		}
		return line[:i], line[j:k], rest[1:end], true
	}
	return "", "", "", false
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' && !isDigit(c) && !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// parseTime reads the time token, taking the longest numeric prefix so a
// degenerate token like "1.2.3" still yields 1.2 rather than dropping the
// line.
func parseTime(tok string) (float64, bool) {
	end := 0
	dot := false
	for end < len(tok) {
		if tok[end] == '.' {
			if dot {
				break
			}
			dot = true
		}
		end++
	}
	f, err := strconv.ParseFloat(tok[:end], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func at(frames []*Keyframe, t float64) *Keyframe {
	for _, f := range frames {
		if f.Time == t {
			return f
		}
	}
	return nil
}

func parseProps(s string) map[string]float64 {
	props := map[string]float64{}
	for _, pair := range strings.Split(s, ",") {
		key, val, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		switch key {
		case "x", "y", "rotation", "scale":
		default:
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			continue
		}
		props[key] = f
	}
	return props
}

// PartNames returns every posed part in first-appearance order.
func PartNames(frames []*Keyframe) []string {
	var names []string
	seen := map[string]bool{}
	for _, f := range frames {
		for _, p := range f.Parts {
			if !seen[p.Part] {
				seen[p.Part] = true
				names = append(names, p.Part)
			}
		}
	}
	return names
}

// Format renders frames back into the raw block. Poses with no properties
// produce no line, so the seeded empty t=0 frame vanishes on output. The
// result carries no trailing newline.
func Format(frames []*Keyframe) string {
	var lines []string
	for _, f := range frames {
		for _, p := range f.Parts {
			var props []string
			for _, key := range propOrder {
				if v, ok := p.Props[key]; ok {
					props = append(props, key+": "+formatNum(v))
				}
			}
			if len(props) == 0 {
				continue
			}
			lines = append(lines, p.Part+"_"+formatNum(f.Time)+"s: {"+strings.Join(props, ", ")+"}")
		}
	}
	return strings.Join(lines, "\n")
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
