/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"errors"
	"fmt"
	"math"

	"rwstudio/internal/domain"
	"rwstudio/internal/keyframe"
	"rwstudio/internal/schema"
)

// MaxTimelineTime bounds the scrubber. The mini-language itself accepts any
// time; the editor just never produces one past this.
const MaxTimelineTime = 2.0

// TimelineSession edits the raw Keyframes block of one animation item. The
// block is parsed once when the session opens; Commit renders the frames
// back through the same mini-language and writes the field on the unit.
type TimelineSession struct {
	unit   *domain.Unit
	index  int
	time   float64
	part   string
	frames []*keyframe.Keyframe
	parts  []string
	closed bool
}

func NewTimelineSession(u *domain.Unit, index int) (*TimelineSession, error) {
	items := u.Items(schema.SectionAnimation)
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("editor: animation index %d out of range (have %d)", index, len(items))
	}
	ts := &TimelineSession{
		unit:  u,
		index: index,
		parts: []string{"body", "turret_1"},
	}
	ts.frames = keyframe.Parse(items[index].Value(schema.KeyframesFieldID))
	for _, name := range keyframe.PartNames(ts.frames) {
		if !ts.hasPart(name) {
			ts.parts = append(ts.parts, name)
		}
	}
	return ts, nil
}

func (ts *TimelineSession) hasPart(name string) bool {
	for _, p := range ts.parts {
		if p == name {
			return true
		}
	}
	return false
}

// Frames exposes the working keyframe list, sorted by time.
func (ts *TimelineSession) Frames() []*keyframe.Keyframe { return ts.frames }

// Parts lists the selectable part names, defaults first then discovered.
func (ts *TimelineSession) Parts() []string { return ts.parts }

func (ts *TimelineSession) Time() float64 { return ts.time }

// SetTime moves the scrubber, clamped to [0, MaxTimelineTime].
func (ts *TimelineSession) SetTime(t float64) error {
	if ts.closed {
		return ErrClosed
	}
	ts.time = math.Min(math.Max(t, 0), MaxTimelineTime)
	return nil
}

// SelectPart picks the part subsequent pose edits apply to.
func (ts *TimelineSession) SelectPart(name string) error {
	if ts.closed {
		return ErrClosed
	}
	if !ts.hasPart(name) {
		return fmt.Errorf("editor: unknown part %q", name)
	}
	ts.part = name
	return nil
}

// Pose returns the selected part's transform at the current time, with
// identity values for anything not keyed.
func (ts *TimelineSession) Pose() (x, y, rotation, scale float64) {
	scale = 1
	kf := ts.frameAt(ts.time)
	if kf == nil || ts.part == "" {
		return
	}
	p := kf.Pose(ts.part)
	if p == nil {
		return
	}
	if v, ok := p.Props["x"]; ok {
		x = v
	}
	if v, ok := p.Props["y"]; ok {
		y = v
	}
	if v, ok := p.Props["rotation"]; ok {
		rotation = v
	}
	if v, ok := p.Props["scale"]; ok {
		scale = v
	}
	return
}

func (ts *TimelineSession) frameAt(t float64) *keyframe.Keyframe {
	for _, f := range ts.frames {
		if f.Time == t {
			return f
		}
	}
	return nil
}

// Update upserts the selected part's pose at the current time: a frame is
// created at this exact time if none exists, and the given properties merge
// into whatever the part already has there.
func (ts *TimelineSession) Update(props map[string]float64) error {
	if ts.closed {
		return ErrClosed
	}
	if ts.part == "" {
		return errors.New("editor: no part selected")
	}
	kf := ts.frameAt(ts.time)
	if kf == nil {
		kf = &keyframe.Keyframe{Time: ts.time}
		ts.frames = append(ts.frames, kf)
		ts.sortFrames()
	}
	kf.MergePose(ts.part, props)
	return nil
}

func (ts *TimelineSession) sortFrames() {
	for i := 1; i < len(ts.frames); i++ {
		for j := i; j > 0 && ts.frames[j-1].Time > ts.frames[j].Time; j-- {
			ts.frames[j-1], ts.frames[j] = ts.frames[j], ts.frames[j-1]
		}
	}
}

// Drag positions the selected part relative to the workspace center. The
// animation workspace keeps screen orientation, unlike the layout editor.
func (ts *TimelineSession) Drag(pointerX, pointerY, width, height float64) error {
	return ts.Update(map[string]float64{
		"x": math.Round(pointerX - width/2),
		"y": math.Round(pointerY - height/2),
	})
}

func (ts *TimelineSession) SetRotation(deg float64) error {
	return ts.Update(map[string]float64{"rotation": deg})
}

func (ts *TimelineSession) SetScale(s float64) error {
	return ts.Update(map[string]float64{"scale": s})
}

// Commit renders the frames back into the item's Keyframes field.
func (ts *TimelineSession) Commit() error {
	if ts.closed {
		return ErrClosed
	}
	ts.closed = true
	return ts.unit.SetItemField(schema.SectionAnimation, ts.index, schema.KeyframesFieldID, keyframe.Format(ts.frames))
}

// Cancel discards the working frames.
func (ts *TimelineSession) Cancel() {
	ts.closed = true
}
