/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package keyframe

import (
	"reflect"
	"testing"
)

func TestParseTolerant(t *testing.T) {
	src := "body_0.5s: {x: 10, y: -5}\ngarbage text\nturret_1_1s: {rotation: 90}"
	frames := Parse(src)
	if len(frames) != 3 {
		t.Fatalf("expected seed + 2 frames, got %d", len(frames))
	}
	if frames[0].Time != 0 || len(frames[0].Parts) != 0 {
		t.Fatalf("missing empty seed frame at t=0: %+v", frames[0])
	}
	if frames[1].Time != 0.5 {
		t.Fatalf("frames not sorted: %+v", frames)
	}
	pose := frames[1].Pose("body")
	if pose == nil || pose.Props["x"] != 10 || pose.Props["y"] != -5 {
		t.Fatalf("body pose wrong: %+v", pose)
	}
	if _, ok := pose.Props["rotation"]; ok {
		t.Fatalf("absent property must stay absent")
	}
	// \w+ is greedy, so turret_1 keeps its underscore.
	if frames[2].Pose("turret_1") == nil {
		t.Fatalf("part name with underscore lost: %+v", frames[2])
	}
}

func TestParseMergesSameTime(t *testing.T) {
	frames := Parse("body_1s: {x: 1}\nhead_1s: {y: 2}")
	if len(frames) != 2 {
		t.Fatalf("same-time lines must merge: %+v", frames)
	}
	f := frames[1]
	if f.Pose("body") == nil || f.Pose("head") == nil {
		t.Fatalf("merge lost a part: %+v", f)
	}
}

func TestParseSkipsBadProps(t *testing.T) {
	frames := Parse("body_0s: {x: ten, scale: 2, wobble: 5}")
	pose := frames[0].Pose("body")
	if pose == nil {
		t.Fatalf("line should still parse")
	}
	if !reflect.DeepEqual(pose.Props, map[string]float64{"scale": 2}) {
		t.Fatalf("bad props not skipped: %+v", pose.Props)
	}
}

func TestFormatCanonicalOrderAndRoundTrip(t *testing.T) {
	src := "body_0s: {scale: 1.5, x: 3}\nbody_0.5s: {y: -2, rotation: 45}"
	out := Format(Parse(src))
	want := "body_0s: {x: 3, scale: 1.5}\nbody_0.5s: {y: -2, rotation: 45}"
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}
	// Canonical output is a fixed point.
	if again := Format(Parse(out)); again != out {
		t.Fatalf("not idempotent: %q vs %q", again, out)
	}
}

func TestFormatDropsEmptyPoses(t *testing.T) {
	if out := Format(Parse("")); out != "" {
		t.Fatalf("empty input must format to empty, got %q", out)
	}
}

func TestPartNames(t *testing.T) {
	frames := Parse("body_0s: {x: 1}\nhead_0.5s: {x: 2}\nbody_1s: {x: 3}")
	if got := PartNames(frames); !reflect.DeepEqual(got, []string{"body", "head"}) {
		t.Fatalf("part discovery wrong: %v", got)
	}
}

func TestMergePose(t *testing.T) {
	kf := &Keyframe{Time: 0}
	kf.MergePose("body", map[string]float64{"x": 1})
	kf.MergePose("body", map[string]float64{"y": 2})
	p := kf.Pose("body")
	if p.Props["x"] != 1 || p.Props["y"] != 2 {
		t.Fatalf("merge lost props: %+v", p.Props)
	}
}

func TestSplitHeader(t *testing.T) {
	cases := []struct {
		line string
		part string
		time string
		body string
		ok   bool
	}{
		{"body_0.5s: {x: 10, y: -5}", "body", "0.5", "x: 10, y: -5", true},
		{"turret_1_1s: {rotation: 90}", "turret_1", "1", "rotation: 90", true},
		{"body_0s:{}", "body", "0", "", true},
		{"body_0s: x: 1", "", "", "", false},
		{"body_0s: {x: 1", "", "", "", false},
		{"garbage text", "", "", "", false},
		{"_0s: {x: 1}", "", "", "", false},
		{"body 2_0s: {x: 1}", "", "", "", false},
	}
	for _, c := range cases {
		part, timeStr, body, ok := splitHeader(c.line)
		if ok != c.ok {
			t.Errorf("%q: ok = %v, want %v", c.line, ok, c.ok)
			continue
		}
		if part != c.part || timeStr != c.time || body != c.body {
			t.Errorf("%q: got (%q, %q, %q), want (%q, %q, %q)",
				c.line, part, timeStr, body, c.part, c.time, c.body)
		}
	}
}

func TestParseKeepsNumericTimePrefix(t *testing.T) {
	frames := Parse("body_1.2.3s: {x: 4}")
	if len(frames) != 2 {
		t.Fatalf("expected seed frame plus one, got %d", len(frames))
	}
	if frames[1].Time != 1.2 {
		t.Fatalf("degenerate time token should keep its numeric prefix, got %v", frames[1].Time)
	}
	if p := frames[1].Pose("body"); p == nil || p.Props["x"] != 4 {
		t.Fatalf("pose lost: %+v", p)
	}

	// no numeric prefix at all still drops the line
	frames = Parse("body_..1s: {x: 4}")
	if len(frames) != 1 {
		t.Fatalf("unparseable time should skip the line, got %d frames", len(frames))
	}
}
