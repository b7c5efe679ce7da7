/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"strings"
	"testing"

	"rwstudio/internal/domain"
	"rwstudio/internal/schema"
)

func newUnitWith(section string, n int) *domain.Unit {
	u := domain.NewUnit("unit_0", "Unit1")
	for i := 0; i < n; i++ {
		u.AddItem(section)
	}
	return u
}

func TestLayoutDragInvertsY(t *testing.T) {
	u := newUnitWith(schema.SectionTurret, 1)
	ls, err := NewLayoutSession(u, schema.SectionTurret)
	if err != nil {
		t.Fatal(err)
	}
	if err := ls.Select(0); err != nil {
		t.Fatal(err)
	}
	// Pointer below and right of center on a 400x400 workspace.
	if err := ls.Drag(230, 250, 400, 400); err != nil {
		t.Fatal(err)
	}
	x, y, err := ls.Position()
	if err != nil {
		t.Fatal(err)
	}
	if x != 30 || y != -50 {
		t.Fatalf("got (%d,%d), want (30,-50)", x, y)
	}
}

func TestLayoutDecalUsesOffsetFields(t *testing.T) {
	u := newUnitWith(schema.SectionDecal, 1)
	ls, err := NewLayoutSession(u, schema.SectionDecal)
	if err != nil {
		t.Fatal(err)
	}
	ls.Select(0)
	ls.Drag(210, 190, 400, 400)
	item := ls.Items()[0]
	if item.Value("xOffsetRelative") != "10" || item.Value("yOffsetRelative") != "10" {
		t.Fatalf("decal offsets wrong: %v", item.Fields())
	}
	if item.Has("x") {
		t.Fatalf("decal must not gain x/y fields")
	}
}

func TestLayoutCommitIsAtomic(t *testing.T) {
	u := newUnitWith(schema.SectionTurret, 1)
	ls, _ := NewLayoutSession(u, schema.SectionTurret)
	ls.Select(0)
	ls.SetPosition(5, 7)
	if u.Items(schema.SectionTurret)[0].Has("x") {
		t.Fatalf("edit leaked before commit")
	}
	if err := ls.Commit(); err != nil {
		t.Fatal(err)
	}
	if u.Items(schema.SectionTurret)[0].Value("x") != "5" {
		t.Fatalf("commit did not land")
	}
	if err := ls.SetPosition(1, 1); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestLayoutCancelDiscards(t *testing.T) {
	u := newUnitWith(schema.SectionLeg, 1)
	ls, _ := NewLayoutSession(u, schema.SectionLeg)
	ls.Select(0)
	ls.SetJoint(3, 4)
	ls.Cancel()
	if u.Items(schema.SectionLeg)[0].Has("attach_x") {
		t.Fatalf("cancel leaked edits")
	}
}

func TestLayoutPerKindFields(t *testing.T) {
	u := newUnitWith(schema.SectionTurret, 1)
	ls, _ := NewLayoutSession(u, schema.SectionTurret)
	ls.Select(0)
	if err := ls.SetIdleDir(400); err != nil {
		t.Fatal(err)
	}
	// Angles are stored as given, not normalized.
	if ls.Items()[0].Value("idleDir") != "400" {
		t.Fatalf("idleDir wrong")
	}
	if err := ls.SetJoint(1, 2); err == nil {
		t.Fatalf("joints must be rejected on turrets")
	}
}

func TestLayoutRejectsUnsupportedSection(t *testing.T) {
	u := newUnitWith(schema.SectionProjectile, 1)
	if _, err := NewLayoutSession(u, schema.SectionProjectile); err == nil {
		t.Fatalf("projectile has no layout editor")
	}
}

func TestPreviewEditsAndCommit(t *testing.T) {
	u := newUnitWith(schema.SectionProjectile, 2)
	ps, err := NewPreviewSession(u, schema.SectionProjectile)
	if err != nil {
		t.Fatal(err)
	}
	if ps.Selection() != 0 {
		t.Fatalf("preview should open on the first item")
	}
	if err := ps.SetProp("directDamage", 30); err != nil {
		t.Fatal(err)
	}
	if err := ps.SetProp("noSuchField", 1); err == nil {
		t.Fatalf("unknown field must be rejected")
	}
	if got, _ := ps.Prop("directDamage"); got != 30 {
		t.Fatalf("prop readback %v", got)
	}
	if u.Items(schema.SectionProjectile)[0].Has("directDamage") {
		t.Fatalf("edit leaked before commit")
	}
	if err := ps.Commit(); err != nil {
		t.Fatal(err)
	}
	if u.Items(schema.SectionProjectile)[0].Value("directDamage") != "30" {
		t.Fatalf("commit did not land")
	}
}

func TestTimelineBootstrapAndUpsert(t *testing.T) {
	u := newUnitWith(schema.SectionAnimation, 1)
	u.SetItemField(schema.SectionAnimation, 0, schema.KeyframesFieldID, "wing_0.5s: {x: 10}")
	ts, err := NewTimelineSession(u, 0)
	if err != nil {
		t.Fatal(err)
	}
	parts := ts.Parts()
	if parts[0] != "body" || parts[1] != "turret_1" || parts[len(parts)-1] != "wing" {
		t.Fatalf("parts list wrong: %v", parts)
	}
	if len(ts.Frames()) != 2 {
		t.Fatalf("expected seed + parsed frame, got %d", len(ts.Frames()))
	}

	if err := ts.SelectPart("wing"); err != nil {
		t.Fatal(err)
	}
	ts.SetTime(0.5)
	if err := ts.SetRotation(90); err != nil {
		t.Fatal(err)
	}
	x, _, rot, scale := ts.Pose()
	if x != 10 || rot != 90 || scale != 1 {
		t.Fatalf("pose after merge: x=%v rot=%v scale=%v", x, rot, scale)
	}

	// A new time creates a frame and the list stays sorted.
	ts.SetTime(0.2)
	if err := ts.SetScale(2); err != nil {
		t.Fatal(err)
	}
	frames := ts.Frames()
	if len(frames) != 3 || frames[1].Time != 0.2 {
		t.Fatalf("frames unsorted: %+v", frames)
	}

	if err := ts.Commit(); err != nil {
		t.Fatal(err)
	}
	out := u.Items(schema.SectionAnimation)[0].Value(schema.KeyframesFieldID)
	want := "wing_0.2s: {scale: 2}\nwing_0.5s: {x: 10, rotation: 90}"
	if out != want {
		t.Fatalf("committed block:\n%q\nwant:\n%q", out, want)
	}
}

func TestTimelineClampAndUnknownPart(t *testing.T) {
	u := newUnitWith(schema.SectionAnimation, 1)
	ts, _ := NewTimelineSession(u, 0)
	ts.SetTime(5)
	if ts.Time() != MaxTimelineTime {
		t.Fatalf("time not clamped: %v", ts.Time())
	}
	ts.SetTime(-1)
	if ts.Time() != 0 {
		t.Fatalf("time not clamped at zero: %v", ts.Time())
	}
	if err := ts.SelectPart("nope"); err == nil {
		t.Fatalf("unknown part accepted")
	}
	if err := ts.Update(map[string]float64{"x": 1}); err == nil {
		t.Fatalf("update without part selection must fail")
	}
}

func TestTimelineCancelLeavesFieldUntouched(t *testing.T) {
	u := newUnitWith(schema.SectionAnimation, 1)
	u.SetItemField(schema.SectionAnimation, 0, schema.KeyframesFieldID, "body_1s: {x: 5}")
	ts, _ := NewTimelineSession(u, 0)
	ts.SelectPart("body")
	ts.SetTime(1)
	ts.SetRotation(45)
	ts.Cancel()
	got := u.Items(schema.SectionAnimation)[0].Value(schema.KeyframesFieldID)
	if got != "body_1s: {x: 5}" {
		t.Fatalf("cancel rewrote the block: %q", got)
	}
	if err := ts.Commit(); err != ErrClosed {
		t.Fatalf("expected ErrClosed after cancel, got %v", err)
	}
}

func TestTimelineDragKeepsScreenOrientation(t *testing.T) {
	u := newUnitWith(schema.SectionAnimation, 1)
	ts, _ := NewTimelineSession(u, 0)
	ts.SelectPart("body")
	if err := ts.Drag(230, 250, 400, 400); err != nil {
		t.Fatal(err)
	}
	x, y, _, _ := ts.Pose()
	if x != 30 || y != 50 {
		t.Fatalf("drag pose (%v,%v), want (30,50)", x, y)
	}
	if !strings.Contains(ts.Frames()[0].Pose("body").Part, "body") {
		t.Fatalf("pose landed on wrong part")
	}
}
