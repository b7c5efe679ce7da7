/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
	"time"
)

func snap(unit, data string, ts time.Time) Snapshot {
	return Snapshot{UnitID: unit, Blob: []byte(data), TS: ts}
}

func TestUndoRedoCycle(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	t0 := time.Now()
	m.PushSnapshot(snap("unit_0", "v1", t0))
	m.PushSnapshot(snap("unit_0", "v2", t0.Add(time.Second)))

	s, ok := m.Undo("unit_0")
	if !ok || string(s.Blob) != "v2" {
		t.Fatalf("undo got %q ok=%v", s.Blob, ok)
	}
	s, ok = m.Redo("unit_0")
	if !ok || string(s.Blob) != "v2" {
		t.Fatalf("redo got %q ok=%v", s.Blob, ok)
	}
	if _, ok := m.Undo("other_unit"); ok {
		t.Fatalf("unit stacks must be independent")
	}
}

func TestCoalescingWithinInterval(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Second})
	t0 := time.Now()
	m.PushSnapshot(snap("unit_0", "a", t0))
	m.PushSnapshot(snap("unit_0", "ab", t0.Add(100*time.Millisecond)))
	_, _, count := m.Stats()
	if count != 1 {
		t.Fatalf("rapid pushes must coalesce, have %d", count)
	}
	s, _ := m.Undo("unit_0")
	if string(s.Blob) != "ab" {
		t.Fatalf("coalesced snapshot must keep latest blob, got %q", s.Blob)
	}
}

func TestPushClearsRedo(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	t0 := time.Now()
	m.PushSnapshot(snap("unit_0", "v1", t0))
	m.PushSnapshot(snap("unit_0", "v2", t0.Add(time.Second)))
	m.Undo("unit_0")
	m.PushSnapshot(snap("unit_0", "v3", t0.Add(2*time.Second)))
	if _, ok := m.Redo("unit_0"); ok {
		t.Fatalf("new edit must clear redo")
	}
}

func TestPerUnitDepthCap(t *testing.T) {
	m := NewManager(Config{MaxPerUnit: 2, MinInterval: time.Millisecond})
	t0 := time.Now()
	for i := 0; i < 5; i++ {
		m.PushSnapshot(snap("unit_0", "x", t0.Add(time.Duration(i)*time.Second)))
	}
	_, _, count := m.Stats()
	if count != 2 {
		t.Fatalf("depth cap not enforced: %d", count)
	}
}

func TestGlobalMemoryCapPrunesOldest(t *testing.T) {
	m := NewManager(Config{MaxBytes: 10, MinInterval: time.Millisecond})
	t0 := time.Now()
	m.PushSnapshot(snap("unit_0", "aaaaaa", t0))
	m.PushSnapshot(snap("unit_1", "bbbbbb", t0.Add(time.Second)))
	total, _, _ := m.Stats()
	if total > 10 {
		t.Fatalf("memory cap not enforced: %d", total)
	}
	if _, ok := m.Undo("unit_0"); ok {
		t.Fatalf("oldest snapshot should have been pruned")
	}
	if _, ok := m.Undo("unit_1"); !ok {
		t.Fatalf("newest snapshot should survive")
	}
}

func TestClearUnit(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	m.PushSnapshot(snap("unit_0", "v1", time.Now()))
	m.ClearUnit("unit_0")
	total, units, snaps := m.Stats()
	if total != 0 || units != 0 || snaps != 0 {
		t.Fatalf("clear left state: %d %d %d", total, units, snaps)
	}
}
