/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ini

import (
	"strings"
	"testing"

	"rwstudio/internal/domain"
	"rwstudio/internal/schema"
)

func TestFreshUnitOutput(t *testing.T) {
	p := domain.NewProject()
	got := Unit(p.Units[0])

	want := Banner + "\n\n" +
		"[core]\n" +
		"name: Unit1\n" +
		"maxHp: 100\n" +
		"mass: 100\n" +
		"radius: 15\n" +
		"isBio: false\n" +
		"isBuilder: false\n\n" +
		"[graphics]\n" +
		"image: unit.png\n" +
		"total_frames: 1\n\n" +
		"[attack]\n" +
		"canAttack: false\n" +
		"canAttackFlyingUnits: false\n" +
		"canAttackLandUnits: false\n" +
		"canAttackUnderwaterUnits: false\n" +
		"maxAttackRange: 150\n\n" +
		"[movement]\n" +
		"movementType: LAND\n" +
		"moveSpeed: 1\n\n" +
		"[ai]\n" +
		"buildPriority: 0.1\n" +
		"useAsBuilder: false\n" +
		"useAsTransport: false\n\n"

	if got != want {
		t.Fatalf("fresh unit output mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestManifestSkipsEmptyFields(t *testing.T) {
	p := domain.NewProject()
	got := Manifest(p.Manifest)
	want := "[mod]\n" +
		"title: New Project\n" +
		"description: A Rusted Warfare Mod.\n" +
		"tags: units\n" +
		"minVersion: 1.15\n" +
		"id: com.user.mod\n"
	if got != want {
		t.Fatalf("manifest mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
	if strings.Contains(got, "requiredMods") {
		t.Fatalf("empty fields must not be rendered")
	}
}

func TestEmptyValueOmittedAfterClearing(t *testing.T) {
	u := domain.NewUnit("unit_0", "Unit1")
	u.SetField(schema.SectionCore, "maxHp", "")
	got := Unit(u)
	if strings.Contains(got, "maxHp") {
		t.Fatalf("cleared field still rendered:\n%s", got)
	}
}

func TestLegAndCanBuildHeadersArePositional(t *testing.T) {
	u := domain.NewUnit("unit_0", "Unit1")
	u.AddItem(schema.SectionLeg)
	u.AddItem(schema.SectionLeg)
	u.AddItem(schema.SectionLeg)
	u.AddItem(schema.SectionCanBuild)
	got := Unit(u)
	for _, h := range []string{"[leg_1]", "[leg_2]", "[leg_3]", "[canBuild_1]"} {
		if !strings.Contains(got, h) {
			t.Fatalf("missing header %s in:\n%s", h, got)
		}
	}
	// The seeded new_leg_* ids name nothing and must not leak into output.
	if strings.Contains(got, "new_leg") {
		t.Fatalf("leg ids leaked:\n%s", got)
	}
}

func TestNamedHeadersPreferItemID(t *testing.T) {
	u := domain.NewUnit("unit_0", "Unit1")
	a := u.AddItem(schema.SectionAttachment)
	a.Set("id", "mount_a")
	b := u.AddItem(schema.SectionAttachment)
	b.Set("id", "")
	tr := u.AddItem(schema.SectionTurret)
	tr.Set("id", "gun1")
	got := Unit(u)
	for _, h := range []string{"[attachment_mount_a]", "[attachment_2]", "[turret_gun1]"} {
		if !strings.Contains(got, h) {
			t.Fatalf("missing header %s in:\n%s", h, got)
		}
	}
	if strings.Contains(got, "id: gun1") {
		t.Fatalf("id field must be stripped from item body:\n%s", got)
	}
}

func TestKeyframesSplicedRaw(t *testing.T) {
	u := domain.NewUnit("unit_0", "Unit1")
	anim := u.AddItem(schema.SectionAnimation)
	anim.Set("id", "walk")
	anim.Set("onActions", "move")
	anim.Set(schema.KeyframesFieldID, "body_0s: {x: 0}\nbody_0.5s: {x: 10}")
	got := Unit(u)
	if !strings.Contains(got, "[animation_walk]\nonActions: move\nbody_0s: {x: 0}\nbody_0.5s: {x: 10}\n") {
		t.Fatalf("keyframes not spliced verbatim:\n%s", got)
	}
	if strings.Contains(got, "Keyframes:") {
		t.Fatalf("raw block must not be rendered as a key line:\n%s", got)
	}
}

func TestAddThenRemoveRoundTrip(t *testing.T) {
	u := domain.NewUnit("unit_0", "Unit1")
	before := Unit(u)
	u.AddItem(schema.SectionTurret)
	if err := u.RemoveItem(schema.SectionTurret, 0); err != nil {
		t.Fatal(err)
	}
	if after := Unit(u); after != before {
		t.Fatalf("add+remove must restore output:\n--- before ---\n%s\n--- after ---\n%s", before, after)
	}
}

func TestSectionOrderIsFixed(t *testing.T) {
	u := domain.NewUnit("unit_0", "Unit1")
	// Edit sections out of order; output order must not follow edit order.
	u.SetField(schema.SectionAI, "maxGlobal", "50")
	u.SetField(schema.SectionCore, "price", "500")
	got := Unit(u)
	if strings.Index(got, "[core]") > strings.Index(got, "[ai]") {
		t.Fatalf("section order broken:\n%s", got)
	}
}
