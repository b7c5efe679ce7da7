/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"fmt"
	"strings"

	"rwstudio/internal/schema"
)

// SchemaVersion is the on-disk project file version. Bump when the JSON
// shape changes and add a migration in storage.
const SchemaVersion = 1

// Project is the root of the editable model: one manifest plus any number
// of unit descriptors. It serializes to a human-readable JSON file.
type Project struct {
	SchemaVersion int     `json:"schemaVersion"`
	Manifest      *Record `json:"manifest"`
	Units         []*Unit `json:"units"`
}

// Unit is a single descriptor document. Section data is keyed by section id
// from the registry: singular sections hold one record, multi sections hold
// an ordered list of records.
type Unit struct {
	ID       string               `json:"id"`
	Filename string               `json:"filename"`
	Singular map[string]*Record   `json:"singular"`
	Multi    map[string][]*Record `json:"multi"`
}

// NewProject returns a project with the default manifest and one starter
// unit, matching what a fresh editor session shows.
func NewProject() *Project {
	p := &Project{
		SchemaVersion: SchemaVersion,
		Manifest:      defaultManifest(),
	}
	p.Units = append(p.Units, NewUnit("unit_0", "Unit1"))
	return p
}

// Reset discards all units and the manifest and returns the project to the
// fresh-editor state.
func (p *Project) Reset() {
	p.SchemaVersion = SchemaVersion
	p.Manifest = defaultManifest()
	p.Units = []*Unit{NewUnit("unit_0", "Unit1")}
}

func defaultManifest() *Record {
	m := NewRecord()
	m.Set("title", "New Project")
	m.Set("description", "A Rusted Warfare Mod.")
	m.Set("tags", "units")
	m.Set("minVersion", "1.15")
	m.Set("id", "com.user.mod")
	m.Set("requiredMods", "")
	m.Set("requiredModsMessage", "")
	return m
}

// NewUnit seeds the five singular sections with playable defaults and leaves
// every multi section empty. Filename derives from the name once, at
// creation; later renames keep the original file name.
func NewUnit(id, name string) *Unit {
	u := &Unit{
		ID:       id,
		Filename: DeriveFilename(name),
		Singular: map[string]*Record{},
		Multi:    map[string][]*Record{},
	}

	core := NewRecord()
	core.Set("name", name)
	core.Set("maxHp", "100")
	core.Set("mass", "100")
	core.Set("radius", "15")
	core.Set("isBio", "false")
	core.Set("isBuilder", "false")
	u.Singular[schema.SectionCore] = core

	graphics := NewRecord()
	graphics.Set("image", "unit.png")
	graphics.Set("total_frames", "1")
	u.Singular[schema.SectionGraphics] = graphics

	attack := NewRecord()
	attack.Set("canAttack", "false")
	attack.Set("canAttackFlyingUnits", "false")
	attack.Set("canAttackLandUnits", "false")
	attack.Set("canAttackUnderwaterUnits", "false")
	attack.Set("maxAttackRange", "150")
	u.Singular[schema.SectionAttack] = attack

	movement := NewRecord()
	movement.Set("movementType", "LAND")
	movement.Set("moveSpeed", "1")
	u.Singular[schema.SectionMovement] = movement

	ai := NewRecord()
	ai.Set("buildPriority", "0.1")
	ai.Set("useAsBuilder", "false")
	ai.Set("useAsTransport", "false")
	u.Singular[schema.SectionAI] = ai

	return u
}

// DeriveFilename appends .ini unless the name already carries the suffix.
func DeriveFilename(name string) string {
	if strings.HasSuffix(name, ".ini") {
		return name
	}
	return name + ".ini"
}

// AddUnit appends a fresh unit with the next free unit_<n> id and returns it.
func (p *Project) AddUnit(name string) *Unit {
	used := map[string]bool{}
	for _, u := range p.Units {
		used[u.ID] = true
	}
	n := len(p.Units)
	id := fmt.Sprintf("unit_%d", n)
	for used[id] {
		n++
		id = fmt.Sprintf("unit_%d", n)
	}
	u := NewUnit(id, name)
	p.Units = append(p.Units, u)
	return u
}

// RemoveUnit deletes the unit with the given id. The last unit cannot be
// removed; a project always edits at least one descriptor.
func (p *Project) RemoveUnit(id string) bool {
	if len(p.Units) <= 1 {
		return false
	}
	for i, u := range p.Units {
		if u.ID == id {
			p.Units = append(p.Units[:i], p.Units[i+1:]...)
			return true
		}
	}
	return false
}

// Unit returns the unit with the given id, or nil.
func (p *Project) Unit(id string) *Unit {
	for _, u := range p.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// Section returns the record for a singular section, creating it lazily so
// callers can set fields on sections the defaults left out.
func (u *Unit) Section(id string) *Record {
	if schema.IsMulti(id) {
		panic(fmt.Sprintf("domain: section %q is a list section", id))
	}
	r := u.Singular[id]
	if r == nil {
		r = NewRecord()
		u.Singular[id] = r
	}
	return r
}

// Items returns the record list for a multi section.
func (u *Unit) Items(id string) []*Record {
	if !schema.IsMulti(id) {
		panic(fmt.Sprintf("domain: section %q is not a list section", id))
	}
	return u.Multi[id]
}

// SetField writes one field on a singular section.
func (u *Unit) SetField(sectionID, field, value string) {
	u.Section(sectionID).Set(field, value)
}

// SetItemField writes one field on the idx-th record of a multi section.
func (u *Unit) SetItemField(sectionID string, idx int, field, value string) error {
	items := u.Items(sectionID)
	if idx < 0 || idx >= len(items) {
		return fmt.Errorf("domain: %s index %d out of range (have %d)", sectionID, idx, len(items))
	}
	items[idx].Set(field, value)
	return nil
}

// AddItem appends a fresh record to a multi section. The record is seeded
// with an id of new_<section>_<n> and every boolean field set to false;
// everything else starts absent.
func (u *Unit) AddItem(sectionID string) *Record {
	sec := schema.ByID(sectionID)
	if !sec.Multi {
		panic(fmt.Sprintf("domain: section %q is not a list section", sectionID))
	}
	r := NewRecord()
	r.Set("id", fmt.Sprintf("new_%s_%d", sectionID, len(u.Multi[sectionID])+1))
	for _, f := range sec.Fields {
		if f.Type == schema.TypeBoolean {
			r.Set(f.ID, "false")
		}
	}
	u.Multi[sectionID] = append(u.Multi[sectionID], r)
	return r
}

// RemoveItem deletes the idx-th record of a multi section.
func (u *Unit) RemoveItem(sectionID string, idx int) error {
	items := u.Items(sectionID)
	if idx < 0 || idx >= len(items) {
		return fmt.Errorf("domain: %s index %d out of range (have %d)", sectionID, idx, len(items))
	}
	u.Multi[sectionID] = append(items[:idx], items[idx+1:]...)
	return nil
}

// ReplaceItems swaps the whole record list of a multi section in one step.
// The visual editors commit through this so a cancelled session never leaks
// partial edits into the model.
func (u *Unit) ReplaceItems(sectionID string, items []*Record) {
	if !schema.IsMulti(sectionID) {
		panic(fmt.Sprintf("domain: section %q is not a list section", sectionID))
	}
	u.Multi[sectionID] = items
}

// CloneItems deep-copies the record list of a multi section.
func (u *Unit) CloneItems(sectionID string) []*Record {
	src := u.Items(sectionID)
	out := make([]*Record, len(src))
	for i, r := range src {
		out[i] = r.Clone()
	}
	return out
}

// Name returns the core name, falling back to the unit id.
func (u *Unit) Name() string {
	if n := u.Section(schema.SectionCore).Value("name"); n != "" {
		return n
	}
	return u.ID
}
