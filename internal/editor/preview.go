/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"fmt"
	"strconv"

	"rwstudio/internal/domain"
	"rwstudio/internal/schema"
)

// PreviewSession tunes the numeric traits of projectiles and effects while
// the shell renders a live preview. It shares the layout editor's commit
// contract: edits land on the working copy and reach the unit only through
// Commit, so closing the preview without committing changes nothing.
type PreviewSession struct {
	session
}

func NewPreviewSession(u *domain.Unit, sectionID string) (*PreviewSession, error) {
	switch sectionID {
	case schema.SectionProjectile, schema.SectionEffect:
	default:
		return nil, fmt.Errorf("editor: section %q has no preview editor", sectionID)
	}
	ps := &PreviewSession{session: openSession(u, sectionID)}
	// The preview opens on the first item when there is one.
	if len(ps.working) > 0 {
		ps.selected = 0
	}
	return ps, nil
}

// SetProp writes one numeric trait (directDamage, speed, life,
// xSpeedRelative, ...) on the selected item.
func (ps *PreviewSession) SetProp(field string, v float64) error {
	sec := schema.ByID(ps.sectionID)
	if !sec.HasField(field) {
		return fmt.Errorf("editor: %s has no field %q", ps.sectionID, field)
	}
	item, err := ps.item()
	if err != nil {
		return err
	}
	item.Set(field, strconv.FormatFloat(v, 'f', -1, 64))
	return nil
}

// Prop reads a numeric trait of the selected item, 0 when absent.
func (ps *PreviewSession) Prop(field string) (float64, error) {
	item, err := ps.item()
	if err != nil {
		return 0, err
	}
	f, _ := strconv.ParseFloat(item.Value(field), 64)
	return f, nil
}
