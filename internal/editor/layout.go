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
	"math"
	"strconv"

	"rwstudio/internal/domain"
	"rwstudio/internal/schema"
)

// LayoutSession places turrets, legs, and decals on a 2D workspace centered
// on the unit. Stored coordinates are up-positive, so the screen-down drag
// axis is flipped before writing y.
type LayoutSession struct {
	session
	xField string
	yField string
}

func NewLayoutSession(u *domain.Unit, sectionID string) (*LayoutSession, error) {
	switch sectionID {
	case schema.SectionTurret, schema.SectionLeg, schema.SectionDecal:
	default:
		return nil, fmt.Errorf("editor: section %q has no layout editor", sectionID)
	}
	ls := &LayoutSession{session: openSession(u, sectionID)}
	if sectionID == schema.SectionDecal {
		ls.xField, ls.yField = "xOffsetRelative", "yOffsetRelative"
	} else {
		ls.xField, ls.yField = "x", "y"
	}
	return ls, nil
}

// Drag moves the selected item to the pointer position, expressed relative
// to the workspace center and rounded to whole pixels.
func (ls *LayoutSession) Drag(pointerX, pointerY, width, height float64) error {
	item, err := ls.item()
	if err != nil {
		return err
	}
	x := int(math.Round(pointerX - width/2))
	y := int(math.Round(height/2 - pointerY))
	item.Set(ls.xField, strconv.Itoa(x))
	item.Set(ls.yField, strconv.Itoa(y))
	return nil
}

// SetPosition writes coordinates directly, for the numeric inputs beside
// the workspace.
func (ls *LayoutSession) SetPosition(x, y int) error {
	item, err := ls.item()
	if err != nil {
		return err
	}
	item.Set(ls.xField, strconv.Itoa(x))
	item.Set(ls.yField, strconv.Itoa(y))
	return nil
}

// Position reads the selected item's coordinates, treating absent or
// non-numeric values as 0.
func (ls *LayoutSession) Position() (x, y int, err error) {
	item, err := ls.item()
	if err != nil {
		return 0, 0, err
	}
	x, _ = strconv.Atoi(item.Value(ls.xField))
	y, _ = strconv.Atoi(item.Value(ls.yField))
	return x, y, nil
}

// SetIdleDir sets the turret resting angle in degrees. Values outside
// 0-360 are written as given; the game wraps them itself.
func (ls *LayoutSession) SetIdleDir(deg int) error {
	if ls.sectionID != schema.SectionTurret {
		return fmt.Errorf("editor: idleDir only applies to turrets")
	}
	item, err := ls.item()
	if err != nil {
		return err
	}
	item.Set("idleDir", strconv.Itoa(deg))
	return nil
}

// SetJoint sets the leg attach point, independent of the drag gesture.
func (ls *LayoutSession) SetJoint(x, y float64) error {
	if ls.sectionID != schema.SectionLeg {
		return fmt.Errorf("editor: joints only apply to legs")
	}
	item, err := ls.item()
	if err != nil {
		return err
	}
	item.Set("attach_x", strconv.FormatFloat(x, 'f', -1, 64))
	item.Set("attach_y", strconv.FormatFloat(y, 'f', -1, 64))
	return nil
}
