/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor holds the session logic behind the visual sub-editors.
// A session works on a cloned copy of one section's item list and only
// touches the unit on Commit; Cancel throws the copy away. The rendering
// shell (Fyne or otherwise) drives these sessions and owns no model state.
package editor

import (
	"errors"
	"fmt"

	"rwstudio/internal/domain"
)

var (
	ErrClosed      = errors.New("editor: session is closed")
	ErrNoSelection = errors.New("editor: no item selected")
)

// session is the shared lifecycle: open with a working copy, select one
// item at a time, then commit or cancel exactly once.
type session struct {
	unit      *domain.Unit
	sectionID string
	working   []*domain.Record
	selected  int
	closed    bool
}

func openSession(u *domain.Unit, sectionID string) session {
	return session{
		unit:      u,
		sectionID: sectionID,
		working:   u.CloneItems(sectionID),
		selected:  -1,
	}
}

// Items exposes the working copy, for rendering.
func (s *session) Items() []*domain.Record { return s.working }

// Selection returns the selected index, or -1.
func (s *session) Selection() int { return s.selected }

func (s *session) Select(i int) error {
	if s.closed {
		return ErrClosed
	}
	if i < 0 || i >= len(s.working) {
		return fmt.Errorf("editor: index %d out of range (have %d)", i, len(s.working))
	}
	s.selected = i
	return nil
}

func (s *session) Deselect() { s.selected = -1 }

func (s *session) item() (*domain.Record, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.selected < 0 {
		return nil, ErrNoSelection
	}
	return s.working[s.selected], nil
}

// Commit replaces the whole section list on the unit in one step and
// closes the session.
func (s *session) Commit() error {
	if s.closed {
		return ErrClosed
	}
	s.unit.ReplaceItems(s.sectionID, s.working)
	s.closed = true
	return nil
}

// Cancel discards every edit made since the session opened.
func (s *session) Cancel() {
	s.closed = true
}
