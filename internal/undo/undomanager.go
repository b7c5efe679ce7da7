/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"sync"
	"time"
)

// Snapshot is a reversible state blob for one unit, typically the unit's
// JSON serialization. Blob content is opaque to the manager.
type Snapshot struct {
	UnitID string
	Blob   []byte
	TS     time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; older entries are pruned when exceeded.
	MaxBytes int
	// MaxPerUnit limits snapshots per unit kept in memory (0 = unlimited).
	MaxPerUnit int
	// MinInterval coalesces snapshots captured within the interval for the
	// same unit, replacing the previous one instead of pushing a new entry.
	// Keystroke-level edits collapse into one undo step this way.
	MinInterval time.Duration
}

// Manager provides an in-memory undo/redo stack per unit with performance
// safeguards. It is safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex

	undo map[string][]Snapshot
	redo map[string][]Snapshot

	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// PushSnapshot records a snapshot for a unit. If within MinInterval from
// the last snapshot on the same unit, it replaces the last one. Any push
// clears the unit's redo stack.
func (m *Manager) PushSnapshot(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[s.UnitID]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if s.TS.Sub(last.TS) < m.cfg.MinInterval {
			m.totalBytes -= len(last.Blob)
			m.totalBytes += len(s.Blob)
			stack[n-1] = s
			m.undo[s.UnitID] = stack
			m.redo[s.UnitID] = nil
			m.enforceCapsLocked(s.UnitID)
			return
		}
	}
	stack = append(stack, s)
	m.undo[s.UnitID] = stack
	m.totalBytes += len(s.Blob)
	m.redo[s.UnitID] = nil
	m.enforceCapsLocked(s.UnitID)
}

// Undo pops from the unit's undo stack onto its redo stack and returns the
// snapshot.
func (m *Manager) Undo(unitID string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[unitID]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[unitID] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Blob)
	m.redo[unitID] = append(m.redo[unitID], s)
	return s, true
}

// Redo pops from redo and pushes back to undo.
func (m *Manager) Redo(unitID string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[unitID]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[unitID] = r[:len(r)-1]
	m.undo[unitID] = append(m.undo[unitID], s)
	m.totalBytes += len(s.Blob)
	m.enforceCapsLocked(unitID)
	return s, true
}

// ClearUnit frees both stacks for a unit, e.g. when it is removed from the
// project.
func (m *Manager) ClearUnit(unitID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[unitID] {
		m.totalBytes -= len(s.Blob)
	}
	delete(m.undo, unitID)
	delete(m.redo, unitID)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, units int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	units = len(m.undo)
	for _, v := range m.undo {
		totalSnapshots += len(v)
	}
	return m.totalBytes, units, totalSnapshots
}

func (m *Manager) enforceCapsLocked(unitID string) {
	if m.cfg.MaxPerUnit > 0 {
		stack := m.undo[unitID]
		if len(stack) > m.cfg.MaxPerUnit {
			toDrop := len(stack) - m.cfg.MaxPerUnit
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Blob)
			}
			m.undo[unitID] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// Global memory cap: prune oldest across all units.
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestUnit := ""
		oldestIdx := -1
		var oldestTS time.Time
		for unit, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if oldestIdx == -1 || stack[0].TS.Before(oldestTS) {
				oldestUnit = unit
				oldestIdx = 0
				oldestTS = stack[0].TS
			}
		}
		if oldestIdx == -1 {
			break
		}
		stack := m.undo[oldestUnit]
		m.totalBytes -= len(stack[0].Blob)
		m.undo[oldestUnit] = stack[1:]
		if len(m.undo[oldestUnit]) == 0 {
			delete(m.undo, oldestUnit)
		}
	}
}
