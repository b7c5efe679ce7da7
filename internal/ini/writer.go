/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package ini renders the in-memory model into the game's INI dialect.
// Rendering is one-way: the model is the source of truth and the output is
// regenerated in full on every change.
package ini

import (
	"fmt"
	"strings"

	"rwstudio/internal/domain"
	"rwstudio/internal/schema"
)

// Banner is the comment line at the top of every rendered unit file.
const Banner = "# Made with RW Mod Studio"

// Manifest renders the [mod] block for mod-info.txt. Fields appear in
// record order; empty values are dropped.
func Manifest(m *domain.Record) string {
	var b strings.Builder
	b.WriteString("[mod]\n")
	writeFields(&b, m, false)
	return b.String()
}

// Unit renders one descriptor document: the banner, every singular section
// in registry order, then each list section's items in registry order.
// Singular headers are always emitted, even when the section has no data,
// so the skeleton of the file stays recognizable.
func Unit(u *domain.Unit) string {
	var b strings.Builder
	b.WriteString(Banner)
	b.WriteString("\n\n")

	for _, sec := range schema.Singular() {
		fmt.Fprintf(&b, "[%s]\n", sec.ID)
		if r := u.Singular[sec.ID]; r != nil {
			writeFields(&b, r, false)
		}
		b.WriteString("\n")
	}

	for _, sec := range schema.Multi() {
		for i, item := range u.Multi[sec.ID] {
			fmt.Fprintf(&b, "[%s]\n", itemHeader(sec.ID, item, i))
			writeFields(&b, item, true)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// itemHeader names a list block. Legs and build-menu entries are numbered
// by position (1-based); other sections prefer the item's id and fall back
// to the position.
func itemHeader(sectionID string, item *domain.Record, index int) string {
	switch sectionID {
	case schema.SectionLeg, schema.SectionCanBuild:
		return fmt.Sprintf("%s_%d", sectionID, index+1)
	default:
		if id := item.Value("id"); id != "" {
			return fmt.Sprintf("%s_%s", sectionID, id)
		}
		return fmt.Sprintf("%s_%d", sectionID, index+1)
	}
}

func writeFields(b *strings.Builder, r *domain.Record, stripID bool) {
	for _, key := range r.Fields() {
		if stripID && key == "id" {
			continue
		}
		v := r.Value(key)
		if v == "" {
			continue
		}
		if key == schema.KeyframesFieldID {
			// Raw multi-line block authored by the timeline editor.
			b.WriteString(v)
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(b, "%s: %s\n", key, v)
	}
}
