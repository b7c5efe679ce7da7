/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"os"
	"testing"

	"rwstudio/internal/domain"
	"rwstudio/internal/schema"
)

func TestInitOrOpenIndexCreatesDatabase(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex error: %v", err)
	}
	defer db.Close()
	if _, err := os.Stat(IndexPath(root)); err != nil {
		t.Fatalf("index file missing: %v", err)
	}
	var schemaVer int
	if err := db.QueryRow(`SELECT schema FROM version WHERE id=1`).Scan(&schemaVer); err != nil {
		t.Fatalf("read version row: %v", err)
	}
	if schemaVer != indexSchemaVersion {
		t.Fatalf("schema version %d, want %d", schemaVer, indexSchemaVersion)
	}
}

func TestRebuildAndSearch(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	proj := domain.NewProject()
	u := proj.Units[0]
	u.SetField(schema.SectionCore, "name", "plasmaTank")
	tr := u.AddItem(schema.SectionTurret)
	tr.Set("id", "plasmaCannon")
	tr.Set("shoot_sound", "plasma_fire.wav")

	if err := RebuildIndex(ctx, root, proj); err != nil {
		t.Fatalf("RebuildIndex error: %v", err)
	}

	hits, err := Search(ctx, root, SearchQuery{Text: "plasma*"})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) < 2 {
		t.Fatalf("expected hits for name and turret, got %d", len(hits))
	}
	// The FTS table is contentless, so snippet() yields NULL; results must
	// still come back with the stored value as the snippet.
	for _, h := range hits {
		if h.Snippet == "" {
			t.Fatalf("empty snippet on FTS hit: %+v", h)
		}
		if h.Snippet != h.Value {
			t.Fatalf("snippet should fall back to the value: %+v", h)
		}
	}

	hits, err = Search(ctx, root, SearchQuery{Text: "plasma*", Section: schema.SectionTurret})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	for _, h := range hits {
		if h.Section != schema.SectionTurret {
			t.Fatalf("section filter leaked: %+v", h)
		}
		if h.Item != 0 {
			t.Fatalf("multi item index lost: %+v", h)
		}
	}

	// Non-FTS scan with filters only.
	hits, err = Search(ctx, root, SearchQuery{UnitID: "unit_0", Section: schema.SectionCore})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	found := false
	for _, h := range hits {
		if h.Field == "name" && h.Value == "plasmaTank" {
			found = true
		}
	}
	if !found {
		t.Fatalf("filtered scan missed core name: %+v", hits)
	}
}

func TestRebuildReplacesStaleRows(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	proj := domain.NewProject()
	proj.Units[0].SetField(schema.SectionCore, "name", "oldName")
	if err := RebuildIndex(ctx, root, proj); err != nil {
		t.Fatal(err)
	}
	proj.Units[0].SetField(schema.SectionCore, "name", "newName")
	if err := RebuildIndex(ctx, root, proj); err != nil {
		t.Fatal(err)
	}
	hits, err := Search(ctx, root, SearchQuery{Text: "oldName"})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatalf("stale rows survived rebuild: %+v", hits)
	}
}
