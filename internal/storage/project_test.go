/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rwstudio/internal/domain"
	"rwstudio/internal/schema"
)

func TestInitProjectCreatesStructureAndFile(t *testing.T) {
	root := t.TempDir()
	h, err := InitProject(root, domain.NewProject())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	if h.ProjectPath == "" {
		t.Fatalf("ProjectPath not set")
	}
	b, err := os.ReadFile(h.ProjectPath)
	if err != nil {
		t.Fatalf("read project: %v", err)
	}
	var got domain.Project
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal project: %v", err)
	}
	if got.Manifest.Value("title") != "New Project" {
		t.Fatalf("manifest title mismatch")
	}
	for _, d := range []string{"assets", BuildDirName, "exports", BackupsDirName} {
		p := filepath.Join(root, d)
		if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
			t.Fatalf("expected directory %s to exist", p)
		}
	}
}

func TestRoundTripPreservesFieldOrder(t *testing.T) {
	root := t.TempDir()
	proj := domain.NewProject()
	u := proj.Units[0]
	tr := u.AddItem(schema.SectionTurret)
	tr.Set("y", "5")
	tr.Set("x", "3")

	h, err := InitProject(root, proj)
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	opened, err := Open(h.Root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	got := opened.Project.Units[0].Items(schema.SectionTurret)[0]
	want := []string{"id", "canShoot", "invisible", "y", "x"}
	if strings.Join(got.Fields(), ",") != strings.Join(want, ",") {
		t.Fatalf("field order lost: %v", got.Fields())
	}
}

func TestSaveCreatesTimestampedBackup(t *testing.T) {
	root := t.TempDir()
	h, err := InitProject(root, domain.NewProject())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	h.Project.Manifest.Set("title", "Changed")
	if err := Save(h); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	var bakCount int
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ProjectFileName+".") && strings.HasSuffix(name, ".bak") {
			bakCount++
		}
	}
	if bakCount == 0 {
		t.Fatalf("expected at least one backup file, found 0")
	}
}

func TestOpenFallsBackToLatestBackupOnCorruption(t *testing.T) {
	root := t.TempDir()
	h, err := InitProject(root, domain.NewProject())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	h.Project.Manifest.Set("title", "Kept In Backup")
	if err := Save(h); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := Save(h); err != nil { // back up the titled version too
		t.Fatalf("Save error: %v", err)
	}
	if err := os.WriteFile(h.ProjectPath, []byte("{ this is not json"), 0o644); err != nil {
		t.Fatalf("corrupt project file: %v", err)
	}
	opened, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if opened.Project.Manifest.Value("title") != "Kept In Backup" {
		t.Fatalf("backup fallback lost data: %q", opened.Project.Manifest.Value("title"))
	}
}

func TestAutosaveCrashSnapshotWritesFile(t *testing.T) {
	root := t.TempDir()
	h, err := InitProject(root, domain.NewProject())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	path, err := AutosaveCrashSnapshot(h)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var got domain.Project
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if len(got.Units) != 1 {
		t.Fatalf("snapshot content mismatch")
	}
}

func TestWriteRendered(t *testing.T) {
	root := t.TempDir()
	proj := domain.NewProject()
	proj.AddUnit("tank")
	h, err := InitProject(root, proj)
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	paths, err := WriteRendered(h)
	if err != nil {
		t.Fatalf("WriteRendered error: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected manifest + 2 units, got %v", paths)
	}
	mb, err := os.ReadFile(filepath.Join(root, BuildDirName, ManifestOutName))
	if err != nil {
		t.Fatalf("read rendered manifest: %v", err)
	}
	if !strings.HasPrefix(string(mb), "[mod]\n") {
		t.Fatalf("manifest output wrong:\n%s", mb)
	}
	ub, err := os.ReadFile(filepath.Join(root, BuildDirName, "tank.ini"))
	if err != nil {
		t.Fatalf("read rendered unit: %v", err)
	}
	if !strings.Contains(string(ub), "name: tank") {
		t.Fatalf("unit output wrong:\n%s", ub)
	}
}
