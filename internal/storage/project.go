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
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"rwstudio/internal/domain"
)

const (
	ProjectFileName = "project.json"
	BackupsDirName  = "backups"
	BuildDirName    = "build"
)

// Standard subfolders scaffolded into every project directory. assets holds
// sprites and sounds referenced by file fields, build receives the rendered
// INI files, exports receives packaged archives.
var standardSubDirs = []string{
	"assets",
	BuildDirName,
	"exports",
	BackupsDirName,
}

// Handle tracks a project loaded from or saved to disk. Root is the project
// directory containing project.json and the standard subfolders.
type Handle struct {
	Root        string
	ProjectPath string
	Project     *domain.Project
}

// InitProject creates a project directory at root, scaffolds the standard
// subfolders, and writes the project file transactionally.
func InitProject(root string, proj *domain.Project) (*Handle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if proj == nil {
		return nil, errors.New("nil project")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create project root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}

	h := &Handle{
		Root:        root,
		ProjectPath: filepath.Join(root, ProjectFileName),
		Project:     proj,
	}
	if err := Save(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Open loads an existing project from the given root directory. If the
// current project file cannot be read or parsed, the latest backup is tried
// before giving up.
func Open(root string) (*Handle, error) {
	ppath := filepath.Join(root, ProjectFileName)
	b, err := os.ReadFile(ppath)
	if err != nil {
		proj, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("open project: %w; backup attempt: %v", err, berr)
		}
		return &Handle{Root: root, ProjectPath: ppath, Project: proj}, nil
	}
	var p domain.Project
	if uerr := json.Unmarshal(b, &p); uerr != nil {
		proj, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("parse project: %w; backup attempt: %v", uerr, berr)
		}
		return &Handle{Root: root, ProjectPath: ppath, Project: proj}, nil
	}
	return &Handle{Root: root, ProjectPath: ppath, Project: &p}, nil
}

// Save writes the project to disk with transactional semantics and a
// timestamped backup of the previous file (if present).
func Save(h *Handle) error {
	if h == nil {
		return errors.New("nil Handle")
	}
	if h.Root == "" || h.ProjectPath == "" {
		return errors.New("invalid Handle: missing paths")
	}
	data, err := marshalProject(h.Project)
	if err != nil {
		return err
	}

	bdir := filepath.Join(h.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	if _, statErr := os.Stat(h.ProjectPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", ProjectFileName, stamp)
		if cerr := copyFile(h.ProjectPath, filepath.Join(bdir, bname)); cerr != nil {
			return fmt.Errorf("backup current project: %w", cerr)
		}
	}

	// Write to a temp file in the same directory, then rename over target.
	dir := filepath.Dir(h.ProjectPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", ProjectFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp project: %w", werr)
	}
	if _, err := os.Stat(h.ProjectPath); err == nil {
		_ = os.Remove(h.ProjectPath)
	}
	if rerr := os.Rename(temp, h.ProjectPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace project: %w", rerr)
	}
	return nil
}

// SaveAs writes the project into a new root folder, scaffolding structure
// if needed, and repoints the handle.
func SaveAs(h *Handle, newRoot string) error {
	if h == nil {
		return errors.New("nil Handle")
	}
	if newRoot == "" {
		return errors.New("new root is empty")
	}
	if err := os.MkdirAll(newRoot, 0o755); err != nil {
		return fmt.Errorf("create new root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(newRoot, d), 0o755); err != nil {
			return fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	h.Root = newRoot
	h.ProjectPath = filepath.Join(newRoot, ProjectFileName)
	return Save(h)
}

func marshalProject(p *domain.Project) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal project: %w", err)
	}
	return append(data, '\n'), nil
}

func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

func openFromLatestBackup(root string) (*domain.Project, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ProjectFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	b, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	var p domain.Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return &p, nil
}
