/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rwstudio/internal/domain"
	"rwstudio/internal/ini"
)

// ManifestOutName is the file the game looks for at a mod's root.
const ManifestOutName = "mod-info.txt"

// WriteRendered renders the manifest and every unit into the build folder
// and returns the written paths, manifest first. Units map to their stored
// Filename; a unit without one falls back to <id>.ini.
func WriteRendered(h *Handle) ([]string, error) {
	if h == nil || h.Project == nil {
		return nil, errors.New("nil Handle")
	}
	bdir := filepath.Join(h.Root, BuildDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure build dir: %w", err)
	}

	mpath := filepath.Join(bdir, ManifestOutName)
	if err := writeFileSync(mpath, []byte(ini.Manifest(h.Project.Manifest))); err != nil {
		return nil, fmt.Errorf("write %s: %w", ManifestOutName, err)
	}
	paths := []string{mpath}

	for _, u := range h.Project.Units {
		name := u.Filename
		if name == "" {
			name = domain.DeriveFilename(u.ID)
		}
		p := filepath.Join(bdir, name)
		if err := writeFileSync(p, []byte(ini.Unit(u))); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// AutosaveCrashSnapshot writes the in-memory project to a timestamped file
// in the backups folder without touching project.json. Used by crash
// recovery, where the main file may be mid-write.
func AutosaveCrashSnapshot(h *Handle) (string, error) {
	if h == nil || h.Project == nil {
		return "", errors.New("nil Handle")
	}
	bdir := filepath.Join(h.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	data, err := marshalProject(h.Project)
	if err != nil {
		return "", err
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("autosave-%s.json", stamp))
	if err := writeFileSync(path, data); err != nil {
		return "", fmt.Errorf("write autosave: %w", err)
	}
	return path, nil
}
