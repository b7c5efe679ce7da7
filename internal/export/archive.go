/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export packages a project into the archive the game loads from
// its mods folder.
package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"rwstudio/internal/domain"
	"rwstudio/internal/ini"
	"rwstudio/internal/storage"
)

// Options controls archive export.
type Options struct {
	// IncludeAssets copies the project's assets folder into the archive so
	// sprite and sound references resolve in-game.
	IncludeAssets bool
	// Units restricts the export to the given unit ids; empty means all.
	Units []string
}

// ModArchive renders the manifest and every selected unit and packages
// them, plus optionally the assets folder, into a ZIP at outPath. A
// relative outPath lands under the project's exports folder, and a .zip
// extension is enforced.
func ModArchive(h *storage.Handle, outPath string, opt Options) error {
	if h == nil || h.Project == nil {
		return fmt.Errorf("project handle is nil")
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(h.Root, "exports", outPath)
	}
	if !strings.HasSuffix(strings.ToLower(outPath), ".zip") {
		outPath = outPath + ".zip"
	}

	zw, f, err := createZip(outPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := addZipFile(zw, storage.ManifestOutName, []byte(ini.Manifest(h.Project.Manifest))); err != nil {
		return fmt.Errorf("zip add manifest: %w", err)
	}

	for _, u := range h.Project.Units {
		if !selected(u, opt.Units) {
			continue
		}
		name := u.Filename
		if name == "" {
			name = domain.DeriveFilename(u.ID)
		}
		if err := addZipFile(zw, name, []byte(ini.Unit(u))); err != nil {
			return fmt.Errorf("zip add %s: %w", name, err)
		}
	}

	if opt.IncludeAssets {
		if err := addAssets(zw, filepath.Join(h.Root, "assets")); err != nil {
			return fmt.Errorf("zip add assets: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}

func selected(u *domain.Unit, ids []string) bool {
	if len(ids) == 0 {
		return true
	}
	for _, id := range ids {
		if u.ID == id {
			return true
		}
	}
	return false
}

func addAssets(zw *zip.Writer, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return nil // no assets folder is fine
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, rerr := filepath.Rel(dir, path)
		if rerr != nil {
			return rerr
		}
		src, oerr := os.Open(path)
		if oerr != nil {
			return oerr
		}
		defer func() { _ = src.Close() }()
		w, cerr := zw.Create(filepath.ToSlash(filepath.Join("assets", rel)))
		if cerr != nil {
			return cerr
		}
		_, werr := io.Copy(w, src)
		return werr
	})
}

func createZip(outPath string) (*zip.Writer, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create zip: %w", err)
	}
	return zip.NewWriter(f), f, nil
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
