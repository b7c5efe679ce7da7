/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"rwstudio/internal/config"
	"rwstudio/internal/crash"
	"rwstudio/internal/domain"
	"rwstudio/internal/export"
	applog "rwstudio/internal/log"
	"rwstudio/internal/storage"
	"rwstudio/internal/suggest"
	"rwstudio/internal/telemetry"
	"rwstudio/internal/ui"
	"rwstudio/internal/version"
)

func usage() {
	fmt.Println("RW Mod Studio — Rusted Warfare mod descriptor editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  rwstudio version|-v|--version    Show version")
	fmt.Println("  rwstudio init|new <dir> <title>  Create a new mod project at <dir>")
	fmt.Println("  rwstudio open <dir>              Open project at <dir> and print summary")
	fmt.Println("  rwstudio save <dir>              Save project at <dir> (creates backup)")
	fmt.Println("  rwstudio render <dir>            Write mod-info.txt and unit .ini files into build/")
	fmt.Println("  rwstudio export <dir> <out.zip>  Export the rendered mod as a zip archive")
	fmt.Println("  rwstudio index <dir>             Rebuild the project search index")
	fmt.Println("  rwstudio search <dir> <query>    Search indexed field values (FTS syntax)")
	fmt.Println("  rwstudio suggest <prompt>        Generate a logic expression from a description")
	fmt.Println("  rwstudio ui [<dir>]              Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	telemetry.InitDefault()

	var h *storage.Handle
	defer func() { crash.Recover(h) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("RW Mod Studio")
			fmt.Println(version.String())
			return
		case "init", "new":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <title>")
				usage()
				os.Exit(2)
			}
			dir, title := args[2], args[3]
			abs, _ := filepath.Abs(dir)
			l.Info("init project", slog.String("root", abs), slog.String("title", title))
			p := domain.NewProject()
			p.Manifest.Set("title", title)
			nh, err := storage.InitProject(abs, p)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			telemetry.Event(telemetry.EventProjectInit, nil)
			fmt.Println("Created project at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open project", slog.String("root", abs))
			nh, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			fmt.Printf("Opened project: %s\n", h.Project.Manifest.Value("title"))
			fmt.Printf("Units: %d\n", len(h.Project.Units))
			for _, u := range h.Project.Units {
				fmt.Printf("  %s -> %s\n", u.Name(), u.Filename)
			}
			fmt.Println("Root:", h.Root)
			return
		case "save":
			if len(args) < 3 {
				fmt.Println("save requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("save project", slog.String("root", abs))
			nh, err := storage.Open(abs)
			if err != nil {
				l.Error("open before save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Saved project and created a backup of the previous file (if any).")
			return
		case "render":
			if len(args) < 3 {
				fmt.Println("render requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			nh, err := storage.Open(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			paths, err := storage.WriteRendered(h)
			if err != nil {
				l.Error("render failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, p := range paths {
				fmt.Println("Wrote", p)
			}
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <dir> and <out.zip>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			nh, err := storage.Open(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			if err := export.ModArchive(h, args[3], export.Options{IncludeAssets: true}); err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			telemetry.Event(telemetry.EventModExport, nil)
			fmt.Println("Exported", args[3])
			return
		case "index":
			if len(args) < 3 {
				fmt.Println("index requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			nh, err := storage.Open(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			if err := storage.RebuildIndex(ctx, h.Root, h.Project); err != nil {
				l.Error("index rebuild failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Search index rebuilt at", storage.IndexPath(h.Root))
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <dir> and <query>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			results, err := storage.Search(ctx, abs, storage.SearchQuery{Text: args[3], Limit: 50})
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, r := range results {
				loc := r.Section
				if r.Item >= 0 {
					loc = fmt.Sprintf("%s[%d]", r.Section, r.Item)
				}
				fmt.Printf("%s  %s.%s = %s\n", r.UnitID, loc, r.Field, r.Value)
			}
			if len(results) == 0 {
				fmt.Println("No matches.")
			}
			return
		case "suggest":
			if len(args) < 3 {
				fmt.Println("suggest requires <prompt>")
				usage()
				os.Exit(2)
			}
			cfg, apiKey, err := config.Load()
			if err != nil {
				l.Warn("config load failed, using defaults", slog.Any("err", err))
			}
			client := suggest.NewClient(cfg.Suggest.BaseURL, cfg.Suggest.Model, apiKey,
				time.Duration(cfg.Suggest.TimeoutMs)*time.Millisecond)
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			out, err := client.LogicSuggestion(ctx, args[2])
			if err != nil {
				l.Error("suggestion failed", slog.Any("err", err))
				fmt.Println(suggest.FailureMessage)
				os.Exit(1)
			}
			fmt.Println(out)
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}
