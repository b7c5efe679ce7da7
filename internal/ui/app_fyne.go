//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"rwstudio/internal/config"
	"rwstudio/internal/crash"
	"rwstudio/internal/domain"
	"rwstudio/internal/editor"
	"rwstudio/internal/export"
	"rwstudio/internal/ini"
	applog "rwstudio/internal/log"
	"rwstudio/internal/schema"
	"rwstudio/internal/storage"
	"rwstudio/internal/suggest"
	"rwstudio/internal/undo"
	"rwstudio/internal/version"
)

// Run starts the Fyne-based desktop UI: unit list on the left, descriptor
// section forms in the middle, a live INI preview on the right.
func Run(projectDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	var h *storage.Handle
	defer func() { crash.Recover(h) }()

	cfg, apiKey, cfgErr := config.Load()
	if cfgErr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cfgErr))
	}
	ai := suggest.NewClient(cfg.Suggest.BaseURL, cfg.Suggest.Model, apiKey,
		time.Duration(cfg.Suggest.TimeoutMs)*time.Millisecond)

	fyneApp := app.NewWithID("rwstudio")
	w := fyneApp.NewWindow("RW Mod Studio")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1280)
	winH := prefs.IntWithFallback("window.height", 820)
	if winW < 900 {
		winW = 900
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	currentUnitIdx := 0

	// Undo snapshots capture the whole unit; pushed before each field write.
	undoMgr := undo.NewManager(undo.Config{
		MaxBytes:    16 * 1024 * 1024,
		MaxPerUnit:  30,
		MinInterval: 300 * time.Millisecond,
	})

	currentUnit := func() *domain.Unit {
		if h == nil || currentUnitIdx < 0 || currentUnitIdx >= len(h.Project.Units) {
			return nil
		}
		return h.Project.Units[currentUnitIdx]
	}

	pushUndo := func() {
		u := currentUnit()
		if u == nil {
			return
		}
		blob, err := json.Marshal(u)
		if err != nil {
			l.Error("snapshot marshal failed", slog.Any("err", err))
			return
		}
		undoMgr.PushSnapshot(undo.Snapshot{UnitID: u.ID, Blob: blob, TS: time.Now()})
	}

	applySnapshot := func(blob []byte) error {
		var u domain.Unit
		if err := json.Unmarshal(blob, &u); err != nil {
			return err
		}
		h.Project.Units[currentUnitIdx] = &u
		return nil
	}

	// Live INI preview (right pane).
	previewLabel := widget.NewLabel("")
	previewLabel.TextStyle = fyne.TextStyle{Monospace: true}
	previewLabel.Wrapping = fyne.TextWrapOff
	refreshPreview := func() {
		if u := currentUnit(); u != nil {
			previewLabel.SetText(ini.Unit(u))
		} else {
			previewLabel.SetText("")
		}
	}

	// Unit list (left pane).
	unitNames := []string{}
	unitsList := widget.NewList(
		func() int { return len(unitNames) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(unitNames) {
				o.(*widget.Label).SetText(unitNames[i])
			}
		},
	)
	var rebuildEditor func()
	refreshUnitsList := func() {
		unitNames = unitNames[:0]
		if h != nil {
			for _, u := range h.Project.Units {
				unitNames = append(unitNames, fmt.Sprintf("%s (%s)", u.Name(), u.Filename))
			}
		}
		unitsList.Refresh()
		if currentUnitIdx >= 0 && currentUnitIdx < len(unitNames) {
			unitsList.Select(currentUnitIdx)
		}
	}
	unitsList.OnSelected = func(id widget.ListItemID) {
		if h == nil || int(id) < 0 || int(id) >= len(h.Project.Units) {
			return
		}
		currentUnitIdx = int(id)
		rebuildEditor()
		refreshPreview()
	}

	saveProject := func() {
		if h == nil {
			return
		}
		if err := storage.Save(h); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Project saved.")
	}

	// suggestLogic fills the given entry with a generated logic expression.
	suggestLogic := func(target *widget.Entry) {
		prompt := widget.NewMultiLineEntry()
		prompt.SetPlaceHolder("Describe the condition, e.g. \"when health is below half and unit is in water\"")
		d := dialog.NewCustomConfirm("Suggest Logic", "Generate", "Cancel", prompt, func(ok bool) {
			if !ok || strings.TrimSpace(prompt.Text) == "" {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			out, err := ai.LogicSuggestion(ctx, prompt.Text)
			if err != nil {
				l.Error("logic suggestion failed", slog.Any("err", err))
				dialog.ShowInformation("Suggest Logic", suggest.FailureMessage, w)
				return
			}
			target.SetText(out)
		}, w)
		d.Resize(fyne.NewSize(480, 220))
		d.Show()
	}

	// fieldWidget builds the input widget for one schema field.
	fieldWidget := func(f schema.Field, current string, onChange func(string)) fyne.CanvasObject {
		switch f.Type {
		case schema.TypeBoolean:
			// set the initial state before wiring the handler so form
			// construction does not push undo snapshots
			chk := widget.NewCheck("", nil)
			chk.SetChecked(current == "true")
			chk.OnChanged = func(v bool) { onChange(strconv.FormatBool(v)) }
			return chk
		case schema.TypeEnum:
			sel := widget.NewSelect(f.Options, nil)
			sel.SetSelected(current)
			sel.OnChanged = onChange
			return sel
		case schema.TypeLogic:
			e := widget.NewEntry()
			e.SetText(current)
			e.OnChanged = onChange
			btn := widget.NewButton("Suggest…", func() { suggestLogic(e) })
			return container.NewBorder(nil, nil, nil, btn, e)
		default:
			e := widget.NewEntry()
			e.SetPlaceHolder(f.Example)
			e.SetText(current)
			e.OnChanged = onChange
			return e
		}
	}

	makeSingularTab := func(u *domain.Unit, sec schema.Section) fyne.CanvasObject {
		form := widget.NewForm()
		rec := u.Section(sec.ID)
		for _, f := range sec.Fields {
			ff := f
			form.Append(ff.Label, fieldWidget(ff, rec.Value(ff.ID), func(v string) {
				pushUndo()
				u.SetField(sec.ID, ff.ID, v)
				refreshPreview()
				refreshUnitsList() // name edits change the display label
			}))
		}
		return container.NewVScroll(form)
	}

	makeMultiTab := func(u *domain.Unit, sec schema.Section) fyne.CanvasObject {
		itemNames := []string{}
		selectedItem := -1
		itemForm := container.NewVBox()

		itemList := widget.NewList(
			func() int { return len(itemNames) },
			func() fyne.CanvasObject { return widget.NewLabel("") },
			func(i widget.ListItemID, o fyne.CanvasObject) {
				if int(i) < len(itemNames) {
					o.(*widget.Label).SetText(itemNames[i])
				}
			},
		)
		refreshItems := func() {
			itemNames = itemNames[:0]
			for i, it := range u.Items(sec.ID) {
				name := it.Value("id")
				if name == "" {
					name = fmt.Sprintf("%s %d", sec.Title, i+1)
				}
				itemNames = append(itemNames, name)
			}
			itemList.Refresh()
		}
		var showItem func(idx int)
		showItem = func(idx int) {
			itemForm.Objects = nil
			items := u.Items(sec.ID)
			if idx < 0 || idx >= len(items) {
				itemForm.Refresh()
				return
			}
			rec := items[idx]
			form := widget.NewForm()
			for _, f := range sec.Fields {
				ff := f
				onChange := func(v string) {
					pushUndo()
					if err := u.SetItemField(sec.ID, idx, ff.ID, v); err != nil {
						dialog.ShowError(err, w)
						return
					}
					refreshPreview()
				}
				if ff.ID == schema.KeyframesFieldID {
					kf := widget.NewMultiLineEntry()
					kf.TextStyle = fyne.TextStyle{Monospace: true}
					kf.SetText(rec.Value(ff.ID))
					kf.OnChanged = onChange
					form.Append(ff.Label, kf)
					continue
				}
				form.Append(ff.Label, fieldWidget(ff, rec.Value(ff.ID), onChange))
			}
			itemForm.Objects = []fyne.CanvasObject{form}
			itemForm.Refresh()
		}
		itemList.OnSelected = func(id widget.ListItemID) {
			selectedItem = int(id)
			showItem(selectedItem)
		}

		btnAdd := widget.NewButton("Add", func() {
			pushUndo()
			u.AddItem(sec.ID)
			refreshItems()
			refreshPreview()
			itemList.Select(len(itemNames) - 1)
		})
		btnRemove := widget.NewButton("Remove", func() {
			if selectedItem < 0 {
				return
			}
			pushUndo()
			if err := u.RemoveItem(sec.ID, selectedItem); err != nil {
				dialog.ShowError(err, w)
				return
			}
			selectedItem = -1
			refreshItems()
			showItem(-1)
			refreshPreview()
		})
		buttons := []fyne.CanvasObject{btnAdd, btnRemove}

		onDone := func() {
			refreshItems()
			if selectedItem >= 0 {
				showItem(selectedItem)
			}
			refreshPreview()
		}
		switch sec.ID {
		case schema.SectionTurret, schema.SectionLeg, schema.SectionDecal:
			buttons = append(buttons, widget.NewButton("Layout Editor…", func() {
				showLayoutDialog(w, u, sec.ID, onDone)
			}))
		case schema.SectionProjectile, schema.SectionEffect:
			buttons = append(buttons, widget.NewButton("Preview Editor…", func() {
				showPreviewDialog(w, u, sec.ID, onDone)
			}))
		case schema.SectionAnimation:
			buttons = append(buttons, widget.NewButton("Timeline Editor…", func() {
				if selectedItem < 0 {
					dialog.ShowInformation("Timeline", "Select an animation first.", w)
					return
				}
				showTimelineDialog(w, u, selectedItem, onDone)
			}))
		}

		refreshItems()
		left := container.NewBorder(container.NewHBox(buttons...), nil, nil, nil, itemList)
		return container.NewHSplit(left, container.NewVScroll(itemForm))
	}

	editorHolder := container.NewStack()
	rebuildEditor = func() {
		u := currentUnit()
		if u == nil {
			editorHolder.Objects = []fyne.CanvasObject{widget.NewLabel("No project open. Use File > New Project or File > Open Project.")}
			editorHolder.Refresh()
			return
		}
		tabs := container.NewAppTabs()
		for _, sec := range schema.Singular() {
			tabs.Append(container.NewTabItem(sec.Title, makeSingularTab(u, sec)))
		}
		for _, sec := range schema.Multi() {
			tabs.Append(container.NewTabItem(sec.Title, makeMultiTab(u, sec)))
		}
		editorHolder.Objects = []fyne.CanvasObject{tabs}
		editorHolder.Refresh()
	}

	btnAddUnit := widget.NewButton("Add Unit", func() {
		if h == nil {
			return
		}
		pushUndo()
		u := h.Project.AddUnit(fmt.Sprintf("Unit%d", len(h.Project.Units)+1))
		currentUnitIdx = len(h.Project.Units) - 1
		refreshUnitsList()
		rebuildEditor()
		refreshPreview()
		status.SetText(fmt.Sprintf("Added %s.", u.Name()))
	})
	btnRemoveUnit := widget.NewButton("Remove Unit", func() {
		u := currentUnit()
		if u == nil {
			return
		}
		dialog.ShowConfirm("Remove Unit", fmt.Sprintf("Remove %s?", u.Name()), func(ok bool) {
			if !ok {
				return
			}
			if !h.Project.RemoveUnit(u.ID) {
				dialog.ShowInformation("Remove Unit", "The last unit cannot be removed.", w)
				return
			}
			undoMgr.ClearUnit(u.ID)
			currentUnitIdx = 0
			refreshUnitsList()
			rebuildEditor()
			refreshPreview()
		}, w)
	})

	left := container.NewBorder(
		container.NewVBox(widget.NewLabel("Units"), container.NewHBox(btnAddUnit, btnRemoveUnit), widget.NewSeparator()),
		nil, nil, nil, unitsList)
	right := container.NewBorder(
		container.NewVBox(widget.NewLabel("INI Preview"), widget.NewSeparator()),
		nil, nil, nil, container.NewScroll(previewLabel))

	split := container.NewHSplit(left, container.NewHSplit(editorHolder, right))
	split.SetOffset(0.18)
	w.SetContent(container.NewBorder(nil, status, nil, nil, split))

	openAt := func(dir string) {
		if err := openProject(dir, &h, w, l, status); err != nil {
			dialog.ShowError(err, w)
			return
		}
		currentUnitIdx = 0
		refreshUnitsList()
		rebuildEditor()
		refreshPreview()
		addRecentProject(prefs, dir)
	}

	// File menu
	newItem := fyne.NewMenuItem("New Project…", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uri == nil {
				return
			}
			root := uri.Path()
			nh, err := storage.InitProject(root, domain.NewProject())
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			h = nh
			currentUnitIdx = 0
			w.SetTitle(fmt.Sprintf("RW Mod Studio — %s", h.Project.Manifest.Value("title")))
			refreshUnitsList()
			rebuildEditor()
			refreshPreview()
			addRecentProject(prefs, root)
			status.SetText("Project created: " + root)
		}, w)
	})
	openItem := fyne.NewMenuItem("Open Project…", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uri == nil {
				return
			}
			openAt(uri.Path())
		}, w)
	})
	recentMenu := fyne.NewMenu("Open Recent")
	for _, rp := range loadRecentProjects(prefs) {
		dir := rp
		recentMenu.Items = append(recentMenu.Items, fyne.NewMenuItem(dir, func() { openAt(dir) }))
	}
	recentItem := fyne.NewMenuItem("Open Recent", nil)
	recentItem.ChildMenu = recentMenu
	saveItem := fyne.NewMenuItem("Save", saveProject)
	renderItem := fyne.NewMenuItem("Render INI Files", func() {
		if h == nil {
			return
		}
		paths, err := storage.WriteRendered(h)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText(fmt.Sprintf("Rendered %d files into %s.", len(paths), storage.BuildDirName))
	})
	exportItem := fyne.NewMenuItem("Export Mod Archive…", func() {
		if h == nil {
			dialog.ShowInformation("Export", "No project open.", w)
			return
		}
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			outPath := uc.URI().Path()
			_ = uc.Close()
			if err := export.ModArchive(h, outPath, export.Options{IncludeAssets: true}); err != nil {
				dialog.ShowError(err, w)
				return
			}
			dialog.ShowInformation("Export", "Exported to "+outPath, w)
		}, w)
		save.SetFileName("mod.zip")
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".zip"}))
		save.Show()
	})
	quitItem := fyne.NewMenuItem("Quit", func() { fyneApp.Quit() })
	fileMenu := fyne.NewMenu("File", newItem, openItem, recentItem, fyne.NewMenuItemSeparator(),
		saveItem, renderItem, exportItem, fyne.NewMenuItemSeparator(), quitItem)

	// Edit menu
	undoItem := fyne.NewMenuItem("Undo", func() {
		u := currentUnit()
		if u == nil {
			return
		}
		snap, ok := undoMgr.Undo(u.ID)
		if !ok {
			status.SetText("Nothing to undo.")
			return
		}
		if err := applySnapshot(snap.Blob); err != nil {
			dialog.ShowError(err, w)
			return
		}
		rebuildEditor()
		refreshPreview()
		refreshUnitsList()
	})
	redoItem := fyne.NewMenuItem("Redo", func() {
		u := currentUnit()
		if u == nil {
			return
		}
		snap, ok := undoMgr.Redo(u.ID)
		if !ok {
			status.SetText("Nothing to redo.")
			return
		}
		if err := applySnapshot(snap.Blob); err != nil {
			dialog.ShowError(err, w)
			return
		}
		rebuildEditor()
		refreshPreview()
		refreshUnitsList()
	})
	modInfoItem := fyne.NewMenuItem("Mod Info…", func() {
		if h == nil {
			return
		}
		showModInfoDialog(w, h, status)
	})
	editMenu := fyne.NewMenu("Edit", undoItem, redoItem, fyne.NewMenuItemSeparator(), modInfoItem)

	// Tools menu
	copyINIItem := fyne.NewMenuItem("Copy INI to Clipboard", func() {
		u := currentUnit()
		if u == nil {
			return
		}
		w.Clipboard().SetContent(ini.Unit(u))
		status.SetText("INI copied to clipboard.")
	})
	reindexItem := fyne.NewMenuItem("Rebuild Search Index", func() {
		if h == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := storage.RebuildIndex(ctx, h.Root, h.Project); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Search index rebuilt.")
	})
	searchItem := fyne.NewMenuItem("Search Fields…", func() {
		if h == nil {
			return
		}
		showSearchDialog(w, h)
	})
	ideaItem := fyne.NewMenuItem("Generate Unit Idea…", func() {
		theme := widget.NewEntry()
		theme.SetPlaceHolder("e.g. amphibious artillery")
		d := dialog.NewCustomConfirm("Generate Unit Idea", "Generate", "Cancel", theme, func(ok bool) {
			if !ok || strings.TrimSpace(theme.Text) == "" {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			out, err := ai.UnitIdea(ctx, theme.Text)
			if err != nil {
				l.Error("unit idea failed", slog.Any("err", err))
				dialog.ShowInformation("Generate Unit Idea", suggest.FailureMessage, w)
				return
			}
			idea := widget.NewMultiLineEntry()
			idea.SetText(out)
			idea.Wrapping = fyne.TextWrapWord
			dd := dialog.NewCustom("Unit Idea", "Close", idea, w)
			dd.Resize(fyne.NewSize(520, 380))
			dd.Show()
		}, w)
		d.Resize(fyne.NewSize(420, 140))
		d.Show()
	})
	toolsMenu := fyne.NewMenu("Tools", copyINIItem, fyne.NewMenuItemSeparator(), reindexItem, searchItem,
		fyne.NewMenuItemSeparator(), ideaItem)

	aboutItem := fyne.NewMenuItem("About RW Mod Studio", func() {
		exe, _ := os.Executable()
		info := fmt.Sprintf("RW Mod Studio\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe)
		dialog.ShowInformation("About", info, w)
	})
	aboutMenu := fyne.NewMenu("About", aboutItem)

	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, aboutMenu))

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	if projectDir != "" {
		openAt(projectDir)
	} else {
		rebuildEditor()
	}

	w.ShowAndRun()
	return nil
}

func openProject(dir string, h **storage.Handle, w fyne.Window, l *slog.Logger, status *widget.Label) error {
	abs, _ := filepath.Abs(dir)
	l.Info("open project", slog.String("root", abs))
	nh, err := storage.Open(abs)
	if err != nil {
		return err
	}
	*h = nh
	w.SetTitle(fmt.Sprintf("RW Mod Studio — %s", nh.Project.Manifest.Value("title")))
	status.SetText("Opened project: " + abs)
	return nil
}

// showModInfoDialog edits the manifest record behind mod-info.txt.
func showModInfoDialog(w fyne.Window, h *storage.Handle, status *widget.Label) {
	form := widget.NewForm()
	entries := map[string]*widget.Entry{}
	for _, f := range schema.ModInfo().Fields {
		e := widget.NewEntry()
		e.SetPlaceHolder(f.Example)
		e.SetText(h.Project.Manifest.Value(f.ID))
		entries[f.ID] = e
		form.Append(f.Label, e)
	}
	d := dialog.NewCustomConfirm("Mod Info", "Apply", "Cancel", container.NewVScroll(form), func(ok bool) {
		if !ok {
			return
		}
		for _, f := range schema.ModInfo().Fields {
			h.Project.Manifest.Set(f.ID, entries[f.ID].Text)
		}
		status.SetText("Mod info updated.")
	}, w)
	d.Resize(fyne.NewSize(520, 420))
	d.Show()
}

// showLayoutDialog runs a drag-to-place session for turrets, legs and decals.
// The unit is only modified when the session commits.
func showLayoutDialog(w fyne.Window, u *domain.Unit, sectionID string, onDone func()) {
	ls, err := editor.NewLayoutSession(u, sectionID)
	if err != nil {
		dialog.ShowError(err, w)
		return
	}
	sc := NewSpriteCanvas()
	posLabel := widget.NewLabel("Select an item, then drag on the canvas.")

	refreshMarkers := func() {
		pts := make([]SpritePoint, 0, len(ls.Items()))
		for i, it := range ls.Items() {
			x, _ := strconv.ParseFloat(it.Value(xFieldFor(sectionID)), 64)
			y, _ := strconv.ParseFloat(it.Value(yFieldFor(sectionID)), 64)
			pts = append(pts, SpritePoint{X: float32(x), Y: float32(y), Selected: i == ls.Selection()})
		}
		sc.SetPoints(pts)
		if x, y, err := ls.Position(); err == nil {
			posLabel.SetText(fmt.Sprintf("x: %d  y: %d", x, y))
		}
	}
	sc.OnDrag = func(px, py, cw, ch float64) {
		if err := ls.Drag(px, py, cw, ch); err != nil {
			return
		}
		refreshMarkers()
	}

	names := []string{}
	for i, it := range ls.Items() {
		name := it.Value("id")
		if name == "" {
			name = fmt.Sprintf("item %d", i+1)
		}
		names = append(names, name)
	}
	sel := widget.NewSelect(names, nil)
	sel.OnChanged = func(string) {
		if sel.SelectedIndex() >= 0 {
			_ = ls.Select(sel.SelectedIndex())
			refreshMarkers()
		}
	}
	if len(names) > 0 {
		sel.SetSelectedIndex(0)
	}

	controls := []fyne.CanvasObject{sel, posLabel}
	if sectionID == schema.SectionTurret {
		dir := widget.NewEntry()
		dir.SetPlaceHolder("idleDir (degrees)")
		dir.OnSubmitted = func(v string) {
			if deg, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				_ = ls.SetIdleDir(deg)
			}
		}
		controls = append(controls, dir)
	}
	if sectionID == schema.SectionLeg {
		jx := widget.NewEntry()
		jy := widget.NewEntry()
		jx.SetPlaceHolder("attach_x")
		jy.SetPlaceHolder("attach_y")
		apply := widget.NewButton("Set Joint", func() {
			x, errX := strconv.ParseFloat(strings.TrimSpace(jx.Text), 64)
			y, errY := strconv.ParseFloat(strings.TrimSpace(jy.Text), 64)
			if errX == nil && errY == nil {
				_ = ls.SetJoint(x, y)
			}
		})
		controls = append(controls, container.NewHBox(jx, jy, apply))
	}

	body := container.NewBorder(container.NewVBox(controls...), nil, nil, nil, sc)
	d := dialog.NewCustomConfirm("Layout Editor", "Apply", "Cancel", body, func(ok bool) {
		if ok {
			if err := ls.Commit(); err != nil {
				dialog.ShowError(err, w)
				return
			}
		} else {
			ls.Cancel()
		}
		onDone()
	}, w)
	d.Resize(fyne.NewSize(560, 620))
	d.Show()
}

func xFieldFor(sectionID string) string {
	if sectionID == schema.SectionDecal {
		return "xOffsetRelative"
	}
	return "x"
}

func yFieldFor(sectionID string) string {
	if sectionID == schema.SectionDecal {
		return "yOffsetRelative"
	}
	return "y"
}

// showPreviewDialog edits numeric presentation fields of projectiles and
// effects through a layout-style committed session.
func showPreviewDialog(w fyne.Window, u *domain.Unit, sectionID string, onDone func()) {
	ps, err := editor.NewPreviewSession(u, sectionID)
	if err != nil {
		dialog.ShowError(err, w)
		return
	}
	sec := schema.ByID(sectionID)

	names := []string{}
	for i, it := range ps.Items() {
		name := it.Value("id")
		if name == "" {
			name = fmt.Sprintf("item %d", i+1)
		}
		names = append(names, name)
	}

	form := widget.NewForm()
	var rebuildForm func()
	rebuildForm = func() {
		form.Items = nil
		for _, f := range sec.Fields {
			if f.Type != schema.TypeNumber && f.Type != schema.TypeFloat {
				continue
			}
			ff := f
			e := widget.NewEntry()
			if v, err := ps.Prop(ff.ID); err == nil {
				e.SetText(strconv.FormatFloat(v, 'f', -1, 64))
			}
			e.OnChanged = func(v string) {
				if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
					_ = ps.SetProp(ff.ID, n)
				}
			}
			form.Append(ff.Label, e)
		}
		form.Refresh()
	}

	sel := widget.NewSelect(names, nil)
	sel.OnChanged = func(string) {
		if sel.SelectedIndex() >= 0 {
			_ = ps.Select(sel.SelectedIndex())
			rebuildForm()
		}
	}
	if len(names) > 0 {
		sel.SetSelectedIndex(0)
	}
	rebuildForm()

	body := container.NewBorder(sel, nil, nil, nil, container.NewVScroll(form))
	d := dialog.NewCustomConfirm("Preview Editor", "Apply", "Cancel", body, func(ok bool) {
		if ok {
			if err := ps.Commit(); err != nil {
				dialog.ShowError(err, w)
				return
			}
		} else {
			ps.Cancel()
		}
		onDone()
	}, w)
	d.Resize(fyne.NewSize(480, 520))
	d.Show()
}

// showTimelineDialog edits the keyframe track of one animation item.
func showTimelineDialog(w fyne.Window, u *domain.Unit, itemIdx int, onDone func()) {
	ts, err := editor.NewTimelineSession(u, itemIdx)
	if err != nil {
		dialog.ShowError(err, w)
		return
	}

	sc := NewSpriteCanvas()
	sc.InvertY = false // animation space is screen-oriented, y grows downward
	poseLabel := widget.NewLabel("")

	refresh := func() {
		x, y, rot, scale := ts.Pose()
		poseLabel.SetText(fmt.Sprintf("t=%.2fs  x=%.0f y=%.0f rot=%.0f scale=%.2f", ts.Time(), x, y, rot, scale))
		sc.SetPoints([]SpritePoint{{X: float32(x), Y: float32(y), Selected: true}})
	}

	timeSlider := widget.NewSlider(0, editor.MaxTimelineTime)
	timeSlider.Step = 0.1
	timeSlider.OnChanged = func(v float64) {
		_ = ts.SetTime(v)
		refresh()
	}

	partSel := widget.NewSelect(ts.Parts(), func(name string) {
		_ = ts.SelectPart(name)
		refresh()
	})
	if len(ts.Parts()) > 0 {
		partSel.SetSelected(ts.Parts()[0])
	}

	sc.OnDrag = func(px, py, cw, ch float64) {
		if err := ts.Drag(px, py, cw, ch); err != nil {
			return
		}
		refresh()
	}

	rotEntry := widget.NewEntry()
	rotEntry.SetPlaceHolder("rotation (deg)")
	rotEntry.OnSubmitted = func(v string) {
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			_ = ts.SetRotation(n)
			refresh()
		}
	}
	scaleEntry := widget.NewEntry()
	scaleEntry.SetPlaceHolder("scale")
	scaleEntry.OnSubmitted = func(v string) {
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			_ = ts.SetScale(n)
			refresh()
		}
	}

	refresh()
	top := container.NewVBox(partSel, timeSlider, container.NewHBox(rotEntry, scaleEntry), poseLabel)
	body := container.NewBorder(top, nil, nil, nil, sc)
	d := dialog.NewCustomConfirm("Timeline Editor", "Apply", "Cancel", body, func(ok bool) {
		if ok {
			if err := ts.Commit(); err != nil {
				dialog.ShowError(err, w)
				return
			}
		} else {
			ts.Cancel()
		}
		onDone()
	}, w)
	d.Resize(fyne.NewSize(560, 680))
	d.Show()
}

// showSearchDialog queries the SQLite field index built by RebuildIndex.
func showSearchDialog(w fyne.Window, h *storage.Handle) {
	query := widget.NewEntry()
	query.SetPlaceHolder("FTS query, e.g. plasma*")
	results := widget.NewMultiLineEntry()
	results.TextStyle = fyne.TextStyle{Monospace: true}
	results.Wrapping = fyne.TextWrapOff

	run := func(string) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		rs, err := storage.Search(ctx, h.Root, storage.SearchQuery{Text: query.Text, Limit: 50})
		if err != nil {
			results.SetText("search failed: " + err.Error())
			return
		}
		var b strings.Builder
		for _, r := range rs {
			loc := r.Section
			if r.Item >= 0 {
				loc = fmt.Sprintf("%s[%d]", r.Section, r.Item)
			}
			fmt.Fprintf(&b, "%s  %s.%s = %s\n", r.UnitID, loc, r.Field, r.Value)
		}
		if b.Len() == 0 {
			b.WriteString("no matches")
		}
		results.SetText(b.String())
	}
	query.OnSubmitted = run

	body := container.NewBorder(query, nil, nil, nil, results)
	d := dialog.NewCustom("Search Fields", "Close", body, w)
	d.Resize(fyne.NewSize(620, 460))
	d.Show()
}

// SpritePoint is one draggable marker on the SpriteCanvas, in descriptor
// coordinates (origin at the canvas center).
type SpritePoint struct {
	X, Y     float32
	Selected bool
}

// SpriteCanvas is a minimal stand-in for the unit sprite: a dark field with a
// center cross and one marker per placed item. Drags are forwarded raw so the
// active editor session owns the coordinate mapping.
type SpriteCanvas struct {
	widget.BaseWidget

	// InvertY renders descriptor y upward when true (layout space); when
	// false y grows downward like screen coordinates (animation space).
	InvertY bool
	OnDrag  func(pointerX, pointerY, width, height float64)

	points []SpritePoint
}

func NewSpriteCanvas() *SpriteCanvas {
	sc := &SpriteCanvas{InvertY: true}
	sc.ExtendBaseWidget(sc)
	return sc
}

func (sc *SpriteCanvas) SetPoints(pts []SpritePoint) {
	sc.points = pts
	sc.Refresh()
}

func (sc *SpriteCanvas) PreferredSize() fyne.Size { return fyne.NewSize(400, 400) }

func (sc *SpriteCanvas) Dragged(e *fyne.DragEvent) {
	if sc.OnDrag == nil {
		return
	}
	sz := sc.Size()
	sc.OnDrag(float64(e.Position.X), float64(e.Position.Y), float64(sz.Width), float64(sz.Height))
}

func (sc *SpriteCanvas) DragEnd() {}

func (sc *SpriteCanvas) Tapped(e *fyne.PointEvent) {
	if sc.OnDrag == nil {
		return
	}
	sz := sc.Size()
	sc.OnDrag(float64(e.Position.X), float64(e.Position.Y), float64(sz.Width), float64(sz.Height))
}

func (sc *SpriteCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})
	hAxis := canvas.NewLine(color.RGBA{R: 90, G: 90, B: 96, A: 255})
	vAxis := canvas.NewLine(color.RGBA{R: 90, G: 90, B: 96, A: 255})
	body := canvas.NewRectangle(color.RGBA{R: 70, G: 100, B: 70, A: 255})
	return &spriteCanvasRenderer{sc: sc, bg: bg, hAxis: hAxis, vAxis: vAxis, body: body}
}

type spriteCanvasRenderer struct {
	sc      *SpriteCanvas
	bg      *canvas.Rectangle
	hAxis   *canvas.Line
	vAxis   *canvas.Line
	body    *canvas.Rectangle
	markers []*canvas.Circle
}

func (r *spriteCanvasRenderer) Destroy() {}

func (r *spriteCanvasRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.bg, r.hAxis, r.vAxis, r.body}
	for _, m := range r.markers {
		objs = append(objs, m)
	}
	return objs
}

func (r *spriteCanvasRenderer) MinSize() fyne.Size { return r.sc.PreferredSize() }

func (r *spriteCanvasRenderer) Refresh() {
	r.Layout(r.sc.Size())
	canvas.Refresh(r.sc)
}

func (r *spriteCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	cx := size.Width / 2
	cy := size.Height / 2

	r.hAxis.Position1 = fyne.NewPos(0, cy)
	r.hAxis.Position2 = fyne.NewPos(size.Width, cy)
	r.vAxis.Position1 = fyne.NewPos(cx, 0)
	r.vAxis.Position2 = fyne.NewPos(cx, size.Height)

	// unit body placeholder at the origin
	const bodySize float32 = 30
	r.body.Resize(fyne.NewSize(bodySize, bodySize))
	r.body.Move(fyne.NewPos(cx-bodySize/2, cy-bodySize/2))

	// grow/shrink the marker pool to match the point count
	for len(r.markers) < len(r.sc.points) {
		m := canvas.NewCircle(color.RGBA{R: 0, G: 170, B: 255, A: 255})
		r.markers = append(r.markers, m)
	}
	r.markers = r.markers[:len(r.sc.points)]

	const markerSize float32 = 10
	for i, p := range r.sc.points {
		sx := cx + p.X
		sy := cy + p.Y
		if r.sc.InvertY {
			sy = cy - p.Y
		}
		m := r.markers[i]
		if p.Selected {
			m.FillColor = color.RGBA{R: 255, G: 170, B: 0, A: 255}
		} else {
			m.FillColor = color.RGBA{R: 0, G: 170, B: 255, A: 255}
		}
		m.Resize(fyne.NewSize(markerSize, markerSize))
		m.Move(fyne.NewPos(sx-markerSize/2, sy-markerSize/2))
	}
}

func loadRecentProjects(p fyne.Preferences) []string {
	raw := p.StringWithFallback("recent.projects", "")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(raw, "\n") {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func saveRecentProjects(p fyne.Preferences, items []string) {
	const maxRecent = 8
	if len(items) > maxRecent {
		items = items[:maxRecent]
	}
	p.SetString("recent.projects", strings.Join(items, "\n"))
}

func addRecentProject(p fyne.Preferences, path string) {
	items := loadRecentProjects(p)
	out := []string{path}
	for _, it := range items {
		if it != path {
			out = append(out, it)
		}
	}
	saveRecentProjects(p, out)
}
