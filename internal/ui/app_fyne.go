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
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"adaptivebar/internal/config"
	"adaptivebar/internal/crash"
	applog "adaptivebar/internal/log"
	"adaptivebar/internal/manifest"
	"adaptivebar/internal/toolbar"
)

// Run starts the Fyne-based demo shell: a resizable window whose top bar is
// driven by the layout engine. An optional manifest declares the items;
// without one a built-in demo set is used.
func Run(manifestPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("ui")
	defer crash.Recover()

	fyneApp := app.NewWithID("adaptivebar")
	w := fyneApp.NewWindow("Adaptive Bar")
	w.Resize(fyne.NewSize(float32(cfg.UI.WindowWidth), float32(cfg.UI.WindowHeight)))

	status := widget.NewLabel("Ready")
	reg := toolbar.NewRegistry(cfg.Metrics())
	// coalesce signal bursts into one fitting pass per UI tick
	reg.SetDefer(func(fn func()) { go fyne.Do(fn) })
	bar := NewBar(reg)

	actions := demoActions(status, l)
	if manifestPath != "" {
		regs, err := manifest.Load(manifestPath, actions)
		if err != nil {
			return err
		}
		l.Info("manifest loaded", slog.String("path", manifestPath), slog.Int("items", len(regs)))
		for _, r := range regs {
			reg.Register(r)
		}
	} else {
		registerDemoItems(reg, status)
	}

	body := widget.NewLabel("Resize the window to watch items spill into the overflow menus.")
	body.Alignment = fyne.TextAlignCenter
	w.SetContent(container.NewBorder(bar, status, nil, nil, body))

	l.Info("starting UI")
	w.ShowAndRun()
	bar.Detach()
	return nil
}

func demoActions(status *widget.Label, l *slog.Logger) map[string]func() {
	say := func(msg string) func() {
		return func() {
			status.SetText(msg)
			l.Info("action activated", slog.String("msg", msg))
		}
	}
	return map[string]func(){
		"open":       say("Open…"),
		"save":       say("Saved"),
		"share":      say("Share sheet"),
		"tag":        say("Tag assigned"),
		"inspect":    say("Inspector toggled"),
		"export-png": say("Exported PNG"),
		"export-pdf": say("Exported PDF"),
	}
}

// registerDemoItems declares a built-in item set exercising all priorities,
// regions and both overflow representations.
func registerDemoItems(reg *toolbar.Registry, status *widget.Label) {
	say := func(msg string) func() { return func() { status.SetText(msg) } }

	reg.Register(toolbar.Registration{
		ID: "back", Label: "Back", Priority: toolbar.PriorityHigh, Region: toolbar.RegionLeading,
		OnActivate: say("Back"),
	})
	reg.Register(toolbar.Registration{
		ID: "forward", Label: "Forward", Priority: toolbar.PriorityNormal, Region: toolbar.RegionLeading,
		OnActivate: say("Forward"),
	})
	for i := 1; i <= 4; i++ {
		id := fmt.Sprintf("bookmark-%d", i)
		reg.Register(toolbar.Registration{
			ID: id, Label: fmt.Sprintf("Bookmark %d", i), Priority: toolbar.PriorityLow, Region: toolbar.RegionLeading,
			OnActivate: say(id),
		})
	}

	search := widget.NewEntry()
	search.SetPlaceHolder("Search")
	reg.Register(toolbar.Registration{
		ID: "search", Label: "Search", Priority: toolbar.PriorityNormal, Region: toolbar.RegionCenter,
		Content: search,
	})

	reg.Register(toolbar.Registration{
		ID: "save", Label: "Save", Priority: toolbar.PriorityHigh, Region: toolbar.RegionTrailing,
		OnActivate: say("Saved"),
	})
	reg.Register(toolbar.Registration{
		ID: "share", Label: "Share", Priority: toolbar.PriorityNormal, Region: toolbar.RegionTrailing,
		OnActivate: say("Share sheet"),
	})
	reg.Register(toolbar.Registration{
		ID: "export", Label: "Export", Priority: toolbar.PriorityLow, Region: toolbar.RegionTrailing,
		SubContent: []manifest.SubAction{
			{Label: "PNG", Do: say("Exported PNG")},
			{Label: "PDF", Do: say("Exported PDF")},
		},
	})
}
