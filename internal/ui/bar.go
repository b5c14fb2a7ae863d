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
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	applog "adaptivebar/internal/log"
	"adaptivebar/internal/manifest"
	"adaptivebar/internal/toolbar"
)

// MenuPresenter reveals an overflow menu. The default shows an in-process
// pop-up; hosts with a native menu bridge inject their own.
type MenuPresenter interface {
	Present(menu *fyne.Menu, from fyne.CanvasObject)
}

type popUpPresenter struct{}

func (popUpPresenter) Present(menu *fyne.Menu, from fyne.CanvasObject) {
	c := fyne.CurrentApp().Driver().CanvasForObject(from)
	if c == nil {
		return
	}
	pos := fyne.CurrentApp().Driver().AbsolutePositionForObject(from)
	widget.ShowPopUpMenuAtPosition(menu, c, pos.AddXY(0, from.Size().Height))
}

// Bar renders the three regions of one registry: leading packs left,
// trailing packs right, center takes the middle. Its renderer reports region
// budgets and item widths back into the registry, and it re-lays out only
// when the registry publishes a changed partition.
type Bar struct {
	widget.BaseWidget

	reg       *toolbar.Registry
	presenter MenuPresenter
	log       *slog.Logger

	cells       map[string]*measuredCell
	unsubscribe func()
}

// NewBar wires a bar to its registry. A nil registry is a composition error
// and panics immediately.
func NewBar(reg *toolbar.Registry) *Bar {
	if reg == nil {
		panic("ui: NewBar called with nil registry; construct one with toolbar.NewRegistry")
	}
	b := &Bar{
		reg:       reg,
		presenter: popUpPresenter{},
		log:       applog.WithComponent("ui.bar"),
		cells:     make(map[string]*measuredCell),
	}
	b.unsubscribe = reg.Subscribe(func(toolbar.Snapshot) { b.Refresh() })
	b.ExtendBaseWidget(b)
	return b
}

// SetMenuPresenter replaces the overflow presentation strategy.
func (b *Bar) SetMenuPresenter(p MenuPresenter) {
	if p != nil {
		b.presenter = p
	}
}

// RemoveItem unregisters an item when its host UI goes away.
func (b *Bar) RemoveItem(id string) {
	delete(b.cells, id)
	b.reg.Unregister(id)
}

// Detach cancels the partition subscription; call when discarding the bar.
func (b *Bar) Detach() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

// cellFor returns the measured wrapper for an item, creating it on demand.
// The item's Content is used directly when it is a canvas object; otherwise
// a stock control is derived from the item metadata. A cached cell is synced
// against the published item so re-registered payloads, labels and callbacks
// reach the screen instead of the original control lingering forever.
func (b *Bar) cellFor(it toolbar.Item) *measuredCell {
	content, custom := it.Content.(fyne.CanvasObject)
	c, ok := b.cells[it.ID]
	if !ok {
		if !custom {
			content = b.defaultControl(it)
		}
		c = newMeasuredCell(it.ID, content, b.reg.UpdateWidth)
		b.cells[it.ID] = c
		return c
	}
	if custom {
		if c.content != content {
			c.content = content
			c.Refresh()
		}
		return c
	}
	b.syncDefaultControl(c, it)
	return c
}

// syncDefaultControl pushes the item's current label and callbacks into the
// cached stock control, rebuilding it when the control kind no longer
// matches the item. Callbacks are rewired unconditionally; closures cannot
// be compared.
func (b *Bar) syncDefaultControl(c *measuredCell, it toolbar.Item) {
	switch ctl := c.content.(type) {
	case *widget.Button:
		if it.IsAction() {
			if ctl.Text != it.Label {
				ctl.SetText(it.Label)
			}
			ctl.OnTapped = it.OnActivate
			return
		}
		if it.IsNested() {
			if ctl.Text != it.Label {
				ctl.SetText(it.Label)
			}
			ctl.OnTapped = func() {
				if menu := subMenu(it); menu != nil {
					b.presenter.Present(menu, ctl)
				}
			}
			return
		}
	case *widget.Label:
		if !it.IsAction() && !it.IsNested() {
			if ctl.Text != it.Label {
				ctl.SetText(it.Label)
			}
			return
		}
	}
	c.content = b.defaultControl(it)
	c.Refresh()
}

// defaultControl builds an inline control for items registered without a
// render payload (manifest-declared items).
func (b *Bar) defaultControl(it toolbar.Item) fyne.CanvasObject {
	switch {
	case it.IsAction():
		return widget.NewButton(it.Label, it.OnActivate)
	case it.IsNested():
		btn := widget.NewButton(it.Label, nil)
		btn.OnTapped = func() {
			if menu := subMenu(it); menu != nil {
				b.presenter.Present(menu, btn)
			}
		}
		return btn
	default:
		return widget.NewLabel(it.Label)
	}
}

// overflowMenu builds the single per-region affordance content: overflowed
// items in registration order, flat actions activating immediately and
// nested items expanding as child menus.
func overflowMenu(items []toolbar.Item) *fyne.Menu {
	entries := make([]*fyne.MenuItem, 0, len(items))
	for _, it := range items {
		entry := fyne.NewMenuItem(it.Label, it.OnActivate)
		if it.IsNested() {
			if child := subMenu(it); child != nil {
				entry.ChildMenu = child
			}
		}
		entries = append(entries, entry)
	}
	return fyne.NewMenu("", entries...)
}

// subMenu converts a nested item's SubContent payload into a menu. Hosts
// may hand over a ready *fyne.Menu or manifest-resolved sub-actions.
func subMenu(it toolbar.Item) *fyne.Menu {
	switch sc := it.SubContent.(type) {
	case *fyne.Menu:
		return sc
	case []manifest.SubAction:
		entries := make([]*fyne.MenuItem, 0, len(sc))
		for _, s := range sc {
			entries = append(entries, fyne.NewMenuItem(s.Label, s.Do))
		}
		return fyne.NewMenu(it.Label, entries...)
	default:
		return nil
	}
}

// CreateRenderer implements fyne.Widget.
func (b *Bar) CreateRenderer() fyne.WidgetRenderer {
	r := &barRenderer{bar: b}
	r.leadBtn = widget.NewButtonWithIcon("", theme.MoreHorizontalIcon(), nil)
	r.trailBtn = widget.NewButtonWithIcon("", theme.MoreHorizontalIcon(), nil)
	r.leadBtn.OnTapped = func() { b.showOverflow(toolbar.RegionLeading, r.leadBtn) }
	r.trailBtn.OnTapped = func() { b.showOverflow(toolbar.RegionTrailing, r.trailBtn) }
	return r
}

func (b *Bar) showOverflow(region toolbar.Region, from fyne.CanvasObject) {
	items := b.reg.OverflowFor(region)
	if len(items) == 0 {
		return
	}
	b.log.Debug("overflow opened", slog.String("region", region.String()), slog.Int("items", len(items)))
	b.presenter.Present(overflowMenu(items), from)
}

// barRenderer lays the published partition out and feeds region budgets
// back into the registry.
type barRenderer struct {
	bar      *Bar
	leadBtn  *widget.Button
	trailBtn *widget.Button
	objects  []fyne.CanvasObject
}

func (r *barRenderer) Destroy() {}

func (r *barRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *barRenderer) MinSize() fyne.Size {
	m := r.bar.reg.Metrics()
	h := float32(0)
	for _, c := range r.bar.cells {
		if ch := c.MinSize().Height; ch > h {
			h = ch
		}
	}
	if bh := r.leadBtn.MinSize().Height; bh > h {
		h = bh
	}
	return fyne.NewSize(float32(2*m.OverflowButtonWidth+m.SafetyMargin), h+2*pad)
}

func (r *barRenderer) Refresh() {
	r.Layout(r.bar.Size())
}

const pad = float32(4)

func (r *barRenderer) Layout(size fyne.Size) {
	m := r.bar.reg.Metrics()
	gap := float32(m.Gap)
	snap := r.bar.reg.Published()

	// center is flexible, already-justified content; its width comes off
	// both side budgets equally
	centerCells := make([]*measuredCell, 0, len(snap.Visible[toolbar.RegionCenter]))
	var centerW float32
	for i, it := range snap.Visible[toolbar.RegionCenter] {
		c := r.bar.cellFor(it)
		centerCells = append(centerCells, c)
		if i > 0 {
			centerW += gap
		}
		centerW += c.MinSize().Width
	}

	side := (size.Width - centerW) / 2
	if side < 0 {
		side = 0
	}
	r.bar.reg.SetRegionWidth(toolbar.RegionLeading, float64(side))
	r.bar.reg.SetRegionWidth(toolbar.RegionTrailing, float64(side))

	objects := make([]fyne.CanvasObject, 0, len(r.bar.cells)+2)
	place := func(c fyne.CanvasObject, x, w float32) {
		h := c.MinSize().Height
		if h > size.Height-2*pad {
			h = size.Height - 2*pad
		}
		c.Resize(fyne.NewSize(w, h))
		c.Move(fyne.NewPos(x, (size.Height-h)/2))
		objects = append(objects, c)
	}

	// leading: pack left, affordance after the last visible item
	x := pad
	for _, it := range snap.Visible[toolbar.RegionLeading] {
		c := r.bar.cellFor(it)
		w := c.MinSize().Width
		place(c, x, w)
		x += w + gap
	}
	if snap.HasOverflow(toolbar.RegionLeading) {
		r.leadBtn.Show()
		place(r.leadBtn, x, float32(m.OverflowButtonWidth))
	} else {
		r.leadBtn.Hide()
	}

	// center
	x = (size.Width - centerW) / 2
	for _, c := range centerCells {
		w := c.MinSize().Width
		place(c, x, w)
		x += w + gap
	}

	// trailing: pack right, affordance at the far edge
	var trailW float32
	trailing := snap.Visible[toolbar.RegionTrailing]
	for i, it := range trailing {
		if i > 0 {
			trailW += gap
		}
		trailW += r.bar.cellFor(it).MinSize().Width
	}
	if snap.HasOverflow(toolbar.RegionTrailing) {
		trailW += gap + float32(m.OverflowButtonWidth)
	}
	x = size.Width - pad - trailW
	for _, it := range trailing {
		c := r.bar.cellFor(it)
		w := c.MinSize().Width
		place(c, x, w)
		x += w + gap
	}
	if snap.HasOverflow(toolbar.RegionTrailing) {
		r.trailBtn.Show()
		place(r.trailBtn, x, float32(m.OverflowButtonWidth))
	} else {
		r.trailBtn.Hide()
	}

	r.objects = objects
}

// measuredCell wraps an item's content and reports its rendered width back
// into the registry. The engine never measures anything itself.
type measuredCell struct {
	widget.BaseWidget
	id      string
	content fyne.CanvasObject
	report  func(id string, width float64)
}

func newMeasuredCell(id string, content fyne.CanvasObject, report func(string, float64)) *measuredCell {
	c := &measuredCell{id: id, content: content, report: report}
	c.ExtendBaseWidget(c)
	return c
}

func (c *measuredCell) MinSize() fyne.Size {
	c.ExtendBaseWidget(c)
	return c.content.MinSize()
}

func (c *measuredCell) CreateRenderer() fyne.WidgetRenderer {
	return &measuredCellRenderer{cell: c}
}

type measuredCellRenderer struct {
	cell *measuredCell
}

func (r *measuredCellRenderer) Destroy()                     {}
func (r *measuredCellRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.cell.content} }
func (r *measuredCellRenderer) MinSize() fyne.Size           { return r.cell.content.MinSize() }

func (r *measuredCellRenderer) Refresh() {
	r.cell.content.Refresh()
	r.cell.report(r.cell.id, float64(r.cell.content.MinSize().Width))
}

func (r *measuredCellRenderer) Layout(size fyne.Size) {
	r.cell.content.Resize(size)
	r.cell.content.Move(fyne.NewPos(0, 0))
	r.cell.report(r.cell.id, float64(r.cell.content.MinSize().Width))
}
