/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package toolbar

import (
	"log/slog"
	"math"

	applog "adaptivebar/internal/log"
)

// Registry is the single owner of item metadata for one bar instance. It is
// deliberately not a package-level singleton: each bar constructs and injects
// its own Registry, and all interaction goes through the public operations
// below. Mutation is synchronous; the Registry must only be used from the
// host's UI thread.
type Registry struct {
	log     *slog.Logger
	metrics Metrics

	items map[string]*Item
	// order holds ids in registration order, the tie-break for fitting and
	// the display order inside overflow.
	order []string

	regionWidth map[Region]float64
	sched       *scheduler
}

// NewRegistry constructs an empty registry with the given fitting geometry.
func NewRegistry(m Metrics) *Registry {
	r := &Registry{
		log:         applog.WithComponent("toolbar"),
		metrics:     m,
		items:       make(map[string]*Item),
		regionWidth: make(map[Region]float64),
	}
	r.sched = newScheduler(r.compute, r.log)
	return r
}

// mustInit guards every operation against a registry that was never wired
// through NewRegistry. That is a composition error and unrecoverable.
func (r *Registry) mustInit() {
	if r == nil || r.items == nil {
		panic("toolbar: registry used before initialization; construct it with NewRegistry")
	}
}

// Metrics returns the fitting geometry the registry was constructed with.
func (r *Registry) Metrics() Metrics { r.mustInit(); return r.metrics }

// SetDefer installs the host's same-tick coalescing hook. fn must run the
// given function later in the current event-loop tick (or the next one);
// until it does, further change signals fold into the pending pass.
func (r *Registry) SetDefer(fn func(func())) {
	r.mustInit()
	r.sched.deferFn = fn
}

// Register upserts an item declaration by id.
//
// A call that changes none of label, priority and region only refreshes the
// render payload and callbacks and does not trigger a fitting pass; content
// re-renders (a badge counter updating, say) stay off the layout path. A new
// id or a structural change replaces the entry, retains the last-known width
// and schedules a recalculation. Either way the entry is unmeasured until
// the next width report lands, which keeps it visible long enough to be
// rendered and measured once. A region change is a new structural identity:
// the item re-enters registration order at the end.
func (r *Registry) Register(reg Registration) {
	r.mustInit()
	if prev, ok := r.items[reg.ID]; ok {
		if prev.Label == reg.Label && prev.Priority == reg.Priority && prev.Region == reg.Region {
			prev.Content = reg.Content
			prev.OnActivate = reg.OnActivate
			prev.SubContent = reg.SubContent
			return
		}
		width := prev.Width
		if prev.Region != reg.Region {
			r.removeFromOrder(reg.ID)
			r.order = append(r.order, reg.ID)
		}
		r.items[reg.ID] = newItem(reg, width)
		r.log.Debug("item replaced", slog.String("id", reg.ID), slog.String("region", reg.Region.String()))
		r.sched.invalidate()
		return
	}
	r.items[reg.ID] = newItem(reg, 0)
	r.order = append(r.order, reg.ID)
	r.log.Debug("item registered", slog.String("id", reg.ID), slog.String("region", reg.Region.String()))
	r.sched.invalidate()
}

func newItem(reg Registration, width float64) *Item {
	return &Item{
		ID:         reg.ID,
		Label:      reg.Label,
		Priority:   reg.Priority,
		Region:     reg.Region,
		Width:      width,
		Measured:   false,
		Content:    reg.Content,
		OnActivate: reg.OnActivate,
		SubContent: reg.SubContent,
	}
}

// Unregister removes an item everywhere. Unknown ids are silently absorbed.
func (r *Registry) Unregister(id string) {
	r.mustInit()
	if _, ok := r.items[id]; !ok {
		return
	}
	delete(r.items, id)
	r.removeFromOrder(id)
	r.log.Debug("item unregistered", slog.String("id", id))
	r.sched.invalidate()
}

// UpdateWidth records a measured item width. Unchanged widths and reports
// for ids that have since been unregistered are no-ops. Non-finite and
// negative measurements collapse to 0.
func (r *Registry) UpdateWidth(id string, width float64) {
	r.mustInit()
	it, ok := r.items[id]
	if !ok {
		return
	}
	width = sanitizeWidth(width)
	if it.Measured && it.Width == width {
		return
	}
	it.Width = width
	it.Measured = true
	r.sched.invalidate()
}

// SetRegionWidth records a region's available width budget as reported by
// the host container. Unchanged values are no-ops.
func (r *Registry) SetRegionWidth(region Region, width float64) {
	r.mustInit()
	width = sanitizeWidth(width)
	if prev, ok := r.regionWidth[region]; ok && prev == width {
		return
	}
	r.regionWidth[region] = width
	r.sched.invalidate()
}

// Subscribe registers a partition listener and returns its cancel func.
// Listeners fire only when a fitting pass changes the partition.
func (r *Registry) Subscribe(fn func(Snapshot)) func() {
	r.mustInit()
	return r.sched.subscribe(fn)
}

// Published returns the current published partition, computing the initial
// one if no pass has run yet.
func (r *Registry) Published() Snapshot {
	r.mustInit()
	return r.sched.published()
}

// Stats returns counters for diagnostics: fitting passes run and partitions
// actually published.
func (r *Registry) Stats() (passes, publishes int) {
	r.mustInit()
	return r.sched.passes, r.sched.publishes
}

// IsVisible reports whether the id is currently rendered inline.
func (r *Registry) IsVisible(id string) bool {
	_, ok := r.Published().VisibleSet()[id]
	return ok
}

// OverflowFor returns the region's currently relegated items in
// registration order.
func (r *Registry) OverflowFor(region Region) []Item {
	return r.Published().Overflow[region]
}

func (r *Registry) removeFromOrder(id string) {
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

// regionItems collects a region's items in registration order.
func (r *Registry) regionItems(region Region) []Item {
	var items []Item
	for _, id := range r.order {
		if it := r.items[id]; it.Region == region {
			items = append(items, *it)
		}
	}
	return items
}

// compute runs one fitting pass over every region. Center bypasses fitting:
// its content is flexible, already-justified, and never overflows.
func (r *Registry) compute() Snapshot {
	snap := Snapshot{
		Visible:  make(map[Region][]Item),
		Overflow: make(map[Region][]Item),
	}
	for _, region := range Regions {
		items := r.regionItems(region)
		if region == RegionCenter {
			snap.Visible[region] = items
			continue
		}
		avail, ok := r.regionWidth[region]
		if !ok {
			// Budget not yet reported by the host container: treat the
			// region as unconstrained so fresh items render inline and get
			// their first measurement. The first SetRegionWidth corrects it.
			avail = math.Inf(1)
		}
		p := Fit(items, avail, r.metrics)
		snap.Visible[region] = p.Visible
		snap.Overflow[region] = p.Overflow
	}
	return snap
}
