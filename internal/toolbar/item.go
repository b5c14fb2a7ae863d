/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package toolbar implements the adaptive bar layout engine: an item
// registry keyed by id, a pure width-fitting function per region, and a
// change-driven recalculation pipeline that publishes visible/overflow
// partitions only when they actually change.
//
// The package is UI-agnostic. Render payloads are opaque; pixel widths are
// reported by the host. All mutation is synchronous and expected to happen
// on the host's UI thread.
package toolbar

import "math"

// Priority governs which items are protected from eviction under space
// pressure. High items are never moved into overflow.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityLow:
		return "low"
	default:
		return "normal"
	}
}

// Region is one of the three horizontal zones of the bar. Each non-center
// region manages its own fitting; center content is always visible.
type Region int

const (
	RegionLeading Region = iota
	RegionCenter
	RegionTrailing
)

// Regions lists all regions in render order.
var Regions = [...]Region{RegionLeading, RegionCenter, RegionTrailing}

func (r Region) String() string {
	switch r {
	case RegionLeading:
		return "leading"
	case RegionTrailing:
		return "trailing"
	default:
		return "center"
	}
}

// Registration is the host-facing declaration of an item. Width is absent:
// it is measured after first render and reported via UpdateWidth.
type Registration struct {
	ID       string
	Label    string
	Priority Priority
	Region   Region
	// Content is the render payload; the engine passes it through unmodified.
	Content any
	// OnActivate marks a flat action item when set.
	OnActivate func()
	// SubContent marks a nested item (sub-menu in overflow) when set and
	// OnActivate is nil.
	SubContent any
}

// Item is a registered slot as stored and published by the Registry.
type Item struct {
	ID       string
	Label    string
	Priority Priority
	Region   Region
	Width    float64
	// Measured is false until the host reports the item's rendered width.
	// Unmeasured items are always kept visible so they get that first
	// measurement; the next fitting pass then places them for real.
	Measured   bool
	Content    any
	OnActivate func()
	SubContent any
}

// IsAction reports whether the item activates immediately from overflow.
func (it Item) IsAction() bool { return it.OnActivate != nil }

// IsNested reports whether the item expands sub-content from overflow.
func (it Item) IsNested() bool { return it.OnActivate == nil && it.SubContent != nil }

// sanitizeWidth guards the fitting pass against host measurement bugs:
// NaN, infinite and negative widths all collapse to 0.
func sanitizeWidth(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}
