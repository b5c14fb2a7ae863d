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

// Metrics holds the fixed geometry constants of a fitting pass. All values
// are pixels.
type Metrics struct {
	// Gap is the horizontal spacing between adjacent inline items.
	Gap float64
	// OverflowButtonWidth is reserved for the overflow affordance whenever a
	// region overflows (or a candidate item would make it overflow).
	OverflowButtonWidth float64
	// SafetyMargin buffers against sub-pixel and measurement jitter.
	SafetyMargin float64
}

// DefaultMetrics returns the stock geometry.
func DefaultMetrics() Metrics {
	return Metrics{Gap: 8, OverflowButtonWidth: 44, SafetyMargin: 60}
}

// Partition is the result of one fitting pass over a single region.
// Visible is in render order (high-priority items first, then accepted rest,
// each group in registration order); Overflow is in registration order.
type Partition struct {
	Visible  []Item
	Overflow []Item
}

// Fit partitions a single region's items into visible and overflow given an
// available width budget. Items must be passed in registration order.
//
// High-priority items are reserved unconditionally, even when their combined
// width already exceeds the budget: a primary control must never silently
// disappear, and a visually overflowing container is the host's concern.
// Remaining items are walked in registration order; each is accepted only if
// it fits alongside the overflow-button reservation and the safety margin.
// Any candidate may be the first to overflow, so the reservation is part of
// every evaluation. Items not yet measured bypass the evaluation entirely:
// an item relegated before its first render would never learn its width, so
// it stays visible until a measurement arrives.
//
// The function is pure and idempotent: identical inputs produce identical
// partitions.
func Fit(items []Item, available float64, m Metrics) Partition {
	var high, rest []Item
	for _, it := range items {
		if it.Priority == PriorityHigh {
			high = append(high, it)
		} else {
			rest = append(rest, it)
		}
	}

	var used float64
	for i, it := range high {
		if i > 0 {
			used += m.Gap
		}
		used += sanitizeWidth(it.Width)
	}

	p := Partition{Visible: high}
	for _, it := range rest {
		w := sanitizeWidth(it.Width)
		if !it.Measured {
			p.Visible = append(p.Visible, it)
			used += w + m.Gap
			continue
		}
		required := used + w + m.Gap + m.OverflowButtonWidth + m.SafetyMargin
		if required <= available {
			p.Visible = append(p.Visible, it)
			used += w + m.Gap
			continue
		}
		p.Overflow = append(p.Overflow, it)
	}
	return p
}
