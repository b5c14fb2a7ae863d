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
	"math"
	"testing"
)

func testMetrics() Metrics {
	return Metrics{Gap: 8, OverflowButtonWidth: 44, SafetyMargin: 60}
}

func item(id string, p Priority, w float64) Item {
	return Item{ID: id, Label: id, Priority: p, Region: RegionTrailing, Width: w, Measured: true}
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func sameOrder(got []Item, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i].ID != want[i] {
			return false
		}
	}
	return true
}

func TestFitAllWithinBudget(t *testing.T) {
	items := []Item{
		item("a", PriorityNormal, 40),
		item("b", PriorityLow, 30),
		item("c", PriorityNormal, 50),
	}
	p := Fit(items, 1000, testMetrics())
	if !sameOrder(p.Visible, "a", "b", "c") {
		t.Fatalf("expected all items visible in registration order, got %v", ids(p.Visible))
	}
	if len(p.Overflow) != 0 {
		t.Fatalf("expected empty overflow, got %v", ids(p.Overflow))
	}
}

// Locks the worked example from the design docs: width 300, gap 8, overflow
// button 44, safety margin 60, items [high 80, normal 100, normal 100, low 60].
func TestFitConcreteScenario(t *testing.T) {
	items := []Item{
		item("high", PriorityHigh, 80),
		item("n1", PriorityNormal, 100),
		item("n2", PriorityNormal, 100),
		item("low", PriorityLow, 60),
	}
	p := Fit(items, 300, testMetrics())
	if !sameOrder(p.Visible, "high", "n1") {
		t.Fatalf("visible = %v, want [high n1]", ids(p.Visible))
	}
	if !sameOrder(p.Overflow, "n2", "low") {
		t.Fatalf("overflow = %v, want [n2 low]", ids(p.Overflow))
	}
}

func TestFitHighPriorityNeverEvicted(t *testing.T) {
	items := []Item{
		item("n", PriorityNormal, 100),
		item("h", PriorityHigh, 100),
	}
	p := Fit(items, 10, testMetrics())
	if !sameOrder(p.Visible, "h") {
		t.Fatalf("visible = %v, want the high item alone", ids(p.Visible))
	}
	if !sameOrder(p.Overflow, "n") {
		t.Fatalf("overflow = %v, want [n]", ids(p.Overflow))
	}
}

// A single high-priority item wider than the whole region is still
// force-included; visually overflowing the container is the host's problem,
// not grounds for hiding a primary control.
func TestFitOversizedHighStillIncluded(t *testing.T) {
	items := []Item{item("h", PriorityHigh, 5000)}
	p := Fit(items, 300, testMetrics())
	if !sameOrder(p.Visible, "h") {
		t.Fatalf("oversized high item must stay visible, got visible=%v overflow=%v", ids(p.Visible), ids(p.Overflow))
	}
}

func TestFitOverflowKeepsRegistrationOrder(t *testing.T) {
	// Widths chosen so every rest item overflows; order must stay as
	// registered, never re-sorted by width or priority.
	items := []Item{
		item("wide", PriorityNormal, 900),
		item("low", PriorityLow, 10),
		item("narrow", PriorityNormal, 5),
	}
	p := Fit(items, 100, testMetrics())
	if !sameOrder(p.Overflow, "wide", "low", "narrow") {
		t.Fatalf("overflow = %v, want registration order [wide low narrow]", ids(p.Overflow))
	}
}

func TestFitIdempotent(t *testing.T) {
	items := []Item{
		item("h", PriorityHigh, 80),
		item("a", PriorityNormal, 100),
		item("b", PriorityNormal, 100),
	}
	first := Fit(items, 300, testMetrics())
	second := Fit(items, 300, testMetrics())
	if !sameOrder(second.Visible, ids(first.Visible)...) || !sameOrder(second.Overflow, ids(first.Overflow)...) {
		t.Fatalf("two passes over identical input disagree: %v/%v vs %v/%v",
			ids(first.Visible), ids(first.Overflow), ids(second.Visible), ids(second.Overflow))
	}
}

// Shrinking the budget over equal-width items evicts in reverse registration
// order within the normal/low tiers and never un-evicts anything.
func TestFitMonotonicEviction(t *testing.T) {
	items := []Item{
		item("h", PriorityHigh, 100),
		item("a", PriorityNormal, 100),
		item("b", PriorityNormal, 100),
		item("c", PriorityLow, 100),
	}
	evicted := make(map[string]bool)
	prevOverflow := 0
	for avail := 1000.0; avail >= 0; avail -= 10 {
		p := Fit(items, avail, testMetrics())
		if len(p.Overflow) < prevOverflow {
			t.Fatalf("overflow shrank from %d to %d while budget shrank to %v", prevOverflow, len(p.Overflow), avail)
		}
		for _, it := range p.Visible {
			if evicted[it.ID] {
				t.Fatalf("item %q came back to visible at budget %v without a width change", it.ID, avail)
			}
		}
		for _, it := range p.Overflow {
			if it.ID == "h" {
				t.Fatalf("high-priority item evicted at budget %v", avail)
			}
			evicted[it.ID] = true
		}
		// eviction happens strictly from the tail of the rest sequence
		if !sameOrder(p.Overflow, []string{"a", "b", "c"}[3-len(p.Overflow):]...) {
			t.Fatalf("overflow %v at budget %v is not a reverse-registration suffix", ids(p.Overflow), avail)
		}
		prevOverflow = len(p.Overflow)
	}
}

// An item that was never measured must stay visible even in a region so
// saturated that the overflow-button reservation rejects a zero-width
// candidate; relegating it before first render would mean its true width is
// never learned.
func TestFitUnmeasuredItemStaysVisible(t *testing.T) {
	fresh := Item{ID: "fresh", Label: "fresh", Priority: PriorityNormal, Region: RegionTrailing}
	items := []Item{
		item("h", PriorityHigh, 200),
		fresh,
	}
	p := Fit(items, 300, testMetrics())
	if !sameOrder(p.Visible, "h", "fresh") {
		t.Fatalf("unmeasured item not seeded into visible: visible=%v overflow=%v", ids(p.Visible), ids(p.Overflow))
	}

	// once measured, the ordinary evaluation applies
	fresh.Measured = true
	fresh.Width = 150
	p = Fit([]Item{item("h", PriorityHigh, 200), fresh}, 300, testMetrics())
	if !sameOrder(p.Overflow, "fresh") {
		t.Fatalf("measured item escaped evaluation: visible=%v overflow=%v", ids(p.Visible), ids(p.Overflow))
	}
}

func TestFitNonFiniteWidthTreatedAsZero(t *testing.T) {
	items := []Item{
		item("nan", PriorityNormal, math.NaN()),
		item("inf", PriorityNormal, math.Inf(1)),
		item("neg", PriorityNormal, -12),
	}
	p := Fit(items, 300, testMetrics())
	if !sameOrder(p.Visible, "nan", "inf", "neg") {
		t.Fatalf("garbage widths should sanitize to 0 and fit, got visible=%v overflow=%v", ids(p.Visible), ids(p.Overflow))
	}
}

func TestFitEmptyRegion(t *testing.T) {
	p := Fit(nil, 300, testMetrics())
	if len(p.Visible) != 0 || len(p.Overflow) != 0 {
		t.Fatalf("empty input must produce empty partition, got %v/%v", ids(p.Visible), ids(p.Overflow))
	}
}
