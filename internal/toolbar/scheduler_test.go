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

import "testing"

// tick simulates a host event loop: deferred flushes queue up until Run.
type tick struct {
	queue []func()
}

func (tk *tick) deferFn(fn func()) { tk.queue = append(tk.queue, fn) }

func (tk *tick) run() {
	for len(tk.queue) > 0 {
		fn := tk.queue[0]
		tk.queue = tk.queue[1:]
		fn()
	}
}

func TestSchedulerCoalescesBurstIntoOnePass(t *testing.T) {
	r := newTestRegistry()
	tk := &tick{}
	r.SetDefer(tk.deferFn)

	r.SetRegionWidth(RegionTrailing, 300)
	register(r, "a", PriorityNormal, RegionTrailing, 50)
	register(r, "b", PriorityNormal, RegionTrailing, 50)
	tk.run()

	passesBefore, _ := r.Stats()
	// a continuous drag-resize burst within one tick
	for w := 300.0; w > 200; w-- {
		r.SetRegionWidth(RegionTrailing, w)
	}
	tk.run()
	if passes, _ := r.Stats(); passes != passesBefore+1 {
		t.Fatalf("burst of signals ran %d passes, want 1", passes-passesBefore)
	}
}

func TestSchedulerPublishesOnlyOnChange(t *testing.T) {
	r := newTestRegistry()
	r.SetRegionWidth(RegionTrailing, 300)
	register(r, "a", PriorityNormal, RegionTrailing, 50)

	published := 0
	cancel := r.Subscribe(func(Snapshot) { published++ })
	defer cancel()

	// width wobbles that never change the partition: passes run, nothing
	// publishes
	for _, w := range []float64{51, 52, 53, 52, 51} {
		r.UpdateWidth("a", w)
	}
	if published != 0 {
		t.Fatalf("identical partitions published %d times, want 0", published)
	}

	// a change that actually evicts publishes exactly once
	r.UpdateWidth("a", 290)
	if published != 1 {
		t.Fatalf("eviction published %d times, want 1", published)
	}
}

func TestSchedulerRepeatedReadsDoNotRepublish(t *testing.T) {
	r := newTestRegistry()
	r.SetRegionWidth(RegionTrailing, 300)
	register(r, "a", PriorityNormal, RegionTrailing, 50)

	_, before := r.Stats()
	_ = r.Published()
	_ = r.Published()
	if _, after := r.Stats(); after != before {
		t.Fatalf("reads republished: %d -> %d", before, after)
	}
}

func TestSchedulerSubscribeCancel(t *testing.T) {
	r := newTestRegistry()
	r.SetRegionWidth(RegionTrailing, 300)
	register(r, "a", PriorityNormal, RegionTrailing, 50)

	calls := 0
	cancel := r.Subscribe(func(Snapshot) { calls++ })
	cancel()
	r.UpdateWidth("a", 290)
	if calls != 0 {
		t.Fatalf("cancelled subscriber still called %d times", calls)
	}
}

func TestSnapshotEqualOrderSensitive(t *testing.T) {
	a := Snapshot{
		Visible:  map[Region][]Item{RegionTrailing: {item("x", PriorityNormal, 1), item("y", PriorityNormal, 1)}},
		Overflow: map[Region][]Item{},
	}
	b := Snapshot{
		Visible:  map[Region][]Item{RegionTrailing: {item("y", PriorityNormal, 1), item("x", PriorityNormal, 1)}},
		Overflow: map[Region][]Item{},
	}
	if snapshotEqual(a, b) {
		t.Fatalf("order-swapped partitions compared equal")
	}
	if !snapshotEqual(a, a) {
		t.Fatalf("identical partitions compared unequal")
	}
}
