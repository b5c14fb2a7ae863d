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

import "log/slog"

// Snapshot is a published partition state: visible items per region in
// render order and overflowed items per region in registration order.
// Center never appears in Overflow.
type Snapshot struct {
	Visible  map[Region][]Item
	Overflow map[Region][]Item
}

// VisibleSet flattens the visible partition into a set of ids.
func (s Snapshot) VisibleSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, items := range s.Visible {
		for _, it := range items {
			set[it.ID] = struct{}{}
		}
	}
	return set
}

// HasOverflow reports whether the region currently relegates any item.
func (s Snapshot) HasOverflow(region Region) bool { return len(s.Overflow[region]) > 0 }

func sameIDs(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// snapshotEqual compares partitions structurally: same ids in the same order
// per region, for both visible and overflow. Widths and payloads are
// irrelevant to publication.
func snapshotEqual(a, b Snapshot) bool {
	for _, region := range Regions {
		if !sameIDs(a.Visible[region], b.Visible[region]) {
			return false
		}
		if !sameIDs(a.Overflow[region], b.Overflow[region]) {
			return false
		}
	}
	return true
}

// scheduler coalesces change signals into fitting passes and publishes the
// resulting snapshot to subscribers only when it differs from the last
// published one. It is owned by a Registry and shares its single-threaded
// discipline; there is no locking because there is no concurrency.
type scheduler struct {
	log     *slog.Logger
	compute func() Snapshot

	// deferFn, when set, postpones the flush so that every signal raised in
	// the same host event-loop tick folds into one pass. Without it each
	// signal flushes synchronously (publication is still diffed).
	deferFn func(func())
	pending bool

	last      *Snapshot
	subs      map[int]func(Snapshot)
	nextSubID int

	// counters for diagnostics
	passes    int
	publishes int
}

func newScheduler(compute func() Snapshot, l *slog.Logger) *scheduler {
	return &scheduler{log: l, compute: compute, subs: make(map[int]func(Snapshot))}
}

// invalidate schedules one fitting pass. Repeated calls before the deferred
// flush runs are absorbed.
func (s *scheduler) invalidate() {
	if s.deferFn == nil {
		s.flush()
		return
	}
	if s.pending {
		return
	}
	s.pending = true
	s.deferFn(s.flush)
}

// flush recomputes all regions, stores the result and notifies subscribers
// on change. The fresh snapshot is always retained: reads must observe the
// latest item state (widths, labels, payloads) even when the partition ids
// did not move and nothing is republished.
func (s *scheduler) flush() {
	s.pending = false
	s.passes++
	next := s.compute()
	changed := s.last == nil || !snapshotEqual(*s.last, next)
	s.last = &next
	if !changed {
		s.log.Debug("recalculation produced identical partition", slog.Int("pass", s.passes))
		return
	}
	s.publishes++
	s.log.Debug("partition published",
		slog.Int("pass", s.passes),
		slog.Int("publish", s.publishes),
		slog.Int("leading_overflow", len(next.Overflow[RegionLeading])),
		slog.Int("trailing_overflow", len(next.Overflow[RegionTrailing])))
	for _, fn := range s.subs {
		fn(next)
	}
}

func (s *scheduler) subscribe(fn func(Snapshot)) func() {
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

// published returns the last published snapshot, computing and publishing an
// initial one on first use.
func (s *scheduler) published() Snapshot {
	if s.last == nil {
		s.flush()
	}
	return *s.last
}
