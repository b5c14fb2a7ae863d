/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"adaptivebar/internal/toolbar"
)

func noop() {}

func testActions() map[string]func() {
	return map[string]func(){"open": noop, "save": noop, "export-png": noop}
}

func TestParseValidManifest(t *testing.T) {
	data := []byte(`{
	  "items": [
	    {"id": "open", "label": "Open", "priority": "high", "region": "leading", "action": "open"},
	    {"id": "save", "label": "Save", "region": "trailing", "action": "save"},
	    {"id": "export", "label": "Export", "priority": "low", "region": "trailing",
	     "submenu": [{"label": "PNG", "action": "export-png"}]}
	  ]
	}`)
	regs, err := Parse(data, testActions())
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(regs) != 3 {
		t.Fatalf("expected 3 registrations, got %d", len(regs))
	}
	if regs[0].Priority != toolbar.PriorityHigh || regs[0].Region != toolbar.RegionLeading {
		t.Fatalf("first item metadata wrong: %+v", regs[0])
	}
	if regs[1].Priority != toolbar.PriorityNormal {
		t.Fatalf("priority should default to normal, got %v", regs[1].Priority)
	}
	if regs[0].OnActivate == nil {
		t.Fatalf("action item missing OnActivate")
	}
	sub, ok := regs[2].SubContent.([]SubAction)
	if !ok || len(sub) != 1 || sub[0].Label != "PNG" || sub[0].Do == nil {
		t.Fatalf("submenu not resolved: %#v", regs[2].SubContent)
	}
	if regs[2].OnActivate != nil {
		t.Fatalf("nested item must not carry OnActivate")
	}
}

func TestParseAssignsGeneratedID(t *testing.T) {
	data := []byte(`{"items": [{"label": "Anon", "region": "trailing"}]}`)
	regs, err := Parse(data, nil)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if regs[0].ID == "" {
		t.Fatalf("missing id was not generated")
	}
}

func TestParseRejectsBadRegion(t *testing.T) {
	data := []byte(`{"items": [{"label": "X", "region": "bottom"}]}`)
	if _, err := Parse(data, nil); err == nil || !strings.Contains(err.Error(), "invalid document") {
		t.Fatalf("expected schema rejection, got %v", err)
	}
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	data := []byte(`{"items": [
	  {"id": "a", "label": "A", "region": "leading"},
	  {"id": "a", "label": "B", "region": "trailing"}
	]}`)
	if _, err := Parse(data, nil); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestParseRejectsUnknownAction(t *testing.T) {
	data := []byte(`{"items": [{"id": "a", "label": "A", "region": "leading", "action": "missing"}]}`)
	if _, err := Parse(data, testActions()); err == nil || !strings.Contains(err.Error(), "unknown action") {
		t.Fatalf("expected unknown action error, got %v", err)
	}
}

func TestValidateReportsAllFindings(t *testing.T) {
	data := []byte(`{"items": [{"region": "nowhere", "priority": "urgent"}]}`)
	findings, err := Validate(data)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if len(findings) < 2 {
		t.Fatalf("expected multiple findings, got %v", findings)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bar.json")
	data := []byte(`{"items": [{"id": "open", "label": "Open", "region": "leading", "action": "open"}]}`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	regs, err := Load(path, testActions())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(regs) != 1 || regs[0].ID != "open" {
		t.Fatalf("unexpected registrations: %+v", regs)
	}
}
