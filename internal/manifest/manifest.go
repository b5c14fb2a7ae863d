/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package manifest loads declarative toolbar item manifests for demo hosts.
// A manifest is a JSON document validated against an embedded schema; it
// declares item metadata and names host actions, it never contains behavior.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	gojsonschema "github.com/xeipuuv/gojsonschema"

	"adaptivebar/internal/toolbar"
)

// Schema is the JSON Schema every manifest must conform to.
const Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Adaptive Bar item manifest",
  "type": "object",
  "required": ["items"],
  "additionalProperties": false,
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["label", "region"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "label": {"type": "string", "minLength": 1},
          "priority": {"type": "string", "enum": ["high", "normal", "low"]},
          "region": {"type": "string", "enum": ["leading", "center", "trailing"]},
          "action": {"type": "string", "minLength": 1},
          "submenu": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["label", "action"],
              "additionalProperties": false,
              "properties": {
                "label": {"type": "string", "minLength": 1},
                "action": {"type": "string", "minLength": 1}
              }
            }
          }
        }
      }
    }
  }
}`

// SubAction is one resolved entry of a nested item's sub-menu. It is handed
// to the engine as the opaque SubContent payload ([]SubAction).
type SubAction struct {
	Label string
	Do    func()
}

type itemDecl struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Priority string `json:"priority"`
	Region   string `json:"region"`
	Action   string `json:"action"`
	Submenu  []struct {
		Label  string `json:"label"`
		Action string `json:"action"`
	} `json:"submenu"`
}

type document struct {
	Items []itemDecl `json:"items"`
}

// Validate checks raw manifest bytes against the schema and returns all
// findings (empty means valid).
func Validate(data []byte) ([]string, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(Schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("manifest: schema validation: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}
	findings := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		findings = append(findings, e.String())
	}
	return findings, nil
}

// Parse validates and decodes a manifest, resolving action names against the
// host's action table. Declarations without an id get a generated one.
func Parse(data []byte, actions map[string]func()) ([]toolbar.Registration, error) {
	findings, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if len(findings) > 0 {
		return nil, fmt.Errorf("manifest: invalid document: %s", strings.Join(findings, "; "))
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}

	seen := make(map[string]bool)
	regs := make([]toolbar.Registration, 0, len(doc.Items))
	for _, decl := range doc.Items {
		id := decl.ID
		if id == "" {
			id = uuid.NewString()
		}
		if seen[id] {
			return nil, fmt.Errorf("manifest: duplicate item id %q", id)
		}
		seen[id] = true

		reg := toolbar.Registration{
			ID:       id,
			Label:    decl.Label,
			Priority: parsePriority(decl.Priority),
			Region:   parseRegion(decl.Region),
		}
		if decl.Action != "" {
			fn, ok := actions[decl.Action]
			if !ok {
				return nil, fmt.Errorf("manifest: item %q names unknown action %q", id, decl.Action)
			}
			reg.OnActivate = fn
		}
		if len(decl.Submenu) > 0 {
			sub := make([]SubAction, 0, len(decl.Submenu))
			for _, s := range decl.Submenu {
				fn, ok := actions[s.Action]
				if !ok {
					return nil, fmt.Errorf("manifest: item %q submenu names unknown action %q", id, s.Action)
				}
				sub = append(sub, SubAction{Label: s.Label, Do: fn})
			}
			reg.SubContent = sub
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

// Load reads and parses a manifest file.
func Load(path string, actions map[string]func()) ([]toolbar.Registration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return Parse(data, actions)
}

func parsePriority(s string) toolbar.Priority {
	switch s {
	case "high":
		return toolbar.PriorityHigh
	case "low":
		return toolbar.PriorityLow
	default:
		return toolbar.PriorityNormal
	}
}

func parseRegion(s string) toolbar.Region {
	switch s {
	case "leading":
		return toolbar.RegionLeading
	case "center":
		return toolbar.RegionCenter
	default:
		return toolbar.RegionTrailing
	}
}
