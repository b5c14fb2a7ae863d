/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads the user-editable YAML configuration and applies
// environment overrides. The layout section feeds the fitting geometry of
// the bar engine; values the file omits keep their defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"adaptivebar/internal/toolbar"
)

type LayoutConfig struct {
	// Gap is the horizontal spacing between inline items, px.
	Gap float64 `yaml:"gap"`
	// OverflowButtonWidth is the reserved width of the overflow affordance, px.
	OverflowButtonWidth float64 `yaml:"overflow_button_width"`
	// SafetyMargin buffers the fitting pass against measurement jitter, px.
	SafetyMargin float64 `yaml:"safety_margin"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type UIConfig struct {
	WindowWidth  int `yaml:"window_width"`
	WindowHeight int `yaml:"window_height"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Layout        LayoutConfig  `yaml:"layout"`
	Logging       LoggingConfig `yaml:"logging"`
	UI            UIConfig      `yaml:"ui"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	m := toolbar.DefaultMetrics()
	return AppConfig{
		ConfigVersion: 1,
		Layout:        LayoutConfig{Gap: m.Gap, OverflowButtonWidth: m.OverflowButtonWidth, SafetyMargin: m.SafetyMargin},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
		UI:            UIConfig{WindowWidth: 900, WindowHeight: 600},
	}
}

// Env var names used as read-only overrides.
const (
	EnvGap          = "ABR_LAYOUT_GAP"
	EnvOverflowWide = "ABR_LAYOUT_OVERFLOW_BUTTON_WIDTH"
	EnvSafetyMargin = "ABR_LAYOUT_SAFETY_MARGIN"
	EnvLogLevel     = "ABR_LOG_LEVEL"
	EnvLogFormat    = "ABR_LOG_FORMAT"
	EnvLogSource    = "ABR_LOG_SOURCE"
	EnvLogFile      = "ABR_LOG_FILE"
)

// Path returns the per-user config file path.
func Path() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "AdaptiveBar")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "AdaptiveBar")
	default:
		base = filepath.Join(os.Getenv("HOME"), ".config", "adaptivebar")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides. A missing or unparsable file falls back to defaults.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Metrics converts the layout section into fitting geometry.
func (c AppConfig) Metrics() toolbar.Metrics {
	return toolbar.Metrics{
		Gap:                 c.Layout.Gap,
		OverflowButtonWidth: c.Layout.OverflowButtonWidth,
		SafetyMargin:        c.Layout.SafetyMargin,
	}
}

func mergeInto(dst, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// zero is a legal gap/margin, so only positive file values override
	if src.Layout.Gap > 0 {
		dst.Layout.Gap = src.Layout.Gap
	}
	if src.Layout.OverflowButtonWidth > 0 {
		dst.Layout.OverflowButtonWidth = src.Layout.OverflowButtonWidth
	}
	if src.Layout.SafetyMargin > 0 {
		dst.Layout.SafetyMargin = src.Layout.SafetyMargin
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	if src.UI.WindowWidth > 0 {
		dst.UI.WindowWidth = src.UI.WindowWidth
	}
	if src.UI.WindowHeight > 0 {
		dst.UI.WindowHeight = src.UI.WindowHeight
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v, ok := envFloat(EnvGap); ok {
		cfg.Layout.Gap = v
	}
	if v, ok := envFloat(EnvOverflowWide); ok {
		cfg.Layout.OverflowButtonWidth = v
	}
	if v, ok := envFloat(EnvSafetyMargin); ok {
		cfg.Layout.SafetyMargin = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func envFloat(key string) (float64, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}
