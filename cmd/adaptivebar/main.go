/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"

	"adaptivebar/internal/crash"
	applog "adaptivebar/internal/log"
	"adaptivebar/internal/manifest"
	"adaptivebar/internal/ui"
	"adaptivebar/internal/version"
)

func usage() {
	fmt.Println("Adaptive Bar — toolbar layout engine demo")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  adaptivebar version|-v|--version      Show version")
	fmt.Println("  adaptivebar validate <manifest.json>  Check an item manifest against the schema")
	fmt.Println("  adaptivebar ui [manifest.json]        Launch the demo (build with -tags fyne for full UI)")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	defer crash.Recover()

	args := os.Args
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println(version.String())
			return
		case "validate":
			if len(args) < 3 {
				fmt.Println("validate requires <manifest.json>")
				usage()
				os.Exit(2)
			}
			validateManifest(args[2], l)
			return
		case "ui":
			var path string
			if len(args) >= 3 {
				path = args[2]
			}
			if err := ui.Run(path); err != nil {
				l.Error("ui failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}
	usage()
}

func validateManifest(path string, l *slog.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		l.Error("read manifest failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	findings, err := manifest.Validate(data)
	if err != nil {
		l.Error("validate failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if len(findings) == 0 {
		fmt.Println("Manifest is valid.")
		return
	}
	fmt.Printf("Manifest has %d problem(s):\n", len(findings))
	for _, f := range findings {
		fmt.Println("  -", f)
	}
	os.Exit(1)
}
