// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// The licensedcode-detect command reads a file, runs license detection
// against it, and prints the resulting detections as JSON.
//
//	$ licensedcode-detect detect LICENSE
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scancode-go/licensedcode/detect"
	"github.com/scancode-go/licensedcode/index"
	"github.com/scancode-go/licensedcode/rules"
)

// options collects the CLI flags populated by cobra before NewEngine is
// built from them, following the teacher's variadic-option constructors
// rather than threading individual flag values through by hand.
type options struct {
	rulesDir    string
	minScore    float64
	includeText bool
	verbose     bool
}

func main() {
	opts := &options{}
	log := newLogger()

	root := &cobra.Command{
		Use:   "licensedcode-detect",
		Short: "Detect software licenses in source files",
	}
	root.PersistentFlags().StringVar(&opts.rulesDir, "rules", "", "directory of .RULE files (required)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.MarkPersistentFlagRequired("rules")

	detectCmd := &cobra.Command{
		Use:   "detect PATH",
		Short: "Detect licenses in the file at PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			return runDetect(cmd.Context(), log, opts, args[0])
		},
	}
	detectCmd.Flags().Float64Var(&opts.minScore, "min-score", 0, "drop detections scoring below this threshold")
	detectCmd.Flags().BoolVar(&opts.includeText, "include-text", false, "attach the literal matched text to each match")

	root.AddCommand(detectCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

// runDetect loads the rule corpus, runs detection, and writes the result as
// JSON to stdout. Per spec, a clean run (including "no detections") exits
// zero; an error is returned here only on an I/O failure or when no rule in
// the rules directory loads.
func runDetect(ctx context.Context, log *logrus.Logger, opts *options, path string) error {
	corpus, err := rules.LoadDir(opts.rulesDir)
	if err != nil {
		log.WithError(err).Warn("some rule files failed to load")
	}
	if len(corpus) == 0 {
		return fmt.Errorf("no usable rules loaded from %s", opts.rulesDir)
	}

	ix, err := index.Build(corpus)
	if err != nil {
		log.WithError(err).Warn("index build reported errors")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	engine := detect.NewEngine(ix,
		detect.WithLogger(log.WithField("component", "engine")),
		detect.WithMinScore(opts.minScore),
		detect.WithIncludeText(opts.includeText),
	)

	detections, err := engine.Detect(ctx, data, path)
	if err != nil {
		log.WithError(err).Warn("detect reported an error; emitting what was found")
	}
	if detections == nil {
		detections = []detect.Detection{}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(detections)
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{})
	log.SetOutput(os.Stderr)
	return log
}
