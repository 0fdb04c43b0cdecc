// Copyright 2025 Radu Berinde.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/RaduBerinde/rlelabel/internal/scenario"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

const (
	optimizeFlag  = "optimize"
	outFlag       = "out"
	inclusiveFlag = "inclusive"

	outFilePerm = 0o644
)

type runOptions struct {
	optimize  bool
	out       string
	inclusive bool
}

// NewRunCommand creates the run subcommand.
func NewRunCommand() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Apply a scenario and print the resulting lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.optimize, optimizeFlag, false, "optimize the object after the scenario")
	cmd.Flags().StringVarP(&opts.out, outFlag, "o", "", "write the compressed encoding to this file")
	cmd.Flags().BoolVar(&opts.inclusive, inclusiveFlag, false, "print lines as closed intervals")
	return cmd
}

func runScenario(cmd *cobra.Command, path string, opts runOptions) error {
	logger := newLogger(cmd)
	s, err := scenario.Load(path)
	if err != nil {
		return err
	}
	s.Optimize = s.Optimize || opts.optimize
	logger.Info("running scenario", slog.String("path", path), slog.Int("ops", len(s.Ops)))

	lo, results, err := s.Run(logger)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	f := makeFormatter(opts.inclusive)
	renderResults(w, f, results)
	renderObject(w, f, lo)

	if opts.out != "" {
		b, err := lo.MarshalCompressed()
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		if err := os.WriteFile(opts.out, b, outFilePerm); err != nil {
			return fmt.Errorf("write encoding: %w", err)
		}
		logger.Info("wrote encoding", slog.String("path", opts.out), slog.String("size", humanize.Bytes(uint64(len(b)))))
	}
	return nil
}
