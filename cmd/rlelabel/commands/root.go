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

// Package commands implements the rlelabel subcommands.
package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

const (
	verboseFlag = "verbose"
	quietFlag   = "quiet"
)

// NewRootCommand creates the rlelabel command with all subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rlelabel",
		Short: "Run-length encoded label object tool",
		Long: `rlelabel builds run-length encoded label objects from YAML scenarios
and inspects their binary encodings.

Commands:
  run       Apply a scenario and print the resulting lines
  decode    Print an encoded label object`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolP(verboseFlag, "v", false, "log every operation")
	rootCmd.PersistentFlags().BoolP(quietFlag, "q", false, "only log errors")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewDecodeCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rlelabel %s\n", Version)
		},
	}
}

// newLogger creates the logger for a command according to the persistent
// flags. Logs go to the command's error stream.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if v, _ := cmd.Flags().GetBool(verboseFlag); v {
		level = slog.LevelDebug
	}
	if q, _ := cmd.Flags().GetBool(quietFlag); q {
		level = slog.LevelError
	}
	return newTextLogger(cmd.ErrOrStderr(), level)
}

func newTextLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
