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

	"github.com/RaduBerinde/rlelabel/labelobject"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewDecodeCommand creates the decode subcommand.
func NewDecodeCommand() *cobra.Command {
	var inclusive bool
	cmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "Print an encoded label object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return decodeFile(cmd, args[0], inclusive)
		},
	}
	cmd.Flags().BoolVar(&inclusive, inclusiveFlag, false, "print lines as closed intervals")
	return cmd
}

func decodeFile(cmd *cobra.Command, path string, inclusive bool) error {
	logger := newLogger(cmd)
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read encoding: %w", err)
	}
	lo := labelobject.New[uint64](1)
	if err := lo.UnmarshalCompressed(b); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("decoded", slog.String("path", path), slog.String("size", humanize.Bytes(uint64(len(b)))),
		slog.Int("dimension", lo.Dimension()))
	renderObject(cmd.OutOrStdout(), makeFormatter(inclusive), lo)
	return nil
}
