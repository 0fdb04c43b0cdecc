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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/RaduBerinde/rlelabel/internal/scenario"
	"github.com/RaduBerinde/rlelabel/labelobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScenario = `
dimension: 2
label: 3
ops:
  - add-line: {index: [0, 0], length: 3}
  - add: [5, 1]
  - has: [1, 0]
  - has: [4, 1]
`

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeScenario(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRun(t *testing.T) {
	path := writeScenario(t, testScenario)
	out, _, err := execute(t, "run", "-q", path)
	require.NoError(t, err)

	assert.Contains(t, out, "has (1, 0): true")
	assert.Contains(t, out, "has (4, 1): false")
	assert.Contains(t, out, "[0, 3)")
	assert.Contains(t, out, "[5, 6)")
	assert.Contains(t, out, "label 3: 2 lines, 4 pixels")
	assert.Contains(t, out, "bounding box: (0, 0) - (5, 1)")
	assert.NotContains(t, out, "--optimize")
}

func TestRunInclusive(t *testing.T) {
	path := writeScenario(t, testScenario)
	out, _, err := execute(t, "run", "-q", "--inclusive", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[0, 2]")
	assert.Contains(t, out, "[5, 5]")
}

func TestRunVerbose(t *testing.T) {
	path := writeScenario(t, testScenario)
	_, logs, err := execute(t, "run", "-v", path)
	require.NoError(t, err)
	assert.Contains(t, logs, "msg=\"running scenario\"")
	assert.Contains(t, logs, "msg=\"applied operation\"")
}

func TestRunUnoptimized(t *testing.T) {
	path := writeScenario(t, "dimension: 1\nops:\n  - add: [0]\n  - add: [1]\n")
	out, _, err := execute(t, "run", "-q", path)
	require.NoError(t, err)
	assert.Contains(t, out, "--optimize")

	out, _, err = execute(t, "run", "-q", "--optimize", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 lines, 2 pixels")
	assert.NotContains(t, out, "note:")
}

func TestRunInvalid(t *testing.T) {
	path := writeScenario(t, "dimension: 2\nops:\n  - add: [1]\n")
	_, _, err := execute(t, "run", path)
	require.ErrorIs(t, err, scenario.ErrInvalid)

	_, _, err = execute(t, "run")
	require.Error(t, err)
}

func TestRunDecode(t *testing.T) {
	path := writeScenario(t, testScenario)
	encoded := filepath.Join(t.TempDir(), "object.bin")
	_, _, err := execute(t, "run", "-q", "--out", encoded, path)
	require.NoError(t, err)

	out, _, err := execute(t, "decode", "-q", encoded)
	require.NoError(t, err)
	assert.Contains(t, out, "[0, 3)")
	assert.Contains(t, out, "[5, 6)")
	// The label is not part of the encoding.
	assert.Contains(t, out, "label 0: 2 lines, 4 pixels")
}

func TestDecodeCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.bin")
	require.NoError(t, os.WriteFile(path, []byte{7, 0, 0}, 0o644))
	_, _, err := execute(t, "decode", path)
	require.ErrorIs(t, err, labelobject.ErrCorrupt)

	_, _, err = execute(t, "decode", filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rlelabel dev\n", out)
}
