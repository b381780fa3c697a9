/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/mirror"
)

// run executes the CLI with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.Execute()
	return out.String(), err
}

func TestAssemblies(t *testing.T) {
	out, err := run(t, "assemblies")
	require.NoError(t, err)
	assert.Contains(t, out, "std@")
}

func TestRefs(t *testing.T) {
	out, err := run(t, "refs", "std")
	require.NoError(t, err)
	assert.Contains(t, out, "std@")

	_, err = run(t, "refs", "example.com/absent")
	assert.ErrorIs(t, err, mirror.ErrNotFound)
}

func TestType(t *testing.T) {
	out, err := run(t, "type", "time.Duration")
	require.NoError(t, err)
	assert.Contains(t, out, "time.Duration")
	assert.Contains(t, out, "Methods")
	assert.Contains(t, out, "Hours()")

	out, err = run(t, "type", "url.URL")
	require.NoError(t, err)
	assert.Contains(t, out, "Fields")
	assert.Contains(t, out, "Constructors")
	assert.Contains(t, out, "Parse(string)")
}

func TestType_IgnoreCase(t *testing.T) {
	_, err := run(t, "type", "TIME.duration")
	assert.ErrorIs(t, err, mirror.ErrNotFound)

	out, err := run(t, "type", "TIME.duration", "--ignore-case")
	require.NoError(t, err)
	assert.Contains(t, out, "time.Duration")

	t.Setenv("MIRROR_IGNORE_CASE", "true")
	_, err = run(t, "type", "TIME.duration")
	assert.NoError(t, err)
}

func TestStats(t *testing.T) {
	out, err := run(t, "stats")
	require.NoError(t, err)
	for _, kind := range []string{"Assembly", "Type", "ResourceInfo"} {
		assert.Contains(t, out, kind)
	}
}

func TestConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity_hint: 16\nmax_unwrap: 3\n"), 0o600))

	_, err := run(t, "stats", "--config", path)
	require.NoError(t, err)
	cfg := mirror.Default().Config()
	assert.Equal(t, 16, cfg.CapacityHint)
	assert.Equal(t, 3, cfg.MaxUnwrap)

	t.Setenv("MIRROR_CAPACITY_HINT", "32")
	_, err = run(t, "stats", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, 32, mirror.Default().Config().CapacityHint, "environment beats the file")

	_, err = run(t, "stats", "--log-level", "loud")
	assert.Error(t, err)

	_, err = run(t, "stats", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
