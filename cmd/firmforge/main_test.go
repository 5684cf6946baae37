package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vk/firmforge/internal/testutil"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return shouldExit=true.
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	err := run(out, logs, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, logs.String(), "Usage:", "Expected help text to be printed")
	assert.Empty(t, out.String(), "no plan is written on a help exit")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_MissingRelease(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{t.TempDir()})

	require.Error(t, err)
	require.Contains(t, err.Error(), "release version is required")
}

func TestRun_ResolutionErrorPropagates(t *testing.T) {
	t.Parallel()

	root := testutil.WriteTree(t, map[string]string{
		"printers/alpha.hcl": `
build {
  extends = "printers/missing"
  meta {
    stable_name  = "a.hex"
    nightly_name = "a-n.hex"
  }
  configuration {}
  configuration_adv {}
}
`,
	})

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"--release=2.1.3", root})

	require.Error(t, err)
	require.Contains(t, err.Error(), "printers/missing")
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	root := testutil.WriteTree(t, map[string]string{
		"common/quiet.yaml": `
partial: true
configuration:
  disable: [SPEAKER]
`,
		"printers/base.hcl": `
build {
  board_env = "mega2560"

  meta {
    stable_name  = "base-%VERSION%.hex"
    nightly_name = "base-nightly.hex"
  }

  based_on {
    repo           = "https://github.com/MarlinFirmware/Marlin"
    path           = "config/examples/Base"
    stable_branch  = "2.1.x"
    nightly_branch = "bugfix-2.1.x"
  }

  configuration {
    enable = ["PIDTEMP"]
  }

  configuration_adv {}
}
`,
		"printers/alpha.hcl": `
build {
  extends = "printers/base"
  include = "common/quiet"

  meta {
    stable_name  = "alpha-%VERSION%.hex"
    nightly_name = "alpha-nightly.hex"
  }

  configuration {
    enable = [["TEMP_SENSOR_0", 5]]
  }

  configuration_adv {}
}
`,
	})

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	err := run(out, logs, []string{"--release=2.1.3", "--log-format=text", root})
	require.NoError(t, err, "logs:\n%s", logs.String())

	var jobs []struct {
		Name         string `yaml:"name"`
		BoardEnv     string `yaml:"board_env"`
		Branch       string `yaml:"branch"`
		ArtifactName string `yaml:"artifact_name"`
		Channel      string `yaml:"channel"`
		Config       struct {
			Enable  []any `yaml:"enable"`
			Disable []any `yaml:"disable"`
		} `yaml:"configuration"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &jobs))
	require.Len(t, jobs, 2)

	assert.Equal(t, "printers/alpha", jobs[0].Name)
	assert.Equal(t, "mega2560", jobs[0].BoardEnv, "board_env inherited from the base build")
	assert.Equal(t, "2.1.x", jobs[0].Branch)
	assert.Equal(t, "alpha-2.1.3.hex", jobs[0].ArtifactName, "version placeholder substituted")
	assert.Equal(t, "stable", jobs[0].Channel)
	assert.Contains(t, jobs[0].Config.Enable, "PIDTEMP", "inherited enable")
	assert.Contains(t, jobs[0].Config.Enable, []any{"TEMP_SENSOR_0", 5}, "own valued enable")
	assert.Contains(t, jobs[0].Config.Disable, "SPEAKER", "merged from the partial")

	assert.Equal(t, "printers/base", jobs[1].Name)
	assert.Equal(t, "base-2.1.3.hex", jobs[1].ArtifactName)
}
