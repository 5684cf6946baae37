package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/firmforge/internal/document"
	"github.com/vk/firmforge/internal/testutil"
)

// These tests drive authored document trees through the whole scan and
// resolution pipeline, one merge rule per tree.

func TestScenario_IncludingBuildOverridesPartialDisable(t *testing.T) {
	result := testutil.ResolveTree(t, map[string]string{
		"common/base.yaml": `
partial: true
configuration:
  disable: [FEATURE_A]
`,
		"builds/alpha.hcl": `
build {
  include   = "common/base"
  board_env = "mega2560"

  meta {
    stable_name  = "alpha-%VERSION%.hex"
    nightly_name = "alpha-nightly.hex"
  }

  based_on {
    repo           = "https://github.com/MarlinFirmware/Marlin"
    path           = "config/examples/Alpha"
    stable_branch  = "2.1.x"
    nightly_branch = "bugfix-2.1.x"
  }

  configuration {
    enable = ["FEATURE_A"]
  }

  configuration_adv {}
}
`,
	})
	require.NoError(t, result.Err)

	alpha, ok := result.Registry.Get("builds/alpha")
	require.True(t, ok)
	assert.True(t, alpha.Config.HasEnable("FEATURE_A"), "alpha's own enable is the authority")
	assert.False(t, alpha.Config.HasDisable("FEATURE_A"), "the partial's disable was dropped")
	assert.Contains(t, result.LogOutput, "disable dropped", "the conflict is reported as a warning")

	_, stillThere := result.Registry.Get("common/base")
	assert.False(t, stillThere, "consumed partials never reach the final registry")
}

func TestScenario_ChildInheritsBoardEnv(t *testing.T) {
	result := testutil.ResolveTree(t, map[string]string{
		"builds/base.hcl": `
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

  configuration {}
  configuration_adv {}
}
`,
		"builds/child.yaml": `
extends: builds/base
meta:
  stable_name: child-%VERSION%.hex
  nightly_name: child-nightly.hex
configuration: {}
configuration_adv: {}
`,
	})
	require.NoError(t, result.Err)

	child, ok := result.Registry.Get("builds/child")
	require.True(t, ok)
	assert.Equal(t, document.KindFull, child.Kind)
	assert.Equal(t, "mega2560", child.BoardEnv, "unset board_env falls back to the parent")
	require.NotNil(t, child.BasedOn)
	assert.Equal(t, "config/examples/Base", child.BasedOn.Path)
}

func TestScenario_ChildOverridesParameterValue(t *testing.T) {
	result := testutil.ResolveTree(t, map[string]string{
		"builds/base.hcl": `
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
    enable = [["OPT_X", 5]]
  }

  configuration_adv {}
}
`,
		"builds/child.hcl": `
build {
  extends = "builds/base"

  meta {
    stable_name  = "child-%VERSION%.hex"
    nightly_name = "child-nightly.hex"
  }

  configuration {
    enable = [["OPT_X", 9]]
  }

  configuration_adv {}
}
`,
	})
	require.NoError(t, result.Err)

	child, ok := result.Registry.Get("builds/child")
	require.True(t, ok)
	require.Len(t, child.Config.Enable, 1)
	assert.True(t, child.Config.Enable[0].Value.RawEquals(cty.NumberIntVal(9)),
		"the extending build's parameter value replaces the parent's")

	base, _ := result.Registry.Get("builds/base")
	assert.True(t, base.Config.Enable[0].Value.RawEquals(cty.NumberIntVal(5)), "the parent keeps its own value")
}

func TestScenario_DuplicateArtifactNamesAcrossFiles(t *testing.T) {
	result := testutil.ResolveTree(t, map[string]string{
		"builds/a.yaml": `
board_env: mega2560
meta: {stable_name: same.hex, nightly_name: a-nightly.hex}
based_on: {repo: r, path: p, stable_branch: s, nightly_branch: n}
configuration: {}
configuration_adv: {}
`,
		"builds/b.yaml": `
board_env: mega2560
meta: {stable_name: same.hex, nightly_name: b-nightly.hex}
based_on: {repo: r, path: p, stable_branch: s, nightly_branch: n}
configuration: {}
configuration_adv: {}
`,
	})

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "duplicate artifact name")
	assert.Contains(t, result.Err.Error(), `"same.hex"`)
}
