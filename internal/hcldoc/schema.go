// Package hcldoc is the HCL implementation of the store.Loader interface.
// It decodes one build or partial block per file into the format-agnostic
// document model.
package hcldoc

import (
	"github.com/zclconf/go-cty/cty"
)

// fileRoot is the shape of one document file. Exactly one build or partial
// block is allowed; the loader enforces the count after decoding.
type fileRoot struct {
	Builds   []*buildBlock   `hcl:"build,block"`
	Partials []*partialBlock `hcl:"partial,block"`
}

// buildBlock covers both full and extended documents; which fields are
// required for which kind is the document validator's business, so every
// attribute here is optional. extends and include accept either a single
// document name or a list of names.
type buildBlock struct {
	Extends    cty.Value     `hcl:"extends,optional"`
	Include    cty.Value     `hcl:"include,optional"`
	BoardEnv   string        `hcl:"board_env,optional"`
	Active     *bool         `hcl:"active,optional"`
	Only       string        `hcl:"only,optional"`
	MinVersion string        `hcl:"min_version,optional"`
	Meta       *metaBlock    `hcl:"meta,block"`
	BasedOn    *basedOnBlock `hcl:"based_on,block"`
	Config     *optionsBlock `hcl:"configuration,block"`
	ConfigAdv  *optionsBlock `hcl:"configuration_adv,block"`
}

// partialBlock deliberately admits nothing but option sets, so stray build
// fields in a partial fail at decode time with a file position.
type partialBlock struct {
	Config    *optionsBlock `hcl:"configuration,block"`
	ConfigAdv *optionsBlock `hcl:"configuration_adv,block"`
}

type metaBlock struct {
	StableName  string `hcl:"stable_name,optional"`
	NightlyName string `hcl:"nightly_name,optional"`
}

type basedOnBlock struct {
	Repo          string `hcl:"repo,optional"`
	Path          string `hcl:"path,optional"`
	StableBranch  string `hcl:"stable_branch,optional"`
	NightlyBranch string `hcl:"nightly_branch,optional"`
}

// optionsBlock holds raw enable/disable expressions. Entries mix bare names
// with [name, value] pairs, so both decode as opaque cty values and are
// translated afterwards.
type optionsBlock struct {
	Enable  cty.Value `hcl:"enable,optional"`
	Disable cty.Value `hcl:"disable,optional"`
}
