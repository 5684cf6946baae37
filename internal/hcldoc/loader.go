package hcldoc

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/firmforge/internal/ctxlog"
	"github.com/vk/firmforge/internal/document"
)

// Loader decodes .hcl document files.
type Loader struct{}

// NewLoader creates a new HCL document loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions reports the file extensions this loader claims.
func (l *Loader) Extensions() []string {
	return []string{".hcl"}
}

// Load parses one HCL file into a raw document. The document identity and
// the source path for error messages are supplied by the store.
func (l *Loader) Load(ctx context.Context, name, path string, src []byte) (*document.Raw, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	switch total := len(root.Builds) + len(root.Partials); {
	case total == 0:
		return nil, fmt.Errorf("file %s: expected a build or partial block, found none", path)
	case total > 1:
		return nil, fmt.Errorf("file %s: expected a single build or partial block, found %d", path, total)
	}

	if len(root.Partials) == 1 {
		logger.Debug("decoded partial document", "name", name, "path", path)
		return l.translatePartial(name, path, root.Partials[0])
	}
	logger.Debug("decoded build document", "name", name, "path", path)
	return l.translateBuild(name, path, root.Builds[0])
}

func (l *Loader) translateBuild(name, path string, block *buildBlock) (*document.Raw, error) {
	extends, err := stringList(block.Extends, name, "extends")
	if err != nil {
		return nil, err
	}
	include, err := stringList(block.Include, name, "include")
	if err != nil {
		return nil, err
	}
	config, err := translateOptions(block.Config, name, "configuration")
	if err != nil {
		return nil, err
	}
	configAdv, err := translateOptions(block.ConfigAdv, name, "configuration_adv")
	if err != nil {
		return nil, err
	}

	raw := &document.Raw{
		Name:       name,
		Source:     path,
		Extends:    extends,
		Include:    include,
		BoardEnv:   block.BoardEnv,
		Active:     block.Active,
		Only:       block.Only,
		MinVersion: block.MinVersion,
		Config:     config,
		ConfigAdv:  configAdv,
	}
	if block.Meta != nil {
		raw.Meta = &document.Meta{
			StableName:  block.Meta.StableName,
			NightlyName: block.Meta.NightlyName,
		}
	}
	if block.BasedOn != nil {
		raw.BasedOn = &document.BasedOn{
			Repo:          block.BasedOn.Repo,
			Path:          block.BasedOn.Path,
			StableBranch:  block.BasedOn.StableBranch,
			NightlyBranch: block.BasedOn.NightlyBranch,
		}
	}
	return raw, nil
}

func (l *Loader) translatePartial(name, path string, block *partialBlock) (*document.Raw, error) {
	config, err := translateOptions(block.Config, name, "configuration")
	if err != nil {
		return nil, err
	}
	configAdv, err := translateOptions(block.ConfigAdv, name, "configuration_adv")
	if err != nil {
		return nil, err
	}
	return &document.Raw{
		Name:      name,
		Source:    path,
		Partial:   true,
		Config:    config,
		ConfigAdv: configAdv,
	}, nil
}
