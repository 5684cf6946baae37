// Package yamldoc is the YAML implementation of the store.Loader interface.
// Documents mirror the HCL shapes: a top-level "partial: true" marks a
// fragment, "extends:" marks an inheriting build, everything else is a full
// build. Unknown keys are rejected.
package yamldoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/vk/firmforge/internal/ctxlog"
	"github.com/vk/firmforge/internal/document"
)

// Loader decodes .yaml and .yml document files.
type Loader struct{}

// NewLoader creates a new YAML document loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions reports the file extensions this loader claims.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

type fileYAML struct {
	Partial    bool         `yaml:"partial"`
	Extends    any          `yaml:"extends"`
	Include    any          `yaml:"include"`
	BoardEnv   string       `yaml:"board_env"`
	Active     *bool        `yaml:"active"`
	Only       string       `yaml:"only"`
	MinVersion string       `yaml:"min_version"`
	Meta       *metaYAML    `yaml:"meta"`
	BasedOn    *basedOnYAML `yaml:"based_on"`
	Config     *optionsYAML `yaml:"configuration"`
	ConfigAdv  *optionsYAML `yaml:"configuration_adv"`
}

type metaYAML struct {
	StableName  string `yaml:"stable_name"`
	NightlyName string `yaml:"nightly_name"`
}

type basedOnYAML struct {
	Repo          string `yaml:"repo"`
	Path          string `yaml:"path"`
	StableBranch  string `yaml:"stable_branch"`
	NightlyBranch string `yaml:"nightly_branch"`
}

type optionsYAML struct {
	Enable  []any `yaml:"enable"`
	Disable []any `yaml:"disable"`
}

// Load parses one YAML file into a raw document. A file holds exactly one
// document; multi-document streams are rejected.
func (l *Loader) Load(ctx context.Context, name, path string, src []byte) (*document.Raw, error) {
	logger := ctxlog.FromContext(ctx)

	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var file fileYAML
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("file %s: expected a document, found none", path)
		}
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("file %s: expected a single document per file", path)
	}

	raw, err := l.translate(name, path, &file)
	if err != nil {
		return nil, err
	}
	logger.Debug("decoded document", "name", name, "path", path, "partial", raw.Partial)
	return raw, nil
}

func (l *Loader) translate(name, path string, file *fileYAML) (*document.Raw, error) {
	extends, err := stringList(file.Extends, name, "extends")
	if err != nil {
		return nil, err
	}
	include, err := stringList(file.Include, name, "include")
	if err != nil {
		return nil, err
	}
	config, err := translateOptions(file.Config, name, "configuration")
	if err != nil {
		return nil, err
	}
	configAdv, err := translateOptions(file.ConfigAdv, name, "configuration_adv")
	if err != nil {
		return nil, err
	}

	raw := &document.Raw{
		Name:       name,
		Source:     path,
		Partial:    file.Partial,
		Extends:    extends,
		Include:    include,
		BoardEnv:   file.BoardEnv,
		Active:     file.Active,
		Only:       file.Only,
		MinVersion: file.MinVersion,
		Config:     config,
		ConfigAdv:  configAdv,
	}
	if file.Meta != nil {
		raw.Meta = &document.Meta{
			StableName:  file.Meta.StableName,
			NightlyName: file.Meta.NightlyName,
		}
	}
	if file.BasedOn != nil {
		raw.BasedOn = &document.BasedOn{
			Repo:          file.BasedOn.Repo,
			Path:          file.BasedOn.Path,
			StableBranch:  file.BasedOn.StableBranch,
			NightlyBranch: file.BasedOn.NightlyBranch,
		}
	}
	return raw, nil
}

func stringList(v any, docName, field string) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{x}, nil
	case []any:
		names := make([]string, 0, len(x))
		for i, elem := range x {
			s, ok := elem.(string)
			if !ok {
				return nil, &document.SchemaError{
					Name:   docName,
					Field:  fmt.Sprintf("%s[%d]", field, i),
					Reason: "expected a document name string",
				}
			}
			names = append(names, s)
		}
		return names, nil
	default:
		return nil, &document.SchemaError{
			Name:   docName,
			Field:  field,
			Reason: fmt.Sprintf("expected a document name or list of names, got %T", v),
		}
	}
}

func translateOptions(block *optionsYAML, docName, prefix string) (*document.OptionSet, error) {
	if block == nil {
		return nil, nil
	}
	enable, err := decodeEntries(block.Enable, docName, prefix+".enable")
	if err != nil {
		return nil, err
	}
	disable, err := decodeEntries(block.Disable, docName, prefix+".disable")
	if err != nil {
		return nil, err
	}
	return &document.OptionSet{Enable: enable, Disable: disable}, nil
}

func decodeEntries(entries []any, docName, field string) ([]document.Option, error) {
	var options []document.Option
	for i, entry := range entries {
		entryField := fmt.Sprintf("%s[%d]", field, i)

		switch x := entry.(type) {
		case string:
			options = append(options, document.Option{Name: x})

		case []any:
			if len(x) != 2 {
				return nil, &document.SchemaError{
					Name:   docName,
					Field:  entryField,
					Reason: fmt.Sprintf("an option pair must be [name, value], got %d elements", len(x)),
				}
			}
			optName, ok := x[0].(string)
			if !ok {
				return nil, &document.SchemaError{
					Name:   docName,
					Field:  entryField,
					Reason: "the first element of an option pair must be the option name",
				}
			}
			value, err := scalarValue(x[1])
			if err != nil {
				return nil, &document.SchemaError{
					Name:   docName,
					Field:  entryField,
					Reason: err.Error(),
				}
			}
			options = append(options, document.Option{Name: optName, Value: value})

		default:
			return nil, &document.SchemaError{
				Name:   docName,
				Field:  entryField,
				Reason: fmt.Sprintf("expected an option name or [name, value] pair, got %T", entry),
			}
		}
	}
	return options, nil
}

// scalarValue converts a decoded YAML value into the cty representation the
// option model uses. Only literal scalars and lists of them are supported.
func scalarValue(v any) (cty.Value, error) {
	switch x := v.(type) {
	case string:
		return cty.StringVal(x), nil
	case bool:
		return cty.BoolVal(x), nil
	case int:
		return cty.NumberIntVal(int64(x)), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case uint64:
		return cty.NumberUIntVal(x), nil
	case float64:
		return cty.NumberFloatVal(x), nil
	case []any:
		if len(x) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, 0, len(x))
		for _, elem := range x {
			val, err := scalarValue(elem)
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, val)
		}
		return cty.TupleVal(elems), nil
	case nil:
		return cty.NilVal, fmt.Errorf("parameter value must not be null")
	default:
		return cty.NilVal, fmt.Errorf("unsupported parameter value of type %T", v)
	}
}
