package document

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// SchemaError reports the first structural problem found in a document:
// which document, which field, and why.
type SchemaError struct {
	Name   string // document identity
	Field  string // dotted field path, e.g. "meta.stable_name"
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("document %q: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("document %q: field %s: %s", e.Name, e.Field, e.Reason)
}

func (d *Document) schemaErr(field, format string, args ...any) *SchemaError {
	return &SchemaError{Name: d.Name, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the document against the schema for its kind and returns
// the first violation found as a *SchemaError.
func (d *Document) Validate() error {
	switch d.Kind {
	case KindFull:
		return d.validateFull()
	case KindPartial:
		return d.validatePartial()
	case KindExtended:
		return d.validateExtended()
	default:
		return d.schemaErr("", "unknown document kind %d", int(d.Kind))
	}
}

func (d *Document) validateFull() error {
	if d.BoardEnv == "" {
		return d.schemaErr("board_env", "required")
	}
	if err := d.validateMeta(); err != nil {
		return err
	}
	if d.BasedOn == nil {
		return d.schemaErr("based_on", "required")
	}
	basedOnFields := []struct {
		name  string
		value string
	}{
		{"repo", d.BasedOn.Repo},
		{"path", d.BasedOn.Path},
		{"stable_branch", d.BasedOn.StableBranch},
		{"nightly_branch", d.BasedOn.NightlyBranch},
	}
	for _, f := range basedOnFields {
		if f.value == "" {
			return d.schemaErr("based_on."+f.name, "required")
		}
	}
	if d.Config == nil {
		return d.schemaErr("configuration", "required")
	}
	if d.ConfigAdv == nil {
		return d.schemaErr("configuration_adv", "required")
	}
	return d.validateShared()
}

func (d *Document) validateExtended() error {
	if len(d.Extends) == 0 {
		return d.schemaErr("extends", "required")
	}
	for i, ref := range d.Extends {
		if ref == "" {
			return d.schemaErr(fmt.Sprintf("extends[%d]", i), "document name must not be empty")
		}
	}
	if err := d.validateMeta(); err != nil {
		return err
	}
	if d.Config == nil {
		return d.schemaErr("configuration", "required")
	}
	if d.ConfigAdv == nil {
		return d.schemaErr("configuration_adv", "required")
	}
	return d.validateShared()
}

// validatePartial rejects every field a configuration fragment must not
// carry. Partials hold option sets and nothing else.
func (d *Document) validatePartial() error {
	forbidden := []struct {
		name    string
		present bool
	}{
		{"extends", len(d.Extends) > 0},
		{"include", len(d.Include) > 0},
		{"board_env", d.BoardEnv != ""},
		{"active", d.Active != nil},
		{"only", d.Only != ""},
		{"min_version", d.MinVersion != ""},
		{"meta", d.Meta != nil},
		{"based_on", d.BasedOn != nil},
	}
	for _, f := range forbidden {
		if f.present {
			return d.schemaErr(f.name, "not allowed in a partial document")
		}
	}
	if d.Config == nil && d.ConfigAdv == nil {
		return d.schemaErr("", "a partial document must define configuration or configuration_adv")
	}
	return d.validateOptionSets()
}

func (d *Document) validateMeta() error {
	if d.Meta == nil {
		return d.schemaErr("meta", "required")
	}
	if d.Meta.StableName == "" {
		return d.schemaErr("meta.stable_name", "required")
	}
	if d.Meta.NightlyName == "" {
		return d.schemaErr("meta.nightly_name", "required")
	}
	return nil
}

// validateShared covers the optional fields full and extended documents have
// in common, plus their option sets.
func (d *Document) validateShared() error {
	for i, ref := range d.Include {
		if ref == "" {
			return d.schemaErr(fmt.Sprintf("include[%d]", i), "document name must not be empty")
		}
	}
	if d.Only != "" {
		if _, err := ParseChannel(d.Only); err != nil {
			return d.schemaErr("only", "%v", err)
		}
	}
	if d.MinVersion != "" && !semver.IsValid(CanonicalVersion(d.MinVersion)) {
		return d.schemaErr("min_version", "%q is not a valid semantic version", d.MinVersion)
	}
	return d.validateOptionSets()
}

func (d *Document) validateOptionSets() error {
	if err := d.validateOptions(d.Config, "configuration"); err != nil {
		return err
	}
	return d.validateOptions(d.ConfigAdv, "configuration_adv")
}

func (d *Document) validateOptions(set *OptionSet, prefix string) error {
	if set == nil {
		return nil
	}
	seen := make(map[string]bool, len(set.Enable))
	for i, opt := range set.Enable {
		field := fmt.Sprintf("%s.enable[%d]", prefix, i)
		if opt.Name == "" {
			return d.schemaErr(field, "option name must not be empty")
		}
		if seen[opt.Name] {
			return d.schemaErr(field, "duplicate option %s", opt.Name)
		}
		seen[opt.Name] = true
		if opt.HasValue() {
			if _, err := NativeValue(opt.Value); err != nil {
				return d.schemaErr(field, "%v", err)
			}
		}
	}
	seen = make(map[string]bool, len(set.Disable))
	for i, opt := range set.Disable {
		field := fmt.Sprintf("%s.disable[%d]", prefix, i)
		if opt.Name == "" {
			return d.schemaErr(field, "option name must not be empty")
		}
		if seen[opt.Name] {
			return d.schemaErr(field, "duplicate option %s", opt.Name)
		}
		seen[opt.Name] = true
		if opt.HasValue() {
			return d.schemaErr(field, "disable entries cannot carry a value")
		}
	}
	return nil
}

// CanonicalVersion returns the comparison form of a version string, adding
// the leading v that build documents omit.
func CanonicalVersion(s string) string {
	if strings.HasPrefix(s, "v") {
		return s
	}
	return "v" + s
}
