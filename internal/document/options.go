package document

import (
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Option is a single enable or disable directive. A bare toggle carries no
// value (Value == cty.NilVal); an enable entry may carry a parameter value
// of any literal type, including lists.
type Option struct {
	Name  string
	Value cty.Value
}

// HasValue reports whether the option carries a parameter value.
func (o Option) HasValue() bool {
	return o.Value != cty.NilVal
}

// MarshalJSON renders a bare option as its name and a valued option as a
// two-element [name, value] array, the same shape the documents use.
func (o Option) MarshalJSON() ([]byte, error) {
	if !o.HasValue() {
		return json.Marshal(o.Name)
	}
	native, err := NativeValue(o.Value)
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", o.Name, err)
	}
	return json.Marshal([2]any{o.Name, native})
}

// MarshalYAML mirrors MarshalJSON for YAML encoders.
func (o Option) MarshalYAML() (any, error) {
	if !o.HasValue() {
		return o.Name, nil
	}
	native, err := NativeValue(o.Value)
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", o.Name, err)
	}
	return [2]any{o.Name, native}, nil
}

// OptionSet holds the enable and disable directives of one configuration
// file, in authoring order.
type OptionSet struct {
	Enable  []Option `yaml:"enable,omitempty" json:"enable,omitempty"`
	Disable []Option `yaml:"disable,omitempty" json:"disable,omitempty"`
}

// Clone returns a deep copy of the set. A nil receiver clones to nil.
func (s *OptionSet) Clone() *OptionSet {
	if s == nil {
		return nil
	}
	return &OptionSet{
		Enable:  append([]Option(nil), s.Enable...),
		Disable: append([]Option(nil), s.Disable...),
	}
}

// HasEnable reports whether an enable entry with the given name exists.
func (s *OptionSet) HasEnable(name string) bool {
	return s != nil && indexOption(s.Enable, name) >= 0
}

// HasDisable reports whether a disable entry with the given name exists.
func (s *OptionSet) HasDisable(name string) bool {
	return s != nil && indexOption(s.Disable, name) >= 0
}

func indexOption(options []Option, name string) int {
	for i, opt := range options {
		if opt.Name == name {
			return i
		}
	}
	return -1
}

// NativeValue converts a literal option value into plain Go types suitable
// for encoding: string, bool, int64, float64, or []any for collections.
func NativeValue(v cty.Value) (any, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, fmt.Errorf("value is null")
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is unknown")
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int64()
			return i, nil
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		elems := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			native, err := NativeValue(elem)
			if err != nil {
				return nil, err
			}
			elems = append(elems, native)
		}
		return elems, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
