package hcldoc

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/firmforge/internal/document"
)

// stringList accepts either a single document name or a tuple/list of names,
// the two shapes extends and include allow.
func stringList(v cty.Value, docName, field string) ([]string, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, nil
	}
	if v.Type() == cty.String {
		return []string{v.AsString()}, nil
	}
	if !isSequence(v.Type()) {
		return nil, &document.SchemaError{
			Name:   docName,
			Field:  field,
			Reason: fmt.Sprintf("expected a document name or list of names, got %s", v.Type().FriendlyName()),
		}
	}
	var names []string
	for it := v.ElementIterator(); it.Next(); {
		idx, elem := it.Element()
		if elem.IsNull() || elem.Type() != cty.String {
			return nil, &document.SchemaError{
				Name:   docName,
				Field:  fmt.Sprintf("%s[%s]", field, indexLabel(idx)),
				Reason: "expected a document name string",
			}
		}
		names = append(names, elem.AsString())
	}
	return names, nil
}

func translateOptions(block *optionsBlock, docName, prefix string) (*document.OptionSet, error) {
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

// decodeEntries translates an enable/disable expression into options. Each
// element is either a bare option name or a two-element [name, value] pair.
// Whether values are allowed at all in the given list is a schema question,
// answered later by document validation; only structure is checked here.
func decodeEntries(v cty.Value, docName, field string) ([]document.Option, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, nil
	}
	if !isSequence(v.Type()) {
		return nil, &document.SchemaError{
			Name:   docName,
			Field:  field,
			Reason: fmt.Sprintf("expected a list of options, got %s", v.Type().FriendlyName()),
		}
	}
	var options []document.Option
	for it := v.ElementIterator(); it.Next(); {
		idx, elem := it.Element()
		entryField := fmt.Sprintf("%s[%s]", field, indexLabel(idx))

		switch {
		case elem.Type() == cty.String:
			options = append(options, document.Option{Name: elem.AsString()})

		case isSequence(elem.Type()):
			if elem.LengthInt() != 2 {
				return nil, &document.SchemaError{
					Name:   docName,
					Field:  entryField,
					Reason: fmt.Sprintf("an option pair must be [name, value], got %d elements", elem.LengthInt()),
				}
			}
			nameVal := elem.Index(cty.NumberIntVal(0))
			if nameVal.IsNull() || nameVal.Type() != cty.String {
				return nil, &document.SchemaError{
					Name:   docName,
					Field:  entryField,
					Reason: "the first element of an option pair must be the option name",
				}
			}
			options = append(options, document.Option{
				Name:  nameVal.AsString(),
				Value: elem.Index(cty.NumberIntVal(1)),
			})

		default:
			return nil, &document.SchemaError{
				Name:   docName,
				Field:  entryField,
				Reason: fmt.Sprintf("expected an option name or [name, value] pair, got %s", elem.Type().FriendlyName()),
			}
		}
	}
	return options, nil
}

func isSequence(ty cty.Type) bool {
	return ty.IsTupleType() || ty.IsListType()
}

// indexLabel renders an iterator key for error paths. Keys of tuples and
// lists are always numbers.
func indexLabel(idx cty.Value) string {
	if idx.Type() == cty.Number {
		i, _ := idx.AsBigFloat().Int64()
		return fmt.Sprintf("%d", i)
	}
	return idx.GoString()
}
