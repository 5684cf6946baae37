package confpatch

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// RenderValue renders an option parameter value the way it appears after the
// option name in a #define directive. Strings render verbatim: authors embed
// the quotes themselves when a C string literal is wanted, so numeric-looking
// values and identifiers like board names need no special casing.
func RenderValue(v cty.Value) (string, error) {
	if v == cty.NilVal || v.IsNull() {
		return "", fmt.Errorf("value is null")
	}
	if !v.IsKnown() {
		return "", fmt.Errorf("value is unknown")
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		if v.True() {
			return "true", nil
		}
		return "false", nil
	case ty == cty.Number:
		return v.AsBigFloat().Text('f', -1), nil
	case ty.IsTupleType() || ty.IsListType():
		elems := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			rendered, err := RenderValue(elem)
			if err != nil {
				return "", err
			}
			elems = append(elems, rendered)
		}
		return "{ " + strings.Join(elems, ", ") + " }", nil
	default:
		return "", fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
