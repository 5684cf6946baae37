package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

func TestNativeValue(t *testing.T) {
	testCases := []struct {
		name string
		in   cty.Value
		want any
	}{
		{"string", cty.StringVal("PID"), "PID"},
		{"integer", cty.NumberIntVal(42), int64(42)},
		{"float", cty.NumberFloatVal(99.5), 99.5},
		{"bool", cty.BoolVal(true), true},
		{
			"tuple",
			cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.StringVal("a")}),
			[]any{int64(1), "a"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NativeValue(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("null is rejected", func(t *testing.T) {
		_, err := NativeValue(cty.NullVal(cty.String))
		require.Error(t, err)
	})
}

func TestOption_Marshal(t *testing.T) {
	t.Run("bare option encodes as its name", func(t *testing.T) {
		out, err := json.Marshal(Option{Name: "PIDTEMP"})
		require.NoError(t, err)
		assert.JSONEq(t, `"PIDTEMP"`, string(out))
	})

	t.Run("valued option encodes as a pair", func(t *testing.T) {
		out, err := json.Marshal(Option{Name: "TEMP_SENSOR_0", Value: cty.NumberIntVal(5)})
		require.NoError(t, err)
		assert.JSONEq(t, `["TEMP_SENSOR_0", 5]`, string(out))
	})

	t.Run("yaml mirrors the document shape", func(t *testing.T) {
		set := OptionSet{
			Enable:  []Option{{Name: "PIDTEMP"}, {Name: "MOTHERBOARD", Value: cty.StringVal("BOARD_RAMPS_14_EFB")}},
			Disable: []Option{{Name: "SPEAKER"}},
		}
		out, err := yaml.Marshal(set)
		require.NoError(t, err)

		var round struct {
			Enable  []any `yaml:"enable"`
			Disable []any `yaml:"disable"`
		}
		require.NoError(t, yaml.Unmarshal(out, &round))
		assert.Equal(t, "PIDTEMP", round.Enable[0])
		assert.Equal(t, []any{"MOTHERBOARD", "BOARD_RAMPS_14_EFB"}, round.Enable[1])
		assert.Equal(t, []any{"SPEAKER"}, round.Disable)
	})
}

func TestOptionSet_Lookups(t *testing.T) {
	set := &OptionSet{
		Enable:  []Option{{Name: "PIDTEMP"}},
		Disable: []Option{{Name: "SPEAKER"}},
	}
	assert.True(t, set.HasEnable("PIDTEMP"))
	assert.False(t, set.HasEnable("SPEAKER"))
	assert.True(t, set.HasDisable("SPEAKER"))

	var nilSet *OptionSet
	assert.False(t, nilSet.HasEnable("PIDTEMP"))
	assert.Nil(t, nilSet.Clone())
}
