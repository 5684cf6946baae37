package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func fullDoc() *Document {
	active := true
	return &Document{
		Name:     "printers/alpha",
		Source:   "printers/alpha.hcl",
		Kind:     KindFull,
		BoardEnv: "mega2560",
		Active:   &active,
		Meta: &Meta{
			StableName:  "alpha-%VERSION%.bin",
			NightlyName: "alpha-nightly.bin",
		},
		BasedOn: &BasedOn{
			Repo:          "https://github.com/MarlinFirmware/Marlin",
			Path:          "Marlin",
			StableBranch:  "2.1.x",
			NightlyBranch: "bugfix-2.1.x",
		},
		Config: &OptionSet{
			Enable:  []Option{{Name: "PIDTEMP"}, {Name: "TEMP_SENSOR_0", Value: cty.NumberIntVal(5)}},
			Disable: []Option{{Name: "SPEAKER"}},
		},
		ConfigAdv: &OptionSet{},
	}
}

func TestDocument_Clone(t *testing.T) {
	t.Run("copies are independent", func(t *testing.T) {
		orig := fullDoc()
		clone := orig.Clone()

		clone.BoardEnv = "rambo"
		clone.Meta.StableName = "other.bin"
		clone.BasedOn.Repo = "elsewhere"
		*clone.Active = false
		clone.Config.Enable[0] = Option{Name: "CHANGED"}
		clone.Config.Enable = append(clone.Config.Enable, Option{Name: "ADDED"})

		assert.Equal(t, "mega2560", orig.BoardEnv)
		assert.Equal(t, "alpha-%VERSION%.bin", orig.Meta.StableName)
		assert.Equal(t, "https://github.com/MarlinFirmware/Marlin", orig.BasedOn.Repo)
		assert.True(t, *orig.Active)
		assert.Equal(t, "PIDTEMP", orig.Config.Enable[0].Name)
		assert.Len(t, orig.Config.Enable, 2)
	})

	t.Run("nil sub-structures stay nil", func(t *testing.T) {
		orig := &Document{Name: "bare", Kind: KindPartial}
		clone := orig.Clone()

		assert.Nil(t, clone.Meta)
		assert.Nil(t, clone.BasedOn)
		assert.Nil(t, clone.Active)
		assert.Nil(t, clone.Config)
		assert.Nil(t, clone.ConfigAdv)
	})
}

func TestDocument_IsActive(t *testing.T) {
	active := false
	assert.True(t, (&Document{}).IsActive(), "unset defaults to active")
	assert.False(t, (&Document{Active: &active}).IsActive())
}

func TestParseChannel(t *testing.T) {
	for _, valid := range []string{"stable", "nightly"} {
		ch, err := ParseChannel(valid)
		require.NoError(t, err)
		assert.Equal(t, Channel(valid), ch)
	}

	_, err := ParseChannel("beta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown channel "beta"`)
}
