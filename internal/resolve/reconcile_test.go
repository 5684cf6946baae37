package resolve

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/firmforge/internal/ctxlog"
	"github.com/vk/firmforge/internal/document"
)

// logCtx returns a context whose logger writes to the returned buffer, so
// tests can assert on emitted warnings.
func logCtx() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), &buf
}

func enables(names ...string) []document.Option {
	options := make([]document.Option, 0, len(names))
	for _, name := range names {
		options = append(options, document.Option{Name: name})
	}
	return options
}

func TestReconcile_CrossDocument(t *testing.T) {
	t.Run("authority disable beats enable", func(t *testing.T) {
		ctx, logs := logCtx()
		set := &document.OptionSet{Enable: enables("FEATURE_A", "FEATURE_B")}
		authority := &document.OptionSet{Disable: enables("FEATURE_A")}

		got := reconcile(ctx, set, "fragment", authority, "build", false)

		assert.Equal(t, enables("FEATURE_B"), got.Enable)
		assert.Contains(t, logs.String(), "enable dropped")
		assert.Contains(t, logs.String(), "FEATURE_A")
	})

	t.Run("authority enable beats disable", func(t *testing.T) {
		ctx, logs := logCtx()
		set := &document.OptionSet{Disable: enables("FEATURE_A")}
		authority := &document.OptionSet{Enable: enables("FEATURE_A")}

		got := reconcile(ctx, set, "fragment", authority, "build", false)

		assert.Empty(t, got.Disable)
		assert.Contains(t, logs.String(), "disable dropped")
	})

	t.Run("valued enables survive untouched", func(t *testing.T) {
		ctx, _ := logCtx()
		set := &document.OptionSet{
			Enable: []document.Option{{Name: "TEMP_SENSOR_0", Value: cty.NumberIntVal(5)}},
		}

		got := reconcile(ctx, set, "a", &document.OptionSet{}, "b", false)

		require.Len(t, got.Enable, 1)
		assert.True(t, got.Enable[0].Value.RawEquals(cty.NumberIntVal(5)))
	})

	t.Run("inputs are never mutated", func(t *testing.T) {
		ctx, _ := logCtx()
		set := &document.OptionSet{
			Enable:  enables("FEATURE_A"),
			Disable: enables("FEATURE_B"),
		}
		authority := &document.OptionSet{
			Enable:  enables("FEATURE_B"),
			Disable: enables("FEATURE_A"),
		}

		got := reconcile(ctx, set, "a", authority, "b", false)

		assert.Empty(t, got.Enable)
		assert.Empty(t, got.Disable)
		assert.Equal(t, enables("FEATURE_A"), set.Enable, "input set unchanged")
		assert.Equal(t, enables("FEATURE_B"), set.Disable, "input set unchanged")
		assert.Equal(t, enables("FEATURE_B"), authority.Enable, "authority unchanged")
	})

	t.Run("nil set stays nil", func(t *testing.T) {
		ctx, _ := logCtx()
		assert.Nil(t, reconcile(ctx, nil, "a", &document.OptionSet{}, "b", false))
	})
}

func TestReconcile_Self(t *testing.T) {
	t.Run("disable wins inside one document", func(t *testing.T) {
		ctx, logs := logCtx()
		set := &document.OptionSet{
			Enable:  enables("PIDTEMP", "SPEAKER"),
			Disable: enables("SPEAKER"),
		}

		got := reconcile(ctx, set, "printers/alpha", set, "printers/alpha", true)

		assert.Equal(t, enables("PIDTEMP"), got.Enable)
		assert.Equal(t, enables("SPEAKER"), got.Disable, "the disable side is kept whole")
		assert.Contains(t, logs.String(), "both enabled and disabled")
	})

	t.Run("idempotent once settled", func(t *testing.T) {
		ctx, _ := logCtx()
		set := &document.OptionSet{
			Enable:  enables("PIDTEMP", "SPEAKER"),
			Disable: enables("SPEAKER"),
		}

		once := reconcile(ctx, set, "d", set, "d", true)
		twice := reconcile(ctx, once, "d", once, "d", true)

		assert.Equal(t, once, twice)
	})
}
