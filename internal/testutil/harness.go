// Package testutil provides the temp-tree harness that integration-style
// tests drive the resolver with: a file map in, a resolved registry and the
// captured log out.
package testutil

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/firmforge/internal/app"
	"github.com/vk/firmforge/internal/document"
	"github.com/vk/firmforge/internal/plan"
	"github.com/vk/firmforge/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteTree materializes a document file map under a fresh temp directory
// and returns its root. Relative paths in the map (e.g. "printers/a.hcl")
// naturally create the subdirectory structure.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// Result holds the outcomes of a harness run.
type Result struct {
	Registry  *registry.Registry
	Err       error
	LogOutput string
	App       *app.App
}

// ResolveTree provides a standardized harness for resolution tests using a
// default background context.
func ResolveTree(t *testing.T, files map[string]string) *Result {
	t.Helper()
	return ResolveTreeWithContext(context.Background(), t, files)
}

// ResolveTreeWithContext writes the given document files into a temporary
// tree and runs a real App through the scan and resolution phases. Plan
// selection is deliberately not run: it has its own inputs and its own
// tests, and resolution errors propagate more directly this way.
func ResolveTreeWithContext(ctx context.Context, t *testing.T, files map[string]string) *Result {
	t.Helper()

	root := WriteTree(t, files)

	config, err := app.NewConfig(app.Config{
		BuildsPath: root,
		Channel:    document.ChannelStable,
		Version:    "0.0.0",
		Format:     plan.FormatYAML,
		LogLevel:   "debug",
		LogFormat:  "text",
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	forge := app.NewApp(io.Discard, logBuffer, config)

	reg, runErr := forge.Resolve(ctx)

	if os.Getenv("FIRMFORGE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &Result{
		Registry:  reg,
		Err:       runErr,
		LogOutput: logBuffer.String(),
		App:       forge,
	}
}
