package plan

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format selects the hand-off encoding for a plan.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name from configuration or CLI input.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown plan format %q (must be %q or %q)", s, FormatYAML, FormatJSON)
}

// Encode writes the jobs to w in the given format. An empty plan encodes as
// an empty list, never as nothing, so the executor side can always parse
// the hand-off.
func Encode(w io.Writer, jobs []*Job, format Format) error {
	if jobs == nil {
		jobs = []*Job{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(jobs); err != nil {
			return fmt.Errorf("failed to encode plan as JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(jobs); err != nil {
			enc.Close()
			return fmt.Errorf("failed to encode plan as YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown plan format %q", format)
	}
}
