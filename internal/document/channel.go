package document

import "fmt"

// Channel selects which release flavor a build targets.
type Channel string

const (
	ChannelStable  Channel = "stable"
	ChannelNightly Channel = "nightly"
)

// ParseChannel validates a channel name from configuration or CLI input.
func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case ChannelStable, ChannelNightly:
		return Channel(s), nil
	}
	return "", fmt.Errorf("unknown channel %q (must be %q or %q)", s, ChannelStable, ChannelNightly)
}
