package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/firmforge/internal/app"
	"github.com/vk/firmforge/internal/document"
	"github.com/vk/firmforge/internal/plan"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a validated app config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("firmforge", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
FirmForge - A declarative firmware build matrix resolver.

Usage:
  firmforge [options] [BUILDS_PATH]

Arguments:
  BUILDS_PATH
    Path to a directory containing build documents (.hcl, .yaml or .yml).

Options:
`)
		flagSet.PrintDefaults()
	}

	buildsFlag := flagSet.String("builds", "", "Path to the build document directory.")
	bFlag := flagSet.String("b", "", "Path to the build document directory (shorthand).")
	channelFlag := flagSet.String("channel", "stable", "Release channel to plan for. Options: 'stable' or 'nightly'.")
	releaseFlag := flagSet.String("release", "", "Release version the plan targets, e.g. '2.1.3'.")
	outFlag := flagSet.String("out", "", "File the plan is written to. Empty or '-' writes to stdout.")
	formatFlag := flagSet.String("format", "yaml", "Plan output format. Options: 'yaml' or 'json'.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *buildsFlag != "" {
		path = *buildsFlag
	} else if *bFlag != "" {
		path = *bFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	channel, err := document.ParseChannel(strings.ToLower(*channelFlag))
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	format, err := plan.ParseFormat(strings.ToLower(*formatFlag))
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		BuildsPath: path,
		Channel:    channel,
		Version:    *releaseFlag,
		OutPath:    *outFlag,
		Format:     format,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
