// Package plan projects a resolved build registry onto one release: it
// decides which documents build for a channel and version, and renders the
// concrete jobs handed to the external build executor.
package plan

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/vk/firmforge/internal/ctxlog"
	"github.com/vk/firmforge/internal/document"
	"github.com/vk/firmforge/internal/registry"
)

// VersionPlaceholder in artifact names is replaced with the release version.
const VersionPlaceholder = "%VERSION%"

// Job is one concrete firmware build. The field set is the contract with
// the build executor; changing it changes the hand-off format.
type Job struct {
	Name         string              `yaml:"name" json:"name"`
	BoardEnv     string              `yaml:"board_env" json:"board_env"`
	Repo         string              `yaml:"repo" json:"repo"`
	Branch       string              `yaml:"branch" json:"branch"`
	ConfigPath   string              `yaml:"config_path" json:"config_path"`
	ArtifactName string              `yaml:"artifact_name" json:"artifact_name"`
	Channel      document.Channel    `yaml:"channel" json:"channel"`
	Version      string              `yaml:"version" json:"version"`
	Config       *document.OptionSet `yaml:"configuration" json:"configuration"`
	ConfigAdv    *document.OptionSet `yaml:"configuration_adv" json:"configuration_adv"`
}

// Select returns the build jobs for one release, in registry order. Every
// document builds unless one of its gates opts out: active = false, an only
// channel mismatch, or a stable release below the document's min_version.
func Select(ctx context.Context, reg *registry.Registry, channel document.Channel, version string) ([]*Job, error) {
	logger := ctxlog.FromContext(ctx)

	if err := ValidateVersion(channel, version); err != nil {
		return nil, err
	}

	var jobs []*Job
	for _, doc := range reg.Documents() {
		if reason := skipReason(doc, channel, version); reason != "" {
			logger.Debug("document skipped for this release",
				"document", doc.Name, "channel", channel, "version", version, "reason", reason)
			continue
		}
		jobs = append(jobs, newJob(doc, channel, version))
	}

	logger.Info("build plan selected", "channel", channel, "version", version, "jobs", len(jobs))
	return jobs, nil
}

// ValidateVersion checks a release version for a channel. Stable releases
// must carry a semantic version so min_version gates can compare; nightly
// versions are free-form tags.
func ValidateVersion(channel document.Channel, version string) error {
	if version == "" {
		return fmt.Errorf("release version is required")
	}
	if channel == document.ChannelStable && !semver.IsValid(document.CanonicalVersion(version)) {
		return fmt.Errorf("stable release version %q is not a valid semantic version", version)
	}
	return nil
}

func skipReason(doc *document.Document, channel document.Channel, version string) string {
	if !doc.IsActive() {
		return "inactive"
	}
	if doc.Only != "" && document.Channel(doc.Only) != channel {
		return fmt.Sprintf("only builds on %s", doc.Only)
	}
	if channel == document.ChannelStable && doc.MinVersion != "" {
		if semver.Compare(document.CanonicalVersion(version), document.CanonicalVersion(doc.MinVersion)) < 0 {
			return fmt.Sprintf("requires version >= %s", doc.MinVersion)
		}
	}
	return ""
}

func newJob(doc *document.Document, channel document.Channel, version string) *Job {
	job := &Job{
		Name:       doc.Name,
		BoardEnv:   doc.BoardEnv,
		Repo:       doc.BasedOn.Repo,
		ConfigPath: doc.BasedOn.Path,
		Channel:    channel,
		Version:    version,
		Config:     doc.Config,
		ConfigAdv:  doc.ConfigAdv,
	}
	switch channel {
	case document.ChannelNightly:
		job.Branch = doc.BasedOn.NightlyBranch
		job.ArtifactName = substituteVersion(doc.Meta.NightlyName, version)
	default:
		job.Branch = doc.BasedOn.StableBranch
		job.ArtifactName = substituteVersion(doc.Meta.StableName, version)
	}
	return job
}

func substituteVersion(name, version string) string {
	return strings.ReplaceAll(name, VersionPlaceholder, version)
}
