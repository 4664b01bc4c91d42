// Package config loads the optional per-package settings file
// (.gitflow-bump.yml) that sits next to the package metadata.
//
// The file is YAML, decoded with gopkg.in/yaml.v3 in strict mode so that
// misspelled keys are reported instead of silently ignored. Every field
// has a default, so a missing file is equivalent to an empty one.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/gitflow-bump/internal/model"
)

// FileName is the settings file looked up in the package root.
const FileName = ".gitflow-bump.yml"

// versionPlaceholder is substituted in CommitMessage.
const versionPlaceholder = "{version}"

// Config holds the per-package settings.
type Config struct {
	// Branches names the gitflow base branches. They only appear in the
	// summary text; git-flow itself decides what a branch is based on.
	Branches Branches `yaml:"branches" json:"branches"`

	// MetadataFile overrides metadata auto-detection (metadata.rb, then
	// metadata.json). Relative paths are resolved against the package root.
	MetadataFile string `yaml:"metadataFile" json:"metadataFile"`

	// CommitMessage is the message of the version bump commit. The
	// "{version}" placeholder is replaced with the new version.
	CommitMessage string `yaml:"commitMessage" json:"commitMessage"`
}

// Branches names the gitflow production and development branches.
type Branches struct {
	Production  string `yaml:"production" json:"production"`
	Development string `yaml:"development" json:"development"`
}

// Default returns the settings used when no file is present. They match
// git-flow's own defaults.
func Default() Config {
	return Config{
		Branches: Branches{
			Production:  "master",
			Development: "develop",
		},
		CommitMessage: "Bump version " + versionPlaceholder,
	}
}

// BaseBranch returns the branch a start operation of the given kind forks
// from: production for hotfixes, development for releases.
func (c Config) BaseBranch(kind model.BranchKind) string {
	if kind == model.BranchHotfix {
		return c.Branches.Production
	}
	return c.Branches.Development
}

// CommitMessageFor renders the bump commit message for version v.
func (c Config) CommitMessageFor(v string) string {
	if !strings.Contains(c.CommitMessage, versionPlaceholder) {
		return strings.TrimSpace(c.CommitMessage + " " + v)
	}
	return strings.ReplaceAll(c.CommitMessage, versionPlaceholder, v)
}

// Load reads FileName from dir. A missing file yields Default().
// Malformed YAML or unknown keys yield a ConfigInvalid CLIError.
func Load(dir string) (Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, model.WrapCLIError(model.KindConfigInvalid, model.ExitGeneralError,
			fmt.Sprintf("failed to read %s", path), err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, model.WrapCLIError(model.KindConfigInvalid, model.ExitGeneralError,
			fmt.Sprintf("invalid %s", path), err)
	}
	return cfg, nil
}

// Parse decodes YAML settings on top of Default(). Fields left empty in
// the document keep their default value.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}

	def := Default()
	if cfg.Branches.Production == "" {
		cfg.Branches.Production = def.Branches.Production
	}
	if cfg.Branches.Development == "" {
		cfg.Branches.Development = def.Branches.Development
	}
	if strings.TrimSpace(cfg.CommitMessage) == "" {
		cfg.CommitMessage = def.CommitMessage
	}
	return cfg, nil
}

// Marshal renders cfg as YAML. It is used to print the effective settings.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
