package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmr-tortoise/gitflow-bump/internal/config"
	"github.com/mmr-tortoise/gitflow-bump/internal/model"
	"github.com/mmr-tortoise/gitflow-bump/internal/version"
)

// Repository is the subset of Git operations the orchestrator needs.
type Repository interface {
	IsClean(ctx context.Context) (bool, error)
	Status(ctx context.Context) (string, error)
	CommitFile(ctx context.Context, path, message string) error
}

// Flow is the narrow git-flow surface used to create, finish and discover
// hotfix and release branches.
type Flow interface {
	Start(ctx context.Context, kind model.BranchKind, version string) error
	Finish(ctx context.Context, kind model.BranchKind, version string) error
	Active(ctx context.Context, kind model.BranchKind) (string, error)
}

// Metadata loads the package metadata and rewrites its version.
type Metadata interface {
	Load() (model.PackageMetadata, error)
	UpdateVersion(path, newVersion string) error
}

// Reporter receives progress messages for the user. Hint lines are
// diagnostics and never mix with structured output.
type Reporter interface {
	Info(message string)
	Hint(message string)
	Verbosef(format string, args ...interface{})
}

// Action names the operation a Summary describes.
type Action string

const (
	ActionStart  Action = "start"
	ActionFinish Action = "finish"
)

// Summary describes a completed operation. It is rendered as text or JSON
// by the CLI.
type Summary struct {
	Action       Action           `json:"action"`
	Kind         model.BranchKind `json:"kind"`
	Package      string           `json:"package"`
	OldVersion   string           `json:"oldVersion,omitempty"`
	Version      string           `json:"version"`
	Bump         string           `json:"bump,omitempty"`
	Branch       string           `json:"branch"`
	Base         string           `json:"base"`
	MetadataFile string           `json:"metadataFile,omitempty"`
	Next         string           `json:"next,omitempty"`
}

// Orchestrator drives the branch lifecycle. It holds no state between
// operations beyond its collaborators.
type Orchestrator struct {
	repo     Repository
	flow     Flow
	metadata Metadata
	cfg      config.Config
	ui       Reporter

	// Program is the command name used in follow-up hints.
	Program string
}

// New creates an Orchestrator from its collaborators.
func New(repo Repository, flow Flow, metadata Metadata, cfg config.Config, ui Reporter) *Orchestrator {
	return &Orchestrator{
		repo:     repo,
		flow:     flow,
		metadata: metadata,
		cfg:      cfg,
		ui:       ui,
		Program:  "gitflow-bump",
	}
}

// Start begins a new branch of the given kind whose name is the bumped
// package version.
//
// explicit is only used for model.BumpManual. Nothing is invoked or
// modified when the working tree is dirty or the version is invalid.
func (o *Orchestrator) Start(ctx context.Context, kind model.BranchKind, bump model.BumpKind, explicit string) (*Summary, error) {
	if err := requireKind(kind); err != nil {
		return nil, err
	}
	if err := o.requireClean(ctx); err != nil {
		return nil, err
	}

	meta, err := o.metadata.Load()
	if err != nil {
		return nil, err
	}
	o.ui.Verbosef("Loaded %s %s from %s", meta.Name, meta.Version, meta.Path)

	newVersion, err := version.Bump(meta.Version, bump, explicit)
	if err != nil {
		return nil, err
	}
	o.ui.Verbosef("Bumping %s: %s -> %s", bump, meta.Version, newVersion)

	if err := o.flow.Start(ctx, kind, newVersion); err != nil {
		return nil, err
	}

	return &Summary{
		Action:     ActionStart,
		Kind:       kind,
		Package:    meta.Name,
		OldVersion: meta.Version,
		Version:    newVersion,
		Bump:       bump.String(),
		Branch:     kind.BranchName(newVersion),
		Base:       o.cfg.BaseBranch(kind),
		Next:       fmt.Sprintf("%s %s finish", o.Program, kind),
	}, nil
}

// Finish completes the active branch of the given kind.
//
// The metadata file is rewritten to the branch version and committed
// before git-flow merges the branch, so the merge carries the bump. If the
// commit fails the merge is never attempted.
func (o *Orchestrator) Finish(ctx context.Context, kind model.BranchKind) (*Summary, error) {
	if err := requireKind(kind); err != nil {
		return nil, err
	}
	if err := o.requireClean(ctx); err != nil {
		return nil, err
	}

	meta, err := o.metadata.Load()
	if err != nil {
		return nil, err
	}

	branchVersion, err := o.flow.Active(ctx, kind)
	if err != nil {
		return nil, err
	}
	o.ui.Verbosef("Active %s branch: %s", kind, kind.BranchName(branchVersion))

	if err := o.metadata.UpdateVersion(meta.Path, branchVersion); err != nil {
		return nil, err
	}
	o.ui.Info(fmt.Sprintf("Successfully bumped %s to v%s!", meta.Name, branchVersion))

	if err := o.repo.CommitFile(ctx, meta.Path, o.cfg.CommitMessageFor(branchVersion)); err != nil {
		return nil, err
	}

	if err := o.flow.Finish(ctx, kind, branchVersion); err != nil {
		return nil, err
	}

	return &Summary{
		Action:       ActionFinish,
		Kind:         kind,
		Package:      meta.Name,
		OldVersion:   meta.Version,
		Version:      branchVersion,
		Branch:       kind.BranchName(branchVersion),
		Base:         o.cfg.BaseBranch(kind),
		MetadataFile: meta.Path,
	}, nil
}

func requireKind(kind model.BranchKind) error {
	if kind.IsValid() {
		return nil
	}
	return model.NewCLIError(model.KindUsage, model.ExitGeneralError,
		fmt.Sprintf("invalid branch kind %q (valid: hotfix, release)", kind))
}

// requireClean fails with DirtyWorkingTree, after listing `git status -s`,
// when the working tree has uncommitted changes.
func (o *Orchestrator) requireClean(ctx context.Context) error {
	clean, err := o.repo.IsClean(ctx)
	if err != nil {
		return err
	}
	if clean {
		return nil
	}
	status, err := o.repo.Status(ctx)
	if err != nil {
		o.ui.Verbosef("git status failed: %v", err)
	}
	for _, line := range strings.Split(strings.TrimRight(status, "\n"), "\n") {
		if line != "" {
			o.ui.Hint(line)
		}
	}
	return model.NewCLIError(model.KindDirtyWorkingTree, model.ExitGeneralError,
		"Git repository has uncommitted changes. Commit or stash first.")
}
