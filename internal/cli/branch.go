// branch.go implements the "hotfix" and "release" command
// groups and their "start" and "finish" subcommands.
//
// Both groups share the same code path; the BranchKind decides the
// git-flow subcommand, the branch prefix and the base branch shown in the
// summary. All sequencing lives in the lifecycle package; this file only
// parses arguments, wires collaborators and prints the result.

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gitflow-bump/internal/config"
	"github.com/mmr-tortoise/gitflow-bump/internal/flow"
	"github.com/mmr-tortoise/gitflow-bump/internal/lifecycle"
	"github.com/mmr-tortoise/gitflow-bump/internal/metadata"
	"github.com/mmr-tortoise/gitflow-bump/internal/model"
	"github.com/mmr-tortoise/gitflow-bump/internal/process"
	"github.com/mmr-tortoise/gitflow-bump/internal/repo"
)

// newRunner creates the process runner used by every command. Tests
// replace it with a recording runner.
var newRunner = func() process.Runner {
	return process.NewExecRunner()
}

// NewBranchCommand creates the command group for one branch kind.
// It is called from NewRootCommand to register as a subcommand.
func NewBranchCommand(kind model.BranchKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   kind.String(),
		Short: fmt.Sprintf("Start or finish a gitflow %s branch", kind),
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newStartCommand(kind))
	cmd.AddCommand(newFinishCommand(kind))

	return cmd
}

func newStartCommand(kind model.BranchKind) *cobra.Command {
	return &cobra.Command{
		Use:   "start [major|minor|patch|manual <version>]",
		Short: fmt.Sprintf("Bump the package version and start a %s branch", kind),
		Long: fmt.Sprintf(`Compute the next package version and create the %[1]s/<version> branch
with git-flow. The working tree must be clean.

The bump kind defaults to patch. With manual, the version is given
explicitly as the last argument.

Examples:
  gitflow-bump %[1]s start
  gitflow-bump %[1]s start minor
  gitflow-bump %[1]s start manual 2.0.0`, kind),

		Args: cobra.MaximumNArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			bump, explicit, err := parseStartArgs(args)
			if err != nil {
				return err
			}

			ui := NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr())
			orch, err := newOrchestrator(cmd.Context(), ui)
			if err != nil {
				return err
			}

			summary, err := orch.Start(cmd.Context(), kind, bump, explicit)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func newFinishCommand(kind model.BranchKind) *cobra.Command {
	return &cobra.Command{
		Use:   "finish",
		Short: fmt.Sprintf("Commit the version bump and finish the active %s branch", kind),
		Long: fmt.Sprintf(`Write the active %[1]s branch's version into the package metadata,
commit it, and merge the branch with git-flow. The working tree must be
clean.

If the merge fails, the bump commit stays on the %[1]s branch and the
branch is left unmerged for manual resolution.

Examples:
  gitflow-bump %[1]s finish
  gitflow-bump --path cookbooks/nginx %[1]s finish`, kind),

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			ui := NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr())
			orch, err := newOrchestrator(cmd.Context(), ui)
			if err != nil {
				return err
			}

			summary, err := orch.Finish(cmd.Context(), kind)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

// parseStartArgs converts the start arguments into a bump kind and, for
// manual bumps, the explicit version. An explicit version is only
// accepted after "manual".
func parseStartArgs(args []string) (model.BumpKind, string, error) {
	token := ""
	if len(args) > 0 {
		token = args[0]
	}

	bump, err := model.ParseBumpKind(token)
	if err != nil {
		return 0, "", model.WrapCLIError(model.KindUsage, model.ExitGeneralError, "invalid start arguments", err)
	}

	if len(args) == 2 && bump != model.BumpManual {
		return 0, "", model.NewCLIError(model.KindUsage, model.ExitGeneralError,
			fmt.Sprintf("unexpected argument %q: an explicit version is only accepted with manual", args[1]))
	}

	explicit := ""
	if bump == model.BumpManual && len(args) == 2 {
		explicit = args[1]
	}
	return bump, explicit, nil
}

// newOrchestrator resolves the package root and wires the lifecycle
// orchestrator to git, git-flow and the package metadata.
func newOrchestrator(ctx context.Context, ui *Console) (*lifecycle.Orchestrator, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	runner := newRunner()

	root, err := resolvePackageRoot(ctx, runner)
	if err != nil {
		return nil, err
	}
	ui.Verbosef("Package root: %s", root)

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	return lifecycle.New(
		repo.New(runner, root),
		flow.NewClient(runner, root),
		metadata.NewStore(root, cfg.MetadataFile),
		cfg,
		ui,
	), nil
}

// resolvePackageRoot returns the --path directory, or the repository root
// when --path is empty. Either way the directory must be inside a Git
// repository.
func resolvePackageRoot(ctx context.Context, runner process.Runner) (string, error) {
	dir := packagePath
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", model.WrapCLIError(model.KindGeneral, model.ExitGeneralError, "failed to get current directory", err)
		}
		dir = cwd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", model.WrapCLIError(model.KindGeneral, model.ExitGeneralError, "failed to resolve package path", err)
	}

	gitRoot, err := repo.New(runner, abs).Root(ctx)
	if err != nil {
		return "", err
	}
	if packagePath != "" {
		return abs, nil
	}
	return gitRoot, nil
}
