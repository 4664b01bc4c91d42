package repo

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/gitflow-bump/internal/model"
	"github.com/mmr-tortoise/gitflow-bump/internal/process"
	"github.com/mmr-tortoise/gitflow-bump/internal/process/processtest"
)

// setupTestRepo creates a temporary directory with an initialized Git
// repository containing a metadata.rb file in a single commit.
//
// It configures a local user.name and user.email so that `git commit`
// works in CI environments where global git config may not be set.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	dir := t.TempDir()

	runTestGit(t, dir, "init")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")

	metadata := filepath.Join(dir, "metadata.rb")
	err := os.WriteFile(metadata, []byte("name 'demo'\nversion '1.0.0'\n"), 0644)
	require.NoError(t, err, "failed to create metadata.rb")

	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "initial commit")

	return dir
}

// runTestGit runs a git command in dir and fails the test on a non-zero exit.
func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

// quietRunner returns an ExecRunner that discards interactive output.
func quietRunner() *process.ExecRunner {
	return &process.ExecRunner{Stdout: &strings.Builder{}, Stderr: &strings.Builder{}}
}

// TestRoot verifies that Root resolves the top-level directory from a
// nested working directory.
func TestRoot(t *testing.T) {
	dir := setupTestRepo(t)
	nested := filepath.Join(dir, "recipes")
	require.NoError(t, os.MkdirAll(nested, 0755))

	root, err := New(quietRunner(), nested).Root(context.Background())
	require.NoError(t, err)

	// t.TempDir() may sit behind a symlink (macOS /var -> /private/var).
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(root)
	assert.Equal(t, want, got)
}

// TestRootOutsideRepository verifies the NoGitRepository classification.
func TestRootOutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	_, err := New(quietRunner(), dir).Root(context.Background())
	require.Error(t, err)
	assert.Equal(t, model.KindNoGitRepository, model.KindOf(err))
}

// TestRootGitMissing verifies that a runner start failure is reported as
// NoGitRepository.
func TestRootGitMissing(t *testing.T) {
	rec := processtest.NewRecorder().Fail("git rev-parse --show-toplevel", errors.New("executable file not found"))

	_, err := New(rec, "").Root(context.Background())
	require.Error(t, err)
	assert.Equal(t, model.KindNoGitRepository, model.KindOf(err))
}

// TestIsClean verifies clean and dirty detection against HEAD.
func TestIsClean(t *testing.T) {
	dir := setupTestRepo(t)
	r := New(quietRunner(), dir)

	clean, err := r.IsClean(context.Background())
	require.NoError(t, err)
	assert.True(t, clean, "fresh repository should be clean")

	err = os.WriteFile(filepath.Join(dir, "metadata.rb"), []byte("name 'demo'\nversion '1.0.1'\n"), 0644)
	require.NoError(t, err)

	clean, err = r.IsClean(context.Background())
	require.NoError(t, err)
	assert.False(t, clean, "modified tracked file should make the tree dirty")
}

// TestCommitFile verifies that only the given file is committed with the
// given message.
func TestCommitFile(t *testing.T) {
	dir := setupTestRepo(t)
	r := New(quietRunner(), dir)

	metadata := filepath.Join(dir, "metadata.rb")
	require.NoError(t, os.WriteFile(metadata, []byte("name 'demo'\nversion '1.0.1'\n"), 0644))

	err := r.CommitFile(context.Background(), metadata, "Bump version 1.0.1")
	require.NoError(t, err)

	subject := strings.TrimSpace(runTestGit(t, dir, "log", "-1", "--format=%s"))
	assert.Equal(t, "Bump version 1.0.1", subject)

	clean, err := r.IsClean(context.Background())
	require.NoError(t, err)
	assert.True(t, clean)
}

// TestCommitFileFailure verifies that git's exit status is propagated.
func TestCommitFileFailure(t *testing.T) {
	rec := processtest.NewRecorder().
		Respond("git commit -m Bump version 2.0.0 -- metadata.rb", process.Result{ExitStatus: 128})

	err := New(rec, "").CommitFile(context.Background(), "metadata.rb", "Bump version 2.0.0")
	require.Error(t, err)
	assert.Equal(t, model.KindCommitFailure, model.KindOf(err))
	assert.Equal(t, model.ExitCode(128), model.ExitCodeOf(err))

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, "git commit -m 'Bump version 2.0.0' -- metadata.rb", cliErr.Command)

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Interactive)
}

// TestStatus verifies that the short status listing is captured rather
// than streamed to the console.
func TestStatus(t *testing.T) {
	dir := setupTestRepo(t)
	r := New(quietRunner(), dir)

	status, err := r.Status(context.Background())
	require.NoError(t, err)
	assert.Empty(t, status)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "metadata.rb"), []byte("name 'demo'\nversion '1.0.1'\n"), 0644))

	status, err = r.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, " M metadata.rb\n", status)
}

// TestStatusCaptured verifies Status never runs interactively.
func TestStatusCaptured(t *testing.T) {
	rec := processtest.NewRecorder().
		Respond("git status -s", process.Result{Stdout: "?? notes.txt\n"})

	status, err := New(rec, "").Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "?? notes.txt\n", status)

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].Interactive)
}
