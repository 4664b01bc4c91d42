package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/gitflow-bump/internal/model"
)

const sampleRuby = `name             'nginx'
maintainer       'Platform Engineering'
license          'Apache 2.0'
description      'Installs/Configures nginx'
version          '1.0.0'

depends 'apt', '>= 2.0.0'
supports 'ubuntu'
`

const sampleJSON = `{
  // generated by knife
  "name": "nginx",
  "version": "0.4.2",
  "dependencies": {
    "apt": ">= 2.0.0"
  },
}
`

// writeFile creates name in a fresh temp dir and returns the directory.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	return dir
}

func TestLoad_Ruby(t *testing.T) {
	dir := writeFile(t, RubyFile, sampleRuby)

	meta, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "nginx", meta.Name)
	assert.Equal(t, "1.0.0", meta.Version)
	assert.Equal(t, dir, meta.RootDir)
	assert.Equal(t, filepath.Join(dir, RubyFile), meta.Path)
	assert.Equal(t, model.FormatRuby, meta.Format)
}

func TestLoad_JSONWithComments(t *testing.T) {
	dir := writeFile(t, JSONFile, sampleJSON)

	meta, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "nginx", meta.Name)
	assert.Equal(t, "0.4.2", meta.Version)
	assert.Equal(t, model.FormatJSON, meta.Format)
}

// TestLoad_PrefersRuby verifies lookup order when both files exist.
func TestLoad_PrefersRuby(t *testing.T) {
	dir := writeFile(t, RubyFile, sampleRuby)
	require.NoError(t, os.WriteFile(filepath.Join(dir, JSONFile), []byte(sampleJSON), 0644))

	meta, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", meta.Version)
}

// TestLoad_ExplicitFile verifies the configured file name override.
func TestLoad_ExplicitFile(t *testing.T) {
	dir := writeFile(t, "cookbook.json", `{"name": "custom", "version": "3.1.4"}`)

	meta, err := Load(dir, "cookbook.json")
	require.NoError(t, err)
	assert.Equal(t, "custom", meta.Name)
	assert.Equal(t, "3.1.4", meta.Version)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(t.TempDir(), "")
		require.Error(t, err)
		assert.Equal(t, model.KindMetadataNotFound, model.KindOf(err))
		assert.Contains(t, err.Error(), "metadata.rb, metadata.json")
	})

	t.Run("no version", func(t *testing.T) {
		dir := writeFile(t, RubyFile, "name 'nginx'\n")
		_, err := Load(dir, "")
		assert.Equal(t, model.KindMetadataNotFound, model.KindOf(err))
	})

	t.Run("broken json", func(t *testing.T) {
		dir := writeFile(t, JSONFile, `{"version": `)
		_, err := Load(dir, "")
		assert.Equal(t, model.KindMetadataNotFound, model.KindOf(err))
	})
}

// TestLoad_NameFallsBackToDirectory covers metadata without a name line.
func TestLoad_NameFallsBackToDirectory(t *testing.T) {
	dir := writeFile(t, RubyFile, "version \"2.0.0\"\n")

	meta, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), meta.Name)
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format model.MetadataFormat
		want   string
		found  bool
	}{
		{
			name:   "single quotes",
			input:  "version '1.0.0'\n",
			format: model.FormatRuby,
			want:   "version '1.2.0'\n",
			found:  true,
		},
		{
			name:   "double quotes and wide spacing",
			input:  "version          \"1.0.0\"\n",
			format: model.FormatRuby,
			want:   "version          \"1.2.0\"\n",
			found:  true,
		},
		{
			name:   "json field",
			input:  `{"name": "x", "version": "0.4.2"}`,
			format: model.FormatJSON,
			want:   `{"name": "x", "version": "1.2.0"}`,
			found:  true,
		},
		{
			name:   "chef_version and comments untouched",
			input:  "chef_version '14.0'\nversion '1.0.0'\n# old version '0.9.0'\n",
			format: model.FormatRuby,
			want:   "chef_version '14.0'\nversion '1.2.0'\n# old version '0.9.0'\n",
			found:  true,
		},
		{
			name:   "only first ruby declaration",
			input:  "version '1.0.0'\nversion '1.0.0'\n",
			format: model.FormatRuby,
			want:   "version '1.2.0'\nversion '1.0.0'\n",
			found:  true,
		},
		{
			name:   "only commented declaration",
			input:  "# version '1.0.0'\n",
			format: model.FormatRuby,
			want:   "# version '1.0.0'\n",
		},
		{
			name:   "json nested version untouched",
			input:  "{\n  \"dependencies\": {\"version\": \"3.0\"},\n  // \"version\": \"0.1.0\"\n  \"note\": \"\\\"version\\\": \\\"9\\\"\",\n  \"version\": \"0.4.2\"\n}",
			format: model.FormatJSON,
			want:   "{\n  \"dependencies\": {\"version\": \"3.0\"},\n  // \"version\": \"0.1.0\"\n  \"note\": \"\\\"version\\\": \\\"9\\\"\",\n  \"version\": \"1.2.0\"\n}",
			found:  true,
		},
		{
			name:   "json without top-level version",
			input:  `{"dependencies": {"version": "3.0"}}`,
			format: model.FormatJSON,
			want:   `{"dependencies": {"version": "3.0"}}`,
		},
		{
			name:   "no declaration",
			input:  "name 'x'\n",
			format: model.FormatRuby,
			want:   "name 'x'\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Rewrite([]byte(tt.input), tt.format, "1.2.0")
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

// TestUpdateVersion verifies that only the version line changes and that
// applying the same version twice is a no-op on content.
func TestUpdateVersion(t *testing.T) {
	dir := writeFile(t, RubyFile, sampleRuby)
	path := filepath.Join(dir, RubyFile)

	require.NoError(t, UpdateVersion(path, "1.2.0"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	want := `name             'nginx'
maintainer       'Platform Engineering'
license          'Apache 2.0'
description      'Installs/Configures nginx'
version          '1.2.0'

depends 'apt', '>= 2.0.0'
supports 'ubuntu'
`
	assert.Equal(t, want, string(got))

	require.NoError(t, UpdateVersion(path, "1.2.0"))
	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

// TestUpdateVersion_MatchesLoad verifies that the declaration rewritten is
// the one Load reads.
func TestUpdateVersion_MatchesLoad(t *testing.T) {
	content := "name 'nginx'\nchef_version '14.0'\nversion '1.0.0'\n# old version '0.9.0'\n"
	dir := writeFile(t, RubyFile, content)
	path := filepath.Join(dir, RubyFile)

	before, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", before.Version)

	require.NoError(t, UpdateVersion(path, "1.2.0"))

	after, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", after.Version)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name 'nginx'\nchef_version '14.0'\nversion '1.2.0'\n# old version '0.9.0'\n", string(got))
}

// TestUpdateVersion_JSON verifies comments and other fields survive.
func TestUpdateVersion_JSON(t *testing.T) {
	dir := writeFile(t, JSONFile, sampleJSON)
	path := filepath.Join(dir, JSONFile)

	require.NoError(t, UpdateVersion(path, "0.5.0"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), `"version": "0.5.0"`)
	assert.Contains(t, string(got), "// generated by knife")
	assert.Contains(t, string(got), `"apt": ">= 2.0.0"`)
}

// TestUpdateVersion_KeepsMode verifies the file permissions are preserved.
func TestUpdateVersion_KeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, RubyFile)
	require.NoError(t, os.WriteFile(path, []byte("version '1.0.0'\n"), 0600))
	require.NoError(t, os.Chmod(path, 0600))

	require.NoError(t, UpdateVersion(path, "1.0.1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestUpdateVersion_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		err := UpdateVersion(filepath.Join(t.TempDir(), RubyFile), "1.0.0")
		assert.Equal(t, model.KindMetadataWriteFailure, model.KindOf(err))
	})

	t.Run("no declaration", func(t *testing.T) {
		dir := writeFile(t, RubyFile, "name 'nginx'\n")
		err := UpdateVersion(filepath.Join(dir, RubyFile), "1.0.0")
		assert.Equal(t, model.KindMetadataWriteFailure, model.KindOf(err))
	})
}
