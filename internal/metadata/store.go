package metadata

import "github.com/mmr-tortoise/gitflow-bump/internal/model"

// Store binds Load and UpdateVersion to one package root so the lifecycle
// orchestrator can treat the metadata file as a single collaborator.
type Store struct {
	// RootDir is the package root directory.
	RootDir string

	// FileName optionally overrides metadata auto-detection.
	FileName string
}

// NewStore creates a Store for the package in rootDir.
func NewStore(rootDir, fileName string) *Store {
	return &Store{RootDir: rootDir, FileName: fileName}
}

// Load parses the package metadata.
func (s *Store) Load() (model.PackageMetadata, error) {
	return Load(s.RootDir, s.FileName)
}

// UpdateVersion rewrites the version declaration in the metadata file at path.
func (s *Store) UpdateVersion(path, newVersion string) error {
	return UpdateVersion(path, newVersion)
}
