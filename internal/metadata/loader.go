package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/mmr-tortoise/gitflow-bump/internal/model"
)

// Standard metadata file names, in lookup order.
const (
	RubyFile = "metadata.rb"
	JSONFile = "metadata.json"
)

var (
	rubyNameRegex    = regexp.MustCompile(`(?m)^\s*name\s+['"]([^'"]*)['"]`)
	rubyVersionRegex = regexp.MustCompile(`(?m)^\s*version\s+['"]([^'"]*)['"]`)
)

// rawJSONMetadata holds the metadata.json fields this tool reads. Other
// fields are ignored during parsing.
type rawJSONMetadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// FormatForPath infers the metadata format from the file extension.
// Anything that is not .json is treated as the Ruby DSL.
func FormatForPath(path string) model.MetadataFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return model.FormatJSON
	}
	return model.FormatRuby
}

// Find locates the metadata file in rootDir.
//
// When fileName is non-empty it is used as-is (relative to rootDir unless
// absolute). Otherwise metadata.rb is preferred over metadata.json.
// Returns a MetadataNotFound CLIError if no candidate exists.
func Find(rootDir, fileName string) (string, error) {
	var candidates []string
	switch {
	case fileName == "":
		candidates = []string{filepath.Join(rootDir, RubyFile), filepath.Join(rootDir, JSONFile)}
	case filepath.IsAbs(fileName):
		candidates = []string{fileName}
	default:
		candidates = []string{filepath.Join(rootDir, fileName)}
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", model.NewCLIError(model.KindMetadataNotFound, model.ExitGeneralError,
		fmt.Sprintf("package metadata not found in %s (looked for %s)", rootDir, strings.Join(baseNames(candidates), ", ")))
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

// Load finds and parses the package metadata in rootDir.
// See Find for how fileName is interpreted.
func Load(rootDir, fileName string) (model.PackageMetadata, error) {
	path, err := Find(rootDir, fileName)
	if err != nil {
		return model.PackageMetadata{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.PackageMetadata{}, model.WrapCLIError(model.KindMetadataNotFound, model.ExitGeneralError,
			fmt.Sprintf("failed to read %s", path), err)
	}

	meta := model.PackageMetadata{
		RootDir: filepath.Dir(path),
		Path:    path,
		Format:  FormatForPath(path),
	}

	switch meta.Format {
	case model.FormatJSON:
		var raw rawJSONMetadata
		// Strip comments and trailing commas before handing the data to
		// encoding/json.
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return model.PackageMetadata{}, model.WrapCLIError(model.KindMetadataNotFound, model.ExitGeneralError,
				fmt.Sprintf("failed to parse %s", path), err)
		}
		meta.Name = raw.Name
		meta.Version = raw.Version
	default:
		if m := rubyNameRegex.FindSubmatch(data); m != nil {
			meta.Name = string(m[1])
		}
		if m := rubyVersionRegex.FindSubmatch(data); m != nil {
			meta.Version = string(m[1])
		}
	}

	if meta.Version == "" {
		return model.PackageMetadata{}, model.NewCLIError(model.KindMetadataNotFound, model.ExitGeneralError,
			fmt.Sprintf("no version declared in %s", path))
	}
	if meta.Name == "" {
		meta.Name = filepath.Base(meta.RootDir)
	}
	return meta, nil
}
