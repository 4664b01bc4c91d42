package metadata

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/mmr-tortoise/gitflow-bump/internal/model"
)

// Version declarations. Group 1 is everything up to and including the
// opening quote, group 2 the closing quote. Only the numeric-dotted literal
// between them is replaced.
//
// The Ruby form is anchored at the start of a line, so keys such as
// chef_version and commented-out declarations are left alone.
var (
	rubyDeclRegex = regexp.MustCompile(`(?m)^(\s*version\s+['"])[0-9.]+(['"])`)
	jsonDeclRegex = regexp.MustCompile(`("version"\s*:\s*")[0-9.]+(")`)
)

// Rewrite returns content with the version declaration of the given format
// set to newVersion. The boolean reports whether a declaration was found.
//
// Only one declaration is rewritten: the first Ruby `version` line, or the
// "version" key of the top-level JSON object. Every other byte is kept.
func Rewrite(content []byte, format model.MetadataFormat, newVersion string) ([]byte, bool) {
	loc := findDeclaration(content, format)
	if loc == nil {
		return content, false
	}

	out := make([]byte, 0, len(content)+len(newVersion))
	out = append(out, content[:loc[3]]...)
	out = append(out, newVersion...)
	out = append(out, content[loc[4]:]...)
	return out, true
}

// findDeclaration returns the submatch indexes of the declaration to
// rewrite, or nil.
func findDeclaration(content []byte, format model.MetadataFormat) []int {
	if format != model.FormatJSON {
		return rubyDeclRegex.FindSubmatchIndex(content)
	}
	for _, loc := range jsonDeclRegex.FindAllSubmatchIndex(content, -1) {
		if jsonDepthAt(content, loc[0]) == 1 {
			return loc
		}
	}
	return nil
}

// jsonDepthAt returns the object/array nesting depth at offset, or -1 when
// offset falls inside a string or comment. Comments are recognised because
// metadata.json is read as JSONC.
func jsonDepthAt(content []byte, offset int) int {
	depth := 0
	for i := 0; i < offset; i++ {
		switch c := content[i]; {
		case c == '"':
			i++
			for i < len(content) && content[i] != '"' {
				if content[i] == '\\' {
					i++
				}
				i++
			}
			if i >= offset {
				return -1
			}
		case c == '/' && i+1 < len(content) && content[i+1] == '/':
			for i < len(content) && content[i] != '\n' {
				i++
			}
			if i >= offset {
				return -1
			}
		case c == '/' && i+1 < len(content) && content[i+1] == '*':
			end := strings.Index(string(content[i+2:]), "*/")
			if end < 0 {
				return -1
			}
			i += end + 3
			if i >= offset {
				return -1
			}
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
		}
	}
	return depth
}

// UpdateVersion rewrites the version declaration of the metadata file at
// path in place, keeping its permissions.
//
// Fails with MetadataWriteFailure if the file cannot be read or written or
// holds no version declaration. The write is not atomic against concurrent
// writers.
func UpdateVersion(path, newVersion string) error {
	info, err := os.Stat(path)
	if err != nil {
		return model.WrapCLIError(model.KindMetadataWriteFailure, model.ExitGeneralError,
			fmt.Sprintf("failed to read %s", path), err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return model.WrapCLIError(model.KindMetadataWriteFailure, model.ExitGeneralError,
			fmt.Sprintf("failed to read %s", path), err)
	}

	updated, found := Rewrite(content, FormatForPath(path), newVersion)
	if !found {
		return model.NewCLIError(model.KindMetadataWriteFailure, model.ExitGeneralError,
			fmt.Sprintf("no version declaration found in %s", path))
	}

	if err := os.WriteFile(path, updated, info.Mode().Perm()); err != nil {
		return model.WrapCLIError(model.KindMetadataWriteFailure, model.ExitGeneralError,
			fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}
