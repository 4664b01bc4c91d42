package version

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mmr-tortoise/gitflow-bump/internal/model"
)

// componentCount is the number of dot-separated components in a version.
const componentCount = 3

// IsValid reports whether s has exactly three dot-separated components
// that each parse as a finite number.
//
// Components are checked with strconv.ParseFloat, so forms such as "1e1"
// are accepted. Only the component count and numeric shape are enforced.
func IsValid(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != componentCount {
		return false
	}
	for _, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Validate returns an InvalidVersionFormat CLIError when s is non-empty and
// not a valid version. An empty string passes; callers that require a
// value check for it themselves.
func Validate(s string) error {
	if s == "" || IsValid(s) {
		return nil
	}
	return model.NewCLIError(model.KindInvalidVersionFormat, model.ExitGeneralError,
		fmt.Sprintf("%s is not a valid version!", s))
}
