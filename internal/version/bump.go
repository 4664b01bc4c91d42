package version

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mmr-tortoise/gitflow-bump/internal/model"
)

// Bump computes the next version string.
//
// For major, minor and patch bumps the old version is coerced with Coerce,
// the selected component is incremented and every lower-priority component
// is reset to zero. For manual bumps old is ignored and explicit is
// returned verbatim once it passes Validate.
func Bump(old string, kind model.BumpKind, explicit string) (string, error) {
	if kind == model.BumpManual {
		if explicit == "" {
			return "", model.NewCLIError(model.KindInvalidVersionFormat, model.ExitGeneralError,
				"manual bump requires an explicit version (e.g. manual 1.2.3)")
		}
		if err := Validate(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}

	if !kind.IsValid() {
		return "", fmt.Errorf("unsupported bump kind %d", int(kind))
	}
	index, _ := kind.ComponentIndex()

	coerced, err := Coerce(old)
	if err != nil {
		return "", err
	}
	components := coerced.Components()
	if components[index] == math.MaxInt {
		return "", outOfRange(old)
	}
	components[index]++
	for i := index + 1; i < componentCount; i++ {
		components[i] = 0
	}
	return model.VersionFromComponents(components).String(), nil
}

// Coerce converts a dotted version string into a Version using the leading
// integer of each component. Non-numeric components become 0, as do
// missing ones, and components beyond the third are ignored.
//
// A component whose leading integer does not fit in an int yields an
// InvalidVersionFormat CLIError.
func Coerce(s string) (model.Version, error) {
	var c [componentCount]int
	for i, part := range strings.SplitN(s, ".", componentCount+1) {
		if i == componentCount {
			break
		}
		n, err := leadingInt(part)
		if err != nil {
			return model.Version{}, outOfRange(s)
		}
		c[i] = n
	}
	return model.VersionFromComponents(c), nil
}

func outOfRange(s string) error {
	return model.NewCLIError(model.KindInvalidVersionFormat, model.ExitGeneralError,
		fmt.Sprintf("%s has a version component out of range", s))
}

// leadingInt parses an optionally signed run of digits at the start of s.
// "7abc" yields 7, "1e1" yields 1 and "abc" yields 0. Digits that overflow
// an int are an error.
func leadingInt(s string) (int, error) {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, nil
	}
	return strconv.Atoi(s[:end])
}
