package mode

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// TargetVersion is a Python 3 minor release.
type TargetVersion uint8

const (
	PY33 TargetVersion = 3 + iota
	PY34
	PY35
	PY36
	PY37
	PY38
	PY39
	PY310
	PY311
	PY312
	PY313
)

// AllVersions lists every known target in ascending order.
var AllVersions = []TargetVersion{PY33, PY34, PY35, PY36, PY37, PY38, PY39, PY310, PY311, PY312, PY313}

// Minor returns the minor component (3 for PY33).
func (v TargetVersion) Minor() int { return int(v) }

func (v TargetVersion) String() string {
	return fmt.Sprintf("py3%d", int(v))
}

// Pretty renders "Python 3.10".
func (v TargetVersion) Pretty() string {
	return fmt.Sprintf("Python 3.%d", int(v))
}

// ParseTargetVersion accepts "py38", "PY310", "3.8" or "3.10".
func ParseTargetVersion(s string) (TargetVersion, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	var minor string
	switch {
	case strings.HasPrefix(t, "py3"):
		minor = t[3:]
	case strings.HasPrefix(t, "3."):
		minor = t[2:]
	default:
		return 0, fmt.Errorf("unknown target version %q", s)
	}
	n, err := strconv.Atoi(minor)
	if err != nil {
		return 0, fmt.Errorf("unknown target version %q", s)
	}
	v := TargetVersion(n)
	if n < 0 || n > 255 || !slices.Contains(AllVersions, v) {
		return 0, fmt.Errorf("unsupported target version %q", s)
	}
	return v, nil
}

// ParseTargetVersions parses a list, dropping duplicates and sorting ascending.
func ParseTargetVersions(items []string) ([]TargetVersion, error) {
	out := make([]TargetVersion, 0, len(items))
	for _, it := range items {
		v, err := ParseTargetVersion(it)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out, nil
}

// MaxVersion returns the newest target, or 0 for an empty set.
func MaxVersion(targets []TargetVersion) TargetVersion {
	if len(targets) == 0 {
		return 0
	}
	return slices.Max(targets)
}
