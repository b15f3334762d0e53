package updater

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Semver is a release version. Build metadata is dropped on parse.
type Semver struct {
	Major int
	Minor int
	Patch int
	Pre   string
}

// ParseSemver accepts "1.2.3", "v1.2.3", "1.2.3-rc.1" and "1.2.3+abc".
func ParseSemver(s string) (Semver, error) {
	core := strings.TrimPrefix(strings.TrimSpace(s), "v")
	core, _, _ = strings.Cut(core, "+")
	core, pre, _ := strings.Cut(core, "-")

	fields := strings.Split(core, ".")
	if len(fields) != 3 {
		return Semver{}, fmt.Errorf("invalid semver: %q", s)
	}
	var nums [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return Semver{}, fmt.Errorf("invalid semver %q: bad component %q", s, f)
		}
		nums[i] = n
	}
	return Semver{Major: nums[0], Minor: nums[1], Patch: nums[2], Pre: pre}, nil
}

func (v Semver) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != "" {
		s += "-" + v.Pre
	}
	return s
}

// Compare returns -1, 0 or 1. A pre-release sorts before its release.
func (v Semver) Compare(other Semver) int {
	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Patch, other.Patch); c != 0 {
		return c
	}
	switch {
	case v.Pre == other.Pre:
		return 0
	case v.Pre == "":
		return 1
	case other.Pre == "":
		return -1
	}
	return strings.Compare(v.Pre, other.Pre)
}

func (v Semver) LessThan(other Semver) bool {
	return v.Compare(other) < 0
}
