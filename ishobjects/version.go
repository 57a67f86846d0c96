package ishobjects

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a server version such as 15.1.0.3226.
type Version struct {
	Major, Minor, Build, Revision int
}

// ParseVersion parses a dotted version with one to four numeric parts.
// Trailing text after a space or dash ("15.0.0 (build)") is ignored.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " -+"); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ".")
	if s == "" || len(parts) > 4 {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}
	var nums [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q", s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Build: nums[2], Revision: nums[3]}, nil
}

// String renders the version with four parts, so "14.0.4" parses and
// prints as 14.0.4.0.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// Compare returns -1, 0 or 1.
func (v Version) Compare(o Version) int {
	a := [4]int{v.Major, v.Minor, v.Build, v.Revision}
	b := [4]int{o.Major, o.Minor, o.Build, o.Revision}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// AtLeast reports whether v is major.minor or newer.
func (v Version) AtLeast(major, minor int) bool {
	return v.Compare(Version{Major: major, Minor: minor}) >= 0
}

// IsZero reports whether the version was never set.
func (v Version) IsZero() bool {
	return v == Version{}
}
