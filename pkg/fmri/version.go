package fmri

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/pkgcheck/pkg/errors"
)

// Segments is a dot-separated sequence of non-negative integers such as the
// release "1.2.13" or the branch "2023.0.0.1".
type Segments []uint64

// String formats the segments joined by dots.
func (s Segments) String() string {
	parts := make([]string, len(s))
	for i, n := range s {
		parts[i] = strconv.FormatUint(n, 10)
	}
	return strings.Join(parts, ".")
}

// compareOptional orders optional segment sequences: nil sorts before any
// present value, otherwise element-wise with a strict prefix first.
func compareOptional(a, b Segments) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return slices.Compare(a, b)
}

// Version is the optional version part of an FMRI. The zero value means
// "no version". Build and Branch are nil when absent; Timestamp is empty
// when absent.
type Version struct {
	Release   Segments
	Build     Segments
	Branch    Segments
	Timestamp string
}

// IsZero reports whether v carries no version at all.
func (v Version) IsZero() bool { return len(v.Release) == 0 }

// String formats the version in canonical form. It returns the empty string
// for the zero version.
func (v Version) String() string {
	if v.IsZero() {
		return ""
	}
	var b strings.Builder
	b.WriteString(v.Release.String())
	if v.Build != nil {
		b.WriteByte(',')
		b.WriteString(v.Build.String())
	}
	if v.Branch != nil {
		b.WriteByte('-')
		b.WriteString(v.Branch.String())
	}
	if v.Timestamp != "" {
		b.WriteByte(':')
		b.WriteString(v.Timestamp)
	}
	return b.String()
}

// CompareVersion returns -1, 0 or +1 comparing a and b field by field. The
// zero version sorts before every present version.
func CompareVersion(a, b Version) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return -1
	case b.IsZero():
		return 1
	}
	if c := slices.Compare(a.Release, b.Release); c != 0 {
		return c
	}
	if c := compareOptional(a.Build, b.Build); c != 0 {
		return c
	}
	if c := compareOptional(a.Branch, b.Branch); c != 0 {
		return c
	}
	switch {
	case a.Timestamp == "" && b.Timestamp != "":
		return -1
	case a.Timestamp != "" && b.Timestamp == "":
		return 1
	}
	return cmp.Compare(a.Timestamp, b.Timestamp)
}

// ParseVersion parses the text after '@' in an FMRI.
func ParseVersion(text string) (Version, error) {
	if text == "" {
		return Version{}, errors.New(errors.ErrCodeInvalidFMRI, "empty version")
	}

	var v Version
	rest := text

	if i := strings.IndexByte(rest, ':'); i >= 0 {
		ts := rest[i+1:]
		if ts == "" {
			return Version{}, errors.New(errors.ErrCodeInvalidFMRI, "empty timestamp in version %q", text)
		}
		if strings.ContainsAny(ts, ":@ \t") {
			return Version{}, errors.New(errors.ErrCodeInvalidFMRI, "malformed timestamp in version %q", text)
		}
		v.Timestamp = ts
		rest = rest[:i]
	}

	if i := strings.IndexByte(rest, '-'); i >= 0 {
		branch, err := parseSegments(rest[i+1:], "branch", text)
		if err != nil {
			return Version{}, err
		}
		v.Branch = branch
		rest = rest[:i]
	}

	if i := strings.IndexByte(rest, ','); i >= 0 {
		build, err := parseSegments(rest[i+1:], "build", text)
		if err != nil {
			return Version{}, err
		}
		v.Build = build
		rest = rest[:i]
	}

	release, err := parseSegments(rest, "release", text)
	if err != nil {
		return Version{}, err
	}
	v.Release = release
	return v, nil
}

func parseSegments(s, field, version string) (Segments, error) {
	if s == "" {
		return nil, errors.New(errors.ErrCodeInvalidFMRI, "empty %s in version %q", field, version)
	}
	parts := strings.Split(s, ".")
	out := make(Segments, len(parts))
	for i, p := range parts {
		if p == "" {
			return nil, errors.New(errors.ErrCodeInvalidFMRI, "doubled separator in %s of version %q", field, version)
		}
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidFMRI, "non-numeric %s segment %q in version %q", field, p, version)
		}
		out[i] = n
	}
	return out, nil
}

// successor reports whether have is at least want under IPS rules: want
// is treated as a prefix, so have "1.2.13" satisfies want "1.2".
func successor(have, want Segments) int {
	for i, w := range want {
		if i >= len(have) {
			return -1
		}
		if c := cmp.Compare(have[i], w); c != 0 {
			return c
		}
	}
	return 0
}
