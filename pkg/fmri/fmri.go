package fmri

import (
	"cmp"
	"strings"

	"github.com/matzehuels/pkgcheck/pkg/errors"
)

const (
	schemePublisher = "pkg://"
	schemeLocal     = "pkg:/"
)

// FMRI identifies a package, optionally qualified by publisher and version.
// FMRIs are values: copy them freely, but do not mutate the segment slices
// of a parsed FMRI.
type FMRI struct {
	Publisher string
	Name      string
	Version   Version
}

// New returns a stem FMRI for name without publisher or version.
func New(name string) FMRI { return FMRI{Name: name} }

// Parse parses text in the canonical form
// [pkg://publisher/ | pkg:/]name[@release[,build][-branch][:timestamp]].
//
// Parse rejects an empty name, malformed version segments (non-numeric
// where a number is required) and doubled separators. Returned errors carry
// the [errors.ErrCodeInvalidFMRI] code.
func Parse(text string) (FMRI, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return FMRI{}, errors.New(errors.ErrCodeInvalidFMRI, "empty FMRI")
	}

	var f FMRI
	switch {
	case strings.HasPrefix(s, schemePublisher):
		rest := s[len(schemePublisher):]
		i := strings.IndexByte(rest, '/')
		if i <= 0 {
			return FMRI{}, errors.New(errors.ErrCodeInvalidFMRI, "missing publisher in %q", text)
		}
		f.Publisher = rest[:i]
		s = rest[i+1:]
	case strings.HasPrefix(s, schemeLocal):
		s = s[len(schemeLocal):]
	case strings.HasPrefix(s, "pkg:"):
		return FMRI{}, errors.New(errors.ErrCodeInvalidFMRI, "malformed scheme in %q", text)
	case strings.HasPrefix(s, "/"):
		s = s[1:]
	}

	name, ver, hasVersion := strings.Cut(s, "@")
	if err := errors.ValidatePackageName(name); err != nil {
		return FMRI{}, errors.Wrap(errors.ErrCodeInvalidFMRI, err, "parse %q", text)
	}
	f.Name = name

	if hasVersion {
		if strings.Contains(ver, "@") {
			return FMRI{}, errors.New(errors.ErrCodeInvalidFMRI, "doubled version separator in %q", text)
		}
		v, err := ParseVersion(ver)
		if err != nil {
			return FMRI{}, errors.Wrap(errors.ErrCodeInvalidFMRI, err, "parse %q", text)
		}
		f.Version = v
	}
	return f, nil
}

// MustParse is like [Parse] but panics on error. It is intended for tests
// and package-level fixtures.
func MustParse(text string) FMRI {
	f, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return f
}

// String formats f in canonical form: "pkg://publisher/name@version" or
// "pkg:/name@version" when no publisher is set.
func (f FMRI) String() string {
	var b strings.Builder
	if f.Publisher != "" {
		b.WriteString(schemePublisher)
		b.WriteString(f.Publisher)
		b.WriteByte('/')
	} else {
		b.WriteString(schemeLocal)
	}
	b.WriteString(f.Name)
	if !f.Version.IsZero() {
		b.WriteByte('@')
		b.WriteString(f.Version.String())
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler using the canonical form.
func (f FMRI) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler via [Parse].
func (f *FMRI) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// IsStem reports whether f carries no version.
func (f FMRI) IsStem() bool { return f.Version.IsZero() }

// IsZero reports whether f is the zero FMRI (no name).
func (f FMRI) IsZero() bool { return f.Name == "" }

// Stem returns f without its version. The publisher is kept.
func (f FMRI) Stem() FMRI { return FMRI{Publisher: f.Publisher, Name: f.Name} }

// Equal reports whether a and b are identical in every field.
func (f FMRI) Equal(other FMRI) bool { return Compare(f, other) == 0 }

// Compare returns -1, 0 or +1 ordering a and b by name, publisher and
// version. Missing fields sort before present ones.
func Compare(a, b FMRI) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Publisher, b.Publisher); c != 0 {
		return c
	}
	return CompareVersion(a.Version, b.Version)
}

// StemEqual reports whether a and b name the same package, ignoring
// version. Publishers are compared only when both are set.
func StemEqual(a, b FMRI) bool {
	if a.Name != b.Name {
		return false
	}
	return a.Publisher == "" || b.Publisher == "" || a.Publisher == b.Publisher
}

// Matches reports whether candidate satisfies constraint exactly: a stem
// constraint matches any version of the same name, a versioned constraint
// only the identical version. A publisher on the constraint must match the
// candidate's publisher.
func Matches(constraint, candidate FMRI) bool {
	if constraint.Name != candidate.Name {
		return false
	}
	if constraint.Publisher != "" && constraint.Publisher != candidate.Publisher {
		return false
	}
	if constraint.IsStem() {
		return true
	}
	return CompareVersion(constraint.Version, candidate.Version) == 0
}

// Satisfies reports whether candidate fulfils constraint under IPS
// minimum-version semantics. The constraint's release and branch act as
// prefixes: "1.2" is satisfied by "1.2", "1.2.13" and "1.3" but not
// "1.1.9". Build versions are not compared.
func Satisfies(constraint, candidate FMRI) bool {
	if constraint.Name != candidate.Name {
		return false
	}
	if constraint.Publisher != "" && constraint.Publisher != candidate.Publisher {
		return false
	}
	if constraint.IsStem() {
		return true
	}
	if candidate.IsStem() {
		return false
	}
	want, have := constraint.Version, candidate.Version
	if c := successor(have.Release, want.Release); c != 0 {
		return c > 0
	}
	if want.Branch != nil {
		if c := successor(have.Branch, want.Branch); c != 0 {
			return c > 0
		}
	}
	return want.Timestamp == "" || have.Timestamp >= want.Timestamp
}
