package fmri

import (
	"slices"
	"testing"

	"github.com/matzehuels/pkgcheck/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input     string
		publisher string
		name      string
		version   string
	}{
		{"library/zlib", "", "library/zlib", ""},
		{"/library/zlib", "", "library/zlib", ""},
		{"pkg:/library/zlib", "", "library/zlib", ""},
		{"pkg://openindiana.org/library/zlib", "openindiana.org", "library/zlib", ""},
		{"pkg:/library/zlib@1.2.13", "", "library/zlib", "1.2.13"},
		{"pkg:/audio/audacity@2.3.2-2022.0.0.1", "", "audio/audacity", "2.3.2-2022.0.0.1"},
		{
			"pkg://openindiana.org/audio/audacity@2.3.2,5.11-2022.0.0.1:20220126T070330Z",
			"openindiana.org", "audio/audacity", "2.3.2,5.11-2022.0.0.1:20220126T070330Z",
		},
		{"  developer/gcc-13@13.2.0,5.11  ", "", "developer/gcc-13", "13.2.0,5.11"},
		{"library/zlib@1.2.13:20230101T000000Z", "", "library/zlib", "1.2.13:20230101T000000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if f.Publisher != tt.publisher {
				t.Errorf("Publisher = %q, want %q", f.Publisher, tt.publisher)
			}
			if f.Name != tt.name {
				t.Errorf("Name = %q, want %q", f.Name, tt.name)
			}
			if got := f.Version.String(); got != tt.version {
				t.Errorf("Version = %q, want %q", got, tt.version)
			}
			if f.IsStem() != (tt.version == "") {
				t.Errorf("IsStem() = %v, want %v", f.IsStem(), tt.version == "")
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"pkg:/",
		"pkg://",
		"pkg:///zlib",
		"pkg:zlib",
		"library//zlib",
		"library/zlib@",
		"library/zlib@@1.0",
		"library/zlib@1.0@2.0",
		"library/zlib@1..2",
		"library/zlib@1.a",
		"library/zlib@-1",
		"library/zlib@1.0,",
		"library/zlib@1.0,5.x",
		"library/zlib@1.0-",
		"library/zlib@1.0-2022..1",
		"library/zlib@1.0:",
		"library/zlib@1.0:2022:01",
		"@1.0",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", in)
			}
			if !errors.Is(err, errors.ErrCodeInvalidFMRI) {
				t.Errorf("Parse(%q) code = %v, want %v", in, errors.GetCode(err), errors.ErrCodeInvalidFMRI)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	inputs := []string{
		"library/zlib",
		"pkg:/library/zlib@1.2.13",
		"pkg://openindiana.org/library/zlib@1.2.13,5.11-2023.0.0.1:20230512T081722Z",
		"pkg://on-nightly/system/kernel@0.5.11-2024.0.0.22000",
		"runtime/python-311@3.11.9,5.11",
		"shell/bash@5.2.26:20240101T000000Z",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			f := MustParse(in)
			again, err := Parse(f.String())
			if err != nil {
				t.Fatalf("Parse(String()) error: %v", err)
			}
			if !again.Equal(f) {
				t.Errorf("round trip %q -> %q -> %q", in, f.String(), again.String())
			}
		})
	}
}

func TestCompare(t *testing.T) {
	// Ascending order; every element must sort strictly after its predecessor.
	ordered := []string{
		"library/a",
		"library/a@1",
		"library/a@1:20200101T000000Z",
		"library/a@1,5.11",
		"library/a@1,5.11-1",
		"library/a@1,5.11-1:20200101T000000Z",
		"library/a@1,5.11-1:20210101T000000Z",
		"library/a@1,5.11-2",
		"library/a@1.0",
		"library/a@1.0.1",
		"library/a@1.2",
		"library/a@1.10",
		"library/a@2",
		"pkg://aaa/library/a",
		"pkg://aaa/library/a@1",
		"pkg://zzz/library/a@0.1",
		"library/b",
	}

	fmris := make([]FMRI, len(ordered))
	for i, s := range ordered {
		fmris[i] = MustParse(s)
	}

	for i := range fmris {
		for j := range fmris {
			got := Compare(fmris[i], fmris[j])
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			if got != want {
				t.Errorf("Compare(%s, %s) = %d, want %d", ordered[i], ordered[j], got, want)
			}
		}
	}

	shuffled := slices.Clone(fmris)
	slices.Reverse(shuffled)
	slices.SortFunc(shuffled, Compare)
	for i := range shuffled {
		if !shuffled[i].Equal(fmris[i]) {
			t.Errorf("sorted[%d] = %s, want %s", i, shuffled[i], fmris[i])
		}
	}
}

func TestCompareTransitive(t *testing.T) {
	versions := []string{
		"1", "1.0", "1.0.0", "0.9", "1,5.11", "1,5.10", "1-3", "1,5.11-3",
		"1:20200101T000000Z", "1,5.11-3:20200101T000000Z", "2", "10", "1.2.3.4",
	}
	fmris := make([]FMRI, 0, len(versions)+1)
	fmris = append(fmris, New("a"))
	for _, v := range versions {
		fmris = append(fmris, MustParse("a@"+v))
	}

	for _, a := range fmris {
		for _, b := range fmris {
			ab, ba := Compare(a, b), Compare(b, a)
			if ab != -ba {
				t.Errorf("Compare(%s,%s)=%d but Compare(%s,%s)=%d", a, b, ab, b, a, ba)
			}
			if (ab == 0) != a.Equal(b) {
				t.Errorf("Compare/Equal disagree for %s and %s", a, b)
			}
			for _, c := range fmris {
				if ab < 0 && Compare(b, c) < 0 && Compare(a, c) >= 0 {
					t.Errorf("not transitive: %s < %s < %s", a, b, c)
				}
			}
		}
	}
}

func TestStemEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"library/zlib", "library/zlib@1.2", true},
		{"pkg://a/library/zlib@1", "library/zlib@2", true},
		{"pkg://a/library/zlib", "pkg://a/library/zlib@2", true},
		{"pkg://a/library/zlib", "pkg://b/library/zlib", false},
		{"library/zlib", "library/zlib-dev", false},
	}
	for _, tt := range tests {
		if got := StemEqual(MustParse(tt.a), MustParse(tt.b)); got != tt.want {
			t.Errorf("StemEqual(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		constraint, candidate string
		want                  bool
	}{
		{"library/zlib", "library/zlib", true},
		{"library/zlib", "library/zlib@1.2.13", true},
		{"library/zlib", "pkg://openindiana.org/library/zlib@9", true},
		{"library/zlib", "library/zlib-dev@1", false},
		{"library/zlib@1.2.13", "library/zlib@1.2.13", true},
		{"library/zlib@1.2.13", "library/zlib@1.2.14", false},
		{"library/zlib@1.2", "library/zlib@1.2.13", false},
		{"library/zlib@1.2.13", "library/zlib", false},
		{"pkg://openindiana.org/library/zlib", "pkg://openindiana.org/library/zlib@1", true},
		{"pkg://openindiana.org/library/zlib", "pkg://hipster-encumbered/library/zlib@1", false},
		{"pkg://openindiana.org/library/zlib", "library/zlib@1", false},
	}
	for _, tt := range tests {
		if got := Matches(MustParse(tt.constraint), MustParse(tt.candidate)); got != tt.want {
			t.Errorf("Matches(%s, %s) = %v, want %v", tt.constraint, tt.candidate, got, tt.want)
		}
	}
}

func TestMatchesStemIgnoresVersion(t *testing.T) {
	stem := New("audio/audacity")
	for _, v := range []string{"", "@1", "@2.3.2,5.11-2022.0.0.1:20220126T070330Z", "@0.0.1"} {
		if !Matches(stem, MustParse("audio/audacity"+v)) {
			t.Errorf("stem should match audio/audacity%s", v)
		}
		if Matches(stem, MustParse("audio/audacious"+v)) {
			t.Errorf("stem should not match audio/audacious%s", v)
		}
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		constraint, candidate string
		want                  bool
	}{
		{"pkg:/audio/audacity@2.3.2-2022.0.0.1", "pkg:/audio/audacity@2.3.2,5.11-2022.0.0.1:20220126T070330Z", true},
		{"pkg:/audio/audacity@2.3.2-2022.0.0.1", "pkg:/audio/audacity@3.3.2,5.11-2022.0.0.1:20220126T070330Z", true},
		{"pkg:/audio/audacity@2.3.2-2022.0.0.1", "pkg:/audio/audacity@1.3.2,5.11-2022.0.0.1:20220126T070330Z", false},
		{"pkg:/library/libvorbis@1.3.7-2022.0.0.0", "pkg:/library/libvorbis@1.3.7,1-2022.0.0.0:20220126T070330Z", true},
		{"pkg:/library/libvorbis@1.3.7-2022.0.0.0", "pkg:/library/libvorbis@2.3.7,1-2022.0.0.0:20220126T070330Z", true},
		{"pkg:/library/libvorbis@1.3.7-2022.0.0.0", "pkg:/library/libvorbis@1.2.7,1-2022.0.0.0:20220126T070330Z", false},
		{"library/zlib@1.2", "library/zlib@1.2.13", true},
		{"library/zlib@1.2", "library/zlib@1.1.9", false},
		{"library/zlib@1.2-2023", "library/zlib@1.2-2022.9", false},
		{"library/zlib@1.2-2023", "library/zlib@1.2", false},
		{"library/zlib@1.2:20230101T000000Z", "library/zlib@1.2:20220101T000000Z", false},
		{"library/zlib@1.2:20230101T000000Z", "library/zlib@1.2:20240101T000000Z", true},
		{"library/zlib", "library/zlib@0.1", true},
		{"library/zlib@1", "library/zlib", false},
		{"library/zlib@1", "library/zlib2@5", false},
	}
	for _, tt := range tests {
		if got := Satisfies(MustParse(tt.constraint), MustParse(tt.candidate)); got != tt.want {
			t.Errorf("Satisfies(%s, %s) = %v, want %v", tt.constraint, tt.candidate, got, tt.want)
		}
	}
}

func TestTextMarshaling(t *testing.T) {
	f := MustParse("pkg://openindiana.org/library/zlib@1.2.13,5.11")
	text, err := f.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var got FMRI
	if err := got.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if !got.Equal(f) {
		t.Errorf("UnmarshalText = %s, want %s", got, f)
	}
	if err := got.UnmarshalText([]byte("bad//name")); err == nil {
		t.Error("UnmarshalText should reject malformed input")
	}
}
