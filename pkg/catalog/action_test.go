package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		line string
		name string
		want []attr
	}{
		{
			line: "depend fmri=pkg:/library/zlib@1.2 type=require",
			name: "depend",
			want: []attr{{"fmri", "pkg:/library/zlib@1.2"}, {"type", "require"}},
		},
		{
			line: `set name=pkg.summary value="zlib compression library"`,
			name: "set",
			want: []attr{{"name", "pkg.summary"}, {"value", "zlib compression library"}},
		},
		{
			line: `set name=pkg.description value="say \"hi\""`,
			name: "set",
			want: []attr{{"name", "pkg.description"}, {"value", `say "hi"`}},
		},
		{
			line: "depend  fmri=a   fmri=b\ttype=require-any",
			name: "depend",
			want: []attr{{"fmri", "a"}, {"fmri", "b"}, {"type", "require-any"}},
		},
		{
			line: `set name=variant.arch value=""`,
			name: "set",
			want: []attr{{"name", "variant.arch"}, {"value", ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			a, err := parseAction(tt.line)
			if err != nil {
				t.Fatalf("parseAction() error: %v", err)
			}
			if a.name != tt.name {
				t.Errorf("name = %q, want %q", a.name, tt.name)
			}
			if diff := cmp.Diff(tt.want, a.attrs, cmp.AllowUnexported(attr{})); diff != "" {
				t.Errorf("attrs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseActionErrors(t *testing.T) {
	for _, line := range []string{
		"",
		"   ",
		`set name=pkg.summary value="unterminated`,
		"depend fmri",
		"depend =value",
	} {
		if _, err := parseAction(line); err == nil {
			t.Errorf("parseAction(%q) expected error", line)
		}
	}
}
