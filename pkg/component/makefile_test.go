package component

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/pkgcheck/pkg/errors"
)

func TestParseMakefile(t *testing.T) {
	const mk = `
COMPONENT_NAME=		zlib
COMPONENT_VERSION=	1.2.13

include ../../make-rules/prep.mk

# Build dependencies
REQUIRED_PACKAGES += developer/gcc-13
REQUIRED_PACKAGES += library/libffi \
	system/library/math # trailing comment
TEST_REQUIRED_PACKAGES := developer/test/check
USERLAND_REQUIRED_PACKAGES = developer/build/gnu-make
USERLAND_TEST_REQUIRED_PACKAGES += runtime/python-$(PYTHON_VERSION) runtime/perl-536
RUNTIME_REQUIRED_PACKAGES += system/library
# REQUIRED_PACKAGES += commented/out

build:
	REQUIRED_PACKAGES=in/recipe
`
	got, err := parseMakefile([]byte(mk))
	if err != nil {
		t.Fatalf("parseMakefile() error: %v", err)
	}
	want := []makefileEntry{
		{phase: Build, value: "developer/gcc-13", line: 8},
		{phase: Build, value: "library/libffi", line: 9},
		{phase: Build, value: "system/library/math", line: 9},
		{phase: Test, value: "developer/test/check", line: 11},
		{phase: SystemBuild, value: "developer/build/gnu-make", line: 12},
		{phase: SystemTest, value: "runtime/perl-536", line: 13},
		{phase: Runtime, value: "system/library", line: 14},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(makefileEntry{})); diff != "" {
		t.Errorf("parseMakefile() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMakefileEmpty(t *testing.T) {
	if got, err := parseMakefile(nil); err != nil || len(got) != 0 {
		t.Errorf("parseMakefile(nil) = %v, %v, want empty", got, err)
	}
}

func TestParseMakefileLineTooLong(t *testing.T) {
	mk := "REQUIRED_PACKAGES += library/zlib\n# " + strings.Repeat("x", maxMakefileLine) + "\nREQUIRED_PACKAGES += library/libffi\n"
	if _, err := parseMakefile([]byte(mk)); !errors.Is(err, errors.ErrCodeInvalidComponent) {
		t.Errorf("parseMakefile() error = %v, want INVALID_COMPONENT", err)
	}

	_, err := Parse(Definition{Path: "library/zlib", Manifest: []byte(`{"fmris": ["library/zlib"]}`), Makefile: []byte(mk)})
	if !errors.Is(err, errors.ErrCodeInvalidComponent) {
		t.Fatalf("Parse() error = %v, want INVALID_COMPONENT", err)
	}
	if !strings.Contains(err.Error(), "Makefile") {
		t.Errorf("Parse() error %q should name the Makefile", err)
	}
}
