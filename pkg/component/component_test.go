package component

import (
	"context"
	"slices"
	"testing"

	"github.com/spf13/afero"

	"github.com/matzehuels/pkgcheck/pkg/errors"
)

func writeComponent(t *testing.T, fs afero.Fs, dir, manifest, makefile string) {
	t.Helper()
	if err := afero.WriteFile(fs, dir+"/pkg5", []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if makefile != "" {
		if err := afero.WriteFile(fs, dir+"/Makefile", []byte(makefile), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestParse(t *testing.T) {
	c, err := Parse(Definition{
		Path:     "library/zlib",
		Manifest: []byte(`{"name": "zlib", "fmris": ["library/zlib", "pkg:/library/zlib@1.2.13", "developer/zlib-dev"], "dependencies": ["system/library@0.5.11"]}`),
		Makefile: []byte("REQUIRED_PACKAGES += developer/gcc-13 system/library\nTEST_REQUIRED_PACKAGES += developer/gcc-13\n"),
	})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if c.Name != "zlib" || c.Path != "library/zlib" {
		t.Errorf("Name, Path = %q, %q", c.Name, c.Path)
	}

	var produces []string
	for _, f := range c.Produces {
		produces = append(produces, f.String())
	}
	if want := []string{"pkg:/developer/zlib-dev", "pkg:/library/zlib"}; !slices.Equal(produces, want) {
		t.Errorf("Produces = %v, want %v", produces, want)
	}

	var deps []string
	for _, d := range c.Dependencies {
		deps = append(deps, d.Phase.String()+" "+d.Target.Name)
		if !d.Target.IsStem() {
			t.Errorf("dependency %s should be a stem", d.Target)
		}
	}
	want := []string{
		"runtime system/library",
		"build developer/gcc-13",
		"build system/library",
		"test developer/gcc-13",
	}
	if !slices.Equal(deps, want) {
		t.Errorf("Dependencies = %v, want %v", deps, want)
	}

	if got := len(c.DependenciesIn(Build, Test)); got != 3 {
		t.Errorf("len(DependenciesIn(Build, Test)) = %d, want 3", got)
	}
	if !c.ProducesName("library/zlib") || c.ProducesName("library/zlib2") {
		t.Error("ProducesName() mismatch")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
	}{
		{"unreadable manifest", Definition{Path: "a"}},
		{"bad json", Definition{Path: "a", Manifest: []byte("{")}},
		{"bad product", Definition{Path: "a", Manifest: []byte(`{"fmris": ["bad//name"]}`)}},
		{"bad runtime dep", Definition{Path: "a", Manifest: []byte(`{"fmris": [], "dependencies": ["x@y"]}`)}},
		{"bad makefile dep", Definition{Path: "a", Manifest: []byte(`{"fmris": []}`), Makefile: []byte("REQUIRED_PACKAGES += x@@1\n")}},
		{"traversal path", Definition{Path: "../a", Manifest: []byte(`{"fmris": []}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.def)
			if !errors.Is(err, errors.ErrCodeInvalidComponent) {
				t.Errorf("Parse() error = %v, want %s", err, errors.ErrCodeInvalidComponent)
			}
		})
	}
}

func TestScanAndIngest(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeComponent(t, fs, "/oi/components/library/zlib", `{"fmris": ["library/zlib"]}`, "REQUIRED_PACKAGES += developer/gcc-13\n")
	writeComponent(t, fs, "/oi/components/audio/audacity", `{"fmris": ["audio/audacity"]}`, "")
	writeComponent(t, fs, "/oi/components/meta/empty", `{"fmris": []}`, "")
	writeComponent(t, fs, "/oi/components/broken/json", `{"fmris": [`, "")
	writeComponent(t, fs, "/oi/components/.git/hooks", `{"fmris": ["ignored/pkg"]}`, "")
	_ = afero.WriteFile(fs, "/oi/components/README", []byte("not a component"), 0o644)

	defs, err := Scan(fs, "/oi/components")
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	var paths []string
	for _, d := range defs {
		paths = append(paths, d.Path)
	}
	if want := []string{"audio/audacity", "broken/json", "library/zlib", "meta/empty"}; !slices.Equal(paths, want) {
		t.Fatalf("Scan() paths = %v, want %v", paths, want)
	}

	res, err := Ingest(context.Background(), defs, Options{Workers: 3})
	if err != nil {
		t.Fatalf("Ingest() error: %v", err)
	}
	if len(res.Errors) != 1 {
		t.Errorf("len(Errors) = %d, want 1", len(res.Errors))
	}
	if len(res.Components) != 3 {
		t.Fatalf("len(Components) = %d, want 3", len(res.Components))
	}
	if res.Components[2].Path != "meta/empty" || len(res.Components[2].Produces) != 0 {
		t.Errorf("empty component should be retained, got %+v", res.Components[2])
	}
	if len(res.Components[1].Dependencies) != 1 {
		t.Errorf("zlib dependencies = %v", res.Components[1].Dependencies)
	}
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(afero.NewMemMapFs(), "/nowhere")
	if !errors.Is(err, errors.ErrCodeInvalidComponent) {
		t.Errorf("Scan() error = %v, want %s", err, errors.ErrCodeInvalidComponent)
	}
}
