package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/pkgcheck/pkg/problem"
)

func TestPrintProblemsEmpty(t *testing.T) {
	var buf bytes.Buffer
	printProblems(&buf, nil)
	if !strings.Contains(buf.String(), "No problems found") {
		t.Errorf("printProblems(nil) = %q", buf.String())
	}
}

func TestPrintProblemsGroupsInDetectorOrder(t *testing.T) {
	problems := []problem.Problem{
		{Kind: problem.OrphanComponent, Subject: "meta/empty", Component: "meta/empty"},
		{Kind: problem.Cycle, Subject: "lib/a", Related: []string{"lib/a", "lib/b"}},
		{Kind: problem.MissingDependency, Subject: "missing/x"},
		{Kind: problem.Cycle, Subject: "lib/b", Related: []string{"lib/a", "lib/b"}},
	}
	var buf bytes.Buffer
	printProblems(&buf, problems)
	out := buf.String()

	missing := strings.Index(out, "missing-dependency (1)")
	cycle := strings.Index(out, "cycle (2)")
	orphan := strings.Index(out, "orphan-component (1)")
	if missing < 0 || cycle < 0 || orphan < 0 {
		t.Fatalf("missing group headings:\n%s", out)
	}
	if !(missing < cycle && cycle < orphan) {
		t.Errorf("groups out of order:\n%s", out)
	}
	if !strings.Contains(out, "4 problems in 3 kinds") {
		t.Errorf("missing total:\n%s", out)
	}
	for _, k := range []problem.Kind{problem.MissingDependency, problem.Cycle, problem.OrphanComponent} {
		if !strings.Contains(out, k.Description()) {
			t.Errorf("missing description for %s:\n%s", k, out)
		}
	}
}

func TestFormatProblem(t *testing.T) {
	got := formatProblem(problem.Problem{
		Kind:      problem.RenamedReference,
		Subject:   "app",
		Related:   []string{"new/name"},
		Component: "apps/app",
	})
	for _, want := range []string{"app", iconArrow, "new/name", "(apps/app)"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatProblem() = %q, missing %q", got, want)
		}
	}
}
