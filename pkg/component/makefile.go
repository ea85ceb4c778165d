package component

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/matzehuels/pkgcheck/pkg/errors"
)

// maxMakefileLine bounds one physical Makefile line.
const maxMakefileLine = 1024 * 1024

// makefileVars maps the Makefile variables that declare dependencies to
// their phase.
var makefileVars = map[string]Phase{
	"REQUIRED_PACKAGES":               Build,
	"TEST_REQUIRED_PACKAGES":          Test,
	"USERLAND_REQUIRED_PACKAGES":      SystemBuild,
	"USERLAND_TEST_REQUIRED_PACKAGES": SystemTest,
	"RUNTIME_REQUIRED_PACKAGES":       Runtime,
}

// makefileEntry is one word assigned to a dependency variable.
type makefileEntry struct {
	phase Phase
	value string
	line  int
}

// parseMakefile extracts dependency declarations. It understands =, :=
// and += assignments, backslash continuations and # comments. Words that
// reference make variables are skipped since they cannot be resolved
// without running make. A line longer than maxMakefileLine is an error
// rather than the silent end of the file.
func parseMakefile(data []byte) ([]makefileEntry, error) {
	var entries []makefileEntry

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxMakefileLine)

	lineNo := 0
	var logical strings.Builder
	start := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if logical.Len() == 0 {
			start = lineNo
		}
		if cont, ok := strings.CutSuffix(line, `\`); ok {
			logical.WriteString(cont)
			logical.WriteByte(' ')
			continue
		}
		logical.WriteString(line)
		entries = append(entries, parseAssignment(logical.String(), start)...)
		logical.Reset()
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidComponent, err, "%s after line %d", makefileName, lineNo)
	}
	if logical.Len() > 0 {
		entries = append(entries, parseAssignment(logical.String(), start)...)
	}
	return entries, nil
}

func parseAssignment(line string, lineNo int) []makefileEntry {
	if strings.HasPrefix(line, "\t") {
		return nil
	}
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	i := strings.IndexByte(line, '=')
	if i <= 0 {
		return nil
	}
	name := strings.TrimSpace(strings.TrimRight(line[:i], "+:?"))
	phase, ok := makefileVars[name]
	if !ok {
		return nil
	}

	var out []makefileEntry
	for _, word := range strings.Fields(line[i+1:]) {
		if strings.Contains(word, "$(") || strings.Contains(word, "${") {
			continue
		}
		out = append(out, makefileEntry{phase: phase, value: word, line: lineNo})
	}
	return out
}
