package component

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/matzehuels/pkgcheck/pkg/errors"
)

const (
	manifestFile = "pkg5"
	makefileName = "Makefile"
)

// Definition is a raw component as found on disk.
type Definition struct {
	// Path is the component directory relative to the scanned root, slash
	// separated.
	Path     string
	Manifest []byte
	// Makefile is nil when the component has none.
	Makefile []byte
}

// Scan walks root on fsys and returns a Definition for every directory
// containing a pkg5 file, sorted by path. Only an unreadable root is an
// error; unreadable files inside a component surface later as per-item
// ingestion errors.
func Scan(fsys afero.Fs, root string) ([]Definition, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidComponent, err, "scan components %s", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidComponent, "components root %s is not a directory", root)
	}

	var defs []Definition
	err = afero.Walk(fsys, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if p != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() != manifestFile {
			return nil
		}

		dir := filepath.Dir(p)
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			return err
		}
		def := Definition{Path: filepath.ToSlash(rel)}
		// Unreadable manifests are kept with a nil body so ingestion
		// reports them per item.
		def.Manifest, _ = afero.ReadFile(fsys, p)
		if mk, err := afero.ReadFile(fsys, filepath.Join(dir, makefileName)); err == nil {
			def.Makefile = mk
		}
		defs = append(defs, def)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidComponent, err, "scan components %s", root)
	}

	slices.SortFunc(defs, func(a, b Definition) int { return strings.Compare(a.Path, b.Path) })
	return defs, nil
}

