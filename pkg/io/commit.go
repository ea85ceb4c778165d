package io

import (
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	"github.com/matzehuels/pkgcheck/pkg/errors"
)

// Standard artifact file names inside the data directory.
const (
	GraphFile    = "data.bin"
	ProblemsFile = "problems.bin"
)

// Commit writes every artifact (path -> encoded bytes) to a temporary file
// next to its destination, syncs it, and renames them into place only after
// all writes succeeded. Existing destinations are moved aside first; if any
// rename fails, artifacts already renamed are rolled back to their previous
// contents. On failure every temporary file is removed and the destinations
// are as they were, unless the rollback itself fails, which is reported
// in the returned error.
func Commit(fs afero.Fs, artifacts map[string][]byte) error {
	paths := slices.Sorted(maps.Keys(artifacts))
	temps := make(map[string]string, len(paths))
	cleanup := func() {
		for _, tmp := range temps {
			_ = fs.Remove(tmp)
		}
	}

	for _, path := range paths {
		dir := filepath.Dir(path)
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			cleanup()
			return errors.Wrap(errors.ErrCodePersistence, err, "create %s", dir)
		}
		tmp, err := writeTemp(fs, dir, filepath.Base(path), artifacts[path])
		if tmp != "" {
			temps[path] = tmp
		}
		if err != nil {
			cleanup()
			return err
		}
	}

	backups := make(map[string]string, len(paths))
	var done []string
	for _, path := range paths {
		err := replace(fs, path, temps[path], backups)
		if err == nil {
			done = append(done, path)
			continue
		}
		for _, tmp := range temps {
			_ = fs.Remove(tmp)
		}
		if rerr := rollback(fs, append(done, path), backups); rerr != nil {
			return errors.Wrap(errors.ErrCodePersistence, err, "rename %s (rollback failed: %v)", path, rerr)
		}
		return errors.Wrap(errors.ErrCodePersistence, err, "rename %s", path)
	}
	for _, bak := range backups {
		_ = fs.Remove(bak)
	}
	return nil
}

// backupName is where the previous artifact is kept during a commit.
func backupName(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".prev")
}

// replace moves an existing path aside, recording it in backups, and
// renames tmp onto path.
func replace(fs afero.Fs, path, tmp string, backups map[string]string) error {
	if exists, err := afero.Exists(fs, path); err != nil {
		return err
	} else if exists {
		bak := backupName(path)
		if err := fs.Rename(path, bak); err != nil {
			return err
		}
		backups[path] = bak
	}
	return fs.Rename(tmp, path)
}

// rollback restores every path from its backup, or removes it when there
// was nothing before the commit.
func rollback(fs afero.Fs, paths []string, backups map[string]string) error {
	var first error
	for _, path := range paths {
		bak, ok := backups[path]
		if !ok {
			if err := fs.Remove(path); err != nil && !os.IsNotExist(err) && first == nil {
				first = err
			}
			continue
		}
		if err := fs.Rename(bak, path); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func writeTemp(fs afero.Fs, dir, base string, data []byte) (string, error) {
	f, err := afero.TempFile(fs, dir, "."+base+".tmp-*")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePersistence, err, "create temporary file in %s", dir)
	}
	name := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		return name, errors.Wrap(errors.ErrCodePersistence, err, "write %s", name)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return name, errors.Wrap(errors.ErrCodePersistence, err, "sync %s", name)
	}
	if err := f.Close(); err != nil {
		return name, errors.Wrap(errors.ErrCodePersistence, err, "close %s", name)
	}
	return name, nil
}
