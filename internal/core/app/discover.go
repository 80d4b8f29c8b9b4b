package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"

	"rapidscore/internal/core/errors"
	"rapidscore/internal/shared/util"
)

// Discover walks root recursively and returns every file whose extension is
// in extensions (case-insensitive). Directory and file globs are matched
// against base names. The order is the lexical walk order of the tree.
func Discover(root string, extensions, excludeDirs, excludeFiles []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.New(errors.CodeNotFound, "folder does not exist"), errors.CtxPath, root)
		}
		return nil, errors.AddContext(err, errors.CtxPath, root)
	}
	if !info.IsDir() {
		return nil, errors.AddContext(errors.New(errors.CodeValidationError, "not a folder"), errors.CtxPath, root)
	}

	dirGlobs, err := compileGlobs(excludeDirs, "exclude dir")
	if err != nil {
		return nil, err
	}
	fileGlobs, err := compileGlobs(excludeFiles, "exclude file")
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		base := filepath.Base(path)
		if d.IsDir() {
			if path == root {
				return nil
			}
			if matchesAny(dirGlobs, base) {
				return filepath.SkipDir
			}
			return nil
		}

		if !util.HasExtension(path, extensions) {
			return nil
		}
		if matchesAny(fileGlobs, base) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "discover")
	}
	return files, nil
}

func compileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", label, p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func matchesAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
