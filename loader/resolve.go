package loader

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/pyx/lang"
)

// maxSuggestions bounds the "did you mean" list of a not-found error.
const maxSuggestions = 3

// Find returns the source file of the dotted module name, searching paths
// in order; the loader's search paths are used if none are given. The
// first match wins. A not-found error lists similarly named modules.
func (l *Loader) Find(name string, paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = l.paths
	}

	path, err := l.find(name, paths)
	if err != nil {
		return "", l.notFound(name, paths, err)
	}

	return path, nil
}

// find is Find without suggestions.
func (l *Loader) find(name string, paths []string) (string, error) {
	if !validName(name) {
		return "", ErrModuleNotFound.Wrapf("invalid module name %q", name)
	}

	rel := filepath.Join(strings.Split(name, ".")...) + l.ext

	for _, dir := range paths {
		path := filepath.Join(dir, rel)

		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}

	return "", ErrModuleNotFound.With(
		slog.String("module", name),
		slog.Any("paths", paths),
	).Wrapf("no module named %q", name)
}

func validName(name string) bool {
	return name != "" && !strings.HasPrefix(name, ".") && !strings.HasSuffix(name, ".")
}

// notFound adds "did you mean" candidates to err, the result of find.
func (l *Loader) notFound(name string, paths []string, err error) error {
	if !validName(name) {
		return err
	}

	hint := l.suggest(name, paths)
	if len(hint) == 0 {
		return err
	}

	return ErrModuleNotFound.With(
		slog.String("module", name),
		slog.Any("paths", paths),
	).Wrapf("no module named %q; did you mean %s?", name, strings.Join(hint, ", "))
}

// suggest returns the modules under paths whose names fuzzily match name.
func (l *Loader) suggest(name string, paths []string) []string {
	var known []string

	for _, dir := range paths {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr
			}

			if d.IsDir() {
				if path != dir && (d.Name() == cacheDirName || strings.HasPrefix(d.Name(), ".")) {
					return filepath.SkipDir
				}

				return nil
			}

			if filepath.Ext(path) != l.ext {
				return nil
			}

			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return nil //nolint:nilerr
			}

			mod := strings.TrimSuffix(filepath.ToSlash(rel), l.ext)
			known = append(known, strings.ReplaceAll(mod, "/", "."))

			return nil
		})
	}

	matches := fuzzy.Find(name, known)

	var out []string

	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}

		out = append(out, m.Str)
	}

	return out
}

// ArtifactPath returns where the compiled artifact of the source file at
// path is stored.
func (l *Loader) ArtifactPath(path string) string {
	file := lang.ModuleName(path) + "." + CacheTag + ".pyc"

	if l.cacheDir == "" {
		return filepath.Join(filepath.Dir(path), cacheDirName, file)
	}

	// Sources with the same base name in different directories share the
	// cache directory, so the directory is folded into the name.
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		dir = filepath.Dir(path)
	}

	return filepath.Join(l.cacheDir, fmt.Sprintf("%s-%08x.%s.pyc",
		lang.ModuleName(path), uint32(lang.Hash([]byte(dir))), CacheTag)) //nolint:gosec
}
