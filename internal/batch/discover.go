package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"albumpress/internal/services"
)

// Discover walks root recursively and returns every regular file whose name
// ends with one of extensions, compared with Unicode case folding. Results
// are sorted lexicographically. Any walk error, including a missing root, is
// returned.
func Discover(root string, extensions []string) ([]string, error) {
	folder := cases.Fold()
	suffixes := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		if ext = strings.TrimSpace(ext); ext != "" {
			suffixes = append(suffixes, folder.String(ext))
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !isRegularFile(path, d) {
			return nil
		}
		name := folder.String(d.Name())
		for _, suffix := range suffixes {
			if strings.HasSuffix(name, suffix) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "discover", "walk source", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// isRegularFile accepts regular files and symlinks that resolve to one.
// Directory links are not followed and dangling links are skipped.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// DestinationPath maps path under srcRoot onto dstRoot, keeping the relative
// layout. Only the leading root is replaced; the same string appearing deeper
// in the path is left alone.
func DestinationPath(srcRoot, dstRoot, path string) (string, error) {
	rel, err := filepath.Rel(srcRoot, path)
	if err != nil {
		return "", fmt.Errorf("relative path of %q: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q is not under %q", path, srcRoot)
	}
	return filepath.Join(dstRoot, rel), nil
}
