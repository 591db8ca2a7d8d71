package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindOrphans lists stored image files in dir whose names appear in none of
// contents. A missing dir has no orphans.
func FindOrphans(dir string, contents []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading image directory %s: %w", dir, err)
	}

	var orphans []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		referenced := false
		for _, c := range contents {
			if strings.Contains(c, e.Name()) {
				referenced = true
				break
			}
		}
		if !referenced {
			orphans = append(orphans, e.Name())
		}
	}
	sort.Strings(orphans)
	return orphans, nil
}

// RemoveOrphans deletes the named files from dir and returns how many went.
func RemoveOrphans(dir string, names []string) (int, error) {
	removed := 0
	for _, name := range names {
		if name != filepath.Base(name) {
			return removed, fmt.Errorf("refusing to remove %q outside %s", name, dir)
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("removing %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}
