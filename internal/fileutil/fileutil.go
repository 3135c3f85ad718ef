package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("empty directory path")
	}
	return os.MkdirAll(dir, 0o755)
}

// UniqueName returns requested unchanged when no file with that name exists in
// dir; otherwise it probes base-1.ext, base-2.ext, ... in increasing order and
// returns the first free name. Deterministic for the directory contents at
// call time; concurrent allocators in other processes can still race.
func UniqueName(dir, requested string) string {
	base := strings.TrimSuffix(requested, filepath.Ext(requested))
	ext := filepath.Ext(requested)

	name := requested
	for counter := 1; exists(filepath.Join(dir, name)); counter++ {
		name = fmt.Sprintf("%s-%d%s", base, counter, ext)
	}
	return name
}

// SanitizeFileName strips path separators and shell-hostile characters from a
// name destined for the filesystem.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "*", "-", "?", "", "\"", "", "<", "", ">", "", "|", "")
	return strings.TrimSpace(replacer.Replace(name))
}

// SanitizeGroupName reduces a playlist group title to a filesystem-safe slug:
// runs of non-alphanumeric characters collapse to single underscores.
func SanitizeGroupName(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
