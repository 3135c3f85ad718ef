package playlist

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/renameio/v2"

	"telerec/internal/fileutil"
)

// Channel is one playlist entry: the EXTINF attributes plus the stream URL
// that follows on the next line.
type Channel struct {
	Name  string `json:"tvgName"`
	ID    string `json:"tvgId"`
	Logo  string `json:"tvgLogo"`
	Group string `json:"-"`
	URL   string `json:"-"`

	// extinf is the raw EXTINF line, kept so split playlists reproduce the
	// provider's attributes byte for byte.
	extinf string
}

// Group collects the channels sharing one group-title, in playlist order.
type Group struct {
	Name     string    `json:"groupe"`
	Channels []Channel `json:"chaines"`
}

var extinfAttrs = regexp.MustCompile(`tvg-name="([^"]*)".*?tvg-id="([^"]*)".*?tvg-logo="([^"]*)".*?group-title="([^"]*)"`)

// Parse reads an extended M3U document. EXTINF lines missing the expected
// attribute set are skipped rather than failing the whole playlist; provider
// exports are full of partial lines.
func Parse(r io.Reader) ([]Channel, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var channels []Channel
	var pending *Channel
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "#EXTINF"):
			match := extinfAttrs.FindStringSubmatch(line)
			if match == nil {
				pending = nil
				continue
			}
			pending = &Channel{
				Name:   match[1],
				ID:     match[2],
				Logo:   match[3],
				Group:  match[4],
				extinf: line,
			}
		case strings.HasPrefix(line, "http"):
			if pending == nil {
				continue
			}
			pending.URL = line
			channels = append(channels, *pending)
			pending = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	return channels, nil
}

// ParseFile parses the playlist at path.
func ParseFile(path string) ([]Channel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open playlist: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// GroupChannels buckets channels by group-title, preserving the order groups
// first appear in the playlist.
func GroupChannels(channels []Channel) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, ch := range channels {
		i, ok := index[ch.Group]
		if !ok {
			i = len(groups)
			index[ch.Group] = i
			groups = append(groups, Group{Name: ch.Group})
		}
		groups[i].Channels = append(groups[i].Channels, ch)
	}
	return groups
}

// WriteGroupsJSON renders the grouped channel list as indented JSON.
func WriteGroupsJSON(w io.Writer, groups []Group) error {
	if groups == nil {
		groups = []Group{}
	}
	data, err := json.MarshalIndent(groups, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal groups: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ConvertFile parses an M3U playlist and writes the grouped JSON document next
// to it, returning the output path.
func ConvertFile(path string) (string, error) {
	channels, err := ParseFile(path)
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(filepath.Dir(path), base+".json")

	pending, err := renameio.NewPendingFile(outPath)
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", outPath, err)
	}
	defer pending.Cleanup() //nolint:errcheck

	if err := WriteGroupsJSON(pending, GroupChannels(channels)); err != nil {
		return "", err
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return "", fmt.Errorf("replace %s: %w", outPath, err)
	}
	return outPath, nil
}

// SplitByGroup writes one playlist per group under outputDir, named after the
// sanitized group title. Returns the file paths in group order.
func SplitByGroup(channels []Channel, outputDir string) ([]string, error) {
	if err := fileutil.EnsureDir(outputDir); err != nil {
		return nil, err
	}

	var paths []string
	for _, group := range GroupChannels(channels) {
		name := fileutil.SanitizeGroupName(group.Name)
		if name == "" {
			name = "sans_groupe"
		}
		path := filepath.Join(outputDir, name+".m3u")

		var b strings.Builder
		for _, ch := range group.Channels {
			b.WriteString(ch.extinf)
			b.WriteByte('\n')
			b.WriteString(ch.URL)
			b.WriteByte('\n')
		}
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
