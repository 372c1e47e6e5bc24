package scraper

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// ParseIgnoreList reads the ignored-channel names, one per line. Lines
// starting with "# " (hash plus space) are comments; otherwise a leading hash
// is treated as channel-name decoration and stripped. Matching is
// case-insensitive.
func ParseIgnoreList(r io.Reader) map[string]struct{} {
	ignored := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "# ") {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(strings.TrimLeft(line, "#")))
		if name != "" {
			ignored[name] = struct{}{}
		}
	}
	return ignored
}

// LoadIgnoreList parses the ignore file at path; a missing file means an
// empty list.
func LoadIgnoreList(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]struct{}{}, nil
		}
		return nil, err
	}
	defer f.Close()
	return ParseIgnoreList(f), nil
}
