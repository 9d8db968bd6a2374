package catalog

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/heartmarshall/medkit/internal/similarity"
)

//go:embed allowlist.txt
var defaultAllowList string

// AllowList is a set of medicine names trusted without admin review.
type AllowList struct {
	names map[string]struct{}
}

// LoadAllowList reads one name per line from path, or the built-in list when
// path is empty. Blank lines and lines starting with "#" are ignored.
func LoadAllowList(path string) (*AllowList, error) {
	if path == "" {
		return ParseAllowList(strings.NewReader(defaultAllowList))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open allow-list: %w", err)
	}
	defer f.Close()
	return ParseAllowList(f)
}

// ParseAllowList reads an allow-list from r.
func ParseAllowList(r io.Reader) (*AllowList, error) {
	a := &AllowList{names: make(map[string]struct{})}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		a.names[similarity.Normalize(line)] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read allow-list: %w", err)
	}
	return a, nil
}

// IsVerified reports whether name is on the list, ignoring case and punctuation.
func (a *AllowList) IsVerified(name string) bool {
	_, ok := a.names[similarity.Normalize(name)]
	return ok
}

// Len returns the number of names.
func (a *AllowList) Len() int { return len(a.names) }
