// Package assets embeds the default dictionary and the SQL migrations
// for the in-memory history ledger.
package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed dictionary.txt migrations/*.sql
var FS embed.FS

// readLines returns the non-empty, non-comment lines of an embedded file.
// Case is left untouched; callers normalise.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// DictionaryLines returns the embedded default word list.
func DictionaryLines() ([]string, error) {
	return readLines("dictionary.txt")
}

// Migrations returns the migrations directory as its own filesystem.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "migrations")
}
