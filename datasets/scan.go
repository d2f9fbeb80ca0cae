package datasets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Noofbiz/limelight/theme"
)

// dataPointName matches posting file names. Anything else under a theme
// directory (hidden files, notes) is ignored.
var dataPointName = regexp.MustCompile(`^[0-9]+$`)

// Scan lists the postings under root. Themes are visited in ordinal order;
// inside a theme directory entries keep the order the filesystem returns
// them in.
func Scan(root string) (DataPointSources, error) {
	var sources DataPointSources
	for _, th := range theme.All() {
		dir := filepath.Join(root, th.Name())
		names, err := listDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &DirectoryError{Path: dir, Err: err}
			}
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		for _, name := range names {
			if !dataPointName.MatchString(name) {
				continue
			}
			id, err := ParseDataPointID(name)
			if err != nil {
				return nil, fmt.Errorf("scan %s: %w", dir, err)
			}
			sources = append(sources, NewDataPointSource(root, id, th))
		}
	}
	return sources, nil
}

// listDir returns the entry names of dir unsorted; os.ReadDir would sort them.
func listDir(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}
