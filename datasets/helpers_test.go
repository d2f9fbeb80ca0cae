package datasets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Noofbiz/limelight/theme"
)

// writeCorpus creates root/{theme}/ for every theme and fills it with the
// given files. Missing themes get an empty directory.
func writeCorpus(t *testing.T, root string, files map[theme.Theme]map[string]string) {
	t.Helper()
	for _, th := range theme.All() {
		dir := filepath.Join(root, th.Name())
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
		for name, content := range files[th] {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write %s: %v", path, err)
			}
		}
	}
}

func sequentialSources(dir string, n int) DataPointSources {
	out := make(DataPointSources, n)
	for i := range n {
		out[i] = NewDataPointSource(dir, DataPointID(i), theme.Theme(i%theme.Count))
	}
	return out
}
