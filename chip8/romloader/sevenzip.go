package romloader

import (
	"fmt"

	"github.com/bodgit/sevenzip"
)

func extractFrom7z(path string, extensions []string) ([]byte, string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}
	defer r.Close()

	entries := make([]archiveEntry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, archiveEntry{name: f.Name, isDir: f.FileInfo().IsDir(), open: f.Open})
	}
	return extractFirst(entries, extensions)
}
