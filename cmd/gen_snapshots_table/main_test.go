package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectSnapshots(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"pong_frame_20.png", "pong_frame_10.png", "notes.txt", "maze frame.PNG"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0755))

	items, err := collectSnapshots(dir)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "maze frame", items[0].Name)
	assert.Equal(t, "maze%20frame.PNG", items[0].Encoded)
	assert.Equal(t, "pong_frame_10", items[1].Name)
	assert.Equal(t, "pong_frame_20", items[2].Name)
}

func TestBuildTable(t *testing.T) {
	items := []snapshotItem{
		{Name: "a", Encoded: "a.png"},
		{Name: "b", Encoded: "b.png"},
		{Name: "c", Encoded: "c.png"},
	}

	table := buildTable(items, "snaps", 2, 64)

	assert.Equal(t, 2, strings.Count(table, "<tr>"))
	assert.Equal(t, 1, strings.Count(table, "<td></td>"))
	assert.Contains(t, table, `src="snaps/b.png" width="64"`)
	assert.Contains(t, table, "<sub>c</sub>")
}

func TestReplaceTable(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "replaces old table",
			content: "intro\n" + startMarker + "\nold\n" + endMarker + "\noutro\n",
			want:    "intro\n" + startMarker + "\nNEW\n" + endMarker + "\noutro\n",
		},
		{
			name:    "adjacent markers",
			content: startMarker + endMarker,
			want:    startMarker + "\nNEW\n" + endMarker,
		},
		{
			name:    "missing end marker",
			content: startMarker + "\n",
			wantErr: true,
		},
		{
			name:    "markers out of order",
			content: endMarker + startMarker,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := replaceTable(tt.content, "NEW\n")
			if tt.wantErr {
				assert.ErrorIs(t, err, errMarkersNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdateReadme(t *testing.T) {
	dir := t.TempDir()
	snaps := filepath.Join(dir, "snaps")
	require.NoError(t, os.Mkdir(snaps, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(snaps, "ibm_frame_60.png"), nil, 0644))

	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte(startMarker+"\n"+endMarker+"\n"), 0644))

	require.NoError(t, updateReadme(readme, snaps, 4, 128))

	out, err := os.ReadFile(readme)
	require.NoError(t, err)
	assert.Contains(t, string(out), "ibm_frame_60.png")
	assert.Contains(t, string(out), "<sub>ibm_frame_60</sub>")
}
