// Command gen_snapshots_table renders the PNG snapshots written by the
// headless backend as an HTML table inside a markdown file.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli"
)

const (
	startMarker = "<!-- SNAPSHOTS:START -->"
	endMarker   = "<!-- SNAPSHOTS:END -->"
)

var errMarkersNotFound = errors.New("snapshot markers not found")

type snapshotItem struct {
	Name    string
	Encoded string
}

func main() {
	app := cli.NewApp()
	app.Name = "gen_snapshots_table"
	app.Usage = "Update the snapshot gallery in a markdown file"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "readme",
			Usage: "Path to markdown file to update in place",
			Value: "README.md",
		},
		cli.StringFlag{
			Name:  "snapshots",
			Usage: "Snapshots directory (headless --snapshot-dir)",
			Value: filepath.Join("testdata", "snapshots"),
		},
		cli.IntFlag{
			Name:  "cols",
			Usage: "Number of columns per row",
			Value: 4,
		},
		cli.IntFlag{
			Name:  "width",
			Usage: "Image width in pixels",
			Value: 160,
		},
	}
	app.Action = func(c *cli.Context) error {
		return updateReadme(c.String("readme"), c.String("snapshots"), c.Int("cols"), c.Int("width"))
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Failed to update snapshot table", "error", err)
		os.Exit(1)
	}
}

func updateReadme(readme, snapshots string, cols, width int) error {
	items, err := collectSnapshots(snapshots)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(readme)
	if err != nil {
		return fmt.Errorf("reading %s: %w", readme, err)
	}

	out, err := replaceTable(string(content), buildTable(items, filepath.ToSlash(snapshots), cols, width))
	if err != nil {
		return fmt.Errorf("%s: %w (ensure %s and %s exist)", readme, err, startMarker, endMarker)
	}

	if err := os.WriteFile(readme, []byte(out), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", readme, err)
	}
	slog.Info("Snapshot table updated", "readme", readme, "snapshots", len(items))
	return nil
}

// collectSnapshots lists the PNG files in dir sorted by name.
func collectSnapshots(dir string) ([]snapshotItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var items []snapshotItem
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".png") {
			continue
		}
		items = append(items, snapshotItem{
			Name:    strings.TrimSuffix(name, filepath.Ext(name)),
			Encoded: url.PathEscape(name),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func buildTable(items []snapshotItem, dir string, cols, width int) string {
	if cols <= 0 {
		cols = 3
	}

	var buf bytes.Buffer
	buf.WriteString("<table>\n")
	for i := 0; i < len(items); i += cols {
		buf.WriteString("  <tr>\n")
		for c := 0; c < cols; c++ {
			if i+c >= len(items) {
				buf.WriteString("    <td></td>\n")
				continue
			}
			it := items[i+c]
			src := path.Join(dir, it.Encoded)
			fmt.Fprintf(&buf, "    <td align=\"center\"><img src=\"%s\" width=\"%d\" style=\"image-rendering:pixelated;\" /><br><sub>%s</sub></td>\n", src, width, it.Name)
		}
		buf.WriteString("  </tr>\n")
	}
	buf.WriteString("</table>\n")
	return buf.String()
}

// replaceTable swaps whatever sits between the markers for table.
func replaceTable(content, table string) (string, error) {
	start := strings.Index(content, startMarker)
	end := strings.Index(content, endMarker)
	if start == -1 || end == -1 || end < start {
		return "", errMarkersNotFound
	}

	before := content[:start+len(startMarker)]
	after := content[end:]

	var out strings.Builder
	out.WriteString(before)
	out.WriteString("\n")
	out.WriteString(table)
	if !strings.HasSuffix(table, "\n") {
		out.WriteString("\n")
	}
	out.WriteString(after)
	return out.String(), nil
}
