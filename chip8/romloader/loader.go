// Package romloader reads CHIP-8 programs from plain files or from
// compressed archives (ZIP, 7z, gzip, tar.gz, RAR).
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtensions are the file extensions recognized as CHIP-8 programs.
var DefaultExtensions = []string{".ch8", ".c8", ".rom"}

// maxROMSize bounds how much is read from a file or archive entry. Real
// programs are far smaller; the interpreter enforces the exact limit on load.
const maxROMSize = 64 * 1024

var (
	// ErrNoROMFile is returned when no ROM file is found in an archive
	ErrNoROMFile = errors.New("no ROM file found in archive")
	// ErrUnsupportedFormat is returned for unrecognized file formats
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrFileTooLarge is returned when extracted content exceeds maxROMSize
	ErrFileTooLarge = errors.New("file exceeds maximum size limit")
)

var (
	magicZIP      = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEmpty = []byte{0x50, 0x4B, 0x05, 0x06}
	magic7z       = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip     = []byte{0x1F, 0x8B}
	magicRAR      = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// Format is a detected container format.
type Format int

const (
	FormatUnknown Format = iota
	FormatRaw
	FormatZIP
	Format7z
	FormatGzip
	FormatRAR
)

func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatZIP:
		return "zip"
	case Format7z:
		return "7z"
	case FormatGzip:
		return "gzip"
	case FormatRAR:
		return "rar"
	default:
		return "unknown"
	}
}

// LoadROM is Load with DefaultExtensions.
func LoadROM(path string) ([]byte, string, error) {
	return Load(path, DefaultExtensions)
}

// Load reads a program from path. Archives are detected by magic bytes,
// falling back to the file extension, and the first entry matching one of
// extensions is extracted. A file that is not an archive must carry one of
// extensions.
//
// Returns the data, the base name of the file or archive entry, and any error.
func Load(path string, extensions []string) ([]byte, string, error) {
	header, err := readHeader(path)
	if err != nil {
		return nil, "", err
	}

	format := DetectFormat(header, path, extensions)
	slog.Debug("Loading ROM", "path", path, "format", format)

	switch format {
	case FormatRaw:
		return readRaw(path)
	case FormatZIP:
		return extractFromZIP(path, extensions)
	case Format7z:
		return extractFrom7z(path, extensions)
	case FormatGzip:
		return extractFromGzip(path, extensions)
	case FormatRAR:
		return extractFromRAR(path, extensions)
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	return header[:n], nil
}

func readRaw(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	data, err := limitedRead(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read ROM: %w", err)
	}
	return data, filepath.Base(path), nil
}

// DetectFormat determines the container format from magic bytes, then from
// the file extension.
func DetectFormat(header []byte, path string, extensions []string) Format {
	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEmpty):
		return FormatZIP
	case bytes.HasPrefix(header, magicRAR):
		return FormatRAR
	case bytes.HasPrefix(header, magic7z):
		return Format7z
	case bytes.HasPrefix(header, magicGzip):
		return FormatGzip
	}

	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return FormatZIP
	case strings.HasSuffix(lower, ".7z"):
		return Format7z
	case strings.HasSuffix(lower, ".gz"), strings.HasSuffix(lower, ".tgz"):
		return FormatGzip
	case strings.HasSuffix(lower, ".rar"):
		return FormatRAR
	}

	if isROMFile(path, extensions) {
		return FormatRaw
	}
	return FormatUnknown
}

// isROMFile reports whether name has one of extensions, ignoring case.
func isROMFile(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// limitedRead reads all of r, failing with ErrFileTooLarge past maxROMSize.
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxROMSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// archiveEntry is one file inside an archive.
type archiveEntry struct {
	name  string
	isDir bool
	open  func() (io.ReadCloser, error)
}

// extractFirst reads the first regular entry matching extensions.
func extractFirst(entries []archiveEntry, extensions []string) ([]byte, string, error) {
	for _, e := range entries {
		if e.isDir || !isROMFile(e.name, extensions) {
			continue
		}

		rc, err := e.open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s in archive: %w", e.name, err)
		}
		data, err := limitedRead(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", e.name, err)
		}
		return data, filepath.Base(e.name), nil
	}
	return nil, "", ErrNoROMFile
}
