package regressor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

// FileSource loads tables from files. Relative references are resolved
// against Root.
type FileSource struct {
	fs   afero.Fs
	root string
}

// NewFileSource returns a file-backed source. A nil filesystem selects the
// operating system filesystem.
func NewFileSource(fsys afero.Fs, root string) *FileSource {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &FileSource{fs: fsys, root: root}
}

// Root returns the directory relative references resolve against.
func (s *FileSource) Root() string {
	return s.root
}

func (s *FileSource) resolve(ref string) string {
	if filepath.IsAbs(ref) || s.root == "" {
		return filepath.Clean(ref)
	}
	return filepath.Join(s.root, ref)
}

func (s *FileSource) Load(ctx context.Context, ref string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, newLoadError(ref, err)
	}
	if strings.TrimSpace(ref) == "" {
		return nil, newLoadError(ref, fmt.Errorf("%w: empty reference", ErrTableNotFound))
	}
	path := s.resolve(ref)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newLoadError(ref, fmt.Errorf("%w: %s", ErrTableNotFound, path))
		}
		return nil, newLoadError(ref, fmt.Errorf("failed to read %s: %w", path, err))
	}
	table, err := decodeTable(path, data)
	if err != nil {
		return nil, newLoadError(ref, err)
	}
	if err := table.Validate(); err != nil {
		return nil, newLoadError(ref, err)
	}
	return table, nil
}

func decodeTable(path string, data []byte) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".tsv":
		return decodeDelimited(data, '\t')
	case ".csv":
		return decodeDelimited(data, ',')
	case ".json", ".yaml", ".yml":
		return decodeMapping(data)
	default:
		return decodeSniffed(ext, data)
	}
}

// decodeSniffed picks a decoder from the content when the extension is not
// one of the known table formats.
func decodeSniffed(ext string, data []byte) (*Table, error) {
	mime := mimetype.Detect(data)
	switch {
	case mime.Is("text/tab-separated-values"):
		return decodeDelimited(data, '\t')
	case mime.Is("text/csv"):
		return decodeDelimited(data, ',')
	case mime.Is("application/json"):
		return decodeMapping(data)
	default:
		return nil, fmt.Errorf("%w: unsupported table format %q (%s)", ErrMalformedTable, ext, mime.String())
	}
}
