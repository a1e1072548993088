package nb2docx

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alnah/go-nb2docx/internal/fileutil"
)

// Role distinguishes the two images a cell can contribute.
type Role string

const (
	RoleImage Role = "img"  // the cell's first output image
	RoleCode  Role = "code" // the rendered cell source
)

// Artifact permissions: rwx------ for the directory, rw------- for images.
const (
	artifactDirPerm  = 0o700
	artifactFilePerm = 0o600
)

// Artifacts resolves produced images by original cell index and role.
type Artifacts interface {
	Read(index int, role Role) ([]byte, error)
}

// ArtifactStore is the per-run image directory, holding {index}{role}.png.
type ArtifactStore struct {
	dir     string
	created bool // the directory did not exist before this run
	written map[string]bool
}

// Compile-time interface check.
var _ Artifacts = (*ArtifactStore)(nil)

// NewArtifactStore creates the directory for notebookPath under parent.
// The directory is named after the notebook's base name without extensions
// ("lab.v2.ipynb" -> "lab"). An empty parent means the working directory.
func NewArtifactStore(parent, notebookPath string) (*ArtifactStore, error) {
	name := fileutil.Stem(notebookPath)
	if name == "" {
		return nil, fmt.Errorf("cannot derive artifact directory from %q", notebookPath)
	}
	if parent == "" {
		parent = "."
	}
	dir := filepath.Join(parent, name)
	_, statErr := os.Stat(dir)
	if err := os.MkdirAll(dir, artifactDirPerm); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	return &ArtifactStore{
		dir:     dir,
		created: os.IsNotExist(statErr),
		written: make(map[string]bool),
	}, nil
}

// Dir returns the store's directory.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

// Path returns where the artifact for index and role lives.
func (s *ArtifactStore) Path(index int, role Role) string {
	return filepath.Join(s.dir, strconv.Itoa(index)+string(role)+".png")
}

// Write stores data for index and role and returns its path.
func (s *ArtifactStore) Write(index int, role Role, data []byte) (string, error) {
	path := s.Path(index, role)
	if err := os.WriteFile(path, data, artifactFilePerm); err != nil {
		return "", fmt.Errorf("writing artifact %d%s: %w", index, role, err)
	}
	s.written[path] = true
	return path, nil
}

// Read loads the artifact for index and role.
func (s *ArtifactStore) Read(index int, role Role) ([]byte, error) {
	data, err := os.ReadFile(s.Path(index, role))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %d%s", ErrArtifactMissing, index, role)
		}
		return nil, fmt.Errorf("reading artifact %d%s: %w", index, role, err)
	}
	return data, nil
}

// Remove deletes the images this store wrote, then the directory when the
// store created it. A pre-existing directory keeps any foreign files.
func (s *ArtifactStore) Remove() error {
	var firstErr error
	for path := range s.written {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
		delete(s.written, path)
	}
	if s.created {
		if err := os.Remove(s.dir); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
