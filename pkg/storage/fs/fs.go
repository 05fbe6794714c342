// Package fs stores document blobs as plain files under a local root
// directory. Blobs are exact byte copies of the uploaded sources, named
// by the document's file name.
package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/docket-hq/docket/pkg/domain/interfaces"
)

type Storage struct {
	root string
}

var _ interfaces.Storage = &Storage{}

// New returns a filesystem-backed blob storage rooted at the given
// directory, creating it if needed.
func New(root string) (*Storage, error) {
	if root == "" {
		return nil, goerr.New("storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create storage root", goerr.V("root", root))
	}
	return &Storage{root: root}, nil
}

// sanitize rejects names that would escape the root. Names are flat: no
// separators, no traversal.
func (s *Storage) sanitize(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", goerr.New("blob name is empty")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", goerr.New("invalid blob name", goerr.V("name", name))
	}
	return filepath.Join(s.root, name), nil
}

func (s *Storage) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	path, err := s.sanitize(name)
	if err != nil {
		return 0, err
	}

	// Name collisions indicate a caller bug: file names embed the unique
	// document ID. Refuse rather than overwrite another record's blob.
	if _, err := os.Stat(path); err == nil {
		return 0, goerr.New("blob already exists", goerr.V("name", name))
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create temp blob")
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return 0, goerr.Wrap(err, "failed to write blob", goerr.V("name", name))
	}
	if err := tmp.Close(); err != nil {
		return 0, goerr.Wrap(err, "failed to close temp blob")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, goerr.Wrap(err, "failed to place blob", goerr.V("name", name))
	}

	return size, nil
}

func (s *Storage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	path, err := s.sanitize(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open blob", goerr.V("name", name))
	}
	return f, nil
}

func (s *Storage) Delete(ctx context.Context, name string) error {
	path, err := s.sanitize(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return goerr.Wrap(err, "failed to delete blob", goerr.V("name", name))
	}
	return nil
}
