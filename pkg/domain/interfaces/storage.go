package interfaces

import (
	"context"
	"io"
)

// Storage stores document blobs byte-for-byte under flat names. Names come
// from Document.FileName and are unique because they embed the document
// ID.
type Storage interface {
	// Put writes the blob under name and returns the byte count. It
	// fails if an object with the same name already exists.
	Put(ctx context.Context, name string, r io.Reader) (int64, error)

	// Open returns the blob content for reading. The caller closes it.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes the blob. A missing blob is not an error.
	Delete(ctx context.Context, name string) error
}
