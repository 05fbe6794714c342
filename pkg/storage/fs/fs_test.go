package fs_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/docket-hq/docket/pkg/storage/fs"
)

func TestPutOpenDelete(t *testing.T) {
	root := t.TempDir()
	st, err := fs.New(root)
	gt.NoError(t, err).Required()
	ctx := context.Background()

	size, err := st.Put(ctx, "d1.pdf", bytes.NewReader([]byte("abc")))
	gt.NoError(t, err).Required()
	gt.Value(t, size).Equal(int64(3))

	rc, err := st.Open(ctx, "d1.pdf")
	gt.NoError(t, err).Required()
	data, err := io.ReadAll(rc)
	gt.NoError(t, err).Required()
	gt.NoError(t, rc.Close())
	gt.Value(t, string(data)).Equal("abc")

	gt.NoError(t, st.Delete(ctx, "d1.pdf")).Required()
	_, err = os.Stat(filepath.Join(root, "d1.pdf"))
	gt.Value(t, os.IsNotExist(err)).Equal(true)
}

func TestPutRejectsCollision(t *testing.T) {
	st, err := fs.New(t.TempDir())
	gt.NoError(t, err).Required()
	ctx := context.Background()

	_, err = st.Put(ctx, "d1.pdf", bytes.NewReader([]byte("first")))
	gt.NoError(t, err).Required()

	_, err = st.Put(ctx, "d1.pdf", bytes.NewReader([]byte("second")))
	gt.Value(t, err).NotNil()

	// Original content is untouched.
	rc, err := st.Open(ctx, "d1.pdf")
	gt.NoError(t, err).Required()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	gt.NoError(t, err).Required()
	gt.Value(t, string(data)).Equal("first")
}

func TestDeleteMissingIsNoError(t *testing.T) {
	st, err := fs.New(t.TempDir())
	gt.NoError(t, err).Required()

	gt.NoError(t, st.Delete(context.Background(), "never-existed.pdf"))
}

func TestRejectsTraversalNames(t *testing.T) {
	st, err := fs.New(t.TempDir())
	gt.NoError(t, err).Required()
	ctx := context.Background()

	for _, name := range []string{"", "../escape", "a/b.pdf", `a\b.pdf`} {
		_, err := st.Put(ctx, name, bytes.NewReader(nil))
		gt.Value(t, err).NotNil()
	}
}
