package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/blog-admin-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDisk_PutAndDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	disk := NewLocalDisk(root)

	require.NoError(t, disk.Put(ctx, "img/blog/1700000000cover.png", strings.NewReader("png")))

	content, err := os.ReadFile(filepath.Join(root, "img", "blog", "1700000000cover.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(content))

	require.NoError(t, disk.Delete(ctx, "img/blog/1700000000cover.png"))
	_, err = os.Stat(filepath.Join(root, "img", "blog", "1700000000cover.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting again is a no-op
	assert.NoError(t, disk.Delete(ctx, "img/blog/1700000000cover.png"))
}

func TestLocalDisk_RejectsEscapingPaths(t *testing.T) {
	disk := NewLocalDisk(t.TempDir())

	for _, path := range []string{"../outside.png", "/etc/passwd", ".", "img/../../x"} {
		err := disk.Put(context.Background(), path, strings.NewReader("x"))
		assert.True(t, errs.IsInvalidFieldError(err), path)
	}
}

type fakeObjectAPI struct {
	puts    []string
	deletes []string
	err     error
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, *in.Bucket+"/"+*in.Key)
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, f.err
}

func TestS3_UsesBucketAndKey(t *testing.T) {
	api := &fakeObjectAPI{}
	store := &S3{client: api, bucket: "media"}

	require.NoError(t, store.Put(context.Background(), "img/blog/a.png", strings.NewReader("a")))
	require.NoError(t, store.Delete(context.Background(), "img/blog/a.png"))

	assert.Equal(t, []string{"media/img/blog/a.png"}, api.puts)
	assert.Equal(t, []string{"media/img/blog/a.png"}, api.deletes)
}

func TestS3_WrapsErrors(t *testing.T) {
	store := &S3{client: &fakeObjectAPI{err: errors.New("AccessDenied")}, bucket: "media"}

	err := store.Put(context.Background(), "img/blog/a.png", strings.NewReader("a"))
	assert.True(t, errs.IsStorageError(err))
}

func TestNew_SelectsDriver(t *testing.T) {
	s, err := New(context.Background(), map[string]string{"STORAGE_ROOT": t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalDisk{}, s)

	_, err = New(context.Background(), map[string]string{"STORAGE_DRIVER": "s3"})
	assert.ErrorIs(t, err, errs.ErrConfigMissing)

	_, err = New(context.Background(), map[string]string{"STORAGE_DRIVER": "ftp"})
	assert.ErrorIs(t, err, errs.ErrConfigInvalid)
}
