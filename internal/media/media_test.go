package media

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUploader_Upload(t *testing.T) {
	dir := t.TempDir()
	uploader := NewLocalUploader(dir, "http://localhost:8080/uploads/")

	url, err := uploader.Upload(context.Background(), "avatars", "Me.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/avatars/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	key := strings.TrimPrefix(url, "http://localhost:8080/uploads/")
	content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))
}

func TestLocalUploader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalUploader(t.TempDir(), "").Upload(ctx, "dishes", "a.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingPutter struct {
	input *s3.PutObjectInput
	body  string
}

func (p *recordingPutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	p.input = params
	b, _ := io.ReadAll(params.Body)
	p.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	putter := &recordingPutter{}
	uploader := &S3Uploader{client: putter, bucket: "chef-media", baseURL: "https://cdn.test"}

	url, err := uploader.Upload(context.Background(), "covers", "cover.jpg", strings.NewReader("jpeg"))
	require.NoError(t, err)

	assert.Equal(t, "chef-media", *putter.input.Bucket)
	assert.Equal(t, "image/jpeg", *putter.input.ContentType)
	assert.Equal(t, "jpeg", putter.body)
	assert.Equal(t, "https://cdn.test/"+*putter.input.Key, url)
	assert.True(t, strings.HasPrefix(*putter.input.Key, "covers/"))
}
