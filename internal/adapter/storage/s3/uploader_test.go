package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	"hookharbor/config"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	lastInput *awss3.PutObjectInput
	err       error
}

func (f *fakeS3) PutObject(_ context.Context, params *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &awss3.PutObjectOutput{}, nil
}

func TestUploader_Put(t *testing.T) {
	fake := &fakeS3{}
	up := NewUploader(fake, config.S3Config{
		Bucket:    "hookharbor-assets",
		PublicURL: "https://cdn.example.com/",
	})

	url, err := up.Put(context.Background(), "uploads/logo.png", "image/png", []byte{0x89, 0x50})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/logo.png", url)

	require.NotNil(t, fake.lastInput)
	assert.Equal(t, "hookharbor-assets", *fake.lastInput.Bucket)
	assert.Equal(t, "uploads/logo.png", *fake.lastInput.Key)
	assert.Equal(t, "image/png", *fake.lastInput.ContentType)

	body, err := io.ReadAll(fake.lastInput.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50}, body)
}

func TestUploader_Put_Error(t *testing.T) {
	fake := &fakeS3{err: errors.New("access denied")}
	up := NewUploader(fake, config.S3Config{Bucket: "b", PublicURL: "https://cdn.example.com"})

	url, err := up.Put(context.Background(), "uploads/x", "text/plain", []byte("x"))
	assert.Error(t, err)
	assert.Empty(t, url)
}
