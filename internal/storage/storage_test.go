package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/medcare-solutions/repair-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorage_PutDownloadDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "/api/v1/files/")
	require.NoError(t, err)

	n, err := s.Put(ctx, "quotations/quotation-Q0001-1700000000000.pdf", strings.NewReader("%PDF-1.3"), PutOptions{ContentType: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)

	rc, err := s.Download(ctx, "quotations/quotation-Q0001-1700000000000.pdf")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(body))

	assert.Equal(t, "/api/v1/files/quotations/quotation-Q0001-1700000000000.pdf", s.URL("quotations/quotation-Q0001-1700000000000.pdf"))

	require.NoError(t, s.Delete(ctx, "quotations/quotation-Q0001-1700000000000.pdf"))
	require.NoError(t, s.Delete(ctx, "quotations/quotation-Q0001-1700000000000.pdf"), "deleting twice is not an error")

	_, err = s.Download(ctx, "quotations/quotation-Q0001-1700000000000.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = s.Download(context.Background(), "../../etc/passwd")
	assert.Error(t, err)

	_, err = s.Put(context.Background(), "", strings.NewReader("x"), PutOptions{})
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"invoices/a.pdf", "invoices/a.pdf", false},
		{"/invoices/a.pdf", "invoices/a.pdf", false},
		{"invoices/../media/a.png", "media/a.png", false},
		{"..", "", true},
		{"", "", true},
		{`media\photo.png`, "media/photo.png", false},
	}
	for _, tt := range tests {
		got, err := cleanKey(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewObjectKey(t *testing.T) {
	key := NewObjectKey("media", "Scope Photo.JPG")
	assert.True(t, strings.HasPrefix(key, "media/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, NewObjectKey("media", "Scope Photo.JPG"))
}

type fakeS3 struct {
	objects map[string][]byte
	puts    []*s3.PutObjectInput
	failPut error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage_PutSetsHeaders(t *testing.T) {
	fake := newFakeS3()
	s := NewS3StorageWithClient(fake, &config.S3Config{Bucket: "docs", Region: "eu-west-1"}, zap.NewNop())

	n, err := s.Put(context.Background(), "invoices/invoice-SA1-0001-1.pdf", strings.NewReader("pdf"), PutOptions{
		ContentType:        "application/pdf",
		ContentDisposition: "attachment",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.Len(t, fake.puts, 1)
	put := fake.puts[0]
	assert.Equal(t, "docs", *put.Bucket)
	assert.Equal(t, "application/pdf", *put.ContentType)
	assert.Equal(t, "attachment", *put.ContentDisposition)

	rc, err := s.Download(context.Background(), "invoices/invoice-SA1-0001-1.pdf")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "pdf", string(body))

	_, err = s.Download(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestS3Storage_PutError(t *testing.T) {
	fake := newFakeS3()
	fake.failPut = errors.New("boom")
	s := NewS3StorageWithClient(fake, &config.S3Config{Bucket: "docs", Region: "eu-west-1"}, zap.NewNop())

	_, err := s.Put(context.Background(), "a.pdf", strings.NewReader("pdf"), PutOptions{})
	assert.Error(t, err)
}

func TestS3Storage_URL(t *testing.T) {
	aws := NewS3StorageWithClient(newFakeS3(), &config.S3Config{Bucket: "medcare-docs", Region: "me-south-1"}, zap.NewNop())
	assert.Equal(t, "https://medcare-docs.s3.me-south-1.amazonaws.com/invoices/x.pdf", aws.URL("invoices/x.pdf"))

	minio := NewS3StorageWithClient(newFakeS3(), &config.S3Config{Bucket: "medcare-docs", Region: "us-east-1", Endpoint: "http://minio:9000/"}, zap.NewNop())
	assert.Equal(t, "http://minio:9000/medcare-docs/invoices/x.pdf", minio.URL("invoices/x.pdf"))
}
