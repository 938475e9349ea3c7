package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"go.uber.org/zap"
)

// AzureBlobStorage implements Storage interface for Azure Blob Storage
type AzureBlobStorage struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewAzureBlobStorage creates a new Azure Blob Storage instance
func NewAzureBlobStorage(ctx context.Context, connectionString, containerName string, logger *zap.Logger) (*AzureBlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	// Ensure container exists
	_, err = client.CreateContainer(ctx, containerName, nil)
	if err != nil && !strings.Contains(err.Error(), "ContainerAlreadyExists") {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	logger.Info("Azure Blob Storage initialized",
		zap.String("container", containerName),
	)

	return &AzureBlobStorage{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// Put uploads an object to Azure Blob Storage under key
func (s *AzureBlobStorage) Put(ctx context.Context, key string, data io.Reader, opts PutOptions) (int64, error) {
	key, err := cleanKey(key)
	if err != nil {
		return 0, err
	}

	headers := &blob.HTTPHeaders{}
	if opts.ContentType != "" {
		headers.BlobContentType = &opts.ContentType
	}
	if opts.ContentDisposition != "" {
		headers.BlobContentDisposition = &opts.ContentDisposition
	}

	// Wrap data in counting reader to track size
	reader := &countingReader{r: data}

	_, err = s.client.UploadStream(ctx, s.containerName, key, reader, &azblob.UploadStreamOptions{
		HTTPHeaders: headers,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upload blob: %w", err)
	}

	s.logger.Info("object uploaded to Azure Blob Storage",
		zap.String("blobName", key),
		zap.String("container", s.containerName),
		zap.String("contentType", opts.ContentType),
		zap.Int64("size", reader.count),
	)

	return reader.count, nil
}

// countingReader wraps an io.Reader and counts the number of bytes read
type countingReader struct {
	r     io.Reader
	count int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.count += int64(n)
	return n, err
}

// Download downloads a file from Azure Blob Storage
func (s *AzureBlobStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.containerName, key, nil)
	if err != nil {
		if strings.Contains(err.Error(), "BlobNotFound") {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}

	return resp.Body, nil
}

// Delete deletes a file from Azure Blob Storage
func (s *AzureBlobStorage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteBlob(ctx, s.containerName, key, nil)
	if err != nil {
		// Check if blob doesn't exist (already deleted)
		if strings.Contains(err.Error(), "BlobNotFound") {
			s.logger.Debug("Blob already deleted or not found",
				zap.String("blobName", key),
				zap.String("container", s.containerName),
			)
			return nil
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	s.logger.Info("object deleted from Azure Blob Storage",
		zap.String("blobName", key),
		zap.String("container", s.containerName),
	)

	return nil
}

// URL returns the blob URL
func (s *AzureBlobStorage) URL(key string) string {
	return strings.TrimSuffix(s.client.URL(), "/") + "/" + s.containerName + "/" + strings.TrimPrefix(key, "/")
}
