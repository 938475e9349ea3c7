package service_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/medcare-solutions/repair-api/internal/storage"
	"github.com/medcare-solutions/repair-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMediaService_UploadDownloadDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store, err := storage.NewLocalStorage(t.TempDir(), "/api/files")
	require.NoError(t, err)
	svc := service.NewMediaService(repository.NewMediaRepository(db), store, zap.NewNop())
	ctx := context.Background()

	dto, err := svc.Upload(ctx, "Company logo", "logo.PNG", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "logo.PNG", dto.Filename)
	assert.Equal(t, int64(len("png-bytes")), dto.Size)
	assert.True(t, strings.HasPrefix(dto.URL, "/api/files/media/"), dto.URL)

	list, err := svc.List(ctx, 1, 10, "logo")
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	rc, filename, contentType, err := svc.Download(ctx, dto.ID)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, "logo.PNG", filename)
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, svc.Delete(ctx, dto.ID))
	_, err = svc.GetByID(ctx, dto.ID)
	assert.ErrorIs(t, err, service.ErrMediaNotFound)
}
