package service_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/pdf"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/medcare-solutions/repair-api/internal/storage"
	"github.com/medcare-solutions/repair-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// brokenStorage fails every write
type brokenStorage struct {
	puts int
}

func (b *brokenStorage) Put(context.Context, string, io.Reader, storage.PutOptions) (int64, error) {
	b.puts++
	return 0, errors.New("bucket unavailable")
}

func (b *brokenStorage) Download(context.Context, string) (io.ReadCloser, error) {
	return nil, storage.ErrObjectNotFound
}

func (b *brokenStorage) Delete(context.Context, string) error { return nil }

func (b *brokenStorage) URL(key string) string { return "https://broken.example/" + key }

func newDocumentService(env *testEnv, store storage.Storage) *service.DocumentService {
	db := env.db
	return service.NewDocumentService(
		repository.NewQuotationRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewScopeRepository(db),
		repository.NewBrandRepository(db),
		repository.NewManufacturerRepository(db),
		repository.NewCompanyRepository(db),
		env.settings,
		pdf.NewRenderer(pdf.Letterhead{Name: "MedCare Solutions", Phone: "+961 5 000 000"}),
		store,
		nil,
		testCompanyConfig(),
		zap.NewNop(),
	)
}

func TestDocumentService_GenerateQuotationPDF(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "/api/files")
	require.NoError(t, err)
	docs := newDocumentService(env, store)

	scope := testutil.CreateTestScope(t, env.db, "SN-2000")
	testutil.CreateTestCompany(t, env.db, "Hotel Dieu")
	quotation, err := env.quotations.Create(ctx, &domain.CreateQuotationRequest{ScopeID: &scope.ID, Price: 950, Problems: "Broken angulation wire"})
	require.NoError(t, err)

	resp, err := docs.GenerateQuotationPDF(ctx, quotation.ID)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, quotation.QuotationNumber, resp.Number)
	assert.True(t, strings.HasPrefix(resp.PDFURL, "/api/files/quotations/quotation-"+quotation.QuotationNumber+"-"), resp.PDFURL)

	key := strings.TrimPrefix(resp.PDFURL, "/api/files/")
	body, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	stored, err := env.quotations.GetByID(ctx, quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.PDFURL, stored.PDFURL)
}

func TestDocumentService_GenerateInvoicePDFFallsBackInline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	store := &brokenStorage{}
	docs := newDocumentService(env, store)

	scope := testutil.CreateTestScope(t, env.db, "SN-2001")
	invoice, err := env.invoices.Create(ctx, &domain.CreateInvoiceRequest{ScopeID: scope.ID, UnitPrice: 300, ShowTVAInLBP: true})
	require.NoError(t, err)

	resp, err := docs.GenerateInvoicePDF(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, store.puts)

	const prefix = "data:application/pdf;base64,"
	require.True(t, strings.HasPrefix(resp.PDFURL, prefix))
	body, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(resp.PDFURL, prefix))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestDocumentService_NotFound(t *testing.T) {
	env := newTestEnv(t)
	docs := newDocumentService(env, &brokenStorage{})

	_, err := docs.GenerateQuotationPDF(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrQuotationNotFound)
	_, err = docs.GenerateInvoicePDF(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrInvoiceNotFound)
}

func TestDocumentKey(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "invoices/invoice-SA1-0004-1700000000123.pdf", service.DocumentKey(service.DocumentKindInvoice, "SA1-0004", at))
}
