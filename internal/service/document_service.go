package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/config"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/metrics"
	"github.com/medcare-solutions/repair-api/internal/pdf"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Document kinds, used in storage keys and metrics
const (
	DocumentKindQuotation = "quotation"
	DocumentKindInvoice   = "invoice"
)

const (
	pdfContentType  = "application/pdf"
	uploadAttempts  = 3
	uploadBaseDelay = 200 * time.Millisecond
)

// DocumentService renders quotation and invoice PDFs and stores them
type DocumentService struct {
	quotationRepo    *repository.QuotationRepository
	invoiceRepo      *repository.InvoiceRepository
	scopeRepo        *repository.ScopeRepository
	brandRepo        *repository.BrandRepository
	manufacturerRepo *repository.ManufacturerRepository
	companyRepo      *repository.CompanyRepository
	settings         *SettingsService
	renderer         *pdf.Renderer
	storage          storage.Storage
	metrics          *metrics.Metrics
	company          config.CompanyConfig
	logger           *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	quotationRepo *repository.QuotationRepository,
	invoiceRepo *repository.InvoiceRepository,
	scopeRepo *repository.ScopeRepository,
	brandRepo *repository.BrandRepository,
	manufacturerRepo *repository.ManufacturerRepository,
	companyRepo *repository.CompanyRepository,
	settings *SettingsService,
	renderer *pdf.Renderer,
	store storage.Storage,
	m *metrics.Metrics,
	company config.CompanyConfig,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		quotationRepo:    quotationRepo,
		invoiceRepo:      invoiceRepo,
		scopeRepo:        scopeRepo,
		brandRepo:        brandRepo,
		manufacturerRepo: manufacturerRepo,
		companyRepo:      companyRepo,
		settings:         settings,
		renderer:         renderer,
		storage:          store,
		metrics:          m,
		company:          company,
		logger:           logger,
	}
}

// documentContext is everything around a scope that a document prints.
// Any field may be nil when the lookup found nothing.
type documentContext struct {
	scope        *domain.Scope
	brand        *domain.Brand
	manufacturer *domain.Manufacturer
	company      *domain.Company
	settings     *domain.Settings
}

// loadContext fetches the scope's brand, manufacturer, customer and the settings concurrently.
// Lookups that fail are logged and left empty; a document is still produced.
func (s *DocumentService) loadContext(ctx context.Context, scopeID *uuid.UUID) *documentContext {
	dc := &documentContext{}

	if scopeID != nil {
		scope, err := s.scopeRepo.GetByID(ctx, *scopeID)
		if err != nil {
			s.logLookup("scope", err)
		} else {
			dc.scope = scope
			dc.brand = scope.Brand
			dc.manufacturer = scope.Manufacturer
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if dc.scope != nil && dc.brand == nil {
		g.Go(func() error {
			brand, err := s.brandRepo.GetByID(gctx, dc.scope.BrandID)
			if err != nil {
				s.logLookup("brand", err)
				return nil
			}
			dc.brand = brand
			return nil
		})
	}
	if dc.scope != nil && dc.manufacturer == nil {
		g.Go(func() error {
			m, err := s.manufacturerRepo.GetByID(gctx, dc.scope.ManufacturerID)
			if err != nil {
				s.logLookup("manufacturer", err)
				return nil
			}
			dc.manufacturer = m
			return nil
		})
	}
	if dc.scope != nil && dc.scope.Company != "" {
		g.Go(func() error {
			company, err := s.companyRepo.GetByName(gctx, dc.scope.Company)
			if err != nil {
				s.logLookup("company", err)
				return nil
			}
			dc.company = company
			return nil
		})
	}
	g.Go(func() error {
		settings, err := s.settings.Load(gctx)
		if err != nil {
			s.logLookup("settings", err)
			return nil
		}
		dc.settings = settings
		return nil
	})
	// every goroutine swallows its error
	_ = g.Wait()

	return dc
}

func (s *DocumentService) logLookup(what string, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Debug("document lookup found nothing", zap.String("lookup", what))
		return
	}
	s.logger.Warn("document lookup failed", zap.String("lookup", what), zap.Error(err))
}

// customer builds the "To:" party, falling back to the scope's company name
func (dc *documentContext) customer() pdf.Party {
	var party pdf.Party
	if dc.scope != nil {
		party.Name = dc.scope.Company
	}
	if dc.company != nil {
		party.Name = dc.company.Name
		party.Phone = dc.company.PhoneNumber
		party.Address = dc.company.Address
		party.MofNumber = dc.company.MofNumber
	}
	return party
}

// GenerateQuotationPDF renders a quotation, stores it and records the URL
func (s *DocumentService) GenerateQuotationPDF(ctx context.Context, id uuid.UUID) (*domain.GeneratePDFResponse, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	dc := s.loadContext(ctx, quotation.ScopeID)
	data := pdf.QuotationData{
		Number:         quotation.QuotationNumber,
		Date:           quotation.QuotationDate,
		OfferValidity:  quotation.OfferValidity,
		Customer:       dc.customer(),
		DeliveryPeriod: quotation.DeliveryPeriod,
		ServiceType:    quotation.ServiceType,
		Problems:       quotation.Problems,
		Price:          quotation.Price,
		Discount:       quotation.Discount,
		Notes:          quotation.Notes,
	}
	if data.Date == nil {
		data.Date = &quotation.CreatedAt
	}
	if dc.scope != nil {
		data.ScopeName = dc.scope.Name
		data.ModelNumber = dc.scope.ModelNumber
		data.SerialNumber = dc.scope.SerialNumber
		data.ReceivedDate = dc.scope.ReceivedDate
	}
	if dc.brand != nil {
		data.Make = dc.brand.Title
	}

	body, err := s.renderer.RenderQuotation(data)
	if err != nil {
		s.metrics.DocumentGenerated(DocumentKindQuotation, metrics.OutcomeFailed)
		return nil, fmt.Errorf("failed to render quotation pdf: %w", err)
	}

	url, outcome := s.store(ctx, DocumentKindQuotation, quotation.QuotationNumber, body)
	if err := s.quotationRepo.SetPDF(ctx, quotation.ID, url, time.Now().UTC()); err != nil {
		s.metrics.DocumentGenerated(DocumentKindQuotation, metrics.OutcomeFailed)
		return nil, fmt.Errorf("failed to save quotation pdf url: %w", err)
	}
	s.metrics.DocumentGenerated(DocumentKindQuotation, outcome)

	return &domain.GeneratePDFResponse{
		Success: true,
		PDFURL:  url,
		Number:  quotation.QuotationNumber,
		Message: "Quotation PDF generated successfully",
	}, nil
}

// GenerateInvoicePDF renders an invoice, stores it and records the URL
func (s *DocumentService) GenerateInvoicePDF(ctx context.Context, id uuid.UUID) (*domain.GeneratePDFResponse, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	dc := s.loadContext(ctx, &invoice.ScopeID)

	rate := invoice.DollarRate
	mof := s.company.MofNumber
	if dc.settings != nil {
		rate = rateOrDefault(rate, dc.settings.DollarRate)
		if dc.settings.MofNumber != "" {
			mof = dc.settings.MofNumber
		}
	}
	rate = rateOrDefault(rate, s.company.DefaultDollarRate)

	data := pdf.InvoiceData{
		Number:       invoice.InvoiceNumber,
		MofNumber:    mof,
		Date:         invoice.InvoiceDate,
		DueDate:      invoice.DueDate,
		Customer:     dc.customer(),
		ServiceType:  domain.DefaultServiceType,
		UnitPrice:    invoice.UnitPrice,
		TotalPrice:   invoice.TotalPrice,
		Tax:          invoice.Tax,
		TotalDue:     invoice.TotalDue,
		ShowTVAInLBP: invoice.ShowTVAInLBP,
		DollarRate:   rate,
	}
	if dc.scope != nil {
		data.ScopeName = dc.scope.Name
		data.ModelNumber = dc.scope.ModelNumber
		data.SerialNumber = dc.scope.SerialNumber
	}
	if dc.manufacturer != nil {
		data.Manufacturer = dc.manufacturer.CompanyName
	}

	body, err := s.renderer.RenderInvoice(data)
	if err != nil {
		s.metrics.DocumentGenerated(DocumentKindInvoice, metrics.OutcomeFailed)
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}

	url, outcome := s.store(ctx, DocumentKindInvoice, invoice.InvoiceNumber, body)
	if err := s.invoiceRepo.SetPDF(ctx, invoice.ID, url, time.Now().UTC()); err != nil {
		s.metrics.DocumentGenerated(DocumentKindInvoice, metrics.OutcomeFailed)
		return nil, fmt.Errorf("failed to save invoice pdf url: %w", err)
	}
	s.metrics.DocumentGenerated(DocumentKindInvoice, outcome)

	return &domain.GeneratePDFResponse{
		Success: true,
		PDFURL:  url,
		Number:  invoice.InvoiceNumber,
		Message: "Invoice PDF generated successfully",
	}, nil
}

// DocumentKey is the storage key of a generated document
func DocumentKey(kind, number string, at time.Time) string {
	return fmt.Sprintf("%ss/%s-%s-%d.pdf", kind, kind, number, at.UnixMilli())
}

// store uploads the PDF with retries. When every attempt fails the document is
// returned inline as a data URL instead.
func (s *DocumentService) store(ctx context.Context, kind, number string, body []byte) (string, string) {
	key := DocumentKey(kind, number, time.Now())
	opts := storage.PutOptions{
		ContentType:        pdfContentType,
		ContentDisposition: "attachment",
	}

	err := retry.Do(
		func() error {
			_, err := s.storage.Put(ctx, key, bytes.NewReader(body), opts)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uploadAttempts),
		retry.Delay(uploadBaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("document upload failed, retrying",
				zap.String("key", key),
				zap.Uint("attempt", n+1),
				zap.Error(err))
		}),
	)
	if err != nil {
		s.logger.Error("document upload failed, returning inline pdf",
			zap.String("key", key),
			zap.Error(err))
		return "data:" + pdfContentType + ";base64," + base64.StdEncoding.EncodeToString(body), metrics.OutcomeInline
	}

	s.logger.Info("document uploaded",
		zap.String("kind", kind),
		zap.String("number", number),
		zap.String("key", key),
		zap.Int("bytes", len(body)))
	return s.storage.URL(key), metrics.OutcomeUploaded
}
