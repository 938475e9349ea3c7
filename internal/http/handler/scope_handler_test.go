package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/medcare-solutions/repair-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newScopeHandler(db *gorm.DB) *ScopeHandler {
	logger := zap.NewNop()
	scopeRepo := repository.NewScopeRepository(db)
	activity := service.NewActivityService(repository.NewActivityRepository(db), logger)
	svc := service.NewScopeService(scopeRepo,
		repository.NewBrandRepository(db),
		repository.NewManufacturerRepository(db),
		activity, logger)
	return NewScopeHandler(svc, logger)
}

func TestScopeHandler_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newScopeHandler(db)
	brand := testutil.CreateTestBrand(t, db, "Olympus")
	maker := testutil.CreateTestManufacturer(t, db, "Olympus Medical")

	valid := domain.CreateScopeRequest{
		Name:           "Gastroscope",
		Type:           domain.ScopeTypeFlexible,
		Model:          "GIF-H190",
		SerialNumber:   "SN-1001",
		BrandID:        brand.ID,
		ManufacturerID: maker.ID,
	}

	t.Run("created with location", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Create(rr, newRequest(t, http.MethodPost, "/scopes", valid, nil))

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var dto domain.ScopeDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
		assert.Equal(t, "SN-1001", dto.SerialNumber)
		assert.Equal(t, domain.ScopeStatusPending, dto.Status)
		assert.Equal(t, APIPrefix+"/scopes/"+dto.ID.String(), rr.Header().Get("Location"))
	})

	t.Run("duplicate serial is a conflict", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Create(rr, newRequest(t, http.MethodPost, "/scopes", valid, nil))

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, domain.ErrorTypeConflict, decodeAPIError(t, rr).Type)
	})

	t.Run("unknown brand is a bad request", func(t *testing.T) {
		req := valid
		req.SerialNumber = "SN-1002"
		req.BrandID = uuid.New()

		rr := httptest.NewRecorder()
		h.Create(rr, newRequest(t, http.MethodPost, "/scopes", req, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Create(rr, newRequest(t, http.MethodPost, "/scopes", map[string]string{"name": "x"}, nil))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		apiErr := decodeAPIError(t, rr)
		assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
		assert.Contains(t, apiErr.Errors, "model")
		assert.Contains(t, apiErr.Errors, "serialNumber")
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Create(rr, newRequest(t, http.MethodPost, "/scopes", "{not json", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid request body", decodeAPIError(t, rr).Detail)
	})
}

func TestScopeHandler_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newScopeHandler(db)
	scope := testutil.CreateTestScope(t, db, "SN-2001")

	t.Run("found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.GetByID(rr, newRequest(t, http.MethodGet, "/scopes/"+scope.ID.String(), nil,
			map[string]string{"id": scope.ID.String()}))

		require.Equal(t, http.StatusOK, rr.Code)
		var dto domain.ScopeDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
		assert.Equal(t, scope.ID, dto.ID)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		rr := httptest.NewRecorder()
		h.GetByID(rr, newRequest(t, http.MethodGet, "/scopes/"+id, nil, map[string]string{"id": id}))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.GetByID(rr, newRequest(t, http.MethodGet, "/scopes/nope", nil, map[string]string{"id": "nope"}))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid scope ID format", decodeAPIError(t, rr).Detail)
	})
}

func TestScopeHandler_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newScopeHandler(db)
	testutil.CreateTestScope(t, db, "SN-3001")
	testutil.CreateTestScope(t, db, "SN-3002")
	approved := testutil.CreateTestScope(t, db, "SN-3003")
	require.NoError(t, db.Model(approved).Update("status", domain.ScopeStatusApproved).Error)

	t.Run("paged", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.List(rr, newRequest(t, http.MethodGet, "/scopes?page=1&limit=2&sort=-serialNumber", nil, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var page domain.PaginatedResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, 2, page.PageSize)
		assert.Equal(t, 2, page.TotalPages)
		assert.True(t, page.HasNext)
	})

	t.Run("status filter", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.List(rr, newRequest(t, http.MethodGet, "/scopes?status=approved", nil, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var page domain.PaginatedResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("search", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.List(rr, newRequest(t, http.MethodGet, "/scopes?search=sn-3002", nil, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var page domain.PaginatedResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
		assert.Equal(t, int64(1), page.Total)
	})
}

func TestScopeHandler_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newScopeHandler(db)
	scope := testutil.CreateTestScope(t, db, "SN-4001")
	testutil.CreateTestQuotation(t, db, scope, "Q0001", domain.QuotationStatusPending)
	params := map[string]string{"id": scope.ID.String()}

	t.Run("blocked by related records", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Delete(rr, newRequest(t, http.MethodDelete, "/scopes/"+scope.ID.String(), nil, params))

		require.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, decodeAPIError(t, rr).Detail, "quotations (1)")
	})

	t.Run("cascade", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Delete(rr, newRequest(t, http.MethodDelete, "/scopes/"+scope.ID.String()+"?cascade=true", nil, params))

		require.Equal(t, http.StatusNoContent, rr.Code)

		var count int64
		require.NoError(t, db.Model(&domain.Quotation{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}
