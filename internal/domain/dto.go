package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses. Timestamps are ISO 8601 strings.

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// PaginatedResponse wraps list endpoints
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
	HasNext    bool        `json:"hasNext"`
	HasPrev    bool        `json:"hasPrev"`
}

// NewPaginatedResponse fills in the derived paging fields
func NewPaginatedResponse(data interface{}, total int64, page, pageSize int) *PaginatedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

type BrandDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

type ManufacturerDTO struct {
	ID             uuid.UUID `json:"id"`
	CompanyName    string    `json:"companyName"`
	CompanyEmail   string    `json:"companyEmail,omitempty"`
	CompanyPhone   string    `json:"companyPhone,omitempty"`
	Country        string    `json:"country"`
	CountryName    string    `json:"countryName,omitempty"`
	CompanyWebsite string    `json:"companyWebsite,omitempty"`
	CreatedAt      string    `json:"createdAt"`
	UpdatedAt      string    `json:"updatedAt"`
}

type CountryDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type CompanyDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	Email        string    `json:"email,omitempty"`
	Address      string    `json:"address,omitempty"`
	MofNumber    string    `json:"mofNumber,omitempty"`
	ERPReference string    `json:"erpReference,omitempty"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

type PartDTO struct {
	ID           uuid.UUID `json:"id"`
	PartName     string    `json:"partName,omitempty"`
	PartNumber   string    `json:"partNumber"`
	Length       float64   `json:"length,omitempty"`
	Diameter     float64   `json:"diameter,omitempty"`
	Cost         float64   `json:"cost"`
	Price        float64   `json:"price"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	Country      string    `json:"country,omitempty"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

type ScopeDTO struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name,omitempty"`
	Type           ScopeType        `json:"type,omitempty"`
	Model          string           `json:"model"`
	ModelNumber    string           `json:"modelNumber,omitempty"`
	SerialNumber   string           `json:"serialNumber"`
	BrandID        uuid.UUID        `json:"brandId"`
	Brand          *BrandDTO        `json:"brand,omitempty"`
	ManufacturerID uuid.UUID        `json:"manufacturerId"`
	Manufacturer   *ManufacturerDTO `json:"manufacturer,omitempty"`
	Company        string           `json:"company,omitempty"`
	Status         ScopeStatus      `json:"status"`
	Description    string           `json:"description,omitempty"`
	ReceivedDate   string           `json:"receivedDate,omitempty"`
	CreatedByID    *uuid.UUID       `json:"createdBy,omitempty"`
	CreatedAt      string           `json:"createdAt"`
	UpdatedAt      string           `json:"updatedAt"`
}

// ScopeStatsDTO is the scope dashboard summary
type ScopeStatsDTO struct {
	Total    int64                 `json:"total"`
	Recent   int64                 `json:"recent"`
	ByStatus map[ScopeStatus]int64 `json:"byStatus"`
	ByType   map[ScopeType]int64   `json:"byType"`
}

type BulkResultDTO struct {
	Action   string `json:"action"`
	Affected int64  `json:"affected"`
}

type EvaluationDTO struct {
	ID                 uuid.UUID        `json:"id"`
	Code               string           `json:"code"`
	Type               ScopeType        `json:"type"`
	Evaluation         string           `json:"evaluation,omitempty"`
	ScopeID            *uuid.UUID       `json:"scopeId,omitempty"`
	Status             EvaluationStatus `json:"status"`
	EvaluationDate     string           `json:"evaluationDate,omitempty"`
	ProblemsIdentified string           `json:"problemsIdentified"`
	ScopeCode          string           `json:"scopeCode,omitempty"`
	ScopeName          string           `json:"scopeName,omitempty"`
	ModelNumber        string           `json:"modelNumber,omitempty"`
	SerialNumber       string           `json:"serialNumber,omitempty"`
	CreatedAt          string           `json:"createdAt"`
	UpdatedAt          string           `json:"updatedAt"`
}

type QuotationDTO struct {
	ID              uuid.UUID       `json:"id"`
	QuotationNumber string          `json:"quotationNumber"`
	ScopeID         *uuid.UUID      `json:"scopeId,omitempty"`
	Scope           *ScopeDTO       `json:"scope,omitempty"`
	EvaluationID    *uuid.UUID      `json:"evaluationId,omitempty"`
	DeliveryPeriod  int             `json:"deliveryPeriod"`
	OfferValidity   string          `json:"offerValidity,omitempty"`
	QuotationDate   string          `json:"quotationDate,omitempty"`
	Problems        string          `json:"problems,omitempty"`
	ServiceType     string          `json:"serviceType"`
	Price           float64         `json:"price"`
	Discount        float64         `json:"discount"`
	NetPrice        float64         `json:"netPrice"`
	Quantity        int             `json:"quantity"`
	Status          QuotationStatus `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	PDFURL          string          `json:"pdfUrl,omitempty"`
	PDFGeneratedAt  string          `json:"pdfGeneratedAt,omitempty"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

type RepairPartDTO struct {
	ID              uuid.UUID `json:"id"`
	InventoryItemID uuid.UUID `json:"partId"`
	PartName        string    `json:"partName,omitempty"`
	QuantityUsed    int       `json:"quantityUsed"`
	UnitCost        float64   `json:"unitCost"`
	TotalCost       float64   `json:"totalCost"`
}

type RepairDTO struct {
	ID             uuid.UUID       `json:"id"`
	RepairNumber   string          `json:"repairNumber"`
	ScopeID        uuid.UUID       `json:"scopeId"`
	Scope          *ScopeDTO       `json:"scope,omitempty"`
	EvaluationID   *uuid.UUID      `json:"evaluationId,omitempty"`
	QuotationID    *uuid.UUID      `json:"quotationId,omitempty"`
	Status         RepairStatus    `json:"status"`
	PartsUsed      []RepairPartDTO `json:"partsUsed"`
	TotalCost      float64         `json:"totalCost"`
	Notes          string          `json:"notes,omitempty"`
	StartDate      string          `json:"startDate,omitempty"`
	CompletionDate string          `json:"completionDate,omitempty"`
	CreatedByID    *uuid.UUID      `json:"createdBy,omitempty"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

type InventoryItemDTO struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	ScopeType    ScopeType   `json:"scopeType"`
	Length       float64     `json:"length,omitempty"`
	Diameter     float64     `json:"diameter,omitempty"`
	UnitCost     float64     `json:"unitCost"`
	Manufacturer string      `json:"manufacturer,omitempty"`
	Quantity     int         `json:"quantity"`
	ReorderPoint int         `json:"reorderPoint"`
	Status       StockStatus `json:"status"`
	CreatedAt    string      `json:"createdAt"`
	UpdatedAt    string      `json:"updatedAt"`
}

type InvoiceDTO struct {
	ID             uuid.UUID     `json:"id"`
	InvoiceNumber  string        `json:"invoiceNumber"`
	ScopeID        uuid.UUID     `json:"scopeId"`
	Scope          *ScopeDTO     `json:"scope,omitempty"`
	RepairID       *uuid.UUID    `json:"repairId,omitempty"`
	QuotationID    *uuid.UUID    `json:"quotationId,omitempty"`
	InvoiceDate    string        `json:"invoiceDate"`
	DueDate        string        `json:"dueDate,omitempty"`
	UnitPrice      float64       `json:"unitPrice"`
	Quantity       int           `json:"quantity"`
	TotalPrice     float64       `json:"totalPrice"`
	Subtotal       float64       `json:"subtotal"`
	Tax            float64       `json:"tax"`
	TotalDue       float64       `json:"totalDue"`
	DollarRate     float64       `json:"dollarRate"`
	TaxLebanese    float64       `json:"taxLebanese"`
	PaymentTerms   string        `json:"paymentTerms"`
	ShowTVAInLBP   bool          `json:"showTVAInLBP"`
	Status         InvoiceStatus `json:"status"`
	Notes          string        `json:"notes,omitempty"`
	PDFURL         string        `json:"pdfUrl,omitempty"`
	PDFGeneratedAt string        `json:"pdfGeneratedAt,omitempty"`
	CreatedByID    *uuid.UUID    `json:"createdBy,omitempty"`
	CreatedAt      string        `json:"createdAt"`
	UpdatedAt      string        `json:"updatedAt"`
}

type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Role        UserRole  `json:"role"`
	IsActive    bool      `json:"isActive"`
	Phone       string    `json:"phone,omitempty"`
	Department  string    `json:"department,omitempty"`
	LastLoginAt string    `json:"lastLoginAt,omitempty"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"`
	User      UserDTO `json:"user"`
}

type SettingsDTO struct {
	CompanyName  string  `json:"companyName"`
	CompanyPhone string  `json:"companyPhone"`
	CompanyEmail string  `json:"companyEmail"`
	MofNumber    string  `json:"mofNumber"`
	DollarRate   float64 `json:"dollarRate"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}

type MediaDTO struct {
	ID          uuid.UUID `json:"id"`
	Alt         string    `json:"alt"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	CreatedAt   string    `json:"createdAt"`
}

type NotificationDTO struct {
	ID                uuid.UUID        `json:"id"`
	Type              NotificationType `json:"type"`
	Message           string           `json:"message"`
	Read              bool             `json:"read"`
	ReadAt            string           `json:"readAt,omitempty"`
	RelatedCollection string           `json:"relatedCollection,omitempty"`
	RelatedDocument   *uuid.UUID       `json:"relatedDocument,omitempty"`
	CreatedAt         string           `json:"createdAt"`
}

type NotificationListDTO struct {
	Docs        []NotificationDTO `json:"docs"`
	UnreadCount int64             `json:"unreadCount"`
}

type ActivityDTO struct {
	ID         uuid.UUID          `json:"id"`
	TargetType ActivityTargetType `json:"targetType"`
	TargetID   uuid.UUID          `json:"targetId"`
	Title      string             `json:"title"`
	Body       string             `json:"body,omitempty"`
	ActorName  string             `json:"actorName,omitempty"`
	OccurredAt string             `json:"occurredAt"`
}

type AuditLogDTO struct {
	ID         uuid.UUID   `json:"id"`
	UserID     string      `json:"userId,omitempty"`
	UserEmail  string      `json:"userEmail,omitempty"`
	Action     AuditAction `json:"action"`
	EntityType string      `json:"entityType"`
	EntityID   *uuid.UUID  `json:"entityId,omitempty"`
	Method     string      `json:"method"`
	Path       string      `json:"path"`
	StatusCode int         `json:"statusCode"`
	IPAddress  string      `json:"ipAddress,omitempty"`
	RequestID  string      `json:"requestId,omitempty"`
	CreatedAt  string      `json:"createdAt"`
}

// GeneratePDFResponse is returned by the generate-pdf endpoints
type GeneratePDFResponse struct {
	Success bool   `json:"success"`
	PDFURL  string `json:"pdfUrl"`
	Number  string `json:"number"`
	Message string `json:"message"`
}

type NumberSequenceDTO struct {
	Prefix       string `json:"prefix"`
	LastSequence int    `json:"lastSequence"`
	UpdatedAt    string `json:"updatedAt"`
}

type ERPSyncResultDTO struct {
	Fetched int `json:"fetched"`
	Created int `json:"created"`
	Updated int `json:"updated"`
}

type DashboardDTO struct {
	Scopes             ScopeStatsDTO `json:"scopes"`
	OpenRepairs        int64         `json:"openRepairs"`
	PendingQuotations  int64         `json:"pendingQuotations"`
	UnpaidInvoices     int64         `json:"unpaidInvoices"`
	UnpaidInvoiceTotal float64       `json:"unpaidInvoiceTotal"`
	LowStockItems      int64         `json:"lowStockItems"`
}

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Email      string   `json:"email" validate:"required,email,max=255"`
	Password   string   `json:"password" validate:"required,min=8,max=128"`
	FirstName  string   `json:"firstName" validate:"required,max=100"`
	LastName   string   `json:"lastName" validate:"required,max=100"`
	Role       UserRole `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
	Phone      string   `json:"phone,omitempty" validate:"max=50"`
	Department string   `json:"department,omitempty" validate:"max=100"`
}

type UpdateUserRequest struct {
	FirstName  string    `json:"firstName" validate:"required,max=100"`
	LastName   string    `json:"lastName" validate:"required,max=100"`
	Password   string    `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
	Role       *UserRole `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
	IsActive   *bool     `json:"isActive,omitempty"`
	Phone      string    `json:"phone,omitempty" validate:"max=50"`
	Department string    `json:"department,omitempty" validate:"max=100"`
}

type UpdateSettingsRequest struct {
	CompanyName  string  `json:"companyName" validate:"required,max=200"`
	CompanyPhone string  `json:"companyPhone" validate:"required,max=50"`
	CompanyEmail string  `json:"companyEmail" validate:"required,email,max=255"`
	MofNumber    string  `json:"mofNumber" validate:"required,max=50"`
	DollarRate   float64 `json:"dollarRate" validate:"required,gte=1"`
}

type CreateBrandRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description,omitempty"`
}

type UpdateBrandRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description,omitempty"`
}

type CreateManufacturerRequest struct {
	CompanyName    string `json:"companyName" validate:"required,max=200"`
	CompanyEmail   string `json:"companyEmail,omitempty" validate:"omitempty,email,max=255"`
	CompanyPhone   string `json:"companyPhone,omitempty" validate:"max=50"`
	Country        string `json:"country" validate:"required,country"`
	CompanyWebsite string `json:"companyWebsite,omitempty" validate:"omitempty,url,max=500"`
}

type UpdateManufacturerRequest struct {
	CompanyName    string `json:"companyName" validate:"required,max=200"`
	CompanyEmail   string `json:"companyEmail,omitempty" validate:"omitempty,email,max=255"`
	CompanyPhone   string `json:"companyPhone,omitempty" validate:"max=50"`
	Country        string `json:"country" validate:"required,country"`
	CompanyWebsite string `json:"companyWebsite,omitempty" validate:"omitempty,url,max=500"`
}

type CreateCompanyRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"max=50"`
	Email       string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Address     string `json:"address,omitempty" validate:"max=500"`
	MofNumber   string `json:"mofNumber,omitempty" validate:"max=50"`
}

type UpdateCompanyRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"max=50"`
	Email       string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Address     string `json:"address,omitempty" validate:"max=500"`
	MofNumber   string `json:"mofNumber,omitempty" validate:"max=50"`
}

type CreatePartRequest struct {
	PartName     string  `json:"partName,omitempty" validate:"max=200"`
	PartNumber   string  `json:"partNumber" validate:"required,max=100"`
	Length       float64 `json:"length,omitempty" validate:"gte=0"`
	Diameter     float64 `json:"diameter,omitempty" validate:"gte=0"`
	Cost         float64 `json:"cost,omitempty" validate:"gte=0"`
	Price        float64 `json:"price,omitempty" validate:"gte=0"`
	Manufacturer string  `json:"manufacturer,omitempty" validate:"max=200"`
	Country      string  `json:"country,omitempty" validate:"max=100"`
}

type UpdatePartRequest = CreatePartRequest

type CreateScopeRequest struct {
	Name           string      `json:"name,omitempty" validate:"max=200"`
	Type           ScopeType   `json:"type,omitempty" validate:"omitempty,oneof=rigid flexible"`
	Model          string      `json:"model" validate:"required,max=200"`
	ModelNumber    string      `json:"modelNumber,omitempty" validate:"max=100"`
	SerialNumber   string      `json:"serialNumber" validate:"required,max=100"`
	BrandID        uuid.UUID   `json:"brandId" validate:"required"`
	ManufacturerID uuid.UUID   `json:"manufacturerId" validate:"required"`
	Company        string      `json:"company,omitempty" validate:"max=200"`
	Status         ScopeStatus `json:"status,omitempty" validate:"omitempty,oneof=pending evaluated approved denied completed"`
	Description    string      `json:"description,omitempty"`
	ReceivedDate   *time.Time  `json:"receivedDate,omitempty"`
}

type UpdateScopeRequest struct {
	Name           string      `json:"name,omitempty" validate:"max=200"`
	Type           ScopeType   `json:"type,omitempty" validate:"omitempty,oneof=rigid flexible"`
	Model          string      `json:"model" validate:"required,max=200"`
	ModelNumber    string      `json:"modelNumber,omitempty" validate:"max=100"`
	SerialNumber   string      `json:"serialNumber" validate:"required,max=100"`
	BrandID        uuid.UUID   `json:"brandId" validate:"required"`
	ManufacturerID uuid.UUID   `json:"manufacturerId" validate:"required"`
	Company        string      `json:"company,omitempty" validate:"max=200"`
	Status         ScopeStatus `json:"status" validate:"required,oneof=pending evaluated approved denied completed"`
	Description    string      `json:"description,omitempty"`
	ReceivedDate   *time.Time  `json:"receivedDate,omitempty"`
}

// Bulk scope actions
const (
	BulkActionDelete       = "delete"
	BulkActionUpdate       = "update"
	BulkActionUpdateStatus = "updateStatus"
)

type BulkScopeRequest struct {
	Action string         `json:"action"`
	IDs    []uuid.UUID    `json:"ids"`
	Data   *BulkScopeData `json:"data,omitempty"`
}

type BulkScopeData struct {
	Status  *ScopeStatus `json:"status,omitempty"`
	Type    *ScopeType   `json:"type,omitempty"`
	Company *string      `json:"company,omitempty"`
}

type CreateEvaluationRequest struct {
	Type               ScopeType        `json:"type" validate:"required,oneof=rigid flexible"`
	Evaluation         string           `json:"evaluation,omitempty"`
	ScopeID            *uuid.UUID       `json:"scopeId,omitempty"`
	Status             EvaluationStatus `json:"status,omitempty" validate:"omitempty,oneof=pending completed"`
	EvaluationDate     *time.Time       `json:"evaluationDate,omitempty"`
	ProblemsIdentified string           `json:"problemsIdentified,omitempty"`
}

type UpdateEvaluationRequest struct {
	Type               ScopeType        `json:"type" validate:"required,oneof=rigid flexible"`
	Evaluation         string           `json:"evaluation,omitempty"`
	Status             EvaluationStatus `json:"status" validate:"required,oneof=pending completed"`
	EvaluationDate     *time.Time       `json:"evaluationDate,omitempty"`
	ProblemsIdentified string           `json:"problemsIdentified,omitempty"`
}

type CreateQuotationRequest struct {
	ScopeID        *uuid.UUID `json:"scopeId,omitempty"`
	EvaluationID   *uuid.UUID `json:"evaluationId,omitempty"`
	DeliveryPeriod int        `json:"deliveryPeriod,omitempty" validate:"gte=0"`
	OfferValidity  *time.Time `json:"offerValidity,omitempty"`
	QuotationDate  *time.Time `json:"quotationDate,omitempty"`
	Problems       string     `json:"problems,omitempty"`
	ServiceType    string     `json:"serviceType,omitempty" validate:"max=100"`
	Price          float64    `json:"price" validate:"gte=0"`
	Discount       float64    `json:"discount,omitempty" validate:"gte=0"`
	Quantity       int        `json:"quantity,omitempty" validate:"gte=0"`
	Notes          string     `json:"notes,omitempty"`
}

type UpdateQuotationRequest struct {
	DeliveryPeriod int             `json:"deliveryPeriod,omitempty" validate:"gte=0"`
	OfferValidity  *time.Time      `json:"offerValidity,omitempty"`
	QuotationDate  *time.Time      `json:"quotationDate,omitempty"`
	Problems       string          `json:"problems,omitempty"`
	ServiceType    string          `json:"serviceType,omitempty" validate:"max=100"`
	Price          float64         `json:"price" validate:"gte=0"`
	Discount       float64         `json:"discount,omitempty" validate:"gte=0"`
	Quantity       int             `json:"quantity,omitempty" validate:"gte=0"`
	Status         QuotationStatus `json:"status" validate:"required,oneof=pending approved rejected"`
	Notes          string          `json:"notes,omitempty"`
}

type RepairPartRequest struct {
	PartID       uuid.UUID `json:"partId" validate:"required"`
	QuantityUsed int       `json:"quantityUsed" validate:"required,gte=1"`
}

type CreateRepairRequest struct {
	ScopeID      uuid.UUID           `json:"scopeId" validate:"required"`
	EvaluationID *uuid.UUID          `json:"evaluationId,omitempty"`
	QuotationID  *uuid.UUID          `json:"quotationId,omitempty"`
	Status       RepairStatus        `json:"status,omitempty" validate:"omitempty,oneof=pending done notDone"`
	PartsUsed    []RepairPartRequest `json:"partsUsed,omitempty" validate:"dive"`
	Notes        string              `json:"notes,omitempty"`
	StartDate    *time.Time          `json:"startDate,omitempty"`
}

type UpdateRepairRequest struct {
	Status         RepairStatus        `json:"status" validate:"required,oneof=pending done notDone"`
	PartsUsed      []RepairPartRequest `json:"partsUsed,omitempty" validate:"dive"`
	Notes          string              `json:"notes,omitempty"`
	StartDate      *time.Time          `json:"startDate,omitempty"`
	CompletionDate *time.Time          `json:"completionDate,omitempty"`
}

type CreateInventoryItemRequest struct {
	Name         string    `json:"name" validate:"required,max=200"`
	ScopeType    ScopeType `json:"scopeType" validate:"required,oneof=rigid flexible"`
	Length       float64   `json:"length,omitempty" validate:"gte=0"`
	Diameter     float64   `json:"diameter,omitempty" validate:"gte=0"`
	UnitCost     float64   `json:"unitCost,omitempty" validate:"gte=0"`
	Manufacturer string    `json:"manufacturer,omitempty" validate:"max=200"`
	Quantity     int       `json:"quantity,omitempty" validate:"gte=0"`
	ReorderPoint *int      `json:"reorderPoint,omitempty" validate:"omitempty,gte=0"`
}

type UpdateInventoryItemRequest = CreateInventoryItemRequest

type AdjustStockRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

type CreateInvoiceRequest struct {
	ScopeID      uuid.UUID      `json:"scopeId" validate:"required"`
	RepairID     *uuid.UUID     `json:"repairId,omitempty"`
	QuotationID  *uuid.UUID     `json:"quotationId,omitempty"`
	InvoiceDate  *time.Time     `json:"invoiceDate,omitempty"`
	DueDate      *time.Time     `json:"dueDate,omitempty"`
	UnitPrice    float64        `json:"unitPrice" validate:"gte=0"`
	Quantity     int            `json:"quantity,omitempty" validate:"gte=0"`
	PaymentTerms string         `json:"paymentTerms,omitempty" validate:"max=100"`
	ShowTVAInLBP bool           `json:"showTVAInLBP,omitempty"`
	Status       *InvoiceStatus `json:"status,omitempty" validate:"omitempty,oneof=draft sent paid overdue cancelled"`
	Notes        string         `json:"notes,omitempty"`
}

type UpdateInvoiceRequest struct {
	InvoiceDate  *time.Time    `json:"invoiceDate,omitempty"`
	DueDate      *time.Time    `json:"dueDate,omitempty"`
	UnitPrice    float64       `json:"unitPrice" validate:"gte=0"`
	Quantity     int           `json:"quantity,omitempty" validate:"gte=0"`
	PaymentTerms string        `json:"paymentTerms,omitempty" validate:"max=100"`
	ShowTVAInLBP bool          `json:"showTVAInLBP,omitempty"`
	Status       InvoiceStatus `json:"status" validate:"required,oneof=draft sent paid overdue cancelled"`
	Notes        string        `json:"notes,omitempty"`
}

type CreateNotificationRequest struct {
	UserID            uuid.UUID        `json:"userId" validate:"required"`
	Type              NotificationType `json:"type,omitempty" validate:"omitempty,oneof=info success warning error"`
	Message           string           `json:"message" validate:"required,max=1000"`
	RelatedCollection string           `json:"relatedCollection,omitempty" validate:"max=50"`
	RelatedDocument   *uuid.UUID       `json:"relatedDocument,omitempty"`
}
