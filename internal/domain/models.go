package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns a UUID when the caller did not set one
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ScopeType distinguishes rigid and flexible endoscopes
type ScopeType string

const (
	ScopeTypeRigid    ScopeType = "rigid"
	ScopeTypeFlexible ScopeType = "flexible"
)

// ScopeStatus tracks where a scope is in the repair workflow
type ScopeStatus string

const (
	ScopeStatusPending   ScopeStatus = "pending"
	ScopeStatusEvaluated ScopeStatus = "evaluated"
	ScopeStatusApproved  ScopeStatus = "approved"
	ScopeStatusDenied    ScopeStatus = "denied"
	ScopeStatusCompleted ScopeStatus = "completed"
)

// AllScopeStatuses lists every scope status in workflow order
var AllScopeStatuses = []ScopeStatus{
	ScopeStatusPending,
	ScopeStatusEvaluated,
	ScopeStatusApproved,
	ScopeStatusDenied,
	ScopeStatusCompleted,
}

// Brand is an equipment brand (Olympus, Storz, ...)
type Brand struct {
	BaseModel
	Title       string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// Manufacturer is the maker of a scope
type Manufacturer struct {
	BaseModel
	CompanyName    string `gorm:"type:varchar(200);not null;column:company_name"`
	CompanyEmail   string `gorm:"type:varchar(255);column:company_email"`
	CompanyPhone   string `gorm:"type:varchar(50);column:company_phone"`
	Country        string `gorm:"type:varchar(2);not null"`
	CompanyWebsite string `gorm:"type:varchar(500);column:company_website"`
}

// Company is a customer (hospital, clinic) that sends equipment in for repair
type Company struct {
	BaseModel
	Name         string `gorm:"type:varchar(200);not null;index"`
	PhoneNumber  string `gorm:"type:varchar(50);column:phone_number"`
	Email        string `gorm:"type:varchar(255)"`
	Address      string `gorm:"type:varchar(500)"`
	MofNumber    string `gorm:"type:varchar(50);column:mof_number"`
	ERPReference string `gorm:"type:varchar(100);column:erp_reference;index"`
}

// Part is a catalog spare part
type Part struct {
	BaseModel
	PartName     string  `gorm:"type:varchar(200);column:part_name"`
	PartNumber   string  `gorm:"type:varchar(100);not null;column:part_number;index"`
	Length       float64 `gorm:"type:decimal(10,2)"`
	Diameter     float64 `gorm:"type:decimal(10,2)"`
	Cost         float64 `gorm:"type:decimal(12,2)"`
	Price        float64 `gorm:"type:decimal(12,2)"`
	Manufacturer string  `gorm:"type:varchar(200)"`
	Country      string  `gorm:"type:varchar(100)"`
}

// Scope is a piece of equipment received for repair
type Scope struct {
	BaseModel
	Name           string        `gorm:"type:varchar(200)"`
	Type           ScopeType     `gorm:"type:varchar(20);index"`
	Model          string        `gorm:"type:varchar(200);not null"`
	ModelNumber    string        `gorm:"type:varchar(100);column:model_number"`
	SerialNumber   string        `gorm:"type:varchar(100);not null;uniqueIndex;column:serial_number"`
	BrandID        uuid.UUID     `gorm:"type:uuid;not null;index;column:brand_id"`
	Brand          *Brand        `gorm:"foreignKey:BrandID"`
	ManufacturerID uuid.UUID     `gorm:"type:uuid;not null;index;column:manufacturer_id"`
	Manufacturer   *Manufacturer `gorm:"foreignKey:ManufacturerID"`
	Company        string        `gorm:"type:varchar(200)"`
	Status         ScopeStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	Description    string        `gorm:"type:text"`
	ReceivedDate   *time.Time    `gorm:"column:received_date"`
	CreatedByID    *uuid.UUID    `gorm:"type:uuid;column:created_by_id"`
}

// EvaluationStatus tracks technician evaluation progress
type EvaluationStatus string

const (
	EvaluationStatusPending   EvaluationStatus = "pending"
	EvaluationStatusCompleted EvaluationStatus = "completed"
)

// DefaultProblemsIdentified is used until the technician fills in findings
const DefaultProblemsIdentified = "To be determined"

// Evaluation records a technician's inspection of a scope
type Evaluation struct {
	BaseModel
	Code               string           `gorm:"type:varchar(20);not null;uniqueIndex"`
	Type               ScopeType        `gorm:"type:varchar(20);not null"`
	Findings           string           `gorm:"type:text;column:evaluation"`
	ScopeID            *uuid.UUID       `gorm:"type:uuid;index;column:scope_id"`
	Scope              *Scope           `gorm:"foreignKey:ScopeID"`
	Status             EvaluationStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	EvaluationDate     *time.Time       `gorm:"column:evaluation_date"`
	ProblemsIdentified string           `gorm:"type:text;column:problems_identified"`
	ScopeCode          string           `gorm:"type:varchar(200);column:scope_code"`
	ScopeName          string           `gorm:"type:varchar(200);column:scope_name"`
	ModelNumber        string           `gorm:"type:varchar(100);column:model_number"`
	SerialNumber       string           `gorm:"type:varchar(100);column:serial_number"`
	CreatedByID        *uuid.UUID       `gorm:"type:uuid;column:created_by_id"`
}

// QuotationStatus is the customer's decision on a quotation
type QuotationStatus string

const (
	QuotationStatusPending  QuotationStatus = "pending"
	QuotationStatusApproved QuotationStatus = "approved"
	QuotationStatusRejected QuotationStatus = "rejected"
)

// DefaultServiceType is the service line printed when none is given
const DefaultServiceType = "repair"

// Quotation is a priced repair offer sent to the customer
type Quotation struct {
	BaseModel
	QuotationNumber string          `gorm:"type:varchar(20);not null;uniqueIndex;column:quotation_number"`
	ScopeID         *uuid.UUID      `gorm:"type:uuid;index;column:scope_id"`
	Scope           *Scope          `gorm:"foreignKey:ScopeID"`
	EvaluationID    *uuid.UUID      `gorm:"type:uuid;index;column:evaluation_id"`
	Evaluation      *Evaluation     `gorm:"foreignKey:EvaluationID"`
	DeliveryPeriod  int             `gorm:"column:delivery_period"`
	OfferValidity   *time.Time      `gorm:"column:offer_validity"`
	QuotationDate   *time.Time      `gorm:"column:quotation_date"`
	Problems        string          `gorm:"type:text"`
	ServiceType     string          `gorm:"type:varchar(100);column:service_type"`
	Price           float64         `gorm:"type:decimal(12,2);not null;default:0"`
	Discount        float64         `gorm:"type:decimal(12,2);not null;default:0"`
	Quantity        int             `gorm:"not null;default:1"`
	Status          QuotationStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes           string          `gorm:"type:text"`
	PDFURL          string          `gorm:"type:text;column:pdf_url"`
	PDFGeneratedAt  *time.Time      `gorm:"column:pdf_generated_at"`
	CreatedByID     *uuid.UUID      `gorm:"type:uuid;column:created_by_id"`
}

// NetPrice is the quoted price after discount
func (q *Quotation) NetPrice() float64 {
	return q.Price - q.Discount
}

// RepairStatus tracks the bench work on a scope
type RepairStatus string

const (
	RepairStatusPending RepairStatus = "pending"
	RepairStatusDone    RepairStatus = "done"
	RepairStatusNotDone RepairStatus = "notDone"
)

// Repair is the work order executed after a quotation is approved
type Repair struct {
	BaseModel
	RepairNumber   string       `gorm:"type:varchar(20);not null;uniqueIndex;column:repair_number"`
	ScopeID        uuid.UUID    `gorm:"type:uuid;not null;index;column:scope_id"`
	Scope          *Scope       `gorm:"foreignKey:ScopeID"`
	EvaluationID   *uuid.UUID   `gorm:"type:uuid;column:evaluation_id"`
	QuotationID    *uuid.UUID   `gorm:"type:uuid;column:quotation_id"`
	Status         RepairStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Parts          []RepairPart `gorm:"foreignKey:RepairID;constraint:OnDelete:CASCADE"`
	TotalCost      float64      `gorm:"type:decimal(12,2);not null;default:0;column:total_cost"`
	Notes          string       `gorm:"type:text"`
	StartDate      *time.Time   `gorm:"column:start_date"`
	CompletionDate *time.Time   `gorm:"column:completion_date"`
	CreatedByID    *uuid.UUID   `gorm:"type:uuid;column:created_by_id"`
}

// RepairPart is one inventory line consumed by a repair
type RepairPart struct {
	BaseModel
	RepairID        uuid.UUID      `gorm:"type:uuid;not null;index;column:repair_id"`
	InventoryItemID uuid.UUID      `gorm:"type:uuid;not null;index;column:inventory_item_id"`
	InventoryItem   *InventoryItem `gorm:"foreignKey:InventoryItemID"`
	QuantityUsed    int            `gorm:"not null;column:quantity_used"`
	UnitCost        float64        `gorm:"type:decimal(12,2);not null;default:0;column:unit_cost"`
	TotalCost       float64        `gorm:"type:decimal(12,2);not null;default:0;column:total_cost"`
}

// StockStatus is derived from quantity and reorder point
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// DefaultReorderPoint applies when an item is created without one
const DefaultReorderPoint = 5

// InventoryItem is a stocked part used during repairs
type InventoryItem struct {
	BaseModel
	Name         string    `gorm:"type:varchar(200);not null"`
	ScopeType    ScopeType `gorm:"type:varchar(20);not null;column:scope_type"`
	Length       float64   `gorm:"type:decimal(10,2)"`
	Diameter     float64   `gorm:"type:decimal(10,2)"`
	UnitCost     float64   `gorm:"type:decimal(12,2);not null;default:0;column:unit_cost"`
	Manufacturer string    `gorm:"type:varchar(200)"`
	Quantity     int       `gorm:"not null;default:0"`
	ReorderPoint int       `gorm:"not null;column:reorder_point"`
}

// TableName keeps the inventory table name short
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// StockStatus reports whether the item needs reordering
func (i *InventoryItem) StockStatus() StockStatus {
	switch {
	case i.Quantity <= 0:
		return StockStatusOutOfStock
	case i.Quantity <= i.ReorderPoint:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// InvoiceStatus is the billing state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// DefaultPaymentTerms is printed when an invoice does not specify terms
const DefaultPaymentTerms = "Net 30"

// Invoice bills a customer for a repaired scope
type Invoice struct {
	BaseModel
	InvoiceNumber  string        `gorm:"type:varchar(20);not null;uniqueIndex;column:invoice_number"`
	ScopeID        uuid.UUID     `gorm:"type:uuid;not null;index;column:scope_id"`
	Scope          *Scope        `gorm:"foreignKey:ScopeID"`
	RepairID       *uuid.UUID    `gorm:"type:uuid;index;column:repair_id"`
	QuotationID    *uuid.UUID    `gorm:"type:uuid;index;column:quotation_id"`
	InvoiceDate    time.Time     `gorm:"not null;column:invoice_date"`
	DueDate        *time.Time    `gorm:"column:due_date;index"`
	UnitPrice      float64       `gorm:"type:decimal(12,2);not null;column:unit_price"`
	Quantity       int           `gorm:"not null;default:1"`
	TotalPrice     float64       `gorm:"type:decimal(12,2);not null;default:0;column:total_price"`
	Subtotal       float64       `gorm:"type:decimal(12,2);not null;default:0"`
	Tax            float64       `gorm:"type:decimal(12,2);not null;default:0"`
	TotalDue       float64       `gorm:"type:decimal(12,2);not null;default:0;column:total_due"`
	DollarRate     float64       `gorm:"type:decimal(14,2);not null;default:0;column:dollar_rate"`
	TaxLebanese    float64       `gorm:"type:decimal(18,2);not null;default:0;column:tax_lebanese"`
	PaymentTerms   string        `gorm:"type:varchar(100);column:payment_terms"`
	ShowTVAInLBP   bool          `gorm:"not null;default:false;column:show_tva_in_lbp"`
	Status         InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes          string        `gorm:"type:text"`
	PDFURL         string        `gorm:"type:text;column:pdf_url"`
	PDFGeneratedAt *time.Time    `gorm:"column:pdf_generated_at"`
	CreatedByID    *uuid.UUID    `gorm:"type:uuid;column:created_by_id"`
}

// UserRole is the access role of a staff member
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// User is a staff account
type User struct {
	BaseModel
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null;column:password_hash"`
	FirstName    string     `gorm:"type:varchar(100);not null;column:first_name"`
	LastName     string     `gorm:"type:varchar(100);not null;column:last_name"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'user'"`
	IsActive     bool       `gorm:"not null;default:true;column:is_active"`
	Phone        string     `gorm:"type:varchar(50)"`
	Department   string     `gorm:"type:varchar(100)"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

// FullName returns "First Last"
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SettingsID is the primary key of the single settings row
const SettingsID = 1

// DefaultDollarRate is the LBP rate stored when settings are first created
const DefaultDollarRate = 89000

// Settings is the global shop configuration edited by admins
type Settings struct {
	ID           int       `gorm:"primaryKey"`
	CompanyName  string    `gorm:"type:varchar(200);not null;column:company_name"`
	CompanyPhone string    `gorm:"type:varchar(50);not null;column:company_phone"`
	CompanyEmail string    `gorm:"type:varchar(255);not null;column:company_email"`
	MofNumber    string    `gorm:"type:varchar(50);not null;column:mof_number"`
	DollarRate   float64   `gorm:"type:decimal(14,2);not null;default:89000;column:dollar_rate"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// Media is an uploaded file (logos, scope photos)
type Media struct {
	BaseModel
	Alt          string     `gorm:"type:varchar(255);not null"`
	Filename     string     `gorm:"type:varchar(255);not null"`
	ContentType  string     `gorm:"type:varchar(100);not null;column:content_type"`
	Size         int64      `gorm:"not null"`
	StoragePath  string     `gorm:"type:varchar(500);not null;uniqueIndex;column:storage_path"`
	URL          string     `gorm:"type:varchar(1000)"`
	UploadedByID *uuid.UUID `gorm:"type:uuid;column:uploaded_by_id"`
}

// TableName keeps "media" singular
func (Media) TableName() string {
	return "media"
}

// NotificationType is the severity shown in the notification center
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
)

// Notification is a message for a single user
type Notification struct {
	BaseModel
	UserID            uuid.UUID        `gorm:"type:uuid;not null;index;column:user_id"`
	Type              NotificationType `gorm:"type:varchar(20);not null;default:'info'"`
	Message           string           `gorm:"type:varchar(1000);not null"`
	Read              bool             `gorm:"column:read;not null;default:false;index"`
	ReadAt            *time.Time       `gorm:"column:read_at"`
	RelatedCollection string           `gorm:"type:varchar(50);column:related_collection"`
	RelatedDocument   *uuid.UUID       `gorm:"type:uuid;column:related_document"`
}

// NumberSequence stores the last issued number per document prefix
type NumberSequence struct {
	Prefix       string    `gorm:"type:varchar(20);primaryKey"`
	LastSequence int       `gorm:"not null;default:0;column:last_sequence"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// ActivityTargetType names the entity an activity is about
type ActivityTargetType string

const (
	ActivityTargetScope      ActivityTargetType = "scope"
	ActivityTargetEvaluation ActivityTargetType = "evaluation"
	ActivityTargetQuotation  ActivityTargetType = "quotation"
	ActivityTargetRepair     ActivityTargetType = "repair"
	ActivityTargetInvoice    ActivityTargetType = "invoice"
	ActivityTargetInventory  ActivityTargetType = "inventory"
	ActivityTargetCompany    ActivityTargetType = "company"
)

// IsValid reports whether t is a known target type
func (t ActivityTargetType) IsValid() bool {
	switch t {
	case ActivityTargetScope, ActivityTargetEvaluation, ActivityTargetQuotation,
		ActivityTargetRepair, ActivityTargetInvoice, ActivityTargetInventory, ActivityTargetCompany:
		return true
	}
	return false
}

// Activity is a human-readable workflow event
type Activity struct {
	BaseModel
	TargetType ActivityTargetType `gorm:"type:varchar(50);not null;index:idx_activity_target;column:target_type"`
	TargetID   uuid.UUID          `gorm:"type:uuid;not null;index:idx_activity_target;column:target_id"`
	Title      string             `gorm:"type:varchar(200);not null"`
	Body       string             `gorm:"type:varchar(2000)"`
	ActorID    *uuid.UUID         `gorm:"type:uuid;column:actor_id"`
	ActorName  string             `gorm:"type:varchar(200);column:actor_name"`
	OccurredAt time.Time          `gorm:"not null;index;column:occurred_at"`
}

// AuditAction is the kind of mutation recorded in the audit log
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionOther  AuditAction = "other"
)

// AuditLog records one mutating API request
type AuditLog struct {
	BaseModel
	UserID     string      `gorm:"type:varchar(100);column:user_id;index"`
	UserEmail  string      `gorm:"type:varchar(255);column:user_email"`
	Action     AuditAction `gorm:"type:varchar(20);not null"`
	EntityType string      `gorm:"type:varchar(50);not null;column:entity_type;index"`
	EntityID   *uuid.UUID  `gorm:"type:uuid;column:entity_id"`
	Method     string      `gorm:"type:varchar(10);not null"`
	Path       string      `gorm:"type:varchar(500);not null"`
	StatusCode int         `gorm:"not null;column:status_code"`
	IPAddress  string      `gorm:"type:varchar(64);column:ip_address"`
	UserAgent  string      `gorm:"type:text;column:user_agent"`
	RequestID  string      `gorm:"type:varchar(100);column:request_id"`
	Payload    string      `gorm:"type:text"`
}
