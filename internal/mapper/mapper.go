package mapper

import (
	"time"

	"github.com/medcare-solutions/repair-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return formatTime(*t)
}

// ToBrandDTO converts Brand to BrandDTO
func ToBrandDTO(brand *domain.Brand) domain.BrandDTO {
	return domain.BrandDTO{
		ID:          brand.ID,
		Title:       brand.Title,
		Description: brand.Description,
		CreatedAt:   formatTime(brand.CreatedAt),
		UpdatedAt:   formatTime(brand.UpdatedAt),
	}
}

// ToManufacturerDTO converts Manufacturer to ManufacturerDTO, resolving the country name
func ToManufacturerDTO(m *domain.Manufacturer) domain.ManufacturerDTO {
	return domain.ManufacturerDTO{
		ID:             m.ID,
		CompanyName:    m.CompanyName,
		CompanyEmail:   m.CompanyEmail,
		CompanyPhone:   m.CompanyPhone,
		Country:        m.Country,
		CountryName:    domain.CountryName(m.Country),
		CompanyWebsite: m.CompanyWebsite,
		CreatedAt:      formatTime(m.CreatedAt),
		UpdatedAt:      formatTime(m.UpdatedAt),
	}
}

// ToCompanyDTO converts Company to CompanyDTO
func ToCompanyDTO(c *domain.Company) domain.CompanyDTO {
	return domain.CompanyDTO{
		ID:           c.ID,
		Name:         c.Name,
		PhoneNumber:  c.PhoneNumber,
		Email:        c.Email,
		Address:      c.Address,
		MofNumber:    c.MofNumber,
		ERPReference: c.ERPReference,
		CreatedAt:    formatTime(c.CreatedAt),
		UpdatedAt:    formatTime(c.UpdatedAt),
	}
}

// ToPartDTO converts Part to PartDTO
func ToPartDTO(p *domain.Part) domain.PartDTO {
	return domain.PartDTO{
		ID:           p.ID,
		PartName:     p.PartName,
		PartNumber:   p.PartNumber,
		Length:       p.Length,
		Diameter:     p.Diameter,
		Cost:         p.Cost,
		Price:        p.Price,
		Manufacturer: p.Manufacturer,
		Country:      p.Country,
		CreatedAt:    formatTime(p.CreatedAt),
		UpdatedAt:    formatTime(p.UpdatedAt),
	}
}

// ToScopeDTO converts Scope to ScopeDTO, embedding brand and manufacturer when loaded
func ToScopeDTO(scope *domain.Scope) domain.ScopeDTO {
	dto := domain.ScopeDTO{
		ID:             scope.ID,
		Name:           scope.Name,
		Type:           scope.Type,
		Model:          scope.Model,
		ModelNumber:    scope.ModelNumber,
		SerialNumber:   scope.SerialNumber,
		BrandID:        scope.BrandID,
		ManufacturerID: scope.ManufacturerID,
		Company:        scope.Company,
		Status:         scope.Status,
		Description:    scope.Description,
		ReceivedDate:   formatTimePtr(scope.ReceivedDate),
		CreatedByID:    scope.CreatedByID,
		CreatedAt:      formatTime(scope.CreatedAt),
		UpdatedAt:      formatTime(scope.UpdatedAt),
	}
	if scope.Brand != nil {
		brand := ToBrandDTO(scope.Brand)
		dto.Brand = &brand
	}
	if scope.Manufacturer != nil {
		m := ToManufacturerDTO(scope.Manufacturer)
		dto.Manufacturer = &m
	}
	return dto
}

// ToScopeDTOs converts a slice of scopes
func ToScopeDTOs(scopes []domain.Scope) []domain.ScopeDTO {
	dtos := make([]domain.ScopeDTO, len(scopes))
	for i := range scopes {
		dtos[i] = ToScopeDTO(&scopes[i])
	}
	return dtos
}

// ToEvaluationDTO converts Evaluation to EvaluationDTO
func ToEvaluationDTO(e *domain.Evaluation) domain.EvaluationDTO {
	return domain.EvaluationDTO{
		ID:                 e.ID,
		Code:               e.Code,
		Type:               e.Type,
		Evaluation:         e.Findings,
		ScopeID:            e.ScopeID,
		Status:             e.Status,
		EvaluationDate:     formatTimePtr(e.EvaluationDate),
		ProblemsIdentified: e.ProblemsIdentified,
		ScopeCode:          e.ScopeCode,
		ScopeName:          e.ScopeName,
		ModelNumber:        e.ModelNumber,
		SerialNumber:       e.SerialNumber,
		CreatedAt:          formatTime(e.CreatedAt),
		UpdatedAt:          formatTime(e.UpdatedAt),
	}
}

// ToEvaluationDTOs converts a slice of evaluations
func ToEvaluationDTOs(evaluations []domain.Evaluation) []domain.EvaluationDTO {
	dtos := make([]domain.EvaluationDTO, len(evaluations))
	for i := range evaluations {
		dtos[i] = ToEvaluationDTO(&evaluations[i])
	}
	return dtos
}

// ToQuotationDTO converts Quotation to QuotationDTO
func ToQuotationDTO(q *domain.Quotation) domain.QuotationDTO {
	dto := domain.QuotationDTO{
		ID:              q.ID,
		QuotationNumber: q.QuotationNumber,
		ScopeID:         q.ScopeID,
		EvaluationID:    q.EvaluationID,
		DeliveryPeriod:  q.DeliveryPeriod,
		OfferValidity:   formatTimePtr(q.OfferValidity),
		QuotationDate:   formatTimePtr(q.QuotationDate),
		Problems:        q.Problems,
		ServiceType:     q.ServiceType,
		Price:           q.Price,
		Discount:        q.Discount,
		NetPrice:        q.NetPrice(),
		Quantity:        q.Quantity,
		Status:          q.Status,
		Notes:           q.Notes,
		PDFURL:          q.PDFURL,
		PDFGeneratedAt:  formatTimePtr(q.PDFGeneratedAt),
		CreatedAt:       formatTime(q.CreatedAt),
		UpdatedAt:       formatTime(q.UpdatedAt),
	}
	if q.Scope != nil {
		scope := ToScopeDTO(q.Scope)
		dto.Scope = &scope
	}
	return dto
}

// ToQuotationDTOs converts a slice of quotations
func ToQuotationDTOs(quotations []domain.Quotation) []domain.QuotationDTO {
	dtos := make([]domain.QuotationDTO, len(quotations))
	for i := range quotations {
		dtos[i] = ToQuotationDTO(&quotations[i])
	}
	return dtos
}

// ToRepairDTO converts Repair and its parts to RepairDTO
func ToRepairDTO(r *domain.Repair) domain.RepairDTO {
	parts := make([]domain.RepairPartDTO, 0, len(r.Parts))
	for _, p := range r.Parts {
		part := domain.RepairPartDTO{
			ID:              p.ID,
			InventoryItemID: p.InventoryItemID,
			QuantityUsed:    p.QuantityUsed,
			UnitCost:        p.UnitCost,
			TotalCost:       p.TotalCost,
		}
		if p.InventoryItem != nil {
			part.PartName = p.InventoryItem.Name
		}
		parts = append(parts, part)
	}

	dto := domain.RepairDTO{
		ID:             r.ID,
		RepairNumber:   r.RepairNumber,
		ScopeID:        r.ScopeID,
		EvaluationID:   r.EvaluationID,
		QuotationID:    r.QuotationID,
		Status:         r.Status,
		PartsUsed:      parts,
		TotalCost:      r.TotalCost,
		Notes:          r.Notes,
		StartDate:      formatTimePtr(r.StartDate),
		CompletionDate: formatTimePtr(r.CompletionDate),
		CreatedByID:    r.CreatedByID,
		CreatedAt:      formatTime(r.CreatedAt),
		UpdatedAt:      formatTime(r.UpdatedAt),
	}
	if r.Scope != nil {
		scope := ToScopeDTO(r.Scope)
		dto.Scope = &scope
	}
	return dto
}

// ToRepairDTOs converts a slice of repairs
func ToRepairDTOs(repairs []domain.Repair) []domain.RepairDTO {
	dtos := make([]domain.RepairDTO, len(repairs))
	for i := range repairs {
		dtos[i] = ToRepairDTO(&repairs[i])
	}
	return dtos
}

// ToInventoryItemDTO converts InventoryItem to InventoryItemDTO with its stock status
func ToInventoryItemDTO(item *domain.InventoryItem) domain.InventoryItemDTO {
	return domain.InventoryItemDTO{
		ID:           item.ID,
		Name:         item.Name,
		ScopeType:    item.ScopeType,
		Length:       item.Length,
		Diameter:     item.Diameter,
		UnitCost:     item.UnitCost,
		Manufacturer: item.Manufacturer,
		Quantity:     item.Quantity,
		ReorderPoint: item.ReorderPoint,
		Status:       item.StockStatus(),
		CreatedAt:    formatTime(item.CreatedAt),
		UpdatedAt:    formatTime(item.UpdatedAt),
	}
}

// ToInventoryItemDTOs converts a slice of inventory items
func ToInventoryItemDTOs(items []domain.InventoryItem) []domain.InventoryItemDTO {
	dtos := make([]domain.InventoryItemDTO, len(items))
	for i := range items {
		dtos[i] = ToInventoryItemDTO(&items[i])
	}
	return dtos
}

// ToInvoiceDTO converts Invoice to InvoiceDTO
func ToInvoiceDTO(inv *domain.Invoice) domain.InvoiceDTO {
	dto := domain.InvoiceDTO{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		ScopeID:        inv.ScopeID,
		RepairID:       inv.RepairID,
		QuotationID:    inv.QuotationID,
		InvoiceDate:    formatTime(inv.InvoiceDate),
		DueDate:        formatTimePtr(inv.DueDate),
		UnitPrice:      inv.UnitPrice,
		Quantity:       inv.Quantity,
		TotalPrice:     inv.TotalPrice,
		Subtotal:       inv.Subtotal,
		Tax:            inv.Tax,
		TotalDue:       inv.TotalDue,
		DollarRate:     inv.DollarRate,
		TaxLebanese:    inv.TaxLebanese,
		PaymentTerms:   inv.PaymentTerms,
		ShowTVAInLBP:   inv.ShowTVAInLBP,
		Status:         inv.Status,
		Notes:          inv.Notes,
		PDFURL:         inv.PDFURL,
		PDFGeneratedAt: formatTimePtr(inv.PDFGeneratedAt),
		CreatedByID:    inv.CreatedByID,
		CreatedAt:      formatTime(inv.CreatedAt),
		UpdatedAt:      formatTime(inv.UpdatedAt),
	}
	if inv.Scope != nil {
		scope := ToScopeDTO(inv.Scope)
		dto.Scope = &scope
	}
	return dto
}

// ToInvoiceDTOs converts a slice of invoices
func ToInvoiceDTOs(invoices []domain.Invoice) []domain.InvoiceDTO {
	dtos := make([]domain.InvoiceDTO, len(invoices))
	for i := range invoices {
		dtos[i] = ToInvoiceDTO(&invoices[i])
	}
	return dtos
}

// ToUserDTO converts User to UserDTO. The password hash never leaves the service.
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		IsActive:    user.IsActive,
		Phone:       user.Phone,
		Department:  user.Department,
		LastLoginAt: formatTimePtr(user.LastLoginAt),
		CreatedAt:   formatTime(user.CreatedAt),
		UpdatedAt:   formatTime(user.UpdatedAt),
	}
}

// ToSettingsDTO converts Settings to SettingsDTO
func ToSettingsDTO(s *domain.Settings) domain.SettingsDTO {
	dto := domain.SettingsDTO{
		CompanyName:  s.CompanyName,
		CompanyPhone: s.CompanyPhone,
		CompanyEmail: s.CompanyEmail,
		MofNumber:    s.MofNumber,
		DollarRate:   s.DollarRate,
	}
	if !s.UpdatedAt.IsZero() {
		dto.UpdatedAt = formatTime(s.UpdatedAt)
	}
	return dto
}

// ToMediaDTO converts Media to MediaDTO
func ToMediaDTO(m *domain.Media) domain.MediaDTO {
	return domain.MediaDTO{
		ID:          m.ID,
		Alt:         m.Alt,
		Filename:    m.Filename,
		ContentType: m.ContentType,
		Size:        m.Size,
		URL:         m.URL,
		CreatedAt:   formatTime(m.CreatedAt),
	}
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(notification *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:                notification.ID,
		Type:              notification.Type,
		Message:           notification.Message,
		Read:              notification.Read,
		ReadAt:            formatTimePtr(notification.ReadAt),
		RelatedCollection: notification.RelatedCollection,
		RelatedDocument:   notification.RelatedDocument,
		CreatedAt:         formatTime(notification.CreatedAt),
	}
}

// ToActivityDTO converts Activity to ActivityDTO
func ToActivityDTO(activity *domain.Activity) domain.ActivityDTO {
	return domain.ActivityDTO{
		ID:         activity.ID,
		TargetType: activity.TargetType,
		TargetID:   activity.TargetID,
		Title:      activity.Title,
		Body:       activity.Body,
		ActorName:  activity.ActorName,
		OccurredAt: formatTime(activity.OccurredAt),
	}
}

// ToAuditLogDTO converts AuditLog to AuditLogDTO
func ToAuditLogDTO(log *domain.AuditLog) domain.AuditLogDTO {
	return domain.AuditLogDTO{
		ID:         log.ID,
		UserID:     log.UserID,
		UserEmail:  log.UserEmail,
		Action:     log.Action,
		EntityType: log.EntityType,
		EntityID:   log.EntityID,
		Method:     log.Method,
		Path:       log.Path,
		StatusCode: log.StatusCode,
		IPAddress:  log.IPAddress,
		RequestID:  log.RequestID,
		CreatedAt:  formatTime(log.CreatedAt),
	}
}

// ToNumberSequenceDTO converts NumberSequence to NumberSequenceDTO
func ToNumberSequenceDTO(seq *domain.NumberSequence) domain.NumberSequenceDTO {
	return domain.NumberSequenceDTO{
		Prefix:       seq.Prefix,
		LastSequence: seq.LastSequence,
		UpdatedAt:    formatTime(seq.UpdatedAt),
	}
}
