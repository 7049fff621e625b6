package mapper

import (
	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
)

// ToLeadDTO converts Lead to LeadDTO
func ToLeadDTO(lead *domain.Lead) domain.LeadDTO {
	return domain.LeadDTO{
		ID:               lead.ID,
		Name:             lead.Name,
		Email:            lead.Email,
		Phone:            lead.Phone,
		Source:           lead.Source,
		Status:           lead.Status,
		AssignedTo:       lead.AssignedTo,
		Notes:            lead.Notes,
		PreferredContact: lead.PreferredContact,
		TicketNumber:     lead.TicketNumber,
		CoverImage:       lead.CoverImage,
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
}

// ToLeadDetailDTO converts a Lead with its preloaded assignee
func ToLeadDetailDTO(lead *domain.Lead) domain.LeadDetailDTO {
	dto := domain.LeadDetailDTO{LeadDTO: ToLeadDTO(lead)}
	if lead.AssignedUser != nil {
		dto.AssignedUser = &domain.UserSummaryDTO{
			ID:    lead.AssignedUser.ID,
			Name:  lead.AssignedUser.Name,
			Email: lead.AssignedUser.Email,
		}
	}
	return dto
}

func ToLeadDTOs(leads []domain.Lead) []domain.LeadDTO {
	dtos := make([]domain.LeadDTO, len(leads))
	for i := range leads {
		dtos[i] = ToLeadDTO(&leads[i])
	}
	return dtos
}

// ToRecentLeadDTO is the dashboard projection of a lead
func ToRecentLeadDTO(lead *domain.Lead) domain.RecentLeadDTO {
	return domain.RecentLeadDTO{
		ID:        lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Source:    lead.Source,
		Status:    lead.Status,
		CreatedAt: lead.CreatedAt,
	}
}

// ToProductDTO converts Product to ProductDTO
func ToProductDTO(product *domain.Product) domain.ProductDTO {
	return domain.ProductDTO{
		ID:            product.ID,
		Category:      product.Category,
		Name:          product.Name,
		BasePrice:     product.BasePrice,
		DescriptionEs: product.DescriptionEs,
		DescriptionEn: product.DescriptionEn,
		ImageURL:      product.ImageURL,
		IsActive:      product.IsActive,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

// ToQuoteDTO converts Quote to QuoteDTO, flattening the lead and product
// names when they were preloaded
func ToQuoteDTO(quote *domain.Quote) domain.QuoteDTO {
	dto := domain.QuoteDTO{
		ID:                quote.ID,
		LeadID:            quote.LeadID,
		ProductID:         quote.ProductID,
		Quantity:          quote.Quantity,
		Size:              quote.Size,
		BudgetRange:       quote.BudgetRange,
		ArtworkPreference: quote.ArtworkPreference,
		EstimatedPrice:    quote.EstimatedPrice,
		Status:            quote.Status,
		ValidUntil:        quote.ValidUntil,
		CreatedAt:         quote.CreatedAt,
		UpdatedAt:         quote.UpdatedAt,
	}
	if quote.Lead != nil {
		dto.LeadName = quote.Lead.Name
		dto.LeadEmail = quote.Lead.Email
	}
	if quote.Product != nil {
		dto.ProductName = quote.Product.Name
		dto.ProductCategory = quote.Product.Category
	}
	return dto
}

// ToQuoteDetailDTO includes the full lead and product
func ToQuoteDetailDTO(quote *domain.Quote) domain.QuoteDetailDTO {
	dto := domain.QuoteDetailDTO{QuoteDTO: ToQuoteDTO(quote)}
	if quote.Lead != nil {
		lead := ToLeadDTO(quote.Lead)
		dto.Lead = &lead
	}
	if quote.Product != nil {
		product := ToProductDTO(quote.Product)
		dto.Product = &product
	}
	return dto
}

// ToEstimateDTO converts Estimate to EstimateDTO
func ToEstimateDTO(estimate *domain.Estimate) domain.EstimateDTO {
	items := estimate.Items
	if items == nil {
		items = []domain.EstimateItem{}
	}
	return domain.EstimateDTO{
		ID:            estimate.ID,
		QuoteNumber:   estimate.QuoteNumber,
		ClientName:    estimate.ClientName,
		ClientEmail:   estimate.ClientEmail,
		ClientPhone:   estimate.ClientPhone,
		ClientAddress: estimate.ClientAddress,
		Items:         items,
		Subtotal:      estimate.Subtotal,
		TaxRate:       estimate.TaxRate,
		TaxAmount:     estimate.TaxAmount,
		ShippingCost:  estimate.ShippingCost,
		Total:         estimate.Total,
		Status:        estimate.Status,
		Notes:         estimate.Notes,
		ValidUntil:    estimate.ValidUntil,
		PDFFile:       estimate.PDFFile,
		UserID:        estimate.UserID,
		CreatedAt:     estimate.CreatedAt,
		UpdatedAt:     estimate.UpdatedAt,
	}
}

// ToChatSessionDTO converts ChatSession to ChatSessionDTO
func ToChatSessionDTO(session *domain.ChatSession) domain.ChatSessionDTO {
	messages := session.Messages
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	dto := domain.ChatSessionDTO{
		ID:              session.ID,
		LeadID:          session.LeadID,
		Messages:        messages,
		ContextCaptured: session.ContextCaptured,
		Status:          session.Status,
		CreatedAt:       session.CreatedAt,
		UpdatedAt:       session.UpdatedAt,
	}
	if session.Lead != nil {
		dto.LeadName = session.Lead.Name
		dto.LeadEmail = session.Lead.Email
	}
	return dto
}

// ToFileDTO converts File to FileDTO
func ToFileDTO(file *domain.File) domain.FileDTO {
	return domain.FileDTO{
		ID:         file.ID,
		LeadID:     file.LeadID,
		QuoteID:    file.QuoteID,
		Filename:   file.Filename,
		FileURL:    file.FileURL,
		FileType:   file.FileType,
		FileSize:   file.FileSize,
		UploadedBy: file.UploadedBy,
		CreatedAt:  file.CreatedAt,
	}
}

// ToCrmUserDTO converts CrmUser to CrmUserDTO
func ToCrmUserDTO(user *domain.CrmUser) domain.CrmUserDTO {
	return domain.CrmUserDTO{
		ID:         user.ID,
		AuthUserID: user.AuthUserID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

// ToTicketDTO converts a lead with preloaded relations to a ticket view
func ToTicketDTO(lead *domain.Lead) domain.TicketDTO {
	dto := domain.TicketDTO{
		LeadDTO:      ToLeadDTO(lead),
		ChatSessions: make([]domain.ChatSessionDTO, len(lead.ChatSessions)),
		Quotes:       make([]domain.QuoteDTO, len(lead.Quotes)),
		Files:        make([]domain.FileDTO, len(lead.Files)),
	}
	for i := range lead.ChatSessions {
		dto.ChatSessions[i] = ToChatSessionDTO(&lead.ChatSessions[i])
	}
	for i := range lead.Quotes {
		dto.Quotes[i] = ToQuoteDTO(&lead.Quotes[i])
	}
	for i := range lead.Files {
		dto.Files[i] = ToFileDTO(&lead.Files[i])
	}
	return dto
}

// ToNoteDTO converts Note to NoteDTO
func ToNoteDTO(note *domain.Note) domain.NoteDTO {
	return domain.NoteDTO{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Color:     note.Color,
		Pinned:    note.Pinned,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
