package domain

import (
	"time"
)

// LeadSource is the channel a lead was captured through
type LeadSource string

const (
	LeadSourceChat    LeadSource = "chat"
	LeadSourceWizard  LeadSource = "wizard"
	LeadSourceContact LeadSource = "contact"
)

// IsValid reports whether the source is one of the known capture channels
func (s LeadSource) IsValid() bool {
	switch s {
	case LeadSourceChat, LeadSourceWizard, LeadSourceContact:
		return true
	}
	return false
}

// LeadStatus is the position of a lead on the pipeline board.
// Any status may move to any other status.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusProposal  LeadStatus = "proposal"
	LeadStatusWon       LeadStatus = "won"
	LeadStatusLost      LeadStatus = "lost"
)

// AllLeadStatuses lists every legal lead status in board order
var AllLeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusProposal,
	LeadStatusWon,
	LeadStatusLost,
}

func (s LeadStatus) IsValid() bool {
	for _, v := range AllLeadStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// QuoteStatus is shared by quotes and estimates
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	}
	return false
}

// IsActive reports whether the quote is still open for negotiation
func (s QuoteStatus) IsActive() bool {
	return s == QuoteStatusDraft || s == QuoteStatusSent
}

// ChatSessionStatus represents the state of a chat transcript
type ChatSessionStatus string

const (
	ChatSessionStatusActive ChatSessionStatus = "active"
	ChatSessionStatusClosed ChatSessionStatus = "closed"
)

func (s ChatSessionStatus) IsValid() bool {
	return s == ChatSessionStatusActive || s == ChatSessionStatusClosed
}

// CrmRole gates admin-only operations
type CrmRole string

const (
	CrmRoleAdmin CrmRole = "admin"
	CrmRoleAgent CrmRole = "agent"
)

func (r CrmRole) IsValid() bool {
	return r == CrmRoleAdmin || r == CrmRoleAgent
}

// Lead is a prospective customer record and the aggregate root for
// quotes, chat sessions and files.
type Lead struct {
	ID               int64      `gorm:"primaryKey"`
	Name             string     `gorm:"type:varchar(255);not null"`
	Email            string     `gorm:"type:varchar(255);not null;index"`
	Phone            *string    `gorm:"type:varchar(50)"`
	Source           LeadSource `gorm:"type:varchar(50);not null"`
	Status           LeadStatus `gorm:"type:varchar(50);not null;default:'new';index"`
	AssignedTo       *int64     `gorm:"column:assigned_to;index"`
	Notes            *string    `gorm:"type:text"`
	PreferredContact *string    `gorm:"type:varchar(50);column:preferred_contact"`
	TicketNumber     *string    `gorm:"type:varchar(100);column:ticket_number"`
	CoverImage       *string    `gorm:"type:text;column:cover_image"`
	CreatedAt        time.Time  `gorm:"not null;index"`
	UpdatedAt        time.Time  `gorm:"not null"`

	AssignedUser *CrmUser      `gorm:"foreignKey:AssignedTo"`
	Quotes       []Quote       `gorm:"foreignKey:LeadID"`
	ChatSessions []ChatSession `gorm:"foreignKey:LeadID"`
	Files        []File        `gorm:"foreignKey:LeadID"`
}

// Product is a catalog entry quotes are priced against
type Product struct {
	ID            int64     `gorm:"primaryKey"`
	Category      string    `gorm:"type:varchar(100);not null"`
	Name          string    `gorm:"type:varchar(255);not null"`
	BasePrice     int64     `gorm:"not null;column:base_price"`
	DescriptionEs *string   `gorm:"type:text;column:description_es"`
	DescriptionEn *string   `gorm:"type:text;column:description_en"`
	ImageURL      *string   `gorm:"type:text;column:image_url"`
	IsActive      bool      `gorm:"not null;default:true;column:is_active"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// Quote is a priced proposal for one lead and one product
type Quote struct {
	ID                int64       `gorm:"primaryKey"`
	LeadID            int64       `gorm:"not null;index;column:lead_id"`
	ProductID         int64       `gorm:"not null;index;column:product_id"`
	Quantity          int         `gorm:"not null;default:1"`
	Size              *string     `gorm:"type:varchar(100)"`
	BudgetRange       *string     `gorm:"type:varchar(100);column:budget_range"`
	ArtworkPreference *string     `gorm:"type:varchar(100);column:artwork_preference"`
	EstimatedPrice    int64       `gorm:"not null;column:estimated_price"`
	Status            QuoteStatus `gorm:"type:varchar(50);not null;default:'draft';index"`
	ValidUntil        *time.Time  `gorm:"column:valid_until"`
	CreatedAt         time.Time   `gorm:"not null"`
	UpdatedAt         time.Time   `gorm:"not null"`

	Lead    *Lead    `gorm:"foreignKey:LeadID"`
	Product *Product `gorm:"foreignKey:ProductID"`
}

// EstimateItem is one line of an estimate
type EstimateItem struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	Total       float64 `json:"total" validate:"gte=0"`
}

// Estimate is an owner-scoped itemized price document
type Estimate struct {
	ID            int64          `gorm:"primaryKey"`
	QuoteNumber   string         `gorm:"type:varchar(100);not null;uniqueIndex;column:quote_number"`
	ClientName    string         `gorm:"type:varchar(255);not null;column:client_name"`
	ClientEmail   string         `gorm:"type:varchar(255);not null;column:client_email"`
	ClientPhone   *string        `gorm:"type:varchar(50);column:client_phone"`
	ClientAddress *string        `gorm:"type:text;column:client_address"`
	Items         []EstimateItem `gorm:"serializer:json;not null"`
	Subtotal      float64        `gorm:"not null"`
	TaxRate       float64        `gorm:"not null;default:0;column:tax_rate"`
	TaxAmount     float64        `gorm:"not null;default:0;column:tax_amount"`
	ShippingCost  float64        `gorm:"not null;default:0;column:shipping_cost"`
	Total         float64        `gorm:"not null"`
	Notes         *string        `gorm:"type:text"`
	ValidUntil    *time.Time     `gorm:"column:valid_until"`
	Status        QuoteStatus    `gorm:"type:varchar(50);not null;default:'draft'"`
	UserID        string         `gorm:"type:text;not null;index;column:user_id"`
	PDFFile       *string        `gorm:"type:text;column:pdf_file"`
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null"`
}

// ChatMessage is a single transcript entry
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatSession is a transcript container. Messages only ever grow.
type ChatSession struct {
	ID              int64                  `gorm:"primaryKey"`
	LeadID          *int64                 `gorm:"index;column:lead_id"`
	Messages        []ChatMessage          `gorm:"serializer:json;not null"`
	ContextCaptured map[string]interface{} `gorm:"serializer:json;column:context_captured"`
	Status          ChatSessionStatus      `gorm:"type:varchar(50);not null;default:'active';index"`
	CreatedAt       time.Time              `gorm:"not null"`
	UpdatedAt       time.Time              `gorm:"not null;index"`

	Lead *Lead `gorm:"foreignKey:LeadID"`
}

// File is an attachment stored through the storage backend
type File struct {
	ID         int64     `gorm:"primaryKey"`
	LeadID     *int64    `gorm:"index;column:lead_id"`
	QuoteID    *int64    `gorm:"column:quote_id"`
	Filename   string    `gorm:"type:varchar(255);not null"`
	FileURL    string    `gorm:"type:text;not null;column:file_url"`
	FileType   string    `gorm:"type:varchar(100);not null;column:file_type"`
	FileSize   int64     `gorm:"not null;column:file_size"`
	UploadedBy *int64    `gorm:"column:uploaded_by"`
	CreatedAt  time.Time `gorm:"not null"`
}

// CrmUser is an internal operator account linked to one auth identity
type CrmUser struct {
	ID         int64     `gorm:"primaryKey"`
	AuthUserID string    `gorm:"type:text;not null;uniqueIndex;column:auth_user_id"`
	Email      string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name       string    `gorm:"type:varchar(255);not null"`
	Role       CrmRole   `gorm:"type:varchar(50);not null;default:'agent'"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// AuthUser mirrors the authentication provider's user table. Read-only here.
type AuthUser struct {
	ID            string `gorm:"type:text;primaryKey"`
	Name          string `gorm:"not null"`
	Email         string `gorm:"not null;uniqueIndex"`
	EmailVerified bool   `gorm:"not null;default:false;column:email_verified"`
	Image         *string
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (AuthUser) TableName() string {
	return "auth_users"
}

// Note is a personal sticky note owned by one authenticated user
type Note struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    string    `gorm:"type:text;not null;index;column:user_id"`
	Title     string    `gorm:"type:varchar(255)"`
	Content   string    `gorm:"type:text;not null"`
	Color     *string   `gorm:"type:varchar(20)"`
	Pinned    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
