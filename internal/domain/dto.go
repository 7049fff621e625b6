package domain

import (
	"time"
)

// ---- Leads ----

// CreateLeadRequest is the public lead-capture payload
type CreateLeadRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	Source           string `json:"source"`
	Notes            string `json:"notes,omitempty"`
	PreferredContact string `json:"preferredContact,omitempty"`
	TicketNumber     string `json:"ticketNumber,omitempty"`
	CoverImage       string `json:"coverImage,omitempty"`
}

// UpdateLeadRequest is a partial update. Absent fields are left untouched,
// null clears a nullable field.
type UpdateLeadRequest struct {
	Name             Optional[string]      `json:"name"`
	Email            Optional[string]      `json:"email"`
	Phone            Optional[string]      `json:"phone"`
	Source           Optional[string]      `json:"source"`
	Status           Optional[string]      `json:"status"`
	Notes            Optional[string]      `json:"notes"`
	AssignedTo       Optional[interface{}] `json:"assignedTo"`
	TicketNumber     Optional[string]      `json:"ticketNumber"`
	CoverImage       Optional[string]      `json:"coverImage"`
	PreferredContact Optional[string]      `json:"preferredContact"`
}

// LeadFilter narrows a lead listing
type LeadFilter struct {
	Status     string
	AssignedTo *int64
	Search     string
}

type LeadDTO struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            *string    `json:"phone"`
	Source           LeadSource `json:"source"`
	Status           LeadStatus `json:"status"`
	AssignedTo       *int64     `json:"assignedTo"`
	Notes            *string    `json:"notes"`
	PreferredContact *string    `json:"preferredContact"`
	TicketNumber     *string    `json:"ticketNumber"`
	CoverImage       *string    `json:"coverImage"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// UserSummaryDTO is the reduced CRM user projection embedded in other resources
type UserSummaryDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LeadDetailDTO is a lead with its assigned user resolved
type LeadDetailDTO struct {
	LeadDTO
	AssignedUser *UserSummaryDTO `json:"assignedUser"`
}

type LeadListResponse struct {
	Leads      []LeadDTO `json:"leads"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

type DeleteLeadResponse struct {
	Message string  `json:"message"`
	Lead    LeadDTO `json:"lead"`
}

// ---- Products and quotes ----

type ProductDTO struct {
	ID            int64     `json:"id"`
	Category      string    `json:"category"`
	Name          string    `json:"name"`
	BasePrice     int64     `json:"basePrice"`
	DescriptionEs *string   `json:"descriptionEs"`
	DescriptionEn *string   `json:"descriptionEn"`
	ImageURL      *string   `json:"imageUrl"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateQuoteRequest struct {
	LeadID            *int64     `json:"leadId"`
	ProductID         *int64     `json:"productId"`
	Quantity          *int       `json:"quantity"`
	Size              *string    `json:"size"`
	BudgetRange       *string    `json:"budgetRange"`
	ArtworkPreference *string    `json:"artworkPreference"`
	EstimatedPrice    *float64   `json:"estimatedPrice"`
	ValidUntil        *time.Time `json:"validUntil"`
}

type UpdateQuoteRequest struct {
	Quantity          Optional[int]       `json:"quantity"`
	Size              Optional[string]    `json:"size"`
	BudgetRange       Optional[string]    `json:"budgetRange"`
	ArtworkPreference Optional[string]    `json:"artworkPreference"`
	EstimatedPrice    Optional[float64]   `json:"estimatedPrice"`
	Status            Optional[string]    `json:"status"`
	ValidUntil        Optional[time.Time] `json:"validUntil"`
}

type ProductListResponse struct {
	Products []ProductDTO `json:"products"`
	Total    int          `json:"total"`
}

type QuoteFilter struct {
	LeadID *int64
	Status string
	Search string
}

type QuoteDTO struct {
	ID                int64       `json:"id"`
	LeadID            int64       `json:"leadId"`
	ProductID         int64       `json:"productId"`
	Quantity          int         `json:"quantity"`
	Size              *string     `json:"size"`
	BudgetRange       *string     `json:"budgetRange"`
	ArtworkPreference *string     `json:"artworkPreference"`
	EstimatedPrice    int64       `json:"estimatedPrice"`
	Status            QuoteStatus `json:"status"`
	ValidUntil        *time.Time  `json:"validUntil"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
	LeadName          string      `json:"leadName,omitempty"`
	LeadEmail         string      `json:"leadEmail,omitempty"`
	ProductName       string      `json:"productName,omitempty"`
	ProductCategory   string      `json:"productCategory,omitempty"`
}

// QuoteDetailDTO carries the full lead and product behind a quote
type QuoteDetailDTO struct {
	QuoteDTO
	Lead    *LeadDTO    `json:"lead"`
	Product *ProductDTO `json:"product"`
}

type QuoteListResponse struct {
	Quotes     []QuoteDTO `json:"quotes"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
}

// ---- Estimates ----

type CreateEstimateRequest struct {
	ClientName    string         `json:"clientName"`
	ClientEmail   string         `json:"clientEmail"`
	ClientPhone   *string        `json:"clientPhone"`
	ClientAddress *string        `json:"clientAddress"`
	Items         []EstimateItem `json:"items"`
	Subtotal      *float64       `json:"subtotal"`
	TaxRate       *float64       `json:"taxRate"`
	TaxAmount     *float64       `json:"taxAmount"`
	ShippingCost  *float64       `json:"shippingCost"`
	Total         *float64       `json:"total"`
	Status        string         `json:"status"`
	Notes         *string        `json:"notes"`
	ValidUntil    *time.Time     `json:"validUntil"`
	PDFFile       *string        `json:"pdfFile"`
	// Ownership comes from the authenticated caller only
	UserID      Optional[interface{}] `json:"userId"`
	UserIDSnake Optional[interface{}] `json:"user_id"`
}

type UpdateEstimateRequest struct {
	ClientName    Optional[string]         `json:"clientName"`
	ClientEmail   Optional[string]         `json:"clientEmail"`
	ClientPhone   Optional[string]         `json:"clientPhone"`
	ClientAddress Optional[string]         `json:"clientAddress"`
	Items         Optional[[]EstimateItem] `json:"items"`
	Subtotal      Optional[float64]        `json:"subtotal"`
	TaxRate       Optional[float64]        `json:"taxRate"`
	TaxAmount     Optional[float64]        `json:"taxAmount"`
	ShippingCost  Optional[float64]        `json:"shippingCost"`
	Total         Optional[float64]        `json:"total"`
	Status        Optional[string]         `json:"status"`
	Notes         Optional[string]         `json:"notes"`
	ValidUntil    Optional[time.Time]      `json:"validUntil"`
	PDFFile       Optional[string]         `json:"pdfFile"`
	UserID        Optional[interface{}]    `json:"userId"`
	UserIDSnake   Optional[interface{}]    `json:"user_id"`
}

type EstimateFilter struct {
	Status string
	Search string
}

type EstimateDTO struct {
	ID            int64          `json:"id"`
	QuoteNumber   string         `json:"quoteNumber"`
	ClientName    string         `json:"clientName"`
	ClientEmail   string         `json:"clientEmail"`
	ClientPhone   *string        `json:"clientPhone"`
	ClientAddress *string        `json:"clientAddress"`
	Items         []EstimateItem `json:"items"`
	Subtotal      float64        `json:"subtotal"`
	TaxRate       float64        `json:"taxRate"`
	TaxAmount     float64        `json:"taxAmount"`
	ShippingCost  float64        `json:"shippingCost"`
	Total         float64        `json:"total"`
	Status        QuoteStatus    `json:"status"`
	Notes         *string        `json:"notes"`
	ValidUntil    *time.Time     `json:"validUntil"`
	PDFFile       *string        `json:"pdfFile"`
	UserID        string         `json:"userId"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type EstimateListResponse struct {
	Estimates  []EstimateDTO `json:"estimates"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

// ---- Chat sessions ----

type CreateChatSessionRequest struct {
	LeadID          *int64                 `json:"leadId"`
	Messages        []ChatMessage          `json:"messages"`
	ContextCaptured map[string]interface{} `json:"contextCaptured"`
	Status          string                 `json:"status"`
}

// UpdateChatSessionRequest appends Messages and replaces ContextCaptured
type UpdateChatSessionRequest struct {
	Messages        []ChatMessage                    `json:"messages"`
	ContextCaptured Optional[map[string]interface{}] `json:"contextCaptured"`
	Status          Optional[string]                 `json:"status"`
}

type ChatSessionFilter struct {
	LeadID *int64
	Status string
}

type ChatSessionDTO struct {
	ID              int64                  `json:"id"`
	LeadID          *int64                 `json:"leadId"`
	Messages        []ChatMessage          `json:"messages"`
	ContextCaptured map[string]interface{} `json:"contextCaptured"`
	Status          ChatSessionStatus      `json:"status"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
	LeadName        string                 `json:"leadName,omitempty"`
	LeadEmail       string                 `json:"leadEmail,omitempty"`
}

type ChatSessionListResponse struct {
	ChatSessions []ChatSessionDTO `json:"chatSessions"`
	Total        int64            `json:"total"`
	Page         int              `json:"page"`
	TotalPages   int              `json:"totalPages"`
}

// ---- Files ----

type FileDTO struct {
	ID         int64     `json:"id"`
	LeadID     *int64    `json:"leadId"`
	QuoteID    *int64    `json:"quoteId"`
	Filename   string    `json:"filename"`
	FileURL    string    `json:"fileUrl"`
	FileType   string    `json:"fileType"`
	FileSize   int64     `json:"fileSize"`
	UploadedBy *int64    `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

type FileListResponse struct {
	Files []FileDTO `json:"files"`
}

// ---- CRM users ----

type CreateCrmUserRequest struct {
	AuthUserID string `json:"authUserId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
}

type UpdateCrmUserRequest struct {
	Name Optional[string] `json:"name"`
	Role Optional[string] `json:"role"`
}

type CrmUserDTO struct {
	ID         int64     `json:"id"`
	AuthUserID string    `json:"authUserId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       CrmRole   `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CrmUserListResponse struct {
	Users      []CrmUserDTO `json:"users"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
}

// MeDTO describes the authenticated caller
type MeDTO struct {
	AuthUserID string      `json:"authUserId"`
	Email      string      `json:"email"`
	Name       string      `json:"name"`
	Role       CrmRole     `json:"role,omitempty"`
	IsAdmin    bool        `json:"isAdmin"`
	CrmUser    *CrmUserDTO `json:"crmUser"`
}

// ---- Dashboard ----

type RecentLeadDTO struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone"`
	Source    LeadSource `json:"source"`
	Status    LeadStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

type DashboardStatsDTO struct {
	TotalLeads     int             `json:"totalLeads"`
	NewLeads       int             `json:"newLeads"`
	ContactedLeads int             `json:"contactedLeads"`
	QualifiedLeads int             `json:"qualifiedLeads"`
	WonLeads       int             `json:"wonLeads"`
	LostLeads      int             `json:"lostLeads"`
	TotalQuotes    int             `json:"totalQuotes"`
	ActiveQuotes   int             `json:"activeQuotes"`
	AcceptedQuotes int             `json:"acceptedQuotes"`
	ConversionRate float64         `json:"conversionRate"`
	LeadsByStatus  map[string]int  `json:"leadsByStatus"`
	LeadsBySource  map[string]int  `json:"leadsBySource"`
	RecentLeads    []RecentLeadDTO `json:"recentLeads"`
}

// ---- Tickets ----

// TicketDetails are the three service-specific answers collected by the chat
type TicketDetails struct {
	Question1 string `json:"question1"`
	Question2 string `json:"question2"`
	Question3 string `json:"question3"`
}

// CreateTicketRequest is what the chat intake hands to the ticket collaborator
type CreateTicketRequest struct {
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Service      string        `json:"service"`
	Details      TicketDetails `json:"details"`
	TicketNumber string        `json:"ticketNumber"`
	Language     string        `json:"language"`
	// Transcript is the chat so far; stored as the linked session's messages
	Transcript []ChatMessage `json:"transcript,omitempty"`
}

type CreateTicketResponse struct {
	TicketNumber  string `json:"ticketNumber"`
	LeadID        int64  `json:"leadId"`
	ChatSessionID int64  `json:"chatSessionId"`
}

// TicketDTO is a lead with everything hanging off it
type TicketDTO struct {
	LeadDTO
	ChatSessions []ChatSessionDTO `json:"chatSessions"`
	Quotes       []QuoteDTO       `json:"quotes"`
	Files        []FileDTO        `json:"files"`
}

type TicketListResponse struct {
	Tickets []TicketDTO `json:"tickets"`
	Total   int         `json:"total"`
}

// ---- Intake ----

// WizardSubmission carries every quote-funnel answer in one request
type WizardSubmission struct {
	IndoorOutdoor     string `json:"indoorOutdoor"`
	SignType          string `json:"signType"`
	Lighting          string `json:"lighting"`
	Size              string `json:"size"`
	HasLogo           string `json:"hasLogo"`
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	ContactPreference string `json:"contactPreference"`
	// TicketNumber is echoed back on resubmission so the number is kept
	TicketNumber string `json:"ticketNumber,omitempty"`
}

type WizardResultDTO struct {
	TicketNumber string   `json:"ticketNumber"`
	Lead         LeadDTO  `json:"lead"`
	File         *FileDTO `json:"file,omitempty"`
	Warning      string   `json:"warning,omitempty"`
	WarningCode  string   `json:"warningCode,omitempty"`
}

type ChatIntakeMessageRequest struct {
	Message string `json:"message" validate:"max=2000"`
}

type ChatIntakeReplyDTO struct {
	ConversationID string   `json:"conversationId"`
	Step           string   `json:"step"`
	Language       string   `json:"language"`
	UILanguage     string   `json:"uiLanguage"`
	Replies        []string `json:"replies"`
	TicketNumber   string   `json:"ticketNumber,omitempty"`
	TicketPending  bool     `json:"ticketPending,omitempty"`
}

// ---- Notes ----

type CreateNoteRequest struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Color   *string `json:"color"`
	Pinned  bool    `json:"pinned"`
}

type UpdateNoteRequest struct {
	Title   Optional[string] `json:"title"`
	Content Optional[string] `json:"content"`
	Color   Optional[string] `json:"color"`
	Pinned  Optional[bool]   `json:"pinned"`
}

type NoteDTO struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     *string   `json:"color"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NoteListResponse struct {
	Notes []NoteDTO `json:"notes"`
	Total int64     `json:"total"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}
