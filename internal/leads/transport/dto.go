package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateLeadRequest contains data for creating a new lead.
type CreateLeadRequest struct {
	PropertyID *uuid.UUID `json:"propertyId,omitempty"`
	OwnerName  string     `json:"ownerName" validate:"required,min=1,max=200"`
	OwnerPhone string     `json:"ownerPhone,omitempty" validate:"omitempty,max=30"`
	OwnerEmail string     `json:"ownerEmail,omitempty" validate:"omitempty,email"`
	Source     string     `json:"source,omitempty" validate:"omitempty,max=100"`
	County     string     `json:"county,omitempty" validate:"omitempty,max=100"`
	Latitude   *float64   `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude  *float64   `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	Notes      string     `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateLeadRequest contains data for updating an existing lead.
type UpdateLeadRequest struct {
	OwnerName   *string  `json:"ownerName,omitempty" validate:"omitempty,min=1,max=200"`
	OwnerPhone  *string  `json:"ownerPhone,omitempty" validate:"omitempty,max=30"`
	OwnerEmail  *string  `json:"ownerEmail,omitempty" validate:"omitempty,email"`
	County      *string  `json:"county,omitempty" validate:"omitempty,max=100"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=new contacted qualified converted closed"`
	IsDangerous *bool    `json:"isDangerous,omitempty"`
	DoNotEmail  *bool    `json:"doNotEmail,omitempty"`
	DoNotMail   *bool    `json:"doNotMail,omitempty"`
	IsBusiness  *bool    `json:"isBusiness,omitempty"`
	Notes       *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ListLeadsRequest contains query filters for lead listings.
type ListLeadsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=new contacted qualified converted closed"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// NearbyLeadsRequest describes a mission-matching search around a center
// point. Radius is expressed in meters.
type NearbyLeadsRequest struct {
	Latitude            float64          `json:"latitude" validate:"min=-90,max=90"`
	Longitude           float64          `json:"longitude" validate:"min=-180,max=180"`
	RadiusMeters        float64          `json:"radiusMeters" validate:"required,gt=0,max=100000"`
	ExcludeDangerous    bool             `json:"excludeDangerous"`
	ExcludeBusiness     bool             `json:"excludeBusiness"`
	ExcludeDoNotContact bool             `json:"excludeDoNotContact"`
	PropertyType        string           `json:"propertyType,omitempty" validate:"omitempty,max=50"`
	MinAmountDue        *decimal.Decimal `json:"minAmountDue,omitempty"`
	MaxAmountDue        *decimal.Decimal `json:"maxAmountDue,omitempty"`
}

// MailOwnerRequest contains the mailing payload for a lead's owner.
type MailOwnerRequest struct {
	Subject string `json:"subject" validate:"required,min=1,max=200"`
	Body    string `json:"body" validate:"required,min=1,max=5000"`
}

// MailOwnerResponse reports the outcome of a paid mailing request.
type MailOwnerResponse struct {
	Queued          bool `json:"queued"`
	TokensRemaining int  `json:"tokensRemaining"`
}

// LeadResponse represents a lead in API responses.
type LeadResponse struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"userId"`
	PropertyID *uuid.UUID `json:"propertyId,omitempty"`

	OwnerName  string `json:"ownerName"`
	OwnerPhone string `json:"ownerPhone,omitempty"`
	OwnerEmail string `json:"ownerEmail,omitempty"`
	Source     string `json:"source,omitempty"`
	County     string `json:"county,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Status   string     `json:"status"`
	Score    *int       `json:"score,omitempty"`
	Grade    *string    `json:"grade,omitempty"`
	ScoredAt *time.Time `json:"scoredAt,omitempty"`

	IsDangerous bool `json:"isDangerous"`
	DoNotEmail  bool `json:"doNotEmail"`
	DoNotMail   bool `json:"doNotMail"`
	IsBusiness  bool `json:"isBusiness"`

	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// LeadListResponse wraps a list of leads.
type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

// MatchedLeadResponse is a lead with its great-circle distance from the
// search center attached.
type MatchedLeadResponse struct {
	LeadResponse
	DistanceMeters float64 `json:"distanceMeters"`
}

// NearbyLeadsResponse wraps matcher results, sorted nearest first.
type NearbyLeadsResponse struct {
	Items []MatchedLeadResponse `json:"items"`
	Total int                   `json:"total"`
}

// ScoreResponse reports a freshly computed lead score.
type ScoreResponse struct {
	LeadID   uuid.UUID `json:"leadId"`
	Score    int       `json:"score"`
	Grade    string    `json:"grade"`
	ScoredAt time.Time `json:"scoredAt"`
}

// BatchRescoreResponse reports the outcome of a bulk scoring run.
type BatchRescoreResponse struct {
	Scored int `json:"scored"`
	Failed int `json:"failed"`
}
