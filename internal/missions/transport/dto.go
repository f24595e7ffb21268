package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateMissionRequest assigns a field visit for a lead to the caller.
type CreateMissionRequest struct {
	LeadID       uuid.UUID `json:"leadId" validate:"required"`
	Instructions string    `json:"instructions,omitempty" validate:"omitempty,max=2000"`
}

// DeclineMissionRequest declines a mission. Safety marks the decline as a
// safety concern, which feeds the agent's safety-decline counter.
type DeclineMissionRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
	Safety bool   `json:"safety"`
}

// CompleteMissionRequest reports mission completion. Coordinates are
// optional; without them no distance is recorded but completion still goes
// through.
type CompleteMissionRequest struct {
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
}

// ListMissionsRequest contains query filters for mission listings.
type ListMissionsRequest struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// MissionResponse represents a mission in API responses.
type MissionResponse struct {
	ID     uuid.UUID `json:"id"`
	LeadID uuid.UUID `json:"leadId"`
	UserID uuid.UUID `json:"userId"`

	Status       string `json:"status"`
	Instructions string `json:"instructions,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	HoldExpiresAt time.Time  `json:"holdExpiresAt"`
	AcceptedAt    *time.Time `json:"acceptedAt,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`

	// DistanceTraveled is in kilometers.
	DistanceTraveled *float64 `json:"distanceTraveled,omitempty"`

	DeclineReason string `json:"declineReason,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// MissionListResponse wraps a list of missions.
type MissionListResponse struct {
	Items []MissionResponse `json:"items"`
	Total int               `json:"total"`
}

// UserStatsResponse reports per-agent mission counters.
type UserStatsResponse struct {
	UserID             uuid.UUID `json:"userId"`
	SafetyDeclineCount int       `json:"safetyDeclineCount"`
	CompletedCount     int       `json:"completedCount"`
}

// ExpireHeldResponse reports how many held missions were expired.
type ExpireHeldResponse struct {
	Expired int `json:"expired"`
}
