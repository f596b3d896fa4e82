package dto

import "time"

type AuditLogView struct {
	ID        uint64         `json:"id"`
	ActorID   uint           `json:"actor_id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

type AuditTrailResponse struct {
	Entries    []AuditLogView `json:"entries"`
	TotalCount int            `json:"total_count"`
}
