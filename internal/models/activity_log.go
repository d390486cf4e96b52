package models

import "time"

type ActivityLog struct {
	ID        string    `json:"id"`
	ProjectID *string   `json:"projectId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
