package dto

import "github.com/google/uuid"

// ProspectFilter contains query parameters for prospect listing endpoints.
type ProspectFilter struct {
	Q        string
	Domain   string
	RunID    *uuid.UUID
	HasPhone *bool
	Page     int
	PerPage  int
}
