package entity

import (
	"time"

	"github.com/google/uuid"
)

// Run captures one execution of the qualification pipeline.
type Run struct {
	ID             uuid.UUID  `json:"id"`
	Keyword        string     `json:"keyword"`
	Queries        []string   `json:"queries"`
	TargetCount    int        `json:"target_count"`
	Searched       int        `json:"searched"`
	Candidates     int        `json:"candidates"`
	Verified       int        `json:"verified"`
	Confirmed      int        `json:"confirmed"`
	SpreadsheetURL *string    `json:"spreadsheet_url,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

// Prospect is a confirmed company persisted for later retrieval.
type Prospect struct {
	ID          uuid.UUID  `json:"id"`
	RunID       *uuid.UUID `json:"run_id,omitempty"`
	CompanyName string     `json:"company_name"`
	Domain      string     `json:"domain"`
	RootURL     string     `json:"root_url"`
	ContactURL  *string    `json:"contact_url,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	PhoneE164   *string    `json:"phone_e164,omitempty"`
	Guessed     bool       `json:"guessed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
