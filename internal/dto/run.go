package dto

// RunRequest is the payload used by the run and job endpoints. Either Keyword
// or Queries must be supplied; Keyword expands into the default query list.
type RunRequest struct {
	Keyword     string   `json:"keyword,omitempty"`
	Queries     []string `json:"queries,omitempty"`
	TargetCount int      `json:"target_count"`
	// ExcludeDomains are appended to the default exclusion table for this run.
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
	// SkipExport disables the spreadsheet export even when a webhook is configured.
	SkipExport bool `json:"skip_export,omitempty"`
}
