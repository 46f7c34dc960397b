package dto

// ScrapeCompany is one caller-supplied company to verify.
type ScrapeCompany struct {
	CompanyName string `json:"company_name"`
	URL         string `json:"url"`
}

// ScrapeRequest is the payload used by the scraping endpoint.
type ScrapeRequest struct {
	Companies []ScrapeCompany `json:"companies"`
}
