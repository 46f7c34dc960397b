package entity

// RawHit is a single organic search result as returned by the search API.
type RawHit struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Candidate is a search hit that survived filtering. Domain is the run-wide identity.
type Candidate struct {
	CompanyName string `json:"company_name"`
	URL         string `json:"url"`
	Domain      string `json:"domain"`
}

// FetchOutcome describes the result of fetching a single page.
type FetchOutcome struct {
	Succeeded  bool
	HTTPStatus int
	FinalURL   string
	Body       string
}
