package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/prospector/internal/dto"
	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/service"
	"github.com/octobees/prospector/internal/service/pipeline"
)

// Scraper verifies caller-supplied companies.
type Scraper interface {
	Scrape(ctx context.Context, companies []entity.Candidate) []entity.VerificationRecord
}

// ScrapeResult is the payload returned by the scrape endpoints.
type ScrapeResult struct {
	Results      []entity.VerificationRecord `json:"results"`
	Total        int                         `json:"total"`
	Scraped      int                         `json:"scraped"`
	SuccessCount int                         `json:"success_count"`
}

// ScrapeHandler verifies a fixed list of companies without searching.
type ScrapeHandler struct {
	scraper Scraper
}

// NewScrapeHandler constructs a scrape handler.
func NewScrapeHandler(scraper Scraper) *ScrapeHandler {
	return &ScrapeHandler{scraper: scraper}
}

// Scrape handles POST /scrape requests.
func (h *ScrapeHandler) Scrape(c echo.Context) error {
	var req dto.ScrapeRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	return h.scrape(c, req)
}

// UploadCSV handles POST /scrape/upload requests carrying a company_name,url CSV.
func (h *ScrapeHandler) UploadCSV(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, http.StatusBadRequest, "missing csv file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "unable to open file")
	}
	defer file.Close()

	req, err := service.ParseCompaniesCSV(file)
	if err != nil {
		return serviceError(c, err, "failed to process csv")
	}
	return h.scrape(c, req)
}

func (h *ScrapeHandler) scrape(c echo.Context, req dto.ScrapeRequest) error {
	candidates, err := service.ScrapeCandidates(req)
	if err != nil {
		return serviceError(c, err, "invalid companies")
	}

	records := h.scraper.Scrape(c.Request().Context(), candidates)
	result := ScrapeResult{Results: records, Total: len(candidates)}
	for _, rec := range records {
		if rec.ErrorKind != entity.ErrorKindExcluded {
			result.Scraped++
		}
		if rec.ContactURL != "" || rec.Phone != "" {
			result.SuccessCount++
		}
	}
	return Success(c, http.StatusOK, "scrape completed", result)
}

var _ Scraper = (*pipeline.Controller)(nil)
