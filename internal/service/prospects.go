package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/prospector/internal/dto"
	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/repository"
)

// ProspectsService exposes read operations over persisted prospects.
type ProspectsService struct {
	repo repository.ProspectsRepository
}

// NewProspectsService creates a new instance of ProspectsService.
func NewProspectsService(repo repository.ProspectsRepository) *ProspectsService {
	return &ProspectsService{repo: repo}
}

// ListProspects returns prospects respecting pagination defaults.
func (s *ProspectsService) ListProspects(ctx context.Context, filter dto.ProspectFilter) ([]entity.Prospect, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}
	filter.Domain = strings.ToLower(strings.TrimSpace(filter.Domain))
	return s.repo.List(ctx, filter)
}

// GetProspect returns a single prospect or repository.ErrProspectNotFound.
func (s *ProspectsService) GetProspect(ctx context.Context, id uuid.UUID) (*entity.Prospect, error) {
	return s.repo.FindByID(ctx, id)
}

var requiredCSVHeaders = []string{"company_name", "url"}

// ParseCompaniesCSV reads a company_name,url CSV into a scrape payload.
// Rows missing either column are skipped.
func ParseCompaniesCSV(r io.Reader) (dto.ScrapeRequest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return dto.ScrapeRequest{}, ValidationError{Message: "csv file is empty"}
		}
		return dto.ScrapeRequest{}, fmt.Errorf("read csv header: %w", err)
	}

	index, err := buildHeaderIndex(header)
	if err != nil {
		return dto.ScrapeRequest{}, err
	}

	var req dto.ScrapeRequest
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return dto.ScrapeRequest{}, fmt.Errorf("read csv row: %w", err)
		}

		name := column(row, index["company_name"])
		url := column(row, index["url"])
		if name == "" || url == "" {
			continue
		}
		req.Companies = append(req.Companies, dto.ScrapeCompany{CompanyName: name, URL: url})
	}
	return req, nil
}

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		// spreadsheet exports often carry a BOM on the first cell
		col = strings.TrimPrefix(col, "\ufeff")
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	missing := make([]string, 0)
	for _, required := range requiredCSVHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, ValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

func column(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
