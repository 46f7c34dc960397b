package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/octobees/prospector/internal/dto"
	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/repository"
)

type listingRepo struct {
	stubProspects
	filter dto.ProspectFilter
}

func (r *listingRepo) List(ctx context.Context, filter dto.ProspectFilter) ([]entity.Prospect, error) {
	r.filter = filter
	return []entity.Prospect{{CompanyName: "株式会社アルファ"}}, nil
}

func TestProspectsService_ListDefaults(t *testing.T) {
	repo := &listingRepo{}
	svc := NewProspectsService(repo)

	if _, err := svc.ListProspects(context.Background(), dto.ProspectFilter{PerPage: 1000, Domain: " Alpha.Example.JP "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.filter.Page != 1 || repo.filter.PerPage != 100 || repo.filter.Domain != "alpha.example.jp" {
		t.Fatalf("unexpected filter %+v", repo.filter)
	}
	if _, err := svc.GetProspect(context.Background(), uuid.New()); !errors.Is(err, repository.ErrProspectNotFound) {
		t.Fatalf("expected ErrProspectNotFound, got %v", err)
	}
}

func TestParseCompaniesCSV(t *testing.T) {
	input := "\ufeffCompany_Name,URL,note\n株式会社アルファ,https://alpha.example.jp,x\n,https://missing.example.jp\n株式会社ブラボー, bravo.example.jp\n"
	req, err := ParseCompaniesCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.Companies) != 2 {
		t.Fatalf("expected 2 companies, got %+v", req.Companies)
	}
	if req.Companies[1].CompanyName != "株式会社ブラボー" || req.Companies[1].URL != "bravo.example.jp" {
		t.Fatalf("unexpected row %+v", req.Companies[1])
	}

	var verr ValidationError
	if _, err := ParseCompaniesCSV(strings.NewReader("")); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for empty csv, got %v", err)
	}
	if _, err := ParseCompaniesCSV(strings.NewReader("name,link\na,b\n")); !errors.As(err, &verr) || !strings.Contains(verr.Message, "company_name") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}
