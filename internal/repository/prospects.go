package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/prospector/internal/dto"
	"github.com/octobees/prospector/internal/entity"
)

// ProspectsRepository describes persistence operations for runs and the
// companies they confirmed.
type ProspectsRepository interface {
	SaveRun(ctx context.Context, run *entity.Run, records []entity.VerificationRecord) (SaveResult, error)
	List(ctx context.Context, filter dto.ProspectFilter) ([]entity.Prospect, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Prospect, error)
	ExistingDomains(ctx context.Context) ([]string, error)
}

// ErrProspectNotFound indicates there is no prospect with the requested id.
var ErrProspectNotFound = errors.New("prospect not found")

// SaveResult summarises the number of prospect rows inserted or updated.
type SaveResult struct {
	Inserted int
	Updated  int
	Total    int
}

// PGXProspectsRepository implements ProspectsRepository using pgx.
type PGXProspectsRepository struct {
	pool pgxPool
}

// NewPGXProspectsRepository wires a pgx backed repository.
func NewPGXProspectsRepository(pool *pgxpool.Pool) *PGXProspectsRepository {
	return &PGXProspectsRepository{pool: pool}
}

const insertRunSQL = `
        INSERT INTO runs (id, keyword, queries, target_count, searched, candidates, verified, confirmed, spreadsheet_url, started_at, finished_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        ON CONFLICT (id) DO UPDATE SET
            searched = EXCLUDED.searched,
            candidates = EXCLUDED.candidates,
            verified = EXCLUDED.verified,
            confirmed = EXCLUDED.confirmed,
            spreadsheet_url = EXCLUDED.spreadsheet_url,
            finished_at = EXCLUDED.finished_at;
    `

const upsertProspectSQL = `
        INSERT INTO prospects (run_id, company_name, domain, root_url, contact_url, phone, phone_e164, guessed, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
        ON CONFLICT (domain) DO UPDATE SET
            run_id = EXCLUDED.run_id,
            company_name = EXCLUDED.company_name,
            root_url = EXCLUDED.root_url,
            contact_url = COALESCE(EXCLUDED.contact_url, prospects.contact_url),
            phone = COALESCE(EXCLUDED.phone, prospects.phone),
            phone_e164 = COALESCE(EXCLUDED.phone_e164, prospects.phone_e164),
            guessed = EXCLUDED.guessed,
            updated_at = NOW()
        RETURNING xmax = 0;
    `

// SaveRun stores the run summary and upserts every confirmed record keyed by
// domain, all in one transaction.
func (r *PGXProspectsRepository) SaveRun(ctx context.Context, run *entity.Run, records []entity.VerificationRecord) (SaveResult, error) {
	var result SaveResult
	if run == nil {
		return result, fmt.Errorf("run payload is nil")
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return result, fmt.Errorf("start save run tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertRunSQL,
		run.ID,
		run.Keyword,
		run.Queries,
		run.TargetCount,
		run.Searched,
		run.Candidates,
		run.Verified,
		run.Confirmed,
		run.SpreadsheetURL,
		run.StartedAt,
		run.FinishedAt,
	); err != nil {
		return result, fmt.Errorf("insert run: %w", err)
	}

	for _, rec := range records {
		if rec.Status != entity.StatusConfirmed || rec.Domain == "" {
			continue
		}
		var inserted bool
		err := tx.QueryRow(ctx, upsertProspectSQL,
			run.ID,
			rec.CompanyName,
			rec.Domain,
			rec.RootURL,
			stringOrNil(rec.ContactURL),
			stringOrNil(rec.Phone),
			stringOrNil(rec.PhoneE164),
			rec.Guessed,
		).Scan(&inserted)
		if err != nil {
			return result, fmt.Errorf("upsert prospect %q: %w", rec.Domain, err)
		}

		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
		result.Total++
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit save run tx: %w", err)
	}
	return result, nil
}

const selectProspectColumns = `
        SELECT id, run_id, company_name, domain, root_url, contact_url, phone, phone_e164, guessed, created_at, updated_at
        FROM prospects
    `

// List retrieves prospects matching the filter, most recently updated first.
func (r *PGXProspectsRepository) List(ctx context.Context, filter dto.ProspectFilter) ([]entity.Prospect, error) {
	query := strings.Builder{}
	query.WriteString(selectProspectColumns)

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.Q != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Q)
		clauses = append(clauses, fmt.Sprintf("(company_name ILIKE $%d OR domain ILIKE $%d)", idx, idx+1))
		args = append(args, pattern, pattern)
		idx += 2
	}
	if filter.Domain != "" {
		clauses = append(clauses, fmt.Sprintf("domain = LOWER($%d)", idx))
		args = append(args, filter.Domain)
		idx++
	}
	if filter.RunID != nil {
		clauses = append(clauses, fmt.Sprintf("run_id = $%d", idx))
		args = append(args, *filter.RunID)
		idx++
	}
	if filter.HasPhone != nil {
		if *filter.HasPhone {
			clauses = append(clauses, "phone IS NOT NULL")
		} else {
			clauses = append(clauses, "phone IS NULL")
		}
	}

	if len(clauses) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(clauses, " AND "))
	}
	query.WriteString(" ORDER BY updated_at DESC, company_name ASC")

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	offset := (page - 1) * perPage
	query.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1))
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list prospects: %w", err)
	}
	defer rows.Close()

	return scanProspects(rows)
}

// FindByID returns a single prospect.
func (r *PGXProspectsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Prospect, error) {
	rows, err := r.pool.Query(ctx, selectProspectColumns+" WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("find prospect: %w", err)
	}
	defer rows.Close()

	prospects, err := scanProspects(rows)
	if err != nil {
		return nil, err
	}
	if len(prospects) == 0 {
		return nil, ErrProspectNotFound
	}
	return &prospects[0], nil
}

// ExistingDomains returns every domain already stored as a prospect.
func (r *PGXProspectsRepository) ExistingDomains(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT domain FROM prospects")
	if err != nil {
		return nil, fmt.Errorf("list prospect domains: %w", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, fmt.Errorf("scan prospect domain: %w", err)
		}
		domains = append(domains, domain)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prospect domains: %w", err)
	}
	return domains, nil
}

func scanProspects(rows pgx.Rows) ([]entity.Prospect, error) {
	var prospects []entity.Prospect
	for rows.Next() {
		var (
			p          entity.Prospect
			contactURL *string
			phone      *string
			phoneE164  *string
		)
		err := rows.Scan(
			&p.ID,
			&p.RunID,
			&p.CompanyName,
			&p.Domain,
			&p.RootURL,
			&contactURL,
			&phone,
			&phoneE164,
			&p.Guessed,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan prospect: %w", err)
		}
		p.ContactURL = nullStringToPtr(contactURL)
		p.Phone = nullStringToPtr(phone)
		p.PhoneE164 = nullStringToPtr(phoneE164)
		prospects = append(prospects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prospects: %w", err)
	}
	return prospects, nil
}

var _ ProspectsRepository = (*PGXProspectsRepository)(nil)
