package pipeline

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/metrics"
	"github.com/octobees/prospector/internal/normalize"
	"github.com/octobees/prospector/internal/service/candidate"
	"github.com/octobees/prospector/internal/service/contact"
	"github.com/octobees/prospector/internal/service/identity"
	"github.com/octobees/prospector/internal/service/phone"
)

// ErrInvalidInput is returned when a run has neither queries nor a target.
var ErrInvalidInput = errors.New("pipeline: no queries and no target count")

// Searcher returns one page of organic results for a query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]entity.RawHit, error)
}

// PageFetcher retrieves a single page; failures are reported in the outcome.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) entity.FetchOutcome
}

// Options tunes search page size and verification concurrency.
type Options struct {
	PageSize    int
	BatchSize   int
	Concurrency int
	PhoneRegion string
}

const (
	defaultPageSize    = 10
	defaultBatchSize   = 6
	minBatchSize       = 5
	maxBatchSize       = 8
	defaultConcurrency = 8
	minConcurrency     = 5
	maxConcurrency     = 10
)

// phoneFallbackPaths are fetched only when the root and contact pages carry no number.
var phoneFallbackPaths = []string{"/company/", "/about/"}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = defaultPageSize
	}
	if o.BatchSize <= 0 {
		o.BatchSize = defaultBatchSize
	}
	o.BatchSize = min(max(o.BatchSize, minBatchSize), maxBatchSize)
	if o.Concurrency <= 0 {
		o.Concurrency = defaultConcurrency
	}
	o.Concurrency = min(max(o.Concurrency, minConcurrency), maxConcurrency)
	return o
}

// Controller runs the search, filter and verification loop.
type Controller struct {
	searcher   Searcher
	fetcher    PageFetcher
	contacts   *contact.Extractor
	exclusions candidate.Exclusions
	opts       Options
	logger     *zap.Logger
	metrics    *metrics.Pipeline
}

// Option customises a Controller.
type Option func(*Controller)

// WithOptions overrides the tuning knobs.
func WithOptions(o Options) Option {
	return func(c *Controller) { c.opts = o }
}

// WithExclusions replaces candidate.DefaultExclusions as the base table.
func WithExclusions(ex candidate.Exclusions) Option {
	return func(c *Controller) { c.exclusions = ex }
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records run counters.
func WithMetrics(m *metrics.Pipeline) Option {
	return func(c *Controller) { c.metrics = m }
}

// New wires a Controller. searcher may be nil for callers that only use Scrape.
func New(searcher Searcher, fetcher PageFetcher, opts ...Option) *Controller {
	c := &Controller{
		searcher:   searcher,
		fetcher:    fetcher,
		exclusions: candidate.DefaultExclusions(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.opts = c.opts.withDefaults()
	c.contacts = contact.NewExtractor(fetcher, contact.WithLogger(c.logger))
	return c
}

// Request describes one run.
type Request struct {
	Queries     []string
	TargetCount int
	// SeenDomains pre-populates the run's dedup set, e.g. with domains
	// delivered by earlier runs.
	SeenDomains []string
	// Exclusions are appended to the controller's base table for this run.
	Exclusions candidate.Exclusions
	// Keyword, when set, drives up to MaxRetryRounds of RetryQueries once
	// Queries are exhausted and the target is still unmet.
	Keyword string
}

// Counts summarises a run.
type Counts struct {
	Searched   int `json:"searched"`
	Candidates int `json:"candidates"`
	Verified   int `json:"verified"`
	Confirmed  int `json:"confirmed"`
}

// Result is the output of Run.
type Result struct {
	Confirmed []entity.VerificationRecord `json:"confirmed"`
	Pending   []entity.VerificationRecord `json:"pending,omitempty"`
	Rejected  []entity.VerificationRecord `json:"rejected,omitempty"`
	Counts    Counts                      `json:"counts"`
}

// Run executes queries in order until TargetCount companies are confirmed or
// the queries run out, then issues keyword retry rounds, then retries pending
// candidates once and finally promotes the remaining pending candidates with
// a guessed contact URL.
// Per-candidate and per-query failures never abort the run.
func (c *Controller) Run(ctx context.Context, req Request) (Result, error) {
	if len(req.Queries) == 0 && req.TargetCount <= 0 {
		return Result{}, ErrInvalidInput
	}

	filter := candidate.NewFilter(c.exclusions.Merge(req.Exclusions))
	state := newRunState(req.SeenDomains)

	used := make(map[string]struct{}, len(req.Queries))
	runQueries := func(queries []string, round int) {
		for _, query := range queries {
			if state.reached(req.TargetCount) || ctx.Err() != nil {
				return
			}
			used[strings.Join(strings.Fields(query), " ")] = struct{}{}
			state = c.runQuery(ctx, filter, query, req.TargetCount, state)
			c.logger.Info("query finished",
				zap.Int("retry_round", round),
				zap.String("query", query),
				zap.Int("confirmed", len(state.confirmed)),
				zap.Int("pending", len(state.pending)),
			)
		}
	}

	runQueries(req.Queries, 0)
	if req.Keyword != "" {
		for round := 1; round <= MaxRetryRounds && !state.reached(req.TargetCount) && ctx.Err() == nil; round++ {
			runQueries(RetryQueries(req.Keyword, round, used), round)
		}
	}

	if !state.reached(req.TargetCount) && len(state.pending) > 0 && ctx.Err() == nil {
		state = c.retryPending(ctx, req.TargetCount, state)
	}
	state = promote(state, req.TargetCount)

	result := c.result(state, req.TargetCount)
	c.logger.Info("run finished",
		zap.Int("target", req.TargetCount),
		zap.Int("searched", result.Counts.Searched),
		zap.Int("candidates", result.Counts.Candidates),
		zap.Int("verified", result.Counts.Verified),
		zap.Int("confirmed", result.Counts.Confirmed),
	)
	return result, nil
}

func (c *Controller) runQuery(ctx context.Context, filter *candidate.Filter, query string, target int, state runState) runState {
	query = strings.TrimSpace(query)
	if query == "" || c.searcher == nil {
		return state
	}

	hits, err := c.searcher.Search(ctx, query, c.opts.PageSize)
	if err != nil {
		c.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		return state
	}
	state.searched += len(hits)
	c.metrics.AddHits(len(hits))

	candidates, stats := filter.Apply(hits, state.seen)
	state.candidates += len(candidates)
	c.metrics.AddCandidates(len(candidates))
	for reason, n := range stats.Rejected {
		c.metrics.AddFilterRejects(string(reason), n)
	}
	c.logger.Debug("hits filtered",
		zap.String("query", query),
		zap.Int("hits", len(hits)),
		zap.Int("accepted", stats.Accepted),
		zap.Any("rejected", stats.Rejected),
	)

	state, _ = c.verifyUntil(ctx, candidates, target, state)
	return state
}

func (c *Controller) retryPending(ctx context.Context, target int, state runState) runState {
	retry := state.pending
	state.pending = nil

	candidates := make([]entity.Candidate, len(retry))
	for i, rec := range retry {
		candidates[i] = rec.Candidate
	}
	c.logger.Info("retrying pending candidates", zap.Int("count", len(retry)))

	state, done := c.verifyUntil(ctx, candidates, target, state)
	state.pending = append(state.pending, retry[done:]...)
	return state
}

// verifyUntil verifies candidates batch by batch, stopping between batches once
// target is reached. It returns how many candidates were verified.
func (c *Controller) verifyUntil(ctx context.Context, candidates []entity.Candidate, target int, state runState) (runState, int) {
	done := 0
	for done < len(candidates) && !state.reached(target) && ctx.Err() == nil {
		end := min(done+c.opts.BatchSize, len(candidates))
		state = state.absorb(c.verifyBatch(ctx, candidates[done:end]))
		done = end
	}
	return state, done
}

// verifyBatch verifies every candidate concurrently and waits for all of them.
// Results are index-aligned with candidates.
func (c *Controller) verifyBatch(ctx context.Context, candidates []entity.Candidate) []entity.VerificationRecord {
	records := make([]entity.VerificationRecord, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for i, cand := range candidates {
		g.Go(func() error {
			records[i] = c.Verify(gctx, cand)
			return nil
		})
	}
	_ = g.Wait()
	return records
}

// Verify qualifies a single candidate: fetch the root page, check identity,
// locate the contact page and look for a phone number.
func (c *Controller) Verify(ctx context.Context, cand entity.Candidate) entity.VerificationRecord {
	root := normalize.URL(cand.URL)
	if cand.Domain == "" {
		cand.Domain = normalize.Domain(cand.URL)
	}
	rec := entity.VerificationRecord{Candidate: cand, RootURL: root, Status: entity.StatusPending}
	defer func() { c.metrics.ObserveVerification(string(rec.Status), string(rec.ErrorKind)) }()

	top := c.fetcher.Fetch(ctx, root)
	if !top.Succeeded {
		rec.ErrorKind = entity.ErrorKindFetchFailed
		return rec
	}

	if !identity.Verify(cand, top).Accepts() {
		rec.Status = entity.StatusRejected
		rec.ErrorKind = entity.ErrorKindMismatch
		c.logger.Debug("identity mismatch", zap.String("company", cand.CompanyName), zap.String("url", root))
		return rec
	}

	base := root
	if final := normalize.URL(top.FinalURL); strings.Contains(final, "://") {
		base = final
	}

	contactURL, contactBody := c.contacts.FindContactURL(ctx, top.Body, base)
	rec.ContactURL = contactURL

	pages := []phone.Page{{URL: root, Body: top.Body}}
	switch {
	case contactBody != "":
		pages = append(pages, phone.Page{URL: contactURL, Body: contactBody})
	case contactURL != "" && !contact.IsSamePageAnchor(contactURL):
		if out := c.fetcher.Fetch(ctx, contactURL); out.Succeeded {
			pages = append(pages, phone.Page{URL: contactURL, Body: out.Body})
		}
	}
	rec.Phone = phone.Find(pages)
	if rec.Phone == "" {
		for _, path := range phoneFallbackPaths {
			target := base + path
			if out := c.fetcher.Fetch(ctx, target); out.Succeeded {
				pages = append(pages, phone.Page{URL: target, Body: out.Body})
			}
		}
		rec.Phone = phone.Find(pages)
	}
	rec.PhoneE164 = phone.E164(rec.Phone, c.opts.PhoneRegion)

	if rec.ContactURL == "" {
		rec.ErrorKind = entity.ErrorKindContactNotFound
		return rec
	}
	rec.Status = entity.StatusConfirmed
	return rec
}

// promote confirms pending records, in discovery order, until target is met.
func promote(state runState, target int) runState {
	var rest []entity.VerificationRecord
	for _, rec := range state.pending {
		if len(state.confirmed) >= target {
			rest = append(rest, rec)
			continue
		}
		rec.Promote()
		state.confirmed = append(state.confirmed, rec)
	}
	state.pending = rest
	return state
}

func (c *Controller) result(state runState, target int) Result {
	confirmed := state.confirmed
	if target >= 0 && len(confirmed) > target {
		confirmed = confirmed[:target]
	}
	return Result{
		Confirmed: confirmed,
		Pending:   state.pending,
		Rejected:  state.rejected,
		Counts: Counts{
			Searched:   state.searched,
			Candidates: state.candidates,
			Verified:   len(state.verified),
			Confirmed:  len(confirmed),
		},
	}
}
