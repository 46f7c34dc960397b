package pipeline

import (
	"context"

	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/normalize"
	"github.com/octobees/prospector/internal/service/candidate"
)

// Scrape verifies caller-supplied companies without searching. Every input
// yields one record, in input order; excluded domains are rejected unfetched.
func (c *Controller) Scrape(ctx context.Context, companies []entity.Candidate) []entity.VerificationRecord {
	filter := candidate.NewFilter(c.exclusions)
	records := make([]entity.VerificationRecord, len(companies))

	var (
		toVerify []entity.Candidate
		slots    []int
	)
	for i, cand := range companies {
		cand.Domain = normalize.Domain(cand.URL)
		if cand.Domain == "" || filter.ExcludesDomain(cand.Domain) {
			records[i] = entity.VerificationRecord{
				Candidate: cand,
				RootURL:   normalize.URL(cand.URL),
				Status:    entity.StatusRejected,
				ErrorKind: entity.ErrorKindExcluded,
			}
			continue
		}
		toVerify = append(toVerify, cand)
		slots = append(slots, i)
	}

	for start := 0; start < len(toVerify) && ctx.Err() == nil; start += c.opts.BatchSize {
		end := min(start+c.opts.BatchSize, len(toVerify))
		for j, rec := range c.verifyBatch(ctx, toVerify[start:end]) {
			records[slots[start+j]] = rec
		}
	}
	return records
}
