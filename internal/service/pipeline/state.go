package pipeline

import (
	"github.com/octobees/prospector/internal/entity"
)

// runState is the accumulator threaded through every round of a run.
type runState struct {
	seen      map[string]struct{}
	confirmed []entity.VerificationRecord
	pending   []entity.VerificationRecord
	rejected  []entity.VerificationRecord

	searched   int
	candidates int
	verified   map[string]struct{}
}

func newRunState(seed []string) runState {
	seen := make(map[string]struct{}, len(seed))
	for _, d := range seed {
		if d != "" {
			seen[d] = struct{}{}
		}
	}
	return runState{seen: seen, verified: map[string]struct{}{}}
}

// absorb files each record under its status.
func (s runState) absorb(records []entity.VerificationRecord) runState {
	for _, rec := range records {
		if rec.ErrorKind != entity.ErrorKindFetchFailed {
			s.verified[rec.Domain] = struct{}{}
		}
		switch rec.Status {
		case entity.StatusConfirmed:
			s.confirmed = append(s.confirmed, rec)
		case entity.StatusRejected:
			s.rejected = append(s.rejected, rec)
		default:
			s.pending = append(s.pending, rec)
		}
	}
	return s
}

func (s runState) reached(target int) bool {
	return len(s.confirmed) >= target
}
