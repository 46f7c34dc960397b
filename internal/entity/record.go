package entity

// Status is the qualification state of a candidate within a run.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusRejected  Status = "rejected"
)

// ErrorKind classifies why a candidate is not (yet) confirmed.
type ErrorKind string

const (
	ErrorKindNone            ErrorKind = ""
	ErrorKindFetchFailed     ErrorKind = "fetch_failed"
	ErrorKindMismatch        ErrorKind = "mismatch"
	ErrorKindContactNotFound ErrorKind = "contact_not_found"
	ErrorKindExcluded        ErrorKind = "excluded"
)

// VerificationRecord is the outcome of verifying one candidate.
type VerificationRecord struct {
	Candidate
	RootURL    string    `json:"root_url"`
	Status     Status    `json:"status"`
	ContactURL string    `json:"contact_url"`
	Phone      string    `json:"phone"`
	PhoneE164  string    `json:"phone_e164,omitempty"`
	ErrorKind  ErrorKind `json:"error,omitempty"`
	// Guessed is set when ContactURL was synthesised rather than discovered.
	Guessed bool `json:"guessed,omitempty"`
}

// Promote marks a pending record confirmed, guessing the contact path when none was found.
func (r *VerificationRecord) Promote() {
	r.Status = StatusConfirmed
	if r.ContactURL == "" {
		r.ContactURL = r.RootURL + "/contact"
		r.Guessed = true
	}
	r.ErrorKind = ErrorKindNone
}
