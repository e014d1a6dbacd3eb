package service

import "errors"

// ErrPersistence is returned by ContactService when the submission store
// fails. The backend error is wrapped alongside it.
var ErrPersistence = errors.New("storing contact submission failed")

// Outcome is the result of a submission that did not fail.
type Outcome int

const (
	// OutcomeAccepted means the submission was stored.
	OutcomeAccepted Outcome = iota
	// OutcomeSpam means the honeypot was filled; nothing was stored or sent.
	OutcomeSpam
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeSpam:
		return "spam"
	default:
		return "unknown"
	}
}
