package models

// RejectReason is the machine-readable outcome of a rejected notification.
type RejectReason string

const (
	ReasonUnauthenticated       RejectReason = "unauthenticated"
	ReasonMalformed             RejectReason = "malformed"
	ReasonUnparseable           RejectReason = "unparseable"
	ReasonUserNotFound          RejectReason = "user_not_found"
	ReasonNoMatchingTransaction RejectReason = "no_matching_transaction"
	ReasonNotSuccessful         RejectReason = "not_successful"
	ReasonInternalFault         RejectReason = "internal_fault"
)

type ReconciliationResult struct {
	Accepted    bool
	Transaction *DepositTransaction
	Reason      RejectReason
	Duplicate   bool // already applied, nothing written
	Credited    bool // this call moved money into the balance
	Message     string
}

// Outcome is the label used for metrics.
func (r ReconciliationResult) Outcome() string {
	switch {
	case r.Accepted && r.Duplicate:
		return "duplicate"
	case r.Accepted:
		return "accepted"
	default:
		return string(r.Reason)
	}
}
