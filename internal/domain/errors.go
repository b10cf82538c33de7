package domain

import "errors"

// Failure kinds. Bad caller input is answered with a 400 directly at the
// handler and a missing record travels as a nil pointer, so neither carries a
// sentinel; these cover the failures that cross package boundaries.
var (
	// ErrExternalAuth marks a social-login token the identity provider rejected.
	ErrExternalAuth = errors.New("external auth invalid")
	// ErrStorage marks a failed key/value or relational store operation.
	// Reported to the caller as a generic server failure, logged with cause.
	ErrStorage = errors.New("storage failure")
	// ErrPaymentGateway marks a rejected customer or charge operation. Usually
	// a bad card, so it surfaces as a client error.
	ErrPaymentGateway = errors.New("payment gateway rejected")
	// ErrInternalInconsistency marks a violated invariant, e.g. a user record
	// with no token mapping. Signals a data-repair need.
	ErrInternalInconsistency = errors.New("internal inconsistency")
)
