package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrUnbalanced indicates debit != credit.
	ErrUnbalanced = errors.New("accounting: transaction entries must balance")
	// ErrTooFewEntries indicates a transaction with no usable entries.
	ErrTooFewEntries = errors.New("accounting: transaction requires at least two entries")
	// ErrDuplicateCode indicates the account code is already taken.
	ErrDuplicateCode = errors.New("accounting: account code already exists")
	// ErrCircularParent indicates a parent assignment that would create a cycle.
	ErrCircularParent = errors.New("accounting: circular parent reference")
	// ErrTypeMismatch indicates parent and child account types differ.
	ErrTypeMismatch = errors.New("accounting: parent account type mismatch")
	// ErrSeededAccount indicates a mutation attempt on a system account.
	ErrSeededAccount = errors.New("accounting: seeded account is protected")
	// ErrAccountHasChildren blocks deletion of an account with children.
	ErrAccountHasChildren = errors.New("accounting: account has child accounts")
	// ErrAccountHasEntries blocks deletion and type changes once entries exist.
	ErrAccountHasEntries = errors.New("accounting: account has ledger entries")
	// ErrAccountNotFound indicates a missing account.
	ErrAccountNotFound = errors.New("accounting: account not found")
	// ErrSystemAccountMissing indicates a required system account is absent at posting time.
	ErrSystemAccountMissing = errors.New("accounting: required system account missing")
	// ErrTransactionMissing indicates a business record references a transaction that cannot be found.
	ErrTransactionMissing = errors.New("accounting: linked transaction not found")
	// ErrRecordNotFound indicates a missing business record.
	ErrRecordNotFound = errors.New("accounting: record not found")
)

// ValidationError carries field-level detail for malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("accounting: %s", e.Message)
	}
	return fmt.Sprintf("accounting: %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsConflict reports whether err belongs to the conflict family.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateCode) ||
		errors.Is(err, ErrCircularParent) ||
		errors.Is(err, ErrTypeMismatch)
}

// IsProtected reports whether err belongs to the protected-resource family.
func IsProtected(err error) bool {
	return errors.Is(err, ErrSeededAccount) ||
		errors.Is(err, ErrAccountHasChildren) ||
		errors.Is(err, ErrAccountHasEntries)
}

// IsConsistency reports whether err indicates ledger inconsistency.
func IsConsistency(err error) bool {
	return errors.Is(err, ErrSystemAccountMissing) ||
		errors.Is(err, ErrTransactionMissing)
}
