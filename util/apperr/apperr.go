// Package apperr holds the coded errors the circulation services return.
// Controllers switch on the code; the detail fields carry enough structure
// for a caller to render its own message.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeNotFound            Code = "NOT_FOUND"
	CodePatronInactive      Code = "PATRON_INACTIVE"
	CodeItemNotAvailable    Code = "ITEM_NOT_AVAILABLE"
	CodePolicyNotFound      Code = "POLICY_NOT_FOUND"
	CodeLoanNotActive       Code = "LOAN_NOT_ACTIVE"
	CodeRenewalNotAllowed   Code = "RENEWAL_NOT_ALLOWED"
	CodeRenewalLimitReached Code = "RENEWAL_LIMIT_REACHED"
	CodeInvalidPayment      Code = "INVALID_PAYMENT"
	CodeInvalidInput        Code = "INVALID_INPUT"
	CodeDuplicate           Code = "DUPLICATE"
)

type Error struct {
	Code Code

	// What names the entity for NotFound/Duplicate errors and carries the
	// message for InvalidInput.
	What string
	// Status is the current item status for ItemNotAvailable.
	Status string
	// Category and ItemType identify the unmatched pair for PolicyNotFound.
	Category string
	ItemType string
	// Max is the configured renewal limit for RenewalLimitReached.
	Max int
}

func (e *Error) Error() string {
	switch e.Code {
	case CodeNotFound:
		return fmt.Sprintf("%s not found", e.What)
	case CodePatronInactive:
		return "patron is not active"
	case CodeItemNotAvailable:
		return fmt.Sprintf("item is not available (status=%s)", e.Status)
	case CodePolicyNotFound:
		return fmt.Sprintf("no issuing policy for category %q and item type %q", e.Category, e.ItemType)
	case CodeLoanNotActive:
		return "loan is not active"
	case CodeRenewalNotAllowed:
		return "renewals are not allowed by policy"
	case CodeRenewalLimitReached:
		return fmt.Sprintf("renewal limit reached (%d)", e.Max)
	case CodeInvalidPayment:
		return "invalid payment amount"
	case CodeInvalidInput:
		return e.What
	case CodeDuplicate:
		return fmt.Sprintf("%s already exists", e.What)
	}
	return string(e.Code)
}

func NotFound(what string) error { return &Error{Code: CodeNotFound, What: what} }

func PatronInactive() error { return &Error{Code: CodePatronInactive} }

func ItemNotAvailable(status string) error {
	return &Error{Code: CodeItemNotAvailable, Status: status}
}

func PolicyNotFound(category, itemType string) error {
	return &Error{Code: CodePolicyNotFound, Category: category, ItemType: itemType}
}

func LoanNotActive() error { return &Error{Code: CodeLoanNotActive} }

func RenewalNotAllowed() error { return &Error{Code: CodeRenewalNotAllowed} }

func RenewalLimitReached(max int) error {
	return &Error{Code: CodeRenewalLimitReached, Max: max}
}

func InvalidPayment() error { return &Error{Code: CodeInvalidPayment} }

// InvalidInput tags a service-level validation failure so controllers can
// map it to a 400 without sniffing the message.
func InvalidInput(msg string) error { return &Error{Code: CodeInvalidInput, What: msg} }

func Duplicate(what string) error { return &Error{Code: CodeDuplicate, What: what} }

// CodeOf extracts the error code, or "" for uncoded errors.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// Get returns the coded error itself so callers can read detail fields.
func Get(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
