package customerr

import "github.com/pkg/errors"

// LedgerError is returned by ledger backends. Msg is safe to show to the user.
type LedgerError struct {
	Msg string
	Err error
}

func (e *LedgerError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

func NewLedgerError(msg string, err error) error {
	return &LedgerError{Msg: msg, Err: err}
}

// SummaryError is returned by a ledger that stored the transaction but could
// not produce the debt report afterwards.
type SummaryError struct {
	Msg string
	Err error
}

func (e *SummaryError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *SummaryError) Unwrap() error {
	return e.Err
}

func NewSummaryError(msg string, err error) error {
	return &SummaryError{Msg: msg, Err: err}
}

// IsSaved reports whether err still means the transaction was stored.
func IsSaved(err error) bool {
	var summaryErr *SummaryError
	return errors.As(err, &summaryErr)
}

// UserMessage returns the human-readable part of a ledger error,
// or the whole error text for anything else.
func UserMessage(err error) string {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Msg
	}
	var summaryErr *SummaryError
	if errors.As(err, &summaryErr) {
		return summaryErr.Msg
	}
	return err.Error()
}
