// Package errs wraps cockroachdb/errors so the rest of the codebase
// never imports it directly. Mark attaches a sentinel (see
// domain_errors.go) that errors.Is can match at the handler layer
// while the wrapped cause keeps its stack for logging.
package errs

import (
	cr "github.com/cockroachdb/errors"
)

func New(msg string) error {
	return cr.New(msg)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}
