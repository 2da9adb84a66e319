package erpnext

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed call against the remote API.
type Kind string

const (
	KindTransport    Kind = "transport"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindValidation   Kind = "validation"
	KindServer       Kind = "server"
)

// Error is a failed ERPNext call. Message carries the remote error body so
// callers can diagnose permission and validation failures.
type Error struct {
	Kind    Kind
	Status  int
	Method  string
	Path    string
	Message string
}

func (e *Error) Error() string {
	where := ""
	if e.Method != "" || e.Path != "" {
		where = fmt.Sprintf("%s %s: ", e.Method, e.Path)
	}
	if e.Status == 0 {
		return fmt.Sprintf("erpnext: %s%s: %s", where, e.Kind, e.Message)
	}
	return fmt.Sprintf("erpnext: %s%s (%d): %s", where, e.Kind, e.Status, e.Message)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// kindForStatus maps a remote HTTP status to an error kind. The remote
// platform reports field validation failures as 417.
func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusBadRequest, http.StatusExpectationFailed, http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindServer
	}
}
