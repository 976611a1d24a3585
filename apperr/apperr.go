// Package apperr is the error taxonomy shared by every handler. Validation
// and authorization failures are produced at the API boundary; persistence
// errors propagate up unmodified and are translated (and logged) exactly once
// in Respond.
package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Kind int

const (
	KindValidation Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindDependency
	KindPersistence
)

type Error struct {
	Kind    Kind
	Message string
	Fields  []string // offending fields, validation only
	Err     error    // wrapped cause, logged but never returned to the caller
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: "missing or invalid fields", Fields: fields}
}

func ValidationMsg(msg string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: "authentication required"}
}

func Forbidden() *Error {
	return &Error{Kind: KindForbidden, Message: "insufficient permissions"}
}

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Dependency(msg string, err error) *Error {
	return &Error{Kind: KindDependency, Message: msg, Err: err}
}

func status(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes the JSON error body for err. Unrecognized errors are treated
// as persistence failures: full detail goes to the log, the caller sees a
// generic message.
func Respond(c *gin.Context, log *zap.Logger, err error) {
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Kind == KindDependency && ae.Err != nil {
			log.Error("dependency failure", zap.String("path", c.FullPath()), zap.Error(ae.Err))
		}
		body := gin.H{"error": ae.Message}
		if len(ae.Fields) > 0 {
			body["fields"] = ae.Fields
		}
		c.JSON(status(ae.Kind), body)
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	log.Error("database error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
}
