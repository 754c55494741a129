package http

import (
	"errors"
	"net/http"

	"croracle/internal/core"
	"croracle/internal/log"
)

// User-facing messages.
const (
	MsgWrongFormat    = "wrong file format"
	MsgNoFile         = "No file selected."
	MsgWrongExtension = "Only .csv files are accepted."
	MsgTooLarge       = "File is too large."
	MsgProcessing     = "Processing error"
)

// uploadError is the user-facing rendition of a failed upload.
type uploadError struct {
	Status  int
	Message string
	Kind    string
}

// classifyError maps an upload or composition error to a status code,
// message and log category. It is the only place that does so.
func classifyError(err error) uploadError {
	var (
		parseErr  *core.ParseError
		dateErr   *core.DateParseError
		amountErr *core.AmountParseError
		procErr   *core.ProcessingError
	)

	switch {
	case errors.Is(err, ErrTooLarge):
		return uploadError{http.StatusRequestEntityTooLarge, MsgTooLarge, log.ErrorTypeTooLarge}
	case errors.Is(err, ErrNoFile):
		return uploadError{http.StatusBadRequest, MsgNoFile, log.ErrorTypeValidation}
	case errors.Is(err, ErrWrongExtension):
		return uploadError{http.StatusBadRequest, MsgWrongExtension, log.ErrorTypeValidation}
	case errors.As(err, &parseErr):
		return uploadError{http.StatusBadRequest, MsgWrongFormat, log.ErrorTypeFormat}
	case errors.Is(err, core.ErrFileMissingColumn):
		return uploadError{http.StatusUnprocessableEntity, core.MissingColumnsMessage, log.ErrorTypeSchema}
	case errors.As(err, &dateErr):
		return uploadError{http.StatusUnprocessableEntity, MsgProcessing + ": " + dateErr.Error(), log.ErrorTypeProcessing}
	case errors.As(err, &amountErr):
		return uploadError{http.StatusUnprocessableEntity, MsgProcessing + ": " + amountErr.Error(), log.ErrorTypeProcessing}
	case errors.As(err, &procErr):
		return uploadError{http.StatusInternalServerError, MsgProcessing + ": " + procErr.Err.Error(), log.ErrorTypeProcessing}
	default:
		return uploadError{http.StatusInternalServerError, MsgProcessing, log.ErrorTypeInternal}
	}
}
