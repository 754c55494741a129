package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"croracle/internal/core"
	"croracle/internal/log"
)

// UploadIDHeader carries the id under which an upload was logged.
const UploadIDHeader = "X-Upload-ID"

// statsPage is the data of stats.html.
type statsPage struct {
	UploadID string
	FileName string
	Notice   string
	Bundle   core.Bundle
}

type uploadResult struct {
	ID     string
	Upload *Upload
	Bundle core.Bundle
}

// handleUpload renders the stats page of an uploaded export, or the form
// with an error message.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		_ = MethodNotAllowed("POST").Write(w)
		return
	}

	res, err := s.processUpload(w, r)
	if err != nil {
		ue := classifyError(err)
		s.renderForm(w, r, ue.Status, ue.Message)
		return
	}
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	page := statsPage{
		UploadID: res.ID,
		FileName: res.Upload.Name,
		Notice:   currencyNotice(res.Bundle),
		Bundle:   res.Bundle,
	}
	err = NewResponse().
		Header(UploadIDHeader, res.ID).
		HTML(s.templates, "stats.html", page).
		Write(w)
	if err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).ErrorContext(r.Context(), "Stats template execution failed",
			log.FieldUploadID, res.ID, log.FieldError, err, log.FieldOperation, log.OpRender)
	}
}

// handleAPIStats returns the bundle of an uploaded export as JSON.
func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		_ = MethodNotAllowed("POST").Write(w)
		return
	}

	res, err := s.processUpload(w, r)
	if err != nil {
		ue := classifyError(err)
		_ = ErrorJSON(ue.Status, ue.Message, ue.Kind).Write(w)
		return
	}
	_ = NewResponse().Header(UploadIDHeader, res.ID).JSON(res.Bundle).Write(w)
}

// processUpload reads the uploaded file and composes its bundle, logging the
// outcome either way.
func (s *Server) processUpload(w http.ResponseWriter, r *http.Request) (*uploadResult, error) {
	ctx := r.Context()
	logger := log.FromContext(ctx).WithComponent(log.ComponentUpload)
	start := time.Now()
	id := uuid.NewString()

	up, err := ParseUpload(w, r, s.maxUpload)
	if err != nil {
		ue := classifyError(err)
		logger.WarnContext(ctx, "Upload rejected",
			log.NewFields().
				WithOperation(log.OpUpload).
				WithError(err, ue.Kind).
				ToSlice()...)
		return nil, err
	}

	fields := log.NewFields().WithUpload(id, up.Name, up.Size).WithOperation(log.OpCompose)
	bundle, err := s.compose(up.Data)
	duration := time.Since(start)
	if err != nil {
		ue := classifyError(err)
		fields = fields.WithError(err, ue.Kind)
		fields[log.FieldDuration] = duration.Milliseconds()
		if ue.Status >= http.StatusInternalServerError {
			logger.ErrorContext(ctx, "Upload processing failed", fields.ToSlice()...)
		} else {
			logger.WarnContext(ctx, "Upload processing failed", fields.ToSlice()...)
		}
		return nil, err
	}

	if len(bundle.CurrencyMismatch) > 0 {
		logger.WarnContext(ctx, "Mixed native currencies",
			log.FieldUploadID, id,
			log.FieldCurrency, bundle.NativeCurrency,
			"other_currencies", strings.Join(bundle.CurrencyMismatch, ","))
	}

	fields[log.FieldRows] = bundle.Counts.Rows
	fields[log.FieldCurrency] = bundle.NativeCurrency
	fields[log.FieldPurchases] = bundle.TotalPurchases.Native.String()
	fields[log.FieldEarnings] = bundle.TotalEarnings.Native.String()
	fields[log.FieldDuration] = duration.Milliseconds()
	logger.InfoContext(ctx, "Upload processed", fields.ToSlice()...)

	return &uploadResult{ID: id, Upload: up, Bundle: bundle}, nil
}

// compose runs the composer, turning a panic into a processing error.
func (s *Server) compose(data []byte) (b core.Bundle, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			b = core.Bundle{}
			err = &core.ProcessingError{Kind: "panic", Err: fmt.Errorf("%v", rec)}
		}
	}()
	return s.composer.ComposeReader(bytes.NewReader(data))
}

func currencyNotice(b core.Bundle) string {
	if len(b.CurrencyMismatch) == 0 {
		return ""
	}
	return fmt.Sprintf("Figures are summed in %s, but rows in %s were also found.",
		b.NativeCurrency, strings.Join(b.CurrencyMismatch, ", "))
}
