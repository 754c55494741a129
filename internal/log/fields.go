package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldUploadID  = "upload_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldErrorKind = "error_kind"
	FieldOperation = "operation"
	FieldFileName  = "file_name"
	FieldFileSize  = "file_size"
	FieldRows      = "rows"
	FieldPurchases = "purchases_native"
	FieldEarnings  = "earnings_native"
	FieldCurrency  = "native_currency"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentUpload    = "upload"
	ComponentStats     = "stats"
	ComponentReport    = "report"
	ComponentRateLimit = "rate_limit"
	ComponentTemplate  = "template"
)

// Operations defines standard operation names
const (
	OpUpload   = "upload"
	OpCompose  = "compose"
	OpRender   = "render"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeFormat     = "format_error"
	ErrorTypeSchema     = "schema_error"
	ErrorTypeProcessing = "processing_error"
	ErrorTypeValidation = "validation_error"
	ErrorTypeTooLarge   = "too_large_error"
	ErrorTypeInternal   = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error and error kind fields
func (f LogFields) WithError(err error, kind string) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorKind] = kind
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithUpload adds the uploaded file fields
func (f LogFields) WithUpload(uploadID, fileName string, size int64) LogFields {
	f[FieldUploadID] = uploadID
	f[FieldFileName] = fileName
	f[FieldFileSize] = size
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
