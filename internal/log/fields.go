package log

// Common field names for structured logging
const (
	FieldComponent      = "component"
	FieldMethod         = "method"
	FieldPath           = "path"
	FieldStatusCode     = "status_code"
	FieldDuration       = "duration_ms"
	FieldSuccess        = "success"
	FieldError          = "error"
	FieldErrorType      = "error_type"
	FieldOperation      = "operation"
	FieldProjectID      = "project_id"
	FieldProjectName    = "project_name"
	FieldMode           = "mode"
	FieldReferenceMonth = "reference_month"
	FieldLocation       = "location"
	FieldRows           = "rows"
	FieldRunID          = "run_id"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentAPI       = "api"
	ComponentJob       = "report_job"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentBackend   = "backend"
	ComponentTransport = "transport"
)

// Operations defines standard operation names
const (
	OpAuthenticate = "authenticate"
	OpFetch        = "fetch"
	OpUpload       = "upload"
	OpDownload     = "download"
	OpList         = "list"
	OpDelete       = "delete"
	OpPublish      = "publish"
	OpMirror       = "mirror"
	OpRecord       = "record"
	OpShutdown     = "shutdown"
	OpStartup      = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeAuth          = "auth_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeInput         = "input_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds the error message and its category.
func (f LogFields) WithError(err error, errorType string) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorType] = errorType
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithProject adds the identifying fields of a construction project.
func (f LogFields) WithProject(id, name string) LogFields {
	f[FieldProjectID] = id
	if name != "" {
		f[FieldProjectName] = name
	}
	return f
}

// WithReport adds report mode and reference month.
func (f LogFields) WithReport(mode, referenceMonth string) LogFields {
	f[FieldMode] = mode
	if referenceMonth != "" {
		f[FieldReferenceMonth] = referenceMonth
	}
	return f
}

// WithHTTP adds outbound request fields.
func (f LogFields) WithHTTP(method, path string, statusCode int, durationMs int64) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode > 0 && statusCode < 400
	return f
}

func (f LogFields) With(key string, value any) LogFields {
	f[key] = value
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
