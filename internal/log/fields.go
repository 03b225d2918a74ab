package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRunID      = "run_id"
	FieldPeriod     = "period"
	FieldPayoutID   = "payout_id"
	FieldTxnID      = "transaction_id"
	FieldTxnType    = "transaction_type"
	FieldProductID  = "product_id"
	FieldAmount     = "amount_cents"
	FieldAttributed = "attributed_cents"
	FieldSubtotal   = "ledger_total_cents"
	FieldLines      = "lines"
	FieldCount      = "count"
	FieldDuration   = "duration_ms"
	FieldExporter   = "exporter"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldBackend    = "backend"
	FieldAttempt    = "attempt"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentReconcile = "reconcile"
	ComponentResolver  = "resolver"
	ComponentStripe    = "stripe"
	ComponentMemory    = "memory"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentSheets    = "sheets"
	ComponentCache     = "cache"
	ComponentBackend   = "backend"
	ComponentExport    = "export"
	ComponentReport    = "report"
)

// Operations defines standard operation names
const (
	OpList     = "list"
	OpRead     = "read"
	OpResolve  = "resolve"
	OpExport   = "export"
	OpRender   = "render"
	OpValidate = "validate"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRunID(id string) LogFields {
	f[FieldRunID] = id
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds the balance transaction being processed.
func (f LogFields) WithTransaction(payoutID, txnID, txnType string) LogFields {
	f[FieldPayoutID] = payoutID
	f[FieldTxnID] = txnID
	f[FieldTxnType] = txnType
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
