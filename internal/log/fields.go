package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldUserID      = "user_id"
	FieldYear        = "year"
	FieldMonthIndex  = "month_index"
	FieldEntryID     = "entry_id"
	FieldEntryType   = "entry_type"
	FieldAmount      = "amount"
	FieldInstallment = "installment_id"
	FieldPaid        = "paid"
	FieldSignature   = "signature"
	FieldDuration    = "duration_ms"
	FieldRecipient   = "recipient"
	FieldSubject     = "subject"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStore    = "store"
	ComponentPersist  = "persist"
	ComponentLocal    = "local_store"
	ComponentRemote   = "remote_store"
	ComponentAuth     = "auth"
	ComponentNotify   = "notify"
	ComponentReminder = "reminder"
	ComponentAMQP     = "amqp"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpClear    = "clear"
	OpToggle   = "toggle"
	OpHydrate  = "hydrate"
	OpFlush    = "flush"
	OpSave     = "save"
	OpLoad     = "load"
	OpSend     = "send"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
