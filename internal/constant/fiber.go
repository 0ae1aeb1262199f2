package constant

const (
	ContextKeyRequestID = "requestid"

	IdempotencyHeader    = "X-Tolet-Idempotency"
	IdempotencyKeyHeader = "X-Tolet-Idempotency-Key"

	IdempotencyKeyLengthLimit = 128
	IdempotencyKeyLocalsKey   = "idempotencyKey"

	LocalsKeyTranslator = "T"
)
