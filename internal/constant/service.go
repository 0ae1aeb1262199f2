package constant

const (
	// SlimHeaderKey is to indicate whether the current request shall be ignored by Sentry transaction tracing.
	// This is typically used by probes to avoid useless data being sent to Sentry.
	SlimHeaderKey = "X-Slim"

	ServiceName = "toletbackend"

	// SessionIssuer is the `iss` claim of every session token.
	SessionIssuer = "tolet"
)
