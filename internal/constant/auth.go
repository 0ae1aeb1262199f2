package constant

const (
	// SessionAuthorizationRealm is the prefix of the session token in the
	// `Authorization` header.
	SessionAuthorizationRealm = "Bearer"

	// LocalsKeyRequester is the fiber locals key holding the resolved
	// visibility.Requester of a request.
	LocalsKeyRequester = "requester"

	// AuthRateLimitWindowSec is the sliding window of the auth route limiter, in seconds.
	AuthRateLimitWindowSec = 60
)
