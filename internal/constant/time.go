package constant

import "time"

const (
	LocationDataMaxAge = time.Hour * 24

	// IdempotencyKeyLifetime is how long a saved response is replayed for its key.
	IdempotencyKeyLifetime = time.Hour * 24
)
