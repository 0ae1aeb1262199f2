package middlewares

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/xxh3"

	"tolet.dev/backend/internal/constant"
	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/util/rekuest"
)

type IdempotencyConfig struct {
	// Lifetime is the maximum lifetime of an idempotency key.
	Lifetime time.Duration

	// KeyHeader is the name of the header that contains the idempotency key.
	KeyHeader string

	// KeepResponseHeaders is a list of headers that should be kept from the original response.
	// By default, all headers are kept.
	KeepResponseHeaders []string

	keepResponseHeadersMap map[string]struct{}

	// Storage is the storage backend for the idempotency key & its response data.
	Storage fiber.Storage

	// RedSync serializes concurrent requests carrying the same key. Without
	// it, concurrent duplicates may both reach the handler.
	RedSync *redsync.Redsync

	// Scope returns a per-caller namespace for keys so that two callers
	// choosing the same key never share a response.
	//
	// Optional. Default: nil
	Scope func(c *fiber.Ctx) string

	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool
}

type idempotencyResponse struct {
	// Fingerprint is the xxh3 digest of the request body the response was
	// produced for.
	Fingerprint uint64
	StatusCode  int
	Headers     map[string]string
	Body        []byte
}

func Idempotency(config *IdempotencyConfig) fiber.Handler {
	config.keepResponseHeadersMap = make(map[string]struct{})
	for _, header := range config.KeepResponseHeaders {
		config.keepResponseHeadersMap[strings.ToLower(header)] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		// Don't execute middleware if Next returns true
		if config.Next != nil && config.Next(c) {
			return c.Next()
		}

		// Don't execute middleware if the idempotent key is missing
		key := c.Get(config.KeyHeader)
		if key == "" {
			if l := log.Trace(); l.Enabled() {
				l.
					Str("evt.name", "http.idempotency.no_key").
					Msg("idempotency key is missing. Skipping middleware.")
			}
			return c.Next()
		}

		if err := rekuest.Validate.Var(key, "max="+strconv.Itoa(constant.IdempotencyKeyLengthLimit)+",alphanum"); err != nil {
			if l := log.Trace(); l.Enabled() {
				l.
					Err(err).
					Str("evt.name", "http.idempotency.invalid_key").
					Msg("idempotency key is invalid. Returning error.")
			}
			return apperr.ErrInvalidReq.Msg("invalid idempotency key: idempotency key can only be at most %d characters, consist of only alphanumeric characters", constant.IdempotencyKeyLengthLimit)
		}

		c.Locals(constant.IdempotencyKeyLocalsKey, key)

		storageKey := key
		if config.Scope != nil {
			storageKey = config.Scope(c) + ":" + key
		}
		fingerprint := xxh3.Hash(c.Body())

		// First-pass: if the idempotency key is in the storage, get and return the response
		if exist, err := checkWriteIdempotencyCachedMessage(c, config, storageKey, fingerprint); exist {
			return err
		}

		if config.RedSync != nil {
			if l := log.Debug(); l.Enabled() {
				l.
					Str("evt.name", "http.idempotency.lock").
					Str("key", storageKey).
					Msg("idempotency key not found in storage. Locking key.")
			}

			mutex := config.RedSync.NewMutex("mutex:idempotency-request:"+storageKey, redsync.WithExpiry(time.Minute), redsync.WithTries(5), redsync.WithRetryDelay(time.Millisecond*250))
			if err := mutex.LockContext(c.UserContext()); err != nil {
				log.Err(err).
					Str("evt.name", "http.idempotency.lock.failed").
					Str("key", storageKey).
					Msg("failed to lock idempotency key. Returning error.")
				return apperr.ErrConflict.Msg("idempotency key is locked by another request; are you sending the same request concurrently or retrying with little or no backoff?")
			}

			defer func() {
				if _, err := mutex.Unlock(); err != nil {
					log.Err(err).
						Str("evt.name", "http.idempotency.unlock.failed").
						Str("key", storageKey).
						Msg("failed to unlock idempotency key.")
				}
			}()

			// Lock acquired. Check again in case the holder before us saved a response.
			if exist, err := checkWriteIdempotencyCachedMessage(c, config, storageKey, fingerprint); exist {
				return err
			}
		}

		if err := c.Next(); err != nil {
			// failed requests may be retried with the same key
			if l := log.Trace(); l.Enabled() {
				l.
					Str("evt.name", "http.idempotency.handler.error").
					Msg("request handler returned an error. Skipping saving the idempotency response.")
			}
			return err
		}

		responseBytes, err := marshalResponseToBytes(c, config, fingerprint)
		if err != nil {
			log.Error().
				Str("evt.name", "http.idempotency.response.marshal.failed").
				Err(err).
				Msg("error marshaling response to bytes. Skipping saving the idempotency response.")
			return err
		}

		if err := config.Storage.Set(storageKey, responseBytes, config.Lifetime); err != nil {
			log.Error().
				Str("evt.name", "http.idempotency.response.save.failed").
				Err(err).
				Msg("error saving the idempotency response. Skipping saving the idempotency response.")
			return err
		}

		c.Set(constant.IdempotencyHeader, "saved")

		if l := log.Debug(); l.Enabled() {
			l.
				Str("evt.name", "http.idempotency.saved").
				Str("key", storageKey).
				Msg("idempotency response saved")
		}

		return nil
	}
}

func marshalResponseToBytes(c *fiber.Ctx, conf *IdempotencyConfig, fingerprint uint64) ([]byte, error) {
	response := idempotencyResponse{
		Fingerprint: fingerprint,
		StatusCode:  c.Response().StatusCode(),
		Headers:     make(map[string]string),
	}

	c.Response().Header.VisitAll(func(k, v []byte) {
		header := string(k)
		if strings.EqualFold(header, fiber.HeaderContentLength) {
			return
		}
		if conf.KeepResponseHeaders != nil {
			if _, ok := conf.keepResponseHeadersMap[strings.ToLower(header)]; !ok {
				return
			}
		}
		response.Headers[header] = string(v)
	})

	if body := c.Response().Body(); body != nil {
		response.Body = body
	}

	return msgpack.Marshal(response)
}

func unmarshalResponseToFiberResponse(c *fiber.Ctx, response *idempotencyResponse) error {
	c.Status(response.StatusCode)

	for header, value := range response.Headers {
		c.Set(header, value)
	}

	c.Set(constant.IdempotencyHeader, "hit")

	if len(response.Body) > 0 {
		return c.Send(response.Body)
	}

	return nil
}

func checkWriteIdempotencyCachedMessage(c *fiber.Ctx, conf *IdempotencyConfig, key string, fingerprint uint64) (bool, error) {
	raw, err := conf.Storage.Get(key)
	if err != nil || raw == nil {
		return false, nil
	}

	var response idempotencyResponse
	if err := msgpack.Unmarshal(raw, &response); err != nil {
		log.Warn().
			Err(err).
			Str("evt.name", "http.idempotency.response.corrupted").
			Str("key", key).
			Msg("stored idempotency response is unreadable; treating as miss")
		return false, nil
	}

	if response.Fingerprint != fingerprint {
		return true, apperr.ErrConflict.Msg("idempotency key has already been used with a different request body")
	}

	if l := log.Debug(); l.Enabled() {
		l.
			Str("evt.name", "http.idempotency.hit").
			Str("key", key).
			Msg("idempotency key found in storage")
	}
	return true, unmarshalResponseToFiberResponse(c, &response)
}
