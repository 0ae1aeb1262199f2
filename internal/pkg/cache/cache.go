package cache

import (
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("cache: key not found")

// client backs every Set. It is assigned once during app start.
var client *redis.Client

func Use(c *redis.Client) {
	client = c
}
