package errx

import (
	"context"
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// WrapRedis maps Redis errors onto AppError. A missing key is 404, a
// timed-out command 504, anything else a storage failure.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, redis.Nil):
		return New(err, http.StatusNotFound, RedisNotFoundMessage)
	case errors.Is(err, context.DeadlineExceeded):
		return newKind(ErrStorage, err, http.StatusGatewayTimeout, RedisErrorMessage)
	default:
		return newKind(ErrStorage, err, http.StatusBadGateway, RedisErrorMessage)
	}
}
