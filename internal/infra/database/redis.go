package database

import (
	"github.com/redis/go-redis/v9"
)

// NewRedis creates the client backing the valuation cache and the alert
// pub/sub channels.
func NewRedis(addr string, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
