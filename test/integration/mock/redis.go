package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisOnce sync.Once
var redisMock *Redis

// Redis is an in-process Redis server with a connected client.
type Redis struct {
	Client *redis.Client
	server *miniredis.Miniredis
}

// NewRedis starts the shared server once.
func NewRedis() *Redis {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}

		redisMock = &Redis{
			Client: redis.NewClient(&redis.Options{Addr: server.Addr()}),
			server: server,
		}
	})
	return redisMock
}

// Clear removes every key.
func (r *Redis) Clear() error {
	return r.Client.FlushAll(context.TODO()).Err()
}

// Keys lists the stored keys, sorted.
func (r *Redis) Keys() []string {
	return r.server.Keys()
}

// Stop takes the server down, so clients see it as unavailable.
func (r *Redis) Stop() {
	r.server.Close()
}

// Restart brings a stopped server back on the same address.
func (r *Redis) Restart() error {
	return r.server.Restart()
}
