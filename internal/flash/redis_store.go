package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"shorturl-go/constant"
)

// RedisStore keeps flashes in Redis with a TTL. Calls go through a circuit
// breaker that opens after five consecutive failures.
type RedisStore struct {
	pool    *redis.Pool
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewRedisStore(pool *redis.Pool, logger *zap.Logger) *RedisStore {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "flash-redis",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &RedisStore{pool: pool, breaker: breaker, logger: logger}
}

func (s *RedisStore) Set(ctx context.Context, id string, f Flash) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return err
	}
	_, err = s.breaker.Execute(func() (interface{}, error) {
		return s.do(ctx, "SET", constant.GetFlashKey(id), payload, "EX", int(TTL.Seconds()))
	})
	return err
}

// Pop reads and deletes the key in one transaction so a flash is shown once.
func (s *RedisStore) Pop(ctx context.Context, id string) (Flash, error) {
	res, err := s.breaker.Execute(func() (interface{}, error) {
		conn, err := s.pool.GetContext(ctx)
		if err != nil {
			return nil, err
		}
		defer s.closeConn(conn)

		key := constant.GetFlashKey(id)
		if err := conn.Send("MULTI"); err != nil {
			return nil, err
		}
		if err := conn.Send("GET", key); err != nil {
			return nil, err
		}
		if err := conn.Send("DEL", key); err != nil {
			return nil, err
		}
		values, err := redis.Values(conn.Do("EXEC"))
		if err != nil {
			return nil, err
		}
		if len(values) == 0 || values[0] == nil {
			return nil, nil
		}
		return redis.Bytes(values[0], nil)
	})
	if err != nil {
		return Flash{}, err
	}

	payload, _ := res.([]byte)
	if len(payload) == 0 {
		return Flash{}, nil
	}
	var f Flash
	if err := json.Unmarshal(payload, &f); err != nil {
		return Flash{}, fmt.Errorf("decode flash: %w", err)
	}
	return f, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return s.do(ctx, "PING")
	})
	return err
}

func (s *RedisStore) do(ctx context.Context, cmd string, args ...interface{}) (interface{}, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, err
	}
	defer s.closeConn(conn)
	return redis.DoContext(conn, ctx, cmd, args...)
}

func (s *RedisStore) closeConn(conn redis.Conn) {
	if err := conn.Close(); err != nil {
		s.logger.Warn("Failed to close Redis connection", zap.Error(err))
	}
}
