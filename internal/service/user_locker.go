package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// UserLocker serializa los chats de un mismo usuario. Sin él, dos chats concurrentes
// pueden leer ventanas solapadas y mezclar el orden del historial.
type UserLocker interface {
	Lock(ctx context.Context, username string) (func(), error)
}

// NoopUserLocker no serializa nada.
type NoopUserLocker struct{}

func (NoopUserLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

const redisUnlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

var ErrLockNotAcquired = errors.New("chat lock not acquired")

type redisLockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisUserLocker struct {
	client redisLockClient
	ttl    time.Duration
	poll   time.Duration
	prefix string
}

// NewRedisUserLocker devuelve un NoopUserLocker si client es nil.
func NewRedisUserLocker(client *redis.Client, ttl time.Duration) UserLocker {
	if client == nil {
		return NoopUserLocker{}
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisUserLocker{
		client: client,
		ttl:    ttl,
		poll:   50 * time.Millisecond,
		prefix: "chat:lock:",
	}
}

// Lock espera hasta tomar la llave del usuario o hasta que ctx termine.
// El TTL libera la llave si el proceso muere con el lock tomado.
func (l *redisUserLocker) Lock(ctx context.Context, username string) (func(), error) {
	key := l.prefix + username
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrLockNotAcquired, ctx.Err())
		case <-time.After(l.poll):
		}
	}
}

// release borra la llave solo si todavía pertenece a token.
func (l *redisUserLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = l.client.Eval(ctx, redisUnlockScript, []string{key}, token).Err()
}
