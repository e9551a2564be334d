package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "vetcare:claim:"

// releaseScript borra la clave sólo si la tiene este guard.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Config struct {
	Addr     string
	Password string
	DB       int
	ClaimTTL time.Duration
}

// Guard implementa notify.SendGuard con SET NX + TTL: un claim vence solo si el
// proceso que lo tomó muere antes de registrar el resultado.
type Guard struct {
	client *goredis.Client
	owner  string
	ttl    time.Duration
}

func NewClient(cfg Config) (*goredis.Client, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("redis addr required")
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), nil
}

func NewGuard(client *goredis.Client, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Guard{
		client: client,
		owner:  uuid.NewString(),
		ttl:    ttl,
	}
}

// Ping verifica la conexión al arrancar.
func (g *Guard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

func (g *Guard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, keyPrefix+key, g.owner, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis claim %s: %w", key, err)
	}
	return ok, nil
}

func (g *Guard) Release(ctx context.Context, key string) error {
	if err := releaseScript.Run(ctx, g.client, []string{keyPrefix + key}, g.owner).Err(); err != nil {
		return fmt.Errorf("redis release %s: %w", key, err)
	}
	return nil
}

func (g *Guard) Close() error {
	return g.client.Close()
}
