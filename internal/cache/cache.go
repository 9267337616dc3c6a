package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"github.com/dharmasatrya/airfare/internal/models"
)

type Cache interface {
	Get(ctx context.Context, key string) (*models.TicketsResponse, bool)
	Set(ctx context.Context, key string, resp *models.TicketsResponse) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     "localhost",
		Port:     "6379",
		Password: "",
		DB:       0,
		TTL:      5 * time.Minute,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, eris.Wrap(err, "cache: ping redis")
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (*models.TicketsResponse, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var resp models.TicketsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false
	}

	return &resp, true
}

func (c *RedisCache) Set(ctx context.Context, key string, resp *models.TicketsResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return eris.Wrap(err, "cache: marshal response")
	}

	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, key string) (*models.TicketsResponse, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, key string, resp *models.TicketsResponse) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

// GenerateKey identifies a response by the document contents and every
// request parameter that changes the output.
func GenerateKey(document []byte, req models.TicketsRequest) string {
	docHash := sha256.Sum256(document)

	keyData := struct {
		Document  string
		Mode      string
		Policy    string
		SortBy    string
		SortOrder string
	}{
		Document:  hex.EncodeToString(docHash[:]),
		Mode:      req.Mode,
		Policy:    req.Policy,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "fare:" + hex.EncodeToString(hash[:])
}
