package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"aseara/internal/cart/models"
)

const (
	// Redis key prefix for session carts
	cartKeyPrefix = "cart:session:"

	// defaultCartTTL matches the access-token lifetime; an expired
	// session's cart has nothing to come back to.
	defaultCartTTL = 24 * time.Hour
)

// Redis is the production cart store: one JSON value per session, TTL
// refreshed on every write.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOption configures a Redis cart store.
type RedisOption func(*Redis)

// WithTTL overrides the cart expiry.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = ttl }
}

// NewRedis constructs a Redis-backed cart store.
func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	store := &Redis{client: client, ttl: defaultCartTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

func (r *Redis) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	raw, err := r.client.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewCart(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	var cart models.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		// A corrupt value is unrecoverable; start the session over.
		return models.NewCart(sessionID), nil
	}
	if cart.Items == nil {
		cart.Items = make(map[string]models.CartItem)
	}
	return &cart, nil
}

func (r *Redis) Save(ctx context.Context, cart *models.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKeyPrefix+cart.SessionID, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
