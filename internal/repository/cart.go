package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/urbanthreads/storefront-service/internal/config"
	"github.com/urbanthreads/storefront-service/internal/logging"
	"github.com/urbanthreads/storefront-service/internal/models"
)

const cartKeyPrefix = "cart:"

// RedisCartStore holds each user's pre-order cart as a JSON document in
// Redis. The cart is session-scoped state, not durable data: it disappears on
// clear or sign-out and is never written to the primary database.
type RedisCartStore struct {
	client *redis.Client
	logger *logging.Logger
}

// NewRedisCartStore creates a new Redis-backed cart store.
func NewRedisCartStore(cfg config.RedisConfig, logger *logging.Logger) *RedisCartStore {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisCartStore{
		client: client,
		logger: logger,
	}
}

// Get retrieves a user's cart. A user with no stored cart gets a fresh empty
// one.
func (s *RedisCartStore) Get(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := s.client.Get(ctx, cartKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return models.NewCart(), nil
	}
	if err != nil {
		s.logger.Error("Cart get error", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save writes a user's cart back.
func (s *RedisCartStore) Save(ctx context.Context, userID string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, cartKeyPrefix+userID, data, 0).Err(); err != nil {
		s.logger.Error("Cart save error", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return err
	}
	return nil
}

// Clear discards a user's cart.
func (s *RedisCartStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, cartKeyPrefix+userID).Err()
}
