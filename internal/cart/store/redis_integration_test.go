//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"aseara/internal/cart/models"
	"aseara/internal/cart/store"
	id "aseara/pkg/domain"
	"aseara/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.Redis
	ctx   context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = store.NewRedis(s.redis.Client)
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) TearDownSuite() {
	_ = s.redis.Client.Close()
	_ = s.redis.Container.Terminate(context.Background())
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisStoreSuite) TestGetMissingReturnsEmptyCart() {
	cart, err := s.store.Get(s.ctx, "session-none")
	s.Require().NoError(err)
	s.Equal("session-none", cart.SessionID)
	s.True(cart.IsEmpty())
}

func (s *RedisStoreSuite) TestSaveAndGet() {
	productID := id.NewProductID()
	cart := models.NewCart("session-1")
	cart.Add(productID, 3)
	s.Require().NoError(s.store.Save(s.ctx, cart))

	loaded, err := s.store.Get(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(3, loaded.Count())
	s.Equal(3, loaded.Items[productID.String()].Quantity)
}

func (s *RedisStoreSuite) TestDelete() {
	cart := models.NewCart("session-1")
	cart.Add(id.NewProductID(), 1)
	s.Require().NoError(s.store.Save(s.ctx, cart))

	s.Require().NoError(s.store.Delete(s.ctx, "session-1"))

	loaded, err := s.store.Get(s.ctx, "session-1")
	s.Require().NoError(err)
	s.True(loaded.IsEmpty())

	// Deleting a missing cart is not an error.
	s.NoError(s.store.Delete(s.ctx, "session-gone"))
}

func (s *RedisStoreSuite) TestCorruptValueStartsOver() {
	s.Require().NoError(s.redis.Client.Set(s.ctx, "cart:session:bad", "{not json", 0).Err())

	cart, err := s.store.Get(s.ctx, "bad")
	s.Require().NoError(err)
	s.True(cart.IsEmpty())
}

func (s *RedisStoreSuite) TestTTLRefreshOnSave() {
	shortLived := store.NewRedis(s.redis.Client, store.WithTTL(time.Hour))
	cart := models.NewCart("session-ttl")
	cart.Add(id.NewProductID(), 1)
	s.Require().NoError(shortLived.Save(s.ctx, cart))

	ttl, err := s.redis.Client.TTL(s.ctx, "cart:session:session-ttl").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Hour)
}
