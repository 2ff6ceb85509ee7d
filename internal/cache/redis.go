package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mdsabbir/vaxchain/config"
	"github.com/mdsabbir/vaxchain/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client       *redis.Client
	campaignsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, campaignsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:       redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		campaignsTTL: campaignsTTL,
	}
}

func (c *RedisCache) GetCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	data, err := c.client.Get(ctx, campaignsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var campaigns []domain.Campaign
	if err := json.Unmarshal(data, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (c *RedisCache) SetCampaigns(ctx context.Context, campaigns []domain.Campaign) error {
	payload, err := json.Marshal(campaigns)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, campaignsKey(), payload, c.campaignsTTL).Err()
}

// InvalidateCampaigns drops the cached list after any campaign or schedule
// write.
func (c *RedisCache) InvalidateCampaigns(ctx context.Context) error {
	return c.client.Del(ctx, campaignsKey()).Err()
}

func campaignsKey() string {
	return "cache:campaigns"
}
