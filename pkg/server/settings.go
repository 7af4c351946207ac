package server

import (
	"context"
	"log"

	"github.com/bytedance/sonic"
	"github.com/matst80/slask-catalogue/pkg/catalogue"
	"github.com/matst80/slask-catalogue/pkg/types"
	"github.com/redis/go-redis/v9"
)

// RedisSettings resolves per-company catalogue settings from redis, falling
// back to the defaults whenever the key is missing or unreadable.
type RedisSettings struct {
	Client   *redis.Client
	Defaults catalogue.SettingsSource
}

func NewRedisSettings(client *redis.Client) *RedisSettings {
	return &RedisSettings{
		Client:   client,
		Defaults: catalogue.DefaultSettings(),
	}
}

func settingsKey(companyID, citySlug string) string {
	return "catalogue:settings:" + companyID + ":" + citySlug
}

func (s *RedisSettings) CatalogueSettings(ctx context.Context, companyID, citySlug string) types.CatalogueSettings {
	fallback := s.Defaults.CatalogueSettings(ctx, companyID, citySlug)
	data, err := s.Client.Get(ctx, settingsKey(companyID, citySlug)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("settings lookup failed for %s/%s: %v", companyID, citySlug, err)
		}
		return fallback
	}
	settings := fallback
	if err := sonic.Unmarshal(data, &settings); err != nil {
		log.Printf("broken settings payload for %s/%s: %v", companyID, citySlug, err)
		return fallback
	}
	if settings.PageSize <= 0 {
		settings.PageSize = fallback.PageSize
	}
	if settings.MaxPageSize <= 0 {
		settings.MaxPageSize = fallback.MaxPageSize
	}
	if settings.DefaultSort.Field == "" {
		settings.DefaultSort = fallback.DefaultSort
	}
	return settings
}
