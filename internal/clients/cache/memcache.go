package cache

import (
	"github.com/bradfitz/gomemcache/memcache"
	"go.uber.org/zap"
	"max.ks1230/smartsaver/internal/logger"
)

const forecastKeyPrefix = "smartsaver:forecast:"

type memcacheClient interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
}

type MemcacheClient struct {
	client     memcacheClient
	expiration int32
}

type config interface {
	Hosts() []string
	Expiration() int32
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{client: mc, expiration: config.Expiration()}, mc.Ping()
}

// CacheForecast stores a forecast under its ledger version. Entries of older
// versions are never read again and age out by expiration.
func (mc *MemcacheClient) CacheForecast(version string, forecast []byte) error {
	logger.Info("cache forecast", zap.String("version", version))
	return mc.client.Set(&memcache.Item{
		Key:        forecastKey(version),
		Value:      forecast,
		Expiration: mc.expiration,
	})
}

func (mc *MemcacheClient) GetForecast(version string) ([]byte, error) {
	item, err := mc.client.Get(forecastKey(version))
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

func forecastKey(version string) string {
	return forecastKeyPrefix + version
}
