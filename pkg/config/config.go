package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	CatalogURL      string        `envconfig:"CATALOG_URL" default:"http://localhost:9000/api/products"`
	OrderURL        string        `envconfig:"ORDER_URL" default:"http://localhost:9000/api/orders"`
	APITimeout      time.Duration `envconfig:"API_TIMEOUT" default:"15s"`
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"30s"`
	CacheTTL        time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	CacheMaxEntries int           `envconfig:"CACHE_MAX_ENTRIES" default:"128"`
	MySQLDSN        string        `envconfig:"MYSQL_DSN"`
	CacheMaxRows    int           `envconfig:"CACHE_MAX_ROWS" default:"1024"`
	KafkaBrokers    []string      `envconfig:"KAFKA_BROKERS"`
	KafkaTopic      string        `envconfig:"KAFKA_TOPIC" default:"pos-events"`
}

func Load() (Config, error) {
	var c Config
	err := envconfig.Process("pos", &c)
	return c, err
}
