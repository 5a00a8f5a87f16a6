package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cfg covers both standalone and cluster deployments; cluster nodes are a
// semicolon-separated list.
type Cfg struct {
	UseCluster           bool
	EnableTLS            bool
	RedisHost            string
	RedisPort            string
	RedisPassword        string
	RedisDB              int
	RedisClusterNode     string
	RedisClusterPassword string
}

var (
	cfg         Cfg
	redisClient redis.UniversalClient
)

func LoadConfig(c *Cfg) {
	cfg = *c
}

func InitConnection() {
	var tlsConf *tls.Config
	if cfg.EnableTLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	if cfg.UseCluster {
		redisClient = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        strings.Split(cfg.RedisClusterNode, ";"),
			Password:     cfg.RedisClusterPassword,
			TLSConfig:    tlsConf,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
	} else {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			TLSConfig:    tlsConf,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MaxRetries:   2,
		})
	}

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		panic(fmt.Sprintf("cannot connect to redis: %v", err))
	}
}

func GetClient() redis.UniversalClient {
	return redisClient
}
