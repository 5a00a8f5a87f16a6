package config

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
)

func asynqRedisOpt(v *viper.Viper) asynq.RedisClientOpt {
	host := v.GetString("redis.host")
	if host == "" {
		host = "127.0.0.1"
	}
	port := v.GetInt("redis.port")
	if port == 0 {
		port = 6379
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: v.GetString("redis.password"),
	}
}

func NewAsynqClient(v *viper.Viper) *asynq.Client {
	return asynq.NewClient(asynqRedisOpt(v))
}

func NewAsynqServer(v *viper.Viper) *asynq.Server {
	return asynq.NewServer(asynqRedisOpt(v), asynq.Config{
		Concurrency: v.GetInt("asynq.concurrency"),
	})
}

// NewAsynqScheduler enqueues the periodic sweep; the interval is soft, a
// request landing between deadline and sweep may still succeed.
func NewAsynqScheduler(v *viper.Viper) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(asynqRedisOpt(v), nil)

	interval := v.GetString("sweep.interval")
	if interval == "" {
		interval = "@every 1m"
	}
	if _, err := scheduler.Register(interval, asynq.NewTask(TypeSweepExpired, nil)); err != nil {
		return nil, err
	}
	return scheduler, nil
}
