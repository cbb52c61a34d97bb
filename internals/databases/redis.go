package database

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"qurban_backend/internals/configs"
)

// Redis bersifat opsional; nil kalau REDIS_ADDR kosong atau ping gagal.
var Redis *redis.Client

func ConnectRedis() {
	addr := strings.ReplaceAll(strings.TrimSpace(configs.GetEnv("REDIS_ADDR")), " ", "")
	if addr == "" {
		log.Println("⚠️ REDIS_ADDR kosong, rate-limit & realtime pakai memori lokal")
		return
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: configs.GetEnv("REDIS_PASS"),
		DB:       configs.GetEnvInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ redis ping gagal: %v (lanjut tanpa redis)", err)
		_ = rc.Close()
		return
	}
	Redis = rc
	log.Println("✅ Redis connected.")
}

func CloseRedis() {
	if Redis != nil {
		_ = Redis.Close()
	}
}
