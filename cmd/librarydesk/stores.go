package main

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	mongorepo "github.com/librarydesk/librarydesk/internal/infrastructure/db/mongo"
	redisrepo "github.com/librarydesk/librarydesk/internal/infrastructure/db/redis"
)

// stores holds the open connections to MongoDB and Redis.
type stores struct {
	client *mongo.Client
	db     *mongo.Database
	redis  *goredis.Client
}

func (a *app) connect(ctx context.Context) (*stores, error) {
	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      a.cfg.Mongo.URI,
		Database: a.cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}

	rdb, err := redisrepo.Connect(ctx, redisrepo.Config{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	a.log.Debug().
		Str("mongo_db", a.cfg.Mongo.Database).
		Str("redis_addr", a.cfg.Redis.Addr).
		Msg("connected to stores")
	return &stores{client: client, db: db, redis: rdb}, nil
}

func (s *stores) close(a *app) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.redis.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close redis")
	}
	if err := s.client.Disconnect(ctx); err != nil {
		a.log.Warn().Err(err).Msg("disconnect mongodb")
	}
}
