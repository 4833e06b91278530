package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/planlock"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/envutil"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/gcs"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/mapping"
)

type Clients struct {
	Store       gcs.Store
	SchemaStore gcs.Store
	Mapper      mapping.Client
	Locks       planlock.Locker
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	// Gcs
	store, err := gcs.NewStore(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init object store: %w", err)
	}

	// Schema config may live in a bucket of its own.
	schemaStore := store
	if bucket := envutil.String("SCHEMA_CONFIG_BUCKET", ""); bucket != "" && bucket != store.BucketName() {
		s, err := gcs.NewStoreForBucket(log, bucket)
		if err != nil {
			return Clients{}, fmt.Errorf("init schema store: %w", err)
		}
		schemaStore = s
	}

	// Column mapping microservice
	mapper, err := mapping.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init mapping client: %w", err)
	}

	// Redis-backed plan locks when an address is configured, in-process
	// locks otherwise.
	var locks planlock.Locker = planlock.NewLocal()
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:        addr,
			DialTimeout: 5 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("redis ping: %w", err)
		}
		locks = planlock.NewRedis(rdb, envutil.Seconds("PLAN_LOCK_TTL_SECONDS", 120))
		log.Info("Plan locks backed by redis", "addr", addr)
	}

	return Clients{
		Store:       store,
		SchemaStore: schemaStore,
		Mapper:      mapper,
		Locks:       locks,
	}, nil
}
