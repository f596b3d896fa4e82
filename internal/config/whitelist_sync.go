package config

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const (
	redisWhitelistChannel = "mailroom:whitelist:invalidate"
	redisOpTimeout        = 5 * time.Second
)

type redisSyncState struct {
	mu     sync.RWMutex
	client *redis.Client
	ctx    context.Context
	cancel context.CancelFunc
}

var globalRedisSync redisSyncState

// EnableWhitelistSynchronization subscribes to cross-instance whitelist
// invalidation messages. Each instance that mutates the whitelist publishes
// on the channel; every other instance drops its local cache snapshot.
// Single-node deployments work without redis; the sync is simply not enabled.
func EnableWhitelistSynchronization(ctx context.Context, client *redis.Client, invalidate func()) {
	if client == nil {
		log.Warn("Whitelist synchronization disabled: redis client is nil")
		return
	}
	if invalidate == nil {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	syncCtx, cancel := context.WithCancel(ctx)

	globalRedisSync.mu.Lock()
	if globalRedisSync.client != nil {
		globalRedisSync.mu.Unlock()
		cancel()
		return
	}

	globalRedisSync.client = client
	globalRedisSync.ctx = syncCtx
	globalRedisSync.cancel = cancel
	globalRedisSync.mu.Unlock()

	go subscribeToInvalidations(syncCtx, client, invalidate)
}

// BroadcastWhitelistInvalidation tells the other instances to drop their
// cached whitelist. A no-op when synchronization is not enabled.
func BroadcastWhitelistInvalidation() {
	globalRedisSync.mu.RLock()
	client := globalRedisSync.client
	baseCtx := globalRedisSync.ctx
	globalRedisSync.mu.RUnlock()

	if client == nil {
		return
	}

	ctx := baseCtx
	if ctx == nil || ctx.Err() != nil {
		ctx = context.Background()
	}

	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := client.Publish(opCtx, redisWhitelistChannel, "invalidate").Err(); err != nil {
		log.Error("Whitelist sync: failed to publish invalidation", "error", err)
	}
}

// DisableWhitelistSynchronization tears the subscription down, mainly for
// tests and shutdown paths.
func DisableWhitelistSynchronization() {
	globalRedisSync.mu.Lock()
	defer globalRedisSync.mu.Unlock()

	if globalRedisSync.cancel != nil {
		globalRedisSync.cancel()
	}
	globalRedisSync.client = nil
	globalRedisSync.ctx = nil
	globalRedisSync.cancel = nil
}

func subscribeToInvalidations(ctx context.Context, client *redis.Client, invalidate func()) {
	pubsub := client.Subscribe(ctx, redisWhitelistChannel)
	defer pubsub.Close()

	for {
		_, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, redis.ErrClosed) || ctx.Err() != nil {
				return
			}
			log.Error("Whitelist sync: subscription error", "error", err)
			time.Sleep(time.Second)
			continue
		}
		invalidate()
	}
}
