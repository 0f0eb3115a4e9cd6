// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/gaskeo/limq-panel/panel"
	"github.com/gaskeo/limq-panel/pkg/errors"
)

const mixinPrefix = "mixins"

var _ panel.MixinCache = (*mixinCache)(nil)

type mixinCache struct {
	client *redis.Client
}

// NewMixinCache returns redis mixin adjacency cache implementation.
func NewMixinCache(client *redis.Client) panel.MixinCache {
	return mixinCache{client: client}
}

func (mc mixinCache) Add(ctx context.Context, sourceID, destID string) error {
	if err := mc.client.SAdd(ctx, mixinKey(sourceID), destID).Err(); err != nil {
		return errors.Wrap(errors.ErrCreateEntity, err)
	}
	return nil
}

func (mc mixinCache) Remove(ctx context.Context, sourceID, destID string) error {
	if err := mc.client.SRem(ctx, mixinKey(sourceID), destID).Err(); err != nil {
		return errors.Wrap(errors.ErrRemoveEntity, err)
	}
	return nil
}

func (mc mixinCache) Mixins(ctx context.Context, sourceID string) ([]string, error) {
	dests, err := mc.client.SMembers(ctx, mixinKey(sourceID)).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrViewEntity, err)
	}
	return dests, nil
}

// Rebuild atomically replaces the adjacency set with the authoritative edge
// set. Del and SAdd travel in one pipeline so readers never observe a
// half-built set.
func (mc mixinCache) Rebuild(ctx context.Context, sourceID string, destIDs []string) error {
	key := mixinKey(sourceID)

	pipe := mc.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(destIDs) > 0 {
		members := make([]interface{}, 0, len(destIDs))
		for _, id := range destIDs {
			members = append(members, id)
		}
		pipe.SAdd(ctx, key, members...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(errors.ErrUpdateEntity, err)
	}
	return nil
}

func mixinKey(sourceID string) string {
	return fmt.Sprintf("%s:%s", mixinPrefix, sourceID)
}
