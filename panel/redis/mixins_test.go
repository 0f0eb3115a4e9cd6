// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package redis_test

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaskeo/limq-panel/panel/redis"
	tokenpkg "github.com/gaskeo/limq-panel/panel/token"
)

var idp = tokenpkg.New()

func newChannelID(t *testing.T) string {
	id, err := idp.ChannelID()
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	return id
}

func TestMixinCacheAdd(t *testing.T) {
	cache := redis.NewMixinCache(redisClient)

	source := newChannelID(t)
	first := newChannelID(t)
	second := newChannelID(t)

	err := cache.Add(context.Background(), source, first)
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	err = cache.Add(context.Background(), source, second)
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	// Adding the same member twice must not grow the set.
	err = cache.Add(context.Background(), source, first)
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	dests, err := cache.Mixins(context.Background(), source)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	want := []string{first, second}
	sort.Strings(want)
	sort.Strings(dests)
	assert.Equal(t, want, dests, fmt.Sprintf("expected destinations %v got %v", want, dests))
}

func TestMixinCacheRemove(t *testing.T) {
	cache := redis.NewMixinCache(redisClient)

	source := newChannelID(t)
	dest := newChannelID(t)

	err := cache.Add(context.Background(), source, dest)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	err = cache.Remove(context.Background(), source, dest)
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	dests, err := cache.Mixins(context.Background(), source)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Empty(t, dests, "expected empty adjacency set after removal")

	// Removing an absent member is not an error.
	err = cache.Remove(context.Background(), source, dest)
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
}

func TestMixinCacheRebuild(t *testing.T) {
	cache := redis.NewMixinCache(redisClient)

	source := newChannelID(t)
	stale := newChannelID(t)
	fresh := []string{newChannelID(t), newChannelID(t)}

	err := cache.Add(context.Background(), source, stale)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	err = cache.Rebuild(context.Background(), source, fresh)
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	dests, err := cache.Mixins(context.Background(), source)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	sort.Strings(fresh)
	sort.Strings(dests)
	assert.Equal(t, fresh, dests, fmt.Sprintf("expected destinations %v got %v", fresh, dests))

	err = cache.Rebuild(context.Background(), source, nil)
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	dests, err = cache.Mixins(context.Background(), source)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Empty(t, dests, "expected rebuild with no edges to clear the set")
}
