// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"

	"github.com/gaskeo/limq-panel/panel"
)

var _ panel.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     panel.Service
}

// MetricsMiddleware instruments core service by tracking request count and
// latency.
func MetricsMiddleware(svc panel.Service, counter metrics.Counter, latency metrics.Histogram) panel.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) CreateChannel(ctx context.Context, token, name string) (panel.Channel, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "create_channel").Add(1)
		mm.latency.With("method", "create_channel").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.CreateChannel(ctx, token, name)
}

func (mm *metricsMiddleware) RenameChannel(ctx context.Context, token, id, name string) (panel.Channel, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "rename_channel").Add(1)
		mm.latency.With("method", "rename_channel").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.RenameChannel(ctx, token, id, name)
}

func (mm *metricsMiddleware) ViewChannel(ctx context.Context, token, id string) (panel.Channel, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "view_channel").Add(1)
		mm.latency.With("method", "view_channel").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ViewChannel(ctx, token, id)
}

func (mm *metricsMiddleware) ListChannels(ctx context.Context, token string) ([]panel.Channel, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list_channels").Add(1)
		mm.latency.With("method", "list_channels").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListChannels(ctx, token)
}

func (mm *metricsMiddleware) CreateKey(ctx context.Context, token, chanID, name string, perm int) (panel.Key, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "create_key").Add(1)
		mm.latency.With("method", "create_key").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.CreateKey(ctx, token, chanID, name, perm)
}

func (mm *metricsMiddleware) ListKeys(ctx context.Context, token, chanID string) ([]panel.Key, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list_keys").Add(1)
		mm.latency.With("method", "list_keys").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListKeys(ctx, token, chanID)
}

func (mm *metricsMiddleware) ToggleKey(ctx context.Context, token, key string) (panel.Key, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "toggle_key").Add(1)
		mm.latency.With("method", "toggle_key").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ToggleKey(ctx, token, key)
}

func (mm *metricsMiddleware) DeleteKey(ctx context.Context, token, key string) (string, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "delete_key").Add(1)
		mm.latency.With("method", "delete_key").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.DeleteKey(ctx, token, key)
}

func (mm *metricsMiddleware) CreateMixin(ctx context.Context, token, destID, key string) (panel.Mixin, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "create_mixin").Add(1)
		mm.latency.With("method", "create_mixin").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.CreateMixin(ctx, token, destID, key)
}

func (mm *metricsMiddleware) RestrictMixin(ctx context.Context, token, subjectID, otherID, direction string) (string, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "restrict_mixin").Add(1)
		mm.latency.With("method", "restrict_mixin").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.RestrictMixin(ctx, token, subjectID, otherID, direction)
}

func (mm *metricsMiddleware) ListMixins(ctx context.Context, token, chanID string) (panel.MixinPage, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list_mixins").Add(1)
		mm.latency.With("method", "list_mixins").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListMixins(ctx, token, chanID)
}

func (mm *metricsMiddleware) RebuildMixinCache(ctx context.Context, token, chanID string) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "rebuild_mixin_cache").Add(1)
		mm.latency.With("method", "rebuild_mixin_cache").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.RebuildMixinCache(ctx, token, chanID)
}
