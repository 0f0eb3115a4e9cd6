// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"time"

	log "github.com/gaskeo/limq-panel/logger"
	"github.com/gaskeo/limq-panel/panel"
)

var _ panel.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger log.Logger
	svc    panel.Service
}

// LoggingMiddleware adds logging facilities to the core service.
func LoggingMiddleware(svc panel.Service, logger log.Logger) panel.Service {
	return &loggingMiddleware{logger, svc}
}

func (lm *loggingMiddleware) CreateChannel(ctx context.Context, token, name string) (ch panel.Channel, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method create_channel for channel %s took %s to complete", ch.ID, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s without errors.", message))
	}(time.Now())

	return lm.svc.CreateChannel(ctx, token, name)
}

func (lm *loggingMiddleware) RenameChannel(ctx context.Context, token, id, name string) (ch panel.Channel, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method rename_channel for channel %s took %s to complete", id, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s without errors.", message))
	}(time.Now())

	return lm.svc.RenameChannel(ctx, token, id, name)
}

func (lm *loggingMiddleware) ViewChannel(ctx context.Context, token, id string) (ch panel.Channel, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method view_channel for channel %s took %s to complete", id, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s without errors.", message))
	}(time.Now())

	return lm.svc.ViewChannel(ctx, token, id)
}

func (lm *loggingMiddleware) ListChannels(ctx context.Context, token string) (chs []panel.Channel, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method list_channels took %s to complete", time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s without errors.", message))
	}(time.Now())

	return lm.svc.ListChannels(ctx, token)
}

func (lm *loggingMiddleware) CreateKey(ctx context.Context, token, chanID, name string, perm int) (key panel.Key, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method create_key for channel %s took %s to complete", chanID, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s without errors.", message))
	}(time.Now())

	return lm.svc.CreateKey(ctx, token, chanID, name, perm)
}

func (lm *loggingMiddleware) ListKeys(ctx context.Context, token, chanID string) (keys []panel.Key, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method list_keys for channel %s took %s to complete", chanID, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s without errors.", message))
	}(time.Now())

	return lm.svc.ListKeys(ctx, token, chanID)
}

func (lm *loggingMiddleware) ToggleKey(ctx context.Context, token, key string) (k panel.Key, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method toggle_key for channel %s took %s to complete", k.ChanID, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s without errors.", message))
	}(time.Now())

	return lm.svc.ToggleKey(ctx, token, key)
}

func (lm *loggingMiddleware) DeleteKey(ctx context.Context, token, key string) (removed string, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method delete_key took %s to complete", time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s without errors.", message))
	}(time.Now())

	return lm.svc.DeleteKey(ctx, token, key)
}

func (lm *loggingMiddleware) CreateMixin(ctx context.Context, token, destID, key string) (mixin panel.Mixin, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method create_mixin into channel %s took %s to complete", destID, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s without errors.", message))
	}(time.Now())

	return lm.svc.CreateMixin(ctx, token, destID, key)
}

func (lm *loggingMiddleware) RestrictMixin(ctx context.Context, token, subjectID, otherID, direction string) (affected string, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method restrict_mixin %s of channel %s with channel %s took %s to complete", direction, subjectID, otherID, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s without errors.", message))
	}(time.Now())

	return lm.svc.RestrictMixin(ctx, token, subjectID, otherID, direction)
}

func (lm *loggingMiddleware) ListMixins(ctx context.Context, token, chanID string) (page panel.MixinPage, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method list_mixins for channel %s took %s to complete", chanID, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s without errors.", message))
	}(time.Now())

	return lm.svc.ListMixins(ctx, token, chanID)
}

func (lm *loggingMiddleware) RebuildMixinCache(ctx context.Context, token, chanID string) (err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method rebuild_mixin_cache for channel %s took %s to complete", chanID, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s without errors.", message))
	}(time.Now())

	return lm.svc.RebuildMixinCache(ctx, token, chanID)
}
