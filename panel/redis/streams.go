// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package redis

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/gaskeo/limq-panel/panel"
)

const (
	streamID  = "limq.panel"
	streamLen = 1000
)

var _ panel.Service = (*eventStore)(nil)

type eventStore struct {
	svc    panel.Service
	client *redis.Client
}

// NewEventStoreMiddleware returns wrapper around panel service that sends
// events to event store.
func NewEventStoreMiddleware(svc panel.Service, client *redis.Client) panel.Service {
	return eventStore{
		svc:    svc,
		client: client,
	}
}

func (es eventStore) CreateChannel(ctx context.Context, token, name string) (panel.Channel, error) {
	ch, err := es.svc.CreateChannel(ctx, token, name)
	if err != nil {
		return ch, err
	}

	event := createChannelEvent{
		id:    ch.ID,
		owner: ch.Owner,
		name:  ch.Name,
	}
	es.publish(ctx, event)

	return ch, nil
}

func (es eventStore) RenameChannel(ctx context.Context, token, id, name string) (panel.Channel, error) {
	ch, err := es.svc.RenameChannel(ctx, token, id, name)
	if err != nil {
		return ch, err
	}

	event := renameChannelEvent{
		id:   ch.ID,
		name: ch.Name,
	}
	es.publish(ctx, event)

	return ch, nil
}

func (es eventStore) ViewChannel(ctx context.Context, token, id string) (panel.Channel, error) {
	return es.svc.ViewChannel(ctx, token, id)
}

func (es eventStore) ListChannels(ctx context.Context, token string) ([]panel.Channel, error) {
	return es.svc.ListChannels(ctx, token)
}

func (es eventStore) CreateKey(ctx context.Context, token, chanID, name string, perm int) (panel.Key, error) {
	key, err := es.svc.CreateKey(ctx, token, chanID, name, perm)
	if err != nil {
		return key, err
	}

	event := createKeyEvent{
		chanID: key.ChanID,
		name:   key.Name,
		perm:   key.Perm,
	}
	es.publish(ctx, event)

	return key, nil
}

func (es eventStore) ListKeys(ctx context.Context, token, chanID string) ([]panel.Key, error) {
	return es.svc.ListKeys(ctx, token, chanID)
}

func (es eventStore) ToggleKey(ctx context.Context, token, key string) (panel.Key, error) {
	k, err := es.svc.ToggleKey(ctx, token, key)
	if err != nil {
		return k, err
	}

	event := toggleKeyEvent{
		chanID: k.ChanID,
		perm:   k.Perm,
	}
	es.publish(ctx, event)

	return k, nil
}

// DeleteKey doesn't send event because the only identifier of the removed
// key is its token, which shouldn't be sent over stream.
func (es eventStore) DeleteKey(ctx context.Context, token, key string) (string, error) {
	return es.svc.DeleteKey(ctx, token, key)
}

func (es eventStore) CreateMixin(ctx context.Context, token, destID, key string) (panel.Mixin, error) {
	mixin, err := es.svc.CreateMixin(ctx, token, destID, key)
	if err != nil {
		return mixin, err
	}

	event := createMixinEvent{
		sourceID: mixin.SourceChannel,
		destID:   mixin.DestChannel,
	}
	es.publish(ctx, event)

	return mixin, nil
}

func (es eventStore) RestrictMixin(ctx context.Context, token, subjectID, otherID, direction string) (string, error) {
	affected, err := es.svc.RestrictMixin(ctx, token, subjectID, otherID, direction)
	if err != nil {
		return affected, err
	}

	sourceID, destID := subjectID, affected
	if direction == panel.MixinIn {
		sourceID, destID = affected, subjectID
	}

	event := removeMixinEvent{
		sourceID: sourceID,
		destID:   destID,
	}
	es.publish(ctx, event)

	return affected, nil
}

func (es eventStore) ListMixins(ctx context.Context, token, chanID string) (panel.MixinPage, error) {
	return es.svc.ListMixins(ctx, token, chanID)
}

func (es eventStore) RebuildMixinCache(ctx context.Context, token, chanID string) error {
	if err := es.svc.RebuildMixinCache(ctx, token, chanID); err != nil {
		return err
	}

	event := rebuildMixinEvent{
		sourceID: chanID,
	}
	es.publish(ctx, event)

	return nil
}

func (es eventStore) publish(ctx context.Context, ev event) {
	record := &redis.XAddArgs{
		Stream:       streamID,
		MaxLenApprox: streamLen,
		Values:       ev.Encode(),
	}
	es.client.XAdd(ctx, record).Err()
}
