// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package redis

const (
	channelPrefix = "channel."
	channelCreate = channelPrefix + "create"
	channelRename = channelPrefix + "rename"

	keyPrefix = "key."
	keyCreate = keyPrefix + "create"
	keyToggle = keyPrefix + "toggle"

	mixinOpPrefix = "mixin."
	mixinCreate   = mixinOpPrefix + "create"
	mixinRemove   = mixinOpPrefix + "remove"
	mixinRebuild  = mixinOpPrefix + "rebuild"
)

type event interface {
	Encode() map[string]interface{}
}

var (
	_ event = (*createChannelEvent)(nil)
	_ event = (*renameChannelEvent)(nil)
	_ event = (*createKeyEvent)(nil)
	_ event = (*toggleKeyEvent)(nil)
	_ event = (*createMixinEvent)(nil)
	_ event = (*removeMixinEvent)(nil)
	_ event = (*rebuildMixinEvent)(nil)
)

type createChannelEvent struct {
	id    string
	owner string
	name  string
}

func (cce createChannelEvent) Encode() map[string]interface{} {
	val := map[string]interface{}{
		"id":        cce.id,
		"owner":     cce.owner,
		"operation": channelCreate,
	}

	if cce.name != "" {
		val["name"] = cce.name
	}

	return val
}

type renameChannelEvent struct {
	id   string
	name string
}

func (rce renameChannelEvent) Encode() map[string]interface{} {
	return map[string]interface{}{
		"id":        rce.id,
		"name":      rce.name,
		"operation": channelRename,
	}
}

// Key events never carry the key token itself: the stream is readable by
// every consumer and the token is a bearer credential.
type createKeyEvent struct {
	chanID string
	name   string
	perm   int
}

func (cke createKeyEvent) Encode() map[string]interface{} {
	val := map[string]interface{}{
		"chan_id":   cke.chanID,
		"perm":      cke.perm,
		"operation": keyCreate,
	}

	if cke.name != "" {
		val["name"] = cke.name
	}

	return val
}

type toggleKeyEvent struct {
	chanID string
	perm   int
}

func (tke toggleKeyEvent) Encode() map[string]interface{} {
	return map[string]interface{}{
		"chan_id":   tke.chanID,
		"perm":      tke.perm,
		"operation": keyToggle,
	}
}

type createMixinEvent struct {
	sourceID string
	destID   string
}

func (cme createMixinEvent) Encode() map[string]interface{} {
	return map[string]interface{}{
		"source_channel": cme.sourceID,
		"dest_channel":   cme.destID,
		"operation":      mixinCreate,
	}
}

type removeMixinEvent struct {
	sourceID string
	destID   string
}

func (rme removeMixinEvent) Encode() map[string]interface{} {
	return map[string]interface{}{
		"source_channel": rme.sourceID,
		"dest_channel":   rme.destID,
		"operation":      mixinRemove,
	}
}

type rebuildMixinEvent struct {
	sourceID string
}

func (rme rebuildMixinEvent) Encode() map[string]interface{} {
	return map[string]interface{}{
		"source_channel": rme.sourceID,
		"operation":      mixinRebuild,
	}
}
