// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"fmt"
	"net/http"
	"time"

	limq "github.com/gaskeo/limq-panel"
)

var (
	_ limq.Response = (*channelRes)(nil)
	_ limq.Response = (*channelsPageRes)(nil)
	_ limq.Response = (*keyRes)(nil)
	_ limq.Response = (*keysPageRes)(nil)
	_ limq.Response = (*removeKeyRes)(nil)
	_ limq.Response = (*mixinRes)(nil)
	_ limq.Response = (*mixinsPageRes)(nil)
	_ limq.Response = (*restrictMixinRes)(nil)
	_ limq.Response = (*rebuildCacheRes)(nil)
)

type errorRes struct {
	Err  string `json:"error"`
	Code int    `json:"code,omitempty"`
}

type viewChannelRes struct {
	ID   string `json:"channel_id"`
	Name string `json:"name"`
}

type channelRes struct {
	viewChannelRes
	created bool
}

func (res channelRes) Code() int {
	if res.created {
		return http.StatusCreated
	}

	return http.StatusOK
}

func (res channelRes) Headers() map[string]string {
	if res.created {
		return map[string]string{
			"Location": fmt.Sprintf("/channels/%s", res.ID),
		}
	}

	return map[string]string{}
}

func (res channelRes) Empty() bool {
	return false
}

type channelsPageRes struct {
	Channels []viewChannelRes `json:"channels"`
}

func (res channelsPageRes) Code() int {
	return http.StatusOK
}

func (res channelsPageRes) Headers() map[string]string {
	return map[string]string{}
}

func (res channelsPageRes) Empty() bool {
	return false
}

// viewKeyRes exposes decoded capability flags next to the raw bitmask so
// clients don't have to know the bit layout.
type viewKeyRes struct {
	Key     string    `json:"key"`
	ChanID  string    `json:"channel_id"`
	Name    string    `json:"name"`
	Perm    int       `json:"perm"`
	Read    bool      `json:"read"`
	Write   bool      `json:"write"`
	Info    bool      `json:"info"`
	Mixins  bool      `json:"mixins"`
	Active  bool      `json:"active"`
	Created time.Time `json:"created"`
}

type keyRes struct {
	viewKeyRes
	created bool
}

func (res keyRes) Code() int {
	if res.created {
		return http.StatusCreated
	}

	return http.StatusOK
}

func (res keyRes) Headers() map[string]string {
	return map[string]string{}
}

func (res keyRes) Empty() bool {
	return false
}

type keysPageRes struct {
	Keys []viewKeyRes `json:"keys"`
}

func (res keysPageRes) Code() int {
	return http.StatusOK
}

func (res keysPageRes) Headers() map[string]string {
	return map[string]string{}
}

func (res keysPageRes) Empty() bool {
	return false
}

type removeKeyRes struct {
	Key string `json:"key"`
}

func (res removeKeyRes) Code() int {
	return http.StatusOK
}

func (res removeKeyRes) Headers() map[string]string {
	return map[string]string{}
}

func (res removeKeyRes) Empty() bool {
	return false
}

type mixinRes struct {
	SourceChannel string `json:"source_channel"`
	DestChannel   string `json:"dest_channel"`
}

func (res mixinRes) Code() int {
	return http.StatusCreated
}

func (res mixinRes) Headers() map[string]string {
	return map[string]string{}
}

func (res mixinRes) Empty() bool {
	return false
}

type mixinsPageRes struct {
	Incoming []viewChannelRes `json:"in"`
	Outgoing []viewChannelRes `json:"out"`
}

func (res mixinsPageRes) Code() int {
	return http.StatusOK
}

func (res mixinsPageRes) Headers() map[string]string {
	return map[string]string{}
}

func (res mixinsPageRes) Empty() bool {
	return false
}

type restrictMixinRes struct {
	ChannelID string `json:"channel_id"`
}

func (res restrictMixinRes) Code() int {
	return http.StatusOK
}

func (res restrictMixinRes) Headers() map[string]string {
	return map[string]string{}
}

func (res restrictMixinRes) Empty() bool {
	return false
}

type rebuildCacheRes struct{}

func (res rebuildCacheRes) Code() int {
	return http.StatusNoContent
}

func (res rebuildCacheRes) Headers() map[string]string {
	return map[string]string{}
}

func (res rebuildCacheRes) Empty() bool {
	return true
}
