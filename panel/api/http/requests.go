// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"github.com/gaskeo/limq-panel/panel"
	"github.com/gaskeo/limq-panel/pkg/errors"
)

type apiReq interface {
	validate() error
}

type createChannelReq struct {
	token string
	Name  string `json:"name"`
}

func (req createChannelReq) validate() error {
	if req.token == "" {
		return panel.ErrAuthentication
	}

	return nil
}

type renameChannelReq struct {
	token string
	id    string
	Name  string `json:"name"`
}

func (req renameChannelReq) validate() error {
	if req.token == "" {
		return panel.ErrAuthentication
	}

	if req.id == "" {
		return errors.ErrMalformedEntity
	}

	return nil
}

type viewResourceReq struct {
	token string
	id    string
}

func (req viewResourceReq) validate() error {
	if req.token == "" {
		return panel.ErrAuthentication
	}

	if req.id == "" {
		return errors.ErrMalformedEntity
	}

	return nil
}

type listChannelsReq struct {
	token string
}

func (req listChannelsReq) validate() error {
	if req.token == "" {
		return panel.ErrAuthentication
	}

	return nil
}

type createKeyReq struct {
	token          string
	chanID         string
	Name           string `json:"name"`
	Read           bool   `json:"read"`
	Write          bool   `json:"write"`
	Info           bool   `json:"info"`
	DisallowMixins bool   `json:"disallow_mixins"`
}

func (req createKeyReq) validate() error {
	if req.token == "" {
		return panel.ErrAuthentication
	}

	if req.chanID == "" {
		return errors.ErrMalformedEntity
	}

	return nil
}

type keyReq struct {
	token string
	key   string
}

func (req keyReq) validate() error {
	if req.token == "" {
		return panel.ErrAuthentication
	}

	if req.key == "" {
		return panel.ErrBadKey
	}

	return nil
}

type createMixinReq struct {
	token     string
	ChannelID string `json:"channel_id"`
	Key       string `json:"key"`
}

func (req createMixinReq) validate() error {
	if req.token == "" {
		return panel.ErrAuthentication
	}

	if req.ChannelID == "" {
		return errors.ErrMalformedEntity
	}

	if req.Key == "" {
		return panel.ErrBadKey
	}

	return nil
}

type restrictMixinReq struct {
	token     string
	subjectID string
	otherID   string
	direction string
}

func (req restrictMixinReq) validate() error {
	if req.token == "" {
		return panel.ErrAuthentication
	}

	if req.subjectID == "" || req.otherID == "" {
		return errors.ErrMalformedEntity
	}

	if req.direction != panel.MixinOut && req.direction != panel.MixinIn {
		return panel.ErrBadMixinType
	}

	return nil
}
