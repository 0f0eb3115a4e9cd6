// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"

	"github.com/go-kit/kit/endpoint"

	"github.com/gaskeo/limq-panel/panel"
)

func createChannelEndpoint(svc panel.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(createChannelReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		ch, err := svc.CreateChannel(ctx, req.token, req.Name)
		if err != nil {
			return nil, err
		}

		return channelRes{viewChannelRes: toViewChannel(ch), created: true}, nil
	}
}

func renameChannelEndpoint(svc panel.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(renameChannelReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		ch, err := svc.RenameChannel(ctx, req.token, req.id, req.Name)
		if err != nil {
			return nil, err
		}

		return channelRes{viewChannelRes: toViewChannel(ch)}, nil
	}
}

func viewChannelEndpoint(svc panel.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(viewResourceReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		ch, err := svc.ViewChannel(ctx, req.token, req.id)
		if err != nil {
			return nil, err
		}

		return channelRes{viewChannelRes: toViewChannel(ch)}, nil
	}
}

func listChannelsEndpoint(svc panel.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(listChannelsReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		chs, err := svc.ListChannels(ctx, req.token)
		if err != nil {
			return nil, err
		}

		res := channelsPageRes{Channels: make([]viewChannelRes, 0, len(chs))}
		for _, ch := range chs {
			res.Channels = append(res.Channels, toViewChannel(ch))
		}

		return res, nil
	}
}

func createKeyEndpoint(svc panel.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(createKeyReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		perm := panel.EncodePermissions(req.Read, req.Write, req.Info, req.DisallowMixins)
		key, err := svc.CreateKey(ctx, req.token, req.chanID, req.Name, perm)
		if err != nil {
			return nil, err
		}

		return keyRes{viewKeyRes: toViewKey(key), created: true}, nil
	}
}

func listKeysEndpoint(svc panel.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(viewResourceReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		keys, err := svc.ListKeys(ctx, req.token, req.id)
		if err != nil {
			return nil, err
		}

		res := keysPageRes{Keys: make([]viewKeyRes, 0, len(keys))}
		for _, key := range keys {
			res.Keys = append(res.Keys, toViewKey(key))
		}

		return res, nil
	}
}

func toggleKeyEndpoint(svc panel.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(keyReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		key, err := svc.ToggleKey(ctx, req.token, req.key)
		if err != nil {
			return nil, err
		}

		return keyRes{viewKeyRes: toViewKey(key)}, nil
	}
}

func deleteKeyEndpoint(svc panel.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(keyReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		removed, err := svc.DeleteKey(ctx, req.token, req.key)
		if err != nil {
			return nil, err
		}

		return removeKeyRes{Key: removed}, nil
	}
}

func createMixinEndpoint(svc panel.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(createMixinReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		mixin, err := svc.CreateMixin(ctx, req.token, req.ChannelID, req.Key)
		if err != nil {
			return nil, err
		}

		return mixinRes{
			SourceChannel: mixin.SourceChannel,
			DestChannel:   mixin.DestChannel,
		}, nil
	}
}

func restrictMixinEndpoint(svc panel.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(restrictMixinReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		affected, err := svc.RestrictMixin(ctx, req.token, req.subjectID, req.otherID, req.direction)
		if err != nil {
			return nil, err
		}

		return restrictMixinRes{ChannelID: affected}, nil
	}
}

func listMixinsEndpoint(svc panel.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(viewResourceReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		page, err := svc.ListMixins(ctx, req.token, req.id)
		if err != nil {
			return nil, err
		}

		res := mixinsPageRes{
			Incoming: make([]viewChannelRes, 0, len(page.Incoming)),
			Outgoing: make([]viewChannelRes, 0, len(page.Outgoing)),
		}
		for _, ch := range page.Incoming {
			res.Incoming = append(res.Incoming, toViewChannel(ch))
		}
		for _, ch := range page.Outgoing {
			res.Outgoing = append(res.Outgoing, toViewChannel(ch))
		}

		return res, nil
	}
}

func rebuildMixinCacheEndpoint(svc panel.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(viewResourceReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		if err := svc.RebuildMixinCache(ctx, req.token, req.id); err != nil {
			return nil, err
		}

		return rebuildCacheRes{}, nil
	}
}

func toViewChannel(ch panel.Channel) viewChannelRes {
	return viewChannelRes{
		ID:   ch.ID,
		Name: ch.Name,
	}
}

func toViewKey(key panel.Key) viewKeyRes {
	return viewKeyRes{
		Key:     key.Token,
		ChanID:  key.ChanID,
		Name:    key.Name,
		Perm:    key.Perm,
		Read:    key.CanRead(),
		Write:   key.CanWrite(),
		Info:    key.InfoAllowed(),
		Mixins:  key.MixinAllowed(),
		Active:  key.Active(),
		Created: key.Created,
	}
}
