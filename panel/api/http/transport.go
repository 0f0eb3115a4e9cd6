// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

// Package http contains implementation of panel service HTTP API.
package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	kitot "github.com/go-kit/kit/tracing/opentracing"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/go-zoo/bone"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	limq "github.com/gaskeo/limq-panel"
	"github.com/gaskeo/limq-panel/panel"
	"github.com/gaskeo/limq-panel/pkg/errors"
)

const (
	contentType = "application/json"
	direction   = "direction"
)

var (
	errUnsupportedContentType = errors.New("unsupported content type")
	errInvalidQueryParams     = errors.New("invalid query params")
)

// MakeHandler returns a HTTP handler for API endpoints.
func MakeHandler(tracer opentracing.Tracer, svc panel.Service) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(encodeError),
	}

	r := bone.New()

	r.Post("/channels", kithttp.NewServer(
		kitot.TraceServer(tracer, "create_channel")(createChannelEndpoint(svc)),
		decodeChannelCreation,
		encodeResponse,
		opts...,
	))

	r.Get("/channels", kithttp.NewServer(
		kitot.TraceServer(tracer, "list_channels")(listChannelsEndpoint(svc)),
		decodeListChannels,
		encodeResponse,
		opts...,
	))

	r.Get("/channels/:id", kithttp.NewServer(
		kitot.TraceServer(tracer, "view_channel")(viewChannelEndpoint(svc)),
		decodeView,
		encodeResponse,
		opts...,
	))

	r.Put("/channels/:id", kithttp.NewServer(
		kitot.TraceServer(tracer, "rename_channel")(renameChannelEndpoint(svc)),
		decodeChannelRename,
		encodeResponse,
		opts...,
	))

	r.Post("/channels/:id/keys", kithttp.NewServer(
		kitot.TraceServer(tracer, "create_key")(createKeyEndpoint(svc)),
		decodeKeyCreation,
		encodeResponse,
		opts...,
	))

	r.Get("/channels/:id/keys", kithttp.NewServer(
		kitot.TraceServer(tracer, "list_keys")(listKeysEndpoint(svc)),
		decodeView,
		encodeResponse,
		opts...,
	))

	r.Patch("/keys/:key", kithttp.NewServer(
		kitot.TraceServer(tracer, "toggle_key")(toggleKeyEndpoint(svc)),
		decodeKey,
		encodeResponse,
		opts...,
	))

	r.Delete("/keys/:key", kithttp.NewServer(
		kitot.TraceServer(tracer, "delete_key")(deleteKeyEndpoint(svc)),
		decodeKey,
		encodeResponse,
		opts...,
	))

	r.Post("/mixins", kithttp.NewServer(
		kitot.TraceServer(tracer, "create_mixin")(createMixinEndpoint(svc)),
		decodeMixinCreation,
		encodeResponse,
		opts...,
	))

	r.Get("/channels/:id/mixins", kithttp.NewServer(
		kitot.TraceServer(tracer, "list_mixins")(listMixinsEndpoint(svc)),
		decodeView,
		encodeResponse,
		opts...,
	))

	r.Delete("/channels/:id/mixins/:otherId", kithttp.NewServer(
		kitot.TraceServer(tracer, "restrict_mixin")(restrictMixinEndpoint(svc)),
		decodeMixinRestriction,
		encodeResponse,
		opts...,
	))

	r.Post("/channels/:id/mixins/rebuild", kithttp.NewServer(
		kitot.TraceServer(tracer, "rebuild_mixin_cache")(rebuildMixinCacheEndpoint(svc)),
		decodeView,
		encodeResponse,
		opts...,
	))

	r.GetFunc("/version", limq.Version("panel"))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func decodeChannelCreation(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), contentType) {
		return nil, errUnsupportedContentType
	}

	req := createChannelReq{token: r.Header.Get("Authorization")}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedEntity, err)
	}

	return req, nil
}

func decodeChannelRename(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), contentType) {
		return nil, errUnsupportedContentType
	}

	req := renameChannelReq{
		token: r.Header.Get("Authorization"),
		id:    bone.GetValue(r, "id"),
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedEntity, err)
	}

	return req, nil
}

func decodeView(_ context.Context, r *http.Request) (interface{}, error) {
	req := viewResourceReq{
		token: r.Header.Get("Authorization"),
		id:    bone.GetValue(r, "id"),
	}

	return req, nil
}

func decodeListChannels(_ context.Context, r *http.Request) (interface{}, error) {
	req := listChannelsReq{token: r.Header.Get("Authorization")}

	return req, nil
}

func decodeKeyCreation(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), contentType) {
		return nil, errUnsupportedContentType
	}

	req := createKeyReq{
		token:  r.Header.Get("Authorization"),
		chanID: bone.GetValue(r, "id"),
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedEntity, err)
	}

	return req, nil
}

func decodeKey(_ context.Context, r *http.Request) (interface{}, error) {
	req := keyReq{
		token: r.Header.Get("Authorization"),
		key:   bone.GetValue(r, "key"),
	}

	return req, nil
}

func decodeMixinCreation(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), contentType) {
		return nil, errUnsupportedContentType
	}

	req := createMixinReq{token: r.Header.Get("Authorization")}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedEntity, err)
	}

	return req, nil
}

func decodeMixinRestriction(_ context.Context, r *http.Request) (interface{}, error) {
	d, err := readStringQuery(r, direction, panel.MixinOut)
	if err != nil {
		return nil, err
	}

	req := restrictMixinReq{
		token:     r.Header.Get("Authorization"),
		subjectID: bone.GetValue(r, "id"),
		otherID:   bone.GetValue(r, "otherId"),
		direction: d,
	}

	return req, nil
}

func encodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", contentType)

	if ar, ok := response.(limq.Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}

		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	switch errorVal := err.(type) {
	case errors.Error:
		w.Header().Set("Content-Type", contentType)
		switch {
		case errors.Contains(errorVal, panel.ErrAuthentication),
			errors.Contains(errorVal, errors.ErrAuthentication):
			w.WriteHeader(http.StatusUnauthorized)
		case errors.Contains(errorVal, panel.ErrNotOwner):
			w.WriteHeader(http.StatusForbidden)
		case errors.Contains(errorVal, panel.ErrChannelNotExist):
			w.WriteHeader(http.StatusNotFound)
		case errors.Contains(errorVal, panel.ErrBadKey),
			errors.Contains(errorVal, panel.ErrKeyPermissions),
			errors.Contains(errorVal, panel.ErrSelfMixin):
			w.WriteHeader(http.StatusForbidden)
		case errors.Contains(errorVal, panel.ErrChannelName),
			errors.Contains(errorVal, panel.ErrKeyName),
			errors.Contains(errorVal, panel.ErrAlreadyMixed),
			errors.Contains(errorVal, panel.ErrBadThread),
			errors.Contains(errorVal, panel.ErrBadMixinType),
			errors.Contains(errorVal, panel.ErrCircleMixin):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Contains(errorVal, errors.ErrMalformedEntity):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Contains(errorVal, errors.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Contains(errorVal, errors.ErrConflict):
			w.WriteHeader(http.StatusUnprocessableEntity)
		case errors.Contains(errorVal, errUnsupportedContentType):
			w.WriteHeader(http.StatusUnsupportedMediaType)
		case errors.Contains(errorVal, errInvalidQueryParams):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Contains(errorVal, io.ErrUnexpectedEOF),
			errors.Contains(errorVal, io.EOF):
			w.WriteHeader(http.StatusBadRequest)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		if errorVal.Msg() != "" {
			res := errorRes{Err: errorVal.Msg(), Code: panel.Code(errorVal)}
			if err := json.NewEncoder(w).Encode(res); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
			}
		}
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func readStringQuery(r *http.Request, key, def string) (string, error) {
	vals := bone.GetQuery(r, key)
	if len(vals) > 1 {
		return "", errInvalidQueryParams
	}

	if len(vals) == 0 {
		return def, nil
	}

	return vals[0], nil
}
