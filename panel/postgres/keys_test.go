// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package postgres_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaskeo/limq-panel/panel"
	"github.com/gaskeo/limq-panel/panel/postgres"
	"github.com/gaskeo/limq-panel/pkg/errors"
)

func saveChannel(t *testing.T, owner string) panel.Channel {
	repo := postgres.NewChannelRepository(db)
	ch := panel.Channel{ID: newChannelID(t), Owner: owner, Name: "channel"}
	_, err := repo.Save(context.Background(), ch)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	return ch
}

func TestKeySave(t *testing.T) {
	repo := postgres.NewKeyRepository(db)

	ch := saveChannel(t, email)
	tok := newKeyToken(t)

	cases := []struct {
		desc string
		key  panel.Key
		err  error
	}{
		{
			desc: "save new key",
			key:  panel.Key{Token: tok, ChanID: ch.ID, Name: "consumer", Perm: panel.PermRead, Created: time.Now().UTC()},
			err:  nil,
		},
		{
			desc: "save key with duplicate token",
			key:  panel.Key{Token: tok, ChanID: ch.ID, Name: "consumer", Perm: panel.PermRead, Created: time.Now().UTC()},
			err:  errors.ErrConflict,
		},
		{
			desc: "save key for non-existing channel",
			key:  panel.Key{Token: newKeyToken(t), ChanID: newChannelID(t), Name: "consumer", Perm: panel.PermRead, Created: time.Now().UTC()},
			err:  panel.ErrChannelNotExist,
		},
		{
			desc: "save key with too long name",
			key:  panel.Key{Token: newKeyToken(t), ChanID: ch.ID, Name: strings.Repeat("k", 51), Perm: panel.PermRead, Created: time.Now().UTC()},
			err:  panel.ErrKeyName,
		},
	}

	for _, tc := range cases {
		_, err := repo.Save(context.Background(), tc.key)
		assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.err, err))
	}
}

func TestKeyRetrieveByToken(t *testing.T) {
	repo := postgres.NewKeyRepository(db)

	ch := saveChannel(t, email)
	key := panel.Key{Token: newKeyToken(t), ChanID: ch.ID, Name: "consumer", Perm: panel.PermRead | panel.PermWrite, Created: time.Now().UTC()}
	_, err := repo.Save(context.Background(), key)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	cases := []struct {
		desc  string
		token string
		err   error
	}{
		{
			desc:  "retrieve existing key",
			token: key.Token,
			err:   nil,
		},
		{
			desc:  "retrieve non-existing key",
			token: newKeyToken(t),
			err:   panel.ErrBadKey,
		},
	}

	for _, tc := range cases {
		got, err := repo.RetrieveByToken(context.Background(), tc.token)
		assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.err, err))
		if err == nil {
			assert.Equal(t, key.Perm, got.Perm, fmt.Sprintf("%s: expected perm %d got %d\n", tc.desc, key.Perm, got.Perm))
			assert.Equal(t, key.ChanID, got.ChanID, fmt.Sprintf("%s: expected channel %s got %s\n", tc.desc, key.ChanID, got.ChanID))
		}
	}
}

func TestKeyRetrieveByChannel(t *testing.T) {
	repo := postgres.NewKeyRepository(db)

	ch := saveChannel(t, email)
	n := 3
	for i := 0; i < n; i++ {
		key := panel.Key{
			Token:   newKeyToken(t),
			ChanID:  ch.ID,
			Name:    fmt.Sprintf("key-%d", i),
			Perm:    panel.PermRead,
			Created: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		_, err := repo.Save(context.Background(), key)
		require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	}

	keys, err := repo.RetrieveByChannel(context.Background(), ch.ID)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, n, len(keys), fmt.Sprintf("expected %d keys got %d", n, len(keys)))
	for i := 1; i < len(keys); i++ {
		assert.False(t, keys[i-1].Created.Before(keys[i].Created), "expected keys to be sorted newest first")
	}

	keys, err = repo.RetrieveByChannel(context.Background(), newChannelID(t))
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Empty(t, keys, "expected no keys for unknown channel")
}

func TestKeyUpdate(t *testing.T) {
	repo := postgres.NewKeyRepository(db)

	ch := saveChannel(t, email)
	key := panel.Key{Token: newKeyToken(t), ChanID: ch.ID, Name: "consumer", Perm: panel.PermRead, Created: time.Now().UTC()}
	_, err := repo.Save(context.Background(), key)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	key.ToggleActive()
	err = repo.Update(context.Background(), key)
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	got, err := repo.RetrieveByToken(context.Background(), key.Token)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.False(t, got.Active(), "expected key to be paused after update")

	unknown := panel.Key{Token: newKeyToken(t), ChanID: ch.ID, Name: "consumer", Perm: panel.PermRead}
	err = repo.Update(context.Background(), unknown)
	assert.True(t, errors.Contains(err, panel.ErrBadKey), fmt.Sprintf("expected %s got %s", panel.ErrBadKey, err))
}

func TestKeyRemove(t *testing.T) {
	keys := postgres.NewKeyRepository(db)
	mixins := postgres.NewMixinRepository(db)

	source := saveChannel(t, email)
	dest := saveChannel(t, email)

	key := panel.Key{Token: newKeyToken(t), ChanID: source.ID, Name: "link", Perm: panel.PermRead, Created: time.Now().UTC()}
	_, err := keys.Save(context.Background(), key)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	mixin := panel.Mixin{SourceChannel: source.ID, DestChannel: dest.ID, LinkedBy: key.Token}
	_, err = mixins.Save(context.Background(), mixin)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	severed, err := keys.Remove(context.Background(), key.Token)
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, []panel.Mixin{mixin}, severed, fmt.Sprintf("expected severed edges %v got %v", []panel.Mixin{mixin}, severed))

	edges, err := mixins.RetrieveBySource(context.Background(), source.ID)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Empty(t, edges, "expected key removal to sever edges it authorized")

	_, err = keys.Remove(context.Background(), key.Token)
	assert.True(t, errors.Contains(err, panel.ErrBadKey), fmt.Sprintf("expected %s got %s", panel.ErrBadKey, err))
}
