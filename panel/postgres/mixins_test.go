// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package postgres_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaskeo/limq-panel/panel"
	"github.com/gaskeo/limq-panel/panel/postgres"
	"github.com/gaskeo/limq-panel/pkg/errors"
)

func saveKey(t *testing.T, chanID string) panel.Key {
	repo := postgres.NewKeyRepository(db)
	key := panel.Key{Token: newKeyToken(t), ChanID: chanID, Name: "link", Perm: panel.PermRead, Created: time.Now().UTC()}
	_, err := repo.Save(context.Background(), key)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	return key
}

func TestMixinSave(t *testing.T) {
	repo := postgres.NewMixinRepository(db)

	source := saveChannel(t, email)
	dest := saveChannel(t, email)
	key := saveKey(t, source.ID)

	cases := []struct {
		desc  string
		mixin panel.Mixin
		err   error
	}{
		{
			desc:  "save new mixin",
			mixin: panel.Mixin{SourceChannel: source.ID, DestChannel: dest.ID, LinkedBy: key.Token},
			err:   nil,
		},
		{
			desc:  "save duplicate mixin",
			mixin: panel.Mixin{SourceChannel: source.ID, DestChannel: dest.ID, LinkedBy: key.Token},
			err:   panel.ErrAlreadyMixed,
		},
		{
			desc:  "save mixin into the source channel itself",
			mixin: panel.Mixin{SourceChannel: source.ID, DestChannel: source.ID, LinkedBy: key.Token},
			err:   panel.ErrSelfMixin,
		},
		{
			desc:  "save mixin with non-existing destination",
			mixin: panel.Mixin{SourceChannel: source.ID, DestChannel: newChannelID(t), LinkedBy: key.Token},
			err:   panel.ErrChannelNotExist,
		},
	}

	for _, tc := range cases {
		_, err := repo.Save(context.Background(), tc.mixin)
		assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.err, err))
	}
}

func TestMixinSaveConcurrent(t *testing.T) {
	repo := postgres.NewMixinRepository(db)

	source := saveChannel(t, email)
	dest := saveChannel(t, email)
	key := saveKey(t, source.ID)

	// Two writers racing on the same edge; the uniqueness constraint must
	// let exactly one insert through.
	const writers = 2

	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Save(context.Background(), panel.Mixin{SourceChannel: source.ID, DestChannel: dest.ID, LinkedBy: key.Token})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	saved := 0
	for err := range errs {
		if err == nil {
			saved++
			continue
		}
		assert.True(t, errors.Contains(err, panel.ErrAlreadyMixed), fmt.Sprintf("losing writer: expected %s got %s", panel.ErrAlreadyMixed, err))
	}
	assert.Equal(t, 1, saved, fmt.Sprintf("expected exactly one writer to save the edge, got %d", saved))

	mixins, err := repo.RetrieveBySource(context.Background(), source.ID)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Len(t, mixins, 1, fmt.Sprintf("expected a single stored edge, got %d", len(mixins)))
}

func TestMixinSaveCycle(t *testing.T) {
	repo := postgres.NewMixinRepository(db)

	// a -> b -> c stored in the edge table; the insert statement itself must
	// reject both the direct and the transitive back edge.
	a := saveChannel(t, email)
	b := saveChannel(t, email)
	c := saveChannel(t, email)

	aKey := saveKey(t, a.ID)
	bKey := saveKey(t, b.ID)
	cKey := saveKey(t, c.ID)

	_, err := repo.Save(context.Background(), panel.Mixin{SourceChannel: a.ID, DestChannel: b.ID, LinkedBy: aKey.Token})
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	_, err = repo.Save(context.Background(), panel.Mixin{SourceChannel: b.ID, DestChannel: c.ID, LinkedBy: bKey.Token})
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	_, err = repo.Save(context.Background(), panel.Mixin{SourceChannel: b.ID, DestChannel: a.ID, LinkedBy: bKey.Token})
	assert.True(t, errors.Contains(err, panel.ErrCircleMixin), fmt.Sprintf("direct back edge: expected %s got %s", panel.ErrCircleMixin, err))

	_, err = repo.Save(context.Background(), panel.Mixin{SourceChannel: c.ID, DestChannel: a.ID, LinkedBy: cKey.Token})
	assert.True(t, errors.Contains(err, panel.ErrCircleMixin), fmt.Sprintf("transitive back edge: expected %s got %s", panel.ErrCircleMixin, err))
}

func TestMixinRemove(t *testing.T) {
	repo := postgres.NewMixinRepository(db)

	source := saveChannel(t, email)
	dest := saveChannel(t, email)
	key := saveKey(t, source.ID)

	_, err := repo.Save(context.Background(), panel.Mixin{SourceChannel: source.ID, DestChannel: dest.ID, LinkedBy: key.Token})
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	err = repo.Remove(context.Background(), source.ID, dest.ID)
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	err = repo.Remove(context.Background(), source.ID, dest.ID)
	assert.True(t, errors.Contains(err, panel.ErrBadThread), fmt.Sprintf("expected %s got %s", panel.ErrBadThread, err))

	// A severed edge must be insertable again.
	_, err = repo.Save(context.Background(), panel.Mixin{SourceChannel: source.ID, DestChannel: dest.ID, LinkedBy: key.Token})
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
}

func TestMixinRetrieve(t *testing.T) {
	repo := postgres.NewMixinRepository(db)

	hub := saveChannel(t, email)
	upstream := saveChannel(t, email)
	downstream := saveChannel(t, email)

	upstreamKey := saveKey(t, upstream.ID)
	hubKey := saveKey(t, hub.ID)

	_, err := repo.Save(context.Background(), panel.Mixin{SourceChannel: upstream.ID, DestChannel: hub.ID, LinkedBy: upstreamKey.Token})
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	_, err = repo.Save(context.Background(), panel.Mixin{SourceChannel: hub.ID, DestChannel: downstream.ID, LinkedBy: hubKey.Token})
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	outgoing, err := repo.RetrieveBySource(context.Background(), hub.ID)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, 1, len(outgoing), fmt.Sprintf("expected 1 outgoing edge got %d", len(outgoing)))

	incoming, err := repo.RetrieveByDest(context.Background(), hub.ID)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, 1, len(incoming), fmt.Sprintf("expected 1 incoming edge got %d", len(incoming)))

	none, err := repo.RetrieveBySource(context.Background(), downstream.ID)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Empty(t, none, "expected leaf channel to have no outgoing edges")
}
