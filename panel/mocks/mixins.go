// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sync"

	"github.com/gaskeo/limq-panel/panel"
)

var _ panel.MixinRepository = (*mixinRepositoryMock)(nil)

type mixinRepositoryMock struct {
	mu     sync.Mutex
	mixins []panel.Mixin
}

// NewMixinRepository creates in-memory mixin repository.
func NewMixinRepository() panel.MixinRepository {
	return &mixinRepositoryMock{}
}

func (mrm *mixinRepositoryMock) Save(_ context.Context, mixin panel.Mixin) (panel.Mixin, error) {
	mrm.mu.Lock()
	defer mrm.mu.Unlock()

	for _, m := range mrm.mixins {
		if m.SourceChannel == mixin.SourceChannel && m.DestChannel == mixin.DestChannel {
			return panel.Mixin{}, panel.ErrAlreadyMixed
		}
	}

	if mrm.reachable(mixin.DestChannel, mixin.SourceChannel) {
		return panel.Mixin{}, panel.ErrCircleMixin
	}

	mrm.mixins = append(mrm.mixins, mixin)
	return mixin, nil
}

func (mrm *mixinRepositoryMock) Remove(_ context.Context, sourceID, destID string) error {
	mrm.mu.Lock()
	defer mrm.mu.Unlock()

	for i, m := range mrm.mixins {
		if m.SourceChannel == sourceID && m.DestChannel == destID {
			mrm.mixins = append(mrm.mixins[:i], mrm.mixins[i+1:]...)
			return nil
		}
	}

	return panel.ErrBadThread
}

func (mrm *mixinRepositoryMock) RetrieveBySource(_ context.Context, sourceID string) ([]panel.Mixin, error) {
	mrm.mu.Lock()
	defer mrm.mu.Unlock()

	return mrm.bySource(sourceID), nil
}

func (mrm *mixinRepositoryMock) RetrieveByDest(_ context.Context, destID string) ([]panel.Mixin, error) {
	mrm.mu.Lock()
	defer mrm.mu.Unlock()

	mixins := []panel.Mixin{}
	for _, m := range mrm.mixins {
		if m.DestChannel == destID {
			mixins = append(mixins, m)
		}
	}

	return mixins, nil
}

// removeByKey severs every edge linked by the given key. Used by the key
// repository mock to emulate the transactional cascade of the real store.
func (mrm *mixinRepositoryMock) removeByKey(token string) []panel.Mixin {
	mrm.mu.Lock()
	defer mrm.mu.Unlock()

	kept := mrm.mixins[:0]
	severed := []panel.Mixin{}
	for _, m := range mrm.mixins {
		if m.LinkedBy == token {
			severed = append(severed, m)
			continue
		}
		kept = append(kept, m)
	}
	mrm.mixins = kept

	return severed
}

// reachable walks edges forward from id looking for target, mirroring the
// in-transaction reachability guard of the SQL implementation. Callers must
// hold the lock.
func (mrm *mixinRepositoryMock) reachable(id, target string) bool {
	visited := map[string]bool{id: true}
	queue := []string{id}

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		for _, m := range mrm.bySource(next) {
			if m.DestChannel == target {
				return true
			}
			if !visited[m.DestChannel] {
				visited[m.DestChannel] = true
				queue = append(queue, m.DestChannel)
			}
		}
	}

	return false
}

func (mrm *mixinRepositoryMock) bySource(sourceID string) []panel.Mixin {
	mixins := []panel.Mixin{}
	for _, m := range mrm.mixins {
		if m.SourceChannel == sourceID {
			mixins = append(mixins, m)
		}
	}

	return mixins
}
