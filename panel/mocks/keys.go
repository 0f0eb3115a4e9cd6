// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/gaskeo/limq-panel/panel"
)

var _ panel.KeyRepository = (*keyRepositoryMock)(nil)

type keyRepositoryMock struct {
	mu     sync.Mutex
	keys   map[string]panel.Key
	mixins *mixinRepositoryMock
}

// NewKeyRepository creates in-memory key repository. It borrows the mixin
// repository so that key removal can cascade over linked edges the way the
// relational store does.
func NewKeyRepository(mixins panel.MixinRepository) panel.KeyRepository {
	return &keyRepositoryMock{
		keys:   make(map[string]panel.Key),
		mixins: mixins.(*mixinRepositoryMock),
	}
}

func (krm *keyRepositoryMock) Save(_ context.Context, key panel.Key) (panel.Key, error) {
	krm.mu.Lock()
	defer krm.mu.Unlock()

	krm.keys[key.Token] = key
	return key, nil
}

func (krm *keyRepositoryMock) RetrieveByToken(_ context.Context, token string) (panel.Key, error) {
	krm.mu.Lock()
	defer krm.mu.Unlock()

	if key, ok := krm.keys[token]; ok {
		return key, nil
	}

	return panel.Key{}, panel.ErrBadKey
}

func (krm *keyRepositoryMock) RetrieveByChannel(_ context.Context, chanID string) ([]panel.Key, error) {
	krm.mu.Lock()
	defer krm.mu.Unlock()

	keys := []panel.Key{}
	for _, key := range krm.keys {
		if key.ChanID == chanID {
			keys = append(keys, key)
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Created.After(keys[j].Created)
	})

	return keys, nil
}

func (krm *keyRepositoryMock) Update(_ context.Context, key panel.Key) error {
	krm.mu.Lock()
	defer krm.mu.Unlock()

	if _, ok := krm.keys[key.Token]; !ok {
		return panel.ErrBadKey
	}

	krm.keys[key.Token] = key
	return nil
}

func (krm *keyRepositoryMock) Remove(_ context.Context, token string) ([]panel.Mixin, error) {
	krm.mu.Lock()
	defer krm.mu.Unlock()

	if _, ok := krm.keys[token]; !ok {
		return nil, panel.ErrBadKey
	}

	delete(krm.keys, token)
	return krm.mixins.removeByKey(token), nil
}
