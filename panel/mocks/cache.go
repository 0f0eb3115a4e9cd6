// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/gaskeo/limq-panel/panel"
)

var _ panel.MixinCache = (*mixinCacheMock)(nil)

type mixinCacheMock struct {
	mu        sync.Mutex
	adjacency map[string]map[string]bool
}

// NewMixinCache creates in-memory adjacency mirror.
func NewMixinCache() panel.MixinCache {
	return &mixinCacheMock{
		adjacency: make(map[string]map[string]bool),
	}
}

func (mcm *mixinCacheMock) Add(_ context.Context, sourceID, destID string) error {
	mcm.mu.Lock()
	defer mcm.mu.Unlock()

	if mcm.adjacency[sourceID] == nil {
		mcm.adjacency[sourceID] = make(map[string]bool)
	}
	mcm.adjacency[sourceID][destID] = true

	return nil
}

func (mcm *mixinCacheMock) Remove(_ context.Context, sourceID, destID string) error {
	mcm.mu.Lock()
	defer mcm.mu.Unlock()

	delete(mcm.adjacency[sourceID], destID)

	return nil
}

func (mcm *mixinCacheMock) Mixins(_ context.Context, sourceID string) ([]string, error) {
	mcm.mu.Lock()
	defer mcm.mu.Unlock()

	destIDs := []string{}
	for destID := range mcm.adjacency[sourceID] {
		destIDs = append(destIDs, destID)
	}
	sort.Strings(destIDs)

	return destIDs, nil
}

func (mcm *mixinCacheMock) Rebuild(_ context.Context, sourceID string, destIDs []string) error {
	mcm.mu.Lock()
	defer mcm.mu.Unlock()

	adjacency := make(map[string]bool, len(destIDs))
	for _, destID := range destIDs {
		adjacency[destID] = true
	}
	mcm.adjacency[sourceID] = adjacency

	return nil
}
