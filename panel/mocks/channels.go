// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/gaskeo/limq-panel/panel"
)

var _ panel.ChannelRepository = (*channelRepositoryMock)(nil)

type channelRepositoryMock struct {
	mu       sync.Mutex
	channels map[string]panel.Channel
}

// NewChannelRepository creates in-memory channel repository.
func NewChannelRepository() panel.ChannelRepository {
	return &channelRepositoryMock{
		channels: make(map[string]panel.Channel),
	}
}

func (crm *channelRepositoryMock) Save(_ context.Context, ch panel.Channel) (panel.Channel, error) {
	crm.mu.Lock()
	defer crm.mu.Unlock()

	crm.channels[ch.ID] = ch
	return ch, nil
}

func (crm *channelRepositoryMock) Update(_ context.Context, ch panel.Channel) error {
	crm.mu.Lock()
	defer crm.mu.Unlock()

	if _, ok := crm.channels[ch.ID]; !ok {
		return panel.ErrChannelNotExist
	}

	crm.channels[ch.ID] = ch
	return nil
}

func (crm *channelRepositoryMock) RetrieveByID(_ context.Context, id string) (panel.Channel, error) {
	crm.mu.Lock()
	defer crm.mu.Unlock()

	if ch, ok := crm.channels[id]; ok {
		return ch, nil
	}

	return panel.Channel{}, panel.ErrChannelNotExist
}

func (crm *channelRepositoryMock) RetrieveByOwner(_ context.Context, owner string) ([]panel.Channel, error) {
	crm.mu.Lock()
	defer crm.mu.Unlock()

	channels := []panel.Channel{}
	for _, ch := range crm.channels {
		if ch.Owner == owner {
			channels = append(channels, ch)
		}
	}

	sort.Slice(channels, func(i, j int) bool {
		return channels[i].ID < channels[j].ID
	})

	return channels, nil
}
