// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"fmt"
	"sync"

	"github.com/gaskeo/limq-panel/panel"
)

var _ panel.IdentityProvider = (*identityProviderMock)(nil)

type identityProviderMock struct {
	mu      sync.Mutex
	counter int
}

// NewIdentityProvider creates a deterministic identity provider for testing
// purposes.
func NewIdentityProvider() panel.IdentityProvider {
	return &identityProviderMock{}
}

func (idp *identityProviderMock) ChannelID() (string, error) {
	idp.mu.Lock()
	defer idp.mu.Unlock()

	idp.counter++
	return fmt.Sprintf("%016x", idp.counter), nil
}

func (idp *identityProviderMock) Key() (string, error) {
	idp.mu.Lock()
	defer idp.mu.Unlock()

	idp.counter++
	return fmt.Sprintf("%032x", idp.counter), nil
}
