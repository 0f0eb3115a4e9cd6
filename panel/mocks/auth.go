// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/gaskeo/limq-panel/panel"
	svcerr "github.com/gaskeo/limq-panel/pkg/errors"
)

var _ panel.Authenticator = (*authServiceMock)(nil)

type authServiceMock struct {
	users map[string]string
}

// NewAuthService creates mock of the authentication service mapping tokens
// to user ids.
func NewAuthService(users map[string]string) panel.Authenticator {
	return &authServiceMock{users}
}

func (svc authServiceMock) Identify(_ context.Context, token string) (string, error) {
	if id, ok := svc.users[token]; ok {
		return id, nil
	}

	return "", svcerr.ErrAuthentication
}
