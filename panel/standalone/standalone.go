// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

// Package standalone provides a single-user authenticator for constrained
// deployments that run the panel without an external identity service.
package standalone

import (
	"context"

	"github.com/gaskeo/limq-panel/panel"
	svcerr "github.com/gaskeo/limq-panel/pkg/errors"
)

var _ panel.Authenticator = (*singleUserRepo)(nil)

type singleUserRepo struct {
	id    string
	token string
}

// NewAuthService creates a single user authenticator.
func NewAuthService(id, token string) panel.Authenticator {
	return singleUserRepo{
		id:    id,
		token: token,
	}
}

func (repo singleUserRepo) Identify(_ context.Context, token string) (string, error) {
	if repo.token != token {
		return "", svcerr.ErrAuthentication
	}

	return repo.id, nil
}
