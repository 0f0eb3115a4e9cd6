// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

// Package token provides the panel identity provider: fixed-length hex
// channel identifiers and alphanumeric access key tokens.
package token

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/gaskeo/limq-panel/panel"
	"github.com/gaskeo/limq-panel/pkg/errors"
)

const (
	// ChannelIDLength is the length of a channel identifier: 64 random bits
	// rendered as lower-case hex.
	ChannelIDLength = 16

	// KeyLength is the length of an access key token.
	KeyLength = 32
)

const keyChars = "qwertyuiopasdfghjklzxcvbnmQWERTYUIOPASDFGHJKLZXCVBNM1234567890"

// ErrGeneratingID indicates a failure of the system randomness source.
var ErrGeneratingID = errors.New("failed to generate identifier")

var _ panel.IdentityProvider = (*tokenProvider)(nil)

type tokenProvider struct{}

// New instantiates a crypto/rand backed identity provider.
func New() panel.IdentityProvider {
	return &tokenProvider{}
}

func (tp *tokenProvider) ChannelID() (string, error) {
	buf := make([]byte, ChannelIDLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(ErrGeneratingID, err)
	}

	return hex.EncodeToString(buf), nil
}

func (tp *tokenProvider) Key() (string, error) {
	// Bytes at or above the largest multiple of len(keyChars) are rejected
	// so every character is equally likely.
	const bound = byte(256 - 256%len(keyChars))

	token := make([]byte, 0, KeyLength)
	buf := make([]byte, KeyLength)
	for len(token) < KeyLength {
		if _, err := rand.Read(buf); err != nil {
			return "", errors.Wrap(ErrGeneratingID, err)
		}

		for _, b := range buf {
			if b >= bound {
				continue
			}

			token = append(token, keyChars[int(b)%len(keyChars)])
			if len(token) == KeyLength {
				break
			}
		}
	}

	return string(token), nil
}
