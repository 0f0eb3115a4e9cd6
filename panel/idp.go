// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package panel

// IdentityProvider specifies an API for generating unique identifiers of the
// panel entities.
type IdentityProvider interface {
	// ChannelID generates a fresh channel identifier.
	ChannelID() (string, error)

	// Key generates a fresh access key token.
	Key() (string, error)
}
