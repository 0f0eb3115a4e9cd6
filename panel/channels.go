// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"context"
	"strings"
	"unicode/utf8"
)

const maxChannelNameLength = 64

// Channel represents a LimQ message topic. Each channel is owned by exactly
// one user; the owner is fixed at creation time.
type Channel struct {
	ID    string
	Owner string
	Name  string
}

// Validate returns an error if channel representation is invalid.
func (c Channel) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" || utf8.RuneCountInString(name) > maxChannelNameLength {
		return ErrChannelName
	}

	return nil
}

// ChannelRepository specifies a channel persistence API.
type ChannelRepository interface {
	// Save persists the channel. A non-nil error is returned to indicate
	// operation failure.
	Save(ctx context.Context, ch Channel) (Channel, error)

	// Update performs an update of the existing channel's name. Returns
	// ErrChannelNotExist if the channel is absent.
	Update(ctx context.Context, ch Channel) error

	// RetrieveByID retrieves the channel having the provided identifier.
	RetrieveByID(ctx context.Context, id string) (Channel, error)

	// RetrieveByOwner retrieves all channels owned by the specified user.
	RetrieveByOwner(ctx context.Context, owner string) ([]Channel, error)
}
