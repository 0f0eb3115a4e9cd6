// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

const maxKeyNameLength = 50

// Permission bits packed into the key's perm field. The paused bit lives in
// a separate byte so that pausing and resuming a key never disturbs its
// capability bits.
const (
	PermRead = 1 << iota
	PermWrite
	PermInfo
	PermNoMixins

	permPaused = 1 << 8
)

// permMask covers every bit a caller is allowed to set at creation time.
const permMask = PermRead | PermWrite | PermInfo | PermNoMixins

// EncodePermissions packs four independent capabilities into a key
// permission bitmask.
func EncodePermissions(read, write, info, disallowMixins bool) int {
	perm := 0
	if read {
		perm |= PermRead
	}
	if write {
		perm |= PermWrite
	}
	if info {
		perm |= PermInfo
	}
	if disallowMixins {
		perm |= PermNoMixins
	}

	return perm
}

// Key represents a bearer access key scoped to a single channel. The token
// is the only handle used to reference the key externally.
type Key struct {
	Token   string
	ChanID  string
	Name    string
	Perm    int
	Created time.Time
}

// Validate returns an error if key representation is invalid.
func (k Key) Validate() error {
	name := strings.TrimSpace(k.Name)
	if name == "" || utf8.RuneCountInString(name) > maxKeyNameLength {
		return ErrKeyName
	}

	if k.Perm&^permMask != 0 {
		return ErrKeyPermissions
	}

	return nil
}

// CanRead indicates whether the key grants message consumption.
func (k Key) CanRead() bool {
	return k.Perm&PermRead != 0
}

// CanWrite indicates whether the key grants message publishing.
func (k Key) CanWrite() bool {
	return k.Perm&PermWrite != 0
}

// InfoAllowed indicates whether the key grants channel metadata access.
func (k Key) InfoAllowed() bool {
	return k.Perm&PermInfo != 0
}

// MixinAllowed indicates whether the key may authorize mixin creation.
func (k Key) MixinAllowed() bool {
	return k.Perm&PermNoMixins == 0
}

// Active indicates whether the key is currently usable.
func (k Key) Active() bool {
	return k.Perm&permPaused == 0
}

// ToggleActive flips the paused bit, leaving every capability bit intact,
// and reports the resulting active state.
func (k *Key) ToggleActive() bool {
	k.Perm ^= permPaused

	return k.Active()
}

// KeyRepository specifies an access key persistence API.
type KeyRepository interface {
	// Save persists the key. Returns ErrChannelNotExist if the referenced
	// channel vanished before the insert.
	Save(ctx context.Context, key Key) (Key, error)

	// RetrieveByToken retrieves the key having the provided token. Returns
	// ErrBadKey if the token is unknown.
	RetrieveByToken(ctx context.Context, token string) (Key, error)

	// RetrieveByChannel retrieves all keys issued for the specified channel,
	// newest first.
	RetrieveByChannel(ctx context.Context, chanID string) ([]Key, error)

	// Update persists a permission change of the existing key. Returns
	// ErrBadKey if the token is unknown.
	Update(ctx context.Context, key Key) error

	// Remove removes the key and, in the same transaction, every mixin edge
	// linked by it. Severed edges are returned so that the caller can evict
	// them from the adjacency cache.
	Remove(ctx context.Context, token string) ([]Mixin, error)
}
