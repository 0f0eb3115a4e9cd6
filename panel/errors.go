// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package panel

import "github.com/gaskeo/limq-panel/pkg/errors"

var (
	// ErrChannelName indicates an empty or too long channel name.
	ErrChannelName = errors.New("bad channel name")

	// ErrChannelNotExist indicates that the referenced channel has no record.
	ErrChannelNotExist = errors.New("channel doesn't exist")

	// ErrNotOwner indicates that the authenticated identity does not own the
	// referenced channel.
	ErrNotOwner = errors.New("no access to this channel")

	// ErrKeyName indicates an empty or too long key name.
	ErrKeyName = errors.New("bad key name")

	// ErrKeyPermissions indicates that the key carries a malformed permission
	// set or lacks a capability required by the operation.
	ErrKeyPermissions = errors.New("wrong permissions")

	// ErrBadKey indicates an unknown key token, or a paused key where an
	// active one is required.
	ErrBadKey = errors.New("invalid key")

	// ErrAlreadyMixed indicates a duplicate mixin edge.
	ErrAlreadyMixed = errors.New("already mixed")

	// ErrBadThread indicates that restrict-mixin referenced an edge that
	// does not exist.
	ErrBadThread = errors.New("bad thread")

	// ErrBadMixinType indicates an unknown restrict-mixin direction.
	ErrBadMixinType = errors.New("bad thread type")

	// ErrCircleMixin indicates that the edge would close a forwarding cycle.
	ErrCircleMixin = errors.New("you want to make a circle")

	// ErrSelfMixin indicates a mixin where source equals destination.
	ErrSelfMixin = errors.New("mixin with same channel")

	// ErrAuthentication indicates a missing or invalid requester token.
	ErrAuthentication = errors.New("missing or invalid token")
)

// Stable numeric error codes exposed to API clients alongside the error
// description.
var codes = map[string]int{
	ErrChannelName.Msg():     700,
	ErrChannelNotExist.Msg(): 701,
	ErrNotOwner.Msg():        702,
	ErrKeyName.Msg():         800,
	ErrKeyPermissions.Msg():  801,
	ErrBadKey.Msg():          803,
	ErrAlreadyMixed.Msg():    900,
	ErrBadThread.Msg():       901,
	ErrBadMixinType.Msg():    902,
	ErrCircleMixin.Msg():     903,
	ErrSelfMixin.Msg():       904,
	ErrAuthentication.Msg():  1101,
}

// Code returns the stable numeric code of the outermost known panel error
// contained in err, or 0 for errors outside of the panel taxonomy.
func Code(err error) int {
	for err != nil {
		ce, ok := err.(errors.Error)
		if !ok {
			return codes[err.Error()]
		}
		if code, ok := codes[ce.Msg()]; ok {
			return code
		}
		if ce.Err() == nil {
			return 0
		}
		err = ce.Err()
	}

	return 0
}
