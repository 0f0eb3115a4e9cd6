// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

// Package panel contains the channel-management core: channels, scoped
// access keys and the mixin forwarding graph together with its integrity
// rules.
package panel

import (
	"context"
	"strings"
	"time"

	"github.com/gaskeo/limq-panel/pkg/errors"
)

// Authenticator resolves the bearer token supplied with a request into an
// opaque authenticated user identity. Credential verification is an external
// concern; the panel trusts the returned identity.
type Authenticator interface {
	// Identify returns the user id bound to the given token.
	Identify(ctx context.Context, token string) (string, error)
}

// Service specifies an API that must be fullfiled by the panel service
// implementation, and all of its decorators (e.g. logging & metrics).
type Service interface {
	// CreateChannel adds a new channel owned by the requesting user.
	CreateChannel(ctx context.Context, token, name string) (Channel, error)

	// RenameChannel changes the name of the channel owned by the requesting
	// user.
	RenameChannel(ctx context.Context, token, id, name string) (Channel, error)

	// ViewChannel retrieves the channel owned by the requesting user.
	ViewChannel(ctx context.Context, token, id string) (Channel, error)

	// ListChannels retrieves all channels owned by the requesting user.
	ListChannels(ctx context.Context, token string) ([]Channel, error)

	// CreateKey issues a new access key for the channel owned by the
	// requesting user.
	CreateKey(ctx context.Context, token, chanID, name string, perm int) (Key, error)

	// ListKeys retrieves all keys of the channel owned by the requesting
	// user, newest first.
	ListKeys(ctx context.Context, token, chanID string) ([]Key, error)

	// ToggleKey flips the active state of the key. Capability bits are left
	// intact.
	ToggleKey(ctx context.Context, token, key string) (Key, error)

	// DeleteKey removes the key together with every mixin edge it
	// authorized, and returns the removed token.
	DeleteKey(ctx context.Context, token, key string) (string, error)

	// CreateMixin links the source channel of the presented key into the
	// destination channel owned by the requesting user.
	CreateMixin(ctx context.Context, token, destID, key string) (Mixin, error)

	// RestrictMixin severs an existing edge between the subject channel
	// owned by the requesting user and the other channel. Direction "out"
	// severs subject->other, "in" severs other->subject. The affected other
	// channel id is returned.
	RestrictMixin(ctx context.Context, token, subjectID, otherID, direction string) (string, error)

	// ListMixins retrieves incoming and outgoing edges of the channel owned
	// by the requesting user, resolved to channel summaries.
	ListMixins(ctx context.Context, token, chanID string) (MixinPage, error)

	// RebuildMixinCache recomputes the adjacency mirror of the channel from
	// the authoritative edge set. A repair tool, not part of the request
	// path.
	RebuildMixinCache(ctx context.Context, token, chanID string) error
}

var _ Service = (*panelService)(nil)

type panelService struct {
	auth     Authenticator
	channels ChannelRepository
	keys     KeyRepository
	mixins   MixinRepository
	cache    MixinCache
	idp      IdentityProvider
}

// New instantiates the panel service implementation.
func New(auth Authenticator, channels ChannelRepository, keys KeyRepository, mixins MixinRepository, cache MixinCache, idp IdentityProvider) Service {
	return &panelService{
		auth:     auth,
		channels: channels,
		keys:     keys,
		mixins:   mixins,
		cache:    cache,
		idp:      idp,
	}
}

func (ps *panelService) CreateChannel(ctx context.Context, token, name string) (Channel, error) {
	owner, err := ps.identify(ctx, token)
	if err != nil {
		return Channel{}, err
	}

	ch := Channel{
		Owner: owner,
		Name:  strings.TrimSpace(name),
	}
	if err := ch.Validate(); err != nil {
		return Channel{}, err
	}

	if ch.ID, err = ps.idp.ChannelID(); err != nil {
		return Channel{}, err
	}

	return ps.channels.Save(ctx, ch)
}

func (ps *panelService) RenameChannel(ctx context.Context, token, id, name string) (Channel, error) {
	ch, err := ps.authorize(ctx, token, id)
	if err != nil {
		return Channel{}, err
	}

	ch.Name = strings.TrimSpace(name)
	if err := ch.Validate(); err != nil {
		return Channel{}, err
	}

	if err := ps.channels.Update(ctx, ch); err != nil {
		return Channel{}, err
	}

	return ch, nil
}

func (ps *panelService) ViewChannel(ctx context.Context, token, id string) (Channel, error) {
	return ps.authorize(ctx, token, id)
}

func (ps *panelService) ListChannels(ctx context.Context, token string) ([]Channel, error) {
	owner, err := ps.identify(ctx, token)
	if err != nil {
		return nil, err
	}

	return ps.channels.RetrieveByOwner(ctx, owner)
}

func (ps *panelService) CreateKey(ctx context.Context, token, chanID, name string, perm int) (Key, error) {
	if _, err := ps.authorize(ctx, token, chanID); err != nil {
		return Key{}, err
	}

	key := Key{
		ChanID:  chanID,
		Name:    strings.TrimSpace(name),
		Perm:    perm,
		Created: time.Now().UTC(),
	}
	if err := key.Validate(); err != nil {
		return Key{}, err
	}

	var err error
	if key.Token, err = ps.idp.Key(); err != nil {
		return Key{}, err
	}

	return ps.keys.Save(ctx, key)
}

func (ps *panelService) ListKeys(ctx context.Context, token, chanID string) ([]Key, error) {
	if _, err := ps.authorize(ctx, token, chanID); err != nil {
		return nil, err
	}

	return ps.keys.RetrieveByChannel(ctx, chanID)
}

func (ps *panelService) ToggleKey(ctx context.Context, token, key string) (Key, error) {
	k, err := ps.keys.RetrieveByToken(ctx, key)
	if err != nil {
		return Key{}, err
	}

	if _, err := ps.authorize(ctx, token, k.ChanID); err != nil {
		return Key{}, err
	}

	k.ToggleActive()
	if err := ps.keys.Update(ctx, k); err != nil {
		return Key{}, err
	}

	return k, nil
}

func (ps *panelService) DeleteKey(ctx context.Context, token, key string) (string, error) {
	k, err := ps.keys.RetrieveByToken(ctx, key)
	if err != nil {
		return "", err
	}

	if _, err := ps.authorize(ctx, token, k.ChanID); err != nil {
		return "", err
	}

	severed, err := ps.keys.Remove(ctx, k.Token)
	if err != nil {
		return "", err
	}

	// Evictions are best effort; a failed one leaves a stale-present edge
	// in the mirror until the next rebuild.
	for _, mixin := range severed {
		ps.cache.Remove(ctx, mixin.SourceChannel, mixin.DestChannel)
	}

	return k.Token, nil
}

func (ps *panelService) CreateMixin(ctx context.Context, token, destID, key string) (Mixin, error) {
	dest, err := ps.authorize(ctx, token, destID)
	if err != nil {
		return Mixin{}, err
	}

	k, err := ps.keys.RetrieveByToken(ctx, key)
	if err != nil {
		return Mixin{}, err
	}

	if !k.Active() {
		return Mixin{}, ErrBadKey
	}
	if k.ChanID == dest.ID {
		return Mixin{}, ErrSelfMixin
	}
	if !k.CanRead() || !k.MixinAllowed() {
		return Mixin{}, ErrKeyPermissions
	}

	source, err := ps.channels.RetrieveByID(ctx, k.ChanID)
	if err != nil {
		return Mixin{}, err
	}

	existing, err := ps.mixins.RetrieveBySource(ctx, source.ID)
	if err != nil {
		return Mixin{}, err
	}
	for _, mixin := range existing {
		if mixin.DestChannel == dest.ID {
			return Mixin{}, ErrAlreadyMixed
		}
	}

	cycle, err := ps.wouldCreateCycle(ctx, source.ID, dest.ID)
	if err != nil {
		return Mixin{}, err
	}
	if cycle {
		return Mixin{}, ErrCircleMixin
	}

	mixin := Mixin{
		SourceChannel: source.ID,
		DestChannel:   dest.ID,
		LinkedBy:      k.Token,
	}
	if mixin, err = ps.mixins.Save(ctx, mixin); err != nil {
		return Mixin{}, err
	}

	// The mirror is written only after the authoritative commit; a failed
	// cache write leaves it stale-missing, which readers tolerate.
	ps.cache.Add(ctx, mixin.SourceChannel, mixin.DestChannel)

	return mixin, nil
}

func (ps *panelService) RestrictMixin(ctx context.Context, token, subjectID, otherID, direction string) (string, error) {
	if direction != MixinOut && direction != MixinIn {
		return "", ErrBadMixinType
	}

	subject, err := ps.authorize(ctx, token, subjectID)
	if err != nil {
		return "", err
	}

	other, err := ps.channels.RetrieveByID(ctx, otherID)
	if err != nil {
		return "", err
	}

	sourceID, destID := subject.ID, other.ID
	if direction == MixinIn {
		sourceID, destID = other.ID, subject.ID
	}

	if err := ps.mixins.Remove(ctx, sourceID, destID); err != nil {
		return "", err
	}

	// Eviction is best effort; a failed one leaves a stale-present edge
	// in the mirror until the next rebuild.
	ps.cache.Remove(ctx, sourceID, destID)

	return other.ID, nil
}

func (ps *panelService) ListMixins(ctx context.Context, token, chanID string) (MixinPage, error) {
	ch, err := ps.authorize(ctx, token, chanID)
	if err != nil {
		return MixinPage{}, err
	}

	outgoing, err := ps.mixins.RetrieveBySource(ctx, ch.ID)
	if err != nil {
		return MixinPage{}, err
	}

	incoming, err := ps.mixins.RetrieveByDest(ctx, ch.ID)
	if err != nil {
		return MixinPage{}, err
	}

	page := MixinPage{
		Incoming: make([]Channel, 0, len(incoming)),
		Outgoing: make([]Channel, 0, len(outgoing)),
	}

	for _, mixin := range incoming {
		source, err := ps.channels.RetrieveByID(ctx, mixin.SourceChannel)
		if err != nil {
			return MixinPage{}, err
		}
		page.Incoming = append(page.Incoming, source)
	}

	for _, mixin := range outgoing {
		dest, err := ps.channels.RetrieveByID(ctx, mixin.DestChannel)
		if err != nil {
			return MixinPage{}, err
		}
		page.Outgoing = append(page.Outgoing, dest)
	}

	return page, nil
}

func (ps *panelService) RebuildMixinCache(ctx context.Context, token, chanID string) error {
	ch, err := ps.authorize(ctx, token, chanID)
	if err != nil {
		return err
	}

	edges, err := ps.mixins.RetrieveBySource(ctx, ch.ID)
	if err != nil {
		return err
	}

	destIDs := make([]string, 0, len(edges))
	for _, mixin := range edges {
		destIDs = append(destIDs, mixin.DestChannel)
	}

	return ps.cache.Rebuild(ctx, ch.ID, destIDs)
}

// wouldCreateCycle reports whether inserting the edge source->dest would
// close a forwarding loop. It walks the authoritative edge set forward from
// dest with a FIFO worklist; finding source on the way means a path
// dest->...->source already exists. Visited channels are skipped so the walk
// terminates even if historical data already contains a loop.
func (ps *panelService) wouldCreateCycle(ctx context.Context, sourceID, destID string) (bool, error) {
	visited := map[string]bool{destID: true}

	edges, err := ps.mixins.RetrieveBySource(ctx, destID)
	if err != nil {
		return false, err
	}

	queue := make([]string, 0, len(edges))
	for _, mixin := range edges {
		queue = append(queue, mixin.DestChannel)
	}

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if next == sourceID {
			return true, nil
		}
		if visited[next] {
			continue
		}
		visited[next] = true

		edges, err := ps.mixins.RetrieveBySource(ctx, next)
		if err != nil {
			return false, err
		}
		for _, mixin := range edges {
			queue = append(queue, mixin.DestChannel)
		}
	}

	return false, nil
}

// authorize is the single ownership gate run before every channel-scoped
// operation: it resolves the requester identity, fetches the channel and
// checks the owner.
func (ps *panelService) authorize(ctx context.Context, token, chanID string) (Channel, error) {
	user, err := ps.identify(ctx, token)
	if err != nil {
		return Channel{}, err
	}

	ch, err := ps.channels.RetrieveByID(ctx, chanID)
	if err != nil {
		return Channel{}, err
	}

	if ch.Owner != user {
		return Channel{}, ErrNotOwner
	}

	return ch, nil
}

func (ps *panelService) identify(ctx context.Context, token string) (string, error) {
	user, err := ps.auth.Identify(ctx, token)
	if err != nil {
		return "", errors.Wrap(ErrAuthentication, err)
	}

	return user, nil
}
