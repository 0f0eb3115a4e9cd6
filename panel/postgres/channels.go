// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gaskeo/limq-panel/panel"
	"github.com/gaskeo/limq-panel/pkg/errors"
)

var _ panel.ChannelRepository = (*channelRepository)(nil)

type channelRepository struct {
	db *sqlx.DB
}

// NewChannelRepository instantiates a PostgreSQL implementation of channel
// repository.
func NewChannelRepository(db *sqlx.DB) panel.ChannelRepository {
	return &channelRepository{
		db: db,
	}
}

func (cr channelRepository) Save(ctx context.Context, ch panel.Channel) (panel.Channel, error) {
	q := `INSERT INTO channels (id, owner, name) VALUES (:id, :owner, :name);`

	if _, err := cr.db.NamedExecContext(ctx, q, toDBChannel(ch)); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code.Name() {
			case errInvalid, errTruncation:
				return panel.Channel{}, panel.ErrChannelName
			case errDuplicate:
				return panel.Channel{}, errors.Wrap(errors.ErrConflict, err)
			}
		}

		return panel.Channel{}, errors.Wrap(errors.ErrCreateEntity, err)
	}

	return ch, nil
}

func (cr channelRepository) Update(ctx context.Context, ch panel.Channel) error {
	q := `UPDATE channels SET name = :name WHERE id = :id;`

	res, err := cr.db.NamedExecContext(ctx, q, toDBChannel(ch))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code.Name() {
			case errInvalid, errTruncation:
				return panel.ErrChannelName
			}
		}

		return errors.Wrap(errors.ErrUpdateEntity, err)
	}

	cnt, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrUpdateEntity, err)
	}

	if cnt == 0 {
		return panel.ErrChannelNotExist
	}

	return nil
}

func (cr channelRepository) RetrieveByID(ctx context.Context, id string) (panel.Channel, error) {
	q := `SELECT id, owner, name FROM channels WHERE id = $1;`

	var dbch dbChannel
	if err := cr.db.QueryRowxContext(ctx, q, id).StructScan(&dbch); err != nil {
		pqErr, ok := err.(*pq.Error)
		if err == sql.ErrNoRows || ok && pqErr.Code.Name() == errInvalid {
			return panel.Channel{}, panel.ErrChannelNotExist
		}

		return panel.Channel{}, errors.Wrap(errors.ErrViewEntity, err)
	}

	return toChannel(dbch), nil
}

func (cr channelRepository) RetrieveByOwner(ctx context.Context, owner string) ([]panel.Channel, error) {
	q := `SELECT id, owner, name FROM channels WHERE owner = $1 ORDER BY id;`

	rows, err := cr.db.QueryxContext(ctx, q, owner)
	if err != nil {
		return nil, errors.Wrap(errors.ErrViewEntity, err)
	}
	defer rows.Close()

	items := []panel.Channel{}
	for rows.Next() {
		var dbch dbChannel
		if err := rows.StructScan(&dbch); err != nil {
			return nil, errors.Wrap(errors.ErrViewEntity, err)
		}

		items = append(items, toChannel(dbch))
	}

	return items, nil
}

type dbChannel struct {
	ID    string `db:"id"`
	Owner string `db:"owner"`
	Name  string `db:"name"`
}

func toDBChannel(ch panel.Channel) dbChannel {
	return dbChannel{
		ID:    ch.ID,
		Owner: ch.Owner,
		Name:  ch.Name,
	}
}

func toChannel(ch dbChannel) panel.Channel {
	return panel.Channel{
		ID:    ch.ID,
		Owner: ch.Owner,
		Name:  ch.Name,
	}
}
