// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gaskeo/limq-panel/panel"
	"github.com/gaskeo/limq-panel/pkg/errors"
)

var _ panel.KeyRepository = (*keyRepository)(nil)

type keyRepository struct {
	db *sqlx.DB
}

// NewKeyRepository instantiates a PostgreSQL implementation of access key
// repository.
func NewKeyRepository(db *sqlx.DB) panel.KeyRepository {
	return &keyRepository{
		db: db,
	}
}

func (kr keyRepository) Save(ctx context.Context, key panel.Key) (panel.Key, error) {
	q := `INSERT INTO keys (token, chan_id, name, perm, created)
	      VALUES (:token, :chan_id, :name, :perm, :created);`

	if _, err := kr.db.NamedExecContext(ctx, q, toDBKey(key)); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code.Name() {
			case errFK:
				return panel.Key{}, panel.ErrChannelNotExist
			case errInvalid, errTruncation:
				return panel.Key{}, panel.ErrKeyName
			case errDuplicate:
				return panel.Key{}, errors.Wrap(errors.ErrConflict, err)
			}
		}

		return panel.Key{}, errors.Wrap(errors.ErrCreateEntity, err)
	}

	return key, nil
}

func (kr keyRepository) RetrieveByToken(ctx context.Context, token string) (panel.Key, error) {
	q := `SELECT token, chan_id, name, perm, created FROM keys WHERE token = $1;`

	var dbk dbKey
	if err := kr.db.QueryRowxContext(ctx, q, token).StructScan(&dbk); err != nil {
		pqErr, ok := err.(*pq.Error)
		if err == sql.ErrNoRows || ok && pqErr.Code.Name() == errInvalid {
			return panel.Key{}, panel.ErrBadKey
		}

		return panel.Key{}, errors.Wrap(errors.ErrViewEntity, err)
	}

	return toKey(dbk), nil
}

func (kr keyRepository) RetrieveByChannel(ctx context.Context, chanID string) ([]panel.Key, error) {
	q := `SELECT token, chan_id, name, perm, created FROM keys
	      WHERE chan_id = $1 ORDER BY created DESC;`

	rows, err := kr.db.QueryxContext(ctx, q, chanID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrViewEntity, err)
	}
	defer rows.Close()

	items := []panel.Key{}
	for rows.Next() {
		var dbk dbKey
		if err := rows.StructScan(&dbk); err != nil {
			return nil, errors.Wrap(errors.ErrViewEntity, err)
		}

		items = append(items, toKey(dbk))
	}

	return items, nil
}

func (kr keyRepository) Update(ctx context.Context, key panel.Key) error {
	q := `UPDATE keys SET perm = :perm WHERE token = :token;`

	res, err := kr.db.NamedExecContext(ctx, q, toDBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrUpdateEntity, err)
	}

	cnt, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrUpdateEntity, err)
	}

	if cnt == 0 {
		return panel.ErrBadKey
	}

	return nil
}

func (kr keyRepository) Remove(ctx context.Context, token string) ([]panel.Mixin, error) {
	tx, err := kr.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrRemoveEntity, err)
	}

	q := `SELECT source_channel, dest_channel, linked_by FROM mixins
	      WHERE linked_by = $1 FOR UPDATE;`

	rows, err := tx.QueryxContext(ctx, q, token)
	if err != nil {
		tx.Rollback()
		return nil, errors.Wrap(errors.ErrRemoveEntity, err)
	}

	severed := []panel.Mixin{}
	for rows.Next() {
		var dbm dbMixin
		if err := rows.StructScan(&dbm); err != nil {
			rows.Close()
			tx.Rollback()
			return nil, errors.Wrap(errors.ErrRemoveEntity, err)
		}

		severed = append(severed, toMixin(dbm))
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx, `DELETE FROM mixins WHERE linked_by = $1;`, token); err != nil {
		tx.Rollback()
		return nil, errors.Wrap(errors.ErrRemoveEntity, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM keys WHERE token = $1;`, token)
	if err != nil {
		tx.Rollback()
		return nil, errors.Wrap(errors.ErrRemoveEntity, err)
	}

	cnt, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return nil, errors.Wrap(errors.ErrRemoveEntity, err)
	}

	if cnt == 0 {
		tx.Rollback()
		return nil, panel.ErrBadKey
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(errors.ErrRemoveEntity, err)
	}

	return severed, nil
}

type dbKey struct {
	Token   string    `db:"token"`
	ChanID  string    `db:"chan_id"`
	Name    string    `db:"name"`
	Perm    int       `db:"perm"`
	Created time.Time `db:"created"`
}

func toDBKey(key panel.Key) dbKey {
	return dbKey{
		Token:   key.Token,
		ChanID:  key.ChanID,
		Name:    key.Name,
		Perm:    key.Perm,
		Created: key.Created,
	}
}

func toKey(dbk dbKey) panel.Key {
	return panel.Key{
		Token:   dbk.Token,
		ChanID:  dbk.ChanID,
		Name:    dbk.Name,
		Perm:    dbk.Perm,
		Created: dbk.Created,
	}
}
