// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gaskeo/limq-panel/panel"
	"github.com/gaskeo/limq-panel/pkg/errors"
)

var _ panel.MixinRepository = (*mixinRepository)(nil)

type mixinRepository struct {
	db *sqlx.DB
}

// NewMixinRepository instantiates a PostgreSQL implementation of mixin edge
// repository.
func NewMixinRepository(db *sqlx.DB) panel.MixinRepository {
	return &mixinRepository{
		db: db,
	}
}

// Save inserts the edge source->dest. Reachability from dest back to source
// is re-evaluated by the recursive CTE inside the insert statement, so a
// concurrent insert that would close a loop is rejected against the
// post-commit graph rather than the state the caller validated against. The
// (source, dest) uniqueness constraint arbitrates duplicate races.
func (mr mixinRepository) Save(ctx context.Context, mixin panel.Mixin) (panel.Mixin, error) {
	q := `WITH RECURSIVE reach (id) AS (
	          SELECT dest_channel FROM mixins WHERE source_channel = $2
	          UNION
	          SELECT m.dest_channel FROM mixins m INNER JOIN reach r ON m.source_channel = r.id
	      )
	      INSERT INTO mixins (source_channel, dest_channel, linked_by)
	      SELECT $1, $2, $3
	      WHERE NOT EXISTS (SELECT 1 FROM reach WHERE id = $1);`

	res, err := mr.db.ExecContext(ctx, q, mixin.SourceChannel, mixin.DestChannel, mixin.LinkedBy)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code.Name() {
			case errDuplicate:
				return panel.Mixin{}, panel.ErrAlreadyMixed
			case errCheck:
				return panel.Mixin{}, panel.ErrSelfMixin
			case errFK:
				return panel.Mixin{}, panel.ErrChannelNotExist
			}
		}

		return panel.Mixin{}, errors.Wrap(errors.ErrCreateEntity, err)
	}

	cnt, err := res.RowsAffected()
	if err != nil {
		return panel.Mixin{}, errors.Wrap(errors.ErrCreateEntity, err)
	}

	if cnt == 0 {
		return panel.Mixin{}, panel.ErrCircleMixin
	}

	return mixin, nil
}

func (mr mixinRepository) Remove(ctx context.Context, sourceID, destID string) error {
	q := `DELETE FROM mixins WHERE source_channel = $1 AND dest_channel = $2;`

	res, err := mr.db.ExecContext(ctx, q, sourceID, destID)
	if err != nil {
		return errors.Wrap(errors.ErrRemoveEntity, err)
	}

	cnt, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrRemoveEntity, err)
	}

	if cnt == 0 {
		return panel.ErrBadThread
	}

	return nil
}

func (mr mixinRepository) RetrieveBySource(ctx context.Context, sourceID string) ([]panel.Mixin, error) {
	q := `SELECT source_channel, dest_channel, linked_by FROM mixins
	      WHERE source_channel = $1 ORDER BY id;`

	return mr.retrieve(ctx, q, sourceID)
}

func (mr mixinRepository) RetrieveByDest(ctx context.Context, destID string) ([]panel.Mixin, error) {
	q := `SELECT source_channel, dest_channel, linked_by FROM mixins
	      WHERE dest_channel = $1 ORDER BY id;`

	return mr.retrieve(ctx, q, destID)
}

func (mr mixinRepository) retrieve(ctx context.Context, q, id string) ([]panel.Mixin, error) {
	rows, err := mr.db.QueryxContext(ctx, q, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrViewEntity, err)
	}
	defer rows.Close()

	items := []panel.Mixin{}
	for rows.Next() {
		var dbm dbMixin
		if err := rows.StructScan(&dbm); err != nil {
			return nil, errors.Wrap(errors.ErrViewEntity, err)
		}

		items = append(items, toMixin(dbm))
	}

	return items, nil
}

type dbMixin struct {
	SourceChannel string `db:"source_channel"`
	DestChannel   string `db:"dest_channel"`
	LinkedBy      string `db:"linked_by"`
}

func toMixin(dbm dbMixin) panel.Mixin {
	return panel.Mixin{
		SourceChannel: dbm.SourceChannel,
		DestChannel:   dbm.DestChannel,
		LinkedBy:      dbm.LinkedBy,
	}
}
