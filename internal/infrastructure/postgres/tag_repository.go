package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"moneta/internal/domain/tag"
)

type TagRepository struct {
	db *DB
}

func NewTagRepository(db *DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) Create(ctx context.Context, params tag.CreateTagParams) (*tag.Tag, error) {
	query := `
		INSERT INTO tags (id, name, parent_id, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, parent_id, color, created_at, updated_at
	`

	var t tag.Tag
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.Name, params.ParentID, params.Color,
	).Scan(
		&t.ID, &t.Name, &t.ParentID, &t.Color, &t.CreatedAt, &t.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	return &t, nil
}

func (r *TagRepository) GetByID(ctx context.Context, id string) (*tag.Tag, error) {
	query := `
		SELECT id, name, parent_id, color, created_at, updated_at
		FROM tags
		WHERE id = $1
	`

	var t tag.Tag
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.ParentID, &t.Color, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return &t, nil
}

func (r *TagRepository) List(ctx context.Context) ([]*tag.Tag, error) {
	query := `
		SELECT id, name, parent_id, color, created_at, updated_at
		FROM tags
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []*tag.Tag
	for rows.Next() {
		var t tag.Tag
		err := rows.Scan(&t.ID, &t.Name, &t.ParentID, &t.Color, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, nil
}

func (r *TagRepository) Update(ctx context.Context, id string, params tag.UpdateTagParams) (*tag.Tag, error) {
	// ClearParent needs its own branch because COALESCE cannot express
	// "set to NULL on purpose".
	parentExpr := "COALESCE($2, parent_id)"
	if params.ClearParent {
		parentExpr = "NULL"
	}

	query := fmt.Sprintf(`
		UPDATE tags
		SET name = COALESCE($1, name),
		    parent_id = %s,
		    color = COALESCE($3, color),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING id, name, parent_id, color, created_at, updated_at
	`, parentExpr)

	var t tag.Tag
	err := r.db.QueryRowContext(
		ctx, query,
		params.Name, params.ParentID, params.Color, id,
	).Scan(
		&t.ID, &t.Name, &t.ParentID, &t.Color, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, tag.ErrTagNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}

	return &t, nil
}

// Delete removes a tag and promotes its children to the deleted tag's parent
// in the same database transaction, so the forest never loses a subtree.
func (r *TagRepository) Delete(ctx context.Context, id string) error {
	return r.db.withTx(ctx, "db.TagDelete", func(tx *sql.Tx) error {
		var parentID sql.NullString
		err := tx.QueryRowContext(ctx, `SELECT parent_id FROM tags WHERE id = $1`, id).Scan(&parentID)
		if err == sql.ErrNoRows {
			return tag.ErrTagNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load tag: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE tags
			SET parent_id = $1, updated_at = CURRENT_TIMESTAMP
			WHERE parent_id = $2
		`, parentID, id)
		if err != nil {
			return fmt.Errorf("failed to re-parent children: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete tag: %w", err)
		}
		return nil
	})
}

// DescendantIDs expands a tag to its full subtree (self included) with a
// recursive CTE over parent_id.
func (r *TagRepository) DescendantIDs(ctx context.Context, id string) ([]string, error) {
	query := `
		WITH RECURSIVE tag_tree AS (
			SELECT id FROM tags WHERE id = $1
			UNION ALL
			SELECT t.id FROM tags t
			JOIN tag_tree tt ON t.parent_id = tt.id
		)
		SELECT id FROM tag_tree
	`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to expand tag subtree: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var tagID string
		if err := rows.Scan(&tagID); err != nil {
			return nil, fmt.Errorf("failed to scan tag id: %w", err)
		}
		ids = append(ids, tagID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag subtree: %w", err)
	}

	return ids, nil
}

// SyncChildColors recolors every child tag to its parent's color and reports
// how many rows actually changed.
func (r *TagRepository) SyncChildColors(ctx context.Context) (int64, error) {
	query := `
		UPDATE tags c
		SET color = p.color, updated_at = CURRENT_TIMESTAMP
		FROM tags p
		WHERE c.parent_id = p.id AND c.color IS DISTINCT FROM p.color
	`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to sync child colors: %w", err)
	}

	changed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return changed, nil
}
