package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type progressRepo struct {
	db *sql.DB
}

func (r *progressRepo) Unlocked(ctx context.Context, topicID string) (int, bool, error) {
	var level int
	err := r.db.QueryRowContext(ctx,
		`SELECT unlocked_level FROM progress WHERE topic_id = ?`, topicID,
	).Scan(&level)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read progress for %q: %w", topicID, err)
	}
	return level, true, nil
}

func (r *progressRepo) Raise(ctx context.Context, topicID string, level int) (int, error) {
	if level < 1 {
		return 0, fmt.Errorf("raise progress for %q: level %d below 1", topicID, level)
	}
	var current int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO progress(topic_id, unlocked_level, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(topic_id) DO UPDATE SET
			unlocked_level = MAX(progress.unlocked_level, excluded.unlocked_level),
			updated_at = CASE
				WHEN excluded.unlocked_level > progress.unlocked_level THEN excluded.updated_at
				ELSE progress.updated_at
			END
		RETURNING unlocked_level
	`, topicID, level, formatTime(time.Now())).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("raise progress for %q: %w", topicID, err)
	}
	return current, nil
}

func (r *progressRepo) All(ctx context.Context) ([]ProgressEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT topic_id, unlocked_level, updated_at FROM progress ORDER BY topic_id`)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []ProgressEntry
	for rows.Next() {
		var (
			e       ProgressEntry
			updated string
		)
		if err := rows.Scan(&e.TopicID, &e.Unlocked, &updated); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		e.UpdatedAt = parseTime(updated)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *progressRepo) Reset(ctx context.Context, topicID string) error {
	var err error
	if topicID == "" {
		_, err = r.db.ExecContext(ctx, `DELETE FROM progress`)
	} else {
		_, err = r.db.ExecContext(ctx, `DELETE FROM progress WHERE topic_id = ?`, topicID)
	}
	if err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}
