package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

type attemptRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *attemptRepo) AppendAttempt(ctx context.Context, rec AttemptRecord) error {
	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO attempts(sequence, attempt_id, topic_id, level, score, total, passed, answers_json, started_at, finished_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		seqNum,
		rec.AttemptID,
		rec.TopicID,
		rec.Level,
		rec.Score,
		rec.Total,
		boolToInt(rec.Passed),
		string(answers),
		formatTime(rec.StartedAt),
		formatTime(rec.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) ListAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error) {
	where, args := opts.where("finished_at")
	if opts.TopicID != "" {
		where = append(where, "topic_id = ?")
		args = append(args, opts.TopicID)
	}

	q := `SELECT id, sequence, attempt_id, topic_id, level, score, total, passed, answers_json, started_at, finished_at FROM attempts`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY sequence DESC"
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var (
			rec               AttemptRecord
			passed            int
			answers           string
			started, finished string
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.AttemptID, &rec.TopicID, &rec.Level,
			&rec.Score, &rec.Total, &passed, &answers, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if err := json.Unmarshal([]byte(answers), &rec.Answers); err != nil {
			return nil, fmt.Errorf("decode answers for attempt %s: %w", rec.AttemptID, err)
		}
		rec.Passed = passed == 1
		rec.StartedAt = parseTime(started)
		rec.FinishedAt = parseTime(finished)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// where builds the shared sequence/time filters of a query.
func (o QueryOpts) where(timeColumn string) ([]string, []any) {
	var (
		clauses []string
		args    []any
	)
	if o.After > 0 {
		clauses = append(clauses, "sequence > ?")
		args = append(args, o.After)
	}
	if o.Before > 0 {
		clauses = append(clauses, "sequence < ?")
		args = append(args, o.Before)
	}
	if !o.From.IsZero() {
		clauses = append(clauses, timeColumn+" >= ?")
		args = append(args, formatTime(o.From))
	}
	if !o.To.IsZero() {
		clauses = append(clauses, timeColumn+" <= ?")
		args = append(args, formatTime(o.To))
	}
	return clauses, args
}
