package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var sessionColumns = []string{
	"session_id", "action", "kind", "lessons", "question_count", "skipped_lessons",
	"earned", "available", "score", "error_message", "duration_secs",
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	lessons, err := json.Marshal(nonNil(data.Lessons))
	if err != nil {
		return fmt.Errorf("encode lessons: %w", err)
	}

	var score any
	if data.Score != nil {
		score = *data.Score
	}

	err = r.insert(ctx, "session_events", sessionColumns, []any{
		data.SessionID, data.Action, data.Kind, string(lessons), data.QuestionCount,
		data.SkippedLessons, data.Earned, data.Available, score, data.ErrorMessage,
		data.DurationSecs,
	})
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentSessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error) {
	sel := sqlite.Select(append([]string{"id", "sequence", "timestamp"}, sessionColumns...)...).
		From(entsql.Table("session_events")).
		Where(entsql.In("action", ActionFinish, ActionFail))
	q, args := applyOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var (
			rec     SessionRecord
			ts      int64
			lessons string
			score   sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts,
			&rec.SessionID, &rec.Action, &rec.Kind, &lessons, &rec.QuestionCount,
			&rec.SkippedLessons, &rec.Earned, &rec.Available, &score,
			&rec.ErrorMessage, &rec.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		if score.Valid {
			v := score.Float64
			rec.Score = &v
		}
		if err := json.Unmarshal([]byte(lessons), &rec.Lessons); err != nil {
			return nil, fmt.Errorf("decode lessons of session %s: %w", rec.SessionID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
