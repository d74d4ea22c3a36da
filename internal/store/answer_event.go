package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var answerColumns = []string{
	"session_id", "position", "kind", "question", "learner_answer", "expected",
	"correct", "skipped", "awarded", "max_points", "score_parsed", "feedback",
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	err := r.insert(ctx, "answer_events", answerColumns, []any{
		data.SessionID, data.Position, data.Kind, data.Question, data.LearnerAnswer,
		data.Expected, data.Correct, data.Skipped, data.Awarded, data.MaxPoints,
		data.ScoreParsed, data.Feedback,
	})
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) SessionAnswers(ctx context.Context, sessionID string) ([]AnswerRecord, error) {
	q, args := sqlite.Select(append([]string{"id", "sequence", "timestamp"}, answerColumns...)...).
		From(entsql.Table("answer_events")).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("position", "sequence").
		Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		var (
			rec AnswerRecord
			ts  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts,
			&rec.SessionID, &rec.Position, &rec.Kind, &rec.Question, &rec.LearnerAnswer,
			&rec.Expected, &rec.Correct, &rec.Skipped, &rec.Awarded, &rec.MaxPoints,
			&rec.ScoreParsed, &rec.Feedback); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}
