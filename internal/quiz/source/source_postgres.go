package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"taskgate/internal/quiz/models"
	id "taskgate/pkg/domain"
	"taskgate/pkg/sentinel"
)

// PostgresSource reads question banks from PostgreSQL over database/sql.
//
// Schema:
//
//	CREATE TABLE quiz_questions (
//	    id                   UUID PRIMARY KEY,
//	    quiz_id              TEXT NOT NULL,
//	    prompt               TEXT NOT NULL,
//	    options              TEXT[] NOT NULL,
//	    correct_option_index INT NOT NULL,
//	    explanation          TEXT NOT NULL DEFAULT '',
//	    order_index          INT NOT NULL,
//	    UNIQUE (quiz_id, order_index)
//	);
type PostgresSource struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed question source.
func NewPostgres(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// Open opens a database/sql handle via the pq driver.
func Open(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open quiz content db: %w", err)
	}
	return db, nil
}

func (s *PostgresSource) Bank(ctx context.Context, quizID string) (*models.Bank, error) {
	const query = `
		SELECT id, prompt, options, correct_option_index, explanation, order_index
		FROM quiz_questions
		WHERE quiz_id = $1
		ORDER BY order_index`

	rows, err := s.db.QueryContext(ctx, query, quizID)
	if err != nil {
		return nil, fmt.Errorf("query quiz questions: %w", err)
	}
	defer rows.Close()

	bank := &models.Bank{QuizID: quizID}
	for rows.Next() {
		var (
			qid     uuid.UUID
			q       models.Question
			options pq.StringArray
		)
		if err := rows.Scan(&qid, &q.Prompt, &options, &q.CorrectOptionIndex, &q.Explanation, &q.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan quiz question: %w", err)
		}
		q.ID = id.QuestionID(qid)
		q.Options = options
		bank.Questions = append(bank.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz questions: %w", err)
	}
	if len(bank.Questions) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return bank, nil
}
