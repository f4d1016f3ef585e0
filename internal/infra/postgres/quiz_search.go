package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizhub/internal/domain"
)

// QuizSearch serves the keyword and popularity feeds with hand-written SQL
// over pgx. Pagination is keyset-based: the cursor is the id of the last row
// of the previous page, fetched pages read limit+1 rows to learn whether a
// next page exists.
type QuizSearch struct {
	pool *pgxpool.Pool
}

func NewQuizSearch(pool *pgxpool.Pool) *QuizSearch {
	return &QuizSearch{pool: pool}
}

const quizColumns = `q.id, q.author_id, q.title, q.description, q.likes_count, q.saves_count,
	q.views_count, q.results_count, q.created_at, q.updated_at, u.id, u.name, u.image`

func (s *QuizSearch) Search(ctx context.Context, query, cursor string, limit int) ([]domain.Quiz, string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+quizColumns+`
		FROM quizzes q
		JOIN users u ON u.id = q.author_id
		WHERE (q.title ILIKE '%' || $1 || '%' OR q.description ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR q.id >= $2)
		ORDER BY q.id ASC
		LIMIT $3`,
		query, cursor, limit+1)
	if err != nil {
		return nil, "", fmt.Errorf("search quizzes: %w", err)
	}
	return collectPage(rows, limit)
}

func (s *QuizSearch) Popular(ctx context.Context, cursor string, limit int) ([]domain.Quiz, string, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if cursor == "" {
		rows, err = s.pool.Query(ctx, `
			SELECT `+quizColumns+`
			FROM quizzes q
			JOIN users u ON u.id = q.author_id
			ORDER BY q.likes_count + q.views_count DESC, q.id ASC
			LIMIT $1`,
			limit+1)
	} else {
		// resume after the cursor row in (popularity DESC, id ASC) order
		rows, err = s.pool.Query(ctx, `
			WITH c AS (
				SELECT likes_count + views_count AS pop, id FROM quizzes WHERE id = $1
			)
			SELECT `+quizColumns+`
			FROM quizzes q
			JOIN users u ON u.id = q.author_id, c
			WHERE q.likes_count + q.views_count < c.pop
			   OR (q.likes_count + q.views_count = c.pop AND q.id >= c.id)
			ORDER BY q.likes_count + q.views_count DESC, q.id ASC
			LIMIT $2`,
			cursor, limit+1)
	}
	if err != nil {
		return nil, "", fmt.Errorf("popular quizzes: %w", err)
	}
	return collectPage(rows, limit)
}

func collectPage(rows pgx.Rows, limit int) ([]domain.Quiz, string, error) {
	defer rows.Close()

	var quizzes []domain.Quiz
	for rows.Next() {
		var q domain.Quiz
		var author domain.User
		err := rows.Scan(
			&q.ID, &q.AuthorID, &q.Title, &q.Description,
			&q.LikesCount, &q.SavesCount, &q.ViewsCount, &q.ResultsCount,
			&q.CreatedAt, &q.UpdatedAt,
			&author.ID, &author.Name, &author.Image,
		)
		if err != nil {
			return nil, "", fmt.Errorf("scan quiz row: %w", err)
		}
		q.Author = &author
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("read quiz rows: %w", err)
	}

	// the extra row is not returned; its id is the cursor of the next page
	next := ""
	if len(quizzes) > limit {
		next = quizzes[limit].ID
		quizzes = quizzes[:limit]
	}
	return quizzes, next, nil
}
