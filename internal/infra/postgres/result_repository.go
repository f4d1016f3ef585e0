package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"quizhub/internal/domain"
)

// ResultRepository stores completed play-throughs.
type ResultRepository struct {
	db *bun.DB
}

func NewResultRepository(db *bun.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Create persists the result and bumps the quiz's result counter in the same
// transaction.
func (r *ResultRepository) Create(ctx context.Context, result *domain.Result) error {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(result).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewUpdate().Model((*domain.Quiz)(nil)).
			Set("results_count = results_count + 1").
			Where("id = ?", result.QuizID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (r *ResultRepository) GetByID(ctx context.Context, id string) (*domain.Result, error) {
	result := new(domain.Result)
	err := r.db.NewSelect().Model(result).
		Relation("User").Relation("Quiz").Relation("Quiz.Author").
		Where("result.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select result: %w", err)
	}
	return result, nil
}

func (r *ResultRepository) ListByQuiz(ctx context.Context, quizID string) ([]domain.Result, error) {
	var results []domain.Result
	err := r.db.NewSelect().Model(&results).
		Relation("User").Relation("Quiz").Relation("Quiz.Author").
		Where("result.quiz_id = ?", quizID).
		Order("result.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results by quiz: %w", err)
	}
	return results, nil
}

func (r *ResultRepository) ListByUser(ctx context.Context, userID string) ([]domain.Result, error) {
	var results []domain.Result
	err := r.db.NewSelect().Model(&results).
		Relation("User").Relation("Quiz").Relation("Quiz.Author").
		Where("result.user_id = ?", userID).
		Order("result.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results by user: %w", err)
	}
	return results, nil
}
