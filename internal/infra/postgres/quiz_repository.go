package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"quizhub/internal/domain"
)

// QuizRepository stores quizzes, their like/save relations and view records.
// Every multi-row update (toggles, view recording) runs in one transaction so
// the denormalized counters cannot drift from the relation rows.
type QuizRepository struct {
	db *bun.DB
}

func NewQuizRepository(db *bun.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) Create(ctx context.Context, quiz *domain.Quiz) error {
	if _, err := r.db.NewInsert().Model(quiz).Exec(ctx); err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

func (r *QuizRepository) GetByID(ctx context.Context, id string) (*domain.Quiz, error) {
	quiz := new(domain.Quiz)
	err := r.db.NewSelect().Model(quiz).Relation("Author").Where("quiz.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select quiz: %w", err)
	}
	return quiz, nil
}

func (r *QuizRepository) Update(ctx context.Context, quiz *domain.Quiz) error {
	res, err := r.db.NewUpdate().Model(quiz).
		Column("title", "description", "questions", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

// Delete removes the quiz; likes, saves, views and results go with it via
// ON DELETE CASCADE.
func (r *QuizRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.NewDelete().Model((*domain.Quiz)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (r *QuizRepository) ToggleLike(ctx context.Context, quizID, userID string) (bool, error) {
	return r.toggle(ctx, quizID, userID, (*domain.QuizLike)(nil), "quiz_likes", "likes_count", func(now time.Time) any {
		return &domain.QuizLike{QuizID: quizID, UserID: userID, CreatedAt: now}
	})
}

func (r *QuizRepository) ToggleSave(ctx context.Context, quizID, userID string) (bool, error) {
	return r.toggle(ctx, quizID, userID, (*domain.QuizSave)(nil), "quiz_saves", "saves_count", func(now time.Time) any {
		return &domain.QuizSave{QuizID: quizID, UserID: userID, CreatedAt: now}
	})
}

// toggle flips one row of a like/save relation and refreshes the counter from
// the relation's true size, all inside a single transaction. A pair of calls
// always restores the original state.
func (r *QuizRepository) toggle(ctx context.Context, quizID, userID string, model any, table, counter string, newRow func(time.Time) any) (bool, error) {
	var active bool
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*domain.Quiz)(nil)).Where("id = ?", quizID).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrQuizNotFound
		}

		res, err := tx.NewDelete().Model(model).
			Where("quiz_id = ? AND user_id = ?", quizID, userID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if _, err := tx.NewInsert().Model(newRow(time.Now().UTC())).Exec(ctx); err != nil {
				return err
			}
			active = true
		}

		count, err := tx.NewSelect().Model(model).Where("quiz_id = ?", quizID).Count(ctx)
		if err != nil {
			return err
		}
		_, err = tx.NewUpdate().Model((*domain.Quiz)(nil)).
			Set(counter+" = ?", count).
			Where("id = ?", quizID).
			Exec(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrQuizNotFound) {
			return false, err
		}
		return false, fmt.Errorf("toggle %s: %w", table, err)
	}
	return active, nil
}

func (r *QuizRepository) Marks(ctx context.Context, quizID, userID string) (bool, bool, error) {
	liked, err := r.db.NewSelect().Model((*domain.QuizLike)(nil)).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Exists(ctx)
	if err != nil {
		return false, false, fmt.Errorf("select like: %w", err)
	}
	saved, err := r.db.NewSelect().Model((*domain.QuizSave)(nil)).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Exists(ctx)
	if err != nil {
		return false, false, fmt.Errorf("select save: %w", err)
	}
	return liked, saved, nil
}

func (r *QuizRepository) RecordView(ctx context.Context, quizID, userID string) error {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		view := &domain.View{
			ID:        uuid.NewString(),
			UserID:    userID,
			QuizID:    quizID,
			CreatedAt: time.Now().UTC(),
		}
		if _, err := tx.NewInsert().Model(view).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewUpdate().Model((*domain.Quiz)(nil)).
			Set("views_count = views_count + 1").
			Where("id = ?", quizID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

func (r *QuizRepository) ListByAuthor(ctx context.Context, authorID string) ([]domain.Quiz, error) {
	var quizzes []domain.Quiz
	err := r.db.NewSelect().Model(&quizzes).Relation("Author").
		Where("quiz.author_id = ?", authorID).
		Order("quiz.updated_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes by author: %w", err)
	}
	return quizzes, nil
}

func (r *QuizRepository) ListLikedBy(ctx context.Context, userID string) ([]domain.Quiz, error) {
	return r.listMarked(ctx, "quiz_likes", userID)
}

func (r *QuizRepository) ListSavedBy(ctx context.Context, userID string) ([]domain.Quiz, error) {
	return r.listMarked(ctx, "quiz_saves", userID)
}

func (r *QuizRepository) listMarked(ctx context.Context, table, userID string) ([]domain.Quiz, error) {
	var quizzes []domain.Quiz
	err := r.db.NewSelect().Model(&quizzes).Relation("Author").
		Join("JOIN "+table+" AS mark ON mark.quiz_id = quiz.id").
		Where("mark.user_id = ?", userID).
		Order("mark.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return quizzes, nil
}

// ListViewsBy returns the viewing history newest first, one entry per quiz.
func (r *QuizRepository) ListViewsBy(ctx context.Context, userID string) ([]domain.View, error) {
	var views []domain.View
	err := r.db.NewSelect().Model(&views).
		Relation("Quiz").Relation("Quiz.Author").
		Where("view.user_id = ?", userID).
		Order("view.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list views: %w", err)
	}
	seen := make(map[string]bool, len(views))
	distinct := views[:0]
	for i := range views {
		if seen[views[i].QuizID] {
			continue
		}
		seen[views[i].QuizID] = true
		distinct = append(distinct, views[i])
	}
	return distinct, nil
}
