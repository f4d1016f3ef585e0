package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"quizhub/internal/domain"
)

// UserService assembles profile projections.
type UserService struct {
	users   UserRepository
	quizzes QuizRepository
	results ResultRepository
}

func NewUserService(users UserRepository, quizzes QuizRepository, results ResultRepository) *UserService {
	return &UserService{users: users, quizzes: quizzes, results: results}
}

// Profile returns the own-profile aggregation: created, liked and saved
// quizzes, viewing history and past results. The five collections are
// independent reads, so they are fetched concurrently.
func (s *UserService) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		created, liked, saved []domain.Quiz
		views                 []domain.View
		results               []domain.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		created, err = s.quizzes.ListByAuthor(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		liked, err = s.quizzes.ListLikedBy(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		saved, err = s.quizzes.ListSavedBy(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		views, err = s.quizzes.ListViewsBy(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		results, err = s.results.ListByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		PublicUser: user.AsPublicUser(),
		CreatedAt:  user.CreatedAt,
		Created:    domain.Cards(created),
		Liked:      domain.Cards(liked),
		Saved:      domain.Cards(saved),
		Views:      make([]domain.ViewEntry, 0, len(views)),
		Results:    make([]domain.ResultDetail, 0, len(results)),
	}
	for i := range views {
		if views[i].Quiz == nil {
			continue
		}
		profile.Views = append(profile.Views, domain.ViewEntry{
			Quiz:     views[i].Quiz.AsCard(),
			ViewedAt: views[i].CreatedAt,
		})
	}
	for i := range results {
		profile.Results = append(profile.Results, results[i].AsDetail())
	}
	return profile, nil
}

// PublicProfile returns what any visitor may see of a user.
func (s *UserService) PublicProfile(ctx context.Context, userID string) (*domain.PublicProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	created, err := s.quizzes.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.PublicProfile{
		PublicUser: user.AsPublicUser(),
		CreatedAt:  user.CreatedAt,
		Created:    domain.Cards(created),
	}, nil
}
