package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Amish929/Eco-Gamify-Project/internal/apperror"
	"github.com/Amish929/Eco-Gamify-Project/internal/models"
	"github.com/Amish929/Eco-Gamify-Project/internal/repository"
)

type LeaderboardService interface {
	// Leaderboard ranks students by points. Equal points keep registration order.
	Leaderboard(ctx context.Context) (*models.LeaderboardResponse, error)
}

type leaderboardService struct {
	accountRepo repository.AccountRepository
	logger      zerolog.Logger
}

func NewLeaderboardService(accountRepo repository.AccountRepository, logger zerolog.Logger) LeaderboardService {
	return &leaderboardService{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

func (s *leaderboardService) Leaderboard(ctx context.Context) (*models.LeaderboardResponse, error) {
	students, err := s.accountRepo.ListStudentsByPoints(ctx)
	if err != nil {
		return nil, apperror.Storage(err, "failed to load leaderboard")
	}

	entries := make([]models.LeaderboardEntry, 0, len(students))
	for i, student := range students {
		badges := student.Badges
		if badges == nil {
			badges = []string{}
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:   i + 1,
			Name:   student.Name,
			Points: student.Points,
			Badges: badges,
		})
	}

	return &models.LeaderboardResponse{
		Leaderboard: entries,
		Total:       len(entries),
	}, nil
}
