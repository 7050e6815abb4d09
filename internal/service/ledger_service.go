package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Amish929/Eco-Gamify-Project/internal/apperror"
	"github.com/Amish929/Eco-Gamify-Project/internal/models"
	"github.com/Amish929/Eco-Gamify-Project/internal/repository"
)

// LedgerService is the only writer of account points and badges.
type LedgerService interface {
	// Credit adds points to the account and awards any badge whose threshold is now reached.
	// It joins the caller's transaction when there is one.
	Credit(ctx context.Context, accountID string, points int) (*models.Account, error)
}

type ledgerService struct {
	tx          repository.Transactor
	accountRepo repository.AccountRepository
	logger      zerolog.Logger
}

func NewLedgerService(tx repository.Transactor, accountRepo repository.AccountRepository, logger zerolog.Logger) LedgerService {
	return &ledgerService{
		tx:          tx,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

func (s *ledgerService) Credit(ctx context.Context, accountID string, points int) (*models.Account, error) {
	if points <= 0 {
		return nil, ErrInvalidPoints
	}

	var account *models.Account
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		updated, err := s.accountRepo.AddPoints(ctx, accountID, points)
		if err != nil {
			return fmt.Errorf("failed to add points: %w", err)
		}
		if updated == nil {
			return ErrAccountNotFound
		}

		badges := models.MergeBadges(updated.Badges, models.DeriveBadges(updated.Points))
		if len(badges) != len(updated.Badges) {
			if err := s.accountRepo.UpdateBadges(ctx, accountID, badges); err != nil {
				return fmt.Errorf("failed to update badges: %w", err)
			}
			updated.Badges = badges
		}

		account = updated
		return nil
	})
	if err != nil {
		return nil, apperror.Storage(err, "failed to credit points")
	}

	s.logger.Info().
		Str("account_id", accountID).
		Int("points_awarded", points).
		Int("points", account.Points).
		Strs("badges", account.Badges).
		Msg("Points credited")

	return account, nil
}
