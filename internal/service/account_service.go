package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Amish929/Eco-Gamify-Project/internal/apperror"
	"github.com/Amish929/Eco-Gamify-Project/internal/auth"
	"github.com/Amish929/Eco-Gamify-Project/internal/models"
	"github.com/Amish929/Eco-Gamify-Project/internal/repository"
)

type AccountService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error)
	Authenticate(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
}

type accountService struct {
	accountRepo repository.AccountRepository
	tokens      auth.TokenManager
	logger      zerolog.Logger
}

func NewAccountService(accountRepo repository.AccountRepository, tokens auth.TokenManager, logger zerolog.Logger) AccountService {
	return &accountService{
		accountRepo: accountRepo,
		tokens:      tokens,
		logger:      logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *accountService) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Storage(err, "failed to check email")
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, err, "failed to register account")
	}

	now := time.Now().UTC()
	account := &models.Account{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         models.ParseRole(req.Role),
		Points:       0,
		Badges:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, apperror.Storage(err, "failed to create account")
	}

	s.logger.Info().
		Str("account_id", account.ID).
		Str("role", account.Role.String()).
		Msg("Account registered")

	return &models.RegisterResponse{
		Message: "Registered",
		UserID:  account.ID,
	}, nil
}

func (s *accountService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	account, err := s.accountRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, apperror.Storage(err, "failed to load account")
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}

	ok, err := auth.CheckPassword(account.PasswordHash, req.Password)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", account.ID).Msg("Stored password hash is unusable")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, err, "failed to issue token")
	}

	return &models.LoginResponse{
		Token: token,
		Role:  account.Role,
		Name:  account.Name,
	}, nil
}

func (s *accountService) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err, "failed to load account")
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}
