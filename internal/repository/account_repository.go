package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Amish929/Eco-Gamify-Project/internal/models"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	// AddPoints atomically adds delta to the account's points and returns the updated row.
	// Inside a transaction the row stays locked until commit.
	AddPoints(ctx context.Context, id string, delta int) (*models.Account, error)
	UpdateBadges(ctx context.Context, id string, badges []string) error
	// ListStudentsByPoints orders by points descending, then registration order.
	ListStudentsByPoints(ctx context.Context) ([]models.Account, error)
}

type accountRepository struct {
	*PostgresRepository
}

func NewAccountRepository(db *sql.DB, logger zerolog.Logger) AccountRepository {
	return &accountRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const accountColumns = `id, name, email, password_hash, role, points, badges, created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, name, email, password_hash, role, points, badges, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn(ctx).ExecContext(ctx, query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.Points,
		pq.Array(nonNilStrings(account.Badges)),
		account.CreatedAt,
		account.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}

	return err
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	return scanAccount(r.conn(ctx).QueryRowContext(ctx, query, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	return scanAccount(r.conn(ctx).QueryRowContext(ctx, query, email))
}

func (r *accountRepository) AddPoints(ctx context.Context, id string, delta int) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET points = points + $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + accountColumns

	return scanAccount(r.conn(ctx).QueryRowContext(ctx, query, delta, time.Now().UTC(), id))
}

func (r *accountRepository) UpdateBadges(ctx context.Context, id string, badges []string) error {
	query := `
		UPDATE accounts
		SET badges = $1, updated_at = $2
		WHERE id = $3
	`

	_, err := r.conn(ctx).ExecContext(ctx, query, pq.Array(nonNilStrings(badges)), time.Now().UTC(), id)
	return err
}

func (r *accountRepository) ListStudentsByPoints(ctx context.Context) ([]models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE role = $1
		ORDER BY points DESC, created_at ASC, id ASC
	`

	rows, err := r.conn(ctx).QueryContext(ctx, query, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}

	return accounts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.Points,
		pq.Array(&account.Badges),
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	account.Badges = nonNilStrings(account.Badges)
	return account, nil
}
