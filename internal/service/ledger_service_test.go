package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amish929/Eco-Gamify-Project/internal/apperror"
	"github.com/Amish929/Eco-Gamify-Project/internal/models"
)

func TestLedgerCredit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.addAccount(t, "asha", models.RoleStudent, 0)

	tests := []struct {
		credit     int
		wantPoints int
		wantBadges []string
	}{
		{credit: 49, wantPoints: 49, wantBadges: []string{}},
		{credit: 1, wantPoints: 50, wantBadges: []string{models.BadgeGreenBeginner}},
		{credit: 149, wantPoints: 199, wantBadges: []string{models.BadgeGreenBeginner}},
		{credit: 1, wantPoints: 200, wantBadges: []string{models.BadgeGreenBeginner, models.BadgeEcoWarrior}},
		{credit: 500, wantPoints: 700, wantBadges: []string{models.BadgeGreenBeginner, models.BadgeEcoWarrior}},
	}

	for _, tt := range tests {
		account, err := env.ledger.Credit(ctx, student.ID, tt.credit)
		require.NoError(t, err)
		assert.Equal(t, tt.wantPoints, account.Points)
		assert.Equal(t, tt.wantBadges, account.Badges)
	}
}

func TestLedgerCreditErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.addAccount(t, "asha", models.RoleStudent, 0)

	_, err := env.ledger.Credit(ctx, student.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidPoints)

	_, err = env.ledger.Credit(ctx, "missing", 10)
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
