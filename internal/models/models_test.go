package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveBadges(t *testing.T) {
	tests := []struct {
		points int
		want   []string
	}{
		{points: 0, want: []string{}},
		{points: 49, want: []string{}},
		{points: 50, want: []string{BadgeGreenBeginner}},
		{points: 199, want: []string{BadgeGreenBeginner}},
		{points: 200, want: []string{BadgeGreenBeginner, BadgeEcoWarrior}},
		{points: 5000, want: []string{BadgeGreenBeginner, BadgeEcoWarrior}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveBadges(tt.points), "points=%d", tt.points)
	}
}

func TestDeriveBadgesIsMonotonic(t *testing.T) {
	prev := DeriveBadges(0)
	for p := 1; p <= 300; p++ {
		cur := DeriveBadges(p)
		for _, b := range prev {
			assert.Contains(t, cur, b, "badge %q lost at %d points", b, p)
		}
		prev = cur
	}
}

func TestMergeBadges(t *testing.T) {
	merged := MergeBadges([]string{BadgeEcoWarrior}, []string{BadgeGreenBeginner, BadgeEcoWarrior})
	assert.Equal(t, []string{BadgeEcoWarrior, BadgeGreenBeginner}, merged)

	assert.Equal(t, []string{BadgeGreenBeginner}, MergeBadges([]string{BadgeGreenBeginner}, nil))
	assert.Empty(t, MergeBadges(nil, nil))
}

func TestSubmissionStatusTransition(t *testing.T) {
	tests := []struct {
		name       string
		from       SubmissionStatus
		to         SubmissionStatus
		wantCredit bool
		wantErr    bool
	}{
		{name: "pending to approved credits", from: SubmissionStatusPending, to: SubmissionStatusApproved, wantCredit: true},
		{name: "pending to rejected", from: SubmissionStatusPending, to: SubmissionStatusRejected},
		{name: "approved to approved is a no-op", from: SubmissionStatusApproved, to: SubmissionStatusApproved},
		{name: "approved to rejected keeps points", from: SubmissionStatusApproved, to: SubmissionStatusRejected},
		{name: "rejected to approved credits", from: SubmissionStatusRejected, to: SubmissionStatusApproved, wantCredit: true},
		{name: "pending is not a review target", from: SubmissionStatusApproved, to: SubmissionStatusPending, wantErr: true},
		{name: "unknown status", from: SubmissionStatusPending, to: SubmissionStatus("done"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			credit, err := tt.from.Transition(tt.to)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidStatus)
				assert.False(t, credit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCredit, credit)
		})
	}
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleStudent, ParseRole("student"))
	assert.Equal(t, RoleStudent, ParseRole(""))
	assert.Equal(t, RoleStudent, ParseRole("superuser"))
}
