package escrow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklane/backend/internal/domain/shared"
)

func newTestMilestone(t *testing.T, amount string) *Milestone {
	m, err := NewMilestone(uuid.New(), "Design mockups", decimal.RequireFromString(amount), nil)
	require.NoError(t, err)
	return m
}

func TestNewMilestone(t *testing.T) {
	t.Run("should create pending milestone", func(t *testing.T) {
		m := newTestMilestone(t, "250.00")

		assert.Equal(t, MilestoneStatusPending, m.Status)
		assert.NotEqual(t, uuid.Nil, m.ID)
	})

	t.Run("should reject non-positive amount", func(t *testing.T) {
		_, err := NewMilestone(uuid.New(), "Work", decimal.Zero, nil)

		assert.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("should reject empty title", func(t *testing.T) {
		_, err := NewMilestone(uuid.New(), "", decimal.NewFromInt(100), nil)

		assert.Error(t, err)
	})
}

func TestMilestone_FeeMath(t *testing.T) {
	t.Run("deposit adds ten percent on top", func(t *testing.T) {
		m := newTestMilestone(t, "100")

		assert.Equal(t, "110.00", m.DepositAmount().StringFixed(2))
		assert.Equal(t, "100.00", m.PayoutAmount().StringFixed(2))
	})

	t.Run("deposit rounds to cents", func(t *testing.T) {
		m := newTestMilestone(t, "33.33")

		// 33.33 * 1.10 = 36.663, rounds to 36.66
		assert.Equal(t, "36.66", m.DepositAmount().StringFixed(2))
		assert.Equal(t, "33.33", m.PayoutAmount().StringFixed(2))
	})
}

func TestMilestoneStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    MilestoneStatus
		to      MilestoneStatus
		allowed bool
	}{
		{MilestoneStatusPending, MilestoneStatusFunded, true},
		{MilestoneStatusFunded, MilestoneStatusPaid, true},
		{MilestoneStatusPending, MilestoneStatusPaid, false},
		{MilestoneStatusFunded, MilestoneStatusPending, false},
		{MilestoneStatusPaid, MilestoneStatusFunded, false},
		{MilestoneStatusPaid, MilestoneStatusPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.from.String()+"_to_"+tc.to.String(), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestMilestone_Lifecycle(t *testing.T) {
	t.Run("fund then release", func(t *testing.T) {
		m := newTestMilestone(t, "500")

		require.NoError(t, m.Fund())
		assert.Equal(t, MilestoneStatusFunded, m.Status)
		assert.True(t, m.IsFunded())

		require.NoError(t, m.Release())
		assert.Equal(t, MilestoneStatusPaid, m.Status)
	})

	t.Run("should not release unfunded milestone", func(t *testing.T) {
		m := newTestMilestone(t, "500")

		err := m.Release()

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("should not fund twice", func(t *testing.T) {
		m := newTestMilestone(t, "500")
		require.NoError(t, m.Fund())

		err := m.Fund()

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("paid is terminal", func(t *testing.T) {
		m := newTestMilestone(t, "500")
		require.NoError(t, m.Fund())
		require.NoError(t, m.Release())

		assert.Error(t, m.Fund())
		assert.Error(t, m.Release())
	})
}
