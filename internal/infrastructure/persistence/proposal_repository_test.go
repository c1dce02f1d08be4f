package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklane/backend/internal/domain/marketplace"
	"github.com/worklane/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockProposalRepository creates a GormProposalRepository with a mocked SQL connection
func newMockProposalRepository(t *testing.T) (*GormProposalRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProposalRepository(gormDB), mock, mockDB
}

func decidedProposal(t *testing.T, status marketplace.ProposalStatus) *marketplace.Proposal {
	proposal, err := marketplace.NewProposal(uuid.New(), uuid.New(), decimal.NewFromInt(800), "I can do this")
	require.NoError(t, err)
	require.NoError(t, proposal.Decide(status))
	return proposal
}

func TestGormProposalRepository_DecideAndAssign(t *testing.T) {
	t.Run("acceptance updates proposal and project together", func(t *testing.T) {
		repo, mock, mockDB := newMockProposalRepository(t)
		defer mockDB.Close()

		proposal := decidedProposal(t, marketplace.ProposalStatusAccepted)
		project, err := marketplace.NewProject(uuid.New(), "Landing page", "web", "$1000", "2026-10-01", "details")
		require.NoError(t, err)
		require.NoError(t, project.Assign(proposal.FreelancerID))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "proposals" SET .* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "projects" SET .* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = repo.DecideAndAssign(context.Background(), proposal, project)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejection touches only the proposal row", func(t *testing.T) {
		repo, mock, mockDB := newMockProposalRepository(t)
		defer mockDB.Close()

		proposal := decidedProposal(t, marketplace.ProposalStatusRejected)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "proposals" SET .* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.DecideAndAssign(context.Background(), proposal, nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second decision on the same proposal loses", func(t *testing.T) {
		repo, mock, mockDB := newMockProposalRepository(t)
		defer mockDB.Close()

		proposal := decidedProposal(t, marketplace.ProposalStatusAccepted)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "proposals" SET .* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.DecideAndAssign(context.Background(), proposal, nil)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already assigned project rolls the decision back", func(t *testing.T) {
		repo, mock, mockDB := newMockProposalRepository(t)
		defer mockDB.Close()

		proposal := decidedProposal(t, marketplace.ProposalStatusAccepted)
		project, err := marketplace.NewProject(uuid.New(), "Landing page", "web", "$1000", "2026-10-01", "details")
		require.NoError(t, err)
		require.NoError(t, project.Assign(proposal.FreelancerID))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "proposals" SET .* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "projects" SET .* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.DecideAndAssign(context.Background(), proposal, project)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProposalRepository_FindByProject(t *testing.T) {
	repo, mock, mockDB := newMockProposalRepository(t)
	defer mockDB.Close()

	projectID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "project_id", "freelancer_id", "price", "cover_letter", "status"}).
		AddRow(uuid.New(), projectID, uuid.New(), decimal.NewFromInt(800), "letter", "pending")

	mock.ExpectQuery(`SELECT \* FROM "proposals" WHERE project_id = \$1 ORDER BY created_at DESC`).
		WithArgs(projectID).
		WillReturnRows(rows)

	proposals, err := repo.FindByProject(context.Background(), projectID)

	assert.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, projectID, proposals[0].ProjectID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
