package leave_test

import (
	"context"
	"regexp"
	"testing"

	"go-selfservice/internal/leave"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupLeaveRepo(t *testing.T) (leave.Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)
	return leave.NewRepository(db), mock
}

func TestLeaveRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("ties on modified_at are broken by id", func(t *testing.T) {
		repo, mock := setupLeaveRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY leave_requests.modified_at ASC, leave_requests.id ASC`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		items, err := repo.List(ctx, leave.ListFilter{
			Scope:      leave.ScopePersonal,
			EmployeeID: uuid.New(),
			Offset:     4,
			Limit:      2,
		})

		assert.NoError(t, err)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("approval scope joins the current initiator", func(t *testing.T) {
		repo, mock := setupLeaveRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(`JOIN employees initiator ON initiator.id = leave_requests.initiator_id`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.List(ctx, leave.ListFilter{Scope: leave.ScopeApproval, EmployeeID: uuid.New()})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
