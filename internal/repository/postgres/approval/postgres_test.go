package approval

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	approvaldomain "genealogy-app-go/internal/domain/approval"
	genealogydomain "genealogy-app-go/internal/domain/genealogy"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return NewPostgres(db), mock
}

func TestTransitionStatus(t *testing.T) {
	tests := []struct {
		name        string
		requestType approvaldomain.RequestType
		table       string
		affected    int64
	}{
		{name: "pending join request", requestType: approvaldomain.TypeJoin, table: "join_requests", affected: 1},
		{name: "already handled edit request", requestType: approvaldomain.TypeEdit, table: "edit_requests", affected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectExec(`UPDATE "` + tt.table + `" SET .* WHERE id = \$\d+ AND status = \$\d+`).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			affected, err := repo.TransitionStatus(context.Background(), tt.requestType, 5, approvaldomain.Review{
				Status:     approvaldomain.StatusApproved,
				ReviewerID: 7,
				ReviewedAt: time.Now(),
			})

			require.NoError(t, err)
			assert.Equal(t, tt.affected, affected)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTransitionStatusError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`UPDATE "join_requests"`).WillReturnError(sql.ErrConnDone)

	_, err := repo.TransitionStatus(context.Background(), approvaldomain.TypeJoin, 5, approvaldomain.Review{Status: approvaldomain.StatusRejected})

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindJoinRequestNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "join_requests" WHERE family_id = \$1 AND id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "family_id", "status"}))

	_, err := repo.FindJoinRequest(context.Background(), 1, 99)

	assert.ErrorIs(t, err, approvaldomain.ErrRequestNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMemberFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "members" WHERE family_id = \$1 AND id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "family_id", "name", "gender", "bio"}).
			AddRow(3, 1, "M", "male", "old"))

	member, err := repo.GetMember(context.Background(), 1, 3)

	require.NoError(t, err)
	assert.Equal(t, "M", member.Name)
	assert.Equal(t, genealogydomain.GenderMale, member.Gender)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasPendingJoinRequest(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "join_requests"`).
		WithArgs(int64(1), int64(3), "pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	pending, err := repo.HasPendingJoinRequest(context.Background(), 1, 3)

	require.NoError(t, err)
	assert.True(t, pending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRequests(t *testing.T) {
	repo, mock := newMockRepo(t)
	familyID := int64(1)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM \(SELECT id, 'join' AS request_type`).
		WithArgs(int64(1), "pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT \* FROM \(SELECT id, 'join' AS request_type.*ORDER BY created_at DESC, id DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "request_type", "family_id", "applicant_user_id", "applicant_name", "relation_desc",
			"member_id", "field_name", "old_value", "new_value", "status", "reviewer_id", "created_at", "reviewed_at",
		}).
			AddRow(8, "edit", 1, 3, "", "", 4, "bio", "old", "new", "pending", nil, created, nil).
			AddRow(6, "join", 1, 5, "Wang", "cousin", nil, "", "", "", "pending", nil, created, nil))

	items, total, err := repo.ListRequests(context.Background(), approvaldomain.RequestQuery{
		FamilyID: &familyID,
		Status:   approvaldomain.StatusPending,
		Limit:    10,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, approvaldomain.TypeEdit, items[0].Type)
	require.NotNil(t, items[0].MemberID)
	assert.Equal(t, int64(4), *items[0].MemberID)
	assert.Equal(t, "Wang", items[1].ApplicantName)
	assert.Nil(t, items[1].MemberID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRequestsEmptySkipsPageQuery(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM \(SELECT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	items, total, err := repo.ListRequests(context.Background(), approvaldomain.RequestQuery{Limit: 10})

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}
