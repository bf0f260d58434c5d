package role

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	roledomain "genealogy-app-go/internal/domain/role"
	userdomain "genealogy-app-go/internal/domain/user"
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

func TestCountAdminLinksByUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "user_genealogies" WHERE user_id = \$1 AND role = \$2`).
		WithArgs(int64(5), "ADMIN").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountAdminLinksByUser(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLinkNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "user_genealogies" WHERE user_id = \$1 AND genealogy_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "genealogy_id", "role"}))

	_, err := repo.GetLink(context.Background(), 5, 10)

	assert.ErrorIs(t, err, roledomain.ErrLinkNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserMapsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "global_role"}))

	_, err := repo.GetUser(context.Background(), 5)

	assert.ErrorIs(t, err, userdomain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateGlobalRole(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`UPDATE "users" SET "global_role"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs("GENEALOGY_ADMIN", sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateGlobalRole(context.Background(), 5, userdomain.RoleGenealogyAdmin)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenealogyExists(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "genealogies" WHERE id = \$1`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := repo.GenealogyExists(context.Background(), 10)

	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearFamilyMember(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`UPDATE "user_genealogies" SET "family_member_id"=\$1,"updated_at"=\$2 WHERE genealogy_id = \$3 AND family_member_id = \$4`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(10), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ClearFamilyMember(context.Background(), 10, 42)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteLinksByGenealogy(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`DELETE FROM "user_genealogies" WHERE genealogy_id = \$1`).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.DeleteLinksByGenealogy(context.Background(), 10)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
