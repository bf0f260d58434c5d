package user

import (
	"context"
	"errors"
	"time"

	domain "genealogy-app-go/internal/domain/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// UpsertUser inserts the user or refreshes its profile fields. The global
// role of an existing row is left alone.
func (r *PostgresRepository) UpsertUser(ctx context.Context, user *domain.User) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if user.Nickname != "" {
		updates["nickname"] = user.Nickname
	}
	if user.Avatar != "" {
		updates["avatar"] = user.Avatar
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(updates),
		}).
		Create(user).Error
}

func (r *PostgresRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context, query domain.ListQuery) ([]domain.User, int64, error) {
	scoped := func() *gorm.DB {
		db := r.db.WithContext(ctx).Model(&domain.User{})
		if query.Nickname != "" {
			db = db.Where("nickname ILIKE ?", "%"+query.Nickname+"%")
		}
		if query.GlobalRole != "" {
			db = db.Where("global_role = ?", query.GlobalRole)
		}
		return db
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.User{}, 0, nil
	}

	var users []domain.User
	if err := scoped().
		Order("id asc").
		Limit(query.Limit).
		Offset(query.Offset).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *PostgresRepository) SetDisabled(ctx context.Context, id int64, disabled bool) error {
	result := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"disabled":   disabled,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
