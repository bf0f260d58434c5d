package user

import "context"

type Repository interface {
	UpsertUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context, query ListQuery) ([]User, int64, error)
	SetDisabled(ctx context.Context, id int64, disabled bool) error
}
