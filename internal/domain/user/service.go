package user

import (
	"context"
	"strings"

	"genealogy-app-go/internal/domain/errs"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureUser records the caller's profile and returns the stored row. The
// global role of an existing user is left untouched.
func (s *Service) EnsureUser(ctx context.Context, id int64, nickname, avatar string) (*User, error) {
	if id <= 0 {
		return nil, errs.Invalid("user id is required")
	}

	profile := User{
		ID:         id,
		Nickname:   strings.TrimSpace(nickname),
		Avatar:     strings.TrimSpace(avatar),
		GlobalRole: RoleNormalUser,
	}
	if err := s.repo.UpsertUser(ctx, &profile); err != nil {
		return nil, err
	}

	return s.repo.GetUser(ctx, id)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, filter ListFilter) (*Page, error) {
	query := ListQuery{Nickname: strings.TrimSpace(filter.Nickname)}
	if filter.GlobalRole != "" {
		role, ok := ParseGlobalRole(filter.GlobalRole)
		if !ok {
			return nil, errs.Invalid("unknown global role %q", filter.GlobalRole)
		}
		query.GlobalRole = role
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.Size
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	query.Limit = size
	query.Offset = (page - 1) * size

	items, total, err := s.repo.ListUsers(ctx, query)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []User{}
	}
	return &Page{Items: items, Page: page, Size: size, Total: total}, nil
}

// SetDisabled blocks or restores a user's access. Super admins stay enabled.
func (s *Service) SetDisabled(ctx context.Context, id int64, disabled bool) (*User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if disabled && user.IsSuperAdmin() {
		return nil, ErrCannotDisableSuperAdmin
	}
	if user.Disabled == disabled {
		return user, nil
	}
	if err := s.repo.SetDisabled(ctx, id, disabled); err != nil {
		return nil, err
	}
	user.Disabled = disabled
	return user, nil
}
