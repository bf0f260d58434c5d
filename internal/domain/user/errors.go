package user

import (
	"fmt"

	"genealogy-app-go/internal/domain/errs"
)

var (
	ErrUserNotFound            = fmt.Errorf("user not found: %w", errs.ErrNotFound)
	ErrCannotDisableSuperAdmin = fmt.Errorf("super admins cannot be disabled: %w", errs.ErrConflict)
)
