package approval

import (
	"fmt"

	"genealogy-app-go/internal/domain/errs"
)

var (
	ErrRequestNotFound      = fmt.Errorf("approval request not found: %w", errs.ErrNotFound)
	ErrRequestNotPending    = fmt.Errorf("approval request already handled: %w", errs.ErrInvalidState)
	ErrNotFamilyAdmin       = fmt.Errorf("user is not an admin of the genealogy: %w", errs.ErrForbidden)
	ErrDuplicateJoinRequest = fmt.Errorf("join request already pending: %w", errs.ErrConflict)
	ErrAlreadyMember        = fmt.Errorf("user already joined the genealogy: %w", errs.ErrConflict)
)
