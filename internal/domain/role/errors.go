package role

import (
	"fmt"

	"genealogy-app-go/internal/domain/errs"
)

var (
	ErrLinkNotFound = fmt.Errorf("user genealogy link not found: %w", errs.ErrNotFound)
	ErrSoleAdmin    = fmt.Errorf("user is the only admin of the genealogy: %w", errs.ErrConflict)

	ErrGenealogyNotFound = fmt.Errorf("genealogy not found: %w", errs.ErrNotFound)
)
