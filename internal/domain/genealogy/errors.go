package genealogy

import (
	"fmt"

	"genealogy-app-go/internal/domain/errs"
)

var (
	ErrGenealogyNotFound    = fmt.Errorf("genealogy not found: %w", errs.ErrNotFound)
	ErrMemberNotFound       = fmt.Errorf("member not found: %w", errs.ErrNotFound)
	ErrCannotDeleteCreator  = fmt.Errorf("cannot delete creator: %w", errs.ErrConflict)
	ErrCodeGenerationFailed = fmt.Errorf("genealogy code generation failed: %w", errs.ErrConflict)
)
