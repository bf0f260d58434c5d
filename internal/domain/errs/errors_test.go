package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestInvalidWrapsInvalidArgument(t *testing.T) {
	err := Invalid("field %q is required", "name")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if err.Error() != `field "name" is required: invalid argument` {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	wrapped := fmt.Errorf("handle: %w", fmt.Errorf("request not found: %w", ErrNotFound))
	if Kind(wrapped) != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", Kind(wrapped))
	}
	if Kind(errors.New("boom")) != nil {
		t.Fatalf("expected nil kind for unclassified error")
	}
}
