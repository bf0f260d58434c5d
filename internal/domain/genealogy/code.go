package genealogy

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	codeLength   = 6
	codeAttempts = 10
)

func generateUniqueCode(ctx context.Context, repo Repository, generate func() (string, error)) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := generate()
		if err != nil {
			return "", err
		}
		taken, err := repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

// generateCode returns a random numeric invite code of codeLength digits.
func generateCode() (string, error) {
	const digits = "0123456789"
	max := big.NewInt(int64(len(digits)))

	var builder strings.Builder
	builder.Grow(codeLength)

	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(digits[n.Int64()])
	}

	return builder.String(), nil
}
