package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"go.uber.org/zap"
)

const (
	// CodeLength is the number of digits in a code
	CodeLength = 6

	codeSpace = 1_000_000
)

// Generator implements the domain.CodeGenerator interface
type Generator struct {
	entropy io.Reader
	logger  *zap.Logger
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator(logger *zap.Logger) *Generator {
	return &Generator{entropy: rand.Reader, logger: logger}
}

// Generate returns a uniformly random code in [000000, 999999]. An entropy
// failure is returned as is; there is no weaker fallback.
func (g *Generator) Generate() (string, error) {
	n, err := rand.Int(g.entropy, big.NewInt(codeSpace))
	if err != nil {
		g.logger.Error("failed to read entropy for one-time code", zap.Error(err))
		return "", fmt.Errorf("generate one-time code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}
