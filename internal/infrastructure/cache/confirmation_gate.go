package cache

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Confirmation code defaults
const (
	DefaultCodeTTL    = 5 * time.Minute
	DefaultCodeLength = 6
)

// CodeSender delivers a freshly issued confirmation code to the user
type CodeSender interface {
	SendCode(ctx context.Context, tenantID, userID uuid.UUID, action, code string) error
}

// LogCodeSender writes codes to the log. It stands in for a mail or SMS
// channel in development.
type LogCodeSender struct {
	logger *zap.Logger
}

// NewLogCodeSender creates a sender that logs codes at info level
func NewLogCodeSender(logger *zap.Logger) *LogCodeSender {
	return &LogCodeSender{logger: logger}
}

// SendCode logs the code
func (s *LogCodeSender) SendCode(_ context.Context, tenantID, userID uuid.UUID, action, code string) error {
	s.logger.Info("Confirmation code issued",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", userID.String()),
		zap.String("action", action),
		zap.String("code", code),
	)
	return nil
}

// ConfirmationGate implements integration.ConfirmationGate. Only a bcrypt
// hash of each code is stored, and a code is consumed by its first
// successful Verify.
type ConfirmationGate struct {
	store  Store
	sender CodeSender
	ttl    time.Duration
	length int
	logger *zap.Logger
}

// NewConfirmationGate creates a gate; zero ttl or length use the defaults
func NewConfirmationGate(store Store, sender CodeSender, ttl time.Duration, length int, logger *zap.Logger) *ConfirmationGate {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	if length <= 0 {
		length = DefaultCodeLength
	}
	return &ConfirmationGate{
		store:  store,
		sender: sender,
		ttl:    ttl,
		length: length,
		logger: logger,
	}
}

func codeKey(tenantID, userID uuid.UUID, action string) string {
	return fmt.Sprintf("otp:%s:%s:%s", tenantID, userID, action)
}

// Issue creates a new code for the action, replacing any earlier one
func (g *ConfirmationGate) Issue(ctx context.Context, tenantID, userID uuid.UUID, action string) error {
	code, err := randomDigits(g.length)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash confirmation code: %w", err)
	}
	if err := g.store.Set(ctx, codeKey(tenantID, userID, action), string(hash), g.ttl); err != nil {
		return err
	}
	return g.sender.SendCode(ctx, tenantID, userID, action, code)
}

// Verify checks code against the stored hash and consumes it on success
func (g *ConfirmationGate) Verify(ctx context.Context, tenantID, userID uuid.UUID, action, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return integration.ErrConfirmationRequired
	}

	key := codeKey(tenantID, userID, action)
	hash, err := g.store.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		return integration.ErrConfirmationInvalid
	}
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		g.logger.Warn("Confirmation code rejected",
			zap.String("tenant_id", tenantID.String()),
			zap.String("action", action),
		)
		return integration.ErrConfirmationInvalid
	}

	consumed, err := g.store.CompareAndDelete(ctx, key, hash)
	if err != nil {
		return err
	}
	if !consumed {
		return integration.ErrConfirmationInvalid
	}
	return nil
}

func randomDigits(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	ten := big.NewInt(10)
	for range n {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate confirmation code: %w", err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}

// Ensure ConfirmationGate implements integration.ConfirmationGate
var _ integration.ConfirmationGate = (*ConfirmationGate)(nil)
