package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (s *recordingSender) SendCode(_ context.Context, _, _ uuid.UUID, action, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codes == nil {
		s.codes = make(map[string]string)
	}
	s.codes[action] = code
	return nil
}

func (s *recordingSender) last(action string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[action]
}

func TestConfirmationGate_IssueVerify(t *testing.T) {
	store, _ := newTestStore(t)
	sender := &recordingSender{}
	gate := NewConfirmationGate(store, sender, time.Minute, 6, zap.NewNop())
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()

	require.NoError(t, gate.Issue(ctx, tenantID, userID, "delete_product"))
	code := sender.last("delete_product")
	require.Len(t, code, 6)

	hash, err := store.Get(ctx, codeKey(tenantID, userID, "delete_product"))
	require.NoError(t, err)
	assert.NotContains(t, hash, code)

	assert.ErrorIs(t, gate.Verify(ctx, tenantID, userID, "delete_customer", code), integration.ErrConfirmationInvalid)
	assert.ErrorIs(t, gate.Verify(ctx, tenantID, uuid.New(), "delete_product", code), integration.ErrConfirmationInvalid)
	assert.ErrorIs(t, gate.Verify(ctx, tenantID, userID, "delete_product", ""), integration.ErrConfirmationRequired)

	require.NoError(t, gate.Verify(ctx, tenantID, userID, "delete_product", code))
	assert.ErrorIs(t, gate.Verify(ctx, tenantID, userID, "delete_product", code), integration.ErrConfirmationInvalid)
}

func TestConfirmationGate_Expiry(t *testing.T) {
	store, now := newTestStore(t)
	sender := &recordingSender{}
	gate := NewConfirmationGate(store, sender, time.Minute, 0, zap.NewNop())
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()

	require.NoError(t, gate.Issue(ctx, tenantID, userID, "delete_product"))
	code := sender.last("delete_product")
	assert.Len(t, code, DefaultCodeLength)

	*now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, gate.Verify(ctx, tenantID, userID, "delete_product", code), integration.ErrConfirmationInvalid)
}

func TestConfirmationGate_ReissueReplacesCode(t *testing.T) {
	store, _ := newTestStore(t)
	sender := &recordingSender{}
	gate := NewConfirmationGate(store, sender, time.Minute, 8, zap.NewNop())
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()

	require.NoError(t, gate.Issue(ctx, tenantID, userID, "delete_customer"))
	first := sender.last("delete_customer")
	require.NoError(t, gate.Issue(ctx, tenantID, userID, "delete_customer"))
	second := sender.last("delete_customer")

	if first != second {
		assert.ErrorIs(t, gate.Verify(ctx, tenantID, userID, "delete_customer", first), integration.ErrConfirmationInvalid)
	}
	assert.NoError(t, gate.Verify(ctx, tenantID, userID, "delete_customer", second))
}
