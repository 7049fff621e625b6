package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"github.com/extremegraphics/lead-pipeline-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createChatSessionService(db *gorm.DB) *service.ChatSessionService {
	return service.NewChatSessionService(
		repository.NewChatSessionRepository(db),
		repository.NewLeadRepository(db),
		nil,
		zap.NewNop(),
	)
}

func TestChatSessionService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createChatSessionService(db)
	ctx := context.Background()
	lead := testutil.CreateLead(t, db)

	session, err := svc.Create(ctx, &domain.CreateChatSessionRequest{
		LeadID:          &lead.ID,
		Messages:        []domain.ChatMessage{{Role: "user", Content: "Hola"}},
		ContextCaptured: map[string]interface{}{"service": "logo"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ChatSessionStatusActive, session.Status)
	assert.Equal(t, "logo", session.ContextCaptured["service"])

	tests := []struct {
		name    string
		req     domain.CreateChatSessionRequest
		wantErr error
	}{
		{"no messages", domain.CreateChatSessionRequest{}, service.ErrInvalidMessages},
		{"missing role", domain.CreateChatSessionRequest{Messages: []domain.ChatMessage{{Content: "x"}}}, service.ErrInvalidMessageStructure},
		{"missing content", domain.CreateChatSessionRequest{Messages: []domain.ChatMessage{{Role: "user"}}}, service.ErrInvalidMessageStructure},
		{"bad status", domain.CreateChatSessionRequest{Messages: []domain.ChatMessage{{Role: "user", Content: "x"}}, Status: "archived"}, service.ErrInvalidChatStatus},
		{"unknown lead", domain.CreateChatSessionRequest{Messages: []domain.ChatMessage{{Role: "user", Content: "x"}}, LeadID: ptr(int64(999999))}, service.ErrLeadReferenceNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestChatSessionService_UpdateAppendsMessages(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createChatSessionService(db)
	ctx := context.Background()

	session, err := svc.Create(ctx, &domain.CreateChatSessionRequest{
		Messages:        []domain.ChatMessage{{Role: "assistant", Content: "Hi!"}},
		ContextCaptured: map[string]interface{}{"step": "ask_service"},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, session.ID, &domain.UpdateChatSessionRequest{
		Messages:        []domain.ChatMessage{{Role: "user", Content: "I need a sign"}},
		ContextCaptured: domain.Some(map[string]interface{}{"service": "sign"}),
	})
	require.NoError(t, err)
	require.Len(t, updated.Messages, 2)
	assert.Equal(t, "Hi!", updated.Messages[0].Content)
	assert.Equal(t, "I need a sign", updated.Messages[1].Content)
	assert.Equal(t, map[string]interface{}{"service": "sign"}, updated.ContextCaptured)

	closed, err := svc.Update(ctx, session.ID, &domain.UpdateChatSessionRequest{Status: domain.Some("closed")})
	require.NoError(t, err)
	assert.Equal(t, domain.ChatSessionStatusClosed, closed.Status)
	assert.Len(t, closed.Messages, 2)

	_, err = svc.Update(ctx, session.ID, &domain.UpdateChatSessionRequest{})
	assert.ErrorIs(t, err, service.ErrNoUpdateFields)
	_, err = svc.Update(ctx, session.ID, &domain.UpdateChatSessionRequest{Status: domain.Some("paused")})
	assert.ErrorIs(t, err, service.ErrInvalidChatStatus)
	_, err = svc.Update(ctx, session.ID, &domain.UpdateChatSessionRequest{Messages: []domain.ChatMessage{{Role: "user"}}})
	assert.ErrorIs(t, err, service.ErrInvalidMessageStructure)
	_, err = svc.Update(ctx, 999999, &domain.UpdateChatSessionRequest{Status: domain.Some("closed")})
	assert.ErrorIs(t, err, service.ErrChatSessionNotFound)

	got, err := svc.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 2)
}

func TestChatSessionService_ConcurrentAppendsKeepEveryMessage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createChatSessionService(db)
	ctx := context.Background()

	session, err := svc.Create(ctx, &domain.CreateChatSessionRequest{
		Messages: []domain.ChatMessage{{Role: "user", Content: "m1"}},
	})
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Update(ctx, session.ID, &domain.UpdateChatSessionRequest{
				Messages: []domain.ChatMessage{{Role: "assistant", Content: fmt.Sprintf("reply %d", i)}},
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := svc.Get(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, writers+1)
	assert.Equal(t, "m1", got.Messages[0].Content)
}

func TestChatSessionService_ListAndCloseStale(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createChatSessionService(db)
	ctx := context.Background()
	lead := testutil.CreateLead(t, db, testutil.WithName("Carla Chat"))

	fresh, err := svc.Create(ctx, &domain.CreateChatSessionRequest{
		LeadID:   &lead.ID,
		Messages: []domain.ChatMessage{{Role: "user", Content: "fresh"}},
	})
	require.NoError(t, err)
	stale, err := svc.Create(ctx, &domain.CreateChatSessionRequest{
		Messages: []domain.ChatMessage{{Role: "user", Content: "stale"}},
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.ChatSession{}).
		Where("id = ?", stale.ID).
		UpdateColumn("updated_at", time.Now().UTC().Add(-96*time.Hour)).Error)

	res, err := svc.List(ctx, domain.ChatSessionFilter{LeadID: &lead.ID}, 1, 10)
	require.NoError(t, err)
	require.Len(t, res.ChatSessions, 1)
	assert.Equal(t, fresh.ID, res.ChatSessions[0].ID)
	assert.Equal(t, "Carla Chat", res.ChatSessions[0].LeadName)

	closed, err := svc.CloseStale(ctx, 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)

	res, err = svc.List(ctx, domain.ChatSessionFilter{Status: "closed"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, res.ChatSessions, 1)
	assert.Equal(t, stale.ID, res.ChatSessions[0].ID)

	_, err = svc.List(ctx, domain.ChatSessionFilter{Status: "bogus"}, 1, 10)
	assert.ErrorIs(t, err, service.ErrInvalidChatStatus)
}
