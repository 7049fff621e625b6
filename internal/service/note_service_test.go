package service_test

import (
	"context"
	"testing"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"github.com/extremegraphics/lead-pipeline-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNoteService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewNoteService(repository.NewNoteRepository(db), zap.NewNop())
	alice := testutil.UserContext("alice")
	bob := testutil.UserContext("bob")

	_, err := svc.Create(context.Background(), &domain.CreateNoteRequest{Content: "x"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
	_, err = svc.Create(alice, &domain.CreateNoteRequest{Content: "   "})
	assert.ErrorIs(t, err, service.ErrMissingContent)

	plain, err := svc.Create(alice, &domain.CreateNoteRequest{Title: "Call back", Content: "Maria at 3pm"})
	require.NoError(t, err)
	pinned, err := svc.Create(alice, &domain.CreateNoteRequest{Content: "Order vinyl", Pinned: true, Color: ptr("yellow")})
	require.NoError(t, err)
	_, err = svc.Create(bob, &domain.CreateNoteRequest{Content: "Bob's note"})
	require.NoError(t, err)

	list, err := svc.List(alice)
	require.NoError(t, err)
	require.Len(t, list.Notes, 2)
	assert.Equal(t, pinned.ID, list.Notes[0].ID)
	assert.Equal(t, int64(2), list.Total)

	_, err = svc.Update(bob, plain.ID, &domain.UpdateNoteRequest{Content: domain.Some("hijack")})
	assert.ErrorIs(t, err, service.ErrNoteNotFound)
	_, err = svc.Update(alice, plain.ID, &domain.UpdateNoteRequest{})
	assert.ErrorIs(t, err, service.ErrNoUpdateFields)

	updated, err := svc.Update(alice, plain.ID, &domain.UpdateNoteRequest{Pinned: domain.Some(true), Content: domain.Some("Maria at 4pm")})
	require.NoError(t, err)
	assert.True(t, updated.Pinned)
	assert.Equal(t, "Maria at 4pm", updated.Content)
	assert.Equal(t, "Call back", updated.Title)

	assert.ErrorIs(t, svc.Delete(bob, plain.ID), service.ErrNoteNotFound)
	require.NoError(t, svc.Delete(alice, plain.ID))
	assert.ErrorIs(t, svc.Delete(alice, plain.ID), service.ErrNoteNotFound)

	list, err = svc.List(alice)
	require.NoError(t, err)
	assert.Len(t, list.Notes, 1)
}
