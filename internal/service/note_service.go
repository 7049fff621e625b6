package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/mapper"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NoteService manages personal sticky notes, scoped to their owner
type NoteService struct {
	noteRepo *repository.NoteRepository
	logger   *zap.Logger
}

func NewNoteService(noteRepo *repository.NoteRepository, logger *zap.Logger) *NoteService {
	return &NoteService{noteRepo: noteRepo, logger: logger}
}

func (s *NoteService) Create(ctx context.Context, req *domain.CreateNoteRequest) (*domain.NoteDTO, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if isBlank(req.Content) {
		return nil, ErrMissingContent
	}

	note := &domain.Note{
		UserID:  owner.AuthUserID,
		Title:   strings.TrimSpace(req.Title),
		Content: strings.TrimSpace(req.Content),
		Color:   optionalTextPtr(req.Color),
		Pinned:  req.Pinned,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	dto := mapper.ToNoteDTO(note)
	return &dto, nil
}

// List returns the caller's notes, pinned first
func (s *NoteService) List(ctx context.Context) (*domain.NoteListResponse, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	notes, total, err := s.noteRepo.ListByOwner(ctx, owner.AuthUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	dtos := make([]domain.NoteDTO, len(notes))
	for i := range notes {
		dtos[i] = mapper.ToNoteDTO(&notes[i])
	}
	return &domain.NoteListResponse{Notes: dtos, Total: total}, nil
}

func (s *NoteService) Update(ctx context.Context, id int64, req *domain.UpdateNoteRequest) (*domain.NoteDTO, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !req.Title.Set && !req.Content.Set && !req.Color.Set && !req.Pinned.Set {
		return nil, ErrNoUpdateFields
	}

	note, err := s.noteRepo.GetOwned(ctx, id, owner.AuthUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	if req.Content.Set {
		if req.Content.Null || isBlank(req.Content.Value) {
			return nil, ErrMissingContent
		}
		note.Content = strings.TrimSpace(req.Content.Value)
	}
	if req.Title.Set {
		note.Title = strings.TrimSpace(req.Title.Value)
	}
	if req.Color.Set {
		note.Color = optionalText(req.Color.Value)
	}
	if req.Pinned.Set {
		note.Pinned = req.Pinned.Value
	}
	note.UpdatedAt = time.Now().UTC()

	if err := s.noteRepo.Save(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	dto := mapper.ToNoteDTO(note)
	return &dto, nil
}

func (s *NoteService) Delete(ctx context.Context, id int64) error {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return err
	}

	deleted, err := s.noteRepo.DeleteOwned(ctx, id, owner.AuthUserID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if deleted == 0 {
		return ErrNoteNotFound
	}
	return nil
}
