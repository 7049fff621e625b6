package handler

import (
	"net/http"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"go.uber.org/zap"
)

type NoteHandler struct {
	noteService *service.NoteService
	logger      *zap.Logger
}

func NewNoteHandler(noteService *service.NoteService, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{noteService: noteService, logger: logger}
}

// List godoc
// @Summary List own notes
// @Tags Notes
// @Produce json
// @Success 200 {object} domain.NoteListResponse
// @Security BearerAuth
// @Router /notes [get]
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.noteService.List(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "failed to list notes")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create note
// @Tags Notes
// @Accept json
// @Produce json
// @Param request body domain.CreateNoteRequest true "Note"
// @Success 201 {object} domain.NoteDTO
// @Security BearerAuth
// @Router /notes [post]
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.noteService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err, "failed to create note")
		return
	}
	respondJSON(w, http.StatusCreated, note)
}

// Update godoc
// @Summary Update note
// @Tags Notes
// @Accept json
// @Produce json
// @Param id path int true "Note ID"
// @Param request body domain.UpdateNoteRequest true "Fields to change"
// @Success 200 {object} domain.NoteDTO
// @Security BearerAuth
// @Router /notes/{id} [patch]
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.noteService.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err, "failed to update note")
		return
	}
	respondJSON(w, http.StatusOK, note)
}

// Delete godoc
// @Summary Delete note
// @Tags Notes
// @Param id path int true "Note ID"
// @Success 204
// @Security BearerAuth
// @Router /notes/{id} [delete]
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	if err := h.noteService.Delete(r.Context(), id); err != nil {
		handleError(w, h.logger, err, "failed to delete note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
