package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Mk9397/Expense-Splitter/internal/adapter/http/dto"
	"github.com/Mk9397/Expense-Splitter/internal/domain"
)

// ParticipantService defines the behavior needed by ParticipantHandler.
type ParticipantService interface {
	AddParticipant(ctx context.Context, tripID, name string) (string, error)
	EditParticipant(ctx context.Context, tripID, participantID, name string) (bool, error)
	DeleteParticipant(ctx context.Context, tripID, participantID string) (bool, error)
	ListParticipants(ctx context.Context, tripID string) ([]domain.Participant, error)
}

// ParticipantHandler handles participant-related HTTP requests.
type ParticipantHandler struct {
	participants ParticipantService
}

// NewParticipantHandler creates a new ParticipantHandler.
func NewParticipantHandler(participants ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participants: participants}
}

// Create adds a participant to a trip.
func (h *ParticipantHandler) Create(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	var req dto.ParticipantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeServiceError(w, "invalid participant", err)
		return
	}

	id, err := h.participants.AddParticipant(r.Context(), tripID, req.Name)
	if err != nil {
		writeServiceError(w, "failed to add participant", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ParticipantResponse{ID: id, Name: strings.TrimSpace(req.Name)})
}

// List lists a trip's participants.
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	participants, err := h.participants.ListParticipants(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		writeServiceError(w, "failed to list participants", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ParticipantsFromDomain(participants))
}

// Update renames a participant.
func (h *ParticipantHandler) Update(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	participantID := chi.URLParam(r, "participantID")

	var req dto.ParticipantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeServiceError(w, "invalid participant", err)
		return
	}

	ok, err := h.participants.EditParticipant(r.Context(), tripID, participantID, req.Name)
	if err != nil {
		writeServiceError(w, "failed to update participant", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "participant not found", participantID)
		return
	}

	writeJSON(w, http.StatusOK, dto.ParticipantResponse{ID: participantID, Name: strings.TrimSpace(req.Name)})
}

// Delete removes a participant. Their expenses stay on the trip.
func (h *ParticipantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantID")

	ok, err := h.participants.DeleteParticipant(r.Context(), chi.URLParam(r, "tripID"), participantID)
	if err != nil {
		writeServiceError(w, "failed to delete participant", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "participant not found", participantID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
