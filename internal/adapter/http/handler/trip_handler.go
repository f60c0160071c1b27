package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Mk9397/Expense-Splitter/internal/adapter/http/dto"
	"github.com/Mk9397/Expense-Splitter/internal/domain"
)

// TripService defines the behavior needed by TripHandler.
type TripService interface {
	CreateTrip(ctx context.Context, name, currency string) (string, error)
	EditTrip(ctx context.Context, id, name, currency string) (bool, error)
	DeleteTrip(ctx context.Context, id string) (bool, error)
	GetTrip(ctx context.Context, id string) (*domain.Trip, error)
	FindTrips(ctx context.Context, query string) []*domain.Trip
}

// TripHandler handles trip-related HTTP requests.
type TripHandler struct {
	trips TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(trips TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

// Create creates a new trip.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeServiceError(w, "invalid trip", err)
		return
	}

	id, err := h.trips.CreateTrip(r.Context(), req.Name, req.Currency)
	if err != nil {
		writeServiceError(w, "failed to create trip", err)
		return
	}

	trip, err := h.trips.GetTrip(r.Context(), id)
	if err != nil {
		writeServiceError(w, "failed to get trip", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TripFromDomain(trip))
}

// List lists trips, optionally filtered by a case-insensitive name query.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	trips := h.trips.FindTrips(r.Context(), r.URL.Query().Get("q"))
	total := len(trips)

	trips = paginate(trips, parseIntQuery(r, "offset", 0), parseIntQuery(r, "limit", 0))

	writeJSON(w, http.StatusOK, dto.ListTripsResponse{
		Trips: dto.TripsFromDomain(trips),
		Total: total,
	})
}

// Get retrieves a trip by ID.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	trip, err := h.trips.GetTrip(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		writeServiceError(w, "failed to get trip", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TripFromDomain(trip))
}

// Update renames a trip or changes its currency.
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tripID")

	var req dto.UpdateTripRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeServiceError(w, "invalid trip", err)
		return
	}

	ok, err := h.trips.EditTrip(r.Context(), id, req.Name, req.Currency)
	if err != nil {
		writeServiceError(w, "failed to update trip", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "trip not found", id)
		return
	}

	trip, err := h.trips.GetTrip(r.Context(), id)
	if err != nil {
		writeServiceError(w, "failed to get trip", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TripFromDomain(trip))
}

// Delete removes a trip.
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tripID")

	ok, err := h.trips.DeleteTrip(r.Context(), id)
	if err != nil {
		writeServiceError(w, "failed to delete trip", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "trip not found", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Currencies lists the currencies the presentation layer offers, with their symbols.
func (h *TripHandler) Currencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.CurrenciesFromDomain(domain.SupportedCurrencies()))
}
