// internal/profile/handlers.go

package profile

import (
	"errors"
	"net/http"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/auth"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/common/utils"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/matching"
)

// Handler handles profile-related HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new profile handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetMyProfile returns the caller's party, latest profile and preferences
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	partyID, ok := auth.PartyIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	snapshot, err := h.service.GetSnapshot(r.Context(), partyID)
	if err != nil {
		h.respondError(w, err, "Failed to get profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, snapshot)
}

// UpdateProfile stores a new profile version
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	partyID, ok := auth.PartyIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), partyID, &req)
	if err != nil {
		h.respondError(w, err, "Failed to update profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

// GetPreferences returns the caller's preferences
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	partyID, ok := auth.PartyIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	snapshot, err := h.service.GetSnapshot(r.Context(), partyID)
	if err != nil {
		h.respondError(w, err, "Failed to get preferences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, snapshot.Preferences)
}

// UpdatePreferences replaces the caller's preferences
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	partyID, ok := auth.PartyIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdatePreferencesRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	prefs, err := h.service.UpdatePreferences(r.Context(), partyID, &req)
	if err != nil {
		h.respondError(w, err, "Failed to update preferences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, prefs)
}

func (h *Handler) respondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrPartyNotFound), errors.Is(err, ErrProfileNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, matching.ErrInvalidInput):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
