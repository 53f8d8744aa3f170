// internal/messaging/handlers.go

package messaging

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/auth"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/common/utils"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/matches"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/quota"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// SendMessage sends a message to the other party of a match
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	partyID, ok := auth.PartyIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	var req SendMessageRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	message, err := h.service.SendMessage(r.Context(), matchID, partyID, req.Content)
	if err != nil {
		respondError(w, err, "Failed to send message")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, message)
}

// GetMessages returns a page of messages, newest first
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	partyID, ok := auth.PartyIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	messages, err := h.service.ListMessages(r.Context(), matchID, partyID, limit, offset)
	if err != nil {
		respondError(w, err, "Failed to get messages")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, messages)
}

func respondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, matches.ErrMatchNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotMatched):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrEmptyMessage):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, quota.ErrQuotaExceeded):
		utils.RespondWithError(w, http.StatusTooManyRequests, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
