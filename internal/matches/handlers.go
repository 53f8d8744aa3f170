// internal/matches/handlers.go

package matches

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/auth"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/common/utils"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/matching"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/profile"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/quota"
)

type Handler struct {
	service   Service
	threshold float64
}

func NewHandler(service Service, threshold float64) *Handler {
	return &Handler{service: service, threshold: threshold}
}

// GetCompatibility scores the caller against another party without side effects
func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	partyID, ok := auth.PartyIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	otherID, err := pathID(r, "partyId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid party ID")
		return
	}

	report, err := h.service.Compatibility(r.Context(), partyID, otherID)
	if err != nil {
		h.respondError(w, err, "Failed to compute compatibility")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, CompatibilityResponse{
		PartyID:        otherID,
		Report:         report,
		MeetsThreshold: report.Overall >= h.threshold,
	})
}

// Like scores the pair and proposes a match when the score clears the threshold
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	partyID, ok := auth.PartyIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req LikeRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	match, err := h.service.Like(r.Context(), partyID, req.ReceiverID)
	if err != nil {
		h.respondError(w, err, "Failed to create match")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, match)
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	partyID, ok := auth.PartyIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"

	matches, err := h.service.ListMatches(r.Context(), partyID, activeOnly)
	if err != nil {
		h.respondError(w, err, "Failed to get matches")
		return
	}
	if matches == nil {
		matches = []*Match{}
	}

	utils.RespondWithJSON(w, http.StatusOK, matches)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	partyID, ok := auth.PartyIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	match, err := h.service.GetMatch(r.Context(), matchID, partyID)
	if err != nil {
		h.respondError(w, err, "Failed to get match")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, match)
}

func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	partyID, ok := auth.PartyIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	var req RespondRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	match, err := h.service.Respond(r.Context(), matchID, partyID, *req.Accept)
	if err != nil {
		h.respondError(w, err, "Failed to respond to match")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, match)
}

func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	h.closeMatch(w, r, h.service.Block, "Failed to block match")
}

func (h *Handler) Unmatch(w http.ResponseWriter, r *http.Request) {
	h.closeMatch(w, r, h.service.Unmatch, "Failed to unmatch")
}

func (h *Handler) closeMatch(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, matchID, partyID int64) (*Match, error), fallback string) {
	partyID, ok := auth.PartyIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	match, err := op(r.Context(), matchID, partyID)
	if err != nil {
		h.respondError(w, err, fallback)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, match)
}

func (h *Handler) GetQuota(w http.ResponseWriter, r *http.Request) {
	partyID, ok := auth.PartyIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	status, err := h.service.QuotaStatus(r.Context(), partyID)
	if err != nil {
		h.respondError(w, err, "Failed to get quota")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, status)
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[key], 10, 64)
}

func (h *Handler) respondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrMatchNotFound),
		errors.Is(err, profile.ErrPartyNotFound),
		errors.Is(err, profile.ErrProfileNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateActiveMatch), errors.Is(err, ErrPairBlocked):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, quota.ErrQuotaExceeded):
		utils.RespondWithError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ErrBelowThreshold):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrNotParticipant):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrSelfProposal), errors.Is(err, matching.ErrInvalidInput):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
