// internal/matches/routes.go

package matches

import (
	"github.com/gorilla/mux"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, hub *Hub, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Compatibility
	api.HandleFunc("/compatibility/{partyId:[0-9]+}", handler.GetCompatibility).Methods("GET")

	// Matches
	api.HandleFunc("/matches", handler.Like).Methods("POST")
	api.HandleFunc("/matches", handler.ListMatches).Methods("GET")
	api.HandleFunc("/matches/{id:[0-9]+}", handler.GetMatch).Methods("GET")
	api.HandleFunc("/matches/{id:[0-9]+}/respond", handler.Respond).Methods("POST")
	api.HandleFunc("/matches/{id:[0-9]+}/block", handler.Block).Methods("POST")
	api.HandleFunc("/matches/{id:[0-9]+}/unmatch", handler.Unmatch).Methods("POST")

	// Quota
	api.HandleFunc("/quota", handler.GetQuota).Methods("GET")

	// Realtime match events
	api.HandleFunc("/ws", hub.ServeWS)
}
