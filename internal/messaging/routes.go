// internal/messaging/routes.go

package messaging

import (
	"github.com/gorilla/mux"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/auth"
)

// RegisterRoutes registers messaging routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/messaging").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/matches/{id:[0-9]+}/messages", handler.SendMessage).Methods("POST")
	api.HandleFunc("/matches/{id:[0-9]+}/messages", handler.GetMessages).Methods("GET")
}
