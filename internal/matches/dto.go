// internal/matches/dto.go

package matches

import "github.com/imadgeboyega/kiekky-matchmaking/internal/matching"

// LikeRequest proposes a match to another party
type LikeRequest struct {
	ReceiverID int64 `json:"receiver_id" validate:"required,gt=0"`
}

// RespondRequest carries the receiver's decision
type RespondRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

// CompatibilityResponse is returned by the compatibility endpoint
type CompatibilityResponse struct {
	PartyID        int64            `json:"party_id"`
	Report         *matching.Report `json:"report"`
	MeetsThreshold bool             `json:"meets_threshold"`
}
