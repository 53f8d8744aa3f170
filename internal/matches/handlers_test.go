package matches

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/auth"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/common/utils"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/logger"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/matching"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/notification"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/quota"
)

const testSecret = "matches-test-secret"

func tokenFor(t *testing.T, partyID int64) string {
	t.Helper()
	token, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    partyID,
		Type:      "access",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}, testSecret)
	require.NoError(t, err)
	return token
}

func newTestRouter(t *testing.T, limits quota.Limits) (*mux.Router, *testEnv, *Hub) {
	t.Helper()
	env := newTestEnv(t, limits)
	hub := NewHub(logger.Nop())

	router := mux.NewRouter()
	RegisterRoutes(router, NewHandler(env.svc, 0.5), hub, auth.NewMiddleware(testSecret))
	return router, env, hub
}

func do(t *testing.T, router http.Handler, method, path string, partyID int64, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if partyID > 0 {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, partyID))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlers_LikeRespondFlow(t *testing.T) {
	router, _, _ := newTestRouter(t, defaultLimits)

	rec := do(t, router, http.MethodPost, "/api/v1/matching/matches", 1, `{"receiver_id":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created Match
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, StatusPending, created.Status)
	id := strconv.FormatInt(created.ID, 10)

	rec = do(t, router, http.MethodPost, "/api/v1/matching/matches", 2, `{"receiver_id":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/matching/matches/"+id, 3, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/matching/matches/"+id+"/respond", 2, `{"accept":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"matched"`)

	rec = do(t, router, http.MethodPost, "/api/v1/matching/matches/"+id+"/respond", 2, `{"accept":false}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/matching/matches?active=true", 1, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []Match
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = do(t, router, http.MethodPost, "/api/v1/matching/matches/"+id+"/block", 3, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/matching/matches/"+id+"/unmatch", 1, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unmatched"`)
}

func TestHandlers_RequestValidation(t *testing.T) {
	router, _, _ := newTestRouter(t, defaultLimits)

	rec := do(t, router, http.MethodPost, "/api/v1/matching/matches", 0, `{"receiver_id":2}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/matching/matches", 1, `{"receiver_id":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/matching/matches", 1, `{"receiver_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/matching/matches", 1, `{"receiver_id":404}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/matching/matches/1/respond", 2, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlers_QuotaAndThreshold(t *testing.T) {
	router, env, _ := newTestRouter(t, quota.Limits{FreeMatches: 1, PremiumMatches: 1})

	strict := env.profiles.add(5, 30, false)
	strict.Preferences.MaxAge = 31
	strict.Preferences.AgeImportance = matching.DealBreaker
	env.profiles.add(6, 45, false)

	rec := do(t, router, http.MethodPost, "/api/v1/matching/matches", 5, `{"receiver_id":6}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/matching/compatibility/6", 5, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp CompatibilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.MeetsThreshold)
	assert.NotEmpty(t, resp.Report.DealBreakers)

	rec = do(t, router, http.MethodPost, "/api/v1/matching/matches", 1, `{"receiver_id":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, router, http.MethodPost, "/api/v1/matching/matches", 1, `{"receiver_id":3}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/matching/quota", 1, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status quota.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 1, status.MatchesSent)
	assert.Equal(t, 0, status.MatchesRemaining)
}

func TestHub_DeliversEventsToConnectedParty(t *testing.T) {
	router, _, hub := newTestRouter(t, defaultLimits)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/matching/ws?token=" + tokenFor(t, 2)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	event := notification.Event{Type: notification.EventMatchProposed, MatchID: 11, SenderID: 1, ReceiverID: 2, Score: 0.9}

	// registration completes after the handshake, so keep publishing until
	// the first frame arrives
	received := make(chan struct{})
	go func() {
		for {
			select {
			case <-received:
				return
			case <-time.After(20 * time.Millisecond):
				_ = hub.Notify(ctx, event)
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	err = conn.ReadJSON(&msg)
	close(received)
	require.NoError(t, err)

	assert.Equal(t, "match_proposed", msg.Type)
	assert.Equal(t, int64(2), msg.PartyID)
	assert.Equal(t, int64(11), msg.Data.MatchID)
}

func TestHub_RejectsUnauthenticated(t *testing.T) {
	router, _, _ := newTestRouter(t, defaultLimits)

	rec := do(t, router, http.MethodGet, "/api/v1/matching/ws", 0, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
