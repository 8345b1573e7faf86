package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trip-planner-backend/internal/middleware"
	"trip-planner-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: name is required", services.ErrInvalidInput), http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrTripNotFound, http.StatusNotFound},
		{fmt.Errorf("place %w", services.ErrNotFound), http.StatusNotFound},
		{services.ErrEmailTaken, http.StatusConflict},
		{fmt.Errorf("failed to list places: %w", fmt.Errorf("connection reset")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, msg := statusFromError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, msg)
		})
	}

	_, msg := statusFromError(fmt.Errorf("failed: %w", fmt.Errorf("password=hunter2")))
	assert.NotContains(t, msg, "hunter2")
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestMalformedBodiesAreRejected(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"create trip", NewTripHandler(nil).CreateTrip},
		{"update trip", NewTripHandler(nil).UpdateTrip},
		{"add place", NewPlaceHandler(nil).AddPlace},
		{"add expense", NewExpenseHandler(nil).AddExpense},
		{"add segment", NewTravelSegmentHandler(nil).AddSegment},
		{"upload photo", NewPhotoHandler(nil).UploadPhoto},
		{"register", NewUserHandler(nil).Register},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
			rec := httptest.NewRecorder()

			tt.handler(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, "Invalid request body", decodeBody(t, rec)["error"])
		})
	}
}

func TestSetVisited_RequiresFlag(t *testing.T) {
	h := NewPlaceHandler(nil)
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.SetVisited(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "visited is required", decodeBody(t, rec)["error"])
}

func TestUploadPhoto_RequiresFilename(t *testing.T) {
	h := NewPhotoHandler(nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content_type":"image/jpeg"}`))
	rec := httptest.NewRecorder()

	h.UploadPhoto(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIHandler_BudgetAndTipsFallBack(t *testing.T) {
	h := NewAIHandler(services.NewAIService(nil, time.Minute, time.Minute), nil, nil)

	rec := httptest.NewRecorder()
	h.Budget(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ai/budget?destination=Rome&days=3&travelers=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1000), body["budget"])
	assert.Equal(t, "USD", body["currency"])

	rec = httptest.NewRecorder()
	h.Budget(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ai/budget?destination=Rome&days=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Budget(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ai/budget", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Tips(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ai/tips?destination=Rome", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decodeBody(t, rec)["tips"])
}

func TestWebSocket_ReceivesTripChanges(t *testing.T) {
	hub := services.NewWSHub()
	users := services.NewUserService(nil, "secret", 1)
	h := NewWebSocketHandler(hub, users)

	r := chi.NewRouter()
	r.Get("/ws", h.HandleWebSocket)
	srv := httptest.NewServer(r)
	defer srv.Close()

	token, err := users.GenerateJWT("user-1")
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.IsOnline("user-1") }, 2*time.Second, 10*time.Millisecond)

	hub.NotifyTripChanged("user-1", "trip-9", "place_added")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg services.WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "trip_changed", msg.Type)
	assert.Equal(t, "trip-9", msg.TripID)
	assert.Equal(t, "place_added", msg.Kind)

	require.NoError(t, conn.WriteJSON(services.WSMessage{Type: "ping"}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "pong", msg.Type)
}

func TestWebSocket_RejectsBadToken(t *testing.T) {
	h := NewWebSocketHandler(services.NewWSHub(), services.NewUserService(nil, "secret", 1))
	rec := httptest.NewRecorder()

	h.HandleWebSocket(rec, httptest.NewRequest(http.MethodGet, "/ws?token=nope", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_UsesContextUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
	assert.Equal(t, "user-1", middleware.GetUserID(req.Context()))
}
