package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	t      *testing.T
	db     *database.DB
	server *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)

	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bus := events.NewEventBus()
	srv := NewServer(
		config.ServerConfig{Port: 0},
		service.NewUserService(db, &logger),
		service.NewItemService(db, bus, &logger),
		service.NewBookingService(db, bus, &logger),
		service.NewRequestService(db, &logger),
		&logger,
	)

	ts := httptest.NewServer(srv.server.Handler)
	t.Cleanup(ts.Close)
	return &testEnv{t: t, db: db, server: ts}
}

func (e *testEnv) do(method, path string, userID int64, body any) (*http.Response, []byte) {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(e.t, err)
	if userID > 0 {
		req.Header.Set("X-Sharer-User-Id", strconv.FormatInt(userID, 10))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp, raw
}

func (e *testEnv) createUser(name, email string) models.User {
	e.t.Helper()
	resp, raw := e.do(http.MethodPost, "/users", 0, map[string]string{"name": name, "email": email})
	require.Equal(e.t, http.StatusCreated, resp.StatusCode, string(raw))
	var user models.User
	require.NoError(e.t, json.Unmarshal(raw, &user))
	return user
}

func (e *testEnv) createItem(ownerID int64, name string, available bool) models.Item {
	e.t.Helper()
	resp, raw := e.do(http.MethodPost, "/items", ownerID, map[string]any{
		"name": name, "description": name + " description", "available": available,
	})
	require.Equal(e.t, http.StatusCreated, resp.StatusCode, string(raw))
	var item models.Item
	require.NoError(e.t, json.Unmarshal(raw, &item))
	return item
}

func TestUserEndpoints(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser("alice", "alice@example.com")
	assert.NotZero(t, alice.ID)

	t.Run("DuplicateEmailConflicts", func(t *testing.T) {
		resp, raw := env.do(http.MethodPost, "/users", 0, map[string]string{"name": "clone", "email": "alice@example.com"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "CONFLICT", body["error"])
		assert.NotEmpty(t, body["message"])
	})

	t.Run("GetAndPatch", func(t *testing.T) {
		resp, _ := env.do(http.MethodGet, fmt.Sprintf("/users/%d", alice.ID), 0, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, raw := env.do(http.MethodPatch, fmt.Sprintf("/users/%d", alice.ID), 0, map[string]string{"name": "alice2"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var user models.User
		require.NoError(t, json.Unmarshal(raw, &user))
		assert.Equal(t, "alice2", user.Name)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("UnknownUserIs404", func(t *testing.T) {
		resp, _ := env.do(http.MethodGet, "/users/404", 0, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Delete", func(t *testing.T) {
		bob := env.createUser("bob", "bob@example.com")
		resp, _ := env.do(http.MethodDelete, fmt.Sprintf("/users/%d", bob.ID), 0, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp, _ = env.do(http.MethodGet, fmt.Sprintf("/users/%d", bob.ID), 0, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestItemEndpoints(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("owner", "owner@example.com")
	viewer := env.createUser("viewer", "viewer@example.com")
	drill := env.createItem(owner.ID, "Cordless Drill", true)

	t.Run("MissingSharerHeader", func(t *testing.T) {
		resp, raw := env.do(http.MethodPost, "/items", 0, map[string]any{"name": "x", "description": "y", "available": true})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "VALIDATION", body["error"])
	})

	t.Run("ViewCarriesComments", func(t *testing.T) {
		resp, raw := env.do(http.MethodGet, fmt.Sprintf("/items/%d", drill.ID), viewer.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var view models.ItemView
		require.NoError(t, json.Unmarshal(raw, &view))
		assert.Equal(t, drill.ID, view.ID)
		assert.NotNil(t, view.Comments)
		assert.Nil(t, view.LastBooking)
	})

	t.Run("OnlyOwnerPatches", func(t *testing.T) {
		resp, _ := env.do(http.MethodPatch, fmt.Sprintf("/items/%d", drill.ID), viewer.ID, map[string]any{"name": "stolen"})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, raw := env.do(http.MethodPatch, fmt.Sprintf("/items/%d", drill.ID), owner.ID, map[string]any{"available": false})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var item models.Item
		require.NoError(t, json.Unmarshal(raw, &item))
		assert.False(t, item.Available)

		resp, _ = env.do(http.MethodPatch, fmt.Sprintf("/items/%d", drill.ID), owner.ID, map[string]any{"available": true})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Search", func(t *testing.T) {
		resp, raw := env.do(http.MethodGet, "/items/search?text=drill", 0, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var items []models.Item
		require.NoError(t, json.Unmarshal(raw, &items))
		assert.Len(t, items, 1)

		resp, raw = env.do(http.MethodGet, "/items/search?text=", 0, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(raw, &items))
		assert.Empty(t, items)
	})
}

func TestBookingFlow(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("owner", "owner@example.com")
	booker := env.createUser("booker", "booker@example.com")
	item := env.createItem(owner.ID, "drill", true)

	start := time.Now().Add(time.Hour).UTC()
	end := start.Add(time.Hour)
	bookingBody := map[string]any{"start": start, "end": end, "item_id": item.ID}

	t.Run("OwnItemForbidden", func(t *testing.T) {
		resp, _ := env.do(http.MethodPost, "/bookings", owner.ID, bookingBody)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	var booking models.Booking
	t.Run("CreateWaiting", func(t *testing.T) {
		resp, raw := env.do(http.MethodPost, "/bookings", booker.ID, bookingBody)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
		require.NoError(t, json.Unmarshal(raw, &booking))
		assert.Equal(t, models.StatusWaiting, booking.Status)
	})

	t.Run("StrangerCannotSee", func(t *testing.T) {
		stranger := env.createUser("stranger", "stranger@example.com")
		resp, _ := env.do(http.MethodGet, fmt.Sprintf("/bookings/%d", booking.ID), stranger.ID, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("OnlyOwnerDecides", func(t *testing.T) {
		resp, _ := env.do(http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=true", booking.ID), booker.ID, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, raw := env.do(http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=true", booking.ID), owner.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
		var decided models.Booking
		require.NoError(t, json.Unmarshal(raw, &decided))
		assert.Equal(t, models.StatusApproved, decided.Status)
	})

	t.Run("SecondDecisionConflicts", func(t *testing.T) {
		resp, _ := env.do(http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=false", booking.ID), owner.ID, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("ListByState", func(t *testing.T) {
		resp, raw := env.do(http.MethodGet, "/bookings?state=FUTURE", booker.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var bookings []models.Booking
		require.NoError(t, json.Unmarshal(raw, &bookings))
		assert.Len(t, bookings, 1)

		resp, raw = env.do(http.MethodGet, "/bookings/owner?state=PAST", owner.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(raw, &bookings))
		assert.Empty(t, bookings)
	})

	t.Run("UnknownStateExactMessage", func(t *testing.T) {
		resp, raw := env.do(http.MethodGet, "/bookings?state=BOGUS", booker.ID, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "Unknown state: UNSUPPORTED_STATUS", body["message"])
		assert.Equal(t, "UNSUPPORTED_STATE", body["error"])
	})
}

func TestCommentFlow(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("owner", "owner@example.com")
	renter := env.createUser("renter", "renter@example.com")
	item := env.createItem(owner.ID, "drill", true)

	t.Run("NoFinishedBookingIs400", func(t *testing.T) {
		resp, _ := env.do(http.MethodPost, fmt.Sprintf("/items/%d/comment", item.ID), renter.ID, map[string]string{"text": "nice"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	// Seed a finished approved booking straight into the store.
	now := time.Now().UTC()
	finished := &models.Booking{
		Start:    now.Add(-3 * time.Hour),
		End:      now.Add(-2 * time.Hour),
		ItemID:   item.ID,
		BookerID: renter.ID,
		Status:   models.StatusApproved,
	}
	require.NoError(t, env.db.CreateBooking(t.Context(), finished))

	t.Run("PastRenterComments", func(t *testing.T) {
		resp, raw := env.do(http.MethodPost, fmt.Sprintf("/items/%d/comment", item.ID), renter.ID, map[string]string{"text": "worked well"})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
		var comment models.Comment
		require.NoError(t, json.Unmarshal(raw, &comment))
		assert.Equal(t, "renter", comment.AuthorName)
	})

	t.Run("OwnerViewShowsLastBooking", func(t *testing.T) {
		resp, raw := env.do(http.MethodGet, fmt.Sprintf("/items/%d", item.ID), owner.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var view models.ItemView
		require.NoError(t, json.Unmarshal(raw, &view))
		require.NotNil(t, view.LastBooking)
		assert.Equal(t, finished.ID, view.LastBooking.ID)
		assert.Nil(t, view.NextBooking)
		assert.Len(t, view.Comments, 1)
	})
}

func TestRequestEndpoints(t *testing.T) {
	env := newTestEnv(t)
	asker := env.createUser("asker", "asker@example.com")
	other := env.createUser("other", "other@example.com")

	resp, raw := env.do(http.MethodPost, "/requests", asker.ID, map[string]string{"description": "need a drill"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var request models.ItemRequest
	require.NoError(t, json.Unmarshal(raw, &request))

	t.Run("AnswerShowsUp", func(t *testing.T) {
		respCreate, rawCreate := env.do(http.MethodPost, "/items", other.ID, map[string]any{
			"name": "drill", "description": "answers", "available": true, "request_id": request.ID,
		})
		require.Equal(t, http.StatusCreated, respCreate.StatusCode, string(rawCreate))

		resp, raw := env.do(http.MethodGet, "/requests", asker.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var views []models.ItemRequestView
		require.NoError(t, json.Unmarshal(raw, &views))
		require.Len(t, views, 1)
		assert.Len(t, views[0].Items, 1)
	})

	t.Run("FromOthersExcludesOwn", func(t *testing.T) {
		resp, raw := env.do(http.MethodGet, "/requests/all", asker.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var views []models.ItemRequestView
		require.NoError(t, json.Unmarshal(raw, &views))
		assert.Empty(t, views)

		resp, raw = env.do(http.MethodGet, "/requests/all", other.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(raw, &views))
		assert.Len(t, views, 1)
	})

	t.Run("UnknownRequestIs404", func(t *testing.T) {
		resp, _ := env.do(http.MethodGet, "/requests/404", asker.ID, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestExportEndpoint(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("owner", "owner@example.com")
	env.createItem(owner.ID, "drill", true)

	resp, raw := env.do(http.MethodGet, "/bookings/owner/export", owner.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.NotEmpty(t, raw)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(http.MethodGet, "/healthz", 0, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
