package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/room-lending/internal/auth"
	"github.com/example/room-lending/internal/booking"
	"github.com/example/room-lending/internal/directory"
	httptransport "github.com/example/room-lending/internal/http"
	"github.com/example/room-lending/internal/testfixtures"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestRandomHex(t *testing.T) {
	first := randomHex(32)
	second := randomHex(32)
	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}
	if first == second {
		t.Fatal("consecutive tokens must differ")
	}
}

// testStack is the full API wired exactly as main does it, but on
// deterministic time and identifier sources.
type testStack struct {
	router http.Handler
	clock  *testfixtures.Clock
	logs   *strings.Builder
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	clock := testfixtures.NewClock(time.Time{})
	ids := testfixtures.NewIDGenerator("id")
	tokens := testfixtures.NewIDGenerator("token")

	logs := &strings.Builder{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelInfo}))

	owners := directory.NewOwners(ids.NextFunc(), clock.NowFunc())
	organizations := directory.NewOrganizations(ids.NextFunc(), clock.NowFunc())
	members := directory.NewMembers(ids.NextFunc(), clock.NowFunc())

	authService := auth.NewService(owners, organizations, members, nil, tokens.NextFunc(), clock.NowFunc(), 30*time.Minute, logger)

	factory := testfixtures.NewEngineFactory(
		testfixtures.WithClock(clock),
		testfixtures.WithIDGenerator(ids),
	)
	engine := factory.NewEngine(testfixtures.EngineDeps{
		Owners:        owners,
		Organizations: members,
		Horizon:       72 * time.Hour,
		Logger:        logger,
	})

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Auth:      httptransport.NewAuthHandler(authService, logger),
		Directory: httptransport.NewDirectoryHandler(owners, organizations, members, logger),
		Rooms:     httptransport.NewRoomHandler(engine, logger),
		Bookings:  httptransport.NewBookingHandler(engine, logger),
		Sessions:  authService,
		Metrics:   httptransport.NewMetrics(),
		Logger:    logger,
	})

	return &testStack{router: router, clock: clock, logs: logs}
}

func (s *testStack) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestBookingFlowEndToEnd(t *testing.T) {
	stack := newTestStack(t)
	base := stack.clock.Now()

	// Owner signs up and logs in.
	rec := stack.do(t, http.MethodPost, "/owners", "",
		`{"name":"Alice","email":"alice@example.com","password":"supersecret"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("owner registration: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var registered map[string]string
	decodeBody(t, rec, &registered)
	ownerID := registered["id"]
	if ownerID != "id-1" {
		t.Fatalf("expected deterministic owner id, got %q", ownerID)
	}

	rec = stack.do(t, http.MethodPost, "/auth/login", "",
		`{"email":"alice@example.com","password":"supersecret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var ownerLogin map[string]string
	decodeBody(t, rec, &ownerLogin)
	ownerToken := ownerLogin["token"]
	if ownerToken == "" {
		t.Fatal("owner login returned no token")
	}
	if ownerLogin["role"] != string(booking.RoleOwner) {
		t.Fatalf("expected owner role, got %q", ownerLogin["role"])
	}

	// Owner lists a room; availability starts at the pinned clock time.
	rec = stack.do(t, http.MethodPost, "/rooms", ownerToken,
		fmt.Sprintf(`{"owner_id":%q,"name":"Conference A","max_capacity":4,"min_interval_minutes":60,"price":50}`, ownerID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("room creation: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var roomResp map[string]string
	decodeBody(t, rec, &roomResp)
	roomID := roomResp["room_id"]
	if roomID == "" {
		t.Fatal("room creation returned no id")
	}

	// Member signs up, logs in and books an hour.
	rec = stack.do(t, http.MethodPost, "/members", "",
		`{"name":"Bob","email":"bob@example.com","password":"alsosecret"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("member registration: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = stack.do(t, http.MethodPost, "/auth/login", "",
		`{"email":"bob@example.com","password":"alsosecret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("member login: expected 200, got %d", rec.Code)
	}
	var memberLogin map[string]string
	decodeBody(t, rec, &memberLogin)
	memberToken := memberLogin["token"]

	startsAt := base.Add(time.Hour).Format(time.RFC3339)
	endsAt := base.Add(2 * time.Hour).Format(time.RFC3339)
	rec = stack.do(t, http.MethodPost, "/bookings", memberToken,
		fmt.Sprintf(`{"room_id":%q,"starts_at":%q,"ends_at":%q,"participant_ids":["p1","p2"]}`, roomID, startsAt, endsAt))
	if rec.Code != http.StatusCreated {
		t.Fatalf("booking creation: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var bookingResp map[string]string
	decodeBody(t, rec, &bookingResp)
	if bookingResp["booking_id"] == "" {
		t.Fatal("booking creation returned no id")
	}

	// The grid reflects the booking: 73 hourly slots across the 72h
	// horizon, exactly one of them booked.
	rec = stack.do(t, http.MethodGet, "/rooms/"+roomID+"/slots", memberToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("slots: expected 200, got %d", rec.Code)
	}
	var slots struct {
		Slots []struct {
			StartsAt string `json:"starts_at"`
			Booked   bool   `json:"booked"`
		} `json:"slots"`
	}
	decodeBody(t, rec, &slots)
	if len(slots.Slots) != 73 {
		t.Fatalf("expected 73 slots, got %d", len(slots.Slots))
	}
	booked := 0
	for _, slot := range slots.Slots {
		if slot.Booked {
			booked++
		}
	}
	if booked != 1 {
		t.Fatalf("expected exactly 1 booked slot, got %d", booked)
	}

	// A second booking on the occupied hour is rejected.
	rec = stack.do(t, http.MethodPost, "/bookings", memberToken,
		fmt.Sprintf(`{"room_id":%q,"starts_at":%q,"ends_at":%q}`, roomID, startsAt, endsAt))
	if rec.Code != http.StatusConflict {
		t.Fatalf("overlapping booking: expected 409, got %d", rec.Code)
	}

	// Logout revokes the session; the token stops working.
	rec = stack.do(t, http.MethodDelete, "/auth/logout", memberToken, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}
	rec = stack.do(t, http.MethodGet, "/bookings", memberToken, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token: expected 401, got %d", rec.Code)
	}

	for _, fragment := range []string{"room created", "booking created", "login succeeded"} {
		if !strings.Contains(stack.logs.String(), fragment) {
			t.Errorf("expected log output to contain %q", fragment)
		}
	}
}

func TestSessionExpiryAcrossClockAdvance(t *testing.T) {
	stack := newTestStack(t)

	rec := stack.do(t, http.MethodPost, "/owners", "",
		`{"name":"Alice","email":"alice@example.com","password":"supersecret"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("owner registration: expected 201, got %d", rec.Code)
	}

	rec = stack.do(t, http.MethodPost, "/auth/login", "",
		`{"email":"alice@example.com","password":"supersecret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}
	var login map[string]string
	decodeBody(t, rec, &login)
	token := login["token"]

	rec = stack.do(t, http.MethodGet, "/rooms", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("fresh session: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stack.clock.Advance(31 * time.Minute)
	rec = stack.do(t, http.MethodGet, "/rooms", token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired session: expected 401, got %d", rec.Code)
	}
}

func TestEngineFactoryScreensRoomOwners(t *testing.T) {
	factory := testfixtures.NewEngineFactory()
	engine := factory.NewEngine(testfixtures.EngineDeps{
		Owners: &testfixtures.StubOwners{Known: map[string]bool{"owner-1": true}},
	})

	_, err := engine.AddRoom(context.Background(), booking.AddRoomParams{
		OwnerID:            "ghost",
		Name:               "Phantom Room",
		MaxCapacity:        2,
		MinIntervalMinutes: 30,
	})
	if booking.ErrorKind(err) != string(booking.KindNotFound) {
		t.Fatalf("expected not found for unknown owner, got %v", err)
	}

	roomID, err := engine.AddRoom(context.Background(), booking.AddRoomParams{
		OwnerID:            "owner-1",
		Name:               "Real Room",
		MaxCapacity:        2,
		MinIntervalMinutes: 30,
	})
	if err != nil {
		t.Fatalf("AddRoom: %v", err)
	}
	if roomID != "id-1" {
		t.Fatalf("expected deterministic room id, got %q", roomID)
	}
}
