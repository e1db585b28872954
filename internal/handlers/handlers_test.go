package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abrezinsky/racenight/internal/auth"
	"github.com/abrezinsky/racenight/internal/handlers"
	"github.com/abrezinsky/racenight/internal/logger"
	"github.com/abrezinsky/racenight/internal/models"
	"github.com/abrezinsky/racenight/internal/repository"
	"github.com/abrezinsky/racenight/internal/services"
	"github.com/abrezinsky/racenight/internal/testutil"
	"github.com/abrezinsky/racenight/internal/websocket"
	"github.com/abrezinsky/racenight/pkg/authsvc"
)

var testDay = time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testDay }

type testEnv struct {
	server *httptest.Server
	repo   *repository.Repository
	auth   *auth.Auth
	users  *services.UserService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	log := logger.New()

	races := services.NewRaceService(log, repo)
	races.SetNowFunc(fixedNow)
	settings := services.NewSettingsService(log, repo)
	parties := services.NewPartyService(log, repo, races, settings)
	parties.SetNowFunc(fixedNow)
	membership := services.NewMembershipService(log, repo)
	scores := services.NewScoreService(log, repo, races)
	scores.SetNowFunc(fixedNow)
	attribution := services.NewAttributionService(log, repo, races)
	attribution.SetNowFunc(fixedNow)
	catalog := services.NewCatalogService(log, repo)
	users := services.NewUserService(log, repo)

	verifier := authsvc.NewMockClient(
		authsvc.WithIdentity(authsvc.Identity{Name: "Ada", Email: "ada@example.com"}),
		authsvc.WithPassword("ada@example.com", "hunter2"),
	)
	tokenAuth := auth.New("test-secret")
	hub := websocket.New(log, settings)
	hub.Start()

	h := handlers.New(
		parties, membership, races, scores, attribution,
		catalog, users, settings,
		verifier, tokenAuth, hub, handlers.NoopHTTPLogger{},
	)

	server := httptest.NewServer(h.Router())
	t.Cleanup(server.Close)

	return &testEnv{server: server, repo: repo, auth: tokenAuth, users: users}
}

// tokenFor provisions an account and returns a bearer token for it
func (e *testEnv) tokenFor(t *testing.T, name, email string, permissions ...string) (string, *models.User) {
	t.Helper()
	user, err := e.users.Provision(t.Context(), name, email)
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}
	if len(permissions) > 0 {
		if err := e.repo.SetUserPermissions(t.Context(), user.ID, permissions); err != nil {
			t.Fatalf("SetUserPermissions failed: %v", err)
		}
		user.Permissions = permissions
	}
	token, err := e.auth.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	return token, user
}

// request performs an HTTP request with an optional bearer token and
// JSON body, decoding the JSON response into out when non-nil.
func (e *testEnv) request(t *testing.T, method, path, token string, body, out interface{}) int {
	t.Helper()
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
	}
	return resp.StatusCode
}

func TestLogin_Success(t *testing.T) {
	env := setupEnv(t)

	var resp handlers.LoginResponse
	status := env.request(t, http.MethodPost, "/api/login", "",
		handlers.LoginRequest{Email: "ada@example.com", Password: "hunter2"}, &resp)

	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.Email != "ada@example.com" {
		t.Errorf("unexpected user: %+v", resp.User)
	}
}

func TestLogin_BadPassword(t *testing.T) {
	env := setupEnv(t)

	var apiErr map[string]interface{}
	status := env.request(t, http.MethodPost, "/api/login", "",
		handlers.LoginRequest{Email: "ada@example.com", Password: "wrong"}, &apiErr)

	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if apiErr["code"] != "INVALID_CREDENTIALS" {
		t.Errorf("expected INVALID_CREDENTIALS, got %v", apiErr["code"])
	}
}

func TestAPI_RequiresAuth(t *testing.T) {
	env := setupEnv(t)

	status := env.request(t, http.MethodPost, "/api/party/today", "", nil, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", status)
	}
}

func TestPartyToday_CreatesPartyAndRace(t *testing.T) {
	env := setupEnv(t)
	token, user := env.tokenFor(t, "Ada", "ada@example.com")

	var detail services.PartyDetail
	status := env.request(t, http.MethodPost, "/api/party/today", token, nil, &detail)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if detail.Party.ScheduledDate != testDay.Format(models.DateLayout) {
		t.Errorf("unexpected date %s", detail.Party.ScheduledDate)
	}
	if len(detail.Members) != 1 || detail.Members[0].UserID != user.ID || detail.Members[0].Role != models.RoleHost {
		t.Errorf("expected caller to be HOST, got %+v", detail.Members)
	}
	if detail.CurrentRace == nil || detail.CurrentRace.Race.Status != models.RacePending {
		t.Error("expected a PENDING current race")
	}
}

func TestRaceLifecycle_OverHTTP(t *testing.T) {
	env := setupEnv(t)
	token, _ := env.tokenFor(t, "Ada", "ada@example.com")

	var detail services.PartyDetail
	if status := env.request(t, http.MethodPost, "/api/party/today", token, nil, &detail); status != http.StatusOK {
		t.Fatalf("party/today failed with %d", status)
	}
	raceID := detail.CurrentRace.Race.ID

	var race models.Race
	status := env.request(t, http.MethodPost, fmt.Sprintf("/api/races/%d/start", raceID), token, nil, &race)
	if status != http.StatusOK || race.Status != models.RaceInProgress {
		t.Fatalf("start: status %d, race %+v", status, race)
	}

	status = env.request(t, http.MethodPost, fmt.Sprintf("/api/races/%d/complete", raceID), token, nil, &race)
	if status != http.StatusOK || race.Status != models.RaceCompleted {
		t.Fatalf("complete: status %d, race %+v", status, race)
	}
}

func TestCompleteRace_SkipReturnsConflict(t *testing.T) {
	env := setupEnv(t)
	token, _ := env.tokenFor(t, "Ada", "ada@example.com")

	var detail services.PartyDetail
	env.request(t, http.MethodPost, "/api/party/today", token, nil, &detail)
	raceID := detail.CurrentRace.Race.ID

	var apiErr map[string]interface{}
	status := env.request(t, http.MethodPost, fmt.Sprintf("/api/races/%d/complete", raceID), token, nil, &apiErr)
	if status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if apiErr["code"] != "INVALID_TRANSITION" {
		t.Errorf("expected INVALID_TRANSITION, got %v", apiErr["code"])
	}
}

func TestRecordScore_ForbiddenForOtherParticipant(t *testing.T) {
	env := setupEnv(t)
	hostToken, host := env.tokenFor(t, "Ada", "ada@example.com")
	partToken, participant := env.tokenFor(t, "Bob", "bob@example.com")

	var detail services.PartyDetail
	env.request(t, http.MethodPost, "/api/party/today", hostToken, nil, &detail)
	env.request(t, http.MethodPost, "/api/party/today", partToken, nil, &detail)
	raceID := detail.CurrentRace.Race.ID

	var race models.Race
	env.request(t, http.MethodPost, fmt.Sprintf("/api/races/%d/racers", raceID), hostToken,
		handlers.AddRacersRequest{UserIDs: []int64{host.ID, participant.ID}}, &race)

	// Participant records their own score
	var score models.Score
	status := env.request(t, http.MethodPost, fmt.Sprintf("/api/races/%d/scores", raceID), partToken,
		handlers.RecordScoreRequest{UserID: participant.ID, Value: 55}, &score)
	if status != http.StatusOK {
		t.Fatalf("own score: expected 200, got %d", status)
	}

	// Participant cannot record the host's
	var apiErr map[string]interface{}
	status = env.request(t, http.MethodPost, fmt.Sprintf("/api/races/%d/scores", raceID), partToken,
		handlers.RecordScoreRequest{UserID: host.ID, Value: 11}, &apiErr)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", status)
	}
	if apiErr["code"] != "FORBIDDEN" {
		t.Errorf("expected FORBIDDEN, got %v", apiErr["code"])
	}
}

func TestDeactivatedParty_ReturnsPartyNotActionable(t *testing.T) {
	env := setupEnv(t)
	token, _ := env.tokenFor(t, "Ada", "ada@example.com")
	adminToken, _ := env.tokenFor(t, "Root", "root@example.com", "ALL_PERMISSIONS")

	var detail services.PartyDetail
	env.request(t, http.MethodPost, "/api/party/today", token, nil, &detail)
	partyID := detail.Party.ID
	raceID := detail.CurrentRace.Race.ID

	var party models.Party
	status := env.request(t, http.MethodPut, fmt.Sprintf("/api/admin/parties/%d/active", partyID), adminToken,
		handlers.PartyActiveRequest{Active: false}, &party)
	if status != http.StatusOK {
		t.Fatalf("deactivate failed with %d", status)
	}

	var apiErr map[string]interface{}
	status = env.request(t, http.MethodPost, fmt.Sprintf("/api/races/%d/start", raceID), token, nil, &apiErr)
	if status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if apiErr["code"] != "PARTY_NOT_ACTIONABLE" {
		t.Errorf("expected PARTY_NOT_ACTIONABLE, got %v", apiErr["code"])
	}
	if apiErr["reason"] != "PARTY_DEACTIVATED" {
		t.Errorf("expected reason PARTY_DEACTIVATED, got %v", apiErr["reason"])
	}
}

func TestJoin_InvalidCodeOverHTTP(t *testing.T) {
	env := setupEnv(t)
	token, _ := env.tokenFor(t, "Ada", "ada@example.com")

	var apiErr map[string]interface{}
	status := env.request(t, http.MethodPost, "/api/party/join", token,
		handlers.JoinRequest{JoinCode: "nope"}, &apiErr)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if apiErr["code"] != "INVALID_JOIN_CODE" {
		t.Errorf("expected INVALID_JOIN_CODE, got %v", apiErr["code"])
	}
}

func TestPartyJoinQR_PublicPNG(t *testing.T) {
	env := setupEnv(t)
	token, _ := env.tokenFor(t, "Ada", "ada@example.com")

	var detail services.PartyDetail
	env.request(t, http.MethodPost, "/api/party/today", token, nil, &detail)

	resp, err := http.Get(fmt.Sprintf("%s/api/parties/%d/qr", env.server.URL, detail.Party.ID))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}
}

func TestCatalog_AdminCRUDOverHTTP(t *testing.T) {
	env := setupEnv(t)
	adminToken, _ := env.tokenFor(t, "Root", "root@example.com", "ALL_PERMISSIONS")
	plainToken, _ := env.tokenFor(t, "Ada", "ada@example.com")

	var car models.Car
	status := env.request(t, http.MethodPost, "/api/catalog/cars", adminToken,
		handlers.CatalogCreateRequest{Name: "Falcon"}, &car)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}

	status = env.request(t, http.MethodPost, "/api/catalog/cars", plainToken,
		handlers.CatalogCreateRequest{Name: "Viper"}, nil)
	if status != http.StatusForbidden {
		t.Errorf("expected 403 for a plain user, got %d", status)
	}

	var cars []models.Car
	status = env.request(t, http.MethodGet, "/api/catalog/cars", plainToken, nil, &cars)
	if status != http.StatusOK || len(cars) != 1 {
		t.Errorf("expected 1 car for reads, got status %d, %d cars", status, len(cars))
	}

	status = env.request(t, http.MethodDelete, fmt.Sprintf("/api/catalog/cars/%d", car.ID), adminToken, nil, nil)
	if status != http.StatusNoContent {
		t.Errorf("expected 204, got %d", status)
	}
}

func TestAdminUsers_PermissionsRoundTrip(t *testing.T) {
	env := setupEnv(t)
	adminToken, _ := env.tokenFor(t, "Root", "root@example.com", "ALL_PERMISSIONS")
	_, user := env.tokenFor(t, "Ada", "ada@example.com")

	status := env.request(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/permissions", user.ID), adminToken,
		handlers.UserPermissionsRequest{Permissions: []string{"MANAGE_CATALOG"}}, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var users []models.User
	status = env.request(t, http.MethodGet, "/api/admin/users", adminToken, nil, &users)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	found := false
	for _, u := range users {
		if u.ID == user.ID {
			found = true
			if len(u.Permissions) != 1 || u.Permissions[0] != "MANAGE_CATALOG" {
				t.Errorf("unexpected permissions: %v", u.Permissions)
			}
		}
	}
	if !found {
		t.Error("expected the user in the listing")
	}
}

func TestSettings_JoinOpenOverHTTP(t *testing.T) {
	env := setupEnv(t)
	adminToken, _ := env.tokenFor(t, "Root", "root@example.com", "ALL_PERMISSIONS")
	token, _ := env.tokenFor(t, "Ada", "ada@example.com")

	var resp handlers.JoinOpenResponse
	status := env.request(t, http.MethodPut, "/api/admin/settings/join-open", adminToken,
		handlers.JoinOpenRequest{Open: false}, &resp)
	if status != http.StatusOK || resp.Open {
		t.Fatalf("expected closed, got status %d, %+v", status, resp)
	}

	var settings handlers.SettingsResponse
	status = env.request(t, http.MethodGet, "/api/admin/settings", token, nil, &settings)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if settings.JoinOpen {
		t.Error("expected join_open to be false")
	}
}
