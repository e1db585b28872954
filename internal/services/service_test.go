package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/logger"
	"github.com/abrezinsky/racenight/internal/models"
	"github.com/abrezinsky/racenight/internal/repository"
	"github.com/abrezinsky/racenight/internal/services"
	"github.com/abrezinsky/racenight/internal/testutil"
)

// testDay is the fixed "today" every service clock is pinned to.
var testDay = time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testDay }

// testServices bundles the full service stack over one in-memory
// database, with clocks pinned to testDay.
type testServices struct {
	repo        *repository.Repository
	races       *services.RaceService
	parties     *services.PartyService
	membership  *services.MembershipService
	scores      *services.ScoreService
	attribution *services.AttributionService
	settings    *services.SettingsService
	catalog     *services.CatalogService
	users       *services.UserService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	log := logger.New()

	races := services.NewRaceService(log, repo)
	races.SetNowFunc(fixedNow)

	settings := services.NewSettingsService(log, repo)

	parties := services.NewPartyService(log, repo, races, settings)
	parties.SetNowFunc(fixedNow)

	scores := services.NewScoreService(log, repo, races)
	scores.SetNowFunc(fixedNow)

	attribution := services.NewAttributionService(log, repo, races)
	attribution.SetNowFunc(fixedNow)

	return &testServices{
		repo:        repo,
		races:       races,
		parties:     parties,
		membership:  services.NewMembershipService(log, repo),
		scores:      scores,
		attribution: attribution,
		settings:    settings,
		catalog:     services.NewCatalogService(log, repo),
		users:       services.NewUserService(log, repo),
	}
}

func principal(id int64, perms ...string) *authz.Principal {
	return &authz.Principal{ID: id, Role: "user", Permissions: perms}
}

func admin(id int64) *authz.Principal {
	return &authz.Principal{ID: id, Role: "admin", Permissions: []string{string(authz.PermissionAll)}}
}

// createTodayParty inserts a party scheduled for testDay with hostID as
// HOST and returns it.
func createTodayParty(t *testing.T, svc *testServices, hostID int64) *models.Party {
	t.Helper()
	ctx := context.Background()
	id, err := svc.repo.CreateParty(ctx, testDay.Format(models.DateLayout), "test-join-code", hostID)
	if err != nil {
		t.Fatalf("CreateParty failed: %v", err)
	}
	party, err := svc.repo.GetParty(ctx, id)
	if err != nil {
		t.Fatalf("GetParty failed: %v", err)
	}
	return party
}

// createTodayRace creates a party for testDay plus a PENDING race under
// it, acting as the host.
func createTodayRace(t *testing.T, svc *testServices, hostID int64) (*models.Party, *models.Race) {
	t.Helper()
	party := createTodayParty(t, svc, hostID)
	race, err := svc.races.CreateRace(context.Background(), principal(hostID), party.ID)
	if err != nil {
		t.Fatalf("CreateRace failed: %v", err)
	}
	return party, race
}
