package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/racenight/internal/auth"
	"github.com/abrezinsky/racenight/internal/handlers"
	"github.com/abrezinsky/racenight/internal/logger"
	"github.com/abrezinsky/racenight/internal/repository"
	"github.com/abrezinsky/racenight/internal/services"
	"github.com/abrezinsky/racenight/internal/websocket"
	"github.com/abrezinsky/racenight/pkg/authsvc"
)

// App holds all application dependencies
type App struct {
	log      logger.Logger
	handlers *handlers.Handlers
	repo     *repository.Repository
}

// New creates and initializes a new application instance
func New(log logger.Logger, dbPath string, verifier authsvc.Client, tokenAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(dbPath)
	if err != nil {
		return nil, err
	}

	// Initialize services
	raceService := services.NewRaceService(log, repo)
	settingsService := services.NewSettingsService(log, repo)
	partyService := services.NewPartyService(log, repo, raceService, settingsService)
	membershipService := services.NewMembershipService(log, repo)
	scoreService := services.NewScoreService(log, repo, raceService)
	attributionService := services.NewAttributionService(log, repo, raceService)
	catalogService := services.NewCatalogService(log, repo)
	userService := services.NewUserService(log, repo)

	// Initialize WebSocket hub and wire it into the mutating services
	hub := websocket.New(log, settingsService)
	hub.Start()
	partyService.SetBroadcaster(hub)
	membershipService.SetBroadcaster(hub)
	raceService.SetBroadcaster(hub)
	scoreService.SetBroadcaster(hub)
	attributionService.SetBroadcaster(hub)

	h := handlers.New(
		partyService,
		membershipService,
		raceService,
		scoreService,
		attributionService,
		catalogService,
		userService,
		settingsService,
		verifier,
		tokenAuth,
		hub,
		log,
	)

	return &App{
		log:      log,
		handlers: h,
		repo:     repo,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close releases app resources
func (a *App) Close() error {
	return a.repo.Close()
}

// Run starts the HTTP server
func (a *App) Run(addr string) error {
	// Set default base URL if not configured, using detected LAN IP.
	// QR codes pointing at localhost are useless on phones.
	ip := getPreferredIP(realNetworkProvider{})
	baseURL := fmt.Sprintf("http://%s%s", ip, addr)
	a.setDefaultBaseURL(baseURL)

	a.log.Info("Server starting", "url", baseURL)
	return http.ListenAndServe(addr, a.Router())
}

// setDefaultBaseURL sets the base URL setting if not already configured
// or if current value uses localhost
func (a *App) setDefaultBaseURL(baseURL string) {
	ctx := context.Background()
	existing, _ := a.repo.GetSetting(ctx, services.SettingBaseURL)

	needsUpdate := existing == "" || strings.Contains(existing, "localhost")
	if needsUpdate {
		if err := a.repo.SetSetting(ctx, services.SettingBaseURL, baseURL); err != nil {
			a.log.Warn("Failed to set default base_url", "error", err)
		} else {
			a.log.Info("Default base URL set", "url", baseURL)
		}
	}
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IP address for LAN access.
// Prefers private network addresses (192.168.x.x, 10.x.x.x, 172.16-31.x.x).
// Falls back to localhost if no suitable address is found.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP

	for _, iface := range ifaces {
		// Skip down, loopback, and point-to-point interfaces
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			// Only consider IPv4 addresses
			if ip == nil || ip.To4() == nil {
				continue
			}

			if ip.IsLoopback() {
				continue
			}

			candidates = append(candidates, ip)
		}
	}

	// Prefer private network addresses
	for _, ip := range candidates {
		ipStr := ip.String()
		if strings.HasPrefix(ipStr, "192.168.") ||
			strings.HasPrefix(ipStr, "10.") ||
			isPrivate172(ip) {
			return ipStr
		}
	}

	// Fall back to any non-loopback if no private address found
	if len(candidates) > 0 {
		return candidates[0].String()
	}

	return "localhost"
}

// isPrivate172 checks if IP is in 172.16.0.0/12 range
func isPrivate172(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31
	}
	return false
}
