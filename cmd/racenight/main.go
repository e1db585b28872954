package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/abrezinsky/racenight/internal/app"
	"github.com/abrezinsky/racenight/internal/auth"
	"github.com/abrezinsky/racenight/internal/logger"
	"github.com/abrezinsky/racenight/pkg/authsvc"
)

var (
	version = "dev"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "racenight.db", "SQLite database path")
	authURL := flag.String("auth-url", "", "Base URL of the credential verification service")
	jwtSecret := flag.String("jwt-secret", "", "Token signing secret (auto-generated if not set)")
	logLevel := flag.String("loglevel", "info", "Log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `RaceNight - Racing Event Management Server

Usage:
  racenight [options]

Options:
  -port int        HTTP server port (default 8080)
  -db string       SQLite database path (default "racenight.db")
  -auth-url str    Base URL of the credential verification service
  -jwt-secret str  Token signing secret (auto-generated if not set)
  -loglevel str    Log level: debug, info, warn, error (default "info")
  -version         Show version and exit
  -help            Show this help message

Examples:
  racenight                                  # Run on port 8080 with racenight.db
  racenight -port 80 -db /data/races.db      # Production example
  racenight -auth-url http://auth.lan:9000   # Verify logins against a real service

Without -auth-url logins are verified against a built-in mock that
accepts any credentials. Use it for local development only.

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("racenight %s\n", version)
		os.Exit(0)
	}

	appLog := logger.NewWithLevel(logger.ParseLevel(*logLevel))

	secret := *jwtSecret
	if secret == "" {
		secret = os.Getenv("RACENIGHT_JWT_SECRET")
	}
	if secret == "" {
		secret = auth.GenerateSecret()
		appLog.Warn("No signing secret configured, generated one; sessions will not survive a restart")
	}
	tokenAuth := auth.New(secret)

	var verifier authsvc.Client
	if *authURL != "" {
		verifier = authsvc.NewHTTPClient(*authURL, appLog)
	} else {
		appLog.Warn("No -auth-url given, using the mock verifier; any credentials are accepted")
		verifier = authsvc.NewMockClient(authsvc.WithAcceptAll())
	}

	a, err := app.New(appLog, *dbPath, verifier, tokenAuth)
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}
	defer a.Close()

	addr := fmt.Sprintf(":%d", *port)
	if err := a.Run(addr); err != nil {
		log.Fatal(err)
	}
}
