package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"prayerchain/internal/auth"
	"prayerchain/internal/data"
	"prayerchain/internal/db"
	"prayerchain/internal/logger"
	"prayerchain/internal/mailer"
	"prayerchain/internal/middleware"
	"prayerchain/internal/reset"
)

func main() {
	// Read configuration from environment
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	zlog, err := logger.New(appEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		zlog.Fatal("MONGODB_URI must be set")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	jwtKeysEnv := os.Getenv("JWT_KEYS") // optional: format kid:secret,kid2:secret2
	jwtActiveKid := os.Getenv("JWT_ACTIVE_KID")
	if jwtKeysEnv == "" && jwtSecret == "" {
		zlog.Fatal("either JWT_SECRET or JWT_KEYS must be set")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%s", port)
	}
	from := os.Getenv("FROM")

	ctx := context.Background()

	// Initialize database
	dbClient, err := db.New(ctx, mongoURI)
	if err != nil {
		zlog.Fatal("failed to connect to DB", "err", err)
	}
	defer func() {
		_ = dbClient.Close(ctx)
	}()

	// Ensure indexes exist (the unique agent email backstop among them)
	if err := dbClient.CreateIndexes(ctx); err != nil {
		zlog.Fatal("failed to create indexes", "err", err)
	}

	agentsStore := data.NewAgentsStore(dbClient.AgentsCollection())

	// Initialize session manager (cookie valid for 24 hours). If JWT_KEYS
	// is supplied we parse keys so token rotation is possible; otherwise
	// fall back to the single JWT_SECRET value.
	var jwtMgr *auth.JWTManager
	if jwtKeysEnv != "" {
		keyMap := map[string]string{}
		for _, p := range strings.Split(jwtKeysEnv, ",") {
			if p == "" {
				continue
			}
			parts := strings.SplitN(p, ":", 2)
			if len(parts) != 2 {
				zlog.Fatal("invalid JWT_KEYS entry", "entry", p)
			}
			keyMap[parts[0]] = parts[1]
		}
		jwtMgr = auth.NewJWTManagerFromKeys(keyMap, jwtActiveKid, sessionDuration)
	} else {
		jwtMgr = auth.NewJWTManager(jwtSecret, sessionDuration)
	}

	// Select the mail transport once, per environment; everything else
	// sees only the Mailer interface.
	var mail mailer.Mailer
	switch appEnv {
	case "test":
		mail = mailer.NewMock()
	default:
		smtpHost := os.Getenv("SMTP_HOST")
		if smtpHost == "" {
			smtpHost = "localhost"
		}
		smtpPort := 25
		if v := os.Getenv("SMTP_PORT"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				smtpPort = n
			}
		}
		mail = mailer.NewSMTP(smtpHost, smtpPort, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"))
	}

	resetFlow := reset.NewFlow(agentsStore, mail, from, baseURL, zlog)

	// Build a rate limiter for the login and reset endpoints.
	// RATE_LIMIT_RPM controls requests per minute for these endpoints.
	rateRPM := 10
	if v := os.Getenv("RATE_LIMIT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateRPM = n
		}
	}
	limiterStore := middleware.NewLimiterStore(rateRPM, 3, 1*time.Minute)
	defer limiterStore.Stop()

	srv := newServer(agentsStore, resetFlow, jwtMgr, zlog, appEnv == "production")
	router := newRouter(srv, limiterStore)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("prayer-chain listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("HTTP server exit", "err", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zlog.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zlog.Error("shutdown failed", "err", err)
	}
}
