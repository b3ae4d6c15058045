// Package main is the command-line sync client: it authenticates, loads the
// closet state and prints the view model as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"closet-sync/internal/auth"
	"closet-sync/internal/config"
	"closet-sync/internal/ingestion"
	"closet-sync/internal/localstore"
	"closet-sync/internal/logger"
	"closet-sync/internal/notify"
	"closet-sync/internal/orchestrator"
	"closet-sync/internal/outfits"
	"closet-sync/internal/remote"
	"closet-sync/internal/supabase"

	"go.uber.org/zap"
)

var (
	email     string
	password  string
	signUp    bool
	token     string
	devUser   string
	track     bool
	tryOn     string
	save      bool
	favorite  bool
	recurring bool
	message   string
	verbose   bool
)

func init() {
	flag.StringVar(&email, "email", "", "Supabase account email")
	flag.StringVar(&password, "password", "", "Supabase account password")
	flag.BoolVar(&signUp, "signup", false, "Create the account before signing in")
	flag.StringVar(&token, "token", "", "Use this access token (overrides CLOSET_API_TOKEN)")
	flag.StringVar(&devUser, "dev-user", "", "Ask a development backend to mint a token for this user id")
	flag.BoolVar(&track, "track", false, "Wait for uploaded garments to finish processing")
	flag.StringVar(&tryOn, "try-on", "", "Try on a top and bottom given as <topID>,<bottomID>")
	flag.BoolVar(&save, "save", false, "Save the last try-on as an outfit")
	flag.BoolVar(&favorite, "favorite", false, "Mark the saved outfit as a favorite")
	flag.BoolVar(&recurring, "recurring", false, "Mark the saved outfit as recurring")
	flag.StringVar(&message, "chat", "", "Send a message to the stylist")
	flag.BoolVar(&verbose, "v", false, "Enable debug logging")
}

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	if verbose {
		logCfg.Level = "debug"
	}
	log := logger.New(logCfg)
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("sync failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	tokens, err := tokenSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	userID, err := auth.UserID(ctx, tokens)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var keyer outfits.ImageKeyer
	if cfg.HasSupabase() {
		storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
		if err != nil {
			return err
		}
		keyer = storageClient
	}

	orch := orchestrator.New(orchestrator.Deps{
		Remote:        remote.NewClient(cfg.APIBaseURL, tokens, cfg.RequestTimeout, log),
		Store:         store,
		UserID:        userID,
		Keyer:         keyer,
		Notifications: notify.NewCenter(cfg.NotificationTTL),
		Policy: ingestion.Policy{
			Interval:    cfg.UploadPollInterval,
			MaxAttempts: cfg.UploadPollMaxAttempts,
			HardTimeout: cfg.UploadPollHardTimeout,
		},
		TryOnCost: cfg.TryOnCost,
		Log:       log,
	})
	defer orch.Close()

	if err := orch.Bootstrap(ctx); err != nil {
		log.Warn("bootstrap incomplete", zap.Error(err))
	}
	if _, err := orch.ConsumeRefreshFlag(ctx); err != nil {
		log.Warn("refresh flag", zap.Error(err))
	}

	if track && orch.TrackUploads(ctx) {
		select {
		case <-orch.Tracker().Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if tryOn != "" {
		top, bottom, ok := strings.Cut(tryOn, ",")
		if !ok {
			return errors.New("-try-on expects <topID>,<bottomID>")
		}
		if _, err := orch.TryOn(ctx, strings.TrimSpace(top), strings.TrimSpace(bottom)); err != nil {
			log.Warn("try-on failed", zap.Error(err))
		}
	}

	if save {
		if _, err := orch.SaveTryOn(ctx, outfits.Flags{Favorite: favorite, Recurring: recurring}); err != nil {
			log.Warn("save failed", zap.Error(err))
		}
	}

	if message != "" {
		session := orch.Chat().Current()
		if err := orch.Chat().SendMessage(ctx, session.ID, message); err != nil {
			log.Warn("chat failed", zap.Error(err))
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(orch.View())
}

// tokenSource picks the credential: an explicit token, a Supabase session, or
// a token minted by a development backend.
func tokenSource(ctx context.Context, cfg *config.Config, log *zap.Logger) (auth.TokenSource, error) {
	switch {
	case token != "":
		return auth.StaticToken(token), nil
	case cfg.APIToken != "" && email == "" && devUser == "":
		return auth.StaticToken(cfg.APIToken), nil
	case email != "":
		if !cfg.HasSupabase() {
			return nil, errors.New("SUPABASE_URL and SUPABASE_PUBLISHABLE_KEY are required to sign in")
		}
		client, err := supabase.NewAuthClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, log)
		if err != nil {
			return nil, err
		}
		if signUp {
			if err := client.SignUp(ctx, email, password); err != nil {
				return nil, err
			}
		}
		if err := client.SignIn(ctx, email, password); err != nil {
			return nil, err
		}
		return client, nil
	case devUser != "":
		minted, err := remote.NewClient(cfg.APIBaseURL, nil, cfg.RequestTimeout, log).DevToken(ctx, devUser)
		if err != nil {
			return nil, fmt.Errorf("failed to mint development token: %w", err)
		}
		return auth.StaticToken(minted), nil
	}
	return nil, errors.New("no credentials: pass -token, -email/-password or -dev-user")
}

// openStore uses Redis for the client-local store when REDIS_URL is set so
// state survives between runs.
func openStore(cfg *config.Config) (localstore.Store, func(), error) {
	if cfg.RedisURL == "" {
		return localstore.NewMemoryStore(), func() {}, nil
	}
	store, err := localstore.NewRedisStore(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}
