package cmd

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"worldmandia-web/internal/api"
	"worldmandia-web/internal/config"
	"worldmandia-web/internal/database"
	"worldmandia-web/internal/oauth"
	"worldmandia-web/internal/preferences"
	"worldmandia-web/internal/server"
	"worldmandia-web/internal/showcase"
	"worldmandia-web/internal/theme"
)

const shutdownTimeout = 10 * time.Second

func serveCommand(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the UI bundle and the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx.Settings)
		},
	}
}

var errNoDatabase = errors.New("no database path configured")

// openDatabase opens the configured preference database
func openDatabase(settings *config.Settings) (*sql.DB, error) {
	dbPath := settings.Database.Path
	if dbPath == "" {
		return nil, errNoDatabase
	}

	// Ensure absolute path
	if !filepath.IsAbs(dbPath) {
		if abs, err := filepath.Abs(dbPath); err == nil {
			dbPath = abs
		}
	}

	log.Printf("Initializing database at %s", dbPath)
	return database.Open(database.Config{Path: dbPath})
}

// openStore opens the preference store. A database that cannot be opened leaves
// the store in memory rather than failing startup; persisted reports which
// one was used.
func openStore(settings *config.Settings) (store *preferences.Store, closeFn func(), persisted bool) {
	db, err := openDatabase(settings)
	if err != nil {
		log.Printf("Warning: %v; preferences are kept in memory", err)
		return preferences.NewStore(nil, settings.Preferences.Key), func() {}, false
	}

	backend := preferences.NewSQLiteBackend(database.NewKVRepo(db))
	return preferences.NewStore(backend, settings.Preferences.Key), func() { closeDatabase(db) }, true
}

func closeDatabase(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

func runServe(parent context.Context, settings *config.Settings) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, _ := openStore(settings)
	defer closeStore()

	session := theme.NewSession(store)
	defer session.Wait()
	state := session.Load(ctx)
	log.Printf("Theme preference %q loaded: %s", store.Key(), state.ColorScheme)

	discord, err := oauth.NewDiscordClient(settings.Auth.Discord)
	if errors.Is(err, oauth.ErrNotConfigured) {
		discord = nil
	} else if err != nil {
		return err
	}

	handlers := api.NewHandlers(store, session, showcase.NewCatalog(nil), discord)
	srv, err := server.New(settings, handlers)
	if err != nil {
		return err
	}

	ln, err := srv.Listen()
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Printf("Starting worldmandia-web on %s", settings.Address())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
