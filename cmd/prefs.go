package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"worldmandia-web/internal/database"
	"worldmandia-web/internal/models"
	"worldmandia-web/internal/preferences"
)

var errStoreUnavailable = errors.New("preference store is unavailable")

type prefsOp func(ctx context.Context, store *preferences.Store) (models.ThemePreference, error)

func prefsCommand(ctx *Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect or change the stored theme preference",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the stored preference",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPrefs(cmd, ctx, func(c context.Context, store *preferences.Store) (models.ThemePreference, error) {
					return store.Get(c)
				})
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Flip the stored preference",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPrefs(cmd, ctx, func(c context.Context, store *preferences.Store) (models.ThemePreference, error) {
					return store.Update(c, models.ThemePreference.Toggled), nil
				})
			},
		},
		setCommand(ctx),
		dumpCommand(ctx),
	)

	return cmd
}

func setCommand(ctx *Context) *cobra.Command {
	var dark bool
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the stored preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrefs(cmd, ctx, func(c context.Context, store *preferences.Store) (models.ThemePreference, error) {
				return store.Update(c, func(models.ThemePreference) models.ThemePreference {
					return models.ThemePreference{IsDarkTheme: dark}
				}), nil
			})
		},
	}
	cmd.Flags().BoolVar(&dark, "dark", false, "Store the dark theme")
	return cmd
}

func dumpCommand(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print every stored key and its raw value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(ctx.Settings)
			if err != nil {
				return fmt.Errorf("%w: %w", errStoreUnavailable, err)
			}
			defer closeDatabase(db)

			c := cmd.Context()
			if c == nil {
				c = context.Background()
			}
			entries, err := database.NewKVRepo(db).GetAll(c)
			if err != nil {
				return fmt.Errorf("failed to read stored entries: %w", err)
			}

			// Map keys are marshaled in sorted order
			out, err := json.Marshal(entries)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}

// runPrefs opens the configured store, applies op and prints the resulting
// preference as JSON. A store that fell back to memory is an error here since
// nothing would be persisted.
func runPrefs(cmd *cobra.Command, ctx *Context, op prefsOp) error {
	store, closeStore, persisted := openStore(ctx.Settings)
	defer closeStore()
	if !persisted {
		return errStoreUnavailable
	}

	c := cmd.Context()
	if c == nil {
		c = context.Background()
	}
	pref, err := op(c, store)
	if err != nil {
		return err
	}
	if store.Degraded() {
		return errStoreUnavailable
	}

	out, err := json.Marshal(pref)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
