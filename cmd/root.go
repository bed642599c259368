package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"worldmandia-web/internal/config"
)

// Context carries state shared by all commands
type Context struct {
	Viper      *viper.Viper
	ConfigFile string
	Settings   *config.Settings
}

// RootCommand creates and returns the root command
func RootCommand() *cobra.Command {
	ctx := &Context{Viper: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "worldmandia-web",
		Short:         "Worldmandia web backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(ctx.Viper, ctx.ConfigFile)
			if err != nil {
				return err
			}
			ctx.Settings = settings
			return nil
		},
		// Serving is the default action
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx.Settings)
		},
	}

	setupFlags(rootCmd, ctx)

	rootCmd.AddCommand(
		serveCommand(ctx),
		prefsCommand(ctx),
	)

	return rootCmd
}

// setupFlags defines the persistent flags and binds them to config keys
func setupFlags(rootCmd *cobra.Command, ctx *Context) {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.ConfigFile, "config", "", "Path to a YAML config file")
	flags.String("host", "0.0.0.0", "Interface to listen on")
	flags.Int("port", 8080, "Port to listen on")
	flags.String("static-dir", "static/", "Directory holding the compiled UI bundle")
	flags.String("db", "./worldmandia.db", "Preference database path, empty for in-memory")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")

	bindings := map[string]string{
		"server.host":   "host",
		"server.port":   "port",
		"static.dir":    "static-dir",
		"database.path": "db",
		"log.level":     "log-level",
	}
	for key, flag := range bindings {
		// Lookup cannot fail for flags defined above
		_ = ctx.Viper.BindPFlag(key, flags.Lookup(flag))
	}
}
