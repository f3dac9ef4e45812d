package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/wailingwell/wailingwell/internal/config"
	"github.com/wailingwell/wailingwell/internal/platform/logger"
	"github.com/wailingwell/wailingwell/internal/store/factory"
	"github.com/wailingwell/wailingwell/webservice"
)

var rootCmd = &cobra.Command{
	Use:   "wailingwell",
	Short: "Wailing Well personal journal server",
}

func main() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return webservice.Run()
		},
	}
	rootCmd.AddCommand(serveCmd)

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New("wailingwell-migrate")
			cfg, err := config.New()
			if err != nil {
				return err
			}
			// factory.NewStore migrates before returning the store
			st, err := factory.NewStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			log.Info().Str("driver", cfg.DBDriver).Msg("migrations applied")
			return nil
		},
	}
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
