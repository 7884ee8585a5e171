package commands

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/klabast/wb-services/svoz-odpadu/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lookup web service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", app.DefaultPort, "Port to listen on")
	serveCmd.Flags().String("data", app.DefaultDataFile, "Path to the ruleset JSON file")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("port") {
		app.Settings.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("data") {
		app.Settings.DataFile, _ = cmd.Flags().GetString("data")
	}

	if err := app.Settings.LoadAdminCredentials(); err != nil {
		return fmt.Errorf("failed to load auth credentials: %w", err)
	}

	if err := app.LoadRuleset(); err != nil {
		return fmt.Errorf("failed to load ruleset: %w", err)
	}

	if err := app.InitCache(context.Background()); err != nil {
		return err
	}

	mux := NewMux()

	log.Printf("Starting svoz-odpadu on http://localhost:%d", app.Settings.Port)
	log.Printf("Ruleset: %s", app.Settings.DataFile)
	return http.ListenAndServe(fmt.Sprintf(":%d", app.Settings.Port), mux)
}

// NewMux wires the HTTP routes
func NewMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", app.ServeIndex)
	mux.HandleFunc("/api/config", app.GetConfig)
	mux.HandleFunc("/api/lookup", app.HandleLookup)
	mux.HandleFunc("/api/download", app.HandleDownload)
	mux.HandleFunc("/api/subscribe/", app.HandleSubscribe)

	// Admin routes (protected with Basic Auth)
	mux.HandleFunc("/api/admin/reload", app.RequireAuth(app.HandleReload))

	if app.StaticFiles != nil {
		mux.Handle("/static/", http.FileServer(http.FS(app.StaticFiles)))
	}
	return mux
}
