package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klabast/wb-services/svoz-odpadu/internal/app"
	"github.com/klabast/wb-services/svoz-odpadu/internal/schedule"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <street or house number>",
	Short: "Print the next collection dates for an address",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().String("data", app.DefaultDataFile, "Path to the ruleset JSON file")
	lookupCmd.Flags().Int("dates", 0, "Dates per waste stream (default from config)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("data") {
		app.Settings.DataFile, _ = cmd.Flags().GetString("data")
	}
	if n, _ := cmd.Flags().GetInt("dates"); n > 0 {
		app.Settings.DatesPerStream = n
	}

	store, err := schedule.LoadRuleStore(app.Settings.DataFile)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results := schedule.NewResolver(store, app.Settings.Policy()).Resolve(query, app.Now())
	printResults(cmd.OutOrStdout(), store, results)
	return nil
}

func printResults(w io.Writer, store *schedule.RuleStore, results []schedule.StreetResult) {
	if store.Validity != "" {
		fmt.Fprintf(w, "Platnost: %s\n\n", store.Validity)
	}
	if len(results) == 0 {
		fmt.Fprintln(w, "Nenašli jsme žádnou ulici ani číslo popisné odpovídající zadání.")
		return
	}

	for _, r := range results {
		fmt.Fprintf(w, "%s\n", r.Key)
		for _, p := range r.Pickups {
			fmt.Fprintf(w, "  %s (%s, %s)\n", p.Stream, p.Weekday, p.Area)
			if len(p.Dates) == 0 {
				fmt.Fprintln(w, "    Termíny nenalezeny")
			}
			for _, d := range p.Dates {
				fmt.Fprintf(w, "    %s\n", schedule.FormatDate(d))
			}
			if p.Description != "" {
				fmt.Fprintf(w, "    %s\n", p.Description)
			}
		}
		fmt.Fprintln(w)
	}
}
