package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mk9397/Expense-Splitter/internal/adapter/codec"
	"github.com/Mk9397/Expense-Splitter/internal/adapter/http/dto"
	"github.com/Mk9397/Expense-Splitter/internal/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	baseURL string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "splitter",
		Short:         "Trip expense splitter CLI",
		Long:          `A command line interface for the trip ledger API, with offline settlement of exported trips.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the splitter API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		newTripsCmd(opts),
		newBalancesCmd(opts),
		newSettleCmd(opts),
		newLedgerCmd(opts),
	)
	return rootCmd
}

func newTripsCmd(opts *options) *cobra.Command {
	tripsCmd := &cobra.Command{
		Use:   "trips",
		Short: "Trip operations",
	}

	var query string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/trips/"
			if query != "" {
				path += "?q=" + url.QueryEscape(query)
			}

			var resp dto.ListTripsResponse
			if err := opts.client().get(path, &resp); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCURRENCY\tPEOPLE\tTOTAL")
			for _, t := range resp.Trips {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					t.ID, truncate(t.Name, 30), t.Currency, len(t.Participants), t.Total.StringFixed(domain.CurrencyExponent(t.Currency)))
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive name filter")

	var currency string
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.CreateTripRequest{Name: args[0], Currency: currency}

			var resp dto.TripResponse
			if err := opts.client().post("/api/v1/trips/", req, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created trip %s (%s, %s)\n", resp.Name, resp.ID, resp.Currency)
			return nil
		},
	}
	createCmd.Flags().StringVar(&currency, "currency", "", "Currency code, defaults to the server default")

	tripsCmd.AddCommand(listCmd, createCmd)
	return tripsCmd
}

func newBalancesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "balances TRIP_ID",
		Short: "Show what everyone paid and owes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.BalancesResponse
			if err := opts.client().get("/api/v1/trips/"+url.PathEscape(args[0])+"/balances", &resp); err != nil {
				return err
			}

			exp := domain.CurrencyExponent(resp.Currency)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPAID\tSHARE\tBALANCE")
			for _, b := range resp.Balances {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Name,
					b.TotalPaid.StringFixed(exp), b.ShouldPay.StringFixed(exp), b.Balance.StringFixed(exp))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printWarnings(cmd.OutOrStdout(), resp.Warnings)
			return nil
		},
	}
}

func newSettleCmd(opts *options) *cobra.Command {
	var file, tripID string

	cmd := &cobra.Command{
		Use:   "settle [TRIP_ID]",
		Short: "Suggest payments that settle a trip",
		Long: `Suggest payments that settle a trip.

With --file the trips are read from an exported JSON array and settled locally,
without contacting the API.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				tripID = args[0]
			}
			if file != "" {
				return settleFile(cmd.OutOrStdout(), file, tripID)
			}
			if tripID == "" {
				return fmt.Errorf("a trip id is required unless --file is given")
			}

			var resp dto.SettlementsResponse
			if err := opts.client().get("/api/v1/trips/"+url.PathEscape(tripID)+"/settlements", &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(resp.Settlements) == 0 {
				fmt.Fprintln(out, "Everyone is settled up.")
			}
			exp := domain.CurrencyExponent(resp.Currency)
			for _, s := range resp.Settlements {
				fmt.Fprintf(out, "%s pays %s %s %s\n", s.FromName, s.ToName, s.Amount.StringFixed(exp), resp.Currency)
			}
			printWarnings(out, resp.Warnings)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Settle trips from an exported JSON file")
	cmd.Flags().StringVar(&tripID, "trip", "", "Trip id within the file; all trips when empty")
	return cmd
}

// settleFile settles trips from an export without a running server.
func settleFile(out io.Writer, path, tripID string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	trips, err := codec.DecodeTrips(data)
	if err != nil {
		return err
	}

	matched := 0
	for _, trip := range trips {
		if tripID != "" && trip.ID != tripID {
			continue
		}
		matched++

		_, settlements, warnings := domain.SettleTrip(trip)
		fmt.Fprintf(out, "%s (%s)\n", trip.Name, trip.ID)
		if len(settlements) == 0 {
			fmt.Fprintln(out, "  Everyone is settled up.")
		}
		for _, s := range settlements {
			fmt.Fprintf(out, "  %s pays %s %s %s\n", s.FromName, s.ToName, s.Amount.Format(trip.Currency), trip.Currency)
		}
		printWarnings(out, dto.WarningsFromDomain(warnings))
	}

	if tripID != "" && matched == 0 {
		return fmt.Errorf("trip %s not found in %s", tripID, path)
	}
	return nil
}

func newLedgerCmd(opts *options) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency TRIP_ID",
		Short: "Check that a trip's balances sum to zero within rounding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ConsistencyResponse
			if err := opts.client().get("/api/v1/trips/"+url.PathEscape(args[0])+"/consistency", &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !resp.Consistent {
				fmt.Fprintf(out, "Consistency check FAILED\nSum: %s (allowed: %s)\n", resp.Sum, resp.Bound)
				return fmt.Errorf("trip %s is inconsistent", args[0])
			}
			fmt.Fprintf(out, "Consistency check PASSED\nSum: %s (allowed: %s)\n", resp.Sum, resp.Bound)
			printWarnings(out, resp.Warnings)
			return nil
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	return ledgerCmd
}

func printWarnings(out io.Writer, warnings []dto.WarningResponse) {
	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s %s on expense %s\n", strings.ReplaceAll(w.Kind, "_", " "), w.Reference, w.ExpenseID)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func (o *options) client() *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(o.baseURL, "/"),
		http:    &http.Client{Timeout: o.timeout},
	}
}

func (c *apiClient) get(path string, out any) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return decodeResponse(resp, out)
}

func (c *apiClient) post(path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
			}
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
