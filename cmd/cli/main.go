package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "coinledger-cli",
		Short: "Coin ledger CLI tool",
		Long:  `A command line interface for inspecting coin accounts, reservations and the ledger.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the coin ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		balanceCmd(),
		entriesCmd(),
		reservationsCmd(),
		verifyCmd(),
		pricingCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show the current coin balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet(fmt.Sprintf("/api/v1/accounts/%s/balance", args[0]))
			if err != nil {
				return err
			}
			return printJSON(json.RawMessage(body))
		},
	}
}

func entriesCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "entries <account-id>",
		Short: "List ledger entries for an account, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet(fmt.Sprintf("/api/v1/accounts/%s/entries?limit=%d&offset=%d", args[0], limit, offset))
			if err != nil {
				return err
			}

			var resp struct {
				Entries []struct {
					ID           string `json:"id"`
					Amount       int64  `json:"amount"`
					Kind         string `json:"kind"`
					Description  string `json:"description"`
					BalanceAfter int64  `json:"balance_after"`
				} `json:"entries"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("%-28s %8s %-10s %10s  %s\n", "ID", "AMOUNT", "KIND", "BALANCE", "DESCRIPTION")
			for _, e := range resp.Entries {
				fmt.Printf("%-28s %8d %-10s %10d  %s\n", e.ID, e.Amount, e.Kind, e.BalanceAfter, truncate(e.Description, 40))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of entries to skip")
	return cmd
}

func reservationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reservations <account-id>",
		Short: "List pending reservations for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet(fmt.Sprintf("/api/v1/accounts/%s/reservations", args[0]))
			if err != nil {
				return err
			}
			return printJSON(json.RawMessage(body))
		},
	}
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <account-id>",
		Short: "Replay the account's ledger and report consistency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet(fmt.Sprintf("/api/v1/accounts/%s/ledger/verify", args[0]))
			if err != nil {
				return err
			}

			var report struct {
				Consistent      bool   `json:"consistent"`
				Entries         int64  `json:"entries"`
				ComputedBalance int64  `json:"computed_balance"`
				StoredBalance   int64  `json:"stored_balance"`
				FirstBadEntryID string `json:"first_bad_entry_id"`
			}
			if err := json.Unmarshal(body, &report); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if report.Consistent {
				fmt.Printf("Ledger consistent: %d entries, balance %d\n", report.Entries, report.StoredBalance)
				return nil
			}

			fmt.Printf("Ledger INCONSISTENT: computed %d, stored %d\n", report.ComputedBalance, report.StoredBalance)
			if report.FirstBadEntryID != "" {
				fmt.Printf("First bad entry: %s\n", report.FirstBadEntryID)
			}
			os.Exit(1)
			return nil
		},
	}
}

func pricingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pricing",
		Short: "Show the coin price book",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet("/api/v1/pricing")
			if err != nil {
				return err
			}
			return printJSON(json.RawMessage(body))
		},
	}
}

func apiGet(path string) ([]byte, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
