package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	ownerID string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fundledger-cli",
		Short: "FundLedger CLI tool",
		Long:  `A command line interface for interacting with the FundLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the FundLedger API")
	rootCmd.PersistentFlags().StringVar(&ownerID, "owner", "", "Owner ID to act as")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}
	accountsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Run: func(cmd *cobra.Command, args []string) {
			listAccounts()
		},
	})

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "conservation",
		Short: "Check the conservation invariant over all accounts",
		Run: func(cmd *cobra.Command, args []string) {
			checkConservation()
		},
	})

	schedulerCmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Scheduler operations",
	}
	schedulerCmd.AddCommand(&cobra.Command{
		Use:   "sweep",
		Short: "Execute all due recurring occurrences",
		Run: func(cmd *cobra.Command, args []string) {
			runSweep("/api/v1/scheduler/sweep")
		},
	})
	schedulerCmd.AddCommand(&cobra.Command{
		Use:   "interest",
		Short: "Accrue interest on all due savings partitions",
		Run: func(cmd *cobra.Command, args []string) {
			runSweep("/api/v1/scheduler/interest")
		},
	})

	rootCmd.AddCommand(accountsCmd, ledgerCmd, schedulerCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func doRequest(method, path string) []byte {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(method, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if ownerID != "" {
		req.Header.Set("X-Owner-ID", ownerID)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}

func listAccounts() {
	body := doRequest(http.MethodGet, "/api/v1/accounts")

	var result struct {
		Accounts []struct {
			ID             string `json:"id"`
			Name           string `json:"name"`
			Type           string `json:"type"`
			Currency       string `json:"currency"`
			CurrentBalance string `json:"current_balance"`
		} `json:"accounts"`
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-28s %-20s %-12s %-4s %s\n", "ID", "NAME", "TYPE", "CUR", "BALANCE")
	for _, a := range result.Accounts {
		fmt.Printf("%-28s %-20s %-12s %-4s %s\n",
			a.ID, truncate(a.Name, 20), a.Type, a.Currency, a.CurrentBalance)
	}
	fmt.Printf("Total: %d\n", result.Total)
}

func checkConservation() {
	body := doRequest(http.MethodGet, "/api/v1/ledger/conservation")

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && !consistent {
		fmt.Printf("Conservation check FAILED\n")
		printJSON(result)
		os.Exit(1)
	}

	fmt.Printf("Conservation check PASSED\n")
	printJSON(result)
}

func runSweep(path string) {
	body := doRequest(http.MethodPost, path)

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return strings.TrimSpace(s[:max-3]) + "..."
}
