package main

import (
	"context"
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
	"github.com/spf13/viper"

	"github.com/aryan0dhankhar/rentalregistry/internal/security/auth"
	"github.com/aryan0dhankhar/rentalregistry/internal/service"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the portfolio dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		var summary service.DashboardSummary
		if err := getJSON(cmd.Context(), "/api/dashboard", nil, &summary); err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), &summary)
		return nil
	},
}

var (
	contractStatus string
	contractSearch string
)

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "List contracts with their tenant and apartment",
	Long: `List contracts, active ones first.

Examples:
  registryctl contracts
  registryctl contracts --status terminating
  registryctl contracts -q schmidt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if contractStatus != "" {
			q.Set("status", contractStatus)
		}
		if contractSearch != "" {
			q.Set("q", contractSearch)
		}
		var contracts []*service.ContractDetails
		if err := getJSON(cmd.Context(), "/api/contracts", q, &contracts); err != nil {
			return err
		}
		printContracts(cmd.OutOrStdout(), contracts)
		return nil
	},
}

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin token signed with AUTH_JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		tm, err := auth.NewTokenManager(os.Getenv("AUTH_JWT_SECRET"), auth.DefaultIssuer)
		if err != nil {
			return fmt.Errorf("AUTH_JWT_SECRET must be set: %w", err)
		}
		token, err := tm.GenerateToken(tokenSubject, auth.RoleAdmin, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	contractsCmd.Flags().StringVarP(&contractStatus, "status", "s", "", "active, expired, terminating or all")
	contractsCmd.Flags().StringVarP(&contractSearch, "query", "q", "", "search tenant, apartment and property")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "registryctl", "token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}

func getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	u := strings.TrimRight(viper.GetString("server"), "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if token := viper.GetString("token"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = resp.Status
		}
		return fmt.Errorf("GET %s: %s", path, apiErr.Error)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func printSummary(out io.Writer, s *service.DashboardSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "As of\t%s\n", s.AsOf)
	fmt.Fprintf(w, "Properties\t%d\n", s.Properties)
	fmt.Fprintf(w, "Apartments\t%d (%d vacant)\n", s.Apartments, s.VacantApartments)
	fmt.Fprintf(w, "Tenants\t%d\n", s.Tenants)
	fmt.Fprintf(w, "Contracts\t%d (%d active)\n", s.Contracts, s.ActiveContracts)
	w.Flush()

	if len(s.ExpiringSoon) == 0 {
		return
	}
	fmt.Fprintf(out, "\nEnding within %d days:\n", s.WindowDays)
	printContracts(out, s.ExpiringSoon)
}

func printContracts(out io.Writer, contracts []*service.ContractDetails) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTENANT\tAPARTMENT\tSTART\tEND\tRENT")
	for _, c := range contracts {
		tenant, apartment, end := "-", "-", "open"
		if c.Tenant != nil {
			tenant = c.Tenant.FullName()
		}
		if c.Apartment != nil {
			apartment = c.Apartment.Number
			if c.Property != nil {
				apartment = c.Property.Name + " " + apartment
			}
		}
		if c.EndDate != nil {
			end = c.EndDate.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%.2f\n",
			c.ID, c.Status, tenant, apartment, c.StartDate, end, c.RentalPrice)
	}
	w.Flush()
}
