// Command erplctl is a small demo CLI wrapping the erpl package's
// odata_read/odata_attach/http_*/odp operations for manual testing,
// grounded on oisee-odata_mcp_go and vinchacho-odata_mcp_go's
// cobra-plus-godotenv command trees (SPEC_FULL.md §6.1). It is not part
// of the host table-function contract; it exists to exercise the
// library from a terminal.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/erpl-go/erpl/internal/auth"
)

var (
	flagUser    string
	flagPass    string
	flagBearer  string
	flagSecret  string
	flagTimeout time.Duration
	flagTiming  bool
)

var rootCmd = &cobra.Command{
	Use:   "erplctl",
	Short: "erpl command-line client for OData read/attach, ODP subscriptions and generic HTTP calls",
	Long: `erplctl is a demo client for the erpl OData v2/v4 stack.

Examples:
  erplctl read https://services.odata.org/V2/Northwind/Northwind.svc/Products --top 5
  erplctl attach https://services.odata.org/V2/Northwind/Northwind.svc/
  erplctl metadata https://services.odata.org/V2/Northwind/Northwind.svc/
  erplctl odp subscribe https://sap.example.com/sap/opu/odata/sap/SVC/EntityOfSales Sales
  erplctl http get https://example.com/api/status`,
}

func init() {
	godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&flagUser, "user", os.Getenv("ERPL_USERNAME"), "basic auth username (env ERPL_USERNAME)")
	rootCmd.PersistentFlags().StringVar(&flagPass, "password", os.Getenv("ERPL_PASSWORD"), "basic auth password (env ERPL_PASSWORD)")
	rootCmd.PersistentFlags().StringVar(&flagBearer, "bearer", os.Getenv("ERPL_BEARER_TOKEN"), "bearer token (env ERPL_BEARER_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&flagSecret, "secret", "", "named secret to resolve auth from, instead of --user/--password/--bearer")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "per-call timeout")
	rootCmd.PersistentFlags().BoolVar(&flagTiming, "timing", false, "print a server-timing style breakdown after the call")

	rootCmd.AddCommand(readCmd, attachCmd, metadataCmd, odpCmd, httpCmd)
}

// authOverride builds an auth.Override from the persistent --user/
// --password/--bearer flags; empty when neither is set, letting --secret
// take over in the resolver.
func authOverride() auth.Override {
	switch {
	case flagBearer != "":
		return auth.Override{Present: true, AuthType: "bearer", Value: flagBearer}
	case flagUser != "":
		return auth.Override{Present: true, AuthType: "basic", Value: flagUser + ":" + flagPass}
	default:
		return auth.Override{}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "erplctl:", err)
		os.Exit(1)
	}
}
