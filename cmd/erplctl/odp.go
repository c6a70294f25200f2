package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/erpl-go/erpl/internal/odp"
)

var (
	odpDSN           string
	odpForceFullLoad bool
	odpDeltaToken    string
)

var odpCmd = &cobra.Command{
	Use:   "odp",
	Short: "manage ODP change-data-capture subscriptions",
}

func init() {
	odpCmd.PersistentFlags().StringVar(&odpDSN, "dsn", "", "subscription-store DSN: \"sqlite::memory:\" for in-memory sqlite (default); any other value is opened as a postgres DSN")

	subscribe := &cobra.Command{
		Use:   "subscribe <url> <entity-set>",
		Short: "open or resume a subscription, entering INITIAL_LOAD or DELTA_FETCH",
		Args:  cobra.ExactArgs(2),
		RunE:  runOdpSubscribe,
	}
	subscribe.Flags().BoolVar(&odpForceFullLoad, "force-full-load", false, "terminate any existing active subscription and start a fresh initial load")
	subscribe.Flags().StringVar(&odpDeltaToken, "import-delta-token", "", "import a delta token from another client rather than running an initial load")

	delta := &cobra.Command{
		Use:   "delta <url> <entity-set> <token>",
		Short: "record a successful delta fetch, advancing the stored delta token",
		Args:  cobra.ExactArgs(3),
		RunE:  runOdpDelta,
	}

	terminate := &cobra.Command{
		Use:   "terminate <url> <entity-set>",
		Short: "terminate the active subscription for a service/entity-set pair",
		Args:  cobra.ExactArgs(2),
		RunE:  runOdpTerminate,
	}

	odpCmd.AddCommand(subscribe, delta, terminate)
}

func openOdpRepository(ctx context.Context) (*odp.Repository, error) {
	dsn := odpDSN
	if dsn == "" {
		dsn = "sqlite::memory:"
	}

	var (
		db  *gorm.DB
		err error
	)
	switch {
	case dsn == "sqlite::memory:":
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		if err == nil {
			err = db.Exec("ATTACH DATABASE ':memory:' AS erpl_web").Error
		}
	default:
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("erplctl: opening subscription store: %w", err)
	}

	repo := odp.NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("erplctl: migrating subscription store: %w", err)
	}
	return repo, nil
}

func runOdpSubscribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, err := openOdpRepository(ctx)
	if err != nil {
		return err
	}

	mgr, err := odp.Open(ctx, repo, args[0], args[1], flagSecret, odpForceFullLoad, odpDeltaToken)
	if err != nil {
		return err
	}
	printSubscription(mgr)
	return nil
}

func runOdpDelta(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, err := openOdpRepository(ctx)
	if err != nil {
		return err
	}

	mgr, err := odp.Open(ctx, repo, args[0], args[1], flagSecret, false, "")
	if err != nil {
		return err
	}
	if err := mgr.TransitionToDeltaFetch(ctx, args[2], true); err != nil {
		return err
	}
	printSubscription(mgr)
	return nil
}

func runOdpTerminate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, err := openOdpRepository(ctx)
	if err != nil {
		return err
	}

	mgr, err := odp.Open(ctx, repo, args[0], args[1], flagSecret, false, "")
	if err != nil {
		return err
	}
	if err := mgr.TransitionToTerminated(ctx); err != nil {
		return err
	}
	printSubscription(mgr)
	return nil
}

func printSubscription(mgr *odp.Manager) {
	sub := mgr.Subscription()
	fmt.Fprintf(os.Stdout, "subscription_id=%s phase=%s status=%s delta_token=%q\n",
		sub.SubscriptionID, mgr.Phase(), sub.SubscriptionStatus, sub.DeltaToken)
}
