package odp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// erpl_web.subscriptions/erpl_web.audit use a schema-qualified table
	// name; SQLite needs that schema attached as a separate database.
	require.NoError(t, db.Exec("ATTACH DATABASE ':memory:' AS erpl_web").Error)

	repo := NewRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return db
}

func TestGenerateSubscriptionID(t *testing.T) {
	now := time.Date(2026, 3, 5, 10, 30, 0, 0, time.UTC)
	id := GenerateSubscriptionID(now, "https://svc.example.com/EntityOfSales")
	assert.Equal(t, "20260305_103000_svc_example_com_EntityOfSales", id)
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://svc.example.com/sap/odata/EntityOfSalesOrders"))
	assert.NoError(t, ValidateURL("https://svc.example.com/sap/odata/FactsOfSalesOrders"))
	assert.Error(t, ValidateURL("https://svc.example.com/sap/odata/People"))
}

func TestRepository_FindActiveReturnsNilWhenAbsent(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	sub, err := repo.FindActive(context.Background(), "https://svc/odata", "EntityOfSales")
	require.NoError(t, err)
	assert.Nil(t, sub)
}

func TestRepository_AuditLifecycleComputesDuration(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	sub := &Subscription{
		SubscriptionID:     "sub1",
		ServiceURL:         "https://svc/odata",
		EntitySetName:      "EntityOfSales",
		SubscriptionStatus: StatusActive,
		CreatedAt:          time.Now(),
		LastUpdated:        time.Now(),
	}
	require.NoError(t, repo.Create(ctx, sub))

	entry, err := repo.CreateAuditEntry(ctx, sub.SubscriptionID, "INITIAL_LOAD", "https://svc/odata/EntityOfSales", "")
	require.NoError(t, err)
	assert.Nil(t, entry.ResponseTs)

	status := 200
	rows := int64(42)
	require.NoError(t, repo.UpdateAuditEntry(ctx, entry, AuditUpdate{
		HttpStatusCode:  &status,
		RowsFetched:     &rows,
		DeltaTokenAfter: "T1",
	}))
	require.NotNil(t, entry.DurationMs)
	assert.GreaterOrEqual(t, *entry.DurationMs, int64(0))
	assert.Equal(t, "T1", entry.DeltaTokenAfter)
}

func TestManager_OpenCreatesFreshSubscriptionAsInitialLoad(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	mgr, err := Open(ctx, repo, "https://svc/odata/EntityOfSales", "EntityOfSales", "", false, "")
	require.NoError(t, err)
	assert.Equal(t, PhaseInitialLoad, mgr.Phase())
	assert.Empty(t, mgr.Subscription().DeltaToken)
	assert.False(t, mgr.Subscription().PreferenceApplied)
}

func TestManager_OpenWithImportDeltaTokenForcesDeltaFetch(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	mgr, err := Open(ctx, repo, "https://svc/odata/EntityOfSales", "EntityOfSales", "", false, "T0")
	require.NoError(t, err)
	assert.Equal(t, PhaseDeltaFetch, mgr.Phase())
	assert.Equal(t, "T0", mgr.Subscription().DeltaToken)
	assert.True(t, mgr.Subscription().PreferenceApplied)
}

func TestManager_OpenReloadsExistingActiveSubscription(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	first, err := Open(ctx, repo, "https://svc/odata/EntityOfSales", "EntityOfSales", "", false, "")
	require.NoError(t, err)
	require.NoError(t, first.TransitionToDeltaFetch(ctx, "T1", false))

	second, err := Open(ctx, repo, "https://svc/odata/EntityOfSales", "EntityOfSales", "", false, "")
	require.NoError(t, err)
	assert.Equal(t, first.Subscription().SubscriptionID, second.Subscription().SubscriptionID)
	assert.Equal(t, PhaseDeltaFetch, second.Phase())
	assert.Equal(t, "T1", second.Subscription().DeltaToken)
}

func TestManager_OpenForceFullLoadIgnoresExistingActive(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	first, err := Open(ctx, repo, "https://svc/odata/EntityOfSales", "EntityOfSales", "", false, "")
	require.NoError(t, err)
	require.NoError(t, first.TransitionToDeltaFetch(ctx, "T1", false))

	originalNow := nowFunc
	nowFunc = func() time.Time { return originalNow().Add(time.Second) }
	defer func() { nowFunc = originalNow }()

	second, err := Open(ctx, repo, "https://svc/odata/EntityOfSales", "EntityOfSales", "", true, "")
	require.NoError(t, err)
	assert.NotEqual(t, first.Subscription().SubscriptionID, second.Subscription().SubscriptionID)
	assert.Equal(t, PhaseInitialLoad, second.Phase())
}

func TestManager_FullLifecycleEndsTerminatedWithFinalToken(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	mgr, err := Open(ctx, repo, "https://svc/odata/EntityOfSales", "EntityOfSales", "", true, "")
	require.NoError(t, err)
	assert.Equal(t, PhaseInitialLoad, mgr.Phase())

	audit1, err := mgr.BeginOperation(ctx, "INITIAL_LOAD", "https://svc/odata/EntityOfSales")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateAuditEntry(ctx, audit1, AuditUpdate{DeltaTokenAfter: "T1"}))
	require.NoError(t, mgr.TransitionToDeltaFetch(ctx, "T1", false))

	mgr2, err := Open(ctx, repo, "https://svc/odata/EntityOfSales", "EntityOfSales", "", false, "")
	require.NoError(t, err)
	assert.Equal(t, PhaseDeltaFetch, mgr2.Phase())

	audit2, err := mgr2.BeginOperation(ctx, "DELTA_FETCH", "https://svc/odata/EntityOfSales")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateAuditEntry(ctx, audit2, AuditUpdate{DeltaTokenAfter: "T2"}))
	require.NoError(t, mgr2.TransitionToDeltaFetch(ctx, "T2", false))
	require.NoError(t, mgr2.TransitionToTerminated(ctx))

	assert.Equal(t, PhaseTerminated, mgr2.Phase())
	assert.Equal(t, "T2", mgr2.Subscription().DeltaToken)

	active, err := repo.FindActive(ctx, "https://svc/odata/EntityOfSales", "EntityOfSales")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestManager_TransitionToErrorWritesAuditMessage(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	mgr, err := Open(ctx, repo, "https://svc/odata/EntityOfSales", "EntityOfSales", "", false, "")
	require.NoError(t, err)

	audit, err := mgr.BeginOperation(ctx, "INITIAL_LOAD", "https://svc/odata/EntityOfSales")
	require.NoError(t, err)

	require.NoError(t, mgr.TransitionToError(ctx, audit, "connection reset"))
	assert.Equal(t, PhaseError, mgr.Phase())
	assert.Equal(t, "connection reset", audit.ErrorMessage)
}
