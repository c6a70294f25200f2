package odp

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repository is the gorm-backed persistence layer for erpl_web.subscriptions
// and erpl_web.audit. Concurrency is handed off to the host database's own
// isolation (spec.md §4.9): the repository takes no locks of its own.
type Repository struct {
	db *gorm.DB
}

// NewRepository wraps an already-connected *gorm.DB. Migrate must be
// called once per process before first use.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the erpl_web schema tables if they don't already
// exist, mirroring the teacher's AutoMigrate call in cmd/devserver/main.go.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&Subscription{}, &AuditEntry{})
}

// FindActive returns the single active subscription for (serviceURL,
// entitySetName), or nil if none exists. The uniqueness invariant of
// spec.md §4.9 holds because Open creates a fresh row only when this
// returns nil, or after it has terminated the row this returned.
func (r *Repository) FindActive(ctx context.Context, serviceURL, entitySetName string) (*Subscription, error) {
	var sub Subscription
	err := r.db.WithContext(ctx).
		Where("service_url = ? AND entity_set_name = ? AND subscription_status = ?", serviceURL, entitySetName, StatusActive).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create inserts a new subscription row.
func (r *Repository) Create(ctx context.Context, sub *Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// Save persists changes to an existing subscription row, stamping
// LastUpdated.
func (r *Repository) Save(ctx context.Context, sub *Subscription) error {
	sub.LastUpdated = time.Now()
	return r.db.WithContext(ctx).Save(sub).Error
}

// CreateAuditEntry implements spec.md §4.9's "every operation starts
// with CreateAuditEntry(operationType, requestUrl) recording pre-state."
func (r *Repository) CreateAuditEntry(ctx context.Context, subscriptionID, operationType, requestURL, deltaTokenBefore string) (*AuditEntry, error) {
	entry := &AuditEntry{
		SubscriptionID:   subscriptionID,
		OperationType:    operationType,
		RequestTs:        time.Now(),
		RequestURL:       requestURL,
		DeltaTokenBefore: deltaTokenBefore,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// AuditUpdate carries the fields UpdateAuditEntry may set. DurationMs
// is computed from RequestTs/ResponseTs when left nil (spec.md §4.9:
// "duration_ms (auto if omitted)").
type AuditUpdate struct {
	HttpStatusCode   *int
	RowsFetched      *int64
	PackageSizeBytes *int64
	DeltaTokenAfter  string
	ErrorMessage     string
	DurationMs       *int64
}

// UpdateAuditEntry implements spec.md §4.9's closing half of the audit
// lifecycle.
func (r *Repository) UpdateAuditEntry(ctx context.Context, entry *AuditEntry, update AuditUpdate) error {
	now := time.Now()
	entry.ResponseTs = &now
	entry.HttpStatusCode = update.HttpStatusCode
	entry.RowsFetched = update.RowsFetched
	entry.PackageSizeBytes = update.PackageSizeBytes
	entry.DeltaTokenAfter = update.DeltaTokenAfter
	entry.ErrorMessage = update.ErrorMessage

	if update.DurationMs != nil {
		entry.DurationMs = update.DurationMs
	} else {
		durationMs := now.Sub(entry.RequestTs).Milliseconds()
		entry.DurationMs = &durationMs
	}
	return r.db.WithContext(ctx).Save(entry).Error
}
