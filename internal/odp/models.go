// Package odp implements spec.md §4.9's change-data-capture subscription
// layer: the erpl_web.subscriptions and erpl_web.audit tables, subscription
// identifier generation, and the INITIAL_LOAD/DELTA_FETCH/TERMINATED/
// ERROR_STATE state machine.
//
// Grounded on the teacher's cmd/devserver/entities and cmd/complianceserver
// main.go conventions for gorm model structs and AutoMigrate wiring
// (go.mod already carries gorm.io/gorm plus the postgres and sqlite
// drivers from that repo).
package odp

import "time"

// SubscriptionStatus is the persisted lifecycle column. It is coarser
// than the four-phase state machine (spec.md §4.9): "active" covers
// both INITIAL_LOAD and DELTA_FETCH, which are distinguished by
// whether DeltaToken is set (see Phase).
type SubscriptionStatus string

const (
	StatusActive     SubscriptionStatus = "active"
	StatusTerminated SubscriptionStatus = "terminated"
	StatusError      SubscriptionStatus = "error"
)

// Phase is one of the four state-machine phases spec.md §4.9 names.
type Phase string

const (
	PhaseInitialLoad Phase = "INITIAL_LOAD"
	PhaseDeltaFetch  Phase = "DELTA_FETCH"
	PhaseTerminated  Phase = "TERMINATED"
	PhaseError       Phase = "ERROR_STATE"
)

// Phase derives the state-machine phase from the persisted status and
// delta token, per spec.md §4.9.
func (s *Subscription) Phase() Phase {
	switch s.SubscriptionStatus {
	case StatusTerminated:
		return PhaseTerminated
	case StatusError:
		return PhaseError
	default:
		if s.DeltaToken == "" {
			return PhaseInitialLoad
		}
		return PhaseDeltaFetch
	}
}

// Subscription is one row of erpl_web.subscriptions (spec.md §4.9).
type Subscription struct {
	SubscriptionID     string             `gorm:"column:subscription_id;primaryKey;type:varchar(255)"`
	ServiceURL         string             `gorm:"column:service_url;not null;index:idx_subscriptions_service_entity"`
	EntitySetName      string             `gorm:"column:entity_set_name;not null;index:idx_subscriptions_service_entity"`
	SecretName         string             `gorm:"column:secret_name"`
	DeltaToken         string             `gorm:"column:delta_token"`
	CreatedAt          time.Time          `gorm:"column:created_at;not null"`
	LastUpdated        time.Time          `gorm:"column:last_updated;not null"`
	SubscriptionStatus SubscriptionStatus `gorm:"column:subscription_status;not null;type:varchar(32)"`
	PreferenceApplied  bool               `gorm:"column:preference_applied;not null"`
}

// TableName pins the table to the erpl_web schema (spec.md §4.9).
func (Subscription) TableName() string { return "erpl_web.subscriptions" }

// AuditEntry is one row of erpl_web.audit (spec.md §4.9).
type AuditEntry struct {
	AuditID          uint64    `gorm:"column:audit_id;primaryKey;autoIncrement"`
	SubscriptionID   string    `gorm:"column:subscription_id;not null;index"`
	OperationType    string    `gorm:"column:operation_type;not null"`
	RequestTs        time.Time `gorm:"column:request_ts;not null"`
	ResponseTs       *time.Time `gorm:"column:response_ts"`
	RequestURL       string    `gorm:"column:request_url;not null"`
	HttpStatusCode   *int      `gorm:"column:http_status_code"`
	RowsFetched      *int64    `gorm:"column:rows_fetched"`
	PackageSizeBytes *int64    `gorm:"column:package_size_bytes"`
	DeltaTokenBefore string    `gorm:"column:delta_token_before"`
	DeltaTokenAfter  string    `gorm:"column:delta_token_after"`
	ErrorMessage     string    `gorm:"column:error_message"`
	DurationMs       *int64    `gorm:"column:duration_ms"`
}

// TableName pins the table to the erpl_web schema (spec.md §4.9).
func (AuditEntry) TableName() string { return "erpl_web.audit" }
