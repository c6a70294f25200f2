package odp

import (
	"context"
	"time"
)

// Manager is the state-manager half of spec.md §4.9: one instance per
// scan, owning a single subscription row and the currently open audit
// entry. "The state manager is owned by a single scan at a time."
type Manager struct {
	repo *Repository
	sub  *Subscription
}

// nowFunc is overridden in tests that need two fresh subscriptions for
// the same URL to land in different seconds (subscription_id is only
// second-resolution, per spec.md §4.9's YYYYMMDD_HHMMSS format).
var nowFunc = time.Now

// Open implements spec.md §4.9's create/attach-on-construction rules.
//
//   - If an active subscription for (serviceURL, entitySetName) exists,
//     forceFullLoad is false, and importDeltaToken is empty: load it.
//   - If importDeltaToken is non-empty: create or load, forcing
//     DELTA_FETCH with that token and PreferenceApplied=true.
//   - Otherwise: create fresh, INITIAL_LOAD, empty token.
func Open(ctx context.Context, repo *Repository, serviceURL, entitySetName, secretName string, forceFullLoad bool, importDeltaToken string) (*Manager, error) {
	if err := ValidateURL(serviceURL); err != nil {
		return nil, err
	}

	existing, err := repo.FindActive(ctx, serviceURL, entitySetName)
	if err != nil {
		return nil, err
	}

	now := nowFunc()

	switch {
	case importDeltaToken != "":
		sub := existing
		if sub == nil {
			sub = &Subscription{
				SubscriptionID: GenerateSubscriptionID(now, serviceURL),
				ServiceURL:     serviceURL,
				EntitySetName:  entitySetName,
				SecretName:     secretName,
				CreatedAt:      now,
			}
		}
		sub.DeltaToken = importDeltaToken
		sub.PreferenceApplied = true
		sub.SubscriptionStatus = StatusActive
		sub.LastUpdated = now
		if existing == nil {
			if err := repo.Create(ctx, sub); err != nil {
				return nil, err
			}
		} else if err := repo.Save(ctx, sub); err != nil {
			return nil, err
		}
		return &Manager{repo: repo, sub: sub}, nil

	case existing != nil && !forceFullLoad:
		return &Manager{repo: repo, sub: existing}, nil

	default:
		// existing (if any) is superseded here, so it must be retired
		// before a second active row is created for the same
		// (serviceURL, entitySetName) — the uniqueness invariant of
		// spec.md §4.9 holds across this transition, not just at rest.
		if existing != nil {
			existing.SubscriptionStatus = StatusTerminated
			if err := repo.Save(ctx, existing); err != nil {
				return nil, err
			}
		}
		sub := &Subscription{
			SubscriptionID:     GenerateSubscriptionID(now, serviceURL),
			ServiceURL:         serviceURL,
			EntitySetName:      entitySetName,
			SecretName:         secretName,
			DeltaToken:         "",
			PreferenceApplied:  false,
			SubscriptionStatus: StatusActive,
			CreatedAt:          now,
			LastUpdated:        now,
		}
		if err := repo.Create(ctx, sub); err != nil {
			return nil, err
		}
		return &Manager{repo: repo, sub: sub}, nil
	}
}

// Subscription returns the manager's current subscription row.
func (m *Manager) Subscription() *Subscription { return m.sub }

// Phase reports the current state-machine phase.
func (m *Manager) Phase() Phase { return m.sub.Phase() }

// TransitionToInitialLoad clears the delta token and marks the
// subscription active (spec.md §4.9).
func (m *Manager) TransitionToInitialLoad(ctx context.Context) error {
	m.sub.DeltaToken = ""
	m.sub.SubscriptionStatus = StatusActive
	return m.repo.Save(ctx, m.sub)
}

// TransitionToDeltaFetch stores the new delta token and marks the
// subscription active (spec.md §4.9).
func (m *Manager) TransitionToDeltaFetch(ctx context.Context, token string, preferenceApplied bool) error {
	m.sub.DeltaToken = token
	m.sub.PreferenceApplied = preferenceApplied
	m.sub.SubscriptionStatus = StatusActive
	return m.repo.Save(ctx, m.sub)
}

// TransitionToTerminated marks the subscription terminated.
func (m *Manager) TransitionToTerminated(ctx context.Context) error {
	m.sub.SubscriptionStatus = StatusTerminated
	return m.repo.Save(ctx, m.sub)
}

// TransitionToError marks the subscription in error and writes msg to
// the currently open audit entry's error_message (spec.md §4.9).
func (m *Manager) TransitionToError(ctx context.Context, openAudit *AuditEntry, msg string) error {
	m.sub.SubscriptionStatus = StatusError
	if err := m.repo.Save(ctx, m.sub); err != nil {
		return err
	}
	if openAudit == nil {
		return nil
	}
	return m.repo.UpdateAuditEntry(ctx, openAudit, AuditUpdate{ErrorMessage: msg})
}

// BeginOperation opens a new audit entry for an operation against this
// subscription (spec.md §4.9: "every operation starts with
// CreateAuditEntry(operationType, requestUrl) recording pre-state").
func (m *Manager) BeginOperation(ctx context.Context, operationType, requestURL string) (*AuditEntry, error) {
	return m.repo.CreateAuditEntry(ctx, m.sub.SubscriptionID, operationType, requestURL, m.sub.DeltaToken)
}
