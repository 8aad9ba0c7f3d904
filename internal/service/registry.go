package service

import (
	"context"

	"tg-cognito/internal/logger"
	"tg-cognito/internal/metrics"
	"tg-cognito/internal/storage"
)

// Registry is the moderator to destination mapping. Storage errors are
// logged and the operation is treated as not having happened.
type Registry struct {
	repo      *storage.RegistrationRepository
	maxErrors int
}

// NewRegistry creates a registry that evicts a registration once its
// consecutive failure count exceeds maxErrors.
func NewRegistry(repo *storage.RegistrationRepository, maxErrors int) *Registry {
	return &Registry{repo: repo, maxErrors: maxErrors}
}

// Register replaces the moderator's registration. It returns false if the
// registration was not stored.
func (r *Registry) Register(ctx context.Context, moderatorID int64, destination string) bool {
	if err := r.repo.Replace(ctx, moderatorID, destination); err != nil {
		logger.Errorf("Register(%d, %s): %v", moderatorID, destination, err)
		return false
	}
	logger.Infof("Moderator %d registered %s", moderatorID, destination)
	return true
}

// Unregister forgets the moderator's registration if there is one.
func (r *Registry) Unregister(ctx context.Context, moderatorID int64) {
	existed, err := r.repo.Delete(ctx, moderatorID)
	if err != nil {
		logger.Errorf("Unregister(%d): %v", moderatorID, err)
		return
	}
	if existed {
		logger.Infof("Moderator %d unregistered", moderatorID)
	}
}

func (r *Registry) LookupDestination(ctx context.Context, moderatorID int64) (string, bool) {
	reg, err := r.repo.FindByModerator(ctx, moderatorID)
	if err != nil {
		logger.Errorf("LookupDestination(%d): %v", moderatorID, err)
		return "", false
	}
	if reg == nil {
		return "", false
	}
	return reg.DestinationName, true
}

func (r *Registry) LookupModerator(ctx context.Context, destination string) (int64, bool) {
	reg, err := r.repo.FindByDestination(ctx, destination)
	if err != nil {
		logger.Errorf("LookupModerator(%s): %v", destination, err)
		return 0, false
	}
	if reg == nil {
		return 0, false
	}
	return reg.ModeratorID, true
}

// ListDestinations returns the registered destinations, empty on error.
func (r *Registry) ListDestinations(ctx context.Context) []string {
	names, err := r.repo.ListDestinations(ctx)
	if err != nil {
		logger.Errorf("ListDestinations: %v", err)
		return nil
	}
	return names
}

// RecordDeliveryFailure counts a failed publication and evicts the
// registration once the count exceeds the threshold.
func (r *Registry) RecordDeliveryFailure(ctx context.Context, moderatorID int64) {
	count, evicted, err := r.repo.IncrementErrors(ctx, moderatorID, r.maxErrors)
	if err != nil {
		logger.Errorf("RecordDeliveryFailure(%d): %v", moderatorID, err)
		return
	}
	if evicted {
		metrics.Evictions.Inc()
		logger.Warningf("Registration of moderator %d evicted after %d delivery failures", moderatorID, count)
		return
	}
	logger.Debugf("Moderator %d delivery failures: %d", moderatorID, count)
}

// RecordDeliverySuccess resets the failure counter.
func (r *Registry) RecordDeliverySuccess(ctx context.Context, moderatorID int64) {
	if err := r.repo.ResetErrors(ctx, moderatorID); err != nil {
		logger.Errorf("RecordDeliverySuccess(%d): %v", moderatorID, err)
	}
}

// ErrorCount returns the current failure counter of a registration.
func (r *Registry) ErrorCount(ctx context.Context, moderatorID int64) (int, bool) {
	reg, err := r.repo.FindByModerator(ctx, moderatorID)
	if err != nil {
		logger.Errorf("ErrorCount(%d): %v", moderatorID, err)
		return 0, false
	}
	if reg == nil {
		return 0, false
	}
	return reg.ErrorCount, true
}

// Count returns the number of registrations, 0 on error.
func (r *Registry) Count(ctx context.Context) int64 {
	count, err := r.repo.Count(ctx)
	if err != nil {
		logger.Errorf("Count: %v", err)
		return 0
	}
	return count
}
