package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tg-cognito/internal/models"

	"gorm.io/gorm"
)

// RegistrationRepository handles database operations for Registration
type RegistrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// MigrateTable ensures the chats table exists with the right schema
func (r *RegistrationRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Registration{})
}

// Replace drops any registration of the moderator and inserts a fresh one
// with a zero error counter.
func (r *RegistrationRepository) Replace(ctx context.Context, moderatorID int64, destination string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", moderatorID).Delete(&models.Registration{}).Error; err != nil {
			return fmt.Errorf("delete previous registration: %w", err)
		}

		reg := &models.Registration{
			ModeratorID:     moderatorID,
			DestinationName: destination,
			LastUse:         time.Now(),
			ErrorCount:      0,
		}
		if err := tx.Create(reg).Error; err != nil {
			return fmt.Errorf("insert registration: %w", err)
		}
		return nil
	})
}

// Delete removes the moderator's registration, reporting whether a row existed.
func (r *RegistrationRepository) Delete(ctx context.Context, moderatorID int64) (bool, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", moderatorID).Delete(&models.Registration{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindByModerator returns nil, nil when the moderator has no registration.
func (r *RegistrationRepository) FindByModerator(ctx context.Context, moderatorID int64) (*models.Registration, error) {
	var reg models.Registration
	result := r.db.WithContext(ctx).Where("user_id = ?", moderatorID).First(&reg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &reg, nil
}

// FindByDestination returns nil, nil when nobody registered the destination.
// The most recent registration wins if more than one row carries the name.
func (r *RegistrationRepository) FindByDestination(ctx context.Context, destination string) (*models.Registration, error) {
	var reg models.Registration
	result := r.db.WithContext(ctx).
		Where("chat_name = ?", destination).
		Order("last_use DESC").
		First(&reg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &reg, nil
}

// ListDestinations returns every registered destination name.
func (r *RegistrationRepository) ListDestinations(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Order("chat_name").
		Pluck("chat_name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// IncrementErrors bumps the failure counter and deletes the registration once
// the counter exceeds threshold. It returns the counter after the increment;
// a moderator without registration yields 0, false.
func (r *RegistrationRepository) IncrementErrors(ctx context.Context, moderatorID int64, threshold int) (count int, evicted bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Registration{}).
			Where("user_id = ?", moderatorID).
			UpdateColumn("errors", gorm.Expr("errors + ?", 1))
		if result.Error != nil {
			return fmt.Errorf("increment errors: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}

		var reg models.Registration
		if err := tx.Where("user_id = ?", moderatorID).First(&reg).Error; err != nil {
			return fmt.Errorf("read errors: %w", err)
		}
		count = reg.ErrorCount

		if count > threshold {
			if err := tx.Where("user_id = ?", moderatorID).Delete(&models.Registration{}).Error; err != nil {
				return fmt.Errorf("evict registration: %w", err)
			}
			evicted = true
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return count, evicted, nil
}

// ResetErrors sets the failure counter back to zero.
func (r *RegistrationRepository) ResetErrors(ctx context.Context, moderatorID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("user_id = ?", moderatorID).
		UpdateColumn("errors", 0).Error
}

// Count returns the number of registrations.
func (r *RegistrationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Registration{}).Count(&count).Error
	return count, err
}
