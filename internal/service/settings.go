package service

import (
	"context"
	"strings"

	"github.com/atinyakov/CafeMenu/internal/models"
)

// SettingsRepository defines the key/value persistence used by SettingsService.
type SettingsRepository interface {
	// Get returns the stored value and whether a non-null value exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set upserts the value under key.
	Set(ctx context.Context, key, value string) error
}

// SettingsService exposes typed access to stored settings.
type SettingsService struct {
	repo SettingsRepository
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get returns the value under key, or def when it is absent.
func (s *SettingsService) Get(ctx context.Context, key, def string) (string, error) {
	v, ok, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// Set stores value under key, replacing any previous value.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	return s.repo.Set(ctx, key, value)
}

// Announcement returns the banner text, empty when none is set.
func (s *SettingsService) Announcement(ctx context.Context) (string, error) {
	return s.Get(ctx, models.AnnouncementKey, "")
}

// SetAnnouncement replaces the banner text. An empty text clears the banner.
func (s *SettingsService) SetAnnouncement(ctx context.Context, text string) error {
	return s.Set(ctx, models.AnnouncementKey, strings.TrimSpace(text))
}
