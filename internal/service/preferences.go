package service

import (
	"context"
	"log/slog"
	"time"

	"news_feed/internal/domain"
)

type PreferenceService struct {
	users     UserStore
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewPreferenceService(users UserStore, publisher Publisher, logger *slog.Logger) *PreferenceService {
	return &PreferenceService{
		users:     users,
		publisher: publisher,
		logger:    logger.With("component", "preferences"),
		now:       time.Now,
	}
}

func (s *PreferenceService) Get(ctx context.Context, userID int64) (*domain.Preferences, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, passthrough("find user", err)
	}
	return &domain.Preferences{Preferences: domain.ClonePreferences(user.Preferences)}, nil
}

// Update replaces the user's preference list wholesale.
func (s *PreferenceService) Update(ctx context.Context, userID int64, prefs []string) (*domain.Preferences, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, passthrough("find user", err)
	}

	next := domain.ClonePreferences(prefs)
	user, err := s.users.Update(ctx, userID, domain.UserUpdate{Preferences: &next})
	if err != nil {
		return nil, passthrough("update user", err)
	}

	s.logger.Info("preferences updated", "user_id", userID, "count", len(user.Preferences))

	publish(ctx, s.publisher, s.logger, domain.UserEvent{
		Action:      domain.ActionPreferencesUpdated,
		UserID:      user.ID,
		Email:       user.Email,
		Preferences: domain.ClonePreferences(user.Preferences),
		Timestamp:   s.now().UTC(),
	})

	return &domain.Preferences{Preferences: domain.ClonePreferences(user.Preferences)}, nil
}
