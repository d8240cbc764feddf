package account

import (
	"context"
	"fmt"
	"log/slog"

	"sortir/internal/classification"
	"sortir/internal/domain"
)

type PreferencesInput struct {
	Classifications []string `json:"classifications" validate:"max=50,dive,required,max=100"`
}

type PreferenceService struct {
	prefs  PreferenceRepository
	tx     TransactionManager
	logger *slog.Logger
}

func NewPreferenceService(prefs PreferenceRepository, tx TransactionManager, logger *slog.Logger) *PreferenceService {
	return &PreferenceService{
		prefs:  prefs,
		tx:     tx,
		logger: logger.With("component", "preferences"),
	}
}

func (s *PreferenceService) List(ctx context.Context, userID string) ([]domain.Preference, error) {
	prefs, err := s.prefs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return prefs, nil
}

// Replace swaps the user's whole preference set for the named
// classifications. Names resolve case-insensitively and are stored in
// their catalog spelling; an unknown name rejects the whole request.
func (s *PreferenceService) Replace(ctx context.Context, userID string, in PreferencesInput) ([]domain.Preference, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	prefs := make([]domain.Preference, 0, len(in.Classifications))
	seen := make(map[string]struct{}, len(in.Classifications))
	for _, name := range in.Classifications {
		id, ok := classification.ResolveID(name)
		if !ok {
			return nil, domain.ErrValidationMeta("unknown classification", map[string]string{"classification": name})
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		canonical, _ := classification.ResolveName(id)
		prefs = append(prefs, domain.Preference{
			UserID:             userID,
			ClassificationID:   id,
			ClassificationName: canonical,
		})
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.prefs.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete preferences: %w", err)
		}
		if len(prefs) == 0 {
			return nil
		}
		if err := s.prefs.InsertBatch(ctx, prefs); err != nil {
			return fmt.Errorf("insert preferences: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("preferences replaced", "user_id", userID, "count", len(prefs))
	return prefs, nil
}
