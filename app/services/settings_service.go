package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/notifications"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Flag is a boolean that also accepts "true"/"false" strings, which is what
// the admin panel sends.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*f = Flag(t)
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return fmt.Errorf("invalid boolean %q", t)
		}
		*f = Flag(parsed)
	default:
		return fmt.Errorf("invalid boolean %s", string(b))
	}
	return nil
}

// SettingsInput is the settings update body. ShowDiscounts and
// MaintenanceMessage are optional.
type SettingsInput struct {
	SiteEnabled        *Flag  `json:"site_enabled"        validate:"required"`
	ShowDiscounts      *Flag  `json:"show_discounts"`
	MaintenanceMessage string `json:"maintenance_message"`
}

// SettingsResult is returned after an update.
type SettingsResult struct {
	Message       string `json:"message"`
	SiteEnabled   *bool  `json:"site_enabled,omitempty"`
	ShowDiscounts *bool  `json:"show_discounts,omitempty"`
}

// SiteStatus is what storefront clients read to gate the UI.
type SiteStatus struct {
	Enabled       bool   `json:"enabled"`
	ShowDiscounts bool   `json:"show_discounts"`
	Message       string `json:"message,omitempty"`
}

type SettingsService struct {
	settings *repositories.SettingRepository
	notifier Notifier
}

func NewSettingsService(settings *repositories.SettingRepository, notifier Notifier) *SettingsService {
	return &SettingsService{settings: settings, notifier: orDiscard(notifier)}
}

func (s *SettingsService) All(ctx context.Context) (map[string]string, error) {
	all, err := s.settings.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return all, nil
}

// Update writes site_enabled, then show_discounts when supplied, then the
// maintenance message when non-empty. Each write stands alone: a failure
// part-way leaves the earlier writes in place.
func (s *SettingsService) Update(ctx context.Context, in SettingsInput) (SettingsResult, error) {
	if in.SiteEnabled == nil {
		return SettingsResult{}, newError(ErrValidation, "site_enabled is required")
	}
	change := notifications.SettingsChanged{SiteEnabled: bool(*in.SiteEnabled)}

	if err := s.settings.Set(ctx, models.SettingSiteEnabled, strconv.FormatBool(change.SiteEnabled)); err != nil {
		return SettingsResult{}, fmt.Errorf("save site_enabled: %w", err)
	}

	if in.ShowDiscounts != nil {
		show := bool(*in.ShowDiscounts)
		if err := s.settings.Set(ctx, models.SettingShowDiscounts, strconv.FormatBool(show)); err != nil {
			return SettingsResult{}, fmt.Errorf("save show_discounts: %w", err)
		}
		change.ShowDiscounts = &show
	}

	if in.MaintenanceMessage != "" {
		if err := s.settings.Set(ctx, models.SettingMaintenanceMessage, in.MaintenanceMessage); err != nil {
			return SettingsResult{}, fmt.Errorf("save maintenance_message: %w", err)
		}
		change.Message = in.MaintenanceMessage
	}

	logger.WithCtx(ctx).Info("settings updated", "site_enabled", change.SiteEnabled)
	s.notifier.Notify(ctx, change)

	res := SettingsResult{Message: change.Summary()}
	if change.ShowDiscounts != nil {
		res.SiteEnabled = &change.SiteEnabled
		res.ShowDiscounts = change.ShowDiscounts
	}
	return res, nil
}

// SiteStatus reports the public site flags. Missing rows read as enabled.
func (s *SettingsService) SiteStatus(ctx context.Context) (SiteStatus, error) {
	enabled, err := s.flag(ctx, models.SettingSiteEnabled)
	if err != nil {
		return SiteStatus{}, err
	}
	show, err := s.flag(ctx, models.SettingShowDiscounts)
	if err != nil {
		return SiteStatus{}, err
	}

	st := SiteStatus{Enabled: enabled, ShowDiscounts: show}
	if !enabled {
		msg, ok, err := s.settings.Get(ctx, models.SettingMaintenanceMessage)
		if err != nil {
			return SiteStatus{}, fmt.Errorf("load maintenance_message: %w", err)
		}
		if !ok {
			msg = models.DefaultMaintenanceMessage
		}
		st.Message = msg
	}
	return st, nil
}

func (s *SettingsService) flag(ctx context.Context, key string) (bool, error) {
	v, ok, err := s.settings.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	return !ok || v == "true", nil
}

// Seed inserts the default settings that are missing.
func (s *SettingsService) Seed(ctx context.Context) error {
	defaults := []struct{ key, value string }{
		{models.SettingSiteEnabled, "true"},
		{models.SettingMaintenanceMessage, models.DefaultMaintenanceMessage},
		{models.SettingShowDiscounts, "true"},
	}
	for _, d := range defaults {
		if err := s.settings.SetDefault(ctx, d.key, d.value); err != nil {
			return fmt.Errorf("seed %s: %w", d.key, err)
		}
	}
	return nil
}
