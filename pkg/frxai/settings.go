package frxai

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const (
	settingTheme     = "frxai-theme"
	settingLanguage  = "frxai-lang"
	settingOnboarded = "frxai-has-onboarded"
)

// Settings are the persisted appearance and language preferences.
type Settings struct {
	Theme    Theme    `json:"theme"`
	Language Language `json:"language"`
}

// SettingsUpdate changes only the fields that are set.
type SettingsUpdate struct {
	Theme    *string `json:"theme,omitempty"`
	Language *string `json:"language,omitempty"`
}

// DefaultSettings returns the system theme and the language matching locale.
func DefaultSettings(locale string) Settings {
	return Settings{Theme: ThemeSystem, Language: LanguageFromLocale(locale)}
}

// LoadSettings returns the stored settings. It never fails: unreadable or
// unknown values fall back to DefaultSettings(locale) and are logged.
func (c *Core) LoadSettings(ctx context.Context, locale string) Settings {
	settings := DefaultSettings(locale)
	values, err := c.readSettings(ctx, settingTheme, settingLanguage)
	if err != nil {
		c.logger.Error("failed to read settings, using defaults", "err", err)
		return settings
	}
	if raw, ok := values[settingTheme]; ok {
		if theme, ok := ParseTheme(raw); ok {
			settings.Theme = theme
		} else {
			c.logger.Warn("ignoring stored theme", "value", raw)
		}
	}
	if raw, ok := values[settingLanguage]; ok {
		if lang, ok := ParseLanguage(raw); ok {
			settings.Language = lang
		} else {
			c.logger.Warn("ignoring stored language", "value", raw)
		}
	}
	return settings
}

// UpdateSettings validates and stores the fields set in update, returning
// the resulting settings. Validation messages use the target language when
// one is being set, else the stored one.
func (c *Core) UpdateSettings(ctx context.Context, update SettingsUpdate) (Settings, error) {
	current := c.LoadSettings(ctx, "")
	msgLang := current.Language
	pending := make(map[string]string, 2)

	if update.Language != nil {
		lang, ok := ParseLanguage(*update.Language)
		if !ok {
			return Settings{}, NewError(ErrCodeInvalidInput, Translate(msgLang, "settings_error_language"))
		}
		current.Language = lang
		msgLang = lang
		pending[settingLanguage] = string(lang)
	}
	if update.Theme != nil {
		theme, ok := ParseTheme(*update.Theme)
		if !ok {
			return Settings{}, NewError(ErrCodeInvalidInput, Translate(msgLang, "settings_error_theme"))
		}
		current.Theme = theme
		pending[settingTheme] = string(theme)
	}
	if len(pending) == 0 {
		return current, nil
	}

	if err := c.writeSettings(ctx, pending); err != nil {
		c.logger.Error("failed to save settings", "err", err)
		return Settings{}, WrapError(ErrCodeDatabase, Translate(msgLang, "settings_error_save"), err)
	}
	c.logger.Info("settings updated", "theme", current.Theme, "language", current.Language)
	return current, nil
}

// HasOnboarded reports whether onboarding was completed. Read failures are
// logged and reported as false so onboarding is shown again.
func (c *Core) HasOnboarded(ctx context.Context) bool {
	values, err := c.readSettings(ctx, settingOnboarded)
	if err != nil {
		c.logger.Error("failed to read onboarding status", "err", err)
		return false
	}
	return values[settingOnboarded] == "true"
}

// CompleteOnboarding persists the onboarding flag.
func (c *Core) CompleteOnboarding(ctx context.Context) error {
	if err := c.writeSettings(ctx, map[string]string{settingOnboarded: "true"}); err != nil {
		c.logger.Error("failed to save onboarding status", "err", err)
		lang := c.LoadSettings(ctx, "").Language
		return WrapError(ErrCodeDatabase, Translate(lang, "settings_error_save"), err)
	}
	return nil
}

func (c *Core) readSettings(ctx context.Context, keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		var value string
		err := c.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read setting %s: %w", key, err)
		}
		values[key] = strings.TrimSpace(value)
	}
	return values, nil
}

func (c *Core) writeSettings(ctx context.Context, values map[string]string) error {
	return c.WithTx(ctx, func(tx *sql.Tx) error {
		for key, value := range values {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO settings (key, value, updated_at)
				VALUES (?, ?, CURRENT_TIMESTAMP)
				ON CONFLICT(key) DO UPDATE SET
					value = excluded.value,
					updated_at = CURRENT_TIMESTAMP
			`, key, value); err != nil {
				return fmt.Errorf("write setting %s: %w", key, err)
			}
		}
		return nil
	})
}
