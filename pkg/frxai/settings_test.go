package frxai

import (
	"context"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestLoadSettingsDefaults(t *testing.T) {
	core, cleanup := setupTestCore(t, Options{})
	defer cleanup()

	ctx := context.Background()
	if got := core.LoadSettings(ctx, "en-US"); got != (Settings{Theme: ThemeSystem, Language: LanguageEnglish}) {
		t.Fatalf("unexpected defaults %+v", got)
	}
	if got := core.LoadSettings(ctx, "id-ID"); got.Language != LanguageIndonesian {
		t.Fatalf("expected locale-derived indonesian, got %+v", got)
	}
}

func TestUpdateSettingsPersists(t *testing.T) {
	core, cleanup := setupTestCore(t, Options{})
	defer cleanup()

	ctx := context.Background()
	saved, err := core.UpdateSettings(ctx, SettingsUpdate{Theme: strPtr("Dark"), Language: strPtr("id")})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	want := Settings{Theme: ThemeDark, Language: LanguageIndonesian}
	if saved != want {
		t.Fatalf("saved %+v, want %+v", saved, want)
	}
	// Stored values win over the locale.
	if got := core.LoadSettings(ctx, "en-US"); got != want {
		t.Fatalf("loaded %+v, want %+v", got, want)
	}

	saved, err = core.UpdateSettings(ctx, SettingsUpdate{Theme: strPtr("light")})
	if err != nil {
		t.Fatalf("partial update: %v", err)
	}
	if saved != (Settings{Theme: ThemeLight, Language: LanguageIndonesian}) {
		t.Fatalf("partial update changed language: %+v", saved)
	}
}

func TestUpdateSettingsRejectsUnknownValues(t *testing.T) {
	core, cleanup := setupTestCore(t, Options{})
	defer cleanup()

	ctx := context.Background()
	if _, err := core.UpdateSettings(ctx, SettingsUpdate{Language: strPtr("id")}); err != nil {
		t.Fatalf("set language: %v", err)
	}

	_, err := core.UpdateSettings(ctx, SettingsUpdate{Theme: strPtr("sepia")})
	if !IsErrorCode(err, ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if got := UserMessage(err, LanguageEnglish); got != "Tema tidak dikenal. Pilih light, dark, atau system." {
		t.Fatalf("expected message in stored language, got %q", got)
	}

	_, err = core.UpdateSettings(ctx, SettingsUpdate{Language: strPtr("de"), Theme: strPtr("dark")})
	if !IsErrorCode(err, ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if got := core.LoadSettings(ctx, ""); got.Theme != ThemeSystem {
		t.Fatalf("rejected update must not be persisted, got %+v", got)
	}
}

func TestLoadSettingsIgnoresCorruptValues(t *testing.T) {
	core, cleanup := setupTestCore(t, Options{})
	defer cleanup()

	ctx := context.Background()
	if err := core.writeSettings(ctx, map[string]string{settingTheme: "neon", settingLanguage: "klingon"}); err != nil {
		t.Fatalf("seed settings: %v", err)
	}
	if got := core.LoadSettings(ctx, "id"); got != (Settings{Theme: ThemeSystem, Language: LanguageIndonesian}) {
		t.Fatalf("expected defaults for corrupt values, got %+v", got)
	}
}

func TestLoadSettingsAfterCloseDegrades(t *testing.T) {
	core, cleanup := setupTestCore(t, Options{})
	defer cleanup()

	_ = core.Close()
	ctx := context.Background()
	if got := core.LoadSettings(ctx, "id-ID"); got != (Settings{Theme: ThemeSystem, Language: LanguageIndonesian}) {
		t.Fatalf("expected defaults when storage is unavailable, got %+v", got)
	}
	if core.HasOnboarded(ctx) {
		t.Fatal("expected onboarding to be reported incomplete")
	}
	_, err := core.UpdateSettings(ctx, SettingsUpdate{Theme: strPtr("dark")})
	if !IsErrorCode(err, ErrCodeDatabase) {
		t.Fatalf("expected DATABASE_ERROR, got %v", err)
	}
}

func TestOnboardingFlag(t *testing.T) {
	core, cleanup := setupTestCore(t, Options{})
	defer cleanup()

	ctx := context.Background()
	if core.HasOnboarded(ctx) {
		t.Fatal("fresh store should not be onboarded")
	}
	if err := core.CompleteOnboarding(ctx); err != nil {
		t.Fatalf("CompleteOnboarding: %v", err)
	}
	if !core.HasOnboarded(ctx) {
		t.Fatal("expected onboarding to persist")
	}
	if err := core.CompleteOnboarding(ctx); err != nil {
		t.Fatalf("second CompleteOnboarding: %v", err)
	}
}
