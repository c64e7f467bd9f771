package services

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

type stubSettingsRepository struct {
	settings models.Settings
	updates  map[string]any
}

func (stub *stubSettingsRepository) Get() (models.Settings, error) {
	return stub.settings, nil
}

func (stub *stubSettingsRepository) UpdateByID(_ uint, updates map[string]any) error {
	stub.updates = updates
	return nil
}

func stringPtr(value string) *string {
	return &value
}

func boolPtr(value bool) *bool {
	return &value
}

func TestSettingsUpdateOnlyTouchesSubmittedKeys(t *testing.T) {
	repo := &stubSettingsRepository{settings: models.DefaultSettings()}
	service := NewSettingsService(repo)

	err := service.Update(SettingsUpdate{
		NightStartHour: stringPtr("22"),
		NightEndHour:   stringPtr("six"),
		CalendarID:     stringPtr("  "),
		LoginEnabled:   boolPtr(true),
	})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}

	want := map[string]any{
		"night_start_hour": 22,
		"gcal_calendar_id": "primary",
		"login_enabled":    true,
	}
	if len(repo.updates) != len(want) {
		t.Fatalf("expected %d updates, got %#v", len(want), repo.updates)
	}
	for key, value := range want {
		if repo.updates[key] != value {
			t.Fatalf("expected %s=%v, got %v", key, value, repo.updates[key])
		}
	}
}

func TestSettingsUpdateNetRateFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		raw     string
		want    float64
	}{
		{name: "comma decimal", current: 70, raw: "72,5", want: 72.5},
		{name: "garbage keeps current", current: 70, raw: "abc", want: 70},
		{name: "garbage with unset current", current: 0, raw: "abc", want: 63},
		{name: "infinity keeps current", current: 70, raw: "inf", want: 70},
		{name: "nan keeps current", current: 72.5, raw: "NaN", want: 72.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := models.DefaultSettings()
			settings.NetRatePercent = tt.current
			repo := &stubSettingsRepository{settings: settings}

			if err := NewSettingsService(repo).Update(SettingsUpdate{NetRatePercent: stringPtr(tt.raw)}); err != nil {
				t.Fatalf("Update() unexpected error: %v", err)
			}
			if repo.updates["net_rate_percent"] != tt.want {
				t.Fatalf("net_rate_percent = %v, want %v", repo.updates["net_rate_percent"], tt.want)
			}
		})
	}
}

func TestSettingsUpdateIgnoresBlankPasswordAndHashesNewOne(t *testing.T) {
	repo := &stubSettingsRepository{settings: models.DefaultSettings()}
	service := NewSettingsService(repo)

	if err := service.Update(SettingsUpdate{LoginPassword: stringPtr("   ")}); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if _, ok := repo.updates["login_password_hash"]; ok {
		t.Fatal("expected blank password to be ignored")
	}

	if err := service.Update(SettingsUpdate{LoginPassword: stringPtr("s3cret-pass")}); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	hash, _ := repo.updates["login_password_hash"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-pass")) != nil {
		t.Fatal("expected stored hash to match the new password")
	}
}

func TestVerifyLoginPassword(t *testing.T) {
	service := NewSettingsService(nil)
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	settings := models.Settings{LoginPasswordHash: string(hash)}

	if err := service.VerifyLoginPassword(settings, "letmein"); err != nil {
		t.Fatalf("expected password to verify, got %v", err)
	}
	if err := service.VerifyLoginPassword(settings, "nope"); !errors.Is(err, ErrSettingsPasswordInvalid) {
		t.Fatalf("expected ErrSettingsPasswordInvalid, got %v", err)
	}
	if err := service.VerifyLoginPassword(settings, " "); !errors.Is(err, ErrSettingsPasswordMissing) {
		t.Fatalf("expected ErrSettingsPasswordMissing, got %v", err)
	}
	if err := service.VerifyLoginPassword(models.Settings{}, "letmein"); !errors.Is(err, ErrLoginPasswordNotSet) {
		t.Fatalf("expected ErrLoginPasswordNotSet, got %v", err)
	}
}

func TestSetLoginPasswordEnablesGate(t *testing.T) {
	repo := &stubSettingsRepository{settings: models.DefaultSettings()}
	if err := NewSettingsService(repo).SetLoginPassword("Temp1234", true); err != nil {
		t.Fatalf("SetLoginPassword() unexpected error: %v", err)
	}
	if repo.updates["login_enabled"] != true {
		t.Fatalf("expected login gate to be enabled, got %#v", repo.updates)
	}
}
