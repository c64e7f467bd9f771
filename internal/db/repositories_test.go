package db

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	database := openSQLiteForMigrationBootstrapTest(t, filepath.Join(t.TempDir(), "repos.db"))
	return NewRepositories(database)
}

func seedClientWithRole(t *testing.T, repos *Repositories, name string, mode string, rate float64) (models.Client, models.Role) {
	t.Helper()

	client := models.Client{Name: name, DefaultVATPercent: 25}
	if err := repos.Clients.Create(&client); err != nil {
		t.Fatalf("create client: %v", err)
	}
	vat := 25
	role := models.Role{ClientID: client.ID, Name: name + " role", Mode: mode, Rate: rate, VATPercent: &vat, Active: true}
	if err := repos.Roles.Create(&role); err != nil {
		t.Fatalf("create role: %v", err)
	}
	return client, role
}

func TestSettingsRepositoryGetCreatesSingleton(t *testing.T) {
	repos := newTestRepositories(t)

	first, err := repos.Settings.Get()
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	second, err := repos.Settings.Get()
	if err != nil {
		t.Fatalf("second Get() unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected singleton id to be stable, got %d and %d", first.ID, second.ID)
	}
	if first.NightEndHour != 8 || first.NetRatePercent != 70 || first.CalendarID != "primary" || first.CurrencyCode != "SEK" {
		t.Fatalf("unexpected defaults: %#v", first)
	}

	var count int64
	if err := repos.Settings.database.Model(&models.Settings{}).Count(&count).Error; err != nil {
		t.Fatalf("count settings: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one settings row, got %d", count)
	}
}

func TestSettingsRepositoryUpdateKeepsZeroValues(t *testing.T) {
	repos := newTestRepositories(t)
	settings, err := repos.Settings.Get()
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}

	if err := repos.Settings.UpdateByID(settings.ID, map[string]any{"night_end_hour": 0, "night_start_hour": 22}); err != nil {
		t.Fatalf("UpdateByID() unexpected error: %v", err)
	}
	updated, err := repos.Settings.Get()
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if updated.NightStartHour != 22 || updated.NightEndHour != 0 {
		t.Fatalf("expected night window 22-0, got %d-%d", updated.NightStartHour, updated.NightEndHour)
	}
}

func TestInvoiceStatusFindOrCreateIsIdempotent(t *testing.T) {
	repos := newTestRepositories(t)
	client, _ := seedClientWithRole(t, repos, "Acme", models.RoleModeHourly, 100)

	first, err := repos.InvoiceStatuses.FindOrCreate(client.ID, 2024, 3)
	if err != nil {
		t.Fatalf("FindOrCreate() unexpected error: %v", err)
	}
	if first.Sent || first.Paid || first.InvoiceNumber != nil {
		t.Fatalf("expected fresh status to be unsent and unpaid, got %#v", first)
	}

	if err := repos.InvoiceStatuses.UpdateByID(first.ID, map[string]any{"sent": true}); err != nil {
		t.Fatalf("UpdateByID() unexpected error: %v", err)
	}

	second, err := repos.InvoiceStatuses.FindOrCreate(client.ID, 2024, 3)
	if err != nil {
		t.Fatalf("second FindOrCreate() unexpected error: %v", err)
	}
	if second.ID != first.ID || !second.Sent {
		t.Fatalf("expected the existing row to be returned, got %#v", second)
	}

	var count int64
	if err := repos.InvoiceStatuses.database.Model(&models.InvoiceStatus{}).Count(&count).Error; err != nil {
		t.Fatalf("count statuses: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one status row, got %d", count)
	}
}

func TestJobRepositoryListings(t *testing.T) {
	repos := newTestRepositories(t)
	client, role := seedClientWithRole(t, repos, "Acme", models.RoleModeHourly, 100)
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	starts := []time.Time{
		time.Date(2023, time.December, 31, 22, 0, 0, 0, time.UTC),
		time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2024, time.June, 20, 8, 0, 0, 0, time.UTC),
	}
	for _, start := range starts {
		job := models.Job{ClientID: client.ID, RoleID: role.ID, StartAt: start, EndAt: start.Add(2 * time.Hour), VATPercent: 25}
		if err := repos.Jobs.Create(&job); err != nil {
			t.Fatalf("create job: %v", err)
		}
	}

	upcoming, err := repos.Jobs.ListUpcoming(now)
	if err != nil {
		t.Fatalf("ListUpcoming() unexpected error: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].Role.Name != "Acme role" || upcoming[0].Client.Name != "Acme" {
		t.Fatalf("unexpected upcoming jobs: %#v", upcoming)
	}

	past, err := repos.Jobs.ListPast(now, 100)
	if err != nil {
		t.Fatalf("ListPast() unexpected error: %v", err)
	}
	if len(past) != 2 || !past[0].StartAt.After(past[1].StartAt) {
		t.Fatalf("expected two past jobs newest first, got %#v", past)
	}

	june, err := repos.Jobs.ListStartingBetween(
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("ListStartingBetween() unexpected error: %v", err)
	}
	if len(june) != 2 {
		t.Fatalf("expected two june jobs, got %d", len(june))
	}

	years, err := repos.Jobs.ListYears()
	if err != nil {
		t.Fatalf("ListYears() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(years, []int{2023, 2024}) {
		t.Fatalf("ListYears() = %v, want [2023 2024]", years)
	}

	if err := repos.Jobs.DeleteByID(june[0].ID); err != nil {
		t.Fatalf("DeleteByID() unexpected error: %v", err)
	}
	if err := repos.Jobs.DeleteByID(june[0].ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on second delete, got %v", err)
	}
}

func TestHolidayRepositoryFindByDate(t *testing.T) {
	repos := newTestRepositories(t)
	holiday := models.Holiday{Date: time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC), Name: "Christmas", SurchargeText: "+100%"}
	if err := repos.Holidays.Create(&holiday); err != nil {
		t.Fatalf("create holiday: %v", err)
	}

	found, err := repos.Holidays.FindByDate(time.Date(2024, time.December, 25, 18, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FindByDate() unexpected error: %v", err)
	}
	if found.Name != "Christmas" {
		t.Fatalf("expected Christmas, got %q", found.Name)
	}

	if _, err := repos.Holidays.FindByDate(time.Date(2024, time.December, 26, 0, 0, 0, 0, time.UTC)); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	duplicate := models.Holiday{Date: holiday.Date, Name: "Again"}
	if err := repos.Holidays.Create(&duplicate); err == nil {
		t.Fatal("expected unique date violation")
	}
}

func TestCalendarIntentRepositoryListPendingOldestFirst(t *testing.T) {
	repos := newTestRepositories(t)
	base := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

	for index, id := range []string{"b", "a", "c"} {
		intent := models.CalendarIntent{
			ID:        id,
			JobID:     uint(index + 1),
			Action:    models.CalendarActionCreate,
			Payload:   datatypes.JSON(`{}`),
			Status:    models.CalendarIntentPending,
			CreatedAt: base.Add(time.Duration(index) * time.Minute),
		}
		if err := repos.CalendarIntents.Create(&intent); err != nil {
			t.Fatalf("create intent: %v", err)
		}
	}
	if err := repos.CalendarIntents.UpdateStatus("a", models.CalendarIntentDone, 1, "", base); err != nil {
		t.Fatalf("UpdateStatus() unexpected error: %v", err)
	}

	pending, err := repos.CalendarIntents.ListPending(10)
	if err != nil {
		t.Fatalf("ListPending() unexpected error: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "b" || pending[1].ID != "c" {
		t.Fatalf("unexpected pending intents: %#v", pending)
	}
}
