package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/freelancer-admin/internal/db"
	"github.com/terraincognita07/freelancer-admin/internal/logging"
	"github.com/terraincognita07/freelancer-admin/internal/models"
)

type serviceFixture struct {
	repos    *db.Repositories
	location *time.Location
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "services.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return serviceFixture{repos: db.NewRepositories(database), location: time.UTC}
}

func (fixture serviceFixture) seedClientRole(t *testing.T, clientName string, mode string, rate float64, vat int) (models.Client, models.Role) {
	t.Helper()

	service := NewClientService(fixture.repos.Clients, fixture.repos.Roles)
	client, err := service.CreateClient(ClientInput{Name: clientName, DefaultVATPercent: vat})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	role, err := service.AddRole(RoleInput{ClientID: client.ID, Name: clientName + " " + mode, Mode: mode, Rate: rate, VATPercent: vat})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	return client, role
}

func (fixture serviceFixture) seedJob(t *testing.T, client models.Client, role models.Role, start time.Time, end time.Time) models.Job {
	t.Helper()

	job := models.Job{ClientID: client.ID, RoleID: role.ID, StartAt: start, EndAt: end, VATPercent: 25}
	if err := fixture.repos.Jobs.Create(&job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}

func (fixture serviceFixture) updateSettings(t *testing.T, updates map[string]any) {
	t.Helper()

	settings, err := fixture.repos.Settings.Get()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if err := fixture.repos.Settings.UpdateByID(settings.ID, updates); err != nil {
		t.Fatalf("update settings: %v", err)
	}
}

func (fixture serviceFixture) jobService(outbox CalendarOutbox) *JobService {
	return NewJobService(
		fixture.repos.Jobs,
		fixture.repos.Roles,
		fixture.repos.Holidays,
		fixture.repos.Settings,
		outbox,
		logging.Discard(),
		fixture.location,
	)
}

func localTime(value string) time.Time {
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		panic(err)
	}
	return parsed
}
