package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/terraincognita07/freelancer-admin/internal/models"
	"github.com/terraincognita07/freelancer-admin/internal/services"
)

func seedClientWithRole(t *testing.T, fixture testApp, name string, mode string, rate float64) (models.Client, models.Role) {
	t.Helper()

	client, err := fixture.handler.clients.CreateClient(services.ClientInput{Name: name, DefaultVATPercent: 25})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	role, err := fixture.handler.clients.AddRole(services.RoleInput{
		ClientID:   client.ID,
		Name:       name + " " + mode,
		Mode:       mode,
		Rate:       rate,
		VATPercent: 25,
	})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	return client, role
}

func TestAddJobStoresAnnotatedJob(t *testing.T) {
	fixture := newTestApp(t)
	client, role := seedClientWithRole(t, fixture, "Acme", models.RoleModeHourly, 500)
	if _, err := fixture.handler.holidays.Add(services.HolidayInput{Date: "2024-12-25", Name: "Christmas", SurchargeText: "+100%"}); err != nil {
		t.Fatalf("add holiday: %v", err)
	}

	response := fixture.postForm(t, "/add-job", url.Values{
		"client_id":   {fmt.Sprint(client.ID)},
		"role_id":     {fmt.Sprint(role.ID)},
		"start_dt":    {"2024-12-25T10:00"},
		"end_dt":      {"2024-12-25T14:00"},
		"vat_percent": {"25"},
		"detail":      {"Shoot"},
	})
	assertRedirect(t, response, "/")

	jobs, err := fixture.repos.Jobs.ListStartingBetween(mustDate(t, "2024-12-01"), mustDate(t, "2025-01-01"))
	if err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected one stored job, got %d", len(jobs))
	}
	if jobs[0].Detail != "Shoot (holiday)" {
		t.Fatalf("expected holiday annotation in detail, got %q", jobs[0].Detail)
	}
	if jobs[0].StartAt.Hour() != 10 {
		t.Fatalf("expected wall-clock start hour 10, got %d", jobs[0].StartAt.Hour())
	}
}

func TestAddJobRejectsRoleOfOtherClient(t *testing.T) {
	fixture := newTestApp(t)
	acme, _ := seedClientWithRole(t, fixture, "Acme", models.RoleModeHourly, 500)
	_, globexRole := seedClientWithRole(t, fixture, "Globex", models.RoleModeDaily, 2000)

	response := fixture.postForm(t, "/add-job", url.Values{
		"client_id": {fmt.Sprint(acme.ID)},
		"role_id":   {fmt.Sprint(globexRole.ID)},
		"start_dt":  {"2024-03-01T10:00"},
		"end_dt":    {"2024-03-01T12:00"},
	})
	assertRedirect(t, response, "/")
	flash := responseCookie(response.Cookies(), flashCookieName)
	if flash == nil || flash.Value == "" {
		t.Fatal("expected an error flash")
	}

	jobs, err := fixture.repos.Jobs.ListStartingBetween(mustDate(t, "2024-03-01"), mustDate(t, "2024-04-01"))
	if err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected no stored job, got %d", len(jobs))
	}
}

func TestAddJobRequiresDates(t *testing.T) {
	fixture := newTestApp(t)
	client, role := seedClientWithRole(t, fixture, "Acme", models.RoleModeHourly, 500)

	response := fixture.postForm(t, "/add-job", url.Values{
		"client_id": {fmt.Sprint(client.ID)},
		"role_id":   {fmt.Sprint(role.ID)},
		"start_dt":  {"tomorrow"},
		"end_dt":    {"2024-03-01T12:00"},
	})
	assertRedirect(t, response, "/")
}

func TestDeleteJob(t *testing.T) {
	fixture := newTestApp(t)
	client, role := seedClientWithRole(t, fixture, "Acme", models.RoleModeHourly, 500)
	job := models.Job{
		ClientID:   client.ID,
		RoleID:     role.ID,
		StartAt:    mustDateTime(t, "2024-03-01 10:00"),
		EndAt:      mustDateTime(t, "2024-03-01 12:00"),
		VATPercent: 25,
	}
	if err := fixture.repos.Jobs.Create(&job); err != nil {
		t.Fatalf("create job: %v", err)
	}

	response := fixture.postForm(t, fmt.Sprintf("/jobs/%d/delete", job.ID), url.Values{})
	assertRedirect(t, response, "/")

	missing := fixture.postForm(t, fmt.Sprintf("/jobs/%d/delete", job.ID), url.Values{})
	assertStatus(t, missing, http.StatusNotFound)
}

func TestJobsPageListsClientsAndRoles(t *testing.T) {
	fixture := newTestApp(t)
	seedClientWithRole(t, fixture, "Acme", models.RoleModeHourly, 500)

	response := fixture.get(t, "/")
	assertStatus(t, response, http.StatusOK)
	body := readBody(t, response.Body)
	if !strings.Contains(body, "Acme") || !strings.Contains(body, "Acme hourly") {
		t.Fatalf("expected client and role in the jobs page")
	}
}
