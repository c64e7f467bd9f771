package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/freelancer-admin/internal/calendar"
	"github.com/terraincognita07/freelancer-admin/internal/db"
	"github.com/terraincognita07/freelancer-admin/internal/storage"
	"github.com/terraincognita07/freelancer-admin/internal/templates"
)

type fakeCalendar struct {
	credentials  bool
	token        bool
	createErr    error
	createdEvent string
	events       []calendar.Event
}

func (fake *fakeCalendar) Client(context.Context) (calendar.API, error) {
	if !fake.credentials || !fake.token {
		return nil, calendar.ErrNotConfigured
	}
	return fake, nil
}

func (fake *fakeCalendar) CreateEvent(_ context.Context, _ string, event calendar.Event) (string, error) {
	if fake.createErr != nil {
		return "", fake.createErr
	}
	fake.events = append(fake.events, event)
	return fake.createdEvent, nil
}

func (fake *fakeCalendar) DeleteEvent(context.Context, string, string) error { return nil }

func (fake *fakeCalendar) CreateCalendar(context.Context, string, string) (string, error) {
	return "dedicated@group.calendar.google.com", nil
}

func (fake *fakeCalendar) HasCredentials(context.Context) bool { return fake.credentials }
func (fake *fakeCalendar) HasToken(context.Context) bool       { return fake.token }

func (fake *fakeCalendar) SaveCredentials(context.Context, []byte) error {
	fake.credentials = true
	return nil
}

func (fake *fakeCalendar) Disconnect(context.Context) error {
	fake.token = false
	return nil
}

func (fake *fakeCalendar) AuthCodeURL(_ context.Context, redirectURL string, state string) (string, error) {
	if !fake.credentials {
		return "", calendar.ErrNotConfigured
	}
	return "https://accounts.example.com/auth?redirect_uri=" + url.QueryEscape(redirectURL) + "&state=" + state, nil
}

func (fake *fakeCalendar) Exchange(context.Context, string, string) error {
	fake.token = true
	return nil
}

type testApp struct {
	app      *fiber.App
	handler  *Handler
	repos    *db.Repositories
	uploads  *storage.LocalStore
	calendar *fakeCalendar
}

func newTestApp(t *testing.T) testApp {
	t.Helper()

	root := t.TempDir()
	database, err := db.OpenSQLite(filepath.Join(root, "freelancer-test.db"))
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

	uploads, err := storage.NewLocalStore(filepath.Join(root, "uploads"))
	if err != nil {
		t.Fatalf("open upload store: %v", err)
	}

	repos := db.NewRepositories(database)
	connector := &fakeCalendar{createdEvent: "evt-test"}
	handler, err := NewHandler(Config{
		AppName:   "Freelancer Admin",
		SecretKey: "test-secret-key",
		Location:  time.UTC,
		Templates: templates.FS,
	}, Dependencies{
		Repositories: repos,
		Uploads:      uploads,
		Calendar:     connector,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	app.Use(NoCache)
	RegisterRoutes(app, handler)
	return testApp{app: app, handler: handler, repos: repos, uploads: uploads, calendar: connector}
}

func (fixture testApp) do(t *testing.T, request *http.Request) *http.Response {
	t.Helper()

	response, err := fixture.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func (fixture testApp) get(t *testing.T, target string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	request := httptest.NewRequest(http.MethodGet, target, nil)
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	return fixture.do(t, request)
}

func (fixture testApp) postForm(t *testing.T, target string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	return fixture.do(t, request)
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func readBody(t *testing.T, body io.Reader) string {
	t.Helper()

	content, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return string(content)
}

func readJSON(t *testing.T, body io.Reader) map[string]any {
	t.Helper()

	payload := map[string]any{}
	if err := json.Unmarshal([]byte(readBody(t, body)), &payload); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return payload
}

func assertStatus(t *testing.T, response *http.Response, expected int) {
	t.Helper()
	if response.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, response.StatusCode)
	}
}

func assertRedirect(t *testing.T, response *http.Response, expectedPath string) {
	t.Helper()
	assertStatus(t, response, http.StatusSeeOther)
	location, err := url.Parse(response.Header.Get("Location"))
	if err != nil {
		t.Fatalf("parse redirect location: %v", err)
	}
	if location.Path != expectedPath {
		t.Fatalf("expected redirect to %s, got %s", expectedPath, location.String())
	}
}

func mustDate(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		t.Fatalf("parse date %q: %v", raw, err)
	}
	return parsed
}

func mustDateTime(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", raw, time.UTC)
	if err != nil {
		t.Fatalf("parse datetime %q: %v", raw, err)
	}
	return parsed
}
