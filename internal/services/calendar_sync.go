package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/terraincognita07/freelancer-admin/internal/calendar"
	"github.com/terraincognita07/freelancer-admin/internal/logging"
	"github.com/terraincognita07/freelancer-admin/internal/models"
)

const (
	CalendarSyncMaxAttempts = 5
	calendarSyncBatchSize   = 20

	calendarTestSummary     = "ALR Test (from Settings)"
	calendarTestDescription = "Connectivity test from Settings"
	calendarTestLead        = 2 * time.Minute
	calendarTestLength      = 15 * time.Minute
)

var (
	ErrCalendarIDMissing     = errors.New("calendar id missing")
	ErrCalendarNotConfigured = errors.New("calendar not configured")
)

type CalendarClientSource interface {
	Client(ctx context.Context) (calendar.API, error)
}

type CalendarIntentRepository interface {
	Create(intent *models.CalendarIntent) error
	ListPending(limit int) ([]models.CalendarIntent, error)
	UpdateStatus(intentID string, status string, attempts int, lastError string, now time.Time) error
}

type CalendarJobRepository interface {
	FindByID(jobID uint) (models.Job, error)
	UpdateCalendarEventID(jobID uint, eventID string) error
}

// CalendarSyncService mirrors jobs into the external calendar through an
// outbox: requests only record intents, the worker loop performs the calls.
type CalendarSyncService struct {
	intents  CalendarIntentRepository
	jobs     CalendarJobRepository
	settings SettingsRepository
	clients  CalendarClientSource
	logger   logging.Logger
	location *time.Location
	now      func() time.Time
}

func NewCalendarSyncService(
	intents CalendarIntentRepository,
	jobs CalendarJobRepository,
	settings SettingsRepository,
	clients CalendarClientSource,
	logger logging.Logger,
	location *time.Location,
) *CalendarSyncService {
	if location == nil {
		location = time.UTC
	}
	return &CalendarSyncService{
		intents:  intents,
		jobs:     jobs,
		settings: settings,
		clients:  clients,
		logger:   logger.With("component", "calendar-sync"),
		location: location,
		now:      time.Now,
	}
}

func EventSummary(job models.Job) string {
	return fmt.Sprintf("%s - %s", job.Client.Name, job.Role.Name)
}

func (service *CalendarSyncService) EnqueueCreate(ctx context.Context, job models.Job) error {
	settings, err := service.settings.Get()
	if err != nil {
		return err
	}
	payload := models.CalendarEventPayload{
		CalendarID:  settings.EffectiveCalendarID(),
		Summary:     EventSummary(job),
		Description: job.Detail,
		Start:       WallClock(job.StartAt, service.location),
		End:         WallClock(job.EndAt, service.location),
		TimeZone:    service.location.String(),
	}
	return service.enqueue(ctx, job.ID, models.CalendarActionCreate, payload)
}

func (service *CalendarSyncService) EnqueueDelete(ctx context.Context, job models.Job) error {
	if job.CalendarEventID == "" {
		return nil
	}
	settings, err := service.settings.Get()
	if err != nil {
		return err
	}
	payload := models.CalendarEventPayload{
		CalendarID: settings.EffectiveCalendarID(),
		EventID:    job.CalendarEventID,
	}
	return service.enqueue(ctx, job.ID, models.CalendarActionDelete, payload)
}

func (service *CalendarSyncService) enqueue(ctx context.Context, jobID uint, action string, payload models.CalendarEventPayload) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode calendar intent: %w", err)
	}
	now := service.now()
	intent := models.CalendarIntent{
		ID:        uuid.NewString(),
		JobID:     jobID,
		Action:    action,
		Payload:   datatypes.JSON(encoded),
		Status:    models.CalendarIntentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := service.intents.Create(&intent); err != nil {
		return fmt.Errorf("store calendar intent: %w", err)
	}
	service.logger.Info(ctx, "calendar intent queued", "intent_id", intent.ID, "job_id", jobID, "action", action)
	return nil
}

// Run drains the outbox every interval until ctx is cancelled.
func (service *CalendarSyncService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := service.ProcessPending(ctx); err != nil && ctx.Err() == nil {
			service.logger.Error(ctx, "calendar sync pass failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ProcessPending executes one batch of pending intents and reports how many
// reached a terminal state.
func (service *CalendarSyncService) ProcessPending(ctx context.Context) (int, error) {
	intents, err := service.intents.ListPending(calendarSyncBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list calendar intents: %w", err)
	}
	if len(intents) == 0 {
		return 0, nil
	}

	settings, err := service.settings.Get()
	if err != nil {
		return 0, fmt.Errorf("load settings: %w", err)
	}
	if !settings.CalendarEnabled {
		return service.finishAll(intents, models.CalendarIntentSkipped, "calendar sync disabled")
	}

	client, err := service.clients.Client(ctx)
	if errors.Is(err, calendar.ErrNotConfigured) {
		return service.finishAll(intents, models.CalendarIntentSkipped, err.Error())
	}
	if err != nil {
		return 0, fmt.Errorf("build calendar client: %w", err)
	}

	finished := 0
	for _, intent := range intents {
		if ctx.Err() != nil {
			return finished, ctx.Err()
		}
		terminal, err := service.execute(ctx, client, intent)
		if err != nil {
			return finished, err
		}
		if terminal {
			finished++
		}
	}
	return finished, nil
}

func (service *CalendarSyncService) finishAll(intents []models.CalendarIntent, status string, reason string) (int, error) {
	for _, intent := range intents {
		if err := service.intents.UpdateStatus(intent.ID, status, intent.Attempts, reason, service.now()); err != nil {
			return 0, fmt.Errorf("update calendar intent %s: %w", intent.ID, err)
		}
	}
	return len(intents), nil
}

func (service *CalendarSyncService) execute(ctx context.Context, client calendar.API, intent models.CalendarIntent) (bool, error) {
	var payload models.CalendarEventPayload
	if err := json.Unmarshal(intent.Payload, &payload); err != nil {
		return true, service.intents.UpdateStatus(intent.ID, models.CalendarIntentFailed, intent.Attempts, "invalid payload: "+err.Error(), service.now())
	}

	var callErr error
	switch intent.Action {
	case models.CalendarActionCreate:
		if _, err := service.jobs.FindByID(intent.JobID); isNotFound(err) {
			return true, service.intents.UpdateStatus(intent.ID, models.CalendarIntentSkipped, intent.Attempts, "job no longer exists", service.now())
		} else if err != nil {
			return false, fmt.Errorf("load job %d: %w", intent.JobID, err)
		}

		var eventID string
		eventID, callErr = client.CreateEvent(ctx, payload.CalendarID, calendar.Event{
			Summary:     payload.Summary,
			Description: payload.Description,
			Start:       WallClock(payload.Start, service.location),
			End:         WallClock(payload.End, service.location),
			TimeZone:    payload.TimeZone,
		})
		if callErr == nil && eventID != "" {
			if err := service.jobs.UpdateCalendarEventID(intent.JobID, eventID); err != nil {
				// The event exists remotely; retrying would create a duplicate.
				service.logger.Warn(ctx, "calendar event created but id not stored",
					"intent_id", intent.ID,
					"job_id", intent.JobID,
					"event_id", eventID,
					"error", err,
				)
				reason := fmt.Sprintf("event %s created but not linked to job: %v", eventID, err)
				return true, service.intents.UpdateStatus(intent.ID, models.CalendarIntentDone, intent.Attempts+1, reason, service.now())
			}
		}
	case models.CalendarActionDelete:
		callErr = client.DeleteEvent(ctx, payload.CalendarID, payload.EventID)
	default:
		return true, service.intents.UpdateStatus(intent.ID, models.CalendarIntentFailed, intent.Attempts, "unknown action "+intent.Action, service.now())
	}

	attempts := intent.Attempts + 1
	if callErr == nil {
		return true, service.intents.UpdateStatus(intent.ID, models.CalendarIntentDone, attempts, "", service.now())
	}

	service.logger.Warn(ctx, "calendar call failed",
		"intent_id", intent.ID,
		"job_id", intent.JobID,
		"action", intent.Action,
		"attempt", attempts,
		"error", callErr,
	)
	status := models.CalendarIntentPending
	if attempts >= CalendarSyncMaxAttempts {
		status = models.CalendarIntentFailed
	}
	return status != models.CalendarIntentPending, service.intents.UpdateStatus(intent.ID, status, attempts, callErr.Error(), service.now())
}

// TestConnection inserts a short event two minutes from now into the
// configured calendar and returns its id.
func (service *CalendarSyncService) TestConnection(ctx context.Context) (string, error) {
	settings, err := service.settings.Get()
	if err != nil {
		return "", err
	}
	if settings.CalendarID == "" {
		return "", ErrCalendarIDMissing
	}

	client, err := service.clients.Client(ctx)
	if errors.Is(err, calendar.ErrNotConfigured) {
		return "", ErrCalendarNotConfigured
	}
	if err != nil {
		return "", err
	}

	start := service.now().In(service.location).Add(calendarTestLead)
	return client.CreateEvent(ctx, settings.CalendarID, calendar.Event{
		Summary:     calendarTestSummary,
		Description: calendarTestDescription,
		Start:       start,
		End:         start.Add(calendarTestLength),
		TimeZone:    service.location.String(),
	})
}

// CreateDedicatedCalendar creates a new calendar and makes it the sync
// target.
func (service *CalendarSyncService) CreateDedicatedCalendar(ctx context.Context, summary string) (string, error) {
	client, err := service.clients.Client(ctx)
	if errors.Is(err, calendar.ErrNotConfigured) {
		return "", ErrCalendarNotConfigured
	}
	if err != nil {
		return "", err
	}

	calendarID, err := client.CreateCalendar(ctx, summary, service.location.String())
	if err != nil {
		return "", err
	}

	settings, err := service.settings.Get()
	if err != nil {
		return "", err
	}
	if err := service.settings.UpdateByID(settings.ID, map[string]any{"gcal_calendar_id": calendarID}); err != nil {
		return "", err
	}
	return calendarID, nil
}
