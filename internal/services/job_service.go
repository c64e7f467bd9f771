package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/freelancer-admin/internal/billing"
	"github.com/terraincognita07/freelancer-admin/internal/logging"
	"github.com/terraincognita07/freelancer-admin/internal/models"
)

const PastJobsLimit = 100

var (
	ErrJobRoleMismatch = errors.New("role does not belong to client")
	ErrJobInvalidRange = errors.New("job start or end missing")
)

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(jobID uint) (models.Job, error)
	DeleteByID(jobID uint) error
	ListUpcoming(now time.Time) ([]models.Job, error)
	ListPast(now time.Time, limit int) ([]models.Job, error)
}

type JobRoleReader interface {
	FindByID(roleID uint) (models.Role, error)
}

type JobHolidayReader interface {
	List() ([]models.Holiday, error)
}

// CalendarOutbox records calendar side effects for later execution.
type CalendarOutbox interface {
	EnqueueCreate(ctx context.Context, job models.Job) error
	EnqueueDelete(ctx context.Context, job models.Job) error
}

type JobInput struct {
	ClientID   uint
	RoleID     uint
	Start      time.Time
	End        time.Time
	VATPercent int
	Detail     string
}

type JobBoard struct {
	Upcoming []models.Job
	Past     []models.Job
}

type JobService struct {
	jobs     JobRepository
	roles    JobRoleReader
	holidays JobHolidayReader
	settings SettingsRepository
	outbox   CalendarOutbox
	logger   logging.Logger
	location *time.Location
}

func NewJobService(
	jobs JobRepository,
	roles JobRoleReader,
	holidays JobHolidayReader,
	settings SettingsRepository,
	outbox CalendarOutbox,
	logger logging.Logger,
	location *time.Location,
) *JobService {
	if location == nil {
		location = time.UTC
	}
	return &JobService{
		jobs:     jobs,
		roles:    roles,
		holidays: holidays,
		settings: settings,
		outbox:   outbox,
		logger:   logger,
		location: location,
	}
}

func (service *JobService) Board(now time.Time) (JobBoard, error) {
	localNow := WallClock(now.In(service.location), service.location)
	upcoming, err := service.jobs.ListUpcoming(localNow)
	if err != nil {
		return JobBoard{}, err
	}
	past, err := service.jobs.ListPast(localNow, PastJobsLimit)
	if err != nil {
		return JobBoard{}, err
	}
	return JobBoard{Upcoming: upcoming, Past: past}, nil
}

// Create annotates the detail with surcharge flags, stores the job and, when
// calendar sync is on, queues an event for it. Queueing failures are logged
// and never fail the request.
func (service *JobService) Create(ctx context.Context, input JobInput) (models.Job, error) {
	if input.Start.IsZero() || input.End.IsZero() {
		return models.Job{}, ErrJobInvalidRange
	}
	if input.VATPercent < 0 || input.VATPercent > 100 {
		return models.Job{}, ErrVATPercentInvalid
	}

	role, err := service.roles.FindByID(input.RoleID)
	if err != nil {
		return models.Job{}, err
	}
	if role.ClientID != input.ClientID {
		return models.Job{}, ErrJobRoleMismatch
	}

	holidays, err := service.holidays.List()
	if err != nil {
		return models.Job{}, err
	}
	settings, err := service.settings.Get()
	if err != nil {
		return models.Job{}, err
	}

	start := WallClock(input.Start, service.location)
	end := WallClock(input.End, service.location)
	flags := billing.SurchargeFlags(start, end, holidays, settings.NightStartHour, settings.NightEndHour)

	job := models.Job{
		ClientID:   input.ClientID,
		RoleID:     input.RoleID,
		StartAt:    start,
		EndAt:      end,
		VATPercent: input.VATPercent,
		Detail:     billing.AnnotateDetail(strings.TrimSpace(input.Detail), flags),
	}
	if err := service.jobs.Create(&job); err != nil {
		return models.Job{}, err
	}

	stored, err := service.jobs.FindByID(job.ID)
	if err != nil {
		return models.Job{}, err
	}
	if settings.CalendarEnabled && service.outbox != nil {
		if err := service.outbox.EnqueueCreate(ctx, stored); err != nil {
			service.logger.Warn(ctx, "calendar create not queued", "job_id", stored.ID, "error", err)
		}
	}
	return stored, nil
}

func (service *JobService) Delete(ctx context.Context, jobID uint) error {
	job, err := service.jobs.FindByID(jobID)
	if err != nil {
		return err
	}

	if job.CalendarEventID != "" && service.outbox != nil {
		settings, err := service.settings.Get()
		if err != nil {
			return err
		}
		if settings.CalendarEnabled {
			if err := service.outbox.EnqueueDelete(ctx, job); err != nil {
				service.logger.Warn(ctx, "calendar delete not queued", "job_id", job.ID, "error", err)
			}
		}
	}
	return service.jobs.DeleteByID(jobID)
}
