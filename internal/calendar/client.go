// Package calendar wraps the Google Calendar v3 service for the three calls
// the app makes: insert event, delete event and create calendar.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	calendarv3 "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const DefaultBaseURL = "https://www.googleapis.com/calendar/v3/"

var ErrNotConfigured = errors.New("calendar credentials or token are not configured")

type Event struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
}

// API is the subset of the calendar service the app calls.
type API interface {
	CreateEvent(ctx context.Context, calendarID string, event Event) (string, error)
	DeleteEvent(ctx context.Context, calendarID string, eventID string) error
	CreateCalendar(ctx context.Context, summary string, timeZone string) (string, error)
}

type Client struct {
	service *calendarv3.Service
}

// NewClient expects an http.Client that already authenticates requests,
// typically one built by oauth2.NewClient. baseURL overrides the Google
// endpoint.
func NewClient(ctx context.Context, httpClient *http.Client, baseURL string) (*Client, error) {
	if httpClient == nil {
		return nil, ErrNotConfigured
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	service, err := calendarv3.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(baseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("build calendar service: %w", err)
	}
	return &Client{service: service}, nil
}

func (c *Client) CreateEvent(ctx context.Context, calendarID string, event Event) (string, error) {
	created, err := c.service.Events.Insert(calendarID, &calendarv3.Event{
		Summary:     event.Summary,
		Description: strings.TrimSpace(event.Description),
		Start:       eventDateTime(event.Start, event.TimeZone),
		End:         eventDateTime(event.End, event.TimeZone),
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert calendar event: %w", err)
	}
	return created.Id, nil
}

// DeleteEvent counts an event that is already gone as deleted.
func (c *Client) DeleteEvent(ctx context.Context, calendarID string, eventID string) error {
	err := c.service.Events.Delete(calendarID, eventID).Context(ctx).Do()
	if err == nil || IsGone(err) {
		return nil
	}
	return fmt.Errorf("delete calendar event: %w", err)
}

func (c *Client) CreateCalendar(ctx context.Context, summary string, timeZone string) (string, error) {
	created, err := c.service.Calendars.Insert(&calendarv3.Calendar{
		Summary:  summary,
		TimeZone: timeZone,
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert calendar: %w", err)
	}
	return created.Id, nil
}

// IsGone reports a 404 or 410 answer from the calendar API.
func IsGone(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
}

func eventDateTime(at time.Time, timeZone string) *calendarv3.EventDateTime {
	return &calendarv3.EventDateTime{
		DateTime: at.Format(time.RFC3339),
		TimeZone: timeZone,
	}
}
