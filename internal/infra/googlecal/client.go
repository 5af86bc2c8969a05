package googlecal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"reservation-engine/internal/domain/event"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/usecase/commands"
)

// Client talks to the calendar-of-record over its REST API. It implements
// commands.ExternalCalendar.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.CalendarConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type eventTime struct {
	DateTime time.Time `json:"dateTime"`
	TimeZone string    `json:"timeZone,omitempty"`
}

type attendee struct {
	Email string `json:"email"`
}

type eventResource struct {
	ID          string     `json:"id,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Start       eventTime  `json:"start"`
	End         eventTime  `json:"end"`
	Attendees   []attendee `json:"attendees,omitempty"`
	Status      string     `json:"status,omitempty"`
}

type eventList struct {
	Items []eventResource `json:"items"`
}

type calendarResource struct {
	ID      string `json:"id,omitempty"`
	Summary string `json:"summary,omitempty"`
}

func (c *Client) FetchEventsInRange(ctx context.Context, calendarID string, start, end time.Time) ([]event.BusyWindow, error) {
	params := url.Values{}
	params.Set("timeMin", start.Format(time.RFC3339))
	params.Set("timeMax", end.Format(time.RFC3339))
	params.Set("singleEvents", "true")

	var list eventList
	path := fmt.Sprintf("/calendars/%s/events?%s", url.PathEscape(calendarID), params.Encode())
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}

	windows := make([]event.BusyWindow, 0, len(list.Items))
	for _, item := range list.Items {
		if item.Status == "cancelled" {
			continue
		}
		w, err := event.NewTimeWindow(item.Start.DateTime, item.End.DateTime)
		if err != nil {
			continue
		}
		windows = append(windows, event.BusyWindow{CalendarID: calendarID, Window: w})
	}
	return windows, nil
}

func (c *Client) InsertEvent(ctx context.Context, calendarID string, body commands.ExternalEventBody) (commands.ExternalEvent, error) {
	var out eventResource
	path := fmt.Sprintf("/calendars/%s/events", url.PathEscape(calendarID))
	if err := c.do(ctx, http.MethodPost, path, toResource(body), &out); err != nil {
		return commands.ExternalEvent{}, err
	}
	return fromResource(out), nil
}

func (c *Client) GetEvent(ctx context.Context, calendarID, eventID string) (commands.ExternalEvent, error) {
	var out eventResource
	path := fmt.Sprintf("/calendars/%s/events/%s", url.PathEscape(calendarID), url.PathEscape(eventID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return commands.ExternalEvent{}, err
	}
	return fromResource(out), nil
}

func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, body commands.ExternalEventBody) (commands.ExternalEvent, error) {
	var out eventResource
	path := fmt.Sprintf("/calendars/%s/events/%s", url.PathEscape(calendarID), url.PathEscape(eventID))
	if err := c.do(ctx, http.MethodPut, path, toResource(body), &out); err != nil {
		return commands.ExternalEvent{}, err
	}
	return fromResource(out), nil
}

func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	path := fmt.Sprintf("/calendars/%s/events/%s", url.PathEscape(calendarID), url.PathEscape(eventID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) CreateCalendar(ctx context.Context, summary string) (string, error) {
	var out calendarResource
	if err := c.do(ctx, http.MethodPost, "/calendars", calendarResource{Summary: summary}, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) CheckCalendarAccess(ctx context.Context, calendarID string) error {
	path := fmt.Sprintf("/calendars/%s", url.PathEscape(calendarID))
	return c.do(ctx, http.MethodGet, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return infra.WrapRepoErr("failed to encode calendar request", err, infra.KindExternalFailure)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return infra.WrapRepoErr("failed to build calendar request", err, infra.KindExternalFailure)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return infra.WrapRepoErr("calendar request failed", err, infra.KindExternalFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return infra.WrapRepoErr("calendar resource not found", errStatus(resp), infra.KindNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return infra.WrapRepoErr("calendar request rejected", errStatus(resp), infra.KindExternalFailure)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return infra.WrapRepoErr("failed to decode calendar response", err, infra.KindExternalFailure)
	}
	return nil
}

func errStatus(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
}

func toResource(body commands.ExternalEventBody) eventResource {
	res := eventResource{
		Summary:     body.Summary,
		Description: body.Description,
		Start:       eventTime{DateTime: body.Start, TimeZone: body.TimeZone},
		End:         eventTime{DateTime: body.End, TimeZone: body.TimeZone},
	}
	if body.AttendeeEmail != "" {
		res.Attendees = []attendee{{Email: body.AttendeeEmail}}
	}
	return res
}

func fromResource(res eventResource) commands.ExternalEvent {
	return commands.ExternalEvent{
		ID:          res.ID,
		Summary:     res.Summary,
		Description: res.Description,
		Start:       res.Start.DateTime,
		End:         res.End.DateTime,
	}
}
