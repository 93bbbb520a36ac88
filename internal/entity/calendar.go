package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CalendarEventType string

const (
	CalendarFollowUp CalendarEventType = "follow_up"
	CalendarMeeting  CalendarEventType = "meeting"
	CalendarCall     CalendarEventType = "call"
	CalendarDemo     CalendarEventType = "demo"
)

func (t CalendarEventType) Valid() bool {
	switch t {
	case CalendarFollowUp, CalendarMeeting, CalendarCall, CalendarDemo:
		return true
	}
	return false
}

var (
	ErrEventTitleRequired = errors.New("title is required")
	ErrEventTypeInvalid   = errors.New("event_type must be follow_up, meeting, call or demo")
	ErrEventTimeRange     = errors.New("end_time must be after start_time")
)

// CalendarEvent é um compromisso local ligado a um lead.
type CalendarEvent struct {
	ID          string            `json:"id"`
	LeadID      string            `json:"lead_id"`
	UserID      string            `json:"user_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	EventType   CalendarEventType `json:"event_type"`
	CreatedAt   time.Time         `json:"created_at"`
}

func NewCalendarEvent(leadID, userID, title, description string, start, end time.Time, typ CalendarEventType) (*CalendarEvent, error) {
	e := &CalendarEvent{
		ID:          uuid.New().String(),
		LeadID:      leadID,
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		StartTime:   start.UTC().Truncate(time.Microsecond),
		EndTime:     end.UTC().Truncate(time.Microsecond),
		EventType:   typ,
		CreatedAt:   Now(),
	}
	if e.Title == "" {
		return nil, ErrEventTitleRequired
	}
	if !typ.Valid() {
		return nil, ErrEventTypeInvalid
	}
	if !e.EndTime.After(e.StartTime) {
		return nil, ErrEventTimeRange
	}
	return e, nil
}

type CalendarEventRepositoryInterface interface {
	Create(ctx context.Context, e *CalendarEvent) error
	// ListByUser ordena por start_time.
	ListByUser(ctx context.Context, userID string, limit int) ([]*CalendarEvent, error)
}
