package calendar

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"eventmanagement/internal/domain"
)

const productID = "-//eventmanagement//EN"

// Encoder renders events as iCalendar documents.
type Encoder struct {
	// UIDDomain is appended to event ids to build globally unique UIDs.
	UIDDomain string
	now       func() time.Time
}

// NewEncoder returns a CalendarEncoder. uidDomain may be empty.
func NewEncoder(uidDomain string) *Encoder {
	return &Encoder{UIDDomain: uidDomain, now: time.Now}
}

var _ domain.CalendarEncoder = (*Encoder)(nil)

// Encode writes a VCALENDAR with one VEVENT per event.
func (e *Encoder) Encode(events ...*domain.Event) ([]byte, error) {
	if len(events) == 0 {
		return nil, errors.New("calendar: no events to encode")
	}
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	for _, ev := range events {
		cal.Children = append(cal.Children, e.toICal(ev))
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode event to iCal format: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Encoder) toICal(event *domain.Event) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, e.uid(event.ID))
	ve.Props.SetText(ical.PropSummary, event.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, e.now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, event.StartTime.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, event.EndTime.UTC())
	if !event.CreatedAt.IsZero() {
		ve.Props.SetDateTime(ical.PropCreated, event.CreatedAt.UTC())
	}

	if event.Description != "" {
		ve.Props.SetText(ical.PropDescription, event.Description)
	}
	if event.Location != "" {
		ve.Props.SetText(ical.PropLocation, event.Location)
	}
	if event.Host.Email != "" {
		p := ical.NewProp(ical.PropOrganizer)
		p.SetText(fmt.Sprintf("mailto:%s", event.Host.Email))
		if event.Host.Username != "" {
			p.Params.Set(ical.ParamCommonName, event.Host.Username)
		}
		ve.Props.Add(p)
	}
	return ve
}

func (e *Encoder) uid(id string) string {
	if e.UIDDomain == "" {
		return id
	}
	return id + "@" + e.UIDDomain
}
