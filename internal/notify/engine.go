// Package notify decides which rider-visible alerts to emit: inbound
// structured payloads are validated against a per-type field table,
// locally computed proximity crossings become approaching/arriving
// alerts, and everything is keyed for dedup before dispatch.
package notify

import (
	"fmt"
	"hash/fnv"
	"log"
	"strconv"
	"time"

	"campusride-backend/internal/apperr"
)

// Priority orders platform interruption behavior (sound/vibration
// intensity), not suppression: alerts for different shuttles coexist.
type Priority int

const (
	PriorityLow     Priority = iota // generic fallback
	PriorityDefault                 // delay, breakdown
	PriorityHigh                    // approaching
	PriorityMax                     // arriving
)

// Payload types accepted from the inbound transport
const (
	TypeApproaching = "shuttle_approaching"
	TypeArriving    = "shuttle_arriving"
	TypeBreakdown   = "shuttle_breakdown"
	TypeDelay       = "shuttle_delay"
	TypeGeneric     = "generic"
)

// Vibration patterns per alert class (milliseconds, off/on pairs)
var (
	vibrateApproaching = []int64{0, 500, 200, 500}
	vibrateArriving    = []int64{0, 1000, 500, 1000}
)

// Alert is a fully decided, ready-to-dispatch notification
type Alert struct {
	Key       string   `json:"key"`
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Priority  Priority `json:"priority"`
	Sound     string   `json:"sound,omitempty"`
	Vibration []int64  `json:"vibration,omitempty"`
}

// Dispatcher is the alert delivery boundary. Showing an alert with a
// key already in flight replaces the prior one.
type Dispatcher interface {
	Show(alert Alert)
	Cancel(key string)
	CancelAll()
}

type fieldKind int

const (
	fieldString fieldKind = iota
	fieldInt
)

type fieldSpec struct {
	name string
	kind fieldKind
}

// Required fields per payload type. Validation walks this table instead
// of a conditional chain so adding a type is a one-line change.
var payloadSpecs = map[string][]fieldSpec{
	TypeApproaching: {{"shuttleName", fieldString}, {"eta", fieldInt}},
	TypeArriving:    {{"shuttleName", fieldString}, {"stopName", fieldString}},
	TypeBreakdown:   {{"shuttleName", fieldString}, {"routeName", fieldString}},
	TypeDelay:       {{"shuttleName", fieldString}, {"delay", fieldInt}},
}

// Engine turns events into dispatched alerts
type Engine struct {
	dispatcher Dispatcher
	now        func() time.Time
}

// NewEngine creates an engine bound to a dispatcher
func NewEngine(dispatcher Dispatcher) *Engine {
	return &Engine{dispatcher: dispatcher, now: time.Now}
}

// NewEngineWithClock creates an engine with an injected clock for the
// wall-clock-keyed generic path.
func NewEngineWithClock(dispatcher Dispatcher, now func() time.Time) *Engine {
	return &Engine{dispatcher: dispatcher, now: now}
}

// HandlePayload processes an inbound structured alert payload and
// returns the decided alert so callers can forward it to further
// channels. A payload with an unknown type, a missing required field,
// or a non-integer numeric field is dropped with a log line; the rider
// never sees an error.
func (e *Engine) HandlePayload(data map[string]string) (Alert, error) {
	payloadType, ok := data["type"]
	if !ok || payloadType == "" {
		log.Printf("⚠️  Dropping alert payload with no type: %v", data)
		return Alert{}, apperr.Malformedf("payload missing type")
	}

	spec, known := payloadSpecs[payloadType]
	if !known {
		log.Printf("⚠️  Dropping alert payload with unknown type %q", payloadType)
		return Alert{}, apperr.Malformedf("unknown payload type %q", payloadType)
	}

	strs := make(map[string]string, len(spec))
	ints := make(map[string]int, len(spec))
	for _, field := range spec {
		raw, ok := data[field.name]
		if !ok || raw == "" {
			log.Printf("⚠️  Dropping %s payload: missing field %q", payloadType, field.name)
			return Alert{}, apperr.Malformedf("%s payload missing field %q", payloadType, field.name)
		}
		if field.kind == fieldInt {
			n, err := strconv.Atoi(raw)
			if err != nil {
				log.Printf("⚠️  Dropping %s payload: invalid %s value %q", payloadType, field.name, raw)
				return Alert{}, apperr.Malformedf("%s payload has non-integer %s", payloadType, field.name)
			}
			ints[field.name] = n
		} else {
			strs[field.name] = raw
		}
	}

	var alert Alert
	switch payloadType {
	case TypeApproaching:
		alert = e.ShuttleApproaching(strs["shuttleName"], ints["eta"])
	case TypeArriving:
		alert = e.ShuttleArriving(strs["shuttleName"], strs["stopName"])
	case TypeBreakdown:
		alert = e.ShuttleBreakdown(strs["shuttleName"], strs["routeName"])
	case TypeDelay:
		alert = e.ShuttleDelayed(strs["shuttleName"], ints["delay"])
	}
	return alert, nil
}

// ShuttleApproaching emits the high-priority approach alert
func (e *Engine) ShuttleApproaching(shuttleName string, etaMinutes int) Alert {
	return e.show(Alert{
		Key:       KeyForShuttle(shuttleName),
		Type:      TypeApproaching,
		Title:     "Shuttle Approaching!",
		Body:      fmt.Sprintf("%s will arrive in %d minutes", shuttleName, etaMinutes),
		Priority:  PriorityHigh,
		Sound:     "default",
		Vibration: vibrateApproaching,
	})
}

// ShuttleArriving emits the top-priority arrival alert
func (e *Engine) ShuttleArriving(shuttleName, stopName string) Alert {
	return e.show(Alert{
		Key:       KeyForShuttle(shuttleName),
		Type:      TypeArriving,
		Title:     "Shuttle Arriving Now!",
		Body:      fmt.Sprintf("%s is arriving at %s", shuttleName, stopName),
		Priority:  PriorityMax,
		Sound:     "default",
		Vibration: vibrateArriving,
	})
}

// ShuttleBreakdown emits a service-issue alert
func (e *Engine) ShuttleBreakdown(shuttleName, routeName string) Alert {
	return e.show(Alert{
		Key:      KeyForShuttle(shuttleName),
		Type:     TypeBreakdown,
		Title:    "Shuttle Issue",
		Body:     fmt.Sprintf("%s on %s is experiencing issues", shuttleName, routeName),
		Priority: PriorityDefault,
	})
}

// ShuttleDelayed emits a delay alert
func (e *Engine) ShuttleDelayed(shuttleName string, delayMinutes int) Alert {
	return e.show(Alert{
		Key:      KeyForShuttle(shuttleName),
		Type:     TypeDelay,
		Title:    "Shuttle Delayed",
		Body:     fmt.Sprintf("%s is delayed by %d minutes", shuttleName, delayMinutes),
		Priority: PriorityDefault,
	})
}

// Generic emits a fallback alert. Keyed by wall clock, so every generic
// alert is shown, no dedup on this path.
func (e *Engine) Generic(title, body string) Alert {
	return e.show(Alert{
		Key:      fmt.Sprintf("generic-%d", e.now().UnixNano()),
		Type:     TypeGeneric,
		Title:    title,
		Body:     body,
		Priority: PriorityLow,
	})
}

func (e *Engine) show(alert Alert) Alert {
	e.dispatcher.Show(alert)
	return alert
}

// CancelShuttle withdraws any in-flight alert for the shuttle
func (e *Engine) CancelShuttle(shuttleName string) {
	e.dispatcher.Cancel(KeyForShuttle(shuttleName))
}

// CancelAll withdraws every in-flight alert
func (e *Engine) CancelAll() {
	e.dispatcher.CancelAll()
}

// KeyForShuttle derives the stable dedup key for a shuttle's alerts:
// a second alert for the same shuttle replaces the first.
func KeyForShuttle(shuttleName string) string {
	h := fnv.New32a()
	h.Write([]byte(shuttleName))
	return fmt.Sprintf("shuttle-%08x", h.Sum32())
}
