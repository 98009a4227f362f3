package bus

import (
	"github.com/ftl/sim-toolkit/cat"
	"github.com/ftl/sim-toolkit/sim"
)

// NotificationKind tells the applications what happened in a slot.
type NotificationKind string

// All notification kinds
const (
	KindCommand    NotificationKind = "command"
	KindSessionEnd NotificationKind = "session_end"
	KindRefresh    NotificationKind = "refresh"
)

// Notification is published on the command topic.
type Notification struct {
	Slot    sim.Slot         `json:"slot"`
	Kind    NotificationKind `json:"kind"`
	Command *cat.CmdMessage  `json:"command,omitempty"`
	Refresh *cat.RefreshType `json:"refresh,omitempty"`
}

// ResponseKind selects how the service handles a response.
type ResponseKind string

// All response kinds
const (
	ResponseCommand ResponseKind = "command"
	ResponseEvent   ResponseKind = "event"
)

// ResponseEnvelope is read from the response topic.
type ResponseEnvelope struct {
	Slot     sim.Slot     `json:"slot"`
	Kind     ResponseKind `json:"kind"`
	Response cat.Response `json:"response"`
}
