package ril

import (
	"fmt"
	"strings"
)

// CallStateByName returns the CallState with the given name
func CallStateByName(name string) (CallState, error) {
	sanitized := strings.ToUpper(strings.TrimSpace(name))
	result, ok := CallStatesByName[sanitized]
	if !ok {
		return 0, fmt.Errorf("invalid call state %s", name)
	}
	return result, nil
}

// CallState represents the phone activity status according to [AT] 8.1 (+CPAS)
type CallState byte

func (s CallState) String() string {
	for k, v := range CallStatesByName {
		if v == s {
			return k
		}
	}
	return "UNKNOWN"
}

// InCall reports if a voice call is in progress or on hold.
func (s CallState) InCall() bool {
	return s == CallInProgress
}

// All defined call states
const (
	Ready CallState = iota
	Unavailable
	StateUnknown
	Ringing
	CallInProgress
	Asleep
)

// CallStatesByName maps all defined call states by their string representation
var CallStatesByName = map[string]CallState{
	"READY":            Ready,
	"UNAVAILABLE":      Unavailable,
	"STATE_UNKNOWN":    StateUnknown,
	"RINGING":          Ringing,
	"CALL_IN_PROGRESS": CallInProgress,
	"ASLEEP":           Asleep,
}
