package ril

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ftl/sim-toolkit/cat"
)

// unsolicitedIndication maps an unsolicited result code of the toolkit to a raw message.
type unsolicitedIndication struct {
	prefix  string
	kind    cat.RawMessageKind
	payload func(value string) (string, error)
}

var unsolicitedIndications = []unsolicitedIndication{
	{prefix: "+CUSATP:", kind: cat.ProactiveCommand, payload: quotedHex},
	{prefix: "+CUSATEND", kind: cat.SessionEnd, payload: noPayload},
	{prefix: "+SPUSATNOTIFY:", kind: cat.EventNotify, payload: quotedHex},
	{prefix: "+SPUSATCALLSETUP:", kind: cat.CallSetupResult, payload: quotedHex},
	{prefix: "+SPUSATREFRESH:", kind: cat.RefreshNotify, payload: refreshType},
}

func (ind unsolicitedIndication) Parse(line string) (cat.RawMessage, error) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < len(ind.prefix) || !strings.EqualFold(trimmed[:len(ind.prefix)], ind.prefix) {
		return cat.RawMessage{}, fmt.Errorf("%s is not a %s indication", line, ind.prefix)
	}
	payload, err := ind.payload(strings.TrimSpace(trimmed[len(ind.prefix):]))
	if err != nil {
		return cat.RawMessage{}, fmt.Errorf("invalid %s indication: %w", ind.prefix, err)
	}
	return cat.RawMessage{Kind: ind.kind, Hex: payload}, nil
}

func quotedHex(value string) (string, error) {
	return strings.ToUpper(strings.Trim(value, `"`)), nil
}

func noPayload(string) (string, error) {
	return "", nil
}

// refreshType takes the refresh type of a comma separated value list, the file list is ignored.
func refreshType(value string) (string, error) {
	fields := strings.SplitN(value, ",", 2)
	refresh, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return "", err
	}
	if refresh < 0 || refresh > 0xFF {
		return "", fmt.Errorf("refresh type %d out of range", refresh)
	}
	return fmt.Sprintf("%02X", refresh), nil
}
