package ril

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ftl/sim-toolkit/sim"
)

var (
	ErrNoResponse = errors.New("no response received")
	ErrSIMAccess  = errors.New("SIM access failed")
)

type Requester interface {
	Request(context.Context, string) ([]string, error)
}

type RequesterFunc func(context.Context, string) ([]string, error)

func (f RequesterFunc) Request(ctx context.Context, request string) ([]string, error) {
	return f(ctx, request)
}

const (
	// ActivateProfile activates the toolkit profile of the terminal according to [AT] 12.2.2
	ActivateProfile = "AT+CUSATA=1"

	commandReadBinary  = 176
	commandReadRecord  = 178
	recordModeAbsolute = 4
)

// SendTerminalResponse according to [AT] 12.2.4
func SendTerminalResponse(hex string) string {
	return fmt.Sprintf(`AT+CUSATT="%s"`, hex)
}

// SendEnvelope according to [AT] 12.2.5
func SendEnvelope(hex string) string {
	return fmt.Sprintf(`AT+CUSATE="%s"`, hex)
}

// ConfirmCallSetup accepts or rejects the call set up requested by the SIM.
func ConfirmCallSetup(accept bool) string {
	if accept {
		return "AT+SPUSATCALLSETUP=1"
	}
	return "AT+SPUSATCALLSETUP=0"
}

// SendDTMF according to [AT] 9.3.1
func SendDTMF(digit byte) string {
	return fmt.Sprintf("AT+VTS=%c", digit)
}

var requestCallStateResponse = regexp.MustCompile(`^\+CPAS: (\d+)$`)

// RequestCallState reads the phone activity status according to [AT] 8.1
func RequestCallState(ctx context.Context, requester Requester) (CallState, error) {
	responses, err := requester.Request(ctx, "AT+CPAS")
	if err != nil {
		return 0, err
	}
	if len(responses) < 1 {
		return 0, ErrNoResponse
	}
	response := strings.ToUpper(strings.TrimSpace(responses[0]))
	parts := requestCallStateResponse.FindStringSubmatch(response)

	if len(parts) != 2 {
		return 0, fmt.Errorf("unexpected response: %s", responses[0])
	}

	result, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}

	return CallState(result), nil
}

// ReadRecord reads one record of a linear fixed file using restricted SIM access according to [AT] 8.18
func ReadRecord(ctx context.Context, requester Requester, file sim.FileID, record int) ([]byte, error) {
	request := fmt.Sprintf("AT+CRSM=%d,%d,%d,%d,0", commandReadRecord, file, record, recordModeAbsolute)
	return restrictedSIMAccess(ctx, requester, request)
}

// ReadBinary reads a part of a transparent file using restricted SIM access according to [AT] 8.18
func ReadBinary(ctx context.Context, requester Requester, file sim.FileID, offset int, length int) ([]byte, error) {
	request := fmt.Sprintf("AT+CRSM=%d,%d,%d,%d,%d", commandReadBinary, file, (offset>>8)&0xFF, offset&0xFF, length)
	return restrictedSIMAccess(ctx, requester, request)
}

var restrictedSIMAccessResponse = regexp.MustCompile(`^\+CRSM: (\d+),(\d+)(?:,"?([0-9A-F]*)"?)?$`)

func restrictedSIMAccess(ctx context.Context, requester Requester, request string) ([]byte, error) {
	responses, err := requester.Request(ctx, request)
	if err != nil {
		return nil, err
	}
	if len(responses) < 1 {
		return nil, ErrNoResponse
	}
	response := strings.ToUpper(strings.TrimSpace(responses[0]))
	parts := restrictedSIMAccessResponse.FindStringSubmatch(response)

	if len(parts) != 4 {
		return nil, fmt.Errorf("unexpected response: %s", responses[0])
	}

	sw1, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, err
	}
	sw2, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, err
	}
	if sw1 != 0x90 && sw1 != 0x91 {
		return nil, fmt.Errorf("%w: %s: sw %02X%02X", ErrSIMAccess, request, sw1, sw2)
	}

	return sim.HexToBinary(parts[3])
}
