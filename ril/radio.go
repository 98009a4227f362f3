package ril

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonderivan/logger"

	"github.com/ftl/sim-toolkit/cat"
	"github.com/ftl/sim-toolkit/sim"
)

const DefaultDTMFTimeout = 5 * time.Second

// Device is the AT channel to the modem of one slot.
type Device interface {
	Requester
	AddIndication(prefix string, trailingLines int, handler func(lines []string)) error
	RemoveIndication(prefix string)
}

// Radio gives the toolkit of one slot access to the modem. It implements cat.Radio, cat.Telephony and
// cat.IccFileHandler.
type Radio struct {
	slot        sim.Slot
	device      Device
	prefix      string
	dtmfTimeout time.Duration
	ctx         context.Context
	cancel      context.CancelFunc

	handlerLock sync.RWMutex
	handler     func(cat.RawMessage)
}

var (
	_ cat.Radio          = (*Radio)(nil)
	_ cat.Telephony      = (*Radio)(nil)
	_ cat.IccFileHandler = (*Radio)(nil)
)

// New registers the toolkit indications with the given device.
func New(slot sim.Slot, device Device) (*Radio, error) {
	ctx, cancel := context.WithCancel(context.Background())
	result := &Radio{
		slot:        slot,
		device:      device,
		prefix:      fmt.Sprintf("[ril:%d] ", int(slot)),
		dtmfTimeout: DefaultDTMFTimeout,
		ctx:         ctx,
		cancel:      cancel,
	}

	for _, indication := range unsolicitedIndications {
		err := device.AddIndication(indication.prefix, 0, func(lines []string) {
			result.onIndication(indication, lines[0])
		})
		if err != nil {
			result.Close()
			return nil, fmt.Errorf("cannot register %s: %w", indication.prefix, err)
		}
	}

	return result, nil
}

// Close unregisters the toolkit indications and stops pending DTMF tones.
func (r *Radio) Close() {
	r.cancel()
	for _, indication := range unsolicitedIndications {
		r.device.RemoveIndication(indication.prefix)
	}
}

func (r *Radio) Slot() sim.Slot {
	return r.slot
}

func (r *Radio) SetUnsolicitedHandler(handler func(cat.RawMessage)) {
	r.handlerLock.Lock()
	defer r.handlerLock.Unlock()
	r.handler = handler
}

func (r *Radio) onIndication(indication unsolicitedIndication, line string) {
	message, err := indication.Parse(line)
	if err != nil {
		logger.Warn(r.prefix+"dropping indication: %v", err)
		return
	}

	r.handlerLock.RLock()
	handler := r.handler
	r.handlerLock.RUnlock()

	if handler == nil {
		logger.Debug(r.prefix+"no handler for %s", message.Kind)
		return
	}
	logger.Debug(r.prefix+"%s %s", message.Kind, message.Hex)
	handler(message)
}

func (r *Radio) ReportStkServiceRunning(ctx context.Context) error {
	return r.send(ctx, ActivateProfile)
}

func (r *Radio) SendTerminalResponse(ctx context.Context, hex string) error {
	return r.send(ctx, SendTerminalResponse(hex))
}

func (r *Radio) SendEnvelope(ctx context.Context, hex string) error {
	return r.send(ctx, SendEnvelope(hex))
}

func (r *Radio) HandleCallSetupRequest(ctx context.Context, accept bool) error {
	return r.send(ctx, ConfirmCallSetup(accept))
}

func (r *Radio) send(ctx context.Context, request string) error {
	_, err := r.device.Request(ctx, request)
	if err != nil {
		logger.Error(r.prefix+"%s failed: %v", request, err)
		return fmt.Errorf("%s failed: %w", request, err)
	}
	return nil
}

func (r *Radio) InCall(ctx context.Context) (bool, error) {
	state, err := RequestCallState(ctx, r.device)
	if err != nil {
		return false, err
	}
	return state.InCall(), nil
}

// SendDTMF sends the tone in the background, done is called from another goroutine.
func (r *Radio) SendDTMF(digit byte, done func(error)) {
	go func() {
		ctx, cancel := context.WithTimeout(r.ctx, r.dtmfTimeout)
		defer cancel()
		done(r.send(ctx, SendDTMF(digit)))
	}()
}

func (r *Radio) ReadRecord(ctx context.Context, file sim.FileID, record int) ([]byte, error) {
	return ReadRecord(ctx, r.device, file, record)
}

func (r *Radio) ReadBinary(ctx context.Context, file sim.FileID, offset int, length int) ([]byte, error) {
	return ReadBinary(ctx, r.device, file, offset, length)
}
