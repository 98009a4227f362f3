package cat

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/text/language"

	"github.com/ftl/sim-toolkit/sim"
)

var ErrServiceDisposed = errors.New("service disposed")

// Radio is the modem side of one SIM slot.
type Radio interface {
	SendTerminalResponse(ctx context.Context, hex string) error
	SendEnvelope(ctx context.Context, hex string) error
	HandleCallSetupRequest(ctx context.Context, accept bool) error
	ReportStkServiceRunning(ctx context.Context) error
	SetUnsolicitedHandler(handler func(RawMessage))
}

// Telephony gives access to the voice call of the slot.
type Telephony interface {
	InCall(ctx context.Context) (bool, error)
	// SendDTMF sends a single DTMF digit and reports the outcome through done.
	SendDTMF(digit byte, done func(error))
}

// LocaleConfigurator reads and changes the language of the user interface.
type LocaleConfigurator interface {
	Locale() language.Tag
	SetLocale(tag language.Tag) error
}

// Broadcaster hands the outcome of the toolkit session to the applications.
type Broadcaster interface {
	BroadcastCommand(slot sim.Slot, cmd *CmdMessage)
	BroadcastSessionEnd(slot sim.Slot)
	BroadcastRefresh(slot sim.Slot, refresh RefreshType)
}

// ForegroundMonitor knows which application is currently in the foreground.
type ForegroundMonitor interface {
	ForegroundApp() string
}

// RadioDeps are the collaborators that are bound to one radio. They are replaced together with the radio.
type RadioDeps struct {
	Telephony Telephony
	Files     IccFileHandler
}

// Collaborators of a Service. Telephony, Files, Locale and Foreground are optional.
type Collaborators struct {
	RadioDeps
	Broadcaster Broadcaster
	Locale      LocaleConfigurator
	Foreground  ForegroundMonitor
}

// Options of a Service.
type Options struct {
	// DTMFPause is the duration of a pause digit in SEND DTMF.
	DTMFPause time.Duration
	// ResponseTimeout answers commands with NO RESPONSE FROM USER if the application does not respond in time. Zero disables the timeout.
	ResponseTimeout time.Duration
	// DisplayApps may show a normal priority DISPLAY TEXT while they are in the foreground.
	DisplayApps []string
	// DefaultChannel is the only channel of the bearer independent protocol.
	DefaultChannel DeviceIdentity

	Now func() time.Time
}

const (
	DefaultDTMFPause = 2500 * time.Millisecond
)

func (o *Options) setDefaults() {
	if o.DTMFPause == 0 {
		o.DTMFPause = DefaultDTMFPause
	}
	if o.DefaultChannel == 0 {
		o.DefaultChannel = FirstChannel
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Service runs the toolkit session of one SIM slot. All session state is owned by a single goroutine,
// every input is posted to it and handled in the order of arrival.
type Service struct {
	slot    sim.Slot
	log     slotLogger
	deps    Collaborators
	opts    Options
	decoder *decoder
	icons   *iconLoader

	radioLock sync.Mutex
	radio     Radio

	ctx      context.Context
	cancel   context.CancelFunc
	mailbox  *mailbox
	done     chan struct{}
	disposed *atomic.Bool

	// session state, only touched on the service goroutine
	current          *CmdMessage
	menu             *CmdMessage
	events           [EventCount]bool
	lastRaw          RawMessage
	pendingCallSetup *CommandDetails
	localeBackup     *language.Tag
	dtmf             *dtmfSession
	responseTimer    *time.Timer
}

// New creates and starts the toolkit service for the given slot.
func New(slot sim.Slot, radio Radio, deps Collaborators, opts Options) *Service {
	opts.setDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	result := &Service{
		slot:     slot,
		log:      newSlotLogger(slot),
		deps:     deps,
		opts:     opts,
		radio:    radio,
		ctx:      ctx,
		cancel:   cancel,
		mailbox:  newMailbox(),
		done:     make(chan struct{}),
		disposed: atomic.NewBool(false),
	}
	result.icons = newIconLoader(deps.Files)
	factory := &paramsFactory{icons: result.icons}
	result.decoder = newDecoder(ctx, result.log, factory, func(msg decodedMessage) {
		result.mailbox.Post(func() {
			result.handleDecoded(msg)
		})
	})

	go func() {
		defer close(result.done)
		result.mailbox.Run(ctx)
	}()

	radio.SetUnsolicitedHandler(result.OnRilMessage)
	result.mailbox.Post(result.reportServiceRunning)
	return result
}

// Slot of this service.
func (s *Service) Slot() sim.Slot {
	return s.slot
}

// UpdateRadio replaces the radio of this service together with the collaborators bound to it.
// The session state is kept.
func (s *Service) UpdateRadio(radio Radio, deps RadioDeps) {
	if s.disposed.Load() {
		return
	}
	s.radioLock.Lock()
	previous := s.radio
	s.radio = radio
	s.radioLock.Unlock()

	if previous != radio {
		previous.SetUnsolicitedHandler(nil)
	}
	s.mailbox.Post(func() {
		s.deps.RadioDeps = deps
		s.icons.SetFiles(deps.Files)
	})
	radio.SetUnsolicitedHandler(s.OnRilMessage)
	s.mailbox.Post(s.reportServiceRunning)
}

func (s *Service) currentRadio() Radio {
	s.radioLock.Lock()
	defer s.radioLock.Unlock()
	return s.radio
}

// Dispose stops the service. All further input is dropped.
func (s *Service) Dispose() {
	if s.disposed.Swap(true) {
		return
	}
	s.currentRadio().SetUnsolicitedHandler(nil)
	s.cancel()
	<-s.done
	s.stopResponseTimer()
	s.abortDTMF()
	s.log.Infof("disposed")
}

// Disposed indicates if the service was already disposed.
func (s *Service) Disposed() bool {
	return s.disposed.Load()
}

// OnRilMessage takes an unsolicited message from the radio. It never blocks.
func (s *Service) OnRilMessage(msg RawMessage) {
	if s.disposed.Load() {
		return
	}
	s.mailbox.Post(func() {
		s.handleRawMessage(msg)
	})
}

// OnCmdResponse takes the response of the application to the current command.
func (s *Service) OnCmdResponse(response Response) error {
	if s.disposed.Load() {
		return ErrServiceDisposed
	}
	s.mailbox.Post(func() {
		s.handleCmdResponse(response)
	})
	return nil
}

// OnEventResponse takes the report of an event from the application.
func (s *Service) OnEventResponse(response Response) error {
	if s.disposed.Load() {
		return ErrServiceDisposed
	}
	s.mailbox.Post(func() {
		s.handleEventResponse(response)
	})
	return nil
}

// CurrentCommand returns the command that waits for the response of the application, or nil.
func (s *Service) CurrentCommand() *CmdMessage {
	var result *CmdMessage
	s.query(func() {
		result = s.current
	})
	return result
}

// MenuCommand returns the retained main menu, or nil.
func (s *Service) MenuCommand() *CmdMessage {
	var result *CmdMessage
	s.query(func() {
		result = s.menu
	})
	return result
}

// EventEnabled indicates if the UICC wants to be informed about the given event.
func (s *Service) EventEnabled(event EventListType) bool {
	var result bool
	s.query(func() {
		result = int(event) < EventCount && s.events[event]
	})
	return result
}

func (s *Service) query(f func()) bool {
	if s.disposed.Load() {
		return false
	}
	done := make(chan struct{})
	s.mailbox.Post(func() {
		f()
		close(done)
	})
	select {
	case <-done:
		return true
	case <-s.done:
		return false
	}
}

func (s *Service) reportServiceRunning() {
	if err := s.currentRadio().ReportStkServiceRunning(s.ctx); err != nil {
		s.log.Errorf("cannot report the toolkit service as running: %v", err)
	}
}

func (s *Service) handleRawMessage(msg RawMessage) {
	if msg.Kind == SessionEnd {
		s.lastRaw = RawMessage{}
	} else if msg.Hex != "" && msg == s.lastRaw {
		s.log.Infof("dropping duplicate %s %s", msg.Kind, msg.Hex)
		return
	} else {
		s.lastRaw = msg
	}
	s.decoder.Submit(msg)
}

func (s *Service) handleDecoded(msg decodedMessage) {
	switch msg.Kind {
	case SessionEnd:
		s.handleSessionEnd(msg.Code)
	case ProactiveCommand:
		s.handleProactiveCommand(msg.Code, msg.Params)
	case EventNotify:
		if msg.Code != OK || msg.Params == nil {
			s.log.Infof("dropping event notification with result %s", msg.Code)
			return
		}
		cmd := newCmdMessage(msg.Params, true)
		s.log.Debugf("event notification %s", cmd.Details())
		s.deps.Broadcaster.BroadcastCommand(s.slot, cmd)
	case CallSetupResult:
		s.handleCallSetupResult(msg.Payload)
	case RefreshNotify:
		s.handleRefresh(msg.Payload)
	}
}

func (s *Service) handleSessionEnd(code ResultCode) {
	if code != OK {
		s.log.Infof("session ended by decoding failure: %s", code)
	}
	s.abortDTMF()
	s.stopResponseTimer()
	s.current = s.menu
	s.deps.Broadcaster.BroadcastSessionEnd(s.slot)
}

func (s *Service) handleRefresh(payload []byte) {
	if len(payload) == 0 {
		s.log.Infof("dropping refresh without type")
		return
	}
	refresh := RefreshType(payload[0])
	s.log.Infof("refresh %s", refresh)
	if refresh.ClearsSession() {
		s.abortDTMF()
		s.stopResponseTimer()
		s.menu = nil
		s.current = nil
		s.pendingCallSetup = nil
		s.events = [EventCount]bool{}
	}
	s.deps.Broadcaster.BroadcastRefresh(s.slot, refresh)
}

func (s *Service) dispatch(cmd *CmdMessage, awaitResponse bool) {
	switch {
	case awaitResponse:
		s.current = cmd
		s.armResponseTimeout(cmd)
	case cmd.Type() == SetUpMenu:
		s.current = cmd
	default:
		s.current = nil
	}
	s.log.Debugf("dispatching %s", cmd.Details())
	s.deps.Broadcaster.BroadcastCommand(s.slot, cmd)
}

func (s *Service) sendTerminalResponse(details CommandDetails, code ResultCode, additionalInfo []byte, data ResponseData) {
	if additionalInfo == nil {
		switch code {
		case TerminalCrntlyUnableToProcess:
			additionalInfo = []byte{byte(meProblemOf(details.Type))}
		case BIPError:
			additionalInfo = []byte{byte(BIPNoSpecificCause)}
		}
	}
	response := TerminalResponse{
		Details:        details,
		Result:         code,
		AdditionalInfo: additionalInfo,
		Data:           data,
	}
	hex := sim.BinaryToHex(response.Encode())
	s.log.Debugf("terminal response %s: %s", details, hex)
	if err := s.currentRadio().SendTerminalResponse(s.ctx, hex); err != nil {
		s.log.Errorf("cannot send terminal response for %s: %v", details, err)
	}
}

func (s *Service) sendEnvelope(envelope []byte) {
	hex := sim.BinaryToHex(envelope)
	s.log.Debugf("envelope %s", hex)
	if err := s.currentRadio().SendEnvelope(s.ctx, hex); err != nil {
		s.log.Errorf("cannot send envelope: %v", err)
	}
}

func (s *Service) armResponseTimeout(cmd *CmdMessage) {
	s.stopResponseTimer()
	if s.opts.ResponseTimeout <= 0 {
		return
	}
	details := cmd.Details()
	s.responseTimer = time.AfterFunc(s.opts.ResponseTimeout, func() {
		s.mailbox.Post(func() {
			if s.current == nil || !s.current.Details().Equal(details) {
				return
			}
			s.log.Infof("no response for %s", details)
			s.handleCmdResponse(Response{Details: details, Result: NoResponseFromUser})
		})
	})
}

func (s *Service) stopResponseTimer() {
	if s.responseTimer == nil {
		return
	}
	s.responseTimer.Stop()
	s.responseTimer = nil
}

// meProblemOf returns the additional information for TERMINAL CURRENTLY UNABLE TO PROCESS COMMAND.
func meProblemOf(t CommandType) MeProblem {
	switch t {
	case SetUpCall:
		return BusyOnCall
	case DisplayText:
		return ScreenBusy
	case SendSS:
		return BusySS
	case SendUSSD:
		return BusyUSSD
	case SendDTMF:
		return BusySendDTMF
	default:
		return NoSpecificCause
	}
}
