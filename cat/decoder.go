package cat

import (
	"context"

	"github.com/looplab/fsm"
	"go.uber.org/atomic"

	"github.com/ftl/sim-toolkit/sim"
	"github.com/ftl/sim-toolkit/tlv"
)

// RawMessageKind of an unsolicited message from the radio
type RawMessageKind int

const (
	SessionEnd RawMessageKind = iota
	ProactiveCommand
	EventNotify
	CallSetupResult
	RefreshNotify
)

func (k RawMessageKind) String() string {
	switch k {
	case SessionEnd:
		return "SESSION_END"
	case ProactiveCommand:
		return "PROACTIVE_COMMAND"
	case EventNotify:
		return "EVENT_NOTIFY"
	case CallSetupResult:
		return "CALL_SETUP"
	case RefreshNotify:
		return "REFRESH"
	default:
		return "UNKNOWN"
	}
}

// RawMessage is an unsolicited message from the radio with its hex encoded payload.
type RawMessage struct {
	Kind RawMessageKind
	Hex  string
}

// decodedMessage is the outcome of decoding one raw message.
type decodedMessage struct {
	Kind    RawMessageKind
	Code    ResultCode
	Params  CommandParams
	Payload []byte
}

// The states and events of the decoder
const (
	stateStart          = "start"
	stateCmdParamsReady = "cmd_params_ready"

	eventDecodeStarted = "decode_started"
	eventParamsReady   = "params_ready"
)

// decoder turns raw messages into command parameters, one at a time and in the order they were submitted.
// While the parameters of one command are pending, all further messages are deferred.
type decoder struct {
	log      slotLogger
	factory  *paramsFactory
	deliver  func(decodedMessage)
	ctx      context.Context
	mailbox  *mailbox
	machine  *fsm.FSM
	inFlight *atomic.Bool

	current  RawMessage
	deferred []RawMessage
}

func newDecoder(ctx context.Context, log slotLogger, factory *paramsFactory, deliver func(decodedMessage)) *decoder {
	result := &decoder{
		log:      log,
		factory:  factory,
		deliver:  deliver,
		ctx:      ctx,
		mailbox:  newMailbox(),
		inFlight: atomic.NewBool(false),
	}
	result.machine = fsm.NewFSM(
		stateStart,
		fsm.Events{
			{Name: eventDecodeStarted, Src: []string{stateStart}, Dst: stateCmdParamsReady},
			{Name: eventParamsReady, Src: []string{stateCmdParamsReady}, Dst: stateStart},
		},
		fsm.Callbacks{
			"enter_" + stateCmdParamsReady: func(_ context.Context, _ *fsm.Event) {
				result.inFlight.Store(true)
			},
			"enter_" + stateStart: func(_ context.Context, _ *fsm.Event) {
				result.inFlight.Store(false)
			},
		},
	)

	go result.mailbox.Run(ctx)
	return result
}

// Submit a raw message for decoding.
func (d *decoder) Submit(msg RawMessage) {
	d.mailbox.Post(func() {
		d.start(msg)
	})
}

// InFlight reports if the parameters of a command are pending.
func (d *decoder) InFlight() bool {
	return d.inFlight.Load()
}

func (d *decoder) start(msg RawMessage) {
	if d.machine.Is(stateCmdParamsReady) {
		d.deferred = append(d.deferred, msg)
		return
	}
	d.decode(msg)
}

func (d *decoder) decode(msg RawMessage) {
	switch msg.Kind {
	case SessionEnd:
		d.deliver(decodedMessage{Kind: msg.Kind, Code: OK})
	case CallSetupResult, RefreshNotify:
		payload, err := sim.HexToBinary(msg.Hex)
		if err != nil {
			d.log.Infof("dropping %s with invalid payload %q: %v", msg.Kind, msg.Hex, err)
			return
		}
		d.deliver(decodedMessage{Kind: msg.Kind, Code: OK, Payload: payload})
	case ProactiveCommand, EventNotify:
		d.decodeParams(msg)
	default:
		d.log.Warnf("dropping message of unknown kind %d", msg.Kind)
	}
}

func (d *decoder) decodeParams(msg RawMessage) {
	bytes, err := sim.HexToBinary(msg.Hex)
	if err != nil || len(bytes) == 0 {
		d.log.Infof("dropping %s with invalid payload %q", msg.Kind, msg.Hex)
		return
	}

	ber, err := tlv.ParseBerTLV(bytes)
	if err == nil {
		d.current = msg
		err = d.factory.Make(d.ctx, ber, func(result paramsResult) {
			d.mailbox.Post(func() {
				d.paramsReady(result)
			})
		})
	}
	if err != nil {
		d.log.Infof("cannot decode %s %s: %v", msg.Kind, msg.Hex, err)
		d.deliver(decodedMessage{Kind: SessionEnd, Code: ResultCodeOf(err)})
		return
	}

	if err := d.machine.Event(context.Background(), eventDecodeStarted); err != nil {
		d.log.Errorf("decoder state machine: %v", err)
	}
}

func (d *decoder) paramsReady(result paramsResult) {
	if !d.machine.Is(stateCmdParamsReady) {
		d.log.Warnf("unexpected command parameters in state %s", d.machine.Current())
		return
	}

	d.deliver(decodedMessage{Kind: d.current.Kind, Code: result.Code, Params: result.Params})
	d.current = RawMessage{}
	if err := d.machine.Event(context.Background(), eventParamsReady); err != nil {
		d.log.Errorf("decoder state machine: %v", err)
	}

	for len(d.deferred) > 0 && d.machine.Is(stateStart) {
		next := d.deferred[0]
		d.deferred = d.deferred[1:]
		d.decode(next)
	}
}
