package bus

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/sim-toolkit/cat"
	"github.com/ftl/sim-toolkit/sim"
)

type fakeProducer struct {
	lock    sync.Mutex
	topics  []string
	bodies  []string
	err     error
	stopped bool
}

func (p *fakeProducer) Publish(topic string, body []byte) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.bodies = append(p.bodies, string(body))
	return nil
}

func (p *fakeProducer) Stop() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.stopped = true
}

func (p *fakeProducer) Bodies() []string {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]string{}, p.bodies...)
}

type fakeRadio struct {
	lock      sync.Mutex
	handler   func(cat.RawMessage)
	envelopes []string
}

func (r *fakeRadio) SendTerminalResponse(context.Context, string) error { return nil }

func (r *fakeRadio) SendEnvelope(_ context.Context, hex string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.envelopes = append(r.envelopes, hex)
	return nil
}

func (r *fakeRadio) HandleCallSetupRequest(context.Context, bool) error { return nil }

func (r *fakeRadio) ReportStkServiceRunning(context.Context) error { return nil }

func (r *fakeRadio) SetUnsolicitedHandler(handler func(cat.RawMessage)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.handler = handler
}

func (r *fakeRadio) receive(kind cat.RawMessageKind, hex string) {
	r.lock.Lock()
	handler := r.handler
	r.lock.Unlock()
	handler(cat.RawMessage{Kind: kind, Hex: hex})
}

func (r *fakeRadio) Envelopes() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]string{}, r.envelopes...)
}

const setUpMenu = "D0158103012500820281828504" + "4D656E75" + "8F04014F6E65"

func TestPublisher_BroadcastCommand(t *testing.T) {
	producer := &fakeProducer{}
	publisher := newPublisher(producer, "stk.command")
	radio := &fakeRadio{}
	service := cat.New(sim.Slot(1), radio, cat.Collaborators{Broadcaster: publisher}, cat.Options{})
	defer service.Dispose()

	radio.receive(cat.ProactiveCommand, setUpMenu)

	require.Eventually(t, func() bool { return len(producer.Bodies()) == 1 }, time.Second, time.Millisecond)
	var notification struct {
		Slot    int    `json:"slot"`
		Kind    string `json:"kind"`
		Command struct {
			Type string `json:"type"`
			Menu struct {
				Title string `json:"title"`
			} `json:"menu"`
		} `json:"command"`
	}
	require.NoError(t, json.Unmarshal([]byte(producer.Bodies()[0]), &notification))
	assert.Equal(t, 1, notification.Slot)
	assert.Equal(t, "command", notification.Kind)
	assert.Equal(t, "SET_UP_MENU", notification.Command.Type)
	assert.Equal(t, "Menu", notification.Command.Menu.Title)
	assert.Equal(t, []string{"stk.command"}, producer.topics)
}

func TestPublisher_SessionEndAndRefresh(t *testing.T) {
	producer := &fakeProducer{}
	publisher := newPublisher(producer, "stk.command")

	publisher.BroadcastSessionEnd(sim.Slot(0))
	publisher.BroadcastRefresh(sim.Slot(1), cat.RefreshInit)
	publisher.Close()

	assert.Equal(t, []string{
		`{"slot":0,"kind":"session_end"}`,
		`{"slot":1,"kind":"refresh","refresh":"INIT"}`,
	}, producer.Bodies())
	assert.True(t, producer.stopped)
}

func TestPublisher_PublishFailureIsDropped(t *testing.T) {
	producer := &fakeProducer{err: errors.New("not connected")}
	publisher := newPublisher(producer, "stk.command")

	publisher.BroadcastSessionEnd(sim.Slot(0))

	assert.Empty(t, producer.Bodies())
}

type recordedResponse struct {
	slot     sim.Slot
	kind     ResponseKind
	response cat.Response
}

type fakeSink struct {
	responses []recordedResponse
	err       error
}

func (s *fakeSink) OnCmdResponse(slot sim.Slot, response cat.Response) error {
	s.responses = append(s.responses, recordedResponse{slot, ResponseCommand, response})
	return s.err
}

func (s *fakeSink) OnEventResponse(slot sim.Slot, response cat.Response) error {
	s.responses = append(s.responses, recordedResponse{slot, ResponseEvent, response})
	return s.err
}

func TestConsumer_Handle(t *testing.T) {
	tt := []struct {
		desc     string
		body     string
		expected []recordedResponse
		invalid  bool
	}{
		{
			desc: "command",
			body: `{"slot": 1, "kind": "command", "response": {"details": {"comp_required": true, "number": 1, "type": "SET_UP_MENU"}, "result": "OK", "menu_selection": 2}}`,
			expected: []recordedResponse{{sim.Slot(1), ResponseCommand, cat.Response{
				Details:       cat.CommandDetails{CompRequired: true, Number: 1, Type: cat.SetUpMenu},
				Result:        cat.OK,
				MenuSelection: 2,
			}}},
		},
		{
			desc:     "event",
			body:     `{"slot": 0, "kind": "event", "response": {"event": "IDLE_SCREEN"}}`,
			expected: []recordedResponse{{sim.Slot(0), ResponseEvent, cat.Response{Event: cat.EventIdleScreen}}},
		},
		{desc: "empty", body: "", invalid: true},
		{desc: "garbage", body: "{", invalid: true},
		{desc: "unknown kind", body: `{"slot": 0, "kind": "other", "response": {}}`, invalid: true},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			sink := &fakeSink{}
			consumer := &Consumer{sink: sink}

			err := consumer.handle([]byte(tc.body))

			if tc.invalid {
				assert.Error(t, err)
				assert.Empty(t, sink.responses)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, sink.responses)
		})
	}
}

func TestConsumer_EmptyPayload(t *testing.T) {
	consumer := &Consumer{sink: &fakeSink{}}

	assert.ErrorIs(t, consumer.handle(nil), ErrEmptyPayload)
}

func TestConsumer_RoutesIntoRegistry(t *testing.T) {
	radio := &fakeRadio{}
	producer := &fakeProducer{}
	registry := cat.NewRegistry(func(slot sim.Slot, radio cat.Radio, deps cat.RadioDeps) *cat.Service {
		return cat.New(slot, radio, cat.Collaborators{RadioDeps: deps, Broadcaster: newPublisher(producer, "stk.command")}, cat.Options{})
	})
	defer registry.Close()
	registry.Service(sim.Slot(0), radio, cat.RadioDeps{})
	consumer := &Consumer{sink: registry}

	radio.receive(cat.ProactiveCommand, setUpMenu)
	require.Eventually(t, func() bool { return len(producer.Bodies()) == 1 }, time.Second, time.Millisecond)

	err := consumer.handle([]byte(`{"slot": 0, "kind": "command", "response": {"details": {"comp_required": true, "number": 1, "type": "SET_UP_MENU"}, "result": "OK", "menu_selection": 1}}`))
	assert.NoError(t, err)
	assert.Eventually(t, func() bool { return len(radio.Envelopes()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"D30782020181900101"}, radio.Envelopes())

	err = consumer.handle([]byte(`{"slot": 3, "kind": "event", "response": {"event": "IDLE_SCREEN"}}`))
	assert.ErrorIs(t, err, cat.ErrUnknownSlot)
}
