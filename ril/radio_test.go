package ril

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/sim-toolkit/cat"
	"github.com/ftl/sim-toolkit/com"
	"github.com/ftl/sim-toolkit/sim"
)

func setupRadio(t *testing.T) (*Radio, *com.InMemory) {
	t.Helper()
	device := com.NewInMemory()
	t.Cleanup(func() { device.Close() })
	radio, err := New(sim.Slot(1), com.New(device))
	require.NoError(t, err)
	t.Cleanup(radio.Close)
	return radio, device
}

type receivedMessages struct {
	lock     sync.Mutex
	messages []cat.RawMessage
}

func (r *receivedMessages) add(message cat.RawMessage) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.messages = append(r.messages, message)
}

func (r *receivedMessages) get() []cat.RawMessage {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]cat.RawMessage{}, r.messages...)
}

func TestRadio_UnsolicitedMessagesInOrder(t *testing.T) {
	radio, device := setupRadio(t)
	received := &receivedMessages{}
	radio.SetUnsolicitedHandler(received.add)

	device.Inject(`+CUSATP: "D00E8103012100"`, "+CUSATEND", "+SPUSATREFRESH: 2", `+SPUSATCALLSETUP: "00"`)

	assert.Eventually(t, func() bool { return len(received.get()) == 4 }, time.Second, time.Millisecond)
	assert.Equal(t, []cat.RawMessage{
		{Kind: cat.ProactiveCommand, Hex: "D00E8103012100"},
		{Kind: cat.SessionEnd},
		{Kind: cat.RefreshNotify, Hex: "02"},
		{Kind: cat.CallSetupResult, Hex: "00"},
	}, received.get())
}

func TestRadio_NoHandler(t *testing.T) {
	radio, device := setupRadio(t)
	received := &receivedMessages{}
	radio.SetUnsolicitedHandler(received.add)
	radio.SetUnsolicitedHandler(nil)

	device.Inject("+CUSATEND")
	_, err := radio.InCall(context.Background())

	assert.Error(t, err)
	assert.Empty(t, received.get())
}

func TestRadio_Requests(t *testing.T) {
	radio, device := setupRadio(t)
	ctx := context.Background()

	require.NoError(t, radio.ReportStkServiceRunning(ctx))
	require.NoError(t, radio.SendTerminalResponse(ctx, "810301"))
	require.NoError(t, radio.SendEnvelope(ctx, "D307"))
	require.NoError(t, radio.HandleCallSetupRequest(ctx, true))

	assert.Equal(t, []string{
		"AT+CUSATA=1",
		`AT+CUSATT="810301"`,
		`AT+CUSATE="D307"`,
		"AT+SPUSATCALLSETUP=1",
	}, device.Requests())
}

func TestRadio_RequestFailed(t *testing.T) {
	radio, device := setupRadio(t)
	device.RespondPrefix("AT+CUSATT=", "+CME ERROR: 3")

	err := radio.SendTerminalResponse(context.Background(), "810301")

	var atErr *com.ATError
	assert.ErrorAs(t, err, &atErr)
}

func TestRadio_InCall(t *testing.T) {
	radio, device := setupRadio(t)
	device.Respond("AT+CPAS", "+CPAS: 4", "OK")

	inCall, err := radio.InCall(context.Background())

	assert.NoError(t, err)
	assert.True(t, inCall)
}

func TestRadio_SendDTMF(t *testing.T) {
	radio, device := setupRadio(t)
	device.Respond("AT+VTS=5", "ERROR")

	results := make(chan error, 2)
	radio.SendDTMF('1', func(err error) { results <- err })
	assert.NoError(t, <-results)
	radio.SendDTMF('5', func(err error) { results <- err })
	assert.Error(t, <-results)

	assert.Equal(t, []string{"AT+VTS=1", "AT+VTS=5"}, device.Requests())
}

func TestRadio_ReadRecord(t *testing.T) {
	radio, device := setupRadio(t)
	device.Respond("AT+CRSM=178,20256,2,4,0", `+CRSM: 144,0,"0108081140010000000A"`, "OK")

	actual, err := radio.ReadRecord(context.Background(), sim.EFImg, 2)

	assert.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x08, 0x08, 0x11, 0x40, 0x01, 0x00, 0x00, 0x00, 0x0A}, actual)
}

func TestRadio_Close(t *testing.T) {
	radio, device := setupRadio(t)
	received := &receivedMessages{}
	radio.SetUnsolicitedHandler(received.add)

	radio.Close()
	device.Inject(`+CUSATP: "D0"`)
	_, err := radio.InCall(context.Background())

	assert.Error(t, err)
	assert.Empty(t, received.get())
}
