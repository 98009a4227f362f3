package com

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLoop_CloseDevice(t *testing.T) {
	device := NewInMemory()
	lines := readLoop(device)
	device.Close()

	_, valid := <-lines

	assert.False(t, valid)
}

func TestReadLoop_ReadLine(t *testing.T) {
	device := NewInMemory()
	lines := readLoop(device)

	go func() {
		time.Sleep(10 * time.Millisecond)
		device.Inject("hello", "", "world")
	}()

	firstLine, valid := <-lines
	assert.True(t, valid)
	assert.Equal(t, "hello", firstLine)

	secondLine, valid := <-lines
	assert.True(t, valid)
	assert.Equal(t, "world", secondLine)

	device.Close()
	_, valid = <-lines
	assert.False(t, valid)
}

func TestCOM_CloseDevice(t *testing.T) {
	device := NewInMemory()
	com := New(device)

	device.Close()
	com.WaitUntilClosed()

	assert.True(t, com.Closed())
	_, err := com.AT(context.Background(), "AT")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCOM_DropGarbageOnStartup(t *testing.T) {
	device := NewInMemory()
	defer device.Close()
	device.Inject("+CME ERROR: 35")
	com := New(device)

	response, err := com.AT(context.Background(), "AT")

	assert.NoError(t, err)
	assert.Empty(t, response)
}

type recordedIndications struct {
	lock  sync.Mutex
	lines [][]string
}

func (r *recordedIndications) add(lines []string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.lines = append(r.lines, lines)
}

func (r *recordedIndications) get() [][]string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([][]string{}, r.lines...)
}

func TestCOM_IndicationsInOrder(t *testing.T) {
	device := NewInMemory()
	defer device.Close()
	com := New(device)
	recorded := &recordedIndications{}
	require.NoError(t, com.AddIndication("+CUSATP:", 0, recorded.add))
	require.NoError(t, com.AddIndication("+CUSATEND", 0, recorded.add))
	require.NoError(t, com.AddIndication("+MULTI:", 1, recorded.add))

	device.Inject(`+CUSATP: "D0"`, "+MULTI: 1", "trailing", "+CUSATEND", `+cusatp: "D1"`)

	assert.Eventually(t, func() bool { return len(recorded.get()) == 4 }, time.Second, time.Millisecond)
	assert.Equal(t, [][]string{
		{`+CUSATP: "D0"`},
		{"+MULTI: 1", "trailing"},
		{"+CUSATEND"},
		{`+cusatp: "D1"`},
	}, recorded.get())
}

func TestCOM_RemoveIndication(t *testing.T) {
	device := NewInMemory()
	defer device.Close()
	com := New(device)
	recorded := &recordedIndications{}
	require.NoError(t, com.AddIndication("+CUSATEND", 0, recorded.add))
	require.NoError(t, com.AddIndication("+CUSATP:", 0, recorded.add))

	com.RemoveIndication("+cusatend")
	device.Inject("+CUSATEND", `+CUSATP: "D0"`)

	assert.Eventually(t, func() bool { return len(recorded.get()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, [][]string{{`+CUSATP: "D0"`}}, recorded.get())
	assert.Error(t, com.AddIndication("", 0, recorded.add))
}

func TestCOM_IndicationDuringCommand(t *testing.T) {
	device := NewInMemory()
	defer device.Close()
	device.Respond("AT+CPAS", "+CPAS: 0", "+CUSATEND", "OK")
	com := New(device)
	recorded := &recordedIndications{}
	require.NoError(t, com.AddIndication("+CUSATEND", 0, recorded.add))

	response, err := com.AT(context.Background(), "AT+CPAS")

	assert.NoError(t, err)
	assert.Equal(t, []string{"+CPAS: 0"}, response)
	assert.Eventually(t, func() bool { return len(recorded.get()) == 1 }, time.Second, time.Millisecond)
}

func TestCOM_Command(t *testing.T) {
	tt := []struct {
		desc     string
		lines    []string
		expected []string
		invalid  bool
	}{
		{"ok", []string{"OK"}, []string{}, false},
		{"data", []string{"+CRSM: 144,0,\"00\"", "OK"}, []string{"+CRSM: 144,0,\"00\""}, false},
		{"echo", []string{"AT+CRSM=176,28486,0,0,0", "+CRSM: 144,0", "OK"}, []string{"+CRSM: 144,0"}, false},
		{"error", []string{"first line", "ERROR"}, nil, true},
		{"cme error", []string{"first line", "+CME Error: 35"}, nil, true},
		{"cms error", []string{"+CMS ERROR: 500"}, nil, true},
		{"no carrier", []string{"NO CARRIER"}, nil, true},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			device := NewInMemory()
			defer device.Close()
			device.Respond("AT+CRSM=176,28486,0,0,0", tc.lines...)
			com := New(device)

			response, err := com.AT(context.Background(), "AT+CRSM=176,28486,0,0,0")

			if tc.invalid {
				var atErr *ATError
				assert.ErrorAs(t, err, &atErr)
				assert.Equal(t, "AT+CRSM=176,28486,0,0,0", atErr.Request)
				assert.Empty(t, response)
				return
			}
			assert.NoError(t, err)
			assert.ElementsMatch(t, tc.expected, response)
		})
	}
}

func TestCOM_RequestTerminatedWithCR(t *testing.T) {
	device := NewInMemory()
	defer device.Close()
	com := New(device)

	err := com.ATs(context.Background(), "ATE0", `AT+CUSATT="810301"`)

	assert.NoError(t, err)
	assert.Equal(t, []string{"ATE0", `AT+CUSATT="810301"`}, device.Requests())
}

func TestCOM_ATsStopsOnError(t *testing.T) {
	device := NewInMemory()
	defer device.Close()
	device.Respond("AT+CUSATA=1", "ERROR")
	com := New(device)

	err := com.ATs(context.Background(), "AT+CUSATA=1", "AT")

	assert.Error(t, err)
	assert.Equal(t, []string{"AT+CUSATA=1"}, device.Requests())
}

func TestCOM_CommandCancelled(t *testing.T) {
	device := NewInMemory()
	defer device.Close()
	device.Respond("AT+CPAS")
	com := New(device)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := com.AT(ctx, "AT+CPAS")

	assert.ErrorIs(t, err, context.DeadlineExceeded)

	response, err := com.AT(context.Background(), "AT")
	assert.NoError(t, err)
	assert.Empty(t, response)
}

func TestCOM_WaitReady(t *testing.T) {
	device := NewInMemory()
	defer device.Close()
	device.Respond("AT", "ERROR")
	com := New(device)
	go func() {
		<-device.Written()
		device.Respond("AT", "OK")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := com.WaitReady(ctx)

	assert.NoError(t, err)
	assert.True(t, len(device.Requests()) >= 2)
}

func TestCOM_Trace(t *testing.T) {
	device := NewInMemory()
	tracer := &syncBuffer{}
	com := NewWithTrace(device, tracer)

	_, err := com.AT(context.Background(), "ATE0")
	require.NoError(t, err)
	device.Close()
	com.WaitUntilClosed()

	assert.Contains(t, tracer.String(), "tx:  ATE0")
	assert.Contains(t, tracer.String(), "rx:  OK")
}

type syncBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}
