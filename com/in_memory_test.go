package com

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_Read(t *testing.T) {
	tt := []struct {
		desc     string
		bufLen   int
		expected string
	}{
		{"short", 20, "\r\nhello\r\n"},
		{"exact", 9, "\r\nhello\r\n"},
		{"long", 4, "\r\nhe"},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			rw := NewInMemory()
			rw.Inject("hello")
			buf := make([]byte, tc.bufLen)

			n, err := rw.Read(buf)

			assert.NoError(t, err)
			assert.Equal(t, len(tc.expected), n)
			assert.Equal(t, tc.expected, string(buf[0:n]))
		})
	}
}

func TestInMemory_ReadClose(t *testing.T) {
	rw := NewInMemory()

	go func() {
		time.Sleep(time.Millisecond)
		rw.Close()
	}()

	buf := make([]byte, 10)
	n, err := rw.Read(buf)

	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 0, n)
}

func TestInMemory_ReadLater(t *testing.T) {
	rw := NewInMemory()

	go func() {
		time.Sleep(time.Millisecond)
		rw.Inject("hello")
	}()

	buf := make([]byte, 20)
	n, err := rw.Read(buf)

	assert.NoError(t, err)
	assert.Equal(t, "\r\nhello\r\n", string(buf[0:n]))
}

func TestInMemory_Respond(t *testing.T) {
	rw := NewInMemory()
	rw.Respond("AT+CPAS", "+CPAS: 4", "OK")
	rw.RespondPrefix("AT+CRSM=", "ERROR")

	for _, request := range []string{"AT+CP", "AS\rAT+CRSM=176,28486,0,0,0\rATE0\r"} {
		_, err := rw.Write([]byte(request))
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"AT+CPAS", "AT+CRSM=176,28486,0,0,0", "ATE0"}, rw.Requests())
	assert.Equal(t, "ATE0", rw.LastRequest())

	buf := make([]byte, 100)
	n, err := rw.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "\r\n+CPAS: 4\r\n\r\nOK\r\n\r\nERROR\r\n\r\nOK\r\n", string(buf[:n]))
}

func TestInMemory_WriteClosed(t *testing.T) {
	rw := NewInMemory()
	rw.Close()

	_, err := rw.Write([]byte("AT\r"))

	assert.Error(t, err)
	assert.Empty(t, rw.Requests())
}
