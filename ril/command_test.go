package ril

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ftl/sim-toolkit/sim"
)

func respondWith(expectedRequest string, lines ...string) RequesterFunc {
	return func(_ context.Context, request string) ([]string, error) {
		if request != expectedRequest {
			return nil, errors.New("unexpected request " + request)
		}
		return lines, nil
	}
}

func TestRequestCallState(t *testing.T) {
	tt := []struct {
		desc     string
		lines    []string
		expected CallState
		invalid  bool
	}{
		{"ready", []string{"+CPAS: 0"}, Ready, false},
		{"in call", []string{"+CPAS: 4"}, CallInProgress, false},
		{"lower case", []string{"+cpas: 3"}, Ringing, false},
		{"no response", []string{}, 0, true},
		{"garbage", []string{"+CPAS: x"}, 0, true},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual, err := RequestCallState(context.Background(), respondWith("AT+CPAS", tc.lines...))
			if tc.invalid {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestReadRecord(t *testing.T) {
	tt := []struct {
		desc     string
		lines    []string
		expected []byte
		err      error
	}{
		{"ok", []string{`+CRSM: 144,0,"0108081140010000000A"`}, []byte{0x01, 0x08, 0x08, 0x11, 0x40, 0x01, 0x00, 0x00, 0x00, 0x0A}, nil},
		{"proactive pending", []string{`+CRSM: 145,12,"01"`}, []byte{0x01}, nil},
		{"file not found", []string{`+CRSM: 106,130`}, nil, ErrSIMAccess},
		{"no response", nil, nil, ErrNoResponse},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual, err := ReadRecord(context.Background(), respondWith("AT+CRSM=178,20256,1,4,0", tc.lines...), sim.EFImg, 1)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestReadBinary(t *testing.T) {
	requester := respondWith("AT+CRSM=176,20225,1,2,3", `+CRSM: 144,0,"AABBCC"`)

	actual, err := ReadBinary(context.Background(), requester, sim.FileID(0x4F01), 0x0102, 3)

	assert.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, actual)
}

func TestRequests(t *testing.T) {
	assert.Equal(t, `AT+CUSATT="810301"`, SendTerminalResponse("810301"))
	assert.Equal(t, `AT+CUSATE="D307"`, SendEnvelope("D307"))
	assert.Equal(t, "AT+SPUSATCALLSETUP=1", ConfirmCallSetup(true))
	assert.Equal(t, "AT+SPUSATCALLSETUP=0", ConfirmCallSetup(false))
	assert.Equal(t, "AT+VTS=#", SendDTMF('#'))
}

func TestCallStateByName(t *testing.T) {
	actual, err := CallStateByName(" call_in_progress")
	assert.NoError(t, err)
	assert.Equal(t, CallInProgress, actual)
	assert.True(t, actual.InCall())
	assert.Equal(t, "RINGING", Ringing.String())

	_, err = CallStateByName("dialing")
	assert.Error(t, err)
}
