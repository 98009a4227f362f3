package cat

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/sim-toolkit/sim"
)

func TestTerminalResponse_Encode(t *testing.T) {
	displayText := CommandDetails{CompRequired: true, Number: 1, Type: DisplayText, Qualifier: 0x80}
	selectItem := CommandDetails{CompRequired: true, Number: 1, Type: SelectItem}
	getInput := CommandDetails{CompRequired: true, Number: 2, Type: GetInput}

	tt := []struct {
		desc     string
		response TerminalResponse
		expected string
	}{
		{
			desc:     "ok",
			response: TerminalResponse{Details: displayText, Result: OK},
			expected: "810301218082028281830100",
		},
		{
			desc:     "without comprehension required",
			response: TerminalResponse{Details: CommandDetails{Number: 1, Type: DisplayText, Qualifier: 0x80}, Result: OK},
			expected: "010301218082028281830100",
		},
		{
			desc:     "additional information",
			response: TerminalResponse{Details: displayText, Result: TerminalCrntlyUnableToProcess, AdditionalInfo: []byte{byte(ScreenBusy)}},
			expected: "81030121808202828183022001",
		},
		{
			desc:     "selected item",
			response: TerminalResponse{Details: selectItem, Result: OK, Data: SelectItemResponseData{ItemID: 2}},
			expected: "810301240082028281830100900102",
		},
		{
			desc:     "text input",
			response: TerminalResponse{Details: getInput, Result: OK, Data: GetInputResponseData{Text: "1234"}},
			expected: "8103022300820282818301008D050431323334",
		},
		{
			desc:     "empty text input",
			response: TerminalResponse{Details: getInput, Result: OK, Data: GetInputResponseData{}},
			expected: "8103022300820282818301008D0104",
		},
		{
			desc:     "yes",
			response: TerminalResponse{Details: getInput, Result: OK, Data: GetInputResponseData{YesNo: true, Yes: true}},
			expected: "8103022300820282818301008D020401",
		},
		{
			desc:     "raw data",
			response: TerminalResponse{Details: selectItem, Result: OK, Data: RawResponseData{0x90, 0x01, 0x03}},
			expected: "810301240082028281830100900103",
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual := tc.response.Encode()

			assert.Equal(t, tc.expected, sim.BinaryToHex(actual))
		})
	}
}

func TestParseTerminalResponse(t *testing.T) {
	bytes, err := sim.HexToBinary("81030124008202828183022001900102")
	require.NoError(t, err)

	actual, err := ParseTerminalResponse(bytes)

	require.NoError(t, err)
	assert.Equal(t, CommandDetails{CompRequired: true, Number: 1, Type: SelectItem}, actual.Details)
	assert.Equal(t, TerminalCrntlyUnableToProcess, actual.Result)
	assert.Equal(t, []byte{0x01}, actual.AdditionalInfo)
	assert.Equal(t, RawResponseData{0x90, 0x01, 0x02}, actual.Data)
	assert.Equal(t, bytes, actual.Encode())

	_, err = ParseTerminalResponse([]byte{0x81, 0x03, 0x01, 0x24, 0x00})
	assert.Equal(t, RequiredValuesMissing, ResultCodeOf(err))
}

func TestResponseData(t *testing.T) {
	tt := []struct {
		desc     string
		data     ResponseData
		expected string
	}{
		{
			desc:     "date time and time zone",
			data:     DTTZResponseData{Time: time.Date(2024, time.March, 15, 13, 45, 30, 0, time.FixedZone("CET", 3600))},
			expected: "A60742305131540340",
		},
		{
			desc:     "negative time zone",
			data:     DTTZResponseData{Time: time.Date(2024, time.March, 15, 13, 45, 30, 0, time.FixedZone("NST", -9000))},
			expected: "A60742305131540309",
		},
		{
			desc:     "language",
			data:     LanguageResponseData{Language: "de"},
			expected: "AD026465",
		},
		{
			desc:     "channel status",
			data:     ChannelStatus{ChannelID: FirstChannel, LinkEstablished: true},
			expected: "B8028100",
		},
		{
			desc: "open channel",
			data: OpenChannelResponseData{
				Status:     &ChannelStatus{ChannelID: FirstChannel, LinkEstablished: true},
				Bearer:     &BearerDescription{Type: 0x03, Params: []byte{}},
				BufferSize: 1400,
			},
			expected: "B8028100B50103B9020578",
		},
		{
			desc:     "received data",
			data:     ReceiveDataResponseData{Data: []byte{0x01, 0x02}, Remaining: 300},
			expected: "B6020102B701FF",
		},
		{
			desc:     "received data beyond the maximum length",
			data:     ReceiveDataResponseData{Data: bytes.Repeat([]byte{0xAA}, 0x101), Remaining: 0},
			expected: "B681FF" + strings.Repeat("AA", 0xFF) + "B70102",
		},
		{
			desc:     "sent data",
			data:     SendDataResponseData{FreeSpace: 16},
			expected: "B70110",
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			response := TerminalResponse{Details: CommandDetails{CompRequired: true, Number: 1, Type: OpenChannel}, Result: OK, Data: tc.data}

			actual := sim.BinaryToHex(response.Encode())

			assert.Equal(t, "810301400082028281830100"+tc.expected, actual)
		})
	}
}
