package cat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ftl/sim-toolkit/sim"
)

func TestDecodeTextString(t *testing.T) {
	tt := []struct {
		desc     string
		value    string
		expected string
		invalid  bool
	}{
		{
			desc:     "empty",
			value:    "",
			expected: "",
		},
		{
			desc:     "only coding scheme",
			value:    "04",
			expected: "",
		},
		{
			desc:     "GSM packed",
			value:    "00C8329BFD06",
			expected: "Hello",
		},
		{
			desc:     "GSM unpacked",
			value:    "0448656C6C6F",
			expected: "Hello",
		},
		{
			desc:     "UCS2",
			value:    "08004100420043",
			expected: "ABC",
		},
		{
			desc:     "UCS2 with odd trailing byte",
			value:    "0800410042FF",
			expected: "AB",
		},
		{
			desc:    "unsupported coding scheme",
			value:   "0C41",
			invalid: true,
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			value, err := sim.HexToBinary(tc.value)
			assert.NoError(t, err)

			actual, err := DecodeTextString(value)

			if tc.invalid {
				assert.Error(t, err)
				assert.Equal(t, CmdDataNotUnderstood, ResultCodeOf(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestDecodeAlphaID(t *testing.T) {
	tt := []struct {
		desc     string
		value    string
		expected string
	}{
		{
			desc:     "empty",
			value:    "",
			expected: "",
		},
		{
			desc:     "GSM",
			value:    "53494D",
			expected: "SIM",
		},
		{
			desc:     "GSM with padding",
			value:    "414243FFFF",
			expected: "ABC",
		},
		{
			desc:     "UCS2 with padding",
			value:    "80004100420043FFFF",
			expected: "ABC",
		},
		{
			desc:     "compressed UCS2 with 7 bit base",
			value:    "810208C141",
			expected: "сA",
		},
		{
			desc:     "compressed UCS2 with 8 bit base",
			value:    "82020410C141",
			expected: "ёA",
		},
		{
			desc:     "compressed UCS2 with count beyond data",
			value:    "820504104141",
			expected: "AA",
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			value, err := sim.HexToBinary(tc.value)
			assert.NoError(t, err)

			actual := DecodeAlphaID(value)

			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestEncodeTextString(t *testing.T) {
	tt := []struct {
		desc        string
		text        string
		dcs         DataCodingScheme
		expectedDCS DataCodingScheme
		expected    string
	}{
		{
			desc:        "GSM unpacked",
			text:        "Hello",
			dcs:         GSMUnpacked,
			expectedDCS: GSMUnpacked,
			expected:    "48656C6C6F",
		},
		{
			desc:        "GSM packed",
			text:        "Hello",
			dcs:         GSMPacked,
			expectedDCS: GSMPacked,
			expected:    "C8329BFD06",
		},
		{
			desc:        "UCS2",
			text:        "AB",
			dcs:         UCS2,
			expectedDCS: UCS2,
			expected:    "00410042",
		},
		{
			desc:        "fall back to UCS2",
			text:        "ё",
			dcs:         GSMUnpacked,
			expectedDCS: UCS2,
			expected:    "0451",
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actualDCS, actual := EncodeTextString(tc.text, tc.dcs)

			assert.Equal(t, tc.expectedDCS, actualDCS)
			assert.Equal(t, tc.expected, sim.BinaryToHex(actual))
		})
	}
}

func TestLanguage(t *testing.T) {
	assert.Equal(t, "de", DecodeLanguage([]byte{'d', 'e'}))
	assert.Equal(t, "", DecodeLanguage([]byte{'d'}))
	assert.Equal(t, []byte{'f', 'r'}, EncodeLanguage("fr"))
	assert.Equal(t, []byte{'e', 'n'}, EncodeLanguage(""))
}
