package cat

import (
	"github.com/warthog618/sms/encoding/gsm7"
	"github.com/warthog618/sms/encoding/ucs2"
	"golang.org/x/text/encoding/charmap"
)

/* Text related types and functions */

// DataCodingScheme of a TEXT STRING according to [CAT] 8.15 and [GSM] 23.038
type DataCodingScheme byte

const (
	GSMPacked   DataCodingScheme = 0x00
	GSMUnpacked DataCodingScheme = 0x04
	UCS2        DataCodingScheme = 0x08
)

const (
	dcsMask        = 0x0C
	alphaPadding   = 0xFF
	septetCR       = 0x0D
	ucs2Prefix     = 0x80
	ucs2Base7Bit   = 0x81
	ucs2Base8Bit   = 0x82
	ucs2BaseMarker = 0x80
)

// DecodeTextString decodes the value of a TEXT STRING data object. An empty value is the null text.
func DecodeTextString(value []byte) (string, error) {
	if len(value) == 0 {
		return "", nil
	}
	dcs := DataCodingScheme(value[0] & dcsMask)
	data := value[1:]
	switch dcs {
	case GSMPacked:
		septets := gsm7.Unpack7Bit(data, 0)
		if len(data)%7 == 0 && len(septets) > 0 && septets[len(septets)-1] == septetCR {
			septets = septets[:len(septets)-1]
		}
		return decodeGSM(septets), nil
	case GSMUnpacked:
		return decodeGSM(data), nil
	case UCS2:
		return decodeUCS2(data)
	default:
		return "", fail(CmdDataNotUnderstood, "unsupported data coding scheme 0x%02X", value[0])
	}
}

// DecodeAlphaID decodes an ALPHA IDENTIFIER according to [CAT] 8.2 and [USIM] annex A.
func DecodeAlphaID(value []byte) string {
	if len(value) == 0 {
		return ""
	}
	switch value[0] {
	case ucs2Prefix:
		data := value[1:]
		for len(data) >= 2 && data[len(data)-2] == alphaPadding && data[len(data)-1] == alphaPadding {
			data = data[:len(data)-2]
		}
		text, err := decodeUCS2(data)
		if err != nil {
			return decodeLenient(value[1:])
		}
		return text
	case ucs2Base7Bit:
		if len(value) < 3 {
			return ""
		}
		count := int(value[1])
		base := rune(value[2]) << 7
		return decodeCompressedUCS2(value[3:], count, base)
	case ucs2Base8Bit:
		if len(value) < 4 {
			return ""
		}
		count := int(value[1])
		base := rune(value[2])<<8 | rune(value[3])
		return decodeCompressedUCS2(value[4:], count, base)
	default:
		return decodeGSM(trimPadding(value))
	}
}

func trimPadding(value []byte) []byte {
	end := len(value)
	for end > 0 && value[end-1] == alphaPadding {
		end--
	}
	return value[:end]
}

func decodeCompressedUCS2(data []byte, count int, base rune) string {
	if count > len(data) {
		count = len(data)
	}
	result := make([]rune, 0, count)
	for _, b := range data[:count] {
		if b&ucs2BaseMarker != 0 {
			result = append(result, base+rune(b&^ucs2BaseMarker))
			continue
		}
		result = append(result, []rune(decodeGSM([]byte{b}))...)
	}
	return string(result)
}

// decodeGSM decodes unpacked septets of the GSM default alphabet. Data that is not a valid
// GSM sequence is decoded as ISO 8859-1.
func decodeGSM(septets []byte) string {
	if len(septets) == 0 {
		return ""
	}
	gsmDecoder := gsm7.NewDecoder()
	decoded, err := gsmDecoder.Decode(septets)
	if err == nil {
		return string(decoded)
	}
	return decodeLenient(septets)
}

func decodeLenient(data []byte) string {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

func decodeUCS2(data []byte) (string, error) {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}
	runes, err := ucs2.Decode(data)
	if err != nil {
		return "", fail(CmdDataNotUnderstood, "invalid UCS2 text: %v", err)
	}
	return string(runes), nil
}

// EncodeTextString encodes the given text for the value of a TEXT STRING data object.
// Text that cannot be represented in the GSM default alphabet is encoded as UCS2.
func EncodeTextString(text string, dcs DataCodingScheme) (DataCodingScheme, []byte) {
	if dcs == UCS2 {
		return UCS2, ucs2.Encode([]rune(text))
	}
	gsmEncoder := gsm7.NewEncoder()
	septets, err := gsmEncoder.Encode([]byte(text))
	if err != nil {
		return UCS2, ucs2.Encode([]rune(text))
	}
	if dcs == GSMPacked {
		return GSMPacked, gsm7.Pack7Bit(septets, 0)
	}
	return GSMUnpacked, septets
}

// DecodeLanguage decodes the two GSM characters of a LANGUAGE data object according to [CAT] 8.45
func DecodeLanguage(value []byte) string {
	if len(value) < 2 {
		return ""
	}
	return decodeGSM(value[:2])
}

// EncodeLanguage encodes an ISO 639 language code into the two GSM characters of a LANGUAGE data object.
func EncodeLanguage(language string) []byte {
	result := []byte{'e', 'n'}
	gsmEncoder := gsm7.NewEncoder()
	septets, err := gsmEncoder.Encode([]byte(language))
	if err != nil || len(septets) < 2 {
		return result
	}
	copy(result, septets[:2])
	return result
}
