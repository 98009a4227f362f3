package cat

import (
	"net"
	"strings"

	"github.com/ftl/sim-toolkit/tlv"
)

/* Parsers for the values of single COMPREHENSION-TLV data objects */

func parseIconID(c tlv.ComprehensionTLV) (*IconID, error) {
	if c.Length() < 2 {
		return nil, fail(CmdDataNotUnderstood, "icon identifier too short: %d", c.Length())
	}
	return &IconID{
		SelfExplanatory: c.Value[0]&0x01 == 0,
		Record:          c.Value[1],
	}, nil
}

func parseItemIconIDList(c tlv.ComprehensionTLV) (*ItemIconIDList, error) {
	if c.Length() < 1 {
		return nil, fail(CmdDataNotUnderstood, "item icon identifier list too short")
	}
	return &ItemIconIDList{
		SelfExplanatory: c.Value[0]&0x01 == 0,
		Records:         append([]byte{}, c.Value[1:]...),
	}, nil
}

func parseDuration(c tlv.ComprehensionTLV) (*Duration, error) {
	if c.Length() < 2 {
		return nil, fail(CmdDataNotUnderstood, "duration too short: %d", c.Length())
	}
	return &Duration{
		Unit:     TimeUnit(c.Value[0]),
		Interval: c.Value[1],
	}, nil
}

// parseItem returns nil for an item without content, the marker of the empty menu.
func parseItem(c tlv.ComprehensionTLV) *Item {
	if c.Length() == 0 {
		return nil
	}
	return &Item{
		ID:   c.Value[0],
		Text: DecodeAlphaID(c.Value[1:]),
	}
}

func parseItemID(c tlv.ComprehensionTLV) (byte, error) {
	if c.Length() < 1 {
		return 0, fail(CmdDataNotUnderstood, "empty item identifier")
	}
	return c.Value[0], nil
}

func parseResponseLength(c tlv.ComprehensionTLV) (int, int, error) {
	if c.Length() < 2 {
		return 0, 0, fail(CmdDataNotUnderstood, "response length too short: %d", c.Length())
	}
	return int(c.Value[0]), int(c.Value[1]), nil
}

// parseEventList ignores events that are not known.
func parseEventList(c tlv.ComprehensionTLV) []EventListType {
	result := make([]EventListType, 0, c.Length())
	for _, b := range c.Value {
		event, ok := EventListTypeFromValue(b)
		if !ok {
			continue
		}
		result = append(result, event)
	}
	return result
}

// decodeBCD decodes semi-octet digits according to [GSM] 31.102 4.4.2.3 (extended BCD).
// The wild card values 0xD and 0xE are dropped, 0xF is the filler.
func decodeBCD(value []byte) string {
	var result strings.Builder
	for _, b := range value {
		for _, nibble := range []byte{b & 0x0F, b >> 4} {
			switch {
			case nibble <= 9:
				result.WriteByte('0' + nibble)
			case nibble == 0x0A:
				result.WriteByte('*')
			case nibble == 0x0B:
				result.WriteByte('#')
			case nibble == 0x0C:
				result.WriteByte('P')
			case nibble == 0x0F:
				return result.String()
			}
		}
	}
	return result.String()
}

const internationalNumber = 0x10

func parseAddress(c tlv.ComprehensionTLV) (string, error) {
	if c.Length() < 1 {
		return "", fail(CmdDataNotUnderstood, "empty address")
	}
	digits := decodeBCD(c.Value[1:])
	if c.Value[0]&0x70 == internationalNumber && digits != "" {
		return "+" + digits, nil
	}
	return digits, nil
}

func parseBearerDescription(c tlv.ComprehensionTLV) (*BearerDescription, error) {
	if c.Length() < 1 {
		return nil, fail(CmdDataNotUnderstood, "empty bearer description")
	}
	return &BearerDescription{
		Type:   c.Value[0],
		Params: append([]byte{}, c.Value[1:]...),
	}, nil
}

func parseBufferSize(c tlv.ComprehensionTLV) (int, error) {
	if c.Length() < 2 {
		return 0, fail(CmdDataNotUnderstood, "buffer size too short: %d", c.Length())
	}
	return int(c.Value[0])<<8 | int(c.Value[1]), nil
}

// parseNetworkAccessName decodes the label encoded access point name according to [GSM] 23.003 9.1
func parseNetworkAccessName(c tlv.ComprehensionTLV) string {
	labels := make([]string, 0, 4)
	value := c.Value
	for len(value) > 0 {
		n := int(value[0])
		value = value[1:]
		if n > len(value) {
			n = len(value)
		}
		labels = append(labels, string(value[:n]))
		value = value[n:]
	}
	return strings.Join(labels, ".")
}

func parseTransportLevel(c tlv.ComprehensionTLV) (*TransportLevel, error) {
	if c.Length() < 1 {
		return nil, fail(CmdDataNotUnderstood, "empty transport level")
	}
	result := &TransportLevel{Protocol: c.Value[0]}
	if c.Length() >= 3 {
		result.Port = uint16(c.Value[1])<<8 | uint16(c.Value[2])
	}
	return result, nil
}

// The address types of OTHER ADDRESS
const (
	addressIPv4 byte = 0x21
	addressIPv6 byte = 0x57
)

func parseOtherAddress(c tlv.ComprehensionTLV) (*OtherAddress, error) {
	if c.Length() == 0 {
		return nil, nil
	}
	result := &OtherAddress{Type: c.Value[0]}
	raw := c.Value[1:]
	switch {
	case result.Type == addressIPv4 && len(raw) == net.IPv4len:
		result.Address = net.IPv4(raw[0], raw[1], raw[2], raw[3])
	case result.Type == addressIPv6 && len(raw) == net.IPv6len:
		result.Address = append(net.IP{}, raw...)
	default:
		return nil, fail(CmdDataNotUnderstood, "invalid address type 0x%02X with %d bytes", result.Type, len(raw))
	}
	return result, nil
}

func parseByte(c tlv.ComprehensionTLV) (byte, error) {
	if c.Length() < 1 {
		return 0, fail(CmdDataNotUnderstood, "empty tag 0x%02X", c.Tag)
	}
	return c.Value[0], nil
}
