package tlv

import (
	"fmt"
)

// The result codes the decoder raises on its own, according to [CAT] 8.12.
// The full set of result codes lives in package cat.
const (
	CmdDataNotUnderstood  byte = 0x32
	RequiredValuesMissing byte = 0x36
)

// ResultError is a decode failure that carries the result code to report back to the UICC.
type ResultError struct {
	Code    byte
	Message string
}

// NewResultError returns a new ResultError with the given code and an optional explanation.
func NewResultError(code byte, format string, args ...any) *ResultError {
	return &ResultError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *ResultError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("result 0x%02X", e.Code)
	}
	return fmt.Sprintf("result 0x%02X: %s", e.Code, e.Message)
}

// ComprehensionTLV is one decoded COMPREHENSION-TLV data object according to [CAT] 8.
type ComprehensionTLV struct {
	Tag   Tag
	CR    bool
	Value []byte
}

// Length of the value.
func (c ComprehensionTLV) Length() int {
	return len(c.Value)
}

// ParseComprehensionTLV decodes the COMPREHENSION-TLV at the beginning of the given bytes.
// It returns the data object and the count of bytes it occupies.
// An invalid first tag byte (0x00, 0x80, 0xFF) is reported as padding with ok=false.
func ParseComprehensionTLV(bytes []byte) (result ComprehensionTLV, n int, ok bool, err error) {
	if len(bytes) == 0 {
		return ComprehensionTLV{}, 0, false, NewResultError(RequiredValuesMissing, "no tag")
	}

	i := 0
	first := bytes[i]
	i++
	switch first {
	case 0x00, 0x80, 0xFF:
		return ComprehensionTLV{}, 0, false, nil
	case 0x7F:
		if len(bytes) < 3 {
			return ComprehensionTLV{}, 0, false, NewResultError(RequiredValuesMissing, "truncated three byte tag")
		}
		raw := uint16(bytes[1])<<8 | uint16(bytes[2])
		result.CR = raw&0x8000 != 0
		result.Tag = Tag(raw & 0x7FFF)
		i += 2
	default:
		result.CR = first&ComprehensionRequired != 0
		result.Tag = Tag(first &^ ComprehensionRequired)
	}

	length, i, err := parseLength(bytes, i)
	if err != nil {
		return ComprehensionTLV{}, 0, false, err
	}
	if len(bytes)-i < length {
		return ComprehensionTLV{}, 0, false, NewResultError(RequiredValuesMissing, "tag 0x%02X needs %d bytes, only %d left", result.Tag, length, len(bytes)-i)
	}

	result.Value = bytes[i : i+length]
	return result, i + length, true, nil
}

// ParseComprehensionTLVs decodes all COMPREHENSION-TLVs in the given bytes. Decoding ends at the
// first padding byte.
func ParseComprehensionTLVs(bytes []byte) ([]ComprehensionTLV, error) {
	result := make([]ComprehensionTLV, 0, 8)
	for len(bytes) > 0 {
		item, n, ok, err := ParseComprehensionTLV(bytes)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		result = append(result, item)
		bytes = bytes[n:]
	}
	return result, nil
}

func parseLength(bytes []byte, i int) (int, int, error) {
	if i >= len(bytes) {
		return 0, i, NewResultError(RequiredValuesMissing, "no length")
	}
	first := int(bytes[i])
	i++
	if first < 0x80 {
		return first, i, nil
	}

	var count, min int
	switch first {
	case 0x81:
		count, min = 1, 0x80
	case 0x82:
		count, min = 2, 0x100
	case 0x83:
		count, min = 3, 0x10000
	default:
		return 0, i, NewResultError(CmdDataNotUnderstood, "invalid length 0x%02X", first)
	}
	if len(bytes)-i < count {
		return 0, i, NewResultError(RequiredValuesMissing, "truncated length")
	}

	length := 0
	for _, b := range bytes[i : i+count] {
		length = length<<8 | int(b)
	}
	if length < min {
		return 0, i, NewResultError(CmdDataNotUnderstood, "invalid length encoding 0x%02X %d", first, length)
	}
	return length, i + count, nil
}

// BerTLV is the top level data object of a proactive command or envelope according to [CAT] 9.1.
type BerTLV struct {
	Tag  byte
	TLVs []ComprehensionTLV

	// LengthValid is false if the declared length of a proactive command does not match its content.
	LengthValid bool
}

// UnknownTag is used for data that starts directly with the COMMAND DETAILS data object.
const UnknownTag byte = 0x00

// ParseBerTLV decodes the given bytes into a BER-TLV.
func ParseBerTLV(bytes []byte) (BerTLV, error) {
	if len(bytes) == 0 {
		return BerTLV{}, NewResultError(RequiredValuesMissing, "empty data")
	}

	result := BerTLV{
		Tag:         bytes[0],
		LengthValid: true,
	}
	i := 1
	length := -1
	switch {
	case result.Tag == ProactiveCommandTag:
		if i >= len(bytes) {
			return BerTLV{}, NewResultError(RequiredValuesMissing, "no length")
		}
		l := int(bytes[i])
		i++
		switch {
		case l < 0x80:
			length = l
		case l == 0x81:
			if i >= len(bytes) {
				return BerTLV{}, NewResultError(RequiredValuesMissing, "truncated length")
			}
			l = int(bytes[i])
			i++
			if l < 0x80 {
				return BerTLV{}, NewResultError(CmdDataNotUnderstood, "invalid length encoding 0x81 %d", l)
			}
			length = l
		default:
			return BerTLV{}, NewResultError(CmdDataNotUnderstood, "invalid length 0x%02X", l)
		}
	case Tag(result.Tag&^ComprehensionRequired) == CommandDetails:
		result.Tag = UnknownTag
		i = 0
	default:
		return BerTLV{}, NewResultError(CmdDataNotUnderstood, "unexpected tag 0x%02X", result.Tag)
	}

	if length > len(bytes)-i {
		return BerTLV{}, NewResultError(CmdDataNotUnderstood, "declared length %d exceeds data %d", length, len(bytes)-i)
	}

	tlvs, err := ParseComprehensionTLVs(bytes[i:])
	if err != nil {
		return BerTLV{}, err
	}
	result.TLVs = tlvs

	if result.Tag == ProactiveCommandTag {
		result.LengthValid = length == encodedLength(tlvs)
	}
	return result, nil
}

func encodedLength(tlvs []ComprehensionTLV) int {
	result := 0
	for _, item := range tlvs {
		switch {
		case item.Length() < 0x80:
			result += item.Length() + 2
		case item.Length() <= 0xFF:
			result += item.Length() + 3
		default:
			return -1
		}
	}
	return result
}

// Find returns the first data object with the given tag.
func Find(tlvs []ComprehensionTLV, tag Tag) (ComprehensionTLV, bool) {
	for _, item := range tlvs {
		if item.Tag == tag {
			return item, true
		}
	}
	return ComprehensionTLV{}, false
}

// Cursor walks through a sequence of data objects, in order to read repeated tags one after another.
type Cursor struct {
	tlvs []ComprehensionTLV
	pos  int
}

func NewCursor(tlvs []ComprehensionTLV) *Cursor {
	return &Cursor{tlvs: tlvs}
}

// Next returns the next data object with the given tag after the current position
// and moves the cursor behind it. If there is no such data object, the cursor stays where it is.
func (c *Cursor) Next(tag Tag) (ComprehensionTLV, bool) {
	for i := c.pos; i < len(c.tlvs); i++ {
		if c.tlvs[i].Tag == tag {
			c.pos = i + 1
			return c.tlvs[i], true
		}
	}
	return ComprehensionTLV{}, false
}
