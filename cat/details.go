package cat

import (
	"errors"
	"fmt"

	"github.com/ftl/sim-toolkit/tlv"
)

// CommandDetails identify one proactive command instance according to [CAT] 8.6
type CommandDetails struct {
	CompRequired bool        `json:"comp_required"`
	Number       byte        `json:"number"`
	Type         CommandType `json:"type"`
	Qualifier    byte        `json:"qualifier"`
}

// Equal reports if both details denote the same proactive command.
func (d CommandDetails) Equal(other CommandDetails) bool {
	return d.CompRequired == other.CompRequired &&
		d.Number == other.Number &&
		d.Type == other.Type &&
		d.Qualifier == other.Qualifier
}

func (d CommandDetails) String() string {
	return fmt.Sprintf("#%d %s q=0x%02X", d.Number, d.Type, d.Qualifier)
}

// ParseCommandDetails from the value of a COMMAND DETAILS data object.
func ParseCommandDetails(c tlv.ComprehensionTLV) (CommandDetails, error) {
	if c.Tag != tlv.CommandDetails {
		return CommandDetails{}, fail(CmdTypeNotUnderstood, "expected command details, got tag 0x%02X", c.Tag)
	}
	if c.Length() < 3 {
		return CommandDetails{}, fail(CmdDataNotUnderstood, "command details too short: %d", c.Length())
	}
	return CommandDetails{
		CompRequired: c.CR,
		Number:       c.Value[0],
		Type:         CommandType(c.Value[1]),
		Qualifier:    c.Value[2],
	}, nil
}

// DeviceIdentities of source and destination according to [CAT] 8.7
type DeviceIdentities struct {
	Source      DeviceIdentity `json:"source"`
	Destination DeviceIdentity `json:"destination"`
}

// ParseDeviceIdentities from the value of a DEVICE IDENTITIES data object.
func ParseDeviceIdentities(c tlv.ComprehensionTLV) (DeviceIdentities, error) {
	if c.Length() < 2 {
		return DeviceIdentities{}, fail(CmdDataNotUnderstood, "device identities too short: %d", c.Length())
	}
	return DeviceIdentities{
		Source:      DeviceIdentity(c.Value[0]),
		Destination: DeviceIdentity(c.Value[1]),
	}, nil
}

func fail(code ResultCode, format string, args ...any) error {
	return tlv.NewResultError(byte(code), format, args...)
}

// ResultCodeOf returns the result code carried by the given error.
// Errors that do not carry a result code are reported as CMD_DATA_NOT_UNDERSTOOD.
func ResultCodeOf(err error) ResultCode {
	if err == nil {
		return OK
	}
	var resultErr *tlv.ResultError
	if errors.As(err, &resultErr) {
		return ResultCode(resultErr.Code)
	}
	return CmdDataNotUnderstood
}
