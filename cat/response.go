package cat

import (
	"time"

	"github.com/ftl/sim-toolkit/tlv"
)

// Response is the answer of the application to a proactive command, or the report of an event
// the UICC asked to be informed about.
type Response struct {
	Details        CommandDetails `json:"details"`
	Result         ResultCode     `json:"result"`
	AdditionalInfo *byte          `json:"additional_info,omitempty"`
	BIPProblem     BIPProblem     `json:"bip_problem,omitempty"`

	MenuSelection byte   `json:"menu_selection,omitempty"`
	Input         string `json:"input,omitempty"`
	YesNo         bool   `json:"yes_no,omitempty"`
	Confirmed     bool   `json:"confirmed,omitempty"`

	// bearer independent protocol
	ChannelID       DeviceIdentity     `json:"channel_id,omitempty"`
	LinkEstablished bool               `json:"link_established,omitempty"`
	ChannelInfo     byte               `json:"channel_info,omitempty"`
	Bearer          *BearerDescription `json:"bearer,omitempty"`
	BufferSize      int                `json:"buffer_size,omitempty"`
	ChannelData     []byte             `json:"channel_data,omitempty"`
	DataLength      int                `json:"data_length,omitempty"`

	// event download
	Event                   EventListType `json:"event"`
	Language                string        `json:"language,omitempty"`
	BrowserTerminationCause byte          `json:"browser_termination_cause,omitempty"`
}

func (r Response) channelStatus() ChannelStatus {
	return ChannelStatus{
		ChannelID:       r.ChannelID,
		LinkEstablished: r.LinkEstablished,
		Info:            r.ChannelInfo,
	}
}

// TerminalResponse according to [CAT] 6.8
type TerminalResponse struct {
	Details        CommandDetails
	Result         ResultCode
	AdditionalInfo []byte
	Data           ResponseData
}

// Encode the terminal response: COMMAND DETAILS, DEVICE IDENTITIES (terminal to UICC), RESULT and the
// command specific data.
func (r TerminalResponse) Encode() []byte {
	w := tlv.NewWriter()
	w.WriteTLV(tlv.CommandDetails, r.Details.CompRequired, r.Details.Number, byte(r.Details.Type), r.Details.Qualifier)
	w.WriteTLV(tlv.DeviceIdentities, true, byte(DeviceTerminal), byte(DeviceUICC))
	result := make([]byte, 0, 1+len(r.AdditionalInfo))
	result = append(result, byte(r.Result))
	result = append(result, r.AdditionalInfo...)
	w.WriteTLV(tlv.Result, true, result...)
	if r.Data != nil {
		r.Data.encodeTo(w)
	}
	return w.Bytes()
}

// ParseTerminalResponse decodes an encoded terminal response. Command specific data is kept as RawResponseData.
func ParseTerminalResponse(bytes []byte) (TerminalResponse, error) {
	tlvs, err := tlv.ParseComprehensionTLVs(bytes)
	if err != nil {
		return TerminalResponse{}, err
	}
	if len(tlvs) < 3 {
		return TerminalResponse{}, fail(RequiredValuesMissing, "terminal response needs at least 3 data objects, got %d", len(tlvs))
	}

	var result TerminalResponse
	result.Details, err = ParseCommandDetails(tlvs[0])
	if err != nil {
		return TerminalResponse{}, err
	}
	if tlvs[2].Tag != tlv.Result || tlvs[2].Length() < 1 {
		return TerminalResponse{}, fail(RequiredValuesMissing, "no result")
	}
	result.Result = ResultCode(tlvs[2].Value[0])
	if tlvs[2].Length() > 1 {
		result.AdditionalInfo = append([]byte{}, tlvs[2].Value[1:]...)
	}

	if len(tlvs) > 3 {
		w := tlv.NewWriter()
		for _, c := range tlvs[3:] {
			w.WriteTLV(c.Tag, c.CR, c.Value...)
		}
		result.Data = RawResponseData(w.Bytes())
	}
	return result, nil
}

// ResponseData is the command specific part of a terminal response.
type ResponseData interface {
	encodeTo(w *tlv.Writer)
}

// RawResponseData is response data that is already encoded.
type RawResponseData []byte

func (d RawResponseData) encodeTo(w *tlv.Writer) {
	w.Write(d)
}

// SelectItemResponseData carries the chosen item according to [CAT] 6.8.9
type SelectItemResponseData struct {
	ItemID byte
}

func (d SelectItemResponseData) encodeTo(w *tlv.Writer) {
	w.WriteTLV(tlv.ItemID, true, d.ItemID)
}

// The TEXT STRING values of a yes/no answer
const (
	inkeyNo  byte = 0x00
	inkeyYes byte = 0x01
)

// GetInputResponseData carries the user input of GET INKEY and GET INPUT according to [CAT] 6.8.5
type GetInputResponseData struct {
	Text   string
	UCS2   bool
	Packed bool
	YesNo  bool
	Yes    bool
}

func (d GetInputResponseData) encodeTo(w *tlv.Writer) {
	if d.YesNo {
		answer := inkeyNo
		if d.Yes {
			answer = inkeyYes
		}
		w.WriteTLV(tlv.TextString, true, byte(GSMUnpacked), answer)
		return
	}

	dcs := GSMUnpacked
	switch {
	case d.UCS2:
		dcs = UCS2
	case d.Packed:
		dcs = GSMPacked
	}
	var data []byte
	if d.Text != "" {
		dcs, data = EncodeTextString(d.Text, dcs)
	}
	value := make([]byte, 0, len(data)+1)
	value = append(value, byte(dcs))
	value = append(value, data...)
	w.WriteTLV(tlv.TextString, true, value...)
}

// DTTZResponseData carries the date, time and time zone according to [CAT] 8.39
type DTTZResponseData struct {
	Time time.Time
}

func (d DTTZResponseData) encodeTo(w *tlv.Writer) {
	t := d.Time
	_, offset := t.Zone()
	w.WriteTLV(tlv.DateTimeAndTimezone, true,
		swappedBCD(t.Year()%100),
		swappedBCD(int(t.Month())),
		swappedBCD(t.Day()),
		swappedBCD(t.Hour()),
		swappedBCD(t.Minute()),
		swappedBCD(t.Second()),
		timezoneByte(offset),
	)
}

// swappedBCD encodes a value between 0 and 99 as semi-octets, low digit in the high nibble.
func swappedBCD(value int) byte {
	if value < 0 || value > 99 {
		return 0
	}
	return byte(value/10) | byte(value%10)<<4
}

// timezoneByte encodes the offset to UTC in quarter hours, bit 3 is the sign, according to [GSM] 23.040 9.2.3.11
func timezoneByte(offsetSeconds int) byte {
	negative := offsetSeconds < 0
	if negative {
		offsetSeconds = -offsetSeconds
	}
	result := swappedBCD(offsetSeconds / (15 * 60))
	if negative {
		result |= 0x08
	}
	return result
}

// LanguageResponseData carries the current language according to [CAT] 8.45
type LanguageResponseData struct {
	Language string
}

func (d LanguageResponseData) encodeTo(w *tlv.Writer) {
	w.WriteTLV(tlv.Language, true, EncodeLanguage(d.Language)...)
}

// ChannelStatus according to [CAT] 8.56
type ChannelStatus struct {
	ChannelID       DeviceIdentity
	LinkEstablished bool
	Info            byte
}

func (s ChannelStatus) bytes() []byte {
	first := byte(s.ChannelID) & 0x07
	if s.LinkEstablished {
		first |= 0x80
	}
	return []byte{first, s.Info}
}

func (s ChannelStatus) encodeTo(w *tlv.Writer) {
	w.WriteTLV(tlv.ChannelStatus, true, s.bytes()...)
}

// OpenChannelResponseData according to [CAT] 6.8.16
type OpenChannelResponseData struct {
	Status     *ChannelStatus
	Bearer     *BearerDescription
	BufferSize int
}

func (d OpenChannelResponseData) encodeTo(w *tlv.Writer) {
	if d.Status != nil {
		d.Status.encodeTo(w)
	}
	if d.Bearer != nil {
		value := make([]byte, 0, len(d.Bearer.Params)+1)
		value = append(value, d.Bearer.Type)
		value = append(value, d.Bearer.Params...)
		w.WriteTLV(tlv.BearerDescription, true, value...)
	}
	w.WriteTLV(tlv.BufferSize, true, byte(d.BufferSize>>8), byte(d.BufferSize))
}

// ReceiveDataResponseData according to [CAT] 6.8.18
type ReceiveDataResponseData struct {
	Data      []byte
	Remaining int
}

// encodeTo writes at most tlv.MaxLength bytes of channel data, the rest is reported as remaining.
func (d ReceiveDataResponseData) encodeTo(w *tlv.Writer) {
	data := d.Data
	remaining := d.Remaining
	if len(data) > tlv.MaxLength {
		remaining += len(data) - tlv.MaxLength
		data = data[:tlv.MaxLength]
	}
	w.WriteTLV(tlv.ChannelData, true, data...)
	w.WriteTLV(tlv.ChannelDataLength, true, cappedLength(remaining))
}

// SendDataResponseData according to [CAT] 6.8.19
type SendDataResponseData struct {
	FreeSpace int
}

func (d SendDataResponseData) encodeTo(w *tlv.Writer) {
	w.WriteTLV(tlv.ChannelDataLength, true, cappedLength(d.FreeSpace))
}

// cappedLength encodes a channel data length, 0xFF stands for more than 255 bytes.
func cappedLength(length int) byte {
	if length > 0xFF {
		return 0xFF
	}
	if length < 0 {
		return 0
	}
	return byte(length)
}
