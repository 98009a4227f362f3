package cat

import (
	"fmt"
	"strings"
)

// CommandType of a proactive command according to [CAT] 9.4
type CommandType byte

// All supported proactive commands
const (
	Refresh                 CommandType = 0x01
	SetUpEventList          CommandType = 0x05
	SetUpCall               CommandType = 0x10
	SendSS                  CommandType = 0x11
	SendUSSD                CommandType = 0x12
	SendSMS                 CommandType = 0x13
	SendDTMF                CommandType = 0x14
	LaunchBrowser           CommandType = 0x15
	PlayTone                CommandType = 0x20
	DisplayText             CommandType = 0x21
	GetInkey                CommandType = 0x22
	GetInput                CommandType = 0x23
	SelectItem              CommandType = 0x24
	SetUpMenu               CommandType = 0x25
	ProvideLocalInformation CommandType = 0x26
	SetUpIdleModeText       CommandType = 0x28
	LanguageNotification    CommandType = 0x35
	OpenChannel             CommandType = 0x40
	CloseChannel            CommandType = 0x41
	ReceiveData             CommandType = 0x42
	SendData                CommandType = 0x43
	GetChannelStatus        CommandType = 0x44
)

// CommandTypesByName maps all supported proactive commands by their string representation
var CommandTypesByName = map[string]CommandType{
	"REFRESH":                   Refresh,
	"SET_UP_EVENT_LIST":         SetUpEventList,
	"SET_UP_CALL":               SetUpCall,
	"SEND_SS":                   SendSS,
	"SEND_USSD":                 SendUSSD,
	"SEND_SMS":                  SendSMS,
	"SEND_DTMF":                 SendDTMF,
	"LAUNCH_BROWSER":            LaunchBrowser,
	"PLAY_TONE":                 PlayTone,
	"DISPLAY_TEXT":              DisplayText,
	"GET_INKEY":                 GetInkey,
	"GET_INPUT":                 GetInput,
	"SELECT_ITEM":               SelectItem,
	"SET_UP_MENU":               SetUpMenu,
	"PROVIDE_LOCAL_INFORMATION": ProvideLocalInformation,
	"SET_UP_IDLE_MODE_TEXT":     SetUpIdleModeText,
	"LANGUAGE_NOTIFICATION":     LanguageNotification,
	"OPEN_CHANNEL":              OpenChannel,
	"CLOSE_CHANNEL":             CloseChannel,
	"RECEIVE_DATA":              ReceiveData,
	"SEND_DATA":                 SendData,
	"GET_CHANNEL_STATUS":        GetChannelStatus,
}

// CommandTypeFromValue returns the command type with the given protocol value.
// The result is false if the value does not denote a supported command.
func CommandTypeFromValue(b byte) (CommandType, bool) {
	for _, v := range CommandTypesByName {
		if byte(v) == b {
			return v, true
		}
	}
	return 0, false
}

func (t CommandType) String() string {
	for k, v := range CommandTypesByName {
		if v == t {
			return k
		}
	}
	return fmt.Sprintf("UNKNOWN(0x%02X)", byte(t))
}

func (t CommandType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *CommandType) UnmarshalText(text []byte) error {
	result, ok := CommandTypesByName[strings.ToUpper(strings.TrimSpace(string(text)))]
	if !ok {
		return fmt.Errorf("invalid command type %s", text)
	}
	*t = result
	return nil
}

// EventListType of an event in the SET UP EVENT LIST command according to [CAT] 8.25
type EventListType byte

// All supported events
const (
	EventMTCall             EventListType = 0x00
	EventCallConnected      EventListType = 0x01
	EventCallDisconnected   EventListType = 0x02
	EventLocationStatus     EventListType = 0x03
	EventUserActivity       EventListType = 0x04
	EventIdleScreen         EventListType = 0x05
	EventCardReaderStatus   EventListType = 0x06
	EventLanguageSelection  EventListType = 0x07
	EventBrowserTermination EventListType = 0x08
	EventDataAvailable      EventListType = 0x09
	EventChannelStatus      EventListType = 0x0A
	EventUnknown            EventListType = 0xFF
)

// EventCount is the number of known events, the size of the event table of a slot.
const EventCount = int(EventChannelStatus) + 1

// EventListTypesByName maps all supported events by their string representation
var EventListTypesByName = map[string]EventListType{
	"MT_CALL":             EventMTCall,
	"CALL_CONNECTED":      EventCallConnected,
	"CALL_DISCONNECTED":   EventCallDisconnected,
	"LOCATION_STATUS":     EventLocationStatus,
	"USER_ACTIVITY":       EventUserActivity,
	"IDLE_SCREEN":         EventIdleScreen,
	"CARD_READER_STATUS":  EventCardReaderStatus,
	"LANGUAGE_SELECTION":  EventLanguageSelection,
	"BROWSER_TERMINATION": EventBrowserTermination,
	"DATA_AVAILABLE":      EventDataAvailable,
	"CHANNEL_STATUS":      EventChannelStatus,
	"UNKNOWN":             EventUnknown,
}

// EventListTypeFromValue returns the event with the given protocol value.
// The result is false if the value does not denote a known event.
func EventListTypeFromValue(b byte) (EventListType, bool) {
	if int(b) >= EventCount {
		return EventUnknown, false
	}
	return EventListType(b), true
}

func (e EventListType) String() string {
	for k, v := range EventListTypesByName {
		if v == e {
			return k
		}
	}
	return fmt.Sprintf("UNKNOWN(0x%02X)", byte(e))
}

func (e EventListType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EventListType) UnmarshalText(text []byte) error {
	result, ok := EventListTypesByName[strings.ToUpper(strings.TrimSpace(string(text)))]
	if !ok {
		return fmt.Errorf("invalid event %s", text)
	}
	*e = result
	return nil
}

// OneShot events are disabled after they were reported once, according to [CAT] 4.7
func (e EventListType) OneShot() bool {
	return e == EventUserActivity || e == EventIdleScreen
}

// ResultCode of a terminal response according to [CAT] 8.12
type ResultCode byte

// All result codes
const (
	OK                                ResultCode = 0x00
	PerformedWithPartialComprehension ResultCode = 0x01
	PerformedWithMissingInfo          ResultCode = 0x02
	PerformedWithAdditionalEFsRead    ResultCode = 0x03
	PerformedIconNotDisplayed         ResultCode = 0x04
	PerformedModifiedByNAA            ResultCode = 0x05
	PerformedLimitedService           ResultCode = 0x06
	PerformedWithModification         ResultCode = 0x07
	PerformedNAANotActive             ResultCode = 0x08
	PerformedToneNotPlayed            ResultCode = 0x09

	UICCSessionTermByUser   ResultCode = 0x10
	BackwardMoveByUser      ResultCode = 0x11
	NoResponseFromUser      ResultCode = 0x12
	HelpInfoRequired        ResultCode = 0x13
	USSDSSSessionTermByUser ResultCode = 0x14

	TerminalCrntlyUnableToProcess ResultCode = 0x20
	NetworkCrntlyUnableToProcess  ResultCode = 0x21
	UserNotAccept                 ResultCode = 0x22
	UserClearDownCall             ResultCode = 0x23
	ContradictionWithTimer        ResultCode = 0x24
	NAACallControlTemporary       ResultCode = 0x25
	LaunchBrowserError            ResultCode = 0x26
	MMSTemporary                  ResultCode = 0x27

	BeyondTerminalCapability  ResultCode = 0x30
	CmdTypeNotUnderstood      ResultCode = 0x31
	CmdDataNotUnderstood      ResultCode = 0x32
	CmdNumNotKnown            ResultCode = 0x33
	SSReturnError             ResultCode = 0x34
	SMSRPError                ResultCode = 0x35
	RequiredValuesMissing     ResultCode = 0x36
	USSDReturnError           ResultCode = 0x37
	MultipleCardCommandsError ResultCode = 0x38
	USIMCallControlPermanent  ResultCode = 0x39
	BIPError                  ResultCode = 0x3A
	AccessTechUnableToProcess ResultCode = 0x3B
	FramesError               ResultCode = 0x3C
	MMSError                  ResultCode = 0x3D
)

// ResultCodesByName maps all result codes by their string representation
var ResultCodesByName = map[string]ResultCode{
	"OK":                                OK,
	"PRFRMD_WITH_PARTIAL_COMPREHENSION": PerformedWithPartialComprehension,
	"PRFRMD_WITH_MISSING_INFO":          PerformedWithMissingInfo,
	"PRFRMD_WITH_ADDITIONAL_EFS_READ":   PerformedWithAdditionalEFsRead,
	"PRFRMD_ICON_NOT_DISPLAYED":         PerformedIconNotDisplayed,
	"PRFRMD_MODIFIED_BY_NAA":            PerformedModifiedByNAA,
	"PRFRMD_LIMITED_SERVICE":            PerformedLimitedService,
	"PRFRMD_WITH_MODIFICATION":          PerformedWithModification,
	"PRFRMD_NAA_NOT_ACTIVE":             PerformedNAANotActive,
	"PRFRMD_TONE_NOT_PLAYED":            PerformedToneNotPlayed,
	"UICC_SESSION_TERM_BY_USER":         UICCSessionTermByUser,
	"BACKWARD_MOVE_BY_USER":             BackwardMoveByUser,
	"NO_RESPONSE_FROM_USER":             NoResponseFromUser,
	"HELP_INFO_REQUIRED":                HelpInfoRequired,
	"USSD_SS_SESSION_TERM_BY_USER":      USSDSSSessionTermByUser,
	"TERMINAL_CRNTLY_UNABLE_TO_PROCESS": TerminalCrntlyUnableToProcess,
	"NETWORK_CRNTLY_UNABLE_TO_PROCESS":  NetworkCrntlyUnableToProcess,
	"USER_NOT_ACCEPT":                   UserNotAccept,
	"USER_CLEAR_DOWN_CALL":              UserClearDownCall,
	"CONTRADICTION_WITH_TIMER":          ContradictionWithTimer,
	"NAA_CALL_CONTROL_TEMPORARY":        NAACallControlTemporary,
	"LAUNCH_BROWSER_ERROR":              LaunchBrowserError,
	"MMS_TEMPORARY":                     MMSTemporary,
	"BEYOND_TERMINAL_CAPABILITY":        BeyondTerminalCapability,
	"CMD_TYPE_NOT_UNDERSTOOD":           CmdTypeNotUnderstood,
	"CMD_DATA_NOT_UNDERSTOOD":           CmdDataNotUnderstood,
	"CMD_NUM_NOT_KNOWN":                 CmdNumNotKnown,
	"SS_RETURN_ERROR":                   SSReturnError,
	"SMS_RP_ERROR":                      SMSRPError,
	"REQUIRED_VALUES_MISSING":           RequiredValuesMissing,
	"USSD_RETURN_ERROR":                 USSDReturnError,
	"MULTI_CARDS_CMD_ERROR":             MultipleCardCommandsError,
	"USIM_CALL_CONTROL_PERMANENT":       USIMCallControlPermanent,
	"BIP_ERROR":                         BIPError,
	"ACCESS_TECH_UNABLE_TO_PROCESS":     AccessTechUnableToProcess,
	"FRAMES_ERROR":                      FramesError,
	"MMS_ERROR":                         MMSError,
}

// ResultCodeFromValue returns the result code with the given protocol value.
func ResultCodeFromValue(b byte) (ResultCode, bool) {
	for _, v := range ResultCodesByName {
		if byte(v) == b {
			return v, true
		}
	}
	return 0, false
}

func (c ResultCode) String() string {
	for k, v := range ResultCodesByName {
		if v == c {
			return k
		}
	}
	return fmt.Sprintf("UNKNOWN(0x%02X)", byte(c))
}

func (c ResultCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ResultCode) UnmarshalText(text []byte) error {
	result, ok := ResultCodesByName[strings.ToUpper(strings.TrimSpace(string(text)))]
	if !ok {
		return fmt.Errorf("invalid result code %s", text)
	}
	*c = result
	return nil
}

// Performed reports if the command was performed, successfully or with a restriction.
func (c ResultCode) Performed() bool {
	return c <= PerformedToneNotPlayed
}

// MeProblem is the additional information for TERMINAL_CRNTLY_UNABLE_TO_PROCESS according to [CAT] 8.12.2
type MeProblem byte

const (
	NoSpecificCause         MeProblem = 0x00
	ScreenBusy              MeProblem = 0x01
	BusyOnCall              MeProblem = 0x02
	BusySS                  MeProblem = 0x03
	NoService               MeProblem = 0x04
	AccessControlClassBar   MeProblem = 0x05
	RadioResourceNotGranted MeProblem = 0x06
	NotInSpeechCall         MeProblem = 0x07
	BusyUSSD                MeProblem = 0x08
	BusySendDTMF            MeProblem = 0x09
	NoUSIMActive            MeProblem = 0x0A
)

// BIPProblem is the additional information for BIP_ERROR according to [CAT] 8.12.11
type BIPProblem byte

const (
	BIPNoSpecificCause       BIPProblem = 0x00
	NoChannelAvailable       BIPProblem = 0x01
	ChannelClosed            BIPProblem = 0x02
	ChannelIDInvalid         BIPProblem = 0x03
	BufferSizeNotAvail       BIPProblem = 0x04
	SecurityError            BIPProblem = 0x05
	TransportLevelNotAvail   BIPProblem = 0x06
	RemoteDeviceNotReachable BIPProblem = 0x07
	ServiceError             BIPProblem = 0x08
	ServiceIDUnknown         BIPProblem = 0x09
	PortNotAvailable         BIPProblem = 0x10
)

// DeviceIdentity according to [CAT] 8.7
type DeviceIdentity byte

const (
	DeviceKeypad   DeviceIdentity = 0x01
	DeviceDisplay  DeviceIdentity = 0x02
	DeviceEarpiece DeviceIdentity = 0x03
	DeviceUICC     DeviceIdentity = 0x81
	DeviceTerminal DeviceIdentity = 0x82
	DeviceNetwork  DeviceIdentity = 0x83
)

// The channel identities of the bearer independent protocol
const (
	FirstChannel DeviceIdentity = 0x21
	LastChannel  DeviceIdentity = 0x27
)

// IsChannel reports if the device identity denotes a BIP channel.
func (d DeviceIdentity) IsChannel() bool {
	return d >= FirstChannel && d <= LastChannel
}

// LaunchBrowserMode derived from the command qualifier of LAUNCH BROWSER according to [CAT] 6.6.26
type LaunchBrowserMode byte

const (
	LaunchIfNotAlreadyLaunched LaunchBrowserMode = iota
	UseExistingBrowser
	LaunchNewBrowser
)

func (m LaunchBrowserMode) String() string {
	switch m {
	case LaunchIfNotAlreadyLaunched:
		return "LAUNCH_IF_NOT_ALREADY_LAUNCHED"
	case UseExistingBrowser:
		return "USE_EXISTING_BROWSER"
	case LaunchNewBrowser:
		return "LAUNCH_NEW_BROWSER"
	default:
		return "UNKNOWN"
	}
}

func (m LaunchBrowserMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// PresentationType of the items of SELECT ITEM and SET UP MENU according to [CAT] 6.6.8
type PresentationType byte

const (
	PresentationNotSpecified PresentationType = iota
	PresentationDataValues
	PresentationNavigationOptions
)

// ToneType according to [CAT] 8.16
type ToneType byte

const (
	ToneDial               ToneType = 0x01
	ToneBusy               ToneType = 0x02
	ToneCongestion         ToneType = 0x03
	ToneRadioAck           ToneType = 0x04
	ToneCallDropped        ToneType = 0x05
	ToneError              ToneType = 0x06
	ToneCallWaiting        ToneType = 0x07
	ToneRinging            ToneType = 0x08
	ToneGeneralBeep        ToneType = 0x10
	TonePositiveAck        ToneType = 0x11
	ToneNegativeAck        ToneType = 0x12
	ToneIncomingSpeechCall ToneType = 0x13
	ToneIncomingSMS        ToneType = 0x14
	ToneCriticalAlert      ToneType = 0x15
	ToneVibrateOnly        ToneType = 0x20
	ToneHappy              ToneType = 0x30
	ToneSad                ToneType = 0x31
	ToneUrgentAction       ToneType = 0x32
	ToneQuestion           ToneType = 0x33
	ToneMessageReceived    ToneType = 0x34
)

// TimeUnit of a DURATION according to [CAT] 8.8
type TimeUnit byte

const (
	Minute      TimeUnit = 0x00
	Second      TimeUnit = 0x01
	TenthSecond TimeUnit = 0x02
)

// RefreshType of the radio's refresh indication
type RefreshType byte

const (
	RefreshFileChange RefreshType = 0x00
	RefreshInit       RefreshType = 0x01
	RefreshReset      RefreshType = 0x02
)

func (t RefreshType) String() string {
	switch t {
	case RefreshFileChange:
		return "FILE_CHANGE"
	case RefreshInit:
		return "INIT"
	case RefreshReset:
		return "RESET"
	default:
		return "UNKNOWN"
	}
}

func (t RefreshType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ClearsSession reports if this refresh invalidates the toolkit session of the slot.
func (t RefreshType) ClearsSession() bool {
	return t == RefreshInit || t == RefreshReset
}
