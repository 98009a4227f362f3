package cat

import (
	"net"
	"time"
)

/* Payload types */

// Icon is an image read from EF IMG according to [USIM] 4.6.1.1
type Icon struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Coding byte   `json:"coding"`
	Data   []byte `json:"data"`
}

// IconID references an icon record according to [CAT] 8.31
type IconID struct {
	SelfExplanatory bool
	Record          byte
}

// ItemIconIDList references the icon records of all items according to [CAT] 8.32
type ItemIconIDList struct {
	SelfExplanatory bool
	Records         []byte
}

// Duration according to [CAT] 8.8
type Duration struct {
	Unit     TimeUnit `json:"unit"`
	Interval byte     `json:"interval"`
}

// Duration converts into a time.Duration.
func (d Duration) Duration() time.Duration {
	unit := time.Minute
	switch d.Unit {
	case Second:
		unit = time.Second
	case TenthSecond:
		unit = 100 * time.Millisecond
	}
	return time.Duration(d.Interval) * unit
}

// TextMessage is the text related part of most proactive commands.
type TextMessage struct {
	Title               string    `json:"title,omitempty"`
	Text                string    `json:"text,omitempty"`
	Icon                *Icon     `json:"icon,omitempty"`
	IconSelfExplanatory bool      `json:"icon_self_explanatory,omitempty"`
	IsHighPriority      bool      `json:"high_priority,omitempty"`
	ResponseNeeded      bool      `json:"response_needed"`
	UserClear           bool      `json:"user_clear,omitempty"`
	Duration            *Duration `json:"duration,omitempty"`

	iconID *IconID
}

// Item of a menu according to [CAT] 8.9
type Item struct {
	ID   byte   `json:"id"`
	Text string `json:"text"`
	Icon *Icon  `json:"icon,omitempty"`
}

// Menu of SET UP MENU and SELECT ITEM.
// A menu whose only item is nil is the empty menu, used by the UICC to remove its menu.
type Menu struct {
	Title                    string           `json:"title,omitempty"`
	TitleIcon                *Icon            `json:"title_icon,omitempty"`
	TitleIconSelfExplanatory bool             `json:"title_icon_self_explanatory,omitempty"`
	Items                    []*Item          `json:"items"`
	ItemsIconSelfExplanatory bool             `json:"items_icon_self_explanatory,omitempty"`
	DefaultItem              byte             `json:"default_item,omitempty"`
	SoftKeyPreferred         bool             `json:"soft_key_preferred,omitempty"`
	HelpAvailable            bool             `json:"help_available,omitempty"`
	Presentation             PresentationType `json:"presentation"`
}

// IsEmpty reports if this is the empty menu.
func (m *Menu) IsEmpty() bool {
	return m == nil || (len(m.Items) == 1 && m.Items[0] == nil)
}

// Input specification of GET INKEY and GET INPUT.
type Input struct {
	Text                string    `json:"text"`
	DefaultText         string    `json:"default_text,omitempty"`
	Icon                *Icon     `json:"icon,omitempty"`
	IconSelfExplanatory bool      `json:"icon_self_explanatory,omitempty"`
	MinLen              int       `json:"min_len"`
	MaxLen              int       `json:"max_len"`
	UCS2                bool      `json:"ucs2,omitempty"`
	Packed              bool      `json:"packed,omitempty"`
	DigitOnly           bool      `json:"digit_only,omitempty"`
	Echo                bool      `json:"echo"`
	YesNo               bool      `json:"yes_no,omitempty"`
	HelpAvailable       bool      `json:"help_available,omitempty"`
	Duration            *Duration `json:"duration,omitempty"`
}

// ToneSettings of PLAY TONE.
type ToneSettings struct {
	Tone     ToneType  `json:"tone,omitempty"`
	Duration *Duration `json:"duration,omitempty"`
	Vibrate  bool      `json:"vibrate,omitempty"`
}

// CallSettings of SET UP CALL.
type CallSettings struct {
	Address    string      `json:"address"`
	ConfirmMsg TextMessage `json:"confirm"`
	CallMsg    TextMessage `json:"call"`
}

// BrowserSettings of LAUNCH BROWSER.
type BrowserSettings struct {
	URL  string            `json:"url"`
	Mode LaunchBrowserMode `json:"mode"`
}

// BearerDescription according to [CAT] 8.52
type BearerDescription struct {
	Type   byte   `json:"type"`
	Params []byte `json:"params,omitempty"`
}

// TransportLevel according to [CAT] 8.59
type TransportLevel struct {
	Protocol byte   `json:"protocol"`
	Port     uint16 `json:"port"`
}

// OtherAddress according to [CAT] 8.58
type OtherAddress struct {
	Type    byte   `json:"type"`
	Address net.IP `json:"address"`
}

// ChannelSettings of the bearer independent protocol commands.
type ChannelSettings struct {
	ChannelID          DeviceIdentity     `json:"channel_id,omitempty"`
	Bearer             *BearerDescription `json:"bearer,omitempty"`
	BufferSize         int                `json:"buffer_size,omitempty"`
	NetworkAccessName  string             `json:"network_access_name,omitempty"`
	Login              string             `json:"login,omitempty"`
	Password           string             `json:"password,omitempty"`
	Transport          *TransportLevel    `json:"transport,omitempty"`
	DestinationAddress *OtherAddress      `json:"destination_address,omitempty"`
	ImmediateLink      bool               `json:"immediate_link,omitempty"`
	Data               []byte             `json:"data,omitempty"`
	DataLength         int                `json:"data_length,omitempty"`
	SendImmediately    bool               `json:"send_immediately,omitempty"`
}

/* Command parameters */

// CommandParams is the decoded content of one proactive command. The set of implementations is closed.
type CommandParams interface {
	Details() CommandDetails
	params() *BaseParams
}

// BaseParams carry what all proactive commands have in common.
type BaseParams struct {
	CmdDetails     CommandDetails
	Devices        DeviceIdentities
	LoadIconFailed bool
}

func (p *BaseParams) Details() CommandDetails { return p.CmdDetails }
func (p *BaseParams) params() *BaseParams     { return p }

type DisplayTextParams struct {
	BaseParams
	TextMessage TextMessage
}

type GetInputParams struct {
	BaseParams
	Input Input
}

type SelectItemParams struct {
	BaseParams
	Menu Menu
}

type LaunchBrowserParams struct {
	BaseParams
	Browser    BrowserSettings
	ConfirmMsg TextMessage
}

type PlayToneParams struct {
	BaseParams
	TextMessage TextMessage
	Settings    ToneSettings
}

type CallSetupParams struct {
	BaseParams
	Call CallSettings
}

type SetEventListParams struct {
	BaseParams
	Events []EventListType
}

type LanguageParams struct {
	BaseParams
	Language string
	Specific bool
}

type DTMFParams struct {
	BaseParams
	TextMessage TextMessage
	Digits      string
}

// SendMessageParams of SEND SMS, SEND SS and SEND USSD. The payload is kept as received.
type SendMessageParams struct {
	BaseParams
	TextMessage TextMessage
	Payload     []byte
}

type RefreshParams struct {
	BaseParams
	TextMessage TextMessage
	Files       []byte
}

type OpenChannelParams struct {
	BaseParams
	TextMessage TextMessage
	Channel     ChannelSettings
}

type CloseChannelParams struct {
	BaseParams
	TextMessage TextMessage
	Channel     ChannelSettings
}

type ReceiveDataParams struct {
	BaseParams
	TextMessage TextMessage
	Channel     ChannelSettings
}

type SendDataParams struct {
	BaseParams
	TextMessage TextMessage
	Channel     ChannelSettings
}

type GetChannelStatusParams struct {
	BaseParams
	TextMessage TextMessage
}

// LocalInfoParams of PROVIDE LOCAL INFORMATION. The response is produced by the terminal itself.
type LocalInfoParams struct {
	BaseParams
}

// The qualifiers of PROVIDE LOCAL INFORMATION answered by the terminal, according to [CAT] 8.6
const (
	LocalInfoDateTimeZone byte = 0x03
	LocalInfoLanguage     byte = 0x04
)
