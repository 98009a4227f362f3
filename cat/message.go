package cat

import (
	"encoding/json"
)

// CmdMessage is the read-only view of one decoded proactive command that is handed to the application.
// A CmdMessage is never modified after it was created.
type CmdMessage struct {
	params      CommandParams
	informative bool
}

func newCmdMessage(params CommandParams, informative bool) *CmdMessage {
	return &CmdMessage{
		params:      params,
		informative: informative,
	}
}

// Type of the proactive command.
func (m *CmdMessage) Type() CommandType {
	return m.params.Details().Type
}

// Details of the proactive command, to be used in the response.
func (m *CmdMessage) Details() CommandDetails {
	return m.params.Details()
}

// Informative messages were delivered by the radio only for information, they must not be answered.
func (m *CmdMessage) Informative() bool {
	return m.informative
}

// LoadIconFailed indicates that an icon referenced by the command could not be read from the SIM.
func (m *CmdMessage) LoadIconFailed() bool {
	return m.params.params().LoadIconFailed
}

// TextMessage returns the text related part of the command, or nil.
func (m *CmdMessage) TextMessage() *TextMessage {
	var result TextMessage
	switch p := m.params.(type) {
	case *DisplayTextParams:
		result = p.TextMessage
	case *PlayToneParams:
		result = p.TextMessage
	case *DTMFParams:
		result = p.TextMessage
	case *SendMessageParams:
		result = p.TextMessage
	case *RefreshParams:
		result = p.TextMessage
	case *LaunchBrowserParams:
		result = p.ConfirmMsg
	case *OpenChannelParams:
		result = p.TextMessage
	case *CloseChannelParams:
		result = p.TextMessage
	case *ReceiveDataParams:
		result = p.TextMessage
	case *SendDataParams:
		result = p.TextMessage
	case *GetChannelStatusParams:
		result = p.TextMessage
	default:
		return nil
	}
	return &result
}

func (m *CmdMessage) Menu() *Menu {
	p, ok := m.params.(*SelectItemParams)
	if !ok {
		return nil
	}
	result := p.Menu
	return &result
}

func (m *CmdMessage) Input() *Input {
	p, ok := m.params.(*GetInputParams)
	if !ok {
		return nil
	}
	result := p.Input
	return &result
}

func (m *CmdMessage) BrowserSettings() *BrowserSettings {
	p, ok := m.params.(*LaunchBrowserParams)
	if !ok {
		return nil
	}
	result := p.Browser
	return &result
}

func (m *CmdMessage) ToneSettings() *ToneSettings {
	p, ok := m.params.(*PlayToneParams)
	if !ok {
		return nil
	}
	result := p.Settings
	return &result
}

func (m *CmdMessage) CallSettings() *CallSettings {
	p, ok := m.params.(*CallSetupParams)
	if !ok {
		return nil
	}
	result := p.Call
	return &result
}

func (m *CmdMessage) Events() []EventListType {
	p, ok := m.params.(*SetEventListParams)
	if !ok {
		return nil
	}
	return append([]EventListType{}, p.Events...)
}

func (m *CmdMessage) Language() string {
	p, ok := m.params.(*LanguageParams)
	if !ok {
		return ""
	}
	return p.Language
}

func (m *CmdMessage) DTMFString() string {
	p, ok := m.params.(*DTMFParams)
	if !ok {
		return ""
	}
	return p.Digits
}

// Payload returns the raw payload of SEND SMS, SEND SS and SEND USSD or the file list of REFRESH.
func (m *CmdMessage) Payload() []byte {
	switch p := m.params.(type) {
	case *SendMessageParams:
		return append([]byte{}, p.Payload...)
	case *RefreshParams:
		return append([]byte{}, p.Files...)
	default:
		return nil
	}
}

// Channel returns the settings of the bearer independent protocol commands, or nil.
func (m *CmdMessage) Channel() *ChannelSettings {
	var result ChannelSettings
	switch p := m.params.(type) {
	case *OpenChannelParams:
		result = p.Channel
	case *CloseChannelParams:
		result = p.Channel
	case *ReceiveDataParams:
		result = p.Channel
	case *SendDataParams:
		result = p.Channel
	case *GetChannelStatusParams:
		result.ChannelID = p.Devices.Destination
	default:
		return nil
	}
	return &result
}

type cmdMessageJSON struct {
	Type           CommandType      `json:"type"`
	Details        CommandDetails   `json:"details"`
	Informative    bool             `json:"informative,omitempty"`
	LoadIconFailed bool             `json:"load_icon_failed,omitempty"`
	TextMessage    *TextMessage     `json:"text_message,omitempty"`
	Menu           *Menu            `json:"menu,omitempty"`
	Input          *Input           `json:"input,omitempty"`
	Browser        *BrowserSettings `json:"browser,omitempty"`
	Tone           *ToneSettings    `json:"tone,omitempty"`
	Call           *CallSettings    `json:"call,omitempty"`
	Events         []EventListType  `json:"events,omitempty"`
	Language       string           `json:"language,omitempty"`
	DTMF           string           `json:"dtmf,omitempty"`
	Payload        []byte           `json:"payload,omitempty"`
	Channel        *ChannelSettings `json:"channel,omitempty"`
}

func (m *CmdMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(cmdMessageJSON{
		Type:           m.Type(),
		Details:        m.Details(),
		Informative:    m.informative,
		LoadIconFailed: m.LoadIconFailed(),
		TextMessage:    m.TextMessage(),
		Menu:           m.Menu(),
		Input:          m.Input(),
		Browser:        m.BrowserSettings(),
		Tone:           m.ToneSettings(),
		Call:           m.CallSettings(),
		Events:         m.Events(),
		Language:       m.Language(),
		DTMF:           m.DTMFString(),
		Payload:        m.Payload(),
		Channel:        m.Channel(),
	})
}
