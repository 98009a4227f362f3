package cat

import (
	"golang.org/x/text/language"
)

func (s *Service) handleProactiveCommand(code ResultCode, params CommandParams) {
	if params == nil {
		return
	}
	details := params.Details()
	switch code {
	case OK:
		s.handleCommand(params)
	case CmdTypeNotUnderstood:
		s.log.Warnf("dropping unsupported command %s", details)
	default:
		s.log.Infof("command %s not understood: %s", details, code)
		s.sendTerminalResponse(details, code, nil, nil)
	}
}

func (s *Service) handleCommand(params CommandParams) {
	details := params.Details()
	cmd := newCmdMessage(params, false)
	s.log.Debugf("proactive command %s", details)

	switch p := params.(type) {
	case *SelectItemParams:
		if details.Type == SetUpMenu {
			s.setUpMenu(cmd, p)
			return
		}
		s.dispatch(cmd, true)
	case *DisplayTextParams:
		if details.Type == SetUpIdleModeText {
			s.setUpIdleModeText(cmd, p)
			return
		}
		s.displayText(cmd, p)
	case *SendMessageParams:
		s.dispatch(cmd, false)
	case *DTMFParams:
		s.startDTMF(p)
	case *LocalInfoParams:
		s.provideLocalInformation(details)
	case *LanguageParams:
		s.notifyLanguage(p)
	case *SetEventListParams:
		s.setUpEventList(p)
	case *CloseChannelParams:
		s.checkChannel(cmd, p.Channel.ChannelID)
	case *SendDataParams:
		s.checkChannel(cmd, p.Channel.ChannelID)
	default:
		s.dispatch(cmd, true)
	}
}

func (s *Service) okResult(params CommandParams) ResultCode {
	if params.params().LoadIconFailed {
		return PerformedIconNotDisplayed
	}
	return OK
}

func (s *Service) setUpMenu(cmd *CmdMessage, p *SelectItemParams) {
	if p.Menu.IsEmpty() {
		s.log.Infof("main menu removed")
		s.menu = nil
		if s.current != nil && s.current.Type() == SetUpMenu {
			s.current = nil
		}
		s.sendTerminalResponse(p.Details(), OK, nil, nil)
		return
	}
	s.menu = cmd
	s.sendTerminalResponse(p.Details(), s.okResult(p), nil, nil)
	s.dispatch(cmd, false)
}

func (s *Service) displayText(cmd *CmdMessage, p *DisplayTextParams) {
	tm := p.TextMessage
	if !tm.ResponseNeeded {
		s.sendTerminalResponse(p.Details(), s.okResult(p), nil, nil)
	}
	if !tm.IsHighPriority && !s.canDisplayText() {
		s.log.Infof("screen busy, %s not displayed", p.Details())
		if tm.ResponseNeeded {
			s.sendTerminalResponse(p.Details(), TerminalCrntlyUnableToProcess, []byte{byte(ScreenBusy)}, nil)
		}
		return
	}
	s.dispatch(cmd, tm.ResponseNeeded)
}

func (s *Service) canDisplayText() bool {
	if s.deps.Foreground == nil {
		return true
	}
	foreground := s.deps.Foreground.ForegroundApp()
	for _, app := range s.opts.DisplayApps {
		if app == foreground {
			return true
		}
	}
	return false
}

func (s *Service) setUpIdleModeText(cmd *CmdMessage, p *DisplayTextParams) {
	tm := p.TextMessage
	if tm.iconID != nil && !tm.iconID.SelfExplanatory && tm.Text == "" {
		s.sendTerminalResponse(p.Details(), CmdDataNotUnderstood, nil, nil)
		return
	}
	s.sendTerminalResponse(p.Details(), s.okResult(p), nil, nil)
	s.dispatch(cmd, false)
}

func (s *Service) checkChannel(cmd *CmdMessage, channel DeviceIdentity) {
	if channel != s.opts.DefaultChannel {
		s.log.Infof("invalid channel 0x%02X for %s", byte(channel), cmd.Details())
		s.sendTerminalResponse(cmd.Details(), BIPError, []byte{byte(ChannelIDInvalid)}, nil)
		return
	}
	s.dispatch(cmd, true)
}

func (s *Service) provideLocalInformation(details CommandDetails) {
	var data ResponseData
	switch details.Qualifier {
	case LocalInfoDateTimeZone:
		data = DTTZResponseData{Time: s.opts.Now()}
	case LocalInfoLanguage:
		data = LanguageResponseData{Language: s.currentLanguage()}
	default:
		s.sendTerminalResponse(details, BeyondTerminalCapability, nil, nil)
		return
	}
	s.sendTerminalResponse(details, OK, nil, data)
}

func (s *Service) currentLanguage() string {
	if s.deps.Locale == nil {
		return "en"
	}
	base, _ := s.deps.Locale.Locale().Base()
	if base.String() == "und" {
		return "en"
	}
	return base.String()
}

func (s *Service) notifyLanguage(p *LanguageParams) {
	details := p.Details()
	if s.deps.Locale == nil {
		s.log.Infof("no locale configurator, language %q ignored", p.Language)
		s.sendTerminalResponse(details, OK, nil, nil)
		return
	}

	code := OK
	if p.Language != "" {
		tag, err := language.Parse(p.Language)
		if err != nil {
			s.log.Infof("invalid language %q: %v", p.Language, err)
			s.sendTerminalResponse(details, CmdDataNotUnderstood, nil, nil)
			return
		}
		if s.localeBackup == nil {
			backup := s.deps.Locale.Locale()
			s.localeBackup = &backup
		}
		if err := s.deps.Locale.SetLocale(tag); err != nil {
			s.log.Errorf("cannot set language %s: %v", tag, err)
			code = TerminalCrntlyUnableToProcess
		}
	} else if s.localeBackup != nil {
		if err := s.deps.Locale.SetLocale(*s.localeBackup); err != nil {
			s.log.Errorf("cannot restore language %s: %v", *s.localeBackup, err)
			code = TerminalCrntlyUnableToProcess
		}
		s.localeBackup = nil
	}
	s.sendTerminalResponse(details, code, nil, nil)
}

func (s *Service) handleCmdResponse(response Response) {
	details := response.Details
	cmd := s.correlate(details)
	if cmd == nil {
		s.log.Infof("dropping response for %s, no such command outstanding", details)
		return
	}

	code := response.Result
	helpRequested := code == HelpInfoRequired
	var additionalInfo []byte
	var data ResponseData

	switch {
	case code.Performed() || helpRequested:
		switch details.Type {
		case SetUpMenu:
			s.selectMenuItem(response.MenuSelection, helpRequested)
			return
		case SelectItem:
			data = SelectItemResponseData{ItemID: response.MenuSelection}
		case GetInkey, GetInput:
			input := cmd.Input()
			switch {
			case input != nil && input.YesNo:
				data = GetInputResponseData{YesNo: true, Yes: response.YesNo}
			case input != nil && !helpRequested:
				data = GetInputResponseData{Text: response.Input, UCS2: input.UCS2, Packed: input.Packed}
			}
		case SetUpCall:
			s.confirmCallSetup(details, response.Confirmed)
			s.clearCurrent()
			return
		case OpenChannel:
			data = s.openChannelData(cmd, response, true)
		case ReceiveData:
			data = ReceiveDataResponseData{Data: response.ChannelData, Remaining: response.DataLength}
		case SendData:
			data = SendDataResponseData{FreeSpace: response.DataLength}
		case GetChannelStatus:
			data = response.channelStatus()
		}
		if code == OK && cmd.LoadIconFailed() {
			code = PerformedIconNotDisplayed
		}
	case details.Type == SetUpCall && (code == UserNotAccept || code == NoResponseFromUser):
		s.confirmCallSetup(details, false)
		s.clearCurrent()
		return
	case code == TerminalCrntlyUnableToProcess:
		additionalInfo = []byte{byte(meProblemOf(details.Type))}
	case code == BIPError:
		additionalInfo = []byte{byte(response.BIPProblem)}
		if details.Type == OpenChannel {
			data = s.openChannelData(cmd, response, false)
		}
	default:
		if response.AdditionalInfo != nil {
			additionalInfo = []byte{*response.AdditionalInfo}
		}
	}

	s.sendTerminalResponse(details, code, additionalInfo, data)
	s.clearCurrent()
}

// correlate returns the outstanding command the response belongs to. A retained main menu may be answered at any time.
func (s *Service) correlate(details CommandDetails) *CmdMessage {
	if s.current != nil && s.current.Details().Equal(details) {
		return s.current
	}
	if s.menu != nil && s.menu.Details().Equal(details) {
		return s.menu
	}
	return nil
}

func (s *Service) clearCurrent() {
	s.stopResponseTimer()
	if s.current != nil && s.current.Type() == SetUpMenu {
		return
	}
	s.current = nil
}

func (s *Service) selectMenuItem(itemID byte, helpRequested bool) {
	envelope, err := EncodeMenuSelection(itemID, helpRequested)
	if err != nil {
		s.log.Errorf("cannot encode menu selection: %v", err)
		return
	}
	s.sendEnvelope(envelope)
}

func (s *Service) openChannelData(cmd *CmdMessage, response Response, withStatus bool) OpenChannelResponseData {
	result := OpenChannelResponseData{
		Bearer:     response.Bearer,
		BufferSize: response.BufferSize,
	}
	if channel := cmd.Channel(); channel != nil {
		if result.Bearer == nil {
			result.Bearer = channel.Bearer
		}
		if result.BufferSize == 0 {
			result.BufferSize = channel.BufferSize
		}
	}
	if withStatus {
		status := response.channelStatus()
		if status.ChannelID == 0 {
			status.ChannelID = s.opts.DefaultChannel
		}
		result.Status = &status
	}
	return result
}

func (s *Service) confirmCallSetup(details CommandDetails, accept bool) {
	if err := s.currentRadio().HandleCallSetupRequest(s.ctx, accept); err != nil {
		s.log.Errorf("cannot handle call setup request: %v", err)
		s.sendTerminalResponse(details, TerminalCrntlyUnableToProcess, nil, nil)
		return
	}
	if accept {
		s.pendingCallSetup = &details
	}
}

// handleCallSetupResult answers an accepted SET UP CALL with the outcome of the call setup reported by the radio.
func (s *Service) handleCallSetupResult(payload []byte) {
	if s.pendingCallSetup == nil {
		s.log.Infof("dropping call setup result, no call setup pending")
		return
	}
	details := *s.pendingCallSetup
	s.pendingCallSetup = nil

	code := OK
	var additionalInfo []byte
	if len(payload) > 0 {
		code = ResultCode(payload[0])
	}
	if len(payload) > 1 {
		additionalInfo = payload[1:2]
	}
	s.sendTerminalResponse(details, code, additionalInfo, nil)
}
