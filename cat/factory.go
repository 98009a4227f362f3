package cat

import (
	"context"

	"github.com/ftl/sim-toolkit/tlv"
)

// paramsResult is the outcome of building the parameters of one proactive command.
type paramsResult struct {
	Code   ResultCode
	Params CommandParams
}

// iconRequest describes the icons a command references and where they go once they are loaded.
type iconRequest struct {
	records []byte
	apply   func([]*Icon)

	// mandatory is set if the icon is the only content of the command.
	mandatory bool
}

func (r *iconRequest) add(id *IconID, apply func(*Icon)) {
	if id == nil {
		return
	}
	offset := len(r.records)
	r.records = append(r.records, id.Record)
	previous := r.apply
	r.apply = func(icons []*Icon) {
		if previous != nil {
			previous(icons)
		}
		if offset < len(icons) {
			apply(icons[offset])
		}
	}
}

func (r *iconRequest) empty() bool {
	return r == nil || len(r.records) == 0
}

type paramsFactory struct {
	icons *iconLoader
}

// Make builds the command parameters from the given BER-TLV and reports them through done,
// either right away or after the referenced icons were read from the SIM.
// An error is returned only if the command details cannot be determined, in that case done is never called.
func (f *paramsFactory) Make(ctx context.Context, ber tlv.BerTLV, done func(paramsResult)) error {
	c, ok := tlv.Find(ber.TLVs, tlv.CommandDetails)
	if !ok {
		return fail(CmdTypeNotUnderstood, "no command details")
	}
	details, err := ParseCommandDetails(c)
	if err != nil {
		return err
	}

	base := BaseParams{CmdDetails: details}
	if c, ok := tlv.Find(ber.TLVs, tlv.DeviceIdentities); ok {
		base.Devices, _ = ParseDeviceIdentities(c)
	}

	if _, known := CommandTypeFromValue(byte(details.Type)); !known {
		done(paramsResult{Code: CmdTypeNotUnderstood, Params: &base})
		return nil
	}
	if !ber.LengthValid {
		done(paramsResult{Code: CmdDataNotUnderstood, Params: &base})
		return nil
	}

	params, icons, err := parseParams(base, ber.TLVs)
	if err != nil {
		done(paramsResult{Code: ResultCodeOf(err), Params: &base})
		return nil
	}
	if icons.empty() {
		done(paramsResult{Code: OK, Params: params})
		return nil
	}

	f.icons.Load(ctx, icons.records, func(loaded []*Icon, err error) {
		switch {
		case err != nil && icons.mandatory:
			done(paramsResult{Code: CmdDataNotUnderstood, Params: params})
		case err != nil:
			params.params().LoadIconFailed = true
			done(paramsResult{Code: OK, Params: params})
		default:
			icons.apply(loaded)
			done(paramsResult{Code: OK, Params: params})
		}
	})
	return nil
}

func parseParams(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	switch base.CmdDetails.Type {
	case DisplayText:
		return parseDisplayText(base, tlvs)
	case GetInkey:
		return parseGetInkey(base, tlvs)
	case GetInput:
		return parseGetInput(base, tlvs)
	case SelectItem, SetUpMenu:
		return parseSelectItem(base, tlvs)
	case SetUpIdleModeText:
		return parseSetUpIdleModeText(base, tlvs)
	case SendSMS, SendSS, SendUSSD:
		return parseSendMessage(base, tlvs)
	case SendDTMF:
		return parseSendDTMF(base, tlvs)
	case SetUpCall:
		return parseSetUpCall(base, tlvs)
	case LaunchBrowser:
		return parseLaunchBrowser(base, tlvs)
	case PlayTone:
		return parsePlayTone(base, tlvs)
	case SetUpEventList:
		return parseSetUpEventList(base, tlvs)
	case ProvideLocalInformation:
		return parseProvideLocalInformation(base)
	case LanguageNotification:
		return parseLanguageNotification(base, tlvs)
	case Refresh:
		return parseRefresh(base, tlvs)
	case OpenChannel:
		return parseOpenChannel(base, tlvs)
	case CloseChannel:
		p := &CloseChannelParams{BaseParams: base}
		p.Channel.ChannelID = base.Devices.Destination
		icons, err := parseAlphaAndIcon(tlvs, &p.TextMessage)
		return p, icons, err
	case ReceiveData:
		return parseReceiveData(base, tlvs)
	case SendData:
		return parseSendData(base, tlvs)
	case GetChannelStatus:
		p := &GetChannelStatusParams{BaseParams: base}
		icons, err := parseAlphaAndIcon(tlvs, &p.TextMessage)
		return p, icons, err
	default:
		return nil, nil, fail(CmdTypeNotUnderstood, "unsupported command %s", base.CmdDetails.Type)
	}
}

// parseAlphaAndIcon reads the optional ALPHA IDENTIFIER and ICON IDENTIFIER into the text message.
func parseAlphaAndIcon(tlvs []tlv.ComprehensionTLV, tm *TextMessage) (*iconRequest, error) {
	if c, ok := tlv.Find(tlvs, tlv.AlphaID); ok {
		tm.Text = DecodeAlphaID(c.Value)
	}
	return parseTextIcon(tlvs, tm)
}

func parseTextIcon(tlvs []tlv.ComprehensionTLV, tm *TextMessage) (*iconRequest, error) {
	c, ok := tlv.Find(tlvs, tlv.IconID)
	if !ok {
		return nil, nil
	}
	id, err := parseIconID(c)
	if err != nil {
		return nil, err
	}
	tm.iconID = id
	tm.IconSelfExplanatory = id.SelfExplanatory

	result := &iconRequest{mandatory: id.SelfExplanatory && tm.Text == ""}
	result.add(id, func(icon *Icon) { tm.Icon = icon })
	return result, nil
}

func parseOptionalDuration(tlvs []tlv.ComprehensionTLV) (*Duration, error) {
	c, ok := tlv.Find(tlvs, tlv.Duration)
	if !ok {
		return nil, nil
	}
	return parseDuration(c)
}

func requireTextString(tlvs []tlv.ComprehensionTLV) (string, error) {
	c, ok := tlv.Find(tlvs, tlv.TextString)
	if !ok {
		return "", fail(RequiredValuesMissing, "no text string")
	}
	return DecodeTextString(c.Value)
}

// DISPLAY TEXT according to [CAT] 6.6.1
func parseDisplayText(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	p := &DisplayTextParams{BaseParams: base}
	tm := &p.TextMessage
	q := base.CmdDetails.Qualifier

	text, err := requireTextString(tlvs)
	if err != nil {
		return nil, nil, err
	}
	tm.Text = text
	_, immediate := tlv.Find(tlvs, tlv.ImmediateResponse)
	tm.ResponseNeeded = !immediate
	tm.IsHighPriority = q&0x01 != 0
	tm.UserClear = q&0x80 != 0
	tm.Duration, err = parseOptionalDuration(tlvs)
	if err != nil {
		return nil, nil, err
	}

	icons, err := parseTextIcon(tlvs, tm)
	return p, icons, err
}

// GET INKEY according to [CAT] 6.6.2
func parseGetInkey(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	p := &GetInputParams{BaseParams: base}
	in := &p.Input
	q := base.CmdDetails.Qualifier

	text, err := requireTextString(tlvs)
	if err != nil {
		return nil, nil, err
	}
	in.Text = text
	in.MinLen = 1
	in.MaxLen = 1
	in.DigitOnly = q&0x01 == 0
	in.UCS2 = q&0x02 != 0
	in.YesNo = q&0x04 != 0
	in.HelpAvailable = q&0x80 != 0
	in.Echo = true
	in.Duration, err = parseOptionalDuration(tlvs)
	if err != nil {
		return nil, nil, err
	}

	icons, err := parseInputIcon(tlvs, in)
	return p, icons, err
}

// GET INPUT according to [CAT] 6.6.3
func parseGetInput(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	p := &GetInputParams{BaseParams: base}
	in := &p.Input
	q := base.CmdDetails.Qualifier

	text, err := requireTextString(tlvs)
	if err != nil {
		return nil, nil, err
	}
	in.Text = text

	c, ok := tlv.Find(tlvs, tlv.ResponseLength)
	if !ok {
		return nil, nil, fail(RequiredValuesMissing, "no response length")
	}
	in.MinLen, in.MaxLen, err = parseResponseLength(c)
	if err != nil {
		return nil, nil, err
	}
	if c, ok := tlv.Find(tlvs, tlv.DefaultText); ok {
		in.DefaultText, err = DecodeTextString(c.Value)
		if err != nil {
			return nil, nil, err
		}
	}

	in.DigitOnly = q&0x01 == 0
	in.UCS2 = q&0x02 != 0
	in.Echo = q&0x04 == 0
	in.Packed = q&0x08 != 0
	in.HelpAvailable = q&0x80 != 0

	icons, err := parseInputIcon(tlvs, in)
	return p, icons, err
}

func parseInputIcon(tlvs []tlv.ComprehensionTLV, in *Input) (*iconRequest, error) {
	c, ok := tlv.Find(tlvs, tlv.IconID)
	if !ok {
		return nil, nil
	}
	id, err := parseIconID(c)
	if err != nil {
		return nil, err
	}
	in.IconSelfExplanatory = id.SelfExplanatory

	result := &iconRequest{mandatory: id.SelfExplanatory && in.Text == ""}
	result.add(id, func(icon *Icon) { in.Icon = icon })
	return result, nil
}

// SELECT ITEM and SET UP MENU according to [CAT] 6.6.7 and 6.6.8
func parseSelectItem(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	p := &SelectItemParams{BaseParams: base}
	menu := &p.Menu
	q := base.CmdDetails.Qualifier

	if c, ok := tlv.Find(tlvs, tlv.AlphaID); ok {
		menu.Title = DecodeAlphaID(c.Value)
	}

	cursor := tlv.NewCursor(tlvs)
	for {
		c, ok := cursor.Next(tlv.Item)
		if !ok {
			break
		}
		menu.Items = append(menu.Items, parseItem(c))
	}
	if len(menu.Items) == 0 {
		return nil, nil, fail(RequiredValuesMissing, "no menu items")
	}

	if c, ok := tlv.Find(tlvs, tlv.ItemID); ok {
		id, err := parseItemID(c)
		if err != nil {
			return nil, nil, err
		}
		menu.DefaultItem = id
	}

	if q&0x01 != 0 {
		if q&0x02 != 0 {
			menu.Presentation = PresentationNavigationOptions
		} else {
			menu.Presentation = PresentationDataValues
		}
	}
	menu.SoftKeyPreferred = q&0x04 != 0
	menu.HelpAvailable = q&0x80 != 0

	icons := &iconRequest{}
	if c, ok := tlv.Find(tlvs, tlv.IconID); ok {
		id, err := parseIconID(c)
		if err != nil {
			return nil, nil, err
		}
		menu.TitleIconSelfExplanatory = id.SelfExplanatory
		icons.add(id, func(icon *Icon) { menu.TitleIcon = icon })
	}
	if c, ok := tlv.Find(tlvs, tlv.ItemIconIDList); ok {
		list, err := parseItemIconIDList(c)
		if err != nil {
			return nil, nil, err
		}
		menu.ItemsIconSelfExplanatory = list.SelfExplanatory
		for i, record := range list.Records {
			if i >= len(menu.Items) || menu.Items[i] == nil {
				break
			}
			item := menu.Items[i]
			icons.add(&IconID{SelfExplanatory: list.SelfExplanatory, Record: record}, func(icon *Icon) { item.Icon = icon })
		}
	}
	return p, icons, nil
}

// SET UP IDLE MODE TEXT according to [CAT] 6.6.22
func parseSetUpIdleModeText(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	p := &DisplayTextParams{BaseParams: base}
	tm := &p.TextMessage
	if c, ok := tlv.Find(tlvs, tlv.TextString); ok {
		text, err := DecodeTextString(c.Value)
		if err != nil {
			return nil, nil, err
		}
		tm.Text = text
	}
	icons, err := parseTextIcon(tlvs, tm)
	return p, icons, err
}

// SEND SHORT MESSAGE, SEND SS and SEND USSD according to [CAT] 6.6.9, 6.6.10 and 6.6.11
func parseSendMessage(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	p := &SendMessageParams{BaseParams: base}
	payloadTag := tlv.SMSTPDU
	switch base.CmdDetails.Type {
	case SendSS:
		payloadTag = tlv.SSString
	case SendUSSD:
		payloadTag = tlv.USSDString
	}
	if c, ok := tlv.Find(tlvs, payloadTag); ok {
		p.Payload = append([]byte{}, c.Value...)
	}
	icons, err := parseAlphaAndIcon(tlvs, &p.TextMessage)
	return p, icons, err
}

// SEND DTMF according to [CAT] 6.6.24
func parseSendDTMF(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	p := &DTMFParams{BaseParams: base}
	c, ok := tlv.Find(tlvs, tlv.DTMFString)
	if !ok {
		return nil, nil, fail(RequiredValuesMissing, "no DTMF string")
	}
	p.Digits = decodeBCD(c.Value)
	icons, err := parseAlphaAndIcon(tlvs, &p.TextMessage)
	return p, icons, err
}

// SET UP CALL according to [CAT] 6.6.12
func parseSetUpCall(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	p := &CallSetupParams{BaseParams: base}
	call := &p.Call

	c, ok := tlv.Find(tlvs, tlv.Address)
	if !ok {
		return nil, nil, fail(RequiredValuesMissing, "no address")
	}
	address, err := parseAddress(c)
	if err != nil {
		return nil, nil, err
	}
	call.Address = address

	alphas := tlv.NewCursor(tlvs)
	if c, ok := alphas.Next(tlv.AlphaID); ok {
		call.ConfirmMsg.Text = DecodeAlphaID(c.Value)
	}
	if c, ok := alphas.Next(tlv.AlphaID); ok {
		call.CallMsg.Text = DecodeAlphaID(c.Value)
	}

	icons := &iconRequest{}
	iconIDs := tlv.NewCursor(tlvs)
	for _, tm := range []*TextMessage{&call.ConfirmMsg, &call.CallMsg} {
		c, ok := iconIDs.Next(tlv.IconID)
		if !ok {
			break
		}
		id, err := parseIconID(c)
		if err != nil {
			return nil, nil, err
		}
		tm := tm
		tm.iconID = id
		tm.IconSelfExplanatory = id.SelfExplanatory
		icons.add(id, func(icon *Icon) { tm.Icon = icon })
	}
	return p, icons, nil
}

// LAUNCH BROWSER according to [CAT] 6.6.26
func parseLaunchBrowser(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	p := &LaunchBrowserParams{BaseParams: base}
	if c, ok := tlv.Find(tlvs, tlv.URL); ok {
		p.Browser.URL = decodeGSM(c.Value)
	}
	switch base.CmdDetails.Qualifier {
	case 0x02:
		p.Browser.Mode = UseExistingBrowser
	case 0x03:
		p.Browser.Mode = LaunchNewBrowser
	default:
		p.Browser.Mode = LaunchIfNotAlreadyLaunched
	}
	icons, err := parseAlphaAndIcon(tlvs, &p.ConfirmMsg)
	return p, icons, err
}

// PLAY TONE according to [CAT] 6.6.5
func parsePlayTone(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	p := &PlayToneParams{BaseParams: base}
	if c, ok := tlv.Find(tlvs, tlv.Tone); ok {
		tone, err := parseByte(c)
		if err != nil {
			return nil, nil, err
		}
		p.Settings.Tone = ToneType(tone)
	}
	duration, err := parseOptionalDuration(tlvs)
	if err != nil {
		return nil, nil, err
	}
	p.Settings.Duration = duration
	p.Settings.Vibrate = base.CmdDetails.Qualifier&0x01 != 0

	icons, err := parseAlphaAndIcon(tlvs, &p.TextMessage)
	return p, icons, err
}

// SET UP EVENT LIST according to [CAT] 6.6.16
func parseSetUpEventList(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	c, ok := tlv.Find(tlvs, tlv.EventList)
	if !ok {
		return nil, nil, fail(RequiredValuesMissing, "no event list")
	}
	return &SetEventListParams{
		BaseParams: base,
		Events:     parseEventList(c),
	}, nil, nil
}

// PROVIDE LOCAL INFORMATION according to [CAT] 6.6.15
func parseProvideLocalInformation(base BaseParams) (CommandParams, *iconRequest, error) {
	switch base.CmdDetails.Qualifier {
	case LocalInfoDateTimeZone, LocalInfoLanguage:
		return &LocalInfoParams{BaseParams: base}, nil, nil
	default:
		return nil, nil, fail(BeyondTerminalCapability, "local information 0x%02X not supported", base.CmdDetails.Qualifier)
	}
}

// LANGUAGE NOTIFICATION according to [CAT] 6.6.25
func parseLanguageNotification(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	p := &LanguageParams{
		BaseParams: base,
		Specific:   base.CmdDetails.Qualifier&0x01 != 0,
	}
	if c, ok := tlv.Find(tlvs, tlv.Language); ok {
		p.Language = DecodeLanguage(c.Value)
	}
	return p, nil, nil
}

// REFRESH according to [CAT] 6.6.13
func parseRefresh(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	p := &RefreshParams{BaseParams: base}
	if c, ok := tlv.Find(tlvs, tlv.FileList); ok {
		p.Files = append([]byte{}, c.Value...)
	}
	icons, err := parseAlphaAndIcon(tlvs, &p.TextMessage)
	return p, icons, err
}

// OPEN CHANNEL according to [CAT] 6.6.27
func parseOpenChannel(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	p := &OpenChannelParams{BaseParams: base}
	ch := &p.Channel
	ch.ImmediateLink = base.CmdDetails.Qualifier&0x01 != 0

	c, ok := tlv.Find(tlvs, tlv.BearerDescription)
	if !ok {
		return nil, nil, fail(RequiredValuesMissing, "no bearer description")
	}
	bearer, err := parseBearerDescription(c)
	if err != nil {
		return nil, nil, err
	}
	ch.Bearer = bearer

	c, ok = tlv.Find(tlvs, tlv.BufferSize)
	if !ok {
		return nil, nil, fail(RequiredValuesMissing, "no buffer size")
	}
	ch.BufferSize, err = parseBufferSize(c)
	if err != nil {
		return nil, nil, err
	}

	if c, ok := tlv.Find(tlvs, tlv.NetworkAccessName); ok {
		ch.NetworkAccessName = parseNetworkAccessName(c)
	}

	credentials := tlv.NewCursor(tlvs)
	if c, ok := credentials.Next(tlv.TextString); ok {
		ch.Login, err = DecodeTextString(c.Value)
		if err != nil {
			return nil, nil, err
		}
	}
	if c, ok := credentials.Next(tlv.TextString); ok {
		ch.Password, err = DecodeTextString(c.Value)
		if err != nil {
			return nil, nil, err
		}
	}

	// the data destination address is the OTHER ADDRESS behind the transport level
	transportSeen := false
	for _, c := range tlvs {
		switch {
		case c.Tag == tlv.TransportLevel:
			ch.Transport, err = parseTransportLevel(c)
			if err != nil {
				return nil, nil, err
			}
			transportSeen = true
		case c.Tag == tlv.OtherAddress && transportSeen:
			ch.DestinationAddress, err = parseOtherAddress(c)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	icons, err := parseAlphaAndIcon(tlvs, &p.TextMessage)
	return p, icons, err
}

// RECEIVE DATA according to [CAT] 6.6.29
func parseReceiveData(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	p := &ReceiveDataParams{BaseParams: base}
	p.Channel.ChannelID = base.Devices.Destination
	c, ok := tlv.Find(tlvs, tlv.ChannelDataLength)
	if !ok {
		return nil, nil, fail(RequiredValuesMissing, "no channel data length")
	}
	length, err := parseByte(c)
	if err != nil {
		return nil, nil, err
	}
	p.Channel.DataLength = int(length)
	icons, err := parseAlphaAndIcon(tlvs, &p.TextMessage)
	return p, icons, err
}

// SEND DATA according to [CAT] 6.6.30
func parseSendData(base BaseParams, tlvs []tlv.ComprehensionTLV) (CommandParams, *iconRequest, error) {
	p := &SendDataParams{BaseParams: base}
	p.Channel.ChannelID = base.Devices.Destination
	p.Channel.SendImmediately = base.CmdDetails.Qualifier&0x01 != 0
	c, ok := tlv.Find(tlvs, tlv.ChannelData)
	if !ok {
		return nil, nil, fail(RequiredValuesMissing, "no channel data")
	}
	p.Channel.Data = append([]byte{}, c.Value...)
	icons, err := parseAlphaAndIcon(tlvs, &p.TextMessage)
	return p, icons, err
}
