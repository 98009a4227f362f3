package cat

import (
	"github.com/ftl/sim-toolkit/tlv"
)

// EncodeMenuSelection encodes the MENU SELECTION envelope according to [CAT] 7.2
func EncodeMenuSelection(itemID byte, helpRequested bool) ([]byte, error) {
	w := tlv.NewWriter()
	w.WriteByte(tlv.MenuSelectionTag)
	length := w.Placeholder()
	w.WriteTLV(tlv.DeviceIdentities, true, byte(DeviceKeypad), byte(DeviceUICC))
	w.WriteTLV(tlv.ItemID, true, itemID)
	if helpRequested {
		w.WriteTLV(tlv.HelpRequest, false)
	}
	if err := w.PatchLength(length); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// EncodeEventDownload encodes the EVENT DOWNLOAD envelope for the event reported with the given response,
// according to [CAT] 7.5
func EncodeEventDownload(response Response) ([]byte, error) {
	source := DeviceTerminal
	if response.Event == EventIdleScreen {
		source = DeviceDisplay
	}

	w := tlv.NewWriter()
	w.WriteByte(tlv.EventDownloadTag)
	length := w.Placeholder()
	w.WriteTLV(tlv.EventList, true, byte(response.Event))
	w.WriteTLV(tlv.DeviceIdentities, true, byte(source), byte(DeviceUICC))

	switch response.Event {
	case EventLanguageSelection:
		w.WriteTLV(tlv.Language, true, EncodeLanguage(response.Language)...)
	case EventBrowserTermination:
		w.WriteTLV(tlv.BrowserTerminationCause, true, response.BrowserTerminationCause)
	case EventDataAvailable:
		response.channelStatus().encodeTo(w)
		w.WriteTLV(tlv.ChannelDataLength, true, cappedLength(response.DataLength))
	case EventChannelStatus:
		response.channelStatus().encodeTo(w)
	}

	if err := w.PatchLength(length); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
