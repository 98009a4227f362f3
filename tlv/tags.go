package tlv

// Tag of a COMPREHENSION-TLV data object according to [CAT] 9.3, without the comprehension required flag.
type Tag uint16

// The COMPREHENSION-TLV tags used by the toolkit, according to [CAT] table 9.3
const (
	CommandDetails          Tag = 0x01
	DeviceIdentities        Tag = 0x02
	Result                  Tag = 0x03
	Duration                Tag = 0x04
	AlphaID                 Tag = 0x05
	Address                 Tag = 0x06
	CapabilityConfigParams  Tag = 0x07
	Subaddress              Tag = 0x08
	SSString                Tag = 0x09
	USSDString              Tag = 0x0A
	SMSTPDU                 Tag = 0x0B
	TextString              Tag = 0x0D
	Tone                    Tag = 0x0E
	Item                    Tag = 0x0F
	ItemID                  Tag = 0x10
	ResponseLength          Tag = 0x11
	FileList                Tag = 0x12
	HelpRequest             Tag = 0x15
	DefaultText             Tag = 0x17
	EventList               Tag = 0x19
	IconID                  Tag = 0x1E
	ItemIconIDList          Tag = 0x1F
	DateTimeAndTimezone     Tag = 0x26
	ImmediateResponse       Tag = 0x2B
	DTMFString              Tag = 0x2C
	Language                Tag = 0x2D
	BrowserID               Tag = 0x30
	URL                     Tag = 0x31
	Bearer                  Tag = 0x32
	ProvisioningRefFile     Tag = 0x33
	BrowserTerminationCause Tag = 0x34
	BearerDescription       Tag = 0x35
	ChannelData             Tag = 0x36
	ChannelDataLength       Tag = 0x37
	ChannelStatus           Tag = 0x38
	BufferSize              Tag = 0x39
	TransportLevel          Tag = 0x3C
	OtherAddress            Tag = 0x3E
	NetworkAccessName       Tag = 0x47
	TextAttribute           Tag = 0x50
)

// The BER-TLV tags according to [CAT] 9.1
const (
	ProactiveCommandTag byte = 0xD0
	SMSPPDownloadTag    byte = 0xD1
	MenuSelectionTag    byte = 0xD3
	CallControlTag      byte = 0xD4
	EventDownloadTag    byte = 0xD6
)

// ComprehensionRequired is the flag bit in a single byte tag.
const ComprehensionRequired byte = 0x80
