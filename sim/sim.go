package sim

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// Slot identifies one SIM slot of a multi-SIM terminal. Slots are numbered from 0.
type Slot int

func (s Slot) String() string {
	return fmt.Sprintf("SIM%d", int(s)+1)
}

// FileID of an elementary file on the SIM according to [USIM] 4.
type FileID uint16

// The elementary files read by the toolkit
const (
	EFImg   FileID = 0x4F20 // image descriptors, [USIM] 4.6.1.1
	EFImgDF FileID = 0x5F50 // DF graphics
)

var hexSanitizer = regexp.MustCompile(`[\s"]+`)

// HexToBinary converts the hex representation used on the AT interface for binary data into a slice of bytes.
// Whitespace and quotes are ignored.
func HexToBinary(s string) ([]byte, error) {
	sanitized := hexSanitizer.ReplaceAllString(s, "")
	return hex.DecodeString(sanitized)
}

// BinaryToHex converts a slice of bytes into the hex representation used on the AT interface for binary data.
func BinaryToHex(data []byte) string {
	return strings.ToUpper(hex.EncodeToString(data))
}
