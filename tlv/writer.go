package tlv

// Writer builds TLV encoded data by appending to a byte slice.
type Writer struct {
	bytes []byte
}

func NewWriter() *Writer {
	return &Writer{bytes: make([]byte, 0, 64)}
}

// Bytes returns the encoded data.
func (w *Writer) Bytes() []byte {
	return w.bytes
}

// Len returns the count of bytes written so far.
func (w *Writer) Len() int {
	return len(w.bytes)
}

// WriteByte appends a single raw byte.
func (w *Writer) WriteByte(b byte) error {
	w.bytes = append(w.bytes, b)
	return nil
}

// Write appends raw bytes.
func (w *Writer) Write(p []byte) (int, error) {
	w.bytes = append(w.bytes, p...)
	return len(p), nil
}

// WriteTag appends a single byte COMPREHENSION-TLV tag with the given comprehension required flag.
func (w *Writer) WriteTag(tag Tag, cr bool) {
	b := byte(tag)
	if cr {
		b |= ComprehensionRequired
	}
	w.bytes = append(w.bytes, b)
}

// MaxLength is the largest length that can be encoded in the 0x81 form.
const MaxLength = 0xFF

// WriteLength appends a length in the single byte or 0x81 form. Lengths above MaxLength are capped.
func (w *Writer) WriteLength(length int) {
	if length > MaxLength {
		length = MaxLength
	}
	if length >= 0x80 {
		w.bytes = append(w.bytes, 0x81)
	}
	w.bytes = append(w.bytes, byte(length))
}

// WriteTLV appends a complete data object. A value longer than MaxLength is truncated.
func (w *Writer) WriteTLV(tag Tag, cr bool, value ...byte) {
	if len(value) > MaxLength {
		value = value[:MaxLength]
	}
	w.WriteTag(tag, cr)
	w.WriteLength(len(value))
	w.bytes = append(w.bytes, value...)
}

// Placeholder appends a length byte that is patched later and returns its position.
func (w *Writer) Placeholder() int {
	w.bytes = append(w.bytes, 0)
	return len(w.bytes) - 1
}

// PatchLength writes the count of bytes following the given placeholder into the placeholder.
// Only the single byte length form is supported, the content must be shorter than 128 bytes.
func (w *Writer) PatchLength(pos int) error {
	length := len(w.bytes) - pos - 1
	if length >= 0x80 {
		return NewResultError(CmdDataNotUnderstood, "content too long for the single byte length form: %d", length)
	}
	w.bytes[pos] = byte(length)
	return nil
}
