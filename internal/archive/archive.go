// Package archive extracts the text payload from attributedBody blobs, which
// are serialized NSAttributedString archives. It does not parse the archive
// grammar; it locates the first string object, which is the only text payload
// a message embeds. The blob comes from an external store, so every offset is
// bounds-checked and malformed input yields absence rather than a panic.
package archive

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"
)

// stringMarker precedes the string object header in the archive.
var stringMarker = []byte("NSString")

// headerGap is the fixed number of structural bytes between the marker and
// the length byte.
const headerGap = 5

// longLengthSentinel in the length byte position means the true length
// follows as a 2-byte little-endian integer.
const longLengthSentinel = 0x81

// ExtractText returns the embedded text payload of an attributedBody blob.
// It returns false when the blob has no marker, declares a length past the
// end of the buffer, or contains invalid UTF-8.
func ExtractText(blob []byte) (string, bool) {
	pos := bytes.Index(blob, stringMarker)
	if pos < 0 {
		return "", false
	}
	data := blob[pos+len(stringMarker):]
	if len(data) <= headerGap {
		return "", false
	}
	data = data[headerGap:]

	var length, start int
	if data[0] == longLengthSentinel && len(data) >= 3 {
		length = int(binary.LittleEndian.Uint16(data[1:3]))
		start = 3
	} else {
		length = int(data[0])
		start = 1
	}
	if start+length > len(data) {
		return "", false
	}

	payload := data[start : start+length]
	if !utf8.Valid(payload) {
		return "", false
	}
	return string(payload), true
}
