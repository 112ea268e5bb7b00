package exifcodec

import (
	"bytes"
	"encoding/binary"
)

const (
	markerSOI  = 0xd8
	markerAPP1 = 0xe1
	markerSOS  = 0xda
)

var jpegExifPrefix = []byte("Exif\x00\x00")

// ExifFromJPEG locates the Exif APP1 segment in a JPEG file and returns
// the TIFF blob it carries, along with the blob's byte offset within data.
// The blob aliases data. Decode the whole file in place by passing data
// with Options.OffsetAdjustment set to the returned offset, or just decode
// the returned slice.
func ExifFromJPEG(data []byte) (blob []byte, offset int, ok bool) {
	if len(data) < 4 || data[0] != 0xff || data[1] != markerSOI {
		return nil, 0, false
	}
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xff {
			return nil, 0, false
		}
		marker := data[i+1]
		if marker == markerSOS {
			// Entropy-coded data from here on, no more metadata segments.
			break
		}
		if marker == 0x01 || (marker >= 0xd0 && marker <= 0xd9) {
			// Standalone marker without a length field.
			i += 2
			continue
		}
		length := int(binary.BigEndian.Uint16(data[i+2:]))
		if length < 2 || i+2+length > len(data) {
			return nil, 0, false
		}
		seg := data[i+4 : i+2+length]
		if marker == markerAPP1 && bytes.HasPrefix(seg, jpegExifPrefix) {
			off := i + 4 + len(jpegExifPrefix)
			return data[off : i+2+length], off, true
		}
		i += 2 + length
	}
	return nil, 0, false
}
