package exifcodec

const (
	byteOrderBigEndian    = 0x4d4d
	byteOrderLittleEndian = 0x4949

	tiffVersion = 42

	exifPointer      = 0x8769
	gpsPointer       = 0x8825
	interopPointer   = 0xa005
	makerNotePointer = 0x927c
)

// exifType represents the basic TIFF tag data types.
type exifType uint16

const (
	// typeNone marks tags that are recognized but never converted to an
	// attribute (the registry's ignore sentinel).
	typeNone exifType = 0

	typeUnsignedByte  exifType = 1
	typeASCII         exifType = 2
	typeUnsignedShort exifType = 3
	typeUnsignedLong  exifType = 4
	typeUnsignedRat   exifType = 5
	typeSignedByte    exifType = 6
	typeUndef         exifType = 7
	typeSignedShort   exifType = 8
	typeSignedLong    exifType = 9
	typeSignedRat     exifType = 10
	typeFloat         exifType = 11
	typeDouble        exifType = 12
)

// Size in bytes of a single value of each type.
var exifTypeSize = map[exifType]uint32{
	typeUnsignedByte:  1,
	typeASCII:         1,
	typeUnsignedShort: 2,
	typeUnsignedLong:  4,
	typeUnsignedRat:   8,
	typeSignedByte:    1,
	typeUndef:         1,
	typeSignedShort:   2,
	typeSignedLong:    4,
	typeSignedRat:     8,
	typeFloat:         4,
	typeDouble:        8,
}

// size returns the byte size of one value, or 0 for unknown types.
func (t exifType) size() uint32 {
	return exifTypeSize[t]
}

// A directory entry is represented in 12 bytes:
//   - 2 bytes for the tag ID
//   - 2 bytes for the data type
//   - 4 bytes for the number of data values of the specified type
//   - 4 bytes for the value itself, if it fits, otherwise for a
//     buffer-relative offset to where the data is found.
const dirEntrySize = 12

// dirEntry is one directory entry with its header fields already read in
// the file's byte order. valuePos is the absolute position in the buffer of
// the entry's 4-byte value/offset field.
type dirEntry struct {
	tag      uint16
	typ      exifType
	count    uint32
	valuePos int64
}

// dataSize returns the total payload size in bytes, or 0 when the type is
// unknown or the count overflows.
func (e dirEntry) dataSize() uint32 {
	size := e.typ.size()
	if size == 0 || e.count > 0xffffffff/size {
		return 0
	}
	return size * e.count
}

// inline reports whether the payload is stored directly in the value field.
func (e dirEntry) inline() bool {
	size := e.dataSize()
	return size > 0 && size <= 4
}
