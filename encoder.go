// Copyright 2025 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package exifcodec

import (
	"cmp"
	"encoding/binary"
	"slices"
	"strings"
)

// encoder builds a TIFF blob in two phases. Phase one collects directory
// entries per section while growing a shared out-of-line data area, with
// offsets relative to the start of that area. Phase two computes where each
// section lands in the final blob, patches the directory pointer entries,
// rebases the out-of-line offsets and serializes.
type encoder struct {
	order binary.ByteOrder
	warnf func(string, ...any)
	data  []byte
}

type encEntry struct {
	tag    uint16
	typ    exifType
	count  uint32
	inline [4]byte // payload, when it fits
	offset uint32  // data-area-relative, when it doesn't
}

type encSection struct {
	entries []encEntry
}

// set adds an entry, replacing any previous entry with the same tag.
func (s *encSection) set(e encEntry) {
	for i := range s.entries {
		if s.entries[i].tag == e.tag {
			s.entries[i] = e
			return
		}
	}
	s.entries = append(s.entries, e)
}

// size is the serialized byte size: entry count, entries, next-IFD pointer.
func (s *encSection) size() uint32 {
	return 2 + dirEntrySize*uint32(len(s.entries)) + 4
}

const headerSize = 8

func (e *encoder) encode(rec Record) []byte {
	var root, exif, gps, maker encSection

	rec.Each(func(name string, value any) bool {
		switch {
		case strings.HasPrefix(name, "GPS:"):
			if ti := gpsTagMap().findName(name); ti != nil {
				e.addAttr(&gps, ti, value)
			}
		case strings.HasPrefix(name, "Canon:"):
			// collected below, against the MakerNote registry
		default:
			ti := exifTagMap().findName(name)
			if ti == nil || ti.tifftype == typeNone {
				return true
			}
			if ti.tag == 0x9286 { // UserComment carries a character set prefix
				if s, ok := value.(string); ok {
					raw := append([]byte(nil), userCommentASCII...)
					exif.set(e.rawEntry(ti.tag, typeUndef, append(raw, s...)))
				}
				return true
			}
			if ti.tag >= exifSectionLow && ti.tag <= exifSectionHigh {
				e.addAttr(&exif, ti, value)
			} else {
				e.addAttr(&root, ti, value)
			}
		}
		return true
	})

	e.encodeCanonMakerNote(&maker, rec)

	// Mandatory tags for any blob that carries Exif or maker content.
	if len(exif.entries) > 0 || len(maker.entries) > 0 {
		exif.set(e.rawEntry(0x9000, typeUndef, []byte("0230")))     // ExifVersion
		exif.set(e.rawEntry(0xa000, typeUndef, []byte("0100")))     // FlashPixVersion
		exif.set(e.rawEntry(0x9101, typeUndef, []byte{1, 2, 3, 0})) // ComponentsConfiguration
	}
	if len(gps.entries) > 0 {
		gps.set(e.rawEntry(0, typeUnsignedByte, []byte{2, 2, 0, 0})) // GPS:VersionID
	}

	// Directory pointers, patched with real positions below.
	if len(exif.entries) > 0 {
		root.set(encEntry{tag: exifPointer, typ: typeUnsignedLong, count: 1})
	}
	if len(gps.entries) > 0 {
		root.set(encEntry{tag: gpsPointer, typ: typeUnsignedLong, count: 1})
	}
	if len(maker.entries) > 0 {
		exif.set(encEntry{tag: makerNotePointer, typ: typeUnsignedLong, count: 1})
	}

	// Section positions are now fixed: root directly after the header, the
	// sub-directories in order, the data area after the last of them.
	pos := uint32(headerSize)
	sections := []*encSection{&root, &exif, &gps, &maker}
	bases := make([]uint32, len(sections))
	for i, s := range sections {
		if i > 0 && len(s.entries) == 0 {
			continue
		}
		bases[i] = pos
		pos += s.size()
	}
	dataStart := pos

	e.patchPointer(&root, exifPointer, bases[1])
	e.patchPointer(&root, gpsPointer, bases[2])
	e.patchPointer(&exif, makerNotePointer, bases[3])

	buf := make([]byte, 0, int(dataStart)+len(e.data))
	buf = e.appendHeader(buf)
	for i, s := range sections {
		if i > 0 && len(s.entries) == 0 {
			continue
		}
		buf = e.appendSection(buf, s, dataStart)
	}
	return append(buf, e.data...)
}

func (e *encoder) appendHeader(buf []byte) []byte {
	var h [headerSize]byte
	if e.order == binary.ByteOrder(binary.BigEndian) {
		e.order.PutUint16(h[:], byteOrderBigEndian)
	} else {
		e.order.PutUint16(h[:], byteOrderLittleEndian)
	}
	e.order.PutUint16(h[2:], tiffVersion)
	e.order.PutUint32(h[4:], headerSize)
	return append(buf, h[:]...)
}

func (e *encoder) appendSection(buf []byte, s *encSection, dataStart uint32) []byte {
	slices.SortFunc(s.entries, func(a, b encEntry) int {
		return cmp.Compare(a.tag, b.tag)
	})
	var scratch [4]byte
	e.order.PutUint16(scratch[:], uint16(len(s.entries)))
	buf = append(buf, scratch[:2]...)
	for _, ent := range s.entries {
		e.order.PutUint16(scratch[:], ent.tag)
		buf = append(buf, scratch[:2]...)
		e.order.PutUint16(scratch[:], uint16(ent.typ))
		buf = append(buf, scratch[:2]...)
		e.order.PutUint32(scratch[:], ent.count)
		buf = append(buf, scratch[:4]...)
		if ent.typ.size()*ent.count <= 4 {
			buf = append(buf, ent.inline[:]...)
		} else {
			e.order.PutUint32(scratch[:], ent.offset+dataStart)
			buf = append(buf, scratch[:4]...)
		}
	}
	// No next directory.
	return append(buf, 0, 0, 0, 0)
}

func (e *encoder) patchPointer(s *encSection, tag uint16, base uint32) {
	for i := range s.entries {
		if s.entries[i].tag == tag {
			e.order.PutUint32(s.entries[i].inline[:], base)
			return
		}
	}
}

// rawEntry builds an entry whose payload bytes are already in wire form.
func (e *encoder) rawEntry(tag uint16, typ exifType, raw []byte) encEntry {
	ent := encEntry{tag: tag, typ: typ, count: uint32(len(raw)) / typ.size()}
	if len(raw) <= 4 {
		copy(ent.inline[:], raw)
	} else {
		ent.offset = uint32(len(e.data))
		e.data = append(e.data, raw...)
	}
	return ent
}

// addAttr converts an attribute value to the registry's wire type and adds
// it to the section. Attributes the type cannot represent are skipped.
func (e *encoder) addAttr(s *encSection, ti *tagInfo, v any) {
	raw, ok := e.marshal(ti.tifftype, v)
	if !ok {
		e.warnf("cannot represent %s value %T as TIFF type %d, skipping", ti.name, v, ti.tifftype)
		return
	}
	s.set(e.rawEntry(ti.tag, ti.tifftype, raw))
}

// marshal renders a Go value as the payload bytes of the given wire type.
func (e *encoder) marshal(typ exifType, v any) ([]byte, bool) {
	switch typ {
	case typeASCII:
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		return append([]byte(s), 0), true
	case typeUnsignedByte, typeUndef:
		switch v := v.(type) {
		case []byte:
			return v, true
		case string:
			return []byte(v), true
		case int:
			if v < 0 || v > 0xff {
				return nil, false
			}
			return []byte{byte(v)}, true
		}
		return nil, false
	case typeUnsignedShort:
		vals, ok := toUint32s(v)
		if !ok {
			return nil, false
		}
		raw := make([]byte, 2*len(vals))
		for i, u := range vals {
			if u > 0xffff {
				return nil, false
			}
			e.order.PutUint16(raw[2*i:], uint16(u))
		}
		return raw, true
	case typeUnsignedLong:
		vals, ok := toUint32s(v)
		if !ok {
			return nil, false
		}
		raw := make([]byte, 4*len(vals))
		for i, u := range vals {
			e.order.PutUint32(raw[4*i:], u)
		}
		return raw, true
	case typeUnsignedRat:
		vals, ok := toFloats(v)
		if !ok {
			return nil, false
		}
		raw := make([]byte, 8*len(vals))
		for i, f := range vals {
			num, den := floatToRational(f)
			e.order.PutUint32(raw[8*i:], num)
			e.order.PutUint32(raw[8*i+4:], den)
		}
		return raw, true
	case typeSignedRat:
		vals, ok := toFloats(v)
		if !ok {
			return nil, false
		}
		raw := make([]byte, 8*len(vals))
		for i, f := range vals {
			num, den := floatToSRational(f)
			e.order.PutUint32(raw[8*i:], uint32(num))
			e.order.PutUint32(raw[8*i+4:], uint32(den))
		}
		return raw, true
	case typeSignedShort:
		vals, ok := toInts(v)
		if !ok {
			return nil, false
		}
		raw := make([]byte, 2*len(vals))
		for i, n := range vals {
			if n < -0x8000 || n > 0x7fff {
				return nil, false
			}
			e.order.PutUint16(raw[2*i:], uint16(int16(n)))
		}
		return raw, true
	}
	return nil, false
}
