// Copyright 2025 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package exifcodec

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

type decoder struct {
	buf   []byte
	order binary.ByteOrder
	rec   Record
	opts  Options

	// seen holds the directory offsets already visited in this decode,
	// keyed by the raw offset value before adjustment. Corrupt files can
	// point directories at each other, this is what breaks the loop.
	seen map[uint32]bool

	// Offset of a MakerNote found before the Make tag, resolved in fixups.
	makerNoteOffset uint32
}

func (d *decoder) warnf(format string, args ...any) {
	d.opts.Warnf(format, args...)
}

// abs converts a buffer-relative offset into an absolute buffer position.
func (d *decoder) abs(off uint32) int64 {
	return int64(off) + int64(d.opts.OffsetAdjustment)
}

func (d *decoder) in(pos, n int64) bool {
	return pos >= 0 && n >= 0 && pos <= int64(len(d.buf))-n
}

func (d *decoder) decode() bool {
	adj := int64(d.opts.OffsetAdjustment)
	if !d.in(adj, 8) {
		d.warnf("short TIFF header")
		return false
	}
	switch {
	case d.buf[adj] == 'I' && d.buf[adj+1] == 'I':
		d.order = binary.LittleEndian
	case d.buf[adj] == 'M' && d.buf[adj+1] == 'M':
		d.order = binary.BigEndian
	default:
		d.warnf("unrecognized TIFF byte order marker 0x%02x%02x", d.buf[adj], d.buf[adj+1])
		return false
	}
	if v := d.order.Uint16(d.buf[adj+2:]); v != tiffVersion {
		d.warnf("unexpected TIFF version %d", v)
	}
	diroff := d.order.Uint32(d.buf[adj+4:])
	d.seen[diroff] = true
	d.decodeIFD(diroff, exifTagMap())
	d.fixups()
	return true
}

// decodeIFD walks the directory at the given buffer-relative offset,
// interpreting tags against the given registry. The trailing next-IFD
// pointer (thumbnail directory) is deliberately not followed.
func (d *decoder) decodeIFD(pos uint32, tm *tagMap) {
	p := d.abs(pos)
	if !d.in(p, 2) {
		d.warnf("%s directory offset %d out of range", tm.domain, pos)
		return
	}
	n := int64(d.order.Uint16(d.buf[p:]))
	if !d.in(p+2, n*dirEntrySize) {
		d.warnf("truncated %s directory at offset %d", tm.domain, pos)
		return
	}
	for i := int64(0); i < n; i++ {
		ep := p + 2 + i*dirEntrySize
		e := dirEntry{
			tag:      d.order.Uint16(d.buf[ep:]),
			typ:      exifType(d.order.Uint16(d.buf[ep+2:])),
			count:    d.order.Uint32(d.buf[ep+4:]),
			valuePos: ep + 8,
		}
		d.decodeEntry(e, tm)
	}
}

func (d *decoder) decodeEntry(e dirEntry, tm *tagMap) {
	switch e.tag {
	case exifPointer, gpsPointer, interopPointer:
		if tm != exifTagMap() {
			break // sub-directory pointers only live in the TIFF/Exif registry
		}
		if e.typ != typeUnsignedLong || e.count != 1 {
			d.warnf("ignoring directory pointer 0x%x with type %d count %d", e.tag, e.typ, e.count)
			return
		}
		off := d.order.Uint32(d.buf[e.valuePos:])
		if !d.enter(off) {
			return
		}
		sub := exifTagMap()
		if e.tag == gpsPointer {
			sub = gpsTagMap()
			if !d.plausibleGPSDir(off) {
				return
			}
		}
		d.decodeIFD(off, sub)
		return
	case makerNotePointer:
		if tm != exifTagMap() {
			break
		}
		off := d.order.Uint32(d.buf[e.valuePos:])
		if d.isCanon() {
			if d.enter(off) {
				d.decodeIFD(off, canonTagMap())
			}
		} else {
			// Maker not known yet; retry once the whole directory tree
			// has been walked.
			d.makerNoteOffset = off
		}
		return
	}

	ti := tm.findTag(e.tag)
	if ti == nil {
		return
	}
	if ti.handler != nil {
		ti.handler(ti, e, d)
		return
	}
	if ti.tifftype == typeNone {
		return
	}
	d.addItem(ti.name, e)
}

// enter marks a directory offset as visited and reports whether it is safe
// to recurse into it.
func (d *decoder) enter(off uint32) bool {
	if d.seen[off] {
		d.warnf("directory offset %d already visited, ignoring", off)
		return false
	}
	d.seen[off] = true
	return true
}

// plausibleGPSDir rejects GPS directories whose declared entry count
// exceeds the number of defined GPS tags. Corrupt files routinely point the
// GPS tag at image data, and this cheap test catches most of them.
func (d *decoder) plausibleGPSDir(off uint32) bool {
	p := d.abs(off)
	if !d.in(p, 2) {
		return false
	}
	if n := d.order.Uint16(d.buf[p:]); int(n) > len(gpsTagTable) {
		d.warnf("GPS directory with implausible entry count %d, ignoring", n)
		return false
	}
	return true
}

func (d *decoder) isCanon() bool {
	v, found := d.rec.Get("Make")
	if !found {
		return false
	}
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, "Canon")
}

// fixups runs after the directory walk: a MakerNote seen before the Make
// tag, and derived attributes that need the full picture.
func (d *decoder) fixups() {
	if d.makerNoteOffset != 0 && d.isCanon() {
		if d.enter(d.makerNoteOffset) {
			d.decodeIFD(d.makerNoteOffset, canonTagMap())
		}
		d.makerNoteOffset = 0
	}
	if v, found := d.rec.Get("Exif:ColorSpace"); found {
		if cs, ok := toUint32(v); ok && cs != 0xffff {
			d.rec.Set("WorkingColorSpace", "sRGB")
		}
	}
}

// payload returns the raw bytes of an entry's value, inline or via offset.
func (d *decoder) payload(e dirEntry) ([]byte, bool) {
	n := e.dataSize()
	if n == 0 {
		d.warnf("tag 0x%x has type %d with no size", e.tag, e.typ)
		return nil, false
	}
	if n > d.opts.LimitTagSize {
		d.warnf("tag 0x%x exceeds size limit: %d bytes", e.tag, n)
		return nil, false
	}
	pos := e.valuePos
	if !e.inline() {
		pos = d.abs(d.order.Uint32(d.buf[e.valuePos:]))
	}
	if !d.in(pos, int64(n)) {
		d.warnf("tag 0x%x data out of range", e.tag)
		return nil, false
	}
	return d.buf[pos : pos+int64(n)], true
}

// addItem converts an entry's payload to a Go value by its wire type and
// sets it on the record. Scalar for count 1, slice otherwise. Types with no
// sensible attribute representation are skipped with a warning.
func (d *decoder) addItem(name string, e dirEntry) {
	p, ok := d.payload(e)
	if !ok {
		return
	}
	switch e.typ {
	case typeUnsignedShort:
		if e.count == 1 {
			d.rec.Set(name, d.order.Uint16(p))
			return
		}
		vals := make([]uint16, e.count)
		for i := range vals {
			vals[i] = d.order.Uint16(p[2*i:])
		}
		d.rec.Set(name, vals)
	case typeUnsignedLong:
		if e.count == 1 {
			d.rec.Set(name, d.order.Uint32(p))
			return
		}
		vals := make([]uint32, e.count)
		for i := range vals {
			vals[i] = d.order.Uint32(p[4*i:])
		}
		d.rec.Set(name, vals)
	case typeUnsignedRat:
		vals := make([]float32, e.count)
		for i := range vals {
			num := d.order.Uint32(p[8*i:])
			den := d.order.Uint32(p[8*i+4:])
			vals[i] = ratToFloat(float64(num), float64(den))
		}
		d.setFloats(name, vals)
	case typeSignedRat:
		vals := make([]float32, e.count)
		for i := range vals {
			num := int32(d.order.Uint32(p[8*i:]))
			den := int32(d.order.Uint32(p[8*i+4:]))
			vals[i] = ratToFloat(float64(num), float64(den))
		}
		d.setFloats(name, vals)
	case typeASCII:
		d.rec.Set(name, trimString(p))
	case typeUnsignedByte:
		if e.count == 1 {
			d.rec.Set(name, int(p[0]))
			return
		}
		fallthrough
	default:
		d.warnf("skipping tag 0x%x with unhandled type %d count %d", e.tag, e.typ, e.count)
	}
}

func (d *decoder) setFloats(name string, vals []float32) {
	if len(vals) == 1 {
		d.rec.Set(name, vals[0])
		return
	}
	d.rec.Set(name, vals)
}

func ratToFloat(num, den float64) float32 {
	if den == 0 {
		if num < 0 {
			return float32(math.Inf(-1))
		}
		return float32(math.Inf(1))
	}
	return float32(num / den)
}

// versionHandler decodes the 4-byte version tags (e.g. ExifVersion) that
// carry ASCII digits typed as UNDEFINED.
func versionHandler(ti *tagInfo, e dirEntry, d *decoder) {
	p, ok := d.payload(e)
	if !ok {
		return
	}
	d.rec.Set(ti.name, trimString(p))
}

var (
	userCommentASCII   = []byte("ASCII\x00\x00\x00")
	userCommentUnicode = []byte("UNICODE\x00")
)

// userCommentHandler decodes the UserComment tag, whose first 8 payload
// bytes name the character set of the rest.
func userCommentHandler(ti *tagInfo, e dirEntry, d *decoder) {
	p, ok := d.payload(e)
	if !ok || len(p) < 8 {
		return
	}
	charset, body := p[:8], p[8:]
	switch {
	case bytes.Equal(charset, userCommentASCII):
		d.rec.Set(ti.name, trimString(body))
	case bytes.Equal(charset, userCommentUnicode):
		endian := unicode.BigEndian
		if d.order == binary.ByteOrder(binary.LittleEndian) {
			endian = unicode.LittleEndian
		}
		s, err := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder().String(string(body))
		if err != nil {
			d.warnf("invalid UTF-16 user comment: %v", err)
			return
		}
		d.rec.Set(ti.name, strings.Trim(s, "\x00"))
	default:
		d.warnf("user comment with unhandled character set %q", charset)
	}
}
