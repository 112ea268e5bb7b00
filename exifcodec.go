// Copyright 2025 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package exifcodec reads and writes the TIFF-structured metadata blocks
// (TIFF, Exif, GPS and vendor MakerNote directories) embedded in TIFF-family
// and JPEG files.
//
// Both directions operate on in-memory data only: Decode walks a byte slice
// and appends typed attributes to a caller-owned Record, Encode drains a
// Record and produces a byte slice laid out as a valid TIFF blob. The codec
// never retains a reference to either across calls, so independent
// decodes/encodes are safe to run concurrently.
package exifcodec

import (
	"encoding/binary"
)

// Record is the attribute list the codec reads from and writes to.
// The decoder appends to it, the encoder iterates it read-only.
// It is implemented by the surrounding image library; Attrs is a
// ready-to-use implementation.
type Record interface {
	// Set adds or replaces the attribute with the given name.
	Set(name string, value any)
	// Get returns the attribute value and whether it is present.
	Get(name string) (any, bool)
	// Erase removes the attribute if present.
	Erase(name string)
	// Each visits attributes in insertion order until fn returns false.
	Each(fn func(name string, value any) bool)
}

// Options configures Decode and Encode.
type Options struct {
	// OffsetAdjustment is added to every buffer-relative offset before it
	// is dereferenced. Set it to the byte position of the TIFF header when
	// the blob is embedded in a larger buffer (e.g. a whole JPEG file, see
	// ExifFromJPEG). Default 0.
	OffsetAdjustment int

	// Warnf is called for each recoverable anomaly (bad offset, implausible
	// count, unsupported type combination). If nil, warnings are dropped.
	Warnf func(string, ...any)

	// LimitTagSize is the maximum size in bytes of a single tag value.
	// Values larger than this are skipped.
	// Default value is 10000.
	LimitTagSize uint32
}

const defaultLimitTagSize = 10000

func (o *Options) init() {
	if o.Warnf == nil {
		o.Warnf = func(string, ...any) {}
	}
	if o.LimitTagSize == 0 {
		o.LimitTagSize = defaultLimitTagSize
	}
}

// Attrs is an ordered attribute list implementing Record.
// The zero value is ready to use. It is not safe for concurrent use.
type Attrs struct {
	keys   []string
	values map[string]any
}

var _ Record = (*Attrs)(nil)

// Set adds or replaces an attribute, preserving first-insertion order.
func (a *Attrs) Set(name string, value any) {
	if a.values == nil {
		a.values = make(map[string]any)
	}
	if _, found := a.values[name]; !found {
		a.keys = append(a.keys, name)
	}
	a.values[name] = value
}

// Get returns the attribute value and whether it is present.
func (a *Attrs) Get(name string) (any, bool) {
	v, found := a.values[name]
	return v, found
}

// Erase removes the attribute if present.
func (a *Attrs) Erase(name string) {
	if _, found := a.values[name]; !found {
		return
	}
	delete(a.values, name)
	for i, k := range a.keys {
		if k == name {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
}

// Each visits attributes in insertion order until fn returns false.
func (a *Attrs) Each(fn func(name string, value any) bool) {
	for _, k := range a.keys {
		if !fn(k, a.values[k]) {
			return
		}
	}
}

// Len returns the number of attributes.
func (a *Attrs) Len() int {
	return len(a.keys)
}

// Decode parses the TIFF-structured blob in buf and appends every
// recognized tag to rec. The only fatal condition is an unrecognized byte
// order marker, reported by returning false; all other anomalies cause the
// offending tag or sub-directory to be skipped while decoding continues.
func Decode(buf []byte, rec Record, opts Options) bool {
	opts.init()
	d := &decoder{
		buf:  buf,
		rec:  rec,
		opts: opts,
		seen: make(map[uint32]bool),
	}
	return d.decode()
}

// Encode serializes rec into a TIFF blob with the requested byte order.
// Attributes that cannot be represented by the tag tables are skipped; the
// result is always a structurally valid (if incomplete) TIFF blob.
func Encode(rec Record, order binary.ByteOrder, opts Options) []byte {
	opts.init()
	e := &encoder{
		order: order,
		warnf: opts.Warnf,
	}
	return e.encode(rec)
}
