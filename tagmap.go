// Copyright 2025 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package exifcodec

import (
	"fmt"
	"strings"
	"sync"
)

// tagHandler decodes one directory entry into attributes, replacing the
// generic type conversion. Handlers come in a closed set of variants:
// indexed-array unpack, fixed version string, and charset-prefixed text.
type tagHandler func(ti *tagInfo, e dirEntry, d *decoder)

// tagInfo describes one tag in a registry: its numeric id, the attribute
// name we use, the TIFF type and count the tag conventionally carries
// (advisory; decode tolerates mismatches), and an optional handler.
type tagInfo struct {
	tag      uint16
	name     string
	tifftype exifType
	count    uint32
	handler  tagHandler
}

// tagMap is an immutable per-domain registry with two indices: by numeric
// id and by lower-cased name. Built once, then shared read-only.
type tagMap struct {
	domain string
	byTag  map[uint16]*tagInfo
	byName map[string]*tagInfo
}

func newTagMap(domain string, table []tagInfo) *tagMap {
	m := &tagMap{
		domain: domain,
		byTag:  make(map[uint16]*tagInfo, len(table)),
		byName: make(map[string]*tagInfo, len(table)),
	}
	for i := range table {
		ti := &table[i]
		if _, found := m.byTag[ti.tag]; found {
			panic(fmt.Sprintf("exifcodec: duplicate tag id 0x%x in %s tag table", ti.tag, domain))
		}
		m.byTag[ti.tag] = ti
		m.byName[strings.ToLower(ti.name)] = ti
	}
	return m
}

func (m *tagMap) findTag(tag uint16) *tagInfo {
	return m.byTag[tag]
}

// findName is case-insensitive.
func (m *tagMap) findName(name string) *tagInfo {
	return m.byName[strings.ToLower(name)]
}

func (m *tagMap) tiffType(tag uint16) exifType {
	if ti := m.byTag[tag]; ti != nil {
		return ti.tifftype
	}
	return typeNone
}

func (m *tagMap) tiffCount(tag uint16) uint32 {
	if ti := m.byTag[tag]; ti != nil {
		return ti.count
	}
	return 0
}

var (
	exifTagMap = sync.OnceValue(func() *tagMap {
		return newTagMap("Exif", exifTagTable)
	})
	gpsTagMap = sync.OnceValue(func() *tagMap {
		return newTagMap("GPS", gpsTagTable)
	})
)

// TagInfo describes one known metadata tag.
type TagInfo struct {
	// ID is the numeric tag id within its directory.
	ID uint16
	// Name is the attribute name used in Records, e.g. "Exif:FNumber".
	Name string
	// Type is the TIFF data type the tag conventionally carries.
	Type uint16
	// Count is the conventional number of values, or 0 for variable.
	Count uint32
}

// TagLookup finds the descriptor for an attribute name in the known
// registries (TIFF/Exif, GPS, Canon). Lookup is case-insensitive.
func TagLookup(name string) (TagInfo, bool) {
	for _, m := range []*tagMap{exifTagMap(), gpsTagMap(), canonTagMap()} {
		if ti := m.findName(name); ti != nil {
			return TagInfo{
				ID:    ti.tag,
				Name:  ti.name,
				Type:  uint16(ti.tifftype),
				Count: ti.count,
			}, true
		}
	}
	return TagInfo{}, false
}
