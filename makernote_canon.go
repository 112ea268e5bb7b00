// Copyright 2025 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Canon MakerNote support. The MakerNote payload of Canon cameras is a
// plain headerless TIFF directory sharing the byte order and offset space
// of the enclosing blob, so it decodes with the ordinary directory walker
// and its own tag registry. Several Canon tags pack many values into one
// SHORT array indexed by position; those are unpacked into individual
// attributes via index tables.
//
// See https://exiftool.org/TagNames/Canon.html for the format.

package exifcodec

import (
	"strings"
	"sync"
)

// labelIndex maps a position in a packed vendor array to an attribute name.
type labelIndex struct {
	index int
	name  string
}

var canonCameraSettingsIndices = []labelIndex{
	{1, "Canon:MacroMode"},
	{2, "Canon:SelfTimer"},
	{3, "Canon:Quality"},
	{4, "Canon:FlashMode"},
	{5, "Canon:ContinuousDrive"},
	{7, "Canon:FocusMode"},
	{9, "Canon:RecordMode"},
	{10, "Canon:ImageSize"},
	{11, "Canon:EasyMode"},
	{12, "Canon:DigitalZoom"},
	{13, "Canon:Contrast"},
	{14, "Canon:Saturation"},
	{15, "Canon:Sharpness"},
	{16, "Canon:CameraISO"},
	{17, "Canon:MeteringMode"},
	{18, "Canon:FocusRange"},
	{19, "Canon:AFPoint"},
	{20, "Canon:ExposureMode"},
	{22, "Canon:LensType"},
	{23, "Canon:MaxFocalLength"},
	{24, "Canon:MinFocalLength"},
	{25, "Canon:FocalUnits"},
	{26, "Canon:MaxAperture"},
	{27, "Canon:MinAperture"},
	{28, "Canon:FlashActivity"},
	{29, "Canon:FlashBits"},
	{32, "Canon:FocusContinuous"},
	{33, "Canon:AESetting"},
	{34, "Canon:ImageStabilization"},
	{35, "Canon:DisplayAperture"},
	{36, "Canon:ZoomSourceWidth"},
	{37, "Canon:ZoomTargetWidth"},
	{39, "Canon:SpotMeteringMode"},
	{40, "Canon:PhotoEffect"},
	{41, "Canon:ManualFlashOutput"},
	{42, "Canon:ColorTone"},
	{46, "Canon:SRAWQuality"},
}

var canonFocalLengthIndices = []labelIndex{
	{0, "Canon:FocalType"},
	{1, "Canon:FocalLength"},
	{2, "Canon:FocalPlaneXSize"},
	{3, "Canon:FocalPlaneYSize"},
}

var canonShotInfoIndices = []labelIndex{
	{1, "Canon:AutoISO"},
	{2, "Canon:BaseISO"},
	{3, "Canon:MeasuredEV"},
	{4, "Canon:TargetAperture"},
	{5, "Canon:TargetExposureTime"},
	{6, "Canon:ExposureCompensation"},
	{7, "Canon:WhiteBalance"},
	{8, "Canon:SlowShutter"},
	{9, "Canon:SequenceNumber"},
	{10, "Canon:OpticalZoomCode"},
	{12, "Canon:CameraTemperature"},
	{13, "Canon:FlashGuideNumber"},
	{14, "Canon:AFPointsInFocus"},
	{15, "Canon:ExposureComp"},
	{16, "Canon:FlashExposureComp"},
	{17, "Canon:AutoExposureBracketing"},
	{18, "Canon:AEBBracketValue"},
	{19, "Canon:ControlMode"},
	{20, "Canon:FocusDistanceUpper"},
	{21, "Canon:FocusDistanceLower"},
	{22, "Canon:FNumber"},
	{23, "Canon:ExposureTime"},
	{24, "Canon:MeasuredEV2"},
	{25, "Canon:BulbDuration"},
	{26, "Canon:CameraType"},
	{27, "Canon:AutoRotate"},
	{28, "Canon:NDFilter"},
	{29, "Canon:SelfTimer2"},
	{33, "Canon:FlashOutput"},
}

var canonPanoramaIndices = []labelIndex{
	{2, "Canon:PanoramaFrameNumber"},
	{5, "Canon:PanoramaDirection"},
}

var canonSensorInfoIndices = []labelIndex{
	{1, "Canon:SensorWidth"},
	{2, "Canon:SensorHeight"},
	{5, "Canon:SensorLeftBorder"},
	{6, "Canon:SensorTopBorder"},
	{7, "Canon:SensorRightBorder"},
	{8, "Canon:SensorBottomBorder"},
	{9, "Canon:BlackMaskLeftBorder"},
	{10, "Canon:BlackMaskTopBorder"},
	{11, "Canon:BlackMaskRightBorder"},
	{12, "Canon:BlackMaskBottomBorder"},
}

// canonNoNA disables the n/a sentinel in unpackIndexed.
const canonNoNA = int(^uint(0) >> 1)

func indexedHandler(indices []labelIndex, signed bool, na int) tagHandler {
	return func(ti *tagInfo, e dirEntry, d *decoder) {
		d.unpackIndexed(ti, e, indices, signed, na)
	}
}

// unpackIndexed spreads a packed 16-bit array over individual attributes.
// Signed/unsigned type mismatches are common in the wild and tolerated.
// Values equal to na are absent, not zero, and are not set.
func (d *decoder) unpackIndexed(ti *tagInfo, e dirEntry, indices []labelIndex, signed bool, na int) {
	if e.typ != typeUnsignedShort && e.typ != typeSignedShort {
		d.warnf("%s with unexpected type %d, ignoring", ti.name, e.typ)
		return
	}
	p, ok := d.payload(e)
	if !ok {
		return
	}
	n := len(p) / 2
	for _, li := range indices {
		if li.index >= n {
			continue
		}
		u := d.order.Uint16(p[2*li.index:])
		v := int(u)
		if signed {
			v = int(int16(u))
		}
		if v == na {
			continue
		}
		d.rec.Set(li.name, v)
	}
}

var canonTagTable = []tagInfo{
	{0x1, "Canon:CameraSettings", typeUnsignedShort, 0, indexedHandler(canonCameraSettingsIndices, true, -1)},
	{0x2, "Canon:FocalLength", typeUnsignedShort, 0, indexedHandler(canonFocalLengthIndices, false, canonNoNA)},
	{0x4, "Canon:ShotInfo", typeUnsignedShort, 0, indexedHandler(canonShotInfoIndices, true, canonNoNA)},
	{0x5, "Canon:Panorama", typeUnsignedShort, 0, indexedHandler(canonPanoramaIndices, true, canonNoNA)},
	{0x6, "Canon:ImageType", typeASCII, 0, nil},
	{0x7, "Canon:FirmwareVersion", typeASCII, 0, nil},
	{0x8, "Canon:FileNumber", typeUnsignedLong, 1, nil},
	{0x9, "Canon:OwnerName", typeASCII, 0, nil},
	{0xc, "Canon:SerialNumber", typeUnsignedLong, 1, nil},
	{0x10, "Canon:ModelID", typeUnsignedLong, 1, nil},
	{0x13, "Canon:ThumbnailImageValidArea", typeUnsignedLong, 4, nil},
	{0x15, "Canon:SerialNumberFormat", typeUnsignedLong, 1, nil},
	{0x1a, "Canon:SuperMacro", typeUnsignedShort, 1, nil},
	{0x1c, "Canon:DateStampMode", typeUnsignedShort, 1, nil},
	{0x1e, "Canon:FirmwareRevision", typeUnsignedLong, 1, nil},
	{0x23, "Canon:Categories", typeUnsignedLong, 2, nil},
	{0x28, "Canon:ImageUniqueID", typeUnsignedByte, 1, nil},
	{0x95, "Canon:LensModel", typeASCII, 0, nil},
	{0x98, "Canon:CropInfo", typeUnsignedShort, 4, nil},
	{0xae, "Canon:ColorTemperature", typeUnsignedShort, 1, nil},
	{0xe0, "Canon:SensorInfo", typeUnsignedShort, 17, indexedHandler(canonSensorInfoIndices, false, canonNoNA)},
	{0x4010, "Canon:CustomPictureStyleFileName", typeASCII, 0, nil},
}

var canonTagMap = sync.OnceValue(func() *tagMap {
	return newTagMap("Canon", canonTagTable)
})

// canonIndexed drives the encode side of the packed array tags.
type canonIndexed struct {
	tag     uint16
	typ     exifType
	indices []labelIndex
}

var canonIndexedTags = []canonIndexed{
	{0x1, typeSignedShort, canonCameraSettingsIndices},
	{0x2, typeUnsignedShort, canonFocalLengthIndices},
	{0x4, typeSignedShort, canonShotInfoIndices},
	{0x5, typeSignedShort, canonPanoramaIndices},
	{0xe0, typeUnsignedShort, canonSensorInfoIndices},
}

// encodeCanonMakerNote gathers all Canon-prefixed attributes into the
// MakerNote section: scalar tags straight from the registry, packed array
// tags reassembled from their per-index attributes.
func (e *encoder) encodeCanonMakerNote(s *encSection, rec Record) {
	rec.Each(func(name string, value any) bool {
		if !strings.HasPrefix(name, "Canon:") {
			return true
		}
		ti := canonTagMap().findName(name)
		if ti == nil || ti.handler != nil {
			return true
		}
		e.addAttr(s, ti, value)
		return true
	})
	for _, it := range canonIndexedTags {
		e.packIndexed(s, it, rec)
	}
}

// packIndexed builds the packed array for one tag. The array length is
// fixed by the highest known index; positions with no attribute stay zero.
// Nothing is emitted when no relevant attribute is present.
func (e *encoder) packIndexed(s *encSection, it canonIndexed, rec Record) {
	vals := make([]uint16, it.indices[len(it.indices)-1].index+1)
	found := false
	for _, li := range it.indices {
		v, ok := rec.Get(li.name)
		if !ok {
			continue
		}
		n, ok := toInt(v)
		if !ok {
			e.warnf("cannot pack %s value %T, skipping", li.name, v)
			continue
		}
		vals[li.index] = uint16(n)
		found = true
	}
	if !found {
		return
	}
	raw := make([]byte, 2*len(vals))
	for i, u := range vals {
		e.order.PutUint16(raw[2*i:], u)
	}
	s.set(e.rawEntry(it.tag, it.typ, raw))
}
