package exifcodec_test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/bep/exifcodec"
	"github.com/rwcarlsen/goexif/tiff"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(fmt.Sprintf("%v", order), func(t *testing.T) {
			c := qt.New(t)

			rec := newAttrs(
				"Make", "Canon",
				"Model", "EOS R5",
				"Orientation", uint16(1),
				"Software", "darktable 4.6",
				"Exif:ExposureTime", float32(0.005),
				"Exif:FNumber", float32(4),
				"Exif:ISOSpeedRatings", uint16(200),
				"Exif:FocalLength", float32(50),
				"Exif:ExposureBiasValue", float32(-1.5),
				"Exif:PixelXDimension", uint32(8192),
				"Exif:DateTimeOriginal", "2024:05:01 10:11:12",
				"Exif:LensSpecification", []float32{24, 105, 4, 4},
				"GPS:Latitude", []float32{40, 26, 46},
				"GPS:LatitudeRef", "N",
				"GPS:Altitude", float32(633.5),
			)

			blob := exifcodec.Encode(rec, order, exifcodec.Options{})

			var got exifcodec.Attrs
			ok := exifcodec.Decode(blob, &got, exifcodec.Options{})
			c.Assert(ok, qt.IsTrue)

			m := collect(&got)
			c.Assert(m["Make"], qt.Equals, "Canon")
			c.Assert(m["Model"], qt.Equals, "EOS R5")
			c.Assert(m["Orientation"], qt.Equals, uint16(1))
			c.Assert(m["Software"], qt.Equals, "darktable 4.6")
			c.Assert(m["Exif:ExposureTime"], eq, float32(0.005))
			c.Assert(m["Exif:FNumber"], qt.Equals, float32(4))
			c.Assert(m["Exif:ISOSpeedRatings"], qt.Equals, uint16(200))
			c.Assert(m["Exif:FocalLength"], qt.Equals, float32(50))
			c.Assert(m["Exif:ExposureBiasValue"], eq, float32(-1.5))
			c.Assert(m["Exif:PixelXDimension"], qt.Equals, uint32(8192))
			c.Assert(m["Exif:DateTimeOriginal"], qt.Equals, "2024:05:01 10:11:12")
			c.Assert(m["Exif:LensSpecification"], eq, []float32{24, 105, 4, 4})
			c.Assert(m["GPS:Latitude"], eq, []float32{40, 26, 46})
			c.Assert(m["GPS:LatitudeRef"], qt.Equals, "N")
			c.Assert(m["GPS:Altitude"], eq, float32(633.5))
			c.Assert(m["Exif:ExifVersion"], qt.Equals, "0230")
		})
	}
}

// Decoding what Encode produced and encoding it again must not change
// the attribute set.
func TestEncodeDecodeIdempotent(t *testing.T) {
	c := qt.New(t)

	rec := newAttrs(
		"Make", "Canon",
		"Model", "EOS R5",
		"Exif:FNumber", float32(4),
		"GPS:Latitude", []float32{40, 26, 46},
	)

	blob1 := exifcodec.Encode(rec, binary.LittleEndian, exifcodec.Options{})
	var rec2 exifcodec.Attrs
	c.Assert(exifcodec.Decode(blob1, &rec2, exifcodec.Options{}), qt.IsTrue)

	// Decoding the same buffer again yields the same attribute set.
	var again exifcodec.Attrs
	c.Assert(exifcodec.Decode(blob1, &again, exifcodec.Options{}), qt.IsTrue)
	c.Assert(collect(&again), eq, collect(&rec2))

	blob2 := exifcodec.Encode(&rec2, binary.LittleEndian, exifcodec.Options{})
	var rec3 exifcodec.Attrs
	c.Assert(exifcodec.Decode(blob2, &rec3, exifcodec.Options{}), qt.IsTrue)

	c.Assert(collect(&rec3), eq, collect(&rec2))
}

func TestInjectedTags(t *testing.T) {
	c := qt.New(t)

	rec := newAttrs(
		"Make", "Canon",
		"Model", "EOS R5",
		"Exif:FNumber", float32(4),
		"GPS:Latitude", []float32{40, 26, 46},
	)

	blob := exifcodec.Encode(rec, binary.LittleEndian, exifcodec.Options{})
	var got exifcodec.Attrs
	c.Assert(exifcodec.Decode(blob, &got, exifcodec.Options{}), qt.IsTrue)

	m := collect(&got)
	c.Assert(m, eq, map[string]any{
		"Make":             "Canon",
		"Model":            "EOS R5",
		"Exif:FNumber":     float32(4),
		"Exif:ExifVersion": "0230",
		"GPS:Latitude":     []float32{40, 26, 46},
	})
}

func TestEncodeEndiannessEquivalence(t *testing.T) {
	c := qt.New(t)

	rec := newAttrs(
		"Make", "Canon",
		"Orientation", uint16(6),
		"Exif:FNumber", float32(2.8),
		"Exif:ShutterSpeedValue", float32(7.643856),
		"GPS:Longitude", []float32{3, 42, 21.5},
	)

	var le, be exifcodec.Attrs
	c.Assert(exifcodec.Decode(exifcodec.Encode(rec, binary.LittleEndian, exifcodec.Options{}), &le, exifcodec.Options{}), qt.IsTrue)
	c.Assert(exifcodec.Decode(exifcodec.Encode(rec, binary.BigEndian, exifcodec.Options{}), &be, exifcodec.Options{}), qt.IsTrue)

	c.Assert(collect(&le), eq, collect(&be))
}

func TestEncodeEmptyRecord(t *testing.T) {
	c := qt.New(t)

	blob := exifcodec.Encode(&exifcodec.Attrs{}, binary.BigEndian, exifcodec.Options{})
	// Header plus an empty root directory.
	c.Assert(len(blob), qt.Equals, 8+2+4)

	var got exifcodec.Attrs
	c.Assert(exifcodec.Decode(blob, &got, exifcodec.Options{}), qt.IsTrue)
	c.Assert(got.Len(), qt.Equals, 0)
}

func TestDecodeBadHeader(t *testing.T) {
	c := qt.New(t)

	var rec exifcodec.Attrs
	c.Assert(exifcodec.Decode(nil, &rec, exifcodec.Options{}), qt.IsFalse)
	c.Assert(exifcodec.Decode([]byte("XXXXXXXX"), &rec, exifcodec.Options{}), qt.IsFalse)
	c.Assert(exifcodec.Decode([]byte{'I', 'I', 42, 0}, &rec, exifcodec.Options{}), qt.IsFalse)
}

// A directory pointer that targets the root directory must not loop.
func TestDecodeSelfReferencingDirectory(t *testing.T) {
	c := qt.New(t)

	buf := []byte{
		'I', 'I', 42, 0, 8, 0, 0, 0, // header, first directory at 8
		1, 0, // one entry
		0x69, 0x87, 4, 0, 1, 0, 0, 0, 8, 0, 0, 0, // Exif pointer back to 8
		0, 0, 0, 0,
	}

	var warnings []string
	opts := exifcodec.Options{Warnf: func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}}

	var rec exifcodec.Attrs
	c.Assert(exifcodec.Decode(buf, &rec, opts), qt.IsTrue)
	c.Assert(rec.Len(), qt.Equals, 0)
	c.Assert(strings.Join(warnings, "\n"), qt.Contains, "already visited")
}

func TestDecodeGPSDirectoryImplausibleCount(t *testing.T) {
	c := qt.New(t)

	buf := []byte{
		'I', 'I', 42, 0, 8, 0, 0, 0,
		1, 0,
		0x25, 0x88, 4, 0, 1, 0, 0, 0, 26, 0, 0, 0, // GPS pointer to 26
		0, 0, 0, 0,
		40, 0, // GPS directory claiming 40 entries
	}

	var warnings []string
	opts := exifcodec.Options{Warnf: func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}}

	var rec exifcodec.Attrs
	c.Assert(exifcodec.Decode(buf, &rec, opts), qt.IsTrue)
	c.Assert(rec.Len(), qt.Equals, 0)
	c.Assert(strings.Join(warnings, "\n"), qt.Contains, "implausible")
}

func TestDecodeTruncatedDirectory(t *testing.T) {
	c := qt.New(t)

	// Valid header, directory offset beyond the buffer.
	buf := []byte{'M', 'M', 0, 42, 0, 0, 1, 0}

	var rec exifcodec.Attrs
	c.Assert(exifcodec.Decode(buf, &rec, exifcodec.Options{}), qt.IsTrue)
	c.Assert(rec.Len(), qt.Equals, 0)
}

// An entry whose payload offset points past the end of the buffer is
// skipped; inline siblings in the same directory still decode.
func TestDecodeEntryPayloadOutOfBounds(t *testing.T) {
	c := qt.New(t)

	buf := []byte{
		'I', 'I', 42, 0, 8, 0, 0, 0, // header, first directory at 8
		2, 0, // two entries
		0x12, 0x01, 3, 0, 1, 0, 0, 0, 6, 0, 0, 0, // Orientation, SHORT, inline
		0x1a, 0x01, 5, 0, 1, 0, 0, 0, 0x10, 0x27, 0, 0, // XResolution, RATIONAL at 10000
		0, 0, 0, 0,
	}

	var warnings []string
	opts := exifcodec.Options{Warnf: func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}}

	var rec exifcodec.Attrs
	c.Assert(exifcodec.Decode(buf, &rec, opts), qt.IsTrue)

	m := collect(&rec)
	c.Assert(m, eq, map[string]any{"Orientation": uint16(6)})
	c.Assert(len(warnings) > 0, qt.IsTrue)
}

func TestDecodeOffsetAdjustment(t *testing.T) {
	c := qt.New(t)

	rec := newAttrs(
		"Make", "Canon",
		"Exif:FNumber", float32(4),
		"GPS:Latitude", []float32{40, 26, 46},
	)
	blob := exifcodec.Encode(rec, binary.LittleEndian, exifcodec.Options{})

	const pad = 128
	buf := append(make([]byte, pad), blob...)

	var direct, adjusted exifcodec.Attrs
	c.Assert(exifcodec.Decode(blob, &direct, exifcodec.Options{}), qt.IsTrue)
	c.Assert(exifcodec.Decode(buf, &adjusted, exifcodec.Options{OffsetAdjustment: pad}), qt.IsTrue)

	c.Assert(collect(&adjusted), eq, collect(&direct))
}

func TestDecodeTagSizeLimit(t *testing.T) {
	c := qt.New(t)

	rec := newAttrs("Make", "Canon", "Software", strings.Repeat("x", 64))
	blob := exifcodec.Encode(rec, binary.LittleEndian, exifcodec.Options{})

	var got exifcodec.Attrs
	c.Assert(exifcodec.Decode(blob, &got, exifcodec.Options{LimitTagSize: 32}), qt.IsTrue)

	m := collect(&got)
	c.Assert(m["Make"], qt.Equals, "Canon")
	_, found := m["Software"]
	c.Assert(found, qt.IsFalse)
}

func TestUserComment(t *testing.T) {
	c := qt.New(t)

	rec := newAttrs(
		"Make", "Canon",
		"Exif:UserComment", "shot on a tripod",
	)
	blob := exifcodec.Encode(rec, binary.LittleEndian, exifcodec.Options{})

	var got exifcodec.Attrs
	c.Assert(exifcodec.Decode(blob, &got, exifcodec.Options{}), qt.IsTrue)
	v, _ := got.Get("Exif:UserComment")
	c.Assert(v, qt.Equals, "shot on a tripod")
}

func TestWorkingColorSpace(t *testing.T) {
	c := qt.New(t)

	for _, test := range []struct {
		colorSpace uint16
		expect     any
	}{
		{1, "sRGB"},
		{0xffff, nil},
	} {
		rec := newAttrs("Make", "Canon", "Exif:ColorSpace", test.colorSpace)
		blob := exifcodec.Encode(rec, binary.LittleEndian, exifcodec.Options{})

		var got exifcodec.Attrs
		c.Assert(exifcodec.Decode(blob, &got, exifcodec.Options{}), qt.IsTrue)
		v, _ := got.Get("WorkingColorSpace")
		c.Assert(v, qt.Equals, test.expect)
	}
}

// The encoded blob must also parse with an independent TIFF reader.
func TestEncodeCrossCheck(t *testing.T) {
	c := qt.New(t)

	rec := newAttrs(
		"Make", "Canon",
		"Model", "EOS R5",
		"Orientation", uint16(1),
		"Exif:FNumber", float32(4),
		"GPS:Latitude", []float32{40, 26, 46},
	)
	blob := exifcodec.Encode(rec, binary.BigEndian, exifcodec.Options{})

	tf, err := tiff.Decode(bytes.NewReader(blob))
	c.Assert(err, qt.IsNil)
	c.Assert(len(tf.Dirs), qt.Equals, 1)

	var cameraMake string
	for _, tag := range tf.Dirs[0].Tags {
		if tag.Id == 0x10f {
			cameraMake, err = tag.StringVal()
			c.Assert(err, qt.IsNil)
		}
	}
	c.Assert(cameraMake, qt.Equals, "Canon")
}

func TestAttrs(t *testing.T) {
	c := qt.New(t)

	var a exifcodec.Attrs
	a.Set("b", 1)
	a.Set("a", 2)
	a.Set("b", 3)
	c.Assert(a.Len(), qt.Equals, 2)

	var names []string
	a.Each(func(name string, value any) bool {
		names = append(names, name)
		return true
	})
	c.Assert(names, eq, []string{"b", "a"})

	v, found := a.Get("b")
	c.Assert(found, qt.IsTrue)
	c.Assert(v, qt.Equals, 3)

	a.Erase("b")
	c.Assert(a.Len(), qt.Equals, 1)
	_, found = a.Get("b")
	c.Assert(found, qt.IsFalse)
}

func TestTagLookup(t *testing.T) {
	c := qt.New(t)

	ti, found := exifcodec.TagLookup("Exif:FNumber")
	c.Assert(found, qt.IsTrue)
	c.Assert(ti.ID, qt.Equals, uint16(0x829d))

	ti, found = exifcodec.TagLookup("exif:fnumber")
	c.Assert(found, qt.IsTrue)
	c.Assert(ti.Name, qt.Equals, "Exif:FNumber")

	ti, found = exifcodec.TagLookup("gps:latitude")
	c.Assert(found, qt.IsTrue)
	c.Assert(ti.ID, qt.Equals, uint16(2))
	c.Assert(ti.Count, qt.Equals, uint32(3))

	_, found = exifcodec.TagLookup("NoSuchTag")
	c.Assert(found, qt.IsFalse)
}

func TestExifFromJPEG(t *testing.T) {
	c := qt.New(t)

	rec := newAttrs("Make", "Canon", "Exif:FNumber", float32(4))
	blob := exifcodec.Encode(rec, binary.LittleEndian, exifcodec.Options{})

	jpg := buildJPEG(blob)

	got, offset, ok := exifcodec.ExifFromJPEG(jpg)
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.DeepEquals, blob)

	// Decoding in place with the offset must match decoding the slice.
	var inPlace, sliced exifcodec.Attrs
	c.Assert(exifcodec.Decode(jpg, &inPlace, exifcodec.Options{OffsetAdjustment: offset}), qt.IsTrue)
	c.Assert(exifcodec.Decode(got, &sliced, exifcodec.Options{}), qt.IsTrue)
	c.Assert(collect(&inPlace), eq, collect(&sliced))
}

func TestExifFromJPEGNotJPEG(t *testing.T) {
	c := qt.New(t)

	_, _, ok := exifcodec.ExifFromJPEG([]byte("not a jpeg"))
	c.Assert(ok, qt.IsFalse)

	// A JPEG with no APP1 segment.
	_, _, ok = exifcodec.ExifFromJPEG([]byte{0xff, 0xd8, 0xff, 0xda, 0x00, 0x02})
	c.Assert(ok, qt.IsFalse)
}

func buildJPEG(blob []byte) []byte {
	var b bytes.Buffer
	b.Write([]byte{0xff, 0xd8})
	b.Write([]byte{0xff, 0xe1})
	length := 2 + 6 + len(blob)
	b.Write([]byte{byte(length >> 8), byte(length)})
	b.WriteString("Exif\x00\x00")
	b.Write(blob)
	b.Write([]byte{0xff, 0xda, 0x00, 0x02})
	b.Write([]byte{0xff, 0xd9})
	return b.Bytes()
}

func newAttrs(pairs ...any) *exifcodec.Attrs {
	var a exifcodec.Attrs
	for i := 0; i < len(pairs); i += 2 {
		a.Set(pairs[i].(string), pairs[i+1])
	}
	return &a
}

func collect(a *exifcodec.Attrs) map[string]any {
	m := make(map[string]any)
	a.Each(func(name string, value any) bool {
		m[name] = value
		return true
	})
	return m
}

var eq = qt.CmpEquals(
	cmp.Comparer(func(x, y float32) bool {
		return cmpFloats(float64(x), float64(y))
	}),
)

func cmpFloats(x, y float64) bool {
	if x == y {
		return true
	}
	delta := math.Abs(x - y)
	mean := math.Abs(x+y) / 2.0
	return delta/mean < 0.0001
}
