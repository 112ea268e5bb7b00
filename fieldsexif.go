package exifcodec

// exifTagTable lists the TIFF and Exif tags we may come across, both in the
// root directory and in the Exif sub-directory. Declared type and count are
// advisory: decode tolerates mismatches, and typeNone marks tags that are
// recognized but never converted to an attribute.
var exifTagTable = []tagInfo{
	// Image structure tags normally handled by the surrounding codec.
	{0x100, "Exif:ImageWidth", typeNone, 1, nil},
	{0x101, "Exif:ImageLength", typeNone, 1, nil},
	{0x102, "Exif:BitsPerSample", typeNone, 1, nil},
	{0x103, "Exif:Compression", typeNone, 1, nil},
	{0x106, "Exif:Photometric", typeNone, 1, nil},
	{0x115, "Exif:SamplesPerPixel", typeNone, 1, nil},
	{0x11c, "Exif:PlanarConfig", typeNone, 1, nil},
	{0x212, "Exif:YCbCrSubsampling", typeUnsignedShort, 1, nil},
	{0x213, "Exif:YCbCrPositioning", typeUnsignedShort, 1, nil},

	// TIFF tags that double as plain attributes.
	{0x112, "Orientation", typeUnsignedShort, 1, nil},
	{0x11a, "XResolution", typeUnsignedRat, 1, nil},
	{0x11b, "YResolution", typeUnsignedRat, 1, nil},
	{0x128, "ResolutionUnit", typeUnsignedShort, 1, nil},
	{0x10e, "ImageDescription", typeASCII, 0, nil},
	{0x10f, "Make", typeASCII, 0, nil},
	{0x110, "Model", typeASCII, 0, nil},
	{0x131, "Software", typeASCII, 0, nil},
	{0x13b, "Artist", typeASCII, 0, nil},
	{0x8298, "Copyright", typeASCII, 0, nil},
	{0x132, "DateTime", typeASCII, 0, nil},

	// Sub-directory pointers, dispatched by the decoder itself.
	{exifPointer, "Exif:ExifIFD", typeNone, 1, nil},
	{interopPointer, "Exif:InteroperabilityIFD", typeNone, 1, nil},
	{gpsPointer, "Exif:GPSIFD", typeNone, 1, nil},
	{makerNotePointer, "Exif:MakerNote", typeNone, 1, nil},

	// Exif tags.
	{0x829a, "Exif:ExposureTime", typeUnsignedRat, 1, nil},
	{0x829d, "Exif:FNumber", typeUnsignedRat, 1, nil},
	{0x8822, "Exif:ExposureProgram", typeUnsignedShort, 1, nil},
	{0x8824, "Exif:SpectralSensitivity", typeASCII, 0, nil},
	{0x8827, "Exif:ISOSpeedRatings", typeUnsignedShort, 1, nil},
	{0x8828, "Exif:OECF", typeNone, 1, nil},
	{0x8830, "Exif:SensitivityType", typeUnsignedShort, 1, nil},
	{0x8831, "Exif:StandardOutputSensitivity", typeUnsignedLong, 1, nil},
	{0x8832, "Exif:RecommendedExposureIndex", typeUnsignedLong, 1, nil},
	{0x8833, "Exif:ISOSpeed", typeUnsignedLong, 1, nil},
	{0x8834, "Exif:ISOSpeedLatitudeyyy", typeUnsignedLong, 1, nil},
	{0x8835, "Exif:ISOSpeedLatitudezzz", typeUnsignedLong, 1, nil},
	{0x9000, "Exif:ExifVersion", typeUndef, 4, versionHandler},
	{0x9003, "Exif:DateTimeOriginal", typeASCII, 0, nil},
	{0x9004, "Exif:DateTimeDigitized", typeASCII, 0, nil},
	{0x9101, "Exif:ComponentsConfiguration", typeUndef, 1, nil},
	{0x9102, "Exif:CompressedBitsPerPixel", typeUnsignedRat, 1, nil},
	{0x9201, "Exif:ShutterSpeedValue", typeSignedRat, 1, nil}, // APEX units
	{0x9202, "Exif:ApertureValue", typeUnsignedRat, 1, nil},  // APEX units
	{0x9203, "Exif:BrightnessValue", typeSignedRat, 1, nil},
	{0x9204, "Exif:ExposureBiasValue", typeSignedRat, 1, nil},
	{0x9205, "Exif:MaxApertureValue", typeUnsignedRat, 1, nil},
	{0x9206, "Exif:SubjectDistance", typeUnsignedRat, 1, nil},
	{0x9207, "Exif:MeteringMode", typeUnsignedShort, 1, nil},
	{0x9208, "Exif:LightSource", typeUnsignedShort, 1, nil},
	{0x9209, "Exif:Flash", typeUnsignedShort, 1, nil},
	{0x920a, "Exif:FocalLength", typeUnsignedRat, 1, nil}, // mm
	{0x9212, "Exif:SecurityClassification", typeASCII, 0, nil},
	{0x9213, "Exif:ImageHistory", typeASCII, 0, nil},
	{0x9214, "Exif:SubjectArea", typeNone, 1, nil},
	{0x9286, "Exif:UserComment", typeUndef, 0, userCommentHandler},
	{0x9290, "Exif:SubsecTime", typeASCII, 0, nil},
	{0x9291, "Exif:SubsecTimeOriginal", typeASCII, 0, nil},
	{0x9292, "Exif:SubsecTimeDigitized", typeASCII, 0, nil},
	{0xa000, "Exif:FlashPixVersion", typeNone, 1, nil},
	{0xa001, "Exif:ColorSpace", typeUnsignedShort, 1, nil},
	{0xa002, "Exif:PixelXDimension", typeUnsignedLong, 1, nil},
	{0xa003, "Exif:PixelYDimension", typeUnsignedLong, 1, nil},
	{0xa004, "Exif:RelatedSoundFile", typeASCII, 0, nil},
	{0xa20b, "Exif:FlashEnergy", typeUnsignedRat, 1, nil},
	{0xa20c, "Exif:SpatialFrequencyResponse", typeNone, 1, nil},
	{0xa20e, "Exif:FocalPlaneXResolution", typeUnsignedRat, 1, nil},
	{0xa20f, "Exif:FocalPlaneYResolution", typeUnsignedRat, 1, nil},
	{0xa210, "Exif:FocalPlaneResolutionUnit", typeUnsignedShort, 1, nil},
	{0xa214, "Exif:SubjectLocation", typeUnsignedShort, 1, nil},
	{0xa215, "Exif:ExposureIndex", typeUnsignedRat, 1, nil},
	{0xa217, "Exif:SensingMethod", typeUnsignedShort, 1, nil},
	{0xa300, "Exif:FileSource", typeUnsignedShort, 1, nil},
	{0xa301, "Exif:SceneType", typeUnsignedShort, 1, nil},
	{0xa302, "Exif:CFAPattern", typeNone, 1, nil},
	{0xa401, "Exif:CustomRendered", typeUnsignedShort, 1, nil},
	{0xa402, "Exif:ExposureMode", typeUnsignedShort, 1, nil},
	{0xa403, "Exif:WhiteBalance", typeUnsignedShort, 1, nil},
	{0xa404, "Exif:DigitalZoomRatio", typeUnsignedRat, 1, nil},
	{0xa405, "Exif:FocalLengthIn35mmFilm", typeUnsignedShort, 1, nil},
	{0xa406, "Exif:SceneCaptureType", typeUnsignedShort, 1, nil},
	{0xa407, "Exif:GainControl", typeUnsignedRat, 1, nil},
	{0xa408, "Exif:Contrast", typeUnsignedShort, 1, nil},
	{0xa409, "Exif:Saturation", typeUnsignedShort, 1, nil},
	{0xa40a, "Exif:Sharpness", typeUnsignedShort, 1, nil},
	{0xa40b, "Exif:DeviceSettingDescription", typeNone, 1, nil},
	{0xa40c, "Exif:SubjectDistanceRange", typeUnsignedShort, 1, nil},
	{0xa420, "Exif:ImageUniqueID", typeASCII, 0, nil},
	{0xa430, "Exif:CameraOwnerName", typeASCII, 0, nil},
	{0xa431, "Exif:BodySerialNumber", typeASCII, 0, nil},
	{0xa432, "Exif:LensSpecification", typeUnsignedRat, 4, nil},
	{0xa433, "Exif:LensMake", typeASCII, 0, nil},
	{0xa434, "Exif:LensModel", typeASCII, 0, nil},
	{0xa435, "Exif:LensSerialNumber", typeASCII, 0, nil},
	{0xa500, "Exif:Gamma", typeUnsignedRat, 1, nil},
}

// Tags in [exifSectionLow, exifSectionHigh] encode into the Exif
// sub-directory, everything else into the root directory.
const (
	exifSectionLow  = 0x829a // Exif:ExposureTime
	exifSectionHigh = 0xa420 // Exif:ImageUniqueID
)
