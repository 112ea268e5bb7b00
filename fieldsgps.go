package exifcodec

// gpsTagTable lists the tags of the GPS sub-directory. GPS tag ids are
// sequential from zero, so len(gpsTagTable) also serves as a sanity bound on
// the directory's declared entry count.
var gpsTagTable = []tagInfo{
	{0, "GPS:VersionID", typeUnsignedByte, 4, nil},
	{1, "GPS:LatitudeRef", typeASCII, 2, nil},
	{2, "GPS:Latitude", typeUnsignedRat, 3, nil},
	{3, "GPS:LongitudeRef", typeASCII, 2, nil},
	{4, "GPS:Longitude", typeUnsignedRat, 3, nil},
	{5, "GPS:AltitudeRef", typeUnsignedByte, 1, nil},
	{6, "GPS:Altitude", typeUnsignedRat, 1, nil},
	{7, "GPS:TimeStamp", typeUnsignedRat, 3, nil},
	{8, "GPS:Satellites", typeASCII, 0, nil},
	{9, "GPS:Status", typeASCII, 2, nil},
	{10, "GPS:MeasureMode", typeASCII, 2, nil},
	{11, "GPS:DOP", typeUnsignedRat, 1, nil},
	{12, "GPS:SpeedRef", typeASCII, 2, nil},
	{13, "GPS:Speed", typeUnsignedRat, 1, nil},
	{14, "GPS:TrackRef", typeASCII, 2, nil},
	{15, "GPS:Track", typeUnsignedRat, 1, nil},
	{16, "GPS:ImgDirectionRef", typeASCII, 2, nil},
	{17, "GPS:ImgDirection", typeUnsignedRat, 1, nil},
	{18, "GPS:MapDatum", typeASCII, 0, nil},
	{19, "GPS:DestLatitudeRef", typeASCII, 2, nil},
	{20, "GPS:DestLatitude", typeUnsignedRat, 3, nil},
	{21, "GPS:DestLongitudeRef", typeASCII, 2, nil},
	{22, "GPS:DestLongitude", typeUnsignedRat, 3, nil},
	{23, "GPS:DestBearingRef", typeASCII, 2, nil},
	{24, "GPS:DestBearing", typeUnsignedRat, 1, nil},
	{25, "GPS:DestDistanceRef", typeASCII, 2, nil},
	{26, "GPS:DestDistance", typeUnsignedRat, 1, nil},
	{27, "GPS:ProcessingMethod", typeNone, 1, nil},
	{28, "GPS:AreaInformation", typeNone, 1, nil},
	{29, "GPS:DateStamp", typeASCII, 11, nil},
	{30, "GPS:Differential", typeUnsignedShort, 1, nil},
	{31, "GPS:HPositioningError", typeUnsignedRat, 1, nil},
}
