package exifcodec

import (
	"math"
)

// trimString interprets p as a NUL-terminated byte string: the result ends
// at the first NUL, or covers all of p if there is none.
func trimString(p []byte) string {
	for i, c := range p {
		if c == 0 {
			return string(p[:i])
		}
	}
	return string(p)
}

func toInt(v any) (int, bool) {
	switch v := v.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	}
	return 0, false
}

func toUint32(v any) (uint32, bool) {
	n, ok := toInt(v)
	if !ok || n < 0 || int64(n) > math.MaxUint32 {
		return 0, false
	}
	return uint32(n), true
}

func toInts(v any) ([]int, bool) {
	switch v := v.(type) {
	case []int:
		return v, true
	case []int16:
		out := make([]int, len(v))
		for i, n := range v {
			out[i] = int(n)
		}
		return out, true
	}
	if n, ok := toInt(v); ok {
		return []int{n}, true
	}
	return nil, false
}

func toUint32s(v any) ([]uint32, bool) {
	switch v := v.(type) {
	case []uint32:
		return v, true
	case []uint16:
		out := make([]uint32, len(v))
		for i, n := range v {
			out[i] = uint32(n)
		}
		return out, true
	case []int:
		out := make([]uint32, len(v))
		for i, n := range v {
			if n < 0 {
				return nil, false
			}
			out[i] = uint32(n)
		}
		return out, true
	}
	if n, ok := toUint32(v); ok {
		return []uint32{n}, true
	}
	return nil, false
}

func toFloats(v any) ([]float64, bool) {
	switch v := v.(type) {
	case float32:
		return []float64{float64(v)}, true
	case float64:
		return []float64{v}, true
	case []float32:
		out := make([]float64, len(v))
		for i, f := range v {
			out[i] = float64(f)
		}
		return out, true
	case []float64:
		return v, true
	}
	if n, ok := toInt(v); ok {
		return []float64{float64(n)}, true
	}
	return nil, false
}

// floatToRational approximates a non-negative f as an unsigned rational.
// Whole numbers and exact inverses of whole numbers convert losslessly;
// everything else keeps decimal digits, e.g. 52.83 becomes 5283/100. It
// makes no attempt to find the simplest equivalent fraction.
func floatToRational(f float64) (num, den uint32) {
	if f <= 0 || math.IsNaN(f) {
		return 0, 1
	}
	if math.IsInf(f, 1) {
		return math.MaxUint32, 1
	}
	if f == math.Trunc(f) && f <= math.MaxUint32 {
		return uint32(f), 1
	}
	if inv := 1 / f; inv == math.Trunc(inv) && inv <= math.MaxUint32 {
		return 1, uint32(inv)
	}
	num, den = uint32(math.Round(f)), 1
	for math.Abs(f-float64(num)) > 0.00001 && den < 1000000 {
		den *= 10
		f *= 10
		num = uint32(math.Round(f))
	}
	return num, den
}

// floatToSRational is the signed counterpart of floatToRational.
func floatToSRational(f float64) (num, den int32) {
	if math.IsInf(f, 1) {
		return math.MaxInt32, 1
	}
	if math.IsInf(f, -1) {
		return math.MinInt32, 1
	}
	n, d := floatToRational(math.Abs(f))
	if f < 0 {
		return -int32(n), int32(d)
	}
	return int32(n), int32(d)
}
