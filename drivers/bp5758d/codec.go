package bp5758d

// TransformCurrent validates a maximum-current setting and returns the byte
// the chip expects. Values in (64,90] use the high-range encoding.
func TransformCurrent(v uint8) (uint8, error) {
	if v > CurrentMax {
		return 0, ErrInvalidArg
	}
	if v > currentLowMax {
		return (v - currentOffset) | currentHigh, nil
	}
	return v, nil
}

// transformCurrents applies TransformCurrent to every entry; any failure
// rejects the whole set.
func transformCurrents(in [NumChannels]uint8) ([NumChannels]uint8, error) {
	var out [NumChannels]uint8
	for i, v := range in {
		t, err := TransformCurrent(v)
		if err != nil {
			return out, err
		}
		out[i] = t
	}
	return out, nil
}

// EncodeGrayscale splits a 10-bit value into the chip's two 5-bit bytes.
// The caller validates the range.
func EncodeGrayscale(v uint16) (lo, hi byte) {
	return byte(v & 0x1F), byte(v >> 5)
}

func grayscaleValid(v uint16) bool { return v <= GrayscaleMax }

func addr(sleep, sub byte) byte { return addrBase | sleep | sub }
