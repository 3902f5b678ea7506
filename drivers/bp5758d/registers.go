package bp5758d

// Address byte layout: base | sleep bit | sub-address.
const (
	addrBase = 0x80

	sleepEnable  = 0x00
	sleepDisable = 0x20

	// The enable byte is followed by the five current registers
	// (0x1..0x5), so one write at this even sub-address sets all of them.
	subOutEnable = 0x00
)

// Per-channel grayscale registers (two bytes each, low byte first).
const (
	subOut1Gray = 0x6
	subOut2Gray = 0x8
	subOut3Gray = 0xA
	subOut4Gray = 0xC
	subOut5Gray = 0xE
)

// Output enable masks.
const (
	outAllEnable  = 0x1F
	outAllDisable = 0x00
)

// Value ranges and the high-range current encoding.
const (
	GrayscaleMax  = 1023
	CurrentMax    = 90
	currentLowMax = 64
	currentOffset = 62
	currentHigh   = 0x60
)

// NumChannels is the number of outputs on the chip.
const NumChannels = 5

// Channel selects one physical output.
type Channel uint8

const (
	OUT1 Channel = iota
	OUT2
	OUT3
	OUT4
	OUT5
)

var grayscaleSub = [NumChannels]byte{subOut1Gray, subOut2Gray, subOut3Gray, subOut4Gray, subOut5Gray}

// Valid reports whether c names one of the five outputs.
func (c Channel) Valid() bool { return c < NumChannels }

func (c Channel) String() string {
	switch c {
	case OUT1:
		return "OUT1"
	case OUT2:
		return "OUT2"
	case OUT3:
		return "OUT3"
	case OUT4:
		return "OUT4"
	case OUT5:
		return "OUT5"
	default:
		return "OUT?"
	}
}
