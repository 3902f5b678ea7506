package types

// Control verbs accepted on light/<name>/control/<verb>.
const (
	VerbSetChannel = "set_channel"
	VerbSetRGBCW   = "set_rgbcw"
	VerbSleep      = "sleep"
	VerbWake       = "wake"
	VerbCurrent    = "current"
)

// LightInfo is published retained under light/<name>/info.
type LightInfo struct {
	SchemaVersion int      `json:"schema_version"`
	Driver        string   `json:"driver"`
	Mapping       [5]uint8 `json:"mapping"`     // physical output for r,g,b,c,w
	MaxCurrent    [5]uint8 `json:"max_current"` // wire-format bytes, OUT1..OUT5
}

// LightState is published retained under light/<name>/state.
type LightState struct {
	Sleeping bool  `json:"sleeping"`
	TS       int64 `json:"ts_ms"`
}

// ---- Control payloads ----

// ChannelSet sets one physical output (1..5) to a 10-bit grayscale value.
type ChannelSet struct {
	Channel int    `json:"channel"`
	Value   uint16 `json:"value"`
}

// RGBCWSet sets all five logical channels in one transaction.
type RGBCWSet struct {
	R uint16 `json:"r"`
	G uint16 `json:"g"`
	B uint16 `json:"b"`
	C uint16 `json:"c"`
	W uint16 `json:"w"`
}

// SleepSet is the payload of the "sleep" verb. A nil payload means Sleep=true.
type SleepSet struct {
	Sleep bool `json:"sleep"`
}

// CurrentSet changes the current limit (0..90) of one physical output (1..5).
type CurrentSet struct {
	Channel int   `json:"channel"`
	Value   uint8 `json:"value"`
}
