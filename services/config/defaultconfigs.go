package config

// DefaultTOML is used when no configuration file is given. The mapping
// matches the common RGBCW bulb wiring (r,g,b on OUT2,OUT1,OUT3).
const DefaultTOML = `
[light]
name = "lamp"
device = "/dev/i2c-1"
mapping = [2, 1, 3, 4, 5]
max_current = [14, 14, 14, 30, 30]

[logging]
level = "info"
format = "text"

[metrics]
addr = ""
`
