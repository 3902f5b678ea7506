// Command ledctl drives a BP5758D LED controller on a Linux i2c-dev bus.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
