// Command mailcheck sends a sample quote notification through the configured
// mail transport so delivery settings can be verified before going live.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
