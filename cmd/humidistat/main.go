// Command humidistat drives a humidifier/dehumidifier from a remote routine
// schedule, local temperature/humidity readings and a manual switch.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
