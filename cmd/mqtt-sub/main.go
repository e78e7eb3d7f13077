// mqtt-sub subscribes to a MQTT topic and prints received messages
// until interrupted.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
