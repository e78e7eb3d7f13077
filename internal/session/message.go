package session

import (
	"fmt"
	"io"
)

// WriteMessage prints one received message in the fixed four-line layout
// followed by a blank line. A zero-length payload prints an explicit
// empty marker instead of nothing.
func WriteMessage(w io.Writer, msg Message) {
	retained := "no"
	if msg.Retained {
		retained = "yes"
	}

	payload := "<empty>"
	if len(msg.Payload) > 0 {
		payload = string(msg.Payload)
	}

	fmt.Fprintf(w, "message id: %d\n", msg.ID)
	fmt.Fprintf(w, "topic     : %s\n", msg.Topic)
	fmt.Fprintf(w, "retained  : %s\n", retained)
	fmt.Fprintf(w, "payload   : %s\n", payload)
	fmt.Fprintln(w)
}
