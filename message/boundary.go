package message

import (
	"os"
	"strings"

	"github.com/google/uuid"
)

// GenerateBoundary returns a new random boundary suitable for the boundary
// parameter of a multipart Content-Type.
func GenerateBoundary() string {
	return "----=_Part_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GenerateMessageID returns a new globally unique Message-ID, including the
// angle brackets.
func GenerateMessageID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return "<" + uuid.NewString() + "@" + host + ">"
}
