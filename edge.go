package edge

import (
	"embed"
	"fmt"
	"strings"
	"time"
)

type UserAgent string

//go:embed VERSION
var F embed.FS

const (
	HTTP_TIMEOUT             = 30
	HTTP_TIMEOUT_IN_DURATION = time.Duration(HTTP_TIMEOUT) * time.Second
)

func DefaultUserAgent() UserAgent {
	return UserAgent(fmt.Sprintf("EventAngle-Edge/%s", GetVersion()))
}

func readVersion(fs embed.FS) ([]byte, error) {
	data, err := fs.ReadFile("VERSION")
	if err != nil {
		return nil, err
	}

	return data, nil
}

func GetVersion() string {
	v := "0.1.0"

	f, err := readVersion(F)
	if err != nil {
		return v
	}

	v = strings.TrimSpace(string(f))
	return v
}
