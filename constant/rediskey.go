package constant

import "fmt"

const (
	BasePrefix = "shorturl:"
	Separator  = ":"
)

// Redis key templates
const (
	Flash = BasePrefix + "flash" + Separator + "%s" // shorturl:flash:<session id>
)

// GetFlashKey returns the key holding the pending flash of a browser session.
func GetFlashKey(sessionID string) string {
	return fmt.Sprintf(Flash, sessionID)
}
