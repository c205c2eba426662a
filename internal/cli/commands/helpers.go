package commands

import (
	"fmt"
	"os"

	"cirrus/internal/constants"
)

// defaultServerURL is where the admin API listens unless overridden
// via flag or the CIRRUS_SERVER environment variable.
func defaultServerURL() string {
	if url := os.Getenv("CIRRUS_SERVER"); url != "" {
		return url
	}
	return fmt.Sprintf("http://127.0.0.1:%d", constants.DefaultAPIPort)
}
