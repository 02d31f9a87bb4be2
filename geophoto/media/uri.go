package media

import (
	"fmt"
	"strings"
)

const fileScheme = "file://"

// URIToPath converts a file:// locator to a filesystem path.
func URIToPath(uri string) (string, error) {
	if !strings.HasPrefix(uri, fileScheme) {
		return "", fmt.Errorf("not a file locator: %s", uri)
	}
	return strings.TrimPrefix(uri, fileScheme), nil
}

// PathToURI converts a filesystem path to a file:// locator.
func PathToURI(path string) string {
	return fileScheme + path
}
