package sources

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bolinasrbc/spotcheck/pkg/errors"
)

// ExpandPath expands a leading ~ and any $VAR references, then cleans the
// result. The contacts export customarily lives under ~/Downloads.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", errors.NewValidationError("path", path, "empty path")
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.NewConfigError("path", "cannot resolve home directory", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	return filepath.Clean(os.ExpandEnv(path)), nil
}
