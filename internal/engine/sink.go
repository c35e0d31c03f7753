package engine

import (
	"fmt"
	"io"
	"os"
)

// WriteScript writes the statement stream to path, replacing any existing file.
func WriteScript(path, script string) error {
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// StreamScript writes the statement stream to w (usually stdout).
func StreamScript(w io.Writer, script string) error {
	if _, err := io.WriteString(w, script); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}
	return nil
}
