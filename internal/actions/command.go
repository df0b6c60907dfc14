// Package actions writes GitHub Actions workflow commands and step outputs.
package actions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

const outputEnv = "GITHUB_OUTPUT"

var dataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

// Error writes an ::error:: annotation. The runner marks the step as failed
// once the process exits non-zero.
func Error(w io.Writer, msg string) error {
	_, err := fmt.Fprintf(w, "::error::%s\n", dataEscaper.Replace(msg))
	return err
}

// SetOutput appends a step output to the file named by GITHUB_OUTPUT.
// Outside Actions it does nothing.
func SetOutput(name, value string) error {
	path := os.Getenv(outputEnv)
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", outputEnv, err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, formatOutput(name, value)); err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	return nil
}

// formatOutput uses the heredoc form for multi-line values
func formatOutput(name, value string) string {
	if !strings.ContainsAny(value, "\r\n") {
		return name + "=" + value + "\n"
	}
	delimiter := "ghadelimiter_" + uuid.NewString()
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
}
