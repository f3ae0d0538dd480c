package utils

import (
	"fmt"
	"os"
	"strings"
)

// ReadSecret reads a secret from the standard Docker Secrets path, falling
// back to the upper-cased environment variable of the same name.
func ReadSecret(secretName string) (string, error) {
	filePath := fmt.Sprintf("/run/secrets/%s", secretName)
	if secretBytes, err := os.ReadFile(filePath); err == nil {
		secret := strings.TrimSpace(string(secretBytes))
		if secret != "" {
			return secret, nil
		}
	}

	if envVal := strings.TrimSpace(os.Getenv(strings.ToUpper(secretName))); envVal != "" {
		return envVal, nil
	}

	return "", fmt.Errorf("secret %q not found in %s or environment", secretName, filePath)
}
