package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var variablePattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ExpandVariables replaces ${env:NAME}, ${userHome} and ${cwd} in text.
// Unknown variables are left in place and reported.
func ExpandVariables(text string) (string, error) {
	var lastErr error
	result := variablePattern.ReplaceAllStringFunc(text, func(match string) string {
		resolved, err := resolveVariable(match[2 : len(match)-1])
		if err != nil {
			lastErr = err
			return match
		}
		return resolved
	})
	return result, lastErr
}

func resolveVariable(expr string) (string, error) {
	switch {
	case expr == "userHome":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home: %w", err)
		}
		return home, nil

	case expr == "cwd":
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get cwd: %w", err)
		}
		return cwd, nil

	case strings.HasPrefix(expr, "env:"):
		return os.Getenv(strings.TrimPrefix(expr, "env:")), nil
	}
	return "", fmt.Errorf("unknown variable ${%s}", expr)
}

// expandFields resolves variables in the string settings that name
// hosts and paths
func (c *Config) expandFields() error {
	for _, field := range []*string{&c.ADB.Host, &c.RemoteTempDir, &c.LogFile} {
		expanded, err := ExpandVariables(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}
