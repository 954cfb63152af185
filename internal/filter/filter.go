// Package filter narrows JSON command output with a JMESPath expression or
// pipes it through a shell command.
package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/jmespath/go-jmespath"
)

// ShellTimeout bounds a $(command) query
const ShellTimeout = 30 * time.Second

// Shell command pattern: $(command)
var shellPattern = regexp.MustCompile(`^\$\((.+)\)$`)

// Apply runs query against a JSON document. A query of the form $(cmd) runs
// cmd with the document on stdin; anything else is JMESPath.
func Apply(doc []byte, query string) (string, error) {
	if query == "" {
		return string(doc), nil
	}

	if matches := shellPattern.FindStringSubmatch(query); len(matches) > 1 {
		out, err := pipe(doc, matches[1])
		if err != nil {
			return "", fmt.Errorf("failed to execute query shell command: %w", err)
		}
		return out, nil
	}

	out, err := search(doc, query)
	if err != nil {
		return "", fmt.Errorf("failed to apply query: %w", err)
	}
	return out, nil
}

func search(doc []byte, expression string) (string, error) {
	var data any
	if err := json.Unmarshal(doc, &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}

	// Bare strings print without quotes so results can feed other commands
	if s, ok := result.(string); ok {
		return s, nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(output), nil
}

func pipe(doc []byte, command string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), ShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = bytes.NewReader(doc)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := err.Error()
		if stderr.Len() > 0 {
			msg = strings.TrimSpace(stderr.String())
		}
		return "", fmt.Errorf("command '%s' failed: %s", command, msg)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// IsValid reports whether query is a shell command or compiles as JMESPath
func IsValid(query string) bool {
	if shellPattern.MatchString(query) {
		return true
	}
	_, err := jmespath.Compile(query)
	return err == nil
}
