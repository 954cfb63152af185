package todo

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"github.com/studiowebux/todoui/internal/log"
)

// File is a todo.txt file on disk
type File struct {
	Path string
	// BackupDir receives the previous contents before every rewrite; empty disables backups
	BackupDir string
}

// Load parses every task in the file, skipping blank and unparseable lines
func (f File) Load() ([]Task, error) {
	lines, err := f.readLines()
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(lines))
	for num, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		task, err := Parse(line)
		if err != nil {
			log.Warn().Str("file", f.Path).Int("line", num+1).Err(err).Msg("skipping todo line")
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// MarkCompleted sets the finished flag of the task identified by hash and
// returns the task's new hash
func (f File) MarkCompleted(hash string, finished bool) (string, error) {
	original, lines, err := f.readContents()
	if err != nil {
		return "", err
	}

	newHash := ""
	for i, line := range lines {
		task, err := Parse(line)
		if err != nil || task.Hash() != hash {
			continue
		}
		task.Finished = finished
		lines[i] = task.String()
		newHash = task.Hash()
		log.Info().Str("file", f.Path).Int("line", i+1).Str("todo", lines[i]).Msg("todo updated")
		break
	}

	if newHash == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, hash)
	}

	if err := f.rewrite(original, lines); err != nil {
		return "", err
	}
	return newHash, nil
}

// ArchiveFinished moves finished tasks to done and returns how many moved
func (f File) ArchiveFinished(done File) (int, error) {
	original, lines, err := f.readContents()
	if err != nil {
		return 0, err
	}

	var keep, archived []string
	for _, line := range lines {
		task, err := Parse(line)
		if err == nil && task.Finished {
			archived = append(archived, line)
			continue
		}
		keep = append(keep, line)
	}

	if len(archived) == 0 {
		return 0, nil
	}

	if err := done.append(archived); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", done.Path, err)
	}
	if err := f.rewrite(original, keep); err != nil {
		return 0, err
	}
	return len(archived), nil
}

func (f File) readLines() ([]string, error) {
	_, lines, err := f.readContents()
	return lines, err
}

func (f File) readContents() ([]byte, []string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", f.Path, err)
	}
	return data, lines, nil
}

func (f File) rewrite(original []byte, lines []string) error {
	if f.BackupDir != "" && len(original) > 0 {
		if err := os.MkdirAll(f.BackupDir, 0755); err != nil {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}
		h := fnv.New64a()
		h.Write(original)
		backup := filepath.Join(f.BackupDir, fmt.Sprintf("%x.txt", h.Sum64()))
		if err := os.WriteFile(backup, original, 0644); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}
	}

	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(f.Path, []byte(content), 0644); err != nil {
		return fmt.Errorf("could not write back %s: %w", f.Path, err)
	}
	return nil
}

func (f File) append(lines []string) error {
	fh, err := os.OpenFile(f.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer fh.Close()

	_, err = fh.WriteString(strings.Join(lines, "\n") + "\n")
	return err
}
