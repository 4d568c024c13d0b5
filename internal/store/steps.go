package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StepName names one stage of an announcement run. Each stage's output is
// cached as timestamped JSON files in its own directory.
type StepName string

const (
	StepPosts   StepName = "posts"
	StepMenu    StepName = "menu"
	StepMessage StepName = "messages"
)

// Millisecond precision keeps runs in the same second apart. Names sort
// chronologically.
const stepTimeLayout = "2006-01-02T15-04-05.000"

func stepDir(root string, step StepName) string {
	return filepath.Join(root, string(step))
}

// SaveStepOutput writes data as indented JSON into the step's directory and
// returns the new file's path.
func SaveStepOutput[T any](root string, step StepName, data T) (string, error) {
	dir := stepDir(root, step)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create step cache dir: %w", err)
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s output: %w", step, err)
	}

	path := filepath.Join(dir, time.Now().Format(stepTimeLayout)+".json")
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s output: %w", step, err)
	}
	return path, nil
}

// LoadLatestStepOutput decodes the newest cached output of step and reports
// which file it came from.
func LoadLatestStepOutput[T any](root string, step StepName) (T, string, error) {
	var zero T
	path, err := LatestStepFile(root, step)
	if err != nil {
		return zero, "", err
	}
	data, err := LoadStepOutput[T](path)
	if err != nil {
		return zero, "", err
	}
	return data, path, nil
}

// LoadStepOutput decodes one cached file
func LoadStepOutput[T any](path string) (T, error) {
	var data T
	raw, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("failed to read step output: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("failed to unmarshal step output %s: %w", filepath.Base(path), err)
	}
	return data, nil
}

// LatestStepFile returns the path of the newest cached output of step
func LatestStepFile(root string, step StepName) (string, error) {
	files, err := stepFiles(root, step)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no cached output for step %s", step)
	}
	return files[len(files)-1], nil
}

// PruneSteps deletes all but the newest keep outputs of step and returns
// how many files were removed.
func PruneSteps(root string, step StepName, keep int) (int, error) {
	files, err := stepFiles(root, step)
	if err != nil || len(files) <= keep {
		return 0, err
	}
	removed := 0
	for _, f := range files[:len(files)-max(keep, 0)] {
		if err := os.Remove(f); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// stepFiles lists the step's JSON files, oldest first. A missing directory
// has no files.
func stepFiles(root string, step StepName) ([]string, error) {
	dir := stepDir(root, step)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
