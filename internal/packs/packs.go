// Package packs loads problem packs from disk.
package packs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/dont-rust-bro/drb/internal/models"
)

const packFileName = "pack.json"

var (
	// ErrPackNotFound is returned when a pack directory has no pack.json.
	ErrPackNotFound = errors.New("pack not found")
	// ErrProblemNotFound is returned when a problem file is missing.
	ErrProblemNotFound = errors.New("problem not found")
)

// List returns the sorted names of the packs in dir.
// A missing directory yields an empty list.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	names := []string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if fileExists(filepath.Join(dir, entry.Name(), packFileName)) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadPack loads a pack's metadata.
func LoadPack(dir, name string) (*models.Pack, error) {
	var pack models.Pack
	path := filepath.Join(dir, name, packFileName)
	if err := loadJSON(path, &pack); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPackNotFound, name)
		}
		return nil, err
	}
	if pack.Name == "" {
		pack.Name = name
	}
	return &pack, nil
}

// LoadProblem loads a single problem definition.
func LoadProblem(dir, pack, id string) (*models.Problem, error) {
	var problem models.Problem
	path := filepath.Join(dir, pack, id+".json")
	if err := loadJSON(path, &problem); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrProblemNotFound, id)
		}
		return nil, err
	}
	if problem.ID == "" {
		problem.ID = id
	}
	return &problem, nil
}

// CheckDeps returns the pack's required executables that are not on PATH.
func CheckDeps(pack *models.Pack) []string {
	missing := []string{}
	for _, exe := range pack.Dependencies.Executables {
		if _, err := exec.LookPath(exe); err != nil {
			missing = append(missing, exe)
		}
	}
	return missing
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
