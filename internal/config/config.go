// Package config loads the JSON-driven tunables for the paging
// subsystem, the way every module in the teacher's repo reads its own
// config file at startup.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Selection names the build-time replacement-policy selector from
// spec.md §6, now a runtime JSON value instead of a compile-time switch.
type Selection string

const (
	None   Selection = "NONE"
	NFUA   Selection = "NFUA"
	LAPA   Selection = "LAPA"
	SCFIFO Selection = "SCFIFO"
)

// Config carries the tunables named in spec.md §6.
type Config struct {
	PageSize      int       `json:"page_size"`
	MaxPsycPages  int       `json:"max_psyc_pages"`
	MaxTotalPages int       `json:"max_total_pages"`
	Selection     Selection `json:"selection"`
	SwapDir       string    `json:"swap_dir"`
	DumpDir       string    `json:"dump_dir"`
	LogLevel      string    `json:"log_level"`
}

// Defaults returns the spec.md defaults: 4096-byte pages, 16 resident
// pages, 32 total pages per process.
func Defaults() Config {
	return Config{
		PageSize:      4096,
		MaxPsycPages:  16,
		MaxTotalPages: 32,
		Selection:     SCFIFO,
		SwapDir:       "swap",
		DumpDir:       "dumps",
		LogLevel:      "info",
	}
}

// Load reads a JSON config file into T, grounded on the teacher's
// CargarConfiguracion[T] generic loader.
func Load[T any](path string) (*T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config %s: %w", path, err)
	}
	defer file.Close()

	var cfg T
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	return &cfg, nil
}
