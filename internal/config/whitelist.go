package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// WhitelistFile is the YAML form of the ingestion scope:
//
//	competitions: ["2", "11"]
//	seasons: ["44", "90"]
type WhitelistFile struct {
	Competitions []string `yaml:"competitions"`
	Seasons      []string `yaml:"seasons"`
}

func LoadWhitelistFile(path string) (WhitelistFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return WhitelistFile{}, fmt.Errorf("read INGEST_WHITELIST_FILE: %w", err)
	}

	var out WhitelistFile
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return WhitelistFile{}, fmt.Errorf("parse INGEST_WHITELIST_FILE %s: %w", path, err)
	}
	out.Competitions = trimTokens(out.Competitions)
	out.Seasons = trimTokens(out.Seasons)
	if len(out.Competitions) == 0 || len(out.Seasons) == 0 {
		return WhitelistFile{}, fmt.Errorf("INGEST_WHITELIST_FILE %s must list competitions and seasons", path)
	}
	return out, nil
}

func trimTokens(items []string) []string {
	return splitCSV(strings.Join(items, ","))
}
