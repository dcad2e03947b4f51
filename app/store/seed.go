package store

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yml
var defaultSeedData []byte

// SeedJob is a sample job definition loaded from yaml
type SeedJob struct {
	Company  string  `yaml:"company"`
	Position string  `yaml:"position"`
	Status   string  `yaml:"status"`
	Notes    *string `yaml:"notes"`
	Referral bool    `yaml:"referral"`
}

// DefaultSeeds returns the built-in sample jobs
func DefaultSeeds() ([]SeedJob, error) {
	return LoadSeeds(bytes.NewReader(defaultSeedData))
}

// LoadSeedFile reads seed jobs from a yaml file
func LoadSeedFile(fname string) ([]SeedJob, error) {
	fh, err := os.Open(fname) //nolint:gosec // seed file location comes from operator config
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file %s: %w", fname, err)
	}
	defer fh.Close()
	return LoadSeeds(fh)
}

// LoadSeeds decodes a yaml list of seed jobs. Every entry must have company, position and status.
func LoadSeeds(r io.Reader) ([]SeedJob, error) {
	res := []SeedJob{}
	if err := yaml.NewDecoder(r).Decode(&res); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode seeds: %w", err)
	}
	for i, sj := range res {
		if sj.Company == "" || sj.Position == "" || sj.Status == "" {
			return nil, fmt.Errorf("seed %d: company, position and status are required", i+1)
		}
	}
	return res, nil
}

// Seed inserts seeds only if the job table is empty, all in one transaction.
// Returns the number of inserted jobs, 0 if the table already had data.
func (s *Store) Seed(ctx context.Context, seeds []SeedJob) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	count, err := s.count(ctx, tx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Printf("[DEBUG] skip seeding, %d jobs already stored", count)
		return 0, nil
	}

	for _, sj := range seeds {
		req := JobCreate{Company: &sj.Company, Position: &sj.Position, Status: &sj.Status, Notes: sj.Notes, Referral: sj.Referral}
		if _, err := s.create(ctx, tx, req); err != nil {
			return 0, fmt.Errorf("failed to seed %s/%s: %w", sj.Company, sj.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seeds: %w", err)
	}
	log.Printf("[INFO] seeded %d sample jobs", len(seeds))
	return len(seeds), nil
}
