// Command seed loads medicines from a JSON file into the configured storage backend.
//
//	seed -file medicines.json
//	seed -file medicines.json -dry-run
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/medicare/medicare-api/internal/config"
	"github.com/medicare/medicare-api/internal/model"
	"github.com/medicare/medicare-api/internal/repository"
	"github.com/medicare/medicare-api/internal/storage"
)

type output struct {
	Backend  string  `json:"backend"`
	Read     int     `json:"read"`
	Inserted int     `json:"inserted"`
	DryRun   bool    `json:"dry_run"`
	IDs      []int64 `json:"ids,omitempty"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	var (
		file   = fs.String("file", "", "JSON file holding an array of medicines")
		dryRun = fs.Bool("dry-run", false, "Parse the file and report without writing")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *file == "" {
		return errors.New("-file is required")
	}

	medicines, err := readMedicines(*file)
	if err != nil {
		return err
	}

	out := output{
		Backend: cfg.StorageBackend,
		Read:    len(medicines),
		DryRun:  *dryRun,
	}

	if !*dryRun {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		ids, err := insertAll(ctx, cfg.StorageOptions(), medicines)
		if err != nil {
			return err
		}
		out.Inserted = len(ids)
		out.IDs = ids
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func readMedicines(path string) ([]model.Medicine, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var medicines []model.Medicine
	if err := json.Unmarshal(raw, &medicines); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for i, m := range medicines {
		if m.Name == "" {
			return nil, fmt.Errorf("record %d: name is required", i)
		}
	}
	return medicines, nil
}

func insertAll(ctx context.Context, opts storage.Options, medicines []model.Medicine) (ids []int64, err error) {
	backend, err := storage.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", opts.Backend, err)
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close storage: %w", cerr)
		}
	}()

	repo := repository.NewMedicines(backend)
	if err := repo.Ensure(ctx); err != nil {
		return nil, err
	}

	ids = make([]int64, 0, len(medicines))
	for _, m := range medicines {
		created, err := repo.Insert(ctx, m)
		if err != nil {
			return ids, fmt.Errorf("insert %q: %w", m.Name, err)
		}
		ids = append(ids, created.ID)
	}
	return ids, nil
}
