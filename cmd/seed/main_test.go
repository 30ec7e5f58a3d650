package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicare/medicare-api/internal/config"
	"github.com/medicare/medicare-api/internal/model"
)

const seedFile = `[
  {"name":"Metformin","generic":"Metformin HCl","category":"diabetes","uses":"blood sugar control"},
  {"name":"Lisinopril","generic":"Lisinopril","category":"hypertension","uses":"blood pressure","form":"tablet"}
]`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "medicines.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func fileConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		StorageBackend: config.StorageFile,
		DataDir:        filepath.Join(t.TempDir(), "data"),
	}
}

func TestRun_InsertsRecords(t *testing.T) {
	cfg := fileConfig(t)
	path := writeSeed(t, seedFile)

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, []string{"-file", path}, &stdout))

	var out output
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, 2, out.Read)
	assert.Equal(t, 2, out.Inserted)
	require.Len(t, out.IDs, 2)
	assert.NotEqual(t, out.IDs[0], out.IDs[1])

	raw, err := os.ReadFile(filepath.Join(cfg.DataDir, "medicines.json"))
	require.NoError(t, err)

	var stored []model.Medicine
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, "Metformin", stored[0].Name)
	assert.NotEmpty(t, stored[0].CreatedAt)
	assert.JSONEq(t, `"tablet"`, string(stored[1].Extra["form"]))
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	cfg := fileConfig(t)
	path := writeSeed(t, seedFile)

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, []string{"-file", path, "-dry-run"}, &stdout))

	var out output
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.True(t, out.DryRun)
	assert.Equal(t, 2, out.Read)
	assert.Zero(t, out.Inserted)

	_, err := os.Stat(filepath.Join(cfg.DataDir, "medicines.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_Errors(t *testing.T) {
	cfg := fileConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing flag", nil},
		{"missing file", []string{"-file", filepath.Join(t.TempDir(), "nope.json")}},
		{"not an array", []string{"-file", writeSeed(t, `{"name":"x"}`)}},
		{"nameless record", []string{"-file", writeSeed(t, `[{"category":"pain"}]`)}},
		{"unknown flag", []string{"-bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			assert.Error(t, run(context.Background(), cfg, tt.args, &stdout))
		})
	}
}
