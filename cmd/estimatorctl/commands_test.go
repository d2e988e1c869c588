package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SiteEstimator/internal/model"
	"github.com/piwi3910/SiteEstimator/internal/project"
)

// setup stores one estimate in a temporary save directory and returns the
// config flag pointing at a settings file that selects it.
func setup(t *testing.T) (dir string, configFlag string) {
	t.Helper()
	dir = t.TempDir()
	saveDir := filepath.Join(dir, "saved")

	cfg := model.DefaultAppConfig()
	cfg.SaveDir = saveDir
	configPath := filepath.Join(dir, "settings.json")
	require.NoError(t, project.SaveAppConfig(configPath, cfg))

	snap := model.Snapshot{
		Name: "depot",
		Material: []model.RowInput{{
			Item: "BED BOLT", Diameter: model.Float(12), Length: model.Float(150), Quantity: 10, UnitRate: 100,
		}},
		Labour: []model.LabourRow{{Role: "SUPERVISOR", Quantity: 1, Days: 20, DailyRate: 800}},
		Fabric: []model.FabricRow{},
	}
	_, err := project.NewFileStore(saveDir, nil).Save(context.Background(), snap)
	require.NoError(t, err)

	return dir, "--config=" + configPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	var e env
	cmd := newRootCmd(&out, &e)
	cmd.SetArgs(args)
	err := execute(cmd, &e)
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	_, cfg := setup(t)

	out, err := run(t, "list", cfg)
	require.NoError(t, err)
	assert.Equal(t, "depot\n", out)
}

func TestShowCommand(t *testing.T) {
	_, cfg := setup(t)

	out, err := run(t, "show", "depot", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "depot")
	assert.Contains(t, out, "BED BOLT")
	assert.Contains(t, out, "SUPERVISOR")
	assert.Contains(t, out, "1 x 20d")
	assert.Contains(t, out, "GRAND TOTAL        ₹16133.17")
	assert.Contains(t, out, "TOTAL WEIGHT (KG)  1.33")
}

func TestShowCommandNotFound(t *testing.T) {
	_, cfg := setup(t)

	_, err := run(t, "show", "missing", cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, project.ErrNotFound)
}

func TestShowCommandRequiresName(t *testing.T) {
	_, cfg := setup(t)

	_, err := run(t, "show", cfg)
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dir, cfg := setup(t)
	out := filepath.Join(dir, "depot.xlsx")

	stdout, err := run(t, "export", "depot", "-o", out, "--site", "Depot Yard", cfg)
	require.NoError(t, err)
	assert.Contains(t, stdout, out)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	site, err := f.GetCellValue("ESTIMATION", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Depot Yard", site)

	item, err := f.GetCellValue("ESTIMATION", "A17")
	require.NoError(t, err)
	assert.Equal(t, "BED BOLT", item)
}

func TestPDFCommand(t *testing.T) {
	dir, cfg := setup(t)
	out := filepath.Join(dir, "summary.pdf")

	_, err := run(t, "pdf", "depot", "-o", out, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestFailedCommandClosesStore(t *testing.T) {
	dir := t.TempDir()
	cfg := model.DefaultAppConfig()
	cfg.StoreDriver = model.StoreDriverSQLite
	cfg.SQLitePath = filepath.Join(dir, "estimates.db")
	configPath := filepath.Join(dir, "settings.json")
	require.NoError(t, project.SaveAppConfig(configPath, cfg))

	var out bytes.Buffer
	var e env
	cmd := newRootCmd(&out, &e)
	cmd.SetArgs([]string{"show", "missing", "--config=" + configPath})
	err := execute(cmd, &e)
	require.ErrorIs(t, err, project.ErrNotFound)

	require.NotNil(t, e.store)
	_, err = e.store.List(context.Background())
	assert.Error(t, err, "store should be closed after a failed command")
}

func TestBadConfigDoesNotPanicOnClose(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(configPath, []byte("{not json"), 0644))

	_, err := run(t, "list", "--config="+configPath)
	assert.Error(t, err)
}
