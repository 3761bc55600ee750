package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/carsearch/internal/core/domain"
)

const header = "Car_Company,Car_Model,Engine_Type,CC_Battery_Capacity,Horsepower_HP," +
	"Top_Speed,Zero_To_Hundred,Price_USD,Fuel_Type,Seating_Capacity,Torque\n"

func writeCSV(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cars.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+strings.Join(rows, "\n")+"\n"), 0o600))
	return path
}

func testSettings(path string) *domain.AppSettings {
	s := domain.DefaultAppSettings()
	s.DataPath = path
	return &s
}

func TestBuildPipeline_EndToEnd(t *testing.T) {
	path := writeCSV(t,
		"Porsche,911,Flat-6,3000 cc,379,293 km/h,4.2 sec,101200,Petrol,4,450 Nm",
		"Tesla,Model 3,Electric,75 kWh,283,225 km/h,5.8 sec,40240,Electric,5,420 Nm",
		"Toyota,Corolla,I4,1800 cc,139,180 km/h,9.1 sec,21550,Petrol,5,171 Nm",
	)
	var warn bytes.Buffer

	p, err := buildPipeline(context.Background(), testSettings(path), &warn)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, domain.StateReady, p.Index.State())
	stats := p.Index.Stats()
	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, 3, stats.Chunks)
	assert.Empty(t, warn.String())

	results, err := p.Retrieval.Retrieve(context.Background(), "Car Company: Tesla Model: Model 3 Electric", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Tesla_Model 3", results[0].Source)
	assert.Contains(t, results[0].Content, "Horsepower: 283 HP")
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	assert.NotNil(t, p.Watch)
}

func TestBuildPipeline_SkipsIncompleteRows(t *testing.T) {
	path := writeCSV(t,
		"Porsche,911,Flat-6,3000 cc,379,293 km/h,4.2 sec,101200,Petrol,4,450 Nm",
		"Kia,EV6,Electric,77 kWh,320,,5.1 sec,42600,Electric,5,605 Nm",
	)
	var warn bytes.Buffer

	p, err := buildPipeline(context.Background(), testSettings(path), &warn)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, 1, p.Index.Stats().Skipped)
	assert.Contains(t, warn.String(), "warning: skipping row 2: missing field Top_Speed")
}

func TestBuildPipeline_StrictFails(t *testing.T) {
	path := writeCSV(t,
		"Kia,EV6,Electric,77 kWh,320,,5.1 sec,42600,Electric,5,605 Nm",
	)
	settings := testSettings(path)
	settings.Index.Strict = true

	_, err := buildPipeline(context.Background(), settings, &bytes.Buffer{})

	assert.ErrorIs(t, err, domain.ErrMissingField)
}

func TestBuildPipeline_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("Car_Company,Car_Model\nKia,EV6\n"), 0o600))

	_, err := buildPipeline(context.Background(), testSettings(path), &bytes.Buffer{})

	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestBuildPipeline_MissingFile(t *testing.T) {
	_, err := buildPipeline(context.Background(), testSettings(filepath.Join(t.TempDir(), "nope.csv")), &bytes.Buffer{})

	assert.Error(t, err)
}

func TestBuildPipeline_InvalidMetric(t *testing.T) {
	settings := testSettings("unused.csv")
	settings.Index.Metric = "dot"

	_, err := buildPipeline(context.Background(), settings, &bytes.Buffer{})

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestOpenSettings_Ephemeral(t *testing.T) {
	svc, err := openSettings("", true)
	require.NoError(t, err)

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "data/cars_dataset.csv", got.DataPath)
}

func TestOpenSettings_FileStore(t *testing.T) {
	dir := t.TempDir()

	svc, err := openSettings(dir, false)
	require.NoError(t, err)

	settings := domain.DefaultAppSettings()
	settings.DataPath = "fleet.csv"
	require.NoError(t, svc.Save(&settings))

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "fleet.csv")

	reopened, err := openSettings(dir, false)
	require.NoError(t, err)
	got, err := reopened.Get()
	require.NoError(t, err)
	assert.Equal(t, "fleet.csv", got.DataPath)
}
