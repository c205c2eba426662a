package registry

import (
	"testing"

	"cirrus/internal/config"
	"cirrus/internal/service"
	"cirrus/internal/supervisor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSup struct{}

func (fakeSup) Workers() []supervisor.WorkerInfo { return nil }
func (fakeSup) Failures() int                    { return 0 }
func (fakeSup) Launched() int                    { return 0 }
func (fakeSup) Draining() bool                   { return false }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	cfg, err := config.LoadFile("/nonexistent/config.toml")
	require.NoError(t, err)
	return cfg
}

func TestDescriptorOrder(t *testing.T) {
	r := New(testConfig(t), nil, fakeSup{})

	ds := r.Descriptors()
	require.Len(t, ds, 7)

	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.Name
	}
	assert.Equal(t, []string{
		"admin-api", "metadata-api", "objectstore",
		"compute", "scheduler", "network", "conductor",
	}, names)
}

func TestBackendDescriptorDefaults(t *testing.T) {
	r := New(testConfig(t), nil, fakeSup{})

	for _, d := range r.Descriptors() {
		if d.Name != "scheduler" {
			continue
		}
		assert.Equal(t, "scheduler", d.Topic)
		assert.Equal(t, "scheduler", d.Manager)
		return
	}
	t.Fatal("scheduler descriptor missing")
}

func TestBackendOverrides(t *testing.T) {
	cfg := testConfig(t)
	cfg.Services["compute"] = config.ServiceConfig{
		Workers: 4,
		Topic:   "compute.cell1",
	}
	r := New(cfg, nil, fakeSup{})

	for _, d := range r.Descriptors() {
		if d.Name != "compute" {
			continue
		}
		assert.Equal(t, 4, d.Workers)
		assert.Equal(t, "compute.cell1", d.Topic)
		assert.Equal(t, "compute", d.Manager)
		return
	}
	t.Fatal("compute descriptor missing")
}

func TestBackendFactoryBuildsTask(t *testing.T) {
	r := New(testConfig(t), nil, fakeSup{})

	sc := r.cfg.Service("compute")
	handle, err := r.backendFactory("compute", sc)()
	require.NoError(t, err)
	assert.IsType(t, &service.Task{}, handle)
}

func TestBackendFactoryProcessMode(t *testing.T) {
	cfg := testConfig(t)
	sc := config.ServiceConfig{RunMode: "process", Command: []string{"sleep", "1"}}
	r := New(cfg, nil, fakeSup{})

	handle, err := r.backendFactory("compute", sc)()
	require.NoError(t, err)
	assert.IsType(t, &service.Process{}, handle)
}

func TestUnknownManagerFailsAtFactoryTime(t *testing.T) {
	cfg := testConfig(t)
	cfg.Services["compute"] = config.ServiceConfig{Manager: "quantum"}
	r := New(cfg, nil, fakeSup{})

	_, err := r.backendFactory("compute", cfg.Service("compute"))()
	assert.Error(t, err)
}

func TestUnknownAPIFailsAtFactoryTime(t *testing.T) {
	cfg := testConfig(t)
	cfg.API.Enabled = append(cfg.API.Enabled, "ec2")
	cfg.API.Ports["ec2"] = 18775
	r := New(cfg, nil, fakeSup{})

	ds := r.Descriptors()
	require.Len(t, ds, 8)

	_, err := ds[2].Factory()
	assert.Error(t, err)
}

func TestSummariesMatchDescriptors(t *testing.T) {
	r := New(testConfig(t), nil, fakeSup{})

	summaries := r.Summaries()
	require.Len(t, summaries, 7)
	assert.Equal(t, "admin-api", summaries[0].Name)
	assert.Equal(t, 1, summaries[0].Workers)
}
