package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("VITALSTAT_DATA_DIR", "")
	t.Setenv("VITALSTAT_PARALLELISM", "")
	t.Setenv("VITALSTAT_OUTPUT_DIR", "")
	t.Setenv("VITALSTAT_PREMORTEM_WINDOW", "")
	t.Setenv("LOG_LEVEL", "")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ".", c.Data.Dir)
	assert.Equal(t, 4, c.Data.Parallelism)
	assert.Equal(t, ".", c.Output.Dir)
	assert.Equal(t, 6, c.Stats.PremortemWindow)
	assert.Equal(t, "INFO", c.Logging.Level)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("VITALSTAT_DATA_DIR", "/data/pigs")
	t.Setenv("VITALSTAT_PARALLELISM", "8")
	t.Setenv("VITALSTAT_PREMORTEM_WINDOW", "3")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/pigs", c.Data.Dir)
	assert.Equal(t, 8, c.Data.Parallelism)
	assert.Equal(t, 3, c.Stats.PremortemWindow)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("VITALSTAT_PARALLELISM", "0")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("VITALSTAT_PARALLELISM", "4")
	t.Setenv("VITALSTAT_PREMORTEM_WINDOW", "11")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_MalformedIntFallsBack(t *testing.T) {
	t.Setenv("VITALSTAT_PARALLELISM", "many")
	t.Setenv("VITALSTAT_PREMORTEM_WINDOW", "")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, c.Data.Parallelism)
}
