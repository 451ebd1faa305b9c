package profiling

import (
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/voltalia/goom-relay/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfileTypes_Default(t *testing.T) {
	got, err := parseProfileTypes("")
	require.NoError(t, err)
	assert.Equal(t, defaultProfileTypes, got)
}

func TestParseProfileTypes_Custom(t *testing.T) {
	got, err := parseProfileTypes("cpu, alloc_space,mutex,cpu")
	require.NoError(t, err)

	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileMutexCount,
		pyroscope.ProfileMutexDuration,
	}, got)
}

func TestParseProfileTypes_Invalid(t *testing.T) {
	_, err := parseProfileTypes("cpu,unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported O11Y_PROFILING_SAMPLE_TYPES")
}

func TestBuildApplicationName(t *testing.T) {
	got := buildApplicationName("goom-relay", "goom-relay", "production", "2.0.0")
	assert.Equal(t, "goom-relay{service_name=goom-relay,environment=production,service_version=2.0.0}", got)
}

func TestBuildApplicationName_FallsBackToServiceName(t *testing.T) {
	got := buildApplicationName("  ", "goom-relay", "development", "1.0.0")
	assert.Equal(t, "goom-relay{service_name=goom-relay,environment=development,service_version=1.0.0}", got)
}

func TestInitProfiler_Disabled(t *testing.T) {
	stop, err := InitProfiler(config.ProfilingConfig{}, "goom-relay", "1.0.0", "test")
	require.NoError(t, err)
	require.NotNil(t, stop)
	assert.NotPanics(t, stop)
}

func TestInitProfiler_RequiresEndpoint(t *testing.T) {
	_, err := InitProfiler(config.ProfilingConfig{Enabled: true, Endpoint: "  "}, "goom-relay", "1.0.0", "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profiling endpoint is required")
}
