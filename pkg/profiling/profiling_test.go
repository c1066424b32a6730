package profiling

import (
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanisheesh/portfolio-api/config"
)

func TestParseProfileTypes_Default(t *testing.T) {
	got, err := parseProfileTypes("  ")
	require.NoError(t, err)
	assert.Equal(t, defaultProfileTypes, got)
}

func TestParseProfileTypes_DeduplicatesAndKeepsOrder(t *testing.T) {
	got, err := parseProfileTypes("cpu, mutex,cpu,,alloc_space")
	require.NoError(t, err)

	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileMutexCount,
		pyroscope.ProfileMutexDuration,
		pyroscope.ProfileAllocSpace,
	}, got)
}

func TestParseProfileTypes_Invalid(t *testing.T) {
	_, err := parseProfileTypes("cpu,heap_dump")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported O11Y_PROFILING_SAMPLE_TYPES")
}

func TestProfileTags_SkipsEmpty(t *testing.T) {
	tags := profileTags(config.ObservabilityConfig{
		ServiceName:      "portfolio-api",
		ServiceNamespace: "portfolio",
	}, "production")

	assert.Equal(t, map[string]string{
		"service_name": "portfolio-api",
		"namespace":    "portfolio",
		"environment":  "production",
	}, tags)
}

func TestStart_Disabled(t *testing.T) {
	stop, err := Start(config.ProfilingConfig{Enabled: false}, config.ObservabilityConfig{}, "production")
	require.NoError(t, err)
	require.NotNil(t, stop)
	stop()
}

func TestStart_EnabledWithoutEndpoint(t *testing.T) {
	_, err := Start(config.ProfilingConfig{Enabled: true}, config.ObservabilityConfig{}, "production")
	assert.Error(t, err)
}
