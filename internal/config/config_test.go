package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	tests := []struct {
		name          string
		yaml          string
		wantPageCap   int
		wantBufferCap int
		wantFetchMS   float64
		wantBlockJoin int
	}{
		{
			name:          "empty file keeps defaults",
			yaml:          "",
			wantPageCap:   100,
			wantBufferCap: 50,
			wantFetchMS:   0.1,
			wantBlockJoin: 100,
		},
		{
			name:          "page_capacity override",
			yaml:          "page_capacity: 250\n",
			wantPageCap:   250,
			wantBufferCap: 50,
			wantFetchMS:   0.1,
			wantBlockJoin: 100,
		},
		{
			name:          "multiple overrides",
			yaml:          "buffer_capacity: 4\nblock_join_size: 8\npage_fetch_ms: 2.5\n",
			wantPageCap:   100,
			wantBufferCap: 4,
			wantFetchMS:   2.5,
			wantBlockJoin: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.yaml != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.yaml), 0o600))
			}

			cfg, err := Load(dir)
			require.NoError(t, err)
			require.Equal(t, tt.wantPageCap, cfg.PageCapacity)
			require.Equal(t, tt.wantBufferCap, cfg.BufferCapacity)
			require.Equal(t, tt.wantFetchMS, cfg.PageFetchMS)
			require.Equal(t, tt.wantBlockJoin, cfg.BlockJoinSize)
		})
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("page_capacity: 250\n"), 0o600))

	t.Setenv("RSQLDB_PAGE_CAPACITY", "999")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, 999, cfg.PageCapacity)
}

func TestLoad_ScalesAndRuns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("scales: [5, 20]\nruns: 3\n"), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, []int{5, 20}, cfg.Scales)
	require.Equal(t, 3, cfg.Runs)
}

func TestLoad_RejectsInvalidCapacity(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("page_capacity: 0\n"), 0o600))

	_, err := Load(dir)
	require.Error(t, err)
}
