package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLabelMap(t *testing.T) {
	m, err := LoadLabelMap("")
	require.NoError(t, err)
	assert.Equal(t, "LOC", m["GPE"])
	assert.Equal(t, "PER", m["person"])
	assert.Equal(t, "MISC", m["WORK_OF_ART"])
	for _, target := range m {
		assert.Contains(t, []string{"PER", "LOC", "ORG", "MISC"}, target)
	}
}

func TestParseLabelMap(t *testing.T) {
	testCases := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"valid", "map:\n  GPE: LOC\n  person: PER\n", false},
		{"empty", "map: {}\n", true},
		{"missing", "other: 1\n", true},
		{"space in type", "map:\n  \"New type\": LOC\n", true},
		{"empty target", "map:\n  GPE: \"\"\n", true},
		{"not yaml", "map: [\n", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := ParseLabelMap([]byte(tc.yaml))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, m, 2)
		})
	}
}

func TestLoadLabelMapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.yaml")
	require.NoError(t, os.WriteFile(path, []byte("map:\n  corporation: ORG\n"), 0644))
	m, err := LoadLabelMap(path)
	require.NoError(t, err)
	assert.Equal(t, "ORG", m["corporation"])

	_, err = LoadLabelMap(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestCheckDistinct(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, checkDistinct(filepath.Join(dir, "in.txt"), filepath.Join(dir, "out.txt")))
	require.Error(t, checkDistinct(filepath.Join(dir, "in.txt"), filepath.Join(dir, ".", "in.txt")))
}
