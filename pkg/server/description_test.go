package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDescription(t *testing.T) {
	tempDir := t.TempDir()

	file1Path := filepath.Join(tempDir, "desc1.txt")
	file2Path := filepath.Join(tempDir, "desc2.txt")
	require.NoError(t, os.WriteFile(file1Path, []byte("description from file 1\n"), 0o644))
	require.NoError(t, os.WriteFile(file2Path, []byte("description from file 2"), 0o644))

	tests := []struct {
		name     string
		cfg      DescriptionConfig
		expected string
		wantErr  bool
	}{
		{
			name:     "default only",
			cfg:      DescriptionConfig{},
			expected: DefaultDescription,
		},
		{
			name:     "flags are appended",
			cfg:      DescriptionConfig{Descriptions: []string{"one", "two"}},
			expected: DefaultDescription + "\none\ntwo",
		},
		{
			name: "files come after flags",
			cfg: DescriptionConfig{
				Descriptions:     []string{"flag"},
				DescriptionFiles: []string{file1Path, file2Path},
			},
			expected: DefaultDescription + "\nflag\ndescription from file 1\ndescription from file 2",
		},
		{
			name: "override drops the default",
			cfg: DescriptionConfig{
				Descriptions: []string{"only this"},
				Override:     true,
			},
			expected: "only this",
		},
		{
			name: "override with nothing else",
			cfg: DescriptionConfig{
				Override: true,
			},
			expected: "",
		},
		{
			name: "missing file",
			cfg: DescriptionConfig{
				DescriptionFiles: []string{filepath.Join(tempDir, "nope.txt")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetDescription(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
