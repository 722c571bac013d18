package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	file := filepath.Join("..", "..", "resources", "education.txt")

	tests := []struct {
		name     string
		args     []string
		wantErr  string
		contains string
	}{
		{name: "text listing", args: []string{"parse", file, "education"}, contains: "ed-"},
		{name: "json output", args: []string{"parse", file, "school", "--json", "--limit", "1"}, contains: `"category": "education"`},
		{name: "unknown category", args: []string{"parse", file, "groceries"}, wantErr: "unknown category"},
		{name: "missing file", args: []string{"parse", "nope.txt", "education"}, wantErr: "read nope.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parseJSON, parseLimit = false, 10
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(tt.args)

			err := rootCmd.Execute()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.contains)
		})
	}
}
