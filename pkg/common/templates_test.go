package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessTemplate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		args    map[string]interface{}
		want    string
		wantErr bool
	}{
		{name: "default prompt", text: "{{ .cwd }}$ ", args: map[string]interface{}{"cwd": "/home/user"}, want: "/home/user$ "},
		{name: "sprig function", text: "{{ .cwd | base }}> ", args: map[string]interface{}{"cwd": "/home/user/src"}, want: "src> "},
		{name: "missing key renders empty", text: "[{{ .user }}]$ ", args: map[string]interface{}{}, want: "[]$ "},
		{name: "no html escaping", text: "{{ .cwd }}", args: map[string]interface{}{"cwd": "<a&b>"}, want: "<a&b>"},
		{name: "parse error", text: "{{ .cwd ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProcessTemplate(tt.text, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
