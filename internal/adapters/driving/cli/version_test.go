package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{name: "release", version: "1.2.0", want: "conllu version 1.2.0\n"},
		{name: "dev build", version: "dev", want: "conllu version dev\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := version
			SetVersion(tt.version)
			t.Cleanup(func() { version = original })

			out, err := runCommand(t, "version")

			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}
