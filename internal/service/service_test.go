package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"recordgate/internal/contenthash"
)

const (
	patient   = "0x00000000000000000000000000000000000000a1"
	provider  = "0x00000000000000000000000000000000000000d1"
	stranger  = "0x00000000000000000000000000000000000000e9"
	pngHeader = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"
)

func hashOf(t *testing.T, data string) string {
	t.Helper()
	h, err := contenthash.Compute([]byte(data))
	require.NoError(t, err)
	return h
}
