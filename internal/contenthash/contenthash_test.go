package contenthash

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	a, err := Compute([]byte("lab results"))
	require.NoError(t, err)
	b, err := Compute([]byte("lab results"))
	require.NoError(t, err)
	c, err := Compute([]byte("x-ray"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	id, err := cid.Decode(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id.Version())
	assert.Equal(t, uint64(cid.Raw), id.Type())
}

func TestParse(t *testing.T) {
	v1, err := Compute([]byte("hello"))
	require.NoError(t, err)

	sum, err := multihash.Sum([]byte("hello"), multihash.SHA2_256, -1)
	require.NoError(t, err)
	v0 := cid.NewCidV0(sum).String()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "cid v1", in: v1, want: v1},
		{name: "cid v0", in: v0, want: v0},
		{name: "trimmed", in: " " + v1 + " ", want: v1},
		{name: "empty", in: "   ", wantErr: ErrEmpty},
		{name: "garbage", in: "not-a-cid", wantErr: ErrInvalidFormat},
		{name: "truncated", in: v1[:len(v1)-4], wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
