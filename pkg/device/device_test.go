package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	grid := []struct {
		in      string
		want    Device
		wantErr bool
	}{
		{in: "cpu:0", want: Device{Kind: "cpu", Ordinal: 0}},
		{in: "gpu:3", want: Device{Kind: "gpu", Ordinal: 3}},
		{in: "cpu", want: Device{Kind: "cpu", Ordinal: 0}},
		{in: "", wantErr: true},
		{in: ":1", wantErr: true},
		{in: "gpu:x", wantErr: true},
		{in: "gpu:-1", wantErr: true},
	}

	for _, tc := range grid {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "cpu:0", New("cpu", 0).String())
	assert.Equal(t, "gpu:2", New("gpu", 2).String())
}

func TestCompare(t *testing.T) {
	assert.Negative(t, New("cpu", 0).Compare(New("gpu", 0)))
	assert.Negative(t, New("cpu", 0).Compare(New("cpu", 1)))
	assert.Zero(t, New("cpu", 1).Compare(New("cpu", 1)))
	assert.Positive(t, New("gpu", 0).Compare(New("cpu", 7)))
}

func TestMapKey(t *testing.T) {
	m := map[Device]int{}
	m[New("cpu", 0)] = 1
	m[New("cpu", 0)] = 2
	m[New("cpu", 1)] = 3
	require.Len(t, m, 2)
	assert.Equal(t, 2, m[New("cpu", 0)])
}
