package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Count int
	Rows  []int64
	Vals  []float64
	Note  string
}

func TestRoundTrip(t *testing.T) {
	codecs := []Codec{Gob{}, JSON{}}

	in := payload{
		Count: 3,
		Rows:  []int64{0, 2, 5},
		Vals:  []float64{1.5, -2.25, 0},
		Note:  "ok",
	}

	for _, c := range codecs {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(in)
			require.NoError(t, err)

			var out payload
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestByName(t *testing.T) {
	c, ok := ByName("gob")
	require.True(t, ok)
	assert.Equal(t, "gob", c.Name())

	c, ok = ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestMustMarshalNilCodecUsesDefault(t *testing.T) {
	data := MustMarshal(nil, payload{Count: 1})
	var out payload
	require.NoError(t, Default.Unmarshal(data, &out))
	assert.Equal(t, 1, out.Count)
}
