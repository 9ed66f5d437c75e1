package asyncrx_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/asyncrx"
)

func TestAsyncT_Accessors(t *testing.T) {
	u := asyncrx.UninitializedOf[int]()
	assert.True(t, u.IsUninitialized())

	l := asyncrx.LoadingWithRetainOf(5)
	r, ok := l.Retained()
	require.True(t, ok)
	assert.Equal(t, 5, r)

	s := asyncrx.SuccessOf(7)
	v, ok := s.Value()
	require.True(t, ok)
	assert.Equal(t, 7, v)
	_, ok = s.Retained()
	assert.False(t, ok, "Success never carries a retained slot")

	f := asyncrx.FailureWithRetainOf(asyncrx.Timeout(), 3)
	ek, ok := f.Err()
	require.True(t, ok)
	assert.Equal(t, asyncrx.KindTimeout, ek.Kind())
	r, ok = f.Retained()
	require.True(t, ok)
	assert.Equal(t, 3, r)
}

func TestAsyncT_JSONRoundTrip(t *testing.T) {
	cases := []asyncrx.AsyncT[int]{
		asyncrx.UninitializedOf[int](),
		asyncrx.LoadingOf[int](),
		asyncrx.LoadingWithRetainOf(4),
		asyncrx.SuccessOf(9),
		asyncrx.FailureOf[int](asyncrx.Cancelled()),
		asyncrx.FailureWithRetainOf(asyncrx.MessageString("bad"), 2),
	}
	for _, c := range cases {
		data, err := json.Marshal(c)
		require.NoError(t, err)

		var decoded asyncrx.AsyncT[int]
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, c.String(), decoded.String())
	}
}
