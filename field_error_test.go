package asyncrx_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/asyncrx"
)

func TestExtractField_NoFieldError_ReturnsFalse(t *testing.T) {
	_, ok := asyncrx.ExtractField(errors.New("plain"))
	assert.False(t, ok)

	_, ok = asyncrx.ExtractPhase(asyncrx.Cancelled())
	assert.False(t, ok)
}

func TestExecute_FieldTag_UnwrapsToCause(t *testing.T) {
	h := asyncrx.New(resultState{})
	defer h.Close()

	asyncrx.Execute(h, setResult, func() (int, error) { return 0, errors.New("boom") }, "result")

	final := awaitTerminal(t, h)
	ek, _ := final.result.Err()
	assert.Equal(t, "boom", ek.Error())
	require.NotNil(t, ek.Unwrap())
	assert.Equal(t, "boom", ek.Unwrap().Error())

	var fe asyncrx.FieldError
	require.True(t, errors.As(ek, &fe))
	field, ok := fe.Field()
	assert.True(t, ok)
	assert.Equal(t, "result", field)
}
