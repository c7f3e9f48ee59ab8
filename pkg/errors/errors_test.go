package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	assert.NoError(t, Store("noop", nil))

	cause := stderrors.New("connection refused")
	err := Store("flash_sales", cause)
	require.Error(t, err)

	var sf *ErrStoreFailure
	require.True(t, stderrors.As(err, &sf))
	assert.Equal(t, "flash_sales", sf.Op)
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, "store failure in flash_sales: connection refused", err.Error())
}

func TestStore_PassesTypedErrors(t *testing.T) {
	nf := NotFound("flash_sale", 42)
	assert.Same(t, nf, Store("resolve", nf))
	assert.Equal(t, "flash_sale not found: 42", nf.Error())

	wrapped := Store("outer", Store("inner", stderrors.New("boom")))
	var sf *ErrStoreFailure
	require.True(t, stderrors.As(wrapped, &sf))
	assert.Equal(t, "inner", sf.Op)
}

func TestInvalidStateMessage(t *testing.T) {
	assert.Equal(t, "invalid state", (&ErrInvalidState{}).Error())
	assert.Equal(t, "bad group", (&ErrInvalidState{Message: "bad group"}).Error())
}
