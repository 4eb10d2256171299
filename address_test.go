package fundpool

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EricInMarkham/fundpool/errors"
)

func TestNewAddress(t *testing.T) {
	a := NewAddress([]byte("some identity"))
	assert.NoError(t, a.Validate())
	assert.Equal(t, AddressLength, len(a))

	// derivation is deterministic
	assert.True(t, a.Equals(NewAddress([]byte("some identity"))))
	assert.False(t, a.Equals(NewAddress([]byte("other identity"))))

	assert.Nil(t, NewAddress(nil))
}

func TestAddressValidate(t *testing.T) {
	var empty Address
	err := empty.Validate()
	assert.True(t, errors.ErrInput.Is(err))

	short := Address{1, 2, 3}
	err = short.Validate()
	assert.True(t, errors.ErrInput.Is(err))
}

func TestParseAddress(t *testing.T) {
	a := NewAddress([]byte("parse me"))

	got, err := ParseAddress(a.String())
	require.NoError(t, err)
	assert.True(t, a.Equals(got))

	_, err = ParseAddress("not-hex")
	assert.True(t, errors.ErrInput.Is(err))

	// valid hex of the wrong length is still rejected
	_, err = ParseAddress("0123")
	assert.True(t, errors.ErrInput.Is(err))
}

func TestAddressJSON(t *testing.T) {
	a := NewAddress([]byte("json roundtrip"))

	raw, err := json.Marshal(a)
	require.NoError(t, err)

	var got Address
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, a.Equals(got))

	var nilAddr Address
	require.NoError(t, json.Unmarshal([]byte(`""`), &nilAddr))
	assert.Nil(t, nilAddr)
}

func TestAddressClone(t *testing.T) {
	a := NewAddress([]byte("clone me"))
	b := a.Clone()
	assert.True(t, a.Equals(b))

	b[0]++
	assert.False(t, a.Equals(b))

	var empty Address
	assert.Nil(t, empty.Clone())
}
