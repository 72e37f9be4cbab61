// Copyright (c) 2025 The StakeHive developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakehive

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	addr := BytesToAddress([]byte("account1"))
	assert.False(t, addr.IsZero())
	assert.True(t, Address{}.IsZero())
	assert.Len(t, addr.Bytes(), AddressLength)

	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, *parsed)

	// without 0x prefix
	parsed, err = ParseAddress(addr.String()[2:])
	require.NoError(t, err)
	assert.Equal(t, addr, *parsed)

	_, err = ParseAddress("0x1234")
	assert.Error(t, err)
	_, err = ParseAddress("zz" + addr.String()[2:])
	assert.Error(t, err)

	assert.Equal(t, addr, MustParseAddress(addr.String()))
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("account1"))

	raw, err := json.Marshal(&addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, addr, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"0x1234"`), &decoded))
}

func TestBytes32(t *testing.T) {
	b := Blake2b([]byte("payload"))
	assert.False(t, b.IsZero())

	parsed, err := ParseBytes32(b.String())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	_, err = ParseBytes32("0x1234")
	assert.Error(t, err)

	raw, err := json.Marshal(&b)
	require.NoError(t, err)
	var decoded Bytes32
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, b, decoded)
}

func TestBlake2bConcat(t *testing.T) {
	// the multi-slice path hashes the concatenation
	assert.Equal(t, Blake2b([]byte("foobar")), Blake2b([]byte("foo"), []byte("bar")))
	assert.NotEqual(t, Blake2b([]byte("foo")), Blake2b([]byte("bar")))
}

func TestKeccak256(t *testing.T) {
	// well-known empty-input digest
	assert.Equal(t,
		MustParseBytes32("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
		Keccak256())

	assert.Equal(t, Keccak256([]byte("foobar")), Keccak256([]byte("foo"), []byte("bar")))
}
