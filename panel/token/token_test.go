// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package token_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gaskeo/limq-panel/panel/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hexChars = "0123456789abcdef"

func TestChannelID(t *testing.T) {
	idp := token.New()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := idp.ChannelID()
		require.Nil(t, err, fmt.Sprintf("got unexpected error: %s", err))

		assert.Len(t, id, token.ChannelIDLength, fmt.Sprintf("expected id of length %d got %d", token.ChannelIDLength, len(id)))
		for _, c := range id {
			assert.True(t, strings.ContainsRune(hexChars, c), fmt.Sprintf("unexpected character %q in channel id", c))
		}

		assert.False(t, seen[id], fmt.Sprintf("expected unique channel id, got duplicate %s", id))
		seen[id] = true
	}
}

func TestKey(t *testing.T) {
	idp := token.New()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key, err := idp.Key()
		require.Nil(t, err, fmt.Sprintf("got unexpected error: %s", err))

		assert.Len(t, key, token.KeyLength, fmt.Sprintf("expected key of length %d got %d", token.KeyLength, len(key)))
		for _, c := range key {
			ok := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
			assert.True(t, ok, fmt.Sprintf("unexpected character %q in key", c))
		}

		assert.False(t, seen[key], fmt.Sprintf("expected unique key, got duplicate %s", key))
		seen[key] = true
	}
}

func TestKeyCharacterCoverage(t *testing.T) {
	idp := token.New()

	counts := map[rune]int{}
	for i := 0; i < 500; i++ {
		key, err := idp.Key()
		require.Nil(t, err, fmt.Sprintf("got unexpected error: %s", err))

		for _, c := range key {
			counts[c]++
		}
	}

	const keyChars = "qwertyuiopasdfghjklzxcvbnmQWERTYUIOPASDFGHJKLZXCVBNM1234567890"
	for _, c := range keyChars {
		assert.True(t, counts[c] > 0, fmt.Sprintf("expected character %q to occur in generated keys", c))
	}
}
