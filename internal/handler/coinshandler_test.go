package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitIDs(t *testing.T) {
	assert.Nil(t, splitIDs(""), "empty input keeps defaults in play")
	assert.Nil(t, splitIDs("   "))
	assert.Equal(t, []string{"bitcoin"}, splitIDs("bitcoin"))
	assert.Equal(t, []string{"bitcoin", "ethereum"}, splitIDs("bitcoin, ethereum"))
	assert.Equal(t, []string{"bitcoin", "solana"}, splitIDs(",bitcoin,,solana,"), "empty segments are dropped")
}
