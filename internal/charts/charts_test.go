package charts

import (
	"bytes"
	"testing"

	"github.com/ivanoskov/balance_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func TestGenerateBalanceChart(t *testing.T) {
	png, err := NewChartGenerator().GenerateBalanceChart([]model.BalanceResult{
		{Network: "Ethereum Mainnet", Address: "0x1111111111111111111111111111111111111111", Balance: 1.5, Symbol: "ETH"},
		{Network: "Base Network", Address: "0x1111111111111111111111111111111111111111", Balance: 0.25, Symbol: "ETH"},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngSignature))
}

func TestGenerateBalanceChart_AllZero(t *testing.T) {
	png, err := NewChartGenerator().GenerateBalanceChart([]model.BalanceResult{
		{Network: "Ethereum Mainnet", Address: "0x2222222222222222222222222222222222222222", Balance: 0, Symbol: "ETH"},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngSignature))
}

func TestGenerateBalanceChart_Empty(t *testing.T) {
	png, err := NewChartGenerator().GenerateBalanceChart(nil)
	assert.NoError(t, err)
	assert.Nil(t, png)
}

func TestBarChartWidth(t *testing.T) {
	assert.Equal(t, 800, barChartWidth(1))
	assert.Equal(t, 2000, barChartWidth(10))
}
