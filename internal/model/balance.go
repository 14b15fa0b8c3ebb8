package model

import "math/big"

// Network описывает поддерживаемую сеть и её RPC-эндпоинты в порядке приоритета
type Network struct {
	Name      string   `json:"name" yaml:"name"`
	Symbol    string   `json:"symbol" yaml:"symbol"`
	Decimals  int      `json:"decimals" yaml:"decimals"`
	Endpoints []string `json:"endpoints" yaml:"endpoints"`
}

// BalanceResult - баланс одного адреса в одной сети
type BalanceResult struct {
	Network string   `json:"network"`
	Address string   `json:"address"`
	Balance float64  `json:"balance"`
	Symbol  string   `json:"symbol"`
	Wei     *big.Int `json:"wei,omitempty"`
	Source  string   `json:"source,omitempty"`
}
