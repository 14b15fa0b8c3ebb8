package service

import (
	"context"

	"github.com/ivanoskov/balance_bot/internal/model"
)

// Report - результат проверки пачки адресов
type Report struct {
	Results   []model.BalanceResult
	Failed    []string
	Requested int
}

// ProgressFunc вызывается перед обработкой очередного адреса (current начинается с 1)
type ProgressFunc func(current, total int)

// BalanceChecker опрашивает все сети для каждого адреса
type BalanceChecker struct {
	fetcher  Fetcher
	networks []model.Network
}

// NewBalanceChecker создает новый экземпляр BalanceChecker
func NewBalanceChecker(fetcher Fetcher, networks []model.Network) *BalanceChecker {
	return &BalanceChecker{
		fetcher:  fetcher,
		networks: networks,
	}
}

// Networks возвращает сети в порядке опроса
func (c *BalanceChecker) Networks() []model.Network {
	return c.networks
}

// Check последовательно запрашивает балансы: адреса по порядку, внутри адреса - сети по порядку.
// Адрес, по которому не ответила ни одна сеть, попадает в Failed.
func (c *BalanceChecker) Check(ctx context.Context, addresses []string, progress ProgressFunc) Report {
	report := Report{
		Results:   make([]model.BalanceResult, 0, len(addresses)*len(c.networks)),
		Requested: len(addresses),
	}

	for i, address := range addresses {
		if progress != nil {
			progress(i+1, len(addresses))
		}

		found := false
		for _, network := range c.networks {
			result, ok := c.fetcher.Fetch(ctx, network, address)
			if !ok || result == nil {
				continue
			}
			report.Results = append(report.Results, *result)
			found = true
		}
		if !found {
			report.Failed = append(report.Failed, address)
		}
	}

	return report
}
