package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ivanoskov/balance_bot/internal/model"
)

// NoBalancesMessage показывается, если не удалось получить ни одного баланса
const NoBalancesMessage = "❌ Unable to fetch balance information for any of the provided addresses."

// FormatBalances форматирует балансы для отправки в Telegram (Markdown)
func FormatBalances(results []model.BalanceResult) string {
	if len(results) == 0 {
		return NoBalancesMessage
	}

	var b strings.Builder
	b.WriteString("💰 *Wallet Balance Information*\n\n")
	for i, result := range results {
		fmt.Fprintf(&b, "#%d 🌐 *%s*\n", i+1, result.Network)
		fmt.Fprintf(&b, "📍 Address: `%s`\n", ShortAddress(result.Address))
		fmt.Fprintf(&b, "💎 Balance: *%s %s*\n\n", FormatAmount(result.Balance), result.Symbol)
	}
	return b.String()
}

// FormatFailedWarning - строка о количестве адресов без данных
func FormatFailedWarning(failed int) string {
	return fmt.Sprintf("⚠️ Could not fetch data for %d address(es) due to network issues.", failed)
}

// FormatReport собирает итоговое сообщение с предупреждением о неудачных адресах
func FormatReport(report Report) string {
	text := FormatBalances(report.Results)
	if len(report.Failed) > 0 {
		text += "\n" + FormatFailedWarning(len(report.Failed))
	}
	return text
}

// FormatAmount форматирует баланс с 6 знаками после запятой
func FormatAmount(balance float64) string {
	return strconv.FormatFloat(balance, 'f', 6, 64)
}

// ShortAddress оставляет первые 10 и последние 8 символов адреса
func ShortAddress(address string) string {
	if len(address) <= 18 {
		return address
	}
	return address[:10] + "..." + address[len(address)-8:]
}
