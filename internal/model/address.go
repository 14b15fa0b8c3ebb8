package model

import (
	"regexp"
	"strings"
)

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// IsValidAddress проверяет формат EVM-адреса: 0x + 40 hex-символов
func IsValidAddress(address string) bool {
	return addressPattern.MatchString(strings.TrimSpace(address))
}

// ParseAddresses разбирает список адресов через запятую.
// Невалидные адреса отбрасываются, порядок и дубликаты сохраняются.
func ParseAddresses(text string) []string {
	addresses := make([]string, 0)
	for _, part := range strings.Split(text, ",") {
		address := strings.TrimSpace(part)
		if IsValidAddress(address) {
			addresses = append(addresses, address)
		}
	}
	return addresses
}

// JoinAddresses собирает адреса обратно в формат ввода пользователя
func JoinAddresses(addresses []string) string {
	return strings.Join(addresses, ", ")
}
