package bot

import (
	"fmt"
	"strings"

	"github.com/ivanoskov/balance_bot/internal/model"
)

const (
	exampleAddress = "0x742d35Cc6037Cc532831d4f21b72573A6ec5f35f"

	startFirstText = "Please use /start to begin checking wallet balances."

	invalidAddressesText = "❌ No valid wallet addresses found. Please ensure your addresses:\n" +
		"• Start with '0x'\n" +
		"• Are 42 characters long\n" +
		"• Contain only hexadecimal characters\n\n" +
		"Try again or use /start to restart."

	checkMoreText = "Would you like to check more addresses? Just paste them, or use /start to restart."

	processingErrorText = "❌ An error occurred while processing your request.\n\n" +
		"This might be due to:\n" +
		"• Network connectivity issues\n" +
		"• RPC endpoint unavailability\n" +
		"• Temporary server problems\n\n" +
		"Please try again in a few moments."
)

var networkIcons = []string{"🟦", "🔵"}

func networkList(networks []model.Network) string {
	var b strings.Builder
	for i, network := range networks {
		fmt.Fprintf(&b, "• %s %s\n", networkIcons[i%len(networkIcons)], network.Name)
	}
	return b.String()
}

func welcomeText(networks []model.Network) string {
	return "🚀 *Welcome to Wallet Balance Checker Bot!*\n\n" +
		"I can help you check wallet balances on:\n" +
		networkList(networks) + "\n" +
		"📝 *Supported address format:*\n" +
		"• Single: `" + exampleAddress + "`\n" +
		"• Multiple: `address1, address2, address3` (comma-separated)\n\n" +
		"Enter your wallet address(es) below to get started!"
}

func helpText(networks []model.Network) string {
	return "🤖 *Wallet Balance Checker Bot Help*\n\n" +
		"*Commands:*\n" +
		"• `/start` - Start checking wallet balances\n" +
		"• `/help` - Show this help message\n\n" +
		"*Supported Networks:*\n" +
		networkList(networks) + "\n" +
		"*Address Format:*\n" +
		"• Must start with `0x`\n" +
		"• Must be 42 characters long\n" +
		"• Example: `" + exampleAddress + "`\n\n" +
		"*Multiple Addresses:*\n" +
		"Separate with commas:\n" +
		"`address1, address2, address3`\n\n" +
		"*Note:* No API keys required! Uses free public RPC endpoints."
}
