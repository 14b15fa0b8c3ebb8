package server

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/ivanoskov/balance_bot/internal/model"
)

var features = []string{
	"Multiple wallet addresses support",
	"No API keys required",
	"Free public RPC endpoints",
	"Real-time balance checking",
}

// StatusResponse - ответ GET /api/webhook
type StatusResponse struct {
	Status      string            `json:"status"`
	BotInfo     string            `json:"bot_info,omitempty"`
	BotUsername string            `json:"bot_username,omitempty"`
	Error       string            `json:"error,omitempty"`
	Networks    []string          `json:"networks"`
	Features    []string          `json:"features,omitempty"`
	Endpoints   map[string]string `json:"endpoints,omitempty"`
}

func (s *Server) webhook(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No data received",
			"ok":    false,
		})
	}

	if err := s.handler.HandleWebhook(c.UserContext(), body); err != nil {
		slog.Error("error processing webhook", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
			"ok":    false,
		})
	}

	return c.JSON(fiber.Map{"ok": true, "status": "processed"})
}

func (s *Server) status(c *fiber.Ctx) error {
	networks := networkNames(s.handler.Networks())

	me, err := s.handler.Me()
	if err != nil {
		return c.JSON(StatusResponse{
			Status:   "Bot configuration error",
			Error:    err.Error(),
			Networks: networks,
		})
	}

	return c.JSON(StatusResponse{
		Status:      "Bot is running",
		BotInfo:     "Wallet Balance Checker Bot",
		BotUsername: "@" + me.UserName,
		Networks:    networks,
		Features:    features,
		Endpoints: map[string]string{
			"webhook":   "/api/webhook (POST)",
			"status":    "/api/webhook (GET)",
			"dashboard": "/ (GET)",
		},
	})
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Wallet Balance Checker Bot</title>
</head>
<body style="font-family: sans-serif; max-width: 800px; margin: 50px auto; padding: 20px;">
    <h1>🤖 Wallet Balance Checker Bot</h1>
    <p>Telegram bot for checking wallet balances on public EVM networks.</p>
    <p><strong>Networks:</strong></p>
    <ul>
{{- range .Networks}}
        <li>{{.}}</li>
{{- end}}
    </ul>
    <p><strong>Features:</strong></p>
    <ul>
{{- range .Features}}
        <li>{{.}}</li>
{{- end}}
    </ul>
    <hr>
    <p><strong>API Endpoint:</strong> {{.PublicURL}}/api/webhook</p>
    <p><strong>Status:</strong> Online ✅</p>
</body>
</html>
`))

func (s *Server) dashboard(c *fiber.Ctx) error {
	var buf bytes.Buffer
	err := dashboardTemplate.Execute(&buf, struct {
		Networks  []string
		Features  []string
		PublicURL string
	}{
		Networks:  networkNames(s.handler.Networks()),
		Features:  features,
		PublicURL: s.publicURL,
	})
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

func networkNames(networks []model.Network) []string {
	names := make([]string, 0, len(networks))
	for _, network := range networks {
		names = append(names, network.Name)
	}
	return names
}
