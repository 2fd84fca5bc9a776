// Package notify pushes back-office notifications to the admin Telegram chat.
// An empty token disables the channel without affecting the rest of the
// service; notification failures are logged, never surfaced to the customer.
package notify

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NeuralStories/cortinas-presupuesto/internal/domain/orders"
)

type Notifier struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	adminChat int64
}

// New connects the bot API. With an empty token it returns a disabled
// notifier and no error.
func New(token string, adminChat int64, log *slog.Logger) (*Notifier, error) {
	if token == "" {
		return &Notifier{log: log}, nil
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}
	return &Notifier{api: api, log: log, adminChat: adminChat}, nil
}

// OrderSubmitted sends a short summary of a freshly submitted order.
func (n *Notifier) OrderSubmitted(o *orders.Order) {
	if n.api == nil {
		return
	}

	var b strings.Builder
	if o.Outcome == "direct_purchase" {
		b.WriteString("Nuevo pedido directo\n")
	} else {
		b.WriteString("Nueva solicitud de información\n")
	}
	fmt.Fprintf(&b, "%s %s — %s\n", o.FirstName, o.LastName, o.CompanyName)
	fmt.Fprintf(&b, "Tel: %s / %s\n", o.Phone, o.Email)
	fmt.Fprintf(&b, "Selección: %s", o.Selection.Category)
	if o.Selection.MaterialName != "" {
		fmt.Fprintf(&b, " (%s)", o.Selection.MaterialName)
	}
	fmt.Fprintf(&b, "\nUnidades: %d", o.TotalUnits)
	if o.PriceShown {
		fmt.Fprintf(&b, " — Total: %.2f€", o.TotalPrice)
	} else {
		b.WriteString(" — Precio oculto (consultar)")
	}

	msg := tgbotapi.NewMessage(n.adminChat, b.String())
	if _, err := n.api.Send(msg); err != nil {
		n.log.Error("order notification failed", "order_id", o.ID, "err", err)
	}
}
