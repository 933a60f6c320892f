package notifier

import (
	"runtime/debug"

	"github.com/core-coin/vectigal/pkg/logger"
)

// Notifier fans operator alerts out to every configured channel.
// Channels are optional; with none configured Alert is a no-op beyond
// logging. Alerts are best-effort and must never fail a ledger
// operation.
type Notifier struct {
	logger *logger.Logger

	TelegramNotifier *TelegramNotifier
	EmailNotifier    *EmailNotifier
}

func NewNotifier(logger *logger.Logger, telNotif *TelegramNotifier, emailNotif *EmailNotifier) *Notifier {
	return &Notifier{logger: logger, TelegramNotifier: telNotif, EmailNotifier: emailNotif}
}

// safeCall runs a function with panic recovery
func (n *Notifier) safeCall(fn func(), context string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Function panicked",
				"context", context,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

func (n *Notifier) Alert(message string) {
	n.logger.Info("Operator alert: ", message)

	if n.TelegramNotifier != nil {
		n.safeCall(func() { n.TelegramNotifier.SendAlert(message) }, "telegramAlert")
	}
	if n.EmailNotifier != nil {
		n.safeCall(func() { n.EmailNotifier.SendAlert(message) }, "emailAlert")
	}
}
