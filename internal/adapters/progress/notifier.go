package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// ConsoleNotifier prints notifications as colored, prefixed lines
type ConsoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleNotifier creates a notifier writing to stderr
func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{out: os.Stderr}
}

// NewConsoleNotifierTo creates a notifier writing to w
func NewConsoleNotifierTo(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: w}
}

// Notify prints one notification
func (n *ConsoleNotifier) Notify(_ context.Context, note models.Notification) {
	icon, c := style(note.Level)

	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "%s %s\n", c.Sprint(icon), note.Message)
}

func style(level models.NotificationLevel) (string, *color.Color) {
	switch level {
	case models.NotificationSuccess:
		return "✓", color.New(color.FgGreen, color.Bold)
	case models.NotificationWarning:
		return "⚠", color.New(color.FgYellow)
	case models.NotificationError:
		return "✗", color.New(color.FgRed, color.Bold)
	default:
		return "ℹ", color.New(color.FgCyan)
	}
}

// Ensure ConsoleNotifier implements NotificationSink
var _ usecase.NotificationSink = (*ConsoleNotifier)(nil)
