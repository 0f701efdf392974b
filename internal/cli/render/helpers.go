package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

var (
	printer     = message.NewPrinter(language.English)
	titleCaser  = cases.Title(language.English)
	labelStyle  = color.New(color.Faint)
	headerStyle = color.New(color.Bold, color.FgHiWhite)
	idStyle     = color.New(color.FgWhite, color.Bold)
	addrStyle   = color.New(color.FgBlue)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return color.New(color.FgRed).Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// StatusLabel returns the colored, title-cased status name
func StatusLabel(status models.ProposalStatus) string {
	label := titleCaser.String(string(status))
	switch status {
	case models.ProposalStatusPending:
		return color.New(color.FgYellow).Sprint(label)
	case models.ProposalStatusApproved:
		return color.New(color.FgCyan, color.Bold).Sprint(label)
	case models.ProposalStatusExecuted:
		return color.New(color.FgGreen).Sprint(label)
	case models.ProposalStatusRejected:
		return color.New(color.FgRed).Sprint(label)
	default:
		return color.New(color.Faint).Sprint(label)
	}
}

// FormatBlocks formats a block count with thousands separators
func FormatBlocks(n uint64) string {
	if n == 1 {
		return "1 block"
	}
	return printer.Sprintf("%d blocks", n)
}

// FormatHeight formats a block height with thousands separators
func FormatHeight(n uint64) string {
	return printer.Sprintf("%d", n)
}

func shortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

func vaultLabel(name, id string) string {
	if name == "" {
		return id
	}
	return fmt.Sprintf("%s (%s)", name, id)
}

// newTable creates a borderless table in the style of the list commands
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateRows = false
	t.Style().Box.PaddingLeft = ""
	t.Style().Box.PaddingRight = "   "
	return t
}

// writeYAML encodes v as a YAML document
func writeYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return relPath
}
