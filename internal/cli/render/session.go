package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// SessionRenderer renders the wallet session state
type SessionRenderer struct {
	out io.Writer
}

// NewSessionRenderer creates a new session renderer
func NewSessionRenderer(out io.Writer) *SessionRenderer {
	return &SessionRenderer{out: out}
}

// Render renders the connected identity and its roles
func (r *SessionRenderer) Render(status *usecase.SessionStatus) error {
	if !status.Connected {
		fmt.Fprintln(r.out, "No wallet connected")
		return nil
	}

	fmt.Fprintf(r.out, "Connected as %s\n", addrStyle.Sprint(status.Identity))
	if len(status.Roles) == 0 {
		return nil
	}

	fmt.Fprintln(r.out)
	t := newTable()
	t.AppendHeader(table.Row{"Vault", "Address", "Role"})
	for _, role := range status.Roles {
		var roles []string
		if role.Signer {
			roles = append(roles, "signer")
		}
		if role.Admin {
			roles = append(roles, "admin")
		}
		if len(roles) == 0 {
			roles = append(roles, labelStyle.Sprint("no role"))
		}
		t.AppendRow(table.Row{headerStyle.Sprint(role.Name), addrStyle.Sprint(role.VaultID), strings.Join(roles, ", ")})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

var _ Renderer[*usecase.SessionStatus] = (*SessionRenderer)(nil)
