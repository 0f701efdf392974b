package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// SessionStatus describes the connected wallet and its roles on each vault
type SessionStatus struct {
	Connected bool
	Identity  string
	Roles     []VaultRole
}

// VaultRole lists what the connected identity may do on one vault
type VaultRole struct {
	VaultID string
	Name    string
	Signer  bool
	Admin   bool
}

// ManageSession connects, disconnects and inspects the wallet session
type ManageSession struct {
	session  WalletSession
	ledgers  LedgerProvider
	notifier NotificationSink
}

// NewManageSession creates a new ManageSession use case
func NewManageSession(session WalletSession, ledgers LedgerProvider, notifier NotificationSink) *ManageSession {
	return &ManageSession{
		session:  session,
		ledgers:  ledgers,
		notifier: notifier,
	}
}

// Connect stores identity as the current wallet
func (uc *ManageSession) Connect(ctx context.Context, identity string) (*SessionStatus, error) {
	if err := uc.session.Connect(ctx, identity); err != nil {
		return nil, err
	}

	status, err := uc.Status(ctx)
	if err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, models.Notification{
		Kind:    models.NotifySession,
		Message: fmt.Sprintf("Connected as %s", status.Identity),
		Level:   models.NotificationSuccess,
	})
	return status, nil
}

// Disconnect clears the current wallet
func (uc *ManageSession) Disconnect(ctx context.Context) error {
	if !uc.session.IsConnected(ctx) {
		return fmt.Errorf("no wallet connected")
	}
	if err := uc.session.Disconnect(ctx); err != nil {
		return err
	}

	uc.notifier.Notify(ctx, models.Notification{
		Kind:    models.NotifySession,
		Message: "Disconnected",
		Level:   models.NotificationInfo,
	})
	return nil
}

// Status reports the current wallet and its roles on every configured vault
func (uc *ManageSession) Status(ctx context.Context) (*SessionStatus, error) {
	identity, ok := uc.session.CurrentIdentity(ctx)
	if !ok {
		return &SessionStatus{}, nil
	}

	status := &SessionStatus{Connected: true, Identity: identity}
	for _, v := range uc.ledgers.Vaults() {
		pl, err := uc.ledgers.Ledger(v.ID)
		if err != nil {
			return nil, err
		}
		status.Roles = append(status.Roles, VaultRole{
			VaultID: v.ID,
			Name:    v.Name,
			Signer:  pl.IsSigner(identity),
			Admin:   pl.IsAdmin(identity),
		})
	}
	return status, nil
}
