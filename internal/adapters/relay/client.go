package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

const (
	defaultTimeout = 2 * time.Minute
	// maxPages bounds the proposal listing in case the service keeps returning next links
	maxPages = 100
)

// ErrServiceNotConfigured is returned when no transaction service URL is set
var ErrServiceNotConfigured = errors.New("vault transaction service is not configured, set [service] url in vault.toml or VAULT_SERVICE_URL")

// Client talks to the vault transaction service. It indexes proposals and relays
// approve, reject and execute transactions signed by the connected wallet.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	session    usecase.WalletSession
	log        *slog.Logger
}

// NewClient creates a new relay client from the service configuration
func NewClient(cfg *config.RuntimeConfig, session usecase.WalletSession, log *slog.Logger) *Client {
	timeout := cfg.Service.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.Service.URL, "/"),
		apiKey:     cfg.Service.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		session:    session,
		log:        log,
	}
}

// FetchProposals retrieves every proposal of a ledger, following pagination
func (c *Client) FetchProposals(ctx context.Context, ledgerID string) ([]*models.Proposal, error) {
	if c.baseURL == "" {
		return nil, ErrServiceNotConfigured
	}

	next := fmt.Sprintf("%s/api/v1/vaults/%s/proposals/", c.baseURL, url.PathEscape(ledgerID))
	var proposals []*models.Proposal

	for page := 0; next != ""; page++ {
		if page >= maxPages {
			return nil, fmt.Errorf("proposal listing exceeded %d pages", maxPages)
		}

		var result proposalPage
		if err := c.do(ctx, http.MethodGet, next, nil, &result); err != nil {
			return nil, err
		}

		for _, record := range result.Results {
			p, err := record.ToProposal()
			if err != nil {
				c.log.Warn("skipping malformed proposal record", "ledger", ledgerID, "error", err)
				continue
			}
			proposals = append(proposals, p)
		}

		next = ""
		if result.Next != nil {
			next = *result.Next
		}
	}

	c.log.Debug("fetched proposals", "ledger", ledgerID, "count", len(proposals))
	return proposals, nil
}

// SubmitApprove relays an approval by the connected wallet
func (c *Client) SubmitApprove(ctx context.Context, ledgerID, proposalID string) (*models.TxResult, error) {
	return c.submit(ctx, ledgerID, proposalID, "approve", "")
}

// SubmitReject relays a rejection by the connected wallet
func (c *Client) SubmitReject(ctx context.Context, ledgerID, proposalID, reason string) (*models.TxResult, error) {
	return c.submit(ctx, ledgerID, proposalID, "reject", reason)
}

// SubmitExecute relays an execution by the connected wallet
func (c *Client) SubmitExecute(ctx context.Context, ledgerID, proposalID string) (*models.TxResult, error) {
	return c.submit(ctx, ledgerID, proposalID, "execute", "")
}

func (c *Client) submit(ctx context.Context, ledgerID, proposalID, action, reason string) (*models.TxResult, error) {
	if c.baseURL == "" {
		return nil, ErrServiceNotConfigured
	}

	sender, ok := c.session.CurrentIdentity(ctx)
	if !ok {
		return nil, domain.ErrNotConnected
	}

	endpoint := fmt.Sprintf("%s/api/v1/vaults/%s/proposals/%s/%s/",
		c.baseURL, url.PathEscape(ledgerID), url.PathEscape(proposalID), action)

	c.log.Debug("submitting transaction", "action", action, "ledger", ledgerID, "proposal", proposalID, "sender", sender)

	var result submitResponse
	if err := c.do(ctx, http.MethodPost, endpoint, submitRequest{Sender: sender, Reason: reason}, &result); err != nil {
		return nil, err
	}
	return &models.TxResult{TxHash: result.TxHash}, nil
}

// Ensure Client implements the relay ports
var (
	_ usecase.Submitter      = (*Client)(nil)
	_ usecase.ProposalSource = (*Client)(nil)
)
