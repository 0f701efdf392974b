package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

const (
	ledgerID = "0x9999999999999999999999999999999999999999"
	sender   = "0x1111111111111111111111111111111111111111"
)

type staticSession struct {
	identity string
}

func (s staticSession) CurrentIdentity(context.Context) (string, bool) {
	return s.identity, s.identity != ""
}

func (s staticSession) IsConnected(context.Context) bool {
	return s.identity != ""
}

func (staticSession) Connect(context.Context, string) error { return nil }

func (staticSession) Disconnect(context.Context) error { return nil }

func newTestClient(t *testing.T, handler http.Handler, identity string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.RuntimeConfig{
		Service: config.ServiceConfig{URL: server.URL + "/", APIKey: "secret", Timeout: 5 * time.Second},
	}
	return NewClient(cfg, staticSession{identity: identity}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetchProposals(t *testing.T) {
	var serverURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/vaults/"+ledgerID+"/proposals/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"count":3,"next":null,"results":[
				{"id":"p3","proposer":"0x1111111111111111111111111111111111111111","recipient":"0x2222222222222222222222222222222222222222",
				 "amount":"0x10","token":"DAI","approvals":3,"threshold":3,"status":"executed",
				 "submissionDate":"2025-01-02T03:04:05Z","transactionHash":"0xexec"},
				{"id":"bad","amount":"12","threshold":1,"status":"unknown"}
			]}`)
			return
		}
		fmt.Fprintf(w, `{"count":3,"next":"%s/api/v1/vaults/%s/proposals/?page=2","results":[
			{"id":"p1","proposer":"0x1111111111111111111111111111111111111111","recipient":"0x2222222222222222222222222222222222222222",
			 "amount":"1000000000000000000000","token":"USDC","approvals":1,"threshold":3,
			 "confirmations":["0x1111111111111111111111111111111111111111"],"status":"pending",
			 "submissionDate":"2025-01-02T03:04:05Z","unlockBlock":1500,"transactionHash":null}
		]}`, serverURL, ledgerID)
	})

	server := httptest.NewServer(mux)
	defer server.Close()
	serverURL = server.URL

	client := NewClient(&config.RuntimeConfig{Service: config.ServiceConfig{URL: server.URL, APIKey: "secret"}},
		staticSession{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	proposals, err := client.FetchProposals(context.Background(), ledgerID)
	require.NoError(t, err)
	require.Len(t, proposals, 2)

	p1 := proposals[0]
	assert.Equal(t, "p1", p1.ID)
	assert.Equal(t, "1000000000000000000000", p1.AmountString())
	assert.Equal(t, models.ProposalStatusPending, p1.Status)
	assert.Equal(t, uint64(1500), p1.UnlockBlock)
	assert.Equal(t, []string{sender}, p1.ApprovedBy)
	assert.Empty(t, p1.ExecutionTxHash)

	p3 := proposals[1]
	assert.Equal(t, "16", p3.AmountString())
	assert.Equal(t, models.ProposalStatusExecuted, p3.Status)
	assert.Equal(t, "0xexec", p3.ExecutionTxHash)
}

func TestFetchProposals_Errors(t *testing.T) {
	t.Run("service not configured", func(t *testing.T) {
		client := NewClient(&config.RuntimeConfig{}, staticSession{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		_, err := client.FetchProposals(context.Background(), ledgerID)
		assert.ErrorIs(t, err, ErrServiceNotConfigured)
	})

	t.Run("unexpected status", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, "upstream down")
		}), "")

		_, err := client.FetchProposals(context.Background(), ledgerID)
		require.Error(t, err)
		assert.Equal(t, "unexpected status code: 502, body: upstream down", err.Error())
	})
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name   string
		action string
		call   func(c *Client) (*models.TxResult, error)
		reason string
	}{
		{
			name:   "approve",
			action: "approve",
			call: func(c *Client) (*models.TxResult, error) {
				return c.SubmitApprove(context.Background(), ledgerID, "p1")
			},
		},
		{
			name:   "reject",
			action: "reject",
			reason: "wrong recipient",
			call: func(c *Client) (*models.TxResult, error) {
				return c.SubmitReject(context.Background(), ledgerID, "p1", "wrong recipient")
			},
		},
		{
			name:   "execute",
			action: "execute",
			call: func(c *Client) (*models.TxResult, error) {
				return c.SubmitExecute(context.Background(), ledgerID, "p1")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/v1/vaults/"+ledgerID+"/proposals/p1/"+tt.action+"/", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var body submitRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, sender, body.Sender)
				assert.Equal(t, tt.reason, body.Reason)

				fmt.Fprint(w, `{"txHash":"0xabc"}`)
			}), sender)

			result, err := tt.call(client)
			require.NoError(t, err)
			assert.Equal(t, "0xabc", result.TxHash)
		})
	}
}

func TestSubmit_Errors(t *testing.T) {
	t.Run("failure detail is passed through verbatim", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"detail":"execution reverted: insufficient balance"}`)
		}), sender)

		_, err := client.SubmitExecute(context.Background(), ledgerID, "p1")
		require.Error(t, err)
		assert.Equal(t, "execution reverted: insufficient balance", err.Error())
	})

	t.Run("requires a connected wallet", func(t *testing.T) {
		called := false
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}), "")

		_, err := client.SubmitApprove(context.Background(), ledgerID, "p1")
		assert.ErrorIs(t, err, domain.ErrNotConnected)
		assert.False(t, called)
	})

	t.Run("cancelled while waiting for confirmation", func(t *testing.T) {
		release := make(chan struct{})
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}), sender)
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := client.SubmitExecute(ctx, ledgerID, "p1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}

func TestProposalRecord_ToProposal(t *testing.T) {
	hash := "0xrej"
	record := &ProposalRecord{ID: "p1", Amount: "5", Threshold: 2, Status: "REJECTED", TransactionHash: &hash}

	p, err := record.ToProposal()
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusRejected, p.Status)
	assert.Equal(t, "0xrej", p.RejectionTxHash)
	assert.Empty(t, p.ExecutionTxHash)

	record.Amount = "abc"
	_, err = record.ToProposal()
	assert.Error(t, err)
}
