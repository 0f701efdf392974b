package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
)

// ProposalRecord is a proposal as indexed by the vault transaction service
type ProposalRecord struct {
	ID              string     `json:"id"`
	Proposer        string     `json:"proposer"`
	Recipient       string     `json:"recipient"`
	Amount          string     `json:"amount"`
	Token           string     `json:"token"`
	Memo            string     `json:"memo,omitempty"`
	Approvals       uint32     `json:"approvals"`
	Threshold       uint32     `json:"threshold"`
	Confirmations   []string   `json:"confirmations"`
	Status          string     `json:"status"`
	SubmissionDate  time.Time  `json:"submissionDate"`
	UnlockBlock     uint64     `json:"unlockBlock"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	ExecutedAt      *time.Time `json:"executedAt,omitempty"`
	TransactionHash *string    `json:"transactionHash"`
}

// ToProposal converts the record into a domain proposal
func (r *ProposalRecord) ToProposal() (*models.Proposal, error) {
	status, err := models.ParseProposalStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("proposal %s: %w", r.ID, err)
	}

	amount, err := parseAmount(r.Amount)
	if err != nil {
		return nil, fmt.Errorf("proposal %s: invalid amount %q: %w", r.ID, r.Amount, err)
	}

	p := &models.Proposal{
		ID:              r.ID,
		Proposer:        r.Proposer,
		Recipient:       r.Recipient,
		Amount:          amount,
		Token:           r.Token,
		Memo:            r.Memo,
		Approvals:       r.Approvals,
		Threshold:       r.Threshold,
		ApprovedBy:      r.Confirmations,
		Status:          status,
		CreatedAt:       r.SubmissionDate,
		UnlockBlock:     r.UnlockBlock,
		RejectionReason: r.RejectionReason,
		RejectedAt:      r.RejectedAt,
		ExecutedAt:      r.ExecutedAt,
	}

	if r.TransactionHash != nil {
		switch status {
		case models.ProposalStatusExecuted:
			p.ExecutionTxHash = *r.TransactionHash
		case models.ProposalStatusRejected:
			p.RejectionTxHash = *r.TransactionHash
		}
	}
	return p, nil
}

func parseAmount(s string) (*uint256.Int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return uint256.FromHex(s)
	}
	return uint256.FromDecimal(s)
}

// proposalPage is one page of the proposal listing
type proposalPage struct {
	Count   int               `json:"count"`
	Next    *string           `json:"next"`
	Results []*ProposalRecord `json:"results"`
}

// submitRequest is the body of approve/reject/execute requests
type submitRequest struct {
	Sender string `json:"sender"`
	Reason string `json:"reason,omitempty"`
}

// submitResponse is returned once the transaction is confirmed
type submitResponse struct {
	TxHash string `json:"txHash"`
}

// errorResponse is the body of a failed request
type errorResponse struct {
	Detail string `json:"detail"`
}

// do sends a request and decodes a JSON response into out
func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		var apiErr errorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Detail != "" {
			return errors.New(apiErr.Detail)
		}
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
