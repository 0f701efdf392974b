package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-vault/internal/domain"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/domain/models"
	"github.com/trebuchet-org/treb-vault/internal/ledger"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

const (
	vaultID  = "0x9999999999999999999999999999999999999999"
	proposer = "0x1111111111111111111111111111111111111111"
	signerB  = "0x2222222222222222222222222222222222222222"
	signerC  = "0x3333333333333333333333333333333333333333"
	admin    = "0x4444444444444444444444444444444444444444"
	outsider = "0x5555555555555555555555555555555555555555"
)

// MockWalletSession is a mock implementation of WalletSession
type MockWalletSession struct {
	mock.Mock
}

func (m *MockWalletSession) CurrentIdentity(ctx context.Context) (string, bool) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1)
}

func (m *MockWalletSession) IsConnected(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockWalletSession) Connect(ctx context.Context, identity string) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockWalletSession) Disconnect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockSubmitter is a mock implementation of Submitter
type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) SubmitApprove(ctx context.Context, ledgerID, proposalID string) (*models.TxResult, error) {
	args := m.Called(ctx, ledgerID, proposalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TxResult), args.Error(1)
}

func (m *MockSubmitter) SubmitReject(ctx context.Context, ledgerID, proposalID, reason string) (*models.TxResult, error) {
	args := m.Called(ctx, ledgerID, proposalID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TxResult), args.Error(1)
}

func (m *MockSubmitter) SubmitExecute(ctx context.Context, ledgerID, proposalID string) (*models.TxResult, error) {
	args := m.Called(ctx, ledgerID, proposalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TxResult), args.Error(1)
}

// MockBlockHeightFeed is a mock implementation of BlockHeightFeed
type MockBlockHeightFeed struct {
	mock.Mock
}

func (m *MockBlockHeightFeed) CurrentBlockHeight(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

// MockProposalSource is a mock implementation of ProposalSource
type MockProposalSource struct {
	mock.Mock
}

func (m *MockProposalSource) FetchProposals(ctx context.Context, ledgerID string) ([]*models.Proposal, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Proposal), args.Error(1)
}

// MockProposalSelector is a mock implementation of ProposalSelector
type MockProposalSelector struct {
	mock.Mock
}

func (m *MockProposalSelector) SelectProposal(ctx context.Context, views []*domain.ProposalView, prompt string) (*domain.ProposalView, error) {
	args := m.Called(ctx, views, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProposalView), args.Error(1)
}

func (m *MockProposalSelector) SelectProposals(ctx context.Context, views []*domain.ProposalView, prompt string) ([]*domain.ProposalView, error) {
	args := m.Called(ctx, views, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ProposalView), args.Error(1)
}

func (m *MockProposalSelector) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}

// recordingNotifier keeps every notification it receives
type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) all() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.sent...)
}

// memorySnapshotStore is an in-memory ProposalSnapshotStore
type memorySnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string]*models.LedgerSnapshot
	saves     int
}

func newMemorySnapshotStore() *memorySnapshotStore {
	return &memorySnapshotStore{snapshots: make(map[string]*models.LedgerSnapshot)}
}

func (s *memorySnapshotStore) Load(_ context.Context, ledgerID string) (*models.LedgerSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshots[ledgerID], nil
}

func (s *memorySnapshotStore) Save(_ context.Context, snapshot *models.LedgerSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.LedgerID] = snapshot
	s.saves++
	return nil
}

func (s *memorySnapshotStore) put(ledgerID string, height uint64, proposals ...*models.Proposal) {
	s.snapshots[ledgerID] = &models.LedgerSnapshot{
		LedgerID:    ledgerID,
		BlockHeight: height,
		Proposals:   proposals,
	}
}

func testVault() models.Vault {
	return models.Vault{
		ID:        vaultID,
		Name:      "treasury",
		ChainID:   1,
		Threshold: 3,
		Signers:   []string{proposer, signerB, signerC},
		Admins:    []string{admin},
	}
}

func proposal(id string, status models.ProposalStatus, approvals uint32, unlock uint64) *models.Proposal {
	return &models.Proposal{
		ID:          id,
		Proposer:    proposer,
		Recipient:   signerB,
		Amount:      uint256.NewInt(2500),
		Token:       "USDC",
		Approvals:   approvals,
		Threshold:   3,
		Status:      status,
		CreatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		UnlockBlock: unlock,
	}
}

// harness wires the use cases against a real ledger registry and test doubles
type harness struct {
	cfg       *config.RuntimeConfig
	registry  *ledger.Registry
	session   *MockWalletSession
	submitter *MockSubmitter
	feed      *MockBlockHeightFeed
	source    *MockProposalSource
	selector  *MockProposalSelector
	store     *memorySnapshotStore
	notifier  *recordingNotifier
	progress  *MockProgressSink
	loader    *usecase.LedgerLoader
}

// newHarness creates an offline harness whose snapshot holds the given proposals at height
func newHarness(t *testing.T, height uint64, proposals ...*models.Proposal) *harness {
	t.Helper()

	registry, err := ledger.NewRegistry([]models.Vault{testVault()}, nil)
	require.NoError(t, err)

	h := &harness{
		cfg: &config.RuntimeConfig{
			Vaults:         []models.Vault{testVault()},
			Offline:        true,
			NonInteractive: true,
		},
		registry:  registry,
		session:   &MockWalletSession{},
		submitter: &MockSubmitter{},
		feed:      &MockBlockHeightFeed{},
		source:    &MockProposalSource{},
		selector:  &MockProposalSelector{},
		store:     newMemorySnapshotStore(),
		notifier:  &recordingNotifier{},
		progress:  &MockProgressSink{},
	}
	h.store.put(vaultID, height, proposals...)
	h.loader = usecase.NewLedgerLoader(h.cfg, registry, h.source, h.feed, h.store, testLogger())
	return h
}

func (h *harness) connect(identity string) {
	h.session.On("CurrentIdentity", mock.Anything).Return(identity, true)
}

func (h *harness) disconnected() {
	h.session.On("CurrentIdentity", mock.Anything).Return("", false)
}

func (h *harness) assertExpectations(t *testing.T) {
	h.session.AssertExpectations(t)
	h.submitter.AssertExpectations(t)
	h.feed.AssertExpectations(t)
	h.source.AssertExpectations(t)
	h.selector.AssertExpectations(t)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
