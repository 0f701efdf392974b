package models

// Vault is the configuration of a single multisig vault (one proposal ledger)
type Vault struct {
	// ID identifies the ledger, usually the vault contract address
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ChainID   uint64   `json:"chainId"`
	Threshold uint32   `json:"threshold"`
	Signers   []string `json:"signers"`
	Admins    []string `json:"admins,omitempty"`
}

// TxResult is the outcome of a confirmed submission to the vault contract
type TxResult struct {
	TxHash string `json:"txHash"`
}
