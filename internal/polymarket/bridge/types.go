/**
 * @description
 * Type definitions for the Polymarket deposit bridge API.
 */

package bridge

import "encoding/json"

// DepositAddresses holds the per-chain deposit addresses generated for a user.
// The bridge nests them under "address" in newer deployments and returns them
// flat in older ones; UnmarshalJSON accepts both.
type DepositAddresses struct {
	EVM string `json:"evm"`
	SVM string `json:"svm"`
	BTC string `json:"btc"`
}

type depositResponse struct {
	Address *DepositAddresses `json:"address"`
	EVM     string            `json:"evm"`
	SVM     string            `json:"svm"`
	BTC     string            `json:"btc"`
}

// UnmarshalJSON flattens the nested and flat response shapes
func (d *DepositAddresses) UnmarshalJSON(data []byte) error {
	var raw depositResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Address != nil {
		*d = *raw.Address
		return nil
	}
	d.EVM = raw.EVM
	d.SVM = raw.SVM
	d.BTC = raw.BTC
	return nil
}

// Deposit is a single observed transfer to a deposit address
type Deposit struct {
	TxHash string  `json:"txHash"`
	Chain  string  `json:"chain"`
	Asset  string  `json:"asset"`
	Amount float64 `json:"amount"`
}

// DepositStatus is the payload of GET /status/{address}
type DepositStatus struct {
	Status         string    `json:"status"` // "pending" | "completed" | "failed"
	Deposits       []Deposit `json:"deposits"`
	TotalDeposited float64   `json:"totalDeposited"`
}
