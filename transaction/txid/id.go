package txid

// TxID is transaction id
// this is opaque for the storage layer. it is used only as the key of permissions granted by buffer manager
type TxID uint32

const (
	// invalid transaction id
	InvalidTxID TxID = 0
	// first transaction id allocated by transaction id manager
	FirstTxID TxID = 1
)

// IsValid checks whether the transaction id has been allocated
func (id TxID) IsValid() bool {
	return id != InvalidTxID
}

// advanceTxID advances transaction id
// this considers wraparound of transaction id. InvalidTxID is skipped.
func advanceTxID(txID TxID) TxID {
	txID++
	if !txID.IsValid() {
		return FirstTxID
	}
	return txID
}
