/*
Transaction id manager allocates transaction id.
This is implemented as manager because transaction id is kind of shared resource.
The latest transaction id has to be maintained and lock has to be held when allocating the transaction id.
Transaction id is defined as unsigned 32 bits and this can wrap around.
The lock manager which owns the transaction lifetime is expected to finish old transactions long before that.
*/
package txid

import (
	"sync"
)

type Manager struct {
	sync.Mutex
	// nextTxID is the transaction id which is alloted next time
	nextTxID TxID
}

// NewManager initializes transaction id manager
func NewManager() *Manager {
	return &Manager{
		nextTxID: FirstTxID,
	}
}

// AllocateNewTxID allocates next transaction id and advances it
func (tm *Manager) AllocateNewTxID() TxID {
	tm.Lock()
	defer tm.Unlock()
	txID := tm.nextTxID
	tm.nextTxID = advanceTxID(tm.nextTxID)
	return txID
}
