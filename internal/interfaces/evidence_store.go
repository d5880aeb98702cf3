package interfaces

import "io"

// EvidenceStore persists evidence files for payments.
type EvidenceStore interface {
	// Save writes r under a name derived from paymentID and filename and
	// returns the stored reference. Saving the same pair again overwrites.
	Save(paymentID, filename string, r io.Reader) (string, error)
	// Locate resolves a stored reference to a readable path.
	Locate(ref string) (string, error)
}
