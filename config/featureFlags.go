package config

import (
	"os"
	"strings"
)

// RemittanceProofGated switches the remittance summary to the "locked" policy:
// the summary is not created or recomputed until a proof-of-transfer is attached.
// Default (off) recomputes on every attendance/expense change.
//
// Set via env:
// - REMITTANCE_PROOF_GATED=true
func RemittanceProofGated() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("REMITTANCE_PROOF_GATED")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
