// Package codec encodes plan documents and derives their revision tokens.
// Every backend stores exactly the bytes Marshal produces, so a revision
// computed by one backend matches the one the server puts in an ETag.
package codec

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/woolly-dev/woolly/pkg/types"
)

// revisionBytes is the digest length kept in a revision token.
const revisionBytes = 16

// Marshal encodes plan as indented JSON with a trailing newline.
func Marshal(plan *types.Plan) ([]byte, error) {
	if plan == nil {
		return nil, types.ErrInvalidPlan
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	return append(data, '\n'), nil
}

// Unmarshal decodes a plan document. Members Woolly does not model are
// kept in the Extra maps and written back by Marshal.
func Unmarshal(data []byte) (*types.Plan, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", types.ErrInvalidPlan)
	}
	var plan types.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidPlan, err)
	}
	return &plan, nil
}

// Revision returns the revision token of a stored document: a truncated
// BLAKE3 digest in hex.
func Revision(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:revisionBytes])
}
