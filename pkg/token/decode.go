/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package token

import (
	"github.com/btcsuite/btcd/txscript"
)

// Token is the decoded form of a locking script produced by Encode. Fields
// holds the data pushes in script order; when the script was encoded with a
// signature, the signature occupies its placement position within Fields.
type Token struct {
	// PublicKey is the compressed locking key, present for self-locked tokens.
	PublicKey []byte

	// Fields are the data pushes in order.
	Fields [][]byte
}

// Decode parses a locking script back into its ordered fields. Decoding is
// strictly positional.
func Decode(script []byte) (*Token, error) {
	t := &Token{}

	i := 0

	// Self-locked scripts start with a compressed key push and OP_CHECKSIG.
	if len(script) > 34 && script[0] == 33 && script[34] == txscript.OP_CHECKSIG {
		t.PublicKey = script[1:34]
		i = 35
	}

	for i < len(script) {
		op := script[i]
		i++

		switch {
		case op >= 1 && op <= 75:
			size := int(op)
			if i+size > len(script) {
				return nil, NewEncodingError("push exceeds script length")
			}
			t.Fields = append(t.Fields, script[i:i+size])
			i += size
		case op == txscript.OP_PUSHDATA1:
			if i >= len(script) {
				return nil, NewEncodingError("truncated pushdata1")
			}
			size := int(script[i])
			i++
			if i+size > len(script) {
				return nil, NewEncodingError("push exceeds script length")
			}
			t.Fields = append(t.Fields, script[i:i+size])
			i += size
		case op == txscript.OP_PUSHDATA2:
			if i+2 > len(script) {
				return nil, NewEncodingError("truncated pushdata2")
			}
			size := int(script[i]) | int(script[i+1])<<8
			i += 2
			if i+size > len(script) {
				return nil, NewEncodingError("push exceeds script length")
			}
			t.Fields = append(t.Fields, script[i:i+size])
			i += size
		case op == txscript.OP_DROP || op == txscript.OP_2DROP:
			// stack cleanup, no data
		case op == txscript.OP_0:
			t.Fields = append(t.Fields, []byte{})
		default:
			return nil, NewEncodingError("unexpected opcode in token script")
		}
	}

	if len(t.Fields) == 0 {
		return nil, NewEncodingError("no fields in token script")
	}

	return t, nil
}
