package services

import (
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// EncodeShareCode renders a prop ID as a short base58 code for share links.
func EncodeShareCode(id uuid.UUID) string {
	return base58.Encode(id[:])
}

// DecodeShareCode accepts either a base58 share code or a plain UUID.
func DecodeShareCode(code string) (uuid.UUID, bool) {
	if id, err := uuid.Parse(code); err == nil {
		return id, true
	}
	raw, err := base58.Decode(code)
	if err != nil || len(raw) != 16 {
		return uuid.Nil, false
	}
	id, err := uuid.FromBytes(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
