package hashledger

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"

	"github.com/etnz/hashledger/date"
	"github.com/shopspring/decimal"
)

// GenesisPrevHash is the previous hash sentinel of the genesis block.
const GenesisPrevHash = "0"

// GenesisDescription is the description of the genesis block.
const GenesisDescription = "Genesis Block"

// Block is one hash-committed transaction of a HashChain.
type Block struct {
	Index       int             `json:"index"`
	Date        date.Date       `json:"date"`
	Description string          `json:"description"`
	Kind        Kind            `json:"type"`
	Amount      decimal.Decimal `json:"amount"` // as entered, never negative
	PrevHash    string          `json:"previous_hash"`
	Hash        string          `json:"hash"`
}

// Transaction returns the transaction recorded by this block.
func (b Block) Transaction() Transaction {
	return NewTransaction(b.Date, b.Description, b.Kind, b.Amount)
}

// IsGenesis reports whether b is at the root of the chain.
func (b Block) IsGenesis() bool { return b.Index == 0 }

// MarshalJSON writes the block fields in digest order.
func (b Block) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("index", b.Index)
	w.Append("date", b.Date)
	w.Append("description", b.Description)
	w.Append("type", b.Kind)
	w.Append("amount", b.Amount)
	w.Append("previous_hash", b.PrevHash)
	w.Append("hash", b.Hash)
	return w.MarshalJSON()
}

// Scheme selects how block fields are serialized before hashing.
type Scheme int

const (
	// Framed prefixes each field with its length, so that no two distinct
	// field tuples share a serialization.
	Framed Scheme = iota
	// Concat concatenates fields without separators. Ambiguous: ("ab", "c")
	// and ("a", "bc") hash the same. Only for compatibility with chains
	// produced that way.
	Concat
)

func (s Scheme) String() string {
	switch s {
	case Framed:
		return "framed"
	case Concat:
		return "concat"
	default:
		return "unknown"
	}
}

// ParseScheme parses a scheme name.
func ParseScheme(s string) (Scheme, error) {
	switch s {
	case "framed", "":
		return Framed, nil
	case "concat":
		return Concat, nil
	default:
		return 0, fmt.Errorf("unknown digest scheme: %q", s)
	}
}

// fields returns the block fields in digest order.
func (b Block) fields() []string {
	return []string{
		strconv.Itoa(b.Index),
		b.Date.String(),
		b.Description,
		b.Kind.String(),
		b.Amount.String(),
		b.PrevHash,
	}
}

// Digest computes the hex SHA-256 digest of the block's own fields (Hash
// excluded) using the given scheme.
func (b Block) Digest(scheme Scheme) string {
	h := sha256.New()
	for _, f := range b.fields() {
		if scheme == Framed {
			writeLength(h, len(f))
		}
		h.Write([]byte(f))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeLength(h hash.Hash, n int) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
}
