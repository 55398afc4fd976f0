package hashledger

import "fmt"

// Reason tells which integrity rule a block breaks.
type Reason int

const (
	// BadGenesis means the root block is not shaped as a genesis block.
	BadGenesis Reason = iota + 1
	// BadIndex means the block index does not follow its predecessor's.
	BadIndex
	// BrokenLink means the block's previous hash is not its predecessor's hash.
	BrokenLink
	// BadHash means the stored hash does not match the block's fields.
	BadHash
	// BadAmount means the block amount is out of the accepted bounds, its
	// digest is not computed.
	BadAmount
)

func (r Reason) String() string {
	switch r {
	case BadGenesis:
		return "invalid genesis"
	case BadIndex:
		return "invalid index"
	case BrokenLink:
		return "invalid prev hash"
	case BadHash:
		return "invalid hash"
	case BadAmount:
		return "invalid amount"
	default:
		return "unknown"
	}
}

// Violation is a chain integrity violation found by Verify or Audit.
//
// It is a diagnostic: the chain stays queryable.
type Violation struct {
	Index  int // position in the chain
	Reason Reason
	Want   string
	Got    string
}

func (v Violation) Error() string {
	return fmt.Sprintf("block %d invalid: %s: expected %s, got %s", v.Index, v.Reason, v.Want, v.Got)
}

// MarshalJSON adds the reason as text.
func (v Violation) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("index", v.Index)
	w.Append("reason", v.Reason.String())
	w.Append("want", v.Want)
	w.Append("got", v.Got)
	return w.MarshalJSON()
}

// checkGenesis verifies the root block on its own.
func checkGenesis(genesis Block, scheme Scheme) (Violation, bool) {
	if genesis.Index != 0 {
		return Violation{Index: 0, Reason: BadGenesis, Want: "index 0", Got: fmt.Sprintf("index %d", genesis.Index)}, true
	}
	if genesis.PrevHash != GenesisPrevHash {
		return Violation{Index: 0, Reason: BadGenesis, Want: GenesisPrevHash, Got: genesis.PrevHash}, true
	}
	if err := checkAmount(genesis.Amount); err != nil {
		return Violation{Index: 0, Reason: BadAmount, Want: "a bounded amount", Got: err.Error()}, true
	}
	if want := genesis.Digest(scheme); genesis.Hash != want {
		return Violation{Index: 0, Reason: BadHash, Want: want, Got: genesis.Hash}, true
	}
	return Violation{}, false
}

// checkBlock verifies that current, found at position i, is valid relative
// to previous. It checks index continuity, previous hash linkage and the
// current hash.
func checkBlock(i int, current, previous Block, scheme Scheme) (Violation, bool) {
	if current.Index != previous.Index+1 {
		return Violation{
			Index:  i,
			Reason: BadIndex,
			Want:   fmt.Sprint(previous.Index + 1),
			Got:    fmt.Sprint(current.Index),
		}, true
	}

	if current.PrevHash != previous.Hash {
		return Violation{Index: i, Reason: BrokenLink, Want: previous.Hash, Got: current.PrevHash}, true
	}

	if err := checkAmount(current.Amount); err != nil {
		return Violation{Index: i, Reason: BadAmount, Want: "a bounded amount", Got: err.Error()}, true
	}
	if want := current.Digest(scheme); current.Hash != want {
		return Violation{Index: i, Reason: BadHash, Want: want, Got: current.Hash}, true
	}
	return Violation{}, false
}
