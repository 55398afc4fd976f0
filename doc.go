// Package hashledger provides a minimal append-only ledger of income and
// expense transactions, with tamper evidence through hash chaining.
//
// It offers two structures:
//   - Ledger: a flat, ordered record of transactions that can be summarized
//     (total income, total expense and balance) and exported as CSV.
//   - HashChain: the same transactions stored as blocks. Each block commits
//     to the digest of the previous one, starting from a genesis block, so
//     that any modification of a recorded block, or any reordering, is
//     detected by Verify and located by Audit.
//
// Blocks are hashed with SHA-256 over a length-prefixed serialization of
// their fields (see Framed). The legacy Concat scheme, which concatenates
// fields without separators, is kept only to verify chains produced that way.
//
// The package owns no storage: a chain lives in memory. EncodeHashChain and
// DecodeHashChain persist it as JSONL for the `hlc` command-line tool, and
// ExportCSV produces the download format.
package hashledger
