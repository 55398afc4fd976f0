package hashledger

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/etnz/hashledger/date"
	"github.com/shopspring/decimal"
)

// LedgerCSVHeader is the header row of a flat ledger export.
var LedgerCSVHeader = []string{"Date", "Description", "Type", "Amount"}

// ChainCSVHeader is the header row of a hash chain export.
var ChainCSVHeader = []string{"Index", "Date", "Description", "Type", "Amount", "Previous Hash", "Hash"}

// writeCSV writes the header and rows, wrapping any failure with ErrEncoding.
func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("%w: csv header: %v", ErrEncoding, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("%w: csv rows: %v", ErrEncoding, err)
	}
	return buf.Bytes(), nil
}

func encodeLedgerCSV(txs []Transaction) ([]byte, error) {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []string{
			tx.Date.String(),
			tx.Description,
			tx.Kind.String(),
			tx.Signed().String(),
		})
	}
	return writeCSV(LedgerCSVHeader, rows)
}

func encodeChainCSV(blocks []Block) ([]byte, error) {
	rows := make([][]string, 0, len(blocks))
	for _, b := range blocks {
		rows = append(rows, []string{
			strconv.Itoa(b.Index),
			b.Date.String(),
			b.Description,
			b.Kind.String(),
			b.Amount.String(),
			b.PrevHash,
			b.Hash,
		})
	}
	return writeCSV(ChainCSVHeader, rows)
}

// readCSV reads all records and checks the header row.
func readCSV(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	got, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing csv header", ErrEncoding)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: csv header: %v", ErrEncoding, err)
	}
	if !slices.Equal(got, header) {
		return nil, fmt.Errorf("%w: unexpected csv header %q, want %q", ErrEncoding, got, header)
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return rows, nil
}

// DecodeLedgerCSV reads transactions written by Ledger.ExportCSV.
//
// The Amount column holds signed amounts, its sign must agree with the Type column.
func DecodeLedgerCSV(r io.Reader) ([]Transaction, error) {
	rows, err := readCSV(r, LedgerCSVHeader)
	if err != nil {
		return nil, err
	}
	txs := make([]Transaction, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		on, err := ParseDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		kind, err := ParseKind(row[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		signed, err := decimal.NewFromString(row[3])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid amount %q", ErrInvalidTransaction, line, row[3])
		}
		if signed.Sign() != 0 && signed.Sign() != kind.Sign() {
			return nil, fmt.Errorf("%w: line %d: amount %q disagrees with type %s", ErrInvalidTransaction, line, row[3], kind)
		}
		txs = append(txs, NewTransaction(on, row[1], kind, signed.Abs()))
	}
	return txs, nil
}

// DecodeChainCSV reads blocks written by HashChain.ExportCSV. Blocks are
// returned as found, use Restore and Verify to check them.
func DecodeChainCSV(r io.Reader) ([]Block, error) {
	rows, err := readCSV(r, ChainCSVHeader)
	if err != nil {
		return nil, err
	}
	blocks := make([]Block, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		index, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid index %q", ErrEncoding, line, row[0])
		}
		on, err := date.Parse(row[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrEncoding, line, err)
		}
		kind, err := ParseKind(row[3])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrEncoding, line, err)
		}
		amount, err := decimal.NewFromString(row[4])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid amount %q", ErrEncoding, line, row[4])
		}
		blocks = append(blocks, Block{
			Index:       index,
			Date:        on,
			Description: row[2],
			Kind:        kind,
			Amount:      amount,
			PrevHash:    row[5],
			Hash:        row[6],
		})
	}
	return blocks, nil
}
