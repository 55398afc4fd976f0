package server_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/hashledger"
	"github.com/etnz/hashledger/config"
	"github.com/etnz/hashledger/date"
	"github.com/etnz/hashledger/server"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/ulule/limiter/v3"
)

// memoryStore records saved chains, and fails when err is set.
type memoryStore struct {
	saved []*hashledger.HashChain
	err   error
}

func (s *memoryStore) Save(c *hashledger.HashChain) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, c)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:         "0",
		LedgerFile:   "unused.jsonl",
		Currency:     "INR",
		Scheme:       hashledger.Framed,
		RateLimit:    limiter.Rate{Period: time.Minute, Limit: 1000},
		AllowOrigins: []string{"http://localhost:3000"},
	}
}

func newChain() *hashledger.HashChain {
	return hashledger.NewHashChain(hashledger.WithClock(func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }))
}

// --- Test Suite ---
type ServerTestSuite struct {
	suite.Suite
	router *gin.Engine
	store  *memoryStore
	chain  *hashledger.HashChain
}

func (suite *ServerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.store = &memoryStore{}
	suite.chain = newChain()
	suite.router = suite.newRouter(testConfig(), suite.chain)
}

func (suite *ServerTestSuite) newRouter(cfg *config.Config, chain *hashledger.HashChain) *gin.Engine {
	r, err := server.New(cfg, chain, suite.store, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	suite.Require().NoError(err)
	return r
}

func (suite *ServerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		suite.Require().NoError(err)
		r = bytes.NewReader(data)
	}
	req, _ := http.NewRequest(method, url, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ServerTestSuite) post(date, description, kind string, amount any) *httptest.ResponseRecorder {
	return suite.do(http.MethodPost, "/api/v1/transactions", map[string]any{
		"date":        date,
		"description": description,
		"type":        kind,
		"amount":      amount,
	})
}

// decode unmarshals the response body into a generic JSON value.
func (suite *ServerTestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var v map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// --- Test Cases ---

func (suite *ServerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *ServerTestSuite) TestCreateTransaction_Success() {
	genesis := suite.chain.Latest()

	w := suite.post("2025-01-02", "Consultation fees", "Income", "100.50")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	block := suite.decode(w)
	suite.Equal(float64(1), block["index"])
	suite.Equal("2025-01-02", block["date"])
	suite.Equal("Income", block["type"])
	suite.Equal("100.5", block["amount"])
	suite.Equal(genesis.Hash, block["previous_hash"])
	suite.Regexp(`^[0-9a-f]{64}$`, block["hash"])

	suite.Require().Len(suite.store.saved, 1)
	suite.Equal(2, suite.store.saved[0].Len())

	// numbers and lowercase types are accepted too
	w = suite.post("2025-01-03", "Medical supplies", "expense", 30)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.Equal(block["hash"], suite.decode(w)["previous_hash"])
}

func (suite *ServerTestSuite) TestCreateTransaction_ValidationError() {
	testCases := []struct {
		name string
		body any
	}{
		{"negative amount", map[string]any{"date": "2025-01-02", "type": "Income", "amount": "-1"}},
		{"not an amount", map[string]any{"date": "2025-01-02", "type": "Income", "amount": "ten"}},
		{"huge amount", map[string]any{"date": "2025-01-02", "type": "Income", "amount": "1e50000000"}},
		{"tiny amount", map[string]any{"date": "2025-01-02", "type": "Income", "amount": "1e-50000000"}},
		{"missing amount", map[string]any{"date": "2025-01-02", "type": "Income"}},
		{"unknown type", map[string]any{"date": "2025-01-02", "type": "Gift", "amount": "1"}},
		{"bad date", map[string]any{"date": "02/01/2025", "type": "Income", "amount": "1"}},
		{"missing date", map[string]any{"type": "Income", "amount": "1"}},
		{"not json", "["},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/transactions", tc.body)
			suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
			suite.NotEmpty(suite.decode(w)["error"])
		})
	}
	suite.Empty(suite.store.saved)
	suite.Equal(1, suite.chain.Len())
}

func (suite *ServerTestSuite) TestCreateTransaction_SaveFailure() {
	suite.store.err = errors.New("disk full")

	w := suite.post("2025-01-02", "Consultation fees", "Income", "100")
	suite.Equal(http.StatusInternalServerError, w.Code)

	// the served chain is unchanged
	w = suite.do(http.MethodGet, "/api/v1/blocks", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Len(suite.decode(w)["blocks"], 1)
}

func (suite *ServerTestSuite) TestListAndGetBlocks() {
	suite.Require().Equal(http.StatusCreated, suite.post("2025-01-02", "Consultation fees", "Income", "100").Code)

	w := suite.do(http.MethodGet, "/api/v1/blocks", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Equal("INR", body["currency"])
	suite.Equal("framed", body["scheme"])
	blocks, ok := body["blocks"].([]any)
	suite.Require().True(ok)
	suite.Len(blocks, 2)
	suite.Equal(hashledger.GenesisDescription, blocks[0].(map[string]any)["description"])

	w = suite.do(http.MethodGet, "/api/v1/blocks/1", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Consultation fees", suite.decode(w)["description"])

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/blocks/2", nil).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/blocks/one", nil).Code)
}

func (suite *ServerTestSuite) TestSummary() {
	suite.Require().Equal(http.StatusCreated, suite.post("2025-01-02", "Consultation fees", "Income", "100").Code)
	suite.Require().Equal(http.StatusCreated, suite.post("2025-01-03", "Medical supplies", "Expense", "30").Code)

	w := suite.do(http.MethodGet, "/api/v1/summary", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{
		"income": {"currency": "INR", "amount": "100.00"},
		"expense": {"currency": "INR", "amount": "30.00"},
		"balance": {"currency": "INR", "amount": "70.00"}
	}`, w.Body.String())
}

func (suite *ServerTestSuite) TestVerify() {
	suite.Require().Equal(http.StatusCreated, suite.post("2025-01-02", "Consultation fees", "Income", "100").Code)

	w := suite.do(http.MethodGet, "/api/v1/verify", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Equal(true, body["valid"])
	suite.Equal(float64(-1), body["first_invalid_index"])
	suite.Empty(body["violations"])

	// serve a tampered copy of the saved chain
	blocks := suite.store.saved[0].Blocks()
	blocks[1].Description = "Consultation fees (refunded)"
	tampered, err := hashledger.Restore(blocks)
	suite.Require().NoError(err)
	suite.router = suite.newRouter(testConfig(), tampered)

	w = suite.do(http.MethodGet, "/api/v1/verify?all=true", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	body = suite.decode(w)
	suite.Equal(false, body["valid"])
	suite.Equal(float64(1), body["first_invalid_index"])
	suite.Len(body["violations"], 1)
}

func (suite *ServerTestSuite) TestExportCSV() {
	suite.Require().Equal(http.StatusCreated, suite.post("2025-01-03", "Supplies, gloves", "Expense", "30").Code)

	w := suite.do(http.MethodGet, "/api/v1/export.csv", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Header().Get("Content-Type"), "text/csv")
	suite.Equal(`attachment; filename="hospital_ledger.csv"`, w.Header().Get("Content-Disposition"))
	suite.True(strings.HasPrefix(w.Body.String(), "Index,Date,Description,Type,Amount,Previous Hash,Hash\n"))

	w = suite.do(http.MethodGet, "/api/v1/export.csv?flat=true", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("Date,Description,Type,Amount\n2025-01-03,\"Supplies, gloves\",Expense,-30\n", w.Body.String())
}

func (suite *ServerTestSuite) TestRequestID() {
	w := suite.do(http.MethodGet, "/api/v1/summary", nil)
	_, err := uuid.Parse(w.Header().Get(server.RequestIDHeader))
	suite.NoError(err)
}

func (suite *ServerTestSuite) TestCors() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *ServerTestSuite) TestRateLimit() {
	cfg := testConfig()
	cfg.RateLimit = limiter.Rate{Period: time.Hour, Limit: 2}
	suite.router = suite.newRouter(cfg, suite.chain)

	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/api/v1/summary", nil).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/api/v1/summary", nil).Code)
	suite.Equal(http.StatusTooManyRequests, suite.do(http.MethodGet, "/api/v1/summary", nil).Code)
	// health checks are not limited
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/health", nil).Code)
}

// --- Run Test Suite ---
func TestServer(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	c := newChain()
	_, err := c.Append(date.MustParse("2025-01-02"), "Consultation fees", hashledger.Income, decimal.NewFromInt(100))
	require.NoError(t, err)

	require.NoError(t, server.FileStore{Path: path}.Save(c))

	got, err := hashledger.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, c.Len(), got.Len())
	assert.Equal(t, c.Latest().Hash, got.Latest().Hash)
	ok, index := got.Verify()
	assert.True(t, ok)
	assert.Equal(t, -1, index)
}
