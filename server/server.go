// Package server exposes a hash chain over HTTP.
//
// A single chain is served. Appends are serialized: the new chain is saved
// before it replaces the served one, so that the served chain and the saved
// one never diverge.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/etnz/hashledger"
	"github.com/etnz/hashledger/config"
	"github.com/etnz/hashledger/renderer"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// ExportFilename is the name proposed to browsers for CSV downloads.
const ExportFilename = "hospital_ledger.csv"

// Store persists a chain after each append.
type Store interface {
	Save(c *hashledger.HashChain) error
}

// FileStore saves chains to a JSONL file.
type FileStore struct {
	Path string
}

// Save implements Store.
func (s FileStore) Save(c *hashledger.HashChain) error { return hashledger.SaveFile(s.Path, c) }

// chainHandler handles HTTP requests on a chain.
type chainHandler struct {
	mu    sync.Mutex // serializes appends
	chain *hashledger.HashChain
	store Store
}

// current returns the chain being served.
func (h *chainHandler) current() *hashledger.HashChain {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.chain
}

// New creates the HTTP handler serving chain, and saving it to store.
func New(cfg *config.Config, chain *hashledger.HashChain, store Store, logger *slog.Logger) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := registerValidations(v); err != nil {
			return nil, fmt.Errorf("could not register validations: %w", err)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(StructuredLoggingMiddleware(logger), gin.Recovery(), Cors(cfg.AllowOrigins))
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("could not set trusted proxies: %w", err)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	h := &chainHandler{chain: chain, store: store}
	v1 := r.Group("/api/v1", RateLimit(limiter.New(memory.NewStore(), cfg.RateLimit)))
	{
		v1.POST("/transactions", h.createTransaction)
		v1.GET("/blocks", h.listBlocks)
		v1.GET("/blocks/:index", h.getBlock)
		v1.GET("/summary", h.summary)
		v1.GET("/verify", h.verify)
		v1.GET("/export.csv", h.exportCSV)
	}
	return r, nil
}

// createTransaction appends a block to the chain.
func (h *chainHandler) createTransaction(c *gin.Context) {
	logger := GetLoggerFromContext(c)
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}
	tx, err := req.Transaction()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Append to a copy: the served chain changes only once saved.
	next, err := hashledger.Restore(h.chain.Blocks(), hashledger.WithCurrency(h.chain.Currency()), hashledger.WithScheme(h.chain.Scheme()))
	if err != nil {
		logger.Error("Failed to copy chain", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to append transaction"})
		return
	}
	block, err := next.AppendTransaction(tx)
	if err != nil {
		if errors.Is(err, hashledger.ErrInvalidTransaction) {
			logger.Warn("Rejected transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to append transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to append transaction"})
		return
	}
	if err := h.store.Save(next); err != nil {
		logger.Error("Failed to save chain", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save the ledger"})
		return
	}
	h.chain = next

	logger.Info("Block appended", slog.Int("index", block.Index), slog.String("hash", block.Hash))
	c.JSON(http.StatusCreated, block)
}

// listBlocks returns every block, genesis included.
func (h *chainHandler) listBlocks(c *gin.Context) {
	chain := h.current()
	c.JSON(http.StatusOK, BlocksResponse{
		Currency: chain.Currency(),
		Scheme:   chain.Scheme().String(),
		Blocks:   chain.Blocks(),
	})
}

// getBlock returns the block at the given position.
func (h *chainHandler) getBlock(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid block index %q", c.Param("index"))})
		return
	}
	block, err := h.current().Block(index)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, block)
}

// summary returns the income, expense and balance totals.
func (h *chainHandler) summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.current().Summarize())
}

// verify checks the chain. With ?all=true every violation is listed.
func (h *chainHandler) verify(c *gin.Context) {
	all, _ := strconv.ParseBool(c.Query("all"))
	c.JSON(http.StatusOK, renderer.NewVerification(h.current(), all))
}

// exportCSV downloads the chain as CSV. With ?flat=true the flat ledger view
// is exported instead.
func (h *chainHandler) exportCSV(c *gin.Context) {
	chain := h.current()
	flat, _ := strconv.ParseBool(c.Query("flat"))

	var (
		data []byte
		err  error
	)
	if flat {
		data, err = chain.Ledger().ExportCSV()
	} else {
		data, err = chain.ExportCSV()
	}
	if err != nil {
		GetLoggerFromContext(c).Error("Failed to export CSV", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to export the ledger"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
