// Package server exposes the solver and the loan comparison over HTTP.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iwvelando/finance-planner/internal/config"
	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/output"
	"github.com/iwvelando/finance-planner/pkg/simulation"
	"github.com/iwvelando/finance-planner/pkg/tvm"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	simulator     *simulation.Simulator
}

// NewHandler constructs the HTTP handler that serves the planner API. An
// empty origin list allows every origin.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, allowedOrigins ...string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		simulator:     simulation.NewSimulator(logger),
	}

	router := gin.New()
	router.Use(h.requestLogger(), h.recovery(), h.limitBody())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/version", h.handleVersion)
		api.POST("/solve", h.handleSolve)
		api.POST("/simulate", h.handleSimulate)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}

func (h *handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Debug("request served",
			zap.String("op", "server.request"),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func (h *handler) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		h.logger.Error("panic while serving request",
			zap.String("op", "server.recovery"),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}

func (h *handler) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
		}
		c.Next()
	}
}

func (h *handler) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": h.version})
}

type solveRequest struct {
	Mode       string  `json:"mode"`
	Principal  float64 `json:"principal"`
	Payment    float64 `json:"payment"`
	AnnualRate float64 `json:"annualRate"`
	TermYears  int     `json:"termYears"`
}

type solveResponse struct {
	Mode       string  `json:"mode"`
	Value      float64 `json:"value"`
	Display    string  `json:"display"`
	Principal  float64 `json:"principal"`
	Payment    float64 `json:"payment"`
	AnnualRate float64 `json:"annualRate"`
	TermMonths float64 `json:"termMonths"`
	TermYears  float64 `json:"termYears"`
	Iterations int     `json:"iterations,omitempty"`
}

func (h *handler) handleSolve(c *gin.Context) {
	const op = "server.handleSolve"

	var req solveRequest
	if !h.bindJSON(c, &req, op) {
		return
	}

	mode, err := tvm.ParseSolveMode(req.Mode)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error(), op)
		return
	}

	solution, err := tvm.Solve(mode, tvm.Params{
		Principal:     req.Principal,
		Payment:       req.Payment,
		AnnualRatePct: req.AnnualRate,
		TermYears:     req.TermYears,
	})
	if err != nil {
		if errors.Is(err, tvm.ErrNoSolution) {
			h.respondError(c, http.StatusUnprocessableEntity, err.Error(), op)
			return
		}
		h.respondError(c, http.StatusBadRequest, err.Error(), op)
		return
	}

	c.JSON(http.StatusOK, solveResponse{
		Mode:       solution.Mode.String(),
		Value:      solution.Value(),
		Display:    output.SolutionLine(solution),
		Principal:  solution.Principal,
		Payment:    solution.Payment,
		AnnualRate: solution.AnnualRatePct,
		TermMonths: solution.TermMonths,
		TermYears:  solution.TermYears,
		Iterations: solution.Iterations,
	})
}

type snapshotResponse struct {
	Loan               string  `json:"loan"`
	Year               int     `json:"year"`
	Month              int     `json:"month"`
	Balance            float64 `json:"balance"`
	CumulativeInterest float64 `json:"cumulativeInterest"`
	InvestmentValue    float64 `json:"investmentValue"`
	NetBalance         float64 `json:"netBalance"`
	Position           string  `json:"position"`
	Clamped            bool    `json:"clamped"`
}

type simulateResponse struct {
	LoanA               string             `json:"loanA"`
	LoanB               string             `json:"loanB"`
	PaymentA            float64            `json:"paymentA"`
	PaymentB            float64            `json:"paymentB"`
	PaymentDifference   float64            `json:"paymentDifference"`
	MonthlyContribution float64            `json:"monthlyContribution"`
	Horizon             int                `json:"horizon"`
	Rows                []simulation.Row   `json:"rows"`
	Summary             simulation.Summary `json:"summary"`
	SnapshotA           snapshotResponse   `json:"snapshotA"`
	SnapshotB           snapshotResponse   `json:"snapshotB"`
	Warnings            []string           `json:"warnings,omitempty"`
	CSV                 string             `json:"csv"`
	Duration            string             `json:"duration"`
}

func (h *handler) handleSimulate(c *gin.Context) {
	const op = "server.handleSimulate"
	start := time.Now()

	// The request body uses the same shape as the comparison section of the
	// CLI config file.
	var conf config.Configuration
	if !h.bindJSON(c, &conf.Comparison, op) {
		return
	}
	conf.ApplyDefaults()

	loanA, loanB, investment := conf.SimulationInputs()
	result, err := h.simulator.Run(loanA, loanB, investment)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error(), op)
		return
	}

	csv, err := output.CsvString(result)
	if err != nil {
		h.respondError(c, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	c.JSON(http.StatusOK, simulateResponse{
		LoanA:               result.LoanA.Name,
		LoanB:               result.LoanB.Name,
		PaymentA:            result.PaymentA,
		PaymentB:            result.PaymentB,
		PaymentDifference:   result.PaymentDifference,
		MonthlyContribution: result.MonthlyContribution,
		Horizon:             result.Horizon,
		Rows:                result.Rows,
		Summary:             result.Summary(),
		SnapshotA:           newSnapshotResponse(result, result.At(simulation.LoanA, conf.Comparison.Inspect.YearA)),
		SnapshotB:           newSnapshotResponse(result, result.At(simulation.LoanB, conf.Comparison.Inspect.YearB)),
		Warnings:            conf.ValidateConfiguration(),
		CSV:                 csv,
		Duration:            time.Since(start).String(),
	})
}

func newSnapshotResponse(result *simulation.Result, snapshot simulation.Snapshot) snapshotResponse {
	return snapshotResponse{
		Loan:               result.Loan(snapshot.Side).Name,
		Year:               snapshot.Year,
		Month:              snapshot.Row.Month,
		Balance:            snapshot.Balance,
		CumulativeInterest: snapshot.CumulativeInterest,
		InvestmentValue:    snapshot.InvestmentValue,
		NetBalance:         snapshot.NetBalance,
		Position:           snapshot.Position(),
		Clamped:            snapshot.Clamped,
	}
}

// bindJSON decodes the request body and writes the error response itself
// when decoding fails.
func (h *handler) bindJSON(c *gin.Context, dst interface{}, op string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondError(c, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondError(c *gin.Context, status int, msg string, op string) {
	h.logger.Error("planner request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
