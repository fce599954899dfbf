// =============================================================================
// Sales Analytics - Runner Module
// =============================================================================
//
// This module orchestrates one complete run, from reading the transaction
// log to writing the report.
//
// PROCESSING PIPELINE:
//   1. Read the input file, trying each configured encoding
//   2. Clean and validate every line
//   3. Write the cleaned file, the invalid file and the rejection log
//   4. Compute the aggregates
//   5. Fetch the product catalog and enrich the transactions (optional)
//   6. Write the text report and the workbook (optional)
//   7. Write the processing summary
//
// FAILURE POLICY:
//   Only a failure to read the input or to write an output aborts the run.
//   An unavailable product API is logged as a warning and the run continues
//   without enrichment.
//
// =============================================================================

package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/sales-analytics/internal/cleaning"
	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/enrichment"
	"github.com/ginjaninja78/sales-analytics/internal/logger"
	"github.com/ginjaninja78/sales-analytics/internal/productapi"
	"github.com/ginjaninja78/sales-analytics/internal/report"
	"github.com/ginjaninja78/sales-analytics/internal/salesfile"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/internal/validation"
	"github.com/ginjaninja78/sales-analytics/internal/workbook"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Output kinds recorded in Result.Outputs.
const (
	OutputCleaned    = "cleaned"
	OutputInvalid    = "invalid"
	OutputRejections = "rejections"
	OutputEnriched   = "enriched"
	OutputProducts   = "products"
	OutputReport     = "report"
	OutputWorkbook   = "workbook"
	OutputSummary    = "summary"
)

// Stats contains statistics about one run.
type Stats struct {
	// Encoding is the encoding that decoded the input.
	Encoding string `json:"encoding"`

	// Counters are the cleaning totals: non-blank data lines, accepted, rejected.
	cleaning.Counters

	// Transactions is the number of records the aggregates ran over.
	Transactions int `json:"transactions"`

	// Skipped counts transactions left out of the amounts.
	Skipped int `json:"skipped"`

	// Enrichment is nil when enrichment was disabled or the catalog could
	// not be fetched.
	Enrichment *enrichment.Summary `json:"enrichment,omitempty"`

	ProcessingTime time.Duration `json:"processing_time"`
}

// Result represents the outcome of a run.
type Result struct {
	RunID    string                 `json:"run_id"`
	Stats    Stats                  `json:"stats"`
	Outputs  []utils.OutputFileInfo `json:"outputs"`
	Warnings []string               `json:"warnings,omitempty"`

	// Report is the data the text report was rendered from.
	Report report.Data `json:"-"`
}

// Output returns the path recorded for kind, or "".
func (r *Result) Output(kind string) string {
	for _, out := range r.Outputs {
		if out.Kind == kind {
			return out.Path
		}
	}
	return ""
}

// =============================================================================
// RUNNER STRUCTURE
// =============================================================================

// ProductSource supplies the product catalog used for enrichment.
type ProductSource interface {
	FetchAll(ctx context.Context) ([]productapi.Product, error)
}

// Runner executes the processing pipeline.
type Runner struct {
	cfg    *config.MainConfig
	log    zerolog.Logger
	files  *utils.FileManager
	source ProductSource
}

// Option configures a Runner.
type Option func(*Runner)

// WithCatalogSource replaces the HTTP product client.
func WithCatalogSource(src ProductSource) Option {
	return func(r *Runner) { r.source = src }
}

// New creates a Runner for cfg.
//
// PARAMETERS:
//   - cfg: The validated application configuration.
//   - log: The logger; a run_id field is added per run.
//   - opts: Optional overrides.
//
// RETURNS:
//   - A new Runner. Unless WithCatalogSource is given, products are fetched
//     from cfg.API.BaseURL.
func New(cfg *config.MainConfig, log zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:   cfg,
		log:   log,
		files: utils.NewFileManager(cfg.OutputDir),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.source == nil {
		r.source = productapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout,
			productapi.WithLogger(log),
			productapi.WithPageLimit(cfg.API.PageLimit))
	}
	return r
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline once.
//
// RETURNS:
//   - The Result with statistics and the files written.
//   - An error if the input cannot be read or an output cannot be written.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	result := &Result{RunID: uuid.New().String()}
	log := logger.WithFields(r.log, map[string]interface{}{
		"run_id": result.RunID,
		"input":  r.cfg.InputFile,
	})

	if err := r.files.EnsureDirectories(); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 1: READ INPUT
	// =========================================================================

	input, err := salesfile.ReadLines(r.cfg.InputFile, r.cfg.Encodings)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	result.Stats.Encoding = input.Encoding
	log.Info().
		Str("path", r.cfg.InputFile).
		Str("encoding", input.Encoding).
		Int("lines", len(input.Lines)).
		Msg("Read input file")

	// =========================================================================
	// STEP 2: CLEAN AND VALIDATE
	// =========================================================================

	cleaned := cleaning.Process(input.Lines)
	result.Stats.Counters = cleaned.Counters
	log.Info().
		Int("total", cleaned.Counters.Total).
		Int("valid", cleaned.Counters.Valid).
		Int("invalid", cleaned.Counters.Invalid).
		Msg("Cleaned records")

	order, counts := cleaned.ReasonCounts()
	for _, reason := range order {
		log.Debug().Str("reason", string(reason)).Int("count", counts[reason]).Msg("Rejected records")
	}
	numericFailures := 0
	for _, rej := range cleaned.Rejections {
		if validation.IsNumericFailure(rej.Result.AsError()) {
			numericFailures++
		}
	}
	if numericFailures > 0 {
		log.Warn().Int("records", numericFailures).Msg("Rejected records with unparseable numbers")
	}

	// =========================================================================
	// STEP 3: WRITE CLEANED AND INVALID FILES
	// =========================================================================

	if err := r.writeCleaning(result, cleaned, startTime); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 4: AGGREGATE
	// =========================================================================

	txs := cleaned.Transactions()
	data := report.Build(txs, report.Options{
		TopProducts:  r.cfg.Analytics.TopProducts,
		TopCustomers: r.cfg.Analytics.TopCustomers,
		LowThreshold: r.cfg.Analytics.LowPerformerThreshold,
		DailyRows:    r.cfg.Analytics.DailyRows,
	})
	result.Stats.Transactions = len(txs)
	result.Stats.Skipped = data.Overview.Skipped
	if data.Overview.Skipped > 0 {
		log.Warn().Int("skipped", data.Overview.Skipped).Msg("Transactions with unparseable amounts left out")
	}
	log.Info().
		Float64("revenue", data.Overview.TotalRevenue).
		Int("regions", len(data.Regions)).
		Int("days", len(data.Daily)).
		Msg("Computed aggregates")

	// =========================================================================
	// STEP 5: ENRICH
	// =========================================================================

	if r.cfg.API.IsEnabled() {
		summary, err := r.enrich(ctx, log, result, txs)
		if err != nil {
			return nil, err
		}
		data.Enrichment = summary
		result.Stats.Enrichment = summary
	} else {
		log.Info().Msg("Product API disabled, skipping enrichment")
	}

	// =========================================================================
	// STEP 6: REPORT AND WORKBOOK
	// =========================================================================

	reportPath := r.files.Path(r.cfg.Outputs.Report)
	if err := report.WriteFile(reportPath, data); err != nil {
		return nil, err
	}
	result.addOutput(OutputReport, reportPath)
	result.Report = data
	log.Info().Str("path", reportPath).Msg("Wrote report")

	if r.cfg.Export.Workbook != "" {
		workbookPath := r.files.Path(r.cfg.Export.Workbook)
		if err := workbook.Export(workbookPath, data); err != nil {
			return nil, err
		}
		result.addOutput(OutputWorkbook, workbookPath)
		log.Info().Str("path", workbookPath).Msg("Wrote workbook")
	}

	// =========================================================================
	// STEP 7: PROCESSING SUMMARY
	// =========================================================================

	result.Stats.ProcessingTime = time.Since(startTime)

	summary := utils.ProcessingSummary{
		RunID:               result.RunID,
		StartTime:           startTime,
		EndTime:             time.Now(),
		InputFile:           r.cfg.InputFile,
		Encoding:            input.Encoding,
		TotalRecords:        cleaned.Counters.Total,
		ValidRecords:        cleaned.Counters.Valid,
		InvalidRecords:      cleaned.Counters.Invalid,
		SkippedAmounts:      data.Overview.Skipped,
		EnrichmentAttempted: data.Enrichment != nil,
		Outputs:             append([]utils.OutputFileInfo(nil), result.Outputs...),
		Warnings:            result.Warnings,
	}
	if data.Enrichment != nil {
		summary.Matched = data.Enrichment.Matched
		summary.Unmatched = data.Enrichment.Unmatched
	}

	summaryPath, err := utils.WriteSummaryLog(summary, r.cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	result.addOutput(OutputSummary, summaryPath)

	log.Info().
		Dur("duration", result.Stats.ProcessingTime).
		Int("outputs", len(result.Outputs)).
		Msg("Run complete")

	return result, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// writeCleaning writes the cleaned lines, and the rejected lines with their
// reason log when there are any.
func (r *Runner) writeCleaning(result *Result, cleaned *cleaning.Result, startTime time.Time) error {
	cleanedPath := r.files.Path(r.cfg.Outputs.Cleaned)
	if err := salesfile.WriteLines(cleanedPath, cleaned.Valid); err != nil {
		return err
	}
	result.addOutput(OutputCleaned, cleanedPath)

	if len(cleaned.Invalid) == 0 {
		return nil
	}

	invalidPath := r.files.Path(r.cfg.Outputs.Invalid)
	if err := salesfile.WriteLines(invalidPath, cleaned.Invalid); err != nil {
		return err
	}
	result.addOutput(OutputInvalid, invalidPath)

	entries := make([]utils.ErrorLogEntry, len(cleaned.Rejections))
	for i, rej := range cleaned.Rejections {
		entries[i] = utils.ErrorLogEntry{
			Timestamp:  startTime,
			FileName:   r.cfg.InputFile,
			Reason:     string(rej.Result.Reason),
			Message:    rejectionMessage(rej),
			LineNumber: rej.LineNumber,
			Line:       rej.Line,
		}
	}
	logPath, err := utils.WriteErrorLog(entries, r.cfg.OutputDir)
	if err != nil {
		return err
	}
	result.addOutput(OutputRejections, logPath)
	return nil
}

func rejectionMessage(rej cleaning.Rejection) string {
	if err := rej.Result.AsError(); err != nil {
		return err.Error()
	}
	return ""
}

// enrich fetches the catalog and enriches txs. A fetch failure or an empty
// catalog only produces a warning and a nil summary.
func (r *Runner) enrich(ctx context.Context, log zerolog.Logger, result *Result, txs []types.Transaction) (*enrichment.Summary, error) {
	products, err := r.source.FetchAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Product API unavailable, continuing without enrichment")
		result.Warnings = append(result.Warnings, fmt.Sprintf("enrichment skipped: %v", err))
		return nil, nil
	}
	if len(products) == 0 {
		log.Warn().Msg("Product API returned no products, continuing without enrichment")
		result.Warnings = append(result.Warnings, "enrichment skipped: empty product catalog")
		return nil, nil
	}

	records, summary := enrichment.Enrich(txs, productapi.BuildCatalog(products))
	log.Info().
		Int("products", len(products)).
		Int("matched", summary.Matched).
		Int("unmatched", summary.Unmatched).
		Float64("success_rate", summary.SuccessRate).
		Msg("Enriched transactions")

	enrichedPath := r.files.Path(r.cfg.Outputs.Enriched)
	if err := salesfile.WriteEnriched(enrichedPath, records); err != nil {
		return nil, err
	}
	result.addOutput(OutputEnriched, enrichedPath)

	productsPath := r.files.Path(r.cfg.Outputs.Products)
	if err := productapi.SaveJSON(productsPath, products); err != nil {
		return nil, err
	}
	result.addOutput(OutputProducts, productsPath)

	return &summary, nil
}

func (r *Result) addOutput(kind, path string) {
	r.Outputs = append(r.Outputs, utils.OutputFileInfo{Kind: kind, Path: path})
}
