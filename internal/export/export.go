package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"pumpscope/internal/bundle"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format       ExportFormat
	OutputDir    string
	MinSolAmount float64 // Skip bundles below this SOL volume
}

// BundleExporter writes bundle analysis results to disk
type BundleExporter struct {
	logger *zap.Logger
}

// NewBundleExporter creates a new bundle exporter
func NewBundleExporter(logger *zap.Logger) *BundleExporter {
	return &BundleExporter{
		logger: logger,
	}
}

// ExportResult writes an analysis result based on the provided options
// and returns the output path.
func (be *BundleExporter) ExportResult(result *bundle.Result, options ExportOptions) (string, error) {
	filtered := be.filterBundles(result.Bundles, options)

	if len(filtered) == 0 {
		return "", fmt.Errorf("no bundles match the export criteria")
	}

	filename := be.generateFilename(result.Mint, options)
	outputPath := filepath.Join(options.OutputDir, filename)

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = be.exportToCSV(filtered, outputPath)
	case FormatJSON:
		err = be.exportToJSON(result, filtered, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}

	if err != nil {
		return "", err
	}

	be.logger.Info("Bundle analysis exported",
		zap.String("file", outputPath),
		zap.Int("bundles", len(filtered)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

// filterBundles applies the volume filter to the bundle list
func (be *BundleExporter) filterBundles(bundles []bundle.Bundle, options ExportOptions) []bundle.Bundle {
	var filtered []bundle.Bundle
	for _, b := range bundles {
		if b.TotalSolAmount < options.MinSolAmount {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}

// generateFilename creates a filename based on mint and export options
func (be *BundleExporter) generateFilename(mint string, options ExportOptions) string {
	timestamp := time.Now().Format("20060102_150405")

	prefix := "bundles"
	if len(mint) >= 8 {
		prefix += "_" + mint[:8]
	}

	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

// exportToCSV writes one row per bundle
func (be *BundleExporter) exportToCSV(bundles []bundle.Bundle, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{
		"slot", "unique_wallets", "trades", "total_token_amount",
		"total_sol_amount", "supply_percentage", "holding_amount",
		"holding_percentage", "category",
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, b := range bundles {
		row := []string{
			strconv.FormatUint(b.Slot, 10),
			strconv.Itoa(b.UniqueWallets),
			strconv.Itoa(len(b.Trades)),
			strconv.FormatUint(b.TotalTokenAmount, 10),
			strconv.FormatFloat(b.TotalSolAmount, 'f', 9, 64),
			b.SupplyPercentage,
			strconv.FormatUint(b.HoldingAmount, 10),
			b.HoldingPercentage,
			b.Category,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write bundle row: %w", err)
		}
	}

	return nil
}

// exportToJSON writes the full nested analysis document
func (be *BundleExporter) exportToJSON(result *bundle.Result, filtered []bundle.Bundle, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime  time.Time       `json:"export_time"`
		Mint        string          `json:"mint"`
		TotalTrades int             `json:"total_trades"`
		BundleCount int             `json:"bundle_count"`
		Bundles     []bundle.Bundle `json:"bundles"`
	}{
		ExportTime:  time.Now(),
		Mint:        result.Mint,
		TotalTrades: result.TotalTrades,
		BundleCount: len(filtered),
		Bundles:     filtered,
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
