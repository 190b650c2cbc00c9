package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"unloadcli/internal/config"
	"unloadcli/internal/dataprocessing"
	"unloadcli/internal/exporter"
	"unloadcli/internal/files"
	"unloadcli/internal/infrastructure"
)

func main() {
	inputPath := flag.String("input", "", "source workbook (defaults to the single workbook in the Excel directory)")
	outDir := flag.String("out", "", "output directory (defaults to <output root>/<today>)")
	openResult := flag.Bool("open", false, "open the result workbook when done")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	mgr := files.NewManager()

	source := *inputPath
	if source == "" {
		source = discoverSource(logger, mgr, cfg.Paths.ExcelDir)
	} else if _, err := os.Stat(source); err != nil {
		logger.Error("Source workbook not found", slog.String("file", source))
		os.Exit(1)
	}

	// The output directory is date-stamped per run; the core only ever
	// sees the resolved directory.
	resolvedOut := *outDir
	if resolvedOut == "" {
		resolvedOut = filepath.Join(cfg.Paths.OutputDir, time.Now().Format("2006-01-02"))
	}

	logger.Info("Starting unloading analysis",
		slog.String("source", source),
		slog.String("output_dir", resolvedOut))

	report, err := dataprocessing.ReadWorkbook(source)
	if err != nil {
		logger.Error("Failed to read workbook",
			slog.String("file", source),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := dataprocessing.Derive(report); err != nil {
		logger.Error("Failed to derive metrics",
			slog.String("file", source),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	resultPath, err := exporter.NewResultExporter().Export(report, resolvedOut)
	if err != nil {
		logger.Error("Failed to export result",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Result saved",
		slog.String("path", resultPath),
		slog.Int("rows", len(report.Records)))

	if *openResult || cfg.Export.OpenAfterExport {
		if err := mgr.OpenInViewer(resultPath); err != nil {
			logger.Warn("Could not open result automatically",
				slog.String("path", resultPath),
				slog.String("error", err.Error()))
		}
	}
}

// discoverSource resolves the input workbook from the Excel directory when
// none is given. An empty directory gets an import template instead of a
// run; several candidates require an explicit -input.
func discoverSource(logger *slog.Logger, mgr *files.Manager, excelDir string) string {
	if err := mgr.EnsureDirectory(excelDir); err != nil {
		logger.Error("Failed to create Excel directory",
			slog.String("dir", excelDir),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	workbooks, err := mgr.ListWorkbooks(excelDir)
	if err != nil {
		logger.Error("Failed to scan Excel directory",
			slog.String("dir", excelDir),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	switch len(workbooks) {
	case 0:
		path, err := mgr.CreateTemplate(excelDir)
		if err != nil {
			logger.Error("Failed to create import template",
				slog.String("dir", excelDir),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("No workbook found; import template created, fill it in and rerun",
			slog.String("template", path))
		os.Exit(0)
	case 1:
		return workbooks[0]
	default:
		logger.Error("Several workbooks found; pass one with -input",
			slog.Any("candidates", workbooks))
		os.Exit(1)
	}
	return ""
}
