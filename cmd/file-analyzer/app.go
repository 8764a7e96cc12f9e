package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/file-analyzer/constants"
	"github.com/joseph-ayodele/file-analyzer/internal/analyzer"
	"github.com/joseph-ayodele/file-analyzer/internal/common"
	"github.com/joseph-ayodele/file-analyzer/internal/ocr"
	"github.com/joseph-ayodele/file-analyzer/internal/repository"
)

// app holds what every subcommand needs once the root command has loaded
// configuration and opened the history store.
type app struct {
	cfg        *common.Config
	logger     *slog.Logger
	db         *repository.DB
	extractor  *ocr.Extractor
	identities repository.IdentityRepository
	svc        *analyzer.Service
}

type rootFlags struct {
	configPath string
	outputDir  string
	verbose    bool
	logJSON    bool
	inMemory   bool
}

func newRootCmd(a *app) *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:   "file-analyzer",
		Short: "Analyze text and CSV files and extract identity fields from scanned documents",
		Long: `file-analyzer computes word and CSV statistics, writes reports and charts,
and scans PDFs and images for a 12-digit identity number together with the
holder's name, date of birth and gender.

Run without a subcommand for the interactive menu.`,
		Version:       constants.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context(), f, cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMenu(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", os.Getenv("ANALYZER_CONFIG"), "YAML file overlaying environment configuration")
	pf.StringVarP(&f.outputDir, "output-dir", "o", "", "directory for reports, charts and workbooks (default $OUTPUT_DIR or ./output)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&f.logJSON, "log-json", false, "log as JSON")
	pf.BoolVar(&f.inMemory, "inmem", false, "keep history in an in-memory database")

	root.AddCommand(
		a.menuCmd(),
		a.textCmd(),
		a.csvCmd(),
		a.scanIDCmd(),
		a.scanDirCmd(),
		a.watchCmd(),
		a.searchCmd(),
		a.specialCmd(),
		a.exportCmd(),
		a.summaryCmd(),
		a.historyCmd(),
		a.ocrCmd(),
	)
	return root
}

func (a *app) setup(ctx context.Context, f *rootFlags, logOut io.Writer) error {
	cfg := common.LoadConfig()
	if f.configPath != "" {
		if err := common.LoadConfigFile(f.configPath, cfg); err != nil {
			return err
		}
	}
	if f.outputDir != "" {
		cfg.Output.Dir = f.outputDir
	}
	if f.inMemory {
		cfg.Database.InMemory = true
	}
	if f.verbose {
		cfg.Logging.Level = "debug"
	}
	if f.logJSON {
		cfg.Logging.JSON = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = newLogger(cfg.Logging, logOut)
	slog.SetDefault(a.logger)

	db, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.HistoryDSN(),
		InMemory:    cfg.Database.InMemory,
		DialTimeout: 3 * time.Second,
	}, a.logger)
	if err != nil {
		return common.WrapError(err, "open history store")
	}
	a.db = db

	a.extractor = ocr.NewExtractor(ocr.Config{
		Pdftoppm:         cfg.OCR.Pdftoppm,
		Tesseract:        cfg.OCR.Tesseract,
		TesseractLang:    cfg.OCR.Language,
		DPI:              cfg.OCR.DPI,
		MaxPages:         cfg.OCR.MaxPages,
		TessdataDir:      cfg.OCR.TessdataDir,
		HeicConverter:    cfg.OCR.HeicConverter,
		TextLayer:        cfg.OCR.TextLayer,
		PSM:              cfg.OCR.PSM,
		OEM:              cfg.OCR.OEM,
		ArtifactCacheDir: cfg.OCR.ArtifactCacheDir,
	}, a.logger)
	a.identities = repository.NewIdentityRepository(db, a.logger)
	a.svc = analyzer.NewService(a.logger, cfg, a.extractor,
		repository.NewResultRepository(db, a.logger), a.identities)
	return nil
}

func (a *app) close() {
	if a.db != nil {
		repository.Close(a.db, a.logger)
		a.db = nil
	}
}

func newLogger(cfg common.LoggingConfig, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
