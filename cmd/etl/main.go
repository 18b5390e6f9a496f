package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/farxc/acompanhamento-kpi/internal/env"
	"github.com/farxc/acompanhamento-kpi/internal/logger"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/dashboard"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/export"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/files"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/filter"
)

type ProfilerStats struct {
	PeakGoroutines int
	PeakMemoryMB   uint64
}

type MemoryMonitor struct {
	mu    sync.Mutex
	stats ProfilerStats
	stop  chan struct{}
}

func NewMonitor() *MemoryMonitor {
	return &MemoryMonitor{
		stop: make(chan struct{}),
	}
}

func (m *MemoryMonitor) Start(interval time.Duration, log *logger.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.update(log)
			case <-m.stop:
				return
			}
		}

	}()
}

func (m *MemoryMonitor) update(logger *logger.Logger) {
	const component = "Monitor"

	var mStats runtime.MemStats
	runtime.ReadMemStats(&mStats)

	currentGoroutines := runtime.NumGoroutine()
	currentMemoryMB := mStats.Alloc / 1024 / 1024

	m.mu.Lock()
	defer m.mu.Unlock()

	if currentGoroutines > m.stats.PeakGoroutines {
		m.stats.PeakGoroutines = currentGoroutines
	}
	if currentMemoryMB > m.stats.PeakMemoryMB {
		m.stats.PeakMemoryMB = currentMemoryMB
	}

	logger.Debug(component, "goroutines=%d memoryMB=%d peakGoroutines=%d peakMemoryMB=%d", currentGoroutines, currentMemoryMB, m.stats.PeakGoroutines, m.stats.PeakMemoryMB)
}

func (m *MemoryMonitor) Stop() ProfilerStats {
	close(m.stop)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func createDirIfNotExist(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		err := os.MkdirAll(dirPath, os.ModePerm)
		if err != nil {
			return err
		}
	}
	return nil
}

type options struct {
	file      string
	read      files.ReadOptions
	filters   filter.Filters
	dashboard dashboard.Options
	export    string
	csv       string
	full      bool
}

// run processes one spreadsheet and prints the summary, or the whole result
// when full is set, as indented JSON to out.
func run(opts options, out io.Writer, appLogger *logger.Logger) error {
	const component = "Runner"

	raw, err := files.Open(opts.file, opts.read)
	if err != nil {
		return err
	}

	res, err := solicitacoes.Process(raw, opts.filters, opts.dashboard, appLogger)
	if err != nil {
		return err
	}

	if opts.export != "" {
		if err := writeExport(opts.export, res); err != nil {
			return err
		}
		appLogger.Info(component, "Workbook exported: path=%s rows=%d", opts.export, res.Table.Len())
	}

	if opts.csv != "" {
		if err := writeCSV(opts.csv, res); err != nil {
			return err
		}
		appLogger.Info(component, "Filtered table written: path=%s rows=%d", opts.csv, res.Summary.TotalSolicitacoes)
	}

	var payload any = res.Summary
	if opts.full {
		payload = res
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func writeExport(path string, res *solicitacoes.Result) error {
	if err := createDirIfNotExist(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := export.WriteWorkbook(f, res.Table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeCSV stores the filtered rows of the normalized table.
func writeCSV(path string, res *solicitacoes.Result) error {
	if err := createDirIfNotExist(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create csv directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	df := res.Filtered().DataFrame()
	if err := df.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return f.Close()
}

func main() {
	const component = "Main"
	monitor := NewMonitor()
	var appLogger = logger.New(logger.LevelInfo, os.Stderr, "acompanhamento-etl")

	// Configure log output format
	log.SetFlags(0)

	if err := env.Load(); err != nil {
		appLogger.Fatal(component, "Failed to load .env: error=%v", err)
	}

	starting_time := time.Now()

	filePtr := flag.String("file", env.GetString("INPUT_FILE", ""), "Spreadsheet to process (.xlsx or .csv)")
	sheetPtr := flag.String("sheet", env.GetString("SHEET", files.DefaultSheet), "Worksheet holding the requests")
	headerRowPtr := flag.Int("header-row", env.GetInt("HEADER_ROW", files.DefaultHeaderRow), "1-based row of the column labels")
	buPtr := flag.String("bu", filter.All, "BU filter")
	respSMPtr := flag.String("resp-sm", filter.All, "RESP_SM filter")
	statusPtr := flag.String("status", filter.All, "STATUS filter (lower case)")
	tipoPtr := flag.String("tipo", filter.All, "TIPO filter")
	nowPtr := flag.String("now", "", "Reference date for the dashboard cards (YYYY-MM-DD), default today")
	exportPtr := flag.String("export", "", "Write the normalized workbook to this path")
	csvPtr := flag.String("csv", "", "Write the filtered normalized rows as CSV to this path")
	fullPtr := flag.Bool("full", env.GetBool("FULL_OUTPUT", false), "Print the whole result instead of the summary")
	logLevelPtr := flag.String("loglevel", env.GetString("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flag.Parse()

	appLogger.SetLogLevel(logger.ParseLevel(*logLevelPtr))
	monitor.Start(400*time.Millisecond, appLogger)

	if *filePtr == "" {
		appLogger.Fatal(component, "Missing input: use -file or INPUT_FILE")
	}

	opts := options{
		file: *filePtr,
		read: files.ReadOptions{Sheet: *sheetPtr, HeaderRow: *headerRowPtr},
		filters: filter.Filters{
			BU:     *buPtr,
			RespSM: *respSMPtr,
			Status: *statusPtr,
			Tipo:   *tipoPtr,
		},
		export: *exportPtr,
		csv:    *csvPtr,
		full:   *fullPtr,
	}
	if *nowPtr != "" {
		now, err := time.Parse(time.DateOnly, *nowPtr)
		if err != nil {
			appLogger.Fatal(component, "Invalid reference date: date=%s error=%v", *nowPtr, err)
		}
		opts.dashboard.Now = now
	}

	appLogger.Info(component, "Application started: file=%s sheet=%s headerRow=%d filtered=%t", opts.file, opts.read.Sheet, opts.read.HeaderRow, opts.filters.Active())

	if err := run(opts, os.Stdout, appLogger); err != nil {
		appLogger.Fatal(component, "Processing failed: error=%v", err)
	}

	stats := monitor.Stop()
	timeTaken := time.Since(starting_time)
	appLogger.Info(component, "Application completed successfully: duration=%.2f seconds peakGoroutines=%d peakMemoryMB=%d", timeTaken.Seconds(), stats.PeakGoroutines, stats.PeakMemoryMB)
}
