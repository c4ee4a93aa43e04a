// Package main is the screener CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/screener/internal/cli"
	"github.com/hyperjump/screener/internal/config"
	"github.com/hyperjump/screener/internal/extract"
	"github.com/hyperjump/screener/internal/fileid"
	"github.com/hyperjump/screener/internal/models"
	"github.com/hyperjump/screener/internal/ranking"
	"github.com/hyperjump/screener/internal/server"
	"github.com/hyperjump/screener/internal/storage"
	"github.com/hyperjump/screener/internal/vocabulary"
	"github.com/hyperjump/screener/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/screener/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in
// the current directory takes precedence if it exists, so running from a
// project directory picks up the project's config.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// loadConfigOrDefaults is loadConfig for commands that can run without a
// config file: a missing default config yields the built-in defaults.
func loadConfigOrDefaults(path string) (*config.Config, error) {
	cfg, _, err := loadConfig(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
		return cfg, nil
	}
	return nil, err
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "match":
		runMatch()
	case "analyze":
		runAnalyze()
	case "watch":
		runWatch()
	case "import":
		runImport()
	case "delete":
		runDelete()
	case "status":
		runStatus()
	case "vocab":
		runVocab()
	case "version", "--version", "-v":
		fmt.Printf("screener version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := components.syncLibrary(ctx); err != nil {
		logger.Warn("library sync failed", zap.Error(err))
	}
	if len(cfg.Watch.Directories) > 0 {
		w, err := startInbox(ctx, cfg, components, logger)
		if err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer w.Stop()
	}

	srv := server.NewServer(
		components.Engine,
		components.Indexer,
		components.Storage,
		components.Library,
		cfg,
		logger,
	)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
}

// argsReorder moves any flags (and their values) that appear after the
// positional arguments to the front so flag.Parse sees them. The flag package
// stops at the first non-flag argument, so "screener match cv.pdf -limit 5"
// would otherwise leave -limit unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// splitKeywords splits a comma-separated keyword list, dropping blanks.
func splitKeywords(s string) []string {
	var out []string
	for _, kw := range strings.Split(s, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// jobFromFlags builds a job from a YAML job file or inline flags. Inline
// values override the file's.
func jobFromFlags(jobPath, description, keywords string) (*models.JobSpec, error) {
	job := &models.JobSpec{}
	if jobPath != "" {
		loaded, err := config.LoadJob(jobPath)
		if err != nil {
			return nil, err
		}
		job = loaded
	}
	if strings.TrimSpace(description) != "" {
		job.Description = description
	}
	if kws := splitKeywords(keywords); len(kws) > 0 {
		job.Keywords = kws
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

func addJobFlags(fs *flag.FlagSet) (jobPath, description, keywords *string) {
	jobPath = fs.String("job", "", "YAML job file with description and/or keywords")
	description = fs.String("description", "", "free-text job description")
	keywords = fs.String("keywords", "", "comma-separated required skills")
	return jobPath, description, keywords
}

// collectResumePaths expands directories into the files under them whose
// extension is in exts. Files named directly are kept whatever their extension.
func collectResumePaths(paths []string, exts []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			if hasExtension(path, exts) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func hasExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if e == ext {
			return true
		}
	}
	return false
}

// readDocuments extracts the text of each resume file. Files that cannot be
// read are logged and skipped.
func readDocuments(ex *extract.Extractor, paths []string, logger *zap.Logger) []*models.Document {
	docs := make([]*models.Document, 0, len(paths))
	for _, p := range paths {
		text, err := ex.Extract(p)
		if err != nil {
			logger.Warn("skipping resume", zap.String("path", p), zap.Error(err))
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		docs = append(docs, &models.Document{
			ID:       fileid.FileDocID(abs),
			Filename: filepath.Base(p),
			Text:     text,
		})
	}
	return docs
}

func runMatch() {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	jobPath, description, keywords := addJobFlags(fs)
	minScore := fs.Float64("min-score", -1, "drop results scoring below this (0-100; default from config)")
	limit := fs.Int("limit", 0, "maximum results to print (0 = all)")
	threshold := fs.Float64("threshold", 0, "fuzzy similarity threshold (0-1; default from config)")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: screener match [flags] <resume-file-or-directory>...\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fatalf("%v", err)
	}
	cfg, err := loadConfigOrDefaults(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	if *threshold != 0 {
		cfg.Matching.FuzzyThreshold = *threshold
	}
	if *minScore >= 0 {
		cfg.Matching.MinScore = *minScore
	}
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}
	logger, err := utils.NewCommandLogger(cfg.Debug || *debug)
	if err != nil {
		fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	job, err := jobFromFlags(*jobPath, *description, *keywords)
	if err != nil {
		fatalf("Invalid job: %v", err)
	}
	eng, err := newEngine(cfg, logger)
	if err != nil {
		fatalf("Failed to load vocabulary: %v", err)
	}

	paths, err := collectResumePaths(fs.Args(), cfg.Watch.Extensions)
	if err != nil {
		fatalf("Failed to read resumes: %v", err)
	}
	docs := readDocuments(extract.NewExtractor(), paths, logger)
	if len(docs) == 0 {
		fatalf("No readable resumes found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	res, err := eng.Screen(ctx, *job, docs)
	if err != nil {
		fatalf("Screening failed: %v", err)
	}
	res.Results = ranking.FilterByMinScore(res.Results, cfg.Matching.MinScore)
	res.Total = len(res.Results)
	if *limit > 0 {
		res.Results = ranking.TopN(res.Results, *limit)
	}
	if err := cli.WriteResults(os.Stdout, res, format); err != nil {
		fatalf("Output failed: %v", err)
	}
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	jobPath, description, keywords := addJobFlags(fs)
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fatalf("%v", err)
	}
	cfg, err := loadConfigOrDefaults(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	desc := *description
	if desc == "" && fs.NArg() > 0 {
		desc = strings.Join(fs.Args(), " ")
	}
	job, err := jobFromFlags(*jobPath, desc, *keywords)
	if err != nil {
		fatalf("Invalid job: %v", err)
	}
	eng, err := newEngine(cfg, zap.NewNop())
	if err != nil {
		fatalf("Failed to load vocabulary: %v", err)
	}
	analysis, err := eng.Analyze(*job)
	if err != nil {
		fatalf("Analysis failed: %v", err)
	}
	if err := cli.WriteAnalysis(os.Stdout, analysis, format); err != nil {
		fatalf("Output failed: %v", err)
	}
}

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	jobPath := fs.String("job", "", "YAML job file to screen new resumes against (default from config)")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: screener watch [flags] [directory]...\n\n")
		fmt.Fprintf(fs.Output(), "Directories default to watch.directories from the config.\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argsReorder(os.Args[2:]))

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	for _, d := range fs.Args() {
		abs, absErr := filepath.Abs(d)
		if absErr != nil {
			fatalf("Invalid directory %s: %v", d, absErr)
		}
		cfg.Watch.Directories = append(cfg.Watch.Directories, abs)
	}
	if *jobPath != "" {
		cfg.Watch.JobPath = *jobPath
	}
	if len(cfg.Watch.Directories) == 0 {
		fs.Usage()
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	w, err := startInbox(ctx, cfg, components, logger)
	if err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	defer w.Stop()

	logger.Info("watching for resumes", zap.Strings("directories", w.Directories()))
	<-ctx.Done()
	logger.Info("Shutting down...")
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: screener import [flags] <file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	logger, err := utils.NewCommandLogger(cfg.Debug)
	if err != nil {
		fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fatalf("Failed to stat path: %v", err)
	}
	if info.IsDir() {
		n, err := components.Indexer.AddDirectory(ctx, path, cfg.Watch.Extensions)
		if err != nil {
			fatalf("Importing directory failed: %v", err)
		}
		fmt.Printf("Imported %d resume(s) from %s\n", n, path)
		return
	}
	// Single file: no extension filter
	r, created, err := components.Indexer.AddFile(ctx, path, nil)
	if err != nil {
		fatalf("Import failed: %v", err)
	}
	if created {
		fmt.Printf("Resume imported: %s (%d skills)\n", r.ID, len(r.Skills))
	} else {
		fmt.Printf("Resume unchanged: %s\n", r.ID)
	}
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: screener delete [flags] <resume-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	logger, err := utils.NewCommandLogger(cfg.Debug)
	if err != nil {
		fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	if err := components.Indexer.DeleteResume(context.Background(), id); err != nil {
		fatalf("Deletion failed: %v", err)
	}
	fmt.Printf("Resume deleted: %s\n", id)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	stats, err := store.DashboardStats(context.Background(), 10, 5)
	if err != nil {
		fatalf("Failed to read stats: %v", err)
	}
	if n, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.LibraryIndexPath); err == nil {
		stats.StorageBytes = n
	}

	if *outputFormat == "json" {
		if err := writeJSON(os.Stdout, stats); err != nil {
			fatalf("Output failed: %v", err)
		}
		return
	}
	fmt.Printf("Resumes:        %d\n", stats.TotalResumes)
	fmt.Printf("Job searches:   %d\n", stats.TotalJobSearches)
	fmt.Printf("Matches:        %d\n", stats.TotalMatches)
	fmt.Printf("Average score:  %.1f\n", stats.AverageScore)
	fmt.Printf("Storage:        %s\n", formatBytes(stats.StorageBytes))
	if len(stats.TopSkills) > 0 {
		fmt.Println("\nTop skills:")
		for _, sc := range stats.TopSkills {
			fmt.Printf("  %-24s %d\n", sc.Skill, sc.Count)
		}
	}
	if len(stats.RecentMatches) > 0 {
		fmt.Println("\nRecent matches:")
		for _, m := range stats.RecentMatches {
			fmt.Printf("  %5.1f  %s\n", m.Score, m.Filename)
		}
	}
}

func runVocab() {
	fs := flag.NewFlagSet("vocab", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfigOrDefaults(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	vocab, err := loadVocabulary(cfg)
	if err != nil {
		fatalf("Failed to load vocabulary: %v", err)
	}
	entries := vocabEntries(vocab)
	if *outputFormat == "json" {
		if err := writeJSON(os.Stdout, entries); err != nil {
			fatalf("Output failed: %v", err)
		}
		return
	}
	for _, e := range entries {
		line := e.Name
		if len(e.Synonyms) > 0 {
			line += " (" + strings.Join(e.Synonyms, ", ") + ")"
		}
		if len(e.Aliases) > 0 {
			line += " [keyword aliases: " + strings.Join(e.Aliases, ", ") + "]"
		}
		fmt.Println(line)
	}
}

// vocabEntries lists each skill with its other surface forms.
func vocabEntries(vocab *vocabulary.Vocabulary) []vocabulary.Entry {
	skills := vocab.Skills()
	out := make([]vocabulary.Entry, 0, len(skills))
	for _, s := range skills {
		e := vocabulary.Entry{Name: s.Name, Aliases: s.Aliases}
		for _, f := range s.Forms {
			if form := f.String(); form != s.Name {
				e.Synonyms = append(e.Synonyms, form)
			}
		}
		out = append(out, e)
	}
	return out
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func printUsage() {
	fmt.Println(`screener - Resume screening and skill matching

Usage:
  screener server [flags]                   Start the HTTP server
  screener match [flags] <resume>...        Screen resume files against a job
  screener analyze [flags] [description]    Show the weighted skills a job requires
  screener watch [flags] [directory]...     Screen resumes as they arrive in a folder
  screener import [flags] <file-or-dir>     Add resumes to the library
  screener delete [flags] <id>              Remove a resume from the library
  screener status [flags]                   Show library and screening stats
  screener vocab [flags]                    List the skill vocabulary
  screener version                          Show version
  screener help                             Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/screener/config.yaml,
                     or ./config.yaml when present)
  --debug            Enable debug logging (server, match, watch)

Job Flags (match, analyze):
  --job string           YAML job file with description and/or keywords
  --description string   Free-text job description
  --keywords string      Comma-separated required skills

Match Flags:
  --min-score float   Drop results scoring below this, 0-100 (default from config)
  --limit int         Maximum results to print (default: all)
  --threshold float   Fuzzy similarity threshold, 0-1 (default from config, 0.8)
  --output string     Output format: text, compact, or json (default: text)

Watch Flags:
  --job string        Job file new resumes are screened against (default: watch.job_path)

Examples:
  screener match --keywords "python,django,postgresql" resumes/
  screener match --job backend.yaml --min-score 50 --output json cv1.pdf cv2.docx
  screener analyze "Senior Go engineer with Kubernetes and Terraform"
  screener watch --job backend.yaml ~/inbox
  screener import ~/resumes
  screener status --output json`)
}
