// Command chatlytics analyzes exported chat transcripts. Each input file
// yields a <name>.analysis.json next to it (or under -out), and -insights
// additionally asks a model for prose observations over the numeric digest.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/chatlytics/chatlytics/config"
	"github.com/chatlytics/chatlytics/engine"
	"github.com/chatlytics/chatlytics/fileutils"
	"github.com/chatlytics/chatlytics/insights"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	engineCfg, err := config.LoadEngine(cfg.ConfigFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var generator *insights.Generator
	if cfg.Insights {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			fmt.Fprintln(os.Stderr, "missing OPENAI_API_KEY (or pass -api-key)")
			os.Exit(2)
		}
		client := openai.NewClient(option.WithAPIKey(apiKey))
		generator = insights.NewGenerator(&client, cfg.Model)
	}

	inputFiles, err := collectInputFiles(cfg.InputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if len(inputFiles) == 0 {
		fmt.Fprintln(os.Stderr, "no transcript .txt or .json files found")
		os.Exit(2)
	}

	start := time.Now()
	analyzed := 0
	skipped := 0
	for i, inFile := range inputFiles {
		outPath := analysisOutPath(cfg.OutputDir, inFile)
		if !cfg.Overwrite && fileutils.FileExists(outPath) {
			skipped++
			fmt.Fprintf(os.Stderr, "[%d/%d] skip (exists): %s\n", i+1, len(inputFiles), outPath)
			continue
		}

		if err := analyzeFile(ctx, inFile, outPath, engineCfg, generator, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "failed analyzing %s: %s\n", inFile, err.Error())
			os.Exit(1)
		}
		analyzed++
		fmt.Fprintf(os.Stderr, "[%d/%d] wrote %s\n", i+1, len(inputFiles), outPath)
	}

	fmt.Printf("analyzed %d transcript(s), skipped %d, in %s\n",
		analyzed, skipped, time.Since(start).Round(time.Millisecond))
}

func analyzeFile(ctx context.Context, inFile, outPath string, engineCfg engine.Config, generator *insights.Generator, cfg Config) error {
	raw, err := os.ReadFile(inFile)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	conv, err := engine.Parse(raw, engineCfg)
	if err != nil {
		return err
	}
	res, err := engine.Analyze(ctx, conv, engineCfg)
	if err != nil {
		return err
	}
	if err := fileutils.WriteJSONFileAtomic(outPath, res, cfg.Pretty); err != nil {
		return err
	}

	if generator == nil {
		return nil
	}
	payload := engine.BuildInsightPayload(conv, res, engineCfg)
	ins, err := generator.Generate(ctx, payload)
	if err != nil {
		return fmt.Errorf("generate insights: %w", err)
	}
	return fileutils.WriteJSONFileAtomic(insightsOutPath(cfg.OutputDir, inFile), ins, cfg.Pretty)
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InputPath, "in", cfg.InputPath, "Path to a transcript file (.txt or .json) OR a directory of transcripts")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory to write analysis files into (default: next to each input)")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Optional YAML file overriding engine thresholds and weights")
	fs.BoolVar(&cfg.Insights, "insights", false, "Also generate model-written insights from the numeric digest")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "OpenAI model for -insights (e.g. gpt-5-mini)")
	fs.StringVar(&cfg.APIKey, "api-key", "", "OpenAI API key (overrides OPENAI_API_KEY env var)")
	fs.BoolVar(&cfg.Pretty, "pretty", cfg.Pretty, "Pretty-print output JSON")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite existing analysis files")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExample:")
		fmt.Fprintln(fs.Output(), "  chatlytics -in export/chat.txt -insights")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.InputPath != "" {
		cfg.InputPath = filepath.Clean(cfg.InputPath)
	}
	if cfg.OutputDir != "" {
		cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	}
	return cfg, nil
}

func collectInputFiles(inputPath string) ([]string, error) {
	fi, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("stat -in: %w", err)
	}

	if !fi.IsDir() {
		if !isTranscriptExt(inputPath) {
			return nil, fmt.Errorf("input file must be .txt or .json: %s", inputPath)
		}
		return []string{inputPath}, nil
	}

	entries, err := os.ReadDir(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !isTranscriptExt(name) || strings.HasSuffix(name, ".analysis.json") || strings.HasSuffix(name, ".insights.json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("read dir entry info %s: %w", name, err)
		}
		if info.Mode()&fs.ModeType != 0 {
			continue
		}
		files = append(files, filepath.Join(inputPath, name))
	}
	sort.Strings(files)
	return files, nil
}

func isTranscriptExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".json":
		return true
	}
	return false
}

func analysisOutPath(outDir, inFile string) string {
	return outPathWithSuffix(outDir, inFile, ".analysis.json")
}

func insightsOutPath(outDir, inFile string) string {
	return outPathWithSuffix(outDir, inFile, ".insights.json")
}

func outPathWithSuffix(outDir, inFile, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(inFile), filepath.Ext(inFile))
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(inFile)
	}
	return filepath.Join(dir, base+suffix)
}
