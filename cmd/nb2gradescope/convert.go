package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	gradescope "github.com/DS-100/nb-to-gradescope"
	"github.com/DS-100/nb-to-gradescope/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no notebook specified")
	ErrInvalidExtension   = errors.New("file must have an .ipynb extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrOutputNotDir       = errors.New("converting multiple notebooks requires --output to be a directory or unset")
)

// defaultConfigName is looked up implicitly when --config is not given.
const defaultConfigName = "nb2gradescope"

// conversionParams groups the settings shared by every notebook in a batch.
type conversionParams struct {
	input    gradescope.Input // template; Filename/Folder/Output filled per file
	renderer string
	timeout  time.Duration
	workers  int
}

// runConvert orchestrates the conversion of one or more notebooks.
func runConvert(ctx context.Context, files []string, flags *convertFlags, env *Environment) error {
	if len(files) == 0 {
		return ErrNoInput
	}
	for _, file := range files {
		if err := validateNotebookExtension(file); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(flags.config)
	if err != nil {
		return err
	}

	params, err := resolveParams(flags, cfg)
	if err != nil {
		return err
	}

	pool := NewServicePool(resolvePoolSize(params.workers, len(files)), func() (*gradescope.Service, error) {
		opts := []gradescope.Option{gradescope.WithStdout(env.Stdout)}
		if params.renderer != "" {
			opts = append(opts, gradescope.WithRenderer(params.renderer))
		}
		if params.timeout > 0 {
			opts = append(opts, gradescope.WithTimeout(params.timeout))
		}
		return gradescope.New(opts...)
	})
	defer pool.Close()

	if len(files) == 1 {
		input := params.input
		input.Filename = files[0]
		return convertOne(ctx, pool, input)
	}

	if params.input.Output != "" {
		info, err := os.Stat(params.input.Output)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrOutputNotDir, params.input.Output)
		}
	}
	return convertBatch(ctx, files, params, pool, env)
}

// convertOne converts a single notebook with a pooled service.
func convertOne(ctx context.Context, pool *ServicePool, input gradescope.Input) error {
	svc, err := pool.Acquire()
	if err != nil {
		return err
	}
	defer pool.Release(svc)

	_, err = svc.Convert(ctx, input)
	return err
}

// convertBatch converts several notebooks, each through the full sequential
// pipeline, with up to pool.Size() notebooks in flight.
func convertBatch(ctx context.Context, files []string, params *conversionParams, pool *ServicePool, env *Environment) error {
	results := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pool.Size())

	for i, file := range files {
		g.Go(func() error {
			input := params.input
			input.Filename = file
			input.Folder = batchFolder(file)
			input.Output = batchOutput(file, params.input.Output)

			results[i] = convertOne(gctx, pool, input)
			return nil // errors reported per file below
		})
	}
	_ = g.Wait()

	var failed int
	for i, err := range results {
		if err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "%s: %v\n", files[i], err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d notebooks failed", failed, len(files))
	}
	return nil
}

// batchFolder gives each notebook its own question PDF folder so parallel
// conversions never collide.
func batchFolder(file string) string {
	return notebookStem(file) + "_question_pdfs"
}

// batchOutput places the merged PDF next to the notebook, or under the
// output directory when one was given.
func batchOutput(file, outputDir string) string {
	name := notebookStem(file) + "_gradescope.pdf"
	if outputDir == "" {
		return filepath.Join(filepath.Dir(file), name)
	}
	return filepath.Join(outputDir, filepath.Base(name))
}

// notebookStem strips the directory and .ipynb extension.
func notebookStem(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// validateNotebookExtension checks that the file has an .ipynb extension.
func validateNotebookExtension(path string) error {
	if ext := filepath.Ext(path); ext != ".ipynb" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// loadConfig loads the named config, or tries the implicit default name and
// treats its absence as no config at all.
func loadConfig(nameOrPath string) (*config.Config, error) {
	if nameOrPath != "" {
		return config.LoadConfig(nameOrPath)
	}
	cfg, err := config.LoadConfig(defaultConfigName)
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.DefaultConfig(), nil
	}
	return cfg, err
}

// resolveParams merges flags over config values; zero values defer to the
// library defaults.
func resolveParams(flags *convertFlags, cfg *config.Config) (*conversionParams, error) {
	if flags.workers < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkerCount, flags.workers)
	}

	params := &conversionParams{
		input: gradescope.Input{
			NumQuestions:     flags.questions,
			Solution:         flags.solution,
			PagesPerQuestion: pick(flags.pagesPerQ, cfg.Convert.PagesPerQuestion),
			Folder:           pickString(flags.folder, cfg.Convert.Folder),
			Output:           pickString(flags.output, cfg.Convert.Output),
			Zoom:             pickFloat(flags.zoom, cfg.Convert.Zoom),
			NoBanner:         flags.noBanner || cfg.Convert.NoBanner,
			WaitForSave:      flags.waitSave,
		},
		renderer: pickString(flags.renderer, cfg.Convert.Renderer),
		workers:  flags.workers,
	}

	if flags.solution && len(cfg.Tags.Solution) > 0 {
		params.input.Tags = cfg.Tags.Solution
	} else if !flags.solution && len(cfg.Tags.Student) > 0 {
		params.input.Tags = cfg.Tags.Student
	}

	if size, margin := pickString(flags.pageSize, cfg.Page.Size), pickFloat(flags.margin, cfg.Page.Margin); size != "" || margin != 0 {
		page := gradescope.DefaultPageSettings()
		if size != "" {
			page.Size = size
		}
		if margin != 0 {
			page.Margin = margin
		}
		params.input.Page = page
	}

	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimeout, flags.timeout)
		}
		params.timeout = d
	}

	return params, nil
}

func pick(flag, cfg int) int {
	if flag != 0 {
		return flag
	}
	return cfg
}

func pickString(flag, cfg string) string {
	if flag != "" {
		return flag
	}
	return cfg
}

func pickFloat(flag, cfg float64) float64 {
	if flag != 0 {
		return flag
	}
	return cfg
}
