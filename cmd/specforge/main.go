// Command specforge runs one generation for an app description and prints the
// resulting project document as JSON.
//
//	specforge [-name NAME] [-out DIR] [-publish] [description]
//
// The description is read from stdin when no argument is given.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"basegraph.app/specforge/common"
	"basegraph.app/specforge/common/id"
	"basegraph.app/specforge/common/llm"
	"basegraph.app/specforge/common/logger"
	"basegraph.app/specforge/common/otel"
	"basegraph.app/specforge/core/config"
	"basegraph.app/specforge/internal/model"
	"basegraph.app/specforge/internal/pipeline"
	"basegraph.app/specforge/internal/queue"
	"basegraph.app/specforge/internal/service"
)

type options struct {
	name    string
	outDir  string
	publish bool
}

func main() {
	var opts options
	flag.StringVar(&opts.name, "name", "", "project name (default: the extracted app name)")
	flag.StringVar(&opts.outDir, "out", "", "write the document to DIR/<slug>.json instead of stdout")
	flag.BoolVar(&opts.publish, "publish", false, "hand the document to the configured Redis stream")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, flag.Args(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "specforge: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, args []string, stdin io.Reader, stdout io.Writer) error {
	description, err := readDescription(args, stdin)
	if err != nil {
		return err
	}

	cfg, err := config.Load(config.ServiceTypeCLI)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	telemetry, err := otel.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing otel: %w", err)
	}
	defer telemetry.Shutdown(context.WithoutCancel(ctx))

	logger.SetupTo(cfg, os.Stderr)

	if err := id.Init(cfg.NodeID); err != nil {
		return err
	}

	var gateway llm.Gateway
	if cfg.LLM.Enabled() {
		gateway, err = llm.New(llm.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: llm.Temp(cfg.LLM.Temperature),
			Timeout:     cfg.LLM.TimeoutSeconds,
			SiteURL:     cfg.LLM.SiteURL,
			SiteName:    cfg.LLM.SiteName,
		})
		if err != nil {
			return fmt.Errorf("creating llm gateway: %w", err)
		}
	} else {
		slog.WarnContext(ctx, "LLM_API_KEY not set, using fallback heuristics only")
	}

	publisher := queue.NewLogPublisher(slog.Default())
	if opts.publish {
		publisher, err = queue.Connect(ctx, cfg.Publisher, slog.Default())
		if err != nil {
			return err
		}
	}
	defer publisher.Close()

	runID := id.New()
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		RequestID: logger.Ptr(fmt.Sprintf("cli-%d", runID)),
		Component: "specforge.cli",
	})

	generator := pipeline.New(gateway, pipeline.Config{
		RequirementsMaxTokens: cfg.Pipeline.RequirementsMaxTokens,
		FieldsMaxTokens:       cfg.Pipeline.FieldsMaxTokens,
		FieldsParallelism:     cfg.Pipeline.FieldsParallelism,
	})
	projects := service.NewServices(generator, gateway, publisher).Projects()

	doc, err := projects.Generate(ctx, service.GenerateInput{Description: description, Name: opts.name})
	if err != nil {
		return err
	}

	return writeDocument(doc, opts.outDir, stdout)
}

func readDescription(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading description: %w", err)
	}
	description := strings.TrimSpace(string(data))
	if description == "" {
		return "", errors.New("no description given")
	}
	return description, nil
}

func writeDocument(doc *model.ProjectDocument, outDir string, stdout io.Writer) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	data = append(data, '\n')

	if outDir == "" {
		_, err := stdout.Write(data)
		return err
	}

	slug, err := common.Slugify(doc.Name, "project", 60)
	if err != nil {
		return err
	}
	path := filepath.Join(outDir, fmt.Sprintf("%s-%d.json", slug, doc.ID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	fmt.Fprintln(stdout, path)
	return nil
}
