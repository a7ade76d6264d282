package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ahrav/go-triptych/infrastructure/export"
	"github.com/ahrav/go-triptych/infrastructure/middleware"
	"github.com/ahrav/go-triptych/infrastructure/store"
	"github.com/ahrav/go-triptych/internal/application"
	"github.com/ahrav/go-triptych/internal/domain"
	"github.com/ahrav/go-triptych/internal/logging"
	"github.com/ahrav/go-triptych/internal/ports"
)

// exportAuto asks for the default export file name.
const exportAuto = "auto"

var optionsValidator = validator.New()

type runOptions struct {
	promptFile  string
	template    string
	draft       bool
	slots       map[string]string
	models      []string
	temperature float64
	topK        int
	topP        float64
	maxTokens   int
	stop        []string
	timeout     time.Duration
	exportPath  string
	jsonOutput  bool
	metricsFile string
	markdown    bool
}

func (a *app) newRunCommand() *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:   "run [prompt]",
		Short: "Send one prompt to every slot and compare the responses",
		Long: `Sends the prompt to every configured slot at the same time and prints each
response with its metrics, followed by a comparison. A failing slot does not
affect the others. The prompt comes from the arguments, a file (--file, "-"
for stdin), a saved template (--template) or the saved draft (--draft).`,
		Example: `  # Compare the default three models
  triptych run "Explain the CAP theorem in two sentences"

  # Pick models per slot and export the session
  triptych run --models gemini-2.5-flash,gemini-1.5-pro --export auto "Hello"

  # Use a saved template and override sampling
  triptych run --template template-1 --temperature 0.2 --max-tokens 512`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args, &o)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.promptFile, "file", "f", "", `read the prompt from a file ("-" for stdin)`)
	flags.StringVarP(&o.template, "template", "t", "", "use a saved template, by ID or name")
	flags.BoolVar(&o.draft, "draft", false, "send the saved draft (see 'triptych draft')")
	flags.StringToStringVar(&o.slots, "slot", nil, "bind a slot to a model, e.g. column1=gemini-2.5-pro")
	flags.StringSliceVarP(&o.models, "models", "m", nil, "models for column1..column3, comma-separated")
	flags.Float64Var(&o.temperature, "temperature", domain.DefaultTemperature, "sampling temperature (0-2)")
	flags.IntVar(&o.topK, "top-k", domain.DefaultTopK, "top-k sampling")
	flags.Float64Var(&o.topP, "top-p", domain.DefaultTopP, "nucleus sampling (0-1)")
	flags.IntVar(&o.maxTokens, "max-tokens", domain.DefaultMaxOutputTokens, "maximum output tokens")
	flags.StringSliceVar(&o.stop, "stop", nil, "stop sequences")
	flags.DurationVar(&o.timeout, "timeout", 0, "per-call timeout, 0 for none")
	flags.StringVarP(&o.exportPath, "export", "o", "", `write the session as JSON to a path ("auto" for the default name)`)
	flags.Lookup("export").NoOptDefVal = exportAuto
	flags.BoolVar(&o.jsonOutput, "json", false, "print the session JSON instead of tables")
	flags.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics to a textfile")
	flags.BoolVar(&o.markdown, "markdown", false, "render responses as terminal markdown")
	return cmd
}

func (a *app) run(cmd *cobra.Command, args []string, o *runOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	prompt, err := a.resolvePrompt(ctx, args, o)
	if err != nil {
		return err
	}
	slots, err := a.resolveSlots(o)
	if err != nil {
		return err
	}
	opts, err := a.resolveOptions(cmd, o)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		a.cfg.Timeout = o.timeout
	}

	apiKey, source, err := a.resolveAPIKey(ctx)
	if err != nil {
		return err
	}
	logging.Logger.WithField("source", source).Debug("using API key")

	var collector *middleware.PrometheusMetrics
	var mc ports.MetricsCollector
	if a.cfg.MetricsEnabled || o.metricsFile != "" {
		collector = middleware.NewPrometheusMetrics(nil)
		mc = collector
	}

	exec, _, err := a.buildExecutor(ctx, apiKey, mc)
	if err != nil {
		return err
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	orch, err := application.NewOrchestrator(exec,
		application.WithSlots(slots),
		application.WithGenerationOptions(opts),
		application.WithHistory(s),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	batch, err := orch.SubmitPrompt(ctx, prompt)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	cmp := application.Compare(batch)

	if mc != nil {
		recordBatch(mc, batch, elapsed)
	}

	session := export.BuildSession(prompt, slots, batch, cmp, a.now())
	out := a.streams.Out
	if o.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(session); err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}
	} else {
		format := plainText
		if o.markdown {
			format = markdownFormatter(out, a.noColor)
		}
		renderBatch(out, slots, batch, cmp, a.catalog, format)
	}

	if o.exportPath != "" {
		path := o.exportPath
		if path == exportAuto {
			path = ""
		}
		written, err := export.Writer{Dir: a.cfg.ExportDir}.Write(path, session)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.streams.ErrOut, "session exported to %s\n", written)
	}
	if collector != nil && o.metricsFile != "" {
		if err := collector.WriteTextfile(o.metricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	logging.Logger.WithFields(logrus.Fields{
		"elapsed_ms": elapsed.Milliseconds(),
		"total_cost": cmp.TotalCost,
	}).Info("comparison finished")

	if application.AllFailed(batch) {
		return fmt.Errorf("all %d slots failed: %w", len(batch.Errors), application.FirstError(batch))
	}
	return nil
}

// resolvePrompt takes the prompt from exactly one of the arguments, a file,
// a stored template or the draft.
func (a *app) resolvePrompt(ctx context.Context, args []string, o *runOptions) (string, error) {
	sources := 0
	for _, set := range []bool{len(args) > 0, o.promptFile != "", o.template != "", o.draft} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		return "", errors.New("a prompt is required: pass it as an argument, --file, --template or --draft")
	case sources > 1:
		return "", errors.New("use only one of a prompt argument, --file, --template or --draft")
	}

	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case o.promptFile == "-":
		data, err := io.ReadAll(a.streams.In)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt from stdin: %w", err)
		}
		return string(data), nil
	case o.promptFile != "":
		data, err := os.ReadFile(o.promptFile)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file: %w", err)
		}
		return string(data), nil
	}

	s, err := a.openStore()
	if err != nil {
		return "", err
	}
	if o.draft {
		state, err := s.LoadComposerState(ctx)
		if err != nil {
			return "", err
		}
		return state.Content, nil
	}
	t, err := findTemplate(ctx, s, o.template)
	if err != nil {
		return "", err
	}
	return t.Content, nil
}

// findTemplate looks a template up by ID, then by exact name.
func findTemplate(ctx context.Context, s *store.Store, ref string) (store.Template, error) {
	t, err := s.GetTemplate(ctx, ref)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return store.Template{}, err
	}
	all, err := s.ListTemplates(ctx)
	if err != nil {
		return store.Template{}, err
	}
	for _, t := range all {
		if t.Name == ref {
			return t, nil
		}
	}
	return store.Template{}, fmt.Errorf("template %q: %w", ref, ports.ErrNotFound)
}

// resolveSlots overlays --models and then --slot on the configured slots.
func (a *app) resolveSlots(o *runOptions) (map[domain.SlotID]domain.ModelID, error) {
	if len(o.models) > len(domain.DefaultSlots) {
		return nil, fmt.Errorf("at most %d models can be compared", len(domain.DefaultSlots))
	}

	slots := make(map[domain.SlotID]domain.ModelID, len(a.cfg.Slots))
	if len(o.models) > 0 {
		for i, m := range o.models {
			slots[domain.DefaultSlots[i]] = domain.ModelID(strings.TrimSpace(m))
		}
	} else {
		for k, v := range a.cfg.Slots {
			slots[k] = v
		}
	}
	for k, v := range o.slots {
		slots[domain.SlotID(strings.TrimSpace(k))] = domain.ModelID(strings.TrimSpace(v))
	}
	if len(slots) > len(domain.DefaultSlots) {
		return nil, fmt.Errorf("at most %d slots can be compared", len(domain.DefaultSlots))
	}
	return slots, nil
}

// resolveOptions overlays explicitly set flags on the configured options
// and range-checks the result.
func (a *app) resolveOptions(cmd *cobra.Command, o *runOptions) (domain.GenerationOptions, error) {
	opts := a.cfg.Generation
	flags := cmd.Flags()
	if flags.Changed("temperature") {
		opts.Temperature = domain.Ptr(o.temperature)
	}
	if flags.Changed("top-k") {
		opts.TopK = domain.Ptr(o.topK)
	}
	if flags.Changed("top-p") {
		opts.TopP = domain.Ptr(o.topP)
	}
	if flags.Changed("max-tokens") {
		opts.MaxOutputTokens = domain.Ptr(o.maxTokens)
	}
	if flags.Changed("stop") {
		opts.StopSequences = o.stop
	}
	if err := optionsValidator.Struct(&opts); err != nil {
		return domain.GenerationOptions{}, fmt.Errorf("invalid generation options: %w", err)
	}
	return opts, nil
}

func recordBatch(mc ports.MetricsCollector, batch *domain.BatchResult, elapsed time.Duration) {
	status := "success"
	switch {
	case application.AllFailed(batch):
		status = "all_failed"
	case len(batch.Errors) > 0:
		status = "partial"
	}
	mc.RecordLatency("batch", elapsed, nil)
	mc.RecordCounter("batches_total", 1, map[string]string{"status": status})
	if n := batch.Len(); n > 0 {
		mc.RecordGauge("batch_success_ratio", float64(len(batch.Results))/float64(n), nil)
	}
	for slot, r := range batch.Results {
		mc.RecordGauge("last_response_time_ms", float64(r.ResponseTime),
			map[string]string{"model": string(r.ModelID), "slot": string(slot)})
	}
}
