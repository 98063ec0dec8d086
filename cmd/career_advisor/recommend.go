package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-advisor/internal/advisor"
	"github.com/jonathan/career-advisor/internal/observability"
	"github.com/jonathan/career-advisor/internal/types"
)

func init() {
	rootCmd.AddCommand(newRecommendCmd())
}

type recommendOptions struct {
	profiles    []string
	name        string
	education   string
	interests   []string
	skills      []string
	constraints string
	mode        string
	topK        int
	concurrency int
	verbose     bool
}

func newRecommendCmd() *cobra.Command {
	opts := &recommendOptions{}
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend careers for one or more profiles",
		Long: `Runs the recommendation pipeline for a profile given by flags, or for each JSON
profile file passed with --profile. Profiles run concurrently; results are printed
as one JSON object per line in input order.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.profiles, "profile", "p", nil, "Path to a profile JSON file (repeatable)")
	f.StringVarP(&opts.name, "name", "n", "", "Student name")
	f.StringVar(&opts.education, "education", "", "Education summary")
	f.StringSliceVar(&opts.interests, "interests", nil, "Comma-separated interests")
	f.StringSliceVar(&opts.skills, "skills", nil, "Comma-separated skills")
	f.StringVar(&opts.constraints, "constraints", "", "Constraints such as location or budget")
	f.StringVarP(&opts.mode, "mode", "m", "", "generative or retrieval (overrides ADVISOR_MODE)")
	f.IntVarP(&opts.topK, "top-k", "k", 0, "Number of careers to retrieve (overrides TOP_K)")
	f.IntVarP(&opts.concurrency, "concurrency", "c", 4, "Maximum profiles processed at once")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Print retrieved careers and outcomes to stderr")
	cmd.MarkFlagsMutuallyExclusive("profile", "name")
	cmd.MarkFlagsMutuallyExclusive("profile", "skills")
	cmd.MarkFlagsMutuallyExclusive("profile", "interests")

	return cmd
}

// recommendLine is one line of recommend output.
type recommendLine struct {
	Source string `json:"source"`
	RunID  string `json:"run_id"`
	State  string `json:"state"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Raw    string `json:"raw,omitempty"`
}

type profileInput struct {
	source  string
	profile types.ProfileRequest
}

func runRecommend(cmd *cobra.Command, opts *recommendOptions) error {
	if opts.concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", opts.concurrency)
	}

	inputs, err := collectProfiles(opts)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.mode != "" {
		mode, err := advisor.ParseMode(opts.mode)
		if err != nil {
			return err
		}
		cfg.Mode = string(mode)
	}
	if cmd.Flags().Changed("top-k") {
		cfg.TopK = opts.topK
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	outcomes := make([]*advisor.Outcome, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			outcomes[i] = p.advisor.Recommend(gctx, in.profile)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		for i, out := range outcomes {
			printer.PrintProfile(inputs[i].profile)
			printer.PrintRetrieved(out.Retrieved)
			printer.PrintOutcome(out)
		}
	}

	failed, err := writeLines(cmd.OutOrStdout(), inputs, outcomes)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d recommendations failed", failed, len(outcomes))
	}
	return nil
}

func collectProfiles(opts *recommendOptions) ([]profileInput, error) {
	if len(opts.profiles) == 0 {
		profile := types.ProfileRequest{
			Name:        opts.name,
			Education:   opts.education,
			Interests:   opts.interests,
			Skills:      opts.skills,
			Constraints: opts.constraints,
		}
		if err := profile.Validate(); err != nil {
			return nil, fmt.Errorf("invalid profile: %w", err)
		}
		return []profileInput{{source: "flags", profile: profile}}, nil
	}

	inputs := make([]profileInput, 0, len(opts.profiles))
	for _, path := range opts.profiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
		}
		var profile types.ProfileRequest
		if err := json.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("failed to parse profile JSON %s: %w", path, err)
		}
		if err := profile.Validate(); err != nil {
			return nil, fmt.Errorf("invalid profile %s: %w", path, err)
		}
		inputs = append(inputs, profileInput{source: path, profile: profile})
	}
	return inputs, nil
}

func writeLines(w io.Writer, inputs []profileInput, outcomes []*advisor.Outcome) (int, error) {
	enc := json.NewEncoder(w)
	failed := 0
	for i, out := range outcomes {
		line := recommendLine{
			Source: inputs[i].source,
			RunID:  out.ID.String(),
			State:  string(out.State),
		}
		if out.OK() {
			line.Result = out.Payload
		} else {
			failed++
			line.Error = out.Err.Error()
			line.Raw = out.Raw
		}
		if err := enc.Encode(line); err != nil {
			return failed, fmt.Errorf("failed to write result: %w", err)
		}
	}
	return failed, nil
}
