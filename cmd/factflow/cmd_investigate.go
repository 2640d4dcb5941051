package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"factflow/internal/pipeline"
	"factflow/internal/providers"
	"factflow/internal/storage"
)

var investigateFlags struct {
	file     string
	parallel int
	store    bool
}

var investigateCmd = &cobra.Command{
	Use:   "investigate [claim]",
	Short: "Investigate one claim, or every line of --file, and export the reports",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInvestigate,
}

func init() {
	f := investigateCmd.Flags()
	f.StringVarP(&investigateFlags.file, "file", "f", "", "file with one claim per line (# starts a comment)")
	f.IntVarP(&investigateFlags.parallel, "parallel", "p", 1, "claims investigated at the same time in --file mode")
	f.BoolVar(&investigateFlags.store, "store", false, "record LLM calls in postgres")
}

func runInvestigate(cmd *cobra.Command, args []string) error {
	claims, err := collectClaims(args, investigateFlags.file)
	if err != nil {
		return err
	}
	if err := cfg.Validate(providers.KeyFor); err != nil {
		return err
	}

	deps, mgr, err := pipeline.DefaultDeps(cfg)
	if err != nil {
		return err
	}
	if investigateFlags.store {
		db, err := storage.NewDB(cmd.Context(), cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer db.Close()
		mgr.SetRecorder(storage.NewLLMAuditRepo(db))
	}
	comps, err := pipeline.NewComponents(cfg, deps)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	ctrl := comps.Controller(newConsoleReporter(out))

	failed := runAll(cmd.Context(), ctrl, claims, investigateFlags.parallel, out)
	if failed > 0 {
		return fmt.Errorf("%d of %d investigations failed", failed, len(claims))
	}
	return nil
}

type investigator interface {
	Run(ctx context.Context, claim string) (pipeline.Result, error)
}

// runAll never stops early: every claim gets its own run and a failure is
// only counted.
func runAll(ctx context.Context, inv investigator, claims []string, parallel int, out io.Writer) int {
	if parallel < 1 {
		parallel = 1
	}
	results := make([]error, len(claims))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, claim := range claims {
		g.Go(func() error {
			res, err := inv.Run(gctx, claim)
			results[i] = err
			if err == nil {
				printResult(out, claim, res)
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range results {
		if err != nil {
			failed++
		}
	}
	return failed
}

func collectClaims(args []string, file string) ([]string, error) {
	switch {
	case file != "" && len(args) > 0:
		return nil, fmt.Errorf("pass either a claim or --file, not both")
	case file != "":
		fh, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open claims file: %w", err)
		}
		defer fh.Close()
		return readClaims(fh)
	case len(args) == 1 && strings.TrimSpace(args[0]) != "":
		return []string{strings.TrimSpace(args[0])}, nil
	default:
		return nil, fmt.Errorf("a claim is required")
	}
}

func readClaims(r io.Reader) ([]string, error) {
	var claims []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		claims = append(claims, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}
	if len(claims) == 0 {
		return nil, fmt.Errorf("claims file has no claims")
	}
	return claims, nil
}
