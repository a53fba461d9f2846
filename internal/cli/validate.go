package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"tag-engine/internal/codec"
	"tag-engine/internal/filewalker"
	"tag-engine/internal/segfile"
	"tag-engine/internal/textutil"
	"tag-engine/internal/token"
	"tag-engine/internal/validator"
	"tag-engine/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func validateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file-or-dir>",
		Short: "Check that every target keeps the markers of its source",
		Long: `Reads tab-separated segment files (source<TAB>target or id<TAB>source<TAB>target)
and reports missing, extra and reordered markers per segment.
With --fix, repairable targets are written to <name>.fixed.tsv next to the input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fix, _ := cmd.Flags().GetBool("fix")
			strict, _ := cmd.Flags().GetBool("strict")
			return a.runValidate(cmd, args[0], fix, strict || a.cfg.StrictWarnings)
		},
	}

	cmd.Flags().Bool("fix", false, "Write repaired targets to <name>.fixed.tsv")
	cmd.Flags().Bool("strict", false, "Fail on warnings as well as errors")

	return cmd
}

// segmentResult is the validation outcome of one row.
type segmentResult struct {
	File    string              `json:"file" yaml:"file"`
	ID      string              `json:"id" yaml:"id"`
	Line    int                 `json:"line" yaml:"line"`
	Issues  []validator.Issue   `json:"issues" yaml:"issues"`
	Tokens  []tokenView         `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Fixed   string              `json:"fixed,omitempty" yaml:"fixed,omitempty"`
	Pending []validator.FixKind `json:"pending,omitempty" yaml:"pending,omitempty"`
}

type validateSummary struct {
	Segments int             `json:"segments" yaml:"segments"`
	Errors   int             `json:"errors" yaml:"errors"`
	Warnings int             `json:"warnings" yaml:"warnings"`
	Results  []segmentResult `json:"results" yaml:"results"`
}

type rowJob struct {
	file string
	row  segfile.Row
}

func (a *app) runValidate(cmd *cobra.Command, path string, fix, strict bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	c, err := a.codec()
	if err != nil {
		return err
	}

	files, jobs, err := loadRows(path)
	if err != nil {
		return err
	}

	log.Info().Int("files", len(files)).Int("segments", len(jobs)).Msg("Validating segments")

	pool := worker.NewPool(a.cfg.WorkerCount, func(ctx context.Context, job rowJob) (segmentResult, error) {
		return checkRow(c, job, fix, a.cfg.PreviewLength), nil
	})
	outcomes := pool.Execute(ctx, jobs)

	summary := validateSummary{}
	fixedRows := make(map[string][]segfile.Row)
	for _, o := range outcomes {
		if !o.Done {
			continue
		}
		res := o.Result
		summary.Segments++
		for _, is := range res.Issues {
			if is.Severity == validator.SeverityError {
				summary.Errors++
			} else {
				summary.Warnings++
			}
		}
		if len(res.Issues) > 0 {
			summary.Results = append(summary.Results, res)
		}
		if fix {
			row := o.Input.row
			if res.Fixed != "" {
				row.Target = res.Fixed
			}
			fixedRows[o.Input.file] = append(fixedRows[o.Input.file], row)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	for _, f := range files {
		rows, ok := fixedRows[f]
		if !ok {
			continue
		}
		out := strings.TrimSuffix(f, filepath.Ext(f)) + ".fixed.tsv"
		if err := segfile.Write(out, rows); err != nil {
			return err
		}
		log.Info().Str("input", f).Str("output", out).Msg("Wrote repaired segments")
	}

	if err := write(cmd.OutOrStdout(), a.output, summary); err != nil {
		return err
	}

	log.Info().
		Int("segments", summary.Segments).
		Int("errors", summary.Errors).
		Int("warnings", summary.Warnings).
		Msg("Validation complete")

	if summary.Errors > 0 || (strict && summary.Warnings > 0) {
		return fmt.Errorf("validation found %d error(s) and %d warning(s)", summary.Errors, summary.Warnings)
	}
	return nil
}

// loadRows reads every segment file under path. Rows of files without an
// ID column get "<file>:<line>", where file is relative to path so the
// same row keeps its ID between runs.
func loadRows(path string) ([]string, []rowJob, error) {
	files, err := filewalker.NewWalker().Walk(path)
	if err != nil {
		return nil, nil, err
	}

	var jobs []rowJob
	for _, f := range files {
		rows, err := segfile.Read(f)
		if err != nil {
			return nil, nil, err
		}
		label := fileLabel(path, f)
		for _, r := range rows {
			r.ID = r.Key(label)
			jobs = append(jobs, rowJob{file: f, row: r})
		}
	}
	return files, jobs, nil
}

func fileLabel(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil || rel == "." {
		return filepath.Base(file)
	}
	return filepath.ToSlash(rel)
}

// checkRow validates one row and, when fix is set, applies every
// implemented repair in issue order.
func checkRow(c *codec.Codec, job rowJob, fix bool, preview int) segmentResult {
	source := c.Parse(job.row.Source)
	target := c.Parse(job.row.Target)
	report := validator.Validate(source, target)

	res := segmentResult{
		File:   job.file,
		ID:     job.row.ID,
		Line:   job.row.Line,
		Issues: report.Issues,
	}
	if report.OK() {
		return res
	}

	log.Debug().
		Str("segment", job.row.ID).
		Str("source", textutil.Truncate(job.row.Source, preview)).
		Int("issues", len(report.Issues)).
		Msg("Segment has marker issues")

	res.Tokens = viewOf(validator.Annotate(source, target))
	if !fix {
		return res
	}

	fixed := target
	for _, is := range report.Issues {
		s := validator.GenerateAutoFix(is, source, fixed)
		if s == nil {
			continue
		}
		if !s.Implemented() {
			res.Pending = append(res.Pending, s.Kind)
			continue
		}
		fixed = s.Apply(fixed)
	}
	if !token.Equal(fixed, target) {
		res.Fixed = fixed.Text()
	}
	return res
}
