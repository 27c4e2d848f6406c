package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"dotstrings/internal/bundle"
	"dotstrings/internal/config"
	"dotstrings/internal/interpolation"
	"dotstrings/internal/textutil"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	passColor = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
)

// maxKeyWidth bounds keys printed by lint.
const maxKeyWidth = 60

// issue is one problem found in a translated string.
type issue struct {
	Language string
	Table    string
	Key      string
	Detail   string
	// Warning issues are reported but do not fail the lint.
	Warning bool
}

func (i issue) String() string {
	return fmt.Sprintf("%s/%s: %q %s", i.Language, i.Table, textutil.Truncate(i.Key, maxKeyWidth), i.Detail)
}

func lintCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <root>",
		Short: "Check that every language matches the base language",
		Long: `Checks that every language defines the same tables and that each
translated string carries the same format specifiers as the base language.
Keys that are missing from a translation are reported as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, _ := cmd.Flags().GetString("base")
			if base == "" {
				base = cfg.BaseLanguage
			}

			ctx, cancel := setupContext()
			defer cancel()

			return runLint(ctx, cmd.OutOrStdout(), cfg, args[0], base)
		},
	}

	cmd.Flags().String("base", "", "Base language to compare against (defaults to BASE_LANGUAGE)")

	return cmd
}

func runLint(ctx context.Context, out io.Writer, cfg *config.Config, root, base string) error {
	b, err := loadBundle(ctx, cfg, root)
	if err != nil {
		return err
	}

	if !slices.Contains(b.Languages(), base) {
		return fmt.Errorf("base language %q not found in %s", base, root)
	}

	failures := 0
	if _, err := b.TableNames(true); err != nil {
		failColor.Fprint(out, "FAIL ")
		fmt.Fprintln(out, err)
		failures++
	}

	issues := tokenIssues(b, base)
	for _, i := range issues {
		if i.Warning {
			warnColor.Fprint(out, "WARN ")
		} else {
			failColor.Fprint(out, "FAIL ")
			failures++
		}
		fmt.Fprintln(out, i)
	}

	log.Debug().
		Str("base", base).
		Int("issues", len(issues)).
		Int("failures", failures).
		Msg("Lint complete")

	if failures > 0 {
		return fmt.Errorf("lint found %d problems", failures)
	}
	passColor.Fprint(out, "PASS ")
	fmt.Fprintf(out, "%d languages match %s\n", len(b.Languages()), base)
	return nil
}

// tokenIssues compares every language against base, table by table. Tables
// the base language lacks are skipped; table set differences are reported by
// Bundle.TableNames.
func tokenIssues(b *bundle.Bundle, base string) []issue {
	baseTables := b.TablesForLanguage(base)

	var issues []issue
	for _, language := range b.Languages() {
		if language == base {
			continue
		}
		tables := b.TablesForLanguage(language)
		for _, table := range slices.Sorted(maps.Keys(tables)) {
			source, ok := baseTables[table]
			if !ok {
				continue
			}

			values := make(map[string]string, len(tables[table]))
			for _, s := range tables[table] {
				values[s.Key] = s.Value
			}

			for _, s := range source {
				translated, ok := values[s.Key]
				if !ok {
					issues = append(issues, issue{
						Language: language, Table: table, Key: s.Key,
						Detail: "is not translated", Warning: true,
					})
					continue
				}

				m := interpolation.Compare(s.Value, translated)
				if m.Empty() {
					continue
				}
				var parts []string
				if len(m.Missing) > 0 {
					parts = append(parts, "missing "+strings.Join(m.Missing, " "))
				}
				if len(m.Extra) > 0 {
					parts = append(parts, "extra "+strings.Join(m.Extra, " "))
				}
				issues = append(issues, issue{
					Language: language, Table: table, Key: s.Key,
					Detail: "format specifiers differ: " + strings.Join(parts, ", "),
				})
			}
		}
	}
	return issues
}
