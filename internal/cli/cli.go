package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"dotstrings/internal/bundle"
	"dotstrings/internal/config"
	"dotstrings/internal/graph"
	"dotstrings/internal/localized"
	"dotstrings/internal/normalize"
	"dotstrings/internal/parser"
	"dotstrings/internal/store"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	setLogLevel(cfg.LogLevel)

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "dotstrings",
		Short:        "Read, normalize and check Apple .strings and .stringsdict files",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(parseCmd(cfg))
	rootCmd.AddCommand(formatCmd(cfg))
	rootCmd.AddCommand(normalizeCmd(cfg))
	rootCmd.AddCommand(dictCmd())
	rootCmd.AddCommand(bundleCmd(cfg))
	rootCmd.AddCommand(lintCmd(cfg))
	rootCmd.AddCommand(keyCmd(cfg))
	rootCmd.AddCommand(pushCmd(cfg))
	rootCmd.AddCommand(listCmd(cfg))
	rootCmd.AddCommand(graphCmd(cfg))

	return rootCmd
}

func parseCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the entries of a .strings file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := parser.LoadFile(args[0], cfg.Encoding)
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []parser.Entry{}
			}
			return writeJSON(cmd.OutOrStdout(), entries)
		},
	}
}

func formatCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "format <file>",
		Short: "Re-serialize a .strings file to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := parser.LoadFile(args[0], cfg.Encoding)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), parser.FormatEntries(entries))
			return err
		},
	}
}

func normalizeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize <file>",
		Short: "Sort a .strings file by key and fold duplicate entries",
		Long: `Sorts entries by key, merges entries that share a key and value, and
sorts their comments. Entries that share a key but differ in value are an
error. The file is rewritten in place unless --output is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			keepDuplicates, _ := cmd.Flags().GetBool("keep-duplicates")
			noSortComments, _ := cmd.Flags().GetBool("no-sort-comments")

			opts := normalize.Options{
				RemoveDuplicates: !keepDuplicates,
				SortComments:     !noSortComments,
				Encoding:         cfg.Encoding,
			}
			if err := normalize.File(args[0], output, opts); err != nil {
				return err
			}

			log.Info().Str("file", args[0]).Msg("Normalized strings file")
			return nil
		},
	}

	cmd.Flags().String("output", "", "Write the result here instead of overwriting the input")
	cmd.Flags().Bool("keep-duplicates", false, "Fail on duplicate keys instead of merging them")
	cmd.Flags().Bool("no-sort-comments", false, "Keep comments in their original order")

	return cmd
}

func dictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dict <file>",
		Short: "Print the entries of a .stringsdict file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := parser.LoadDictFile(args[0])
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []parser.DictEntry{}
			}
			return writeJSON(cmd.OutOrStdout(), entries)
		},
	}
}

func bundleCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle <root>",
		Short: "Load every table under a localization root and summarize it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validate, _ := cmd.Flags().GetBool("validate")

			ctx, cancel := setupContext()
			defer cancel()

			b, err := loadBundle(ctx, cfg, args[0])
			if err != nil {
				return err
			}

			names, err := b.TableNames(validate)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, language := range b.Languages() {
				tables := b.TablesForLanguage(language)
				count := 0
				for _, strs := range tables {
					count += len(strs)
				}
				fmt.Fprintf(out, "%s\t%d tables\t%d strings\t%d plural tables\n",
					language, len(tables), count, len(b.Plurals(language)))
			}
			fmt.Fprintf(out, "tables: %s\n", strings.Join(names, ", "))
			return nil
		},
	}

	cmd.Flags().Bool("validate", false, "Fail unless every language has the same tables")

	return cmd
}

func keyCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key <value>",
		Short: "Print the key derived from a string value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			extension, _ := cmd.Flags().GetString("extension")
			comment, _ := cmd.Flags().GetString("comment")
			table, _ := cmd.Flags().GetString("table")
			call, _ := cmd.Flags().GetBool("nslocalized")

			if table == "" {
				table = cfg.DefaultTable
			}

			s := localized.New("", args[0], "en", table, comment, extension)
			if !call {
				fmt.Fprintln(cmd.OutOrStdout(), s.Key)
				return nil
			}

			text, err := s.NSLocalizedFormat()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	// An empty extension is no extension: the key hashes the value alone.
	cmd.Flags().String("extension", "", "Disambiguates identical values with different meanings (empty means none)")
	cmd.Flags().String("comment", "", "Comment for translators")
	cmd.Flags().String("table", "", "Table name (defaults to DEFAULT_TABLE)")
	cmd.Flags().Bool("nslocalized", false, "Print an NSLocalizedStringWithDefaultValue call instead of the key")

	return cmd
}

func pushCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "push <root>",
		Short: "Store every table under a localization root in PostgreSQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			b, err := loadBundle(ctx, cfg, args[0])
			if err != nil {
				return err
			}

			st, err := store.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.EnsureSchema(ctx); err != nil {
				return err
			}

			n, err := st.PushBundle(ctx, b)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "stored %d strings\n", n)
			return nil
		},
	}
}

func listCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list <language> <table>",
		Short: "Print a table stored in PostgreSQL as a .strings file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			st, err := store.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer st.Close()

			strs, err := st.ListTable(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), strs)
		},
	}
}

func graphCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <root>",
		Short: "Export every table under a localization root to Neo4j",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			b, err := loadBundle(ctx, cfg, args[0])
			if err != nil {
				return err
			}

			driver, err := connectNeo4j(ctx, cfg)
			if err != nil {
				return err
			}
			defer driver.Close(ctx)

			builder := graph.NewGraphBuilder(driver)
			if err := builder.EnsureSchema(ctx); err != nil {
				return err
			}
			if _, err := builder.ExportBundle(ctx, b); err != nil {
				return err
			}

			querier := graph.NewGraphQuerier(driver)
			out := cmd.OutOrStdout()

			missing, _ := cmd.Flags().GetString("missing")
			if missing != "" {
				for _, language := range b.Languages() {
					keys, err := querier.MissingKeys(ctx, missing, language)
					if err != nil {
						return err
					}
					for _, key := range keys {
						fmt.Fprintf(out, "%s\t%s\t%s\n", language, missing, key)
					}
				}
				return nil
			}

			coverage, err := querier.Coverage(ctx)
			if err != nil {
				return err
			}
			for _, c := range coverage {
				fmt.Fprintf(out, "%s\t%s\t%d/%d\n", c.Language, c.Table, c.Translated, c.Total)
			}
			return nil
		},
	}

	cmd.Flags().String("missing", "", "List the keys of this table each language does not translate")

	return cmd
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

func connectNeo4j(ctx context.Context, cfg *config.Config) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("connect Neo4j: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("verify Neo4j connectivity: %w", err)
	}
	log.Info().Msg("Connected to Neo4j")

	return driver, nil
}

func loadBundle(ctx context.Context, cfg *config.Config, root string) (*bundle.Bundle, error) {
	return bundle.LoadAll(ctx, root, bundle.Options{
		Workers:  cfg.WorkerCount,
		Encoding: cfg.Encoding,
	})
}

// writeTable renders strs the way normalize writes a .strings file.
func writeTable(w io.Writer, strs []localized.String) error {
	entries := make([]parser.Entry, len(strs))
	for i, str := range strs {
		entries[i] = str.Entry()
	}
	_, err := io.WriteString(w, parser.FormatEntries(entries))
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
