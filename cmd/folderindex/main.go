// Package main is the entry point for the FolderIndex command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/CageChen/folderindex/internal/config"
	mfs "github.com/CageChen/folderindex/internal/fs"
	"github.com/CageChen/folderindex/internal/index"
)

// version is the application version, set via ldflags.
var version = "dev"

// options holds the command line flags. Indexer flags override the config
// file only when set explicitly.
type options struct {
	configFile string

	output          string
	maxDepth        int
	hidden          bool
	noSize          bool
	binaryUnits     bool
	indent          string
	exclude         []string
	gitignore       bool
	descriptionFile string
	cssFile         string
	gitRef          string

	outputFile string
	clipboard  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "folderindex [PATH]",
		Short: "Index a folder tree as HTML, text, XML or JSON",
		Long: `FolderIndex walks a folder, optionally at a git ref, and renders its
tree of subfolders and files with sizes. Run "folderindex serve" to browse
indexes of configured folders over HTTP.`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return runIndex(cmd, opts, path)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is $HOME/.config/folderindex/config.yaml)")

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Output format: html, txt, xml or json")
	flags.IntVar(&opts.maxDepth, "max-depth", 0, "Maximum folder depth to list (0 for no limit)")
	flags.BoolVarP(&opts.hidden, "hidden", "H", false, "Include hidden files and folders")
	flags.BoolVar(&opts.noSize, "no-size", false, "Omit sizes")
	flags.BoolVar(&opts.binaryUnits, "binary-units", false, "Use KiB/MiB sizes instead of KB/MB")
	flags.StringVar(&opts.indent, "indent", "", "Indentation text per level in text output")
	flags.StringSliceVarP(&opts.exclude, "exclude", "e", nil, "Name patterns to exclude (comma-separated)")
	flags.BoolVar(&opts.gitignore, "gitignore", false, "Skip entries ignored by the root .gitignore")
	flags.StringVar(&opts.descriptionFile, "description", "", "Markdown file rendered at the top of the HTML index")
	flags.StringVar(&opts.cssFile, "css", "", "CSS file replacing the built-in HTML style")
	flags.StringVar(&opts.gitRef, "git-ref", "", "Index the tree of a git ref instead of the working directory")
	flags.StringVarP(&opts.outputFile, "file", "f", "", "Save output to specified file")
	flags.BoolVarP(&opts.clipboard, "clipboard", "c", false, "Copy output to clipboard")

	cmd.AddCommand(newServeCmd(opts))
	return cmd
}

// loadConfig reads the config file and stamps the running version into the
// footer product.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Indexer.Product = index.Product{
		Name:    index.DefaultProduct.Name,
		Version: version,
		URL:     index.DefaultProduct.URL,
	}
	return cfg, nil
}

// applyFlags copies explicitly set indexer flags onto settings.
func applyFlags(cmd *cobra.Command, opts *options, settings *index.Settings) error {
	flags := cmd.Flags()
	if flags.Changed("output") {
		output, err := index.ParseOutput(opts.output)
		if err != nil {
			return err
		}
		settings.Output = output
	}
	if flags.Changed("max-depth") {
		settings.MaxDepthLevel = opts.maxDepth
	}
	if flags.Changed("hidden") {
		settings.SkipHiddenFolders = !opts.hidden
		settings.SkipHiddenFiles = !opts.hidden
	}
	if flags.Changed("no-size") {
		settings.ShowSizeInfo = !opts.noSize
	}
	if flags.Changed("binary-units") {
		settings.BinaryUnits = opts.binaryUnits
	}
	if flags.Changed("indent") {
		settings.IndentationText = opts.indent
	}
	if flags.Changed("exclude") {
		settings.Exclude = append(settings.Exclude, opts.exclude...)
	}
	if flags.Changed("gitignore") {
		settings.RespectGitignore = opts.gitignore
	}
	if flags.Changed("css") {
		settings.CustomCSSFilePath = opts.cssFile
	}
	if flags.Changed("description") {
		data, err := os.ReadFile(opts.descriptionFile)
		if err != nil {
			return fmt.Errorf("failed to read description: %w", err)
		}
		settings.Description = string(data)
	}
	return settings.Validate()
}

func runIndex(cmd *cobra.Command, opts *options, path string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	settings := cfg.Indexer
	if err := applyFlags(cmd, opts, &settings); err != nil {
		return err
	}

	formatter, err := index.NewFormatter(settings.Output)
	if err != nil {
		return err
	}

	var fsys mfs.FileSystem = mfs.NewLocalFS(path)
	if opts.gitRef != "" {
		fsys = mfs.NewGitFS(path, opts.gitRef)
	}
	tree, err := index.Scan(cmd.Context(), fsys, "", settings)
	if err != nil {
		return err
	}
	out, err := formatter.Render(tree, settings)
	if err != nil {
		return err
	}
	folders, files := tree.Counts()

	switch {
	case opts.outputFile != "":
		if err := os.WriteFile(opts.outputFile, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.outputFile, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Index of %d folder(s) and %d file(s) saved to %s\n", folders, files, opts.outputFile)
	case opts.clipboard:
		if err := clipboard.WriteAll(out); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to write to clipboard: %v\n", err)
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Index of %d folder(s) and %d file(s) copied to clipboard.\n", folders, files)
	default:
		fmt.Fprint(cmd.OutOrStdout(), out)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
