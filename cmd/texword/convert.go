package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/texword"
	"github.com/tsawler/texword/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert <manuscript.tex>",
	Short: "Convert a LaTeX manuscript to a styled Word document",
	Long: `Convert runs the full pipeline on a manuscript: source flattening,
compatibility patching, figure rasterization, external conversion, and
restyling. The output path defaults to the input name with a .docx
extension.

Style values can be overridden individually:

    texword convert paper.tex --style heading1_size=15 --style margin=3`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	flags := convertCmd.Flags()
	flags.StringP("output", "o", "", "output path (default: input with .docx extension)")
	flags.String("font", "", "font family for the whole document")
	flags.Float64("font-size", 0, "body text size in points")
	flags.Float64("line-spacing", 0, "line spacing multiple")
	flags.Float64("margin", 0, "page margins in centimeters")
	flags.StringArray("style", nil, "style override as name=value (repeatable)")
	flags.String("markers", "", "YAML file with classification marker overrides")
	flags.String("rules", "", "YAML file with additional source patch rules")
	flags.Int("dpi", 0, "figure rasterization resolution")
	flags.Int("workers", 0, "concurrent figure rasterizations")
	flags.String("pandoc", "", "path to the pandoc binary")
	flags.Duration("timeout", 0, "external conversion timeout")
	flags.String("work-dir", "", "directory for intermediate artifacts")
	flags.Bool("keep-work-dir", false, "retain the temporary work directory")
	flags.Bool("strict-inputs", false, "fail on unresolvable \\input targets instead of warning")

	for _, name := range []string{"font", "font-size", "line-spacing", "margin", "dpi", "workers", "pandoc", "timeout"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	flags := cmd.Flags()

	output, _ := flags.GetString("output")
	if output == "" {
		output = strings.TrimSuffix(input, ".tex") + ".docx"
	}

	conv := texword.Open(input).Logger(logger)

	if font := viper.GetString("font"); font != "" {
		conv = conv.Font(font)
	}
	if size := viper.GetFloat64("font-size"); size > 0 {
		conv = conv.FontSize(size)
	}
	if spacing := viper.GetFloat64("line-spacing"); spacing > 0 {
		conv = conv.LineSpacing(spacing)
	}
	if margin := viper.GetFloat64("margin"); margin > 0 {
		conv = conv.Margin(margin)
	}
	if dpi := viper.GetInt("dpi"); dpi > 0 {
		conv = conv.DPI(dpi)
	}
	if workers := viper.GetInt("workers"); workers > 0 {
		conv = conv.Workers(workers)
	}

	overrides, _ := flags.GetStringArray("style")
	for _, kv := range overrides {
		name, value, err := splitStyleOverride(kv)
		if err != nil {
			return err
		}
		conv = conv.StyleOption(name, value)
	}

	if markers, _ := flags.GetString("markers"); markers != "" {
		conv = conv.MarkersFile(markers)
	}
	if rules, _ := flags.GetString("rules"); rules != "" {
		conv = conv.PatchRulesFile(rules)
	}
	if workDir, _ := flags.GetString("work-dir"); workDir != "" {
		conv = conv.WorkDir(workDir)
	}
	if keep, _ := flags.GetBool("keep-work-dir"); keep {
		conv = conv.KeepWorkDir()
	}
	if strict, _ := flags.GetBool("strict-inputs"); strict {
		conv = conv.StrictInputs()
	}

	pandoc := viper.GetString("pandoc")
	timeout := viper.GetDuration("timeout")
	if pandoc != "" || timeout > 0 {
		conv = conv.Backend(&convert.Pandoc{Command: pandoc, Timeout: timeout})
	}

	logger.Info("converting", "input", input, "output", output)
	start := time.Now()
	warnings, err := conv.Save(cmd.Context(), output)
	for _, w := range warnings {
		logger.Warn(w.Message, "stage", w.Stage, "code", w.Code)
	}
	if err != nil {
		return err
	}
	logger.Info("done", "output", output, "elapsed", time.Since(start).Round(time.Millisecond))
	fmt.Fprintln(os.Stdout, output)
	return nil
}

// splitStyleOverride parses a name=value style flag.
func splitStyleOverride(kv string) (string, float64, error) {
	name, raw, ok := strings.Cut(kv, "=")
	if !ok || name == "" {
		return "", 0, fmt.Errorf("invalid style override %q, expected name=value", kv)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid style value in %q: %w", kv, err)
	}
	return name, value, nil
}
