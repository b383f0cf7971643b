package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/FxEmbed/polyglot/internal/cli"
	"github.com/FxEmbed/polyglot/internal/translation"
)

type providerInfo struct {
	Name          string `yaml:"name"`
	Tier          string `yaml:"tier"`
	Available     bool   `yaml:"available"`
	MaxTextLength int    `yaml:"max_text_length"`
	Languages     int    `yaml:"languages"`
}

func newProvidersCmd(envLoader *cli.EnvLoader) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List registered providers and whether they are configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			rt, err := loadRuntime(envLoader, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()
			return writeProviders(cmd.OutOrStdout(), format, describeProviders(rt.registry.Providers()))
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or yaml")
	return cmd
}

func newLanguagesCmd(envLoader *cli.EnvLoader) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List target languages offered by the configured providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			rt, err := loadRuntime(envLoader, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			engine := rt.engine()
			rt.discoverLanguages(cmd.Context(), engine)
			options := translation.TranslationLanguageOptions(engine.Providers())
			out := cmd.OutOrStdout()
			if format == "yaml" {
				return writeYAML(out, options)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tPROVIDERS")
			for _, option := range options {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", option.Code, option.Name, strings.Join(option.Providers, ","))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or yaml")
	return cmd
}

func checkFormat(format string) error {
	switch format {
	case "table", "yaml":
		return nil
	default:
		return usageError("--format must be table or yaml, got %q", format)
	}
}

func describeProviders(providers []translation.Provider) []providerInfo {
	infos := make([]providerInfo, 0, len(providers))
	for _, provider := range providers {
		tier := "paid"
		if provider.IsFree() {
			tier = "free"
		}
		languages := 0
		if lister, ok := provider.(interface{ Languages() []string }); ok {
			languages = len(lister.Languages())
		}
		infos = append(infos, providerInfo{
			Name:          provider.Name(),
			Tier:          tier,
			Available:     provider.IsAvailable(),
			MaxTextLength: provider.MaxTextLength(),
			Languages:     languages,
		})
	}
	return infos
}

func writeProviders(out io.Writer, format string, infos []providerInfo) error {
	if format == "yaml" {
		return writeYAML(out, infos)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTIER\tAVAILABLE\tMAX TEXT\tLANGUAGES")
	for _, info := range infos {
		maxText := "unlimited"
		if info.MaxTextLength != translation.NoTextLimit {
			maxText = strconv.Itoa(info.MaxTextLength)
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%d\n", info.Name, info.Tier, info.Available, maxText, info.Languages)
	}
	return tw.Flush()
}

func writeYAML(out io.Writer, value any) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return encoder.Close()
}
