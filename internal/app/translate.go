package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/FxEmbed/polyglot/internal/cli"
	"github.com/FxEmbed/polyglot/internal/language"
	"github.com/FxEmbed/polyglot/internal/translation"
)

type translateOptions struct {
	to       string
	from     string
	provider string
	asJSON   bool
	timeout  time.Duration
}

func newTranslateCmd(envLoader *cli.EnvLoader) *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate [flags] [text...]",
		Short: "Translate text once and print the result",
		Long:  "Translate text once and print the result. Text is read from stdin when no arguments are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, envLoader, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.to, "to", "t", "", "Target language code (for example: es, zh-cn)")
	cmd.Flags().StringVarP(&opts.from, "from", "f", "", "Source language code (default: auto-detect)")
	cmd.Flags().StringVarP(&opts.provider, "provider", "p", "", "Use only this provider (for example: google, deepl)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the full response as JSON")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Command timeout")
	return cmd
}

func runTranslate(cmd *cobra.Command, envLoader *cli.EnvLoader, opts translateOptions, args []string) error {
	target := strings.TrimSpace(opts.to)
	if language.NormalizeTag(target) == "" {
		return usageError("--to is required and must be a valid language code")
	}

	text, err := translateInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return usageError("text to translate must not be empty")
	}

	rt, err := loadRuntime(envLoader, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.close()

	var engine *translation.Engine
	if name := strings.TrimSpace(opts.provider); name != "" {
		provider, err := rt.registry.Provider(name)
		if err != nil {
			return usageError("%v", err)
		}
		if !provider.IsAvailable() {
			return fmt.Errorf("provider %s is not configured", provider.Name())
		}
		engine = rt.engine(provider)
	} else {
		engine = rt.engine()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	rt.discoverLanguages(ctx, engine)
	resp, err := engine.Translate(ctx, translation.TranslateRequest{
		Text:       text,
		SourceLang: strings.TrimSpace(opts.from),
		TargetLang: target,
	})
	if err != nil {
		if errors.Is(err, translation.ErrNoProvider) {
			return fmt.Errorf("no configured provider can translate this text into %s", target)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(resp)
	}
	_, err = fmt.Fprintln(out, resp.Text)
	return err
}

func translateInput(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if in == nil {
		return "", nil
	}
	raw, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(raw), "\r\n"), nil
}
