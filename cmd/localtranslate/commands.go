package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"localtranslate/internal/domain"
	"localtranslate/internal/ports"
	"localtranslate/internal/usecase/catalog"
	"localtranslate/internal/usecase/monitor"
)

func newTranslateCmd(o *options) *cobra.Command {
	var from, to, model string
	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text",
		Long:  "Translate the arguments joined by spaces, or stdin when no arguments are given.",
		RunE: withEnv(o, func(cmd *cobra.Command, args []string, e *env) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(b)
			}
			s := e.session
			if from != "" {
				if err := s.SetSourceLang(from); err != nil {
					return err
				}
			}
			if to != "" {
				if err := s.SetTargetLang(to); err != nil {
					return err
				}
			}
			if model != "" {
				if err := s.SelectModel(cmd.Context(), model); err != nil {
					return err
				}
			}
			s.SetSourceText(text)
			if err := s.Translate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.Snapshot().TranslatedText)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&from, "from", "f", "", "source language code (default "+domain.DefaultSourceLang+")")
	cmd.Flags().StringVarP(&to, "to", "t", "", "target language code (default "+domain.DefaultTargetLang+")")
	cmd.Flags().StringVarP(&model, "model", "m", "", "model id; remembered for later runs")
	return cmd
}

func newStatusCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the Ollama connection for the selected model",
		RunE: withEnv(o, func(cmd *cobra.Command, args []string, e *env) error {
			mon := monitor.New(monitor.Deps{
				Commands: e.client,
				Board:    e.board,
				Models:   e.session,
				Log:      e.log.Component("monitor"),
			}, monitor.Options{Timeout: e.cfg.Ollama.ProbeTimeout})
			probeErr := mon.Retry(cmd.Context())

			snap := e.board.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-8s %s\n", "ollama:", e.cfg.Ollama.BaseURL)
			fmt.Fprintf(out, "%-8s %s\n", "model:", domain.ModelLabel(e.session.SelectedModel()))
			fmt.Fprintf(out, "%-8s %s\n", "status:", snap.Status)
			return probeErr
		}),
	}
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages [query]",
		Short: "List supported languages, optionally filtered by name or code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			langs := catalog.Default().Search(query)
			if len(langs) == 0 {
				return fmt.Errorf("no languages found for %q", query)
			}
			for _, l := range langs {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", l.Code, l.Name)
			}
			return nil
		},
	}
}

func newModelsCmd(o *options) *cobra.Command {
	var installed bool
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List selectable models; * marks the remembered one",
		RunE: withEnv(o, func(cmd *cobra.Command, args []string, e *env) error {
			var tags []string
			if installed {
				var err error
				if tags, err = installedTags(cmd.Context(), e.client); err != nil {
					return err
				}
			}
			selected := e.session.SelectedModel()
			for _, m := range domain.Models {
				mark := " "
				if m.ID == selected {
					mark = "*"
				}
				line := fmt.Sprintf("%s %-20s %s", mark, m.ID, m.Label)
				if installed {
					line += "  " + installState(tags, m.ID)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&installed, "installed", false, "also ask Ollama which models are installed")
	return cmd
}

func installedTags(ctx context.Context, l ports.ModelLister) ([]string, error) {
	list, err := l.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(list))
	for _, m := range list {
		tags = append(tags, m.Name)
	}
	return tags, nil
}

func installState(tags []string, id string) string {
	for _, t := range tags {
		if strings.HasPrefix(t, id) {
			return "installed"
		}
	}
	return "missing"
}
