package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"focustree/internal/bootstrap"
	"focustree/internal/platform/config"
	apperrors "focustree/internal/platform/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "focustree",
		Short:         "Webcam-assisted focus sessions with an AI coach",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for settings, history and notes (default $FOCUSTREE_DATA_DIR or the user config dir)")

	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newConfigCmd(&dataDir))
	root.AddCommand(newCoachCmd(&dataDir))
	return root
}

func loadApp(dataDir string, opts bootstrap.Options) (*bootstrap.App, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	if dataDir == "" {
		dataDir = env.DataDir
	}
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	cfg, err := config.New(dataDir, env)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, opts)
}

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Run and review focus sessions"}

	var goal, frames string
	var noCamera bool
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start a focus session, or resume the unfinished one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := bootstrap.Options{NoCamera: noCamera, FramesDir: frames}
			app, err := loadApp(*dataDir, opts)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunSession(cmd.Context(), app, goal, opts)
		},
	}
	runCmd.Flags().StringVar(&goal, "goal", "", "what this session is for (defaults to working_on)")
	runCmd.Flags().BoolVar(&noCamera, "no-camera", false, "run the timer without distraction detection")
	runCmd.Flags().StringVar(&frames, "frames", "", "replay JPEG frames from a directory instead of the webcam")

	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List completed sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, bootstrap.Options{NoCamera: true})
			if err != nil {
				return err
			}
			defer app.Close()
			records, err := app.SessionCLI.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				_, _ = fmt.Fprintln(out, "no sessions")
				return nil
			}
			for _, r := range records {
				_, _ = fmt.Fprintf(out, "%s  %3dm  focus=%5.1f%%  distractions=%-3d %-8s %s\n",
					r.StartedAt.Local().Format("2006-01-02 15:04"), r.TotalMin, r.FocusPercent, r.DistractionCount, r.Mode, r.Goal)
			}
			return nil
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "number of sessions to show")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the unfinished session without recording it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, bootstrap.Options{NoCamera: true})
			if err != nil {
				return err
			}
			defer app.Close()
			if _, restored, err := app.SessionCLI.Restore(cmd.Context()); err != nil {
				return err
			} else if !restored {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no unfinished session")
				return nil
			}
			if err := app.SessionCLI.Reset(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session discarded")
			return nil
		},
	}

	session.AddCommand(runCmd, historyCmd, resetCmd)
	return session
}

func newConfigCmd(dataDir *string) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Session configuration"}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, bootstrap.Options{NoCamera: true})
			if err != nil {
				return err
			}
			defer app.Close()
			cfg, err := app.SetupCLI.Show(cmd.Context())
			if err != nil {
				return err
			}
			return printYAML(cmd, cfg)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Change one setting",
		Example: "  focustree config set mode hardcore\n  focustree config set break.work 50",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir, bootstrap.Options{NoCamera: true})
			if err != nil {
				return err
			}
			defer app.Close()
			cfg, err := app.SetupCLI.Set(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printYAML(cmd, cfg)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, bootstrap.Options{NoCamera: true})
			if err != nil {
				return err
			}
			defer app.Close()
			cfg, err := app.SetupCLI.Reset(cmd.Context())
			if err != nil {
				return err
			}
			return printYAML(cmd, cfg)
		},
	})

	var adopt bool
	suggestCmd := &cobra.Command{
		Use:   "suggest <goal>",
		Short: "Ask the coach for settings that fit a goal and your history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir, bootstrap.Options{NoCamera: true})
			if err != nil {
				return err
			}
			defer app.Close()
			s, err := app.SetupCLI.Suggest(cmd.Context(), strings.Join(args, " "), adopt)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "duration:    %d min\nmode:        %s\npersonality: %s\n", s.DurationMin, s.Mode, s.Personality)
			if s.Reasoning != "" {
				_, _ = fmt.Fprintf(out, "reasoning:   %s\n", s.Reasoning)
			}
			if s.Tip != "" {
				_, _ = fmt.Fprintf(out, "tip:         %s\n", s.Tip)
			}
			if s.Fallback {
				_, _ = fmt.Fprintln(out, "(coach unavailable, showing defaults)")
			}
			if adopt {
				_, _ = fmt.Fprintln(out, "saved")
			}
			return nil
		},
	}
	suggestCmd.Flags().BoolVar(&adopt, "adopt", false, "save the suggestion as the current configuration")

	cfgCmd.AddCommand(suggestCmd)
	return cfgCmd
}

func newCoachCmd(dataDir *string) *cobra.Command {
	coach := &cobra.Command{Use: "coach", Short: "Talk to the coach outside a session"}

	var goal string
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat; an empty line or EOF ends it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, bootstrap.Options{NoCamera: true})
			if err != nil {
				return err
			}
			defer app.Close()
			chat := app.NewChat(goal)
			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				_, _ = fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					return nil
				}
				reply, err := chat.Ask(cmd.Context(), line)
				switch {
				case errors.Is(err, apperrors.ErrRateLimited):
					_, _ = fmt.Fprintln(out, reply.Text)
					continue
				case errors.Is(err, context.Canceled):
					return nil
				case err != nil:
					return err
				}
				_, _ = fmt.Fprintf(out, "%s\n(%d questions left this hour)\n", reply.Text, chat.Remaining())
			}
		},
	}
	chatCmd.Flags().StringVar(&goal, "goal", "", "what you are working on")

	var duration, distractions int
	var focus float64
	insightsCmd := &cobra.Command{
		Use:   "insights",
		Short: "Summarize a session from its numbers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, bootstrap.Options{NoCamera: true})
			if err != nil {
				return err
			}
			defer app.Close()
			in, err := app.CoachCLI.Insights(cmd.Context(), duration, focus, distractions)
			if err != nil {
				app.Log.Warn("insights fell back", "error", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "+ %s\n~ %s\n= %s\n", in.Positive, in.Improvement, in.Pattern)
			return nil
		},
	}
	insightsCmd.Flags().IntVar(&duration, "duration", 60, "session length in minutes")
	insightsCmd.Flags().Float64Var(&focus, "focus", 80, "focus percentage")
	insightsCmd.Flags().IntVar(&distractions, "distractions", 0, "number of distractions")

	coach.AddCommand(chatCmd, insightsCmd)
	return coach
}

func printYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
