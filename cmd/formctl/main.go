package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/controller"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/core"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/forms"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/messages"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/submission"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type globalOptions struct {
	apiBase      string
	lang         string
	messagesFile string
	timeout      time.Duration
	verbose      bool
}

func main() {
	// .env files are optional for the CLI
	_ = core.LoadEnv()

	if err := newRootCmd(surveyPrompter{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd(prompter Prompter) *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "formctl",
		Short: "Fill in and submit the university contact and admission forms",
		Long: `formctl drives the contact and admission forms from a terminal.

It validates input with the same rules as the website, posts to the
forms backend and prints the confirmation or the reason for failure.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&g.apiBase, "api-base", "", "backend API base (default from FORMS_API_BASE_URL)")
	flags.StringVarP(&g.lang, "lang", "l", "", "message locale, ur or en")
	flags.StringVar(&g.messagesFile, "messages", "", "YAML file with extra or overriding messages")
	flags.DurationVar(&g.timeout, "timeout", submission.DefaultTimeout, "upper bound on one submission")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(
		submitCmd(g),
		fillCmd(g, prompter),
		maskCmd(),
		versionCmd(),
	)

	return rootCmd
}

// session is everything one command needs to run a form.
type session struct {
	def      forms.Definition
	messages messages.Messages
	ctrl     *controller.Controller
	logger   *slog.Logger
}

func (g *globalOptions) session(cmd *cobra.Command, form string) (*session, error) {
	def, err := forms.Lookup(form)
	if err != nil {
		return nil, err
	}

	cfg, err := core.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}

	logger := core.DiscardLogger()
	if g.verbose {
		logger = core.NewLoggerTo(cfg, cmd.ErrOrStderr())
	}

	catalog, err := messages.New()
	if err != nil {
		return nil, err
	}
	if err := catalog.MergeFile(g.messagesFile); err != nil {
		return nil, err
	}

	lang := g.lang
	if lang == "" {
		lang = cfg.Forms.Locale
	}
	msgs := catalog.For(lang)

	apiBase := g.apiBase
	if apiBase == "" {
		apiBase = cfg.Forms.ResolveAPIBase(nil)
	}

	client := submission.New(submission.Options{
		Logger:   logger,
		Timeout:  g.timeout,
		Messages: msgs,
	})

	ctrl := controller.New(def, client, controller.Options{
		APIBase:  apiBase,
		Timeout:  g.timeout,
		Messages: msgs,
		Logger:   logger,
	})

	return &session{def: def, messages: msgs, ctrl: ctrl, logger: logger}, nil
}
