package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gradecheck/internal/checker"
	"gradecheck/internal/components/chrono"
	"gradecheck/internal/components/telemetry"
	"gradecheck/internal/history"
	"gradecheck/internal/notify"
	"gradecheck/internal/scrapers/cas"
	"gradecheck/internal/scrapers/grades"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	debug      *bool
	flagConfig Config
	timeout    *time.Duration
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", defaultConfigPath, "The config file, when it exists every other flag is ignored.")
	debug = rootCmd.PersistentFlags().Bool("debug", false, "Print debug logs.")
	rootCmd.PersistentFlags().StringVar(&flagConfig.Snapshot, "snapshot", defaultSnapshotPath, "The file the last fetched grade list is kept in.")
	rootCmd.PersistentFlags().StringVar(&flagConfig.History.File, "history", "", "A sqlite file every check is recorded to.")

	rootCmd.Flags().StringVarP(&flagConfig.Uid, "uid", "u", "", "The student id used to log into the passport.")
	rootCmd.Flags().StringVarP(&flagConfig.Password, "password", "p", "", "The passport password.")
	rootCmd.Flags().StringVarP(&flagConfig.Mail, "mail", "m", "", "The mail address notifications are sent from and to.")
	rootCmd.Flags().StringVar(&flagConfig.MailPassword, "mail_password", "", "The password of the mail account.")
	rootCmd.Flags().StringVarP(&flagConfig.SmtpServer, "server", "s", notify.DefaultSmtpServer, "The smtp server.")
	rootCmd.Flags().IntVar(&flagConfig.Port, "port", notify.DefaultSmtpPort, "The smtp server port (implicit tls).")
	rootCmd.Flags().BoolVar(&flagConfig.CloudflareBypass, "cloudflare_bypass", false, "Send requests with browser-like tls fingerprints.")
	timeout = rootCmd.Flags().Duration("timeout", cas.DefaultTimeout, "The timeout of every request.")
}

var rootCmd = &cobra.Command{
	Use:           "gradecheck [--uid <uid> --password <password> --mail <address> --mail_password <password>]",
	Short:         "gradecheck mails you the grades published since its last run.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := flagConfig
		seconds, err := timeoutSeconds(*timeout)
		if err != nil {
			return err
		}
		flags.TimeoutSeconds = seconds

		cfg, err := resolveConfig(*configPath, flags)
		if err != nil {
			return err
		}
		err = cfg.validate()
		if err != nil {
			return err
		}

		result, err := check(cmd.Context(), cfg, telemetry.NewSlogAPI())
		if err != nil {
			var authErr *cas.AuthError
			if errors.As(err, &authErr) {
				printLoginFailed(cmd.ErrOrStderr(), authErr)
				return nil
			}
			return err
		}

		slog.Info(
			"check finished",
			"first_run", result.FirstRun,
			"fetched", result.Fetched,
			"new", len(result.New),
		)
		return nil
	},
}

func printLoginFailed(w io.Writer, err *cas.AuthError) {
	fmt.Fprintln(w, "Login Failed!")
	fmt.Fprintf(w, "Check the password of %s, or whether the passport is reachable.\n", err.Username)
	slog.Debug("login failure", "err", err)
}

// check is replaced in tests.
var check = runCheck

func runCheck(ctx context.Context, cfg Config, tel telemetry.API) (checker.Result, error) {
	client, err := cas.NewClient(cas.ClientOptions{
		Timeout:          cfg.Timeout(),
		CloudflareBypass: cfg.CloudflareBypass,
	}, tel)
	if err != nil {
		return checker.Result{}, err
	}

	opts := checker.Options{
		SnapshotPath: cfg.Snapshot,
		Fetcher:      checker.NewPortalFetcher(client, grades.DefaultBaseUrl, cfg.Uid, cfg.Password, tel),
		Notifier:     notify.NewNotifier(cfg.Mail, notify.NewSmtpSender(cfg.SmtpConfig()), tel),
	}
	if cfg.History.Enabled() {
		store, err := history.Open(ctx, cfg.History, chrono.NewStandardTime(), tel)
		if err != nil {
			return checker.Result{}, fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		opts.History = store
	}

	return checker.NewChecker(opts, tel).Run(ctx)
}

// ExecuteContext runs the command line and returns the exit code.
func ExecuteContext(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
