package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jfenner/leasesync/internal/opnsense"
	"github.com/jfenner/leasesync/internal/phpipam"
	"github.com/jfenner/leasesync/internal/sync"
	"github.com/jfenner/leasesync/internal/transport"
	"github.com/jfenner/leasesync/pkg/logging"
)

// Execute runs the leasesync CLI with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command. Running the root
// command performs one sync; repetition belongs to an external scheduler.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "leasesync",
		Short:   "Sync OPNsense host inventory into phpIPAM",
		Version: a.version,
		Long: `Leasesync reconciles the hosts an OPNsense firewall knows about, from
its DHCPv4 lease table and ARP cache, into phpIPAM address records for a
single pre-configured subnet.

Each invocation is one stateless run: both sources are re-read, merged
into a canonical per-IP view with lease data taking precedence, and
diffed against the subnet's existing records to decide create, update,
or skip per address. Run it from cron or a systemd timer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runSync,
	}

	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.Flags().BoolVar(&a.config.DryRun, "dry-run", false, "decide and log without writing to phpIPAM")
	rootCmd.Flags().StringVar(&a.config.EnvFile, "env-file", "", "env file to load before reading the environment (default .env, .env.local)")

	rootCmd.SetVersionTemplate("leasesync {{.Version}}\n")

	rootCmd.AddCommand(a.versionCommand())

	return rootCmd
}

// runSync loads configuration, builds the clients, and performs one run.
func (a *App) runSync(cmd *cobra.Command, _ []string) error {
	if err := a.config.Load(); err != nil {
		return err
	}

	a.logger = NewLogger(a.config)
	logging.SetDefault(a.logger)

	tlsConfig, err := transport.TLSConfigFromVerify(a.config.OPNsenseVerifySSL)
	if err != nil {
		return err
	}

	observer := opnsense.New(
		a.config.OPNsenseHost,
		a.config.OPNsenseKey,
		a.config.OPNsenseSecret,
		tlsConfig,
		a.logger,
	)
	store := phpipam.New(
		a.config.PHPIPAMScheme,
		a.config.PHPIPAMHost,
		a.config.PHPIPAMAppID,
		a.config.PHPIPAMAppCode,
		a.logger,
	)

	runner := sync.New(observer, store, a.config.PHPIPAMSubnetID, a.config.DryRun, a.logger)

	summary, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created=%d updated=%d skipped=%d\n",
		summary.Created, summary.Updated, summary.Skipped)
	return nil
}

// versionCommand reports build information.
func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "leasesync %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}
