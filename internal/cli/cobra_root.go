package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"task-manager/internal/api"
	"task-manager/internal/config"
	"task-manager/internal/logging"
	"task-manager/internal/web"
)

// APIFactory builds the business API once configuration is final.
// The returned function releases whatever the API holds open.
type APIFactory func(cfg *config.Config, log zerolog.Logger) (api.BusinessAPI, func() error, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	loader  *config.Loader
	factory APIFactory

	in     io.Reader
	out    io.Writer
	logOut io.Writer

	// set by setup before any subcommand runs
	config   *config.Config
	log      zerolog.Logger
	api      api.BusinessAPI
	closeAPI func() error
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(loader *config.Loader, factory APIFactory) *RootCommand {
	root := &RootCommand{
		loader:  loader,
		factory: factory,
		in:      os.Stdin,
		out:     os.Stdout,
		logOut:  os.Stderr,
		log:     logging.Nop(),
	}

	root.cmd = &cobra.Command{
		Use:   "tm",
		Short: "A task list that also imports WeChat Pay bills",
		Long: `Task Manager (tm) keeps a to-do list and turns today's WeChat Pay
trade bill into completed tasks ("支付: <description>").

The list lives in memory for the lifetime of the process.

EXAMPLES:
  tm serve                                 # Run the web view on :8080
  tm serve --addr 127.0.0.1:9000           # Run the web view on another address
  tm bills                                 # Print today's bills as tasks
  tm bills --date 2024-01-01               # Print one day's bills as tasks
  tm shell                                 # Manage the list interactively

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > .env file > defaults

  WeChat Pay Configuration:
    WECHAT_MERCHANT_ID                     Merchant id
    WECHAT_PRIVATE_KEY                     Merchant API private key (PEM text or file path)
    WECHAT_CERT_SERIAL_NO                  Merchant certificate serial number
    WECHAT_API_V3_KEY                      API v3 key (32 bytes, optional)
    WECHAT_API_BASE_URL                    API base URL (default: https://api.mch.weixin.qq.com)
    WECHAT_BILL_TYPE                       ALL, SUCCESS or REFUND (default: ALL)
    WECHAT_REQUEST_TIMEOUT                 Request timeout (default: 15s)

  Server Configuration:
    TM_SERVER_ADDR                         Listen address (default: :8080)
    TM_SERVER_READ_TIMEOUT                 Read timeout (default: 10s)
    TM_SERVER_WRITE_TIMEOUT                Write timeout (default: 30s)

  Database Configuration:
    TM_DB_DSN                              in-memory SQLite DSN (default: :memory:)
    TM_DB_QUERY_TIMEOUT                    Query timeout (default: 10s)
    TM_DB_WRITE_TIMEOUT                    Write timeout (default: 5s)

  Application Configuration:
    TM_TASK_TEXT_MAX                       Max task text length (default: 500)
    TM_APP_TIMEOUT                         Command timeout (default: 60s)
    TM_APP_VERBOSE                         Enable verbose output (default: false)
    TM_ENV                                 development, testing or production (default: production)
    TM_DEBUG                               Enable debug logging when set

GETTING HELP:
  tm [command] --help                      # Get help for any specific command
  tm completion bash                       # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// SetIO redirects the shell input, command output and log output
func (r *RootCommand) SetIO(in io.Reader, out io.Writer, logOut io.Writer) {
	r.in = in
	r.out = out
	r.logOut = logOut
	r.cmd.SetIn(in)
	r.cmd.SetOut(out)
	r.cmd.SetErr(logOut)
}

// SetArgs sets the arguments used instead of os.Args
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command and releases the API afterwards
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	if r.closeAPI != nil {
		if closeErr := r.closeAPI(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close task store: %w", closeErr)
		}
		r.closeAPI = nil
	}
	return err
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Server configuration
	flags.String("addr", "", "Web server listen address (overrides TM_SERVER_ADDR)")

	// Database configuration
	flags.String("db-dsn", "", "in-memory SQLite DSN (overrides TM_DB_DSN)")

	// WeChat Pay configuration
	flags.String("wechat-base-url", "", "WeChat Pay API base URL (overrides WECHAT_API_BASE_URL)")
	flags.Duration("request-timeout", 0, "WeChat Pay request timeout (overrides WECHAT_REQUEST_TIMEOUT)")

	// Validation configuration
	flags.Int("task-text-max", 0, "Maximum task text length (overrides TM_TASK_TEXT_MAX)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Command timeout (overrides TM_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TM_APP_VERBOSE)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	// Serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web view",
		Long: `Serve the task list page and its JSON API until interrupted.

Today's bills are loaded the first time the page is displayed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			server, err := web.NewServer(ctx, r.api, r.log)
			if err != nil {
				return fmt.Errorf("failed to create web server: %w", err)
			}
			return server.ListenAndServe(ctx, web.Options{
				Addr:         r.config.Server.Addr,
				ReadTimeout:  r.config.Server.ReadTimeout,
				WriteTimeout: r.config.Server.WriteTimeout,
			})
		},
	}

	// Bills command
	billsCmd := &cobra.Command{
		Use:   "bills",
		Short: "Print one day's bills as tasks",
		Long: `Fetch one day's WeChat Pay trade bill and print the tasks it would create.

Nothing is stored.

Examples:
  tm bills                   # Today's bills
  tm bills --date 2024-01-01 # Bills for January 1st`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
			defer cancel()

			var billArgs []string
			if date, _ := cmd.Flags().GetString("date"); date != "" {
				billArgs = append(billArgs, date)
			}
			return NewBillsCommand(r.newApp()).Execute(ctx, billArgs)
		},
	}
	billsCmd.Flags().String("date", "", "Bill date as YYYY-MM-DD (default: today)")

	// Shell command
	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Manage the task list interactively",
		Long: `Start a line based session over the task list.

Commands: add <text>, toggle <id>, delete <id>, refresh, list, help, quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// each shell line gets its own timeout
			return NewShellCommand(r.newApp(), r.in).Execute(cmd.Context(), nil)
		},
	}

	r.cmd.AddCommand(
		serveCmd,
		billsCmd,
		shellCmd,
	)
}

// setup loads configuration and builds the logger and business API
func (r *RootCommand) setup(cmd *cobra.Command) error {
	cfg, err := r.loader.LoadWithOverrides(r.getOverridesFromFlags())
	if err != nil {
		return err
	}
	r.config = cfg

	r.log = logging.NewWithWriter(r.logOut, logging.Options{
		Console: cfg.Application.Env.IsDevelopment(),
		Verbose: cfg.Application.Verbose,
	})

	businessAPI, closeAPI, err := r.factory(cfg, r.log)
	if err != nil {
		return err
	}
	r.api = businessAPI
	r.closeAPI = closeAPI

	cmd.SetContext(logging.WithContext(cmd.Context(), r.log))
	return nil
}

// newApp creates the application shared by the command handlers
func (r *RootCommand) newApp() *App {
	return NewAppWithOutput(r.api, r.out, r.getAppTimeout())
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil {
		return r.config.Application.Timeout
	}
	return defaultCommandTimeout
}

// getOverridesFromFlags collects the global flags the user set explicitly
func (r *RootCommand) getOverridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("addr") {
		addr, _ := flags.GetString("addr")
		overrides.Addr = &addr
	}
	if flags.Changed("db-dsn") {
		dsn, _ := flags.GetString("db-dsn")
		overrides.DBDSN = &dsn
	}
	if flags.Changed("wechat-base-url") {
		baseURL, _ := flags.GetString("wechat-base-url")
		overrides.WeChatBaseURL = &baseURL
	}
	if flags.Changed("request-timeout") {
		timeout, _ := flags.GetDuration("request-timeout")
		overrides.RequestTimeout = &timeout
	}
	if flags.Changed("task-text-max") {
		maxLength, _ := flags.GetInt("task-text-max")
		overrides.TaskTextMaxLength = &maxLength
	}
	if flags.Changed("app-timeout") {
		timeout, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &timeout
	}
	if flags.Changed("verbose") {
		verbose, _ := flags.GetBool("verbose")
		overrides.Verbose = &verbose
	}

	return overrides
}
