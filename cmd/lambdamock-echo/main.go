// Command lambdamock-echo runs an Echo handler through the local harness,
// either once for a given payload or behind the Invoke API over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aura-studio/lambdamock/forwarder"
	"github.com/aura-studio/lambdamock/httpserver"
	"github.com/aura-studio/lambdamock/mock"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Echo returns its input unchanged
type Echo struct{}

func (Echo) Handle(req map[string]any, ic *mock.InvocationContext) (map[string]any, error) {
	ic.Logf("echo %s, %dms remaining", ic.AwsRequestID(), ic.RemainingTimeInMillis())
	return req, nil
}

type config struct {
	funcName    string
	payload     string
	payloadFile string
	configFile  string
	addr        string
	json        bool
}

func newRootCmd() *cobra.Command {
	var cfg config

	cmd := &cobra.Command{
		Use:           "lambdamock-echo",
		Short:         "Forward a payload to the Echo handler, or serve it over the Lambda Invoke API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return envToFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.funcName, "func", "", "function name (defaults to the handler type name)")
	flags.StringVar(&cfg.payload, "payload", "", "request payload. higher priority than file")
	flags.StringVar(&cfg.payloadFile, "payload_file", "", "specify request payload file")
	flags.StringVar(&cfg.configFile, "config", "", "YAML config file with forwarder and http sections")
	flags.StringVar(&cfg.addr, "addr", "", "listen address when serving")
	flags.BoolVar(&cfg.json, "json", false, "enable JSON log format")

	return cmd
}

// envToFlags fills every flag not set on the command line from the
// environment variable of the same name, upper-cased
func envToFlags(flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || err != nil {
			return
		}
		if s := os.Getenv(strings.ToUpper(f.Name)); s != "" {
			err = flags.Set(f.Name, s)
		}
	})
	return err
}

// resolveConfigFile returns the --config value, or the default config file
// when the flag is empty. "" means run without a config file.
func resolveConfigFile(flag string) string {
	if flag != "" {
		return flag
	}
	p, err := forwarder.FindDefaultConfigFile()
	if err != nil {
		return ""
	}
	return p
}

func run(cmd *cobra.Command, cfg *config) error {
	logger, err := forwarder.NewLogger(cfg.json, zapcore.InfoLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	fwdOpts := []forwarder.Option{forwarder.WithLogger(logger)}
	var httpOpts []httpserver.Option
	if configFile := resolveConfigFile(cfg.configFile); configFile != "" {
		logger.Info("using config file", zap.String("path", configFile))
		fwdOpts = append(fwdOpts, forwarder.WithConfigFile(configFile))
		httpOpts = append(httpOpts, httpserver.WithConfigFile(configFile))
	}
	if cfg.funcName != "" {
		fwdOpts = append(fwdOpts, forwarder.WithFunctionName(cfg.funcName))
	}
	if cfg.addr != "" {
		httpOpts = append(httpOpts, httpserver.WithAddress(cfg.addr))
	}

	fwd := forwarder.New[map[string]any, map[string]any](Echo{}, forwarder.JSON[map[string]any](), fwdOpts...)

	payload := cfg.payload
	if payload == "" && cfg.payloadFile != "" {
		buf, err := os.ReadFile(cfg.payloadFile)
		if err != nil {
			return fmt.Errorf("read payload file, %s: %w", cfg.payloadFile, err)
		}
		payload = string(buf)
	}

	if payload != "" {
		rsp, ok := fwd.ForwardRequest(payload)
		if !ok {
			return errors.New("no response, see log for details")
		}
		fmt.Fprintln(cmd.OutOrStdout(), rsp)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving", zap.String("function", fwd.Name()))
	return httpserver.Serve(ctx, append(httpOpts, httpserver.WithForwarder(fwd.Name(), fwd))...)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "lambdamock-echo: %s\n", err)
		os.Exit(1)
	}
}
