package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	genericapiserver "k8s.io/apiserver/pkg/server"
	"k8s.io/klog/v2"

	"cloupeer.io/chirp/cmd/chirp-device/app/options"
	"cloupeer.io/chirp/internal/device/status"
	"cloupeer.io/chirp/pkg/app"
	"cloupeer.io/chirp/pkg/log"
)

const (
	commandName = "chirp-device"
	commandDesc = `The chirp device plays its startup chime, joins the configured wireless
network, retrying until it succeeds, greets the user and then idles. Progress is
exposed on a local status server and, when a broker is configured, published
as MQTT telemetry.`
)

func NewApp() *app.App {
	opts := options.NewDeviceOptions()

	var application *app.App
	showConfig := &cobra.Command{
		Use:   "show-config",
		Short: "Print the resolved configuration with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.Load(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), opts.Table())
			return nil
		},
	}

	application = app.NewApp(
		commandName,
		"Launch a chirp device",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithEnvPrefix("CHIRP"),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
		app.WithCommands(showConfig),
	)
	return application
}

func run(opts *options.DeviceOptions) app.RunFunc {
	return func() error {
		log.Init(opts.Log)
		defer log.Sync()
		klog.SetLogger(log.Logr())

		ctx := genericapiserver.SetupSignalContext()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		dev, err := cfg.NewDevice()
		if err != nil {
			return fmt.Errorf("failed to create device: %w", err)
		}

		var server starter
		if opts.HttpOptions.Enabled() {
			server = status.NewServer(opts.HttpOptions, dev)
		}
		return serve(ctx, dev, server)
	}
}

type runner interface {
	Run(ctx context.Context) error
}

type starter interface {
	Start(ctx context.Context) error
}

// serve runs the device beside the optional status server. The status server is ambient:
// its failure is logged and never cancels the device. The server stops when the device returns.
func serve(ctx context.Context, dev runner, server starter) error {
	var g errgroup.Group
	serveCtx, stopServing := context.WithCancel(ctx)
	defer stopServing()

	g.Go(func() error {
		defer stopServing()
		return dev.Run(ctx)
	})

	if server != nil {
		g.Go(func() error {
			if err := server.Start(serveCtx); err != nil {
				log.Error(err, "Status server stopped, device keeps running")
			}
			return nil
		})
	}

	return g.Wait()
}
