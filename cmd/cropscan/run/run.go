package cmd

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cozy-creator/cropscan/internal/app"
	"github.com/cozy-creator/cropscan/internal/config"
	"github.com/cozy-creator/cropscan/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Start the cropscan server",
	RunE:  runApp,
}

func init() {
	flags := Cmd.Flags()

	flags.Int("port", config.DefaultPort, "Port to run the server on")
	flags.String("host", config.DefaultHost, "Host to run the server on")
	flags.String("environment", config.DefaultEnvironment, "Environment configuration: 'dev', 'test' or 'prod'")
	flags.String("public-dir", "", "Directory of static files served in place of the bundled assets")
	flags.String("predictor", config.DefaultPredictor, "Predictor used for detection")
	flags.Int("preprocess-workers", 0, "Number of concurrent image decodes (0 uses one per CPU)")
	flags.Int64("max-upload-mb", config.DefaultMaxUploadMB, "Maximum request body size in megabytes (0 for no limit)")

	viper.BindPFlag("port", flags.Lookup("port"))
	viper.BindPFlag("host", flags.Lookup("host"))
	viper.BindPFlag("environment", flags.Lookup("environment"))
	viper.BindPFlag("public_dir", flags.Lookup("public-dir"))
	viper.BindPFlag("predictor", flags.Lookup("predictor"))
	viper.BindPFlag("preprocess_workers", flags.Lookup("preprocess-workers"))
	viper.BindPFlag("max_upload_mb", flags.Lookup("max-upload-mb"))
}

func runApp(_ *cobra.Command, _ []string) error {
	app, err := app.NewApp(config.MustGetConfig())
	if err != nil {
		return err
	}
	defer app.Close()

	server, err := server.NewServer(app.Config())
	if err != nil {
		return err
	}
	server.SetupRoutes(app)

	errc := make(chan error, 1)
	go func() {
		app.Logger.Info("server started", zap.String("addr", server.Addr()))
		errc <- server.Start()
	}()

	signalc := make(chan os.Signal, 1)
	signal.Notify(signalc, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-signalc:
		app.Logger.Info("stopping server", zap.String("signal", sig.String()))
		return server.Stop(app.Context())
	}
}
