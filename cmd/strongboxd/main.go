package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nvoss/strongbox/internal/actuator"
	"github.com/nvoss/strongbox/internal/api/http/router"
	httpserver "github.com/nvoss/strongbox/internal/api/http/server"
	"github.com/nvoss/strongbox/internal/config"
	"github.com/nvoss/strongbox/internal/logger"
	"github.com/nvoss/strongbox/internal/model"
	"github.com/nvoss/strongbox/internal/repository/statefile"
	"github.com/nvoss/strongbox/internal/server"
	"github.com/nvoss/strongbox/internal/service"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	defaults, err := factoryDefaults(cfg)
	if err != nil {
		logger.Fatal("failed to build factory defaults", "error", err)
	}

	store, err := statefile.New(cfg.State.FilePath, defaults, logger)
	if err != nil {
		logger.Fatal("failed to open state file", "error", err, "path", cfg.State.FilePath)
	}

	creds := service.NewCredentials(store, cfg.Factory.BcryptCost, logger)
	sessions := service.NewSessions(creds, cfg.Session.IdleTTL, cfg.Session.Capacity, logger)

	driver := actuator.New(doorOutput(cfg, logger), actuator.SystemClock{}, logger)
	lock, err := service.NewLock(creds, driver, store, logger)
	if err != nil {
		logger.Fatal("failed to restore lock controller", "error", err)
	}

	rebooter := &commandRebooter{command: cfg.Provision.RebootCommand}
	provisioning := service.NewProvisioning(creds, sessions, rebooter, cfg.Provision.RebootDelay, logger)

	r := router.New(lock, provisioning, sessions, logger)
	httpServer := httpserver.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// factoryDefaults seeds the very first boot; once a state file exists it is
// never consulted again.
func factoryDefaults(cfg *config.Config) (model.DeviceState, error) {
	webHash, err := service.HashSecret(cfg.Factory.Password, cfg.Factory.BcryptCost)
	if err != nil {
		return model.DeviceState{}, err
	}
	unlockHash, err := service.HashSecret(cfg.Factory.UnlockPassword, cfg.Factory.BcryptCost)
	if err != nil {
		return model.DeviceState{}, err
	}

	return model.DeviceState{
		State:  model.StateLocked,
		Web:    model.WebCredential{Username: cfg.Factory.Username, PasswordHash: webHash},
		Unlock: model.UnlockCredential{Hash: unlockHash},
	}, nil
}

func doorOutput(cfg *config.Config, logger *logger.Logger) actuator.Output {
	if cfg.Actuator.GPIOValuePath == "" {
		logger.Warn("no GPIO configured, door output is a no-op")
		return actuator.NopOutput{}
	}
	return actuator.NewSysfsOutput(cfg.Actuator.GPIOValuePath)
}

// commandRebooter restarts the device through the system reboot command.
type commandRebooter struct {
	command string
}

func (r *commandRebooter) Reboot() error {
	if err := exec.Command(r.command).Run(); err != nil {
		return fmt.Errorf("run %s: %w", r.command, err)
	}
	return nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
