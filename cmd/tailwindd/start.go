package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/peteruche21/tailwind-packages/cmd/tailwindd/setting"
	"github.com/peteruche21/tailwind-packages/metrics"
	"github.com/peteruche21/tailwind-packages/provider"
	"github.com/peteruche21/tailwind-packages/utils"
	"github.com/peteruche21/tailwind-packages/wallet"
)

const shutdownTimeout = 5 * time.Second

func getStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "serve the wallet to dApps over websocket",
		RunE:  startRunE,
	}
}

func approverFromConfig() wallet.Approver {
	if setting.Config.Provider.AutoApprove {
		utils.WarnLog("auto_approve is enabled, every sign request will be signed without confirmation")
		return wallet.AutoApprove{}
	}
	return wallet.NewConsoleApprover()
}

func startRunE(_ *cobra.Command, _ []string) error {
	kr, err := loadKeyring(approverFromConfig())
	if err != nil {
		return err
	}

	if setting.Config.Metrics.Enabled {
		metricsServer := metrics.Initialize(setting.Config.Metrics.Port)
		defer func() {
			_ = metricsServer.Close()
		}()
		utils.Logf("metrics served on :%s/metrics", setting.Config.Metrics.Port)
	}

	server := provider.NewServer(kr, provider.Config{
		ListenAddress:  setting.Config.Provider.ListenAddress,
		AllowedOrigins: setting.Config.Provider.AllowedOrigins,
		PollInterval:   setting.Config.PollInterval(),
	})
	if err = server.Start(); err != nil {
		return err
	}
	utils.Logf("tailwindd %s listening on %s", setting.VERSION, server.Addr())

	quit := getQuitChannel()
	sig := <-quit
	utils.Logf("received signal %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Stop(ctx)
}
