/*
 * Copyright (C) 2024 Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 *
 */

package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/http"
	httpCmd "github.com/nuts-foundation/nuts-issuer/http/cmd"
	"github.com/nuts-foundation/nuts-issuer/storage"
	storageCmd "github.com/nuts-foundation/nuts-issuer/storage/cmd"
	"github.com/nuts-foundation/nuts-issuer/vci"
	vciCmd "github.com/nuts-foundation/nuts-issuer/vci/cmd"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var stdOutWriter io.Writer = os.Stdout

func createRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "nuts-issuer",
		Short: "Nuts credential issuer, which issues Verifiable Credentials to wallets using OpenID4VCI (pre-authorized code flow).",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
		SilenceUsage: true,
	}
}

func createPrintConfigCommand(system *core.System) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Prints the current config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := system.Load(cmd); err != nil {
				return err
			}
			cmd.Println("Current system config")
			cmd.Println(system.Config.PrintConfig())
			return nil
		},
	}
}

func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version of the issuer",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(core.BuildInfo())
		},
	}
}

func createServerCommand(system *core.System) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Starts the issuer",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := system.Load(cmd); err != nil {
				return err
			}
			return startServer(cmd.Context(), system)
		},
	}
}

func startServer(ctx context.Context, system *core.System) error {
	logrus.Infof("Starting issuer (version=%s, os/arch=%s)", core.Version(), core.OSArch())
	logrus.Info("Starting server with config:")
	logrus.Info(system.Config.PrintConfig())

	// check config on all engines
	if err := system.Configure(); err != nil {
		return err
	}

	// register HTTP routes
	var router core.EchoRouter
	system.VisitEngines(func(engine core.Engine) {
		if httpEngine, ok := engine.(*http.Engine); ok {
			router = httpEngine.Router()
		}
	})
	if router == nil {
		return errors.New("HTTP engine not registered")
	}
	system.VisitEngines(func(engine core.Engine) {
		if routable, ok := engine.(core.Routable); ok {
			routable.Routes(router)
		}
	})

	// start engines
	if err := system.Start(); err != nil {
		return err
	}
	logrus.Info("Issuer started")

	// wait for a shutdown signal, or the HTTP server stopping unexpectedly
	<-ctx.Done()
	logrus.Info("Shutting down...")
	if err := system.Shutdown(); err != nil {
		logrus.WithError(err).Error("Error shutting down system")
		return err
	}
	logrus.Info("Shutdown complete. Goodbye!")
	return nil
}

// CreateCommand creates the command with all subcommands to run the system.
func CreateCommand(system *core.System) *cobra.Command {
	command := createRootCommand()
	command.SetOut(stdOutWriter)
	command.AddCommand(createServerCommand(system))
	command.AddCommand(createPrintConfigCommand(system))
	command.AddCommand(createVersionCommand())
	for _, flagSet := range serverFlagSets() {
		command.PersistentFlags().AddFlagSet(flagSet)
	}
	return command
}

func serverFlagSets() []*pflag.FlagSet {
	return []*pflag.FlagSet{
		core.FlagSet(),
		httpCmd.FlagSet(),
		storageCmd.FlagSet(),
		vciCmd.FlagSet(),
	}
}

// CreateSystem creates the system and registers all default engines.
// The shutdown callback is invoked when the HTTP server stops unexpectedly.
func CreateSystem(shutdownCallback context.CancelFunc) *core.System {
	system := core.NewSystem()
	// Create instances
	httpServerInstance := http.New(shutdownCallback)
	storageInstance := storage.New()
	vciInstance := vci.New(storageInstance)

	// Register engines, dependencies first
	system.RegisterEngine(httpServerInstance)
	system.RegisterEngine(storageInstance)
	system.RegisterEngine(core.NewMetricsEngine())
	system.RegisterEngine(vciInstance)
	return system
}

// Execute runs the root command with the given system. The context is cancelled to shut the server down.
func Execute(ctx context.Context, system *core.System) error {
	return CreateCommand(system).ExecuteContext(ctx)
}
