// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gorse-io/slopeone/base/log"
	"github.com/gorse-io/slopeone/cmd/version"
	"github.com/gorse-io/slopeone/config"
	"github.com/gorse-io/slopeone/storage/blob"
	"github.com/gorse-io/slopeone/storage/data"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCommand = &cobra.Command{
	Use:   "slopeone",
	Short: "Slope One rating prediction.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		log.SetLogger(cmd.Flags(), debug)
	},
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Show version of slopeone.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(version.BuildInfo())
	},
}

func init() {
	log.AddFlags(rootCommand.PersistentFlags())
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	rootCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	rootCommand.AddCommand(versionCommand)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCommand.ExecuteContext(ctx); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}

func loadConfig(cmd *cobra.Command) *config.Config {
	configPath, _ := cmd.Flags().GetString("config")
	log.Logger().Info("load config", zap.String("config", configPath))
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		log.Logger().Fatal("failed to load config", zap.Error(err))
	}
	return conf
}

func openDatabase(ctx context.Context, conf *config.Config) (data.Database, error) {
	db, err := data.Open(conf.Database.DataStore, conf.Database.TablePrefix)
	if err != nil {
		return nil, errors.Trace(err)
	}
	ctx, cancel := context.WithTimeout(ctx, conf.Database.Timeout)
	defer cancel()
	if err = db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Annotatef(err, "ping %s", log.RedactDBURL(conf.Database.DataStore))
	}
	if err = db.Init(); err != nil {
		_ = db.Close()
		return nil, errors.Trace(err)
	}
	return db, nil
}

func openStores(cmd *cobra.Command) (*config.Config, data.Database, blob.Store) {
	conf := loadConfig(cmd)
	db, err := openDatabase(cmd.Context(), conf)
	if err != nil {
		log.Logger().Fatal("failed to open database", zap.Error(err))
	}
	store, err := blob.Open(conf.Blob)
	if err != nil {
		log.Logger().Fatal("failed to open blob store", zap.Error(err))
	}
	return conf, db, store
}
