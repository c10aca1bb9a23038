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
	"fmt"

	"github.com/gorse-io/slopeone/base/log"
	"github.com/gorse-io/slopeone/storage/blob"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var modelsCommand = &cobra.Command{
	Use:   "models",
	Short: "Manage trained models in the blob store.",
}

var listModelsCommand = &cobra.Command{
	Use:   "list",
	Short: "List trained models.",
	Run: func(cmd *cobra.Command, args []string) {
		store := openBlobStore(cmd)
		names, err := store.List()
		if err != nil {
			log.Logger().Fatal("failed to list models", zap.Error(err))
		}
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

var removeModelCommand = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a trained model.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openBlobStore(cmd)
		if err := store.Remove(args[0]); err != nil {
			log.Logger().Fatal("failed to remove model", zap.String("name", args[0]), zap.Error(err))
		}
		log.Logger().Info("remove model", zap.String("name", args[0]))
	},
}

func init() {
	modelsCommand.AddCommand(listModelsCommand, removeModelCommand)
	rootCommand.AddCommand(modelsCommand)
}

func openBlobStore(cmd *cobra.Command) blob.Store {
	conf := loadConfig(cmd)
	store, err := blob.Open(conf.Blob)
	if err != nil {
		log.Logger().Fatal("failed to open blob store", zap.Error(err))
	}
	return store
}
