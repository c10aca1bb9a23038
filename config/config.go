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

package config

import (
	"runtime"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorse-io/slopeone/base/log"
	"github.com/juju/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config is the configuration for slope one training and prediction.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Blob     BlobConfig     `mapstructure:"blob"`
	Model    ModelConfig    `mapstructure:"model"`
}

// DatabaseConfig is the configuration for the event store.
type DatabaseConfig struct {
	DataStore   string        `mapstructure:"data_store" validate:"required,data_store"`
	TablePrefix string        `mapstructure:"table_prefix"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// BlobConfig is the configuration for the model artifact store.
type BlobConfig struct {
	Type  string          `mapstructure:"type" validate:"oneof=posix s3 gcs azure"`
	Dir   string          `mapstructure:"dir" validate:"required_if=Type posix"`
	S3    S3Config        `mapstructure:"s3"`
	GCS   GCSConfig       `mapstructure:"gcs"`
	Azure AzureBlobConfig `mapstructure:"azure"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

type GCSConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
}

type AzureBlobConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
	AccountName      string `mapstructure:"account_name"`
	AccountKey       string `mapstructure:"account_key"`
	Endpoint         string `mapstructure:"endpoint"`
	Container        string `mapstructure:"container"`
	Prefix           string `mapstructure:"prefix"`
}

// ModelConfig is the configuration for the slope one model.
type ModelConfig struct {
	// Name is the artifact name of the trained model in the blob store.
	Name            string  `mapstructure:"name" validate:"required"`
	MinRating       float64 `mapstructure:"min_rating"`
	MaxRating       float64 `mapstructure:"max_rating" validate:"gtfield=MinRating"`
	Damping         float64 `mapstructure:"damping" validate:"gte=0"`
	Weighted        bool    `mapstructure:"weighted"`
	Baseline        string  `mapstructure:"baseline" validate:"oneof=none constant global_mean item_mean user_mean item_user_mean"`
	BaselineDamping float64 `mapstructure:"baseline_damping" validate:"gte=0"`
	FitJobs         int     `mapstructure:"fit_jobs" validate:"gt=0"`
	BatchSize       int     `mapstructure:"batch_size" validate:"gt=0"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Timeout: 30 * time.Second,
		},
		Blob: BlobConfig{
			Type: "posix",
			Dir:  "models",
		},
		Model: ModelConfig{
			Name:      "slopeone.bin",
			MinRating: 1,
			MaxRating: 5,
			Baseline:  "item_user_mean",
			FitJobs:   runtime.NumCPU(),
			BatchSize: 1024,
		},
	}
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	// [database]
	v.SetDefault("database.timeout", defaultConfig.Database.Timeout)
	// [blob]
	v.SetDefault("blob.type", defaultConfig.Blob.Type)
	v.SetDefault("blob.dir", defaultConfig.Blob.Dir)
	// [model]
	v.SetDefault("model.name", defaultConfig.Model.Name)
	v.SetDefault("model.min_rating", defaultConfig.Model.MinRating)
	v.SetDefault("model.max_rating", defaultConfig.Model.MaxRating)
	v.SetDefault("model.damping", defaultConfig.Model.Damping)
	v.SetDefault("model.weighted", defaultConfig.Model.Weighted)
	v.SetDefault("model.baseline", defaultConfig.Model.Baseline)
	v.SetDefault("model.baseline_damping", defaultConfig.Model.BaselineDamping)
	v.SetDefault("model.fit_jobs", defaultConfig.Model.FitJobs)
	v.SetDefault("model.batch_size", defaultConfig.Model.BatchSize)
}

type configBinding struct {
	key string
	env string
}

var bindings = []configBinding{
	{"database.data_store", "SLOPEONE_DATA_STORE"},
	{"database.table_prefix", "SLOPEONE_TABLE_PREFIX"},
	{"blob.type", "SLOPEONE_BLOB_TYPE"},
	{"blob.dir", "SLOPEONE_BLOB_DIR"},
	{"blob.s3.endpoint", "SLOPEONE_S3_ENDPOINT"},
	{"blob.s3.access_key_id", "SLOPEONE_S3_ACCESS_KEY_ID"},
	{"blob.s3.secret_access_key", "SLOPEONE_S3_SECRET_ACCESS_KEY"},
	{"blob.s3.bucket", "SLOPEONE_S3_BUCKET"},
	{"blob.gcs.credentials_file", "SLOPEONE_GCS_CREDENTIALS_FILE"},
	{"blob.gcs.bucket", "SLOPEONE_GCS_BUCKET"},
	{"blob.azure.connection_string", "SLOPEONE_AZURE_CONNECTION_STRING"},
	{"blob.azure.container", "SLOPEONE_AZURE_CONTAINER"},
	{"model.name", "SLOPEONE_MODEL_NAME"},
	{"model.fit_jobs", "SLOPEONE_FIT_JOBS"},
}

// LoadConfig loads configuration from a TOML file. Environment variables take
// precedence over the file. An empty path loads defaults and environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	for _, binding := range bindings {
		if err := v.BindEnv(binding.key, binding.env); err != nil {
			log.Logger().Fatal("failed to bind a Viper key to a ENV variable", zap.Error(err))
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Annotatef(err, "read config %s", path)
		}
	}
	conf, err := unmarshal(v)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err = conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return conf, nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var conf Config
	if err := v.Unmarshal(&conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}
