package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/corey/minimot/internal/adapters/ytdlp"
	"github.com/corey/minimot/internal/domain/transcript"
)

// EnvPrefix prefixes environment overrides: MINIMOT_DATA_DIR,
// MINIMOT_DOWNLOAD_LIMIT and so on.
const EnvPrefix = "MINIMOT"

// Config is the effective configuration after file, environment and flag
// overrides are merged.
type Config struct {
	DataDir    string           `mapstructure:"data_dir" yaml:"data_dir" validate:"required"`
	LogLevel   string           `mapstructure:"log_level" yaml:"log_level" validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat  string           `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`
	Download   DownloadConfig   `mapstructure:"download" yaml:"download"`
	Transcript TranscriptConfig `mapstructure:"transcript" yaml:"transcript"`
	Search     SearchConfig     `mapstructure:"search" yaml:"search"`
}

type DownloadConfig struct {
	Limit         int    `mapstructure:"limit" yaml:"limit" validate:"gte=1"`
	BatchSize     int    `mapstructure:"batch_size" yaml:"batch_size" validate:"gte=1,lte=500"`
	Binary        string `mapstructure:"binary" yaml:"binary" validate:"required"`
	ExtractorArgs string `mapstructure:"extractor_args" yaml:"extractor_args"`
}

type TranscriptConfig struct {
	NoPunctuation bool   `mapstructure:"no_punctuation" yaml:"no_punctuation"`
	UseStopwords  bool   `mapstructure:"use_stopwords" yaml:"use_stopwords"`
	StopwordsFile string `mapstructure:"stopwords_file" yaml:"stopwords_file"` // default <data_dir>/input/stopwords.txt
	BleepWord     string `mapstructure:"bleep_word" yaml:"bleep_word"`
}

type SearchConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers" validate:"gte=0"` // 0 = GOMAXPROCS
}

var validate = validator.New()

// SetDefaults registers every key with its default so environment
// overrides are visible to Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("download.limit", 500)
	v.SetDefault("download.batch_size", ytdlp.DefaultBatchSize)
	v.SetDefault("download.binary", ytdlp.DefaultBinary)
	v.SetDefault("download.extractor_args", ytdlp.DefaultExtractorArgs)
	v.SetDefault("transcript.no_punctuation", false)
	v.SetDefault("transcript.use_stopwords", false)
	v.SetDefault("transcript.stopwords_file", "")
	v.SetDefault("transcript.bleep_word", transcript.DefaultBleepWord)
	v.SetDefault("search.workers", 0)
}

// LoadConfig reads minimot.yaml from file, or when file is empty from
// $HOME/.config/minimot or the working directory. A missing default config
// file is not an error; a missing explicit one is.
func LoadConfig(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "minimot"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("minimot")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config %s: invalid value %v (%s)", fe.Namespace(), fe.Value(), fe.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// StopwordsPath returns the configured stopword file, or the default under
// the input directory.
func (c Config) StopwordsPath() string {
	if c.Transcript.StopwordsFile != "" {
		return c.Transcript.StopwordsFile
	}
	return NewPaths(c.DataDir).Stopwords
}

// YAML renders the effective config.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
