// Package config loads and validates the runtime configuration for the
// Keboola to Waii synchronization tooling. All required values come from
// the environment; a missing value is a fatal configuration error raised
// before any network call.
package config

import (
	"strings"

	"github.com/go-ozzo/ozzo-validation/v4/is"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mitchellh/mapstructure"

	"github.com/spf13/viper"

	"github.com/keboola/waii-integration/pkg/errs"
)

const defaultTagName = "yaml"

type Binder interface {
	Bind(v *viper.Viper) error
}

type Loader interface {
	Load(binder Binder) (Config, error)
}

type Config struct {
	Keboola Keboola `yaml:"keboola"`
	Waii    Waii    `yaml:"waii"`
	Output  Output  `yaml:"output"`

	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
}

func (c Config) Validate() error {
	const op errs.Op = "config.Validate"

	err := validation.ValidateStruct(&c,
		validation.Field(&c.Keboola, validation.Required),
		validation.Field(&c.Waii, validation.Required),
		validation.Field(&c.Output, validation.Required),
	)
	if err != nil {
		return errs.E(op, errs.Validation, err)
	}

	return nil
}

type Keboola struct {
	APIToken    string `yaml:"api_token"`
	ProjectURL  string `yaml:"project_url"`
	ProjectName string `yaml:"project_name"`
}

func (k Keboola) Validate() error {
	return validation.ValidateStruct(&k,
		validation.Field(&k.APIToken, validation.Required),
		validation.Field(&k.ProjectURL, validation.Required, is.URL),
		validation.Field(&k.ProjectName, validation.Required),
	)
}

// APIBaseURL returns the Storage API base URL for the project. Project URLs
// handed out by Keboola point at the admin UI, so everything from /admin
// onwards is dropped.
func (k Keboola) APIBaseURL() string {
	base, _, _ := strings.Cut(k.ProjectURL, "/admin")

	return strings.TrimSuffix(base, "/")
}

type Waii struct {
	APIURL     string `yaml:"api_url"`
	APIKey     string `yaml:"api_key"`
	Connection string `yaml:"connection"`
}

func (w Waii) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.APIURL, validation.Required, is.URL),
		validation.Field(&w.APIKey, validation.Required),
		validation.Field(&w.Connection, validation.Required),
	)
}

type Output struct {
	StatementIDsDir string `yaml:"statement_ids_dir"`
	StatementsDir   string `yaml:"statements_dir"`
}

func (o Output) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.StatementIDsDir, validation.Required),
		validation.Field(&o.StatementsDir, validation.Required),
	)
}

func NewEnvLoader() *EnvLoader {
	return &EnvLoader{}
}

type EnvLoader struct{}

func (l *EnvLoader) Load(b Binder) (Config, error) {
	const op errs.Op = "config.EnvLoader.Load"

	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // So that env vars are translated properly
	v.AutomaticEnv()

	v.SetDefault("output.statement_ids_dir", "data/statement_ids")
	v.SetDefault("output.statements_dir", "data/semantic_statements")
	v.SetDefault("log_level", "info")

	if b != nil {
		err := b.Bind(v)
		if err != nil {
			return Config{}, errs.E(op, errs.Validation, err)
		}
	}

	var config Config

	err := v.Unmarshal(&config, func(cfg *mapstructure.DecoderConfig) {
		cfg.TagName = defaultTagName
	})
	if err != nil {
		return Config{}, errs.E(op, errs.Validation, err)
	}

	return config, nil
}

type EnvBinder struct {
	binders map[string]string
}

func (e *EnvBinder) Bind(v *viper.Viper) error {
	for envVar, key := range e.binders {
		err := v.BindEnv(key, envVar)
		if err != nil {
			return errs.E(errs.Validation, errs.Parameter(envVar), err)
		}
	}

	return nil
}

func NewEnvBinder(binders map[string]string) *EnvBinder {
	return &EnvBinder{
		binders: binders,
	}
}

func NewDefaultEnvBinder() *EnvBinder {
	return NewEnvBinder(map[string]string{
		"KEBOOLA_API_TOKEN":    "keboola.api_token",
		"KEBOOLA_PROJECT_URL":  "keboola.project_url",
		"KEBOOLA_PROJECT_NAME": "keboola.project_name",
		"WAII_API_URL":         "waii.api_url",
		"WAII_API_KEY":         "waii.api_key",
		"WAII_CONNECTION":      "waii.connection",
	})
}
