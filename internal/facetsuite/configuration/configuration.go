package configuration

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/mail.v2"

	"github.com/G-Research/facetsuite/internal/common"
	commonconfig "github.com/G-Research/facetsuite/internal/common/config"
)

const (
	// DefaultConfigName is looked up in the home directory if no config file is given.
	DefaultConfigName = ".facetsuite"
	EnvPrefix         = "FACETSUITE"
)

type Configuration struct {
	Scheduler SchedulerConfig
	Results   ResultsConfig
	Smtp      SmtpConfig
}

type SchedulerConfig struct {
	// Command invoked once per job. Defaults to facetsuite-schedule next to the facetsuite binary.
	Path string
	// Extra environment for the scheduler, as KEY=VALUE.
	Env []string
}

type ResultsConfig struct {
	// From address of result emails. Defaults to facetsuite@<hostname>.
	SendingEmail string `validate:"omitempty,email"`
	// Name of the file a job writes into its archive directory once done.
	SummaryFile  string        `validate:"required"`
	PollInterval time.Duration `validate:"required"`
}

type SmtpConfig struct {
	Host     string `validate:"required"`
	Port     int    `validate:"min=1,max=65535"`
	Username string
	Password string
	StartTLS mail.StartTLSPolicy
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("results.summaryFile", "summary.yaml")
	v.SetDefault("results.pollInterval", "10s")
	v.SetDefault("smtp.host", "localhost")
	v.SetDefault("smtp.port", 25)
	v.SetDefault("smtp.startTLS", "opportunistic")
}

// Load builds the configuration from defaults, the config file at path (or
// $HOME/.facetsuite.yaml if path is empty) and FACETSUITE_* environment variables.
func Load(path string) (*Configuration, error) {
	v := viper.New()
	SetDefaults(v)

	config := &Configuration{}
	if err := common.LoadConfig(v, config, path, DefaultConfigName, EnvPrefix); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		commonconfig.LogValidationErrors(err)
		return nil, err
	}
	return config, nil
}
