package common

import (
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	commonconfig "github.com/G-Research/facetsuite/internal/common/config"
)

// ConfigureCommandLineLogging sets up logrus for interactive use: text output on
// stderr so that command output on stdout stays machine readable.
func ConfigureCommandLineLogging() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)
}

// SetVerbose raises the log level to debug when verbose is true.
func SetVerbose(verbose bool) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// LoadConfig reads the config file at path into config. If path is empty,
// $HOME/<defaultName>.yaml is used if it exists; a missing default file is not an error.
// Values can be overridden with environment variables prefixed with envPrefix,
// e.g., FACETSUITE_SMTP_HOST for smtp.host.
func LoadConfig(v *viper.Viper, config interface{}, path string, defaultName string, envPrefix string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return errors.WithMessage(err, "error getting user home directory")
		}
		v.AddConfigPath(home)
		v.SetConfigName(defaultName)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		switch err.(type) {
		case viper.ConfigFileNotFoundError:
			// This only occurs when looking for the default file and it is not present.
			// Users don't have to provide one.
			log.Debugf("no config file %s found in home directory, using defaults", defaultName)
		default:
			return errors.Wrapf(err, "error reading config file %s", v.ConfigFileUsed())
		}
	} else {
		log.Debugf("using config file %s", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(config, commonconfig.CustomHooks...); err != nil {
		return errors.WithMessage(err, "error decoding config")
	}
	return nil
}
