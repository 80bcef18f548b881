package config

import (
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	mail "gopkg.in/mail.v2"
)

// CustomHooks must be passed to viper.Unmarshal. Viper only keeps the last DecodeHook
// option, so the hooks, together with viper's defaults, are composed into one.
var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		StartTLSPolicyHookFunc(),
	)),
}

func StartTLSPolicyHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		// check that src and target types are valid
		if f.Kind() != reflect.String || t != reflect.TypeOf(mail.OpportunisticStartTLS) {
			return data, nil
		}
		return ParseStartTLSPolicy(data.(string))
	}
}

// ParseStartTLSPolicy maps the names accepted in config files to mail.StartTLSPolicy values.
func ParseStartTLSPolicy(s string) (mail.StartTLSPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "opportunistic":
		return mail.OpportunisticStartTLS, nil
	case "mandatory":
		return mail.MandatoryStartTLS, nil
	case "none", "no":
		return mail.NoStartTLS, nil
	default:
		return mail.OpportunisticStartTLS, errors.Errorf("unknown starttls policy: %s", s)
	}
}
