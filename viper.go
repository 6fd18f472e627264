// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package querytrace

import (
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	// QueryTraceKey is the Viper subkey under which this package's Options
	// are expected.  FromViper *does not* assume this key.
	QueryTraceKey = "queryTrace"
)

// Sub returns the standard child Viper, using QueryTraceKey, for this package.
// If passed nil, this function returns nil.
func Sub(v *viper.Viper) *viper.Viper {
	if v != nil {
		return v.Sub(QueryTraceKey)
	}

	return nil
}

// FromViper produces an Options from a (possibly nil) Viper instance.
// Callers should use FromViper(Sub(v)) if the standard subkey is desired.
// Durations may be given as strings, such as "5s".
func FromViper(v *viper.Viper) (*Options, error) {
	o := new(Options)
	if v != nil {
		err := v.Unmarshal(o, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)))

		if err != nil {
			return nil, err
		}
	}

	return o, nil
}
