package config

import "sort"

var Presets = map[string]ParamsConfig{
	"nominal":     {Kp: 1.0, Percent: 30, Xi: 0.7, H: 0.02, TEnd: 10},
	"critical":    {Kp: 1.0, Percent: 0, Xi: 1.0, H: 0.02, TEnd: 10},
	"underdamped": {Kp: 4.0, Percent: 0, Xi: 0.2, H: 0.01, TEnd: 15},
	"overdamped":  {Kp: 1.0, Percent: 0, Xi: 2.5, H: 0.02, TEnd: 20},
	"undamped":    {Kp: 1.0, Percent: 0, Xi: 0.0, H: 0.01, TEnd: 20},
	"coarse":      {Kp: 1.0, Percent: 30, Xi: 0.7, H: 0.5, TEnd: 10},
	"unstable":    {Kp: 10000, Percent: 0, Xi: 0.7, H: 0.02, TEnd: 10},
}

func GetPreset(name string) (ParamsConfig, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
