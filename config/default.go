// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/etldl/etldl/color"
	"github.com/etldl/etldl/constant"
	"github.com/etldl/etldl/key"
	"github.com/etldl/etldl/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.DownloadsPath, "downloads", "Root directory for downloaded courses")
	register(key.DownloadParallel, 1, "Number of videos processed at the same time")
	register(key.DownloadKeepRaw, false, "Keep the raw .ts stream after a successful conversion")

	register(key.FetchWorkers, 16, "Maximum number of segments fetched at the same time")
	register(key.FetchRetries, 3, "Retries per segment after the first attempt")
	register(key.FetchSegmentTimeout, "30s", "Timeout for a single segment request")
	register(key.FetchBackoff, "500ms", "Initial wait before retrying a segment")
	register(key.FetchMaxBackoff, "10s", "Upper bound of the wait between segment retries")

	register(key.ProbeRetries, 5, "Retries for a segment probe that failed in transit")
	register(key.ProbeBackoff, "500ms", "Initial wait before retrying a probe")
	register(key.ProbeMaxBackoff, "10s", "Upper bound of the wait between probe retries")
	register(key.ProbeTimeout, "15s", "Timeout for a single probe request")
	register(key.ProbeDeadline, "10m", "Deadline for counting the segments of one video")

	register(key.ConverterPath, "ffmpeg", "Media converter executable")
	register(key.ConverterArgs, []string{}, "Extra output arguments passed to the converter")

	register(key.PortalBaseURL, constant.PortalBaseURL, "Portal home page listing the enrolled courses")
	register(key.PortalLoginURL, constant.PortalLoginURL, "Single sign-on credential endpoint")
	register(key.PortalCertURL, constant.PortalCertURL, "Single sign-on certificate relay endpoint")
	register(key.PortalStreamPattern, constant.StreamPattern, "Regular expression locating the stream endpoint in a player page")
	register(key.PortalCacheCourses, true, "Cache the course list for a day")

	register(key.AuthUsername, "", "Portal username.\nThe password is kept in the system keyring")

	register(key.HistorySave, true, "Record completed downloads in the history file")

	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, nerd, plain, squares")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"blue":     style.Fg(color.Blue),
	"purple":   style.Fg(color.Purple),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
