package constants

const (
	AppName      = "llante"
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "LLANTE"
)

// Locale and namespace defaults mirror the content shipped in internal/content/locales.
const DefaultLocale = "es"

var (
	DefaultLocales    = []string{"es", "en"}
	DefaultNamespaces = []string{
		"common", "hero", "banner", "vision", "benefits",
		"footer", "info", "legal", "part", "about",
	}
)
