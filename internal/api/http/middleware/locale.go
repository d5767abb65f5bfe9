package middleware

import (
	"path"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/llante/llante_site/internal/locale"
)

const LocalLocale = "locale"

// LocaleConfig controls which requests take part in locale routing.
type LocaleConfig struct {
	Set *locale.Set
	// SkipPrefixes are served as-is, e.g. "/api" or the metrics path.
	SkipPrefixes []string
}

// Locale makes every page URL carry a locale prefix. Prefixed requests get
// the locale stored in locals; unprefixed page requests are redirected to the
// locale negotiated from Accept-Language. Assets (paths with an extension)
// and skipped prefixes pass through untouched.
func Locale(cfg LocaleConfig) fiber.Handler {
	return func(c fiber.Ctx) error {
		p := c.Path()
		if skipLocale(p, cfg.SkipPrefixes) {
			return c.Next()
		}

		loc, _, prefixed := cfg.Set.Split(p)
		if prefixed {
			c.Locals(LocalLocale, string(loc))
			c.Set(fiber.HeaderContentLanguage, string(loc))
			if meta, ok := metaFromFiber(c); ok {
				meta.Locale = string(loc)
			}
			return c.Next()
		}

		method := c.Method()
		if method != fiber.MethodGet && method != fiber.MethodHead {
			return c.Next()
		}

		target := cfg.Set.Negotiate(c.Get(fiber.HeaderAcceptLanguage))
		uri := p
		if q := string(c.Request().URI().QueryString()); q != "" {
			uri += "?" + q
		}
		c.Set(fiber.HeaderVary, fiber.HeaderAcceptLanguage)
		return c.Redirect().Status(fiber.StatusTemporaryRedirect).To(cfg.Set.Rewrite(uri, target))
	}
}

// LocaleFromFiber returns the locale stored by Locale, if any.
func LocaleFromFiber(c fiber.Ctx) (string, bool) {
	s, ok := c.Locals(LocalLocale).(string)
	return s, ok && s != ""
}

func skipLocale(p string, prefixes []string) bool {
	for _, pre := range prefixes {
		if p == pre || strings.HasPrefix(p, strings.TrimSuffix(pre, "/")+"/") {
			return true
		}
	}
	return path.Ext(p) != ""
}
