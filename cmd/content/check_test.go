package content

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llante/llante_site/internal/content"
)

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	n := report(&buf, []content.Gap{
		{Locale: "en", MissingNamespaces: []string{"about"}, MissingKeys: []string{"common.nav.about", "info.faq.q1"}},
		{Locale: "pt"},
	})

	assert.Equal(t, 3, n)
	assert.Equal(t, "en: 1 namespaces, 2 keys missing\n"+
		"  namespace about\n"+
		"  common.nav.about\n"+
		"  info.faq.q1\n"+
		"pt: complete\n", buf.String())
}
