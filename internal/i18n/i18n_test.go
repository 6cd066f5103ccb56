package i18n

import (
	"context"
	"testing"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load("en")
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "zh"}, c.Languages())

	_, err = Load("fr")
	assert.Error(t, err)
}

func TestNegotiate(t *testing.T) {
	c, err := Load("en")
	require.NoError(t, err)

	assert.Equal(t, "en", c.Negotiate(""))
	assert.Equal(t, "en", c.Negotiate("fr-FR,fr;q=0.9"))
	assert.Equal(t, "zh", c.Negotiate("zh-CN,zh;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", c.Negotiate("en-US"))
	assert.Equal(t, "en", c.Negotiate(";;;garbage"))
}

func TestT(t *testing.T) {
	c, err := Load("en")
	require.NoError(t, err)

	en := WithLocalizer(context.Background(), c.Localizer("en"))
	assert.Equal(t, "URL has been shortened!", T(en, "flash.created", nil))
	assert.Equal(t, "Url https://google.com/ has already been shortened.",
		T(en, "flash.already_shortened", map[string]interface{}{"Original": "https://google.com/"}))
	assert.Equal(t, "Original can't be blank", T(en, "error.full_message", map[string]interface{}{
		"Attribute": T(en, "attribute.original", nil),
		"Message":   T(en, "error.blank", nil),
	}))

	zh := WithLocalizer(context.Background(), c.Localizer("zh"))
	assert.Equal(t, "网址已缩短！", T(zh, "flash.created", nil))

	assert.Equal(t, "no.such.key", T(en, "no.such.key", nil))
	assert.Equal(t, "flash.created", T(context.Background(), "flash.created", nil))
}

func TestLocaleFilesHaveSameKeys(t *testing.T) {
	c, err := Load("en")
	require.NoError(t, err)

	en := c.Localizer("en")
	zh := c.Localizer("zh")
	for _, id := range []string{"page.index.heading", "page.show.heading", "page.new.heading", "flash.code_not_found", "flash.entry_not_found", "flash.retry_exhausted", "error.invalid_url"} {
		enMsg, err := en.Localize(&goi18n.LocalizeConfig{MessageID: id})
		require.NoError(t, err, id)
		zhMsg, err := zh.Localize(&goi18n.LocalizeConfig{MessageID: id})
		require.NoError(t, err, id)
		assert.NotEqual(t, enMsg, zhMsg, id)
	}
}
