package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetTranslation(t *testing.T) {
	req := require.New(t)

	req.Equal(Translations[LangEnglish]["approved"], GetTranslation(LangEnglish, "approved"))
	req.Equal(Translations[LangRussian]["approved"], GetTranslation("de", "approved"))
	req.Equal("no_such_key", GetTranslation(LangEnglish, "no_such_key"))
}

func TestTranslationsHaveSameKeys(t *testing.T) {
	for key := range Translations[LangRussian] {
		_, ok := Translations[LangEnglish][key]
		require.True(t, ok, "english translation missing for %q", key)
	}
	for key := range Translations[LangEnglish] {
		_, ok := Translations[LangRussian][key]
		require.True(t, ok, "russian translation missing for %q", key)
	}
}
