package local

import (
	"fmt"
	"strings"
)

type Language string

const (
	Eng = Language("en")
	Rus = Language("ru")
)

// ParseLanguage maps an IETF language tag such as "ru-RU" to a Language.
// Unknown tags map to Eng.
func ParseLanguage(code string) Language {
	base, _, _ := strings.Cut(strings.ToLower(code), "-")
	switch Language(base) {
	case Rus:
		return Rus
	default:
		return Eng
	}
}

type Localization struct {
	language Language
	text     string
}

type TextSet struct {
	Default          string
	translationsText map[Language]string
}

func NewTrans(language Language, text string) Localization {
	return Localization{
		language: language,
		text:     text,
	}
}

func NewSet(defaultText string, localizations ...Localization) TextSet {
	set := TextSet{
		Default:          defaultText,
		translationsText: make(map[Language]string),
	}
	for _, localization := range localizations {
		set.translationsText[localization.language] = localization.text
	}
	return set
}

func (l TextSet) Text(language Language) string {
	if text, ok := l.translationsText[language]; ok {
		return text
	}
	return l.Default
}

func (l TextSet) DefaultFormat(a ...any) string {
	return fmt.Sprintf(l.Default, a...)
}

func (l TextSet) Format(language Language, a ...any) string {
	return fmt.Sprintf(l.Text(language), a...)
}
