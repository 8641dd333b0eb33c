package i18n

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported lists the languages with a full catalog. The first entry is the
// fallback.
var Supported = []language.Tag{language.English, language.French}

var matcher = language.NewMatcher(Supported)

// cat is built once from the message tables.
var cat = mustBuildCatalog()

func mustBuildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, table := range map[language.Tag]map[Key]string{
		language.English: english,
		language.French:  french,
	} {
		for key, msg := range table {
			if err := b.SetString(tag, string(key), msg); err != nil {
				panic(fmt.Sprintf("i18n: invalid message %q for %s: %v", key, tag, err))
			}
		}
	}
	return b
}

// Lookup maps a language name such as "fr", "fr-CA" or "fr_FR.UTF-8" to a
// supported language. It reports false when no supported language matches.
func Lookup(name string) (language.Tag, bool) {
	name = normalizeLocale(name)
	if name == "" {
		return language.Und, false
	}
	tag, err := language.Parse(name)
	if err != nil {
		return language.Und, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Und, false
	}
	return Supported[idx], true
}

// Detect returns the language to use. An explicit name wins; otherwise the
// first non-empty of LC_ALL, LC_MESSAGES and LANG is used. Anything that
// does not match a supported language yields English.
func Detect(explicit string) language.Tag {
	return detect(explicit, os.Getenv)
}

func detect(explicit string, getenv func(string) string) language.Tag {
	name := explicit
	if name == "" {
		for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
			if v := getenv(env); v != "" {
				name = v
				break
			}
		}
	}
	if tag, ok := Lookup(name); ok {
		return tag
	}
	return language.English
}

// normalizeLocale turns POSIX locale names into BCP 47 form:
// "fr_FR.UTF-8@euro" becomes "fr-FR". "C" and "POSIX" become "".
func normalizeLocale(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	if name == "C" || name == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(name, "_", "-")
}

// Printer formats catalog messages for one language.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// NewPrinter returns a Printer for the supported language closest to tag.
// Unsupported tags print English.
func NewPrinter(tag language.Tag) *Printer {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		idx = 0
	}
	tag = Supported[idx]
	return &Printer{
		tag: tag,
		p:   message.NewPrinter(tag, message.Catalog(cat)),
	}
}

// Language returns the printer's language.
func (p *Printer) Language() language.Tag {
	return p.tag
}

// Sprintf formats the message for key.
func (p *Printer) Sprintf(key Key, args ...any) string {
	return p.p.Sprintf(string(key), args...)
}

// Fprintf writes the message for key to w.
func (p *Printer) Fprintf(w io.Writer, key Key, args ...any) {
	_, _ = p.p.Fprintf(w, string(key), args...) //nolint:errcheck // terminal output
}

// Fprintln writes the message for key to w followed by a newline.
func (p *Printer) Fprintln(w io.Writer, key Key, args ...any) {
	_, _ = io.WriteString(w, p.Sprintf(key, args...)+"\n") //nolint:errcheck // terminal output
}
