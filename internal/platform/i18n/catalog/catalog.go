// Package catalog loads the embedded message catalogs and registers them
// with golang.org/x/text/message.
//
// Catalogs live at locales/<locale>/<namespace>.yaml and use a small YAML
// subset:
//
//	locale: "he-IL"
//	namespace: "auth"
//	messages:
//	  "auth.login.title": "ברוכים השבים"
//
// Every key must start with its namespace, and a key may be defined once per
// locale.
package catalog

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the source locale every other catalog translates.
const BaseLocale = "he-IL"

//go:embed locales/*/*.yaml
var embedded embed.FS

var defaultBundle = mustLoadDefault()

// Bundle holds every message grouped by locale and namespace.
type Bundle struct {
	locales map[string]*localeMessages
}

type localeMessages struct {
	namespaces map[string][]string
	messages   map[string]string
}

type file struct {
	locale    string
	namespace string
	messages  map[string]string
	order     []string
}

// Default returns the embedded bundle, already registered.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded parses the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embedded)
}

// LoadFromFS parses every catalog under locales/ in fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, errors.New("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: map[string]*localeMessages{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		f, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.add(p, f); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", p, err)
		}
	}
	if !b.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is missing", BaseLocale)
	}
	return b, nil
}

func (b *Bundle) add(p string, f file) error {
	dirLocale := path.Base(path.Dir(p))
	fileNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if f.locale != dirLocale {
		return fmt.Errorf("locale %q does not match directory %q", f.locale, dirLocale)
	}
	if f.namespace != fileNamespace {
		return fmt.Errorf("namespace %q does not match file name %q", f.namespace, fileNamespace)
	}
	if _, err := language.Parse(f.locale); err != nil {
		return fmt.Errorf("parse locale %q: %w", f.locale, err)
	}

	lm, ok := b.locales[f.locale]
	if !ok {
		lm = &localeMessages{namespaces: map[string][]string{}, messages: map[string]string{}}
		b.locales[f.locale] = lm
	}
	if _, exists := lm.namespaces[f.namespace]; exists {
		return fmt.Errorf("namespace %q defined twice", f.namespace)
	}
	for _, key := range f.order {
		if !strings.HasPrefix(key, f.namespace+".") {
			return fmt.Errorf("key %q must start with %q", key, f.namespace+".")
		}
		if _, exists := lm.messages[key]; exists {
			return fmt.Errorf("duplicate key %q", key)
		}
		lm.messages[key] = f.messages[key]
	}
	lm.namespaces[f.namespace] = f.order
	return nil
}

// Register makes every message available to message.NewPrinter, under both
// the full tag and its base language.
func (b *Bundle) Register() error {
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, conf := tag.Base(); conf != language.No {
			if baseTag := language.Make(base.String()); baseTag != tag {
				tags = append(tags, baseTag)
			}
		}
		for key, value := range b.locales[locale].messages {
			for _, t := range tags {
				if err := message.SetString(t, key, value); err != nil {
					return fmt.Errorf("register %s %s: %w", t, key, err)
				}
			}
		}
	}
	return nil
}

// HasLocale reports whether a catalog exists for locale.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns the loaded locales, sorted.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Message looks key up in locale, then in BaseLocale.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	key = strings.TrimSpace(key)
	for _, l := range []string{strings.TrimSpace(locale), BaseLocale} {
		if lm, ok := b.locales[l]; ok {
			if value, ok := lm.messages[key]; ok {
				return value, true
			}
		}
	}
	return "", false
}

// Keys returns the keys of namespace in file order.
func (b *Bundle) Keys(locale, namespace string) []string {
	if b == nil {
		return nil
	}
	lm, ok := b.locales[strings.TrimSpace(locale)]
	if !ok {
		return nil
	}
	return append([]string(nil), lm.namespaces[strings.TrimSpace(namespace)]...)
}

// Missing lists the keys BaseLocale defines that locale does not.
func (b *Bundle) Missing(locale string) []string {
	if b == nil {
		return nil
	}
	base, ok := b.locales[BaseLocale]
	if !ok {
		return nil
	}
	target := b.locales[strings.TrimSpace(locale)]
	var missing []string
	for key := range base.messages {
		if target == nil {
			missing = append(missing, key)
			continue
		}
		if _, ok := target.messages[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func mustLoadDefault() *Bundle {
	b, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := b.Register(); err != nil {
		panic(err)
	}
	return b
}

func parse(data []byte) (file, error) {
	f := file{messages: map[string]string{}}
	inMessages := false
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "locale:"):
			value, err := strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "locale:")))
			if err != nil {
				return file{}, fmt.Errorf("line %d: locale: %w", lineNo, err)
			}
			f.locale = strings.TrimSpace(value)
		case strings.HasPrefix(line, "namespace:"):
			value, err := strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "namespace:")))
			if err != nil {
				return file{}, fmt.Errorf("line %d: namespace: %w", lineNo, err)
			}
			f.namespace = strings.TrimSpace(value)
		case line == "messages:":
			inMessages = true
		case inMessages:
			key, value, err := parseEntry(line)
			if err != nil {
				return file{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if _, exists := f.messages[key]; exists {
				return file{}, fmt.Errorf("line %d: duplicate key %q", lineNo, key)
			}
			f.messages[key] = value
			f.order = append(f.order, key)
		default:
			return file{}, fmt.Errorf("line %d: unexpected %q", lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return file{}, err
	}
	switch {
	case f.locale == "":
		return file{}, errors.New("missing locale")
	case f.namespace == "":
		return file{}, errors.New("missing namespace")
	case len(f.messages) == 0:
		return file{}, errors.New("missing messages")
	}
	return f, nil
}

// parseEntry splits a `"key": "value"` line. Both sides are Go-quoted strings.
func parseEntry(line string) (string, string, error) {
	end := closingQuote(line)
	if end < 0 {
		return "", "", fmt.Errorf("expected quoted key in %q", line)
	}
	key, err := strconv.Unquote(line[:end+1])
	if err != nil {
		return "", "", fmt.Errorf("key: %w", err)
	}
	rest := strings.TrimSpace(line[end+1:])
	if !strings.HasPrefix(rest, ":") {
		return "", "", fmt.Errorf("missing ':' after key %q", key)
	}
	value, err := strconv.Unquote(strings.TrimSpace(rest[1:]))
	if err != nil {
		return "", "", fmt.Errorf("value of %q: %w", key, err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", errors.New("blank key")
	}
	return key, value, nil
}

func closingQuote(s string) int {
	if !strings.HasPrefix(s, `"`) {
		return -1
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
