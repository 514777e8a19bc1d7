// Package site holds the storefront settings and the shared state the menu
// page reads from: the configured display category, hero banner, category
// list, and the registry of loaded products.
package site

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the storefront configuration kept in the settings file.
type Settings struct {
	ShopName        string     `yaml:"shop_name" json:"shopName"`
	DisplayCategory string     `yaml:"display_category" json:"displayCategory"`
	Currency        string     `yaml:"currency" json:"currency"`
	Lang            string     `yaml:"lang" json:"lang"`
	Hero            Hero       `yaml:"hero" json:"hero"`
	Categories      []Category `yaml:"categories" json:"categories"`
}

// Hero is the banner shown above the menu.
type Hero struct {
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle" json:"subtitle"`
	Image    string `yaml:"image" json:"image"`
}

// Category is one entry of the category selector.
type Category struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Image string `yaml:"image" json:"image"`
}

// Label returns the display name, falling back to the id.
func (c Category) Label() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return c.ID
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings(currency, lang string) Settings {
	return Settings{
		ShopName: "Menu",
		Currency: currency,
		Lang:     lang,
		Hero: Hero{
			Title: "Menu",
		},
	}
}

// LoadSettings reads the settings file at path over defaults. A missing file or an
// empty path yields defaults without error.
func LoadSettings(path string, defaults Settings) (Settings, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return defaults.normalized(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults.normalized(), nil
		}
		return Settings{}, fmt.Errorf("site: read settings %s: %w", path, err)
	}
	return ParseSettings(data, defaults)
}

// ParseSettings decodes YAML settings over defaults. Keys absent from data keep their
// default values.
func ParseSettings(data []byte, defaults Settings) (Settings, error) {
	settings := defaults
	settings.Categories = append([]Category(nil), defaults.Categories...)
	if len(bytes.TrimSpace(data)) == 0 {
		return settings.normalized(), nil
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("site: parse settings: %w", err)
	}
	if err := settings.validate(); err != nil {
		return Settings{}, err
	}
	return settings.normalized(), nil
}

// CategoryByID returns the configured category with the given id.
func (s Settings) CategoryByID(id string) (Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func (s Settings) validate() error {
	seen := make(map[string]struct{}, len(s.Categories))
	for i, c := range s.Categories {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return fmt.Errorf("site: categories[%d]: id is required", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("site: categories[%d]: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}
	}
	if cur := strings.TrimSpace(s.Currency); cur != "" && len(cur) != 3 {
		return fmt.Errorf("site: currency %q must be a 3-letter code", cur)
	}
	return nil
}

func (s Settings) normalized() Settings {
	s.ShopName = strings.TrimSpace(s.ShopName)
	s.DisplayCategory = strings.TrimSpace(s.DisplayCategory)
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	s.Lang = strings.ToLower(strings.TrimSpace(s.Lang))
	for i := range s.Categories {
		s.Categories[i].ID = strings.TrimSpace(s.Categories[i].ID)
	}
	return s
}
