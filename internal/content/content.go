// Package content loads the informational copy shown on the site.
package content

import (
	"bytes"
	_ "embed"
	"html/template"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Site is the rendered site copy.
type Site struct {
	Business      string
	Tagline       string
	Logo          string
	Hero          Hero
	About         About
	Menu          Menu
	Gallery       Gallery
	Contact       Contact
	Services      []string
	CopyrightYear int
}

type Hero struct {
	Image       string
	Headline    string
	Subheadline string
}

type About struct {
	Title      string
	Subtitle   string
	Image      string
	Body       template.HTML
	Highlights []Highlight
}

type Highlight struct {
	Title string
	Text  string
}

type Menu struct {
	Title          string
	Intro          string
	ServiceOptions template.HTML
	CarcassNote    template.HTML
}

type Gallery struct {
	Intro  string
	Photos []Photo
}

type Photo struct {
	Image   string
	Alt     string
	Caption string
}

// Contact holds the business contact details. Phone is in dialable form
// (E.164); PhoneDisplay is how it is printed.
type Contact struct {
	Intro         string
	Phone         string
	PhoneDisplay  string
	Facebook      string
	FacebookLabel string
	Location      string
	Hours         []Hours
}

// TelURL is the tel: link for the business phone.
func (c Contact) TelURL() template.URL {
	return template.URL("tel:" + c.Phone)
}

type Hours struct {
	Days string
	Time string
}

type siteYAML struct {
	Business string `yaml:"business"`
	Tagline  string `yaml:"tagline"`
	Logo     string `yaml:"logo"`
	Hero     struct {
		Image       string `yaml:"image"`
		Headline    string `yaml:"headline"`
		Subheadline string `yaml:"subheadline"`
	} `yaml:"hero"`
	About struct {
		Title      string `yaml:"title"`
		Subtitle   string `yaml:"subtitle"`
		Image      string `yaml:"image"`
		Body       string `yaml:"body"`
		Highlights []struct {
			Title string `yaml:"title"`
			Text  string `yaml:"text"`
		} `yaml:"highlights"`
	} `yaml:"about"`
	Menu struct {
		Title          string `yaml:"title"`
		Intro          string `yaml:"intro"`
		ServiceOptions string `yaml:"service_options"`
		CarcassNote    string `yaml:"carcass_note"`
	} `yaml:"menu"`
	Gallery struct {
		Intro  string `yaml:"intro"`
		Photos []struct {
			Image   string `yaml:"image"`
			Alt     string `yaml:"alt"`
			Caption string `yaml:"caption"`
		} `yaml:"photos"`
	} `yaml:"gallery"`
	Contact struct {
		Intro         string `yaml:"intro"`
		Phone         string `yaml:"phone"`
		PhoneDisplay  string `yaml:"phone_display"`
		Facebook      string `yaml:"facebook"`
		FacebookLabel string `yaml:"facebook_label"`
		Location      string `yaml:"location"`
		Hours         []struct {
			Days string `yaml:"days"`
			Time string `yaml:"time"`
		} `yaml:"hours"`
	} `yaml:"contact"`
	Services      []string `yaml:"services"`
	CopyrightYear int      `yaml:"copyright_year"`
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// RenderMarkdown converts Markdown source to HTML. Raw HTML in the source
// is dropped.
func RenderMarkdown(src string) (template.HTML, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", errors.Wrap(err, "render markdown")
	}
	return template.HTML(buf.String()), nil
}

// Default returns the copy compiled into the binary.
func Default() (*Site, error) {
	return Parse(defaultContent)
}

// Load reads site copy from path, or the embedded copy when path is empty.
func Load(path string) (*Site, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read content file")
	}
	return Parse(data)
}

// Parse decodes YAML site copy and renders its Markdown fields.
func Parse(data []byte) (*Site, error) {
	var raw siteYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode content")
	}
	if raw.Business == "" {
		return nil, errors.New("content: business name is required")
	}
	if raw.Contact.Phone == "" {
		return nil, errors.New("content: contact phone is required")
	}

	s := &Site{
		Business: raw.Business,
		Tagline:  raw.Tagline,
		Logo:     raw.Logo,
		Hero: Hero{
			Image:       raw.Hero.Image,
			Headline:    raw.Hero.Headline,
			Subheadline: raw.Hero.Subheadline,
		},
		About: About{
			Title:    raw.About.Title,
			Subtitle: raw.About.Subtitle,
			Image:    raw.About.Image,
		},
		Menu: Menu{
			Title: raw.Menu.Title,
			Intro: raw.Menu.Intro,
		},
		Gallery: Gallery{Intro: raw.Gallery.Intro},
		Contact: Contact{
			Intro:         raw.Contact.Intro,
			Phone:         raw.Contact.Phone,
			PhoneDisplay:  raw.Contact.PhoneDisplay,
			Facebook:      raw.Contact.Facebook,
			FacebookLabel: raw.Contact.FacebookLabel,
			Location:      raw.Contact.Location,
		},
		Services:      raw.Services,
		CopyrightYear: raw.CopyrightYear,
	}
	if s.Contact.PhoneDisplay == "" {
		s.Contact.PhoneDisplay = s.Contact.Phone
	}

	var err error
	if s.About.Body, err = RenderMarkdown(raw.About.Body); err != nil {
		return nil, errors.Wrap(err, "about")
	}
	if s.Menu.ServiceOptions, err = RenderMarkdown(hardBreaks(raw.Menu.ServiceOptions)); err != nil {
		return nil, errors.Wrap(err, "service options")
	}
	if s.Menu.CarcassNote, err = RenderMarkdown(raw.Menu.CarcassNote); err != nil {
		return nil, errors.Wrap(err, "carcass note")
	}

	for _, h := range raw.About.Highlights {
		s.About.Highlights = append(s.About.Highlights, Highlight{Title: h.Title, Text: h.Text})
	}
	for _, p := range raw.Gallery.Photos {
		s.Gallery.Photos = append(s.Gallery.Photos, Photo{Image: p.Image, Alt: p.Alt, Caption: p.Caption})
	}
	for _, h := range raw.Contact.Hours {
		s.Contact.Hours = append(s.Contact.Hours, Hours{Days: h.Days, Time: h.Time})
	}
	return s, nil
}

// hardBreaks turns each source line into its own line in the output.
func hardBreaks(src string) string {
	lines := strings.Split(strings.TrimSpace(src), "\n")
	return strings.Join(lines, "  \n")
}
