// Package deck models the roundup slide deck (intro, topic slides,
// outro) and exports it to deterministically named raster images for
// clip rendering.
package deck

import (
	"encoding/json"
	"fmt"
	"os"
)

// SlideKind identifies a slide's position class in the deck.
type SlideKind string

const (
	KindIntro SlideKind = "intro"
	KindTopic SlideKind = "topic"
	KindOutro SlideKind = "outro"
)

// Slide is one slide's content. Topic slides carry bullets and an
// optional image; intro/outro carry a subtitle instead.
type Slide struct {
	Kind     SlideKind `json:"kind"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Bullets  []string  `json:"bullets,omitempty"`
	Image    string    `json:"image,omitempty"`
}

// Deck is the ordered slide sequence: intro first, outro last, topics
// in between in the order they were added.
type Deck struct {
	Slides []Slide `json:"slides"`
}

// New starts a deck with its intro slide.
func New(title, subtitle string) *Deck {
	return &Deck{
		Slides: []Slide{{Kind: KindIntro, Title: title, Subtitle: subtitle}},
	}
}

// AddTopic appends a topic slide.
func (d *Deck) AddTopic(title string, bullets []string, image string) {
	d.Slides = append(d.Slides, Slide{
		Kind:    KindTopic,
		Title:   title,
		Bullets: bullets,
		Image:   image,
	})
}

// AddOutro appends the closing slide.
func (d *Deck) AddOutro(title, subtitle string) {
	d.Slides = append(d.Slides, Slide{Kind: KindOutro, Title: title, Subtitle: subtitle})
}

// TopicCount returns the number of interior topic slides.
func (d *Deck) TopicCount() int {
	n := 0
	for _, s := range d.Slides {
		if s.Kind == KindTopic {
			n++
		}
	}
	return n
}

// Save persists the deck document as JSON, overwriting any previous run.
func (d *Deck) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal deck: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadDeck reads a persisted deck document.
func LoadDeck(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse deck: %w", err)
	}
	return &d, nil
}
