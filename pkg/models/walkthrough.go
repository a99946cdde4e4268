package models

import "fmt"

// WalkthroughKind tags the payload carried by a WalkthroughItem.
type WalkthroughKind string

const (
	KindDescription WalkthroughKind = "description"
	KindActionGroup WalkthroughKind = "action_group"
)

// DescriptionCard is an introductory card with a call to action.
type DescriptionCard struct {
	Body        string `yaml:"body" json:"body"`
	ButtonTitle string `yaml:"button_title" json:"buttonTitle"`
	Image       string `yaml:"image,omitempty" json:"image,omitempty"`
}

// ActionCard links a walkthrough to one page of the book.
type ActionCard struct {
	SystemName  string `yaml:"system_name" json:"systemName"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	ActionTitle string `yaml:"action_title" json:"actionTitle"`
}

// ActionGroup is a titled list of action cards.
type ActionGroup struct {
	Cards []ActionCard `yaml:"cards" json:"cards"`
}

// WalkthroughItem is one entry of a walkthrough. Kind selects which of
// Description or Actions is set; Title is shared by both.
type WalkthroughItem struct {
	Kind        WalkthroughKind  `yaml:"kind" json:"kind"`
	Title       string           `yaml:"title" json:"title"`
	Description *DescriptionCard `yaml:"description,omitempty" json:"description,omitempty"`
	Actions     *ActionGroup     `yaml:"actions,omitempty" json:"actions,omitempty"`
}

// Walkthrough is the ordered guide shown beside the editor.
type Walkthrough struct {
	Items []WalkthroughItem `yaml:"items" json:"items"`
}

// NewDescriptionItem builds a description entry.
func NewDescriptionItem(title string, card DescriptionCard) WalkthroughItem {
	return WalkthroughItem{Kind: KindDescription, Title: title, Description: &card}
}

// NewActionGroupItem builds an action group entry.
func NewActionGroupItem(title string, cards ...ActionCard) WalkthroughItem {
	return WalkthroughItem{Kind: KindActionGroup, Title: title, Actions: &ActionGroup{Cards: cards}}
}

// Validate checks that the tag matches exactly one payload.
func (w WalkthroughItem) Validate() error {
	switch w.Kind {
	case KindDescription:
		if w.Description == nil || w.Actions != nil {
			return fmt.Errorf("walkthrough item %q: description kind requires only a description payload", w.Title)
		}
	case KindActionGroup:
		if w.Actions == nil || w.Description != nil {
			return fmt.Errorf("walkthrough item %q: action_group kind requires only an actions payload", w.Title)
		}
	default:
		return fmt.Errorf("walkthrough item %q: unknown kind %q", w.Title, w.Kind)
	}
	return nil
}

// Validate checks every item.
func (w Walkthrough) Validate() error {
	for i, item := range w.Items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}
