package tone

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
)

// Category groups choice rules. Rules are evaluated in the order of
// ChoiceRules, which lists categories in this order.
type Category string

// Choice rule categories, in priority order.
const (
	CategoryMovement  Category = "movement"
	CategoryDirection Category = "direction"
	CategoryAction    Category = "action"
	CategoryEmotion   Category = "emotion"
	CategorySocial    Category = "social"
	CategoryMagic     Category = "magic"
	CategoryMenu      Category = "menu"
	CategoryPuzzle    Category = "puzzle"
	CategoryEmoji     Category = "emoji"
	CategoryDefault   Category = "default"
)

const defaultChoiceNote = 150 * time.Millisecond

// Rule maps matching choice labels to a melody.
type Rule struct {
	Name         string
	Category     Category
	Melody       []float64
	NoteDuration time.Duration

	words   []string
	phrases []string
}

// Matches reports whether the label selects this rule. Matching is
// case-insensitive: words match whole tokens, phrases match substrings.
func (r Rule) Matches(label string) bool {
	return r.matches(newLabel(label))
}

func (r Rule) matches(l label) bool {
	for _, w := range r.words {
		if l.words[w] {
			return true
		}
	}
	for _, p := range r.phrases {
		if strings.Contains(l.folded, p) {
			return true
		}
	}
	return false
}

type label struct {
	folded string
	words  map[string]bool
}

func newLabel(text string) label {
	folded := cases.Fold().String(text)
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	}) {
		words[w] = true
	}
	return label{folded: folded, words: words}
}

// DefaultChoiceRule applies when no rule matches.
var DefaultChoiceRule = Rule{
	Name:         "default",
	Category:     CategoryDefault,
	Melody:       []float64{G4, C5},
	NoteDuration: defaultChoiceNote,
}

var retryMelody = []float64{E4, G4, E4}

var choiceRules = []Rule{
	{
		Name: "move", Category: CategoryMovement,
		Melody: []float64{E4, G4, A4}, NoteDuration: 140 * time.Millisecond,
		words: []string{"go", "walk", "run", "climb", "swim", "explore", "follow", "enter", "jump", "fly", "hop", "cross", "sneak", "wander", "travel"},
	},
	{
		Name: "direction", Category: CategoryDirection,
		Melody: []float64{G4, A4, G4}, NoteDuration: 140 * time.Millisecond,
		words: []string{"left", "right", "up", "down", "north", "south", "east", "west", "forward", "ahead", "inside", "outside"},
	},
	{
		Name: "action", Category: CategoryAction,
		Melody: []float64{C5, D5}, NoteDuration: 120 * time.Millisecond,
		words: []string{"open", "take", "grab", "pick", "look", "search", "use", "start", "push", "pull", "dig", "build", "play", "eat", "drink", "rest", "listen", "read", "check"},
	},
	{
		Name: "happy", Category: CategoryEmotion,
		Melody: []float64{C5, E5, G5}, NoteDuration: defaultChoiceNote,
		words: []string{"happy", "yay", "love", "hug", "smile", "laugh", "celebrate", "dance", "cheer", "fun"},
	},
	{
		Name: "sad", Category: CategoryEmotion,
		Melody: []float64{G4, F4, D4}, NoteDuration: 180 * time.Millisecond,
		words: []string{"sad", "scared", "afraid", "cry", "sorry", "worried", "lonely"},
	},
	{
		Name: "social", Category: CategorySocial,
		Melody: []float64{A4, CS5, E5}, NoteDuration: defaultChoiceNote,
		words: []string{"friend", "friends", "friendship", "together", "talk", "ask", "say", "hello", "meet", "share", "join", "help", "thank"},
	},
	{
		Name: "magic", Category: CategoryMagic,
		Melody: []float64{E5, GS5, B5}, NoteDuration: 180 * time.Millisecond,
		words: []string{"magic", "magical", "sparkle", "sparkly", "wish", "portal", "rainbow", "star", "stars", "glow", "spell", "wonder", "fairy"},
	},
	{
		Name: "home", Category: CategoryMenu,
		Melody: []float64{C5, G4, C4}, NoteDuration: 220 * time.Millisecond,
		words:   []string{"home"},
		phrases: []string{"main menu", "🏠"},
	},
	{
		Name: "back", Category: CategoryMenu,
		Melody: []float64{A4, F4}, NoteDuration: 220 * time.Millisecond,
		words:   []string{"back", "return", "previous", "menu"},
		phrases: []string{"🔙"},
	},
	{
		Name: "retry", Category: CategoryPuzzle,
		Melody: retryMelody, NoteDuration: 160 * time.Millisecond,
		words:   []string{"retry"},
		phrases: []string{"try again"},
	},
	{
		Name: "hint", Category: CategoryPuzzle,
		Melody: []float64{D5, E5, D5}, NoteDuration: 160 * time.Millisecond,
		words:   []string{"hint", "think", "clue"},
		phrases: []string{"🤔"},
	},
	{
		Name: "continue", Category: CategoryPuzzle,
		Melody: []float64{G4, C5, E5}, NoteDuration: 160 * time.Millisecond,
		words: []string{"continue", "next", "ready", "finish"},
	},
	{
		Name: "emoji-retry", Category: CategoryEmoji,
		Melody: retryMelody, NoteDuration: 160 * time.Millisecond,
		phrases: []string{"🔄"},
	},
	{
		Name: "emoji-celebrate", Category: CategoryEmoji,
		Melody: []float64{C5, E5, G5, C6}, NoteDuration: 120 * time.Millisecond,
		phrases: []string{"🎉", "🥳", "⭐", "🌟"},
	},
	{
		Name: "emoji-wonder", Category: CategoryEmoji,
		Melody: []float64{E5, GS5, B5}, NoteDuration: 180 * time.Millisecond,
		phrases: []string{"✨", "🌈", "🌀", "💫"},
	},
	{
		Name: "emoji-learn", Category: CategoryEmoji,
		Melody: []float64{D5, FS5, A5}, NoteDuration: defaultChoiceNote,
		phrases: []string{"📚", "❓", "📖"},
	},
	{
		Name: "emoji-gift", Category: CategoryEmoji,
		Melody: []float64{G5, E5, C6}, NoteDuration: defaultChoiceNote,
		phrases: []string{"🎁", "💎", "👑"},
	},
	{
		Name: "emoji-animal", Category: CategoryEmoji,
		Melody: []float64{CS4, FS4, A4}, NoteDuration: defaultChoiceNote,
		phrases: []string{"🦉", "🐱", "🐺", "🐢", "🐭", "🐰", "🦊"},
	},
}

// ChoiceRules returns the ordered rule list used by MatchChoice.
func ChoiceRules() []Rule {
	rules := make([]Rule, len(choiceRules))
	for i, r := range choiceRules {
		r.Melody = clone(r.Melody)
		rules[i] = r
	}
	return rules
}

// MatchChoice returns the first rule matching the label, or
// DefaultChoiceRule when none does.
func MatchChoice(text string) Rule {
	l := newLabel(text)
	match := DefaultChoiceRule
	for _, r := range choiceRules {
		if r.matches(l) {
			match = r
			break
		}
	}
	match.Melody = clone(match.Melody)
	return match
}

// ChoiceMelody returns the melody for a choice label. The result is a fresh
// slice.
func ChoiceMelody(text string) []float64 {
	return MatchChoice(text).Melody
}
