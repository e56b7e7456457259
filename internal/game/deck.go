package game

import (
	"math/rand"

	"richman_server/internal/board"
)

// CardOracle pre-assigns cards to dice totals. When it names a card still
// in the deck, that card is drawn instead of the top one.
type CardOracle interface {
	CardFor(deck board.DeckType, diceTotal int) (cardID string, ok bool)
}

type deck struct {
	kind  board.DeckType
	cards []board.Card
	rng   *rand.Rand
}

func newDeck(kind board.DeckType, rng *rand.Rand) *deck {
	d := &deck{kind: kind, rng: rng}
	d.reshuffle()
	return d
}

func (d *deck) reshuffle() {
	d.cards = board.Deck(d.kind)
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// draw takes the preferred card if present, otherwise the top card.
// An exhausted deck is reshuffled first.
func (d *deck) draw(preferred string) board.Card {
	if len(d.cards) == 0 {
		d.reshuffle()
	}
	idx := 0
	if preferred != "" {
		for i, c := range d.cards {
			if c.ID == preferred {
				idx = i
				break
			}
		}
	}
	c := d.cards[idx]
	d.cards = append(d.cards[:idx], d.cards[idx+1:]...)
	return c
}

func (d *deck) remaining() int { return len(d.cards) }

func (e *Engine) drawCard(kind board.DeckType, diceTotal int) board.Card {
	d := e.decks[kind]
	preferred := ""
	if e.oracle != nil {
		if id, found := e.oracle.CardFor(kind, diceTotal); found {
			preferred = id
		}
	}
	return d.draw(preferred)
}
