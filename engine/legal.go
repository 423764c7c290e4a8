package engine

// IsLegal reports whether card may be played on inPlay: same suit, same rank
// (a wildcard has no rank), or an always-wild queen, jack or ace.
func IsLegal(card Card, inPlay CurrentCard) bool {
	if AlwaysWild(card) {
		return true
	}
	if card.Suit() == inPlay.Suit() {
		return true
	}
	if r, ok := inPlay.Rank(); ok && r == card.Rank() {
		return true
	}
	return false
}

// IsLegalFor applies IsLegal plus the optional countdown-wild house rule: the
// numeric rank equal to the player's own countdown score is wild as well.
func IsLegalFor(card Card, inPlay CurrentCard, countdown int, rules HouseRules) bool {
	if IsLegal(card, inPlay) {
		return true
	}
	return rules.CountdownWild && countdown >= int(RankTwo) && countdown <= int(RankTen) &&
		card.Rank() == Rank(countdown)
}

// LegalCards filters hand down to the cards playable on inPlay, keeping hand order.
func LegalCards(hand []Card, inPlay CurrentCard) []Card {
	var out []Card
	for _, c := range hand {
		if IsLegal(c, inPlay) {
			out = append(out, c)
		}
	}
	return out
}

// LegalFor returns the playable cards for seat, honoring a pending drawn card
// and the house rules.
func (g *GameState) LegalFor(seat int) []Card {
	if seat < 0 || seat >= len(g.Seats) || g.Over {
		return nil
	}
	s := &g.Seats[seat]
	if g.Drawn != nil && seat == g.TurnIndex {
		if g.legalForSeat(*g.Drawn, s) {
			return []Card{*g.Drawn}
		}
		return nil
	}
	var out []Card
	for _, c := range s.Hand {
		if g.legalForSeat(c, s) {
			out = append(out, c)
		}
	}
	return out
}

func (g *GameState) legalForSeat(c Card, s *Seat) bool {
	return IsLegalFor(c, g.InPlay, s.Countdown, g.Rules)
}
