package app

import (
	"fmt"
	"math/rand"
)

// Token is a 32-lowercase-hex-character opaque bearer token.
type Token string

// PlayerTokens is a bijection between opaque tokens and player ids, built
// from two independent 64-bit RNG streams, mirroring the original's
// PlayerTokens::AddPlayer (two mt19937_64 generators, each formatted as a
// zero-padded 16-hex-character half of the final token).
type PlayerTokens struct {
	tokenToPlayer map[Token]int
	playerToToken map[int]Token

	rng1 *rand.Rand
	rng2 *rand.Rand
}

// NewPlayerTokens constructs an empty bijection. seed1 and seed2 must be
// independent of each other and of any session's RNG seed.
func NewPlayerTokens(seed1, seed2 int64) *PlayerTokens {
	return &PlayerTokens{
		tokenToPlayer: make(map[Token]int),
		playerToToken: make(map[int]Token),
		rng1:          rand.New(rand.NewSource(seed1)),
		rng2:          rand.New(rand.NewSource(seed2)),
	}
}

// generate draws one new 32-hex-character token from the two RNG streams.
func (t *PlayerTokens) generate() Token {
	a := t.rng1.Uint64()
	b := t.rng2.Uint64()
	return Token(fmt.Sprintf("%016x%016x", a, b))
}

// Add mints a fresh token, binds it to playerID, and returns it.
func (t *PlayerTokens) Add(playerID int) Token {
	token := t.generate()
	t.tokenToPlayer[token] = playerID
	t.playerToToken[playerID] = token
	return token
}

// Set installs an explicit token for a player (snapshot restoration path,
// where the token was already generated in a prior process).
func (t *PlayerTokens) Set(token Token, playerID int) {
	t.tokenToPlayer[token] = playerID
	t.playerToToken[playerID] = token
}

// Find looks up the player id bound to a token.
func (t *PlayerTokens) Find(token Token) (int, bool) {
	id, ok := t.tokenToPlayer[token]
	return id, ok
}

// TokenFor returns the token currently bound to a player, if any.
func (t *PlayerTokens) TokenFor(playerID int) (Token, bool) {
	tok, ok := t.playerToToken[playerID]
	return tok, ok
}

// Remove erases a player's token binding, wherever it is found.
func (t *PlayerTokens) Remove(playerID int) {
	tok, ok := t.playerToToken[playerID]
	if !ok {
		return
	}
	delete(t.playerToToken, playerID)
	delete(t.tokenToPlayer, tok)
}

// TokenPrefix and TokenBodyLength describe the wire-format Authorization
// header this token scheme expects: "Bearer " (7 bytes) + 32 hex chars.
const (
	TokenPrefix     = "Bearer "
	TokenBodyLength = 32
	TokenWireLength = len(TokenPrefix) + TokenBodyLength
)

// ParseAuthHeader validates and extracts the token body from a raw
// Authorization header value, requiring the exact 39-byte total length.
func ParseAuthHeader(header string) (Token, bool) {
	if len(header) != TokenWireLength {
		return "", false
	}
	if header[:len(TokenPrefix)] != TokenPrefix {
		return "", false
	}
	return Token(header[len(TokenPrefix):]), true
}
