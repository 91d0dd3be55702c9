package randstr

import "math/rand"

type generator struct {
	letters []byte
}

func New(letters []byte) *generator {
	return &generator{letters: letters}
}

func (g *generator) GenerateRandomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = g.letters[rand.Intn(len(g.letters))]
	}

	return string(b)
}
