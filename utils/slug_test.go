package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Lagos Tech Fest 2026", "lagos-tech-fest-2026"},
		{"  Afrobeats Night!!  ", "afrobeats-night"},
		{"Déjà Vu Party", "d-j-vu-party"},
		{"---", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.title))
	}
}
