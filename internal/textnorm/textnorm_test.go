package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Japan", "japan"},
		{"  Viet   Nam ", "viet nam"},
		{"Côte d'Ivoire", "cote divoire"},
		{"CÔTE D’IVOIRE", "cote divoire"},
		{"Korea, Republic of", "korea republic of"},
		{"Guinea-Bissau", "guinea bissau"},
		{"St. Christopher Navis", "st christopher navis"},
		{"Åland Islands", "aland islands"},
		{"Türkiye", "turkiye"},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestTokens(t *testing.T) {
	assert.Nil(t, Tokens(""))
	assert.Equal(t, []string{"korea", "republic", "of"}, Tokens(Fold("Korea, Republic of")))
}
