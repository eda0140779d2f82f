package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_DefaultPage(t *testing.T) {
	cases := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{"vacío", PageRequest{}, PageRequest{Limit: DefaultPageLimit}},
		{"negativos", PageRequest{Limit: -5, Offset: -1}, PageRequest{Limit: DefaultPageLimit}},
		{"sobre el máximo", PageRequest{Limit: 500, Offset: 40}, PageRequest{Limit: MaxPageLimit, Offset: 40}},
		{"válido", PageRequest{Limit: 10, Offset: 3}, PageRequest{Limit: 10, Offset: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.in
			p.DefaultPage()
			assert.Equal(t, tc.want, p)
		})
	}
}
