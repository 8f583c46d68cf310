package domain_test

import (
	"testing"

	"github.com/droverbuild/drover/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestInternedString(t *testing.T) {
	a := domain.NewInternedString("libp3dtool.so")
	b := domain.NewInternedString("libp3dtool.so")

	assert.Equal(t, a, b)
	assert.Equal(t, "libp3dtool.so", a.String())

	var zero domain.InternedString
	assert.Equal(t, "", zero.String())
}

func TestInternedString_TextRoundTrip(t *testing.T) {
	a := domain.NewInternedString("build/out.o")

	text, err := a.MarshalText()
	assert.NoError(t, err)

	var back domain.InternedString
	assert.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, a, back)
}
