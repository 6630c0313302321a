package whatsapp

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderMessage(t *testing.T) {
	b := NewLinkBuilder("584246322487")

	msg := b.OrderMessage([]Line{
		{Name: "Café Grande", Quantity: 2, UnitPrice: 19.99},
		{Name: "Galleta", Quantity: 1, UnitPrice: 5.00},
	}, 44.98)

	assert.Equal(t, "¡Hola! Quisiera realizar este pedido:\n\n"+
		"- 2x Café Grande ($19.99 c/u)\n"+
		"- 1x Galleta ($5.00 c/u)\n\n"+
		"*Total a pagar: $44.98*", msg)
}

func TestOrderLink(t *testing.T) {
	b := NewLinkBuilder("584246322487")

	link := b.OrderLink([]Line{{Name: "Café", Quantity: 1, UnitPrice: 3.50}}, 3.50)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "api.whatsapp.com", parsed.Host)
	assert.Equal(t, "/send", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, "584246322487", query.Get("phone"))
	assert.Contains(t, query.Get("text"), "- 1x Café ($3.50 c/u)")
	assert.Contains(t, query.Get("text"), "*Total a pagar: $3.50*")
}
