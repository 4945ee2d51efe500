package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStylize_RespectsDisable(t *testing.T) {
	prev := Enabled()
	t.Cleanup(func() { SetEnabled(prev) })

	SetEnabled(false)
	assert.Equal(t, "ok", Stylize("ok", Green))
	assert.Equal(t, `{"a":1}`, HighlightJSON(`{"a":1}`))
	assert.Equal(t, "abc", Gradient("abc", BrandBlue, BrandPurple))

	SetEnabled(true)
	assert.Equal(t, Green+"ok"+ResetCode, Stylize("ok", Green))
	assert.Contains(t, HighlightJSON(`{"a":true}`), Yellow+"true"+ResetCode)
}

func TestPrettyFormat_Struct(t *testing.T) {
	prev := Enabled()
	t.Cleanup(func() { SetEnabled(prev) })
	SetEnabled(false)

	out := PrettyFormat(struct {
		Translation string `json:"translation"`
	}{Translation: "こんにちは"})
	assert.Equal(t, "{\n  \"translation\": \"こんにちは\"\n}", out)
}
