package slug_test

import (
	"testing"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/slug"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"The National", "the-national"},
		{"Valley Bar", "valley-bar"},
		{"Sunn O)))", "sunn-o"},
		{"  Built  to   Spill  ", "built-to-spill"},
		{"AC/DC", "acdc"},
		{"Godspeed You! Black Emperor", "godspeed-you-black-emperor"},
		{"--weird--input--", "weird-input"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, slug.Slugify(tc.in), "input %q", tc.in)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"The National", "Sunn O)))", "already-a-slug", "Mixed Case-Thing"}
	for _, in := range inputs {
		once := slug.Slugify(in)
		assert.Equal(t, once, slug.Slugify(once))
	}
}

func TestForShowHeadlinerVenue(t *testing.T) {
	got := slug.ForShow(nil, "The National", "Valley Bar", "2026-01-30", 0)
	assert.Equal(t, "the-national-at-valley-bar-2026-01-30", got)
}

func TestForShowTitleWins(t *testing.T) {
	title := "Noise Fest 2026"
	got := slug.ForShow(&title, "Some Band", "Valley Bar", "2026-01-30", 0)
	assert.Equal(t, "noise-fest-2026-2026-01-30", got)
}

func TestForShowEmptyTitleFallsThrough(t *testing.T) {
	title := "!!!"
	got := slug.ForShow(&title, "The National", "Valley Bar", "2026-01-30", 0)
	assert.Equal(t, "the-national-at-valley-bar-2026-01-30", got)
}

func TestShowBaseEmptyWhenNoText(t *testing.T) {
	assert.Equal(t, "", slug.ShowBase(nil, "", "Valley Bar", "2026-01-30"))
	assert.Equal(t, "", slug.ShowBase(nil, "!!!", "Valley Bar", "2026-01-30"))
	assert.Equal(t, "the-national-at-valley-bar-2026-01-30",
		slug.ShowBase(nil, "The National", "Valley Bar", "2026-01-30"))
}

func TestForShowIDFallback(t *testing.T) {
	got := slug.ForShow(nil, "", "Valley Bar", "2026-01-30", 42)
	assert.Equal(t, "42-2026-01-30", got)
}

func TestForShowDeterministic(t *testing.T) {
	a := slug.ForShow(nil, "The National", "Valley Bar", "2026-01-30", 0)
	b := slug.ForShow(nil, "The National", "Valley Bar", "2026-01-30", 0)
	assert.Equal(t, a, b)
}

func TestWithID(t *testing.T) {
	assert.Equal(t, "the-national-at-valley-bar-2026-01-30-7",
		slug.WithID("the-national-at-valley-bar-2026-01-30", 7))
}
