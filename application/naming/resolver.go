// Package naming expands filename templates against per-file metadata and
// sanitizes the result for the most restrictive supported filesystem.
package naming

import (
	"strings"

	"github.com/darcovia/music-forge/domain/model"
)

// Placeholder tokens recognized in a naming pattern. Tokens do not nest or
// overlap; unknown bracketed text passes through as literal (then lowercased
// and sanitized like the rest of the pattern).
const (
	TokenArtist   = "[artist]"
	TokenAlbum    = "[album]"
	TokenTitle    = "[title]"
	TokenFilename = "[filename]"
)

// DefaultPattern reproduces the classic behavior of naming outputs after the
// source file.
const DefaultPattern = TokenFilename

// Fallbacks for unset tags.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// illegalChars are the characters rejected by the most restrictive supported
// filesystem (Windows). Each is replaced with '_'.
const illegalChars = `\/*?:"<>|`

// Resolve expands pattern against tags into a sanitized base filename
// (no extension). The whole pattern is lowercased before substitution, so
// literal text and tokens match case-insensitively and the output is always
// lowercase. An empty or whitespace-only result falls back to the sanitized
// source stem so an output name always exists.
func Resolve(pattern string, tags model.Tags, fallbackStem string) string {
	if pattern == "" {
		pattern = DefaultPattern
	}
	s := strings.ToLower(pattern)

	title := tags.Get(model.TagTitle)
	if title == "" {
		title = fallbackStem
	}
	artist := tags.Get(model.TagArtist)
	if artist == "" {
		artist = UnknownArtist
	}
	album := tags.Get(model.TagAlbum)
	if album == "" {
		album = UnknownAlbum
	}

	r := strings.NewReplacer(
		TokenArtist, strings.ToLower(artist),
		TokenAlbum, strings.ToLower(album),
		TokenTitle, strings.ToLower(title),
		TokenFilename, strings.ToLower(fallbackStem),
	)
	s = Sanitize(r.Replace(s))

	if strings.TrimSpace(s) == "" {
		return Sanitize(strings.ToLower(fallbackStem))
	}
	return s
}

// Sanitize replaces each character illegal on the most restrictive supported
// filesystem with '_'.
func Sanitize(name string) string {
	return strings.Map(func(c rune) rune {
		if strings.ContainsRune(illegalChars, c) {
			return '_'
		}
		return c
	}, name)
}
