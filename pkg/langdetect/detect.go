// Package langdetect guesses the language of fenced code block content.
// It is used to spot math that was fenced as code instead of delimited,
// and leans on go-enry for anything the cheap checks cannot settle.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Fence tags returned by Detect.
const (
	LangTeX  = "tex"
	LangText = "text"
	langBash = "bash"
	langGo   = "go"
)

// minTeXCommands is how many distinct control words make content TeX
// without asking the classifier.
const minTeXCommands = 2

// texCandidates are the languages the classifier chooses between when the
// control word count alone is inconclusive.
//
//nolint:gochecknoglobals // Read-only lookup table.
var texCandidates = []string{"TeX", "Markdown", "Text", "Shell", "Python"}

// Detect returns a fence tag for content, or "text" when nothing fits.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return LangText
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	// Go source is full of \n and \t escapes that read as control words.
	if bytes.HasPrefix(bytes.TrimSpace(content), []byte("package ")) {
		return langGo
	}

	if IsTeX(content) {
		return LangTeX
	}

	return LangText
}

// IsTeX reports whether content looks like TeX math markup.
func IsTeX(content []byte) bool {
	commands := controlWords(content)
	switch {
	case len(commands) >= minTeXCommands:
		return true
	case len(commands) == 0:
		return false
	}

	if bytes.HasPrefix(bytes.TrimSpace(content), []byte("#!")) {
		return false
	}

	lang, _ := enry.GetLanguageByClassifier(content, texCandidates)
	return lang == "TeX"
}

// controlWords returns the distinct \name sequences in content.
func controlWords(content []byte) map[string]struct{} {
	words := make(map[string]struct{})
	for i := 0; i < len(content); i++ {
		if content[i] != '\\' {
			continue
		}
		j := i + 1
		for j < len(content) && isLetter(content[j]) {
			j++
		}
		if j > i+1 {
			words[string(content[i+1:j])] = struct{}{}
		}
		i = j - 1
	}
	return words
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return langBash
	}
	return strings.ToLower(lang)
}
