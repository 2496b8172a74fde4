package views

import (
	"regexp"

	"spacetraveling/app/models"
)

// WordsPerMinute is the assumed reading speed.
const WordsPerMinute = 200

var wordPattern = regexp.MustCompile(`\w+`)

// CountWords counts maximal runs of ASCII letters, digits and underscores;
// accented letters split words whatever the configured locale.
// Text without such runs counts as zero words.
func CountWords(text string) int {
	return len(wordPattern.FindAllStringIndex(text, -1))
}

// SectionWords counts the words of a section heading and its body text. A
// section whose heading or body has no words contributes nothing.
func SectionWords(section models.Section) int {
	heading := CountWords(section.Heading)
	body := CountWords(section.Text())
	if heading == 0 || body == 0 {
		return 0
	}
	return heading + body
}

// ReadingTime estimates whole minutes to read content, rounded up.
func ReadingTime(content []models.Section) int {
	total := 0
	for _, section := range content {
		total += SectionWords(section)
	}
	return (total + WordsPerMinute - 1) / WordsPerMinute
}
