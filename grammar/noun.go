package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lunfardo314/sestring"
	"github.com/lunfardo314/sestring/expr"
	"github.com/lunfardo314/sestring/lazyslice"
)

// columns of a noun row
const (
	ColumnSingular        = 0
	ColumnAdjective       = 1
	ColumnPlural          = 2
	ColumnPossessive      = 3
	ColumnStartsWithVowel = 4
	ColumnGender          = 6
	ColumnArticle         = 7
)

// article type selected by the person field of a noun
const (
	ArticleIndefinite = 1
	ArticleDefinite   = 2
	ArticleZero       = 5
)

const (
	CaseNominative = iota
	CaseGenitive
	CaseDative
	CaseAccusative
)

const (
	GenderMasculine = iota
	GenderFeminine
	GenderNeuter
)

// noun is the data of one noun row, resolved for a particular amount
type noun struct {
	singular        string
	adjective       string
	plural          string
	startsWithVowel bool
	gender          int
	// proper nouns take no article
	noArticle bool
}

func (n *noun) form(amount uint32) string {
	ret := n.singular
	if amount != 1 && n.plural != "" {
		ret = n.plural
	}
	if n.adjective != "" {
		ret = n.adjective + " " + ret
	}
	return ret
}

// cellText resolves a cell with local parameter 1 bound to the amount. Nested data references are
// not followed from cells
func cellText(row *lazyslice.Array, column int, lang sestring.Language, amount uint32) (string, error) {
	s, err := sestring.FromBytes(row.At(column))
	if err != nil {
		return "", err
	}
	res, err := s.Resolve(sestring.NewContext(lang, expr.Number(amount)))
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

func cellFlag(txt string) int {
	n, err := strconv.Atoi(strings.TrimSpace(txt))
	if err != nil {
		return 0
	}
	return n
}

func (s *Store) readNoun(lang sestring.Language, sheet string, rowID, amount uint32) (*noun, error) {
	row, err := s.mustRow(lang, sheet, rowID)
	if err != nil {
		return nil, err
	}
	var cells [ColumnArticle + 1]string
	for i := range cells {
		if cells[i], err = cellText(row, i, lang, amount); err != nil {
			return nil, fmt.Errorf("%s/%s/%d column %d: %w", lang, sheet, rowID, i, err)
		}
	}
	return &noun{
		singular:        cells[ColumnSingular],
		adjective:       cells[ColumnAdjective],
		plural:          cells[ColumnPlural],
		startsWithVowel: cellFlag(cells[ColumnStartsWithVowel]) != 0,
		gender:          cellFlag(cells[ColumnGender]),
		noArticle:       cellFlag(cells[ColumnArticle]) != 0,
	}, nil
}

// ResolveNoun renders the noun with article, number and case of the language.
// extra has no effect on the text
func (s *Store) ResolveNoun(lang sestring.Language, sheet string, rowID, person, amount, grammaticalCase, _ uint32) (*sestring.SeString, error) {
	n, err := s.readNoun(lang, sheet, rowID, amount)
	if err != nil {
		return nil, err
	}
	article := uint32(ArticleZero)
	if !n.noArticle {
		article = person
	}
	var txt string
	switch lang {
	case sestring.English:
		txt = englishNoun(n, article, amount)
	case sestring.German:
		txt = germanNoun(n, article, amount, grammaticalCase)
	case sestring.French:
		txt = frenchNoun(n, article, amount)
	default:
		txt = n.form(amount)
	}
	return sestring.NewBuilder().Text(txt).Build(), nil
}

func englishNoun(n *noun, article, amount uint32) string {
	form := n.form(amount)
	switch article {
	case ArticleIndefinite:
		switch {
		case amount == 1 && n.startsWithVowel:
			return "an " + form
		case amount == 1:
			return "a " + form
		case amount > 1:
			return strconv.FormatUint(uint64(amount), 10) + " " + form
		}
	case ArticleDefinite:
		return "the " + form
	}
	return form
}

// German articles by gender (masculine, feminine, neuter, plural) and case
var (
	germanDefinite = [4][4]string{
		{"der", "des", "dem", "den"},
		{"die", "der", "der", "die"},
		{"das", "des", "dem", "das"},
		{"die", "der", "den", "die"},
	}
	germanIndefinite = [4][4]string{
		{"ein", "eines", "einem", "einen"},
		{"eine", "einer", "einer", "eine"},
		{"ein", "eines", "einem", "ein"},
	}
)

func germanNoun(n *noun, article, amount, grammaticalCase uint32) string {
	form := n.form(amount)
	if grammaticalCase > CaseAccusative {
		grammaticalCase = CaseNominative
	}
	g := n.gender
	if g < GenderMasculine || g > GenderNeuter {
		g = GenderMasculine
	}
	if amount != 1 {
		g = 3
	}
	switch article {
	case ArticleIndefinite:
		if amount != 1 {
			return strconv.FormatUint(uint64(amount), 10) + " " + form
		}
		return germanIndefinite[g][grammaticalCase] + " " + form
	case ArticleDefinite:
		return germanDefinite[g][grammaticalCase] + " " + form
	}
	return form
}

func frenchNoun(n *noun, article, amount uint32) string {
	form := n.form(amount)
	feminine := n.gender == GenderFeminine
	switch article {
	case ArticleIndefinite:
		switch {
		case amount != 1:
			return "des " + form
		case feminine:
			return "une " + form
		}
		return "un " + form
	case ArticleDefinite:
		switch {
		case amount != 1:
			return "les " + form
		case n.startsWithVowel:
			return "l'" + form
		case feminine:
			return "la " + form
		}
		return "le " + form
	}
	return form
}
