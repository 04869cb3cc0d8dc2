// Package transfer parses and formats the memo payers type into a bank transfer.
//
// Two schemes coexist: the current one embeds an opaque deposit code
// ("NAPTIEN AB12CD34EF"), the legacy one embeds the raw user id
// ("NAPTIEN user_id_7", "NAPTIENuserid7"). Both stay parseable because
// pending deposits created under the legacy scheme may still be paid.
package transfer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const DefaultPrefix = "NAPTIEN"

type Kind int

const (
	KindUnrecognized Kind = iota
	KindDepositCode
	KindLegacyUserID
)

func (k Kind) String() string {
	switch k {
	case KindDepositCode:
		return "deposit_code"
	case KindLegacyUserID:
		return "legacy_user_id"
	default:
		return "unrecognized"
	}
}

// Content is the parse result. At most one of DepositCode and LegacyUserID is set,
// as indicated by Kind.
type Content struct {
	Kind         Kind
	DepositCode  string
	LegacyUserID int64
}

var (
	// A spaced code is only ever a legacy memo in its user_id_<N> spelling.
	spacedLegacyRe = regexp.MustCompile(`(?i)^user_id_\d+$`)
	legacyCodeRe   = regexp.MustCompile(`(?i)^(user_id_|userid)\d+$`)
)

type Parser struct {
	prefix      string
	spacedCode  *regexp.Regexp
	compactCode *regexp.Regexp
	legacy      []*regexp.Regexp
}

func NewParser(prefix string) *Parser {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	p := regexp.QuoteMeta(prefix)
	return &Parser{
		prefix:      prefix,
		spacedCode:  regexp.MustCompile(`(?i)^` + p + `\s+([A-Z0-9_]+)`),
		compactCode: regexp.MustCompile(`(?i)^` + p + `([A-Z0-9]{6,20})(?:\s|$)`),
		legacy: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^` + p + `userid(\d+)`),
			regexp.MustCompile(`(?i)^` + p + `user_id_(\d+)`),
			regexp.MustCompile(`(?i)^` + p + `\s+user_id_(\d+)`),
		},
	}
}

func (p *Parser) Prefix() string { return p.prefix }

func (p *Parser) Parse(content string) Content {
	content = strings.TrimSpace(content)
	if content == "" {
		return Content{}
	}

	if m := p.spacedCode.FindStringSubmatch(content); m != nil && !spacedLegacyRe.MatchString(m[1]) {
		return Content{Kind: KindDepositCode, DepositCode: strings.ToUpper(m[1])}
	}

	if m := p.compactCode.FindStringSubmatch(content); m != nil && !legacyCodeRe.MatchString(m[1]) {
		return Content{Kind: KindDepositCode, DepositCode: strings.ToUpper(m[1])}
	}

	for _, re := range p.legacy {
		m := re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		return Content{Kind: KindLegacyUserID, LegacyUserID: id}
	}

	return Content{}
}

// Format returns the memo a payer must type for depositCode.
func (p *Parser) Format(depositCode string) string {
	return fmt.Sprintf("%s %s", p.prefix, strings.ToUpper(depositCode))
}

// FormatLegacy returns the pre-deposit-code memo for userID.
func (p *Parser) FormatLegacy(userID int64) string {
	return fmt.Sprintf("%s user_id_%d", p.prefix, userID)
}
