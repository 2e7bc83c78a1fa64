package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/microblog/internal/common"
)

// Post is a short message owned by exactly one user.
type Post struct {
	ID        int64
	Body      string
	Timestamp time.Time
	Language  *string
	UserID    int64
}

// Validate rejects empty bodies and bodies or language tags over the
// column limits. Lengths are counted in runes.
func (p *Post) Validate() error {
	switch {
	case strings.TrimSpace(p.Body) == "":
		return fmt.Errorf("%w: post body is empty", common.ErrInvalidInput)
	case runeLen(p.Body) > common.MaxPostBodyLength:
		return fmt.Errorf("%w: post body longer than %d characters", common.ErrInvalidInput, common.MaxPostBodyLength)
	case p.Language != nil && runeLen(*p.Language) > common.MaxLanguageLength:
		return fmt.Errorf("%w: language longer than %d characters", common.ErrInvalidInput, common.MaxLanguageLength)
	}
	return nil
}

func (p *Post) String() string {
	return fmt.Sprintf("<Post %s>", p.Body)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
