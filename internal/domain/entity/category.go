package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Category groups tasks. Names are unique; tasks reference a category optionally.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description *string
	CreatedAt   time.Time

	// TaskCount is filled only by reads that ask for it.
	TaskCount int64
}

// Seeded categories present in every database.
var (
	PersonalCategoryID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	WorkCategoryID     = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

// NormalizeCategoryName is the case-folded key that makes category names unique regardless of case.
func NormalizeCategoryName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
