package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/chinedu-ok/eventpass/models"
	"gorm.io/gorm"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// GenerateUniqueSlug appends a short random suffix when the base slug is
// already taken by another event.
func GenerateUniqueSlug(tx *gorm.DB, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "event"
	}

	slug := base
	for {
		var count int64
		if err := tx.Model(&models.Event{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}

		suffix, err := GenerateConfirmationCode()
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%s", base, strings.ToLower(suffix[:4]))
	}
}
