package config

import (
	"errors"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	ferrors "git.home.luguber.info/inful/faqindex/internal/foundation/errors"
)

// Validate checks field values and cross-field constraints.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Version, validation.Required, validation.In(CurrentVersion).Error("unsupported configuration version")),
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Index, validation.Required, validation.By(relativePath)),
		validation.Field(&c.QuestionsDir, validation.Required, validation.By(relativePath)),
		validation.Field(&c.Locale, validation.Required, validation.By(singleSegment)),
		validation.Field(&c.Extension, validation.Required, validation.By(extension)),
		validation.Field(&c.SummaryHeading, validation.Required),
		validation.Field(&c.TOCAnchor, validation.Required, validation.By(anchor)),
		validation.Field(&c.TOCHeader, validation.Required),
		validation.Field(&c.Promo, validation.Required, validation.By(promoTemplate)),
		validation.Field(&c.Logging),
		validation.Field(&c.Watch),
	)
	if err != nil {
		b := ferrors.WrapError(err, ferrors.CategoryValidation, "invalid configuration")
		if c.source != "" {
			b = b.WithPath(c.source)
		}
		return b.Build()
	}
	return nil
}

// Validate implements validation.Validatable.
func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)),
		validation.Field(&l.Format, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// Validate implements validation.Validatable.
func (w WatchConfig) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Debounce, validation.Min(time.Duration(0)), validation.Max(time.Minute)),
	)
}

func relativePath(value any) error {
	p, _ := value.(string)
	if p == "" {
		return nil
	}
	if filepath.IsAbs(p) {
		return errors.New("must be relative to the root")
	}
	clean := filepath.ToSlash(filepath.Clean(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.New("must not leave the root")
	}
	return nil
}

func singleSegment(value any) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, `/\`) || s == "." || s == ".." {
		return errors.New("must be a single path segment")
	}
	return nil
}

func extension(value any) error {
	s, _ := value.(string)
	if s != "" && (!strings.HasPrefix(s, ".") || strings.ContainsAny(s, `/\`)) {
		return errors.New("must start with a dot")
	}
	return nil
}

func anchor(value any) error {
	s, _ := value.(string)
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			return errors.New("must contain only lowercase letters, digits and hyphens")
		}
	}
	return nil
}

func promoTemplate(value any) error {
	s, _ := value.(string)
	if _, err := template.New("promo").Parse(s); err != nil {
		return err
	}
	return nil
}
