package admin

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"studio/internal/models"
)

// ServiceForm holds the raw text of the create-service form.
type ServiceForm struct {
	Title       string
	Description string
	PriceFrom   string
	DurationMin string
}

// PortfolioForm holds the create-portfolio form.
type PortfolioForm struct {
	Title       string
	ImageURL    string
	Style       string
	Description string
	Featured    bool
}

// BuildService coerces the form into the submitted payload. Empty numeric
// input becomes null, never zero.
func BuildService(form ServiceForm) (models.Service, error) {
	if strings.TrimSpace(form.Title) == "" {
		return models.Service{}, models.ValidationError(models.MsgServiceNoTitle)
	}
	price, err := ParseOptionalFloat(form.PriceFrom)
	if err != nil || (price != nil && *price < 0) {
		return models.Service{}, models.ValidationError(models.MsgServiceBadPrice)
	}
	duration, err := ParseOptionalInt(form.DurationMin)
	if err != nil || (duration != nil && *duration <= 0) {
		return models.Service{}, models.ValidationError(models.MsgServiceBadLength)
	}
	return models.Service{
		Title:       form.Title,
		Description: form.Description,
		PriceFrom:   price,
		DurationMin: duration,
		IsActive:    true,
	}, nil
}

// BuildPortfolioItem checks the required fields and builds the payload.
func BuildPortfolioItem(form PortfolioForm) (models.PortfolioItem, error) {
	if strings.TrimSpace(form.Title) == "" || strings.TrimSpace(form.ImageURL) == "" {
		return models.PortfolioItem{}, models.ValidationError(models.MsgWorkNoFields)
	}
	image := strings.TrimSpace(form.ImageURL)
	if _, err := url.Parse(image); err != nil || strings.ContainsAny(image, " \t\n") {
		return models.PortfolioItem{}, models.ValidationError(models.MsgWorkBadImage)
	}
	return models.PortfolioItem{
		Title:       form.Title,
		ImageURL:    image,
		Style:       form.Style,
		Description: form.Description,
		Featured:    form.Featured,
	}, nil
}

// ParseOptionalFloat maps "" to nil. A decimal comma with one or two digits
// after it is accepted; "1,000" is rejected rather than read as 1.
func ParseOptionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if i := strings.IndexByte(raw, ','); i >= 0 {
		frac := raw[i+1:]
		if strings.ContainsAny(frac, ",.") || len(frac) == 0 || len(frac) > 2 || strings.Contains(raw[:i], ".") {
			return nil, strconv.ErrSyntax
		}
		raw = raw[:i] + "." + frac
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, strconv.ErrSyntax
	}
	return &v, nil
}

// ParseOptionalInt maps "" to nil and accepts integral decimals like "150.0".
func ParseOptionalInt(raw string) (*int, error) {
	v, err := ParseOptionalFloat(raw)
	if err != nil || v == nil {
		return nil, err
	}
	if *v != math.Trunc(*v) || *v > math.MaxInt32 || *v < math.MinInt32 {
		return nil, strconv.ErrRange
	}
	n := int(*v)
	return &n, nil
}
