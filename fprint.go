// Package fprint turns fingerprint images into minutiae templates and
// scores template pairs, following the MINDTCT detection pipeline and a
// rotation-consensus point pattern matcher. The heavy lifting lives in the
// extractor and matcher packages; this package wires them to images,
// templates and the transparency logger.
package fprint

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/iafilatov/libfprint-sub001/config"
	"github.com/iafilatov/libfprint-sub001/extractor"
	"github.com/iafilatov/libfprint-sub001/matcher"
	"github.com/iafilatov/libfprint-sub001/templates"
	"github.com/iafilatov/libfprint-sub001/transparency"
)

// NewTransparencyLogger wraps a content inspector so pipeline internals can
// be captured. A nil inspector yields a logger that drops everything.
func NewTransparencyLogger(inspector transparency.ContentInspector) *transparency.Logger {
	return transparency.NewLogger(inspector)
}

// TemplateCreator extracts templates from images.
type TemplateCreator struct {
	logger *transparency.Logger
}

func NewTemplateCreator(logger *transparency.Logger) *TemplateCreator {
	return &TemplateCreator{logger: logger}
}

// Extract runs the detection pipeline and returns both the raw extraction
// result, with its block maps and binarized raster, and the built template.
func (tc *TemplateCreator) Extract(img *Image) (*extractor.Result, *templates.Template, error) {
	if img == nil || len(img.Pixels) == 0 {
		return nil, nil, ErrEmptyImage
	}
	img = normalized(img)
	res, err := extractor.Extract(img.Pixels, img.Width, img.Height, tc.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract minutiae: %w", err)
	}
	return res, buildTemplate(res, img), nil
}

// Template extracts a template from the image.
func (tc *TemplateCreator) Template(img *Image) (*templates.Template, error) {
	_, t, err := tc.Extract(img)
	return t, err
}

func buildTemplate(res *extractor.Result, img *Image) *templates.Template {
	t := &templates.Template{
		Version:       templates.Version,
		Width:         img.Width,
		Height:        img.Height,
		PixPerMM:      img.PixPerMM,
		NumDirections: config.Get().NumDirections,
		Minutiae:      make([]templates.Minutia, 0, res.Minutiae.Len()),
	}
	for _, m := range res.Minutiae.Items() {
		typ := templates.TypeEnding
		if m.Type == extractor.Bifurcation {
			typ = templates.TypeBifurcation
		}
		t.Minutiae = append(t.Minutiae, templates.Minutia{
			X: m.X, Y: m.Y,
			Direction:   m.Direction,
			Type:        typ,
			Reliability: m.Reliability,
			Neighbors:   m.Neighbors,
			RidgeCounts: m.RidgeCounts,
		})
	}
	return t
}

// NewMatcher prepares a matcher for the probe template.
func NewMatcher(logger *transparency.Logger, probe *templates.Template) (*matcher.Matcher, error) {
	return matcher.NewMatcher(logger, probe)
}

// MatchScore extracts both images and scores them in one call.
func MatchScore(ctx context.Context, logger *transparency.Logger, probe, candidate *Image) (int, error) {
	tc := NewTemplateCreator(logger)
	probeTpl, err := tc.Template(probe)
	if err != nil {
		return 0, fmt.Errorf("failed to create probe template: %w", err)
	}
	candTpl, err := tc.Template(candidate)
	if err != nil {
		return 0, fmt.Errorf("failed to create candidate template: %w", err)
	}
	m, err := NewMatcher(logger, probeTpl)
	if err != nil {
		return 0, err
	}
	return m.Match(ctx, candTpl), nil
}

// Identify scores the probe against every candidate template, fanning the
// comparisons out over the configured number of workers. The returned
// slice is parallel to candidates.
func Identify(ctx context.Context, logger *transparency.Logger, probe *templates.Template, candidates []*templates.Template) ([]int, error) {
	m, err := NewMatcher(logger, probe)
	if err != nil {
		return nil, err
	}
	scores := make([]int, len(candidates))
	g, ctx := errgroup.WithContext(ctx)
	if w := config.Get().Workers; w > 0 {
		g.SetLimit(w)
	}
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			scores[i] = m.Match(ctx, c)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
