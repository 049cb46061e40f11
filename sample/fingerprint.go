package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	fprint "github.com/iafilatov/libfprint-sub001"
	"github.com/iafilatov/libfprint-sub001/templates"
)

// Scores at or above this count as a positive match.
const matchThreshold = 40

type TransparencyContents struct {
}

func (c *TransparencyContents) Accepts(key string) bool {
	return true
}

func (c *TransparencyContents) Accept(key, mime string, data []byte) error {
	return nil
}

type server struct {
	gallery *Gallery
}

func (s *server) matchFingerprints(c *fiber.Ctx) error {
	start := time.Now()

	var req MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.ProbeImage == "" || req.CandidateImage == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Both probe_image and candidate_image are required")
	}

	probe, err := decodeBase64Image(req.ProbeImage)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Failed to decode probe image: "+err.Error())
	}
	candidate, err := decodeBase64Image(req.CandidateImage)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Failed to decode candidate image: "+err.Error())
	}

	l := fprint.NewTransparencyLogger(new(TransparencyContents))
	score, err := fprint.MatchScore(c.Context(), l, probe, candidate)
	if err != nil {
		return fmt.Errorf("failed to compare fingerprints: %w", err)
	}
	log.Println("Fingerprint comparison score:", score)

	return c.JSON(MatchResponse{
		Score:   score,
		Match:   score >= matchThreshold,
		Elapsed: time.Since(start).String(),
	})
}

func (s *server) enrollFingerprint(c *fiber.Ctx) error {
	var req EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.Subject == "" || req.Image == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Both subject and image are required")
	}

	img, err := decodeBase64Image(req.Image)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Failed to decode image: "+err.Error())
	}

	l := fprint.NewTransparencyLogger(new(TransparencyContents))
	tc := fprint.NewTemplateCreator(l)
	tpl, err := tc.Template(img)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	blob, err := templates.Marshal(tpl)
	if err != nil {
		return fmt.Errorf("failed to serialize template: %w", err)
	}
	id, err := s.gallery.Enroll(req.Subject, blob)
	if err != nil {
		return fmt.Errorf("failed to enroll fingerprint: %w", err)
	}
	log.Printf("Enrolled %q as #%d with %d minutiae", req.Subject, id, len(tpl.Minutiae))

	return c.JSON(EnrollResponse{
		ID:       id,
		Subject:  req.Subject,
		Minutiae: len(tpl.Minutiae),
	})
}

func (s *server) identifyFingerprint(c *fiber.Ctx) error {
	start := time.Now()

	var req IdentifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.Image == "" {
		return fiber.NewError(fiber.StatusBadRequest, "image is required")
	}

	img, err := decodeBase64Image(req.Image)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Failed to decode image: "+err.Error())
	}

	l := fprint.NewTransparencyLogger(new(TransparencyContents))
	tc := fprint.NewTemplateCreator(l)
	probe, err := tc.Template(img)
	if err != nil {
		return fmt.Errorf("failed to create probe template: %w", err)
	}

	entries, err := s.gallery.All()
	if err != nil {
		return fmt.Errorf("failed to load gallery: %w", err)
	}
	candidates := make([]*templates.Template, len(entries))
	for i := range entries {
		candidates[i] = entries[i].Template
	}
	scores, err := fprint.Identify(c.Context(), l, probe, candidates)
	if err != nil {
		return fmt.Errorf("failed to identify fingerprint: %w", err)
	}

	resp := IdentifyResponse{Elapsed: time.Since(start).String()}
	best := -1
	for i, score := range scores {
		resp.Scores = append(resp.Scores, SubjectScore{
			ID:      entries[i].ID,
			Subject: entries[i].Subject,
			Score:   score,
		})
		if best < 0 || score > scores[best] {
			best = i
		}
	}
	if best >= 0 && scores[best] >= matchThreshold {
		resp.Matched = true
		resp.BestSubject = entries[best].Subject
		resp.BestScore = scores[best]
	}
	log.Printf("Identified against %d candidates in %s", len(entries), resp.Elapsed)

	return c.JSON(resp)
}
