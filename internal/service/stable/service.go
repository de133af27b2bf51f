package stable

import (
	"context"
	"strconv"
	"strings"

	"github.com/stablemate/stablemate/internal/app"
	"github.com/stablemate/stablemate/internal/db"
	svcErr "github.com/stablemate/stablemate/internal/errors"
	"github.com/stablemate/stablemate/internal/repository"
)

const maxHorseAge = 62

// Service is the profile registry: CRUD over horses, always scoped to
// the authenticated owner at this boundary rather than trusting a
// client-supplied filter.
type Service struct {
	appCtx *app.AppContext
	horses *repository.HorseRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		horses: repository.NewHorseRepository(appCtx.DB),
	}
}

// HorseInput is the form payload for creating or editing a horse. Age
// arrives as text and personality as a comma-separated list, matching
// the profile form.
type HorseInput struct {
	Name        string `json:"name"`
	Breed       string `json:"breed"`
	Age         string `json:"age"`
	Color       string `json:"color"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Location    string `json:"location"`
	Personality string `json:"personality"`
}

func (in HorseInput) validate() (age int, tags db.StringList, err error) {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return 0, nil, svcErr.InvalidArgument("name is required")
	case strings.TrimSpace(in.Breed) == "":
		return 0, nil, svcErr.InvalidArgument("breed is required")
	case strings.TrimSpace(in.Color) == "":
		return 0, nil, svcErr.InvalidArgument("color is required")
	case strings.TrimSpace(in.Location) == "":
		return 0, nil, svcErr.InvalidArgument("location is required")
	}

	age, err = strconv.Atoi(strings.TrimSpace(in.Age))
	if err != nil {
		return 0, nil, svcErr.InvalidArgument("age must be a number")
	}
	if age < 0 || age > maxHorseAge {
		return 0, nil, svcErr.InvalidArgument("age must be between 0 and %d", maxHorseAge)
	}

	return age, ParsePersonality(in.Personality), nil
}

// ParsePersonality splits a comma-separated trait list into trimmed
// tags, dropping empty entries.
func ParsePersonality(raw string) db.StringList {
	tags := db.StringList{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ListMine returns the caller's own horses.
func (s *Service) ListMine(ctx context.Context, ownerID uint64) ([]db.Horse, error) {
	return s.horses.ListByOwner(ctx, ownerID)
}

// Create adds a horse to the caller's stable.
func (s *Service) Create(ctx context.Context, ownerID uint64, in HorseInput) (*db.Horse, error) {
	age, tags, err := in.validate()
	if err != nil {
		return nil, err
	}

	horse := &db.Horse{
		Name:        strings.TrimSpace(in.Name),
		Breed:       strings.TrimSpace(in.Breed),
		Age:         age,
		Color:       strings.TrimSpace(in.Color),
		Description: in.Description,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Location:    strings.TrimSpace(in.Location),
		Personality: tags,
		OwnerID:     ownerID,
	}
	if err := s.horses.Create(ctx, horse); err != nil {
		return nil, err
	}

	s.appCtx.Logger.Info("horse created", "horse_id", horse.ID, "owner_id", ownerID)
	return horse, nil
}

// Update edits a horse the caller owns. Ownership is re-checked here;
// a well-formed request against someone else's horse is ErrForbidden.
func (s *Service) Update(ctx context.Context, ownerID uint64, horseID string, in HorseInput) (*db.Horse, error) {
	age, tags, err := in.validate()
	if err != nil {
		return nil, err
	}

	horse, err := s.ownedHorse(ctx, ownerID, horseID)
	if err != nil {
		return nil, err
	}

	horse.Name = strings.TrimSpace(in.Name)
	horse.Breed = strings.TrimSpace(in.Breed)
	horse.Age = age
	horse.Color = strings.TrimSpace(in.Color)
	horse.Description = in.Description
	horse.ImageURL = strings.TrimSpace(in.ImageURL)
	horse.Location = strings.TrimSpace(in.Location)
	horse.Personality = tags

	if err := s.horses.Update(ctx, horse); err != nil {
		return nil, err
	}
	return horse, nil
}

// Delete removes a horse the caller owns.
func (s *Service) Delete(ctx context.Context, ownerID uint64, horseID string) error {
	if _, err := s.ownedHorse(ctx, ownerID, horseID); err != nil {
		return err
	}
	if err := s.horses.Delete(ctx, horseID); err != nil {
		return err
	}
	s.appCtx.Logger.Info("horse deleted", "horse_id", horseID, "owner_id", ownerID)
	return nil
}

func (s *Service) ownedHorse(ctx context.Context, ownerID uint64, horseID string) (*db.Horse, error) {
	horse, err := s.horses.GetByID(ctx, horseID)
	if err != nil {
		return nil, err
	}
	if horse.OwnerID != ownerID {
		return nil, svcErr.ErrForbidden
	}
	return horse, nil
}
