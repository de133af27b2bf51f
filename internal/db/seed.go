package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedBreeds = []string{"Arabian", "Mustang", "Thoroughbred", "Appaloosa", "Clydesdale", "Shetland Pony", "Friesian", "Andalusian"}
var seedColors = []string{"bay", "black", "chestnut", "grey", "palomino", "dapple"}
var seedTraits = []string{"gentle", "spirited", "curious", "stubborn", "playful", "calm", "bold"}

// SeedTestData resets the database and populates it with demo users,
// horses, decisions and the matches/messages the mutual likes imply.
//
// Behavior:
//  1. Clears all five tables.
//  2. Creates 10 users with bcrypt-hashed demo passwords, 2 horses each.
//  3. Generates decisions with ~70% likes; every 3rd pair is forced
//     mutual, and a match plus an opening message is created for it.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, table := range []string{"messages", "matches", "decisions", "horses", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name = 'users'")
	}

	log.Println("Cleared existing data")

	// --- Users and their horses ---
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var horses []Horse
	for i := 1; i <= 10; i++ {
		user := User{
			Username:     fmt.Sprintf("rider%d", i),
			Email:        fmt.Sprintf("rider%d@example.com", i),
			PasswordHash: string(hash),
			FullName:     fmt.Sprintf("Rider %d", i),
			Location:     "Demo Valley",
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		for j := 0; j < 2; j++ {
			horse := Horse{
				Name:        fmt.Sprintf("Horse %d-%d", i, j+1),
				Breed:       seedBreeds[r.Intn(len(seedBreeds))],
				Age:         2 + r.Intn(20),
				Color:       seedColors[r.Intn(len(seedColors))],
				Description: "Looking for a pasture partner.",
				Location:    "Demo Valley",
				Personality: StringList{seedTraits[r.Intn(len(seedTraits))], seedTraits[r.Intn(len(seedTraits))]},
				OwnerID:     user.ID,
			}
			if err := db.Create(&horse).Error; err != nil {
				return fmt.Errorf("failed to seed horse: %w", err)
			}
			horses = append(horses, horse)
		}
	}
	log.Printf("Seeded 10 users with %d horses.", len(horses))

	// --- Decisions, matches, messages ---
	counter := 0
	for _, actor := range horses {
		for j := 0; j < 4; j++ {
			target := horses[r.Intn(len(horses))]
			if target.OwnerID == actor.OwnerID {
				continue
			}

			liked := r.Intn(100) < 70

			upsert := clause.OnConflict{
				Columns:   []clause.Column{{Name: "actor_horse_id"}, {Name: "target_horse_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"liked", "updated_at"}),
			}

			// guarantee mutual likes every 3rd pair
			if counter%3 == 0 {
				liked = true
				recip := Decision{ActorHorseID: target.ID, TargetHorseID: actor.ID, Liked: true}
				if err := db.Clauses(upsert).Create(&recip).Error; err != nil {
					return fmt.Errorf("failed to seed reciprocal decision: %w", err)
				}
			}

			decision := Decision{ActorHorseID: actor.ID, TargetHorseID: target.ID, Liked: liked}
			if err := db.Clauses(upsert).Create(&decision).Error; err != nil {
				return fmt.Errorf("failed to seed decision: %w", err)
			}

			if counter%3 == 0 {
				h1, h2 := NormalizePair(actor.ID, target.ID)
				match := Match{Horse1ID: h1, Horse2ID: h2, Status: MatchStatusMatched}
				if err := db.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "horse1_id"}, {Name: "horse2_id"}},
					DoNothing: true,
				}).Create(&match).Error; err != nil {
					return fmt.Errorf("failed to seed match: %w", err)
				}
				if match.ID != "" {
					msg := Message{MatchID: match.ID, SenderID: actor.OwnerID, Content: "Neigh! Nice to match with you."}
					if err := db.Create(&msg).Error; err != nil {
						return fmt.Errorf("failed to seed message: %w", err)
					}
				}
			}

			counter++
		}
	}

	log.Printf("Seeded %d decisions.", counter)
	return nil
}
