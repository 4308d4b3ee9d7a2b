package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/PedroCidro/TriMathLon-sub002/models"
	"gorm.io/gorm"
)

func seedAttempt(t *testing.T, db *gorm.DB, challengeID string, userID uint, score int, at time.Time) {
	t.Helper()
	a := models.ChallengeAttempt{
		ChallengeID: challengeID,
		UserID:      userID,
		Score:       score,
		CreatedAt:   at,
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("failed to seed attempt: %v", err)
	}
}

func TestChallengeTopOrdering(t *testing.T) {
	db := openTestDB(t)
	seedCurriculum(t, db)
	lb := NewLeaderboardService(db)

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	const token = "lb-test-challenge"

	// Equal scores: the earlier submission must rank ahead
	seedAttempt(t, db, token, testOutsider, 7, base.Add(2*time.Minute))
	seedAttempt(t, db, token, testCreator, 7, base.Add(1*time.Minute))
	seedAttempt(t, db, token, testOpponent, 9, base.Add(3*time.Minute))

	page, err := lb.ChallengeTop(token, testCreator)
	if err != nil {
		t.Fatalf("ChallengeTop() error = %v", err)
	}
	if page.TotalAttempts != 3 {
		t.Errorf("total_attempts = %d, want 3", page.TotalAttempts)
	}
	if len(page.Entries) != 3 {
		t.Fatalf("entry count = %d, want 3", len(page.Entries))
	}

	wantOrder := []uint{testOpponent, testCreator, testOutsider}
	for i, want := range wantOrder {
		if page.Entries[i].UserID != want {
			t.Errorf("rank %d user = %d, want %d", i+1, page.Entries[i].UserID, want)
		}
		if page.Entries[i].Rank != i+1 {
			t.Errorf("entry %d rank = %d, want %d", i, page.Entries[i].Rank, i+1)
		}
	}

	if !page.Entries[1].IsMe {
		t.Error("requester's own row not marked is_me")
	}
	if page.Entries[0].IsMe {
		t.Error("someone else's row marked is_me")
	}
	if page.Entries[0].DisplayName != "Bruno" {
		t.Errorf("display name = %q, want Bruno", page.Entries[0].DisplayName)
	}
}

func TestChallengeTopPageSize(t *testing.T) {
	db := openTestDB(t)
	seedCurriculum(t, db)
	lb := NewLeaderboardService(db)

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	const token = "lb-page-challenge"

	for i := 0; i < LeaderboardSize+5; i++ {
		user := models.User{Username: fmt.Sprintf("runner%02d", i)}
		if err := db.Create(&user).Error; err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
		seedAttempt(t, db, token, user.ID, i, base.Add(time.Duration(i)*time.Second))
	}

	page, err := lb.ChallengeTop(token, 0)
	if err != nil {
		t.Fatalf("ChallengeTop() error = %v", err)
	}
	if len(page.Entries) != LeaderboardSize {
		t.Errorf("page size = %d, want %d", len(page.Entries), LeaderboardSize)
	}
	if page.TotalAttempts != int64(LeaderboardSize+5) {
		t.Errorf("total_attempts = %d, want %d", page.TotalAttempts, LeaderboardSize+5)
	}

	// Anonymous requester never gets an is_me row
	for _, entry := range page.Entries {
		if entry.IsMe {
			t.Fatal("anonymous request produced an is_me row")
		}
	}
}

func TestBlitzSubmitAndTop(t *testing.T) {
	db := openTestDB(t)
	seedCurriculum(t, db)

	curriculum := NewCurriculumService(db)
	rewards := NewRewardService(db)
	blitz := NewBlitzService(db, curriculum, rewards)
	lb := NewLeaderboardService(db)

	if _, err := blitz.Submit(testCreator, "derivadas", 40, 1, 120); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := blitz.Submit(testOpponent, "derivadas", 55, 0, 150); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// Implausible and oversized sessions are rejected
	if _, err := blitz.Submit(testOutsider, "derivadas", 200, 0, 120); !errors.Is(err, ErrValidation) {
		t.Errorf("implausible Submit() error = %v, want ErrValidation", err)
	}
	if _, err := blitz.Submit(testOutsider, "derivadas", 10, 0, 400); !errors.Is(err, ErrValidation) {
		t.Errorf("oversized Submit() error = %v, want ErrValidation", err)
	}
	if _, err := blitz.Submit(testOutsider, "integrais", 10, 0, 60); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown module Submit() error = %v, want ErrValidation", err)
	}

	page, err := lb.BlitzTop("derivadas", testCreator)
	if err != nil {
		t.Fatalf("BlitzTop() error = %v", err)
	}
	if len(page.Entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(page.Entries))
	}
	if page.Entries[0].UserID != testOpponent || page.Entries[0].Score != 55 {
		t.Errorf("top entry = user %d score %d, want user %d score 55", page.Entries[0].UserID, page.Entries[0].Score, testOpponent)
	}
	if !page.Entries[1].IsMe {
		t.Error("requester's blitz row not marked is_me")
	}

	rewards.Wait()
	var creator models.User
	if err := db.First(&creator, testCreator).Error; err != nil {
		t.Fatalf("failed to reload creator: %v", err)
	}
	if creator.XP != 400 {
		t.Errorf("creator xp = %d, want 400", creator.XP)
	}
}
