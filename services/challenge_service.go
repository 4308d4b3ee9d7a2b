// services/challenge_service.go - Challenge State Machine
//
// Owns the lifecycle of a Challenge record. Every transition that depends on
// the current status goes through the store's conditional update, so races
// between participants resolve into exactly one winner and one conflict.
// Time-based transitions are reconciled lazily on every read path; there is
// no background scheduler.
package services

import (
	"errors"
	"log"
	"time"

	"github.com/PedroCidro/TriMathLon-sub002/database"
	"github.com/PedroCidro/TriMathLon-sub002/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotParticipant means the caller plays on neither side
	ErrNotParticipant = errors.New("not a participant of this challenge")
	// ErrSelfChallenge means the creator tried to accept their own challenge
	ErrSelfChallenge = errors.New("cannot accept own challenge")
	// ErrChallengeExpired means the acceptance deadline passed
	ErrChallengeExpired = errors.New("challenge has expired")
	// ErrNotPublic means a public-only operation hit a duel
	ErrNotPublic = errors.New("challenge is not public")
	// ErrNotDuel means a duel-only operation hit a public challenge
	ErrNotDuel = errors.New("challenge is not a duel")
	// ErrNotAccepted means start/score arrived before anyone accepted
	ErrNotAccepted = errors.New("challenge has not been accepted yet")
)

type ChallengeService struct {
	store      *database.ChallengeStore
	curriculum *CurriculumService
	rewards    *RewardService

	acceptTTL        time.Duration // how long a duel waits for an opponent
	publicCloseAfter time.Duration // 0 = public challenges never close

	now func() time.Time // injectable clock
}

func NewChallengeService(db *gorm.DB, curriculum *CurriculumService, rewards *RewardService, acceptTTL time.Duration) *ChallengeService {
	return &ChallengeService{
		store:      database.NewChallengeStore(db),
		curriculum: curriculum,
		rewards:    rewards,
		acceptTTL:  acceptTTL,
		now:        time.Now,
	}
}

// SetPublicCloseAfter configures the optional closing policy for public
// challenges. The default (zero) keeps them open indefinitely as standing
// leaderboards.
func (s *ChallengeService) SetPublicCloseAfter(d time.Duration) {
	s.publicCloseAfter = d
}

// CreateResult is what a creator gets back for a fresh challenge
type CreateResult struct {
	ChallengeID   string `json:"challenge_id"`
	QuestionCount int    `json:"question_count"`
}

// Create builds a new challenge with a frozen question sequence. Duels start
// waiting for an opponent with an acceptance deadline; public challenges go
// straight to playing for the creator's warm-up run.
func (s *ChallengeService) Create(creatorID uint, moduleID string, topicIDs []string, typ models.ChallengeType) (*CreateResult, error) {
	if typ != models.ChallengeTypeDuel && typ != models.ChallengeTypePublic {
		return nil, validationErrorf("unknown challenge type %q", typ)
	}

	module, err := s.curriculum.ValidateSelection(moduleID, topicIDs)
	if err != nil {
		return nil, err
	}

	questionIDs, err := s.curriculum.PickQuestionIDs(topicIDs, module.QuestionsPerGame)
	if err != nil {
		return nil, err
	}

	ch := &models.Challenge{
		ChallengeID:         uuid.NewString(),
		Type:                typ,
		CreatorID:           creatorID,
		ModuleID:            moduleID,
		GameDurationSeconds: module.GameDurationSeconds,
		CreatedAt:           s.now(),
	}
	if err := ch.SetTopicIDs(topicIDs); err != nil {
		return nil, err
	}
	if err := ch.SetQuestionIDs(questionIDs); err != nil {
		return nil, err
	}

	switch typ {
	case models.ChallengeTypeDuel:
		ch.Status = models.ChallengeStatusWaiting
		expiresAt := s.now().Add(s.acceptTTL)
		ch.ExpiresAt = &expiresAt
	case models.ChallengeTypePublic:
		ch.Status = models.ChallengeStatusPlaying
	}

	if err := s.store.Create(ch); err != nil {
		return nil, err
	}

	return &CreateResult{
		ChallengeID:   ch.ChallengeID,
		QuestionCount: len(questionIDs),
	}, nil
}

// Accept transitions a waiting duel to ready for any identity other than the
// creator. The conditional update guarantees exactly one of two racing
// accepts wins; the loser observes a conflict, never a corrupted opponent_id.
func (s *ChallengeService) Accept(token string, userID uint) (*models.Challenge, error) {
	ch, err := s.load(token)
	if err != nil {
		return nil, err
	}

	if ch.Type != models.ChallengeTypeDuel {
		return nil, ErrNotDuel
	}
	if ch.CreatorID == userID {
		return nil, ErrSelfChallenge
	}
	if ch.Status == models.ChallengeStatusExpired {
		return nil, ErrChallengeExpired
	}
	if ch.Status != models.ChallengeStatusWaiting {
		return nil, database.ErrConflict
	}

	err = s.store.UpdateIfStatus(token, models.ChallengeStatusWaiting, map[string]interface{}{
		"status":      models.ChallengeStatusReady,
		"opponent_id": userID,
	})
	if err != nil {
		return nil, err
	}

	return s.store.GetByToken(token)
}

// StartResult reports whether start was a no-op on an already-playing duel
type StartResult struct {
	Challenge      *models.Challenge
	AlreadyStarted bool
}

// Start transitions a ready duel to playing. A second start on a playing
// challenge is idempotent success; game_started_at is set exactly once
// because only the ready->playing transition writes it.
func (s *ChallengeService) Start(token string, userID uint) (*StartResult, error) {
	ch, err := s.load(token)
	if err != nil {
		return nil, err
	}

	if !ch.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}

	switch ch.Status {
	case models.ChallengeStatusPlaying:
		return &StartResult{Challenge: ch, AlreadyStarted: true}, nil
	case models.ChallengeStatusExpired:
		return nil, ErrChallengeExpired
	case models.ChallengeStatusWaiting:
		return nil, ErrNotAccepted
	case models.ChallengeStatusReady:
		// fall through to the transition
	default:
		return nil, database.ErrConflict
	}

	err = s.store.UpdateIfStatus(token, models.ChallengeStatusReady, map[string]interface{}{
		"status":          models.ChallengeStatusPlaying,
		"game_started_at": s.now(),
	})
	if errors.Is(err, database.ErrConflict) {
		// Lost the race to the other participant; if the game is playing
		// now that is still a successful start.
		ch, reloadErr := s.load(token)
		if reloadErr != nil {
			return nil, reloadErr
		}
		if ch.Status == models.ChallengeStatusPlaying {
			return &StartResult{Challenge: ch, AlreadyStarted: true}, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	ch, err = s.store.GetByToken(token)
	if err != nil {
		return nil, err
	}
	return &StartResult{Challenge: ch}, nil
}

// ScoreUpdate is one participant's reported progress
type ScoreUpdate struct {
	Score        int  `json:"score"`
	Strikes      int  `json:"strikes"`
	CurrentIndex int  `json:"current_index"`
	Finished     bool `json:"finished"`
}

// UpdateScore persists one participant's half of the record. A ready
// challenge is started implicitly so a missed explicit start call never
// strands an honest client. A finishing update with score > 0 triggers the
// fire-and-forget reward side effects.
func (s *ChallengeService) UpdateScore(token string, userID uint, u ScoreUpdate) (*models.Challenge, error) {
	ch, err := s.load(token)
	if err != nil {
		return nil, err
	}

	if ch.Type != models.ChallengeTypeDuel {
		return nil, ErrNotDuel
	}
	side, ok := ch.SideOf(userID)
	if !ok {
		return nil, ErrNotParticipant
	}

	switch ch.Status {
	case models.ChallengeStatusReady, models.ChallengeStatusPlaying:
		// scoring allowed
	case models.ChallengeStatusExpired:
		return nil, ErrChallengeExpired
	case models.ChallengeStatusWaiting:
		return nil, ErrNotAccepted
	default:
		return nil, database.ErrConflict
	}

	next := models.Progress{
		Score:        u.Score,
		Strikes:      u.Strikes,
		CurrentIndex: u.CurrentIndex,
		Finished:     u.Finished,
	}
	if err := ValidateProgress(u.Score, u.Strikes, u.CurrentIndex, ch.QuestionCount()); err != nil {
		return nil, err
	}
	if err := ValidateProgressUpdate(ch.ProgressOf(side), next); err != nil {
		return nil, err
	}

	// Implicit start: the first accepted score update on a ready challenge
	// performs the ready->playing transition itself. Losing this race just
	// means the other participant already started the game.
	if ch.Status == models.ChallengeStatusReady {
		err := s.store.UpdateIfStatus(token, models.ChallengeStatusReady, map[string]interface{}{
			"status":          models.ChallengeStatusPlaying,
			"game_started_at": s.now(),
		})
		if err != nil && !errors.Is(err, database.ErrConflict) {
			return nil, err
		}
	}

	if err := s.store.UpdateProgress(token, side, next); err != nil {
		return nil, err
	}

	ch, err = s.store.GetByToken(token)
	if err != nil {
		return nil, err
	}

	if u.Finished && ch.BothFinished() && ch.Status == models.ChallengeStatusPlaying {
		err := s.store.UpdateIfStatus(token, models.ChallengeStatusPlaying, map[string]interface{}{
			"status": models.ChallengeStatusFinished,
		})
		if err != nil && !errors.Is(err, database.ErrConflict) {
			return nil, err
		}
		ch, err = s.store.GetByToken(token)
		if err != nil {
			return nil, err
		}
	}

	if u.Finished && u.Score > 0 {
		s.rewards.AwardAsync(userID, &ch.ChallengeID, ch.ModuleID, u.Score, u.Strikes)
	}

	return ch, nil
}

// PollResult is the live view both participants poll for
type PollResult struct {
	Challenge          *models.Challenge `json:"challenge"`
	Mine               models.Progress   `json:"mine"`
	Theirs             models.Progress   `json:"theirs"`
	RematchChallengeID *string           `json:"rematch_challenge_id,omitempty"`
}

// Poll returns both sides' live progress. Loading runs the lazy finalizer,
// so a poll after the deadline observes finished/expired, never a stale
// waiting/playing.
func (s *ChallengeService) Poll(token string, userID uint) (*PollResult, error) {
	ch, err := s.load(token)
	if err != nil {
		return nil, err
	}

	side, ok := ch.SideOf(userID)
	if !ok {
		return nil, ErrNotParticipant
	}

	other := models.SideOpponent
	if side == models.SideOpponent {
		other = models.SideCreator
	}

	return &PollResult{
		Challenge:          ch,
		Mine:               ch.ProgressOf(side),
		Theirs:             ch.ProgressOf(other),
		RematchChallengeID: ch.RematchChallengeID,
	}, nil
}

// Questions returns the frozen question sequence in its original order.
// Duel questions are for participants only; public challenges expose them to
// any authenticated user, who needs them to play an attempt.
func (s *ChallengeService) Questions(token string, userID uint) ([]models.Question, error) {
	ch, err := s.load(token)
	if err != nil {
		return nil, err
	}

	if ch.Status == models.ChallengeStatusWaiting {
		return nil, database.ErrConflict
	}
	if ch.Type == models.ChallengeTypeDuel && !ch.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}

	ids, err := ch.GetQuestionIDs()
	if err != nil {
		return nil, err
	}
	return s.curriculum.QuestionsInOrder(ids)
}

// SaveAttempt records one user's immutable play-through of a public
// challenge. The creator's own first attempt flips the challenge from its
// warm-up playing state to open for everyone else.
func (s *ChallengeService) SaveAttempt(token string, userID uint, score, strikes int) (*models.ChallengeAttempt, error) {
	ch, err := s.load(token)
	if err != nil {
		return nil, err
	}

	if ch.Type != models.ChallengeTypePublic {
		return nil, ErrNotPublic
	}
	if ch.Status != models.ChallengeStatusPlaying && ch.Status != models.ChallengeStatusOpen {
		return nil, database.ErrConflict
	}
	if err := ValidateAttempt(score, strikes, ch.QuestionCount()); err != nil {
		return nil, err
	}

	attempt := &models.ChallengeAttempt{
		ChallengeID: ch.ChallengeID,
		UserID:      userID,
		Score:       score,
		Strikes:     strikes,
		CreatedAt:   s.now(),
	}
	if err := s.store.InsertAttempt(attempt); err != nil {
		return nil, err
	}

	if userID == ch.CreatorID && ch.Status == models.ChallengeStatusPlaying {
		err := s.store.UpdateIfStatus(token, models.ChallengeStatusPlaying, map[string]interface{}{
			"status":           models.ChallengeStatusOpen,
			"creator_finished": true,
		})
		if err != nil && !errors.Is(err, database.ErrConflict) {
			log.Printf("save-attempt: failed to open challenge %s: %v", token, err)
		}
	}

	if score > 0 {
		s.rewards.AwardAsync(userID, &ch.ChallengeID, ch.ModuleID, score, strikes)
	}

	return attempt, nil
}

// Rematch creates a fresh challenge of the same shape (same module and
// topics, freshly drawn questions) and links it forward from the finished
// one. The first participant to ask wins the link; a later caller gets the
// same rematch id back.
func (s *ChallengeService) Rematch(token string, userID uint) (*CreateResult, error) {
	ch, err := s.load(token)
	if err != nil {
		return nil, err
	}

	if ch.Type != models.ChallengeTypeDuel {
		return nil, ErrNotDuel
	}
	if !ch.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	if !ch.IsTerminal() {
		return nil, database.ErrConflict
	}

	if ch.RematchChallengeID != nil {
		rematch, err := s.store.GetByToken(*ch.RematchChallengeID)
		if err != nil {
			return nil, err
		}
		return &CreateResult{ChallengeID: rematch.ChallengeID, QuestionCount: rematch.QuestionCount()}, nil
	}

	topicIDs, err := ch.GetTopicIDs()
	if err != nil {
		return nil, err
	}

	result, err := s.Create(userID, ch.ModuleID, topicIDs, models.ChallengeTypeDuel)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetRematch(token, result.ChallengeID); err != nil {
		if errors.Is(err, database.ErrConflict) {
			// The other participant linked their rematch first; surface theirs.
			ch, reloadErr := s.store.GetByToken(token)
			if reloadErr == nil && ch.RematchChallengeID != nil {
				rematch, rErr := s.store.GetByToken(*ch.RematchChallengeID)
				if rErr == nil {
					return &CreateResult{ChallengeID: rematch.ChallengeID, QuestionCount: rematch.QuestionCount()}, nil
				}
			}
		}
		return nil, err
	}

	return result, nil
}

// RecentForUser lists a user's challenge history, newest first
func (s *ChallengeService) RecentForUser(userID uint, limit int) ([]models.Challenge, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.store.RecentByUser(userID, limit)
}

// load fetches a challenge and reconciles any overdue time-based transition
// before the caller sees it
func (s *ChallengeService) load(token string) (*models.Challenge, error) {
	ch, err := s.store.GetByToken(token)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ch)
}

// reconcile is the lazy finalizer: it derives waiting->expired and
// playing->finished transitions from wall-clock deadlines as a side effect
// of the read. Losing a reconcile race to a concurrent request is fine; the
// reload observes whatever state won.
func (s *ChallengeService) reconcile(ch *models.Challenge) (*models.Challenge, error) {
	now := s.now()

	switch {
	case ch.Status == models.ChallengeStatusWaiting &&
		ch.ExpiresAt != nil && now.After(*ch.ExpiresAt):
		err := s.store.UpdateIfStatus(ch.ChallengeID, models.ChallengeStatusWaiting, map[string]interface{}{
			"status": models.ChallengeStatusExpired,
		})
		if err != nil && !errors.Is(err, database.ErrConflict) {
			return nil, err
		}
		return s.store.GetByToken(ch.ChallengeID)

	case ch.Status == models.ChallengeStatusPlaying &&
		ch.Type == models.ChallengeTypeDuel &&
		ch.GameStartedAt != nil &&
		now.After(ch.GameStartedAt.Add(time.Duration(ch.GameDurationSeconds+GraceSeconds)*time.Second)):
		// Forced finish marks both sides done even if one never returned,
		// so the result view is never left pending indefinitely.
		err := s.store.UpdateIfStatus(ch.ChallengeID, models.ChallengeStatusPlaying, map[string]interface{}{
			"status":            models.ChallengeStatusFinished,
			"creator_finished":  true,
			"opponent_finished": true,
		})
		if err != nil && !errors.Is(err, database.ErrConflict) {
			return nil, err
		}
		return s.store.GetByToken(ch.ChallengeID)

	case ch.Status == models.ChallengeStatusOpen &&
		s.publicCloseAfter > 0 &&
		now.After(ch.CreatedAt.Add(s.publicCloseAfter)):
		err := s.store.UpdateIfStatus(ch.ChallengeID, models.ChallengeStatusOpen, map[string]interface{}{
			"status": models.ChallengeStatusFinished,
		})
		if err != nil && !errors.Is(err, database.ErrConflict) {
			return nil, err
		}
		return s.store.GetByToken(ch.ChallengeID)
	}

	return ch, nil
}
