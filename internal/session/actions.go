package session

import (
	"context"
	"errors"
	"strconv"

	"github.com/conorfennell/flashdrill/internal/domain"
	"github.com/conorfennell/flashdrill/internal/knol"
	"github.com/conorfennell/flashdrill/internal/progress"
)

func (c *Controller) create(ctx context.Context, sess *Session) error {
	question, err := c.askRequired("Please enter the question")
	if err != nil {
		return err
	}
	answer, err := c.askRequired("Please enter the answer")
	if err != nil {
		return err
	}

	card, err := c.cards.Create(ctx, question, answer)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.ui.Error(requiredMessage(err))
			return nil
		}
		return err
	}

	sess.Logger.Info("flashcard created", "flashcard_id", card.ID)
	c.ui.Info("Flashcard created successfully.")
	return nil
}

func (c *Controller) list(ctx context.Context) error {
	cards, err := c.cards.List(ctx)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		c.ui.Info("No flashcards found.")
		return nil
	}

	rows := make([][]string, 0, len(cards))
	for _, card := range cards {
		rows = append(rows, []string{card.Question, card.Answer})
	}
	c.ui.Info("Flashcards:")
	c.ui.Table([]string{"Question", "Answer"}, rows)
	return nil
}

// practice loops over the progress view until the user enters id 0.
func (c *Controller) practice(ctx context.Context, sess *Session) error {
	exists, err := c.cards.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		c.ui.Info("No flashcards found. Please create some flashcards first.")
		return nil
	}

	for {
		if err := c.showProgress(ctx, sess); err != nil {
			return err
		}

		input, err := c.ui.PromptWithDefault("Enter the ID of the flashcard you want to practice (or enter 0 to exit)", "0")
		if err != nil {
			return err
		}
		id, ok := parseID(input)
		if ok && id == 0 {
			return nil
		}

		card, err := c.findCard(ctx, id, ok)
		if err != nil {
			return err
		}
		if card == nil {
			c.ui.Error("Flashcard not found. Please enter a valid ID.")
			continue
		}

		status, err := progress.Resolve(ctx, *card, sess.Username, c.progress)
		if err != nil {
			return err
		}
		if status == domain.Correct {
			c.ui.Warn("You have already answered this flashcard correctly. Please choose another one.")
			continue
		}

		if err := c.attempt(ctx, sess, card); err != nil {
			return err
		}
	}
}

// attempt asks for an answer to card and records the outcome.
func (c *Controller) attempt(ctx context.Context, sess *Session, card *domain.Flashcard) error {
	answer, err := c.askRequired("Enter your answer")
	if err != nil {
		return err
	}

	status := domain.Incorrect
	if knol.AnswersMatch(card.Answer, answer) {
		status = domain.Correct
	}

	if err := c.progress.Upsert(ctx, card.ID, sess.Username, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.ui.Error("Flashcard not found. Please enter a valid ID.")
			return nil
		}
		return err
	}
	sess.Logger.Debug("answer recorded", "flashcard_id", card.ID, "status", status)

	if status == domain.Correct {
		c.ui.Info("Correct answer!")
	} else {
		c.ui.Error("Incorrect answer!")
	}
	return nil
}

func (c *Controller) showProgress(ctx context.Context, sess *Session) error {
	cards, err := c.cards.List(ctx)
	if err != nil {
		return err
	}
	snap, err := progress.Prefetch(ctx, sess.Username, c.progress)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(cards))
	for _, card := range cards {
		rows = append(rows, []string{
			strconv.FormatInt(card.ID, 10),
			card.Question,
			snap.Status(card).Label(),
		})
	}

	pct := progress.Percentage(snap.Count(cards, domain.Correct), len(cards))

	c.ui.Line("")
	c.ui.Info("Practice Progress:")
	c.ui.Table([]string{"ID", "Question", "Status"}, rows)
	c.ui.Line("Correct Percentage: " + progress.FormatPercentage(pct))
	return nil
}

func (c *Controller) stats(ctx context.Context, sess *Session) error {
	total, err := c.cards.Count(ctx)
	if err != nil {
		return err
	}
	correct, err := c.progress.CountForUser(ctx, sess.Username, domain.Correct)
	if err != nil {
		return err
	}
	incorrect, err := c.progress.CountForUser(ctx, sess.Username, domain.Incorrect)
	if err != nil {
		return err
	}
	answered := correct + incorrect

	c.ui.Info("Stats:")
	c.ui.Table(
		[]string{"Total questions", "Answered %", "Correct %"},
		[][]string{{
			strconv.Itoa(total),
			progress.FormatPercentage(progress.Percentage(answered, total)),
			progress.FormatPercentage(progress.Percentage(correct, total)),
		}},
	)
	return nil
}

func (c *Controller) reset(ctx context.Context, sess *Session) error {
	ok, err := c.ui.Confirm("Are you sure you want to reset all progress? This action cannot be undone.", false)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	n, err := c.progress.DeleteAllForUser(ctx, sess.Username)
	if err != nil {
		return err
	}
	sess.Logger.Info("progress reset", "deleted", n)
	c.ui.Info("All progress has been reset.")
	return nil
}

func (c *Controller) delete(ctx context.Context, sess *Session) error {
	cards, err := c.cards.List(ctx)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		c.ui.Info("No flashcards found.")
		return nil
	}

	rows := make([][]string, 0, len(cards))
	for _, card := range cards {
		rows = append(rows, []string{strconv.FormatInt(card.ID, 10), card.Question})
	}
	c.ui.Line("")
	c.ui.Table([]string{"ID", "Question"}, rows)

	input, err := c.ui.Prompt("Please choose a flashcard by ID to delete")
	if err != nil {
		return err
	}

	id, ok := parseID(input)
	if ok {
		err = c.cards.Delete(ctx, id)
	}
	if !ok || errors.Is(err, domain.ErrNotFound) {
		c.ui.Error("Flashcard not found please try another ID.")
		return nil
	}
	if err != nil {
		return err
	}

	sess.Logger.Info("flashcard deleted", "flashcard_id", id)
	c.ui.Info("Flashcard deleted successfully.")
	return nil
}

// findCard returns nil when the id is malformed or names no flashcard.
func (c *Controller) findCard(ctx context.Context, id int64, ok bool) (*domain.Flashcard, error) {
	if !ok {
		return nil, nil
	}
	card, err := c.cards.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return card, nil
}
