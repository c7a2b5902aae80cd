package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/conorfennell/flashdrill/internal/domain"
	"github.com/conorfennell/flashdrill/internal/storage"
)

// Controller drives a session through its states. It is not safe for concurrent use.
type Controller struct {
	cards    storage.CardStore
	progress storage.ProgressStore
	ui       UI
	logger   *slog.Logger
	state    State
}

func New(cards storage.CardStore, progress storage.ProgressStore, ui UI, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cards:    cards,
		progress: progress,
		ui:       ui,
		logger:   logger.With("component", "session"),
		state:    Idle,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Run asks for a username and serves the main menu until Exit is chosen or input ends.
// Only store failures are returned; every other error is reported to the user and recovered.
func (c *Controller) Run(ctx context.Context) error {
	err := c.run(ctx)
	c.state = Exited
	if errors.Is(err, io.EOF) {
		c.logger.Info("input closed, ending session")
		return nil
	}
	return err
}

func (c *Controller) run(ctx context.Context) error {
	c.state = AwaitingUsername
	username, err := c.askRequired("Please enter your name to continue")
	if err != nil {
		return err
	}

	sess := newSession(username, c.logger)
	sess.Logger.Info("session started")

	for {
		c.state = MainMenu
		item, err := c.chooseAction()
		if err != nil {
			return err
		}
		if item == domain.MenuExit {
			sess.Logger.Info("session ended")
			return nil
		}

		c.state = actionStates[item]
		sess.Logger.Debug("action selected", "action", item.Label())
		if err := c.dispatch(ctx, sess, item); err != nil {
			return err
		}
	}
}

// chooseAction shows the main menu until a valid item is picked. No answer means Exit.
func (c *Controller) chooseAction() (domain.MenuItem, error) {
	for {
		c.ui.Line("")
		for _, item := range domain.MenuItems() {
			c.ui.Line(fmt.Sprintf("  [%d] %s", item, item.Label()))
		}

		answer, err := c.ui.PromptWithDefault("Main menu", strconv.Itoa(int(domain.MenuExit)))
		if err != nil {
			return 0, err
		}

		item, err := ParseChoice(answer)
		if err != nil {
			c.logger.Debug("invalid menu choice", "input", answer)
			c.ui.Error(msgInvalidChoice)
			continue
		}
		return item, nil
	}
}

func (c *Controller) dispatch(ctx context.Context, sess *Session, item domain.MenuItem) error {
	switch item {
	case domain.MenuCreate:
		return c.create(ctx, sess)
	case domain.MenuList:
		return c.list(ctx)
	case domain.MenuPractice:
		return c.practice(ctx, sess)
	case domain.MenuStats:
		return c.stats(ctx, sess)
	case domain.MenuReset:
		return c.reset(ctx, sess)
	case domain.MenuDelete:
		return c.delete(ctx, sess)
	}
	return fmt.Errorf("%w: %d", ErrInvalidChoice, item)
}
