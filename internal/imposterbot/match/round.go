package match

import (
	"context"
	"errors"
)

// playRound pairs the available players at random until fewer than two are left.
func (r *Session) playRound(ctx context.Context, idx int) error {
	r.mtx.Lock()
	if r.state != StateKindPlaying {
		r.mtx.Unlock()
		return ErrSessionEnded
	}

	r.round = idx
	r.roster.resetActed()
	available := r.roster.IDs()
	r.mtx.Unlock()

	r.send(ctx, r.config.Renderer.Round(idx), nil)

	for len(available) >= 2 {
		if ctx.Err() != nil {
			return ErrSessionEnded
		}

		var askerID, answererID int64
		askerID, available = draw(available, r.config.Rand)
		answererID, available = draw(available, r.config.Rand)

		asker, ok := r.player(askerID)
		if !ok {
			continue
		}

		answerer, ok := r.player(answererID)
		if !ok {
			continue
		}

		if err := r.turn(ctx, idx, asker, answerer); err != nil {
			return err
		}
	}

	return nil
}

// turn waits for the asker's question and then for the answerer's reply.
func (r *Session) turn(ctx context.Context, idx int, asker, answerer Player) error {
	ch := r.inbox.expect(asker.UserID)
	r.send(ctx, r.config.Renderer.Turn(idx, asker, answerer), nil)

	question, err := r.inbox.await(ctx, ch, r.config.InteractionTimeout)
	if err != nil {
		return r.timedOut(ctx, asker, err)
	}

	ch = r.inbox.expect(answerer.UserID)
	r.send(ctx, r.config.Renderer.Question(asker, answerer, question), nil)

	if _, err := r.inbox.await(ctx, ch, r.config.InteractionTimeout); err != nil {
		return r.timedOut(ctx, answerer, err)
	}

	r.mtx.Lock()
	r.roster.markActed(asker.UserID, answerer.UserID)
	r.mtx.Unlock()

	return nil
}

func (r *Session) timedOut(ctx context.Context, p Player, err error) error {
	if !errors.Is(err, errAwaitTimeout) {
		return err
	}

	r.kick(ctx, p.UserID)
	if r.State() == StateKindEnded {
		return ErrSessionEnded
	}

	return nil
}
