package network

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/automoto/duel-mp/config"
	"github.com/automoto/duel-mp/shared/messages"
	"github.com/automoto/duel-mp/shared/netconfig"
	"github.com/yohamta/donburi"
)

// agent is the part of *Client a Session drives.
type agent interface {
	Slot() netconfig.Slot
	State() ClientState
	LastError() error
	LatestSnapshot() *messages.MatchState
	DrainEvents() []any
	SelectCharacter(id netconfig.CharacterID) error
	SetReady() error
	SendAction(intent messages.ActionIntent) error
	ReportDeath() error
}

// Session plays matches on one connection. Only the goroutine calling Tick
// touches the world.
type Session struct {
	agent     agent
	cfg       config.ClientConfig
	character netconfig.CharacterID
	profiles  *ProfileStore // Optional

	world    donburi.World
	local    donburi.Entity
	opponent donburi.Entity
	phase    netconfig.MatchPhase

	logger *log.Logger
	now    func() time.Time
}

func NewSession(a agent, cfg config.ClientConfig, character netconfig.CharacterID, profiles *ProfileStore, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{
		agent:     a,
		cfg:       cfg,
		character: character,
		profiles:  profiles,
		world:     donburi.NewWorld(),
		logger:    logger,
		now:       time.Now,
	}

	s.local = s.world.Create(LocalPlayer, BotBrain, Attacks, Command)
	local := s.world.Entry(s.local)
	BotBrain.Set(local, NewBot(config.Bot.Difficulties[cfg.Bot], int64(a.Slot())))
	Attacks.Set(local, NewAttackPlanner(character))

	s.opponent = s.world.Create(Opponent, NetInterp)
	NetInterp.Set(s.world.Entry(s.opponent), NewInterpolator(cfg.Netcode.OpponentLerp))
	return s
}

// Join selects the fighter and, when configured, readies up.
func (s *Session) Join() error {
	if err := s.agent.SelectCharacter(s.character); err != nil {
		return err
	}
	if !s.cfg.Ready {
		return nil
	}
	return s.agent.SetReady()
}

// Run ticks at the input interval until ctx ends or the connection fails.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Netcode.InputInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Tick(); err != nil {
				return err
			}
		}
	}
}

// Tick handles pending events and the latest snapshot, then simulates one
// step of local input while a match is running.
func (s *Session) Tick() error {
	if s.agent.State() == StateError {
		if err := s.agent.LastError(); err != nil {
			return err
		}
		return errors.New("connection failed")
	}

	for _, evt := range s.agent.DrainEvents() {
		if err := s.handleEvent(evt); err != nil {
			return err
		}
	}
	if snap := s.agent.LatestSnapshot(); snap != nil {
		s.applySnapshot(*snap)
	}

	if s.localPredictor() == nil || s.phase != netconfig.PhaseRunning {
		return nil
	}
	return s.step()
}

func (s *Session) step() error {
	updateInterpolation(s.world)
	updateBots(s.world)
	updatePrediction(s.world, s.now())

	cmd := Command.Get(s.world.Entry(s.local))
	if err := s.agent.SendAction(cmd.Intent); err != nil {
		return err
	}
	if cmd.Died {
		s.logger.Printf("fell out of the arena")
		return s.agent.ReportDeath()
	}
	return nil
}

func (s *Session) handleEvent(evt any) error {
	switch e := evt.(type) {
	case messages.MatchStart:
		s.logger.Printf("match started")
		s.start(e.State)
	case messages.GameOver:
		if s.phase == netconfig.PhaseGameOver {
			return nil // repeated copy
		}
		won := e.Winner == s.agent.Slot()
		s.logger.Printf("game over, winner %s (won=%t)", e.Winner, won)
		s.phase = netconfig.PhaseGameOver
		s.recordResult(won)
	case messages.GameReset:
		s.logger.Printf("game reset")
		s.world.Entry(s.local).RemoveComponent(Prediction)
		s.interp().Clear()
		s.phase = e.State.Phase
		if self, ok := e.State.Player(s.agent.Slot()); ok && self.Character == netconfig.CharacterNone {
			return s.Join()
		}
		if s.cfg.Ready {
			return s.agent.SetReady()
		}
	case messages.ServerError:
		s.logger.Printf("server: %s", e.Message)
	}
	return nil
}

func (s *Session) start(state messages.MatchState) {
	s.phase = state.Phase
	self, ok := state.Player(s.agent.Slot())
	if !ok {
		return
	}
	local := s.world.Entry(s.local)
	if pred := s.localPredictor(); pred != nil {
		pred.Reset(self)
		pred.SetPlatforms(state.Platforms)
	} else {
		local.AddComponent(Prediction)
		local = s.world.Entry(s.local)
		Prediction.Set(local, NewPredictor(s.cfg.Physics, s.cfg.Netcode, self, state.Platforms))
	}
	Attacks.Get(local).SetCharacter(s.character)
	*Command.Get(local) = CommandData{}

	opp := s.interp()
	opp.Clear()
	if st, ok := state.Player(s.agent.Slot().Other()); ok {
		opp.Observe(st)
	}
}

func (s *Session) applySnapshot(state messages.MatchState) {
	pred := s.localPredictor()
	if pred == nil {
		if state.Phase.Started() {
			// Joined after the start message was consumed.
			s.start(state)
		}
		return
	}
	s.phase = state.Phase
	if self, ok := state.Player(s.agent.Slot()); ok {
		pred.Reconcile(self)
	}
	if opp, ok := state.Player(s.agent.Slot().Other()); ok {
		s.interp().Observe(opp)
	}
}

// localPredictor is nil outside a match.
func (s *Session) localPredictor() *Predictor {
	e := s.world.Entry(s.local)
	if !e.HasComponent(Prediction) {
		return nil
	}
	return Prediction.Get(e)
}

func (s *Session) interp() *Interpolator {
	return NetInterp.Get(s.world.Entry(s.opponent))
}

func (s *Session) recordResult(won bool) {
	if s.profiles == nil {
		return
	}
	p, err := s.profiles.RecordResult(won)
	if err != nil {
		s.logger.Printf("profile: %v", err)
		return
	}
	s.logger.Printf("record %d-%d", p.Wins, p.Losses)
}
