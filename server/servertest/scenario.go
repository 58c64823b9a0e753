package servertest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/marcson909/client-server-multiplayer-playground/internal/action"
	"github.com/marcson909/client-server-multiplayer-playground/internal/gamedata"
	"github.com/marcson909/client-server-multiplayer-playground/internal/tile"
)

// Scenario is a declarative end-to-end test case: join some players, queue
// actions at specific ticks, step the simulation, then check final state.
// Adapted from the teacher's JSON-driven TestScenario
// (testutil/scenario.go) — same setup/actions/expectations shape, regrounded
// from the teacher's RTS units/buildings/formations onto this game's
// players/trees/action queue, since nothing here builds or attacks.
type Scenario struct {
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Setup        ScenarioSetup        `json:"setup"`
	Actions      []ScenarioAction     `json:"actions"`
	Expectations ScenarioExpectations `json:"expectations"`
}

// ScenarioSetup lists the players that join the world before tick 0.
type ScenarioSetup struct {
	Players []string `json:"players"`
}

// ScenarioAction queues one action for a named player at a given tick.
type ScenarioAction struct {
	Tick   int               `json:"tick"`
	Player string            `json:"player"`
	Action action.GameAction `json:"action"`
}

// ScenarioExpectations describes how long to run and what to check after.
type ScenarioExpectations struct {
	MaxTicks   int                `json:"maxTicks"`
	FinalState ScenarioFinalState `json:"finalState"`
}

// ScenarioFinalState is the set of final-state checks to run once MaxTicks
// have elapsed.
type ScenarioFinalState struct {
	Players []ExpectedPlayer `json:"players,omitempty"`
	Trees   []ExpectedTree   `json:"trees,omitempty"`
}

// ExpectedPlayer describes one player's expected end state. Position, when
// set, must match exactly. MinInventory/MinSkillLevel are lower bounds
// rather than exact equality, since a player starts with a bronze axe
// already occupying a slot and at level 1 in every skill.
type ExpectedPlayer struct {
	Name          string                         `json:"name"`
	Position      *tile.Position                 `json:"position,omitempty"`
	MinInventory  map[gamedata.ItemType]uint32   `json:"minInventory,omitempty"`
	MinSkillLevel map[gamedata.SkillType]uint32  `json:"minSkillLevel,omitempty"`
}

// ExpectedTree describes one tree's expected chopped state, identified by
// its fixed spawn position — this game's tree layout is static, unlike the
// teacher's per-scenario loaded map.
type ExpectedTree struct {
	Position tile.Position `json:"position"`
	Chopped  bool          `json:"chopped"`
}

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("servertest: read scenario: %w", err)
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("servertest: parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("servertest: invalid scenario %q: %w", path, err)
	}
	return &s, nil
}

// Validate checks the scenario is well-formed before running it.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(s.Setup.Players) == 0 {
		return fmt.Errorf("setup must name at least one player")
	}
	if s.Expectations.MaxTicks <= 0 {
		return fmt.Errorf("maxTicks must be positive")
	}

	seen := make(map[string]bool, len(s.Setup.Players))
	for _, name := range s.Setup.Players {
		if seen[name] {
			return fmt.Errorf("duplicate player name: %s", name)
		}
		seen[name] = true
	}
	for _, a := range s.Actions {
		if !seen[a.Player] {
			return fmt.Errorf("action at tick %d references unknown player %q", a.Tick, a.Player)
		}
	}
	for _, p := range s.Expectations.FinalState.Players {
		if !seen[p.Name] {
			return fmt.Errorf("expectation references unknown player %q", p.Name)
		}
	}
	return nil
}
