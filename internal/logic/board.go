package logic

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/clanwars/cwl-stats/internal/models"
)

// Board is the engine's private working view of a MatchState: bases with
// secured stars derived from the attack logs, and the attackers that still
// have attacks to spend. Nothing on a Board aliases caller-owned slices.
type Board struct {
	SelfStars                int
	OpponentStars            int
	SelfAttacksRemaining     int
	OpponentAttacksRemaining int

	// SelfBases are defended by self and attacked by the opponent
	SelfBases     []models.Base
	OpponentBases []models.Base

	SelfAttackers     []models.Attacker
	OpponentAttackers []models.Attacker
}

// BuildMatchState orients a snapshot around selfTag and validates it.
func BuildMatchState(snap *models.WarSnapshot, selfTag string) (*models.MatchState, error) {
	if snap == nil {
		return nil, invalid("snapshot", "missing")
	}
	phase, ok := models.ParsePhase(snap.State)
	if !ok {
		return nil, invalid("state", "unknown war state %q", snap.State)
	}

	state := &models.MatchState{
		Self:             snap.Clan,
		Opponent:         snap.Opponent,
		TeamSize:         snap.TeamSize,
		AttacksPerMember: snap.AttacksPerMember,
		Phase:            phase,
		EndTime:          snap.ParsedEndTime(),
	}
	if state.AttacksPerMember == 0 {
		state.AttacksPerMember = 1
	}

	switch selfTag {
	case "", snap.Clan.Tag:
	case snap.Opponent.Tag:
		state.Self, state.Opponent = snap.Opponent, snap.Clan
	default:
		return nil, invalid("clan_tag", "%s is not part of this war", selfTag)
	}

	if err := ValidateMatchState(state); err != nil {
		return nil, err
	}
	return state, nil
}

// ValidateMatchState fails fast on snapshots the engine cannot reason about.
func ValidateMatchState(s *models.MatchState) error {
	if s.TeamSize <= 0 {
		return invalid("team_size", "must be positive, got %d", s.TeamSize)
	}
	if s.AttacksPerMember <= 0 {
		return invalid("attacks_per_member", "must be positive, got %d", s.AttacksPerMember)
	}
	for _, side := range []struct {
		name string
		s    *models.Side
	}{{"self", &s.Self}, {"opponent", &s.Opponent}} {
		if len(side.s.Members) == 0 {
			return invalid(side.name+".members", "roster is empty")
		}
		if len(side.s.Members) > s.TeamSize {
			return invalid(side.name+".members", "%d members for team size %d", len(side.s.Members), s.TeamSize)
		}
		if side.s.Stars < 0 || side.s.Stars > models.MaxStars*s.TeamSize {
			return invalid(side.name+".stars", "%d outside 0..%d", side.s.Stars, models.MaxStars*s.TeamSize)
		}
		if side.s.Attacks < 0 || side.s.Attacks > s.AttacksAllowed() {
			return invalid(side.name+".attacks", "%d outside 0..%d", side.s.Attacks, s.AttacksAllowed())
		}
		seen := make(map[string]bool, len(side.s.Members))
		for _, m := range side.s.Members {
			if seen[m.Tag] {
				return invalid(side.name+".members", "duplicate member %s", m.Tag)
			}
			seen[m.Tag] = true
			if len(m.Attacks) > s.AttacksPerMember {
				return invalid(side.name+".members", "%s logged %d attacks, only %d allowed", m.Tag, len(m.Attacks), s.AttacksPerMember)
			}
			for _, a := range m.Attacks {
				if a.Stars < 0 || a.Stars > models.MaxStars {
					return invalid(side.name+".members", "%s attack on %s has %d stars", m.Tag, a.DefenderTag, a.Stars)
				}
			}
		}
	}
	return nil
}

// NewBoard derives bases and attackers from a validated state and reconciles
// per-base stars with the reported totals. Inconsistencies that cannot be
// repaired come back as warnings, never as errors.
func NewBoard(s *models.MatchState) (*Board, []string, error) {
	if err := ValidateMatchState(s); err != nil {
		return nil, nil, err
	}

	var warnings []string
	b := &Board{
		SelfStars:                s.Self.Stars,
		OpponentStars:            s.Opponent.Stars,
		SelfAttacksRemaining:     s.SelfAttacksRemaining(),
		OpponentAttacksRemaining: s.OpponentAttacksRemaining(),
		SelfAttackers:            BuildAttackers(s.Self.Members, s.AttacksPerMember),
		OpponentAttackers:        BuildAttackers(s.Opponent.Members, s.AttacksPerMember),
	}

	selfBases, w := BuildBases(s.Self.Members, s.Opponent.Members)
	warnings = append(warnings, w...)
	oppBases, w := BuildBases(s.Opponent.Members, s.Self.Members)
	warnings = append(warnings, w...)

	var ok bool
	if b.SelfBases, ok = Reconcile(selfBases, s.Opponent.Stars); !ok {
		warnings = append(warnings, fmt.Sprintf(
			"stars on %s bases sum to %d, reported opponent total is %d; proceeding unreconciled",
			s.Self.Tag, sumSecured(b.SelfBases), s.Opponent.Stars))
	}
	if b.OpponentBases, ok = Reconcile(oppBases, s.Self.Stars); !ok {
		warnings = append(warnings, fmt.Sprintf(
			"stars on %s bases sum to %d, reported self total is %d; proceeding unreconciled",
			s.Opponent.Tag, sumSecured(b.OpponentBases), s.Self.Stars))
	}
	return b, warnings, nil
}

// BuildAttackers lists members with attacks left. Validation guarantees
// nobody logged more than perMember attacks.
func BuildAttackers(members []models.Member, perMember int) []models.Attacker {
	out := make([]models.Attacker, 0, len(members))
	for _, m := range members {
		left := perMember - len(m.Attacks)
		if left <= 0 {
			continue
		}
		out = append(out, models.Attacker{ID: m.Tag, Tier: m.Tier(), Remaining: left})
	}
	return out
}

// BuildBases turns defenders into bases. A base's secured stars are the best
// attack logged against it by any attacker.
func BuildBases(defenders, attackers []models.Member) ([]models.Base, []string) {
	bases := make([]models.Base, len(defenders))
	index := make(map[string]int, len(defenders))
	for i, d := range defenders {
		bases[i] = models.Base{ID: d.Tag, Tier: d.Tier()}
		index[d.Tag] = i
	}

	var warnings []string
	for _, a := range attackers {
		for _, atk := range a.Attacks {
			i, ok := index[atk.DefenderTag]
			if !ok {
				warnings = append(warnings, fmt.Sprintf("attack by %s against unknown base %s ignored", a.Tag, atk.DefenderTag))
				continue
			}
			if atk.Stars > bases[i].Secured {
				bases[i].Secured = min(atk.Stars, models.MaxStars)
			}
		}
	}
	return bases, warnings
}

// Reconcile returns a copy of bases adjusted one star at a time until their
// sum equals reported. Increments skip full bases and decrements skip empty
// ones; partially scored bases are adjusted first, then input order decides.
// It reports false, with the best-effort copy, when the gap cannot be closed.
func Reconcile(bases []models.Base, reported int) ([]models.Base, bool) {
	out := slices.Clone(bases)
	gap := reported - sumSecured(out)
	for gap != 0 {
		step := 1
		if gap < 0 {
			step = -1
		}
		i := adjustable(out, step)
		if i < 0 {
			return out, false
		}
		out[i].Secured += step
		gap -= step
	}
	return out, true
}

func adjustable(bases []models.Base, step int) int {
	fallback := -1
	for i, b := range bases {
		if b.Secured > 0 && b.Secured < models.MaxStars {
			return i
		}
		if fallback < 0 && ((step > 0 && b.Secured == 0) || (step < 0 && b.Secured == models.MaxStars)) {
			fallback = i
		}
	}
	return fallback
}

func sumSecured(bases []models.Base) int {
	total := 0
	for _, b := range bases {
		total += b.Secured
	}
	return total
}

// attackSlots expands attackers into one tier per remaining attack,
// strongest first, truncated to the side's aggregate attack budget.
func attackSlots(attackers []models.Attacker, budget int) []int {
	sorted := slices.Clone(attackers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Tier > sorted[j].Tier
	})
	slots := make([]int, 0, budget)
	for _, a := range sorted {
		for n := 0; n < a.Remaining && len(slots) < budget; n++ {
			slots = append(slots, a.Tier)
		}
	}
	return slots
}

// SnapshotKey is a stable identifier for a war between two clans, used to
// correlate log lines across repeated queries.
func SnapshotKey(s *models.MatchState) string {
	tags := []string{s.Self.Tag, s.Opponent.Tag}
	sort.Strings(tags)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.Join(tags, "|"))).String()
}
