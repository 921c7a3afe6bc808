package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	qb "github.com/riskibarqy/clan-bingo/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (bingo.Team, bool, error) {
	query, args, err := teamBaseSelectBuilder().
		Where(
			qb.Eq("t.public_id", teamID),
			qb.IsNull("t.deleted_at"),
		).
		OrderBy("m.joined_at", "m.player_id").
		ToSQL()
	if err != nil {
		return bingo.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	teams, err := r.selectTeams(ctx, query, args)
	if err != nil {
		return bingo.Team{}, false, err
	}
	if len(teams) == 0 {
		return bingo.Team{}, false, nil
	}
	return teams[0], true, nil
}

func (r *TeamRepository) GetByPlayer(ctx context.Context, eventID, playerID string) (bingo.Team, bool, error) {
	query, args, err := teamBaseSelectBuilder().
		Where(
			qb.Expr(`t.public_id = (
    SELECT team_public_id FROM bingo_team_members
    WHERE event_public_id = ? AND player_id = ? AND deleted_at IS NULL
)`, eventID, playerID),
			qb.IsNull("t.deleted_at"),
		).
		OrderBy("m.joined_at", "m.player_id").
		ToSQL()
	if err != nil {
		return bingo.Team{}, false, fmt.Errorf("build get team by player query: %w", err)
	}

	teams, err := r.selectTeams(ctx, query, args)
	if err != nil {
		return bingo.Team{}, false, err
	}
	if len(teams) == 0 {
		return bingo.Team{}, false, nil
	}
	return teams[0], true, nil
}

func (r *TeamRepository) ListByEvent(ctx context.Context, eventID string) ([]bingo.Team, error) {
	query, args, err := teamBaseSelectBuilder().
		Where(
			qb.Eq("t.event_public_id", eventID),
			qb.IsNull("t.deleted_at"),
		).
		OrderBy("t.public_id", "m.joined_at", "m.player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams by event query: %w", err)
	}
	return r.selectTeams(ctx, query, args)
}

// Upsert replaces the team's roster with the given members.
func (r *TeamRepository) Upsert(ctx context.Context, team bingo.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert team: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("bingo_teams", teamInsertModel{
		PublicID: team.ID,
		EventID:  team.EventID,
		Name:     team.Name,
	}, qb.OnConflict("public_id").Where("deleted_at IS NULL").DoUpdateExcluded("name"))
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team %s: %w", team.ID, err)
	}

	query, args, err = qb.Update("bingo_team_members").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("team_public_id", team.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear team members query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear team members %s: %w", team.ID, err)
	}

	if len(team.Members) > 0 {
		insert := qb.InsertInto("bingo_team_members").
			Columns("team_public_id", "event_public_id", "player_id", "joined_at")
		for _, member := range team.Members {
			insert.Values(team.ID, team.EventID, member.PlayerID, member.JoinedAt)
		}
		query, args, err = insert.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert team members query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert team members %s: %w", team.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert team tx: %w", err)
	}
	return nil
}

func (r *TeamRepository) selectTeams(ctx context.Context, query string, args []any) ([]bingo.Team, error) {
	var rows []teamMemberRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}
	return teamsFromRows(rows), nil
}

// teamsFromRows folds member rows into teams, keeping the query order.
func teamsFromRows(rows []teamMemberRow) []bingo.Team {
	out := make([]bingo.Team, 0)
	index := make(map[string]int)
	for _, row := range rows {
		pos, ok := index[row.TeamID]
		if !ok {
			pos = len(out)
			index[row.TeamID] = pos
			out = append(out, bingo.Team{ID: row.TeamID, EventID: row.EventID, Name: row.Name})
		}
		if !row.PlayerID.Valid {
			continue
		}
		out[pos].Members = append(out[pos].Members, bingo.TeamMember{
			PlayerID: row.PlayerID.String,
			JoinedAt: row.JoinedAt.Time,
		})
	}
	return out
}

func teamBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("t.public_id", "t.event_public_id", "t.name", "m.player_id", "m.joined_at").
		From(`bingo_teams t
LEFT JOIN bingo_team_members m ON m.team_public_id = t.public_id AND m.deleted_at IS NULL`)
}
