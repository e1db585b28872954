package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"

	apperrors "github.com/abrezinsky/racenight/internal/errors"
	"github.com/abrezinsky/racenight/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL DEFAULT '',
			email TEXT UNIQUE NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			permissions TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS parties (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scheduled_date TEXT UNIQUE NOT NULL,
			active BOOLEAN NOT NULL DEFAULT 1,
			join_code TEXT UNIQUE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS party_members (
			party_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			role TEXT NOT NULL,
			joined_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (party_id, user_id),
			FOREIGN KEY (party_id) REFERENCES parties(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS races (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			party_id INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (party_id) REFERENCES parties(id)
		)`,
		// At most one open race per party; concurrent auto-creates hit
		// this index and fall back to reusing the existing row.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_races_party_open
			ON races(party_id) WHERE status != 'COMPLETED'`,
		`CREATE TABLE IF NOT EXISTS race_racers (
			race_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			PRIMARY KEY (race_id, user_id),
			FOREIGN KEY (race_id) REFERENCES races(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS race_cars (
			race_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL DEFAULT 0,
			car_id INTEGER NOT NULL,
			mode TEXT NOT NULL,
			PRIMARY KEY (race_id, user_id),
			FOREIGN KEY (race_id) REFERENCES races(id) ON DELETE CASCADE,
			FOREIGN KEY (car_id) REFERENCES cars(id)
		)`,
		`CREATE TABLE IF NOT EXISTS race_maps (
			race_id INTEGER PRIMARY KEY,
			map_id INTEGER NOT NULL,
			FOREIGN KEY (race_id) REFERENCES races(id) ON DELETE CASCADE,
			FOREIGN KEY (map_id) REFERENCES maps(id)
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			race_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			value REAL NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (race_id, user_id),
			FOREIGN KEY (race_id) REFERENCES races(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS cars (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS maps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_races_party ON races(party_id)`,
		`CREATE INDEX IF NOT EXISTS idx_members_user ON party_members(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_race ON scores(race_id)`,
	}

	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a sqlite uniqueness
// constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// ===== Parties =====

func (r *Repository) scanParty(row *sql.Row) (*models.Party, error) {
	var p models.Party
	err := row.Scan(&p.ID, &p.ScheduledDate, &p.Active, &p.JoinCode, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetParty returns a party by id
func (r *Repository) GetParty(ctx context.Context, id int64) (*models.Party, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, scheduled_date, active, join_code, created_at FROM parties WHERE id = ?`, id)
	return r.scanParty(row)
}

// GetPartyByDate returns the party scheduled for a calendar date
func (r *Repository) GetPartyByDate(ctx context.Context, date string) (*models.Party, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, scheduled_date, active, join_code, created_at FROM parties WHERE scheduled_date = ?`, date)
	return r.scanParty(row)
}

// GetPartyByJoinCode returns the party carrying a join code
func (r *Repository) GetPartyByJoinCode(ctx context.Context, code string) (*models.Party, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, scheduled_date, active, join_code, created_at FROM parties WHERE join_code = ?`, code)
	return r.scanParty(row)
}

// CreateParty inserts a party and its HOST member in one transaction
func (r *Repository) CreateParty(ctx context.Context, date, joinCode string, hostID int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO parties (scheduled_date, active, join_code, created_at) VALUES (?, 1, ?, ?)`,
		date, joinCode, now)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO party_members (party_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)`,
		id, hostID, models.RoleHost, now)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// SetPartyActive toggles the party's active flag
func (r *Repository) SetPartyActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE parties SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListParties returns all parties, newest date first
func (r *Repository) ListParties(ctx context.Context) ([]models.Party, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, scheduled_date, active, join_code, created_at FROM parties ORDER BY scheduled_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parties []models.Party
	for rows.Next() {
		var p models.Party
		if err := rows.Scan(&p.ID, &p.ScheduledDate, &p.Active, &p.JoinCode, &p.CreatedAt); err != nil {
			return nil, err
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

// ===== Members =====

// ListMembers returns a party's members, host first
func (r *Repository) ListMembers(ctx context.Context, partyID int64) ([]models.PartyMember, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT pm.party_id, pm.user_id, COALESCE(u.name, ''), pm.role, pm.joined_at
		FROM party_members pm
		LEFT JOIN users u ON u.id = pm.user_id
		WHERE pm.party_id = ?
		ORDER BY CASE pm.role WHEN 'HOST' THEN 0 WHEN 'CO_HOST' THEN 1 ELSE 2 END, pm.joined_at`,
		partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.PartyMember
	for rows.Next() {
		var m models.PartyMember
		if err := rows.Scan(&m.PartyID, &m.UserID, &m.UserName, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMember returns one party membership row
func (r *Repository) GetMember(ctx context.Context, partyID, userID int64) (*models.PartyMember, error) {
	var m models.PartyMember
	err := r.db.QueryRowContext(ctx, `
		SELECT pm.party_id, pm.user_id, COALESCE(u.name, ''), pm.role, pm.joined_at
		FROM party_members pm
		LEFT JOIN users u ON u.id = pm.user_id
		WHERE pm.party_id = ? AND pm.user_id = ?`,
		partyID, userID).Scan(&m.PartyID, &m.UserID, &m.UserName, &m.Role, &m.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// AddMember adds a member; adding an existing member is a no-op
func (r *Repository) AddMember(ctx context.Context, partyID, userID int64, role models.Role) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO party_members (party_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(party_id, user_id) DO NOTHING`,
		partyID, userID, role, time.Now())
	return err
}

// SetMemberRole updates one member's role
func (r *Repository) SetMemberRole(ctx context.Context, partyID, userID int64, role models.Role) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE party_members SET role = ? WHERE party_id = ? AND user_id = ?`,
		role, partyID, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveMember deletes one membership row
func (r *Repository) RemoveMember(ctx context.Context, partyID, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM party_members WHERE party_id = ? AND user_id = ?`, partyID, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SwapHost atomically transfers HOST from one member to another. The
// former host becomes CO_HOST; exactly one HOST exists before and after.
func (r *Repository) SwapHost(ctx context.Context, partyID, fromUserID, toUserID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE party_members SET role = ? WHERE party_id = ? AND user_id = ? AND role = ?`,
		models.RoleCoHost, partyID, fromUserID, models.RoleHost)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.Conflictf("user %d is no longer host of party %d", fromUserID, partyID)
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE party_members SET role = ? WHERE party_id = ? AND user_id = ?`,
		models.RoleHost, partyID, toUserID)
	if err != nil {
		return err
	}
	rows, err = res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// ===== Races =====

// GetRace returns a race with its racer list
func (r *Repository) GetRace(ctx context.Context, id int64) (*models.Race, error) {
	var race models.Race
	err := r.db.QueryRowContext(ctx,
		`SELECT id, party_id, status, created_at FROM races WHERE id = ?`, id).
		Scan(&race.ID, &race.PartyID, &race.Status, &race.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM race_racers WHERE race_id = ? ORDER BY user_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		race.Racers = append(race.Racers, userID)
	}
	return &race, rows.Err()
}

// ListRacesByParty returns a party's races, newest first
func (r *Repository) ListRacesByParty(ctx context.Context, partyID int64) ([]models.Race, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, party_id, status, created_at FROM races WHERE party_id = ? ORDER BY created_at DESC, id DESC`,
		partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var races []models.Race
	for rows.Next() {
		var race models.Race
		if err := rows.Scan(&race.ID, &race.PartyID, &race.Status, &race.CreatedAt); err != nil {
			return nil, err
		}
		races = append(races, race)
	}
	return races, rows.Err()
}

// CreateRace inserts a race in PENDING status
func (r *Repository) CreateRace(ctx context.Context, partyID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO races (party_id, status, created_at) VALUES (?, ?, ?)`,
		partyID, models.RacePending, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateRaceStatus applies a status transition guarded by the expected
// current status, so a concurrently-advanced race is not overwritten
func (r *Repository) UpdateRaceStatus(ctx context.Context, id int64, from, to models.RaceStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE races SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.Conflictf("race %d is no longer %s", id, from)
	}
	return nil
}

// AddRacers appends racers to a race; duplicates are no-ops
func (r *Repository) AddRacers(ctx context.Context, raceID int64, userIDs []int64) error {
	for _, userID := range userIDs {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO race_racers (race_id, user_id) VALUES (?, ?)
			ON CONFLICT(race_id, user_id) DO NOTHING`,
			raceID, userID)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReplaceCarAttribution replaces the race's car attribution wholesale
func (r *Repository) ReplaceCarAttribution(ctx context.Context, raceID int64, mode models.AttributionMode, entries []models.CarAssignment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM race_cars WHERE race_id = ?`, raceID); err != nil {
		return err
	}

	for _, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO race_cars (race_id, user_id, car_id, mode) VALUES (?, ?, ?, ?)`,
			raceID, e.UserID, e.CarID, mode)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetCarAttribution returns the race's car attribution, or nil when
// no draw has happened
func (r *Repository) GetCarAttribution(ctx context.Context, raceID int64) (*models.CarAttribution, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rc.user_id, rc.car_id, rc.mode, c.name
		FROM race_cars rc
		JOIN cars c ON c.id = rc.car_id
		WHERE rc.race_id = ?
		ORDER BY rc.user_id`,
		raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attribution := &models.CarAttribution{RaceID: raceID}
	for rows.Next() {
		var e models.CarAssignment
		var mode models.AttributionMode
		if err := rows.Scan(&e.UserID, &e.CarID, &mode, &e.CarName); err != nil {
			return nil, err
		}
		attribution.Mode = mode
		attribution.Entries = append(attribution.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(attribution.Entries) == 0 {
		return nil, nil
	}
	return attribution, nil
}

// SetMapAssignment upserts the race's single map assignment
func (r *Repository) SetMapAssignment(ctx context.Context, raceID, mapID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO race_maps (race_id, map_id) VALUES (?, ?)
		ON CONFLICT(race_id) DO UPDATE SET map_id = excluded.map_id`,
		raceID, mapID)
	return err
}

// GetMapAssignment returns the race's map, or nil when none is assigned
func (r *Repository) GetMapAssignment(ctx context.Context, raceID int64) (*models.MapAssignment, error) {
	var a models.MapAssignment
	err := r.db.QueryRowContext(ctx, `
		SELECT rm.race_id, rm.map_id, m.name
		FROM race_maps rm
		JOIN maps m ON m.id = rm.map_id
		WHERE rm.race_id = ?`,
		raceID).Scan(&a.RaceID, &a.MapID, &a.MapName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ===== Scores =====

// UpsertScore saves or overwrites a score keyed by (race, user)
func (r *Repository) UpsertScore(ctx context.Context, raceID, userID int64, value float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scores (race_id, user_id, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(race_id, user_id) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		raceID, userID, value, time.Now())
	return err
}

// ListScoresByRace returns a race's scores, best value first
func (r *Repository) ListScoresByRace(ctx context.Context, raceID int64) ([]models.Score, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT race_id, user_id, value, updated_at FROM scores WHERE race_id = ? ORDER BY value DESC, user_id`,
		raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []models.Score
	for rows.Next() {
		var s models.Score
		if err := rows.Scan(&s.RaceID, &s.UserID, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// ===== Catalog =====

func (r *Repository) listCars(ctx context.Context, activeOnly bool) ([]models.Car, error) {
	query := `SELECT id, name, active FROM cars`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []models.Car
	for rows.Next() {
		var c models.Car
		if err := rows.Scan(&c.ID, &c.Name, &c.Active); err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

// ListCars returns all catalog cars
func (r *Repository) ListCars(ctx context.Context) ([]models.Car, error) {
	return r.listCars(ctx, false)
}

// ListActiveCars returns catalog cars eligible for random draw
func (r *Repository) ListActiveCars(ctx context.Context) ([]models.Car, error) {
	return r.listCars(ctx, true)
}

// GetCar returns one catalog car
func (r *Repository) GetCar(ctx context.Context, id int64) (*models.Car, error) {
	var c models.Car
	err := r.db.QueryRowContext(ctx, `SELECT id, name, active FROM cars WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Active)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCar adds a car to the catalog
func (r *Repository) CreateCar(ctx context.Context, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO cars (name, active) VALUES (?, 1)`, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SetCarActive toggles a car's draw eligibility
func (r *Repository) SetCarActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE cars SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCar removes a car from the catalog
func (r *Repository) DeleteCar(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) listMaps(ctx context.Context, activeOnly bool) ([]models.GameMap, error) {
	query := `SELECT id, name, active FROM maps`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var maps []models.GameMap
	for rows.Next() {
		var m models.GameMap
		if err := rows.Scan(&m.ID, &m.Name, &m.Active); err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return maps, rows.Err()
}

// ListMaps returns all catalog maps
func (r *Repository) ListMaps(ctx context.Context) ([]models.GameMap, error) {
	return r.listMaps(ctx, false)
}

// ListActiveMaps returns catalog maps eligible for random draw
func (r *Repository) ListActiveMaps(ctx context.Context) ([]models.GameMap, error) {
	return r.listMaps(ctx, true)
}

// GetMap returns one catalog map
func (r *Repository) GetMap(ctx context.Context, id int64) (*models.GameMap, error) {
	var m models.GameMap
	err := r.db.QueryRowContext(ctx, `SELECT id, name, active FROM maps WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &m.Active)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMap adds a map to the catalog
func (r *Repository) CreateMap(ctx context.Context, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO maps (name, active) VALUES (?, 1)`, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SetMapActive toggles a map's draw eligibility
func (r *Repository) SetMapActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE maps SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMap removes a map from the catalog
func (r *Repository) DeleteMap(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM maps WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ===== Users =====

func scanUserPermissions(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var perms []string
	if err := json.Unmarshal([]byte(raw), &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *Repository) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var rawPerms string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &rawPerms, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Permissions, err = scanUserPermissions(rawPerms)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUser returns a user by id
func (r *Repository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, permissions, created_at FROM users WHERE id = ?`, id)
	return r.scanUser(row)
}

// GetUserByEmail returns a user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, permissions, created_at FROM users WHERE email = ?`, email)
	return r.scanUser(row)
}

// ListUsers returns all users
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, role, permissions, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var rawPerms string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &rawPerms, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Permissions, err = scanUserPermissions(rawPerms)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpsertUser provisions an account on first login, keyed by email
func (r *Repository) UpsertUser(ctx context.Context, name, email string) (int64, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (name, email, created_at) VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET name = excluded.name`,
		name, email, time.Now())
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.db.QueryRowContext(ctx, `SELECT id FROM users WHERE email = ?`, email).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// SetUserRole updates a user's global role
func (r *Repository) SetUserRole(ctx context.Context, id int64, role string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SetUserPermissions replaces a user's permission set
func (r *Repository) SetUserPermissions(ctx context.Context, id int64, permissions []string) error {
	raw, err := json.Marshal(permissions)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE users SET permissions = ? WHERE id = ?`, string(raw), id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user account
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ===== Settings =====

// GetSetting returns a setting value, or empty string when unset
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetSetting upserts a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}
