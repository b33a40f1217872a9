package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/dealwarden/dealwarden/pkg/types"
)

const defaultPoolSize = 10

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if cfg.MaxConns == 0 {
		cfg.MaxConns = defaultPoolSize
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// CreateGame inserts a new tracked game.
func (s *PostgresStore) CreateGame(ctx context.Context, g *domain.Game) error {
	args := pgx.NamedArgs{
		"title":             g.Title,
		"itad_id":           g.ExternalID,
		"slug":              g.Slug,
		"game_type":         g.GameType,
		"boxart_url":        g.BoxartURL,
		"banner_url":        g.BannerURL,
		"release_date":      g.ReleaseDate,
		"tags":              g.Tags,
		"review_score":      g.ReviewScore,
		"early_access":      g.EarlyAccess,
		"history_low":       g.HistoryLow,
		"history_low_store": g.HistoryLowStore,
		"price_threshold":   g.PriceThreshold,
		"added_by":          g.AddedBy,
	}

	err := s.pool.QueryRow(ctx, queryCreateGame, args).Scan(
		&g.ID, &g.CreatedAt, &g.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateGame
	}
	return err
}

// GetGame retrieves a game by its internal ID.
func (s *PostgresStore) GetGame(ctx context.Context, id int64) (*domain.Game, error) {
	g := &domain.Game{}
	if err := scanGame(s.pool.QueryRow(ctx, queryGetGame, id), g); err != nil {
		return nil, err
	}
	return g, nil
}

// GetGameByExternalID retrieves a game by its pricing-service identifier.
func (s *PostgresStore) GetGameByExternalID(
	ctx context.Context,
	externalID string,
) (*domain.Game, error) {
	g := &domain.Game{}
	if err := scanGame(s.pool.QueryRow(ctx, queryGetGameByExternalID, externalID), g); err != nil {
		return nil, err
	}
	return g, nil
}

// ListGames queries games with optional filters, returning results and total count.
func (s *PostgresStore) ListGames(
	ctx context.Context,
	opts *GameQuery,
) ([]domain.Game, int, error) {
	dataSQL, countSQL, args := opts.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting games: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	games, err := collectGames(rows)
	if err != nil {
		return nil, 0, err
	}
	return games, total, nil
}

// ListGamesWithExternalID returns every game linked to the pricing service,
// ordered by ID. These are the games a refresh pass polls.
func (s *PostgresStore) ListGamesWithExternalID(ctx context.Context) ([]domain.Game, error) {
	rows, err := s.pool.Query(ctx, queryListGamesWithExternalID)
	if err != nil {
		return nil, fmt.Errorf("querying pollable games: %w", err)
	}
	defer rows.Close()

	return collectGames(rows)
}

// UpdateGame updates all mutable fields of a game.
func (s *PostgresStore) UpdateGame(ctx context.Context, g *domain.Game) error {
	args := pgx.NamedArgs{
		"id":                g.ID,
		"title":             g.Title,
		"slug":              g.Slug,
		"game_type":         g.GameType,
		"boxart_url":        g.BoxartURL,
		"banner_url":        g.BannerURL,
		"release_date":      g.ReleaseDate,
		"tags":              g.Tags,
		"review_score":      g.ReviewScore,
		"early_access":      g.EarlyAccess,
		"history_low":       g.HistoryLow,
		"history_low_store": g.HistoryLowStore,
		"price_threshold":   g.PriceThreshold,
	}

	err := s.pool.QueryRow(ctx, queryUpdateGame, args).Scan(&g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// UpdateGameThreshold sets the notification price threshold for a game.
func (s *PostgresStore) UpdateGameThreshold(
	ctx context.Context,
	id int64,
	threshold float64,
) error {
	tag, err := s.pool.Exec(ctx, queryUpdateGameThreshold, id, threshold)
	if err != nil {
		return fmt.Errorf("updating threshold: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateGameBanner sets the banner artwork URL for a game.
func (s *PostgresStore) UpdateGameBanner(ctx context.Context, id int64, bannerURL string) error {
	tag, err := s.pool.Exec(ctx, queryUpdateGameBanner, id, bannerURL)
	if err != nil {
		return fmt.Errorf("updating banner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGame removes a game and, via cascade, its deal history.
func (s *PostgresStore) DeleteGame(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, queryDeleteGame, id)
	if err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertDeals appends deal records in a single batch and returns how many
// rows were written.
func (s *PostgresStore) InsertDeals(ctx context.Context, deals []domain.Deal) (int, error) {
	if len(deals) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for i := range deals {
		d := &deals[i]
		batch.Queue(queryInsertDeal, pgx.NamedArgs{
			"game_id":       d.GameID,
			"sale_price":    d.SalePrice,
			"regular_price": d.RegularPrice,
			"cut_percent":   d.CutPercent,
			"shop_name":     d.ShopName,
			"shop_id":       d.ShopID,
			"deal_url":      d.URL,
			"drm":           d.DRM,
			"platforms":     d.Platforms,
			"flag":          d.Flag,
			"expires_at":    d.ExpiresAt,
			"source":        string(d.Source),
			"received_at":   d.ReceivedAt,
		})
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for range deals {
		if _, err := results.Exec(); err != nil {
			return written, fmt.Errorf("inserting deal: %w", err)
		}
		written++
	}
	return written, nil
}

// ListDealsByGame returns the most recent deals for one game.
func (s *PostgresStore) ListDealsByGame(
	ctx context.Context,
	gameID int64,
	limit int,
) ([]domain.Deal, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.pool.Query(ctx, queryListDealsByGame, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying deals: %w", err)
	}
	defer rows.Close()

	return collectDeals(rows)
}

// ListLatestDeals returns the most recent deals across all games.
func (s *PostgresStore) ListLatestDeals(ctx context.Context, limit int) ([]domain.Deal, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.pool.Query(ctx, queryListLatestDeals, limit)
	if err != nil {
		return nil, fmt.Errorf("querying latest deals: %w", err)
	}
	defer rows.Close()

	return collectDeals(rows)
}

// BestPriceByGame returns the lowest stored sale price for every game that
// has at least one deal. Games without deals are absent from the map.
func (s *PostgresStore) BestPriceByGame(ctx context.Context) (map[int64]float64, error) {
	rows, err := s.pool.Query(ctx, queryBestPriceByGame)
	if err != nil {
		return nil, fmt.Errorf("querying best prices: %w", err)
	}
	defer rows.Close()

	best := make(map[int64]float64)
	for rows.Next() {
		var gameID int64
		var price float64
		if err := rows.Scan(&gameID, &price); err != nil {
			return nil, fmt.Errorf("scanning best price: %w", err)
		}
		best[gameID] = price
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating best prices: %w", err)
	}
	return best, nil
}

// BestDeals returns one row per game: its lowest-priced stored deal joined
// with game display fields. Ties go to the earliest observation.
func (s *PostgresStore) BestDeals(ctx context.Context) ([]domain.GameDeal, error) {
	rows, err := s.pool.Query(ctx, queryBestDeals)
	if err != nil {
		return nil, fmt.Errorf("querying best deals: %w", err)
	}
	defer rows.Close()

	var out []domain.GameDeal
	for rows.Next() {
		var gd domain.GameDeal
		if err := rows.Scan(
			&gd.GameID, &gd.Title, &gd.BoxartURL, &gd.ExternalID,
			&gd.SalePrice, &gd.Regular, &gd.CutPercent,
			&gd.ShopName, &gd.URL, &gd.Flag, &gd.ReceivedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning best deal: %w", err)
		}
		out = append(out, gd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating best deals: %w", err)
	}
	return out, nil
}

// CreateUser inserts a new account.
func (s *PostgresStore) CreateUser(ctx context.Context, u *domain.User) error {
	args := pgx.NamedArgs{
		"id":            u.ID,
		"email":         u.Email,
		"name":          u.Name,
		"role":          string(u.Role),
		"password_hash": u.PasswordHash,
	}

	err := s.pool.QueryRow(ctx, queryCreateUser, args).Scan(&u.CreatedAt)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

// GetUser retrieves a user by ID.
func (s *PostgresStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u := &domain.User{}
	err := s.pool.QueryRow(ctx, queryGetUser, id).Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	err := s.pool.QueryRow(ctx, queryGetUserByEmail, email).Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns all accounts in creation order.
func (s *PostgresStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, queryListUsers)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

// CountUsers returns the total number of accounts.
func (s *PostgresStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, queryCountUsers).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

// UpdateUserRole changes a user's role.
func (s *PostgresStore) UpdateUserRole(ctx context.Context, id string, role domain.Role) error {
	tag, err := s.pool.Exec(ctx, queryUpdateUserRole, id, string(role))
	if err != nil {
		return fmt.Errorf("updating role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes an account.
func (s *PostgresStore) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteUser, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateInvites inserts a batch of invite codes for one creator.
func (s *PostgresStore) CreateInvites(
	ctx context.Context,
	createdBy string,
	codes []string,
) ([]domain.InviteCode, error) {
	out := make([]domain.InviteCode, 0, len(codes))
	for _, code := range codes {
		inv := domain.InviteCode{Code: code, CreatedBy: createdBy}
		args := pgx.NamedArgs{
			"code":       code,
			"created_by": createdBy,
		}
		if err := s.pool.QueryRow(ctx, queryCreateInvite, args).Scan(
			&inv.ID, &inv.CreatedAt,
		); err != nil {
			return out, fmt.Errorf("inserting invite code: %w", err)
		}
		out = append(out, inv)
	}
	return out, nil
}

// ListInvites returns all invite codes with creator and redeemer names resolved.
func (s *PostgresStore) ListInvites(ctx context.Context) ([]domain.InviteCode, error) {
	rows, err := s.pool.Query(ctx, queryListInvites)
	if err != nil {
		return nil, fmt.Errorf("querying invites: %w", err)
	}
	defer rows.Close()

	var invites []domain.InviteCode
	for rows.Next() {
		var inv domain.InviteCode
		if err := rows.Scan(
			&inv.ID, &inv.Code, &inv.CreatedBy, &inv.RedeemedBy, &inv.RedeemedAt,
			&inv.CreatedAt, &inv.CreatedByName, &inv.RedeemedByName,
		); err != nil {
			return nil, fmt.Errorf("scanning invite: %w", err)
		}
		invites = append(invites, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invites: %w", err)
	}
	return invites, nil
}

// GetInviteByCode retrieves an invite code.
func (s *PostgresStore) GetInviteByCode(ctx context.Context, code string) (*domain.InviteCode, error) {
	inv := &domain.InviteCode{}
	err := s.pool.QueryRow(ctx, queryGetInviteByCode, code).Scan(
		&inv.ID, &inv.Code, &inv.CreatedBy, &inv.RedeemedBy, &inv.RedeemedAt, &inv.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// RedeemInvite marks an invite as redeemed by the given user. The guarded
// UPDATE makes concurrent redeems race-safe: exactly one wins. Redeeming a
// code the same user already holds is a no-op success; a code held by
// someone else returns ErrInviteRedeemed.
func (s *PostgresStore) RedeemInvite(
	ctx context.Context,
	code string,
	userID string,
) (*domain.InviteCode, error) {
	inv := &domain.InviteCode{}
	err := s.pool.QueryRow(ctx, queryRedeemInvite, code, userID).Scan(
		&inv.ID, &inv.Code, &inv.CreatedBy, &inv.RedeemedBy, &inv.RedeemedAt, &inv.CreatedAt,
	)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("redeeming invite: %w", err)
	}

	// The UPDATE matched nothing: either the code does not exist or it was
	// already redeemed.
	existing, getErr := s.GetInviteByCode(ctx, code)
	if getErr != nil {
		return nil, getErr
	}
	if existing.RedeemedBy != nil && *existing.RedeemedBy == userID {
		return existing, nil
	}
	return nil, ErrInviteRedeemed
}

// HasRedeemedInvite reports whether the user has redeemed any invite code.
func (s *PostgresStore) HasRedeemedInvite(ctx context.Context, userID string) (bool, error) {
	var ok bool
	if err := s.pool.QueryRow(ctx, queryHasRedeemedInvite, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("checking invite redemption: %w", err)
	}
	return ok, nil
}

// DeleteInvite removes an unredeemed invite code. Redeemed codes are
// immutable audit records and cannot be deleted.
func (s *PostgresStore) DeleteInvite(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, queryDeleteInvite, id)
	if err != nil {
		return fmt.Errorf("deleting invite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertJobRun records the start of a job execution and returns its ID.
func (s *PostgresStore) InsertJobRun(ctx context.Context, jobName string) (string, error) {
	var id string
	if err := s.pool.QueryRow(ctx, queryInsertJobRun, jobName).Scan(&id); err != nil {
		return "", fmt.Errorf("inserting job run: %w", err)
	}
	return id, nil
}

// CompleteJobRun records the outcome of a job execution.
func (s *PostgresStore) CompleteJobRun(
	ctx context.Context,
	id string,
	status string,
	errText string,
	rowsAffected int,
) error {
	_, err := s.pool.Exec(ctx, queryCompleteJobRun, id, status, errText, rowsAffected)
	if err != nil {
		return fmt.Errorf("completing job run: %w", err)
	}
	return nil
}

// ListJobRuns returns recent runs of the named job, newest first.
func (s *PostgresStore) ListJobRuns(
	ctx context.Context,
	jobName string,
	limit int,
) ([]domain.JobRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, queryListJobRuns, jobName, limit)
	if err != nil {
		return nil, fmt.Errorf("querying job runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.JobRun
	for rows.Next() {
		var r domain.JobRun
		if err := rows.Scan(
			&r.ID, &r.JobName, &r.StartedAt, &r.CompletedAt,
			&r.Status, &r.ErrorText, &r.RowsAffected,
		); err != nil {
			return nil, fmt.Errorf("scanning job run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job runs: %w", err)
	}
	return runs, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func scanGame(row pgx.Row, g *domain.Game) error {
	err := row.Scan(
		&g.ID, &g.Title, &g.ExternalID, &g.Slug, &g.GameType,
		&g.BoxartURL, &g.BannerURL, &g.ReleaseDate, &g.Tags,
		&g.ReviewScore, &g.EarlyAccess,
		&g.HistoryLow, &g.HistoryLowStore, &g.PriceThreshold,
		&g.AddedBy, &g.CreatedAt, &g.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func collectGames(rows pgx.Rows) ([]domain.Game, error) {
	var games []domain.Game
	for rows.Next() {
		var g domain.Game
		if err := scanGame(rows, &g); err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating games: %w", err)
	}
	return games, nil
}

func collectDeals(rows pgx.Rows) ([]domain.Deal, error) {
	var deals []domain.Deal
	for rows.Next() {
		var d domain.Deal
		if err := rows.Scan(
			&d.ID, &d.GameID, &d.SalePrice, &d.RegularPrice, &d.CutPercent,
			&d.ShopName, &d.ShopID, &d.URL, &d.DRM, &d.Platforms, &d.Flag,
			&d.ExpiresAt, &d.Source, &d.ReceivedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning deal: %w", err)
		}
		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deals: %w", err)
	}
	return deals, nil
}
