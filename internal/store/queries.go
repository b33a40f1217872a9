package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

// Game queries.
const (
	gameColumns = `
		id, title, itad_id, slug, game_type, boxart_url, banner_url,
		release_date, tags, review_score, early_access,
		history_low, history_low_store, price_threshold,
		added_by, created_at, updated_at`

	queryCreateGame = `
		INSERT INTO games (
			title, itad_id, slug, game_type, boxart_url, banner_url,
			release_date, tags, review_score, early_access,
			history_low, history_low_store, price_threshold,
			added_by, created_at, updated_at
		) VALUES (
			@title, @itad_id, @slug, @game_type, @boxart_url, @banner_url,
			@release_date, @tags, @review_score, @early_access,
			@history_low, @history_low_store, @price_threshold,
			@added_by, now(), now()
		)
		RETURNING id, created_at, updated_at`

	queryGetGame = `
		SELECT ` + gameColumns + `
		FROM games
		WHERE id = $1`

	queryGetGameByExternalID = `
		SELECT ` + gameColumns + `
		FROM games
		WHERE itad_id = $1`

	queryListGamesWithExternalID = `
		SELECT ` + gameColumns + `
		FROM games
		WHERE itad_id IS NOT NULL
		ORDER BY id`

	queryUpdateGame = `
		UPDATE games SET
			title = @title,
			slug = @slug,
			game_type = @game_type,
			boxart_url = @boxart_url,
			banner_url = @banner_url,
			release_date = @release_date,
			tags = @tags,
			review_score = @review_score,
			early_access = @early_access,
			history_low = @history_low,
			history_low_store = @history_low_store,
			price_threshold = @price_threshold,
			updated_at = now()
		WHERE id = @id
		RETURNING updated_at`

	queryUpdateGameThreshold = `
		UPDATE games SET
			price_threshold = $2,
			updated_at = now()
		WHERE id = $1`

	queryUpdateGameBanner = `
		UPDATE games SET
			banner_url = $2,
			updated_at = now()
		WHERE id = $1`

	queryDeleteGame = `DELETE FROM games WHERE id = $1`
)

// Deal queries.
const (
	dealColumns = `
		id, game_id, sale_price, regular_price, cut_percent,
		shop_name, shop_id, deal_url, drm, platforms, flag,
		expires_at, source, received_at`

	queryInsertDeal = `
		INSERT INTO deals (
			game_id, sale_price, regular_price, cut_percent,
			shop_name, shop_id, deal_url, drm, platforms, flag,
			expires_at, source, received_at
		) VALUES (
			@game_id, @sale_price, @regular_price, @cut_percent,
			@shop_name, @shop_id, @deal_url, @drm, @platforms, @flag,
			@expires_at, @source, @received_at
		)`

	queryListDealsByGame = `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE game_id = $1
		ORDER BY received_at DESC, id DESC
		LIMIT $2`

	queryListLatestDeals = `
		SELECT ` + dealColumns + `
		FROM deals
		ORDER BY received_at DESC, id DESC
		LIMIT $1`

	queryBestPriceByGame = `
		SELECT game_id, MIN(sale_price)
		FROM deals
		GROUP BY game_id`

	queryBestDeals = `
		SELECT DISTINCT ON (d.game_id)
			d.game_id, g.title, g.boxart_url, g.itad_id,
			d.sale_price, d.regular_price, d.cut_percent,
			d.shop_name, d.deal_url, d.flag, d.received_at
		FROM deals d
		JOIN games g ON g.id = d.game_id
		ORDER BY d.game_id, d.sale_price ASC, d.received_at ASC`
)

// User queries.
const (
	userColumns = `id, email, name, role, password_hash, created_at`

	queryCreateUser = `
		INSERT INTO users (id, email, name, role, password_hash, created_at)
		VALUES (@id, @email, @name, @role, @password_hash, now())
		RETURNING created_at`

	queryGetUser = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	queryGetUserByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1)`

	queryListUsers = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at`

	queryCountUsers = `SELECT COUNT(*) FROM users`

	queryUpdateUserRole = `UPDATE users SET role = $2 WHERE id = $1`

	queryDeleteUser = `DELETE FROM users WHERE id = $1`
)

// Invite code queries.
const (
	queryCreateInvite = `
		INSERT INTO invite_codes (code, created_by, created_at)
		VALUES (@code, @created_by, now())
		RETURNING id, created_at`

	queryListInvites = `
		SELECT i.id, i.code, i.created_by, i.redeemed_by, i.redeemed_at, i.created_at,
			COALESCE(c.name, ''), COALESCE(r.name, '')
		FROM invite_codes i
		LEFT JOIN users c ON c.id = i.created_by
		LEFT JOIN users r ON r.id = i.redeemed_by
		ORDER BY i.created_at DESC`

	queryGetInviteByCode = `
		SELECT id, code, created_by, redeemed_by, redeemed_at, created_at
		FROM invite_codes
		WHERE code = $1`

	queryRedeemInvite = `
		UPDATE invite_codes SET
			redeemed_by = $2,
			redeemed_at = now()
		WHERE code = $1 AND redeemed_by IS NULL
		RETURNING id, code, created_by, redeemed_by, redeemed_at, created_at`

	queryHasRedeemedInvite = `
		SELECT EXISTS(SELECT 1 FROM invite_codes WHERE redeemed_by = $1)`

	queryDeleteInvite = `
		DELETE FROM invite_codes
		WHERE id = $1 AND redeemed_by IS NULL`
)

// Job run queries.
const (
	queryInsertJobRun = `
		INSERT INTO job_runs (id, job_name, started_at, status)
		VALUES (gen_random_uuid(), $1, now(), 'running')
		RETURNING id`

	queryCompleteJobRun = `
		UPDATE job_runs SET
			completed_at = now(),
			status = $2,
			error_text = $3,
			rows_affected = $4
		WHERE id = $1`

	queryListJobRuns = `
		SELECT id, job_name, started_at, completed_at, status,
			COALESCE(error_text, ''), rows_affected
		FROM job_runs
		WHERE job_name = $1
		ORDER BY started_at DESC
		LIMIT $2`
)
