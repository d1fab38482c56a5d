package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HarveyGG/OpenStock/internal/domain"
)

// UserRepo — read-only доступ к пользовательской БД.
//
// Mail-подсистема не владеет таблицами users/watchlists — их ведёт
// основное приложение. Здесь только выборки, необходимые рассылке.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo создаёт новый UserRepo.
func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// ListDigestUsers возвращает всех получателей daily digest.
func (r *UserRepo) ListDigestUsers(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT email, name,
		       COALESCE(country, ''),
		       COALESCE(investment_goals, ''),
		       COALESCE(risk_tolerance, ''),
		       COALESCE(preferred_industry, '')
		FROM users
		WHERE news_digest_enabled = true
		ORDER BY email ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list digest users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.Email,
			&u.Name,
			&u.Country,
			&u.InvestmentGoals,
			&u.RiskTolerance,
			&u.PreferredIndustry,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// WatchlistSymbols возвращает тикеры из watchlist пользователя.
func (r *UserRepo) WatchlistSymbols(ctx context.Context, email string) ([]string, error) {
	query := `
		SELECT DISTINCT w.symbol
		FROM watchlists w
		JOIN users u ON u.id = w.user_id
		WHERE u.email = $1
		ORDER BY w.symbol ASC
	`
	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("watchlist symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}
