package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the subset of pgx used by the query layer.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Querier is implemented by *Queries. Handlers depend on this interface so
// tests can swap in fakes.
type Querier interface {
	CreateUser(ctx context.Context, params CreateUserParams) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetFavoriteRecipeIDs(ctx context.Context, userID int64) ([]string, error)
	AddFavoriteRecipe(ctx context.Context, userID int64, recipeID string) error
	RemoveFavoriteRecipe(ctx context.Context, userID int64, recipeID string) error
	CheckUsersTableExists(ctx context.Context) (bool, error)
}

var _ Querier = (*Queries)(nil)

type User struct {
	ID                int64
	Username          string
	Email             string
	FirstName         string
	LastName          pgtype.Text
	PasswordHash      string
	FavoriteRecipeIDs []string
	CreatedAt         pgtype.Timestamptz
}

type CreateUserParams struct {
	Username     string
	Email        string
	FirstName    string
	LastName     pgtype.Text
	PasswordHash string
}

const createUser = `
INSERT INTO users (username, email, first_name, last_name, password_hash)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`

func (q *Queries) CreateUser(ctx context.Context, params CreateUserParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, createUser,
		params.Username,
		params.Email,
		params.FirstName,
		params.LastName,
		params.PasswordHash,
	).Scan(&id)
	return id, err
}

const getUserByUsername = `
SELECT id, username, email, first_name, last_name, password_hash, favorite_recipe_ids, created_at
FROM users
WHERE username = $1
`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, getUserByUsername, username).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.FavoriteRecipeIDs,
		&u.CreatedAt,
	)
	return u, err
}

const getUserByID = `
SELECT id, username, email, first_name, last_name, password_hash, favorite_recipe_ids, created_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, getUserByID, id).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.FavoriteRecipeIDs,
		&u.CreatedAt,
	)
	return u, err
}

const getFavoriteRecipeIDs = `
SELECT favorite_recipe_ids
FROM users
WHERE id = $1
`

func (q *Queries) GetFavoriteRecipeIDs(ctx context.Context, userID int64) ([]string, error) {
	var ids []string
	err := q.db.QueryRow(ctx, getFavoriteRecipeIDs, userID).Scan(&ids)
	return ids, err
}

// addFavoriteRecipe appends in a single statement so concurrent toggles never
// lose writes, and is a no-op when the ID is already present (set semantics).
const addFavoriteRecipe = `
UPDATE users
SET favorite_recipe_ids = CASE
    WHEN $2 = ANY(favorite_recipe_ids) THEN favorite_recipe_ids
    ELSE array_append(favorite_recipe_ids, $2)
END
WHERE id = $1
`

func (q *Queries) AddFavoriteRecipe(ctx context.Context, userID int64, recipeID string) error {
	tag, err := q.db.Exec(ctx, addFavoriteRecipe, userID, recipeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// array_remove drops every occurrence, which also repairs any duplicate
// entries written before set semantics were enforced.
const removeFavoriteRecipe = `
UPDATE users
SET favorite_recipe_ids = array_remove(favorite_recipe_ids, $2)
WHERE id = $1
`

func (q *Queries) RemoveFavoriteRecipe(ctx context.Context, userID int64, recipeID string) error {
	tag, err := q.db.Exec(ctx, removeFavoriteRecipe, userID, recipeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const checkUsersTableExists = `
SELECT EXISTS (
    SELECT FROM information_schema.tables
    WHERE table_schema = 'public' AND table_name = 'users'
)
`

func (q *Queries) CheckUsersTableExists(ctx context.Context) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, checkUsersTableExists).Scan(&exists)
	return exists, err
}
