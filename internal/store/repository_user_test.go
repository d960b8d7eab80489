// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	userRowColumns = []string{"id", "username", "email", "password_hash", "is_deleted", "deleted_at", "created_at", "updated_at"}
	roleRowColumns = []string{"code", "display_name", "description"}
)

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &userRepository{
		q:      newDB(db, l),
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func pgConstraintError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func expectRoles(mock sqlmock.Sqlmock, userID int64, codes ...string) {
	rows := sqlmock.NewRows(roleRowColumns)
	for _, code := range codes {
		rows.AddRow(code, strings.ToLower(code), "")
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM roles r JOIN user_roles ur")).
		WithArgs(userID).
		WillReturnRows(rows)
}

func TestFindByIdentifier_ByEmail(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(email) = LOWER($1)")).
		WithArgs("Alice@X.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(1, "alice", "alice@x.com", "hash", false, nil, now, now))
	expectRoles(mock, 1, "USER")

	user, err := repo.FindByIdentifier(context.Background(), "Alice@X.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.UserID != 1 || user.Username != "alice" || user.Email != "alice@x.com" {
		t.Errorf("unexpected user: %+v", user)
	}
	if len(user.Roles) != 1 || user.Roles[0].Code != "USER" {
		t.Errorf("expected USER role, got %+v", user.Roles)
	}
	if user.DeletedAt != nil {
		t.Errorf("expected nil DeletedAt, got %v", user.DeletedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindByIdentifier_ByUsername(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(username) = LOWER($1)")).
		WithArgs("ALICE").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(1, "alice", "alice@x.com", "hash", false, nil, now, now))
	expectRoles(mock, 1)

	user, err := repo.FindByIdentifier(context.Background(), "ALICE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Roles == nil || len(user.Roles) != 0 {
		t.Errorf("expected empty non-nil roles, got %#v", user.Roles)
	}
}

func TestFindByIdentifier_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("FROM users").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.FindByIdentifier(context.Background(), "ghost")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFindByID_DBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("FROM users").
		WithArgs(int64(5)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindByID(context.Background(), 5)
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}

func TestFindByID_SoftDeleted(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("FROM users").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(5, "gone", "gone@x.com", "hash", true, now, now, now))
	expectRoles(mock, 5, "USER")

	user, err := repo.FindByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !user.IsDeleted || user.DeletedAt == nil {
		t.Errorf("expected soft-deleted user, got %+v", user)
	}
}

func TestFindByID_RolesQueryError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("FROM users").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(5, "bob", "bob@x.com", "hash", false, nil, now, now))
	mock.ExpectQuery("FROM roles r").
		WillReturnError(errors.New("boom"))

	_, err := repo.FindByID(context.Background(), 5)
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}

func TestExistsByUsername(t *testing.T) {
	tests := []struct {
		name string
		rows *sqlmock.Rows
		want bool
	}{
		{name: "exists", rows: sqlmock.NewRows([]string{"?column?"}).AddRow(1), want: true},
		{name: "absent", rows: sqlmock.NewRows([]string{"?column?"}), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newTestUserRepo(t)
			defer db.Close()

			mock.ExpectQuery(regexp.QuoteMeta("LOWER(username) = LOWER($1)")).
				WithArgs("Alice").
				WillReturnRows(tt.rows)

			got, err := repo.ExistsByUsername(context.Background(), "Alice")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestExistsByEmail_DBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(email) = LOWER($1)")).
		WillReturnError(errors.New("timeout"))

	_, err := repo.ExistsByEmail(context.Background(), "a@x.com")
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "hash",
	}
	roles := []models.Role{{Code: "USER", DisplayName: "User"}}
	now := time.Now()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Username, user.Email, user.PasswordHash).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_deleted", "created_at", "updated_at"}).
			AddRow(1, false, now, now))
	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(int64(1), "USER").
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.CreateUser(ctx, user, roles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 1 {
		t.Errorf("expected UserID=1, got %d", created.UserID)
	}
	if created.Username != user.Username {
		t.Errorf("expected username %s, got %s", user.Username, created.Username)
	}
	if len(created.Roles) != 1 || created.Roles[0].Code != "USER" {
		t.Errorf("expected USER role, got %+v", created.Roles)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{name: "username", constraint: usersUsernameUniqueIndex, want: ErrUsernameAlreadyExists},
		{name: "email", constraint: usersEmailUniqueIndex, want: ErrEmailAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newTestUserRepo(t)
			defer db.Close()

			mock.ExpectQuery("INSERT INTO users").
				WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
				WillReturnError(pgConstraintError(pgerrcode.UniqueViolation, tt.constraint))

			_, err := repo.CreateUser(context.Background(), models.User{Username: "john"}, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(context.Background(), models.User{Username: "john"}, nil)
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestCreateUser_LinkRolesError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_deleted", "created_at", "updated_at"}).
			AddRow(1, false, now, now))
	mock.ExpectExec("INSERT INTO user_roles").
		WillReturnError(pgError(pgerrcode.ForeignKeyViolation))

	_, err := repo.CreateUser(context.Background(), models.User{Username: "john"}, []models.Role{{Code: "NOPE"}})
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got %v", err)
	}
}

func TestFindByCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewRoleRepository(newDB(db, logger.Nop()), logger.Nop())

	mock.ExpectQuery("FROM roles").
		WithArgs("USER").
		WillReturnRows(sqlmock.NewRows(roleRowColumns).AddRow("USER", "User", "Regular forum member"))
	mock.ExpectQuery("FROM roles").
		WithArgs("ADMIN").
		WillReturnRows(sqlmock.NewRows(roleRowColumns))

	role, err := repo.FindByCode(context.Background(), "USER")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role.Code != "USER" || role.DisplayName != "User" {
		t.Errorf("unexpected role: %+v", role)
	}

	_, err = repo.FindByCode(context.Background(), "ADMIN")
	if !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}
