package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
)

var userCols = []string{"id", "uid", "username", "nickname", "password", "avatar", "role", "created_at", "updated_at", "deleted_at"}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer func() { _ = sqlDB.Close() }()

	us := NewUserService(&Service{DB: gormDB, TablePrefix: "mo_"})

	now := time.Now()
	rows := sqlmock.NewRows(userCols).
		AddRow(uint64(1), "u1", "alice", "", "hash", "", "user", now, now, nil)
	mock.ExpectQuery("SELECT \\* FROM `mo_user` WHERE username = \\?").WillReturnRows(rows)

	if _, err := us.Register(RegisterReq{Username: "alice", Password: "pw"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate username, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUserService_Register(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer func() { _ = sqlDB.Close() }()

	us := NewUserService(&Service{DB: gormDB, TablePrefix: "mo_"})

	mock.ExpectQuery("SELECT \\* FROM `mo_user` WHERE username = \\?").
		WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectExec("INSERT INTO `mo_user`").
		WillReturnResult(sqlmock.NewResult(3, 1))

	dto, err := us.Register(RegisterReq{Username: " alice ", Password: "pw", Nickname: "Ally"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if dto.ID != 3 || dto.Username != "alice" || dto.Nickname != "Ally" {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if dto.UID == "" {
		t.Fatal("expected generated uid")
	}
	if dto.Role != "user" {
		t.Fatalf("expected role user, got %q", dto.Role)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUserService_Login(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer func() { _ = sqlDB.Close() }()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	us := NewUserService(&Service{DB: gormDB, RDB: rdb, TablePrefix: "mo_"})

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	now := time.Now()
	rows := sqlmock.NewRows(userCols).
		AddRow(uint64(1), "u1", "alice", "Ally", string(hash), "a.png", "user", now, now, nil)
	mock.ExpectQuery("SELECT \\* FROM `mo_user` WHERE username = \\?").WillReturnRows(rows)

	token, dto, err := us.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected token")
	}
	if dto.ID != 1 || dto.Nickname != "Ally" {
		t.Fatalf("unexpected dto: %+v", dto)
	}

	// token 已落 Redis
	val, err := mr.Get("mo:token:" + token)
	if err != nil {
		t.Fatalf("redis get: %v", err)
	}
	if val != "1" {
		t.Fatalf("expected stored uid 1, got %q", val)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer func() { _ = sqlDB.Close() }()

	us := NewUserService(&Service{DB: gormDB, TablePrefix: "mo_"})

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	now := time.Now()
	rows := sqlmock.NewRows(userCols).
		AddRow(uint64(1), "u1", "alice", "", string(hash), "", "user", now, now, nil)
	mock.ExpectQuery("SELECT \\* FROM `mo_user` WHERE username = \\?").WillReturnRows(rows)

	if _, _, err := us.Login(context.Background(), "alice", "wrong"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUserService_IsPrivileged(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer func() { _ = sqlDB.Close() }()

	us := NewUserService(&Service{DB: gormDB, TablePrefix: "mo_"})

	now := time.Now()
	mock.ExpectQuery("SELECT \\* FROM `mo_user` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(uint64(1), "u1", "root", "", "hash", "", "admin", now, now, nil))
	if !us.IsPrivileged(1) {
		t.Fatal("expected admin to be privileged")
	}

	mock.ExpectQuery("SELECT \\* FROM `mo_user` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(uint64(2), "u2", "bob", "", "hash", "", "user", now, now, nil))
	if us.IsPrivileged(2) {
		t.Fatal("expected plain user to not be privileged")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
