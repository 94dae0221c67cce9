package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFriendService_AddFriend_Validation(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer func() { _ = sqlDB.Close() }()

	fs := NewFriendService(&Service{DB: gormDB, TablePrefix: "mo_"})

	if err := fs.AddFriend(1, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for zero friend id, got %v", err)
	}
	if err := fs.AddFriend(1, 1); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for self friend, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestFriendService_AddFriend_UnknownTarget(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer func() { _ = sqlDB.Close() }()

	fs := NewFriendService(&Service{DB: gormDB, TablePrefix: "mo_"})

	mock.ExpectQuery("SELECT \\* FROM `mo_user` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows(userCols))

	if err := fs.AddFriend(1, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestFriendService_ListFriendIDs_Dedup(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer func() { _ = sqlDB.Close() }()

	fs := NewFriendService(&Service{DB: gormDB, TablePrefix: "mo_"})

	// 正反两条边指向同一个好友，双向查询去重
	mock.ExpectQuery("SELECT `friend_id` FROM `mo_friend` WHERE user_id = \\? AND status = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"friend_id"}).AddRow(uint64(2)).AddRow(uint64(3)))
	mock.ExpectQuery("SELECT `user_id` FROM `mo_friend` WHERE friend_id = \\? AND status = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(uint64(2)).AddRow(uint64(4)))

	ids, err := fs.ListFriendIDs(1)
	if err != nil {
		t.Fatalf("ListFriendIDs: %v", err)
	}
	if !reflect.DeepEqual(ids, []uint64{2, 3, 4}) {
		t.Fatalf("expected [2 3 4], got %v", ids)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
