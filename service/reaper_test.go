package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNewReaper_DefaultInterval(t *testing.T) {
	r := NewReaper(nil, 0)
	if r.interval != DefaultReaperInterval {
		t.Fatalf("expected default interval, got %v", r.interval)
	}
	r = NewReaper(nil, 5*time.Second)
	if r.interval != 5*time.Second {
		t.Fatalf("expected 5s, got %v", r.interval)
	}
}

func TestReaper_SweepOnce_NothingExpired(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer func() { _ = sqlDB.Close() }()

	now := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
	ms := NewMomentService(&Service{DB: gormDB, TablePrefix: "mo_", Now: fixedClock(now)})
	r := NewReaper(ms, time.Hour)

	mock.ExpectQuery("SELECT `id` FROM `mo_moment` WHERE expires_at <= \\? LIMIT \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	n, err := r.SweepOnce()
	if err != nil {
		t.Fatalf("SweepOnce: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 purged, got %d", n)
	}
	// 没有可清的就不应该开事务
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestReaper_SweepOnce_PurgesCascade(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer func() { _ = sqlDB.Close() }()

	now := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
	ms := NewMomentService(&Service{DB: gormDB, TablePrefix: "mo_", Now: fixedClock(now)})
	r := NewReaper(ms, time.Hour)

	mock.ExpectQuery("SELECT `id` FROM `mo_moment` WHERE expires_at <= \\? LIMIT \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint64(9)).AddRow(uint64(10)))

	// 清扫走与显式删除完全相同的级联事务
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `mo_moment_reply` WHERE moment_id IN (?,?)")).
		WithArgs(uint64(9), uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `mo_moment_viewer` WHERE moment_id IN (?,?)")).
		WithArgs(uint64(9), uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `mo_moment` WHERE id IN (?,?)")).
		WithArgs(uint64(9), uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := r.SweepOnce()
	if err != nil {
		t.Fatalf("SweepOnce: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 purged, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestReaper_Sweep_StopsBelowBatchSize(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer func() { _ = sqlDB.Close() }()

	now := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
	ms := NewMomentService(&Service{DB: gormDB, TablePrefix: "mo_", Now: fixedClock(now)})
	r := NewReaper(ms, time.Hour)

	// 一批不满 500，Sweep 只跑一轮
	mock.ExpectQuery("SELECT `id` FROM `mo_moment` WHERE expires_at <= \\? LIMIT \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint64(3)))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `mo_moment_reply` WHERE moment_id IN (?)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `mo_moment_viewer` WHERE moment_id IN (?)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `mo_moment` WHERE id IN (?)")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	total, err := r.Sweep()
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 purged, got %d", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestReaper_StartStop(t *testing.T) {
	gormDB, _, sqlDB := newMockDB(t)
	defer func() { _ = sqlDB.Close() }()

	ms := NewMomentService(&Service{DB: gormDB, TablePrefix: "mo_"})
	r := NewReaper(ms, time.Hour) // 周期足够长，循环内不会真的跑清扫

	r.Start()
	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	// Stop 幂等
	r.Stop()
}
