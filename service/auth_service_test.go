package service

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func TestAuthService_ExtractToken_BearerFirst(t *testing.T) {
	a := NewAuthService(nil)

	req := &http.Request{Header: make(http.Header), URL: &url.URL{RawQuery: "token=q"}}
	req.Header.Set("Authorization", "Bearer headerToken")

	got := a.ExtractToken(req)
	if got != "headerToken" {
		t.Fatalf("expected headerToken, got %q", got)
	}
}

func TestAuthService_ExtractToken_QueryFallback(t *testing.T) {
	a := NewAuthService(nil)

	u, _ := url.Parse("http://example.com/path?token=queryToken")
	req := &http.Request{Header: make(http.Header), URL: u}

	got := a.ExtractToken(req)
	if got != "queryToken" {
		t.Fatalf("expected queryToken, got %q", got)
	}
}

func TestAuthService_AuthenticateAndRevoke(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	a := NewAuthService(rdb)
	ctx := context.Background()

	token, err := a.token.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if err := a.token.StoreToken(ctx, token, 42, 0); err != nil {
		t.Fatalf("StoreToken: %v", err)
	}

	uid, err := a.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if uid != 42 {
		t.Fatalf("expected uid 42, got %d", uid)
	}

	if err := a.RevokeToken(ctx, token); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	if _, err := a.Authenticate(ctx, token); err == nil {
		t.Fatal("expected error after revoke")
	}
}

func TestAuthService_Authenticate_EmptyToken(t *testing.T) {
	a := NewAuthService(nil)
	if _, err := a.Authenticate(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty token")
	}
}
